package mail

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	msg := NewMessage("no-reply@linecut.com.br", "ana@example.com", "Redefinição de senha", "<p>oi</p>")

	assert.Equal(t, []string{"ana@example.com"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"Redefinição de senha"}, msg.GetHeader("Subject"))

	var buf bytes.Buffer
	_, err := msg.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "no-reply@linecut.com.br")
	assert.Contains(t, buf.String(), "text/html")
}

func TestSMTPMailerRespectsCancelledContext(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{Host: "localhost", Port: 2525, From: "no-reply@linecut.com.br"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, m.Send(ctx, "ana@example.com", "s", "b"), context.Canceled)
}

func TestLogMailerOmitsBody(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer slog.SetDefault(prev)

	body := `<a href="https://linecut.com.br/redefinir-senha?token=3f9a1c">Redefinir</a>`
	require.NoError(t, LogMailer{}.Send(context.Background(), "ana@example.com", "Redefinição de senha", body))

	assert.Contains(t, buf.String(), "ana@example.com")
	assert.NotContains(t, buf.String(), "3f9a1c")
}
