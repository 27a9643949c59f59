package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildMulticast(t *testing.T) {
	msg := Message{
		Title: "Pedido pronto para retirada",
		Body:  "Seu pedido está pronto! Retire no balcão quando quiser.",
		Data:  map[string]string{"order_id": "o1", "type": "ORDER_READY"},
	}

	m := buildMulticast([]string{"t1", "t2"}, msg)

	assert.Equal(t, []string{"t1", "t2"}, m.Tokens)
	assert.Equal(t, msg.Title, m.Notification.Title)
	assert.Equal(t, msg.Body, m.Notification.Body)
	assert.Equal(t, "ORDER_READY", m.Data["type"])
	assert.Equal(t, "high", m.Android.Priority)
	assert.Equal(t, ChannelOrders, m.Android.Notification.ChannelID)
}

func TestLogPusher(t *testing.T) {
	stale, err := LogPusher{}.Push(context.Background(), []string{"t1"}, Message{Title: "x"})
	assert.NoError(t, err)
	assert.Empty(t, stale)
}
