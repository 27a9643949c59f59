package help

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	faq, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "Dúvidas frequentes (FAQ)", faq.Title)
	require.Len(t, faq.Entries, 4)
	assert.Equal(t, 1, faq.Entries[0].Number)
	assert.Equal(t, "Posso alterar meu pedido depois de enviar?", faq.Entries[0].Question)
	assert.Equal(t, "Sim! Você será avisado por push.", faq.Entries[2].Answer)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("entries: [unclosed"))
	assert.Error(t, err)
}
