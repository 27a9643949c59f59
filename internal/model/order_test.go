package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderStatusSummary(t *testing.T) {
	assert.Equal(t, SummaryInProgress, StatusPending.Summary())
	assert.Equal(t, SummaryInProgress, StatusPreparing.Summary())
	assert.Equal(t, SummaryCompleted, StatusReady.Summary())
	assert.Equal(t, SummaryCompleted, StatusDelivered.Summary())
	assert.Equal(t, SummaryCancelled, StatusCancelled.Summary())
	assert.Equal(t, SummaryCompleted, OrderStatus("PRONTO").Summary())
	assert.Equal(t, SummaryInProgress, OrderStatus("whatever").Summary())
}

func TestOrderStatusLabel(t *testing.T) {
	assert.Equal(t, "Em preparo", StatusPending.Label())
	assert.Equal(t, "Em preparo", StatusPreparing.Label())
	assert.Equal(t, "Pronto para retirada", StatusReady.Label())
	assert.Equal(t, "Pedido concluído", StatusDelivered.Label())
	assert.Equal(t, "Pedido cancelado", StatusCancelled.Label())
}

func TestOrderStatusValidAndFinal(t *testing.T) {
	assert.True(t, StatusPreparing.Valid())
	assert.False(t, OrderStatus("shipped").Valid())
	assert.True(t, StatusDelivered.Final())
	assert.True(t, StatusCancelled.Final())
	assert.False(t, StatusReady.Final())
}

func TestPaymentMethodLabel(t *testing.T) {
	assert.Equal(t, "PIX", PaymentMethodLabel("pix"))
	assert.Equal(t, "Cartão de Crédito", PaymentMethodLabel("CREDITO"))
	assert.Equal(t, "Cartão de Débito", PaymentMethodLabel("debito"))
	assert.Equal(t, "VR", PaymentMethodLabel("VR"))
}

func TestOrderNumberAndCanRate(t *testing.T) {
	o := Order{ID: "4f9c2a8e-1b2c-4d5e-8f90-a1b2c3d4e5f6", Status: StatusPreparing}
	assert.Equal(t, "C3D4E5F6", o.Number())
	assert.False(t, o.CanRate())

	o.Status = StatusReady
	assert.True(t, o.CanRate())

	assert.Equal(t, "ABC", Order{ID: "abc"}.Number())
}

func TestOrderMarshalJSON(t *testing.T) {
	created := time.Date(2025, 10, 18, 22, 48, 2, 0, time.UTC)
	o := Order{ID: "4f9c2a8e-1b2c-4d5e-8f90-a1b2c3d4e5f6", Status: StatusPending, CreatedAt: created}

	raw, err := json.Marshal(o)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "2025-10-18T22:48:02Z", out["created_at"])
	assert.Equal(t, "C3D4E5F6", out["number"])
	assert.NotContains(t, out, "paid_at")
}

func TestRatingAverage(t *testing.T) {
	r := Rating{Service: 5, Quality: 4, Speed: 4}
	assert.InDelta(t, 4.333, r.Average(), 0.001)
}
