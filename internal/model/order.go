package model

import (
	"encoding/json"
	"strings"
	"time"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pendente"
	StatusPreparing OrderStatus = "em_preparo"
	StatusReady     OrderStatus = "pronto"
	StatusDelivered OrderStatus = "entregue"
	StatusPickedUp  OrderStatus = "retirado"
	StatusCancelled OrderStatus = "cancelado"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPreparing, StatusReady, StatusDelivered, StatusPickedUp, StatusCancelled:
		return true
	}
	return false
}

// Final reports whether no further status change is expected.
func (s OrderStatus) Final() bool {
	return s == StatusDelivered || s == StatusPickedUp || s == StatusCancelled
}

// Summary status shown in order lists.
const (
	SummaryInProgress = "IN_PROGRESS"
	SummaryCompleted  = "COMPLETED"
	SummaryCancelled  = "CANCELLED"
)

func (s OrderStatus) Summary() string {
	switch OrderStatus(strings.ToLower(string(s))) {
	case StatusReady, StatusDelivered, StatusPickedUp:
		return SummaryCompleted
	case StatusCancelled:
		return SummaryCancelled
	default:
		return SummaryInProgress
	}
}

func (s OrderStatus) Label() string {
	switch OrderStatus(strings.ToLower(string(s))) {
	case StatusReady:
		return "Pronto para retirada"
	case StatusDelivered, StatusPickedUp:
		return "Pedido concluído"
	case StatusCancelled:
		return "Pedido cancelado"
	default:
		return "Em preparo"
	}
}

const (
	PaymentPending = "pendente"
	PaymentPaid    = "pago"
)

const (
	MethodPix    = "PIX"
	MethodCredit = "CREDITO"
	MethodDebit  = "DEBITO"
)

func PaymentMethodLabel(method string) string {
	switch strings.ToUpper(method) {
	case MethodPix:
		return "PIX"
	case MethodCredit:
		return "Cartão de Crédito"
	case MethodDebit:
		return "Cartão de Débito"
	default:
		return method
	}
}

type Order struct {
	ID            string      `json:"id"`
	UserID        string      `json:"user_id"`
	StoreID       string      `json:"store_id"`
	PaymentTxID   string      `json:"payment_txid,omitempty"`
	PixCopyPaste  string      `json:"pix_copy_paste,omitempty"`
	QRCode        string      `json:"qr_code,omitempty"`
	PaymentMethod string      `json:"payment_method"`
	PaymentStatus string      `json:"payment_status"`
	Status        OrderStatus `json:"status"`
	Total         float64     `json:"total"`
	Items         []OrderItem `json:"items,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	PaidAt        *time.Time  `json:"paid_at,omitempty"`
}

type OrderItem struct {
	ProductID  string  `json:"product_id"`
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	TotalPrice float64 `json:"total_price"`
}

// Number is the short code customers read out at the counter.
func (o Order) Number() string {
	id := strings.ReplaceAll(o.ID, "-", "")
	if len(id) > 8 {
		id = id[len(id)-8:]
	}
	return strings.ToUpper(id)
}

func (o Order) CanRate() bool {
	switch o.Status {
	case StatusReady, StatusDelivered, StatusPickedUp:
		return true
	}
	return false
}

func (o Order) Paid() bool {
	return o.PaymentStatus == PaymentPaid
}

func (o Order) MarshalJSON() ([]byte, error) {
	type Alias Order
	var paidAt string
	if o.PaidAt != nil {
		paidAt = o.PaidAt.UTC().Format(time.RFC3339)
	}
	return json.Marshal(&struct {
		Number    string `json:"number"`
		CreatedAt string `json:"created_at"`
		PaidAt    string `json:"paid_at,omitempty"`
		*Alias
	}{
		Number:    o.Number(),
		CreatedAt: o.CreatedAt.UTC().Format(time.RFC3339),
		PaidAt:    paidAt,
		Alias:     (*Alias)(&o),
	})
}

// StatusEntry is the slice of an order the status watcher needs.
type StatusEntry struct {
	OrderID string
	UserID  string
	StoreID string
	Status  OrderStatus
}
