package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"linecut/internal/database"
	"linecut/internal/model"
)

// ChargeCreator issues PIX charges.
type ChargeCreator interface {
	CreateCharge(ctx context.Context, total float64, key string) (*model.PixResponse, error)
}

// Notifier records a user notification.
type Notifier interface {
	Create(ctx context.Context, kind model.NotificationType, userID, orderID, storeName string) error
}

type OrderService struct {
	db       *sql.DB
	pix      ChargeCreator
	notifier Notifier
}

func NewOrderService(db *sql.DB, pix ChargeCreator, notifier Notifier) *OrderService {
	return &OrderService{db: db, pix: pix, notifier: notifier}
}

type CreateOrderInput struct {
	StoreID       string           `json:"store_id" validate:"required"`
	PaymentMethod string           `json:"payment_method" validate:"required,oneof=PIX CREDITO DEBITO"`
	Items         []OrderItemInput `json:"items" validate:"required,min=1,dive"`
}

type OrderItemInput struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"min=1"`
}

var orderMessages = map[string]string{
	"StoreID":       "Estabelecimento obrigatório",
	"PaymentMethod": "Forma de pagamento inválida",
	"Items":         "Pedido sem itens",
	"ProductID":     "Produto obrigatório",
	"Quantity":      "Quantidade inválida",
}

func toCents(v float64) int64 {
	return int64(math.Round(v * 100))
}

// Create prices the items from the store's catalog, opens a PIX charge when
// paying by PIX and stores the order.
func (s *OrderService) Create(ctx context.Context, userID string, in CreateOrderInput) (*model.Order, error) {
	in.PaymentMethod = strings.ToUpper(strings.TrimSpace(in.PaymentMethod))
	if err := checkStruct(&in, orderMessages, "Pedido inválido"); err != nil {
		return nil, err
	}

	var storeName, pixKey string
	err := s.db.QueryRowContext(ctx, `SELECT name, pix_key FROM stores WHERE id = $1`, in.StoreID).Scan(&storeName, &pixKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStoreNotFound
		}
		return nil, fmt.Errorf("get store: %w", err)
	}

	catalog, err := s.catalog(ctx, in.StoreID)
	if err != nil {
		return nil, err
	}

	order := model.Order{
		ID:            uuid.NewString(),
		UserID:        userID,
		StoreID:       in.StoreID,
		PaymentMethod: in.PaymentMethod,
		PaymentStatus: model.PaymentPending,
		Status:        model.StatusPending,
	}
	var totalCents int64
	for _, it := range in.Items {
		p, ok := catalog[it.ProductID]
		if !ok {
			return nil, ErrProductNotFound
		}
		line := toCents(p.Price) * int64(it.Quantity)
		totalCents += line
		order.Items = append(order.Items, model.OrderItem{
			ProductID:  p.ID,
			Name:       p.Name,
			Quantity:   it.Quantity,
			UnitPrice:  p.Price,
			TotalPrice: float64(line) / 100,
		})
	}
	order.Total = float64(totalCents) / 100

	if order.PaymentMethod == model.MethodPix {
		if pixKey == "" {
			return nil, ErrStoreNoPixKey
		}
		charge, err := s.pix.CreateCharge(ctx, order.Total, pixKey)
		if err != nil {
			slog.Error("pix charge failed", "store_id", in.StoreID, "error", err)
			return nil, fmt.Errorf("%w: %v", ErrPaymentGateway, err)
		}
		order.PaymentTxID = charge.CobData.TxID
		order.PixCopyPaste = charge.CobData.PixCopiaECola
		order.QRCode = charge.QRCodeImage
	}

	if err := s.insert(ctx, &order); err != nil {
		return nil, err
	}

	if err := s.notifier.Create(ctx, model.NotificationOrderPlaced, userID, order.ID, storeName); err != nil {
		slog.Error("failed to create order notification", "order_id", order.ID, "error", err)
	}

	return &order, nil
}

func (s *OrderService) catalog(ctx context.Context, storeID string) (map[string]model.Product, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, price FROM products WHERE store_id = $1`, storeID)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := make(map[string]model.Product)
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		p.StoreID = storeID
		products[p.ID] = p
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}
	return products, nil
}

func (s *OrderService) insert(ctx context.Context, o *model.Order) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (id, user_id, store_id, payment_txid, pix_copy_paste, qr_code, payment_method, payment_status, status, total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at
	`, o.ID, o.UserID, o.StoreID, o.PaymentTxID, o.PixCopyPaste, o.QRCode, o.PaymentMethod, o.PaymentStatus, string(o.Status), o.Total,
	).Scan(&o.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, it := range o.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, name, quantity, unit_price, total_price)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, o.ID, it.ProductID, it.Name, it.Quantity, it.UnitPrice, it.TotalPrice)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// OrderSummary is one row of the order history.
type OrderSummary struct {
	ID            string   `json:"id"`
	Number        string   `json:"number"`
	Date          string   `json:"date"`
	StoreID       string   `json:"store_id"`
	StoreName     string   `json:"store_name"`
	StoreCategory string   `json:"store_category"`
	StoreImage    string   `json:"store_image,omitempty"`
	Status        string   `json:"status"`
	Total         float64  `json:"total"`
	Rating        *float64 `json:"rating,omitempty"`
	CanRate       bool     `json:"can_rate"`
}

func (s *OrderService) ListByUser(ctx context.Context, userID string) ([]OrderSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT o.id, o.store_id, o.status, o.total, o.created_at,
		       COALESCE(st.name, ''), COALESCE(st.category, ''), COALESCE(st.image_url, ''),
		       r.service, r.quality, r.speed
		FROM orders o
		LEFT JOIN stores st ON st.id = o.store_id
		LEFT JOIN order_ratings r ON r.order_id = o.id
		WHERE o.user_id = $1
		ORDER BY o.created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var out []OrderSummary
	for rows.Next() {
		var (
			o                       model.Order
			status                  string
			name, category, image   string
			service, quality, speed sql.NullInt64
		)
		if err := rows.Scan(&o.ID, &o.StoreID, &status, &o.Total, &o.CreatedAt,
			&name, &category, &image, &service, &quality, &speed); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		o.Status = model.OrderStatus(status)

		sum := OrderSummary{
			ID:            o.ID,
			Number:        o.Number(),
			Date:          FormatOrderDate(o.CreatedAt),
			StoreID:       o.StoreID,
			StoreName:     fallback(name, fallbackStoreName),
			StoreCategory: fallback(category, fallbackStoreCategory),
			StoreImage:    image,
			Status:        o.Status.Summary(),
			Total:         o.Total,
			CanRate:       o.CanRate(),
		}
		if service.Valid && quality.Valid && speed.Valid {
			avg := model.Rating{Service: int(service.Int64), Quality: int(quality.Int64), Speed: int(speed.Int64)}.Average()
			sum.Rating = &avg
		}
		out = append(out, sum)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}
	return out, nil
}

func fallback(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

// OrderDetail is an order with the labels the detail screen shows.
type OrderDetail struct {
	Order        model.Order `json:"order"`
	StoreName    string      `json:"store_name"`
	Date         string      `json:"date"`
	StatusLabel  string      `json:"status_label"`
	PaymentLabel string      `json:"payment_label"`
	MethodLabel  string      `json:"method_label"`
}

// Get returns the order only when it belongs to userID.
func (s *OrderService) Get(ctx context.Context, userID, orderID string) (*OrderDetail, error) {
	var (
		o         model.Order
		status    string
		storeName string
		paidAt    sql.NullTime
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT o.id, o.user_id, o.store_id, o.payment_txid, o.pix_copy_paste, o.qr_code,
		       o.payment_method, o.payment_status, o.status, o.total, o.created_at, o.paid_at,
		       COALESCE(st.name, '')
		FROM orders o
		LEFT JOIN stores st ON st.id = o.store_id
		WHERE o.id = $1 AND o.user_id = $2
	`, orderID, userID).Scan(&o.ID, &o.UserID, &o.StoreID, &o.PaymentTxID, &o.PixCopyPaste, &o.QRCode,
		&o.PaymentMethod, &o.PaymentStatus, &status, &o.Total, &o.CreatedAt, &paidAt, &storeName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || database.IsInvalidInput(err) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	o.Status = model.OrderStatus(status)
	if paidAt.Valid {
		o.PaidAt = &paidAt.Time
	}

	o.Items, err = s.items(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	if len(o.Items) == 0 {
		o.Items = []model.OrderItem{{Name: "Itens do pedido", Quantity: 1, UnitPrice: o.Total, TotalPrice: o.Total}}
	}

	payment := "pendente"
	if o.Paid() {
		payment = "aprovado"
	}

	return &OrderDetail{
		Order:        o,
		StoreName:    fallback(storeName, fallbackStoreName),
		Date:         FormatOrderDate(o.CreatedAt),
		StatusLabel:  o.Status.Label(),
		PaymentLabel: payment,
		MethodLabel:  model.PaymentMethodLabel(o.PaymentMethod),
	}, nil
}

func (s *OrderService) items(ctx context.Context, orderID string) ([]model.OrderItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT product_id, name, quantity, unit_price, total_price
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	var items []model.OrderItem
	for rows.Next() {
		var it model.OrderItem
		if err := rows.Scan(&it.ProductID, &it.Name, &it.Quantity, &it.UnitPrice, &it.TotalPrice); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, it)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}
	return items, nil
}

// UpdateStatus moves an order to status. Orders in a final status stay put.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) (err error) {
	status = model.OrderStatus(strings.ToLower(strings.TrimSpace(string(status))))
	if !status.Valid() {
		return ErrInvalidStatus
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var current string
	err = tx.QueryRowContext(ctx, `SELECT status FROM orders WHERE id = $1 FOR UPDATE`, orderID).Scan(&current)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || database.IsInvalidInput(err) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("lock order: %w", err)
	}
	if model.OrderStatus(current).Final() {
		return ErrOrderFinalized
	}

	_, err = tx.ExecContext(ctx, `UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`, string(status), orderID)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	slog.Info("order status updated", "order_id", orderID, "from", current, "to", status)
	return nil
}

// MarkPaid confirms the PIX payment identified by txid.
func (s *OrderService) MarkPaid(ctx context.Context, txid string) error {
	txid = strings.TrimSpace(txid)
	if txid == "" {
		return ErrOrderNotFound
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE orders
		SET payment_status = $1, paid_at = COALESCE(paid_at, NOW()), updated_at = NOW()
		WHERE payment_txid = $2
	`, model.PaymentPaid, txid)
	if err != nil {
		return fmt.Errorf("mark paid: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// StatusSnapshot lists orders touched since since. An empty userID means all
// users.
func (s *OrderService) StatusSnapshot(ctx context.Context, since time.Time, userID string) ([]model.StatusEntry, error) {
	query := `SELECT id, user_id, store_id, status FROM orders WHERE updated_at >= $1`
	args := []any{since}
	if userID != "" {
		query += ` AND user_id = $2`
		args = append(args, userID)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query order statuses: %w", err)
	}
	defer rows.Close()

	var entries []model.StatusEntry
	for rows.Next() {
		var e model.StatusEntry
		var status string
		if err := rows.Scan(&e.OrderID, &e.UserID, &e.StoreID, &status); err != nil {
			return nil, fmt.Errorf("scan order status: %w", err)
		}
		e.Status = model.OrderStatus(status)
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}
	return entries, nil
}
