package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"linecut/internal/database"
	"linecut/internal/model"
	"linecut/internal/notify"
)

type template struct {
	title      string
	message    func(storeName string) string
	showRating bool
}

var templates = map[model.NotificationType]template{
	model.NotificationOrderPlaced: {
		title:   "Pedido realizado",
		message: func(store string) string { return "Recebemos seu pedido na " + store + ". Em breve ele será preparado!" },
	},
	model.NotificationOrderPreparing: {
		title:   "Pedido em preparo",
		message: func(store string) string { return "Seu pedido na " + store + " está sendo preparado!" },
	},
	model.NotificationOrderReady: {
		title:   "Pedido pronto para retirada",
		message: func(string) string { return "Seu pedido está pronto! Retire no balcão quando quiser." },
	},
	model.NotificationOrderPickedUp: {
		title:   "Pedido retirado",
		message: func(store string) string { return "Você retirou seu pedido na " + store + ". Aproveite sua refeição!" },
	},
	model.NotificationRating: {
		title:      "Avalie seu pedido",
		message:    func(string) string { return "O que achou do seu pedido? Sua opinião é muito importante!" },
		showRating: true,
	},
}

// BuildNotification fills title, message and flags for kind.
func BuildNotification(kind model.NotificationType, userID, orderID, storeName string) (model.Notification, error) {
	tpl, ok := templates[kind]
	if !ok {
		return model.Notification{}, fmt.Errorf("unknown notification type %q", kind)
	}
	return model.Notification{
		ID:         uuid.NewString(),
		UserID:     userID,
		OrderID:    orderID,
		StoreName:  storeName,
		Type:       kind,
		Title:      tpl.title,
		Message:    tpl.message(storeName),
		ShowRating: tpl.showRating,
	}, nil
}

type NotificationService struct {
	db     *sql.DB
	pusher notify.Pusher
	now    func() time.Time
}

func NewNotificationService(db *sql.DB, pusher notify.Pusher) *NotificationService {
	return &NotificationService{db: db, pusher: pusher, now: time.Now}
}

// Create stores a notification for the user and pushes it to their devices.
// Push failures are logged and do not fail the call.
func (s *NotificationService) Create(ctx context.Context, kind model.NotificationType, userID, orderID, storeName string) error {
	n, err := BuildNotification(kind, userID, orderID, storeName)
	if err != nil {
		return err
	}
	n.CreatedAt = s.now()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO notifications (id, user_id, order_id, store_name, type, title, message, show_rating, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, FALSE, $9)
	`, n.ID, n.UserID, n.OrderID, n.StoreName, string(n.Type), n.Title, n.Message, n.ShowRating, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}

	s.push(ctx, n)
	return nil
}

func (s *NotificationService) push(ctx context.Context, n model.Notification) {
	tokens, err := s.deviceTokens(ctx, n.UserID)
	if err != nil {
		slog.Error("failed to load device tokens", "user_id", n.UserID, "error", err)
		return
	}
	if len(tokens) == 0 {
		return
	}

	stale, err := s.pusher.Push(ctx, tokens, notify.Message{
		Title: n.Title,
		Body:  n.Message,
		Data: map[string]string{
			"notification_id": n.ID,
			"order_id":        n.OrderID,
			"type":            string(n.Type),
		},
	})
	if err != nil {
		slog.Error("push failed", "user_id", n.UserID, "type", n.Type, "error", err)
	}
	for _, token := range stale {
		if err := s.RemoveDevice(ctx, n.UserID, token); err != nil {
			slog.Warn("failed to drop stale device token", "user_id", n.UserID, "error", err)
		}
	}
}

func (s *NotificationService) deviceTokens(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT token FROM device_tokens WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("query device tokens: %w", err)
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan device token: %w", err)
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}

type NotificationView struct {
	model.Notification
	Time string `json:"time"`
}

// List returns the user's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userID string) ([]NotificationView, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, order_id, store_name, type, title, message, show_rating, read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	now := s.now()
	var out []NotificationView
	for rows.Next() {
		var n model.Notification
		var kind string
		if err := rows.Scan(&n.ID, &n.UserID, &n.OrderID, &n.StoreName, &kind, &n.Title, &n.Message, &n.ShowRating, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		n.Type = model.NotificationType(kind)
		out = append(out, NotificationView{Notification: n, Time: RelativeTime(n.CreatedAt, now)})
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}
	return out, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		if database.IsInvalidInput(err) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("mark read: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (s *NotificationService) DeleteAll(ctx context.Context, userID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM notifications WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete notifications: %w", err)
	}
	return nil
}

// RegisterDevice binds a push token to the user. A token moves to whoever
// registered it last.
func (s *NotificationService) RegisterDevice(ctx context.Context, userID, token string) error {
	if token == "" {
		return invalid("Token do dispositivo obrigatório")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO device_tokens (token, user_id) VALUES ($1, $2)
		ON CONFLICT (token) DO UPDATE SET user_id = EXCLUDED.user_id, created_at = NOW()
	`, token, userID)
	if err != nil {
		return fmt.Errorf("register device: %w", err)
	}
	return nil
}

func (s *NotificationService) RemoveDevice(ctx context.Context, userID, token string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM device_tokens WHERE token = $1 AND user_id = $2`, token, userID)
	if err != nil {
		return fmt.Errorf("remove device: %w", err)
	}
	return nil
}
