package model

import "time"

type NotificationType string

const (
	NotificationOrderPlaced    NotificationType = "ORDER_PLACED"
	NotificationOrderPreparing NotificationType = "ORDER_PREPARING"
	NotificationOrderReady     NotificationType = "ORDER_READY"
	NotificationOrderPickedUp  NotificationType = "ORDER_PICKED_UP"
	NotificationRating         NotificationType = "RATING"
)

type Notification struct {
	ID         string           `json:"id"`
	UserID     string           `json:"user_id"`
	OrderID    string           `json:"order_id"`
	StoreName  string           `json:"store_name"`
	Type       NotificationType `json:"type"`
	Title      string           `json:"title"`
	Message    string           `json:"message"`
	ShowRating bool             `json:"show_rating"`
	Read       bool             `json:"read"`
	CreatedAt  time.Time        `json:"created_at"`
}
