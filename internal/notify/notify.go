// Package notify delivers notifications to user devices.
package notify

import (
	"context"
	"log/slog"
)

// ChannelOrders is the Android notification channel for order updates.
const ChannelOrders = "order_updates"

type Message struct {
	Title string
	Body  string
	Data  map[string]string
}

// Pusher sends msg to every token. Tokens the provider reports as no longer
// registered come back in stale so the caller can forget them.
type Pusher interface {
	Push(ctx context.Context, tokens []string, msg Message) (stale []string, err error)
}

// LogPusher only logs. It stands in when no push provider is configured.
type LogPusher struct{}

func (LogPusher) Push(_ context.Context, tokens []string, msg Message) ([]string, error) {
	slog.Info("push notification", "devices", len(tokens), "title", msg.Title, "body", msg.Body)
	return nil, nil
}
