package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"linecut/internal/model"
)

const defaultStoreName = "Estabelecimento"

type SnapshotSource interface {
	StatusSnapshot(ctx context.Context, since time.Time, userID string) ([]model.StatusEntry, error)
}

type StoreNamer interface {
	StoreName(ctx context.Context, storeID string) (string, error)
}

type Notifier interface {
	Create(ctx context.Context, kind model.NotificationType, userID, orderID, storeName string) error
}

type Options struct {
	Interval    time.Duration
	Window      time.Duration
	RatingDelay time.Duration
	// UserID limits the watcher to one user's orders. Empty watches everyone.
	UserID string
}

// OrderStatusWorker polls recent orders and notifies their owners when the
// status changes.
type OrderStatusWorker struct {
	orders   SnapshotSource
	stores   StoreNamer
	notifier Notifier
	states   StatusStore

	interval    time.Duration
	window      time.Duration
	ratingDelay time.Duration
	userID      string

	now  func() time.Time
	wg   sync.WaitGroup
	done chan struct{}
}

func NewOrderStatusWorker(orders SnapshotSource, stores StoreNamer, notifier Notifier, states StatusStore, opts Options) *OrderStatusWorker {
	w := &OrderStatusWorker{
		orders:      orders,
		stores:      stores,
		notifier:    notifier,
		states:      states,
		interval:    opts.Interval,
		window:      opts.Window,
		ratingDelay: opts.RatingDelay,
		userID:      opts.UserID,
		now:         time.Now,
		done:        make(chan struct{}),
	}
	if w.interval <= 0 {
		w.interval = 5 * time.Second
	}
	if w.window <= 0 {
		w.window = 24 * time.Hour
	}
	if w.ratingDelay <= 0 {
		w.ratingDelay = time.Second
	}
	return w
}

// Start blocks until ctx is done. It may be called once.
func (w *OrderStatusWorker) Start(ctx context.Context) {
	defer close(w.done)
	slog.Info("starting order status worker", "interval", w.interval, "window", w.window)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("order status worker stopped")
			return
		case <-ticker.C:
			if err := w.processSnapshot(ctx); err != nil {
				tickFailures.Inc()
				slog.Error("order status check failed", "error", err)
			}
		}
	}
}

// Done is closed once Start has returned.
func (w *OrderStatusWorker) Done() <-chan struct{} {
	return w.done
}

// Stop waits for notifications still being sent. When Start is running, call
// it only after Done is closed so no tick can add work concurrently.
func (w *OrderStatusWorker) Stop() {
	w.wg.Wait()
}

func (w *OrderStatusWorker) processSnapshot(ctx context.Context) error {
	entries, err := w.orders.StatusSnapshot(ctx, w.now().Add(-w.window), w.userID)
	if err != nil {
		return fmt.Errorf("get status snapshot: %w", err)
	}

	keep := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		keep[e.OrderID] = struct{}{}

		prev, seen, err := w.states.Swap(ctx, e.OrderID, e.Status)
		if err != nil {
			slog.Error("failed to record order status", "order_id", e.OrderID, "error", err)
			continue
		}
		if !seen || prev == e.Status {
			continue
		}

		slog.Info("order status changed", "order_id", e.OrderID, "from", prev, "to", e.Status)
		statusChanges.WithLabelValues(string(e.Status)).Inc()

		w.wg.Add(1)
		go func(e model.StatusEntry) {
			defer w.wg.Done()
			w.handleChange(ctx, e)
		}(e)
	}

	if err := w.states.Retain(ctx, keep); err != nil {
		slog.Warn("failed to prune order statuses", "error", err)
	}
	return nil
}

func (w *OrderStatusWorker) handleChange(ctx context.Context, e model.StatusEntry) {
	var kind model.NotificationType
	switch e.Status {
	case model.StatusPreparing:
		kind = model.NotificationOrderPreparing
	case model.StatusReady:
		kind = model.NotificationOrderReady
	case model.StatusDelivered, model.StatusPickedUp:
		kind = model.NotificationOrderPickedUp
	default:
		return
	}

	storeName := w.storeName(ctx, e.StoreID)
	w.notify(ctx, kind, e, storeName)

	if kind != model.NotificationOrderPickedUp {
		return
	}

	timer := time.NewTimer(w.ratingDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return
	case <-timer.C:
	}
	w.notify(ctx, model.NotificationRating, e, storeName)
}

func (w *OrderStatusWorker) storeName(ctx context.Context, storeID string) string {
	name, err := w.stores.StoreName(ctx, storeID)
	if err != nil || name == "" {
		if err != nil && !errors.Is(err, context.Canceled) {
			slog.Warn("failed to resolve store name", "store_id", storeID, "error", err)
		}
		return defaultStoreName
	}
	return name
}

func (w *OrderStatusWorker) notify(ctx context.Context, kind model.NotificationType, e model.StatusEntry, storeName string) {
	if err := w.notifier.Create(ctx, kind, e.UserID, e.OrderID, storeName); err != nil {
		slog.Error("failed to create notification", "order_id", e.OrderID, "type", kind, "error", err)
		return
	}
	notificationsSent.WithLabelValues(string(kind)).Inc()
}
