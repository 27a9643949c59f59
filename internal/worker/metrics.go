package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	statusChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "linecut",
			Subsystem: "order_watcher",
			Name:      "status_changes_total",
			Help:      "Order status changes observed, by new status",
		},
		[]string{"status"},
	)

	notificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "linecut",
			Subsystem: "order_watcher",
			Name:      "notifications_total",
			Help:      "Notifications created by the watcher, by type",
		},
		[]string{"type"},
	)

	tickFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "linecut",
			Subsystem: "order_watcher",
			Name:      "tick_failures_total",
			Help:      "Watcher ticks that failed to read the order snapshot",
		},
	)
)
