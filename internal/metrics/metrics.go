// Package metrics exposes Prometheus instrumentation for the notification
// pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// NotificationsTotal counts pipeline outcomes per notification kind.
	// status is one of "sent", "rejected", "invalid", "no_recipients",
	// "not_configured".
	NotificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notimail_notifications_total",
		Help: "Notification pipeline outcomes by kind and status.",
	}, []string{"kind", "status"})

	// DispatchDuration observes the latency of delivery-provider calls.
	DispatchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "notimail_dispatch_duration_seconds",
		Help:    "Latency of delivery provider submissions.",
		Buckets: prometheus.DefBuckets,
	})
)
