package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"handler", "method", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"handler", "method"},
	)

	// SettlementsTotal counts payment notifications by outcome:
	// created, duplicate, ignored, rejected, failed.
	SettlementsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "settlements_total",
			Help: "Total number of payment notifications by outcome",
		},
		[]string{"outcome"},
	)

	NotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_total",
			Help: "Total number of post-settlement notifications by kind and result",
		},
		[]string{"kind", "result"},
	)

	NotifyQueueDroppedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "notify_queue_dropped_total",
			Help: "Total number of notification jobs dropped because the queue was full",
		},
	)
)

var once sync.Once

// Register registers all Prometheus metrics with the default registry. Safe to call more than once.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(HTTPRequestsTotal)
		prometheus.MustRegister(HTTPRequestDuration)
		prometheus.MustRegister(SettlementsTotal)
		prometheus.MustRegister(NotificationsTotal)
		prometheus.MustRegister(NotifyQueueDroppedTotal)
	})
}
