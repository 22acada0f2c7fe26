package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Prometheus metrics for the loot tracker
var (
	EventsAcceptedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "loot_events_accepted_total",
			Help: "Total number of chat events accepted as loot events",
		},
	)

	EventsRejectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loot_events_rejected_total",
			Help: "Total number of chat events rejected by the gate",
		},
		[]string{"reason"},
	)

	RollsOpenedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "loot_rolls_opened_total",
			Help: "Total number of roll sessions opened",
		},
	)

	RollsResolvedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loot_rolls_resolved_total",
			Help: "Total number of roll sessions resolved",
		},
		[]string{"state"},
	)

	SinkFlushesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loot_sink_flushes_total",
			Help: "Total number of sink flushes",
		},
		[]string{"sink", "status"},
	)

	SinkQueueDepth = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "loot_sink_queue_depth",
			Help: "Number of events waiting in a sink queue",
		},
		[]string{"sink"},
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)
)

// Metrics manages the service metrics registry
type Metrics struct {
	registry *prometheus.Registry
}

// NewMetrics creates a new metrics instance
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	registry.MustRegister(EventsAcceptedTotal)
	registry.MustRegister(EventsRejectedTotal)
	registry.MustRegister(RollsOpenedTotal)
	registry.MustRegister(RollsResolvedTotal)
	registry.MustRegister(SinkFlushesTotal)
	registry.MustRegister(SinkQueueDepth)
	registry.MustRegister(HTTPRequestsTotal)
	registry.MustRegister(HTTPRequestDuration)

	logrus.Info("Prometheus metrics initialized")

	return &Metrics{
		registry: registry,
	}
}

// Handler returns the Prometheus handler
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware instruments HTTP requests
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		statusCode := c.Writer.Status()

		HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(statusCode),
		).Inc()

		HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}
