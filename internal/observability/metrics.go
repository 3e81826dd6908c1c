package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "whisper_http_requests_total",
			Help: "Total number of HTTP requests processed by the whisper service.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "whisper_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
	whispersCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "whisper_whispers_created_total",
			Help: "Total number of whispers created, by category.",
		},
		[]string{"category"},
	)
	sharesCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "whisper_shares_created_total",
			Help: "Total number of share events created.",
		},
	)
	shareResolutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "whisper_share_resolutions_total",
			Help: "Total number of share code resolutions, by outcome.",
		},
		[]string{"outcome"},
	)
	shareCodeRetriesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "whisper_sharecode_retries_total",
			Help: "Total number of share code generation retries after a collision.",
		},
	)
	wsActiveConnections = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "whisper_ws_active_connections",
			Help: "Number of active websocket connections.",
		},
		[]string{"kind"},
	)
	wsEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "whisper_ws_events_total",
			Help: "Total number of websocket events.",
		},
		[]string{"kind", "event"},
	)
	amqpPublishErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "whisper_amqp_publish_errors_total",
			Help: "Total number of AMQP publish errors.",
		},
	)
	sharesSweptTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "whisper_shares_swept_total",
			Help: "Total number of expired share records removed by the retention sweep.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		whispersCreatedTotal,
		sharesCreatedTotal,
		shareResolutionsTotal,
		shareCodeRetriesTotal,
		wsActiveConnections,
		wsEventsTotal,
		amqpPublishErrorsTotal,
		sharesSweptTotal,
	)
}

func HTTPMetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		status := c.Writer.Status()

		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

func IncWhisperCreated(category string) {
	whispersCreatedTotal.WithLabelValues(category).Inc()
}

func IncShareCreated() {
	sharesCreatedTotal.Inc()
}

func IncShareResolution(outcome string) {
	shareResolutionsTotal.WithLabelValues(outcome).Inc()
}

func IncShareCodeRetry() {
	shareCodeRetriesTotal.Inc()
}

func IncWSActive(kind string) {
	wsActiveConnections.WithLabelValues(kind).Inc()
}

func DecWSActive(kind string) {
	wsActiveConnections.WithLabelValues(kind).Dec()
}

func IncWSEvent(kind, event string) {
	wsEventsTotal.WithLabelValues(kind, event).Inc()
}

func IncAMQPPublishError() {
	amqpPublishErrorsTotal.Inc()
}

func AddSharesSwept(count int) {
	sharesSweptTotal.Add(float64(count))
}
