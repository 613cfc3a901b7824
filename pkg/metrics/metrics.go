package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

// Latency buckets in milliseconds; the upper range covers the simulated
// gateway delay plus retries.
var HistogramBuckets = []float64{
	25, 50, 75, 100, 150, 200, 300, 400, 500,
	750, 1000, 1500, 2000, 3000, 5000, 7500, 10000,
	15000, 30000, 60000, 90000, 120000,
}

// Registry holds the payment domain collectors plus generic HTTP request
// metrics. A single instance is shared by the engine and the HTTP server.
type Registry struct {
	registry *prometheus.Registry

	PaymentsProcessed *prometheus.CounterVec
	PaymentsRefunded  prometheus.Counter
	GatewayDecisionMS *prometheus.HistogramVec
	GatewayRetries    prometheus.Counter

	httpReqCnt *prometheus.CounterVec
	httpReqDur *prometheus.HistogramVec
}

func NewRegistry(subsystem string) *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}

	r.PaymentsProcessed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Subsystem: subsystem,
		Name:      "payments_processed_total",
		Help:      "Processed payments partitioned by terminal status and method.",
	}, []string{"status", "method"})

	r.PaymentsRefunded = prometheus.NewCounter(prometheus.CounterOpts{
		Subsystem: subsystem,
		Name:      "payments_refunded_total",
		Help:      "Successfully refunded payments.",
	})

	r.GatewayDecisionMS = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Subsystem: subsystem,
		Name:      "gateway_decision_ms",
		Help:      "Gateway decision latencies in milliseconds.",
		Buckets:   HistogramBuckets,
	}, []string{"outcome"})

	r.GatewayRetries = prometheus.NewCounter(prometheus.CounterOpts{
		Subsystem: subsystem,
		Name:      "gateway_retries_total",
		Help:      "Gateway decision attempts beyond the first.",
	})

	r.httpReqCnt = prometheus.NewCounterVec(prometheus.CounterOpts{
		Subsystem: subsystem,
		Name:      "req_total",
		Help:      "How many HTTP requests processed, partitioned by status code, method and route.",
	}, []string{"code", "method", "url"})

	r.httpReqDur = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Subsystem: subsystem,
		Name:      "req_dur_ms",
		Help:      "HTTP request latencies in milliseconds.",
		Buckets:   HistogramBuckets,
	}, []string{"code", "method", "url"})

	r.registry.MustRegister(
		r.PaymentsProcessed,
		r.PaymentsRefunded,
		r.GatewayDecisionMS,
		r.GatewayRetries,
		r.httpReqCnt,
		r.httpReqDur,
	)
	return r
}

func NewDefault() *Registry {
	return NewRegistry("payments")
}

var Module = fx.Options(
	fx.Provide(NewDefault),
)

// Gatherer exposes the underlying registry for the /metrics handler.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// HandlerFunc returns a gin middleware recording request count and latency.
func (r *Registry) HandlerFunc() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		url := c.FullPath()
		if url == "" {
			url = c.Request.URL.Path
		}
		code := strconv.Itoa(c.Writer.Status())
		r.httpReqCnt.WithLabelValues(code, c.Request.Method, url).Inc()
		r.httpReqDur.WithLabelValues(code, c.Request.Method, url).Observe(float64(time.Since(start).Milliseconds()))
	}
}
