package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var registry = prometheus.NewRegistry()

var registerer = prometheus.WrapRegistererWith(nil, registry)

var (
	commonLabels = []string{"company_id"}

	// Latency buckets in milliseconds
	latencyBuckets = []float64{
		5, 10, 25,
		50, 100, 250,
		500, 1000, 2500,
		5000, 10000, 30000,
	}

	RequestTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "apigate_requests_total",
			Help: "Total number of requests processed",
		},
		append(commonLabels, "method", "status"),
	)

	RequestLatency = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "apigate_latency_ms",
			Help:    "Request latency in milliseconds",
			Buckets: latencyBuckets,
		},
		commonLabels,
	)

	RateLimitDenialsTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "apigate_ratelimit_denials_total",
			Help: "Requests denied by the rate limiter",
		},
		[]string{"scope", "class"},
	)

	TrustedBypassTotal = promauto.With(registerer).NewCounter(
		prometheus.CounterOpts{
			Name: "apigate_trusted_bypass_total",
			Help: "Requests admitted through the trusted-caller bypass",
		},
	)

	StoreFailuresTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "apigate_store_failures_total",
			Help: "Counter store failures translated by the fail policy",
		},
		[]string{"mode"},
	)

	Connections = promauto.With(registerer).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "apigate_connections",
			Help: "Number of active connections",
		},
		append(commonLabels, "state"),
	)
)

type MetricsConfig struct {
	EnableLatency     bool // Basic latency metrics
	EnableConnections bool // Connection tracking (can impact performance)
}

var Config MetricsConfig

func Initialize(cfg MetricsConfig) {
	Config = cfg
	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	prometheus.DefaultRegisterer = registry
	prometheus.DefaultGatherer = registry
}
