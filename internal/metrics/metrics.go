package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	// Simulator metrics
	ReadingsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "simulator_readings_generated_total",
		Help: "Total number of telemetry readings generated",
	}, []string{"site"})

	AlertsRaised = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "simulator_alerts_raised_total",
		Help: "Total number of maintenance alerts raised",
	}, []string{"site", "severity"})

	OutputWriteErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "simulator_output_write_errors_total",
		Help: "Total number of failed writes to the output destination",
	}, []string{"topic"})

	// Store metrics
	StoreReadings = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "store_readings",
		Help: "Number of readings held in the in-memory store",
	})

	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total number of snapshot cache hits",
	})

	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total number of snapshot cache misses",
	})
)
