// Package metrics provides Prometheus instrumentation for the SafeScore API.
package metrics

import (
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequestsTotal counts HTTP requests by method, path, and status.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "safescore",
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by method, path pattern, and status code.",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration observes request latency by method and path.
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "safescore",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// PredictionsTotal counts model predictions by resulting risk level.
	PredictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "safescore",
			Name:      "predictions_total",
			Help:      "Total predictions served by risk level.",
		},
		[]string{"risk_level"},
	)

	// PredictionDuration observes model inference latency.
	PredictionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "safescore",
			Name:      "prediction_duration_seconds",
			Help:      "Model prediction duration in seconds.",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		},
	)

	// PredictionFailuresTotal counts predictor errors.
	PredictionFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "safescore",
			Name:      "prediction_failures_total",
			Help:      "Total predictor failures.",
		},
	)

	// DatasetRecords tracks the number of loaded crime records.
	DatasetRecords = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "safescore", Name: "dataset_records",
		Help: "Number of crime records loaded at startup.",
	})

	// GoroutineCount tracks the current number of goroutines.
	GoroutineCount = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "safescore", Name: "goroutines",
		Help: "Current number of goroutines.",
	})
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		PredictionsTotal,
		PredictionDuration,
		PredictionFailuresTotal,
		DatasetRecords,
		GoroutineCount,
	)
}

// Middleware records request count and latency for every request.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		timer := prometheus.NewTimer(HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(), // route pattern, not actual path (avoids cardinality explosion)
		))

		c.Next()

		timer.ObserveDuration()
		HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			statusBucket(c.Writer.Status()),
		).Inc()
	}
}

// Handler exposes the Prometheus scrape endpoint as a gin handler.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		GoroutineCount.Set(float64(runtime.NumGoroutine()))
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// ObservePrediction records one served prediction.
func ObservePrediction(riskLevel string, elapsed time.Duration) {
	PredictionsTotal.WithLabelValues(riskLevel).Inc()
	PredictionDuration.Observe(elapsed.Seconds())
}

// statusBucket collapses status codes into class buckets to keep label
// cardinality down.
func statusBucket(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
