package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	attendanceRecordsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "attendance_records_total",
		Help: "Total attendance records appended, by presence status.",
	}, []string{"status"})

	attendanceDuplicatesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "attendance_duplicates_rejected_total",
		Help: "Total appends rejected by the one-entry-per-day rule.",
	})

	attendanceChainLength = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "attendance_chain_length",
		Help: "Current chain length, genesis included.",
	})

	attendanceIntegrityChecksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "attendance_integrity_checks_total",
		Help: "Total chain integrity checks by result.",
	}, []string{"result"})

	attendanceResetsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "attendance_resets_total",
		Help: "Total ledger resets.",
	})

	attendanceRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "attendance_requests_total",
		Help: "Total HTTP requests by method, path, and response status.",
	}, []string{"method", "path", "status"})

	attendanceRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "attendance_request_duration_seconds",
		Help:    "Request duration in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})
)

// PrometheusMiddleware returns a Gin middleware that records per-request metrics.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		attendanceRequestsTotal.WithLabelValues(method, path, status).Inc()
		attendanceRequestDuration.WithLabelValues(method, path).Observe(duration)
	}
}

// MetricsHandler returns a Gin handler that serves Prometheus metrics.
func MetricsHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// RecordAppend records a successful attendance append.
func RecordAppend(status string) {
	attendanceRecordsTotal.WithLabelValues(status).Inc()
}

// RecordDuplicateRejected records an append rejected as a duplicate.
func RecordDuplicateRejected() {
	attendanceDuplicatesTotal.Inc()
}

// SetChainLength sets the chain length gauge.
func SetChainLength(n float64) {
	attendanceChainLength.Set(n)
}

// RecordIntegrityCheck records one integrity check result.
func RecordIntegrityCheck(valid bool) {
	if valid {
		attendanceIntegrityChecksTotal.WithLabelValues("valid").Inc()
	} else {
		attendanceIntegrityChecksTotal.WithLabelValues("invalid").Inc()
	}
}

// RecordReset records a ledger reset.
func RecordReset() {
	attendanceResetsTotal.Inc()
}
