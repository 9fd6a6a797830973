package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jmerrifield20/NexusTrustSafety/internal/moderation/model"
)

var (
	modRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moderation_http_requests_total",
		Help: "Total HTTP requests by method, path, and response status.",
	}, []string{"method", "path", "status"})

	modRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "moderation_http_request_duration_seconds",
		Help:    "Request duration in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	modReportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moderation_reports_total",
		Help: "Total reports filed by reason.",
	}, []string{"reason"})

	modActionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moderation_actions_total",
		Help: "Total moderation action dispatches by type and result.",
	}, []string{"action_type", "result"})

	modBanChecksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moderation_ban_checks_total",
		Help: "Total ban status checks by result.",
	}, []string{"result"})

	modBansReapedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "moderation_bans_reaped_total",
		Help: "Total expired ban rows deleted by the reaper.",
	})

	modLedgerEntriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "moderation_ledger_entries_total",
		Help: "Total trust ledger entries committed.",
	})
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
			path = "unmatched"
		}

		modRequestsTotal.WithLabelValues(method, path, status).Inc()
		modRequestDuration.WithLabelValues(method, path).Observe(duration)
	}
}

// MetricsHandler returns a Gin handler that serves Prometheus metrics.
func MetricsHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// RecordReport counts a filed report.
func RecordReport(reason model.Reason) {
	modReportsTotal.WithLabelValues(string(reason)).Inc()
}

// RecordAction counts an action dispatch.
func RecordAction(action model.ActionType, result string) {
	modActionsTotal.WithLabelValues(string(action), result).Inc()
}

// RecordBanCheck counts a ban status check.
func RecordBanCheck(result string) {
	modBanChecksTotal.WithLabelValues(result).Inc()
}

// RecordBansReaped counts rows deleted by one reaper run.
func RecordBansReaped(n int) {
	modBansReapedTotal.Add(float64(n))
}

// RecordLedgerAppend counts a committed trust ledger entry.
func RecordLedgerAppend() {
	modLedgerEntriesTotal.Inc()
}

var modDependencyChecksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "moderation_dependency_checks_total",
	Help: "Total dependency probes by dependency and result.",
}, []string{"dependency", "result"})

// RecordDependencyCheck counts a dependency probe result.
func RecordDependencyCheck(dependency string, success bool) {
	result := "success"
	if !success {
		result = "failure"
	}
	modDependencyChecksTotal.WithLabelValues(dependency, result).Inc()
}
