package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the API and the
// dual-persistence pipeline. All methods are nil-safe so instrumentation can
// be switched off by passing a nil service.
type MetricsService struct {
	registry         *prometheus.Registry
	handler          http.Handler
	requestDuration  *prometheus.HistogramVec
	requestTotal     *prometheus.CounterVec
	reportsTotal     *prometheus.CounterVec
	mirrorFailures   prometheus.Counter
	mirrorRepairs    prometheus.Counter
	repairsAbandoned prometheus.Counter
	workbookLatency  *prometheus.HistogramVec
	cacheHits        prometheus.Counter
	cacheMisses      prometheus.Counter
}

// NewMetricsService registers the collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	reportsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reports_mutations_total",
		Help: "Report mutations by action",
	}, []string{"action"})

	mirrorFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mirror_write_failures_total",
		Help: "Relational mirror writes that failed and were handed to the reconciler",
	})

	mirrorRepairs := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mirror_repairs_total",
		Help: "Report graphs copied back into the mirror by the reconciler",
	})

	repairsAbandoned := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mirror_repairs_abandoned_total",
		Help: "Repair jobs dropped after exhausting retries, left to the sweep",
	})

	workbookLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "workbook_operation_duration_seconds",
		Help:    "Duration of Excel workbook operations",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, reportsTotal,
		mirrorFailures, mirrorRepairs, repairsAbandoned, workbookLatency,
		cacheHits, cacheMisses, goroutines)

	return &MetricsService{
		registry:         registry,
		handler:          promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:  requestDuration,
		requestTotal:     requestTotal,
		reportsTotal:     reportsTotal,
		mirrorFailures:   mirrorFailures,
		mirrorRepairs:    mirrorRepairs,
		repairsAbandoned: repairsAbandoned,
		workbookLatency:  workbookLatency,
		cacheHits:        cacheHits,
		cacheMisses:      cacheMisses,
	}
}

// Handler exposes the Prometheus scrape endpoint.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records one served request.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordReportMutation counts a completed report mutation.
func (m *MetricsService) RecordReportMutation(action string) {
	if m == nil {
		return
	}
	m.reportsTotal.WithLabelValues(action).Inc()
}

// RecordMirrorFailure counts one failed mirror write.
func (m *MetricsService) RecordMirrorFailure() {
	if m == nil {
		return
	}
	m.mirrorFailures.Inc()
}

// RecordMirrorRepair counts one successful reconciler repair.
func (m *MetricsService) RecordMirrorRepair() {
	if m == nil {
		return
	}
	m.mirrorRepairs.Inc()
}

// RecordRepairAbandoned counts a repair job dropped after its last retry.
func (m *MetricsService) RecordRepairAbandoned() {
	if m == nil {
		return
	}
	m.repairsAbandoned.Inc()
}

// RegisterQueueDepth exposes the reconcile queue's buffered depth as a gauge.
func (m *MetricsService) RegisterQueueDepth(fn func() float64) {
	if m == nil {
		return
	}
	m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "reconcile_queue_depth",
		Help: "Repair jobs buffered in the reconcile queue",
	}, fn))
}

// ObserveWorkbookOperation records the latency of one workbook operation.
func (m *MetricsService) ObserveWorkbookOperation(operation string, duration time.Duration) {
	if m == nil {
		return
	}
	m.workbookLatency.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordCacheLookup counts a cache hit or miss.
func (m *MetricsService) RecordCacheLookup(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheHits.Inc()
	} else {
		m.cacheMisses.Inc()
	}
}
