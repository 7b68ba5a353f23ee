package providers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"qrkeep/internal/services"
	"qrkeep/internal/structures"
	"time"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	ObservePersistenceDuration(duration time.Duration)
	IncPersistenceErrors()
	IncQRRendered(format string)
	IncScans(result string)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	persistenceDuration prometheus.Histogram
	persistenceErrors   prometheus.Counter
	qrRendered          *prometheus.CounterVec
	scans               *prometheus.CounterVec
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) IncPersistenceErrors() {
	m.persistenceErrors.Inc()
}

// IncQRRendered counts rendered codes by output format (png, pdf).
func (m *MetricsProvider) IncQRRendered(format string) {
	m.qrRendered.WithLabelValues(format).Inc()
}

// IncScans counts decode attempts by result (decoded, not_found, error).
func (m *MetricsProvider) IncScans(result string) {
	m.scans.WithLabelValues(result).Inc()
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config, store services.RecordStoreInterface) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	m := &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "qrkeep_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "qrkeep_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "qrkeep_cache_hits_total",
			Help: "Total number of rendered image cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "qrkeep_cache_misses_total",
			Help: "Total number of rendered image cache misses",
		}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "qrkeep_persistence_duration_seconds",
			Help:    "Duration of persistence operations in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		persistenceErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "qrkeep_persistence_errors_total",
			Help: "Total number of failed persistence operations",
		}),

		qrRendered: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "qrkeep_qr_rendered_total",
			Help: "Total number of rendered QR codes by format",
		}, []string{"format"}),

		scans: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "qrkeep_scans_total",
			Help: "Total number of scan attempts by result",
		}, []string{"result"}),
	}

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "qrkeep_history_entries",
		Help: "Current number of history entries",
	}, func() float64 {
		return float64(store.HistoryLen())
	})

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "qrkeep_favorites",
		Help: "Current number of favorite payloads",
	}, func() float64 {
		return float64(len(store.Favorites()))
	})

	return m
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (n *noopMetrics) IncPersistenceErrors()                            {}
func (n *noopMetrics) IncQRRendered(_ string)                           {}
func (n *noopMetrics) IncScans(_ string)                                {}
