package providers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"moneyprint/internal/structures"
	"time"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits(collection string)
	IncCacheMisses(collection string)
	ObservePersistenceDuration(collection string, duration time.Duration)
	IncFirings(platform string)
	IncPublishResult(platform string, ok bool)
	ObservePublishDuration(platform string, duration time.Duration)
	SetActiveSchedules(count int)
	SetAccounts(platform string, count int)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           *prometheus.CounterVec
	cacheMisses         *prometheus.CounterVec
	persistenceDuration *prometheus.HistogramVec
	firingsTotal        *prometheus.CounterVec
	publishTotal        *prometheus.CounterVec
	publishDuration     *prometheus.HistogramVec
	activeSchedules     prometheus.Gauge
	accounts            *prometheus.GaugeVec
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits(collection string) {
	m.cacheHits.WithLabelValues(collection).Inc()
}

func (m *MetricsProvider) IncCacheMisses(collection string) {
	m.cacheMisses.WithLabelValues(collection).Inc()
}

func (m *MetricsProvider) ObservePersistenceDuration(collection string, duration time.Duration) {
	m.persistenceDuration.WithLabelValues(collection).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncFirings(platform string) {
	m.firingsTotal.WithLabelValues(platform).Inc()
}

func (m *MetricsProvider) IncPublishResult(platform string, ok bool) {
	result := "ok"
	if !ok {
		result = "failed"
	}
	m.publishTotal.WithLabelValues(platform, result).Inc()
}

func (m *MetricsProvider) ObservePublishDuration(platform string, duration time.Duration) {
	m.publishDuration.WithLabelValues(platform).Observe(duration.Seconds())
}

func (m *MetricsProvider) SetActiveSchedules(count int) {
	m.activeSchedules.Set(float64(count))
}

func (m *MetricsProvider) SetAccounts(platform string, count int) {
	m.accounts.WithLabelValues(platform).Set(float64(count))
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

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "mp_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mp_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "mp_cache_hits_total",
			Help: "Display reads served from the document cache",
		}, []string{"collection"}),

		cacheMisses: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "mp_cache_misses_total",
			Help: "Display reads that went to disk",
		}, []string{"collection"}),

		persistenceDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mp_persistence_duration_seconds",
			Help:    "Duration of collection saves in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"collection"}),

		firingsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "mp_schedule_firings_total",
			Help: "Total number of scheduled firings",
		}, []string{"platform"}),

		publishTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "mp_publish_total",
			Help: "Total number of publish attempts by result",
		}, []string{"platform", "result"}),

		publishDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mp_publish_duration_seconds",
			Help:    "External publish call duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"platform"}),

		activeSchedules: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "mp_active_schedules",
			Help: "Number of schedule handles not cancelled",
		}),

		accounts: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "mp_accounts",
			Help: "Number of accounts per platform",
		}, []string{"platform"}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                     {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration)     {}
func (n *noopMetrics) IncCacheHits(_ string)                                {}
func (n *noopMetrics) IncCacheMisses(_ string)                              {}
func (n *noopMetrics) ObservePersistenceDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncFirings(_ string)                                  {}
func (n *noopMetrics) IncPublishResult(_ string, _ bool)                    {}
func (n *noopMetrics) ObservePublishDuration(_ string, _ time.Duration)     {}
func (n *noopMetrics) SetActiveSchedules(_ int)                             {}
func (n *noopMetrics) SetAccounts(_ string, _ int)                          {}
