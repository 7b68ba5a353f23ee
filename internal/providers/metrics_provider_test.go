package providers

import (
	"qrkeep/internal/services"
	"qrkeep/internal/structures"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- minimal mock for RecordStoreInterface ---

type metricsTestStore struct {
	services.RecordStoreInterface
}

func (m *metricsTestStore) HistoryLen() int      { return 5 }
func (m *metricsTestStore) Favorites() []string { return []string{"a", "b"} }

func useTestRegistry(t *testing.T) *prometheus.Registry {
	t.Helper()
	reg := prometheus.NewRegistry()
	prevReg, prevGather := prometheus.DefaultRegisterer, prometheus.DefaultGatherer
	prometheus.DefaultRegisterer = reg
	prometheus.DefaultGatherer = reg
	t.Cleanup(func() {
		prometheus.DefaultRegisterer = prevReg
		prometheus.DefaultGatherer = prevGather
	})
	return reg
}

func TestNoopMetrics_WhenDisabled(t *testing.T) {
	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: false},
	}
	m := NewMetricsProvider(conf, &metricsTestStore{})
	_, ok := m.(*noopMetrics)
	assert.True(t, ok, "should return noopMetrics when disabled")

	// Ensure no-op methods don't panic
	m.IncRequestsTotal("/test", 200)
	m.ObserveRequestDuration("/test", time.Millisecond)
	m.IncCacheHits()
	m.IncCacheMisses()
	m.ObservePersistenceDuration(time.Millisecond)
	m.IncPersistenceErrors()
	m.IncQRRendered("png")
	m.IncScans("decoded")
}

func TestMetricsProvider_WhenEnabled(t *testing.T) {
	useTestRegistry(t)

	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: true},
	}
	m := NewMetricsProvider(conf, &metricsTestStore{})
	_, ok := m.(*MetricsProvider)
	assert.True(t, ok, "should return MetricsProvider when enabled")
}

func TestMetricsProvider_IncrementCounters(t *testing.T) {
	reg := useTestRegistry(t)

	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: true},
	}
	m := NewMetricsProvider(conf, &metricsTestStore{})

	m.IncRequestsTotal("/history", 200)
	m.IncRequestsTotal("/history", 404)
	m.ObserveRequestDuration("/history", 5*time.Millisecond)
	m.IncCacheHits()
	m.IncCacheMisses()
	m.ObservePersistenceDuration(100 * time.Millisecond)
	m.IncPersistenceErrors()
	m.IncQRRendered("png")
	m.IncQRRendered("png")
	m.IncScans("not_found")

	p := m.(*MetricsProvider)
	assert.Equal(t, float64(1), testutil.ToFloat64(p.requestsTotal.WithLabelValues("/history", "4xx")))
	assert.Equal(t, float64(2), testutil.ToFloat64(p.qrRendered.WithLabelValues("png")))
	assert.Equal(t, float64(1), testutil.ToFloat64(p.scans.WithLabelValues("not_found")))
	assert.Equal(t, float64(1), testutil.ToFloat64(p.persistenceErrors))

	families, err := reg.Gather()
	require.NoError(t, err)
	gauges := map[string]float64{}
	for _, f := range families {
		if f.GetType().String() == "GAUGE" {
			gauges[f.GetName()] = f.GetMetric()[0].GetGauge().GetValue()
		}
	}
	assert.Equal(t, float64(5), gauges["qrkeep_history_entries"])
	assert.Equal(t, float64(2), gauges["qrkeep_favorites"])
}

func TestHttpStatusBucket(t *testing.T) {
	tests := []struct {
		code     int
		expected string
	}{
		{100, "1xx"},
		{200, "2xx"},
		{201, "2xx"},
		{301, "3xx"},
		{400, "4xx"},
		{422, "4xx"},
		{500, "5xx"},
		{503, "5xx"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, httpStatusBucket(tt.code))
	}
}
