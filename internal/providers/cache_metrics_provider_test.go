package providers

import (
	"moneyprint/internal/models"
	"moneyprint/internal/structures"
	"testing"

	"github.com/stretchr/testify/assert"
)

type cacheMetricsTestInner struct {
	data map[models.Collection][]byte
}

func (c *cacheMetricsTestInner) Document(key models.Collection) ([]byte, bool) {
	v, ok := c.data[key]
	return v, ok
}
func (c *cacheMetricsTestInner) Remember(key models.Collection, data []byte) { c.data[key] = data }
func (c *cacheMetricsTestInner) Forget(key models.Collection)                { delete(c.data, key) }

func TestMetricsCacheProvider_Hit(t *testing.T) {
	inner := &cacheMetricsTestInner{data: map[models.Collection][]byte{models.CollectionTwitter: []byte("{}")}}
	metrics := &testMetrics{}
	cache := &MetricsCacheProvider{inner: inner, metrics: metrics}

	val, ok := cache.Document(models.CollectionTwitter)
	assert.True(t, ok)
	assert.Equal(t, []byte("{}"), val)
	assert.Equal(t, map[string]int{"twitter": 1}, metrics.hits)
	assert.Empty(t, metrics.misses)
}

func TestMetricsCacheProvider_MissAfterForget(t *testing.T) {
	inner := &cacheMetricsTestInner{data: map[models.Collection][]byte{}}
	metrics := &testMetrics{}
	cache := &MetricsCacheProvider{inner: inner, metrics: metrics}

	cache.Remember(models.CollectionYouTube, []byte("x"))
	cache.Forget(models.CollectionYouTube)
	_, ok := cache.Document(models.CollectionYouTube)
	assert.False(t, ok)
	assert.Equal(t, map[string]int{"youtube": 1}, metrics.misses)
}

func TestNewInstrumentedCacheProvider_DisabledIsPlainNoop(t *testing.T) {
	conf := &structures.Config{Cache: structures.CacheConfig{Enabled: false}}
	c := NewInstrumentedCacheProvider(conf, &testLogger{}, &testMetrics{})
	assert.IsType(t, &noopCache{}, c)
}

func TestNewInstrumentedCacheProvider_ZeroSizeIsPlainNoop(t *testing.T) {
	conf := &structures.Config{Cache: structures.CacheConfig{Enabled: true}}
	c := NewInstrumentedCacheProvider(conf, &testLogger{}, &testMetrics{})
	assert.IsType(t, &noopCache{}, c)
}

func TestNewInstrumentedCacheProvider_EnabledIsWrapped(t *testing.T) {
	conf := &structures.Config{Cache: structures.CacheConfig{Enabled: true, Size: 1}}
	c := NewInstrumentedCacheProvider(conf, &testLogger{}, &testMetrics{})
	assert.IsType(t, &MetricsCacheProvider{}, c)
}
