package providers

import (
	"moneyprint/internal/models"
	"moneyprint/internal/structures"
)

// MetricsCacheProvider counts hits and misses per collection.
type MetricsCacheProvider struct {
	inner   CacheProviderInterface
	metrics MetricsProviderInterface
}

func (c *MetricsCacheProvider) Document(key models.Collection) ([]byte, bool) {
	val, ok := c.inner.Document(key)
	if ok {
		c.metrics.IncCacheHits(key.String())
	} else {
		c.metrics.IncCacheMisses(key.String())
	}
	return val, ok
}

func (c *MetricsCacheProvider) Remember(key models.Collection, data []byte) {
	c.inner.Remember(key, data)
}

func (c *MetricsCacheProvider) Forget(key models.Collection) {
	c.inner.Forget(key)
}

// NewInstrumentedCacheProvider skips the wrapper when the cache is disabled
// so every display read does not count as a miss.
func NewInstrumentedCacheProvider(conf *structures.Config, logger Logger, metrics MetricsProviderInterface) CacheProviderInterface {
	inner := NewCacheProvider(conf, logger)
	if _, ok := inner.(*noopCache); ok {
		return inner
	}
	return &MetricsCacheProvider{
		inner:   inner,
		metrics: metrics,
	}
}
