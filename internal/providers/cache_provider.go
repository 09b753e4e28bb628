package providers

import (
	"moneyprint/internal/models"
	"moneyprint/internal/structures"
	"unsafe"

	"github.com/coocood/freecache"
)

// CacheProviderInterface holds the last encoded form of each collection
// document for the display read path.
type CacheProviderInterface interface {
	Document(key models.Collection) ([]byte, bool)
	Remember(key models.Collection, data []byte)
	Forget(key models.Collection)
}

type CacheProvider struct {
	cache *freecache.Cache
	ttl   int
}

func NewCacheProvider(conf *structures.Config, logger Logger) CacheProviderInterface {
	if !conf.Cache.Enabled || conf.Cache.Size <= 0 {
		logger.Infof(TypeApp, "Document cache disabled")
		return &noopCache{}
	}

	sizeBytes := conf.Cache.Size * 1024 * 1024
	ttl := max(int(conf.Cache.TTL.Seconds()), 1)

	logger.Infof(TypeApp, "Document cache initialized: %dMB, TTL=%ds", conf.Cache.Size, ttl)

	return &CacheProvider{
		cache: freecache.NewCache(sizeBytes),
		ttl:   ttl,
	}
}

func documentKey(key models.Collection) []byte {
	s := "doc:" + key.String()
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

func (c *CacheProvider) Document(key models.Collection) ([]byte, bool) {
	val, err := c.cache.Get(documentKey(key))
	if err != nil {
		return nil, false
	}
	return val, true
}

// Remember stores data as the current document of key. Documents larger
// than freecache's entry limit are simply not cached.
func (c *CacheProvider) Remember(key models.Collection, data []byte) {
	if err := c.cache.Set(documentKey(key), data, c.ttl); err != nil {
		c.cache.Del(documentKey(key))
	}
}

func (c *CacheProvider) Forget(key models.Collection) {
	c.cache.Del(documentKey(key))
}

type noopCache struct{}

func (n *noopCache) Document(_ models.Collection) ([]byte, bool) { return nil, false }
func (n *noopCache) Remember(_ models.Collection, _ []byte)      {}
func (n *noopCache) Forget(_ models.Collection)                  {}
