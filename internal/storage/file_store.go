package storage

import (
	"errors"
	"fmt"
	"moneyprint/internal/models"
	"moneyprint/internal/providers"
	"moneyprint/internal/storage/interfaces"
	"moneyprint/internal/structures"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileStore keeps one JSON document per collection under dir.
// Every write for a key happens under that key's mutex.
type FileStore struct {
	dir     string
	mode    os.FileMode
	locks   map[models.Collection]*sync.Mutex
	cache   providers.CacheProviderInterface
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
}

func NewFileStore(conf *structures.Config, cache providers.CacheProviderInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) interfaces.StoreInterface {
	mode := os.FileMode(conf.Storage.FileMode)
	if mode == 0 {
		mode = 0644
	}
	locks := make(map[models.Collection]*sync.Mutex, len(models.AllCollections))
	for _, c := range models.AllCollections {
		locks[c] = &sync.Mutex{}
	}
	return &FileStore{
		dir:     conf.Storage.Dir,
		mode:    mode,
		locks:   locks,
		cache:   cache,
		logger:  logger,
		metrics: metrics,
	}
}

func unavailable(op, path string, err error) error {
	return fmt.Errorf("%w: %s %s: %w", models.ErrStorageUnavailable, op, path, err)
}

func (s *FileStore) path(key models.Collection) string {
	return filepath.Join(s.dir, key.FileName())
}

func (s *FileStore) lock(key models.Collection) (*sync.Mutex, error) {
	mu, ok := s.locks[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownPlatform, key)
	}
	return mu, nil
}

// Init creates the storage dir and every collection document that does not exist yet.
func (s *FileStore) Init() error {
	for _, key := range models.AllCollections {
		mu, _ := s.lock(key)
		mu.Lock()
		created, err := s.ensure(key)
		mu.Unlock()
		if err != nil {
			return err
		}
		if created {
			s.logger.Infof(providers.TypeStore, "Created collection %s at %s", key, s.path(key))
		}
	}
	return nil
}

func (s *FileStore) Load(key models.Collection) (*models.Document, error) {
	mu, err := s.lock(key)
	if err != nil {
		return nil, err
	}
	mu.Lock()
	defer mu.Unlock()
	return s.read(key)
}

func (s *FileStore) Save(key models.Collection, doc *models.Document) error {
	mu, err := s.lock(key)
	if err != nil {
		return err
	}
	mu.Lock()
	defer mu.Unlock()
	return s.write(key, doc)
}

// Update runs fn on a freshly loaded document and saves the result, holding
// the key's lock for the whole span. Nothing is written when fn fails.
func (s *FileStore) Update(key models.Collection, fn func(doc *models.Document) error) error {
	mu, err := s.lock(key)
	if err != nil {
		return err
	}
	mu.Lock()
	defer mu.Unlock()

	doc, err := s.read(key)
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	return s.write(key, doc)
}

// Peek is the display read path. A cache hit skips the key lock and may be
// up to cache.ttl old. A miss reads and repopulates the cache under the lock
// so a concurrent write is never overwritten with older bytes.
func (s *FileStore) Peek(key models.Collection) (*models.Document, error) {
	mu, err := s.lock(key)
	if err != nil {
		return nil, err
	}
	if data, ok := s.cache.Document(key); ok {
		return decodeDocument(key, data)
	}

	mu.Lock()
	defer mu.Unlock()
	if _, err := s.ensure(key); err != nil {
		return nil, err
	}
	path := s.path(key)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, unavailable("read", path, err)
	}
	doc, err := decodeDocument(key, data)
	if err != nil {
		return nil, err
	}
	s.cache.Remember(key, data)
	return doc, nil
}

// ensure writes the default document when none exists. Caller holds the key lock.
func (s *FileStore) ensure(key models.Collection) (bool, error) {
	path := s.path(key)
	_, err := os.Stat(path)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return false, unavailable("stat", path, err)
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return false, unavailable("mkdir", s.dir, err)
	}
	if err := s.write(key, models.NewDocument(key)); err != nil {
		return false, err
	}
	return true, nil
}

func (s *FileStore) read(key models.Collection) (*models.Document, error) {
	if _, err := s.ensure(key); err != nil {
		return nil, err
	}
	path := s.path(key)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, unavailable("read", path, err)
	}
	return decodeDocument(key, data)
}

// write replaces the document atomically through a temp file and rename.
func (s *FileStore) write(key models.Collection, doc *models.Document) error {
	start := time.Now()
	data, err := encodeDocument(key, doc)
	if err != nil {
		return err
	}

	path := s.path(key)
	tmpFile := path + ".tmp"
	file, err := os.OpenFile(tmpFile, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, s.mode)
	if err != nil {
		return unavailable("create", tmpFile, err)
	}

	if _, err = file.Write(data); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return unavailable("write", tmpFile, err)
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return unavailable("sync", tmpFile, err)
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return unavailable("close", tmpFile, err)
	}

	if err = os.Rename(tmpFile, path); err != nil {
		os.Remove(tmpFile)
		return unavailable("rename", path, err)
	}

	s.cache.Remember(key, data)
	s.metrics.ObservePersistenceDuration(key.String(), time.Since(start))
	s.logger.Debugf(providers.TypeStore, "Saved %s (%d bytes)", key, len(data))
	return nil
}
