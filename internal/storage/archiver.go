package storage

import (
	"fmt"
	"moneyprint/internal/models"
	"moneyprint/internal/providers"
	"moneyprint/internal/storage/interfaces"
	"os"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"
)

const snapshotVersion = 1

// Snapshot bundles every collection document as it is encoded on disk.
type Snapshot struct {
	Version     int                        `json:"version"`
	CreatedAt   time.Time                  `json:"created_at"`
	Collections map[string]json.RawMessage `json:"collections"`
}

// Archiver writes and restores zstd-compressed snapshots of the whole store.
type Archiver struct {
	store      interfaces.StoreInterface
	compressor interfaces.CompressorInterface
	logger     providers.Logger
	now        func() time.Time
}

func NewArchiver(store interfaces.StoreInterface, compressor interfaces.CompressorInterface, logger providers.Logger) *Archiver {
	return &Archiver{
		store:      store,
		compressor: compressor,
		logger:     logger,
		now:        time.Now,
	}
}

// Snapshot writes snapshot-<utc timestamp>.json.zst into dir and returns its path.
// Each collection is read under its own lock, so the bundle is consistent per collection only.
func (a *Archiver) Snapshot(dir string) (string, error) {
	snap := Snapshot{
		Version:     snapshotVersion,
		CreatedAt:   a.now().UTC(),
		Collections: make(map[string]json.RawMessage, len(models.AllCollections)),
	}
	for _, key := range models.AllCollections {
		doc, err := a.store.Load(key)
		if err != nil {
			return "", err
		}
		raw, err := encodeDocument(key, doc)
		if err != nil {
			return "", err
		}
		snap.Collections[key.String()] = raw
	}

	jsonData, err := json.Marshal(snap)
	if err != nil {
		return "", err
	}
	data, err := a.compressor.Compress(jsonData)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", unavailable("mkdir", dir, err)
	}
	path := filepath.Join(dir, "snapshot-"+snap.CreatedAt.Format("20060102T150405Z")+".json.zst")
	tmpFile := path + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0644); err != nil {
		return "", unavailable("write", tmpFile, err)
	}
	if err := os.Rename(tmpFile, path); err != nil {
		os.Remove(tmpFile)
		return "", unavailable("rename", path, err)
	}
	return path, nil
}

// Restore validates every collection in the snapshot before saving any of them.
func (a *Archiver) Restore(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return unavailable("read", path, err)
	}
	decompressed, err := a.compressor.Decompress(data)
	if err != nil {
		return fmt.Errorf("%w: snapshot %s: %w", models.ErrCorruptState, path, err)
	}

	var snap Snapshot
	if err := json.Unmarshal(decompressed, &snap); err != nil {
		return fmt.Errorf("%w: snapshot %s: %w", models.ErrCorruptState, path, err)
	}
	if snap.Version != snapshotVersion {
		return fmt.Errorf("%w: snapshot %s: unsupported version %d", models.ErrCorruptState, path, snap.Version)
	}

	docs := make(map[models.Collection]*models.Document, len(snap.Collections))
	for name, raw := range snap.Collections {
		key, err := models.ParseCollection(name)
		if err != nil {
			a.logger.Warnf(providers.TypeStore, "Skipping unknown collection %q in snapshot", name)
			continue
		}
		doc, err := decodeDocument(key, raw)
		if err != nil {
			return err
		}
		docs[key] = doc
	}

	for _, key := range models.AllCollections {
		doc, ok := docs[key]
		if !ok {
			continue
		}
		if err := a.store.Save(key, doc); err != nil {
			return err
		}
	}
	a.logger.Infof(providers.TypeStore, "Restored %d collections from %s", len(docs), path)
	return nil
}

func (a *Archiver) Close() {
	a.compressor.Close()
}
