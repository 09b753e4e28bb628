package storage

import (
	"errors"
	"moneyprint/internal/models"
	"moneyprint/internal/testutil"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchiver_SnapshotAndRestore(t *testing.T) {
	store, _, _ := newTestStore(t, t.TempDir())
	require.NoError(t, store.Save(models.CollectionTwitter, &models.Document{Accounts: []*models.Account{{ID: "a1", Nickname: "bot1"}}}))

	compressor, err := NewZstdCompressor()
	require.NoError(t, err)
	archiver := NewArchiver(store, compressor, &testutil.MockLogger{})
	defer archiver.Close()
	archiver.now = func() time.Time { return time.Date(2026, 5, 4, 3, 2, 1, 0, time.UTC) }

	backupDir := filepath.Join(t.TempDir(), "backups")
	path, err := archiver.Snapshot(backupDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(backupDir, "snapshot-20260504T030201Z.json.zst"), path)

	require.NoError(t, store.Save(models.CollectionTwitter, models.NewDocument(models.CollectionTwitter)))
	require.NoError(t, archiver.Restore(path))

	doc, err := store.Load(models.CollectionTwitter)
	require.NoError(t, err)
	require.Len(t, doc.Accounts, 1)
	assert.Equal(t, "bot1", doc.Accounts[0].Nickname)
}

func writeSnapshot(t *testing.T, snap Snapshot) string {
	t.Helper()
	data, err := json.Marshal(snap)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "snap.json.zst")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestArchiver_RestoreValidatesBeforeSaving(t *testing.T) {
	store, _, _ := newTestStore(t, t.TempDir())
	require.NoError(t, store.Save(models.CollectionTwitter, &models.Document{Accounts: []*models.Account{{ID: "keep"}}}))
	archiver := NewArchiver(store, &testutil.MockCompressor{}, &testutil.MockLogger{})

	path := writeSnapshot(t, Snapshot{
		Version: snapshotVersion,
		Collections: map[string]json.RawMessage{
			"twitter": json.RawMessage(`{"accounts": []}`),
			"afm":     json.RawMessage(`{"products": null}`),
		},
	})

	err := archiver.Restore(path)
	assert.ErrorIs(t, err, models.ErrCorruptState)

	doc, err := store.Load(models.CollectionTwitter)
	require.NoError(t, err)
	assert.Len(t, doc.Accounts, 1, "nothing is saved when any collection is corrupt")
}

func TestArchiver_RestoreRejectsUnknownVersion(t *testing.T) {
	store, _, _ := newTestStore(t, t.TempDir())
	archiver := NewArchiver(store, &testutil.MockCompressor{}, &testutil.MockLogger{})

	path := writeSnapshot(t, Snapshot{Version: 99})
	err := archiver.Restore(path)
	require.ErrorIs(t, err, models.ErrCorruptState)
	assert.True(t, strings.Contains(err.Error(), "version"))
}

func TestArchiver_RestoreSkipsUnknownCollections(t *testing.T) {
	store, _, _ := newTestStore(t, t.TempDir())
	logger := &testutil.MockLogger{}
	archiver := NewArchiver(store, &testutil.MockCompressor{}, logger)

	path := writeSnapshot(t, Snapshot{
		Version: snapshotVersion,
		Collections: map[string]json.RawMessage{
			"instagram": json.RawMessage(`{}`),
		},
	})
	require.NoError(t, archiver.Restore(path))
	assert.Len(t, logger.Messages("warn"), 1)
}

func TestArchiver_SnapshotCompressorFailure(t *testing.T) {
	store, _, _ := newTestStore(t, t.TempDir())
	archiver := NewArchiver(store, &testutil.MockCompressor{CompressErr: errors.New("boom")}, &testutil.MockLogger{})

	dir := t.TempDir()
	_, err := archiver.Snapshot(dir)
	assert.Error(t, err)
	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries)
}
