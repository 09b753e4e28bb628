package registry

import (
	"fmt"
	"moneyprint/internal/models"
	"moneyprint/internal/storage"
	"moneyprint/internal/storage/interfaces"
	"moneyprint/internal/testutil"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAccounts(t *testing.T) (AccountRegistryInterface, interfaces.StoreInterface, *testutil.MockMetrics) {
	t.Helper()
	logger := &testutil.MockLogger{}
	metrics := testutil.NewMockMetrics()
	store := storage.NewFileStore(testutil.TestConfig(t.TempDir()), testutil.NewMockCache(), logger, metrics)
	return NewAccountRegistry(store, logger, metrics), store, metrics
}

func fields(nickname, topic string) models.AccountFields {
	return models.AccountFields{Nickname: nickname, ProfileRef: "/profiles/" + nickname, TopicOrNiche: topic}
}

func TestAccountRegistry_CreateAndList(t *testing.T) {
	reg, _, metrics := newTestAccounts(t)

	a, err := reg.Create(models.CollectionTwitter, fields("bot1", "gadgets"))
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	assert.Empty(t, a.Activities)

	b, err := reg.Create(models.CollectionTwitter, fields("bot2", "travel"))
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)

	list, err := reg.List(models.CollectionTwitter)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "bot1", list[0].Nickname)
	assert.Equal(t, "bot2", list[1].Nickname)
	assert.Equal(t, 2, metrics.Accounts["twitter"])

	other, err := reg.List(models.CollectionYouTube)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestAccountRegistry_CreateValidatesFields(t *testing.T) {
	reg, _, _ := newTestAccounts(t)

	_, err := reg.Create(models.CollectionTwitter, models.AccountFields{Nickname: "bot1"})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = reg.Create(models.Platform("afm"), fields("bot1", "x"))
	assert.ErrorIs(t, err, models.ErrUnknownPlatform)
}

func TestAccountRegistry_YouTubeKeepsLanguage(t *testing.T) {
	reg, _, _ := newTestAccounts(t)
	lang := "de"
	f := fields("chan", "cooking")
	f.Language = &lang

	created, err := reg.Create(models.CollectionYouTube, f)
	require.NoError(t, err)

	found, err := reg.FindByID(models.CollectionYouTube, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "de", found.LanguageOrEmpty())
	assert.Equal(t, "cooking", found.TopicOrNiche)
}

func TestAccountRegistry_RemoveIsNoopForUnknownID(t *testing.T) {
	reg, _, _ := newTestAccounts(t)
	a, err := reg.Create(models.CollectionTwitter, fields("bot1", "gadgets"))
	require.NoError(t, err)

	require.NoError(t, reg.Remove(models.CollectionTwitter, "nope"))
	n, err := reg.Count(models.CollectionTwitter)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, reg.Remove(models.CollectionTwitter, a.ID))
	_, err = reg.FindByID(models.CollectionTwitter, a.ID)
	assert.ErrorIs(t, err, models.ErrAccountNotFound)
}

func TestAccountRegistry_AppendActivity(t *testing.T) {
	reg, _, _ := newTestAccounts(t)
	a, err := reg.Create(models.CollectionTwitter, fields("bot1", "gadgets"))
	require.NoError(t, err)

	act := &models.Activity{ID: "p1", Date: "2026-01-01T10:00:00Z", Payload: models.Payload{Content: "hi"}}
	require.NoError(t, reg.AppendActivity(models.CollectionTwitter, a.ID, act))

	found, err := reg.FindByID(models.CollectionTwitter, a.ID)
	require.NoError(t, err)
	require.Len(t, found.Activities, 1)
	assert.Equal(t, "hi", found.Activities[0].Content)
}

func TestAccountRegistry_AppendActivityNeverCreates(t *testing.T) {
	reg, _, _ := newTestAccounts(t)

	err := reg.AppendActivity(models.CollectionTwitter, "ghost", &models.Activity{ID: "p1"})
	assert.ErrorIs(t, err, models.ErrAccountNotFound)

	list, err := reg.List(models.CollectionTwitter)
	require.NoError(t, err)
	assert.Empty(t, list)

	err = reg.AppendActivity(models.CollectionTwitter, "ghost", nil)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestAccountRegistry_ListReturnsCopies(t *testing.T) {
	reg, _, _ := newTestAccounts(t)
	_, err := reg.Create(models.CollectionTwitter, fields("bot1", "gadgets"))
	require.NoError(t, err)

	list, err := reg.List(models.CollectionTwitter)
	require.NoError(t, err)
	list[0].Nickname = "mutated"

	again, err := reg.List(models.CollectionTwitter)
	require.NoError(t, err)
	assert.Equal(t, "bot1", again[0].Nickname)
}

func TestAccountRegistry_ConcurrentAppends(t *testing.T) {
	reg, _, _ := newTestAccounts(t)
	a, err := reg.Create(models.CollectionYouTube, fields("chan", "cooking"))
	require.NoError(t, err)

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, reg.AppendActivity(models.CollectionYouTube, a.ID, &models.Activity{ID: fmt.Sprintf("v%d", i)}))
		}(i)
	}
	wg.Wait()

	found, err := reg.FindByID(models.CollectionYouTube, a.ID)
	require.NoError(t, err)
	assert.Len(t, found.Activities, n)
}

func TestAccountRegistry_CorruptCollectionPropagates(t *testing.T) {
	reg, store, _ := newTestAccounts(t)
	require.NoError(t, store.Init())
	// duplicates are written through the raw store and rejected on the next read
	require.NoError(t, store.Save(models.CollectionTwitter, &models.Document{Accounts: []*models.Account{{ID: "a"}, {ID: "a"}}}))

	_, err := reg.Create(models.CollectionTwitter, fields("bot1", "gadgets"))
	assert.ErrorIs(t, err, models.ErrCorruptState)
}
