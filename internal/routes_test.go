package internal

import (
	"encoding/json"
	"moneyprint/internal/bootstrap"
	"moneyprint/internal/controllers"
	"moneyprint/internal/jobs"
	"moneyprint/internal/jobs/interfaces"
	"moneyprint/internal/models"
	"moneyprint/internal/providers"
	"moneyprint/internal/publish"
	"moneyprint/internal/registry"
	"moneyprint/internal/services"
	"moneyprint/internal/storage"
	storageInterfaces "moneyprint/internal/storage/interfaces"
	"moneyprint/internal/structures"
	"moneyprint/internal/testutil"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stack struct {
	conf      *structures.Config
	logger    *testutil.MockLogger
	store     storageInterfaces.StoreInterface
	scheduler *jobs.Scheduler
	clock     *testutil.FakeClock
	archiver  *storage.Archiver
	handler   http.Handler
}

func newStack(t *testing.T, conf *structures.Config) *stack {
	t.Helper()
	if conf == nil {
		conf = testutil.TestConfig(t.TempDir())
	}
	logger := &testutil.MockLogger{}
	metrics := testutil.NewMockMetrics()
	store := storage.NewFileStore(conf, providers.NewCacheProvider(conf, logger), logger, metrics)
	accounts := registry.NewAccountRegistry(store, logger, metrics)
	products := registry.NewProductRegistry(store, accounts, logger)
	templates, err := publish.NewTemplates(conf)
	require.NoError(t, err)
	factory := publish.NewFactory(conf, &testutil.MockPublisher{}, templates)
	ps := services.NewPublishService(accounts, products, factory, logger, metrics)
	archiver := storage.NewArchiver(store, &testutil.MockCompressor{}, logger)

	clock := testutil.NewFakeClock(time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC))
	scheduler := jobs.NewScheduler(conf, logger, metrics, store, ps, archiver, func() interfaces.CronInterface { return clock.NewCron() })
	console := services.NewConsoleService(accounts, products, ps, scheduler, factory)

	api := controllers.NewApiController(logger, console)
	health := controllers.NewHealthController(console)
	handler := NewHandler(conf, logger, InitRoutes(api), metrics, health)
	return &stack{conf: conf, logger: logger, store: store, scheduler: scheduler, clock: clock, archiver: archiver, handler: handler}
}

func (s *stack) do(t *testing.T, method, url, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, url, nil)
	} else {
		req = httptest.NewRequest(method, url, strings.NewReader(body))
	}
	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)
	return rr
}

func TestRoutes_AccountPublishHistoryFlow(t *testing.T) {
	s := newStack(t, nil)

	rr := s.do(t, http.MethodPost, "/accounts?platform=twitter", `{"nickname": "bot1", "topic": "gadgets"}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	var acc models.Account
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &acc))

	rr = s.do(t, http.MethodPost, "/publish?platform=twitter&id="+acc.ID, "")
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = s.do(t, http.MethodGet, "/history?platform=twitter&id="+acc.ID, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var history []models.Activity
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &history))
	require.Len(t, history, 1)
	assert.Contains(t, history[0].Content, "gadgets")

	rr = s.do(t, http.MethodGet, "/accounts?platform=twitter", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "bot1")
}

func TestRoutes_ScheduleFlow(t *testing.T) {
	s := newStack(t, nil)
	rr := s.do(t, http.MethodPost, "/accounts?platform=youtube", `{"nickname": "chan", "topic": "cooking"}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	var acc models.Account
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &acc))

	rr = s.do(t, http.MethodPost, "/schedules", `{"platform": "youtube", "account_id": "`+acc.ID+`", "recurrence": "thrice"}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	var st models.ScheduleStatus
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &st))
	assert.Equal(t, 3, st.Timers)

	rr = s.do(t, http.MethodGet, "/schedules", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), st.ID)

	rr = s.do(t, http.MethodPost, "/schedules/cancel?id="+st.ID, "")
	assert.Equal(t, http.StatusNoContent, rr.Code)
	rr = s.do(t, http.MethodPost, "/schedules/cancel?id=unknown", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRoutes_MethodNotAllowed(t *testing.T) {
	s := newStack(t, nil)
	rr := s.do(t, http.MethodGet, "/publish?platform=twitter&id=x", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)

	rr = s.do(t, http.MethodDelete, "/accounts?platform=twitter", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestRoutes_Health(t *testing.T) {
	s := newStack(t, nil)
	rr := s.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"active_schedules":0`)
}

func TestRoutes_CorsWhenOriginsConfigured(t *testing.T) {
	conf := testutil.TestConfig(t.TempDir())
	conf.WebServer.AllowedOrigins = []string{"http://localhost:3000"}
	s := newStack(t, conf)

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "http://localhost:3000", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestPrepare_InitRestoreAndSchedules(t *testing.T) {
	s := newStack(t, nil)
	require.NoError(t, s.store.Save(models.CollectionTwitter, &models.Document{Accounts: []*models.Account{{ID: "a1", Nickname: "bot1", TopicOrNiche: "x"}}}))
	snapshot, err := s.archiver.Snapshot(filepath.Join(t.TempDir(), "backups"))
	require.NoError(t, err)

	conf := testutil.TestConfig(t.TempDir())
	conf.RestoreFrom = snapshot
	conf.Bootstrap.AssetURL = "http://127.0.0.1:1/unreachable.zip"
	conf.Bootstrap.SongsDir = filepath.Join(t.TempDir(), "Songs")
	fresh := newStack(t, conf)
	require.NoError(t, fresh.store.Save(models.CollectionSchedules, &models.Document{Schedules: []*models.ScheduleSpec{
		{ID: "s1", Platform: models.CollectionTwitter, AccountID: "a1", Recurrence: models.OncePerDay},
	}}))

	assets := bootstrap.NewAssets(conf, fresh.logger)
	err = prepare(conf, fresh.logger, fresh.store, fresh.archiver, assets, fresh.scheduler)
	require.NoError(t, err)

	doc, err := fresh.store.Load(models.CollectionTwitter)
	require.NoError(t, err)
	require.Len(t, doc.Accounts, 1)
	assert.Equal(t, "bot1", doc.Accounts[0].Nickname)

	// the snapshot carried an empty schedules collection
	assert.Empty(t, fresh.scheduler.List())
	assert.Equal(t, 1, fresh.logger.Count("error", providers.TypeApp), "asset failure is logged, not fatal")
	for _, c := range models.AllCollections {
		assert.FileExists(t, filepath.Join(conf.Storage.Dir, c.FileName()))
	}
}

func TestPrepare_CorruptSnapshotIsFatal(t *testing.T) {
	conf := testutil.TestConfig(t.TempDir())
	conf.RestoreFrom = filepath.Join(t.TempDir(), "missing.json.zst")
	s := newStack(t, conf)

	err := prepare(conf, s.logger, s.store, s.archiver, bootstrap.NewAssets(conf, s.logger), s.scheduler)
	assert.ErrorIs(t, err, models.ErrStorageUnavailable)
}
