package jobs

import (
	"context"
	"errors"
	"fmt"
	"moneyprint/internal/jobs/interfaces"
	"moneyprint/internal/models"
	"moneyprint/internal/providers"
	storage "moneyprint/internal/storage/interfaces"
	"moneyprint/internal/structures"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/roylee0704/gron"
)

// Invoker performs one firing: resolve, produce, publish, append.
type Invoker interface {
	Invoke(ctx context.Context, platform models.Platform, accountID string) (*models.Activity, error)
}

// Snapshotter writes a backup of every collection into dir.
type Snapshotter interface {
	Snapshot(dir string) (string, error)
}

type Scheduler struct {
	config   *structures.Config
	logger   providers.Logger
	metrics  providers.MetricsProviderInterface
	store    storage.StoreInterface
	invoker  Invoker
	archiver Snapshotter
	newCron  interfaces.CronFactory
	now      func() time.Time

	mu       sync.Mutex
	handles  map[string]*Handle
	stopped  bool
	system   interfaces.CronInterface
	inflight sync.WaitGroup
	opsMu    sync.Mutex
}

func NewScheduler(config *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface, store storage.StoreInterface, invoker Invoker, archiver Snapshotter, newCron interfaces.CronFactory) *Scheduler {
	return &Scheduler{
		config:   config,
		logger:   logger,
		metrics:  metrics,
		store:    store,
		invoker:  invoker,
		archiver: archiver,
		newCron:  newCron,
		now:      time.Now,
		handles:  make(map[string]*Handle),
	}
}

// Init starts the system jobs. Account schedules start on Schedule or Restore.
func (s *Scheduler) Init() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.system != nil {
		return
	}
	s.system = s.newCron()

	interval := s.config.Storage.BackupInterval
	if interval > 0 && s.archiver != nil {
		s.system.AddFunc(gron.Every(interval), func() {
			s.opsMu.Lock()
			defer s.opsMu.Unlock()

			path, err := s.archiver.Snapshot(s.config.Storage.BackupDir)
			if err != nil {
				s.logger.Errorf(providers.TypeScheduler, "Error while writing snapshot: %s", err)
				return
			}
			s.logger.Infof(providers.TypeScheduler, "Snapshot written to %s", path)
		})
		s.logger.Infof(providers.TypeScheduler, "Backups every %s into %s", interval, s.config.Storage.BackupDir)
	}
	s.system.Start()
}

// Stop halts every timer and waits for in-flight firings. Persisted specs stay.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	if s.system != nil {
		s.system.Stop()
	}
	for _, h := range s.handles {
		if !h.cancelled.Load() {
			h.cron.Stop()
		}
	}
	s.mu.Unlock()

	s.inflight.Wait()
}

// Restore registers every persisted spec that is not live yet.
func (s *Scheduler) Restore() error {
	doc, err := s.store.Load(models.CollectionSchedules)
	if err != nil {
		return err
	}

	restored := 0
	for _, spec := range doc.Schedules {
		rec, err := models.NewRecurrence(spec.Recurrence, spec.Times)
		if err != nil {
			s.logger.Warnf(providers.TypeScheduler, "Skipping schedule %s (kept on disk): %s", spec.ID, err)
			continue
		}
		if err := spec.Platform.ValidatePlatform(); err != nil {
			s.logger.Warnf(providers.TypeScheduler, "Skipping schedule %s (kept on disk): %s", spec.ID, err)
			continue
		}
		if s.register(*spec, rec) {
			restored++
		}
	}
	s.logger.Infof(providers.TypeScheduler, "Restored %d schedules", restored)
	return nil
}

// Persist rewrites the schedules collection from the live handles. Stored
// specs this scheduler never registered, such as ones Restore skipped, are
// kept ahead of the live ones. Cancelled schedules are dropped.
func (s *Scheduler) Persist() error {
	specs := make([]*models.ScheduleSpec, 0)
	for _, st := range s.List() {
		spec := st.ScheduleSpec
		specs = append(specs, &spec)
	}
	s.mu.Lock()
	known := make(map[string]struct{}, len(s.handles))
	for id := range s.handles {
		known[id] = struct{}{}
	}
	s.mu.Unlock()

	err := s.store.Update(models.CollectionSchedules, func(doc *models.Document) error {
		kept := make([]*models.ScheduleSpec, 0, len(doc.Schedules)+len(specs))
		for _, spec := range doc.Schedules {
			if _, ok := known[spec.ID]; !ok {
				kept = append(kept, spec)
			}
		}
		doc.Schedules = append(kept, specs...)
		return nil
	})
	if err != nil {
		s.logger.Errorf(providers.TypeScheduler, "Error while persisting schedules: %s", err)
		return err
	}
	return nil
}

// Recurrence builds a recurrence, filling missing times from the config.
func (s *Scheduler) Recurrence(kind models.RecurrenceKind, times []string) (models.Recurrence, error) {
	if len(times) == 0 {
		switch kind {
		case models.TwiceDaily:
			times = s.config.Scheduler.TwiceDaily
		case models.ThriceDaily:
			times = s.config.Scheduler.ThriceDaily
		}
	}
	return models.NewRecurrence(kind, times)
}

func (s *Scheduler) Schedule(platform models.Platform, accountID string, rec models.Recurrence) (*models.ScheduleStatus, error) {
	if err := platform.ValidatePlatform(); err != nil {
		return nil, err
	}
	rec, err := models.NewRecurrence(rec.Kind, rec.Times)
	if err != nil {
		return nil, err
	}

	spec := models.ScheduleSpec{
		ID:         uuid.NewString(),
		Platform:   platform,
		AccountID:  accountID,
		Recurrence: rec.Kind,
		Times:      rec.Times,
		CreatedAt:  s.now().UTC(),
	}
	err = s.store.Update(models.CollectionSchedules, func(doc *models.Document) error {
		cp := spec
		doc.Schedules = append(doc.Schedules, &cp)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.register(spec, rec)
	s.logger.Infof(providers.TypeScheduler, "Scheduled %s %s/%s %s %v", spec.ID, platform, accountID, rec.Kind, rec.Times)

	s.mu.Lock()
	h := s.handles[spec.ID]
	s.mu.Unlock()
	return h.Status(), nil
}

// Cancel stops every timer of the handle. A firing already running completes.
func (s *Scheduler) Cancel(id string) error {
	s.mu.Lock()
	h, ok := s.handles[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", models.ErrScheduleNotFound, id)
	}
	if h.cancelled.Swap(true) {
		s.mu.Unlock()
		return nil
	}
	h.cron.Stop()
	active := s.activeLocked()
	s.mu.Unlock()

	s.metrics.SetActiveSchedules(active)
	s.logger.Infof(providers.TypeScheduler, "Cancelled schedule %s", id)

	return s.store.Update(models.CollectionSchedules, func(doc *models.Document) error {
		kept := doc.Schedules[:0]
		for _, spec := range doc.Schedules {
			if spec.ID != id {
				kept = append(kept, spec)
			}
		}
		doc.Schedules = kept
		return nil
	})
}

// List returns the live handles, oldest first.
func (s *Scheduler) List() []*models.ScheduleStatus {
	s.mu.Lock()
	out := make([]*models.ScheduleStatus, 0, len(s.handles))
	for _, h := range s.handles {
		if !h.cancelled.Load() {
			out = append(out, h.Status())
		}
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (s *Scheduler) register(spec models.ScheduleSpec, rec models.Recurrence) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.handles[spec.ID]; exists {
		return false
	}

	h := &Handle{spec: spec, recurrence: rec, cron: s.newCron()}
	for _, slot := range slots(rec) {
		h.cron.AddFunc(slot, func() { s.fire(h) })
	}
	s.handles[spec.ID] = h
	if !s.stopped {
		h.cron.Start()
	}
	s.metrics.SetActiveSchedules(s.activeLocked())
	return true
}

func (s *Scheduler) activeLocked() int {
	n := 0
	for _, h := range s.handles {
		if !h.cancelled.Load() {
			n++
		}
	}
	return n
}

func (s *Scheduler) fire(h *Handle) {
	s.mu.Lock()
	if s.stopped || h.cancelled.Load() {
		s.mu.Unlock()
		return
	}
	s.inflight.Add(1)
	s.mu.Unlock()
	defer s.inflight.Done()

	h.firing.Inc()
	defer h.firing.Dec()

	platform, accountID := h.spec.Platform, h.spec.AccountID
	s.metrics.IncFirings(platform.String())
	s.logger.Debugf(providers.TypeScheduler, "Firing schedule %s for %s/%s", h.spec.ID, platform, accountID)

	activity, err := s.invoker.Invoke(context.Background(), platform, accountID)
	h.firings.Inc()
	h.lastFired.Store(s.now().UnixNano())
	if err != nil {
		h.failures.Inc()
		if errors.Is(err, models.ErrAccountNotFound) {
			s.logger.Warnf(providers.TypeScheduler, "Schedule %s skipped: %s", h.spec.ID, err)
			return
		}
		s.logger.Errorf(providers.TypeScheduler, "Schedule %s failed: %s", h.spec.ID, err)
		return
	}
	s.logger.Infof(providers.TypeScheduler, "Schedule %s published %s for %s/%s", h.spec.ID, activity.ID, platform, accountID)
}

var _ interfaces.SchedulerInterface = (*Scheduler)(nil)
