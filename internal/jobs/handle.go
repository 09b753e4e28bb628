package jobs

import (
	"moneyprint/internal/jobs/interfaces"
	"moneyprint/internal/models"
	"time"

	"go.uber.org/atomic"
)

// Handle is one live schedule. All of its timers share the same target.
type Handle struct {
	spec       models.ScheduleSpec
	recurrence models.Recurrence
	cron       interfaces.CronInterface

	cancelled atomic.Bool
	firing    atomic.Int32
	firings   atomic.Int64
	failures  atomic.Int64
	lastFired atomic.Int64
}

func (h *Handle) ID() string {
	return h.spec.ID
}

func (h *Handle) State() models.ScheduleState {
	switch {
	case h.cancelled.Load():
		return models.ScheduleCancelled
	case h.firing.Load() > 0:
		return models.ScheduleFiring
	}
	return models.ScheduleScheduled
}

func (h *Handle) Status() *models.ScheduleStatus {
	st := &models.ScheduleStatus{
		ScheduleSpec: h.spec,
		Timers:       h.recurrence.Timers(),
		State:        h.State(),
		Firings:      h.firings.Load(),
		Failures:     h.failures.Load(),
	}
	st.Times = append([]string(nil), h.spec.Times...)
	if ns := h.lastFired.Load(); ns > 0 {
		t := time.Unix(0, ns).UTC()
		st.LastFiredAt = &t
	}
	return st
}
