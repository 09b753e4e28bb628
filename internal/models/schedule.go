package models

import "time"

type ScheduleState string

const (
	ScheduleUnscheduled ScheduleState = "unscheduled"
	ScheduleScheduled   ScheduleState = "scheduled"
	ScheduleFiring      ScheduleState = "firing"
	ScheduleCancelled   ScheduleState = "cancelled"
)

// ScheduleSpec is the persisted form of a schedule handle.
type ScheduleSpec struct {
	ID         string         `json:"id"`
	Platform   Platform       `json:"platform"`
	AccountID  string         `json:"account_id"`
	Recurrence RecurrenceKind `json:"recurrence"`
	Times      []string       `json:"times,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// ScheduleStatus is a point-in-time view of a live handle.
type ScheduleStatus struct {
	ScheduleSpec
	Timers      int           `json:"timers"`
	State       ScheduleState `json:"state"`
	Firings     int64         `json:"firings"`
	Failures    int64         `json:"failures"`
	LastFiredAt *time.Time    `json:"last_fired_at,omitempty"`
}
