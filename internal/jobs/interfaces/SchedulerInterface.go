package interfaces

import "moneyprint/internal/models"

type SchedulerInterface interface {
	Init()
	Stop()
	Restore() error
	Persist() error
	Recurrence(kind models.RecurrenceKind, times []string) (models.Recurrence, error)
	Schedule(platform models.Platform, accountID string, rec models.Recurrence) (*models.ScheduleStatus, error)
	Cancel(id string) error
	List() []*models.ScheduleStatus
}
