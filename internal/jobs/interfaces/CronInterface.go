package interfaces

import "github.com/roylee0704/gron"

// CronInterface is the subset of *gron.Cron the scheduler drives.
type CronInterface interface {
	AddFunc(s gron.Schedule, j func())
	Start()
	Stop()
}

type CronFactory func() CronInterface
