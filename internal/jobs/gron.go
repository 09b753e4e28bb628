package jobs

import (
	"moneyprint/internal/jobs/interfaces"

	"github.com/roylee0704/gron"
)

func NewGronFactory() interfaces.CronFactory {
	return func() interfaces.CronInterface {
		return gron.New()
	}
}
