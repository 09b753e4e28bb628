package jobs

import (
	"moneyprint/internal/models"

	"github.com/roylee0704/gron"
	"github.com/roylee0704/gron/xtime"
)

// slots turns a recurrence into one gron schedule per timer. Times are UTC.
func slots(rec models.Recurrence) []gron.Schedule {
	if rec.Kind == models.OncePerDay {
		return []gron.Schedule{gron.Every(xtime.Day)}
	}
	out := make([]gron.Schedule, 0, len(rec.Times))
	for _, t := range rec.Times {
		out = append(out, gron.Every(xtime.Day).At(t))
	}
	return out
}
