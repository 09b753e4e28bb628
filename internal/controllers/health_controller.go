package controllers

import (
	"fmt"
	"moneyprint/internal/services"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
)

type HealthController struct {
	service   services.ConsoleServiceInterface
	startTime time.Time
}

type healthResponse struct {
	Status          string         `json:"status"`
	Uptime          string         `json:"uptime"`
	UptimeSeconds   float64        `json:"uptime_seconds"`
	ActiveSchedules int            `json:"active_schedules"`
	FailedFirings   int64          `json:"failed_firings"`
	LastFiringAt    *time.Time     `json:"last_firing_at,omitempty"`
	Accounts        map[string]int `json:"accounts"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	status := http.StatusOK
	uptime := time.Since(hc.startTime)
	schedules := hc.service.ListSchedules()
	resp := healthResponse{
		Status:          "ok",
		Uptime:          formatDuration(uptime),
		UptimeSeconds:   uptime.Seconds(),
		ActiveSchedules: len(schedules),
		Accounts:        map[string]int{},
	}
	for _, st := range schedules {
		resp.FailedFirings += st.Failures
		if st.LastFiredAt != nil && (resp.LastFiringAt == nil || st.LastFiredAt.After(*resp.LastFiringAt)) {
			resp.LastFiringAt = st.LastFiredAt
		}
	}
	counts, err := hc.service.AccountCounts()
	if err != nil {
		resp.Status = "degraded"
		status = http.StatusServiceUnavailable
	}
	for p, n := range counts {
		resp.Accounts[p.String()] = n
	}

	gson, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(service services.ConsoleServiceInterface) *HealthController {
	return &HealthController{
		service:   service,
		startTime: time.Now(),
	}
}
