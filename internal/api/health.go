// Package api provides HTTP handlers for the activities REST API.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nuclearlighters/activities/internal/config"
	"github.com/nuclearlighters/activities/internal/journal"
	"github.com/nuclearlighters/activities/internal/registry"
	"github.com/nuclearlighters/activities/internal/system"
)

// HealthResponse is the JSON response for the /health endpoint.
type HealthResponse struct {
	Status           string       `json:"status"`
	Version          string       `json:"version"`
	Uptime           string       `json:"uptime"`
	UptimeSeconds    float64      `json:"uptime_seconds"`
	Activities       int          `json:"activities"`
	JournalEnabled   bool         `json:"journal_enabled"`
	JournalConnected bool         `json:"journal_connected"`
	JournalState     string       `json:"journal_state,omitempty"`
	System           system.Stats `json:"system"`
}

// HealthHandler handles GET /health requests.
// It checks the health of the service and its dependencies.
type HealthHandler struct {
	cfg       *config.Settings
	registry  *registry.Registry
	journal   Journal
	startTime time.Time
	stats     func() system.Stats
}

// NewHealthHandler creates a new HealthHandler.
// The journal can be nil when journaling is disabled.
func NewHealthHandler(cfg *config.Settings, reg *registry.Registry, j Journal) *HealthHandler {
	return &HealthHandler{
		cfg:       cfg,
		registry:  reg,
		journal:   j,
		startTime: time.Now(),
		stats:     system.GetStats,
	}
}

// ServeHTTP implements http.Handler for the health check endpoint.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	uptime := time.Since(h.startTime)
	resp := HealthResponse{
		Status:         "healthy",
		Version:        h.cfg.Version,
		Uptime:         system.FormatUptime(uptime),
		UptimeSeconds:  uptime.Seconds(),
		Activities:     h.registry.Len(),
		JournalEnabled: h.journal != nil,
		System:         h.stats(),
	}

	if h.journal != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.journal.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("Journal ping failed")
			resp.Status = "degraded"
		} else {
			resp.JournalConnected = true
		}

		if g, ok := h.journal.(interface{ State() journal.BreakerState }); ok {
			resp.JournalState = string(g.State())
			if g.State() == journal.BreakerOpen {
				resp.Status = "degraded"
			}
		}
	}

	// Return 503 if degraded, 200 if healthy
	status := http.StatusOK
	if resp.Status == "degraded" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}
