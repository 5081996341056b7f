package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuclearlighters/activities/internal/journal"
	"github.com/nuclearlighters/activities/internal/registry"
	"github.com/nuclearlighters/activities/internal/system"
)

func TestHealth(t *testing.T) {
	tests := []struct {
		name          string
		journal       func(t *testing.T) Journal
		wantStatus    int
		wantState     string
		wantConnected bool
	}{
		{"journal disabled", func(*testing.T) Journal { return nil }, http.StatusOK, "healthy", false},
		{"journal connected", func(t *testing.T) Journal { return newTestJournal(t) }, http.StatusOK, "healthy", true},
		{"journal unreachable", func(*testing.T) Journal { return failingJournal{} }, http.StatusServiceUnavailable, "degraded", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, err := registry.New(registry.DefaultActivities())
			require.NoError(t, err)

			h := NewHealthHandler(testConfig(t), reg, tt.journal(t))
			h.stats = func() system.Stats { return system.Stats{Hostname: "test"} }

			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			require.Equal(t, tt.wantStatus, w.Code)
			resp := decode[HealthResponse](t, w)
			assert.Equal(t, tt.wantState, resp.Status)
			assert.Equal(t, "test", resp.Version)
			assert.Equal(t, reg.Len(), resp.Activities)
			assert.Equal(t, tt.wantConnected, resp.JournalConnected)
			assert.Equal(t, "test", resp.System.Hostname)
		})
	}
}

func TestStaticFiles(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(filepath.Join(cfg.StaticDir, "app.js"), []byte("// Mergington"), 0644))

	reg, err := registry.New(registry.DefaultActivities())
	require.NoError(t, err)
	handler := NewRouter(cfg, reg, nil)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/static/app.js", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Mergington")
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, nil)

	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/activities", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestHealthReportsSuspendedJournal(t *testing.T) {
	reg, err := registry.New(registry.DefaultActivities())
	require.NoError(t, err)

	g := journal.NewGuarded(newTestJournal(t), journal.GuardConfig{Threshold: 1, Cooldown: time.Hour})
	h := NewHealthHandler(testConfig(t), reg, g)
	h.stats = func() system.Stats { return system.Stats{} }

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "closed", decode[HealthResponse](t, w).JournalState)

	// An invalid action violates the table's CHECK constraint.
	_, err = g.Record(context.Background(), "Chess Club", "a@mergington.edu", journal.Action("bogus"), "")
	require.Error(t, err)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	resp := decode[HealthResponse](t, w)
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, "open", resp.JournalState)
}
