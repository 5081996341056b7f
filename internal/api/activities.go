package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/nuclearlighters/activities/internal/journal"
	"github.com/nuclearlighters/activities/internal/metrics"
	"github.com/nuclearlighters/activities/internal/registry"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

// Journal records roster changes. A nil Journal disables recording and the
// history endpoint.
type Journal interface {
	Record(ctx context.Context, activity, email string, action journal.Action, requestID string) (journal.Event, error)
	History(ctx context.Context, activity string, limit int) ([]journal.Event, error)
	Ping(ctx context.Context) error
}

// ActivitiesHandler serves the activity listing and roster endpoints.
type ActivitiesHandler struct {
	registry *registry.Registry
	journal  Journal
}

// NewActivitiesHandler creates a new ActivitiesHandler.
// The journal can be nil. The participants gauge is fed by the registry's
// roster observer, see metrics.SetParticipants.
func NewActivitiesHandler(reg *registry.Registry, j Journal) *ActivitiesHandler {
	return &ActivitiesHandler{
		registry: reg,
		journal:  j,
	}
}

// Routes returns the router mounted at /activities.
func (h *ActivitiesHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/{activity_name}/signup", h.Signup)
	r.Delete("/{activity_name}/unregister", h.Unregister)
	r.Get("/{activity_name}/history", h.History)
	return r
}

// List handles GET /activities
// Returns every activity keyed by name, rosters included.
func (h *ActivitiesHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.registry.List())
}

// Signup handles POST /activities/{activity_name}/signup?email=
func (h *ActivitiesHandler) Signup(w http.ResponseWriter, r *http.Request) {
	name := activityName(r)
	email, ok := emailParam(r)
	if !ok {
		metrics.Signups.WithLabelValues(metrics.OutcomeInvalid).Inc()
		writeDetail(w, http.StatusUnprocessableEntity, "email query parameter is required")
		return
	}

	size, err := h.registry.Enroll(name, email)
	if err != nil {
		status, detail, outcome := rosterError(err)
		metrics.Signups.WithLabelValues(outcome).Inc()
		log.Debug().Err(err).Str("activity", name).Str("email", email).Msg("Signup rejected")
		writeDetail(w, status, detail)
		return
	}

	metrics.Signups.WithLabelValues(metrics.OutcomeSuccess).Inc()
	h.record(r, name, email, journal.ActionSignup)

	log.Info().Str("activity", name).Str("email", email).Int("participants", size).Msg("Participant signed up")
	writeJSON(w, http.StatusOK, MessageResponse{
		Message: fmt.Sprintf("Signed up %s for %s", email, name),
	})
}

// Unregister handles DELETE /activities/{activity_name}/unregister?email=
func (h *ActivitiesHandler) Unregister(w http.ResponseWriter, r *http.Request) {
	name := activityName(r)
	email, ok := emailParam(r)
	if !ok {
		metrics.Unregistrations.WithLabelValues(metrics.OutcomeInvalid).Inc()
		writeDetail(w, http.StatusUnprocessableEntity, "email query parameter is required")
		return
	}

	size, err := h.registry.Withdraw(name, email)
	if err != nil {
		status, detail, outcome := rosterError(err)
		metrics.Unregistrations.WithLabelValues(outcome).Inc()
		log.Debug().Err(err).Str("activity", name).Str("email", email).Msg("Unregister rejected")
		writeDetail(w, status, detail)
		return
	}

	metrics.Unregistrations.WithLabelValues(metrics.OutcomeSuccess).Inc()
	h.record(r, name, email, journal.ActionUnregister)

	log.Info().Str("activity", name).Str("email", email).Int("participants", size).Msg("Participant unregistered")
	writeJSON(w, http.StatusOK, MessageResponse{
		Message: fmt.Sprintf("Unregistered %s from %s", email, name),
	})
}

// History handles GET /activities/{activity_name}/history?limit=
// Returns journaled roster changes, newest first.
func (h *ActivitiesHandler) History(w http.ResponseWriter, r *http.Request) {
	name := activityName(r)
	if _, err := h.registry.Get(name); err != nil {
		writeDetail(w, http.StatusNotFound, detailActivityNotFound)
		return
	}

	if h.journal == nil {
		writeDetail(w, http.StatusServiceUnavailable, "Enrollment journal is disabled")
		return
	}

	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeDetail(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	events, err := h.journal.History(r.Context(), name, limit)
	if err != nil {
		log.Error().Err(err).Str("activity", name).Msg("Failed to read enrollment history")
		writeDetail(w, http.StatusInternalServerError, detailInternal)
		return
	}

	writeJSON(w, http.StatusOK, HistoryResponse{
		Activity: name,
		Events:   events,
		Count:    len(events),
	})
}

// record journals a successful roster change. Failures are logged only;
// the registry has already been updated.
func (h *ActivitiesHandler) record(r *http.Request, name, email string, action journal.Action) {
	if h.journal == nil {
		return
	}
	reqID := middleware.GetReqID(r.Context())
	if _, err := h.journal.Record(r.Context(), name, email, action, reqID); err != nil {
		metrics.JournalErrors.Inc()
		log.Error().Err(err).
			Str("activity", name).
			Str("email", email).
			Str("action", string(action)).
			Str("request_id", reqID).
			Msg("Failed to journal roster change")
	}
}

// rosterError maps registry errors to status, detail and metric outcome.
func rosterError(err error) (int, string, string) {
	switch {
	case errors.Is(err, registry.ErrActivityNotFound):
		return http.StatusNotFound, detailActivityNotFound, metrics.OutcomeNotFound
	case errors.Is(err, registry.ErrAlreadyRegistered):
		return http.StatusBadRequest, "Student is already signed up for this activity", metrics.OutcomeAlreadyRegistered
	case errors.Is(err, registry.ErrNotRegistered):
		return http.StatusNotFound, "Student is not registered for this activity", metrics.OutcomeNotRegistered
	case errors.Is(err, registry.ErrActivityFull):
		return http.StatusBadRequest, "Activity is full", metrics.OutcomeFull
	default:
		log.Error().Err(err).Msg("Unexpected registry error")
		return http.StatusInternalServerError, detailInternal, metrics.OutcomeError
	}
}

// activityName returns the decoded {activity_name} path segment.
// chi matches on RawPath when the request carries one, which leaves the
// parameter percent-encoded.
func activityName(r *http.Request) string {
	name := chi.URLParam(r, "activity_name")
	if r.URL.RawPath == "" {
		return name
	}
	if decoded, err := url.PathUnescape(name); err == nil {
		return decoded
	}
	return name
}

// emailParam returns the email query parameter. An empty value is accepted;
// only a missing parameter is rejected.
func emailParam(r *http.Request) (string, bool) {
	q := r.URL.Query()
	if !q.Has("email") {
		return "", false
	}
	return q.Get("email"), true
}
