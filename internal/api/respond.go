package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/nuclearlighters/activities/internal/journal"
)

const (
	detailActivityNotFound = "Activity not found"
	detailInternal         = "Internal server error"
	detailNotFound         = "Not Found"
	detailMethodNotAllowed = "Method Not Allowed"
)

// MessageResponse is returned by successful roster changes.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse carries a human-readable failure reason.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// HistoryResponse is returned by GET /activities/{activity_name}/history.
type HistoryResponse struct {
	Activity string          `json:"activity"`
	Events   []journal.Event `json:"events"`
	Count    int             `json:"count"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeDetail writes a JSON error response.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, ErrorResponse{Detail: detail})
}
