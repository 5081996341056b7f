// Package journal records successful signups and unregistrations in an
// append-only SQLite table. The registry never reads the journal back; it is
// an audit trail for operators.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Action identifies what happened to a roster.
type Action string

const (
	ActionSignup     Action = "signup"
	ActionUnregister Action = "unregister"
)

// Event is a single journal entry.
type Event struct {
	ID        string    `json:"id"`
	Activity  string    `json:"activity"`
	Email     string    `json:"email"`
	Action    Action    `json:"action"`
	RequestID string    `json:"request_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Store reads and writes enrollment events.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// NewStore creates a Store on a migrated database.
func NewStore(db *sql.DB) *Store {
	return &Store{
		db:  db,
		now: time.Now,
	}
}

// Record appends an event and returns it.
func (s *Store) Record(ctx context.Context, activity, email string, action Action, requestID string) (Event, error) {
	ev := Event{
		ID:        uuid.New().String(),
		Activity:  activity,
		Email:     email,
		Action:    action,
		RequestID: requestID,
		CreatedAt: s.now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO enrollment_events (id, activity, email, action, request_id, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.Activity, ev.Email, string(ev.Action), ev.RequestID, ev.CreatedAt,
	)
	if err != nil {
		return Event{}, fmt.Errorf("failed to record %s event: %w", action, err)
	}
	return ev, nil
}

// History returns up to limit events for an activity, newest first.
func (s *Store) History(ctx context.Context, activity string, limit int) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, activity, email, action, request_id, created_at
		 FROM enrollment_events
		 WHERE activity = ?
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		activity, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	events := []Event{}
	for rows.Next() {
		var (
			ev     Event
			action string
		)
		if err := rows.Scan(&ev.ID, &ev.Activity, &ev.Email, &action, &ev.RequestID, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		ev.Action = Action(action)
		events = append(events, ev)
	}
	return events, rows.Err()
}

// Ping checks that the underlying database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
