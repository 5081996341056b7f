package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuclearlighters/activities/internal/database"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.OpenAndMigrate(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s := NewStore(db)
	clock := time.Date(2026, 9, 1, 15, 30, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return s
}

func TestRecordAndHistory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.Record(ctx, "Chess Club", "newstudent@mergington.edu", ActionSignup, "req-1")
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)

	_, err = s.Record(ctx, "Chess Club", "newstudent@mergington.edu", ActionUnregister, "req-2")
	require.NoError(t, err)
	_, err = s.Record(ctx, "Art Club", "amelia@mergington.edu", ActionUnregister, "")
	require.NoError(t, err)

	events, err := s.History(ctx, "Chess Club", 10)
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, ActionUnregister, events[0].Action)
	assert.Equal(t, "req-2", events[0].RequestID)
	assert.Equal(t, ActionSignup, events[1].Action)
	assert.Equal(t, first.ID, events[1].ID)
	assert.True(t, events[0].CreatedAt.After(events[1].CreatedAt))
}

func TestHistoryLimitAndEmpty(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := s.Record(ctx, "Math Club", "james@mergington.edu", ActionSignup, "")
		require.NoError(t, err)
	}

	events, err := s.History(ctx, "Math Club", 3)
	require.NoError(t, err)
	assert.Len(t, events, 3)

	events, err = s.History(ctx, "Drama Club", 3)
	require.NoError(t, err)
	assert.NotNil(t, events)
	assert.Empty(t, events)
}

func TestPing(t *testing.T) {
	s := newTestStore(t)
	assert.NoError(t, s.Ping(context.Background()))
}
