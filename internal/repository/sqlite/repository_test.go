package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kanban-todo/internal/errors"
)

func setupTestDB(t *testing.T) (*SQLiteRepository, func()) {
	repo, err := New(":memory:")
	require.NoError(t, err)

	cleanup := func() {
		repo.Close()
	}

	return repo, cleanup
}

func samplePlan(date string) []PlanEntry {
	return []PlanEntry{
		{PlanDate: date, EntryID: "e-1", TodoID: 1, Title: "Write report", Color: "#3B82F6", StartSlot: 18, DurationSlots: 2, Position: 0},
		{PlanDate: date, EntryID: "e-2", TodoID: 2, Title: "Review PR", Color: "#EF4444", StartSlot: 19, DurationSlots: 3, Position: 1},
	}
}

func TestNew_FileDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "kb.db")

	repo, err := New(dbPath)
	require.NoError(t, err)
	require.NoError(t, repo.SaveSession(context.Background(), &Session{Token: "t", Username: "u", SavedAt: time.Now()}))
	require.NoError(t, repo.Close())

	reopened, err := New(dbPath)
	require.NoError(t, err)
	defer reopened.Close()

	session, err := reopened.GetSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "t", session.Token)
}

func TestSession_SaveGetClear(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	_, err := repo.GetSession(ctx)
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))

	savedAt := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	require.NoError(t, repo.SaveSession(ctx, &Session{Token: "first", Username: "aki", SavedAt: savedAt}))
	require.NoError(t, repo.SaveSession(ctx, &Session{Token: "second", Username: "admin", SavedAt: savedAt}))

	session, err := repo.GetSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", session.Token)
	assert.Equal(t, "admin", session.Username)
	assert.True(t, savedAt.Equal(session.SavedAt))

	require.NoError(t, repo.ClearSession(ctx))
	_, err = repo.GetSession(ctx)
	assert.Error(t, err)

	// clearing twice is fine
	assert.NoError(t, repo.ClearSession(ctx))
}

func TestReplacePlan_RoundTrip(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, repo.ReplacePlan(ctx, "2025-03-01", samplePlan("2025-03-01")))

	entries, err := repo.ListPlanEntries(ctx, "2025-03-01")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "e-1", entries[0].EntryID)
	assert.Equal(t, "e-2", entries[1].EntryID)
	assert.Equal(t, "#EF4444", entries[1].Color)
	assert.Equal(t, 19, entries[1].StartSlot)
	assert.Equal(t, 3, entries[1].DurationSlots)

	// Replacing drops entries that are no longer present
	require.NoError(t, repo.ReplacePlan(ctx, "2025-03-01", samplePlan("2025-03-01")[1:]))
	entries, err = repo.ListPlanEntries(ctx, "2025-03-01")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "e-2", entries[0].EntryID)
}

func TestReplacePlan_KeepsPositionOrder(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	plan := samplePlan("2025-03-01")
	plan[0].Position, plan[1].Position = 1, 0
	require.NoError(t, repo.ReplacePlan(ctx, "2025-03-01", plan))

	entries, err := repo.ListPlanEntries(ctx, "2025-03-01")
	require.NoError(t, err)
	assert.Equal(t, "e-2", entries[0].EntryID)
	assert.Equal(t, "e-1", entries[1].EntryID)
}

func TestReplacePlan_InvalidEntryRollsBack(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, repo.ReplacePlan(ctx, "2025-03-01", samplePlan("2025-03-01")))

	bad := samplePlan("2025-03-01")
	bad[1].StartSlot = 47
	err := repo.ReplacePlan(ctx, "2025-03-01", bad)
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeDatabase))

	entries, err := repo.ListPlanEntries(ctx, "2025-03-01")
	require.NoError(t, err)
	assert.Len(t, entries, 2, "previous plan survives a failed replace")
}

func TestListPlanDates(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	dates, err := repo.ListPlanDates(ctx)
	require.NoError(t, err)
	assert.Empty(t, dates)

	require.NoError(t, repo.ReplacePlan(ctx, "2025-03-02", samplePlan("2025-03-02")))
	require.NoError(t, repo.ReplacePlan(ctx, "2025-03-01", samplePlan("2025-03-01")))

	dates, err = repo.ListPlanDates(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-03-01", "2025-03-02"}, dates)
}

func TestDeletePlan(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	err := repo.DeletePlan(ctx, "2025-03-01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	require.NoError(t, repo.ReplacePlan(ctx, "2025-03-01", samplePlan("2025-03-01")))
	require.NoError(t, repo.ReplacePlan(ctx, "2025-03-02", samplePlan("2025-03-02")))
	require.NoError(t, repo.DeletePlan(ctx, "2025-03-01"))

	entries, err := repo.ListPlanEntries(ctx, "2025-03-01")
	require.NoError(t, err)
	assert.Empty(t, entries)

	entries, err = repo.ListPlanEntries(ctx, "2025-03-02")
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
