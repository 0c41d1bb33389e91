package sqlite

import (
	"context"
	"database/sql"

	"kanban-todo/internal/errors"
	"kanban-todo/internal/repository/sqlite/migrations"

	_ "modernc.org/sqlite"
)

// Repository defines the interface for local store operations
type Repository interface {
	// Session operations
	SaveSession(ctx context.Context, session *Session) error
	GetSession(ctx context.Context) (*Session, error)
	ClearSession(ctx context.Context) error

	// Plan operations
	ReplacePlan(ctx context.Context, planDate string, entries []PlanEntry) error
	ListPlanEntries(ctx context.Context, planDate string) ([]*PlanEntry, error)
	ListPlanDates(ctx context.Context) ([]string, error)
	DeletePlan(ctx context.Context, planDate string) error

	// Utility
	Close() error
}

// SQLiteRepository implements the Repository interface
type SQLiteRepository struct {
	db *sql.DB
}

// New creates a new SQLite repository instance
func New(dbPath string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.NewDatabaseError("open database", err)
	}
	// every :memory: connection is its own database
	db.SetMaxOpenConns(1)

	if err := migrations.RunMigrations(context.Background(), db); err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("run migrations", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// SaveSession stores the credential, replacing any previous one
func (r *SQLiteRepository) SaveSession(ctx context.Context, session *Session) error {
	query := `
	INSERT INTO sessions (id, token, username, saved_at)
	VALUES (1, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		token = excluded.token,
		username = excluded.username,
		saved_at = excluded.saved_at`

	_, err := r.db.ExecContext(ctx, query, session.Token, session.Username, FormatTimeForDB(session.SavedAt))
	if err != nil {
		return HandleDatabaseError("save session", err)
	}
	return nil
}

// GetSession returns the stored credential or a not-found error
func (r *SQLiteRepository) GetSession(ctx context.Context) (*Session, error) {
	query := `SELECT token, username, saved_at FROM sessions WHERE id = 1`
	return QuerySingle(ctx, r.db, query, ScanSession, "session", "current")
}

// ClearSession removes the stored credential. Clearing an empty store is not an error.
func (r *SQLiteRepository) ClearSession(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions`); err != nil {
		return HandleDatabaseError("clear session", err)
	}
	return nil
}

// ReplacePlan overwrites the plan of a date with the given entries in one transaction
func (r *SQLiteRepository) ReplacePlan(ctx context.Context, planDate string, entries []PlanEntry) error {
	query := `
	INSERT INTO plan_entries (plan_date, entry_id, todo_id, title, color, start_slot, duration_slots, position)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	return WithTx(ctx, r.db, "plan", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM plan_entries WHERE plan_date = ?`, planDate); err != nil {
			return HandleDatabaseError("clear plan", err)
		}
		for _, e := range entries {
			_, err := tx.ExecContext(ctx, query,
				planDate, e.EntryID, e.TodoID, e.Title, e.Color, e.StartSlot, e.DurationSlots, e.Position)
			if err != nil {
				return HandleDatabaseError("insert plan entry", err)
			}
		}
		return nil
	})
}

// ListPlanEntries retrieves the entries of a date in insertion order
func (r *SQLiteRepository) ListPlanEntries(ctx context.Context, planDate string) ([]*PlanEntry, error) {
	query := `
	SELECT plan_date, entry_id, todo_id, title, color, start_slot, duration_slots, position
	FROM plan_entries
	WHERE plan_date = ?
	ORDER BY position ASC`

	return QueryMultiple(ctx, r.db, query, ScanPlanEntries, "plan entries", planDate)
}

// ListPlanDates returns every date that has a saved plan, oldest first
func (r *SQLiteRepository) ListPlanDates(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT plan_date FROM plan_entries ORDER BY plan_date ASC`

	rows, err := QueryMultiple(ctx, r.db, query, ScanPlanDates, "plan dates")
	if err != nil {
		return nil, err
	}
	dates := make([]string, len(rows))
	for i, d := range rows {
		dates[i] = *d
	}
	return dates, nil
}

// DeletePlan removes the plan of a date. A date without a plan is reported as not found.
func (r *SQLiteRepository) DeletePlan(ctx context.Context, planDate string) error {
	query := `DELETE FROM plan_entries WHERE plan_date = ?`
	return ExecuteWithRowsAffected(ctx, r.db, query, "plan", planDate, planDate)
}
