package services

import (
	"context"
	"io"
	"time"

	"kanban-todo/internal/api"
	"kanban-todo/internal/domain"
	"kanban-todo/internal/timeline"
)

// Column is one status column of the board, sorted by sort order
type Column struct {
	Status domain.TodoStatus `json:"status"`
	Label  string            `json:"label"`
	Todos  []domain.Todo     `json:"todos"`
}

// Board represents everything needed to draw the kanban view
type Board struct {
	Columns   []Column          `json:"columns"`
	Assignees []domain.Assignee `json:"assignees"`
}

// Column returns the column for status, or nil
func (b *Board) Column(status domain.TodoStatus) *Column {
	for i := range b.Columns {
		if b.Columns[i].Status == status {
			return &b.Columns[i]
		}
	}
	return nil
}

// TodoDraft holds the fields of a todo being created
type TodoDraft struct {
	Title       string
	Description string
	Status      domain.TodoStatus   // defaults to TODO
	Priority    domain.TodoPriority // defaults to MEDIUM
	AssigneeID  *int64
}

// CurrentUser describes the logged-in session
type CurrentUser struct {
	Username  string     `json:"username"`
	Subject   string     `json:"subject,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	SavedAt   time.Time  `json:"saved_at"`
	Admin     bool       `json:"admin"`
}

// Expired reports whether the token's exp claim has passed
func (u *CurrentUser) Expired(now time.Time) bool {
	return u.ExpiresAt != nil && now.After(*u.ExpiresAt)
}

// MinutesOptions controls the meeting minutes export
type MinutesOptions struct {
	Date   time.Time
	Memo   string
	Filter domain.TodoFilter
}

// PlanView is a saved plan together with its lane layout
type PlanView struct {
	Date    string                        `json:"date"`
	Entries []domain.TimelineEntry        `json:"entries"`
	Layout  map[string]timeline.Placement `json:"layout"`
}

// AuthService handles login state and the locally held credential
type AuthService interface {
	Login(ctx context.Context, username, password string) (*domain.Session, error)
	Logout(ctx context.Context) error
	Current(ctx context.Context) (*CurrentUser, error)

	// RequireAdmin fails unless the admin account is logged in
	RequireAdmin(ctx context.Context) error
}

// BoardService handles todo lifecycle and column ordering
type BoardService interface {
	// Board views
	Board(ctx context.Context, filter domain.TodoFilter) (*Board, error)
	Todo(ctx context.Context, id int64) (*domain.Todo, error)

	// Todo CRUD operations
	CreateTodo(ctx context.Context, draft TodoDraft) (*domain.Todo, error)
	EditTodo(ctx context.Context, id int64, patch domain.TodoPatch) (*domain.Todo, error)
	ChangeStatus(ctx context.Context, id int64, status domain.TodoStatus) (*domain.Todo, error)
	DeleteTodo(ctx context.Context, id int64) error

	// Reorder moves todoID to overID's position within its column and
	// returns the renumbered sort orders. Nothing is sent when the move is a
	// no-op.
	Reorder(ctx context.Context, todoID, overID int64, filter domain.TodoFilter) ([]domain.SortOrderUpdate, error)
}

// AssigneeService manages the people todos are assigned to
type AssigneeService interface {
	List(ctx context.Context) ([]domain.Assignee, error)
	Create(ctx context.Context, name string) (*domain.Assignee, error)
	Rename(ctx context.Context, id int64, name string) (*domain.Assignee, error)
	Delete(ctx context.Context, id int64) error
}

// ImportService handles bulk creation of todos
type ImportService interface {
	// Row editor
	ParseRows(r io.Reader, assignees []domain.Assignee) ([]domain.ImportRow, error)
	SubmitRows(ctx context.Context, rows []domain.ImportRow) (*domain.ImportResult, error)

	// JSON import file
	CheckTodosFile(r io.Reader) (*domain.TodoImportFile, int, error)
	ImportTodosFile(ctx context.Context, file *domain.TodoImportFile) (*api.ImportTodosResult, error)
}

// BackupService exports and restores the whole board
type BackupService interface {
	Backup(ctx context.Context, w io.Writer) error
	CheckBackup(r io.Reader) (*domain.Backup, error)
	Restore(ctx context.Context, backup *domain.Backup) error
	FileName(date time.Time) string
}

// MinutesService renders the plain-text meeting minutes
type MinutesService interface {
	Render(ctx context.Context, opts MinutesOptions) (string, error)
	FileName(date time.Time) string
}

// PlanService stores timeline allocations per day
type PlanService interface {
	// Plan storage
	Open(ctx context.Context, date string) (*timeline.Allocator, error)
	Save(ctx context.Context, date string, alloc *timeline.Allocator) error
	View(ctx context.Context, date string) (*PlanView, error)
	Dates(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, date string) error

	// Task panel
	AllocatableTodos(ctx context.Context, filter domain.TodoFilter) ([]domain.Todo, error)
	FindAllocatable(ctx context.Context, todoID int64) (*domain.Todo, error)
}

// ServiceContainer manages all services and their dependencies
type ServiceContainer struct {
	AuthService     AuthService
	BoardService    BoardService
	AssigneeService AssigneeService
	ImportService   ImportService
	BackupService   BackupService
	MinutesService  MinutesService
	PlanService     PlanService
}
