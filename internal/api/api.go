package api

import (
	"context"
	"encoding/json"

	"kanban-todo/internal/domain"
)

// CredentialStore holds the bearer token the client sends. Token returns ""
// when nobody is logged in.
type CredentialStore interface {
	Token(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}

// LoginResult is the body of a successful /login.
type LoginResult struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// TodoInput is the body of /createTodo.
type TodoInput struct {
	Title       string              `json:"title"`
	Description string              `json:"description,omitempty"`
	Status      domain.TodoStatus   `json:"status"`
	Priority    domain.TodoPriority `json:"priority"`
	AssigneeID  *int64              `json:"assigneeId,omitempty"`
}

// ImportTodosResult is the body of a successful /importTodos.
type ImportTodosResult struct {
	Created int `json:"created"`
}

// API is the remote kanban service.
type API interface {
	// ========== Authentication ==========

	// Login exchanges credentials for a token. It never touches the credential store.
	Login(ctx context.Context, username, password string) (*LoginResult, error)

	// ========== Todos ==========

	ListTodos(ctx context.Context) ([]domain.Todo, error)
	CreateTodo(ctx context.Context, input TodoInput) (*domain.Todo, error)
	EditTodo(ctx context.Context, id int64, patch domain.TodoPatch) (*domain.Todo, error)
	DeleteTodo(ctx context.Context, id int64) error

	// ReorderTodos persists new sort orders in one request
	ReorderTodos(ctx context.Context, items []domain.SortOrderUpdate) error

	// ========== Assignees ==========

	ListAssignees(ctx context.Context) ([]domain.Assignee, error)
	CreateAssignee(ctx context.Context, name, color string) (*domain.Assignee, error)
	EditAssignee(ctx context.Context, id int64, name string) (*domain.Assignee, error)
	DeleteAssignee(ctx context.Context, id int64) error

	// ========== Backup and Import ==========

	// ExportData returns the full board document as sent by the server
	ExportData(ctx context.Context) (json.RawMessage, error)

	// ImportData replaces the board with a previously exported document
	ImportData(ctx context.Context, doc json.RawMessage) error

	// ImportTodos creates todos from raw records
	ImportTodos(ctx context.Context, todos []json.RawMessage) (*ImportTodosResult, error)
}

// patchBody renders a TodoPatch as the /editTodo body. Only set fields are
// sent; ClearAssignee sends an explicit null.
func patchBody(p domain.TodoPatch) map[string]interface{} {
	body := make(map[string]interface{})
	if p.Title != nil {
		body["title"] = *p.Title
	}
	if p.Description != nil {
		body["description"] = *p.Description
	}
	if p.Status != nil {
		body["status"] = *p.Status
	}
	if p.Priority != nil {
		body["priority"] = *p.Priority
	}
	switch {
	case p.ClearAssignee:
		body["assigneeId"] = nil
	case p.AssigneeID != nil:
		body["assigneeId"] = *p.AssigneeID
	}
	return body
}
