package domain

import (
	"encoding/json"
	"strings"
)

// ImportRow is one line of the bulk task editor.
type ImportRow struct {
	Title       string
	Description string
	Status      TodoStatus
	Priority    TodoPriority
	AssigneeID  *int64
}

// NewImportRow returns an empty row with editor defaults.
func NewImportRow() ImportRow {
	return ImportRow{Status: StatusTodo, Priority: PriorityMedium}
}

// HasTitle reports whether the row will be submitted.
func (r ImportRow) HasTitle() bool {
	return strings.TrimSpace(r.Title) != ""
}

// ImportResult aggregates a bulk submission.
type ImportResult struct {
	Submitted int
	Failed    int
	Created   []Todo
}

// Succeeded returns the number of rows that were created.
func (r ImportResult) Succeeded() int {
	return r.Submitted - r.Failed
}

// Backup is the document exchanged with /exportData and /importData.
// Records are kept as raw JSON so fields the client does not model survive a
// round trip.
type Backup struct {
	Assignees []json.RawMessage `json:"assignees"`
	Todos     []json.RawMessage `json:"todos"`
}

// TodoImportFile is the document accepted by /importTodos.
type TodoImportFile struct {
	Todos []json.RawMessage `json:"todos"`
}
