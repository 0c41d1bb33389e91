package domain

import (
	"kanban-todo/internal/repository/sqlite"
)

// SessionMapper handles conversion between domain and database Session models.
type SessionMapper struct{}

// NewSessionMapper creates a new SessionMapper instance.
func NewSessionMapper() *SessionMapper {
	return &SessionMapper{}
}

// ToDatabase converts a domain Session to a database Session.
func (m *SessionMapper) ToDatabase(s Session) sqlite.Session {
	return sqlite.Session{
		Token:    s.Token,
		Username: s.Username,
		SavedAt:  s.SavedAt,
	}
}

// FromDatabase converts a database Session to a domain Session.
func (m *SessionMapper) FromDatabase(s sqlite.Session) Session {
	return Session{
		Token:    s.Token,
		Username: s.Username,
		SavedAt:  s.SavedAt,
	}
}

// PlanEntryMapper handles conversion between timeline entries and stored plan rows.
// Only a display snapshot of the todo is stored; the remote API stays the
// source of truth for todo data.
type PlanEntryMapper struct{}

// NewPlanEntryMapper creates a new PlanEntryMapper instance.
func NewPlanEntryMapper() *PlanEntryMapper {
	return &PlanEntryMapper{}
}

// ToDatabase converts an entry at the given position of a plan to a row.
func (m *PlanEntryMapper) ToDatabase(planDate string, position int, e TimelineEntry) sqlite.PlanEntry {
	return sqlite.PlanEntry{
		PlanDate:      planDate,
		EntryID:       e.ID,
		TodoID:        e.TodoID,
		Title:         e.Todo.Title,
		Color:         e.Todo.Color(),
		StartSlot:     e.StartSlot,
		DurationSlots: e.DurationSlots,
		Position:      position,
	}
}

// FromDatabase converts a stored row to a timeline entry.
func (m *PlanEntryMapper) FromDatabase(row sqlite.PlanEntry) TimelineEntry {
	todo := Todo{ID: row.TodoID, Title: row.Title, Status: StatusTodo, Priority: PriorityMedium}
	if row.Color != "" && row.Color != DefaultEntryColor {
		todo.Assignee = &Assignee{Color: row.Color}
	}
	return TimelineEntry{
		ID:            row.EntryID,
		TodoID:        row.TodoID,
		Todo:          todo,
		StartSlot:     row.StartSlot,
		DurationSlots: row.DurationSlots,
	}
}

// ToDatabaseSlice converts a plan's entries, numbering positions in order.
func (m *PlanEntryMapper) ToDatabaseSlice(planDate string, entries []TimelineEntry) []sqlite.PlanEntry {
	rows := make([]sqlite.PlanEntry, len(entries))
	for i, e := range entries {
		rows[i] = m.ToDatabase(planDate, i, e)
	}
	return rows
}

// FromDatabaseSlice converts stored rows to entries.
func (m *PlanEntryMapper) FromDatabaseSlice(rows []*sqlite.PlanEntry) []TimelineEntry {
	entries := make([]TimelineEntry, len(rows))
	for i, row := range rows {
		entries[i] = m.FromDatabase(*row)
	}
	return entries
}

// Mapper provides a unified interface for all mapping operations.
type Mapper struct {
	Session   *SessionMapper
	PlanEntry *PlanEntryMapper
}

// NewMapper creates a new Mapper instance with all sub-mappers.
func NewMapper() *Mapper {
	return &Mapper{
		Session:   NewSessionMapper(),
		PlanEntry: NewPlanEntryMapper(),
	}
}
