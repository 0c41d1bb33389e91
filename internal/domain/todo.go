package domain

import "strings"

// TodoStatus is the board column a todo lives in.
type TodoStatus string

const (
	StatusTodo  TodoStatus = "TODO"
	StatusDoing TodoStatus = "DOING"
	StatusDone  TodoStatus = "DONE"
)

// Statuses lists the board columns in display order.
var Statuses = []TodoStatus{StatusTodo, StatusDoing, StatusDone}

// Label returns the column heading.
func (s TodoStatus) Label() string {
	switch s {
	case StatusTodo:
		return "Todo"
	case StatusDoing:
		return "Doing"
	case StatusDone:
		return "Done"
	default:
		return string(s)
	}
}

// IsValid reports whether s is one of the known statuses.
func (s TodoStatus) IsValid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// ParseStatus accepts either the wire value or the column label, case-insensitively.
func ParseStatus(s string) (TodoStatus, bool) {
	s = strings.TrimSpace(s)
	for _, known := range Statuses {
		if strings.EqualFold(s, string(known)) || strings.EqualFold(s, known.Label()) {
			return known, true
		}
	}
	return "", false
}

// TodoPriority is the urgency of a todo.
type TodoPriority string

const (
	PriorityHigh   TodoPriority = "HIGH"
	PriorityMedium TodoPriority = "MEDIUM"
	PriorityLow    TodoPriority = "LOW"
)

// Priorities lists priorities from most to least urgent.
var Priorities = []TodoPriority{PriorityHigh, PriorityMedium, PriorityLow}

// Label returns the short label used in the meeting minutes export.
func (p TodoPriority) Label() string {
	switch p {
	case PriorityHigh:
		return "高"
	case PriorityMedium:
		return "中"
	case PriorityLow:
		return "低"
	default:
		return string(p)
	}
}

// IsValid reports whether p is one of the known priorities.
func (p TodoPriority) IsValid() bool {
	for _, known := range Priorities {
		if p == known {
			return true
		}
	}
	return false
}

// ParsePriority accepts the wire value or the short label.
func ParsePriority(s string) (TodoPriority, bool) {
	s = strings.TrimSpace(s)
	for _, known := range Priorities {
		if strings.EqualFold(s, string(known)) || s == known.Label() {
			return known, true
		}
	}
	return "", false
}

// Assignee is a person todos can be assigned to.
type Assignee struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// AssigneePalette is the rotation of colours given to new assignees.
var AssigneePalette = []string{
	"#3B82F6", "#EF4444", "#10B981", "#F59E0B", "#8B5CF6",
	"#EC4899", "#06B6D4", "#F97316",
}

// NextAssigneeColor picks the palette colour for the assignee created after
// existing ones.
func NextAssigneeColor(existing int) string {
	if existing < 0 {
		existing = 0
	}
	return AssigneePalette[existing%len(AssigneePalette)]
}

// DefaultEntryColor is used for timeline entries whose todo has no assignee.
const DefaultEntryColor = "#3B82F6"

// Todo is a task card on the board as returned by the remote API.
type Todo struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Status      TodoStatus   `json:"status"`
	Priority    TodoPriority `json:"priority"`
	AssigneeID  *int64       `json:"assigneeId,omitempty"`
	Assignee    *Assignee    `json:"assignee,omitempty"`
	SortOrder   int          `json:"sortOrder"`
}

// NewTodo creates a todo with the board defaults.
func NewTodo(title string) Todo {
	return Todo{
		Title:    title,
		Status:   StatusTodo,
		Priority: PriorityMedium,
	}
}

// IsValid checks if the todo has valid data.
func (t Todo) IsValid() bool {
	return strings.TrimSpace(t.Title) != "" && t.Status.IsValid() && t.Priority.IsValid()
}

// IsAssignedTo reports whether the todo belongs to the given assignee.
func (t Todo) IsAssignedTo(assigneeID int64) bool {
	return t.AssigneeID != nil && *t.AssigneeID == assigneeID
}

// IsAllocatable reports whether the todo may be scheduled on the timeline.
// Finished work is not offered.
func (t Todo) IsAllocatable() bool {
	return t.Status == StatusTodo || t.Status == StatusDoing
}

// Color returns the assignee colour or the default entry colour.
func (t Todo) Color() string {
	if t.Assignee != nil && t.Assignee.Color != "" {
		return t.Assignee.Color
	}
	return DefaultEntryColor
}

// String returns the title for display purposes.
func (t Todo) String() string {
	return t.Title
}

// TodoFilter narrows the board to a single assignee. A nil AssigneeID means all.
type TodoFilter struct {
	AssigneeID *int64
}

// Matches reports whether the todo passes the filter.
func (f TodoFilter) Matches(t Todo) bool {
	if f.AssigneeID == nil {
		return true
	}
	return t.IsAssignedTo(*f.AssigneeID)
}

// TodoPatch is a partial update; nil fields are left unchanged.
// ClearAssignee sends an explicit null for assigneeId.
type TodoPatch struct {
	Title         *string
	Description   *string
	Status        *TodoStatus
	Priority      *TodoPriority
	AssigneeID    *int64
	ClearAssignee bool
}

// IsEmpty reports whether the patch changes nothing.
func (p TodoPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil &&
		p.Priority == nil && p.AssigneeID == nil && !p.ClearAssignee
}

// SortOrderUpdate is one element of a reorder request.
type SortOrderUpdate struct {
	ID        int64 `json:"id"`
	SortOrder int   `json:"sortOrder"`
}
