package timeline

import "kanban-todo/internal/domain"

// SourceKind identifies what is being dragged.
type SourceKind int

const (
	// SourceTask is a todo dragged from the task panel.
	SourceTask SourceKind = iota + 1
	// SourceEntry is an entry dragged within the timeline.
	SourceEntry
)

// DragSource is the payload of a drag.
// Todo is set for SourceTask, EntryID for SourceEntry.
type DragSource struct {
	Kind    SourceKind
	Todo    domain.Todo
	EntryID string
}

// TaskSource builds a payload for dragging a todo from the task panel.
func TaskSource(todo domain.Todo) DragSource {
	return DragSource{Kind: SourceTask, Todo: todo}
}

// EntrySource builds a payload for dragging a placed entry.
func EntrySource(entryID string) DragSource {
	return DragSource{Kind: SourceEntry, EntryID: entryID}
}

// TargetKind identifies where a drag ended.
type TargetKind int

const (
	// TargetTaskPanel is the list of unplaced todos.
	TargetTaskPanel TargetKind = iota + 1
	// TargetSlot is one half-hour row of the timeline.
	TargetSlot
)

// DropTarget is where a drag was released.
type DropTarget struct {
	Kind TargetKind
	Slot int
}

// TaskPanelTarget is the task panel drop target.
func TaskPanelTarget() *DropTarget {
	return &DropTarget{Kind: TargetTaskPanel}
}

// SlotTarget is the drop target for a timeline slot.
func SlotTarget(slot int) *DropTarget {
	return &DropTarget{Kind: TargetSlot, Slot: slot}
}

// DropAction reports what a drop did to the allocator.
type DropAction int

const (
	DropIgnored DropAction = iota
	DropPlaced
	DropMoved
	DropRemoved
)

func (a DropAction) String() string {
	switch a {
	case DropPlaced:
		return "placed"
	case DropMoved:
		return "moved"
	case DropRemoved:
		return "removed"
	default:
		return "ignored"
	}
}

// DragMachine tracks a single drag between the task panel and the timeline.
// It is either idle or dragging one source; every drop returns it to idle.
// Not safe for concurrent use.
type DragMachine struct {
	alloc  *Allocator
	source *DragSource
	active *domain.Todo
}

// NewDragMachine creates an idle machine that mutates alloc on drop.
func NewDragMachine(alloc *Allocator) *DragMachine {
	return &DragMachine{alloc: alloc}
}

// Start begins dragging src. Starting while already dragging replaces the payload.
func (m *DragMachine) Start(src DragSource) {
	m.source = &src
	m.active = nil

	switch src.Kind {
	case SourceTask:
		todo := src.Todo
		m.active = &todo
	case SourceEntry:
		if e, ok := m.alloc.Entry(src.EntryID); ok {
			todo := e.Todo
			m.active = &todo
		}
	}
}

// Dragging reports whether a drag is in progress.
func (m *DragMachine) Dragging() bool {
	return m.source != nil
}

// Source returns the current payload.
func (m *DragMachine) Source() (DragSource, bool) {
	if m.source == nil {
		return DragSource{}, false
	}
	return *m.source, true
}

// Active returns the todo being dragged, for previews.
func (m *DragMachine) Active() (domain.Todo, bool) {
	if m.active == nil {
		return domain.Todo{}, false
	}
	return *m.active, true
}

// Cancel abandons the drag without touching the allocator.
func (m *DragMachine) Cancel() {
	m.source = nil
	m.active = nil
}

// Drop ends the drag over target; a nil target means released outside any
// target. The machine is idle afterwards whatever the outcome.
func (m *DragMachine) Drop(target *DropTarget) DropAction {
	src := m.source
	m.Cancel()

	if src == nil || target == nil {
		return DropIgnored
	}

	switch {
	case target.Kind == TargetTaskPanel && src.Kind == SourceEntry:
		if _, ok := m.alloc.Entry(src.EntryID); !ok {
			return DropIgnored
		}
		m.alloc.Remove(src.EntryID)
		return DropRemoved
	case target.Kind == TargetSlot && src.Kind == SourceTask:
		m.alloc.Place(src.Todo, target.Slot)
		return DropPlaced
	case target.Kind == TargetSlot && src.Kind == SourceEntry:
		if _, ok := m.alloc.Entry(src.EntryID); !ok {
			return DropIgnored
		}
		m.alloc.Move(src.EntryID, target.Slot)
		return DropMoved
	}
	return DropIgnored
}
