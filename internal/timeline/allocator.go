// Package timeline holds the work-allocation engine: entries placed on a
// 48-slot day, their lane layout, and the drag and resize interactions that
// mutate them.
package timeline

import (
	"math"
	"sync"

	"github.com/google/uuid"

	"kanban-todo/internal/domain"
	"kanban-todo/internal/logging"
)

// Listener receives a snapshot of the entries after every change.
type Listener func(entries []domain.TimelineEntry)

// Option configures an Allocator.
type Option func(*Allocator)

// WithIDGenerator replaces the UUID generator used for new entries.
func WithIDGenerator(fn func() string) Option {
	return func(a *Allocator) {
		a.newID = fn
	}
}

// WithLayoutMode selects how lane widths are computed.
func WithLayoutMode(mode LayoutMode) Option {
	return func(a *Allocator) {
		a.mode = mode
	}
}

// Allocator owns the timeline entries of one day plan.
// All mutations keep 0 <= StartSlot, DurationSlots >= 1 and
// StartSlot+DurationSlots <= domain.TotalSlots.
type Allocator struct {
	mu        sync.Mutex
	entries   []domain.TimelineEntry
	newID     func() string
	mode      LayoutMode
	listeners map[int]Listener
	nextSub   int
}

// NewAllocator creates an empty allocator.
func NewAllocator(opts ...Option) *Allocator {
	a := &Allocator{
		newID:     uuid.NewString,
		mode:      LayoutLocal,
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Place puts todo on the timeline at startSlot with a duration of one slot.
// Any existing entry for the same todo is replaced.
func (a *Allocator) Place(todo domain.Todo, startSlot int) domain.TimelineEntry {
	a.mu.Lock()
	a.entries = removeWhere(a.entries, func(e domain.TimelineEntry) bool {
		return e.TodoID == todo.ID
	})
	entry := domain.TimelineEntry{
		ID:            a.newID(),
		TodoID:        todo.ID,
		Todo:          todo,
		StartSlot:     clamp(startSlot, 0, domain.TotalSlots-1),
		DurationSlots: 1,
	}
	a.entries = append(a.entries, entry)
	snapshot := a.snapshotLocked()
	a.mu.Unlock()

	logging.Debugf("timeline: placed todo %d at slot %d as %s", todo.ID, entry.StartSlot, entry.ID)
	a.notify(snapshot)
	return entry
}

// Move shifts an entry to newStartSlot, keeping its duration. The start is
// clamped so the entry still ends by the last slot. Unknown IDs are ignored.
func (a *Allocator) Move(entryID string, newStartSlot int) {
	a.update(entryID, func(e *domain.TimelineEntry) {
		e.StartSlot = clamp(newStartSlot, 0, domain.TotalSlots-e.DurationSlots)
	})
}

// Resize changes an entry's duration by deltaSlots relative to its current
// duration. The start slot stays fixed.
func (a *Allocator) Resize(entryID string, deltaSlots float64) {
	a.update(entryID, func(e *domain.TimelineEntry) {
		e.DurationSlots = resizedDuration(e.StartSlot, e.DurationSlots, deltaSlots)
	})
}

// ResizeFrom sets an entry's duration to originalDuration+round(deltaSlots),
// clamped to [1, TotalSlots-StartSlot]. Gestures call it repeatedly with the
// duration recorded when they began.
func (a *Allocator) ResizeFrom(entryID string, originalDuration int, deltaSlots float64) {
	a.update(entryID, func(e *domain.TimelineEntry) {
		e.DurationSlots = resizedDuration(e.StartSlot, originalDuration, deltaSlots)
	})
}

// Remove deletes an entry. Unknown IDs are ignored.
func (a *Allocator) Remove(entryID string) {
	a.mu.Lock()
	before := len(a.entries)
	a.entries = removeWhere(a.entries, func(e domain.TimelineEntry) bool {
		return e.ID == entryID
	})
	changed := len(a.entries) != before
	snapshot := a.snapshotLocked()
	a.mu.Unlock()

	if changed {
		logging.Debugf("timeline: removed %s", entryID)
		a.notify(snapshot)
	}
}

// Load replaces all entries, e.g. when restoring a saved plan. Entries are
// clamped into range and a later entry for the same todo wins.
func (a *Allocator) Load(entries []domain.TimelineEntry) {
	loaded := make([]domain.TimelineEntry, 0, len(entries))
	for _, e := range entries {
		loaded = removeWhere(loaded, func(x domain.TimelineEntry) bool {
			return x.TodoID == e.TodoID
		})
		if e.ID == "" {
			e.ID = a.newID()
		}
		e.StartSlot = clamp(e.StartSlot, 0, domain.TotalSlots-1)
		e.DurationSlots = clamp(e.DurationSlots, 1, domain.TotalSlots-e.StartSlot)
		loaded = append(loaded, e)
	}

	a.mu.Lock()
	a.entries = loaded
	snapshot := a.snapshotLocked()
	a.mu.Unlock()

	a.notify(snapshot)
}

// Reset removes every entry.
func (a *Allocator) Reset() {
	a.Load(nil)
}

// Entries returns a copy of the entries in insertion order.
func (a *Allocator) Entries() []domain.TimelineEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshotLocked()
}

// Entry looks up an entry by ID.
func (a *Allocator) Entry(entryID string) (domain.TimelineEntry, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, e := range a.entries {
		if e.ID == entryID {
			return e, true
		}
	}
	return domain.TimelineEntry{}, false
}

// EntryForTask looks up the entry of a todo.
func (a *Allocator) EntryForTask(todoID int64) (domain.TimelineEntry, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, e := range a.entries {
		if e.TodoID == todoID {
			return e, true
		}
	}
	return domain.TimelineEntry{}, false
}

// IsPlaced reports whether the todo has an entry.
func (a *Allocator) IsPlaced(todoID int64) bool {
	_, ok := a.EntryForTask(todoID)
	return ok
}

// Len returns the number of entries.
func (a *Allocator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.entries)
}

// Mode returns the layout mode.
func (a *Allocator) Mode() LayoutMode {
	return a.mode
}

// Layout computes the lane placement of every entry. It is derived from the
// current entries on each call and never stored.
func (a *Allocator) Layout() map[string]Placement {
	return ComputeLayout(a.Entries(), a.mode)
}

// Subscribe registers fn for change notifications and returns a function
// that unregisters it.
func (a *Allocator) Subscribe(fn Listener) func() {
	a.mu.Lock()
	id := a.nextSub
	a.nextSub++
	a.listeners[id] = fn
	a.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			a.mu.Lock()
			delete(a.listeners, id)
			a.mu.Unlock()
		})
	}
}

func (a *Allocator) update(entryID string, mutate func(e *domain.TimelineEntry)) {
	a.mu.Lock()
	changed := false
	for i := range a.entries {
		if a.entries[i].ID != entryID {
			continue
		}
		before := a.entries[i]
		mutate(&a.entries[i])
		changed = before.StartSlot != a.entries[i].StartSlot || before.DurationSlots != a.entries[i].DurationSlots
		break
	}
	snapshot := a.snapshotLocked()
	a.mu.Unlock()

	if changed {
		a.notify(snapshot)
	}
}

func (a *Allocator) snapshotLocked() []domain.TimelineEntry {
	out := make([]domain.TimelineEntry, len(a.entries))
	copy(out, a.entries)
	return out
}

// notify runs outside the lock so listeners may read the allocator.
func (a *Allocator) notify(snapshot []domain.TimelineEntry) {
	a.mu.Lock()
	listeners := make([]Listener, 0, len(a.listeners))
	for i := 0; i < a.nextSub; i++ {
		if fn, ok := a.listeners[i]; ok {
			listeners = append(listeners, fn)
		}
	}
	a.mu.Unlock()

	for _, fn := range listeners {
		fn(snapshot)
	}
}

func resizedDuration(startSlot, originalDuration int, deltaSlots float64) int {
	d := originalDuration + roundHalfUp(deltaSlots)
	if d < 1 {
		d = 1
	}
	if limit := domain.TotalSlots - startSlot; d > limit {
		d = limit
	}
	return d
}

// roundHalfUp rounds .5 toward positive infinity, so a pointer half a slot
// above the start rounds to 0 rather than -1.
func roundHalfUp(x float64) int {
	const limit = domain.TotalSlots * 2
	switch {
	case math.IsNaN(x):
		return 0
	case x > limit:
		return limit
	case x < -limit:
		return -limit
	}
	return int(math.Floor(x + 0.5))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func removeWhere(entries []domain.TimelineEntry, match func(domain.TimelineEntry) bool) []domain.TimelineEntry {
	out := entries[:0:0]
	for _, e := range entries {
		if !match(e) {
			out = append(out, e)
		}
	}
	return out
}
