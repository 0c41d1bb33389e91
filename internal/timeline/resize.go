package timeline

// ResizeGesture drags the bottom edge of an entry. The duration is
// recomputed from the gesture's starting point on every pointer move,
// so the entry tracks the pointer rather than accumulating deltas.
type ResizeGesture struct {
	alloc      *Allocator
	slotHeight float64

	active   bool
	entryID  string
	startY   float64
	original int
}

// NewResizeGesture creates a gesture where slotHeight pointer units make one slot.
func NewResizeGesture(alloc *Allocator, slotHeight float64) *ResizeGesture {
	if slotHeight <= 0 {
		slotHeight = 1
	}
	return &ResizeGesture{alloc: alloc, slotHeight: slotHeight}
}

// Begin starts resizing entryID at pointer position y. It returns false if
// the entry does not exist.
func (g *ResizeGesture) Begin(entryID string, y float64) bool {
	e, ok := g.alloc.Entry(entryID)
	if !ok {
		return false
	}
	g.active = true
	g.entryID = entryID
	g.startY = y
	g.original = e.DurationSlots
	return true
}

// Move commits the duration for pointer position y. Ignored when no gesture is active.
func (g *ResizeGesture) Move(y float64) {
	if !g.active {
		return
	}
	delta := (y - g.startY) / g.slotHeight
	g.alloc.ResizeFrom(g.entryID, g.original, delta)
}

// End finishes the gesture. The last committed duration stays.
func (g *ResizeGesture) End() {
	g.active = false
	g.entryID = ""
}

// Active reports whether a gesture is in progress.
func (g *ResizeGesture) Active() bool {
	return g.active
}

// EntryID returns the entry being resized.
func (g *ResizeGesture) EntryID() string {
	return g.entryID
}

// SlotHeight returns the pointer units per slot.
func (g *ResizeGesture) SlotHeight() float64 {
	return g.slotHeight
}
