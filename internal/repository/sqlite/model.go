package sqlite

import "time"

// Session is the single stored login credential.
type Session struct {
	Token    string
	Username string
	SavedAt  time.Time
}

// PlanEntry is one stored timeline entry of a day plan.
// Position keeps the insertion order the lane layout depends on.
type PlanEntry struct {
	PlanDate      string
	EntryID       string
	TodoID        int64
	Title         string
	Color         string
	StartSlot     int
	DurationSlots int
	Position      int
}
