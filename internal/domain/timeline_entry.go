package domain

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// TotalSlots is the number of half-hour slots in a day.
	TotalSlots = 48
	// SlotMinutes is the length of one slot.
	SlotMinutes = 30
	// DefaultWorkStartSlot is 09:00.
	DefaultWorkStartSlot = 18
	// DefaultWorkEndSlot is 18:00.
	DefaultWorkEndSlot = 36
)

// TimelineEntry is a todo's placement on the day timeline.
// Invariants: 0 <= StartSlot < TotalSlots, DurationSlots >= 1 and
// StartSlot+DurationSlots <= TotalSlots.
type TimelineEntry struct {
	ID            string
	TodoID        int64
	Todo          Todo
	StartSlot     int
	DurationSlots int
}

// EndSlot returns the exclusive end slot.
func (e TimelineEntry) EndSlot() int {
	return e.StartSlot + e.DurationSlots
}

// Covers reports whether the entry occupies the slot.
func (e TimelineEntry) Covers(slot int) bool {
	return slot >= e.StartSlot && slot < e.EndSlot()
}

// Overlaps reports whether two entries share at least one slot.
func (e TimelineEntry) Overlaps(other TimelineEntry) bool {
	return e.StartSlot < other.EndSlot() && other.StartSlot < e.EndSlot()
}

// IsValid checks the slot invariants.
func (e TimelineEntry) IsValid() bool {
	if e.ID == "" || e.TodoID <= 0 {
		return false
	}
	if e.StartSlot < 0 || e.StartSlot >= TotalSlots {
		return false
	}
	return e.DurationSlots >= 1 && e.EndSlot() <= TotalSlots
}

// TimeRange renders "HH:MM - HH:MM".
func (e TimelineEntry) TimeRange() string {
	return fmt.Sprintf("%s - %s", SlotToTime(e.StartSlot), SlotToTime(e.EndSlot()))
}

// SlotToTime converts a slot index to "HH:MM". Slot 48 renders as 24:00.
func SlotToTime(slot int) string {
	hours := slot / 2
	minutes := (slot % 2) * SlotMinutes
	return fmt.Sprintf("%02d:%02d", hours, minutes)
}

// TimeToSlot converts "HH:MM" (or "H") to the slot containing it.
func TimeToSlot(s string) (int, error) {
	s = strings.TrimSpace(s)
	hourPart, minutePart, hasMinutes := strings.Cut(s, ":")
	hours, err := strconv.Atoi(hourPart)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	minutes := 0
	if hasMinutes {
		minutes, err = strconv.Atoi(minutePart)
		if err != nil {
			return 0, fmt.Errorf("invalid time %q", s)
		}
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("time out of range %q", s)
	}
	return (hours*60 + minutes) / SlotMinutes, nil
}

// WorkHours marks the slots rendered as working time.
type WorkHours struct {
	StartSlot int
	EndSlot   int
}

// DefaultWorkHours is 09:00 to 18:00.
func DefaultWorkHours() WorkHours {
	return WorkHours{StartSlot: DefaultWorkStartSlot, EndSlot: DefaultWorkEndSlot}
}

// Contains reports whether the slot is within working hours.
func (w WorkHours) Contains(slot int) bool {
	return slot >= w.StartSlot && slot < w.EndSlot
}
