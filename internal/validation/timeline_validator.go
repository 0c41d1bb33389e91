package validation

import (
	"strconv"
	"strings"
	"time"

	"kanban-todo/internal/domain"
)

// TimelineValidator checks user input for timeline commands
type TimelineValidator struct {
	validator *Validator
}

// NewTimelineValidator creates a new timeline validator
func NewTimelineValidator() *TimelineValidator {
	return &TimelineValidator{
		validator: NewValidator(),
	}
}

// ParseSlot accepts either a slot number ("18") or a time of day ("09:00").
func (tv *TimelineValidator) ParseSlot(s string) (int, error) {
	s = strings.TrimSpace(s)
	validationError := NewValidationError()

	if s == "" {
		validationError.AddRequiredError("slot")
		return 0, validationError
	}

	if !strings.Contains(s, ":") {
		if n, err := strconv.Atoi(s); err == nil {
			if !tv.validator.IsValidSlot(n) {
				validationError.AddInvalidRangeError("slot", n, "must be between 0 and 47")
				return 0, validationError
			}
			return n, nil
		}
	}

	slot, err := domain.TimeToSlot(s)
	if err != nil {
		validationError.AddInvalidFormatError("slot", s, "a slot number 0-47 or HH:MM")
		return 0, validationError
	}
	return slot, nil
}

// ParseDelta parses a resize amount in slots; fractions are allowed.
func (tv *TimelineValidator) ParseDelta(s string) (float64, error) {
	delta, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		validationError := NewValidationError()
		validationError.AddInvalidFormatError("delta", s, "a number of slots such as 2 or -1.5")
		return 0, validationError
	}
	return delta, nil
}

// ParsePlanDate parses a YYYY-MM-DD plan date; an empty string means today.
func (tv *TimelineValidator) ParsePlanDate(s string, now time.Time) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return now.Format(PlanDateFormat), nil
	}
	if !tv.validator.IsValidPlanDate(s) {
		validationError := NewValidationError()
		validationError.AddInvalidFormatError("date", s, "YYYY-MM-DD")
		return "", validationError
	}
	return s, nil
}
