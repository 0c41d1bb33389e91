package validation

import (
	"strings"
	"time"
	"unicode/utf8"

	"kanban-todo/internal/domain"
)

// Length limits applied before anything is sent to the server.
const (
	TitleMaxLength        = 255
	DescriptionMaxLength  = 2000
	AssigneeNameMaxLength = 50
)

// PlanDateFormat is the layout of plan date arguments.
const PlanDateFormat = "2006-01-02"

// Validator provides common validation utilities
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// IsNonEmptyString checks if a string is not empty after trimming whitespace
func (v *Validator) IsNonEmptyString(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsValidStringLength checks if the trimmed string has between min and max characters.
func (v *Validator) IsValidStringLength(s string, min, max int) bool {
	length := utf8.RuneCountInString(strings.TrimSpace(s))
	return length >= min && length <= max
}

// IsValidID checks if a server-assigned ID is valid (positive)
func (v *Validator) IsValidID(id int64) bool {
	return id > 0
}

// IsValidSlot checks if slot is a start position on the day grid
func (v *Validator) IsValidSlot(slot int) bool {
	return slot >= 0 && slot < domain.TotalSlots
}

// IsValidPlanDate checks for a YYYY-MM-DD date
func (v *Validator) IsValidPlanDate(s string) bool {
	_, err := time.Parse(PlanDateFormat, s)
	return err == nil
}

// TrimAndValidateString trims whitespace and returns the cleaned string
func (v *Validator) TrimAndValidateString(s string) string {
	return strings.TrimSpace(s)
}
