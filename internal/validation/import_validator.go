package validation

import (
	"fmt"

	"kanban-todo/internal/domain"
)

// ImportValidator checks rows of the bulk editor before submission
type ImportValidator struct {
	validator *Validator
	todos     *TodoValidator
}

// NewImportValidator creates a new import validator
func NewImportValidator() *ImportValidator {
	return &ImportValidator{
		validator: NewValidator(),
		todos:     NewTodoValidator(),
	}
}

// SubmittableRows returns the rows with a non-blank title, trimmed.
// It fails when no row would be submitted or when a submitted row is invalid.
// Blank rows are skipped without error.
func (iv *ImportValidator) SubmittableRows(rows []domain.ImportRow) ([]domain.ImportRow, error) {
	validationError := NewValidationError()
	var out []domain.ImportRow

	for i, row := range rows {
		if !row.HasTitle() {
			continue
		}
		field := fmt.Sprintf("rows[%d]", i+1)

		row.Title = iv.validator.TrimAndValidateString(row.Title)
		if !iv.validator.IsValidStringLength(row.Title, 1, TitleMaxLength) {
			validationError.AddInvalidLengthError(field+".title", row.Title, 1, TitleMaxLength)
		}
		if !iv.validator.IsValidStringLength(row.Description, 0, DescriptionMaxLength) {
			validationError.AddInvalidLengthError(field+".description", row.Description, 0, DescriptionMaxLength)
		}
		if !row.Status.IsValid() {
			validationError.AddInvalidValueError(field+".status", row.Status, "must be one of TODO, DOING, DONE")
		}
		if !row.Priority.IsValid() {
			validationError.AddInvalidValueError(field+".priority", row.Priority, "must be one of HIGH, MEDIUM, LOW")
		}
		if row.AssigneeID != nil && !iv.validator.IsValidID(*row.AssigneeID) {
			validationError.AddInvalidValueError(field+".assignee_id", *row.AssigneeID, "must be a positive integer")
		}
		out = append(out, row)
	}

	if len(out) == 0 {
		validationError.AddError("rows", ErrorTypeRequired, "at least one row needs a title", nil)
	}
	if validationError.HasErrors() {
		return nil, validationError
	}
	return out, nil
}
