package validation

import (
	"strings"

	"kanban-todo/internal/domain"
)

// TodoValidator provides validation for todo operations
type TodoValidator struct {
	validator *Validator
}

// NewTodoValidator creates a new todo validator
func NewTodoValidator() *TodoValidator {
	return &TodoValidator{
		validator: NewValidator(),
	}
}

// ValidateTitle validates a todo title for creation or update
func (tv *TodoValidator) ValidateTitle(title string) error {
	validationError := NewValidationError()

	trimmed := tv.validator.TrimAndValidateString(title)
	if !tv.validator.IsNonEmptyString(trimmed) {
		validationError.AddRequiredError("title")
		return validationError
	}

	if !tv.validator.IsValidStringLength(trimmed, 1, TitleMaxLength) {
		validationError.AddInvalidLengthError("title", trimmed, 1, TitleMaxLength)
	}

	return validationError.OrNil()
}

// ValidateDescription validates an optional description
func (tv *TodoValidator) ValidateDescription(description string) error {
	if tv.validator.IsValidStringLength(description, 0, DescriptionMaxLength) {
		return nil
	}
	validationError := NewValidationError()
	validationError.AddInvalidLengthError("description", description, 0, DescriptionMaxLength)
	return validationError
}

// ValidateTodoForCreation validates a new todo before it is sent
func (tv *TodoValidator) ValidateTodoForCreation(todo domain.Todo) error {
	validationError := NewValidationError()

	validationError.Merge(tv.ValidateTitle(todo.Title))
	validationError.Merge(tv.ValidateDescription(todo.Description))

	if !todo.Status.IsValid() {
		validationError.AddInvalidValueError("status", todo.Status, "must be one of TODO, DOING, DONE")
	}
	if !todo.Priority.IsValid() {
		validationError.AddInvalidValueError("priority", todo.Priority, "must be one of HIGH, MEDIUM, LOW")
	}
	if todo.AssigneeID != nil && !tv.validator.IsValidID(*todo.AssigneeID) {
		validationError.AddInvalidValueError("assignee_id", *todo.AssigneeID, "must be a positive integer")
	}

	return validationError.OrNil()
}

// ValidateTodoPatch validates a partial update of todo id
func (tv *TodoValidator) ValidateTodoPatch(id int64, patch domain.TodoPatch) error {
	validationError := NewValidationError()

	validationError.Merge(tv.ValidateTodoID(id))

	if patch.IsEmpty() {
		validationError.AddRequiredError("changes")
	}
	if patch.Title != nil {
		validationError.Merge(tv.ValidateTitle(*patch.Title))
	}
	if patch.Description != nil {
		validationError.Merge(tv.ValidateDescription(*patch.Description))
	}
	if patch.Status != nil && !patch.Status.IsValid() {
		validationError.AddInvalidValueError("status", *patch.Status, "must be one of TODO, DOING, DONE")
	}
	if patch.Priority != nil && !patch.Priority.IsValid() {
		validationError.AddInvalidValueError("priority", *patch.Priority, "must be one of HIGH, MEDIUM, LOW")
	}
	if patch.AssigneeID != nil {
		if patch.ClearAssignee {
			validationError.AddInvalidValueError("assignee_id", *patch.AssigneeID, "cannot set and clear the assignee together")
		} else if !tv.validator.IsValidID(*patch.AssigneeID) {
			validationError.AddInvalidValueError("assignee_id", *patch.AssigneeID, "must be a positive integer")
		}
	}

	return validationError.OrNil()
}

// ValidateTodoID validates a todo ID
func (tv *TodoValidator) ValidateTodoID(id int64) error {
	if tv.validator.IsValidID(id) {
		return nil
	}
	validationError := NewValidationError()
	validationError.AddInvalidValueError("todo_id", id, "must be a positive integer")
	return validationError
}

// ParseStatus parses a status argument such as "doing" or "Done"
func (tv *TodoValidator) ParseStatus(s string) (domain.TodoStatus, error) {
	status, ok := domain.ParseStatus(s)
	if !ok {
		validationError := NewValidationError()
		validationError.AddInvalidValueError("status", s, "must be one of "+joinStatuses())
		return "", validationError
	}
	return status, nil
}

// ParsePriority parses a priority argument such as "high" or "中"
func (tv *TodoValidator) ParsePriority(s string) (domain.TodoPriority, error) {
	priority, ok := domain.ParsePriority(s)
	if !ok {
		validationError := NewValidationError()
		validationError.AddInvalidValueError("priority", s, "must be one of HIGH, MEDIUM, LOW")
		return "", validationError
	}
	return priority, nil
}

func joinStatuses() string {
	names := make([]string, len(domain.Statuses))
	for i, s := range domain.Statuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
