package cli

import (
	"errors"
	"fmt"
	"testing"

	apperrors "kanban-todo/internal/errors"
	"kanban-todo/internal/validation"
)

func TestErrorHandler_Handle(t *testing.T) {
	eh := NewErrorHandler()

	tests := []struct {
		name      string
		operation string
		err       error
		expected  string
	}{
		{
			name:      "Validation error",
			operation: "add todo",
			err:       apperrors.NewValidationError("title is required", nil),
			expected:  "failed to add todo: title is required",
		},
		{
			name:      "Not found error",
			operation: "edit todo",
			err:       apperrors.NewNotFoundError("todo", "12"),
			expected:  "failed to edit todo: todo not found: 12",
		},
		{
			name:      "Database error",
			operation: "save plan",
			err:       apperrors.NewDatabaseError("insert", errors.New("disk full")),
			expected:  "failed to save plan: A local storage error occurred. Please try again.",
		},
		{
			name:      "Unauthorized error",
			operation: "load board",
			err:       apperrors.NewUnauthorizedError("/allTodos"),
			expected:  "failed to load board: " + apperrors.MsgSessionExpired + " (run `kb login`)",
		},
		{
			name:      "Network error",
			operation: "load board",
			err:       apperrors.NewNetworkError("/allTodos", errors.New("dial tcp")),
			expected:  "failed to load board: " + apperrors.MsgConnectivity + " (check --api-url or KB_API_URL)",
		},
		{
			name:      "Remote error",
			operation: "delete assignee",
			err:       apperrors.NewRemoteError("/deleteAssignee/1", 409, "assignee has todos"),
			expected:  "failed to delete assignee: assignee has todos",
		},
		{
			name:      "Wrapped app error",
			operation: "restore",
			err:       fmt.Errorf("outer: %w", apperrors.NewPermissionError("admin operations", "bob")),
			expected:  "failed to restore: " + apperrors.GetUserMessage(apperrors.NewPermissionError("admin operations", "bob")),
		},
		{
			name:      "Regular error",
			operation: "process",
			err:       errors.New("regular error"),
			expected:  "failed to process: regular error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := eh.Handle(tt.operation, tt.err)
			if result.Error() != tt.expected {
				t.Errorf("ErrorHandler.Handle() = %v, want %v", result.Error(), tt.expected)
			}
		})
	}
}

func TestErrorHandler_HandleValidationError(t *testing.T) {
	eh := NewErrorHandler()
	ve := validation.NewValidationError()
	ve.AddRequiredError("title")

	result := eh.Handle("add todo", ve)
	want := "failed to add todo: " + ve.GetUserFriendlyMessage()
	if result.Error() != want {
		t.Errorf("ErrorHandler.Handle() = %v, want %v", result.Error(), want)
	}
}

func TestErrorHandler_TypeChecks(t *testing.T) {
	eh := NewErrorHandler()

	unauthorized := apperrors.NewUnauthorizedError("/allTodos")
	network := apperrors.NewNetworkError("/allTodos", errors.New("refused"))

	if !eh.IsUnauthorizedError(unauthorized) || eh.IsUnauthorizedError(network) {
		t.Errorf("IsUnauthorizedError mismatch")
	}
	if !eh.IsNetworkError(network) || eh.IsNetworkError(errors.New("plain")) {
		t.Errorf("IsNetworkError mismatch")
	}
}
