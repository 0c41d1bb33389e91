package cli

import (
	"fmt"

	"kanban-todo/internal/errors"
	"kanban-todo/internal/validation"
)

// ErrorHandler provides centralized error handling for command handlers
type ErrorHandler struct{}

// NewErrorHandler creates a new error handler
func NewErrorHandler() *ErrorHandler {
	return &ErrorHandler{}
}

// Handle provides user-friendly error messages for validation and other errors
func (eh *ErrorHandler) Handle(operation string, err error) error {
	if validationErr, ok := err.(*validation.ValidationError); ok {
		return fmt.Errorf("failed to %s: %s", operation, validationErr.GetUserFriendlyMessage())
	}

	if _, ok := errors.AsAppError(err); ok {
		userMessage := errors.GetUserMessage(err)
		switch {
		case eh.IsUnauthorizedError(err):
			userMessage += " (run `kb login`)"
		case eh.IsNetworkError(err):
			userMessage += " (check --api-url or KB_API_URL)"
		}
		return fmt.Errorf("failed to %s: %s", operation, userMessage)
	}

	return fmt.Errorf("failed to %s: %w", operation, err)
}

// IsUnauthorizedError checks if the server rejected the stored credential
func (eh *ErrorHandler) IsUnauthorizedError(err error) bool {
	return errors.IsErrorType(err, errors.ErrorTypeUnauthorized)
}

// IsNetworkError checks if the server could not be reached
func (eh *ErrorHandler) IsNetworkError(err error) bool {
	return errors.IsErrorType(err, errors.ErrorTypeNetwork)
}
