package services

import (
	stderrors "errors"

	"kanban-todo/internal/errors"
	"kanban-todo/internal/validation"
)

// invalid converts field errors into an AppError whose message lists them.
// fallback is used for errors that carry no field detail.
func invalid(err error, fallback string) error {
	var ve *validation.ValidationError
	if stderrors.As(err, &ve) {
		return ve.ToAppError()
	}
	return errors.NewValidationError(fallback, err)
}
