package services

import (
	"context"

	"kanban-todo/internal/api"
	"kanban-todo/internal/domain"
	"kanban-todo/internal/errors"
	"kanban-todo/internal/validation"
)

// assigneeServiceImpl implements the AssigneeService interface
type assigneeServiceImpl struct {
	client    api.API
	validator *validation.AssigneeValidator
}

// NewAssigneeService creates a new AssigneeService instance
func NewAssigneeService(client api.API) AssigneeService {
	return &assigneeServiceImpl{
		client:    client,
		validator: validation.NewAssigneeValidator(),
	}
}

func (s *assigneeServiceImpl) List(ctx context.Context) ([]domain.Assignee, error) {
	return s.client.ListAssignees(ctx)
}

// Create adds an assignee with the next palette colour
func (s *assigneeServiceImpl) Create(ctx context.Context, name string) (*domain.Assignee, error) {
	name, err := s.validator.GetValidName(name)
	if err != nil {
		return nil, invalid(err, "invalid assignee")
	}

	existing, err := s.client.ListAssignees(ctx)
	if err != nil {
		return nil, err
	}
	color := domain.NextAssigneeColor(len(existing))

	return s.client.CreateAssignee(ctx, name, color)
}

func (s *assigneeServiceImpl) Rename(ctx context.Context, id int64, name string) (*domain.Assignee, error) {
	if err := s.validator.ValidateAssigneeForRename(id, name); err != nil {
		return nil, invalid(err, "invalid assignee")
	}
	return s.client.EditAssignee(ctx, id, s.validator.CleanName(name))
}

// Delete removes an assignee; the server unassigns their todos
func (s *assigneeServiceImpl) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return errors.NewValidationError("invalid assignee ID", nil)
	}
	return s.client.DeleteAssignee(ctx, id)
}
