package services

import (
	"context"
	"sort"
	"strconv"

	"kanban-todo/internal/api"
	"kanban-todo/internal/domain"
	"kanban-todo/internal/errors"
	"kanban-todo/internal/logging"
	"kanban-todo/internal/validation"
)

// boardServiceImpl implements the BoardService interface
type boardServiceImpl struct {
	client        api.API
	validator     *validation.Validator
	todoValidator *validation.TodoValidator
}

// NewBoardService creates a new BoardService instance
func NewBoardService(client api.API) BoardService {
	return &boardServiceImpl{
		client:        client,
		validator:     validation.NewValidator(),
		todoValidator: validation.NewTodoValidator(),
	}
}

// Board fetches todos and assignees and groups todos into columns
func (b *boardServiceImpl) Board(ctx context.Context, filter domain.TodoFilter) (*Board, error) {
	todos, err := b.client.ListTodos(ctx)
	if err != nil {
		return nil, err
	}
	assignees, err := b.client.ListAssignees(ctx)
	if err != nil {
		return nil, err
	}

	board := &Board{Assignees: assignees}
	for _, status := range domain.Statuses {
		board.Columns = append(board.Columns, Column{
			Status: status,
			Label:  status.Label(),
			Todos:  columnTodos(todos, status, filter),
		})
	}
	return board, nil
}

// Todo looks up a single todo. The API has no single-todo endpoint.
func (b *boardServiceImpl) Todo(ctx context.Context, id int64) (*domain.Todo, error) {
	if err := b.todoValidator.ValidateTodoID(id); err != nil {
		return nil, invalid(err, "invalid todo ID")
	}
	todos, err := b.client.ListTodos(ctx)
	if err != nil {
		return nil, err
	}
	for i := range todos {
		if todos[i].ID == id {
			return &todos[i], nil
		}
	}
	return nil, errors.NewNotFoundError("todo", strconv.FormatInt(id, 10))
}

// CreateTodo creates a todo with board defaults applied
func (b *boardServiceImpl) CreateTodo(ctx context.Context, draft TodoDraft) (*domain.Todo, error) {
	todo := domain.NewTodo(draft.Title)
	todo.Description = draft.Description
	todo.AssigneeID = draft.AssigneeID
	if draft.Status != "" {
		todo.Status = draft.Status
	}
	if draft.Priority != "" {
		todo.Priority = draft.Priority
	}

	if err := b.todoValidator.ValidateTodoForCreation(todo); err != nil {
		return nil, invalid(err, "invalid todo")
	}

	created, err := b.client.CreateTodo(ctx, api.TodoInput{
		Title:       b.trimmed(todo.Title),
		Description: b.trimmed(todo.Description),
		Status:      todo.Status,
		Priority:    todo.Priority,
		AssigneeID:  todo.AssigneeID,
	})
	if err != nil {
		return nil, err
	}
	logging.Debugf("created todo %d in %s", created.ID, created.Status)
	return created, nil
}

// EditTodo applies a partial update
func (b *boardServiceImpl) EditTodo(ctx context.Context, id int64, patch domain.TodoPatch) (*domain.Todo, error) {
	if err := b.todoValidator.ValidateTodoPatch(id, patch); err != nil {
		return nil, invalid(err, "invalid todo update")
	}
	if patch.Title != nil {
		title := b.trimmed(*patch.Title)
		patch.Title = &title
	}
	return b.client.EditTodo(ctx, id, patch)
}

// ChangeStatus moves a todo to another column
func (b *boardServiceImpl) ChangeStatus(ctx context.Context, id int64, status domain.TodoStatus) (*domain.Todo, error) {
	return b.EditTodo(ctx, id, domain.TodoPatch{Status: &status})
}

// DeleteTodo removes a todo
func (b *boardServiceImpl) DeleteTodo(ctx context.Context, id int64) error {
	if err := b.todoValidator.ValidateTodoID(id); err != nil {
		return invalid(err, "invalid todo ID")
	}
	return b.client.DeleteTodo(ctx, id)
}

// Reorder moves todoID onto overID's index within the dragged todo's
// column (as currently filtered) and renumbers the column from zero.
func (b *boardServiceImpl) Reorder(ctx context.Context, todoID, overID int64, filter domain.TodoFilter) ([]domain.SortOrderUpdate, error) {
	if todoID == overID {
		return nil, nil
	}

	todos, err := b.client.ListTodos(ctx)
	if err != nil {
		return nil, err
	}

	var dragged *domain.Todo
	for i := range todos {
		if todos[i].ID == todoID {
			dragged = &todos[i]
			break
		}
	}
	if dragged == nil {
		return nil, nil
	}

	column := columnTodos(todos, dragged.Status, filter)
	oldIndex, newIndex := indexOf(column, todoID), indexOf(column, overID)
	if oldIndex == -1 || newIndex == -1 {
		return nil, nil
	}

	reordered := arrayMove(column, oldIndex, newIndex)
	updates := make([]domain.SortOrderUpdate, len(reordered))
	for i, t := range reordered {
		updates[i] = domain.SortOrderUpdate{ID: t.ID, SortOrder: i}
	}

	if err := b.client.ReorderTodos(ctx, updates); err != nil {
		return nil, err
	}
	logging.Debugf("reordered %s column: %d moved from %d to %d", dragged.Status, todoID, oldIndex, newIndex)
	return updates, nil
}

func (b *boardServiceImpl) trimmed(s string) string {
	return b.validator.TrimAndValidateString(s)
}

// columnTodos returns the todos in status that pass filter, by sort order
func columnTodos(todos []domain.Todo, status domain.TodoStatus, filter domain.TodoFilter) []domain.Todo {
	column := make([]domain.Todo, 0)
	for _, t := range todos {
		if t.Status == status && filter.Matches(t) {
			column = append(column, t)
		}
	}
	sort.SliceStable(column, func(i, j int) bool {
		return column[i].SortOrder < column[j].SortOrder
	})
	return column
}

func indexOf(todos []domain.Todo, id int64) int {
	for i, t := range todos {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// arrayMove returns a copy of items with the element at from moved to to.
func arrayMove(items []domain.Todo, from, to int) []domain.Todo {
	out := make([]domain.Todo, 0, len(items))
	out = append(out, items[:from]...)
	out = append(out, items[from+1:]...)

	moved := items[from]
	out = append(out[:to], append([]domain.Todo{moved}, out[to:]...)...)
	return out
}
