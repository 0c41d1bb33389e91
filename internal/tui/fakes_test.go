package tui

import (
	"context"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"kanban-todo/internal/config"
	"kanban-todo/internal/domain"
	"kanban-todo/internal/errors"
	"kanban-todo/internal/services"
	"kanban-todo/internal/timeline"
)

// fakeBoardService records the calls the board view makes
type fakeBoardService struct {
	mu       sync.Mutex
	board    *services.Board
	reorders [][2]int64
	statuses map[int64]domain.TodoStatus
}

func (f *fakeBoardService) Board(ctx context.Context, filter domain.TodoFilter) (*services.Board, error) {
	return f.board, nil
}

func (f *fakeBoardService) Todo(ctx context.Context, id int64) (*domain.Todo, error) {
	for _, col := range f.board.Columns {
		for _, t := range col.Todos {
			if t.ID == id {
				return &t, nil
			}
		}
	}
	return nil, errors.NewNotFoundError("todo", fmt.Sprint(id))
}

func (f *fakeBoardService) CreateTodo(ctx context.Context, draft services.TodoDraft) (*domain.Todo, error) {
	return nil, fmt.Errorf("not implemented")
}

func (f *fakeBoardService) EditTodo(ctx context.Context, id int64, patch domain.TodoPatch) (*domain.Todo, error) {
	return nil, fmt.Errorf("not implemented")
}

func (f *fakeBoardService) ChangeStatus(ctx context.Context, id int64, status domain.TodoStatus) (*domain.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.statuses == nil {
		f.statuses = map[int64]domain.TodoStatus{}
	}
	f.statuses[id] = status
	return &domain.Todo{ID: id, Status: status}, nil
}

func (f *fakeBoardService) DeleteTodo(ctx context.Context, id int64) error {
	return nil
}

func (f *fakeBoardService) Reorder(ctx context.Context, todoID, overID int64, filter domain.TodoFilter) ([]domain.SortOrderUpdate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reorders = append(f.reorders, [2]int64{todoID, overID})
	return []domain.SortOrderUpdate{{ID: todoID, SortOrder: 0}, {ID: overID, SortOrder: 1}}, nil
}

// fakePlanService keeps saved plans in memory
type fakePlanService struct {
	mu    sync.Mutex
	tasks []domain.Todo
	saved map[string][]domain.TimelineEntry
	saves int
}

func (f *fakePlanService) Open(ctx context.Context, date string) (*timeline.Allocator, error) {
	alloc := timeline.NewAllocator(timeline.WithIDGenerator(sequentialIDs()))
	alloc.Load(f.saved[date])
	return alloc, nil
}

func (f *fakePlanService) Save(ctx context.Context, date string, alloc *timeline.Allocator) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saved == nil {
		f.saved = map[string][]domain.TimelineEntry{}
	}
	f.saved[date] = alloc.Entries()
	f.saves++
	return nil
}

func (f *fakePlanService) View(ctx context.Context, date string) (*services.PlanView, error) {
	return nil, fmt.Errorf("not implemented")
}

func (f *fakePlanService) Dates(ctx context.Context) ([]string, error) {
	return nil, nil
}

func (f *fakePlanService) Delete(ctx context.Context, date string) error {
	return nil
}

func (f *fakePlanService) AllocatableTodos(ctx context.Context, filter domain.TodoFilter) ([]domain.Todo, error) {
	return f.tasks, nil
}

func (f *fakePlanService) FindAllocatable(ctx context.Context, todoID int64) (*domain.Todo, error) {
	for _, t := range f.tasks {
		if t.ID == todoID {
			return &t, nil
		}
	}
	return nil, errors.NewNotFoundError("todo", fmt.Sprint(todoID))
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("e%d", n)
	}
}

func newTestModel(board *fakeBoardService, plans *fakePlanService) Model {
	container := &services.ServiceContainer{BoardService: board, PlanService: plans}
	return New(context.Background(), container, config.NewConfig())
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press feeds keys to the model and returns the model and the last command.
func press(t interface{ Helper() }, m Model, keys ...string) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(keyPress(k))
		m = next.(Model)
	}
	return m, cmd
}

func todo(id int64, title string, status domain.TodoStatus) domain.Todo {
	return domain.Todo{ID: id, Title: title, Status: status, Priority: domain.PriorityMedium}
}

func boardOf(todos ...domain.Todo) *services.Board {
	b := &services.Board{Assignees: []domain.Assignee{{ID: 1, Name: "Alice", Color: "#EF4444"}, {ID: 2, Name: "Bob", Color: "#10B981"}}}
	for _, s := range domain.Statuses {
		col := services.Column{Status: s, Label: s.Label()}
		for _, t := range todos {
			if t.Status == s {
				col.Todos = append(col.Todos, t)
			}
		}
		b.Columns = append(b.Columns, col)
	}
	return b
}
