package services

import (
	"context"
	"strconv"
	"time"

	"kanban-todo/internal/api"
	"kanban-todo/internal/domain"
	"kanban-todo/internal/errors"
	"kanban-todo/internal/logging"
	"kanban-todo/internal/repository/sqlite"
	"kanban-todo/internal/timeline"
	"kanban-todo/internal/validation"
)

// planServiceImpl implements the PlanService interface
type planServiceImpl struct {
	repo      sqlite.Repository
	client    api.API
	mapper    *domain.Mapper
	mode      timeline.LayoutMode
	validator *validation.TimelineValidator
}

// NewPlanService creates a new PlanService instance
func NewPlanService(repo sqlite.Repository, client api.API, mode timeline.LayoutMode) PlanService {
	return &planServiceImpl{
		repo:      repo,
		client:    client,
		mapper:    domain.NewMapper(),
		mode:      mode,
		validator: validation.NewTimelineValidator(),
	}
}

// Open loads the saved plan for date into a new allocator. Todo snapshots
// are refreshed from the server when it is reachable.
func (p *planServiceImpl) Open(ctx context.Context, date string) (*timeline.Allocator, error) {
	entries, err := p.load(ctx, date)
	if err != nil {
		return nil, err
	}

	alloc := timeline.NewAllocator(timeline.WithLayoutMode(p.mode))
	alloc.Load(p.refresh(ctx, entries))
	return alloc, nil
}

// Save replaces the stored plan for date with the allocator's entries
func (p *planServiceImpl) Save(ctx context.Context, date string, alloc *timeline.Allocator) error {
	if err := p.checkDate(date); err != nil {
		return err
	}
	rows := p.mapper.PlanEntry.ToDatabaseSlice(date, alloc.Entries())
	if err := p.repo.ReplacePlan(ctx, date, rows); err != nil {
		return err
	}
	logging.Debugf("saved plan %s with %d entries", date, len(rows))
	return nil
}

// View returns the plan for date with its lane layout
func (p *planServiceImpl) View(ctx context.Context, date string) (*PlanView, error) {
	alloc, err := p.Open(ctx, date)
	if err != nil {
		return nil, err
	}
	return &PlanView{
		Date:    date,
		Entries: alloc.Entries(),
		Layout:  alloc.Layout(),
	}, nil
}

func (p *planServiceImpl) Dates(ctx context.Context) ([]string, error) {
	return p.repo.ListPlanDates(ctx)
}

func (p *planServiceImpl) Delete(ctx context.Context, date string) error {
	if err := p.checkDate(date); err != nil {
		return err
	}
	return p.repo.DeletePlan(ctx, date)
}

// AllocatableTodos lists the todos offered in the task panel: TODO and
// DOING only, optionally for one assignee.
func (p *planServiceImpl) AllocatableTodos(ctx context.Context, filter domain.TodoFilter) ([]domain.Todo, error) {
	todos, err := p.client.ListTodos(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Todo, 0, len(todos))
	for _, t := range todos {
		if t.IsAllocatable() && filter.Matches(t) {
			out = append(out, t)
		}
	}
	return out, nil
}

// FindAllocatable returns the todo with id if it may be placed
func (p *planServiceImpl) FindAllocatable(ctx context.Context, todoID int64) (*domain.Todo, error) {
	todos, err := p.AllocatableTodos(ctx, domain.TodoFilter{})
	if err != nil {
		return nil, err
	}
	for i := range todos {
		if todos[i].ID == todoID {
			return &todos[i], nil
		}
	}
	return nil, errors.NewNotFoundError("allocatable todo", strconv.FormatInt(todoID, 10))
}

func (p *planServiceImpl) load(ctx context.Context, date string) ([]domain.TimelineEntry, error) {
	if err := p.checkDate(date); err != nil {
		return nil, err
	}
	rows, err := p.repo.ListPlanEntries(ctx, date)
	if err != nil {
		return nil, err
	}
	return p.mapper.PlanEntry.FromDatabaseSlice(rows), nil
}

// refresh swaps stored snapshots for current todo data. Entries whose todo
// no longer exists keep their snapshot.
func (p *planServiceImpl) refresh(ctx context.Context, entries []domain.TimelineEntry) []domain.TimelineEntry {
	if len(entries) == 0 {
		return entries
	}
	todos, err := p.client.ListTodos(ctx)
	if err != nil {
		logging.Debugf("using stored plan snapshots: %v", err)
		return entries
	}
	byID := make(map[int64]domain.Todo, len(todos))
	for _, t := range todos {
		byID[t.ID] = t
	}
	for i := range entries {
		if t, ok := byID[entries[i].TodoID]; ok {
			entries[i].Todo = t
		}
	}
	return entries
}

func (p *planServiceImpl) checkDate(date string) error {
	if _, err := p.validator.ParsePlanDate(date, time.Now()); err != nil || date == "" {
		return invalid(err, "plan date is required")
	}
	return nil
}
