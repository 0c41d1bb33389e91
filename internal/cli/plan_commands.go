package cli

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"kanban-todo/internal/domain"
	"kanban-todo/internal/errors"
	"kanban-todo/internal/services"
	"kanban-todo/internal/timeline"
	"kanban-todo/internal/validation"
)

// PlanPlaceOptions holds the arguments of plan place
type PlanPlaceOptions struct {
	Date     string
	TodoID   string
	Start    string
	Duration int
}

// PlanCommand groups the plan subcommands. Every mutation opens the day's
// plan, applies one allocator operation and saves it back.
type PlanCommand struct {
	app          *App
	plans        services.PlanService
	validator    *validation.TimelineValidator
	errorHandler *ErrorHandler
}

// NewPlanCommand creates a new plan command handler
func NewPlanCommand(app *App) *PlanCommand {
	return &PlanCommand{
		app:          app,
		plans:        app.services.PlanService,
		validator:    validation.NewTimelineValidator(),
		errorHandler: NewErrorHandler(),
	}
}

// Show prints the plan for a day with its lane layout
func (c *PlanCommand) Show(ctx context.Context, dateArg string, asJSON bool) error {
	date, err := c.validator.ParsePlanDate(dateArg, timeNow())
	if err != nil {
		return c.errorHandler.Handle("show plan", err)
	}
	view, err := c.plans.View(ctx, date)
	if err != nil {
		return c.errorHandler.Handle("show plan", err)
	}
	if asJSON {
		return writeJSON(c.app, view)
	}

	c.app.printf("Plan %s (%s layout)\n", view.Date, c.app.config.GetLayoutMode())
	if len(view.Entries) == 0 {
		c.app.println("  (nothing allocated)")
		return nil
	}
	for _, e := range sortedByStart(view.Entries) {
		c.app.printf("  %s  #%-4d %s%s\n", e.TimeRange(), e.TodoID, e.Todo.Title, laneSuffix(view.Layout[e.ID]))
	}
	return nil
}

// Dates lists the days that have a saved plan
func (c *PlanCommand) Dates(ctx context.Context) error {
	dates, err := c.plans.Dates(ctx)
	if err != nil {
		return c.errorHandler.Handle("list plans", err)
	}
	if len(dates) == 0 {
		c.app.println("No saved plans")
		return nil
	}
	for _, d := range dates {
		c.app.println(d)
	}
	return nil
}

// Place allocates a todo at a start slot
func (c *PlanCommand) Place(ctx context.Context, opts PlanPlaceOptions) error {
	date, err := c.validator.ParsePlanDate(opts.Date, timeNow())
	if err != nil {
		return c.errorHandler.Handle("place todo", err)
	}
	todoID, err := parseID("todo", opts.TodoID)
	if err != nil {
		return c.errorHandler.Handle("place todo", err)
	}
	start, err := c.validator.ParseSlot(opts.Start)
	if err != nil {
		return c.errorHandler.Handle("place todo", err)
	}
	if opts.Duration < 1 {
		return c.errorHandler.Handle("place todo",
			errors.NewInvalidInputError("duration", opts.Duration, "must be at least one slot"))
	}

	todo, err := c.plans.FindAllocatable(ctx, todoID)
	if err != nil {
		return c.errorHandler.Handle("place todo", err)
	}
	alloc, err := c.plans.Open(ctx, date)
	if err != nil {
		return c.errorHandler.Handle("place todo", err)
	}

	entry := alloc.Place(*todo, start)
	if opts.Duration > 1 {
		alloc.Resize(entry.ID, float64(opts.Duration-entry.DurationSlots))
	}
	return c.save(ctx, "place todo", date, alloc, entry.ID, "Placed")
}

// Move shifts a placed todo to a new start slot
func (c *PlanCommand) Move(ctx context.Context, dateArg, todoArg, startArg string) error {
	date, alloc, entry, err := c.openEntry(ctx, dateArg, todoArg)
	if err != nil {
		return c.errorHandler.Handle("move entry", err)
	}
	start, err := c.validator.ParseSlot(startArg)
	if err != nil {
		return c.errorHandler.Handle("move entry", err)
	}
	alloc.Move(entry.ID, start)
	return c.save(ctx, "move entry", date, alloc, entry.ID, "Moved")
}

// Resize grows or shrinks a placed todo by a number of slots
func (c *PlanCommand) Resize(ctx context.Context, dateArg, todoArg, deltaArg string) error {
	date, alloc, entry, err := c.openEntry(ctx, dateArg, todoArg)
	if err != nil {
		return c.errorHandler.Handle("resize entry", err)
	}
	delta, err := c.validator.ParseDelta(deltaArg)
	if err != nil {
		return c.errorHandler.Handle("resize entry", err)
	}
	alloc.Resize(entry.ID, delta)
	return c.save(ctx, "resize entry", date, alloc, entry.ID, "Resized")
}

// Remove takes a todo off the day's plan
func (c *PlanCommand) Remove(ctx context.Context, dateArg, todoArg string) error {
	date, alloc, entry, err := c.openEntry(ctx, dateArg, todoArg)
	if err != nil {
		return c.errorHandler.Handle("remove entry", err)
	}
	alloc.Remove(entry.ID)
	if err := c.plans.Save(ctx, date, alloc); err != nil {
		return c.errorHandler.Handle("remove entry", err)
	}
	c.app.printf("Removed #%d %s from %s\n", entry.TodoID, entry.Todo.Title, date)
	return nil
}

// Clear deletes the whole plan for a day
func (c *PlanCommand) Clear(ctx context.Context, dateArg string, yes bool) error {
	date, err := c.validator.ParsePlanDate(dateArg, timeNow())
	if err != nil {
		return c.errorHandler.Handle("clear plan", err)
	}
	if !yes && !c.app.confirm(fmt.Sprintf("Clear the plan for %s?", date)) {
		c.app.println("Cancelled")
		return nil
	}
	if err := c.plans.Delete(ctx, date); err != nil {
		return c.errorHandler.Handle("clear plan", err)
	}
	c.app.printf("Cleared plan %s\n", date)
	return nil
}

func (c *PlanCommand) openEntry(ctx context.Context, dateArg, todoArg string) (string, *timeline.Allocator, domain.TimelineEntry, error) {
	date, err := c.validator.ParsePlanDate(dateArg, timeNow())
	if err != nil {
		return "", nil, domain.TimelineEntry{}, err
	}
	todoID, err := parseID("todo", todoArg)
	if err != nil {
		return "", nil, domain.TimelineEntry{}, err
	}
	alloc, err := c.plans.Open(ctx, date)
	if err != nil {
		return "", nil, domain.TimelineEntry{}, err
	}
	entry, ok := alloc.EntryForTask(todoID)
	if !ok {
		return "", nil, domain.TimelineEntry{}, errors.NewNotFoundError("plan entry", "todo "+strconv.FormatInt(todoID, 10)+" on "+date)
	}
	return date, alloc, entry, nil
}

func (c *PlanCommand) save(ctx context.Context, operation, date string, alloc *timeline.Allocator, entryID, verb string) error {
	if err := c.plans.Save(ctx, date, alloc); err != nil {
		return c.errorHandler.Handle(operation, err)
	}
	entry, _ := alloc.Entry(entryID)
	c.app.printf("%s #%d %s at %s\n", verb, entry.TodoID, entry.Todo.Title, entry.TimeRange())
	return nil
}

func laneSuffix(p timeline.Placement) string {
	if p.TotalLanes <= 1 {
		return ""
	}
	return fmt.Sprintf("  [lane %d/%d]", p.Lane+1, p.TotalLanes)
}

func sortedByStart(entries []domain.TimelineEntry) []domain.TimelineEntry {
	out := make([]domain.TimelineEntry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartSlot < out[j].StartSlot })
	return out
}
