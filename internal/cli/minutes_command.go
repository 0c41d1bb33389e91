package cli

import (
	"context"
	"os"
	"strings"
	"time"

	"kanban-todo/internal/errors"
	"kanban-todo/internal/services"
	"kanban-todo/internal/validation"
)

// MinutesOptions holds the flags of the minutes command
type MinutesOptions struct {
	Date     string
	Memo     string
	MemoFile string
	Assignee string
	Save     bool
}

// MinutesCommand renders the meeting minutes
type MinutesCommand struct {
	app          *App
	minutes      services.MinutesService
	assignees    services.AssigneeService
	errorHandler *ErrorHandler
}

// NewMinutesCommand creates a new minutes command handler
func NewMinutesCommand(app *App) *MinutesCommand {
	return &MinutesCommand{
		app:          app,
		minutes:      app.services.MinutesService,
		assignees:    app.services.AssigneeService,
		errorHandler: NewErrorHandler(),
	}
}

// Execute runs the minutes command
func (c *MinutesCommand) Execute(ctx context.Context, opts MinutesOptions) error {
	date := timeNow()
	if strings.TrimSpace(opts.Date) != "" {
		parsed, err := time.ParseInLocation(validation.PlanDateFormat, strings.TrimSpace(opts.Date), time.Local)
		if err != nil {
			return c.errorHandler.Handle("export minutes",
				errors.NewInvalidInputError("date", opts.Date, "expected YYYY-MM-DD"))
		}
		date = parsed
	}

	memo := opts.Memo
	if opts.MemoFile != "" {
		b, err := os.ReadFile(opts.MemoFile)
		if err != nil {
			return c.errorHandler.Handle("export minutes", err)
		}
		memo = string(b)
	}

	filter, err := assigneeFilter(ctx, c.assignees, opts.Assignee)
	if err != nil {
		return c.errorHandler.Handle("export minutes", err)
	}

	text, err := c.minutes.Render(ctx, services.MinutesOptions{Date: date, Memo: memo, Filter: filter})
	if err != nil {
		return c.errorHandler.Handle("export minutes", err)
	}

	if !opts.Save {
		c.app.printf("%s", text)
		return nil
	}
	name := c.minutes.FileName(date)
	if err := os.WriteFile(name, []byte(text), 0644); err != nil {
		return c.errorHandler.Handle("export minutes", err)
	}
	c.app.printf("Minutes written to %s\n", name)
	return nil
}
