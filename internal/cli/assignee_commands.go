package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"kanban-todo/internal/services"
)

// AssigneeListCommand prints every assignee with its colour
type AssigneeListCommand struct {
	app          *App
	assignees    services.AssigneeService
	errorHandler *ErrorHandler
}

// NewAssigneeListCommand creates a new assignee list command handler
func NewAssigneeListCommand(app *App) *AssigneeListCommand {
	return &AssigneeListCommand{
		app:          app,
		assignees:    app.services.AssigneeService,
		errorHandler: NewErrorHandler(),
	}
}

// Execute runs the assignee list command
func (c *AssigneeListCommand) Execute(ctx context.Context, asJSON bool) error {
	list, err := c.assignees.List(ctx)
	if err != nil {
		return c.errorHandler.Handle("list assignees", err)
	}
	if asJSON {
		return writeJSON(c.app, list)
	}
	if len(list) == 0 {
		c.app.println("No assignees")
		return nil
	}

	tbl := table.New().
		Border(lipgloss.HiddenBorder()).
		Headers("ID", "NAME", "COLOR")
	for _, a := range list {
		tbl.Row(strconv.FormatInt(a.ID, 10), a.Name, a.Color)
	}
	c.app.println(tbl.String())
	return nil
}

// AssigneeAddCommand creates an assignee
type AssigneeAddCommand struct {
	app          *App
	assignees    services.AssigneeService
	errorHandler *ErrorHandler
}

// NewAssigneeAddCommand creates a new assignee add command handler
func NewAssigneeAddCommand(app *App) *AssigneeAddCommand {
	return &AssigneeAddCommand{
		app:          app,
		assignees:    app.services.AssigneeService,
		errorHandler: NewErrorHandler(),
	}
}

// Execute runs the assignee add command
func (c *AssigneeAddCommand) Execute(ctx context.Context, name string) error {
	a, err := c.assignees.Create(ctx, name)
	if err != nil {
		return c.errorHandler.Handle("add assignee", err)
	}
	c.app.printf("Created assignee #%d: %s (%s)\n", a.ID, a.Name, a.Color)
	return nil
}

// AssigneeRenameCommand renames an assignee
type AssigneeRenameCommand struct {
	app          *App
	assignees    services.AssigneeService
	errorHandler *ErrorHandler
}

// NewAssigneeRenameCommand creates a new assignee rename command handler
func NewAssigneeRenameCommand(app *App) *AssigneeRenameCommand {
	return &AssigneeRenameCommand{
		app:          app,
		assignees:    app.services.AssigneeService,
		errorHandler: NewErrorHandler(),
	}
}

// Execute runs the assignee rename command
func (c *AssigneeRenameCommand) Execute(ctx context.Context, ref, name string) error {
	current, err := resolveAssignee(ctx, c.assignees, ref)
	if err != nil {
		return c.errorHandler.Handle("rename assignee", err)
	}
	a, err := c.assignees.Rename(ctx, current.ID, name)
	if err != nil {
		return c.errorHandler.Handle("rename assignee", err)
	}
	c.app.printf("Renamed assignee #%d to %s\n", a.ID, a.Name)
	return nil
}

// AssigneeDeleteCommand deletes an assignee after confirmation
type AssigneeDeleteCommand struct {
	app          *App
	assignees    services.AssigneeService
	errorHandler *ErrorHandler
}

// NewAssigneeDeleteCommand creates a new assignee delete command handler
func NewAssigneeDeleteCommand(app *App) *AssigneeDeleteCommand {
	return &AssigneeDeleteCommand{
		app:          app,
		assignees:    app.services.AssigneeService,
		errorHandler: NewErrorHandler(),
	}
}

// Execute runs the assignee delete command
func (c *AssigneeDeleteCommand) Execute(ctx context.Context, ref string, yes bool) error {
	a, err := resolveAssignee(ctx, c.assignees, ref)
	if err != nil {
		return c.errorHandler.Handle("delete assignee", err)
	}
	if !yes && !c.app.confirm(fmt.Sprintf("Delete assignee %q?", a.Name)) {
		c.app.println("Cancelled")
		return nil
	}
	if err := c.assignees.Delete(ctx, a.ID); err != nil {
		return c.errorHandler.Handle("delete assignee", err)
	}
	c.app.printf("Deleted assignee %s\n", a.Name)
	return nil
}
