package cli

import (
	"context"
	"io"
	"os"
	"strconv"

	"kanban-todo/internal/services"
)

// openInput opens path for reading; "-" or "" reads the app's input.
func openInput(app *App, path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(app.in), nil
	}
	return os.Open(path)
}

// ImportRowsCommand bulk-creates todos from CSV or tab-separated rows
type ImportRowsCommand struct {
	app          *App
	imports      services.ImportService
	assignees    services.AssigneeService
	errorHandler *ErrorHandler
}

// NewImportRowsCommand creates a new import rows command handler
func NewImportRowsCommand(app *App) *ImportRowsCommand {
	return &ImportRowsCommand{
		app:          app,
		imports:      app.services.ImportService,
		assignees:    app.services.AssigneeService,
		errorHandler: NewErrorHandler(),
	}
}

// Execute runs the import rows command
func (c *ImportRowsCommand) Execute(ctx context.Context, path string) error {
	in, err := openInput(c.app, path)
	if err != nil {
		return c.errorHandler.Handle("import rows", err)
	}
	defer in.Close()

	assignees, err := c.assignees.List(ctx)
	if err != nil {
		return c.errorHandler.Handle("import rows", err)
	}
	rows, err := c.imports.ParseRows(in, assignees)
	if err != nil {
		return c.errorHandler.Handle("import rows", err)
	}

	result, err := c.imports.SubmitRows(ctx, rows)
	if result != nil {
		c.app.printf("Imported %d of %d rows\n", result.Succeeded(), result.Submitted)
	}
	if err != nil {
		return c.errorHandler.Handle("import rows", err)
	}
	return nil
}

// ImportJSONCommand sends a {"todos": [...]} file to the server
type ImportJSONCommand struct {
	app          *App
	auth         services.AuthService
	imports      services.ImportService
	errorHandler *ErrorHandler
}

// NewImportJSONCommand creates a new import json command handler
func NewImportJSONCommand(app *App) *ImportJSONCommand {
	return &ImportJSONCommand{
		app:          app,
		auth:         app.services.AuthService,
		imports:      app.services.ImportService,
		errorHandler: NewErrorHandler(),
	}
}

// Execute runs the import json command
func (c *ImportJSONCommand) Execute(ctx context.Context, path string, yes bool) error {
	if err := c.auth.RequireAdmin(ctx); err != nil {
		return c.errorHandler.Handle("import todos", err)
	}

	in, err := openInput(c.app, path)
	if err != nil {
		return c.errorHandler.Handle("import todos", err)
	}
	defer in.Close()

	file, count, err := c.imports.CheckTodosFile(in)
	if err != nil {
		return c.errorHandler.Handle("import todos", err)
	}
	if !yes && !c.app.confirm(formatCount(count, "todo")+" will be added. Continue?") {
		c.app.println("Cancelled")
		return nil
	}

	result, err := c.imports.ImportTodosFile(ctx, file)
	if err != nil {
		return c.errorHandler.Handle("import todos", err)
	}
	c.app.printf("Imported %s\n", formatCount(result.Created, "todo"))
	return nil
}

func formatCount(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}
