package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"kanban-todo/internal/domain"
	"kanban-todo/internal/services"
	"kanban-todo/internal/validation"
)

// BoardOptions narrows and formats the board output
type BoardOptions struct {
	Assignee string
	Status   string
	JSON     bool
}

// BoardCommand prints the board column by column
type BoardCommand struct {
	app          *App
	board        services.BoardService
	assignees    services.AssigneeService
	errorHandler *ErrorHandler
}

// NewBoardCommand creates a new board command handler
func NewBoardCommand(app *App) *BoardCommand {
	return &BoardCommand{
		app:          app,
		board:        app.services.BoardService,
		assignees:    app.services.AssigneeService,
		errorHandler: NewErrorHandler(),
	}
}

// Execute runs the board command
func (c *BoardCommand) Execute(ctx context.Context, opts BoardOptions) error {
	filter, err := assigneeFilter(ctx, c.assignees, opts.Assignee)
	if err != nil {
		return c.errorHandler.Handle("load board", err)
	}
	board, err := c.board.Board(ctx, filter)
	if err != nil {
		return c.errorHandler.Handle("load board", err)
	}

	if opts.JSON {
		return writeJSON(c.app, board)
	}

	for i, col := range board.Columns {
		if i > 0 {
			c.app.println()
		}
		c.app.printf("%s (%d)\n", col.Label, len(col.Todos))
		if len(col.Todos) == 0 {
			c.app.println("  (empty)")
			continue
		}
		for _, t := range col.Todos {
			c.app.printf("  #%-4d %-6s %s%s\n", t.ID, t.Priority, t.Title, assigneeSuffix(t))
		}
	}
	return nil
}

// TodoListCommand prints todos as a table
type TodoListCommand struct {
	app          *App
	board        services.BoardService
	assignees    services.AssigneeService
	validator    *validation.TodoValidator
	errorHandler *ErrorHandler
}

// NewTodoListCommand creates a new todo list command handler
func NewTodoListCommand(app *App) *TodoListCommand {
	return &TodoListCommand{
		app:          app,
		board:        app.services.BoardService,
		assignees:    app.services.AssigneeService,
		validator:    validation.NewTodoValidator(),
		errorHandler: NewErrorHandler(),
	}
}

// Execute runs the todo list command
func (c *TodoListCommand) Execute(ctx context.Context, opts BoardOptions) error {
	var only domain.TodoStatus
	if strings.TrimSpace(opts.Status) != "" {
		status, err := c.validator.ParseStatus(opts.Status)
		if err != nil {
			return c.errorHandler.Handle("list todos", err)
		}
		only = status
	}

	filter, err := assigneeFilter(ctx, c.assignees, opts.Assignee)
	if err != nil {
		return c.errorHandler.Handle("list todos", err)
	}
	board, err := c.board.Board(ctx, filter)
	if err != nil {
		return c.errorHandler.Handle("list todos", err)
	}

	var todos []domain.Todo
	for _, col := range board.Columns {
		if only != "" && col.Status != only {
			continue
		}
		todos = append(todos, col.Todos...)
	}

	if opts.JSON {
		if todos == nil {
			todos = []domain.Todo{}
		}
		return writeJSON(c.app, todos)
	}
	if len(todos) == 0 {
		c.app.println("No todos found")
		return nil
	}

	c.app.println(todoTable(todos))
	return nil
}

// TodoAddOptions holds the flags of todo add
type TodoAddOptions struct {
	Title       string
	Description string
	Status      string
	Priority    string
	Assignee    string
}

// TodoAddCommand creates a todo
type TodoAddCommand struct {
	app          *App
	board        services.BoardService
	assignees    services.AssigneeService
	validator    *validation.TodoValidator
	errorHandler *ErrorHandler
}

// NewTodoAddCommand creates a new todo add command handler
func NewTodoAddCommand(app *App) *TodoAddCommand {
	return &TodoAddCommand{
		app:          app,
		board:        app.services.BoardService,
		assignees:    app.services.AssigneeService,
		validator:    validation.NewTodoValidator(),
		errorHandler: NewErrorHandler(),
	}
}

// Execute runs the todo add command
func (c *TodoAddCommand) Execute(ctx context.Context, opts TodoAddOptions) error {
	draft := services.TodoDraft{
		Title:       opts.Title,
		Description: opts.Description,
	}
	if opts.Status != "" {
		status, err := c.validator.ParseStatus(opts.Status)
		if err != nil {
			return c.errorHandler.Handle("add todo", err)
		}
		draft.Status = status
	}
	if opts.Priority != "" {
		priority, err := c.validator.ParsePriority(opts.Priority)
		if err != nil {
			return c.errorHandler.Handle("add todo", err)
		}
		draft.Priority = priority
	}
	if opts.Assignee != "" {
		a, err := resolveAssignee(ctx, c.assignees, opts.Assignee)
		if err != nil {
			return c.errorHandler.Handle("add todo", err)
		}
		id := a.ID
		draft.AssigneeID = &id
	}

	todo, err := c.board.CreateTodo(ctx, draft)
	if err != nil {
		return c.errorHandler.Handle("add todo", err)
	}
	c.app.printf("Created todo #%d: %s\n", todo.ID, todo.Title)
	return nil
}

// TodoEditOptions holds the flags of todo edit; nil means unchanged
type TodoEditOptions struct {
	Title       *string
	Description *string
	Priority    *string
	Assignee    *string
	Unassign    bool
}

// TodoEditCommand applies a partial update
type TodoEditCommand struct {
	app          *App
	board        services.BoardService
	assignees    services.AssigneeService
	validator    *validation.TodoValidator
	errorHandler *ErrorHandler
}

// NewTodoEditCommand creates a new todo edit command handler
func NewTodoEditCommand(app *App) *TodoEditCommand {
	return &TodoEditCommand{
		app:          app,
		board:        app.services.BoardService,
		assignees:    app.services.AssigneeService,
		validator:    validation.NewTodoValidator(),
		errorHandler: NewErrorHandler(),
	}
}

// Execute runs the todo edit command
func (c *TodoEditCommand) Execute(ctx context.Context, idArg string, opts TodoEditOptions) error {
	id, err := parseID("id", idArg)
	if err != nil {
		return c.errorHandler.Handle("edit todo", err)
	}

	patch := domain.TodoPatch{
		Title:         opts.Title,
		Description:   opts.Description,
		ClearAssignee: opts.Unassign,
	}
	if opts.Priority != nil {
		priority, err := c.validator.ParsePriority(*opts.Priority)
		if err != nil {
			return c.errorHandler.Handle("edit todo", err)
		}
		patch.Priority = &priority
	}
	if opts.Assignee != nil {
		a, err := resolveAssignee(ctx, c.assignees, *opts.Assignee)
		if err != nil {
			return c.errorHandler.Handle("edit todo", err)
		}
		assigneeID := a.ID
		patch.AssigneeID = &assigneeID
	}

	todo, err := c.board.EditTodo(ctx, id, patch)
	if err != nil {
		return c.errorHandler.Handle("edit todo", err)
	}
	c.app.printf("Updated todo #%d: %s\n", todo.ID, todo.Title)
	return nil
}

// TodoStatusCommand moves a todo to another column
type TodoStatusCommand struct {
	app          *App
	board        services.BoardService
	validator    *validation.TodoValidator
	errorHandler *ErrorHandler
}

// NewTodoStatusCommand creates a new todo status command handler
func NewTodoStatusCommand(app *App) *TodoStatusCommand {
	return &TodoStatusCommand{
		app:          app,
		board:        app.services.BoardService,
		validator:    validation.NewTodoValidator(),
		errorHandler: NewErrorHandler(),
	}
}

// Execute runs the todo status command
func (c *TodoStatusCommand) Execute(ctx context.Context, idArg, statusArg string) error {
	id, err := parseID("id", idArg)
	if err != nil {
		return c.errorHandler.Handle("change status", err)
	}
	status, err := c.validator.ParseStatus(statusArg)
	if err != nil {
		return c.errorHandler.Handle("change status", err)
	}

	todo, err := c.board.ChangeStatus(ctx, id, status)
	if err != nil {
		return c.errorHandler.Handle("change status", err)
	}
	c.app.printf("Moved todo #%d to %s\n", todo.ID, todo.Status.Label())
	return nil
}

// TodoDeleteCommand deletes a todo after confirmation
type TodoDeleteCommand struct {
	app          *App
	board        services.BoardService
	errorHandler *ErrorHandler
}

// NewTodoDeleteCommand creates a new todo delete command handler
func NewTodoDeleteCommand(app *App) *TodoDeleteCommand {
	return &TodoDeleteCommand{
		app:          app,
		board:        app.services.BoardService,
		errorHandler: NewErrorHandler(),
	}
}

// Execute runs the todo delete command
func (c *TodoDeleteCommand) Execute(ctx context.Context, idArg string, yes bool) error {
	id, err := parseID("id", idArg)
	if err != nil {
		return c.errorHandler.Handle("delete todo", err)
	}
	todo, err := c.board.Todo(ctx, id)
	if err != nil {
		return c.errorHandler.Handle("delete todo", err)
	}
	if !yes && !c.app.confirm(fmt.Sprintf("Delete todo #%d %q?", todo.ID, todo.Title)) {
		c.app.println("Cancelled")
		return nil
	}

	if err := c.board.DeleteTodo(ctx, id); err != nil {
		return c.errorHandler.Handle("delete todo", err)
	}
	c.app.printf("Deleted todo #%d\n", id)
	return nil
}

// TodoReorderCommand moves a todo onto another todo's position in its column
type TodoReorderCommand struct {
	app          *App
	board        services.BoardService
	assignees    services.AssigneeService
	errorHandler *ErrorHandler
}

// NewTodoReorderCommand creates a new todo reorder command handler
func NewTodoReorderCommand(app *App) *TodoReorderCommand {
	return &TodoReorderCommand{
		app:          app,
		board:        app.services.BoardService,
		assignees:    app.services.AssigneeService,
		errorHandler: NewErrorHandler(),
	}
}

// Execute runs the todo reorder command
func (c *TodoReorderCommand) Execute(ctx context.Context, idArg, overArg, assignee string) error {
	id, err := parseID("id", idArg)
	if err != nil {
		return c.errorHandler.Handle("reorder todo", err)
	}
	overID, err := parseID("over", overArg)
	if err != nil {
		return c.errorHandler.Handle("reorder todo", err)
	}
	filter, err := assigneeFilter(ctx, c.assignees, assignee)
	if err != nil {
		return c.errorHandler.Handle("reorder todo", err)
	}

	updates, err := c.board.Reorder(ctx, id, overID, filter)
	if err != nil {
		return c.errorHandler.Handle("reorder todo", err)
	}
	if len(updates) == 0 {
		c.app.println("Nothing to reorder")
		return nil
	}

	order := make([]string, len(updates))
	for i, u := range updates {
		order[i] = "#" + strconv.FormatInt(u.ID, 10)
	}
	c.app.printf("New order: %s\n", strings.Join(order, " "))
	return nil
}

func assigneeSuffix(t domain.Todo) string {
	if t.Assignee == nil {
		return ""
	}
	return "  @" + t.Assignee.Name
}

func todoTable(todos []domain.Todo) string {
	tbl := table.New().
		Border(lipgloss.HiddenBorder()).
		Headers("ID", "STATUS", "PRIORITY", "ASSIGNEE", "TITLE")
	for _, t := range todos {
		tbl.Row(strconv.FormatInt(t.ID, 10), string(t.Status), string(t.Priority), assigneeName(t), t.Title)
	}
	return tbl.String()
}

func writeJSON(app *App, v interface{}) error {
	enc := json.NewEncoder(app.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
