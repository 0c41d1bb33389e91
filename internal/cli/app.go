package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/term"

	"kanban-todo/internal/config"
	"kanban-todo/internal/domain"
	"kanban-todo/internal/errors"
	"kanban-todo/internal/services"
)

// timeNow is a variable that can be replaced in tests
var timeNow = time.Now

// App represents the main CLI application
type App struct {
	services *services.ServiceContainer
	config   *config.Config
	in       io.Reader
	out      io.Writer
	lines    *bufio.Reader
}

// NewApp creates a new CLI application instance with dependency injection
func NewApp(container *services.ServiceContainer, cfg *config.Config) *App {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &App{
		services: container,
		config:   cfg,
		in:       os.Stdin,
		out:      os.Stdout,
	}
}

// SetIO replaces the streams commands read prompts from and print to.
func (a *App) SetIO(in io.Reader, out io.Writer) {
	a.in = in
	a.out = out
	a.lines = nil
}

// Config returns the configuration the app was built with.
func (a *App) Config() *config.Config {
	return a.config
}

// Services returns the service container.
func (a *App) Services() *services.ServiceContainer {
	return a.services
}

func (a *App) printf(format string, args ...interface{}) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) println(args ...interface{}) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) readLine() (string, error) {
	if a.lines == nil {
		a.lines = bufio.NewReader(a.in)
	}
	line, err := a.lines.ReadString('\n')
	if err != nil && !(err == io.EOF && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// readSecret prompts for a value without echo when the input is a terminal.
func (a *App) readSecret(prompt string) (string, error) {
	a.printf("%s: ", prompt)
	if f, ok := a.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		a.println()
		return string(b), err
	}
	return a.readLine()
}

// confirm asks a yes/no question on the app's input. Anything but y/yes is no.
func (a *App) confirm(question string) bool {
	a.printf("%s [y/N]: ", question)
	line, err := a.readLine()
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

// parseID parses a positive numeric identifier argument.
func parseID(field, s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewInvalidInputError(field, s, "must be a positive number")
	}
	return id, nil
}

// resolveAssignee finds an assignee by numeric ID or case-insensitive name.
func resolveAssignee(ctx context.Context, svc services.AssigneeService, ref string) (*domain.Assignee, error) {
	ref = strings.TrimSpace(ref)
	assignees, err := svc.List(ctx)
	if err != nil {
		return nil, err
	}
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		for i := range assignees {
			if assignees[i].ID == id {
				return &assignees[i], nil
			}
		}
	}
	for i := range assignees {
		if strings.EqualFold(assignees[i].Name, ref) {
			return &assignees[i], nil
		}
	}
	return nil, errors.NewNotFoundError("assignee", ref)
}

// assigneeFilter turns an optional --assignee flag value into a board filter.
func assigneeFilter(ctx context.Context, svc services.AssigneeService, ref string) (domain.TodoFilter, error) {
	if strings.TrimSpace(ref) == "" {
		return domain.TodoFilter{}, nil
	}
	a, err := resolveAssignee(ctx, svc, ref)
	if err != nil {
		return domain.TodoFilter{}, err
	}
	id := a.ID
	return domain.TodoFilter{AssigneeID: &id}, nil
}

func assigneeName(t domain.Todo) string {
	if t.Assignee != nil {
		return t.Assignee.Name
	}
	return "-"
}
