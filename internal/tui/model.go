package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"kanban-todo/internal/config"
	"kanban-todo/internal/domain"
	"kanban-todo/internal/errors"
	"kanban-todo/internal/logging"
	"kanban-todo/internal/services"
)

// timeNow is a variable that can be replaced in tests
var timeNow = time.Now

type view int

const (
	viewBoard view = iota
	viewPlan
)

type boardLoadedMsg struct {
	board *services.Board
	err   error
}

type todoChangedMsg struct {
	status string
	err    error
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	statusStyle = lipgloss.NewStyle().Faint(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
)

// Model is the root bubbletea model: a kanban board and the work
// allocation timeline, switched with tab.
type Model struct {
	ctx      context.Context
	services *services.ServiceContainer
	cfg      *config.Config
	keys     keyMap
	help     help.Model

	width  int
	height int
	view   view

	board boardState
	plan  *planState

	status string
	err    error
}

// New builds the model. Nothing is fetched until Init.
func New(ctx context.Context, container *services.ServiceContainer, cfg *config.Config) Model {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return Model{
		ctx:      ctx,
		services: container,
		cfg:      cfg,
		keys:     newKeyMap(),
		help:     help.New(),
		width:    100,
		height:   30,
		view:     viewBoard,
	}
}

// Run starts the full-screen program and blocks until the user quits.
func Run(ctx context.Context, container *services.ServiceContainer, cfg *config.Config) error {
	m := New(ctx, container, cfg)
	logging.Debugf("tui: starting with %s layout", cfg.GetLayoutMode())
	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(Model); ok && fm.plan != nil {
		fm.plan.close()
	}
	return nil
}

func (m Model) Init() tea.Cmd {
	return m.loadBoard()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case boardLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.board.setBoard(msg.board)
		return m, nil

	case todoChangedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, m.loadBoard()
		}
		m.err = nil
		m.status = msg.status
		return m, m.loadBoard()

	case planLoadedMsg:
		return m.handlePlanLoaded(msg)

	case planSavedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.plan != nil {
			m.plan.close()
		}
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.SwitchTab):
		return m.switchView()
	}

	if m.view == viewPlan {
		return m.handlePlanKeys(msg)
	}
	return m.handleBoardKeys(msg)
}

func (m Model) switchView() (tea.Model, tea.Cmd) {
	m.status = ""
	if m.view == viewPlan {
		m.view = viewBoard
		m.keys.view = viewBoard
		return m, m.loadBoard()
	}
	m.view = viewPlan
	m.keys.view = viewPlan
	date := timeNow().Format("2006-01-02")
	if m.plan != nil {
		date = m.plan.date
	}
	return m, m.loadPlan(date)
}

func (m Model) View() string {
	var body string
	if m.view == viewPlan {
		body = m.planView()
	} else {
		body = m.boardView()
	}

	var footer []string
	if m.err != nil {
		footer = append(footer, errorStyle.Render(userMessage(m.err)))
	} else if m.status != "" {
		footer = append(footer, statusStyle.Render(m.status))
	}
	footer = append(footer, m.help.View(m.keys))
	return body + "\n\n" + strings.Join(footer, "\n")
}

// opContext bounds a single service call with the configured timeout.
func (m Model) opContext() (context.Context, context.CancelFunc) {
	parent := m.ctx
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, m.cfg.Application.Timeout)
}

func (m Model) loadBoard() tea.Cmd {
	svc := m.services.BoardService
	filter := m.board.filter
	return func() tea.Msg {
		ctx, cancel := m.opContext()
		defer cancel()
		board, err := svc.Board(ctx, filter)
		return boardLoadedMsg{board: board, err: err}
	}
}

func userMessage(err error) string {
	if errors.IsErrorType(err, errors.ErrorTypeUnauthorized) {
		return errors.GetUserMessage(err) + " (quit and run `kb login`)"
	}
	return errors.GetUserMessage(err)
}

func filterLabel(b *services.Board, filter domain.TodoFilter) string {
	if filter.AssigneeID == nil || b == nil {
		return "All"
	}
	for _, a := range b.Assignees {
		if a.ID == *filter.AssigneeID {
			return a.Name
		}
	}
	return fmt.Sprintf("#%d", *filter.AssigneeID)
}
