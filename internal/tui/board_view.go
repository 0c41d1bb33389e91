package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"kanban-todo/internal/domain"
	"kanban-todo/internal/services"
)

// boardState is the cursor over the three columns. A picked-up card is
// carried until it is dropped on another card of the same column.
type boardState struct {
	board    *services.Board
	col      int
	row      int
	carrying *domain.Todo
	filter   domain.TodoFilter
}

// setBoard installs a freshly loaded board, keeping the cursor on the same
// todo when it still exists.
func (b *boardState) setBoard(board *services.Board) {
	var focusID int64
	if t, ok := b.selected(); ok {
		focusID = t.ID
	}
	b.board = board
	if focusID != 0 {
		for ci, col := range board.Columns {
			for ri, t := range col.Todos {
				if t.ID == focusID {
					b.col, b.row = ci, ri
					return
				}
			}
		}
	}
	b.clamp()
}

func (b *boardState) column() *services.Column {
	if b.board == nil || b.col < 0 || b.col >= len(b.board.Columns) {
		return nil
	}
	return &b.board.Columns[b.col]
}

func (b *boardState) selected() (domain.Todo, bool) {
	col := b.column()
	if col == nil || b.row < 0 || b.row >= len(col.Todos) {
		return domain.Todo{}, false
	}
	return col.Todos[b.row], true
}

func (b *boardState) clamp() {
	if b.board == nil {
		b.col, b.row = 0, 0
		return
	}
	if b.col >= len(b.board.Columns) {
		b.col = len(b.board.Columns) - 1
	}
	if b.col < 0 {
		b.col = 0
	}
	col := b.column()
	if col == nil || len(col.Todos) == 0 {
		b.row = 0
		return
	}
	if b.row >= len(col.Todos) {
		b.row = len(col.Todos) - 1
	}
	if b.row < 0 {
		b.row = 0
	}
}

// nextFilter cycles All -> each assignee -> All.
func (b *boardState) nextFilter() {
	if b.board == nil || len(b.board.Assignees) == 0 {
		b.filter = domain.TodoFilter{}
		return
	}
	if b.filter.AssigneeID == nil {
		id := b.board.Assignees[0].ID
		b.filter = domain.TodoFilter{AssigneeID: &id}
		return
	}
	for i, a := range b.board.Assignees {
		if a.ID == *b.filter.AssigneeID && i+1 < len(b.board.Assignees) {
			id := b.board.Assignees[i+1].ID
			b.filter = domain.TodoFilter{AssigneeID: &id}
			return
		}
	}
	b.filter = domain.TodoFilter{}
}

func (m Model) handleBoardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	b := &m.board
	switch {
	case key.Matches(msg, m.keys.Up):
		b.row--
		b.clamp()
	case key.Matches(msg, m.keys.Down):
		b.row++
		b.clamp()
	case key.Matches(msg, m.keys.Left), key.Matches(msg, m.keys.Right):
		if b.carrying != nil {
			m.status = "Cards can only be reordered within their column"
			return m, nil
		}
		if key.Matches(msg, m.keys.Left) {
			b.col--
		} else {
			b.col++
		}
		b.clamp()

	case key.Matches(msg, m.keys.Grab):
		return m.grabOrDrop()

	case key.Matches(msg, m.keys.Cancel):
		if b.carrying != nil {
			b.carrying = nil
			m.status = "Move cancelled"
		}

	case key.Matches(msg, m.keys.StatusFwd), key.Matches(msg, m.keys.StatusBck):
		todo, ok := b.selected()
		if !ok || b.carrying != nil {
			return m, nil
		}
		step := 1
		if key.Matches(msg, m.keys.StatusBck) {
			step = -1
		}
		target := b.col + step
		if target < 0 || target >= len(domain.Statuses) {
			return m, nil
		}
		return m, m.changeStatus(todo, domain.Statuses[target])

	case key.Matches(msg, m.keys.Filter):
		b.nextFilter()
		m.status = "Filter: " + filterLabel(b.board, b.filter)
		return m, m.loadBoard()

	case key.Matches(msg, m.keys.Reload):
		return m, m.loadBoard()
	}
	return m, nil
}

func (m Model) grabOrDrop() (tea.Model, tea.Cmd) {
	b := &m.board
	todo, ok := b.selected()
	if b.carrying == nil {
		if !ok {
			return m, nil
		}
		picked := todo
		b.carrying = &picked
		m.status = fmt.Sprintf("Moving %q: choose a position and press space", todo.Title)
		return m, nil
	}

	carried := *b.carrying
	b.carrying = nil
	if !ok || todo.ID == carried.ID {
		m.status = ""
		return m, nil
	}
	return m, m.reorder(carried, todo)
}

func (m Model) reorder(active, over domain.Todo) tea.Cmd {
	svc := m.services.BoardService
	filter := m.board.filter
	return func() tea.Msg {
		ctx, cancel := m.opContext()
		defer cancel()
		updates, err := svc.Reorder(ctx, active.ID, over.ID, filter)
		if err != nil {
			return todoChangedMsg{err: err}
		}
		if len(updates) == 0 {
			return todoChangedMsg{}
		}
		return todoChangedMsg{status: fmt.Sprintf("Moved %q", active.Title)}
	}
}

func (m Model) changeStatus(todo domain.Todo, status domain.TodoStatus) tea.Cmd {
	svc := m.services.BoardService
	return func() tea.Msg {
		ctx, cancel := m.opContext()
		defer cancel()
		if _, err := svc.ChangeStatus(ctx, todo.ID, status); err != nil {
			return todoChangedMsg{err: err}
		}
		return todoChangedMsg{status: fmt.Sprintf("%q moved to %s", todo.Title, status.Label())}
	}
}

var (
	columnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
	activeColumnStyle = columnStyle.BorderForeground(lipgloss.Color("#14B8A6"))
	cursorStyle       = lipgloss.NewStyle().Reverse(true)
	carryStyle        = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F59E0B"))
	priorityStyles    = map[domain.TodoPriority]lipgloss.Style{
		domain.PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")),
		domain.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")),
		domain.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")),
	}
)

func (m Model) boardView() string {
	header := titleStyle.Render("Kanban") + statusStyle.Render("  filter: "+filterLabel(m.board.board, m.board.filter))
	if m.board.board == nil {
		return header + "\n\nLoading…"
	}
	return header + "\n\n" + renderColumns(m.board, m.width)
}

func renderColumns(b boardState, width int) string {
	n := len(b.board.Columns)
	if n == 0 {
		return ""
	}
	colWidth := width/n - 2
	if colWidth < 16 {
		colWidth = 16
	}
	inner := colWidth - 2

	rendered := make([]string, 0, n)
	for ci, col := range b.board.Columns {
		lines := []string{titleStyle.Render(fmt.Sprintf("%s (%d)", col.Label, len(col.Todos)))}
		if len(col.Todos) == 0 {
			lines = append(lines, statusStyle.Render("(empty)"))
		}
		for ri, t := range col.Todos {
			lines = append(lines, renderCard(t, inner, ci == b.col && ri == b.row, b.carrying != nil && b.carrying.ID == t.ID))
		}

		style := columnStyle
		if ci == b.col {
			style = activeColumnStyle
		}
		rendered = append(rendered, style.Width(colWidth).Render(strings.Join(lines, "\n")))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func renderCard(t domain.Todo, width int, selected, carried bool) string {
	marker := "  "
	if carried {
		marker = carryStyle.Render("» ")
	}
	prio := priorityStyles[t.Priority].Render(t.Priority.Label())
	title := xansi.Truncate(t.Title, width-6, "…")
	line := marker + prio + " " + title
	if t.Assignee != nil {
		line += "\n     " + lipgloss.NewStyle().Foreground(lipgloss.Color(t.Color())).Render(xansi.Truncate("@"+t.Assignee.Name, width-5, "…"))
	}
	if selected {
		return cursorStyle.Render(line)
	}
	return line
}
