package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"kanban-todo/internal/domain"
	"kanban-todo/internal/logging"
	"kanban-todo/internal/timeline"
)

type pane int

const (
	paneTasks pane = iota
	paneTimeline
)

// rowHeight is the pointer distance of one slot when resizing with the
// keyboard: the cursor moves one row per slot.
const rowHeight = 1.0

type planLoadedMsg struct {
	date  string
	alloc *timeline.Allocator
	tasks []domain.Todo
	err   error
}

type planSavedMsg struct {
	err error
}

// planState is the allocation view for one day. It is shared by pointer so
// the allocator subscription can flag unsaved changes.
type planState struct {
	date   string
	alloc  *timeline.Allocator
	drag   *timeline.DragMachine
	resize *timeline.ResizeGesture
	tasks  []domain.Todo
	hours  domain.WorkHours

	focus   pane
	taskIdx int
	cursor  int
	offset  int
	pick    int
	dirty   bool

	unsubscribe func()
}

func newPlanState(date string, alloc *timeline.Allocator, tasks []domain.Todo, hours domain.WorkHours) *planState {
	p := &planState{
		date:   date,
		alloc:  alloc,
		drag:   timeline.NewDragMachine(alloc),
		resize: timeline.NewResizeGesture(alloc, rowHeight),
		tasks:  tasks,
		hours:  hours,
		cursor: hours.StartSlot,
		offset: hours.StartSlot,
	}
	p.unsubscribe = alloc.Subscribe(func([]domain.TimelineEntry) {
		p.dirty = true
	})
	return p
}

func (p *planState) close() {
	if p.unsubscribe != nil {
		p.unsubscribe()
		p.unsubscribe = nil
	}
}

// entriesAt returns the entries covering slot, ordered by lane.
func (p *planState) entriesAt(slot int) []domain.TimelineEntry {
	layout := p.alloc.Layout()
	var out []domain.TimelineEntry
	for _, e := range p.alloc.Entries() {
		if e.Covers(slot) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return layout[out[i].ID].Lane < layout[out[j].ID].Lane
	})
	return out
}

// entryUnderCursor picks among overlapping entries with the n key.
func (p *planState) entryUnderCursor() (domain.TimelineEntry, bool) {
	at := p.entriesAt(p.cursor)
	if len(at) == 0 {
		return domain.TimelineEntry{}, false
	}
	return at[p.pick%len(at)], true
}

func (p *planState) selectedTask() (domain.Todo, bool) {
	if p.taskIdx < 0 || p.taskIdx >= len(p.tasks) {
		return domain.Todo{}, false
	}
	return p.tasks[p.taskIdx], true
}

func (p *planState) moveCursor(delta int) {
	p.cursor += delta
	if p.cursor < 0 {
		p.cursor = 0
	}
	if p.cursor >= domain.TotalSlots {
		p.cursor = domain.TotalSlots - 1
	}
	p.pick = 0
}

// scroll keeps the cursor inside a window of rows.
func (p *planState) scroll(rows int) {
	if rows <= 0 {
		return
	}
	if p.cursor < p.offset {
		p.offset = p.cursor
	}
	if p.cursor >= p.offset+rows {
		p.offset = p.cursor - rows + 1
	}
	if p.offset+rows > domain.TotalSlots {
		p.offset = domain.TotalSlots - rows
	}
	if p.offset < 0 {
		p.offset = 0
	}
}

func (m Model) loadPlan(date string) tea.Cmd {
	plans := m.services.PlanService
	filter := m.board.filter
	return func() tea.Msg {
		ctx, cancel := m.opContext()
		defer cancel()
		alloc, err := plans.Open(ctx, date)
		if err != nil {
			return planLoadedMsg{date: date, err: err}
		}
		tasks, err := plans.AllocatableTodos(ctx, filter)
		if err != nil {
			return planLoadedMsg{date: date, err: err}
		}
		return planLoadedMsg{date: date, alloc: alloc, tasks: tasks}
	}
}

func (m Model) savePlan(p *planState) tea.Cmd {
	plans := m.services.PlanService
	date, alloc := p.date, p.alloc
	return func() tea.Msg {
		ctx, cancel := m.opContext()
		defer cancel()
		return planSavedMsg{err: plans.Save(ctx, date, alloc)}
	}
}

func (m Model) handlePlanLoaded(msg planLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.err = msg.err
		return m, nil
	}
	m.err = nil
	if m.plan != nil {
		m.plan.close()
	}
	m.plan = newPlanState(msg.date, msg.alloc, msg.tasks, m.cfg.GetWorkHours())
	logging.Debugf("tui: opened plan %s with %d entries and %d tasks", msg.date, msg.alloc.Len(), len(msg.tasks))
	return m, nil
}

func (m Model) handlePlanKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.plan
	if p == nil {
		return m, nil
	}

	if p.resize.Active() {
		return m.handleResizeKeys(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
		delta := 1
		if key.Matches(msg, m.keys.Up) {
			delta = -1
		}
		if p.focus == paneTasks && !p.drag.Dragging() {
			p.taskIdx += delta
			if p.taskIdx < 0 {
				p.taskIdx = 0
			}
			if p.taskIdx >= len(p.tasks) {
				p.taskIdx = len(p.tasks) - 1
			}
		} else {
			p.moveCursor(delta)
		}

	case key.Matches(msg, m.keys.Left):
		p.focus = paneTasks
	case key.Matches(msg, m.keys.Right):
		p.focus = paneTimeline

	case key.Matches(msg, m.keys.Next):
		p.pick++

	case key.Matches(msg, m.keys.Grab):
		m.status = m.grabOrDropEntry()

	case key.Matches(msg, m.keys.Remove):
		if p.drag.Dragging() {
			m.status = p.drop(timeline.TaskPanelTarget())
			break
		}
		if e, ok := p.entryUnderCursor(); ok && p.focus == paneTimeline {
			p.drag.Start(timeline.EntrySource(e.ID))
			m.status = p.drop(timeline.TaskPanelTarget())
		}

	case key.Matches(msg, m.keys.Cancel):
		if p.drag.Dragging() {
			p.drag.Cancel()
			m.status = "Drag cancelled"
		}

	case key.Matches(msg, m.keys.Resize):
		e, ok := p.entryUnderCursor()
		if !ok || p.drag.Dragging() {
			return m, nil
		}
		p.cursor = e.EndSlot() - 1
		if p.resize.Begin(e.ID, float64(p.cursor)) {
			m.status = fmt.Sprintf("Resizing %q: move with j/k, enter to finish", e.Todo.Title)
		}

	case key.Matches(msg, m.keys.PrevDay), key.Matches(msg, m.keys.NextDay):
		days := 1
		if key.Matches(msg, m.keys.PrevDay) {
			days = -1
		}
		return m, m.loadPlan(shiftDate(p.date, days))

	case key.Matches(msg, m.keys.Filter):
		m.board.nextFilter()
		m.status = "Filter: " + filterLabel(m.board.board, m.board.filter)
		return m, m.loadPlan(p.date)

	case key.Matches(msg, m.keys.Reload):
		return m, m.loadPlan(p.date)
	}

	return m.flush()
}

func (m Model) handleResizeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.plan
	switch {
	case key.Matches(msg, m.keys.Up):
		p.moveCursor(-1)
		p.resize.Move(float64(p.cursor))
	case key.Matches(msg, m.keys.Down):
		p.moveCursor(1)
		p.resize.Move(float64(p.cursor))
	case key.Matches(msg, m.keys.Grab), key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.Resize):
		id := p.resize.EntryID()
		p.resize.End()
		if e, ok := p.alloc.Entry(id); ok {
			m.status = fmt.Sprintf("%q now %s", e.Todo.Title, e.TimeRange())
		}
		return m.flush()
	}
	return m, nil
}

// grabOrDropEntry starts a drag from the focused pane or drops the dragged
// item on the cursor slot.
func (m Model) grabOrDropEntry() string {
	p := m.plan
	if p.drag.Dragging() {
		if p.focus == paneTasks {
			return p.drop(timeline.TaskPanelTarget())
		}
		return p.drop(timeline.SlotTarget(p.cursor))
	}

	if p.focus == paneTasks {
		todo, ok := p.selectedTask()
		if !ok {
			return ""
		}
		p.drag.Start(timeline.TaskSource(todo))
		p.focus = paneTimeline
		return fmt.Sprintf("Placing %q: choose a slot and press space", todo.Title)
	}

	e, ok := p.entryUnderCursor()
	if !ok {
		return ""
	}
	p.drag.Start(timeline.EntrySource(e.ID))
	return fmt.Sprintf("Moving %q: choose a slot and press space", e.Todo.Title)
}

// flush saves the plan when the last key changed it.
func (m Model) flush() (tea.Model, tea.Cmd) {
	p := m.plan
	if p == nil || !p.dirty || p.resize.Active() {
		return m, nil
	}
	p.dirty = false
	return m, m.savePlan(p)
}

// drop releases the current drag over target and describes the result.
func (p *planState) drop(target *timeline.DropTarget) string {
	todo, _ := p.drag.Active()
	switch p.drag.Drop(target) {
	case timeline.DropPlaced:
		if e, ok := p.alloc.EntryForTask(todo.ID); ok {
			return fmt.Sprintf("Placed %q at %s", todo.Title, e.TimeRange())
		}
	case timeline.DropMoved:
		if e, ok := p.alloc.EntryForTask(todo.ID); ok {
			return fmt.Sprintf("Moved %q to %s", todo.Title, e.TimeRange())
		}
	case timeline.DropRemoved:
		return fmt.Sprintf("Removed %q from the timeline", todo.Title)
	}
	return ""
}

func shiftDate(date string, days int) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		t = timeNow()
	}
	return t.AddDate(0, 0, days).Format("2006-01-02")
}

var (
	paneStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	activePaneStyle = paneStyle.BorderForeground(lipgloss.Color("#14B8A6"))
	placedStyle     = lipgloss.NewStyle().Faint(true)
	hourStyle       = lipgloss.NewStyle().Bold(true)
	offHourStyle    = lipgloss.NewStyle().Faint(true)
	ghostStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")).Bold(true)
)

const taskPaneWidth = 28

func (m Model) planView() string {
	p := m.plan
	if p == nil {
		return titleStyle.Render("Work allocation") + "\n\nLoading…"
	}

	header := titleStyle.Render("Work allocation "+p.date) +
		statusStyle.Render(fmt.Sprintf("  %s layout  filter: %s", p.alloc.Mode(), filterLabel(m.board.board, m.board.filter)))

	rows := m.height - 8
	if rows < 8 {
		rows = 8
	}
	p.scroll(rows)

	tasks := m.renderTaskPane(rows)
	timelineWidth := m.width - taskPaneWidth - 12
	if timelineWidth < 20 {
		timelineWidth = 20
	}

	var preview *domain.Todo
	if todo, ok := p.drag.Active(); ok {
		preview = &todo
	}
	tl := renderTimeline(timelineRows{
		entries: p.alloc.Entries(),
		layout:  p.alloc.Layout(),
		from:    p.offset,
		to:      p.offset + rows,
		width:   timelineWidth,
		cursor:  p.cursor,
		preview: preview,
		hours:   p.hours,
	})

	tasksStyle, tlStyle := activePaneStyle, paneStyle
	if p.focus == paneTimeline {
		tasksStyle, tlStyle = paneStyle, activePaneStyle
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		tasksStyle.Width(taskPaneWidth).Render(tasks),
		tlStyle.Render(tl),
	)
	return header + "\n\n" + body
}

func (m Model) renderTaskPane(rows int) string {
	p := m.plan
	lines := []string{titleStyle.Render(fmt.Sprintf("Tasks (%d)", len(p.tasks)))}
	if len(p.tasks) == 0 {
		lines = append(lines, statusStyle.Render("(no open todos)"))
	}
	for i, t := range p.tasks {
		if len(lines) > rows {
			break
		}
		mark := "  "
		if p.alloc.IsPlaced(t.ID) {
			mark = "✓ "
		}
		line := mark + xansi.Truncate(t.Title, taskPaneWidth-4, "…")
		switch {
		case i == p.taskIdx && p.focus == paneTasks:
			line = cursorStyle.Render(line)
		case p.alloc.IsPlaced(t.ID):
			line = placedStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
