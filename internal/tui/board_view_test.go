package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kanban-todo/internal/domain"
)

func loadedBoardModel(t *testing.T, fb *fakeBoardService) Model {
	t.Helper()
	m := newTestModel(fb, &fakePlanService{})
	next, _ := m.Update(boardLoadedMsg{board: fb.board})
	return next.(Model)
}

func TestBoard_Init_LoadsBoard(t *testing.T) {
	fb := &fakeBoardService{board: boardOf(todo(1, "a", domain.StatusTodo))}
	m := newTestModel(fb, &fakePlanService{})

	msg := m.Init()()
	loaded, ok := msg.(boardLoadedMsg)
	require.True(t, ok)
	assert.NoError(t, loaded.err)
	assert.Same(t, fb.board, loaded.board)
}

func TestBoard_Navigation(t *testing.T) {
	fb := &fakeBoardService{board: boardOf(
		todo(1, "a", domain.StatusTodo),
		todo(2, "b", domain.StatusTodo),
		todo(3, "c", domain.StatusDoing),
	)}
	m := loadedBoardModel(t, fb)

	m, _ = press(t, m, "j", "j", "j")
	sel, ok := m.board.selected()
	require.True(t, ok)
	assert.Equal(t, int64(2), sel.ID, "cursor stops at the last card")

	m, _ = press(t, m, "l")
	sel, _ = m.board.selected()
	assert.Equal(t, int64(3), sel.ID, "row is clamped to the shorter column")

	m, _ = press(t, m, "l", "l")
	assert.Equal(t, 2, m.board.col)
	_, ok = m.board.selected()
	assert.False(t, ok, "done column is empty")
}

func TestBoard_PickUpAndDropReorders(t *testing.T) {
	fb := &fakeBoardService{board: boardOf(
		todo(1, "a", domain.StatusTodo),
		todo(2, "b", domain.StatusTodo),
		todo(3, "c", domain.StatusTodo),
	)}
	m := loadedBoardModel(t, fb)

	m, cmd := press(t, m, " ")
	assert.Nil(t, cmd)
	require.NotNil(t, m.board.carrying)
	assert.Equal(t, int64(1), m.board.carrying.ID)

	m, cmd = press(t, m, "j", "j", " ")
	require.NotNil(t, cmd)
	assert.Nil(t, m.board.carrying)

	msg := cmd()
	changed, ok := msg.(todoChangedMsg)
	require.True(t, ok)
	assert.NoError(t, changed.err)
	assert.Equal(t, [][2]int64{{1, 3}}, fb.reorders)

	_, cmd = m.Update(changed)
	require.NotNil(t, cmd, "a change reloads the board")
	assert.IsType(t, boardLoadedMsg{}, cmd())
}

func TestBoard_DropOnItselfIsNoop(t *testing.T) {
	fb := &fakeBoardService{board: boardOf(todo(1, "a", domain.StatusTodo), todo(2, "b", domain.StatusTodo))}
	m := loadedBoardModel(t, fb)

	m, cmd := press(t, m, " ", " ")
	assert.Nil(t, cmd)
	assert.Nil(t, m.board.carrying)
	assert.Empty(t, fb.reorders)
}

func TestBoard_CarryingStaysInColumn(t *testing.T) {
	fb := &fakeBoardService{board: boardOf(todo(1, "a", domain.StatusTodo), todo(2, "b", domain.StatusDoing))}
	m := loadedBoardModel(t, fb)

	m, _ = press(t, m, " ", "l")
	assert.Equal(t, 0, m.board.col)
	assert.Contains(t, m.status, "within their column")

	m, _ = press(t, m, "esc")
	assert.Nil(t, m.board.carrying)
	m, _ = press(t, m, "l")
	assert.Equal(t, 1, m.board.col)
}

func TestBoard_ChangeStatus(t *testing.T) {
	fb := &fakeBoardService{board: boardOf(todo(1, "a", domain.StatusTodo))}
	m := loadedBoardModel(t, fb)

	_, cmd := press(t, m, "<")
	assert.Nil(t, cmd, "no column before the first")

	_, cmd = press(t, m, ">")
	require.NotNil(t, cmd)
	msg := cmd().(todoChangedMsg)
	assert.NoError(t, msg.err)
	assert.Equal(t, domain.StatusDoing, fb.statuses[1])
	assert.Contains(t, msg.status, "Doing")
}

func TestBoardState_SetBoardFollowsFocusedTodo(t *testing.T) {
	var b boardState
	b.setBoard(boardOf(todo(1, "a", domain.StatusTodo), todo(2, "b", domain.StatusTodo)))
	b.row = 1

	b.setBoard(boardOf(todo(1, "a", domain.StatusTodo), todo(2, "b", domain.StatusDone)))
	assert.Equal(t, 2, b.col)
	assert.Equal(t, 0, b.row)
}

func TestBoardState_NextFilterCycles(t *testing.T) {
	var b boardState
	b.setBoard(boardOf())

	b.nextFilter()
	require.NotNil(t, b.filter.AssigneeID)
	assert.Equal(t, int64(1), *b.filter.AssigneeID)
	assert.Equal(t, "Alice", filterLabel(b.board, b.filter))

	b.nextFilter()
	assert.Equal(t, int64(2), *b.filter.AssigneeID)

	b.nextFilter()
	assert.Nil(t, b.filter.AssigneeID)
	assert.Equal(t, "All", filterLabel(b.board, b.filter))
}

func TestRenderColumns(t *testing.T) {
	alice := domain.Assignee{ID: 1, Name: "Alice", Color: "#EF4444"}
	withAssignee := todo(2, "Write report", domain.StatusDoing)
	withAssignee.Assignee = &alice

	var b boardState
	b.setBoard(boardOf(todo(1, "Plan sprint", domain.StatusTodo), withAssignee))

	out := renderColumns(b, 120)
	for _, want := range []string{"Todo (1)", "Doing (1)", "Done (0)", "Plan sprint", "Write report", "@Alice", "(empty)"} {
		assert.True(t, strings.Contains(out, want), "missing %q in:\n%s", want, out)
	}
}

func TestBoard_ViewAndQuit(t *testing.T) {
	fb := &fakeBoardService{board: boardOf(todo(1, "a", domain.StatusTodo))}
	m := newTestModel(fb, &fakePlanService{})
	assert.Contains(t, m.View(), "Loading")

	m = loadedBoardModel(t, fb)
	assert.Contains(t, m.View(), "Kanban")

	_, cmd := press(t, m, "q")
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
