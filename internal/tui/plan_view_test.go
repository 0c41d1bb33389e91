package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kanban-todo/internal/domain"
)

const testDate = "2026-03-02"

func withFixedNow(t *testing.T) {
	t.Helper()
	orig := timeNow
	timeNow = func() time.Time { return time.Date(2026, 3, 2, 10, 0, 0, 0, time.Local) }
	t.Cleanup(func() { timeNow = orig })
}

// openPlan switches to the plan view and delivers the loaded plan.
func openPlan(t *testing.T, plans *fakePlanService) Model {
	t.Helper()
	withFixedNow(t)
	m := newTestModel(&fakeBoardService{board: boardOf()}, plans)

	m, cmd := press(t, m, "tab")
	require.NotNil(t, cmd)
	msg := cmd()
	loaded, ok := msg.(planLoadedMsg)
	require.True(t, ok)
	require.NoError(t, loaded.err)
	assert.Equal(t, testDate, loaded.date)

	next, _ := m.Update(msg)
	m = next.(Model)
	require.NotNil(t, m.plan)
	return m
}

// runSave executes a save command and feeds the result back.
func runSave(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	require.NotNil(t, cmd, "expected a save")
	msg := cmd()
	saved, ok := msg.(planSavedMsg)
	require.True(t, ok)
	require.NoError(t, saved.err)
	next, _ := m.Update(saved)
	return next.(Model)
}

func twoTasks() *fakePlanService {
	return &fakePlanService{tasks: []domain.Todo{
		todo(1, "Write report", domain.StatusTodo),
		todo(2, "Review PR", domain.StatusDoing),
	}}
}

func TestPlan_OpensAtWorkStart(t *testing.T) {
	m := openPlan(t, twoTasks())
	assert.Equal(t, viewPlan, m.view)
	assert.Equal(t, domain.DefaultWorkStartSlot, m.plan.cursor)
	assert.Equal(t, paneTasks, m.plan.focus)
	assert.Len(t, m.plan.tasks, 2)
}

func TestPlan_PlaceFromTaskPane(t *testing.T) {
	plans := twoTasks()
	m := openPlan(t, plans)

	m, cmd := press(t, m, "j", " ")
	assert.Nil(t, cmd)
	assert.True(t, m.plan.drag.Dragging())
	assert.Equal(t, paneTimeline, m.plan.focus)
	assert.Contains(t, m.status, "Review PR")

	m, cmd = press(t, m, "j", " ")
	m = runSave(t, m, cmd)

	assert.False(t, m.plan.drag.Dragging())
	assert.Contains(t, m.status, "Placed")
	require.Len(t, plans.saved[testDate], 1)
	saved := plans.saved[testDate][0]
	assert.Equal(t, int64(2), saved.TodoID)
	assert.Equal(t, domain.DefaultWorkStartSlot+1, saved.StartSlot)
	assert.Equal(t, 1, saved.DurationSlots)
	assert.Equal(t, 1, plans.saves)
}

func TestPlan_MoveEntry(t *testing.T) {
	plans := twoTasks()
	m := openPlan(t, plans)

	m, cmd := press(t, m, " ", " ")
	m = runSave(t, m, cmd)

	m, cmd = press(t, m, " ")
	assert.Nil(t, cmd)
	assert.Contains(t, m.status, "Moving")

	m, cmd = press(t, m, "j", "j", " ")
	m = runSave(t, m, cmd)

	e, ok := m.plan.alloc.EntryForTask(1)
	require.True(t, ok)
	assert.Equal(t, domain.DefaultWorkStartSlot+2, e.StartSlot)
	assert.Contains(t, m.status, "Moved")
	assert.Equal(t, 2, plans.saves)
}

func TestPlan_RemoveEntry(t *testing.T) {
	plans := twoTasks()
	m := openPlan(t, plans)

	m, cmd := press(t, m, " ", " ")
	m = runSave(t, m, cmd)
	require.True(t, m.plan.alloc.IsPlaced(1))

	m, cmd = press(t, m, "d")
	m = runSave(t, m, cmd)

	assert.False(t, m.plan.alloc.IsPlaced(1))
	assert.Contains(t, m.status, "Removed")
	assert.Empty(t, plans.saved[testDate])
}

func TestPlan_RemoveIgnoredInTaskPane(t *testing.T) {
	m := openPlan(t, twoTasks())
	m, cmd := press(t, m, " ", " ")
	m = runSave(t, m, cmd)

	m, _ = press(t, m, "h", "d")
	assert.True(t, m.plan.alloc.IsPlaced(1))
}

func TestPlan_ResizeSavesOnceFinished(t *testing.T) {
	plans := twoTasks()
	m := openPlan(t, plans)

	m, cmd := press(t, m, " ", " ")
	m = runSave(t, m, cmd)

	m, cmd = press(t, m, "r")
	assert.Nil(t, cmd)
	require.True(t, m.plan.resize.Active())

	m, cmd = press(t, m, "j", "j")
	assert.Nil(t, cmd, "no save while resizing")
	e, _ := m.plan.alloc.EntryForTask(1)
	assert.Equal(t, 3, e.DurationSlots)

	m, cmd = press(t, m, "k")
	assert.Nil(t, cmd)
	e, _ = m.plan.alloc.EntryForTask(1)
	assert.Equal(t, 2, e.DurationSlots)

	m, cmd = press(t, m, "enter")
	m = runSave(t, m, cmd)
	assert.False(t, m.plan.resize.Active())
	assert.Equal(t, 2, plans.saves)
	assert.Equal(t, 2, plans.saved[testDate][0].DurationSlots)
	assert.Contains(t, m.status, "09:00 - 10:00")
}

func TestPlan_ResizeNeverBelowOneSlot(t *testing.T) {
	m := openPlan(t, twoTasks())
	m, cmd := press(t, m, " ", " ")
	m = runSave(t, m, cmd)

	m, _ = press(t, m, "r", "k", "k", "k")
	e, _ := m.plan.alloc.EntryForTask(1)
	assert.Equal(t, 1, e.DurationSlots)

	_, cmd = press(t, m, "esc")
	assert.Nil(t, cmd, "unchanged duration does not save")
}

func TestPlan_CancelDrag(t *testing.T) {
	plans := twoTasks()
	m := openPlan(t, plans)

	m, _ = press(t, m, " ")
	require.True(t, m.plan.drag.Dragging())

	m, cmd := press(t, m, "esc")
	assert.Nil(t, cmd)
	assert.False(t, m.plan.drag.Dragging())
	assert.Equal(t, "Drag cancelled", m.status)
	assert.Equal(t, 0, m.plan.alloc.Len())
	assert.Zero(t, plans.saves)
}

func TestPlan_PickCyclesOverlappingEntries(t *testing.T) {
	m := openPlan(t, twoTasks())

	m, cmd := press(t, m, " ", " ")
	m = runSave(t, m, cmd)
	m, cmd = press(t, m, "h", "j", " ", " ")
	m = runSave(t, m, cmd)

	first, ok := m.plan.entryUnderCursor()
	require.True(t, ok)
	m, _ = press(t, m, "n")
	second, ok := m.plan.entryUnderCursor()
	require.True(t, ok)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestPlan_ChangeDay(t *testing.T) {
	m := openPlan(t, twoTasks())

	_, cmd := press(t, m, "]")
	require.NotNil(t, cmd)
	assert.Equal(t, "2026-03-03", cmd().(planLoadedMsg).date)

	_, cmd = press(t, m, "[")
	require.NotNil(t, cmd)
	assert.Equal(t, "2026-03-01", cmd().(planLoadedMsg).date)
}

func TestPlan_SavedPlanIsReloaded(t *testing.T) {
	plans := twoTasks()
	m := openPlan(t, plans)
	m, cmd := press(t, m, " ", " ")
	runSave(t, m, cmd)

	m = openPlan(t, plans)
	assert.True(t, m.plan.alloc.IsPlaced(1))
}

func TestPlan_TabReturnsToBoard(t *testing.T) {
	m := openPlan(t, twoTasks())
	m, cmd := press(t, m, "tab")
	assert.Equal(t, viewBoard, m.view)
	require.NotNil(t, cmd)
	assert.IsType(t, boardLoadedMsg{}, cmd())
}

func TestPlan_View(t *testing.T) {
	m := openPlan(t, twoTasks())
	m, cmd := press(t, m, " ", " ")
	m = runSave(t, m, cmd)

	out := m.View()
	assert.Contains(t, out, "Work allocation "+testDate)
	assert.Contains(t, out, "local layout")
	assert.Contains(t, out, "Tasks (2)")
	assert.Contains(t, out, "✓")
	assert.Contains(t, out, "09:00")
}

func TestShiftDate(t *testing.T) {
	withFixedNow(t)
	assert.Equal(t, "2024-02-29", shiftDate("2024-02-28", 1))
	assert.Equal(t, "2025-12-31", shiftDate("2026-01-01", -1))
	assert.Equal(t, "2026-03-03", shiftDate("garbage", 1))
}
