package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDragMachine_StartsIdle(t *testing.T) {
	m := NewDragMachine(newTestAllocator())

	assert.False(t, m.Dragging())
	_, ok := m.Active()
	assert.False(t, ok)
	assert.Equal(t, DropIgnored, m.Drop(SlotTarget(3)), "drop while idle")
}

func TestDragMachine_DropMatrix(t *testing.T) {
	tests := []struct {
		name   string
		source func(placed string) DragSource
		target *DropTarget
		want   DropAction
		check  func(t *testing.T, a *Allocator, placed string)
	}{
		{
			name:   "task onto slot places",
			source: func(string) DragSource { return TaskSource(todo(2)) },
			target: SlotTarget(12),
			want:   DropPlaced,
			check: func(t *testing.T, a *Allocator, _ string) {
				e, ok := a.EntryForTask(2)
				require.True(t, ok)
				assert.Equal(t, 12, e.StartSlot)
				assert.Equal(t, 1, e.DurationSlots)
			},
		},
		{
			name:   "task onto slot of already placed task replaces",
			source: func(string) DragSource { return TaskSource(todo(1)) },
			target: SlotTarget(30),
			want:   DropPlaced,
			check: func(t *testing.T, a *Allocator, placed string) {
				assert.Equal(t, 1, a.Len())
				_, ok := a.Entry(placed)
				assert.False(t, ok)
				e, _ := a.EntryForTask(1)
				assert.Equal(t, 30, e.StartSlot)
			},
		},
		{
			name:   "entry onto slot moves",
			source: EntrySource,
			target: SlotTarget(47),
			want:   DropMoved,
			check: func(t *testing.T, a *Allocator, placed string) {
				e, ok := a.Entry(placed)
				require.True(t, ok)
				assert.Equal(t, 46, e.StartSlot, "duration 2 clamps to 46")
			},
		},
		{
			name:   "entry onto task panel removes",
			source: EntrySource,
			target: TaskPanelTarget(),
			want:   DropRemoved,
			check: func(t *testing.T, a *Allocator, placed string) {
				assert.Equal(t, 0, a.Len())
			},
		},
		{
			name:   "task onto task panel ignored",
			source: func(string) DragSource { return TaskSource(todo(2)) },
			target: TaskPanelTarget(),
			want:   DropIgnored,
			check: func(t *testing.T, a *Allocator, _ string) {
				assert.Equal(t, 1, a.Len())
				assert.False(t, a.IsPlaced(2))
			},
		},
		{
			name:   "task released outside ignored",
			source: func(string) DragSource { return TaskSource(todo(2)) },
			target: nil,
			want:   DropIgnored,
			check: func(t *testing.T, a *Allocator, _ string) {
				assert.Equal(t, 1, a.Len())
			},
		},
		{
			name:   "entry released outside ignored",
			source: EntrySource,
			target: nil,
			want:   DropIgnored,
			check: func(t *testing.T, a *Allocator, placed string) {
				e, _ := a.Entry(placed)
				assert.Equal(t, 10, e.StartSlot)
			},
		},
		{
			name:   "stale entry onto slot ignored",
			source: func(string) DragSource { return EntrySource("gone") },
			target: SlotTarget(5),
			want:   DropIgnored,
			check: func(t *testing.T, a *Allocator, _ string) {
				assert.Equal(t, 1, a.Len())
			},
		},
		{
			name:   "unknown target kind ignored",
			source: EntrySource,
			target: &DropTarget{},
			want:   DropIgnored,
			check: func(t *testing.T, a *Allocator, _ string) {
				assert.Equal(t, 1, a.Len())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAllocator()
			placed := a.Place(todo(1), 10)
			a.Resize(placed.ID, 1)
			m := NewDragMachine(a)

			m.Start(tt.source(placed.ID))
			require.True(t, m.Dragging())

			got := m.Drop(tt.target)

			assert.Equal(t, tt.want, got)
			assert.False(t, m.Dragging(), "every drop returns to idle")
			_, ok := m.Active()
			assert.False(t, ok)
			tt.check(t, a, placed.ID)
			assertInvariants(t, a)
		})
	}
}

func TestDragMachine_ActivePreview(t *testing.T) {
	a := newTestAllocator()
	placed := a.Place(todo(4), 0)
	m := NewDragMachine(a)

	m.Start(TaskSource(todo(9)))
	active, ok := m.Active()
	require.True(t, ok)
	assert.Equal(t, int64(9), active.ID)

	m.Start(EntrySource(placed.ID))
	active, ok = m.Active()
	require.True(t, ok)
	assert.Equal(t, int64(4), active.ID, "restarting replaces the payload")

	src, ok := m.Source()
	require.True(t, ok)
	assert.Equal(t, SourceEntry, src.Kind)

	m.Start(EntrySource("gone"))
	assert.True(t, m.Dragging())
	_, ok = m.Active()
	assert.False(t, ok)
}

func TestDragMachine_Cancel(t *testing.T) {
	a := newTestAllocator()
	m := NewDragMachine(a)

	m.Start(TaskSource(todo(1)))
	m.Cancel()

	assert.False(t, m.Dragging())
	assert.Equal(t, DropIgnored, m.Drop(SlotTarget(1)))
	assert.Equal(t, 0, a.Len())
}

func TestDropAction_String(t *testing.T) {
	assert.Equal(t, "placed", DropPlaced.String())
	assert.Equal(t, "moved", DropMoved.String())
	assert.Equal(t, "removed", DropRemoved.String())
	assert.Equal(t, "ignored", DropIgnored.String())
}
