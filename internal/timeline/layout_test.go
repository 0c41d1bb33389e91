package timeline

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kanban-todo/internal/domain"
)

func entry(id string, start, duration int) domain.TimelineEntry {
	return domain.TimelineEntry{ID: id, TodoID: int64(len(id) + start), StartSlot: start, DurationSlots: duration}
}

func TestParseLayoutMode(t *testing.T) {
	tests := []struct {
		in      string
		want    LayoutMode
		wantErr bool
	}{
		{"", LayoutLocal, false},
		{"local", LayoutLocal, false},
		{" Cluster ", LayoutCluster, false},
		{"grid", LayoutLocal, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLayoutMode(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, mustParse(t, got.String()))
		})
	}
}

func mustParse(t *testing.T, s string) LayoutMode {
	t.Helper()
	m, err := ParseLayoutMode(s)
	require.NoError(t, err)
	return m
}

func TestComputeLayout_Empty(t *testing.T) {
	assert.Empty(t, ComputeLayout(nil, LayoutLocal))
}

func TestComputeLayout_DisjointEntriesUseFullWidth(t *testing.T) {
	entries := []domain.TimelineEntry{entry("a", 0, 2), entry("b", 2, 3), entry("c", 30, 1)}

	for _, mode := range []LayoutMode{LayoutLocal, LayoutCluster} {
		layout := ComputeLayout(entries, mode)
		for _, e := range entries {
			p := layout[e.ID]
			assert.Equal(t, 100.0, p.WidthPercent, "%s %s", mode, e.ID)
			assert.Equal(t, 0.0, p.LeftOffsetPercent, "%s %s", mode, e.ID)
			assert.Equal(t, 0, p.Lane)
		}
	}
}

func TestComputeLayout_FullyOverlappingPair(t *testing.T) {
	layout := ComputeLayout([]domain.TimelineEntry{entry("a", 10, 4), entry("b", 10, 4)}, LayoutLocal)

	assert.Equal(t, Placement{Lane: 0, TotalLanes: 2, LeftOffsetPercent: 0, WidthPercent: 50}, layout["a"])
	assert.Equal(t, Placement{Lane: 1, TotalLanes: 2, LeftOffsetPercent: 50, WidthPercent: 50}, layout["b"])
}

func TestComputeLayout_LocalWidthsDifferWithinGroup(t *testing.T) {
	// a overlaps b and c at different slots; b and c overlap each other once.
	entries := []domain.TimelineEntry{
		entry("a", 0, 4),
		entry("b", 1, 2),
		entry("c", 2, 3),
		entry("d", 4, 1),
	}
	layout := ComputeLayout(entries, LayoutLocal)

	assert.Equal(t, 3, layout["a"].TotalLanes)
	assert.Equal(t, 3, layout["b"].TotalLanes)
	assert.Equal(t, 3, layout["c"].TotalLanes)
	assert.Equal(t, 2, layout["d"].TotalLanes, "d only meets c")

	assert.Equal(t, 0, layout["a"].Lane)
	assert.Equal(t, 1, layout["b"].Lane)
	assert.Equal(t, 2, layout["c"].Lane)
	assert.Equal(t, 0, layout["d"].Lane)
	assert.InDelta(t, 66.666, layout["c"].LeftOffsetPercent, 0.01)
}

func TestComputeLayout_ClusterSharesWidth(t *testing.T) {
	entries := []domain.TimelineEntry{
		entry("a", 0, 4),
		entry("b", 1, 2),
		entry("c", 2, 3),
		entry("d", 4, 1),
		entry("solo", 20, 2),
	}
	layout := ComputeLayout(entries, LayoutCluster)

	for _, id := range []string{"a", "b", "c", "d"} {
		assert.Equal(t, 3, layout[id].TotalLanes, id)
		assert.InDelta(t, 33.333, layout[id].WidthPercent, 0.01, id)
	}
	assert.Equal(t, 1, layout["solo"].TotalLanes)
}

func TestComputeLayout_FirstFitCanExceedLocalOverlap(t *testing.T) {
	// Insertion order pushes x into lane 2 although at most two entries
	// share any of its slots.
	entries := []domain.TimelineEntry{
		entry("i", 2, 1),
		entry("h", 1, 2),
		entry("f", 0, 1),
		entry("x", 0, 2),
	}

	local := ComputeLayout(entries, LayoutLocal)
	assert.Equal(t, 2, local["x"].Lane)
	assert.Equal(t, 2, local["x"].TotalLanes)
	assert.Equal(t, 100.0, local["x"].LeftOffsetPercent)

	cluster := ComputeLayout(entries, LayoutCluster)
	assert.Equal(t, 2, cluster["x"].Lane)
	assert.Equal(t, 3, cluster["x"].TotalLanes)
	assert.InDelta(t, 66.666, cluster["x"].LeftOffsetPercent, 0.01)
	for _, p := range cluster {
		assert.LessOrEqual(t, p.LeftOffsetPercent+p.WidthPercent, 100.0001)
	}
}

func TestComputeLayout_EleventhOverlapFallsBackToLaneZero(t *testing.T) {
	var entries []domain.TimelineEntry
	for i := 0; i < MaxLanes+1; i++ {
		entries = append(entries, entry(fmt.Sprintf("e%02d", i), 18, 2))
	}

	layout := ComputeLayout(entries, LayoutLocal)

	for i := 0; i < MaxLanes; i++ {
		assert.Equal(t, i, layout[entries[i].ID].Lane)
	}
	last := layout[entries[MaxLanes].ID]
	assert.Equal(t, 0, last.Lane)
	assert.Equal(t, 11, last.TotalLanes)
	assert.Equal(t, 0.0, last.LeftOffsetPercent)
	assert.InDelta(t, 100.0/11, last.WidthPercent, 1e-9)
}

func TestAllocatorLayout_UsesMode(t *testing.T) {
	a := newTestAllocator(WithLayoutMode(LayoutCluster))
	e1 := a.Place(todo(1), 0)
	e2 := a.Place(todo(2), 1)
	e3 := a.Place(todo(3), 3)
	a.Resize(e1.ID, 1)
	a.Resize(e2.ID, 2)
	a.Resize(e3.ID, 1)

	layout := a.Layout()
	require.Len(t, layout, 3)
	assert.Equal(t, 2, layout[e3.ID].TotalLanes)
	assert.Equal(t, 50.0, layout[e3.ID].WidthPercent)
}
