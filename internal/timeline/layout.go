package timeline

import (
	"fmt"
	"strings"

	"kanban-todo/internal/domain"
)

// MaxLanes is the number of lanes searched before an entry falls back to lane 0.
const MaxLanes = 10

// LayoutMode selects how the lane count behind an entry's width is derived.
type LayoutMode int

const (
	// LayoutLocal sizes each entry by the largest overlap across its own span.
	// Entries in the same overlap group may get different widths.
	LayoutLocal LayoutMode = iota
	// LayoutCluster sizes every entry of a connected overlap group by the
	// group's largest overlap, so widths within a group agree.
	LayoutCluster
)

func (m LayoutMode) String() string {
	switch m {
	case LayoutCluster:
		return "cluster"
	default:
		return "local"
	}
}

// ParseLayoutMode parses "local" or "cluster".
func ParseLayoutMode(s string) (LayoutMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "local":
		return LayoutLocal, nil
	case "cluster":
		return LayoutCluster, nil
	}
	return LayoutLocal, fmt.Errorf("unknown layout mode %q (want local or cluster)", s)
}

// Placement is the horizontal position of an entry within the timeline column.
type Placement struct {
	Lane              int
	TotalLanes        int
	LeftOffsetPercent float64
	WidthPercent      float64
}

// ComputeLayout assigns lanes to entries. Lanes are handed out first-fit in
// slice order over each entry's whole span; an entry that finds all
// MaxLanes lanes taken shares lane 0.
func ComputeLayout(entries []domain.TimelineEntry, mode LayoutMode) map[string]Placement {
	layout := make(map[string]Placement, len(entries))
	if len(entries) == 0 {
		return layout
	}

	var occupancy [domain.TotalSlots]int
	for _, e := range entries {
		forEachSlot(e, func(s int) { occupancy[s]++ })
	}

	maxOverlap := make([]int, len(entries))
	for i, e := range entries {
		m := 1
		forEachSlot(e, func(s int) {
			if occupancy[s] > m {
				m = occupancy[s]
			}
		})
		maxOverlap[i] = m
	}

	lanes := assignLanes(entries)

	totals := maxOverlap
	if mode == LayoutCluster {
		totals = clusterTotals(entries, maxOverlap, lanes)
	}

	for i, e := range entries {
		width := 100 / float64(totals[i])
		layout[e.ID] = Placement{
			Lane:              lanes[i],
			TotalLanes:        totals[i],
			LeftOffsetPercent: float64(lanes[i]) * width,
			WidthPercent:      width,
		}
	}
	return layout
}

func assignLanes(entries []domain.TimelineEntry) []int {
	var used [domain.TotalSlots][MaxLanes]bool
	lanes := make([]int, len(entries))

	for i, e := range entries {
		lane := 0
		for c := 0; c < MaxLanes; c++ {
			free := true
			forEachSlot(e, func(s int) {
				if used[s][c] {
					free = false
				}
			})
			if free {
				lane = c
				break
			}
		}
		forEachSlot(e, func(s int) { used[s][lane] = true })
		lanes[i] = lane
	}
	return lanes
}

// clusterTotals gives every entry of a connected overlap group the group's
// largest overlap. The total never drops below lane+1, so no entry of a
// group is pushed past the right edge.
func clusterTotals(entries []domain.TimelineEntry, maxOverlap, lanes []int) []int {
	parent := make([]int, len(entries))
	for i := range parent {
		parent[i] = i
	}
	find := func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}

	for i := range entries {
		for j := i + 1; j < len(entries); j++ {
			if entries[i].Overlaps(entries[j]) {
				parent[find(i)] = find(j)
			}
		}
	}

	groupMax := make(map[int]int)
	for i := range entries {
		need := maxOverlap[i]
		if lanes[i]+1 > need {
			need = lanes[i] + 1
		}
		root := find(i)
		if need > groupMax[root] {
			groupMax[root] = need
		}
	}

	totals := make([]int, len(entries))
	for i := range entries {
		totals[i] = groupMax[find(i)]
	}
	return totals
}

func forEachSlot(e domain.TimelineEntry, fn func(slot int)) {
	start := clamp(e.StartSlot, 0, domain.TotalSlots)
	end := clamp(e.EndSlot(), 0, domain.TotalSlots)
	for s := start; s < end; s++ {
		fn(s)
	}
}
