package tui

import (
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"kanban-todo/internal/domain"
	"kanban-todo/internal/timeline"
)

// timelineRows describes the visible part of the day column.
type timelineRows struct {
	entries []domain.TimelineEntry
	layout  map[string]timeline.Placement
	from    int
	to      int
	width   int
	cursor  int
	preview *domain.Todo
	hours   domain.WorkHours
}

// segment is the horizontal extent of one entry on one row.
type segment struct {
	left  int
	width int
	text  string
	color string
}

// renderTimeline draws one line per slot: a time label, a cursor marker and
// the entries covering that slot at their lane offsets. Percent widths from
// the layout are mapped onto the available terminal columns.
func renderTimeline(r timelineRows) string {
	if r.from < 0 {
		r.from = 0
	}
	if r.to > domain.TotalSlots {
		r.to = domain.TotalSlots
	}

	lines := make([]string, 0, r.to-r.from)
	for slot := r.from; slot < r.to; slot++ {
		label := domain.SlotToTime(slot)
		if r.hours.Contains(slot) {
			label = hourStyle.Render(label)
		} else {
			label = offHourStyle.Render(label)
		}

		marker := "  "
		if slot == r.cursor {
			marker = "▶ "
		}

		row := renderRow(rowSegments(r.entries, r.layout, slot, r.width), r.width)
		if slot == r.cursor && r.preview != nil {
			row = ghostStyle.Render(xansi.Truncate("⇢ "+r.preview.Title, r.width, "…"))
		}
		lines = append(lines, label+" "+marker+row)
	}
	return strings.Join(lines, "\n")
}

// rowSegments positions the entries covering slot. The title is written on
// an entry's first slot and its time range on the second.
func rowSegments(entries []domain.TimelineEntry, layout map[string]timeline.Placement, slot, width int) []segment {
	var segs []segment
	for _, e := range entries {
		if !e.Covers(slot) {
			continue
		}
		p, ok := layout[e.ID]
		if !ok {
			p = timeline.Placement{TotalLanes: 1, WidthPercent: 100}
		}
		left := int(math.Round(p.LeftOffsetPercent * float64(width) / 100))
		w := int(math.Round(p.WidthPercent * float64(width) / 100))
		if w < 1 {
			w = 1
		}

		var text string
		switch slot {
		case e.StartSlot:
			text = e.Todo.Title
		case e.StartSlot + 1:
			text = e.TimeRange()
		}
		segs = append(segs, segment{left: left, width: w, text: text, color: e.Todo.Color()})
	}
	sort.SliceStable(segs, func(i, j int) bool { return segs[i].left < segs[j].left })
	return segs
}

// renderRow lays segments left to right, clipping any that overlap an
// earlier one.
func renderRow(segs []segment, width int) string {
	var b strings.Builder
	x := 0
	for _, s := range segs {
		left, w := s.left, s.width
		if left < x {
			w -= x - left
			left = x
		}
		if left+w > width {
			w = width - left
		}
		if w <= 0 {
			continue
		}
		b.WriteString(strings.Repeat(" ", left-x))
		style := lipgloss.NewStyle().
			Background(lipgloss.Color(s.color)).
			Foreground(lipgloss.Color("#FFFFFF")).
			Width(w).
			MaxWidth(w)
		b.WriteString(style.Render(xansi.Truncate(s.text, w, "…")))
		x = left + w
	}
	if x < width {
		b.WriteString(strings.Repeat(" ", width-x))
	}
	return b.String()
}
