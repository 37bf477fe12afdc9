package heatmap

import "fmt"

// LayoutMode selects how month label offsets are projected for the header strip.
type LayoutMode int

const (
	// LayoutWide positions labels proportionally, as a percentage of the
	// full grid width.
	LayoutWide LayoutMode = iota
	// LayoutNarrow positions labels at a fixed pixel width per week column.
	LayoutNarrow
)

// narrowWeekWidth is the fixed column width (px) used on narrow viewports.
const narrowWeekWidth = 14

// PlacedLabel is a month label with its computed horizontal offset.
type PlacedLabel struct {
	Name      string `json:"name"`
	WeekIndex int    `json:"weekIndex"`
	Left      string `json:"left"`
}

// PlaceMonthLabels projects the grid's month labels into CSS offsets for the
// given layout mode. The projection is recomputed whenever the viewport width
// class changes; the underlying week indices never do.
func PlaceMonthLabels(g *Grid, mode LayoutMode) []PlacedLabel {
	totalWeeks := len(g.Weeks)
	placed := make([]PlacedLabel, 0, len(g.MonthLabels))
	for _, label := range g.MonthLabels {
		var left string
		switch mode {
		case LayoutNarrow:
			left = fmt.Sprintf("%dpx", label.WeekIndex*narrowWeekWidth)
		default:
			left = fmt.Sprintf("%.4f%%", float64(label.WeekIndex)/float64(totalWeeks)*100)
		}
		placed = append(placed, PlacedLabel{
			Name:      label.Name,
			WeekIndex: label.WeekIndex,
			Left:      left,
		})
	}
	return placed
}
