// grid.go
// Builds a GitHub-like contribution calendar grid from daily counts in Go.
package heatmap

import (
	"time"
)

const dateKey = "2006-01-02"

const (
	// windowWeeks is the number of trailing weeks shown in the grid.
	windowWeeks = 52
	// windowDays is the number of real days in the window, including today.
	windowDays = windowWeeks*7 + 1
)

// padPrefix marks the keys of padding cells so they are never mistaken
// for real days.
const padPrefix = "pad-"

// Cell is a single day slot in the calendar grid.
type Cell struct {
	Date    time.Time `json:"date"`
	Key     string    `json:"key"`
	Value   int       `json:"value"`
	Padding bool      `json:"padding,omitempty"`
}

// Week is a Sunday-first column of exactly 7 cells.
type Week []Cell

// MonthLabel marks the earliest week in which a calendar month appears.
type MonthLabel struct {
	Name      string `json:"name"`
	WeekIndex int    `json:"weekIndex"`
}

// Grid is the fully derived calendar grid for one trailing-year window.
type Grid struct {
	Weeks       []Week       `json:"weeks"`
	MaxVal      int          `json:"maxVal"`
	Total       int          `json:"totalContributions"`
	MonthLabels []MonthLabel `json:"monthLabels"`
}

var months = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// BuildGrid derives the calendar grid for the window [now-364d, now].
// counts maps date keys (YYYY-MM-DD) to daily counts; missing keys mean zero.
// The current time is an explicit parameter so the function stays pure.
func BuildGrid(counts map[string]int, now time.Time) *Grid {
	today := truncateToMidnight(now)
	todayKey := today.Format(dateKey)
	start := today.AddDate(0, 0, -(windowDays - 1))

	cells := make([]Cell, 0, windowDays+13)

	// align the first column to Sunday with leading padding,
	// dates computed backward from the first real day
	for i := int(start.Weekday()); i > 0; i-- {
		d := start.AddDate(0, 0, -i)
		cells = append(cells, Cell{Date: d, Key: padPrefix + d.Format(dateKey), Padding: true})
	}

	maxVal := 0
	total := 0
	for d := start; !d.After(today); d = d.AddDate(0, 0, 1) {
		key := d.Format(dateKey)
		value, exists := counts[key]
		// 当日のエントリが全く存在しない場合のみ1を仮置きする。
		// 明示的に0が記録されている場合や過去の0の日には適用しない。
		if !exists && key == todayKey {
			value = 1
		}
		if value > maxVal {
			maxVal = value
		}
		total += value
		cells = append(cells, Cell{Date: d, Key: key, Value: value})
	}

	// complete the final week with trailing padding,
	// dates computed forward from its last entry
	for len(cells)%7 != 0 {
		d := cells[len(cells)-1].Date.AddDate(0, 0, 1)
		cells = append(cells, Cell{Date: d, Key: padPrefix + d.Format(dateKey), Padding: true})
	}

	weeks := make([]Week, 0, len(cells)/7)
	for i := 0; i < len(cells); i += 7 {
		weeks = append(weeks, Week(cells[i:i+7]))
	}

	return &Grid{
		Weeks:       weeks,
		MaxVal:      maxVal,
		Total:       total,
		MonthLabels: monthLabels(weeks),
	}
}

// monthLabels scans the weeks in order and records one label per distinct
// (year, month) pair, anchored to the earliest week whose first non-padding
// cell belongs to that month.
func monthLabels(weeks []Week) []MonthLabel {
	seen := make(map[string]bool)
	var labels []MonthLabel
	for w, week := range weeks {
		for _, cell := range week {
			if cell.Padding {
				continue
			}
			ym := cell.Date.Format("2006-01")
			if !seen[ym] {
				seen[ym] = true
				labels = append(labels, MonthLabel{
					Name:      months[cell.Date.Month()-1],
					WeekIndex: w,
				})
			}
			break
		}
	}
	return labels
}

// LevelFor buckets a cell value into intensity levels 0..4 relative to the
// window maximum. The scheme is a fixed linear split, not percentile-based.
func LevelFor(value, maxVal int) int {
	if maxVal <= 0 || value <= 0 {
		return 0
	}
	ratio := float64(value) / float64(maxVal)
	switch {
	case ratio < 0.25:
		return 1
	case ratio < 0.5:
		return 2
	case ratio < 0.75:
		return 3
	default:
		return 4
	}
}

// truncateToMidnight zeroes time component
func truncateToMidnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
