// svg.go
// Renders a built contribution grid as a GitHub-like SVG string in Go.
package heatmap

import (
	"fmt"
	"strings"
)

// Options configures rendering parameters.
type Options struct {
	CellSize    int      // size of each day cell (px)
	CellPadding int      // padding between cells (px)
	Colors      []string // array of 5 CSS colors for levels 0..4
	FontSize    int      // font size for month labels (px)
	FontFamily  string   // font family for labels
	Title       string   // optional title above the grid
}

// RenderSVG returns an SVG string representing the grid.
// Padding cells are never drawn.
func RenderSVG(g *Grid, opts *Options) string {
	// default options
	if opts == nil {
		opts = &Options{
			CellSize:    12,
			CellPadding: 2,
			FontSize:    10,
			FontFamily:  "sans-serif",
			Colors:      []string{"#ebedf0", "#9be9a8", "#40c463", "#30a14e", "#216e39"},
		}
	}

	weeks := len(g.Weeks)
	if weeks == 0 {
		return ""
	}

	// compute dimensions
	titleHeight := 0
	if opts.Title != "" {
		titleHeight = opts.FontSize + 8 // title text + padding
	}
	width := weeks*(opts.CellSize+opts.CellPadding) + opts.CellPadding
	height := 7*(opts.CellSize+opts.CellPadding) + opts.CellPadding + opts.FontSize + 4 + titleHeight

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">`+"\n", width, height))
	sb.WriteString(fmt.Sprintf(`  <style>.label{font-family:%s;font-size:%dpx;fill:#666}.title{font-family:%s;font-size:%dpx;fill:#333;font-weight:bold}</style>`+"\n",
		opts.FontFamily, opts.FontSize, opts.FontFamily, opts.FontSize))

	// render title if provided
	if opts.Title != "" {
		sb.WriteString(fmt.Sprintf(`  <text x="%d" y="%d" class="title">%s</text>`+"\n",
			opts.CellPadding, opts.FontSize, opts.Title))
	}

	// month labels come from the grid itself,
	// anchored to the earliest week of each month
	monthLabelY := opts.FontSize + titleHeight
	for _, label := range g.MonthLabels {
		x := opts.CellPadding + label.WeekIndex*(opts.CellSize+opts.CellPadding)
		sb.WriteString(fmt.Sprintf(`  <text x="%d" y="%d" class="label">%s</text>`+"\n",
			x, monthLabelY, label.Name))
	}

	// draw cells, skipping padding slots
	for w, week := range g.Weeks {
		for i, cell := range week {
			if cell.Padding {
				continue
			}
			level := LevelFor(cell.Value, g.MaxVal)
			if level >= len(opts.Colors) {
				level = len(opts.Colors) - 1
			}
			x := opts.CellPadding + w*(opts.CellSize+opts.CellPadding)
			y := opts.CellPadding + opts.FontSize + 4 + titleHeight + i*(opts.CellSize+opts.CellPadding)

			// 各セルに矩形と、その中にtitle要素（ツールチップ）を追加
			sb.WriteString(fmt.Sprintf(`  <rect x="%d" y="%d" width="%d" height="%d" fill="%s" data-date="%s" data-count="%d">`+"\n",
				x, y, opts.CellSize, opts.CellSize, opts.Colors[level], cell.Key, cell.Value))

			// 日付をフォーマットして表示用の文字列を作成
			displayDate := cell.Date.Format("2006年01月02日")
			sb.WriteString(fmt.Sprintf(`    <title>%s: %d</title>`+"\n", displayDate, cell.Value))
			sb.WriteString(`  </rect>` + "\n")
		}
	}

	sb.WriteString(`</svg>`)
	return sb.String()
}
