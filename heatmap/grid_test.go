package heatmap

import (
	"strings"
	"testing"
	"time"
)

func TestBuildGridShape(t *testing.T) {
	// 曜日の異なる基準日でグリッドの形状が常に一定であることを確認
	dates := []time.Time{
		time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC), // 土曜日
		time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC),   // 日曜日
		time.Date(2024, 1, 2, 23, 59, 0, 0, time.UTC),  // 火曜日
	}

	for _, now := range dates {
		g := BuildGrid(map[string]int{}, now)

		// 365日 + 前後パディングで常に53週になる
		if len(g.Weeks) != 53 {
			t.Errorf("now=%v: expected 53 weeks, got %d", now, len(g.Weeks))
		}
		for i, week := range g.Weeks {
			if len(week) != 7 {
				t.Errorf("now=%v: week %d has %d cells, expected 7", now, i, len(week))
			}
			// 各週の先頭は日曜日
			if week[0].Date.Weekday() != time.Sunday {
				t.Errorf("now=%v: week %d starts on %v, expected Sunday", now, i, week[0].Date.Weekday())
			}
		}

		// パディングは最初の週の先頭と最後の週の末尾にのみ現れる
		for w, week := range g.Weeks {
			for i, cell := range week {
				if !cell.Padding {
					continue
				}
				leading := w == 0 && allPadding(week[:i+1])
				trailing := w == len(g.Weeks)-1 && allPadding(week[i:])
				if !leading && !trailing {
					t.Errorf("now=%v: unexpected padding cell at week %d index %d", now, w, i)
				}
				if !strings.HasPrefix(cell.Key, "pad-") {
					t.Errorf("padding cell key %q lacks pad- prefix", cell.Key)
				}
			}
		}

		// 実データのセルは基準日の364日前から基準日まで
		first, last := firstReal(g), lastReal(g)
		wantFirst := truncateToMidnight(now).AddDate(0, 0, -364)
		if !first.Date.Equal(wantFirst) {
			t.Errorf("now=%v: first real cell is %v, expected %v", now, first.Date, wantFirst)
		}
		if !last.Date.Equal(truncateToMidnight(now)) {
			t.Errorf("now=%v: last real cell is %v, expected %v", now, last.Date, truncateToMidnight(now))
		}
	}
}

func allPadding(cells []Cell) bool {
	for _, c := range cells {
		if !c.Padding {
			return false
		}
	}
	return true
}

func firstReal(g *Grid) Cell {
	for _, week := range g.Weeks {
		for _, c := range week {
			if !c.Padding {
				return c
			}
		}
	}
	return Cell{}
}

func lastReal(g *Grid) Cell {
	for w := len(g.Weeks) - 1; w >= 0; w-- {
		for i := 6; i >= 0; i-- {
			if !g.Weeks[w][i].Padding {
				return g.Weeks[w][i]
			}
		}
	}
	return Cell{}
}

func findCell(g *Grid, key string) (Cell, bool) {
	for _, week := range g.Weeks {
		for _, c := range week {
			if c.Key == key {
				return c, true
			}
		}
	}
	return Cell{}, false
}

func TestBuildGridTodaySubstitution(t *testing.T) {
	// 空のマップの場合、当日のセルのみ1が仮置きされる
	now := time.Date(2024, 1, 2, 15, 0, 0, 0, time.UTC)
	g := BuildGrid(map[string]int{}, now)

	today, ok := findCell(g, "2024-01-02")
	if !ok {
		t.Fatal("today cell not found")
	}
	if today.Value != 1 {
		t.Errorf("expected today value to be 1, got %d", today.Value)
	}
	if g.MaxVal != 1 {
		t.Errorf("expected MaxVal 1, got %d", g.MaxVal)
	}
	if g.Total != 1 {
		t.Errorf("expected Total 1, got %d", g.Total)
	}

	// 当日以外のセルはすべて0
	for _, week := range g.Weeks {
		for _, c := range week {
			if c.Key != "2024-01-02" && c.Value != 0 {
				t.Errorf("cell %s has value %d, expected 0", c.Key, c.Value)
			}
		}
	}
}

func TestBuildGridExplicitZeroTodayIsNotSubstituted(t *testing.T) {
	// 当日に明示的な0エントリがある場合は仮置きしない
	now := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)
	counts := map[string]int{
		"2024-01-01": 3,
		"2024-01-02": 0,
	}
	g := BuildGrid(counts, now)

	today, ok := findCell(g, "2024-01-02")
	if !ok {
		t.Fatal("today cell not found")
	}
	if today.Value != 0 {
		t.Errorf("expected explicit zero to stay 0, got %d", today.Value)
	}
	if g.Total != 3 {
		t.Errorf("expected Total 3, got %d", g.Total)
	}
	if g.MaxVal != 3 {
		t.Errorf("expected MaxVal 3, got %d", g.MaxVal)
	}
}

func TestBuildGridTotals(t *testing.T) {
	now := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)
	counts := map[string]int{
		"2025-06-28": 4,
		"2025-06-29": 2,
		"2025-06-30": 7, // 当日にエントリがあるため仮置きは発生しない
		"2024-07-02": 5,
		"2020-01-01": 99, // ウィンドウ外のエントリは無視される
	}
	g := BuildGrid(counts, now)

	if g.Total != 18 {
		t.Errorf("expected Total 18, got %d", g.Total)
	}
	if g.MaxVal != 7 {
		t.Errorf("expected MaxVal 7, got %d", g.MaxVal)
	}
	if _, ok := findCell(g, "2020-01-01"); ok {
		t.Error("cell outside the window should not be present")
	}
}

func TestMonthLabels(t *testing.T) {
	now := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	g := BuildGrid(map[string]int{}, now)

	if len(g.MonthLabels) < 12 || len(g.MonthLabels) > 13 {
		t.Fatalf("expected 12 or 13 month labels, got %d", len(g.MonthLabels))
	}

	// weekIndexは狭義単調増加
	for i := 1; i < len(g.MonthLabels); i++ {
		if g.MonthLabels[i].WeekIndex <= g.MonthLabels[i-1].WeekIndex {
			t.Errorf("month labels not strictly increasing: %v", g.MonthLabels)
		}
	}

	// 1年のウィンドウなので先頭のラベルは開始月
	if g.MonthLabels[0].Name != "Mar" {
		t.Errorf("expected first label to be Mar, got %s", g.MonthLabels[0].Name)
	}
}

func TestLevelFor(t *testing.T) {
	tests := []struct {
		name   string
		value  int
		maxVal int
		want   int
	}{
		{name: "zero value", value: 0, maxVal: 10, want: 0},
		{name: "zero max", value: 5, maxVal: 0, want: 0},
		{name: "negative max", value: 5, maxVal: -1, want: 0},
		{name: "negative value", value: -3, maxVal: 10, want: 0},
		{name: "low ratio", value: 24, maxVal: 100, want: 1},
		{name: "quarter boundary", value: 25, maxVal: 100, want: 2},
		{name: "below half", value: 49, maxVal: 100, want: 2},
		{name: "half boundary", value: 50, maxVal: 100, want: 3},
		{name: "three quarter boundary", value: 75, maxVal: 100, want: 4},
		{name: "max value", value: 100, maxVal: 100, want: 4},
		{name: "max of one", value: 1, maxVal: 1, want: 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LevelFor(tt.value, tt.maxVal); got != tt.want {
				t.Errorf("LevelFor(%d, %d) = %d, want %d", tt.value, tt.maxVal, got, tt.want)
			}
		})
	}
}

func TestLevelForMonotonic(t *testing.T) {
	// maxValを固定したとき、値に対して単調非減少であることを確認
	const maxVal = 37
	prev := 0
	for v := 0; v <= maxVal; v++ {
		level := LevelFor(v, maxVal)
		if level < prev {
			t.Fatalf("LevelFor(%d, %d) = %d decreased from %d", v, maxVal, level, prev)
		}
		prev = level
	}
	if LevelFor(maxVal, maxVal) != 4 {
		t.Error("expected LevelFor(maxVal, maxVal) to be 4")
	}
}
