package heatmap

import (
	"fmt"
	"testing"
	"time"
)

func TestPlaceMonthLabelsNarrow(t *testing.T) {
	g := BuildGrid(map[string]int{}, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC))

	placed := PlaceMonthLabels(g, LayoutNarrow)
	if len(placed) != len(g.MonthLabels) {
		t.Fatalf("expected %d placed labels, got %d", len(g.MonthLabels), len(placed))
	}

	// 狭い画面では週インデックス×固定幅のピクセルオフセット
	for i, p := range placed {
		want := fmt.Sprintf("%dpx", g.MonthLabels[i].WeekIndex*narrowWeekWidth)
		if p.Left != want {
			t.Errorf("label %s: expected left %s, got %s", p.Name, want, p.Left)
		}
	}
}

func TestPlaceMonthLabelsWide(t *testing.T) {
	g := BuildGrid(map[string]int{}, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC))

	placed := PlaceMonthLabels(g, LayoutWide)

	// 広い画面では週インデックス/総週数のパーセントオフセット
	for i, p := range placed {
		want := fmt.Sprintf("%.4f%%", float64(g.MonthLabels[i].WeekIndex)/float64(len(g.Weeks))*100)
		if p.Left != want {
			t.Errorf("label %s: expected left %s, got %s", p.Name, want, p.Left)
		}
	}

	// 先頭ラベルは左端
	if placed[0].WeekIndex == 0 && placed[0].Left != "0.0000%" {
		t.Errorf("expected leftmost label at 0%%, got %s", placed[0].Left)
	}
}
