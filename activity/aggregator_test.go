package activity

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/mizuasagi/folio/heatmap"
	"github.com/mizuasagi/folio/model"
)

// stubFetcher はテスト用のFetcher実装です。
type stubFetcher struct {
	counts model.DayCounts
	err    error
	calls  int
}

func (s *stubFetcher) FetchCalendar(ctx context.Context, from, to time.Time) (model.DayCounts, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.counts, nil
}

func fixedNow() time.Time {
	return time.Date(2025, 4, 10, 12, 0, 0, 0, time.UTC)
}

func TestFetchWithUpstreamData(t *testing.T) {
	fetcher := &stubFetcher{counts: model.DayCounts{
		"2025-04-09": 3,
		"2025-04-10": 1,
	}}
	agg := NewAggregator(fetcher, fixedNow, rand.New(rand.NewSource(1)))

	report := agg.Fetch(context.Background())

	if fetcher.calls != 1 {
		t.Errorf("Expected exactly one upstream call, got %d", fetcher.calls)
	}
	if report.ByDate["2025-04-09"] != 3 || report.ByDate["2025-04-10"] != 1 {
		t.Errorf("Unexpected byDate mapping: %v", report.ByDate)
	}
	if report.Sources.GitHub == nil {
		t.Error("Expected sources.github to be present")
	}

	// rangeは直近365日
	if report.Range.End != "2025-04-10" {
		t.Errorf("Expected range end 2025-04-10, got %s", report.Range.End)
	}
	if report.Range.Start != "2024-04-10" {
		t.Errorf("Expected range start 2024-04-10, got %s", report.Range.Start)
	}
}

func TestFetchWithoutCredentials(t *testing.T) {
	// 取得元がnilの場合、外部問い合わせはスキップされフォールバックになる
	agg := NewAggregator(nil, fixedNow, rand.New(rand.NewSource(42)))

	report := agg.Fetch(context.Background())

	if len(report.ByDate) == 0 {
		t.Fatal("Expected fallback byDate to be non-empty")
	}
	if len(report.ByDate) > 90 {
		t.Errorf("Expected at most 90 fallback dates, got %d", len(report.ByDate))
	}
	if report.Sources.GitHub != nil {
		t.Error("Expected sources.github to be absent")
	}

	// フォールバック値は0〜5の範囲内
	start := fixedNow().AddDate(0, 0, -(90 - 1)).Format(model.DateKey)
	for date, value := range report.ByDate {
		if value < 0 || value > 5 {
			t.Errorf("Fallback value for %s out of range: %d", date, value)
		}
		if date < start || date > "2025-04-10" {
			t.Errorf("Fallback date %s outside trailing 90 days", date)
		}
	}
}

func TestFetchAbsorbsUpstreamFailure(t *testing.T) {
	// 上流エラーは伝播せず、フォールバックへ縮退する
	fetcher := &stubFetcher{err: errors.New("api rate limited")}
	agg := NewAggregator(fetcher, fixedNow, rand.New(rand.NewSource(7)))

	report := agg.Fetch(context.Background())

	if len(report.ByDate) == 0 {
		t.Error("Expected fallback data after upstream failure")
	}
	if report.Sources.GitHub != nil {
		t.Error("Expected sources.github to be absent after upstream failure")
	}
}

func TestFetchEmptyUpstreamFallsBack(t *testing.T) {
	// アクティビティが本当にゼロの場合もフォールバックする
	fetcher := &stubFetcher{counts: model.DayCounts{}}
	agg := NewAggregator(fetcher, fixedNow, rand.New(rand.NewSource(7)))

	report := agg.Fetch(context.Background())

	if len(report.ByDate) == 0 {
		t.Error("Expected fallback data for empty upstream mapping")
	}
}

func TestFetchDeterministicWithSeededRand(t *testing.T) {
	a := NewAggregator(nil, fixedNow, rand.New(rand.NewSource(99)))
	b := NewAggregator(nil, fixedNow, rand.New(rand.NewSource(99)))

	ra := a.Fetch(context.Background())
	rb := b.Fetch(context.Background())

	if len(ra.ByDate) != len(rb.ByDate) {
		t.Fatal("Expected identical fallback size for identical seeds")
	}
	for date, value := range ra.ByDate {
		if rb.ByDate[date] != value {
			t.Errorf("Fallback diverged at %s: %d vs %d", date, value, rb.ByDate[date])
		}
	}
}

func TestFetchRoundTripIntoGrid(t *testing.T) {
	// 集約結果をそのままグリッドビルダーに渡しても常に整形済みの出力が得られる
	agg := NewAggregator(nil, fixedNow, rand.New(rand.NewSource(3)))
	report := agg.Fetch(context.Background())

	g := heatmap.BuildGrid(report.ByDate, fixedNow())
	if len(g.Weeks) != 53 {
		t.Errorf("Expected 53 weeks, got %d", len(g.Weeks))
	}
	for i, week := range g.Weeks {
		if len(week) != 7 {
			t.Errorf("Week %d has %d cells", i, len(week))
		}
	}
}
