// Package model は、アプリケーションのデータモデル定義を提供します。
package model

import "time"

// DateKey は日付キーのフォーマットです（ISO 8601 日付）。
const DateKey = "2006-01-02"

// DayCounts は日付キー（YYYY-MM-DD）からその日のカウントへのマッピングです。
// キーに存在しない日付は暗黙に0を意味します。
type DayCounts map[string]int

// ActivitySources はソース別の内訳を保持します。
// 取得できなかったソースはJSONに含めません。
type ActivitySources struct {
	GitHub DayCounts `json:"github,omitempty"`
}

// DateSpan は集計対象の日付範囲（両端を含む）を表します。
type DateSpan struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ActivityReport は /api/activity のレスポンスエンベロープです。
type ActivityReport struct {
	ByDate  DayCounts       `json:"byDate"`
	Sources ActivitySources `json:"sources"`
	Range   DateSpan        `json:"range"`
}

// NewDateSpan は [end-days, end] の範囲を日付キー形式で返します。
func NewDateSpan(end time.Time, days int) DateSpan {
	return DateSpan{
		Start: end.AddDate(0, 0, -days).Format(DateKey),
		End:   end.Format(DateKey),
	}
}
