// Package rollup computes read-only summaries over the aggregation store
// for operational visibility. It is grounded in the teacher's generic
// anon.Service[S,T] pattern (fetch a window, reduce, report) but reduced
// to a read-only reporter: the daemon's store is upsert-only and nothing
// here writes to it. It supplements the distilled spec with a slice of the
// original implementation's typetrace/model query layer, which the
// distillation scoped out as a frontend concern but which has a natural
// echo inside the daemon as a debug-log summary.
package rollup

import "github.com/typetrace/backend/internal/store"

// Reader is the narrow slice of *store.Store the rollup needs, so it can
// be tested against a fake without a real SQLite file.
type Reader interface {
	RowsForDate(date string) ([]store.Row, error)
}

// Summary is a per-day snapshot: total presses recorded for the date and
// the single busiest key, if any.
type Summary struct {
	Date         string
	TotalPresses int64
	BusiestKey   string
	BusiestCount int64
}

// ForDate reduces every row recorded for date into a Summary. An empty
// result set yields a Summary with only Date set: TotalPresses 0 and no
// busiest key.
func ForDate(r Reader, date string) (Summary, error) {
	rows, err := r.RowsForDate(date)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{Date: date}
	for _, row := range rows {
		summary.TotalPresses += row.Count
		if row.Count > summary.BusiestCount {
			summary.BusiestCount = row.Count
			summary.BusiestKey = row.KeyName
		}
	}
	return summary, nil
}
