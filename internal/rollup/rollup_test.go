package rollup

import (
	"testing"

	"github.com/typetrace/backend/internal/store"
)

type fakeReader struct {
	rows []store.Row
	err  error
}

func (f fakeReader) RowsForDate(date string) ([]store.Row, error) {
	return f.rows, f.err
}

func TestForDateEmpty(t *testing.T) {
	summary, err := ForDate(fakeReader{}, "2024-01-01")
	if err != nil {
		t.Fatalf("ForDate: %v", err)
	}
	if summary.TotalPresses != 0 || summary.BusiestKey != "" {
		t.Errorf("got %+v, want empty summary", summary)
	}
}

func TestForDateSumsAndFindsBusiest(t *testing.T) {
	reader := fakeReader{rows: []store.Row{
		{ScanCode: 30, KeyName: "KEY_A", Date: "2024-01-01", Count: 5},
		{ScanCode: 57, KeyName: "KEY_SPACE", Date: "2024-01-01", Count: 12},
		{ScanCode: 28, KeyName: "KEY_ENTER", Date: "2024-01-01", Count: 3},
	}}

	summary, err := ForDate(reader, "2024-01-01")
	if err != nil {
		t.Fatalf("ForDate: %v", err)
	}
	if summary.TotalPresses != 20 {
		t.Errorf("got total %d, want 20", summary.TotalPresses)
	}
	if summary.BusiestKey != "KEY_SPACE" || summary.BusiestCount != 12 {
		t.Errorf("got busiest %q/%d, want KEY_SPACE/12", summary.BusiestKey, summary.BusiestCount)
	}
}
