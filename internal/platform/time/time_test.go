package time

import (
	"testing"
	"time"
)

func TestMonthStart(t *testing.T) {
	t.Parallel()

	bne := time.FixedZone("AEST", 10*3600)
	// 2024-12-31 20:00 UTC is already January in Brisbane
	ts := time.Date(2024, 12, 31, 20, 0, 0, 0, time.UTC)

	if got := MonthStart(ts, nil); !got.Equal(time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("utc month = %v", got)
	}
	if got := MonthStart(ts, bne); got.Month() != time.January || got.Year() != 2025 {
		t.Fatalf("brisbane month = %v", got)
	}
}

func TestMonths(t *testing.T) {
	t.Parallel()

	from := time.Date(2024, 11, 15, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC)

	got := Months(from, to)
	if len(got) != 4 {
		t.Fatalf("len = %d", len(got))
	}
	if got[0].Month() != time.November || got[3].Month() != time.February {
		t.Fatalf("range = %v..%v", got[0], got[3])
	}
	if len(Months(to, from)) != 0 {
		t.Fatalf("reversed range should be empty")
	}
}
