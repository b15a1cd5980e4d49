package model_test

import (
	"testing"
	"time"

	"walletVolumeApp/internal/domain/model"
)

func TestWeekStartIsAlwaysMondayMidnight(t *testing.T) {
	cases := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"monday itself", time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC), time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)},
		{"midweek", time.Date(2025, 3, 12, 8, 0, 0, 0, time.UTC), time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)},
		{"sunday", time.Date(2025, 1, 5, 23, 59, 59, 0, time.UTC), time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC)},
		{"year boundary", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := model.WeekStartUnix(tc.in)
			if got != tc.want.Unix() {
				t.Errorf("expected week start %v, got %v", tc.want, time.Unix(got, 0).UTC())
			}

			start := time.Unix(got, 0).UTC()
			if start.Weekday() != time.Monday {
				t.Errorf("week start %v is not a Monday", start)
			}
			if start.Hour() != 0 || start.Minute() != 0 || start.Second() != 0 {
				t.Errorf("week start %v is not at midnight", start)
			}
			if got > tc.in.Unix() {
				t.Errorf("week start %v is after the input %v", start, tc.in)
			}
		})
	}
}

func TestDayAndMonthStart(t *testing.T) {
	in := time.Date(2025, 2, 28, 18, 45, 12, 0, time.UTC)

	if got := model.DayStartUnix(in); got != time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC).Unix() {
		t.Errorf("unexpected day start: %v", time.Unix(got, 0).UTC())
	}
	if got := model.MonthStartUnix(in); got != time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC).Unix() {
		t.Errorf("unexpected month start: %v", time.Unix(got, 0).UTC())
	}
}

func TestVolumeBucketsAddAndRows(t *testing.T) {
	buckets := model.NewVolumeBuckets()

	// Two transfers on the same Monday: all three buckets share the key.
	monday := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	buckets.Add(monday, 200)
	buckets.Add(monday.Add(2*time.Hour), 100)

	day := model.DayStartUnix(monday)
	if buckets.Daily[day] != 300 {
		t.Errorf("expected daily volume 300, got %f", buckets.Daily[day])
	}
	if buckets.Weekly[model.WeekStartUnix(monday)] != 300 {
		t.Errorf("expected weekly volume 300, got %f", buckets.Weekly[model.WeekStartUnix(monday)])
	}
	if buckets.Monthly[model.MonthStartUnix(monday)] != 300 {
		t.Errorf("expected monthly volume 300, got %f", buckets.Monthly[model.MonthStartUnix(monday)])
	}

	rows := buckets.Rows()
	// Day start (June 2) and month start (June 1) are distinct dates.
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Date > rows[1].Date {
		t.Error("rows are not sorted ascending by date")
	}
	if rows[0].Monthly != 300 || rows[0].Daily != 0 {
		t.Errorf("unexpected month-start row: %+v", rows[0])
	}
	if rows[1].Daily != 300 || rows[1].Weekly != 300 {
		t.Errorf("unexpected day-start row: %+v", rows[1])
	}
}
