package model

import (
	"sort"
	"time"
)

// SecondsInDay is the length of a UTC day in seconds.
const SecondsInDay = 86400

// VolumeBuckets accumulates USD volume into daily, weekly and monthly
// mappings keyed by the UTC bucket-start unix timestamp. Values only grow
// as transfers are folded in.
type VolumeBuckets struct {
	Daily   map[int64]float64
	Weekly  map[int64]float64
	Monthly map[int64]float64
}

func NewVolumeBuckets() *VolumeBuckets {
	return &VolumeBuckets{
		Daily:   make(map[int64]float64),
		Weekly:  make(map[int64]float64),
		Monthly: make(map[int64]float64),
	}
}

// Add folds one USD contribution into the three buckets containing ts.
// The bucket assignments are independent functions of ts only.
func (b *VolumeBuckets) Add(ts time.Time, usd float64) {
	b.Daily[DayStartUnix(ts)] += usd
	b.Weekly[WeekStartUnix(ts)] += usd
	b.Monthly[MonthStartUnix(ts)] += usd
}

// Rows flattens the buckets into persistence rows, one per distinct bucket
// start across all three mappings, sorted ascending by date. Missing
// buckets for a date default to zero.
func (b *VolumeBuckets) Rows() []VolumeRow {
	dates := make(map[int64]struct{})
	for d := range b.Daily {
		dates[d] = struct{}{}
	}
	for d := range b.Weekly {
		dates[d] = struct{}{}
	}
	for d := range b.Monthly {
		dates[d] = struct{}{}
	}

	rows := make([]VolumeRow, 0, len(dates))
	for d := range dates {
		rows = append(rows, VolumeRow{
			Date:    d,
			Daily:   b.Daily[d],
			Weekly:  b.Weekly[d],
			Monthly: b.Monthly[d],
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date < rows[j].Date })
	return rows
}

// VolumeRow is one persisted bucket row, keyed by bucket start timestamp.
type VolumeRow struct {
	Date    int64   `json:"date"`
	Daily   float64 `json:"daily"`
	Weekly  float64 `json:"weekly"`
	Monthly float64 `json:"monthly"`
}

// DayStartUnix returns the unix timestamp of the UTC day start containing t.
func DayStartUnix(t time.Time) int64 {
	ts := t.Unix()
	return ts - ts%SecondsInDay
}

// WeekStartUnix returns the unix timestamp of Monday 00:00 UTC of the week
// containing t.
func WeekStartUnix(t time.Time) int64 {
	t = t.UTC()
	// time.Weekday counts Sunday as 0; shift so Monday is 0.
	offset := (int(t.Weekday()) + 6) % 7
	monday := t.AddDate(0, 0, -offset)
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, time.UTC).Unix()
}

// MonthStartUnix returns the unix timestamp of the first of the month at
// 00:00 UTC for the month containing t.
func MonthStartUnix(t time.Time) int64 {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).Unix()
}
