package service_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"walletVolumeApp/internal/domain/model"
	"walletVolumeApp/internal/domain/service"
)

// stubResolver implements useCases.PriceResolver with fixed prices.
type stubResolver struct {
	prices map[string]float64
}

func (s stubResolver) Resolve(ctx context.Context, token string, at time.Time) (float64, bool) {
	price, ok := s.prices[token]
	return price, ok && price > 0
}

func rawTransferAt(ts time.Time, token, value string) model.RawTransfer {
	return model.RawTransfer{
		Asset:       "SOMETOKEN",
		Value:       json.Number(value),
		RawContract: model.RawContract{Address: token},
		Metadata:    model.TransferMetadata{BlockTimestamp: ts.Format(time.RFC3339)},
	}
}

func newAggregator(prices map[string]float64) *service.VolumeAggregator {
	normalizer := newNormalizer(&fakeBlockSource{})
	return service.NewVolumeAggregator(normalizer, stubResolver{prices: prices}, testLogger())
}

func TestAggregateSumsIntoAllThreeBuckets(t *testing.T) {
	// 2025-03-10 is a Monday, so day and week share the bucket start.
	day1 := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	transfers := []model.RawTransfer{
		rawTransferAt(day1.Add(time.Hour), someToken, "100"),
		rawTransferAt(day1, someToken, "50"),
	}

	agg := newAggregator(map[string]float64{someToken: 2.0})
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	buckets := agg.Aggregate(context.Background(), transfers, start, end)

	if got := buckets.Daily[model.DayStartUnix(day1)]; got != 300.0 {
		t.Errorf("expected daily volume 300.0, got %f", got)
	}
	if got := buckets.Weekly[model.WeekStartUnix(day1)]; got != 300.0 {
		t.Errorf("expected weekly volume 300.0, got %f", got)
	}
	if got := buckets.Monthly[model.MonthStartUnix(day1)]; got != 300.0 {
		t.Errorf("expected monthly volume 300.0, got %f", got)
	}
}

func TestAggregateStopsAtFirstOutOfRangeTransfer(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	// An out-of-range transfer ahead of in-range ones halts the scan: the
	// newest-first contract means everything after it must be older still.
	transfers := []model.RawTransfer{
		rawTransferAt(time.Date(2024, 12, 31, 23, 0, 0, 0, time.UTC), someToken, "10"),
		rawTransferAt(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), someToken, "100"),
		rawTransferAt(time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC), someToken, "100"),
	}

	agg := newAggregator(map[string]float64{someToken: 2.0})
	buckets := agg.Aggregate(context.Background(), transfers, start, end)

	if len(buckets.Daily) != 0 || len(buckets.Weekly) != 0 || len(buckets.Monthly) != 0 {
		t.Errorf("expected empty buckets after early stop, got %d/%d/%d entries",
			len(buckets.Daily), len(buckets.Weekly), len(buckets.Monthly))
	}
}

func TestAggregateSkipsUnpricedTransfers(t *testing.T) {
	day := time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)
	unpriced := "0x1111111111111111111111111111111111111111"
	transfers := []model.RawTransfer{
		rawTransferAt(day.Add(time.Hour), unpriced, "1000"),
		rawTransferAt(day, someToken, "100"),
	}

	agg := newAggregator(map[string]float64{someToken: 2.0})
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	buckets := agg.Aggregate(context.Background(), transfers, start, end)

	// The unpriced transfer contributes nothing, not a zero entry.
	if got := buckets.Daily[model.DayStartUnix(day)]; got != 200.0 {
		t.Errorf("expected daily volume 200.0, got %f", got)
	}
	if len(buckets.Daily) != 1 {
		t.Errorf("expected exactly 1 daily bucket, got %d", len(buckets.Daily))
	}
}

func TestAggregateContinuesPastMalformedTransfers(t *testing.T) {
	day := time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)
	malformed := model.RawTransfer{
		Asset:    "SOMETOKEN", // no contract address
		Value:    json.Number("999"),
		Metadata: model.TransferMetadata{BlockTimestamp: day.Add(2 * time.Hour).Format(time.RFC3339)},
	}
	transfers := []model.RawTransfer{
		malformed,
		rawTransferAt(day, someToken, "100"),
	}

	agg := newAggregator(map[string]float64{someToken: 2.0})
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	buckets := agg.Aggregate(context.Background(), transfers, start, end)

	if got := buckets.Daily[model.DayStartUnix(day)]; got != 200.0 {
		t.Errorf("expected malformed record to be skipped, daily volume 200.0, got %f", got)
	}
}
