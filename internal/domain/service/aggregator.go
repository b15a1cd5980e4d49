package service

import (
	"context"
	"log/slog"
	"time"

	"walletVolumeApp/internal/domain/model"
	"walletVolumeApp/internal/domain/useCases"
)

// VolumeAggregator folds a newest-first transfer sequence into daily,
// weekly and monthly USD volume buckets.
//
// The newest-first ordering is an assumed contract on the input, not
// something the aggregator verifies: the first normalized timestamp that
// falls outside [start, end) stops the whole scan, which bounds the work
// on a long history but means an out-of-order input is truncated at the
// first stray record.
type VolumeAggregator struct {
	normalizer *TransferNormalizer
	prices     useCases.PriceResolver
	log        *slog.Logger
}

func NewVolumeAggregator(normalizer *TransferNormalizer, prices useCases.PriceResolver, log *slog.Logger) *VolumeAggregator {
	return &VolumeAggregator{
		normalizer: normalizer,
		prices:     prices,
		log:        log,
	}
}

// Aggregate processes transfers newest-first and returns the volume
// buckets for the window [start, end). Malformed records and unresolved
// prices are skipped; only the range boundary stops the scan.
func (a *VolumeAggregator) Aggregate(ctx context.Context, transfers []model.RawTransfer, start, end time.Time) *model.VolumeBuckets {
	buckets := model.NewVolumeBuckets()

	startUnix := start.Unix()
	endUnix := end.Unix()

	for i := range transfers {
		index := i + 1

		transfer, skip := a.normalizer.Normalize(ctx, &transfers[i])
		if skip != nil {
			a.log.Info("skipping transfer", "index", index, "reason", skip.Reason, "detail", skip.Detail)
			continue
		}

		ts := transfer.Timestamp.Unix()
		if ts < startUnix || ts >= endUnix {
			a.log.Info("transfer outside target range, stopping scan",
				"index", index, "timestamp", transfer.Timestamp)
			break
		}

		price, ok := a.prices.Resolve(ctx, transfer.Token, transfer.Timestamp)
		if !ok || price == 0 {
			a.log.Info("no price for transfer, skipping contribution",
				"index", index, "token", transfer.Token, "day", transfer.Timestamp.Format("2006-01-02"))
			continue
		}

		usd := transfer.Value * price
		buckets.Add(transfer.Timestamp, usd)

		a.log.Debug("added transfer volume",
			"index", index, "token", transfer.Token, "usd", usd)
	}

	return buckets
}
