// Package service provides implementations of domain services that implement core business logic
// This package depends only on domain models and repository interfaces (not implementations)
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"walletVolumeApp/internal/domain/model"
	"walletVolumeApp/internal/domain/repository"
	"walletVolumeApp/internal/domain/useCases"
)

// ErrRunInFlight is returned when an aggregation run is requested while
// another one is still executing. The price cache and the scan are built
// for one run at a time.
var ErrRunInFlight = errors.New("aggregation run already in flight")

// WalletVolumeService orchestrates the two scan modes over one wallet's
// transfer history: a bounded historical backfill and a single calendar
// day. Results go to persistence, the API cache, the websocket hub and
// the downstream topic; all of those but persistence are optional.
type WalletVolumeService struct {
	wallet      string
	transfers   repository.TransferSource
	aggregator  *VolumeAggregator
	storage     repository.VolumePersistence // optional
	cache       repository.VolumeCache       // optional
	publisher   repository.VolumePublisher   // optional
	broadcaster useCases.Broadcaster         // optional
	log         *slog.Logger

	runMu sync.Mutex // serializes aggregation runs
}

func NewWalletVolumeService(
	wallet string,
	transfers repository.TransferSource,
	aggregator *VolumeAggregator,
	storage repository.VolumePersistence,
	cache repository.VolumeCache,
	publisher repository.VolumePublisher,
	broadcaster useCases.Broadcaster,
	log *slog.Logger,
) *WalletVolumeService {
	return &WalletVolumeService{
		wallet:      wallet,
		transfers:   transfers,
		aggregator:  aggregator,
		storage:     storage,
		cache:       cache,
		publisher:   publisher,
		broadcaster: broadcaster,
		log:         log,
	}
}

// Ensure interface compliance
var _ useCases.VolumeService = (*WalletVolumeService)(nil)

// RunBackfill fetches the full inbound history and aggregates it over
// [start, end). There is no checkpointing: a partial failure means a full
// re-run.
func (s *WalletVolumeService) RunBackfill(ctx context.Context, start, end time.Time) (*model.VolumeBuckets, error) {
	if !s.runMu.TryLock() {
		return nil, ErrRunInFlight
	}
	defer s.runMu.Unlock()

	runID := uuid.New().String()
	s.log.Info("starting backfill run",
		"run_id", runID,
		"start", start.UTC().Format("2006-01-02"),
		"end", end.UTC().Format("2006-01-02"))

	transfers, err := s.transfers.FetchIncomingTransfers(ctx, s.wallet)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transfers: %w", err)
	}

	buckets := s.aggregator.Aggregate(ctx, transfers, start, end)
	if err := s.finishRun(ctx, runID, buckets); err != nil {
		return buckets, err
	}
	return buckets, nil
}

// RunSingleDay aggregates exactly one UTC calendar day; a zero day means
// today.
func (s *WalletVolumeService) RunSingleDay(ctx context.Context, day time.Time) (*model.VolumeBuckets, error) {
	if day.IsZero() {
		day = time.Now().UTC()
	}
	day = day.UTC()

	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.Add(model.SecondsInDay * time.Second)
	return s.RunBackfill(ctx, start, end)
}

// finishRun fans the aggregated rows out to the configured sinks. Only the
// durable store can fail the run.
func (s *WalletVolumeService) finishRun(ctx context.Context, runID string, buckets *model.VolumeBuckets) error {
	rows := buckets.Rows()
	s.log.Info("aggregation finished", "run_id", runID, "rows", len(rows))

	if s.storage != nil {
		if err := s.storage.SaveVolume(ctx, rows); err != nil {
			return fmt.Errorf("failed to persist volume rows: %w", err)
		}
	}

	if s.cache != nil {
		if err := s.cache.SaveVolumeRows(ctx, rows); err != nil {
			s.log.Warn("failed to refresh volume cache", "err", err)
		}
	}

	if s.publisher != nil {
		if err := s.publisher.PublishVolumeRows(ctx, runID, rows); err != nil {
			s.log.Warn("failed to publish volume rows", "run_id", runID, "err", err)
		}
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastVolume(rows)
	}

	return nil
}

// GetVolumeRows serves volume rows cache-first, falling back to the
// durable store and refreshing the cache on the way out.
func (s *WalletVolumeService) GetVolumeRows(ctx context.Context) ([]model.VolumeRow, error) {
	if s.cache != nil {
		rows, err := s.cache.GetVolumeRows(ctx)
		if err != nil {
			s.log.Warn("volume cache read failed", "err", err)
		} else if len(rows) > 0 {
			return rows, nil
		}
	}

	if s.storage == nil {
		return nil, nil
	}

	rows, err := s.storage.GetAllVolume(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && len(rows) > 0 {
		if err := s.cache.SaveVolumeRows(ctx, rows); err != nil {
			s.log.Warn("failed to refresh volume cache", "err", err)
		}
	}

	return rows, nil
}
