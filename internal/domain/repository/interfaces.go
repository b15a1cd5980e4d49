// Package repository defines all the collaborator interfaces used by domain services
// Following the dependency inversion principle, domain logic depends on these interfaces,
// and infrastructure implementations provide concrete implementations
package repository

import (
	"context"

	"walletVolumeApp/internal/domain/model"
)

// TransferSource fetches the transfer history of a wallet.
type TransferSource interface {
	// FetchIncomingTransfers returns the full inbound transfer history for
	// the wallet, newest first, paginated to exhaustion. It is the one
	// collaborator allowed to fail the pipeline: an unrecoverable HTTP
	// failure must be returned as an error.
	FetchIncomingTransfers(ctx context.Context, wallet string) ([]model.RawTransfer, error)
}

// BlockTimeSource resolves a block number to its timestamp. It is a
// fallback timestamp source for transfers without an embedded timestamp.
type BlockTimeSource interface {
	// BlockTimestamp returns the unix timestamp of the block, or ok=false
	// when the lookup fails. Failures are never fatal.
	BlockTimestamp(ctx context.Context, blockNumHex string) (int64, bool)
}

// TokenMetadataSource provides per-token metadata lookups.
type TokenMetadataSource interface {
	// TokenDecimals returns the decimal places of the token, defaulting on
	// any failure rather than returning an error.
	TokenDecimals(ctx context.Context, token string) int
}

// PriceSeriesSource fetches USD prices from the external price provider.
type PriceSeriesSource interface {
	// FetchDailyPrices returns up to days daily price points for the token.
	FetchDailyPrices(ctx context.Context, token string, days int) ([]model.PricePoint, error)

	// FetchLatestHourlyPrice returns the most recent hourly price point for
	// the token, or ok=false when the provider has none.
	FetchLatestHourlyPrice(ctx context.Context, token string) (price float64, ok bool, err error)
}

// VolumePersistence is the durable store for aggregated volume rows.
type VolumePersistence interface {
	// SaveVolume bulk-upserts volume rows keyed by bucket start timestamp.
	// The caller does not depend on read-after-write consistency.
	SaveVolume(ctx context.Context, rows []model.VolumeRow) error

	// GetAllVolume returns every stored volume row.
	GetAllVolume(ctx context.Context) ([]model.VolumeRow, error)
}

// VolumeCache is a fast read path for volume rows backing the API.
type VolumeCache interface {
	SaveVolumeRows(ctx context.Context, rows []model.VolumeRow) error
	GetVolumeRows(ctx context.Context) ([]model.VolumeRow, error)
}

// VolumePublisher pushes completed run results to downstream consumers.
type VolumePublisher interface {
	PublishVolumeRows(ctx context.Context, runID string, rows []model.VolumeRow) error
	Close() error
}
