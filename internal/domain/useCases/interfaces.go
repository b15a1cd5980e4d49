package useCases

import (
	"context"
	"net/http"
	"time"

	"walletVolumeApp/internal/domain/model"
)

// PriceResolver resolves a token's USD unit price at a point in time.
type PriceResolver interface {
	// Resolve returns the USD unit price of the token on the UTC day
	// containing at. ok is false when no price could be determined; the
	// returned price is then 0. Resolution never fails an aggregation run.
	Resolve(ctx context.Context, token string, at time.Time) (price float64, ok bool)
}

// VolumeService runs aggregation and exposes the stored results.
type VolumeService interface {
	// RunBackfill aggregates transfer volume over [start, end) and persists it.
	RunBackfill(ctx context.Context, start, end time.Time) (*model.VolumeBuckets, error)

	// RunSingleDay aggregates exactly one UTC calendar day. A zero day
	// means today.
	RunSingleDay(ctx context.Context, day time.Time) (*model.VolumeBuckets, error)

	// GetVolumeRows returns the stored volume rows for API consumption.
	GetVolumeRows(ctx context.Context) ([]model.VolumeRow, error)
}

// WalletAnalyzer reports counterparty activity for a wallet.
type WalletAnalyzer interface {
	AnalyzeWallet(ctx context.Context, wallet string) ([]model.CounterpartyStat, error)
}

// Broadcaster defines an interface for pushing updates to WebSocket/API layers.
type Broadcaster interface {
	BroadcastVolume(rows []model.VolumeRow)
	Handler() func(http.ResponseWriter, *http.Request)
}
