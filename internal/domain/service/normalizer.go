package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"walletVolumeApp/internal/domain/model"
	"walletVolumeApp/internal/domain/repository"
)

// nativeAssetTag is the asset label the history provider uses for native
// coin transfers, which carry no contract address.
const nativeAssetTag = "ETH"

// TransferNormalizer turns raw transfer records into normalized transfers,
// classifying malformed records instead of failing the batch.
type TransferNormalizer struct {
	blocks      repository.BlockTimeSource
	metadata    repository.TokenMetadataSource
	nativeToken string
	log         *slog.Logger
}

func NewTransferNormalizer(blocks repository.BlockTimeSource, metadata repository.TokenMetadataSource, nativeToken string, log *slog.Logger) *TransferNormalizer {
	return &TransferNormalizer{
		blocks:      blocks,
		metadata:    metadata,
		nativeToken: strings.ToLower(nativeToken),
		log:         log,
	}
}

// Normalize extracts the canonical timestamp, token and value from a raw
// transfer. On failure it returns a SkipInfo naming the reason; skips are
// non-fatal and the caller moves on to the next record.
func (n *TransferNormalizer) Normalize(ctx context.Context, raw *model.RawTransfer) (*model.Transfer, *model.SkipInfo) {
	ts, ok := n.extractTimestamp(ctx, raw)
	if !ok {
		return nil, &model.SkipInfo{Reason: model.SkipMissingTimestamp, Detail: raw.BlockNum}
	}

	token := raw.RawContract.Address
	if raw.Asset == nativeAssetTag {
		token = n.nativeToken
	}
	if token == "" {
		return nil, &model.SkipInfo{Reason: model.SkipMissingToken, Detail: raw.Hash}
	}
	token = strings.ToLower(token)

	if raw.Value == "" {
		return nil, &model.SkipInfo{Reason: model.SkipZeroValue, Detail: "missing value"}
	}
	value, err := raw.Value.Float64()
	if err != nil {
		return nil, &model.SkipInfo{Reason: model.SkipInvalidValue, Detail: fmt.Sprintf("value %q: %v", raw.Value, err)}
	}
	if value == 0 {
		return nil, &model.SkipInfo{Reason: model.SkipZeroValue, Detail: raw.Hash}
	}

	// Decimals are recorded on the transfer but not applied to Value: the
	// provider's value field is consumed as-is by the aggregation.
	// TODO: confirm with stakeholders whether Value should be scaled by
	// Decimals before pricing.
	decimals := n.metadata.TokenDecimals(ctx, token)

	return &model.Transfer{
		Timestamp: ts,
		Token:     token,
		Value:     value,
		Decimals:  decimals,
	}, nil
}

// extractTimestamp takes the embedded ISO-8601 timestamp when present,
// falling back to a block-number lookup.
func (n *TransferNormalizer) extractTimestamp(ctx context.Context, raw *model.RawTransfer) (time.Time, bool) {
	if raw.Metadata.BlockTimestamp != "" {
		ts, err := time.Parse(time.RFC3339, raw.Metadata.BlockTimestamp)
		if err != nil {
			n.log.Warn("failed to parse transfer timestamp", "timestamp", raw.Metadata.BlockTimestamp, "err", err)
			return time.Time{}, false
		}
		return ts.UTC(), true
	}

	if raw.BlockNum != "" {
		if unix, ok := n.blocks.BlockTimestamp(ctx, raw.BlockNum); ok {
			return time.Unix(unix, 0).UTC(), true
		}
		n.log.Warn("no block timestamp for transfer", "blockNum", raw.BlockNum)
		return time.Time{}, false
	}

	n.log.Warn("transfer has neither timestamp nor block number", "hash", raw.Hash)
	return time.Time{}, false
}
