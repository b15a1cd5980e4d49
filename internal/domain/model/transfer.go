package model

import (
	"encoding/json"
	"time"
)

// RawTransfer is one asset-transfer record as returned by the history
// provider. Fields the pipeline does not read are kept for logging and
// downstream consumers.
type RawTransfer struct {
	BlockNum    string           `json:"blockNum"`
	UniqueID    string           `json:"uniqueId"`
	Hash        string           `json:"hash"`
	From        string           `json:"from"`
	To          string           `json:"to"`
	Asset       string           `json:"asset"`
	Category    string           `json:"category"`
	Value       json.Number      `json:"value"`
	RawContract RawContract      `json:"rawContract"`
	Metadata    TransferMetadata `json:"metadata"`
}

// RawContract holds the contract-level view of a transfer.
type RawContract struct {
	Value   string `json:"value"`
	Address string `json:"address"`
	Decimal string `json:"decimal"`
}

// TransferMetadata carries the provider-side timestamp when present.
type TransferMetadata struct {
	BlockTimestamp string `json:"blockTimestamp"`
}

// Transfer is the normalized, immutable view of a RawTransfer that the
// aggregation pipeline works with.
type Transfer struct {
	Timestamp time.Time // UTC instant of the transfer
	Token     string    // lowercased contract address (native coin mapped to its sentinel)
	Value     float64   // provider value, used as-is
	Decimals  int       // token decimals, recorded but not applied to Value
}

// SkipReason classifies why a raw transfer was excluded from aggregation.
type SkipReason string

const (
	SkipMissingTimestamp SkipReason = "missing_timestamp"
	SkipMissingToken     SkipReason = "missing_token"
	SkipZeroValue        SkipReason = "zero_value"
	SkipInvalidValue     SkipReason = "invalid_value"
)

// SkipInfo reports a non-fatal normalization failure.
type SkipInfo struct {
	Reason SkipReason
	Detail string
}
