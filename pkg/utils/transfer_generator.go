package utils

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"walletVolumeApp/internal/domain/model"
)

// TransferGenerator provides methods to generate test transfer data
type TransferGenerator struct{}

// NewTransferGenerator creates a new transfer generator
func NewTransferGenerator() *TransferGenerator {
	return &TransferGenerator{}
}

var sampleTokens = []string{
	"0x4200000000000000000000000000000000000006", // WETH
	"0x833589fcd6edb6e08f4c7c32d4f71b54bda02913", // USDC
	"0x50c5725949a6f0c72e6c4a641f24049a917db0cb", // DAI
	"0x940181a94a35a4569e4529a3cdfb74e38fd98631", // AERO
}

// GenerateTransfers creates count raw transfer records spread backwards in
// time from now, newest first, matching the provider's ordering contract.
func (g *TransferGenerator) GenerateTransfers(count int) []model.RawTransfer {
	now := time.Now().UTC()

	transfers := make([]model.RawTransfer, count)
	for i := 0; i < count; i++ {
		ts := now.Add(-time.Duration(i) * time.Hour)
		transfers[i] = model.RawTransfer{
			BlockNum: fmt.Sprintf("0x%x", 30000000-i*1800),
			UniqueID: uuid.New().String(),
			Hash:     "0x" + uuid.New().String(),
			Asset:    "TOKEN",
			Category: "erc20",
			Value:    json.Number(fmt.Sprintf("%d.5", 1+i%10)),
			RawContract: model.RawContract{
				Address: sampleTokens[i%len(sampleTokens)],
			},
			Metadata: model.TransferMetadata{
				BlockTimestamp: ts.Format(time.RFC3339),
			},
		}
	}

	return transfers
}
