package alchemy

import (
	"context"
	"log"
	"sort"
	"strings"

	"walletVolumeApp/internal/domain/model"
	"walletVolumeApp/internal/domain/useCases"
)

// knownAddresses labels well-known routers, exchange wallets and
// treasuries seen as counterparties.
var knownAddresses = map[string]string{
	"0xe592427a0aece92de3edee1f18e0157c05861564": "Uniswap V3 Router",
	"0x7a250d5630b4cf539739df2c5dacb4c659f2488d": "Uniswap V2 Router",
	"0xd9e1ce17f2641f24ae83637ab66a2cca9c378b9f": "Sushiswap Router",
	"0x1111111254eeb25477b68fb85ed929f73a960582": "1inch Router",
	"0x8d12a197cb00d4747a1fe03395095ce2a5cc6819": "Coinbase Wallet",
	"0x28c6c06298d514db089934071355e5743bf21d60": "Binance Hot Wallet",
	"0x3f5ce5fbfe3e9af3971dd833d26ba9b5c936f0be": "Binance Hot Wallet",
	"0xdac17f958d2ee523a2206206994597c13d831ec7": "Tether Treasury",
}

// prefixLabels is a coarse fallback when the exact address is unknown.
var prefixLabels = map[string]string{
	"0x4200": "Base Network Contract or Wallet",
	"0x28c6": "Binance Hot Wallet",
	"0x3f5c": "Binance Hot Wallet",
	"0x8d12": "Coinbase Wallet",
	"0xdac1": "Tether Treasury",
	"0x93":   "Likely Base Network Wallet or Unknown Entity",
}

const unknownLabel = "Unknown"

func addressLabel(address string) string {
	address = strings.ToLower(address)
	if label, ok := knownAddresses[address]; ok {
		return label
	}
	for prefix, label := range prefixLabels {
		if strings.HasPrefix(address, prefix) {
			return label
		}
	}
	return unknownLabel
}

// Ensure interface compliance
var _ useCases.WalletAnalyzer = (*Client)(nil)

// AnalyzeWallet counts ERC-20 transfer counterparties in both directions
// and returns the ten most frequent with best-effort labels. Fetch errors
// here degrade to an empty page rather than failing the request.
func (c *Client) AnalyzeWallet(ctx context.Context, wallet string) ([]model.CounterpartyStat, error) {
	wallet = strings.ToLower(wallet)

	txCount := make(map[string]int)

	outgoing := c.fetchTransferPage(ctx, assetTransferParams{
		FromBlock:        "0x0",
		ToBlock:          "latest",
		FromAddress:      wallet,
		Category:         []string{"erc20"},
		MaxCount:         transfersPageSize,
		ExcludeZeroValue: true,
		Order:            "desc",
	})
	for _, tx := range outgoing {
		txCount[strings.ToLower(tx.To)]++
	}

	incoming := c.fetchTransferPage(ctx, assetTransferParams{
		FromBlock:        "0x0",
		ToBlock:          "latest",
		ToAddress:        wallet,
		Category:         []string{"erc20"},
		MaxCount:         transfersPageSize,
		ExcludeZeroValue: true,
		Order:            "desc",
	})
	for _, tx := range incoming {
		txCount[strings.ToLower(tx.From)]++
	}

	peers := make([]model.CounterpartyStat, 0, len(txCount))
	for peer, count := range txCount {
		label := addressLabel(peer)
		peerType := "wallet"
		if label != unknownLabel {
			peerType = "protocol/cex"
		}
		peers = append(peers, model.CounterpartyStat{
			Counterparty: peer,
			TxCount:      count,
			Type:         peerType,
			Label:        label,
		})
	}

	sort.Slice(peers, func(i, j int) bool {
		if peers[i].TxCount != peers[j].TxCount {
			return peers[i].TxCount > peers[j].TxCount
		}
		return peers[i].Counterparty < peers[j].Counterparty
	})
	if len(peers) > 10 {
		peers = peers[:10]
	}
	return peers, nil
}

// fetchTransferPage fetches a single page of transfers, swallowing errors.
func (c *Client) fetchTransferPage(ctx context.Context, params assetTransferParams) []model.RawTransfer {
	var result struct {
		Result assetTransferResult `json:"result"`
	}
	if err := c.call(ctx, "alchemy_getAssetTransfers", []any{params}, &result); err != nil {
		log.Printf("Error fetching transfers: %v", err)
		return nil
	}
	return result.Result.Transfers
}
