// Package alchemy implements the transfer-history, block-timestamp and
// token-metadata collaborators on top of the Alchemy JSON-RPC API.
package alchemy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"

	"walletVolumeApp/internal/domain/model"
	"walletVolumeApp/internal/domain/repository"
)

const (
	defaultTimeout = 30 * time.Second

	decimalsCacheSize = 1024
	decimalsCacheTTL  = 24 * time.Hour

	// transfersPageSize is the maxCount parameter, hex-encoded (100).
	transfersPageSize = "0x64"

	defaultDecimals = 18
)

// Client talks to one Alchemy endpoint.
type Client struct {
	url         string
	http        *http.Client
	nativeToken string

	// decimals are immutable per token; the TTL only bounds memory for
	// long-lived processes scanning many tokens.
	decimalsCache *lru.LRU[string, int]
}

func NewClient(url, nativeToken string) *Client {
	return &Client{
		url:           url,
		http:          &http.Client{Timeout: defaultTimeout},
		nativeToken:   strings.ToLower(nativeToken),
		decimalsCache: lru.NewLRU[string, int](decimalsCacheSize, nil, decimalsCacheTTL),
	}
}

// Ensure interface compliance
var _ repository.TransferSource = (*Client)(nil)
var _ repository.BlockTimeSource = (*Client)(nil)
var _ repository.TokenMetadataSource = (*Client)(nil)

// rpcRequest is the JSON-RPC 2.0 envelope.
type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
}

// assetTransferParams is the parameter object of alchemy_getAssetTransfers.
type assetTransferParams struct {
	FromBlock        string   `json:"fromBlock"`
	ToBlock          string   `json:"toBlock"`
	FromAddress      string   `json:"fromAddress,omitempty"`
	ToAddress        string   `json:"toAddress,omitempty"`
	Category         []string `json:"category"`
	MaxCount         string   `json:"maxCount"`
	ExcludeZeroValue bool     `json:"excludeZeroValue"`
	Order            string   `json:"order"`
	PageKey          string   `json:"pageKey,omitempty"`
}

type assetTransferResult struct {
	Transfers []model.RawTransfer `json:"transfers"`
	PageKey   string              `json:"pageKey"`
}

// FetchIncomingTransfers pages through alchemy_getAssetTransfers until no
// continuation key remains. Transfers come back newest first. A non-200
// response or a transport error is returned to the caller: the transfer
// history is the one fetch that is allowed to fail the pipeline.
func (c *Client) FetchIncomingTransfers(ctx context.Context, wallet string) ([]model.RawTransfer, error) {
	var transfers []model.RawTransfer
	pageKey := ""

	for {
		params := assetTransferParams{
			FromBlock:        "0x0",
			ToBlock:          "latest",
			ToAddress:        strings.ToLower(wallet),
			Category:         []string{"erc20", "external"},
			MaxCount:         transfersPageSize,
			ExcludeZeroValue: true,
			Order:            "desc",
			PageKey:          pageKey,
		}

		var result struct {
			Result assetTransferResult `json:"result"`
		}
		if err := c.call(ctx, "alchemy_getAssetTransfers", []any{params}, &result); err != nil {
			return nil, fmt.Errorf("failed to fetch transfers: %w", err)
		}

		transfers = append(transfers, result.Result.Transfers...)

		pageKey = result.Result.PageKey
		if pageKey == "" {
			break
		}
	}

	return transfers, nil
}

// BlockTimestamp resolves a hex block number to its unix timestamp via
// eth_getBlockByNumber. Failures degrade to ok=false.
func (c *Client) BlockTimestamp(ctx context.Context, blockNumHex string) (int64, bool) {
	var result struct {
		Result *struct {
			Timestamp string `json:"timestamp"`
		} `json:"result"`
	}
	if err := c.call(ctx, "eth_getBlockByNumber", []any{blockNumHex, false}, &result); err != nil {
		log.Printf("Failed to fetch block %s timestamp: %v", blockNumHex, err)
		return 0, false
	}
	if result.Result == nil || result.Result.Timestamp == "" {
		return 0, false
	}

	unix, err := strconv.ParseInt(strings.TrimPrefix(result.Result.Timestamp, "0x"), 16, 64)
	if err != nil {
		log.Printf("Error parsing timestamp for block %s: %v", blockNumHex, err)
		return 0, false
	}
	return unix, true
}

// TokenDecimals returns the token's decimal places from
// alchemy_getTokenMetadata, defaulting to 18 on any failure. Results are
// cached per token.
func (c *Client) TokenDecimals(ctx context.Context, token string) int {
	token = strings.ToLower(token)
	if token == c.nativeToken {
		return defaultDecimals
	}

	if decimals, ok := c.decimalsCache.Get(token); ok {
		return decimals
	}

	var result struct {
		Result struct {
			Decimals *int `json:"decimals"`
		} `json:"result"`
	}
	decimals := defaultDecimals
	if err := c.call(ctx, "alchemy_getTokenMetadata", []any{token}, &result); err != nil {
		log.Printf("Failed to get decimals for %s: %v", token, err)
	} else if result.Result.Decimals != nil {
		decimals = *result.Result.Decimals
	}

	c.decimalsCache.Add(token, decimals)
	return decimals
}

// call performs one JSON-RPC round trip and decodes the response into out.
func (c *Client) call(ctx context.Context, method string, params any, out any) error {
	payload, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%s returned status %d: %s", method, resp.StatusCode, string(body))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
