// Package thegraph implements the price-series collaborator against a
// Graph-gateway subgraph exposing tokenDayDatas and tokenHourDatas.
package thegraph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"walletVolumeApp/internal/domain/model"
	"walletVolumeApp/internal/domain/repository"
)

const defaultTimeout = 10 * time.Second

// The two query shapes are fixed: a daily series for historical lookups
// and a single latest hourly point for the current day.
const tokenDayDatasQuery = `
	query TokenDayDatas($tokenId: String!, $first: Int!) {
	  tokenDayDatas(
	    first: $first,
	    where: { token: $tokenId },
	    orderBy: date,
	    orderDirection: asc
	  ) {
	    date
	    priceUSD
	  }
	}`

const tokenHourDatasQuery = `
	query TokenHourDatas($tokenId: String!) {
	  tokenHourDatas(
	    first: 1,
	    where: { token: $tokenId },
	    orderBy: periodStartUnix,
	    orderDirection: desc
	  ) {
	    periodStartUnix
	    priceUSD
	  }
	}`

// Client posts GraphQL queries to one subgraph endpoint.
type Client struct {
	url  string
	http *http.Client
}

func NewClient(url string) *Client {
	return &Client{
		url:  url,
		http: &http.Client{Timeout: defaultTimeout},
	}
}

// Ensure interface compliance
var _ repository.PriceSeriesSource = (*Client)(nil)

type graphRequest struct {
	Query     string `json:"query"`
	Variables any    `json:"variables"`
}

type graphError struct {
	Message string `json:"message"`
}

// tokenDayData mirrors one tokenDayDatas entity. The subgraph serializes
// BigDecimal fields as strings.
type tokenDayData struct {
	Date     int64  `json:"date"`
	PriceUSD string `json:"priceUSD"`
}

type tokenHourData struct {
	PeriodStartUnix int64  `json:"periodStartUnix"`
	PriceUSD        string `json:"priceUSD"`
}

type dayDatasVariables struct {
	TokenID string `json:"tokenId"`
	First   int    `json:"first"`
}

type hourDatasVariables struct {
	TokenID string `json:"tokenId"`
}

// FetchDailyPrices returns up to days daily price points for the token,
// oldest first, with each point aligned to its UTC day start.
func (c *Client) FetchDailyPrices(ctx context.Context, token string, days int) ([]model.PricePoint, error) {
	var response struct {
		Data struct {
			TokenDayDatas []tokenDayData `json:"tokenDayDatas"`
		} `json:"data"`
		Errors []graphError `json:"errors"`
	}

	vars := dayDatasVariables{TokenID: strings.ToLower(token), First: days}
	if err := c.execute(ctx, tokenDayDatasQuery, vars, &response); err != nil {
		return nil, err
	}
	if len(response.Errors) > 0 {
		return nil, fmt.Errorf("subgraph error: %s", response.Errors[0].Message)
	}

	points := make([]model.PricePoint, 0, len(response.Data.TokenDayDatas))
	for _, dayData := range response.Data.TokenDayDatas {
		price, err := strconv.ParseFloat(dayData.PriceUSD, 64)
		if err != nil {
			price = 0
		}
		points = append(points, model.PricePoint{
			Day:      dayData.Date - dayData.Date%model.SecondsInDay,
			PriceUSD: price,
		})
	}
	return points, nil
}

// FetchLatestHourlyPrice returns the most recent hourly price point, or
// ok=false when the subgraph has none for the token.
func (c *Client) FetchLatestHourlyPrice(ctx context.Context, token string) (float64, bool, error) {
	var response struct {
		Data struct {
			TokenHourDatas []tokenHourData `json:"tokenHourDatas"`
		} `json:"data"`
		Errors []graphError `json:"errors"`
	}

	vars := hourDatasVariables{TokenID: strings.ToLower(token)}
	if err := c.execute(ctx, tokenHourDatasQuery, vars, &response); err != nil {
		return 0, false, err
	}
	if len(response.Errors) > 0 {
		return 0, false, fmt.Errorf("subgraph error: %s", response.Errors[0].Message)
	}

	if len(response.Data.TokenHourDatas) == 0 {
		return 0, false, nil
	}

	price, err := strconv.ParseFloat(response.Data.TokenHourDatas[0].PriceUSD, 64)
	if err != nil {
		return 0, false, fmt.Errorf("malformed priceUSD %q: %w", response.Data.TokenHourDatas[0].PriceUSD, err)
	}
	return price, true, nil
}

// execute performs one GraphQL round trip.
func (c *Client) execute(ctx context.Context, query string, variables any, out any) error {
	payload, err := json.Marshal(graphRequest{Query: query, Variables: variables})
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
		return fmt.Errorf("subgraph returned status %d: %s", resp.StatusCode, string(body))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
