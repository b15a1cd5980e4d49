package model

// PriceKey uniquely identifies one cached price point: a normalized token
// address and a UTC-day-aligned unix timestamp.
type PriceKey struct {
	Token string
	Day   int64
}

// PricePoint is one day of a token's USD price series.
type PricePoint struct {
	Day      int64   // UTC day start, unix seconds
	PriceUSD float64 // unit price; 0.0 means unresolved, not free
}

// CounterpartyStat summarizes transfer activity between the analyzed wallet
// and one counterparty address.
type CounterpartyStat struct {
	Counterparty string `json:"counterparty"`
	TxCount      int    `json:"tx_count"`
	Type         string `json:"type"`
	Label        string `json:"label"`
}
