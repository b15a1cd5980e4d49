package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"walletVolumeApp/internal/domain/model"
	"walletVolumeApp/internal/domain/repository"
	"walletVolumeApp/internal/domain/useCases"
)

// dayOffsets is the tolerance order when the exact day has no price point:
// the requested day first, then the day before, then the day after.
var dayOffsets = [3]int64{0, -model.SecondsInDay, model.SecondsInDay}

// TokenPriceResolver resolves USD unit prices with a day-keyed cache, a
// stablecoin shortcut, a same-day hourly shortcut and a bulk historical
// fallback. Provider failures degrade to "no price"; they never abort an
// aggregation run.
type TokenPriceResolver struct {
	cache        *PriceCache
	source       repository.PriceSeriesSource
	stablecoins  map[string]float64 // normalized address -> peg price
	nativeToken  string             // native coin sentinel address
	wrappedToken string             // canonical wrapped-token address
	lookbackDays int
	log          *slog.Logger
	now          func() time.Time // injected for tests
}

// PriceResolverConfig carries the chain-specific knobs for the resolver.
type PriceResolverConfig struct {
	Stablecoins  []string // peg each of these at 1.0 USD
	NativeToken  string
	WrappedToken string
	LookbackDays int
}

func NewTokenPriceResolver(cache *PriceCache, source repository.PriceSeriesSource, cfg PriceResolverConfig, log *slog.Logger) *TokenPriceResolver {
	stables := make(map[string]float64, len(cfg.Stablecoins))
	for _, addr := range cfg.Stablecoins {
		stables[strings.ToLower(addr)] = 1.0
	}

	lookback := cfg.LookbackDays
	if lookback <= 0 {
		lookback = 150
	}

	return &TokenPriceResolver{
		cache:        cache,
		source:       source,
		stablecoins:  stables,
		nativeToken:  strings.ToLower(cfg.NativeToken),
		wrappedToken: strings.ToLower(cfg.WrappedToken),
		lookbackDays: lookback,
		log:          log,
		now:          time.Now,
	}
}

// Ensure interface compliance
var _ useCases.PriceResolver = (*TokenPriceResolver)(nil)

// NormalizeToken lowercases the address and maps the native coin sentinel
// to its wrapped-token equivalent.
func (r *TokenPriceResolver) NormalizeToken(token string) string {
	token = strings.ToLower(token)
	if token == r.nativeToken {
		return r.wrappedToken
	}
	return token
}

// Resolve returns the USD unit price for the token on the UTC day
// containing at. The cache guarantees at most one provider fetch per
// (token, day) for the life of the process.
func (r *TokenPriceResolver) Resolve(ctx context.Context, token string, at time.Time) (float64, bool) {
	token = r.NormalizeToken(token)

	if peg, ok := r.stablecoins[token]; ok {
		return peg, true
	}

	day := model.DayStartUnix(at)

	if price, ok := r.cache.Get(token, day); ok {
		// A cached zero records a day the provider has no price for.
		return price, price > 0
	}

	today := model.DayStartUnix(r.now())
	if day == today {
		return r.resolveToday(ctx, token, day)
	}

	// Tolerate a one-day gap in the series before going to the network.
	if price, ok := r.nearbyPrice(token, day); ok {
		return price, price > 0
	}

	series, err := r.source.FetchDailyPrices(ctx, token, r.lookbackDays)
	if err != nil {
		r.log.Warn("daily price fetch failed", "token", token, "err", err)
		return 0, false
	}
	for _, point := range series {
		r.cache.Put(token, point.Day, point.PriceUSD)
	}

	if price, ok := r.nearbyPrice(token, day); ok {
		return price, price > 0
	}

	// Nothing in the whole lookback window. Cache the miss so an unlisted
	// token costs one fetch, not one per transfer.
	r.cache.Put(token, day, 0)
	return 0, false
}

// resolveToday serves the current UTC day from the hourly feed, since the
// daily series has no point for an unfinished day.
func (r *TokenPriceResolver) resolveToday(ctx context.Context, token string, day int64) (float64, bool) {
	price, ok, err := r.source.FetchLatestHourlyPrice(ctx, token)
	if err != nil {
		r.log.Warn("hourly price fetch failed", "token", token, "err", err)
		return 0, false
	}
	if !ok {
		// Not cached: a later call in the same run may succeed once the
		// provider has an hourly point.
		return 0, false
	}
	r.cache.Put(token, day, price)
	return price, price > 0
}

// nearbyPrice checks the cache for day, day-1 and day+1 in that order.
func (r *TokenPriceResolver) nearbyPrice(token string, day int64) (float64, bool) {
	for _, delta := range dayOffsets {
		if price, ok := r.cache.Get(token, day+delta); ok {
			if delta != 0 {
				r.log.Debug("using price from adjacent day", "token", token, "offset_days", delta/model.SecondsInDay)
			}
			return price, true
		}
	}
	return 0, false
}
