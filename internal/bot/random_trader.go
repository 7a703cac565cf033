package bot

import (
	"context"
	"math"
	"math/rand"

	"github.com/matchdash-io/matchdash/internal/domain"
)

// StrategyRandomTrader is the registry name of the random trader.
const StrategyRandomTrader = "random_trader"

// Random-trader bounds.
const (
	randomPriceMin = 50
	randomPriceMax = 150
	randomQtyMin   = 1
	randomQtyMax   = 6
)

// RandomTrader synthesizes one uniformly random order per tick: side 50/50,
// type 50/50, limit price in [50, 150], quantity in [1, 6], both rounded to
// two decimals. Market orders carry no price.
type RandomTrader struct {
	rng *rand.Rand
}

// NewRandomTrader creates a RandomTrader drawing from rng. rng is used from
// the bot's tick loop only, one tick at a time.
func NewRandomTrader(rng *rand.Rand) *RandomTrader {
	return &RandomTrader{rng: rng}
}

func (t *RandomTrader) Name() string { return StrategyRandomTrader }

// Orders returns exactly one synthesized order.
func (t *RandomTrader) Orders(_ context.Context) []domain.OrderRequest {
	side := domain.SideBuy
	if t.rng.Intn(2) == 1 {
		side = domain.SideSell
	}
	orderType := domain.OrderTypeLimit
	if t.rng.Intn(2) == 1 {
		orderType = domain.OrderTypeMarket
	}

	req := domain.OrderRequest{
		Side:     side,
		Type:     orderType,
		Quantity: round2(randomQtyMin + t.rng.Float64()*(randomQtyMax-randomQtyMin)),
	}
	if orderType == domain.OrderTypeLimit {
		price := round2(randomPriceMin + t.rng.Float64()*(randomPriceMax-randomPriceMin))
		req.Price = &price
	}
	return []domain.OrderRequest{req}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
