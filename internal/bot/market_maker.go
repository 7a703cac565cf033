package bot

import (
	"context"

	"github.com/matchdash-io/matchdash/internal/domain"
)

// StrategyMarketMaker is the registry name of the market maker.
const StrategyMarketMaker = "market_maker"

// DefaultReferencePrice is quoted around when no trades exist yet or the
// trade lookup fails.
const DefaultReferencePrice = 100

// MarketMaker quotes both sides around the last trade price: a buy at 0.99x
// and a sell at 1.01x the reference, each a limit order of quantity 1. The
// two submissions are independent requests with no atomicity between them.
type MarketMaker struct {
	trades   TradeSource
	fallback float64
}

// NewMarketMaker creates a MarketMaker reading its reference price from
// trades. fallback is used when no trades exist; a non-positive value means
// DefaultReferencePrice.
func NewMarketMaker(trades TradeSource, fallback float64) *MarketMaker {
	if fallback <= 0 {
		fallback = DefaultReferencePrice
	}
	return &MarketMaker{trades: trades, fallback: fallback}
}

func (m *MarketMaker) Name() string { return StrategyMarketMaker }

// Orders returns the two quotes for this tick. Reference-price lookup errors
// are swallowed and fall back to the default, keeping the simulation
// non-blocking.
func (m *MarketMaker) Orders(ctx context.Context) []domain.OrderRequest {
	ref := m.fallback
	if trades, err := m.trades.Trades(ctx); err == nil && len(trades) > 0 {
		ref = trades[len(trades)-1].Price
	}

	buy := round2(ref * 0.99)
	sell := round2(ref * 1.01)
	return []domain.OrderRequest{
		{Side: domain.SideBuy, Type: domain.OrderTypeLimit, Price: &buy, Quantity: 1},
		{Side: domain.SideSell, Type: domain.OrderTypeLimit, Price: &sell, Quantity: 1},
	}
}
