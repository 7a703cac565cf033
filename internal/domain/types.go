// Package domain defines the core types shared across matchdash: orders and
// trades as the matching engine transmits them, the canonical order-book
// snapshot, bot state, and the interfaces the components depend on.
package domain

import "context"

// Side indicates the direction of an order.
type Side string

const (
	SideBuy  Side = "Buy"
	SideSell Side = "Sell"
)

// OrderType distinguishes priced limit orders from market orders.
type OrderType string

const (
	OrderTypeLimit  OrderType = "Limit"
	OrderTypeMarket OrderType = "Market"
)

// Order is a resting order as the engine reports it inside an order-book
// snapshot. Price is nil exactly when Type is Market.
type Order struct {
	ID       uint64    `json:"id,omitempty"`
	Side     Side      `json:"side"`
	Type     OrderType `json:"order_type"`
	Price    *float64  `json:"price"`
	Quantity float64   `json:"quantity"`
}

// OrderRequest is the payload for submitting a new order to the engine.
// Price must be nil for market orders.
type OrderRequest struct {
	Side     Side      `json:"side"`
	Type     OrderType `json:"order_type"`
	Price    *float64  `json:"price,omitempty"`
	Quantity float64   `json:"quantity"`
}

// Trade is one execution reported by the engine. Trades are immutable once
// received; the client replaces its whole list on every poll rather than
// merging increments. Timestamp is optional on the wire.
type Trade struct {
	BuyOrderID  uint64   `json:"buy_order_id"`
	SellOrderID uint64   `json:"sell_order_id"`
	Price       float64  `json:"price"`
	Quantity    float64  `json:"quantity"`
	Timestamp   *int64   `json:"timestamp,omitempty"`
}

// PriceLevel is the queue of orders resting at one price, in the engine's
// queue order. The client never reorders within a level.
type PriceLevel = []Order

// BookSnapshot is a canonical order-book snapshot: every order under Bids has
// side Buy and every order under Asks has side Sell. Keys are the engine's
// numeric price keys as transmitted (strings).
type BookSnapshot struct {
	Bids map[string]PriceLevel `json:"bids"`
	Asks map[string]PriceLevel `json:"asks"`
}

// Stats is the open label-to-value mapping returned by the engine's stats
// endpoint. The schema is not fixed; it is rendered generically.
type Stats map[string]any

// BotMode is the lifecycle state of the simulated bot.
type BotMode string

const (
	BotIdle    BotMode = "idle"
	BotRunning BotMode = "running"
)

// BotStatus is a point-in-time view of the bot for status APIs.
type BotStatus struct {
	Mode     BotMode `json:"mode"`
	Strategy string  `json:"strategy,omitempty"`
}

// Bus provides in-process pub/sub used to push panel updates to the
// WebSocket hub. Publish never blocks on slow subscribers.
type Bus interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
}

// Bus channels carrying dashboard updates.
const (
	ChannelBook      = "panel:book"
	ChannelTrades    = "panel:trades"
	ChannelStats     = "panel:stats"
	ChannelLastPrice = "lastprice"
	ChannelChart     = "chart"
	ChannelBot       = "bot:status"
)
