// Package render turns canonical order-book, trade, and stats data into
// renderable view structures. Every function here is pure: no I/O, no clock,
// no mutation of its inputs. Malformed or partial input degrades to the
// documented empty/placeholder states instead of failing.
package render

import (
	"sort"
	"strconv"

	"github.com/matchdash-io/matchdash/internal/domain"
)

const (
	// Dash is the placeholder shown for a missing price, quantity, or
	// timestamp.
	Dash = "-"

	// MarketLabel is shown in place of a price for market orders.
	MarketLabel = "Market"

	BookUnavailableText = "Order book unavailable."
	NoBuyOrdersText     = "No buy orders"
	NoSellOrdersText    = "No sell orders"
)

// Row is one rendered order-book table row.
type Row struct {
	Side     string `json:"side"`
	Price    string `json:"price"`
	Quantity string `json:"quantity"`
}

// SideTable is one side of the rendered order book. When Rows is empty the
// Empty placeholder text is set, so a frontend renders a single full-width
// placeholder row rather than an empty table.
type SideTable struct {
	Title string `json:"title"`
	Rows  []Row  `json:"rows"`
	Empty string `json:"empty,omitempty"`
}

// BookView is the rendered order book. Unavailable is set (and both tables
// zero) when the snapshot could not be normalized.
type BookView struct {
	Unavailable string    `json:"unavailable,omitempty"`
	Buys        SideTable `json:"buys"`
	Sells       SideTable `json:"sells"`
}

// BookUnavailable is the view shown when the snapshot shape was rejected.
func BookUnavailable() BookView {
	return BookView{Unavailable: BookUnavailableText}
}

// Book renders a canonical snapshot. Bid price keys are sorted numerically
// descending, ask keys ascending. Within one level, rows keep the engine's
// queue order.
func Book(snap domain.BookSnapshot) BookView {
	return BookView{
		Buys:  sideTable("Buy Orders", snap.Bids, NoBuyOrdersText, true),
		Sells: sideTable("Sell Orders", snap.Asks, NoSellOrdersText, false),
	}
}

func sideTable(title string, levels map[string]domain.PriceLevel, empty string, desc bool) SideTable {
	t := SideTable{Title: title}
	for _, price := range sortedPrices(levels, desc) {
		for _, o := range levels[price] {
			t.Rows = append(t.Rows, Row{
				Side:     string(o.Side),
				Price:    priceCell(o),
				Quantity: quantityCell(o),
			})
		}
	}
	if len(t.Rows) == 0 {
		t.Empty = empty
	}
	return t
}

// sortedPrices orders the level keys by their numeric value. Keys that do not
// parse sort to the end; their levels still render.
func sortedPrices(levels map[string]domain.PriceLevel, desc bool) []string {
	keys := make([]string, 0, len(levels))
	for k := range levels {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.ParseFloat(keys[i], 64)
		b, errB := strconv.ParseFloat(keys[j], 64)
		switch {
		case errA != nil && errB != nil:
			return keys[i] < keys[j]
		case errA != nil:
			return false
		case errB != nil:
			return true
		case desc:
			return a > b
		default:
			return a < b
		}
	})
	return keys
}

func priceCell(o domain.Order) string {
	if o.Price == nil {
		if o.Type == domain.OrderTypeMarket {
			return MarketLabel
		}
		return Dash
	}
	return Amount(*o.Price)
}

// quantityCell renders a dash when the quantity field was absent from the
// wire payload (it decodes as zero; valid orders always carry quantity > 0).
func quantityCell(o domain.Order) string {
	if o.Quantity == 0 {
		return Dash
	}
	return Amount(o.Quantity)
}

// Amount formats a price or quantity to two decimal places.
func Amount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
