package render

import (
	"strconv"
	"time"

	"github.com/matchdash-io/matchdash/internal/domain"
)

const NoTradesText = "No trades yet."

// TradeRow is one rendered trade-history table row.
type TradeRow struct {
	BuyOrderID  string `json:"buy_order_id"`
	SellOrderID string `json:"sell_order_id"`
	Price       string `json:"price"`
	Quantity    string `json:"quantity"`
	Timestamp   string `json:"timestamp"`
}

// TradesView is the rendered trade history, oldest first (received order).
type TradesView struct {
	Rows  []TradeRow `json:"rows"`
	Empty string     `json:"empty,omitempty"`
}

// LastPriceView shows the price of the most recent trade.
type LastPriceView struct {
	Price string `json:"price,omitempty"`
	Empty string `json:"empty,omitempty"`
}

// Trades renders the trade list in received order, assumed chronological.
func Trades(trades []domain.Trade) TradesView {
	if len(trades) == 0 {
		return TradesView{Empty: NoTradesText}
	}
	v := TradesView{Rows: make([]TradeRow, 0, len(trades))}
	for _, t := range trades {
		v.Rows = append(v.Rows, TradeRow{
			BuyOrderID:  strconv.FormatUint(t.BuyOrderID, 10),
			SellOrderID: strconv.FormatUint(t.SellOrderID, 10),
			Price:       Amount(t.Price),
			Quantity:    Amount(t.Quantity),
			Timestamp:   timestampCell(t.Timestamp),
		})
	}
	return v
}

// LastPrice renders the price of the final trade in the list.
func LastPrice(trades []domain.Trade) LastPriceView {
	if len(trades) == 0 {
		return LastPriceView{Empty: NoTradesText}
	}
	return LastPriceView{Price: Amount(trades[len(trades)-1].Price)}
}

func timestampCell(ts *int64) string {
	if ts == nil {
		return Dash
	}
	return time.Unix(*ts, 0).Format("15:04:05")
}
