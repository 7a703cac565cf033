// Package export serializes the current trade list to the downloadable CSV
// artifact.
package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matchdash-io/matchdash/internal/domain"
)

// DefaultFilename is the suggested download name for the export.
const DefaultFilename = "trades.csv"

// TradesCSV serializes trades as UTF-8, comma-separated text with \n line
// endings. The header carries the first trade's field names in wire order;
// the timestamp column appears only when the first trade has one. Every value
// is double-quoted, with a missing timestamp rendered as an empty quoted
// string. Output is always len(trades)+1 lines.
//
// An empty list returns domain.ErrNoTrades instead of an empty file.
//
// Values are plain numbers, so quoting is a straight wrap; encoding/csv is
// not used because it cannot force quotes around every field.
func TradesCSV(trades []domain.Trade) ([]byte, error) {
	if len(trades) == 0 {
		return nil, domain.ErrNoTrades
	}

	withTimestamp := trades[0].Timestamp != nil

	header := []string{"buy_order_id", "sell_order_id", "price", "quantity"}
	if withTimestamp {
		header = append(header, "timestamp")
	}

	var b strings.Builder
	writeRow(&b, header)

	for _, t := range trades {
		row := []string{
			strconv.FormatUint(t.BuyOrderID, 10),
			strconv.FormatUint(t.SellOrderID, 10),
			formatNumber(t.Price),
			formatNumber(t.Quantity),
		}
		if withTimestamp {
			ts := ""
			if t.Timestamp != nil {
				ts = strconv.FormatInt(*t.Timestamp, 10)
			}
			row = append(row, ts)
		}
		writeRow(&b, row)
	}

	return []byte(b.String()), nil
}

func writeRow(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(b, "%q", f)
	}
	b.WriteByte('\n')
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
