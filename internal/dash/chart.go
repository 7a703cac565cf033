package dash

import (
	"strconv"
	"time"

	"github.com/matchdash-io/matchdash/internal/domain"
)

// Chart is the rolling price-series chart kept in lock-step with the trade
// table. It is always rebuilt from the complete current trade list, never
// appended to, so chart and table agree within one refresh cycle.
type Chart struct {
	Labels []string  `json:"labels"`
	Prices []float64 `json:"prices"`
}

// BuildChart derives the chart series from a trade list. Labels come from
// each trade's timestamp formatted as a local time string, or its 1-based
// index when the timestamp is absent.
func BuildChart(trades []domain.Trade) Chart {
	c := Chart{
		Labels: make([]string, 0, len(trades)),
		Prices: make([]float64, 0, len(trades)),
	}
	for i, t := range trades {
		label := strconv.Itoa(i + 1)
		if t.Timestamp != nil {
			label = time.Unix(*t.Timestamp, 0).Format("15:04:05")
		}
		c.Labels = append(c.Labels, label)
		c.Prices = append(c.Prices, t.Price)
	}
	return c
}

// syncChartLocked rebuilds the chart from trades. The chart is created lazily
// on the first non-empty list; a completely empty list leaves a previously
// created chart untouched rather than clearing it.
func (s *State) syncChartLocked(trades []domain.Trade) {
	if len(trades) == 0 {
		return
	}
	s.chart = BuildChart(trades)
	s.chartExists = true
}

// Chart returns the current chart and whether it has been created yet.
func (s *State) Chart() (Chart, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chart, s.chartExists
}
