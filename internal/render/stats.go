package render

import (
	"fmt"
	"sort"

	"github.com/matchdash-io/matchdash/internal/domain"
)

const NoStatsText = "No stats available."

// StatsView is the rendered statistics panel: one "label: value" line per key
// of the engine's open stats mapping. The schema is not fixed by the client,
// so values render generically. Lines are sorted by label for a stable view.
type StatsView struct {
	Lines []string `json:"lines"`
	Empty string   `json:"empty,omitempty"`
}

// Stats renders the open label-to-value mapping.
func Stats(stats domain.Stats) StatsView {
	if len(stats) == 0 {
		return StatsView{Empty: NoStatsText}
	}
	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	v := StatsView{Lines: make([]string, 0, len(keys))}
	for _, k := range keys {
		v.Lines = append(v.Lines, fmt.Sprintf("%s: %v", k, stats[k]))
	}
	return v
}
