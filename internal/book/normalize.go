// Package book reconciles the engine's loosely-typed order-book snapshot into
// the canonical bid/ask form defined by domain.BookSnapshot.
//
// The /orderbook endpoint transmits a 2-element array of price->level maps,
// but the element order and level placement are not guaranteed: levels can
// arrive swapped across slots or carry the wrong side. Normalize classifies
// the raw shape and regroups levels by side when needed. The classification
// samples only the first order of each level; a level whose members have
// mixed sides is moved wholesale to the bucket of its first member. That
// matches the engine's own bookkeeping and is deliberately not "fixed" here.
package book

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/matchdash-io/matchdash/internal/domain"
)

// Classification is the result of inspecting a parsed two-slot snapshot.
type Classification int

const (
	// AlreadyCanonical means slot 0 holds only Buy-led levels and slot 1
	// only Sell-led levels, with no empty levels; the input can be trusted
	// as-is.
	AlreadyCanonical Classification = iota
	// NeedsRegrouping means at least one level is empty, missing its
	// expected side, or sitting in the wrong slot.
	NeedsRegrouping
)

// slotSides maps slot index to the side its levels are expected to lead with.
var slotSides = [2]domain.Side{domain.SideBuy, domain.SideSell}

// Classify inspects the two slots of a raw snapshot. Each non-empty level is
// judged by its first order only: a single sample per level is trusted as
// representative of the whole queue. Empty levels force regrouping because
// the canonical form never retains them.
func Classify(slots [2]map[string]domain.PriceLevel) Classification {
	for i, slot := range slots {
		want := slotSides[i]
		for _, level := range slot {
			if len(level) == 0 || level[0].Side != want {
				return NeedsRegrouping
			}
		}
	}
	return AlreadyCanonical
}

// Normalize parses a raw /orderbook body and returns the canonical snapshot.
// It returns domain.ErrBookUnavailable when the body is not a 2-element array
// of two non-null JSON objects mapping price keys to order lists.
//
// Normalize is idempotent: re-encoding its output and normalizing again
// yields the same result, because the fast path recognizes canonical input.
func Normalize(raw []byte) (domain.BookSnapshot, error) {
	slots, err := parseSlots(raw)
	if err != nil {
		return domain.BookSnapshot{}, fmt.Errorf("book: %w: %v", domain.ErrBookUnavailable, err)
	}

	if Classify(slots) == AlreadyCanonical {
		return domain.BookSnapshot{Bids: slots[0], Asks: slots[1]}, nil
	}
	return regroup(slots), nil
}

// parseSlots decodes the raw body into exactly two price->level maps. A slot
// that is a JSON array, null, or any non-object value is rejected.
func parseSlots(raw []byte) ([2]map[string]domain.PriceLevel, error) {
	var slots [2]map[string]domain.PriceLevel

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return slots, fmt.Errorf("snapshot is not an array: %w", err)
	}
	if len(elems) != 2 {
		return slots, fmt.Errorf("snapshot has %d slots, want 2", len(elems))
	}

	for i, elem := range elems {
		trimmed := bytes.TrimSpace(elem)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			return slots, fmt.Errorf("slot %d is not an object", i)
		}
		m := make(map[string]domain.PriceLevel)
		if err := json.Unmarshal(elem, &m); err != nil {
			return slots, fmt.Errorf("slot %d: %w", i, err)
		}
		slots[i] = m
	}
	return slots, nil
}

// regroup flattens both slots and redistributes every level by the side of
// its first order. Empty levels are dropped entirely; their price keys do not
// survive into either output map. The output always has exactly two maps,
// even when both end up empty.
func regroup(slots [2]map[string]domain.PriceLevel) domain.BookSnapshot {
	out := domain.BookSnapshot{
		Bids: make(map[string]domain.PriceLevel),
		Asks: make(map[string]domain.PriceLevel),
	}
	for _, slot := range slots {
		for price, level := range slot {
			if len(level) == 0 {
				continue
			}
			if level[0].Side == domain.SideBuy {
				out.Bids[price] = level
			} else {
				out.Asks[price] = level
			}
		}
	}
	return out
}
