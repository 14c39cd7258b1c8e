// Package tier implements the threshold tables shared by every payout rule.
//
// A Table is an ordered list of [Threshold, UpTo] ranges with a rate or flat
// amount attached. Tables are tolerated unsorted, with gaps or with overlaps:
// lookups always work on an ascending copy and never mutate the caller's data.
package tier

import (
	"encoding/json"
	"math"
	"sort"
)

// Unbounded marks an open-ended upper limit.
var Unbounded = math.Inf(1)

// Tier is a single threshold range. Rate is a fraction for marginal
// commission tables and a flat currency amount for bonus tables.
type Tier struct {
	Threshold float64
	UpTo      float64
	Rate      float64
}

// IsUnbounded reports whether the tier has no upper limit.
func (t Tier) IsUnbounded() bool {
	return math.IsInf(t.UpTo, 1)
}

// Contains reports whether value falls in the inclusive range of the tier.
func (t Tier) Contains(value float64) bool {
	return value >= t.Threshold && value <= t.UpTo
}

type tierJSON struct {
	Threshold float64  `json:"threshold"`
	UpTo      *float64 `json:"upTo"`
	Rate      float64  `json:"rate"`
}

// MarshalJSON encodes an unbounded UpTo as null since JSON has no infinity.
func (t Tier) MarshalJSON() ([]byte, error) {
	out := tierJSON{Threshold: t.Threshold, Rate: t.Rate}
	if !t.IsUnbounded() {
		upTo := t.UpTo
		out.UpTo = &upTo
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a missing or null upTo as Unbounded.
func (t *Tier) UnmarshalJSON(data []byte) error {
	var in tierJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	t.Threshold = in.Threshold
	t.Rate = in.Rate
	t.UpTo = Unbounded
	if in.UpTo != nil {
		t.UpTo = *in.UpTo
	}
	return nil
}

// Table is a list of tiers in configuration order.
type Table []Tier

// Sorted returns a copy ordered by ascending threshold. Ties keep their
// configured order.
func (t Table) Sorted() Table {
	sorted := make(Table, len(t))
	copy(sorted, t)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Threshold < sorted[j].Threshold
	})
	return sorted
}

// Clone returns an independent copy of the table.
func (t Table) Clone() Table {
	if t == nil {
		return nil
	}
	out := make(Table, len(t))
	copy(out, t)
	return out
}

// WithOpenTop returns a copy whose last configured tier is unbounded.
func (t Table) WithOpenTop() Table {
	out := t.Clone()
	if len(out) > 0 {
		out[len(out)-1].UpTo = Unbounded
	}
	return out
}

// Match returns the first tier, in ascending threshold order, whose inclusive
// range contains value.
func (t Table) Match(value float64) (Tier, bool) {
	for _, tr := range t.Sorted() {
		if tr.Contains(value) {
			return tr, true
		}
	}
	return Tier{}, false
}

// Flat returns the rate of the matching tier, or 0 when value falls in a gap
// or below every threshold.
func (t Table) Flat(value float64) float64 {
	tr, ok := t.Match(value)
	if !ok {
		return 0
	}
	return tr.Rate
}

// Marginal accumulates (min(value, upTo) - threshold) * rate over every tier
// the value exceeds. A tier whose upTo lies below its threshold contributes
// a negative slice; such tables are reported by validation, not rejected here.
func (t Table) Marginal(value float64) float64 {
	var total float64
	for _, tr := range t.Sorted() {
		if value <= tr.Threshold {
			continue
		}
		top := math.Min(value, tr.UpTo)
		total += (top - tr.Threshold) * tr.Rate
	}
	return total
}

// NextThreshold returns the smallest threshold strictly above value.
func (t Table) NextThreshold(value float64) (float64, bool) {
	for _, tr := range t.Sorted() {
		if tr.Threshold > value {
			return tr.Threshold, true
		}
	}
	return 0, false
}
