package tier

import (
	"encoding/json"
	"math"
	"testing"
)

func quarterlyTable() Table {
	return Table{
		{Threshold: 90, UpTo: 99, Rate: 1200},
		{Threshold: 100, UpTo: 104, Rate: 1600},
		{Threshold: 105, UpTo: 114, Rate: 2000},
		{Threshold: 115, UpTo: 129, Rate: 2400},
		{Threshold: 130, UpTo: Unbounded, Rate: 2800},
	}
}

func TestFlatInclusiveBoundaries(t *testing.T) {
	table := quarterlyTable()

	tests := []struct {
		name     string
		value    float64
		expected float64
	}{
		{"Below first threshold", 89.9, 0},
		{"First threshold inclusive", 90, 1200},
		{"Mid first tier", 97, 1200},
		{"Upper bound inclusive", 99, 1200},
		{"Gap between tiers", 99.5, 0},
		{"Second threshold inclusive", 100, 1600},
		{"Open top", 500, 2800},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := table.Flat(tt.value); result != tt.expected {
				t.Errorf("Flat(%.1f) = %.2f, expected %.2f", tt.value, result, tt.expected)
			}
		})
	}
}

func TestMatchUnsortedAndOverlapping(t *testing.T) {
	table := Table{
		{Threshold: 100, UpTo: 120, Rate: 2},
		{Threshold: 90, UpTo: 110, Rate: 1},
	}

	tr, ok := table.Match(105)
	if !ok {
		t.Fatal("expected a match for 105")
	}
	if tr.Rate != 1 {
		t.Errorf("Match(105) picked rate %.0f, expected the lower-threshold tier", tr.Rate)
	}
	if table[0].Threshold != 100 {
		t.Error("Match must not reorder the caller's table")
	}
}

func TestMarginal(t *testing.T) {
	table := Table{
		{Threshold: 10000, UpTo: 25000, Rate: 0.02},
		{Threshold: 25000, UpTo: 40000, Rate: 0.04},
		{Threshold: 40000, UpTo: Unbounded, Rate: 0.06},
	}

	tests := []struct {
		name     string
		value    float64
		expected float64
	}{
		{"Below first threshold", 9000, 0},
		{"At first threshold", 10000, 0},
		{"Inside first tier", 20000, 200},
		{"Spanning two tiers", 30000, 500},
		{"Spanning all tiers", 50000, 1500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := table.Marginal(tt.value)
			if math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("Marginal(%.0f) = %.4f, expected %.4f", tt.value, result, tt.expected)
			}
		})
	}
}

func TestWithOpenTopAndNextThreshold(t *testing.T) {
	table := Table{
		{Threshold: 100, UpTo: 104, Rate: 400},
		{Threshold: 130, UpTo: 150, Rate: 750},
	}.WithOpenTop()

	if !table[1].IsUnbounded() {
		t.Error("expected last configured tier to be unbounded")
	}
	if table.Flat(1000) != 750 {
		t.Errorf("Flat(1000) = %.0f, expected 750", table.Flat(1000))
	}

	next, ok := table.NextThreshold(110)
	if !ok || next != 130 {
		t.Errorf("NextThreshold(110) = %.0f, %v, expected 130, true", next, ok)
	}
	if _, ok := table.NextThreshold(130); ok {
		t.Error("NextThreshold(130) should find nothing")
	}
}

func TestTierJSON(t *testing.T) {
	data, err := json.Marshal(Table{{Threshold: 130, UpTo: Unbounded, Rate: 2800}})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `[{"threshold":130,"upTo":null,"rate":2800}]` {
		t.Errorf("unexpected JSON: %s", data)
	}

	var decoded Table
	if err := json.Unmarshal([]byte(`[{"threshold":90,"upTo":99,"rate":1200},{"threshold":130,"rate":2800}]`), &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded[0].UpTo != 99 || !decoded[1].IsUnbounded() {
		t.Errorf("unexpected decoded table: %+v", decoded)
	}
}
