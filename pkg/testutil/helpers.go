// Package testutil provides common utility functions for testing.
package testutil

import (
	"math"

	"github.com/iwvelando/payout-simulator/internal/comparison"
)

// FindRow finds the comparison row for a structure and profile name.
// Returns a pointer to the first matching row, nil otherwise.
func FindRow(rows []comparison.Row, structureName, profileName string) *comparison.Row {
	for i := range rows {
		if rows[i].StructureName == structureName && rows[i].ProfileName == profileName {
			return &rows[i]
		}
	}
	return nil
}

// AlmostEqual reports whether two amounts differ by no more than tolerance.
func AlmostEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}
