// Package rolling smooths monthly sales with a three-month trailing average
// before commission is computed.
package rolling

// Config controls smoothing. PreviousMonth1 is the older and PreviousMonth2
// the more recent of the two months preceding the first period.
type Config struct {
	Enabled        bool    `json:"enabled"`
	PreviousMonth1 float64 `json:"previousMonth1"`
	PreviousMonth2 float64 `json:"previousMonth2"`
}

// Smooth returns the value commission is computed on for period. When
// disabled the current value passes through unchanged. Neighbours outside
// months read as zero.
func (c Config) Smooth(current float64, period int, months []float64) float64 {
	if !c.Enabled {
		return current
	}

	switch period {
	case 0:
		return (current + c.PreviousMonth1 + c.PreviousMonth2) / 3
	case 1:
		return (current + c.PreviousMonth2 + at(months, 0)) / 3
	default:
		return (current + at(months, period-1) + at(months, period-2)) / 3
	}
}

func at(months []float64, i int) float64 {
	if i < 0 || i >= len(months) {
		return 0
	}
	return months[i]
}
