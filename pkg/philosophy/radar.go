package philosophy

import "math"

// Radar holds six 0-10 axis values: size of prize, below-target share,
// at-target share, above-target share, near-miss and psychological distance.
type Radar [6]float64

// RadarAxes names the radar axes in order.
var RadarAxes = [6]string{
	"Size of Prize",
	"Below Target",
	"At Target",
	"Above Target",
	"Near-Miss",
	"Psych Distance",
}

func radarFor(m Metrics) Radar {
	return Radar{
		float64(m.SizeOfPrize.Score),
		math.Min(10, m.Distribution.BelowTargetShare/5),
		math.Min(10, m.Distribution.AtTargetShare/3),
		math.Min(10, m.Distribution.AboveTargetShare/6),
		float64(m.Psychology.NearMiss.Score),
		float64(m.Psychology.PsychDistance.Score),
	}
}

// Project estimates the radar after following recommendations for goal.
// Every axis is capped at 10.
func (r Radar) Project(goal Goal) Radar {
	out := r
	switch goal {
	case GoalTarget:
		out[2] *= 1.3
		out[4] *= 1.3
	case GoalTopPerformers:
		out[0] *= 1.2
		out[3] *= 1.4
	case GoalBalance:
		out[1] *= 1.3
		for i, v := range out {
			if v < 4 {
				out[i] = v * 1.2
			}
		}
	default:
		lowest := out[0]
		for _, v := range out[1:] {
			lowest = math.Min(lowest, v)
		}
		for i, v := range out {
			if v == lowest {
				out[i] = v * 1.3
			}
		}
	}
	for i, v := range out {
		out[i] = math.Min(10, v)
	}
	return out
}
