package philosophy

// Typicality places a value relative to the range common in sales plans.
type Typicality string

const (
	Below   Typicality = "below"
	Typical Typicality = "typical"
	Above   Typicality = "above"
)

// Text is the short qualifier shown next to a metric.
func (t Typicality) Text() string {
	switch t {
	case Below:
		return "(below typical range)"
	case Above:
		return "(above typical range)"
	default:
		return "(within typical range)"
	}
}

// Range is an inclusive typical range.
type Range struct {
	Low  float64
	High float64
}

// Classify reports where v lies relative to the range.
func (r Range) Classify(v float64) Typicality {
	if v < r.Low {
		return Below
	}
	if v > r.High {
		return Above
	}
	return Typical
}

// Typical ranges for sales compensation plans.
var (
	TypicalTargetMultiple = Range{Low: 2, High: 3}
	TypicalRelativeSize   = Range{Low: 1, High: 3}
	TypicalPayMix         = Range{Low: 15, High: 35}
	TypicalBelowShare     = Range{Low: 20, High: 40}
	TypicalAtShare        = Range{Low: 10, High: 25}
	TypicalAboveShare     = Range{Low: 40, High: 60}
	TypicalTargetJump     = Range{Low: 10, High: 20}
)

func bucket(score int, labels [4]string) string {
	switch {
	case score <= 3:
		return labels[0]
	case score <= 5:
		return labels[1]
	case score <= 7:
		return labels[2]
	default:
		return labels[3]
	}
}

func sizeOfPrizeLabel(score int) string {
	return bucket(score, [4]string{"Limited", "Moderate", "Substantial", "Exceptional"})
}

func distributionLabel(score int) string {
	return bucket(score, [4]string{"Imbalanced", "Somewhat Balanced", "Well Balanced", "Optimally Balanced"})
}

func psychologyLabel(score int) string {
	return bucket(score, [4]string{"Weak", "Moderate", "Effective", "Highly Effective"})
}

func nearMissLabel(score int) string {
	return bucket(score, [4]string{"Weak", "Moderate", "Strong", "Very Strong"})
}

func psychDistanceLabel(score int) string {
	return bucket(score, [4]string{"Poor", "Moderate", "Good", "Optimal"})
}

func sizeOfPrizeDescription(score int) string {
	return bucket(score, [4]string{
		"Limited overall compensation potential that may not strongly motivate exceptional performance",
		"Moderate compensation package that provides reasonable incentives for achievement",
		"Substantial compensation package with strong incentives for high performance",
		"Exceptional compensation potential that creates powerful incentives for outstanding performance",
	})
}

func distributionDescription(score int) string {
	return bucket(score, [4]string{
		"Imbalanced allocation between below-target, at-target, and above-target performance",
		"Somewhat balanced reward distribution across performance levels",
		"Well-balanced reward distribution that supports multiple performance scenarios",
		"Optimally balanced distribution that keeps support and stretch in tension",
	})
}

func psychologyDescription(score int) string {
	return bucket(score, [4]string{
		"Limited use of psychological motivators to drive desired behaviors",
		"Moderate implementation of behavioral psychology principles",
		"Effective use of psychological mechanisms to drive target achievement",
		"Sophisticated use of behavioral psychology to maximise motivation",
	})
}
