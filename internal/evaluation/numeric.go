package evaluation

import "math"

const (
	relTolerance = 1e-4
	absTolerance = 1e-6
)

// EquivalentAnswers reports whether predicted matches expected directly or
// after a percentage conversion in either direction.
func EquivalentAnswers(expected, predicted float64) bool {
	for _, candidate := range []float64{predicted, predicted * 100, predicted / 100} {
		if closeEnough(expected, candidate) {
			return true
		}
	}
	return false
}

func closeEnough(a, b float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) || math.IsInf(a, 0) || math.IsInf(b, 0) {
		return false
	}
	diff := math.Abs(a - b)
	if diff <= absTolerance {
		return true
	}
	return diff <= relTolerance*math.Max(math.Abs(a), math.Abs(b))
}
