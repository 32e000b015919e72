package headcount

import "math"

// WeightedEstimate is one headcount figure with its source confidence in
// (0, 1].
type WeightedEstimate struct {
	Value      int
	Confidence float64
}

// Combine fuses estimates into a confidence-weighted mean, rounded down.
// No estimates means no answer: zero.
func Combine(estimates []WeightedEstimate) int {
	var sum, weight float64
	for _, e := range estimates {
		sum += float64(e.Value) * e.Confidence
		weight += e.Confidence
	}
	if weight == 0 {
		return 0
	}
	return int(math.Floor(sum / weight))
}

// FromJobPostings projects total headcount from open engineering positions:
// one open role per roughly five engineers.
func FromJobPostings(openPositions int) int {
	return int(math.Floor(float64(openPositions) * 5))
}

// FromGitHub projects engineering headcount from public contributors,
// assuming roughly 70% of engineers contribute publicly.
func FromGitHub(contributors int) int {
	return int(math.Floor(float64(contributors) / 0.7))
}
