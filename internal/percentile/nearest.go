package percentile

import "math"

// Nearest returns the index and value of the candidate closest to target.
// On equal distance the earliest candidate wins.
func Nearest(candidates []float64, target float64) (int, float64, error) {
	if len(candidates) == 0 {
		return -1, 0, ErrEmptyCandidateSet
	}
	best := 0
	bestDiff := math.Abs(candidates[0] - target)
	for i := 1; i < len(candidates); i++ {
		// strict less-than keeps the first minimum
		if d := math.Abs(candidates[i] - target); d < bestDiff {
			best, bestDiff = i, d
		}
	}
	return best, candidates[best], nil
}
