package simulate

import "fmt"

// spearman returns the rank correlation between two orderings of the same
// items. Both slices must hold the same distinct items.
func spearman(observed, hidden []string) (float64, error) {
	n := len(hidden)
	if n != len(observed) {
		return 0, fmt.Errorf("observed %d items, expected %d", len(observed), n)
	}
	if n < 2 {
		return 0, fmt.Errorf("need at least two items, got %d", n)
	}

	pos := make(map[string]int, n)
	for i, it := range hidden {
		pos[it] = i
	}

	var sumSq float64
	for i, it := range observed {
		j, ok := pos[it]
		if !ok {
			return 0, fmt.Errorf("unexpected item %q", it)
		}
		d := float64(i - j)
		sumSq += d * d
	}

	fn := float64(n)
	return 1 - 6*sumSq/(fn*(fn*fn-1)), nil
}

// mean of the partition correlations.
func mean(results []PartitionResult) float64 {
	if len(results) == 0 {
		return 0
	}
	var sum float64
	for _, r := range results {
		sum += r.Correlation
	}
	return sum / float64(len(results))
}
