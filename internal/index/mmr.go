package index

import (
	"math"
	"sort"
)

func sortByScore(s []scored) {
	sort.SliceStable(s, func(i, j int) bool { return s[i].score > s[j].score })
}

// mmr picks k candidates greedily, trading relevance to the query (weight
// lambda) against the highest similarity to anything already picked.
func mmr(vectors [][]float32, candidates []scored, k int, lambda float64) []scored {
	if k <= 0 || len(candidates) == 0 {
		return nil
	}
	if k > len(candidates) {
		k = len(candidates)
	}

	selected := make([]scored, 0, k)
	used := make([]bool, len(candidates))

	for len(selected) < k {
		best, bestScore := -1, math.Inf(-1)
		for i, c := range candidates {
			if used[i] {
				continue
			}
			redundancy := 0.0
			if len(selected) > 0 {
				redundancy = math.Inf(-1)
				for _, s := range selected {
					redundancy = math.Max(redundancy, dot(vectors[c.pos], vectors[s.pos]))
				}
			}
			score := lambda*c.score - (1-lambda)*redundancy
			if score > bestScore {
				best, bestScore = i, score
			}
		}
		used[best] = true
		selected = append(selected, candidates[best])
	}
	return selected
}
