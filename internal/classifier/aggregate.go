package classifier

import "sort"

// AggregateMax merges per-crop predictions by taking the maximum score per
// species across all crops. A species seen confidently in any one crop wins
// for that species; averaging would dilute it. Returns the top-K species by
// aggregated score, descending.
func AggregateMax(perCrop [][]Candidate, topK int) []Candidate {
	best := make(map[string]float64)
	order := make([]string, 0)

	for _, predictions := range perCrop {
		for _, p := range predictions {
			if current, seen := best[p.Species]; !seen {
				best[p.Species] = p.Confidence
				order = append(order, p.Species)
			} else if p.Confidence > current {
				best[p.Species] = p.Confidence
			}
		}
	}

	aggregated := make([]Candidate, 0, len(order))
	for _, species := range order {
		aggregated = append(aggregated, Candidate{Species: species, Confidence: best[species]})
	}

	// Stable sort keeps first-seen order for equal scores
	sort.SliceStable(aggregated, func(i, j int) bool {
		return aggregated[i].Confidence > aggregated[j].Confidence
	})

	if topK > 0 && len(aggregated) > topK {
		aggregated = aggregated[:topK]
	}
	return aggregated
}
