package postprocess

// NMSSorted runs greedy non-maximum suppression over a confidence-sorted
// proposal list and returns the indices of the kept proposals, in input
// order (descending confidence).
//
// Each candidate is compared against every already-picked proposal; a
// candidate whose IoU with any picked box exceeds the threshold is rejected.
// Overlap is computed on the raw boxes exactly as stored, and pairs whose
// union has no area are treated as non-overlapping. Suppression is
// class-agnostic unless Params.ClassAwareNMS restricts it to same-class
// pairs.
func NMSSorted(proposals []Proposal, p Params) []int {
	picked := make([]int, 0, len(proposals))

	areas := make([]float32, len(proposals))
	for i := range proposals {
		areas[i] = proposals[i].Box.Area()
	}

	for i := range proposals {
		keep := true
		for _, j := range picked {
			if p.ClassAwareNMS && proposals[i].ClassIndex != proposals[j].ClassIndex {
				continue
			}
			inter := proposals[i].Box.Intersect(proposals[j].Box).Area()
			union := areas[i] + areas[j] - inter
			if union > 0 && inter/union > p.IoUThreshold {
				keep = false
				break
			}
		}
		if keep {
			picked = append(picked, i)
		}
	}
	return picked
}
