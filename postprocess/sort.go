package postprocess

// SortByConfidence sorts proposals in place into descending confidence
// order. Quicksort with a middle-element pivot and Hoare partition, driven
// by an explicit work stack so pathological inputs cannot exhaust the call
// stack. Equal confidences keep no particular order.
func SortByConfidence(proposals []Proposal) {
	if len(proposals) < 2 {
		return
	}

	type span struct{ left, right int }
	stack := []span{{0, len(proposals) - 1}}

	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if s.left >= s.right {
			continue
		}

		pivot := proposals[(s.left+s.right)/2].Confidence
		i, j := s.left, s.right
		for i <= j {
			for proposals[i].Confidence > pivot {
				i++
			}
			for proposals[j].Confidence < pivot {
				j--
			}
			if i <= j {
				proposals[i], proposals[j] = proposals[j], proposals[i]
				i++
				j--
			}
		}

		if s.left < j {
			stack = append(stack, span{s.left, j})
		}
		if i < s.right {
			stack = append(stack, span{i, s.right})
		}
	}
}
