package postprocess

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func confidences(proposals []Proposal) []float32 {
	out := make([]float32, len(proposals))
	for i, p := range proposals {
		out[i] = p.Confidence
	}
	return out
}

// TestSortByConfidence covers the descending order guarantee across small
// and degenerate inputs.
func TestSortByConfidence(t *testing.T) {
	tests := []struct {
		name  string
		input []float32
	}{
		{name: "empty", input: nil},
		{name: "single", input: []float32{0.5}},
		{name: "already descending", input: []float32{0.9, 0.7, 0.5}},
		{name: "ascending", input: []float32{0.1, 0.2, 0.3, 0.4}},
		{name: "duplicates", input: []float32{0.5, 0.9, 0.5, 0.1, 0.9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			proposals := make([]Proposal, len(tt.input))
			for i, c := range tt.input {
				proposals[i] = Proposal{Confidence: c}
			}
			SortByConfidence(proposals)

			got := confidences(proposals)
			assert.True(t, sort.SliceIsSorted(got, func(i, j int) bool {
				return got[i] > got[j]
			}), "not descending: %v", got)
		})
	}
}

// TestSortByConfidenceLarge sorts a large shuffled input, exercising the
// work-stack partitioning beyond trivial depths.
func TestSortByConfidenceLarge(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	proposals := make([]Proposal, 10000)
	for i := range proposals {
		proposals[i] = Proposal{Confidence: rng.Float32(), ClassIndex: i}
	}
	SortByConfidence(proposals)

	for i := 1; i < len(proposals); i++ {
		if proposals[i-1].Confidence < proposals[i].Confidence {
			t.Fatalf("order violated at %d: %v < %v", i,
				proposals[i-1].Confidence, proposals[i].Confidence)
		}
	}
}

// TestSortByConfidencePreservesElements checks sorting permutes rather than
// clobbers.
func TestSortByConfidencePreservesElements(t *testing.T) {
	proposals := []Proposal{
		{Confidence: 0.3, ClassIndex: 3},
		{Confidence: 0.9, ClassIndex: 9},
		{Confidence: 0.1, ClassIndex: 1},
	}
	SortByConfidence(proposals)

	assert.Equal(t, []float32{0.9, 0.3, 0.1}, confidences(proposals))
	assert.Equal(t, 9, proposals[0].ClassIndex, "payload travels with the confidence")
}

func BenchmarkSortByConfidence(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	base := make([]Proposal, 8400)
	for i := range base {
		base[i] = Proposal{Confidence: rng.Float32()}
	}
	scratch := make([]Proposal, len(base))

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		copy(scratch, base)
		SortByConfidence(scratch)
	}
}
