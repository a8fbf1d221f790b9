package solver

import (
	"context"

	"github.com/matzehuels/graphwfc/pkg/observability"
)

// observeTarget picks the next image to collapse: the one with the lowest
// positive entropy after adding a tiny random jitter. The jitter breaks
// exact ties randomly while never reordering genuinely different entropies.
// Returns -1 when every image has zero entropy, meaning the wave is fully
// collapsed.
func (s *State) observeTarget(ctx context.Context) int {
	best := -1
	bestEff := 0.0
	for i, img := range s.images {
		if img.entropy <= 0 {
			continue
		}
		eff := img.entropy + jitterEps*s.rng.Float64()
		if best < 0 || eff < bestEff {
			best, bestEff = i, eff
		}
	}
	if best >= 0 {
		observability.Solver().OnObserve(ctx, s.iter+1, s.images[best].entropy)
	}
	return best
}

// collapse pins an image to a single pattern sampled from its allowed set,
// weighted by occurrence count, then narrows the image's node domains to
// that pattern's colors and queues them for propagation.
func (s *State) collapse(target int) {
	img := s.images[target]
	p := s.samplePattern(img)

	img.allowed.clearAll()
	img.allowed.set(p)
	img.entropy = 0

	colors := img.tmpl.patterns[p]
	for pos, ni := range img.nodes {
		single := newBitset(s.palette.Len())
		single.set(colors[pos])
		if s.domains[ni].intersect(single) {
			s.enqueueNode(ni)
			for _, ref := range s.covers[ni] {
				s.enqueueImage(ref.img)
			}
		}
	}
}

// samplePattern draws one allowed pattern with probability proportional to
// its weight.
func (s *State) samplePattern(img *imageState) int {
	total := 0
	img.allowed.each(func(p int) {
		total += img.tmpl.weights[p]
	})
	r := s.rng.Intn(total)
	picked := -1
	img.allowed.each(func(p int) {
		if picked >= 0 {
			return
		}
		r -= img.tmpl.weights[p]
		if r < 0 {
			picked = p
		}
	})
	return picked
}
