package solver

// propagate shrinks node domains and image pattern sets to a fixed point.
// It alternates two phases: node domains are intersected with the colors
// their covering images still support, and image pattern sets are
// intersected with the patterns their nodes' domains still allow. Each
// change in one phase queues work for the other.
//
// Returns (node, false) when a domain or pattern set becomes empty, naming
// an affected node; (0, true) on a consistent fixed point.
func (s *State) propagate() (int, bool) {
	for len(s.nodeQueue) > 0 || len(s.imgQueue) > 0 {
		for len(s.nodeQueue) > 0 {
			ni := s.nodeQueue[0]
			s.nodeQueue = s.nodeQueue[1:]
			s.nodeQueued[ni] = false
			if !s.refitNode(ni) {
				return ni, false
			}
		}
		for len(s.imgQueue) > 0 {
			ii := s.imgQueue[0]
			s.imgQueue = s.imgQueue[1:]
			s.imgQueued[ii] = false
			if bad, ok := s.refitImage(ii); !ok {
				return bad, false
			}
		}
	}
	return 0, true
}

// refitNode intersects one node's domain with the union of colors each
// covering image still carries at the node's position, across all covering
// images. A shrink queues the covering images for refitting. Reports false
// when the domain empties.
func (s *State) refitNode(ni int) bool {
	support := newBitset(s.palette.Len())
	changed := false
	for _, ref := range s.covers[ni] {
		img := s.images[ref.img]
		support.clearAll()
		img.allowed.each(func(p int) {
			support.set(img.tmpl.patterns[p][ref.pos])
		})
		if s.domains[ni].intersect(support) {
			changed = true
		}
	}
	if s.domains[ni].empty() {
		return false
	}
	if changed {
		for _, ref := range s.covers[ni] {
			s.enqueueImage(ref.img)
		}
	}
	return true
}

// refitImage drops every pattern that assigns some position a color its
// node's domain no longer holds. A shrink recomputes the image's entropy
// and queues its nodes. Reports (node, false) when the pattern set empties.
func (s *State) refitImage(ii int) (int, bool) {
	img := s.images[ii]
	supported := newBitset(len(img.tmpl.patterns))
	changed := false
	for pos, ni := range img.nodes {
		supported.clearAll()
		s.domains[ni].each(func(c int) {
			supported.union(img.tmpl.byPos[pos][c])
		})
		if img.allowed.intersect(supported) {
			changed = true
		}
	}
	if img.allowed.empty() {
		return img.nodes[0], false
	}
	if changed {
		img.entropy = entropyOf(img)
		for _, ni := range img.nodes {
			s.enqueueNode(ni)
		}
	}
	return 0, true
}

func (s *State) enqueueNode(ni int) {
	if !s.nodeQueued[ni] {
		s.nodeQueued[ni] = true
		s.nodeQueue = append(s.nodeQueue, ni)
	}
}

func (s *State) enqueueImage(ii int) {
	if !s.imgQueued[ii] {
		s.imgQueued[ii] = true
		s.imgQueue = append(s.imgQueue, ii)
	}
}
