package solver

import "math/bits"

// bitset is a fixed-width set of small integers, packed into words. Width is
// fixed at creation; all binary operations assume equal width.
type bitset []uint64

func newBitset(n int) bitset {
	return make(bitset, (n+63)/64)
}

// fullBitset returns a set with bits 0..n-1 all set.
func fullBitset(n int) bitset {
	b := newBitset(n)
	for i := range b {
		b[i] = ^uint64(0)
	}
	if r := n % 64; r != 0 && len(b) > 0 {
		b[len(b)-1] = (uint64(1) << r) - 1
	}
	return b
}

func (b bitset) set(i int)      { b[i/64] |= 1 << (i % 64) }
func (b bitset) has(i int) bool { w := i / 64; return w < len(b) && b[w]&(1<<(i%64)) != 0 }

func (b bitset) count() int {
	n := 0
	for _, w := range b {
		n += bits.OnesCount64(w)
	}
	return n
}

func (b bitset) empty() bool {
	for _, w := range b {
		if w != 0 {
			return false
		}
	}
	return true
}

func (b bitset) clone() bitset {
	out := make(bitset, len(b))
	copy(out, b)
	return out
}

// intersect removes from b every bit not set in other and reports whether b
// changed.
func (b bitset) intersect(other bitset) bool {
	changed := false
	for i := range b {
		w := b[i] & other[i]
		if w != b[i] {
			changed = true
			b[i] = w
		}
	}
	return changed
}

func (b bitset) union(other bitset) {
	for i := range b {
		b[i] |= other[i]
	}
}

func (b bitset) clearAll() {
	for i := range b {
		b[i] = 0
	}
}

// each calls fn for every set bit, in ascending order.
func (b bitset) each(fn func(i int)) {
	for wi, w := range b {
		for w != 0 {
			fn(wi*64 + bits.TrailingZeros64(w))
			w &= w - 1
		}
	}
}

// first returns the lowest set bit, or -1 for an empty set.
func (b bitset) first() int {
	for wi, w := range b {
		if w != 0 {
			return wi*64 + bits.TrailingZeros64(w)
		}
	}
	return -1
}
