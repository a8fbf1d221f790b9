package solver

import (
	"reflect"
	"testing"
)

func TestBitsetSetHasCount(t *testing.T) {
	b := newBitset(130)
	if !b.empty() {
		t.Error("new bitset not empty")
	}

	for _, i := range []int{0, 63, 64, 129} {
		b.set(i)
		if !b.has(i) {
			t.Errorf("has(%d) = false after set", i)
		}
	}
	if b.has(1) {
		t.Error("has(1) = true, want false")
	}
	if got := b.count(); got != 4 {
		t.Errorf("count() = %d, want 4", got)
	}
}

func TestFullBitset(t *testing.T) {
	tests := []struct {
		name string
		n    int
	}{
		{name: "word boundary", n: 64},
		{name: "partial last word", n: 70},
		{name: "small", n: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := fullBitset(tt.n)
			if got := b.count(); got != tt.n {
				t.Errorf("fullBitset(%d).count() = %d, want %d", tt.n, got, tt.n)
			}
			if b.has(tt.n) {
				t.Errorf("fullBitset(%d).has(%d) = true, want false", tt.n, tt.n)
			}
		})
	}
}

func TestBitsetIntersect(t *testing.T) {
	a := newBitset(10)
	a.set(1)
	a.set(3)
	a.set(5)

	other := newBitset(10)
	other.set(3)
	other.set(5)
	other.set(7)

	if changed := a.intersect(other); !changed {
		t.Error("intersect() = false, want true")
	}
	if a.has(1) || !a.has(3) || !a.has(5) || a.has(7) {
		t.Errorf("intersect result wrong: %v", collect(a))
	}
	if changed := a.intersect(other); changed {
		t.Error("second intersect() = true, want false")
	}
}

func TestBitsetUnionClear(t *testing.T) {
	a := newBitset(10)
	a.set(1)
	b := newBitset(10)
	b.set(8)

	a.union(b)
	if !a.has(1) || !a.has(8) {
		t.Errorf("union result wrong: %v", collect(a))
	}

	a.clearAll()
	if !a.empty() {
		t.Error("clearAll left bits set")
	}
}

func TestBitsetEachFirst(t *testing.T) {
	b := newBitset(130)
	b.set(2)
	b.set(65)
	b.set(129)

	if got := b.first(); got != 2 {
		t.Errorf("first() = %d, want 2", got)
	}
	want := []int{2, 65, 129}
	if got := collect(b); !reflect.DeepEqual(got, want) {
		t.Errorf("each() visited %v, want %v", got, want)
	}

	if got := newBitset(10).first(); got != -1 {
		t.Errorf("first() on empty = %d, want -1", got)
	}
}

func TestBitsetClone(t *testing.T) {
	a := newBitset(10)
	a.set(4)
	c := a.clone()
	c.set(5)

	if a.has(5) {
		t.Error("mutating clone changed original")
	}
	if !c.has(4) {
		t.Error("clone lost original bit")
	}
}

func collect(b bitset) []int {
	var out []int
	b.each(func(i int) { out = append(out, i) })
	return out
}
