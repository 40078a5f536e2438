package poly

import (
	"github.com/powerhouse-labs/powerhouse/field"
)

// Table is a bookkeeping table holding the evaluations of a multilinear
// polynomial on a Boolean hypercube, indexed with bit 0 fastest: the value
// at (x0, ..., x_{n-1}) lives at index x0 + 2*x1 + ... + 2^{n-1}*x_{n-1}.
// Folding a challenge into the first variable therefore collapses adjacent
// pairs of entries.
type Table []uint64

// DeepCopy creates a deep copy of a bookkeeping table. Folding consumes the
// table, so operations that need the original work on a copy.
func (t Table) DeepCopy() Table {
	cp := make(Table, len(t))
	copy(cp, t)
	return cp
}

// Sum folds all entries with field addition.
func (t Table) Sum(f field.Field) uint64 {
	var acc uint64
	for _, v := range t {
		acc = f.Add(acc, v)
	}
	return acc
}

// PairSums returns the sums of the even-indexed and odd-indexed entries of
// the pairs in [start, stop). For a table of size 2m there are m pairs; pair
// i consists of entries 2i and 2i+1.
func (t Table) PairSums(f field.Field, start, stop int) (g0, g1 uint64) {
	for i := start; i < stop; i++ {
		g0 = f.Add(g0, t[2*i])
		g1 = f.Add(g1, t[2*i+1])
	}
	return g0, g1
}

// FoldInto collapses the pairs in [start, stop) with the challenge r,
// writing pair i as dst[i] = v0 + (v1 - v0)*r. dst must not alias t:
// with adjacent-pair indexing the read range of one chunk overlaps the
// write range of the next.
func (t Table) FoldInto(dst Table, f field.Field, r uint64, start, stop int) {
	for i := start; i < stop; i++ {
		v0 := t[2*i]
		v1 := t[2*i+1]
		dst[i] = f.Add(v0, f.Mul(f.Sub(v1, v0), r))
	}
}

// Fold collapses the table on its first coordinate using the challenge r,
// returning a table of half the size.
func (t Table) Fold(f field.Field, r uint64) Table {
	next := make(Table, len(t)/2)
	t.FoldInto(next, f, r, 0, len(next))
	return next
}

// Evaluate folds the table by every coordinate in turn and returns the
// single remaining entry, the evaluation of the underlying polynomial at
// the given point. The table must have length 2^len(point).
func (t Table) Evaluate(f field.Field, point []uint64) uint64 {
	layer := t
	for _, r := range point {
		layer = layer.Fold(f, r)
	}
	return layer[0] % f.Modulus()
}
