package kodkod

import (
	"fmt"
	"math/bits"
	"sort"
	"strings"
)

// IntSet is an immutable set of non-negative integers. Every IntSet
// operation returns a new IntSet; no implementation mutates the receiver or
// its argument. Three representations are available (a contiguous range, a
// sorted tree-like list of values, and a dense bitset); NewIntSet picks
// whichever is most compact for the values given, and the operations below
// re-evaluate the best representation for their result rather than
// preserving whatever representation their operands happened to use, with
// one exception: the union of two bitsets is always returned as a bitset.
//
// IntSet underlies TupleSet (linearized tuple indices) and the sparse index
// space of BooleanMatrix.
type IntSet interface {
	// Size returns the number of members.
	Size() int

	// IsEmpty reports whether the set has no members.
	IsEmpty() bool

	// Contains reports whether v is a member.
	Contains(v int) bool

	// Min returns the smallest member, or -1 if the set is empty.
	Min() int

	// Max returns the largest member, or -1 if the set is empty.
	Max() int

	// ForEach calls f once per member in ascending order.
	ForEach(f func(v int))

	// ToSlice returns the members in ascending order.
	ToSlice() []int

	// Union returns the members of this set together with those of other.
	Union(other IntSet) IntSet

	// Intersect returns the members present in both this set and other.
	Intersect(other IntSet) IntSet

	// Difference returns the members of this set not present in other.
	Difference(other IntSet) IntSet

	// Equal reports whether this set and other contain exactly the same
	// members.
	Equal(other IntSet) bool

	// String returns a compact human-readable representation, e.g.
	// "{0..4}" for a contiguous range or "{1,3,7}" for a sparse set.
	String() string
}

// EmptyIntSet is the unique empty IntSet.
var EmptyIntSet IntSet = rangeSet{lo: 0, hi: -1}

// NewIntSet returns the IntSet containing exactly the distinct values in
// vs, choosing among a range, sorted, or bitset representation based on
// density and contiguity.
func NewIntSet(vs ...int) IntSet {
	if len(vs) == 0 {
		return EmptyIntSet
	}
	uniq := make(map[int]struct{}, len(vs))
	for _, v := range vs {
		uniq[v] = struct{}{}
	}
	sorted := make([]int, 0, len(uniq))
	for v := range uniq {
		sorted = append(sorted, v)
	}
	sort.Ints(sorted)
	return bestFit(sorted)
}

// NewRangeIntSet returns the IntSet {lo, lo+1, ..., hi}. If hi < lo the
// result is empty.
func NewRangeIntSet(lo, hi int) IntSet {
	if hi < lo {
		return EmptyIntSet
	}
	return rangeSet{lo: lo, hi: hi}
}

// bestFit chooses the cheapest representation for an already-sorted,
// duplicate-free slice of values.
func bestFit(sorted []int) IntSet {
	if len(sorted) == 0 {
		return EmptyIntSet
	}
	lo, hi := sorted[0], sorted[len(sorted)-1]
	if hi-lo+1 == len(sorted) {
		return rangeSet{lo: lo, hi: hi}
	}
	span := hi - lo + 1
	// A dense bitset costs span/64 machine words; a sorted list costs
	// len(sorted) machine words (one int each). Prefer whichever is
	// smaller, with a bias toward bitsets since they make membership and
	// set-algebra O(1) per word instead of O(log n) per element.
	words := (span + 63) / 64
	if words <= 2*len(sorted) {
		return newBitSet(lo, hi, sorted)
	}
	return sortedSet{lo: lo, hi: hi, values: sorted}
}

// rangeSet is a contiguous [lo, hi] interval. Empty when hi < lo.
type rangeSet struct {
	lo, hi int
}

func (s rangeSet) Size() int {
	if s.hi < s.lo {
		return 0
	}
	return s.hi - s.lo + 1
}

func (s rangeSet) IsEmpty() bool { return s.hi < s.lo }

func (s rangeSet) Contains(v int) bool { return v >= s.lo && v <= s.hi }

func (s rangeSet) Min() int {
	if s.IsEmpty() {
		return -1
	}
	return s.lo
}

func (s rangeSet) Max() int {
	if s.IsEmpty() {
		return -1
	}
	return s.hi
}

func (s rangeSet) ForEach(f func(v int)) {
	for v := s.lo; v <= s.hi; v++ {
		f(v)
	}
}

func (s rangeSet) ToSlice() []int {
	if s.IsEmpty() {
		return nil
	}
	out := make([]int, 0, s.Size())
	for v := s.lo; v <= s.hi; v++ {
		out = append(out, v)
	}
	return out
}

func (s rangeSet) Union(other IntSet) IntSet {
	return bestFit(mergeSorted(s.ToSlice(), other.ToSlice()))
}

func (s rangeSet) Intersect(other IntSet) IntSet {
	if r, ok := other.(rangeSet); ok {
		lo, hi := max(s.lo, r.lo), min(s.hi, r.hi)
		return NewRangeIntSet(lo, hi)
	}
	return bestFit(intersectSorted(s.ToSlice(), other.ToSlice()))
}

func (s rangeSet) Difference(other IntSet) IntSet {
	return bestFit(differenceSorted(s.ToSlice(), other.ToSlice()))
}

func (s rangeSet) Equal(other IntSet) bool {
	return setEqual(s, other)
}

func (s rangeSet) String() string {
	if s.IsEmpty() {
		return "{}"
	}
	if s.lo == s.hi {
		return fmt.Sprintf("{%d}", s.lo)
	}
	return fmt.Sprintf("{%d..%d}", s.lo, s.hi)
}

// sortedSet is a sparse set backed by an ascending slice of distinct
// values, the "tree set" representation referenced in the spec: lookups
// are binary search (O(log n)), same asymptotics a balanced BST would give,
// without the pointer overhead.
type sortedSet struct {
	lo, hi int
	values []int
}

func (s sortedSet) Size() int { return len(s.values) }

func (s sortedSet) IsEmpty() bool { return len(s.values) == 0 }

func (s sortedSet) Contains(v int) bool {
	if v < s.lo || v > s.hi {
		return false
	}
	i := sort.SearchInts(s.values, v)
	return i < len(s.values) && s.values[i] == v
}

func (s sortedSet) Min() int {
	if s.IsEmpty() {
		return -1
	}
	return s.values[0]
}

func (s sortedSet) Max() int {
	if s.IsEmpty() {
		return -1
	}
	return s.values[len(s.values)-1]
}

func (s sortedSet) ForEach(f func(v int)) {
	for _, v := range s.values {
		f(v)
	}
}

func (s sortedSet) ToSlice() []int {
	out := make([]int, len(s.values))
	copy(out, s.values)
	return out
}

func (s sortedSet) Union(other IntSet) IntSet {
	return bestFit(mergeSorted(s.values, other.ToSlice()))
}

func (s sortedSet) Intersect(other IntSet) IntSet {
	return bestFit(intersectSorted(s.values, other.ToSlice()))
}

func (s sortedSet) Difference(other IntSet) IntSet {
	return bestFit(differenceSorted(s.values, other.ToSlice()))
}

func (s sortedSet) Equal(other IntSet) bool { return setEqual(s, other) }

func (s sortedSet) String() string {
	if s.IsEmpty() {
		return "{}"
	}
	parts := make([]string, len(s.values))
	for i, v := range s.values {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// bitSet is a dense bitset over [lo, hi], one bit per value, the
// representation of choice once a sparse slice would cost more words than
// a bitmap.
type bitSet struct {
	lo, hi int
	words  []uint64
	size   int
}

func newBitSet(lo, hi int, values []int) bitSet {
	span := hi - lo + 1
	b := bitSet{lo: lo, hi: hi, words: make([]uint64, (span+63)/64)}
	for _, v := range values {
		b.words[(v-lo)/64] |= 1 << uint((v-lo)%64)
	}
	b.size = len(values)
	return b
}

func (s bitSet) Size() int { return s.size }

func (s bitSet) IsEmpty() bool { return s.size == 0 }

func (s bitSet) Contains(v int) bool {
	if v < s.lo || v > s.hi {
		return false
	}
	return s.words[(v-s.lo)/64]&(1<<uint((v-s.lo)%64)) != 0
}

func (s bitSet) Min() int {
	for i, w := range s.words {
		if w != 0 {
			return s.lo + i*64 + bits.TrailingZeros64(w)
		}
	}
	return -1
}

func (s bitSet) Max() int {
	for i := len(s.words) - 1; i >= 0; i-- {
		if w := s.words[i]; w != 0 {
			return s.lo + i*64 + 63 - bits.LeadingZeros64(w)
		}
	}
	return -1
}

func (s bitSet) ForEach(f func(v int)) {
	for i, w := range s.words {
		base := s.lo + i*64
		for w != 0 {
			bit := bits.TrailingZeros64(w)
			f(base + bit)
			w &^= 1 << uint(bit)
		}
	}
}

func (s bitSet) ToSlice() []int {
	out := make([]int, 0, s.size)
	s.ForEach(func(v int) { out = append(out, v) })
	return out
}

func (s bitSet) Union(other IntSet) IntSet {
	if o, ok := other.(bitSet); ok {
		lo, hi := min(s.lo, o.lo), max(s.hi, o.hi)
		merged := newBitSet(lo, hi, nil)
		s.ForEach(func(v int) { merged.words[(v-lo)/64] |= 1 << uint((v-lo)%64) })
		o.ForEach(func(v int) { merged.words[(v-lo)/64] |= 1 << uint((v-lo)%64) })
		merged.size = popcountAll(merged.words)
		return merged
	}
	return bestFit(mergeSorted(s.ToSlice(), other.ToSlice()))
}

func (s bitSet) Intersect(other IntSet) IntSet {
	return bestFit(intersectSorted(s.ToSlice(), other.ToSlice()))
}

func (s bitSet) Difference(other IntSet) IntSet {
	return bestFit(differenceSorted(s.ToSlice(), other.ToSlice()))
}

func (s bitSet) Equal(other IntSet) bool { return setEqual(s, other) }

func (s bitSet) String() string {
	if s.IsEmpty() {
		return "{}"
	}
	parts := make([]string, 0, s.size)
	s.ForEach(func(v int) { parts = append(parts, fmt.Sprintf("%d", v)) })
	return "{" + strings.Join(parts, ",") + "}"
}

func popcountAll(words []uint64) int {
	n := 0
	for _, w := range words {
		n += bits.OnesCount64(w)
	}
	return n
}

func mergeSorted(a, b []int) []int {
	out := make([]int, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			out = append(out, a[i])
			i++
		case a[i] > b[j]:
			out = append(out, b[j])
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}

func intersectSorted(a, b []int) []int {
	var out []int
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}

func differenceSorted(a, b []int) []int {
	var out []int
	i, j := 0, 0
	for i < len(a) {
		if j >= len(b) || a[i] < b[j] {
			out = append(out, a[i])
			i++
		} else if a[i] > b[j] {
			j++
		} else {
			i++
			j++
		}
	}
	return out
}

func setEqual(a, b IntSet) bool {
	if a.Size() != b.Size() {
		return false
	}
	as, bs := a.ToSlice(), b.ToSlice()
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

