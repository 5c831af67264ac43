package kodkod

import (
	"fmt"
	"strings"
)

// Tuple is a fixed-length sequence of atom indices over a Universe. Tuples
// are immutable value objects; two tuples over the same universe with the
// same atom indices compare equal via their linear Index.
type Tuple struct {
	universe *Universe
	indices  []int
}

// NewTuple returns the Tuple over u given by the atoms in order. Every atom
// must be a member of u.
func NewTuple(u *Universe, atoms ...Atom) (Tuple, error) {
	indices := make([]int, len(atoms))
	for i, a := range atoms {
		idx, ok := u.IndexOf(a)
		if !ok {
			return Tuple{}, fmt.Errorf("kodkod: atom %v is not a member of the universe", a)
		}
		indices[i] = idx
	}
	return Tuple{universe: u, indices: indices}, nil
}

// tupleFromIndex decodes a linear index in [0, n^arity) back into a Tuple
// over u, using the standard mixed-radix encoding: the last component
// varies fastest.
func tupleFromIndex(u *Universe, arity int, linear int) Tuple {
	indices := make([]int, arity)
	n := u.Size()
	for i := arity - 1; i >= 0; i-- {
		indices[i] = linear % n
		linear /= n
	}
	return Tuple{universe: u, indices: indices}
}

// Arity returns the number of components in the tuple.
func (t Tuple) Arity() int { return len(t.indices) }

// AtomAt returns the atom at position i (0-indexed).
func (t Tuple) AtomAt(i int) Atom { return t.universe.AtomAt(t.indices[i]) }

// Index returns the tuple's linear index in [0, n^arity), where n is the
// universe size: the standard mixed-radix encoding in which the last
// component varies fastest (so that a tuple set's linear indices, sorted,
// enumerate in lexicographic order of the underlying atom indices).
func (t Tuple) Index() int {
	n := t.universe.Size()
	idx := 0
	for _, c := range t.indices {
		idx = idx*n + c
	}
	return idx
}

// String renders the tuple as "(a0, a1, ...)".
func (t Tuple) String() string {
	parts := make([]string, len(t.indices))
	for i, c := range t.indices {
		parts[i] = fmt.Sprintf("%v", t.universe.AtomAt(c))
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// TupleSet is an arity-typed, universe-bound set of tuples, represented
// internally as an IntSet of linear tuple indices. Invariant: arity >= 1
// and every index is < universe.Size()^arity.
type TupleSet struct {
	universe *Universe
	arity    int
	indices  IntSet
}

// NewTupleSet returns an empty TupleSet of the given arity over u.
func NewTupleSet(u *Universe, arity int) (TupleSet, error) {
	if arity < 1 {
		return TupleSet{}, fmt.Errorf("%w: arity %d must be >= 1", ErrArityMismatch, arity)
	}
	return TupleSet{universe: u, arity: arity, indices: EmptyIntSet}, nil
}

// NewTupleSetFromTuples returns the TupleSet containing exactly the given
// tuples, all of which must share an arity and a universe.
func NewTupleSetFromTuples(tuples ...Tuple) (TupleSet, error) {
	if len(tuples) == 0 {
		return TupleSet{}, fmt.Errorf("kodkod: NewTupleSetFromTuples requires at least one tuple to infer arity and universe")
	}
	u := tuples[0].universe
	arity := tuples[0].Arity()
	idxs := make([]int, 0, len(tuples))
	for _, t := range tuples {
		if t.universe != u {
			return TupleSet{}, ErrBoundsUniverse
		}
		if t.Arity() != arity {
			return TupleSet{}, fmt.Errorf("%w: tuple arity %d != %d", ErrArityMismatch, t.Arity(), arity)
		}
		idxs = append(idxs, t.Index())
	}
	return TupleSet{universe: u, arity: arity, indices: NewIntSet(idxs...)}, nil
}

// AllTuples returns the TupleSet containing every tuple of the given arity
// over u (the universal relation, i.e. Expression.UNIV at that arity).
func AllTuples(u *Universe, arity int) (TupleSet, error) {
	n, err := u.arityBound(arity)
	if err != nil {
		return TupleSet{}, err
	}
	return TupleSet{universe: u, arity: arity, indices: NewRangeIntSet(0, n-1)}, nil
}

// Universe returns the universe this tuple set is defined over.
func (ts TupleSet) Universe() *Universe { return ts.universe }

// Arity returns the tuple set's arity.
func (ts TupleSet) Arity() int { return ts.arity }

// Size returns the number of tuples in the set.
func (ts TupleSet) Size() int { return ts.indices.Size() }

// Contains reports whether t is a member. t must share this set's universe
// and arity.
func (ts TupleSet) Contains(t Tuple) bool {
	return t.universe == ts.universe && t.Arity() == ts.arity && ts.indices.Contains(t.Index())
}

// ContainsIndex reports whether the linear tuple index i is a member.
func (ts TupleSet) ContainsIndex(i int) bool { return ts.indices.Contains(i) }

// Indices returns the set of linear tuple indices backing this tuple set.
func (ts TupleSet) Indices() IntSet { return ts.indices }

// Tuples returns the member tuples in ascending index order.
func (ts TupleSet) Tuples() []Tuple {
	out := make([]Tuple, 0, ts.Size())
	ts.indices.ForEach(func(i int) {
		out = append(out, tupleFromIndex(ts.universe, ts.arity, i))
	})
	return out
}

func (ts TupleSet) sameShape(other TupleSet) error {
	if ts.universe != other.universe {
		return ErrBoundsUniverse
	}
	if ts.arity != other.arity {
		return fmt.Errorf("%w: %d != %d", ErrArityMismatch, ts.arity, other.arity)
	}
	return nil
}

// Union returns the tuples present in ts or other.
func (ts TupleSet) Union(other TupleSet) (TupleSet, error) {
	if err := ts.sameShape(other); err != nil {
		return TupleSet{}, err
	}
	return TupleSet{universe: ts.universe, arity: ts.arity, indices: ts.indices.Union(other.indices)}, nil
}

// Intersect returns the tuples present in both ts and other.
func (ts TupleSet) Intersect(other TupleSet) (TupleSet, error) {
	if err := ts.sameShape(other); err != nil {
		return TupleSet{}, err
	}
	return TupleSet{universe: ts.universe, arity: ts.arity, indices: ts.indices.Intersect(other.indices)}, nil
}

// IsSubsetOf reports whether every tuple in ts is also in other.
func (ts TupleSet) IsSubsetOf(other TupleSet) (bool, error) {
	if err := ts.sameShape(other); err != nil {
		return false, err
	}
	return ts.indices.Intersect(other.indices).Equal(ts.indices), nil
}

// String renders the tuple set's members.
func (ts TupleSet) String() string {
	tuples := ts.Tuples()
	parts := make([]string, len(tuples))
	for i, t := range tuples {
		parts[i] = t.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
