package kodkod

import (
	"fmt"
	"strings"
)

// Atom is an indivisible element of a Universe. Atoms are compared by the
// Go value they wrap; two atoms are the same element of a universe iff
// they are == to each other.
type Atom interface{}

// Universe is a finite, ordered, duplicate-free sequence of atoms. Every
// atom has a stable index in [0, len(universe)) used to linearize tuples
// (see Tuple.Index). A Universe is immutable once constructed.
type Universe struct {
	atoms []Atom
	index map[Atom]int
}

// NewUniverse returns a Universe containing exactly the given atoms, in the
// order given. It returns ErrDuplicateAtom if any atom repeats.
func NewUniverse(atoms ...Atom) (*Universe, error) {
	index := make(map[Atom]int, len(atoms))
	cp := make([]Atom, len(atoms))
	for i, a := range atoms {
		if _, ok := index[a]; ok {
			return nil, fmt.Errorf("%w: %v", ErrDuplicateAtom, a)
		}
		index[a] = i
		cp[i] = a
	}
	return &Universe{atoms: cp, index: index}, nil
}

// Size returns the number of atoms in the universe.
func (u *Universe) Size() int { return len(u.atoms) }

// AtomAt returns the atom at the given index, which must be in
// [0, u.Size()).
func (u *Universe) AtomAt(index int) Atom { return u.atoms[index] }

// IndexOf returns the index of the given atom and true, or (0, false) if
// the atom is not a member of this universe.
func (u *Universe) IndexOf(a Atom) (int, bool) {
	i, ok := u.index[a]
	return i, ok
}

// String renders the universe's atoms in order, e.g. "[A0 A1 A2]".
func (u *Universe) String() string {
	parts := make([]string, len(u.atoms))
	for i, a := range u.atoms {
		parts[i] = fmt.Sprintf("%v", a)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// arityBound returns n^arity as the exclusive upper bound on linear tuple
// indices over this universe, or an error if arity is not positive.
func (u *Universe) arityBound(arity int) (int, error) {
	if arity < 1 {
		return 0, fmt.Errorf("%w: arity %d must be >= 1", ErrArityMismatch, arity)
	}
	n := 1
	for i := 0; i < arity; i++ {
		n *= u.Size()
	}
	return n, nil
}
