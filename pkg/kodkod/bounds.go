package kodkod

import "fmt"

// Relation is a named, arity-typed symbol. Relations have identity by
// reference: two distinct *Relation values with the same name and arity
// are different relations. A Relation is not bound to any universe until
// it is placed in a Bounds.
type Relation struct {
	name  string
	arity int
}

// NewRelation returns a fresh Relation with the given name and arity. The
// name is used only for diagnostics; it need not be unique.
func NewRelation(name string, arity int) (*Relation, error) {
	if arity < 1 {
		return nil, fmt.Errorf("%w: relation %q arity %d must be >= 1", ErrArityMismatch, name, arity)
	}
	return &Relation{name: name, arity: arity}, nil
}

// Name returns the relation's diagnostic name.
func (r *Relation) Name() string { return r.name }

// Arity returns the relation's arity.
func (r *Relation) Arity() int { return r.arity }

// String implements fmt.Stringer.
func (r *Relation) String() string { return r.name }

// bound is a relation's (lower, upper) tuple-set pair.
type bound struct {
	lower, upper TupleSet
}

// Bounds maps each Relation under consideration to a lower and upper tuple
// set: the relation's extension in any decoded Instance must be a superset
// of lower and a subset of upper. Bounds are mutable during construction
// and become immutable ("frozen") once submitted to a Solver.
type Bounds struct {
	universe *Universe
	relation map[*Relation]bound
	order    []*Relation
	frozen   bool
}

// NewBounds returns an empty, mutable Bounds over u.
func NewBounds(u *Universe) *Bounds {
	return &Bounds{universe: u, relation: make(map[*Relation]bound)}
}

// Universe returns the universe this Bounds is defined over.
func (b *Bounds) Universe() *Universe { return b.universe }

// Bound records that r's extension must lie between lower and upper
// (inclusive), both of which must have r's arity and reference b's
// universe, with lower a subset of upper. Bound overwrites any previous
// bound for r. It returns ErrBoundsFrozen if called after the Bounds has
// been submitted to a solver.
func (b *Bounds) Bound(r *Relation, lower, upper TupleSet) error {
	if b.frozen {
		return ErrBoundsFrozen
	}
	if lower.Arity() != r.Arity() || upper.Arity() != r.Arity() {
		return fmt.Errorf("%w: relation %s has arity %d", ErrBoundsArity, r, r.Arity())
	}
	if lower.Universe() != b.universe || upper.Universe() != b.universe {
		return ErrBoundsUniverse
	}
	ok, err := lower.IsSubsetOf(upper)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: relation %s", ErrBoundsNotSubset, r)
	}
	if _, exists := b.relation[r]; !exists {
		b.order = append(b.order, r)
	}
	b.relation[r] = bound{lower: lower, upper: upper}
	return nil
}

// BoundExactly is shorthand for Bound(r, ts, ts): r's extension is fixed to
// exactly ts.
func (b *Bounds) BoundExactly(r *Relation, ts TupleSet) error {
	return b.Bound(r, ts, ts)
}

// LowerBound returns r's lower bound and true, or the zero TupleSet and
// false if r has no bound in b.
func (b *Bounds) LowerBound(r *Relation) (TupleSet, bool) {
	bd, ok := b.relation[r]
	return bd.lower, ok
}

// UpperBound returns r's upper bound and true, or the zero TupleSet and
// false if r has no bound in b.
func (b *Bounds) UpperBound(r *Relation) (TupleSet, bool) {
	bd, ok := b.relation[r]
	return bd.upper, ok
}

// Relations returns the bounded relations in the order they were first
// bound.
func (b *Bounds) Relations() []*Relation {
	out := make([]*Relation, len(b.order))
	copy(out, b.order)
	return out
}

// freeze makes b immutable; subsequent calls to Bound/BoundExactly return
// ErrBoundsFrozen. Called by Solver.Solve before translation begins.
func (b *Bounds) freeze() { b.frozen = true }
