package kodkod

import "fmt"

// Multiplicity constrains how many tuples a Decl's variable may be bound
// to during ground-value iteration.
type Multiplicity int

const (
	// MultOne requires exactly one tuple; the default for quantifiers,
	// comprehensions, and sums.
	MultOne Multiplicity = iota
	MultLone
	MultSome
	MultSet
)

func (m Multiplicity) String() string {
	switch m {
	case MultOne:
		return "one"
	case MultLone:
		return "lone"
	case MultSome:
		return "some"
	case MultSet:
		return "set"
	default:
		return "unknown"
	}
}

// Variable is a bound Expression: an occurrence of a Decl's declared name
// inside the scope it introduces. Two Variables are the same binding iff
// they are the same pointer; NewVariable mints a fresh one every call, so
// that distinct quantifiers using the same display name (spec.md §8
// scenario 6, "quantifier shadowing") remain distinguishable by identity.
type Variable struct {
	name  string
	arity int
}

// NewVariable returns a fresh Variable of the given arity. name is a
// display label only; it need not be unique.
func NewVariable(name string, arity int) (*Variable, error) {
	if arity < 1 {
		return nil, fmt.Errorf("%w: variable %q arity %d must be >= 1", ErrArityMismatch, name, arity)
	}
	return &Variable{name: name, arity: arity}, nil
}

func (v *Variable) Arity() int                             { return v.arity }
func (v *Variable) Accept(vis Visitor) (*BooleanMatrix, error) { return vis.VisitVariable(v) }
func (v *Variable) exprNode()                               {}
func (v *Variable) String() string                          { return v.name }

// Decl binds a Variable to the Expression of values it may range over,
// with an associated Multiplicity (spec.md §3).
type Decl struct {
	Variable     *Variable
	Expression   Expression
	Multiplicity Multiplicity
}

// NewDecl returns a Decl binding v to expr under mult, after checking
// that v and expr share an arity.
func NewDecl(v *Variable, expr Expression, mult Multiplicity) (Decl, error) {
	if v.Arity() != expr.Arity() {
		return Decl{}, fmt.Errorf("%w: variable %s has arity %d, expression has arity %d", ErrArityMismatch, v, v.Arity(), expr.Arity())
	}
	return Decl{Variable: v, Expression: expr, Multiplicity: mult}, nil
}
