package kodkod

import "fmt"

// ConstantFormula is one of the two process-wide boolean constants.
type ConstantFormula struct {
	Value bool
}

// TrueFormula and FalseFormula are the process-wide Formula.TRUE/FALSE
// singletons (spec.md §9: "equivalent per-solve constants work", but a
// single immutable value object is simplest).
var (
	TrueFormula  = &ConstantFormula{Value: true}
	FalseFormula = &ConstantFormula{Value: false}
)

func (f *ConstantFormula) Accept(v Visitor) (Lit, error) { return v.VisitConstantFormula(f) }
func (f *ConstantFormula) formulaNode()                  {}

// ComparisonOp enumerates the relational comparison operators.
type ComparisonOp int

const (
	CompEquals ComparisonOp = iota
	CompSubset
)

// ComparisonFormula compares two equal-arity Expressions.
type ComparisonFormula struct {
	Op          ComparisonOp
	Left, Right Expression
}

// NewComparisonFormula validates that left and right share an arity.
func NewComparisonFormula(op ComparisonOp, left, right Expression) (*ComparisonFormula, error) {
	if left.Arity() != right.Arity() {
		return nil, fmt.Errorf("%w: %d != %d", ErrArityMismatch, left.Arity(), right.Arity())
	}
	return &ComparisonFormula{Op: op, Left: left, Right: right}, nil
}

func (f *ComparisonFormula) Accept(v Visitor) (Lit, error) { return v.VisitComparisonFormula(f) }
func (f *ComparisonFormula) formulaNode()                  {}

// MultiplicityOp enumerates the multiplicity-predicate operators.
type MultiplicityOp int

const (
	MultNo MultiplicityOp = iota
	MultSomeOp
	MultOneOp
	MultLoneOp
)

// MultiplicityFormula asserts a cardinality shape on Expr's extension.
type MultiplicityFormula struct {
	Op   MultiplicityOp
	Expr Expression
}

func NewMultiplicityFormula(op MultiplicityOp, expr Expression) *MultiplicityFormula {
	return &MultiplicityFormula{Op: op, Expr: expr}
}

func (f *MultiplicityFormula) Accept(v Visitor) (Lit, error) { return v.VisitMultiplicityFormula(f) }
func (f *MultiplicityFormula) formulaNode()                  {}

// QuantifierOp enumerates the relational quantifiers.
type QuantifierOp int

const (
	QuantifierAll QuantifierOp = iota
	QuantifierSome
)

// QuantifiedFormula is ∀/∃ decls | body: Decls introduces fresh bindings
// scoping Body.
type QuantifiedFormula struct {
	Op    QuantifierOp
	Decls []Decl
	Body  Formula
}

// NewQuantifiedFormula validates that decls is non-empty.
func NewQuantifiedFormula(op QuantifierOp, decls []Decl, body Formula) (*QuantifiedFormula, error) {
	if len(decls) == 0 {
		return nil, fmt.Errorf("kodkod: quantified formula requires at least one declaration")
	}
	return &QuantifiedFormula{Op: op, Decls: decls, Body: body}, nil
}

func (f *QuantifiedFormula) Accept(v Visitor) (Lit, error) { return v.VisitQuantifiedFormula(f) }
func (f *QuantifiedFormula) formulaNode()                  {}

// BinaryFormulaOp enumerates the binary propositional connectives.
type BinaryFormulaOp int

const (
	FormAnd BinaryFormulaOp = iota
	FormOr
	FormImplies
	FormIff
)

// BinaryFormula combines two Formulas with op.
type BinaryFormula struct {
	Op          BinaryFormulaOp
	Left, Right Formula
}

func NewBinaryFormula(op BinaryFormulaOp, left, right Formula) *BinaryFormula {
	return &BinaryFormula{Op: op, Left: left, Right: right}
}

func (f *BinaryFormula) Accept(v Visitor) (Lit, error) { return v.VisitBinaryFormula(f) }
func (f *BinaryFormula) formulaNode()                  {}

// NotFormula negates Child.
type NotFormula struct {
	Child Formula
}

func NewNotFormula(child Formula) *NotFormula { return &NotFormula{Child: child} }

func (f *NotFormula) Accept(v Visitor) (Lit, error) { return v.VisitNotFormula(f) }
func (f *NotFormula) formulaNode()                  {}

// IntComparisonOp enumerates the integer comparison operators.
type IntComparisonOp int

const (
	IntEq IntComparisonOp = iota
	IntLt
	IntLe
	IntGt
	IntGe
)

// IntComparisonFormula compares two IntExpressions.
type IntComparisonFormula struct {
	Op          IntComparisonOp
	Left, Right IntExpression
}

func NewIntComparisonFormula(op IntComparisonOp, left, right IntExpression) *IntComparisonFormula {
	return &IntComparisonFormula{Op: op, Left: left, Right: right}
}

func (f *IntComparisonFormula) Accept(v Visitor) (Lit, error) {
	return v.VisitIntComparisonFormula(f)
}
func (f *IntComparisonFormula) formulaNode() {}

// RelationPredicateKind enumerates the built-in structural predicates
// that may be applied directly to a Relation (spec.md §3).
type RelationPredicateKind int

const (
	PredAcyclic RelationPredicateKind = iota
	PredTotalOrdering
	PredFunction
)

// RelationPredicate asserts a structural property of Relation. TotalOrdering
// and Function additionally reference the ordered set / domain and range
// relations they are defined over; Acyclic references only Relation.
type RelationPredicate struct {
	Kind          RelationPredicateKind
	Relation      *Relation
	Ordered       *Relation // TotalOrdering: the set being ordered
	First, Last   *Relation // TotalOrdering: distinguished endpoints
	Domain, Range *Relation // Function: domain/range relations
}

func NewAcyclicPredicate(r *Relation) *RelationPredicate {
	return &RelationPredicate{Kind: PredAcyclic, Relation: r}
}

func NewTotalOrderingPredicate(r, ordered, first, last *Relation) *RelationPredicate {
	return &RelationPredicate{Kind: PredTotalOrdering, Relation: r, Ordered: ordered, First: first, Last: last}
}

func NewFunctionPredicate(r, domain, rng *Relation) *RelationPredicate {
	return &RelationPredicate{Kind: PredFunction, Relation: r, Domain: domain, Range: rng}
}

func (f *RelationPredicate) Accept(v Visitor) (Lit, error) { return v.VisitRelationPredicate(f) }
func (f *RelationPredicate) formulaNode()                  {}
