package kodkod

import "fmt"

// RelationExpr wraps a *Relation as a leaf Expression.
type RelationExpr struct {
	Relation *Relation
}

// Rel returns r as an Expression.
func Rel(r *Relation) *RelationExpr { return &RelationExpr{Relation: r} }

func (e *RelationExpr) Arity() int                              { return e.Relation.Arity() }
func (e *RelationExpr) Accept(v Visitor) (*BooleanMatrix, error) { return v.VisitRelation(e) }
func (e *RelationExpr) exprNode()                                {}

// ConstantKind enumerates the arity-2 constant relations: the universal
// binary relation, the identity relation, and the empty relation, lifted
// here to arbitrary arity per spec.md's ConstantExpression (UNIV/IDEN/NONE).
type ConstantKind int

const (
	ConstUniv ConstantKind = iota
	ConstIden
	ConstNone
)

// ConstantExpr is one of the process-wide ConstantExpression singletons.
// IDEN is always arity 2; UNIV and NONE may be built at any arity >= 1.
type ConstantExpr struct {
	Kind  ConstantKind
	arity int
}

// Univ returns the universal relation of the given arity.
func Univ(arity int) (*ConstantExpr, error) {
	if arity < 1 {
		return nil, fmt.Errorf("%w: UNIV arity %d must be >= 1", ErrArityMismatch, arity)
	}
	return &ConstantExpr{Kind: ConstUniv, arity: arity}, nil
}

// None returns the empty relation of the given arity.
func None(arity int) (*ConstantExpr, error) {
	if arity < 1 {
		return nil, fmt.Errorf("%w: NONE arity %d must be >= 1", ErrArityMismatch, arity)
	}
	return &ConstantExpr{Kind: ConstNone, arity: arity}, nil
}

// Iden returns the arity-2 identity relation.
func Iden() *ConstantExpr { return &ConstantExpr{Kind: ConstIden, arity: 2} }

func (e *ConstantExpr) Arity() int { return e.arity }
func (e *ConstantExpr) Accept(v Visitor) (*BooleanMatrix, error) {
	return v.VisitConstantExpr(e)
}
func (e *ConstantExpr) exprNode() {}

// BinaryExprOp enumerates the binary Expression operators.
type BinaryExprOp int

const (
	OpUnion BinaryExprOp = iota
	OpIntersection
	OpDifference
	OpJoin
	OpProduct
	OpOverride
)

// BinaryExpr combines two Expressions with op.
type BinaryExpr struct {
	Op          BinaryExprOp
	Left, Right Expression
	arity       int
}

// NewBinaryExpr validates the operand arities for op and returns the
// resulting Expression. Union/Intersection/Difference/Override require
// equal arity; Join contracts left.Arity()+right.Arity()-2 (and requires
// that result arity to be at least 1);
// Product's arity is the sum.
func NewBinaryExpr(op BinaryExprOp, left, right Expression) (*BinaryExpr, error) {
	switch op {
	case OpUnion, OpIntersection, OpDifference, OpOverride:
		if left.Arity() != right.Arity() {
			return nil, fmt.Errorf("%w: %d != %d", ErrArityMismatch, left.Arity(), right.Arity())
		}
		return &BinaryExpr{Op: op, Left: left, Right: right, arity: left.Arity()}, nil
	case OpJoin:
		arity := left.Arity() + right.Arity() - 2
		if arity < 1 {
			return nil, fmt.Errorf("%w: join of arity %d and %d leaves no columns", ErrArityMismatch, left.Arity(), right.Arity())
		}
		return &BinaryExpr{Op: op, Left: left, Right: right, arity: arity}, nil
	case OpProduct:
		return &BinaryExpr{Op: op, Left: left, Right: right, arity: left.Arity() + right.Arity()}, nil
	default:
		return nil, fmt.Errorf("kodkod: unknown BinaryExprOp %d", op)
	}
}

func (e *BinaryExpr) Arity() int { return e.arity }
func (e *BinaryExpr) Accept(v Visitor) (*BooleanMatrix, error) {
	return v.VisitBinaryExpr(e)
}
func (e *BinaryExpr) exprNode() {}

// UnaryExprOp enumerates the unary Expression operators.
type UnaryExprOp int

const (
	OpTranspose UnaryExprOp = iota
	OpClosure
	OpReflexiveClosure
)

// UnaryExpr applies op to Child. Closure and ReflexiveClosure require
// Child to have arity exactly 2 (spec.md §3); Transpose does too, since
// only a binary relation has a well-defined transpose.
type UnaryExpr struct {
	Op    UnaryExprOp
	Child Expression
}

// NewUnaryExpr validates that child has arity 2, as required for all
// three unary operators.
func NewUnaryExpr(op UnaryExprOp, child Expression) (*UnaryExpr, error) {
	if child.Arity() != 2 {
		return nil, fmt.Errorf("%w: operand has arity %d, want 2", ErrClosureArity, child.Arity())
	}
	return &UnaryExpr{Op: op, Child: child}, nil
}

func (e *UnaryExpr) Arity() int { return 2 }
func (e *UnaryExpr) Accept(v Visitor) (*BooleanMatrix, error) {
	return v.VisitUnaryExpr(e)
}
func (e *UnaryExpr) exprNode() {}

// Comprehension is a set-builder expression: { d1, ..., dk | body }. Its
// arity is the sum of its declarations' variables' arities.
type Comprehension struct {
	Decls []Decl
	Body  Formula
	arity int
}

// NewComprehension validates that decls is non-empty and returns the
// Comprehension whose arity is the sum of each declared variable's arity.
func NewComprehension(decls []Decl, body Formula) (*Comprehension, error) {
	if len(decls) == 0 {
		return nil, fmt.Errorf("kodkod: comprehension requires at least one declaration")
	}
	arity := 0
	for _, d := range decls {
		arity += d.Variable.Arity()
	}
	return &Comprehension{Decls: decls, Body: body, arity: arity}, nil
}

func (e *Comprehension) Arity() int { return e.arity }
func (e *Comprehension) Accept(v Visitor) (*BooleanMatrix, error) {
	return v.VisitComprehension(e)
}
func (e *Comprehension) exprNode() {}

// IfExpression selects Then or Else by the value of Cond. Then and Else
// must share an arity.
type IfExpression struct {
	Cond       Formula
	Then, Else Expression
}

// NewIfExpression validates that Then and Else share an arity.
func NewIfExpression(cond Formula, then, els Expression) (*IfExpression, error) {
	if then.Arity() != els.Arity() {
		return nil, fmt.Errorf("%w: then arity %d != else arity %d", ErrArityMismatch, then.Arity(), els.Arity())
	}
	return &IfExpression{Cond: cond, Then: then, Else: els}, nil
}

func (e *IfExpression) Arity() int { return e.Then.Arity() }
func (e *IfExpression) Accept(v Visitor) (*BooleanMatrix, error) {
	return v.VisitIfExpression(e)
}
func (e *IfExpression) exprNode() {}

// ProjectExpression selects and reorders a subset of Expr's columns.
// Columns holds 0-indexed positions into Expr's tuples; len(Columns)
// becomes the result arity and each entry must be a valid column of Expr.
type ProjectExpression struct {
	Expr    Expression
	Columns []int
}

// NewProjectExpression validates that every column index is within
// [0, expr.Arity()).
func NewProjectExpression(expr Expression, columns []int) (*ProjectExpression, error) {
	for _, col := range columns {
		if col < 0 || col >= expr.Arity() {
			return nil, fmt.Errorf("%w: column %d out of range for arity %d", ErrArityMismatch, col, expr.Arity())
		}
	}
	cp := make([]int, len(columns))
	copy(cp, columns)
	return &ProjectExpression{Expr: expr, Columns: cp}, nil
}

func (e *ProjectExpression) Arity() int { return len(e.Columns) }
func (e *ProjectExpression) Accept(v Visitor) (*BooleanMatrix, error) {
	return v.VisitProjectExpression(e)
}
func (e *ProjectExpression) exprNode() {}

// IntToExprCast lifts an IntExpression into a singleton arity-1
// expression whose sole tuple, if any, is the bit-vector's value
// interpreted as an atom index (spec.md's IntToExprCast).
type IntToExprCast struct {
	IntExpr IntExpression
}

func NewIntToExprCast(e IntExpression) *IntToExprCast { return &IntToExprCast{IntExpr: e} }

func (e *IntToExprCast) Arity() int { return 1 }
func (e *IntToExprCast) Accept(v Visitor) (*BooleanMatrix, error) {
	return v.VisitIntToExprCast(e)
}
func (e *IntToExprCast) exprNode() {}
