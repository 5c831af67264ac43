package kodkod

// Visitor interprets an AST compositionally, in the style of the standard
// library's go/ast.Visitor generalized to return a translated value per
// node instead of just controlling traversal. Expression nodes translate
// to a *BooleanMatrix, Formula nodes to a Lit, and IntExpression nodes to
// a *SmallInt (spec.md §9: "Expression/Formula/IntExpression return types
// are distinct"). Translator is the only production implementation; tests
// may supply others (e.g. a node counter) for nodes whose return value
// they ignore.
type Visitor interface {
	VisitRelation(e *RelationExpr) (*BooleanMatrix, error)
	VisitVariable(e *Variable) (*BooleanMatrix, error)
	VisitConstantExpr(e *ConstantExpr) (*BooleanMatrix, error)
	VisitBinaryExpr(e *BinaryExpr) (*BooleanMatrix, error)
	VisitUnaryExpr(e *UnaryExpr) (*BooleanMatrix, error)
	VisitComprehension(e *Comprehension) (*BooleanMatrix, error)
	VisitIfExpression(e *IfExpression) (*BooleanMatrix, error)
	VisitProjectExpression(e *ProjectExpression) (*BooleanMatrix, error)
	VisitIntToExprCast(e *IntToExprCast) (*BooleanMatrix, error)

	VisitConstantFormula(f *ConstantFormula) (Lit, error)
	VisitComparisonFormula(f *ComparisonFormula) (Lit, error)
	VisitMultiplicityFormula(f *MultiplicityFormula) (Lit, error)
	VisitQuantifiedFormula(f *QuantifiedFormula) (Lit, error)
	VisitBinaryFormula(f *BinaryFormula) (Lit, error)
	VisitNotFormula(f *NotFormula) (Lit, error)
	VisitIntComparisonFormula(f *IntComparisonFormula) (Lit, error)
	VisitRelationPredicate(f *RelationPredicate) (Lit, error)

	VisitIntConstant(e *IntConstant) (*SmallInt, error)
	VisitCardinality(e *Cardinality) (*SmallInt, error)
	VisitBinaryIntExpression(e *BinaryIntExpression) (*SmallInt, error)
	VisitIfIntExpression(e *IfIntExpression) (*SmallInt, error)
	VisitExprToIntCast(e *ExprToIntCast) (*SmallInt, error)
	VisitSumExpression(e *SumExpression) (*SmallInt, error)
}

// Expression is a relational-algebra term of fixed arity >= 1. All
// concrete Expression kinds are immutable value objects with identity by
// reference; builder functions validate arity but never deduplicate.
type Expression interface {
	Arity() int
	Accept(v Visitor) (*BooleanMatrix, error)
	exprNode()
}

// Formula is a boolean-valued relational-logic term.
type Formula interface {
	Accept(v Visitor) (Lit, error)
	formulaNode()
}

// IntExpression is an integer-valued relational-logic term.
type IntExpression interface {
	Accept(v Visitor) (*SmallInt, error)
	intExprNode()
}
