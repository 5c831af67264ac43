package kodkod

import "errors"

// Construction and translation errors. Callers may compare against these
// with errors.Is; wrapped instances carry the offending value via
// fmt.Errorf("...: %w", err).
var (
	// ErrArityMismatch is returned by expression builders when operand
	// arities are incompatible with the requested operator.
	ErrArityMismatch = errors.New("kodkod: arity mismatch")

	// ErrClosureArity is returned when closure/reflexive-closure is
	// requested on an expression whose arity is not 2.
	ErrClosureArity = errors.New("kodkod: closure requires arity 2")

	// ErrBoundsArity is returned when a lower or upper tuple set's arity
	// does not match the relation it is being bound to.
	ErrBoundsArity = errors.New("kodkod: bound arity does not match relation")

	// ErrBoundsUniverse is returned when values that must share a universe
	// do not: a bound's lower or upper tuple set over a universe other than
	// the Bounds' own, tuples or tuple sets over different universes, or
	// boolean matrices over universes of different sizes.
	ErrBoundsUniverse = errors.New("kodkod: lower and upper bound reference different universes")

	// ErrBoundsNotSubset is returned when a relation's lower bound is not
	// a subset of its upper bound.
	ErrBoundsNotSubset = errors.New("kodkod: lower bound is not a subset of upper bound")

	// ErrBoundsFrozen is returned when a mutation is attempted on a
	// Bounds value after it has been submitted to a solver.
	ErrBoundsFrozen = errors.New("kodkod: bounds are frozen")

	// ErrDuplicateAtom is returned when a Universe is constructed from a
	// slice containing a repeated atom.
	ErrDuplicateAtom = errors.New("kodkod: duplicate atom in universe")

	// ErrUnboundVariable is returned by the translator when an AST
	// expression references a Variable with no enclosing declaration in
	// the current environment. This indicates a malformed AST, not an
	// unsatisfiable formula.
	ErrUnboundVariable = errors.New("kodkod: unbound variable")

	// ErrUnknownConstant is returned by the translator when it encounters
	// a ConstantExpression or ConstantFormula tag it does not recognize.
	ErrUnknownConstant = errors.New("kodkod: unknown constant")

	// ErrNoCore names the absence of a core when translation logging was
	// not enabled. No function in this package returns it: Solve reports
	// that case as an UNSAT Result with a nil Proof.
	ErrNoCore = errors.New("kodkod: no translation log available; enable WithTranslationLog")

	// ErrForeignValue names the misuse of a circuit node, matrix, or AST
	// node with a Circuit/Solver that did not build it. No operation in
	// this package checks for that misuse or returns this error.
	ErrForeignValue = errors.New("kodkod: value belongs to a different factory")
)
