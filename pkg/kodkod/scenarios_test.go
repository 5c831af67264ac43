package kodkod

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/languagefun/kodkod/pkg/satgini"
)

func mustRelation(t *testing.T, name string, arity int) *Relation {
	t.Helper()
	r, err := NewRelation(name, arity)
	require.NoError(t, err)
	return r
}

func mustTupleSetFromInts(t *testing.T, u *Universe, arity int, rows ...[]int) TupleSet {
	t.Helper()
	if len(rows) == 0 {
		ts, err := NewTupleSet(u, arity)
		require.NoError(t, err)
		return ts
	}
	var tuples []Tuple
	for _, row := range rows {
		atoms := make([]Atom, len(row))
		for i, a := range row {
			atoms[i] = a
		}
		tup, err := NewTuple(u, atoms...)
		require.NoError(t, err)
		tuples = append(tuples, tup)
	}
	ts, err := NewTupleSetFromTuples(tuples...)
	require.NoError(t, err)
	return ts
}

func intUniverse(t *testing.T, n int) *Universe {
	t.Helper()
	atoms := make([]Atom, n)
	for i := range atoms {
		atoms[i] = i
	}
	u, err := NewUniverse(atoms...)
	require.NoError(t, err)
	return u
}

// TestPigeonholeUnsat encodes "p pigeons, h holes (p > h), every pigeon
// nests in exactly one hole, no hole holds more than one pigeon" as
// UNSAT with exactly the two defining conjuncts in its minimized core.
func TestPigeonholeUnsat(t *testing.T) {
	const p, h = 6, 5
	u := intUniverse(t, p+h)

	pigeon := mustRelation(t, "pigeon", 1)
	hole := mustRelation(t, "hole", 1)
	nest := mustRelation(t, "nest", 2)

	var pigeonRows, holeRows [][]int
	for i := 0; i < p; i++ {
		pigeonRows = append(pigeonRows, []int{i})
	}
	for i := 0; i < h; i++ {
		holeRows = append(holeRows, []int{p + i})
	}
	var nestUpper [][]int
	for i := 0; i < p; i++ {
		for j := 0; j < h; j++ {
			nestUpper = append(nestUpper, []int{i, p + j})
		}
	}

	bounds := NewBounds(u)
	require.NoError(t, bounds.BoundExactly(pigeon, mustTupleSetFromInts(t, u, 1, pigeonRows...)))
	require.NoError(t, bounds.BoundExactly(hole, mustTupleSetFromInts(t, u, 1, holeRows...)))
	emptyNest, err := NewTupleSet(u, 2)
	require.NoError(t, err)
	require.NoError(t, bounds.Bound(nest, emptyNest, mustTupleSetFromInts(t, u, 2, nestUpper...)))

	pv, err := NewVariable("p", 1)
	require.NoError(t, err)
	hv, err := NewVariable("h", 1)
	require.NoError(t, err)

	// every pigeon nests in exactly one hole: pv.nest is one.
	pDecl, err := NewDecl(pv, Rel(pigeon), MultOne)
	require.NoError(t, err)
	pigeonJoinNest, err := NewBinaryExpr(OpJoin, pv, Rel(nest))
	require.NoError(t, err)
	everyPigeonOneHole, err := NewQuantifiedFormula(QuantifierAll, []Decl{pDecl},
		NewMultiplicityFormula(MultOneOp, pigeonJoinNest))
	require.NoError(t, err)

	// no two distinct pigeons share a hole: for every hole, nest.hv
	// (the pigeons nesting into it) is lone.
	hDecl, err := NewDecl(hv, Rel(hole), MultOne)
	require.NoError(t, err)
	nestJoinHole, err := NewBinaryExpr(OpJoin, Rel(nest), hv)
	require.NoError(t, err)
	everyHoleLonePigeon, err := NewQuantifiedFormula(QuantifierAll, []Decl{hDecl},
		NewMultiplicityFormula(MultLoneOp, nestJoinHole))
	require.NoError(t, err)

	formula := NewBinaryFormula(FormAnd, everyPigeonOneHole, everyHoleLonePigeon)

	solver := NewSolver(WithTranslationLog(true))
	sat := satgini.New()
	result, err := solver.Solve(formula, bounds, sat)
	require.NoError(t, err)
	require.Equal(t, UNSAT, result.Outcome)
	require.NotNil(t, result.Proof)
	assert.Len(t, result.Proof.Core(), 2)
}

// TestIdentityTransposeSat checks that r = ~iden (the transpose of the
// identity relation) over a 3-atom universe is satisfiable and decodes
// to the diagonal.
func TestIdentityTransposeSat(t *testing.T) {
	u := intUniverse(t, 3)
	r := mustRelation(t, "r", 2)

	empty, err := NewTupleSet(u, 2)
	require.NoError(t, err)
	full, err := AllTuples(u, 2)
	require.NoError(t, err)

	bounds := NewBounds(u)
	require.NoError(t, bounds.Bound(r, empty, full))

	transposedIden, err := NewUnaryExpr(OpTranspose, Iden())
	require.NoError(t, err)
	formula, err := NewComparisonFormula(CompEquals, Rel(r), transposedIden)
	require.NoError(t, err)

	solver := NewSolver()
	sat := satgini.New()
	result, err := solver.Solve(formula, bounds, sat)
	require.NoError(t, err)
	require.Equal(t, SAT, result.Outcome)

	ts, ok := result.Instance.Tuples(r)
	require.True(t, ok)
	assert.Equal(t, 3, ts.Size())
	for i := 0; i < 3; i++ {
		tup, err := NewTuple(u, i, i)
		require.NoError(t, err)
		assert.True(t, ts.Contains(tup))
	}
}

// TestTransitiveClosureFixpoint checks ^r over a 4-atom chain decodes to
// every forward pair reachable along the chain.
func TestTransitiveClosureFixpoint(t *testing.T) {
	u := intUniverse(t, 4)
	r := mustRelation(t, "r", 2)
	c := mustRelation(t, "c", 2)

	chain := mustTupleSetFromInts(t, u, 2, []int{0, 1}, []int{1, 2}, []int{2, 3})
	bounds := NewBounds(u)
	require.NoError(t, bounds.BoundExactly(r, chain))

	full, err := AllTuples(u, 2)
	require.NoError(t, err)
	empty, err := NewTupleSet(u, 2)
	require.NoError(t, err)
	require.NoError(t, bounds.Bound(c, empty, full))

	closureExpr, err := NewUnaryExpr(OpClosure, Rel(r))
	require.NoError(t, err)
	formula, err := NewComparisonFormula(CompEquals, Rel(c), closureExpr)
	require.NoError(t, err)

	solver := NewSolver()
	sat := satgini.New()
	result, err := solver.Solve(formula, bounds, sat)
	require.NoError(t, err)
	require.Equal(t, SAT, result.Outcome)

	ts, ok := result.Instance.Tuples(c)
	require.True(t, ok)

	want := [][]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}
	assert.Equal(t, len(want), ts.Size())
	for _, w := range want {
		tup, err := NewTuple(u, w[0], w[1])
		require.NoError(t, err)
		assert.True(t, ts.Contains(tup), "expected %v in closure", w)
	}
}

// TestCardinalitySumExactBound checks #r=3 is satisfiable with exactly 3
// tuples decoded, and #r<3 is unsatisfiable when r is fixed to exactly 3
// tuples.
func TestCardinalitySumExactBound(t *testing.T) {
	u := intUniverse(t, 4)
	r := mustRelation(t, "r", 1)

	upper := mustTupleSetFromInts(t, u, 1, []int{0}, []int{1}, []int{2}, []int{3})
	empty, err := NewTupleSet(u, 1)
	require.NoError(t, err)

	t.Run("equals three is satisfiable", func(t *testing.T) {
		bounds := NewBounds(u)
		require.NoError(t, bounds.Bound(r, empty, upper))
		formula := NewIntComparisonFormula(IntEq, NewCardinality(Rel(r)), NewIntConstant(3))

		solver := NewSolver()
		sat := satgini.New()
		result, err := solver.Solve(formula, bounds, sat)
		require.NoError(t, err)
		require.Equal(t, SAT, result.Outcome)

		ts, ok := result.Instance.Tuples(r)
		require.True(t, ok)
		assert.Equal(t, 3, ts.Size())
	})

	t.Run("less than three is unsatisfiable when exactly three", func(t *testing.T) {
		bounds := NewBounds(u)
		exact := mustTupleSetFromInts(t, u, 1, []int{0}, []int{1}, []int{2})
		require.NoError(t, bounds.BoundExactly(r, exact))
		formula := NewIntComparisonFormula(IntLt, NewCardinality(Rel(r)), NewIntConstant(3))

		solver := NewSolver()
		sat := satgini.New()
		result, err := solver.Solve(formula, bounds, sat)
		require.NoError(t, err)
		assert.Contains(t, []Outcome{UNSAT, TriviallyUnsat}, result.Outcome)
	})
}

// TestCeilingsAndFloorsUnsat encodes a small ceilings-and-floors puzzle:
// owner is a total function from properties to managers, and every
// manager owns at least one property. With 6 managers and only 2
// properties, the pigeonhole-style conflict forces UNSAT with a
// 2-conjunct minimized core.
func TestCeilingsAndFloorsUnsat(t *testing.T) {
	const m, props = 6, 2
	u := intUniverse(t, m+props)

	manager := mustRelation(t, "manager", 1)
	property := mustRelation(t, "property", 1)
	owner := mustRelation(t, "owner", 2)

	var mgrRows, propRows [][]int
	for i := 0; i < m; i++ {
		mgrRows = append(mgrRows, []int{i})
	}
	for i := 0; i < props; i++ {
		propRows = append(propRows, []int{m + i})
	}
	var ownerUpper [][]int
	for i := 0; i < props; i++ {
		for j := 0; j < m; j++ {
			ownerUpper = append(ownerUpper, []int{m + i, j})
		}
	}

	bounds := NewBounds(u)
	require.NoError(t, bounds.BoundExactly(manager, mustTupleSetFromInts(t, u, 1, mgrRows...)))
	require.NoError(t, bounds.BoundExactly(property, mustTupleSetFromInts(t, u, 1, propRows...)))
	emptyOwner, err := NewTupleSet(u, 2)
	require.NoError(t, err)
	require.NoError(t, bounds.Bound(owner, emptyOwner, mustTupleSetFromInts(t, u, 2, ownerUpper...)))

	// owner is a function from property to manager.
	funcPred := NewFunctionPredicate(owner, property, manager)

	// every manager owns at least one property: owner.mv is some, where
	// mv ranges over manager (owner.mv is the properties owned by mv).
	mv, err := NewVariable("m", 1)
	require.NoError(t, err)
	mDecl, err := NewDecl(mv, Rel(manager), MultOne)
	require.NoError(t, err)
	ownerJoinManager, err := NewBinaryExpr(OpJoin, Rel(owner), mv)
	require.NoError(t, err)
	everyManagerOwnsOne, err := NewQuantifiedFormula(QuantifierAll, []Decl{mDecl},
		NewMultiplicityFormula(MultSomeOp, ownerJoinManager))
	require.NoError(t, err)

	formula := NewBinaryFormula(FormAnd, funcPred, everyManagerOwnsOne)

	solver := NewSolver(WithTranslationLog(true))
	sat := satgini.New()
	result, err := solver.Solve(formula, bounds, sat)
	require.NoError(t, err)
	require.Equal(t, UNSAT, result.Outcome)
	require.NotNil(t, result.Proof)
	assert.Len(t, result.Proof.Core(), 2)
}

// TestQuantifierShadowing checks that "all x: A | some x: B | x in x",
// with A fixed non-empty, depends only on whether B is empty, never on
// which atom of A the outer x is bound to, since the inner declaration of
// x shadows the outer one throughout the inner formula (spec.md's
// scenario on variable shadowing).
func TestQuantifierShadowing(t *testing.T) {
	u := intUniverse(t, 2)
	a := mustRelation(t, "A", 1)
	b := mustRelation(t, "B", 1)

	full, err := AllTuples(u, 1)
	require.NoError(t, err)
	empty, err := NewTupleSet(u, 1)
	require.NoError(t, err)

	outerX, err := NewVariable("x", 1)
	require.NoError(t, err)
	innerX, err := NewVariable("x", 1)
	require.NoError(t, err)

	outerDecl, err := NewDecl(outerX, Rel(a), MultOne)
	require.NoError(t, err)
	innerDecl, err := NewDecl(innerX, Rel(b), MultOne)
	require.NoError(t, err)

	xInX, err := NewComparisonFormula(CompSubset, innerX, innerX)
	require.NoError(t, err)
	innerSome, err := NewQuantifiedFormula(QuantifierSome, []Decl{innerDecl}, xInX)
	require.NoError(t, err)
	formula, err := NewQuantifiedFormula(QuantifierAll, []Decl{outerDecl}, innerSome)
	require.NoError(t, err)

	boundsNonEmptyB := NewBounds(u)
	require.NoError(t, boundsNonEmptyB.BoundExactly(a, mustTupleSetFromInts(t, u, 1, []int{0}, []int{1})))
	require.NoError(t, boundsNonEmptyB.Bound(b, empty, full))

	boundsEmptyB := NewBounds(u)
	require.NoError(t, boundsEmptyB.BoundExactly(a, mustTupleSetFromInts(t, u, 1, []int{0}, []int{1})))
	require.NoError(t, boundsEmptyB.BoundExactly(b, empty))

	solver := NewSolver()

	satNonEmpty := satgini.New()
	resultNonEmpty, err := solver.Solve(formula, boundsNonEmptyB, satNonEmpty)
	require.NoError(t, err)
	assert.Contains(t, []Outcome{SAT, TriviallySAT}, resultNonEmpty.Outcome)

	satEmpty := satgini.New()
	resultEmpty, err := solver.Solve(formula, boundsEmptyB, satEmpty)
	require.NoError(t, err)
	assert.Contains(t, []Outcome{UNSAT, TriviallyUnsat}, resultEmpty.Outcome)
}
