package satgini

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/languagefun/kodkod/pkg/kodkod"
)

func TestSolverSatisfiable(t *testing.T) {
	s := New()
	v := s.AddVariables(2)
	a, b := v, v+1

	// (a or b) and (not a or b) and (a or not b) => a = b = true
	s.AddClause([]int{a, b})
	s.AddClause([]int{-a, b})
	s.AddClause([]int{a, -b})

	require.Equal(t, kodkod.ResultSAT, s.Solve())
	assert.True(t, s.ValueOf(a))
	assert.True(t, s.ValueOf(b))
}

func TestSolverUnsatisfiable(t *testing.T) {
	s := New()
	v := s.AddVariables(1)

	s.AddClause([]int{v})
	s.AddClause([]int{-v})

	require.Equal(t, kodkod.ResultUNSAT, s.Solve())

	trace, err := s.Proof()
	require.NoError(t, err)
	assert.NotEmpty(t, trace.Clauses())
}

func TestSolverProofRequiresUnsat(t *testing.T) {
	s := New()
	v := s.AddVariables(1)
	s.AddClause([]int{v})

	require.Equal(t, kodkod.ResultSAT, s.Solve())
	_, err := s.Proof()
	assert.Error(t, err)
}

// fixedOrderStrategy tries removing each given clause index exactly once,
// in order, regardless of the trace it is handed.
type fixedOrderStrategy struct {
	order []int
	pos   int
}

func (f *fixedOrderStrategy) NextReduction(trace kodkod.ResolutionTrace) []int {
	if f.pos >= len(f.order) {
		return nil
	}
	idx := f.order[f.pos]
	f.pos++
	return []int{idx}
}

func TestSolverReduceDropsUnnecessaryClauses(t *testing.T) {
	s := New()
	v := s.AddVariables(3)
	a, b, c := v, v+1, v+2

	// a is pinned true and false directly: the conflict needs only those
	// two unit clauses. The third clause constrains b/c and is never
	// needed to derive UNSAT.
	s.AddClause([]int{a})
	s.AddClause([]int{-a})
	s.AddClause([]int{b, c})

	require.Equal(t, kodkod.ResultUNSAT, s.Solve())

	strategy := &fixedOrderStrategy{order: []int{2, 0, 1}}
	reduced, err := s.Reduce(strategy)
	require.NoError(t, err)

	for _, cl := range reduced.Clauses() {
		for _, l := range cl.Literals {
			assert.NotEqual(t, b, l)
			assert.NotEqual(t, c, l)
		}
	}
}
