// Package satgini adapts github.com/go-air/gini to the kodkod.SATSolver
// interface, the way operator-framework's dependency resolver adapts the
// same library to its own constraint-solver Variable/Constraint model.
package satgini

import (
	"fmt"

	"github.com/go-air/gini"
	"github.com/go-air/gini/inter"
	"github.com/go-air/gini/z"

	"github.com/languagefun/kodkod/pkg/kodkod"
)

// Solver is a kodkod.SATSolver backed by a single gini instance. It is
// not safe for concurrent use.
type Solver struct {
	g       inter.S
	litOf   []z.Lit // 1-indexed by our variable numbering; litOf[0] unused
	clauses []originalClause
}

type originalClause struct {
	literals []int
	alive    bool
}

// New returns an empty Solver.
func New() *Solver {
	return &Solver{g: gini.New(), litOf: make([]z.Lit, 1)}
}

var _ kodkod.SATSolver = (*Solver)(nil)

// AddVariables allocates n fresh gini literals and returns the first
// solver-variable number assigned; the rest are numbered consecutively.
func (s *Solver) AddVariables(n int) int {
	first := len(s.litOf)
	for i := 0; i < n; i++ {
		s.litOf = append(s.litOf, s.g.Lit())
	}
	return first
}

func (s *Solver) zLitOf(dimacs int) z.Lit {
	if dimacs < 0 {
		return s.litOf[-dimacs].Not()
	}
	return s.litOf[dimacs]
}

// AddClause asserts the disjunction of literals and records it as an
// original clause for later proof / reduction bookkeeping.
func (s *Solver) AddClause(literals []int) {
	cp := make([]int, len(literals))
	copy(cp, literals)
	s.clauses = append(s.clauses, originalClause{literals: cp, alive: true})
	for _, l := range literals {
		s.g.Add(s.zLitOf(l))
	}
	s.g.Add(z.LitNull)
}

// Solve runs gini's search over every alive clause.
func (s *Solver) Solve() kodkod.SolveResult {
	switch s.g.Solve() {
	case 1:
		return kodkod.ResultSAT
	case -1:
		return kodkod.ResultUNSAT
	default:
		return kodkod.ResultUnknown
	}
}

// ValueOf reports gini's assignment to variable v.
func (s *Solver) ValueOf(v int) bool {
	return s.g.Value(s.litOf[v])
}

// trace is a conservative ResolutionTrace: gini does not expose a DRAT-
// style resolution DAG through its public API, so Proof/Reduce report
// every alive original clause as a potential antecedent of the conflict
// rather than a minimal justification (see DESIGN.md). This is sound for
// MinTopStrategy's purposes — it never claims a clause is irrelevant
// when it might not be — but does not itself minimize anything; the
// actual shrinking happens by re-solving with clauses excluded in Reduce.
type trace struct {
	clauses  []kodkod.ResolutionClause
	conflict int
}

func (t *trace) Clauses() []kodkod.ResolutionClause { return t.clauses }
func (t *trace) Conflict() int                       { return t.conflict }

func (s *Solver) buildTrace() *trace {
	var rcs []kodkod.ResolutionClause
	idx := 0
	for _, c := range s.clauses {
		if !c.alive {
			continue
		}
		rcs = append(rcs, kodkod.ResolutionClause{Index: idx, Learned: false, Literals: c.literals})
		idx++
	}
	return &trace{clauses: rcs, conflict: idx}
}

// Proof returns the current conservative trace. Valid only after Solve
// returned ResultUNSAT.
func (s *Solver) Proof() (kodkod.ResolutionTrace, error) {
	if s.Solve() != kodkod.ResultUNSAT {
		return nil, fmt.Errorf("satgini: Proof called without a prior UNSAT result")
	}
	return s.buildTrace(), nil
}

// Reduce repeatedly asks strategy which clauses to try excluding,
// rebuilds a fresh gini instance from the alive clauses minus the named
// ones, and re-solves; a reduction is kept
// (the named clauses are permanently marked dead) only if the reduced
// problem is still UNSAT. It stops when strategy.NextReduction returns
// an empty slice and returns the trace over whatever clauses remain
// alive.
func (s *Solver) Reduce(strategy kodkod.ReductionStrategy) (kodkod.ResolutionTrace, error) {
	current := s.buildTrace()
	for {
		toRemove := strategy.NextReduction(current)
		if len(toRemove) == 0 {
			return current, nil
		}
		removed := make(map[int]bool, len(toRemove))
		for _, idx := range toRemove {
			removed[idx] = true
		}

		trial := New()
		trial.litOf = append([]z.Lit(nil), s.litOf...)
		for i := 1; i < len(trial.litOf); i++ {
			trial.litOf[i] = trial.g.Lit()
		}

		liveIdx := 0
		var keptClauses []originalClause
		for _, c := range s.clauses {
			if !c.alive {
				continue
			}
			if removed[liveIdx] {
				liveIdx++
				continue
			}
			liveIdx++
			trial.AddClause(c.literals)
			keptClauses = append(keptClauses, c)
		}

		if trial.Solve() == kodkod.ResultUNSAT {
			s.clauses = keptClauses
			for i := range s.clauses {
				s.clauses[i].alive = true
			}
			s.g = trial.g
			s.litOf = trial.litOf
			current = s.buildTrace()
			continue
		}
		// Removing this batch makes it SAT: keep the clauses, report
		// the trace unchanged, and let the caller try the next
		// candidate (spec.md §4.6 step 3).
	}
}
