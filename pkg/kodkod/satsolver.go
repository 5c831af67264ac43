package kodkod

// SolveResult is the outcome of a single SATSolver.Solve call.
type SolveResult int

const (
	ResultUnknown SolveResult = iota
	ResultSAT
	ResultUNSAT
)

// SATSolver is the external collaborator consumed by the CNF emitter and
// proof layer (spec.md §6). The system never instantiates a SAT solver
// itself; callers inject one — typically the satgini adapter — into
// Solver.Solve. Variables are 1-indexed positive integers matching
// DIMACS convention; a Lit's sign indicates polarity.
type SATSolver interface {
	// AddVariables allocates n fresh solver variables and returns the
	// first one allocated; the rest are numbered consecutively.
	AddVariables(n int) int
	// AddClause asserts the disjunction of literals (DIMACS-style: a
	// positive int is that variable, a negative int its negation).
	AddClause(literals []int)
	// Solve runs the search and returns SAT or UNSAT (never Unknown,
	// unless a budget set via the solver's own configuration was hit).
	Solve() SolveResult
	// ValueOf returns the solver's assignment to variable v. Valid only
	// after Solve returns ResultSAT.
	ValueOf(v int) bool
	// Proof returns the resolution trace behind the most recent UNSAT
	// result. Valid only after Solve returns ResultUNSAT, and only if
	// the solver was built with proof logging enabled.
	Proof() (ResolutionTrace, error)
	// Reduce re-solves under strategy's clause exclusions, iteratively
	// refining the proof for core minimization (spec.md §4.6).
	Reduce(strategy ReductionStrategy) (ResolutionTrace, error)
}

// ResolutionClause is one clause in a ResolutionTrace.
type ResolutionClause struct {
	Index      int
	Learned    bool
	Literals   []int
	Antecedents []int // clause indices; empty for original (non-learned) clauses
}

// ResolutionTrace is a SAT solver's refutation proof: every clause that
// participated in deriving the empty (conflict) clause, in an order the
// solver chooses to expose (spec.md §6: "topological from conflict, or
// index order").
type ResolutionTrace interface {
	// Clauses returns every clause in the trace.
	Clauses() []ResolutionClause
	// Conflict returns the index of the distinguished empty clause
	// derived at refutation.
	Conflict() int
}

// ReductionStrategy drives MinTopStrategy's iterative core refinement: on
// each call it names another batch of clauses to exclude from the next
// resolve, or returns an empty slice to signal it has nothing further to
// try (spec.md §4.6 step 3, §6).
type ReductionStrategy interface {
	NextReduction(trace ResolutionTrace) []int
}
