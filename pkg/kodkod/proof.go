package kodkod

// Proof wraps a ResolutionTrace together with the unsatisfiable core
// already computed for it: the locally minimal set of top-level
// conjuncts surviving MinTopStrategy's reduction (spec.md §4.6).
type Proof struct {
	trace ResolutionTrace
	core  []Formula
}

// NewProof returns a Proof over trace whose reported core is exactly
// core. Callers construct core from MinTopStrategy.Necessary once
// SATSolver.Reduce has run to completion, so Core reflects the strategy's
// own minimization result rather than a re-derivation from trace.
func NewProof(trace ResolutionTrace, core []Formula) *Proof {
	return &Proof{trace: trace, core: core}
}

// Trace returns the underlying resolution trace the proof was built from.
func (p *Proof) Trace() ResolutionTrace { return p.trace }

// coreVariables returns the set of absolute solver-variable numbers
// appearing in any clause reachable backward from the trace's conflict
// clause through the antecedent DAG (spec.md §4.6 step 1). If the
// trace's conflict index does not name one of its own Clauses (as with a
// conservative adapter that reports no real antecedent structure), every
// clause in the trace is treated as reachable — the safe, if coarser,
// fallback. Used by MinTopStrategy to score candidate conjuncts; the
// reported Core itself no longer depends on this approximation.
func coreVariables(trace ResolutionTrace) map[int]bool {
	clauses := trace.Clauses()
	byIndex := make(map[int]ResolutionClause, len(clauses))
	for _, c := range clauses {
		byIndex[c.Index] = c
	}

	vars := make(map[int]bool)
	addVars := func(c ResolutionClause) {
		for _, l := range c.Literals {
			if l < 0 {
				vars[-l] = true
			} else {
				vars[l] = true
			}
		}
	}

	root, ok := byIndex[trace.Conflict()]
	if !ok {
		for _, c := range clauses {
			addVars(c)
		}
		return vars
	}

	visited := make(map[int]bool)
	var visit func(c ResolutionClause)
	visit = func(c ResolutionClause) {
		if visited[c.Index] {
			return
		}
		visited[c.Index] = true
		if !c.Learned {
			addVars(c)
		}
		for _, ant := range c.Antecedents {
			if next, ok := byIndex[ant]; ok {
				visit(next)
			}
		}
	}
	visit(root)
	return vars
}

// Core returns the high-level unsatisfiable core: the subset of the
// original top-level conjuncts that MinTopStrategy's reduction found
// necessary to preserve unsatisfiability (spec.md §4.6 step 4, §8's
// minimality property: for every c in Core(), solving the conjunction
// with c removed yields SAT).
func (p *Proof) Core() []Formula { return p.core }
