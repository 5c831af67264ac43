package kodkod

import "sort"

// MinTopStrategy drives SATSolver.Reduce to shrink the set of top-level
// conjuncts asserted to the solver while preserving unsatisfiability
// (spec.md §4.6's minimization algorithm). It is constructed once per
// proof and is not reusable across solves.
type MinTopStrategy struct {
	conjuncts []Formula
	lits      []int   // each conjunct's asserted unit-clause literal
	vars      [][]int // each conjunct's full solver-variable footprint

	necessary []bool
	removed   []bool

	pending int // index into conjuncts currently being tried, or -1
}

// NewMinTopStrategy returns a strategy over conjuncts, whose unit-clause
// literals were lits (as returned by CNFEmitter.Emit's top-level
// optimization, in the same order), using log to compute each conjunct's
// full variable footprint for the selection policy.
func NewMinTopStrategy(conjuncts []Formula, lits []int, log []LogRecord) *MinTopStrategy {
	vars := make([][]int, len(conjuncts))
	for i, conjunct := range conjuncts {
		subtree := make(map[any]bool)
		collectNodes(conjunct, subtree)
		seen := make(map[int]bool)
		var vs []int
		for _, rec := range log {
			if subtree[rec.Node] {
				v := int(rec.Lit.label())
				if !seen[v] {
					seen[v] = true
					vs = append(vs, v)
				}
			}
		}
		vars[i] = vs
	}
	return &MinTopStrategy{
		conjuncts: conjuncts,
		lits:      lits,
		vars:      vars,
		necessary: make([]bool, len(conjuncts)),
		removed:   make([]bool, len(conjuncts)),
		pending:   -1,
	}
}

func (m *MinTopStrategy) clauseIndexForLit(trace ResolutionTrace, lit int) (int, bool) {
	for _, c := range trace.Clauses() {
		if len(c.Literals) == 1 && c.Literals[0] == lit {
			return c.Index, true
		}
	}
	return 0, false
}

// NextReduction implements ReductionStrategy per spec.md §4.6 steps 2-3:
// it resolves the previous attempt's outcome (present in trace => the
// conjunct was necessary and is restored; absent => it was safely
// dropped), then picks the next remaining conjunct to try removing,
// using the largest-|relevant|-first policy, ties by index.
func (m *MinTopStrategy) NextReduction(trace ResolutionTrace) []int {
	if m.pending >= 0 {
		if _, present := m.clauseIndexForLit(trace, m.lits[m.pending]); present {
			m.necessary[m.pending] = true
		} else {
			m.removed[m.pending] = true
		}
		m.pending = -1
	}

	coreVars := coreVariables(trace)
	best := -1
	bestScore := -1
	for i := range m.conjuncts {
		if m.necessary[i] || m.removed[i] {
			continue
		}
		score := 0
		for _, v := range m.vars[i] {
			if coreVars[v] {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			best = i
		}
	}
	if best == -1 {
		return nil
	}

	idx, present := m.clauseIndexForLit(trace, m.lits[best])
	if !present {
		// Already gone for some other reason; treat as removed and move on.
		m.removed[best] = true
		return m.NextReduction(trace)
	}
	m.pending = best
	return []int{idx}
}

// Necessary returns the subset of conjuncts that NextReduction determined
// cannot be dropped without losing unsatisfiability: the locally minimal
// core of spec.md §4.6. It is only meaningful once NextReduction has been
// driven to a nil return (every conjunct is, by construction, exactly one
// of necessary or removed by then); any conjunct NextReduction never got
// to try is conservatively reported as necessary.
func (m *MinTopStrategy) Necessary() []Formula {
	var out []Formula
	for i, c := range m.conjuncts {
		if !m.removed[i] {
			out = append(out, c)
		}
	}
	return out
}

// collectNodes walks n's subtree (the same node shapes Annotate walks) and
// records every node visited, including n itself.
func collectNodes(n any, out map[any]bool) {
	if out[n] {
		return
	}
	out[n] = true
	switch v := n.(type) {
	case *ComparisonFormula:
		collectNodes(v.Left, out)
		collectNodes(v.Right, out)
	case *MultiplicityFormula:
		collectNodes(v.Expr, out)
	case *QuantifiedFormula:
		collectDecls(v.Decls, out)
		collectNodes(v.Body, out)
	case *BinaryFormula:
		collectNodes(v.Left, out)
		collectNodes(v.Right, out)
	case *NotFormula:
		collectNodes(v.Child, out)
	case *IntComparisonFormula:
		collectNodes(v.Left, out)
		collectNodes(v.Right, out)
	case *BinaryExpr:
		collectNodes(v.Left, out)
		collectNodes(v.Right, out)
	case *UnaryExpr:
		collectNodes(v.Child, out)
	case *Comprehension:
		collectDecls(v.Decls, out)
		collectNodes(v.Body, out)
	case *IfExpression:
		collectNodes(v.Cond, out)
		collectNodes(v.Then, out)
		collectNodes(v.Else, out)
	case *ProjectExpression:
		collectNodes(v.Expr, out)
	case *IntToExprCast:
		collectNodes(v.IntExpr, out)
	case *Cardinality:
		collectNodes(v.Expr, out)
	case *BinaryIntExpression:
		collectNodes(v.Left, out)
		collectNodes(v.Right, out)
	case *IfIntExpression:
		collectNodes(v.Cond, out)
		collectNodes(v.Then, out)
		collectNodes(v.Else, out)
	case *ExprToIntCast:
		collectNodes(v.Expr, out)
	case *SumExpression:
		collectDecls(v.Decls, out)
		collectNodes(v.IntBody, out)
	}
}

func collectDecls(decls []Decl, out map[any]bool) {
	for _, d := range decls {
		collectNodes(d.Expression, out)
	}
}

// sortedKeys returns the keys of a map[int]bool in ascending order, for
// deterministic output.
func sortedKeys(m map[int]bool) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}
