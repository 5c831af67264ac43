package kodkod

import "fmt"

// CNFEmitter turns a Circuit's gates into CNF clauses inside a SATSolver,
// via the standard Tseitin encoding, allocating one solver variable per
// circuit variable and per non-constant gate label (spec.md §4.4).
type CNFEmitter struct {
	circuit *Circuit
	solver  SATSolver
	varOf   map[int32]int
}

// NewCNFEmitter returns an emitter that will allocate variables in solver
// as needed while clausifying nodes from circuit.
func NewCNFEmitter(circuit *Circuit, solver SATSolver) *CNFEmitter {
	return &CNFEmitter{circuit: circuit, solver: solver, varOf: make(map[int32]int)}
}

func (e *CNFEmitter) solverVarFor(label int32) int {
	if v, ok := e.varOf[label]; ok {
		return v
	}
	v := e.solver.AddVariables(1)
	e.varOf[label] = v
	return v
}

// solverLit returns the signed DIMACS literal for l: positive if l views
// its node positively, negative otherwise. l must not be a constant.
func (e *CNFEmitter) solverLit(l Lit) int {
	v := e.solverVarFor(l.label())
	if l.IsPositive() {
		return v
	}
	return -v
}

// Emit clausifies every gate reachable from root and returns the set of
// top-level literals that must be asserted for root to hold: if root is
// a positively-viewed AND gate, its (already-flattened) conjuncts, one
// literal per conjunct, each becoming an independent unit assertion — the
// optimization spec.md §4.4 calls out as important for core extraction,
// since each top-level conjunct is then directly identifiable in the
// clause set rather than hidden behind one root AND gate's Tseitin
// clauses. Otherwise, the single literal for root.
func (e *CNFEmitter) Emit(root Lit) ([]int, error) {
	if root == TrueLit {
		return nil, nil
	}
	if root == FalseLit {
		return nil, fmt.Errorf("kodkod: cannot emit CNF for a FALSE root")
	}

	for _, g := range e.circuit.gatesFrom(root) {
		if err := e.emitGate(g); err != nil {
			return nil, err
		}
	}

	if g := e.circuit.gateOf(root); g != nil && root.IsPositive() && g.op == opAnd {
		lits := make([]int, len(g.inputs))
		for i, in := range g.inputs {
			lits[i] = e.solverLit(in)
		}
		for _, l := range lits {
			e.solver.AddClause([]int{l})
		}
		return lits, nil
	}

	l := e.solverLit(root)
	e.solver.AddClause([]int{l})
	return []int{l}, nil
}

// Value returns l's value under sat's current assignment, honoring l's
// sign and short-circuiting the boolean constants. l must be TrueLit,
// FalseLit, or a Lit this emitter has already clausified.
func (e *CNFEmitter) Value(sat SATSolver, l Lit) (bool, error) {
	if l == TrueLit {
		return true, nil
	}
	if l == FalseLit {
		return false, nil
	}
	v, ok := e.varOf[l.label()]
	if !ok {
		return false, fmt.Errorf("kodkod: literal %s was never emitted", l)
	}
	val := sat.ValueOf(v)
	if !l.IsPositive() {
		val = !val
	}
	return val, nil
}

func (e *CNFEmitter) emitGate(g *gate) error {
	gVar := e.solverVarFor(g.label)
	switch g.op {
	case opAnd:
		for _, in := range g.inputs {
			e.solver.AddClause([]int{-gVar, e.solverLit(in)})
		}
		clause := make([]int, 0, len(g.inputs)+1)
		for _, in := range g.inputs {
			clause = append(clause, -e.solverLit(in))
		}
		clause = append(clause, gVar)
		e.solver.AddClause(clause)
	case opOr:
		for _, in := range g.inputs {
			e.solver.AddClause([]int{-e.solverLit(in), gVar})
		}
		clause := make([]int, 0, len(g.inputs)+1)
		for _, in := range g.inputs {
			clause = append(clause, e.solverLit(in))
		}
		clause = append(clause, -gVar)
		e.solver.AddClause(clause)
	case opIte:
		i, t, el := e.solverLit(g.inputs[0]), e.solverLit(g.inputs[1]), e.solverLit(g.inputs[2])
		e.solver.AddClause([]int{-gVar, -i, t})
		e.solver.AddClause([]int{-gVar, i, el})
		e.solver.AddClause([]int{gVar, -i, -t})
		e.solver.AddClause([]int{gVar, i, -el})
	case opVar:
		// no clauses: a leaf's solver variable stands for itself.
	default:
		return fmt.Errorf("kodkod: unknown gate operator %d", g.op)
	}
	return nil
}
