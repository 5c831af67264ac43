package kodkod

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Lit identifies a node in a Circuit's boolean DAG, together with a sign
// that views the node positively or negatively. Lit(0) is never valid.
// Negation does not allocate a node: Not just flips the sign, so a formula
// and its negation always share structure.
type Lit int32

// TrueLit and FalseLit are the circuit's boolean constants. They are
// process-wide singletons (spec.md's Formula.TRUE/FALSE are modeled this
// way too) rather than per-Circuit values, since "true" and "false" need
// no circuit-specific state.
const (
	TrueLit  Lit = 1
	FalseLit Lit = -1
)

// Not returns the negation of l. It never allocates: negation is a sign
// flip on the same underlying node.
func (l Lit) Not() Lit { return -l }

// IsConstant reports whether l is TrueLit or FalseLit.
func (l Lit) IsConstant() bool { return l == TrueLit || l == FalseLit }

// IsPositive reports whether l is a non-negated view of its node.
func (l Lit) IsPositive() bool { return l > 0 }

// label returns the positive node id l refers to, irrespective of sign.
func (l Lit) label() int32 {
	if l < 0 {
		return int32(-l)
	}
	return int32(l)
}

func (l Lit) String() string {
	switch l {
	case TrueLit:
		return "TRUE"
	case FalseLit:
		return "FALSE"
	}
	return strconv.FormatInt(int64(l), 10)
}

type gateOp int8

const (
	opVar gateOp = iota
	opAnd
	opOr
	opIte
)

// gate is a node in the circuit DAG: a variable leaf, a flattened n-ary
// AND/OR gate (the spec's BinaryGate and NaryGate are unified into one
// representation here, since both satisfy the same "≥2 sorted inputs,
// no same-operator child" invariant), or a 3-input ITE.
type gate struct {
	op     gateOp
	label  int32
	inputs []Lit // sorted ascending (by |label|, then sign) for AND/OR; [if, then, else] for ITE; nil for a variable leaf
}

// Circuit is a hash-consed factory for a boolean-operator DAG: variables,
// flattened AND/OR gates, and ITE gates, built with the local
// simplifications and structural sharing spec.md §4.1 requires. A Circuit
// is not safe for concurrent use; distinct Circuits are fully independent,
// and mixing Lits from different Circuits is a programmer error that no
// Circuit method checks for.
type Circuit struct {
	gates           map[int32]*gate
	varLit          map[int]Lit
	andCache        map[string]Lit
	orCache         map[string]Lit
	iteCache        map[string]Lit
	nextLabel       int32
	comparisonDepth int
}

// NewCircuit returns an empty Circuit. comparisonDepth bounds how many
// same-operator levels the absorption pass will flatten when building a
// new AND/OR gate (spec.md §4.1's "comparisonDepth" option); values < 1
// are treated as the default of 3.
func NewCircuit(comparisonDepth int) *Circuit {
	if comparisonDepth < 1 {
		comparisonDepth = 3
	}
	return &Circuit{
		gates:           make(map[int32]*gate),
		varLit:          make(map[int]Lit),
		andCache:        make(map[string]Lit),
		orCache:         make(map[string]Lit),
		iteCache:        make(map[string]Lit),
		nextLabel:       2,
		comparisonDepth: comparisonDepth,
	}
}

func (c *Circuit) alloc() int32 {
	label := c.nextLabel
	c.nextLabel++
	return label
}

func (c *Circuit) gateOf(l Lit) *gate {
	return c.gates[l.label()]
}

// Variable returns the leaf node for external variable id. Repeated calls
// with the same id return the same Lit: allocation happens once, on first
// use, which is what lets the translator call Variable(id) freely while
// relying on relation-variable identity across visits (spec.md §4.3).
func (c *Circuit) Variable(id int) Lit {
	if l, ok := c.varLit[id]; ok {
		return l
	}
	label := c.alloc()
	c.gates[label] = &gate{op: opVar, label: label}
	l := Lit(label)
	c.varLit[id] = l
	return l
}

func sortKey(l Lit) (int32, int8) {
	if l < 0 {
		return l.label(), 1
	}
	return l.label(), 0
}

func sortLits(lits []Lit) {
	sort.Slice(lits, func(i, j int) bool {
		ai, si := sortKey(lits[i])
		aj, sj := sortKey(lits[j])
		if ai != aj {
			return ai < aj
		}
		return si < sj
	})
}

func cacheKey(lits []Lit) string {
	var b strings.Builder
	for i, l := range lits {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatInt(int64(l), 10))
	}
	return b.String()
}

// And returns a∧b, applying the simplification table of spec.md §4.1 and
// hash-consing the result.
func (c *Circuit) And(a, b Lit) Lit {
	return c.andOr(opAnd, a, b)
}

// Or returns a∨b, applying the simplification table of spec.md §4.1 and
// hash-consing the result.
func (c *Circuit) Or(a, b Lit) Lit {
	return c.andOr(opOr, a, b)
}

// Ands folds And over a non-empty slice of inputs, left to right; the
// intermediate gates are themselves flattened and hash-consed so the
// final result is identical to however the inputs were grouped.
func (c *Circuit) Ands(lits ...Lit) Lit {
	return c.fold(opAnd, lits)
}

// Ors folds Or over a non-empty slice of inputs.
func (c *Circuit) Ors(lits ...Lit) Lit {
	return c.fold(opOr, lits)
}

func (c *Circuit) fold(op gateOp, lits []Lit) Lit {
	identity := TrueLit
	if op == opOr {
		identity = FalseLit
	}
	if len(lits) == 0 {
		return identity
	}
	acc := lits[0]
	for _, l := range lits[1:] {
		acc = c.andOr(op, acc, l)
	}
	return acc
}

func (c *Circuit) andOr(op gateOp, a, b Lit) Lit {
	identity, annihilator := TrueLit, FalseLit
	oppositeOp := opOr
	if op == opOr {
		identity, annihilator = FalseLit, TrueLit
		oppositeOp = opAnd
	}

	set := make(map[Lit]struct{}, 4)
	var flatten func(l Lit, depth int) bool // returns true if annihilator reached
	flatten = func(l Lit, depth int) bool {
		if l == identity {
			return false
		}
		if l == annihilator {
			return true
		}
		if depth > 0 {
			if g := c.gateOf(l); g != nil && l.IsPositive() && g.op == op {
				for _, in := range g.inputs {
					if flatten(in, depth-1) {
						return true
					}
				}
				return false
			}
		}
		if _, present := set[l.Not()]; present {
			return true
		}
		set[l] = struct{}{}
		return false
	}
	if flatten(a, c.comparisonDepth) || flatten(b, c.comparisonDepth) {
		return annihilator
	}
	if len(set) == 0 {
		return identity
	}
	if len(set) == 1 {
		for l := range set {
			return l
		}
	}

	// Absorption: an opposite-operator gate child is redundant if it
	// shares an input with the rest of this node's set, e.g.
	// AND(a, OR(a,b)) == AND(a) == a; OR(a, AND(a,b)) == a.
	for candidate := range set {
		g := c.gateOf(candidate)
		if g == nil || !candidate.IsPositive() || g.op != oppositeOp {
			continue
		}
		absorbed := false
		for _, in := range g.inputs {
			if _, present := set[in]; present {
				absorbed = true
				break
			}
		}
		if absorbed {
			delete(set, candidate)
		}
	}
	if len(set) == 0 {
		return identity
	}
	if len(set) == 1 {
		for l := range set {
			return l
		}
	}

	lits := make([]Lit, 0, len(set))
	for l := range set {
		lits = append(lits, l)
	}
	sortLits(lits)

	cache := c.andCache
	if op == opOr {
		cache = c.orCache
	}
	key := cacheKey(lits)
	if existing, ok := cache[key]; ok {
		return existing
	}
	label := c.alloc()
	c.gates[label] = &gate{op: op, label: label, inputs: lits}
	result := Lit(label)
	cache[key] = result
	return result
}

// Ite returns a node equivalent to "if i then t else e", applying the
// simplification table of spec.md §4.1 before hash-consing an ITEGate.
func (c *Circuit) Ite(i, t, e Lit) Lit {
	switch {
	case i == TrueLit:
		return t
	case i == FalseLit:
		return e
	case t == e:
		return t
	case t == TrueLit:
		return c.Or(i, e)
	case t == FalseLit:
		return c.And(i.Not(), e)
	case e == TrueLit:
		return c.Or(i.Not(), t)
	case e == FalseLit:
		return c.And(i, t)
	}

	key := fmt.Sprintf("%d;%d;%d", i, t, e)
	if existing, ok := c.iteCache[key]; ok {
		return existing
	}
	label := c.alloc()
	inputs := []Lit{i, t, e}
	c.gates[label] = &gate{op: opIte, label: label, inputs: inputs}
	result := Lit(label)
	c.iteCache[key] = result
	return result
}

// Implies returns a→b, i.e. !a∨b.
func (c *Circuit) Implies(a, b Lit) Lit {
	return c.Or(a.Not(), b)
}

// Iff returns a↔b, i.e. (a∧b)∨(!a∧!b).
func (c *Circuit) Iff(a, b Lit) Lit {
	return c.Or(c.And(a, b), c.And(a.Not(), b.Not()))
}

// gatesFrom returns every non-constant, non-variable gate reachable from
// root, in post-order (every gate's inputs appear before the gate itself).
// Used by the CNF emitter to walk the DAG exactly once per gate.
func (c *Circuit) gatesFrom(root Lit) []*gate {
	var order []*gate
	visited := make(map[int32]bool)
	var visit func(l Lit)
	visit = func(l Lit) {
		if l.IsConstant() {
			return
		}
		label := l.label()
		if visited[label] {
			return
		}
		visited[label] = true
		g := c.gateOf(l)
		if g == nil {
			return
		}
		if g.op != opVar {
			for _, in := range g.inputs {
				visit(in)
			}
		}
		order = append(order, g)
	}
	visit(root)
	return order
}
