package kodkod

import (
	"fmt"
	"sort"
	"strings"
)

// BooleanMatrix is an n-dimensional sparse matrix of circuit nodes: cell
// (i1,...,ik) holds a Lit, linearized the same way Tuple.Index linearizes
// tuples (the last axis varies fastest). An unmapped cell implicitly holds
// FalseLit. Every operation below returns a new BooleanMatrix; none
// mutates its receiver or arguments.
type BooleanMatrix struct {
	circuit *Circuit
	n       int // size of each dimension (the shared universe size)
	arity   int // number of dimensions
	cells   map[int]Lit
}

// NewBooleanMatrix returns the all-FALSE matrix of the given arity over a
// universe of size n.
func NewBooleanMatrix(c *Circuit, n, arity int) *BooleanMatrix {
	return &BooleanMatrix{circuit: c, n: n, arity: arity, cells: make(map[int]Lit)}
}

// Arity returns the number of dimensions.
func (m *BooleanMatrix) Arity() int { return m.arity }

// Get returns the Lit at linear index idx, or FalseLit if unmapped.
func (m *BooleanMatrix) Get(idx int) Lit {
	if l, ok := m.cells[idx]; ok {
		return l
	}
	return FalseLit
}

// Indices returns the indices of every non-FALSE cell, in ascending order.
func (m *BooleanMatrix) Indices() []int {
	out := make([]int, 0, len(m.cells))
	for idx := range m.cells {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}

// withCell stores l at idx in dst unless l is FalseLit, in which case any
// existing entry is removed (matrices never store an explicit FALSE cell).
func withCell(dst map[int]Lit, idx int, l Lit) {
	if l == FalseLit {
		delete(dst, idx)
		return
	}
	dst[idx] = l
}

func pow(n, k int) int {
	r := 1
	for i := 0; i < k; i++ {
		r *= n
	}
	return r
}

func (m *BooleanMatrix) sameShape(other *BooleanMatrix) error {
	if m.n != other.n {
		return ErrBoundsUniverse
	}
	if m.arity != other.arity {
		return fmt.Errorf("%w: %d != %d", ErrArityMismatch, m.arity, other.arity)
	}
	return nil
}

func (m *BooleanMatrix) clone() *BooleanMatrix {
	out := make(map[int]Lit, len(m.cells))
	for idx, l := range m.cells {
		out[idx] = l
	}
	return &BooleanMatrix{circuit: m.circuit, n: m.n, arity: m.arity, cells: out}
}

// Union returns the cell-wise OR of m and other, which must share shape.
func (m *BooleanMatrix) Union(other *BooleanMatrix) (*BooleanMatrix, error) {
	if err := m.sameShape(other); err != nil {
		return nil, err
	}
	out := m.clone()
	for idx, r := range other.cells {
		if l, ok := out.cells[idx]; ok {
			withCell(out.cells, idx, m.circuit.Or(l, r))
		} else {
			out.cells[idx] = r
		}
	}
	return out, nil
}

// Intersection returns the cell-wise AND of m and other, which must share
// shape. Only indices present in both sparse maps can be non-FALSE, so
// only those are visited.
func (m *BooleanMatrix) Intersection(other *BooleanMatrix) (*BooleanMatrix, error) {
	if err := m.sameShape(other); err != nil {
		return nil, err
	}
	small, big := m, other
	if len(other.cells) < len(m.cells) {
		small, big = other, m
	}
	out := NewBooleanMatrix(m.circuit, m.n, m.arity)
	for idx, l := range small.cells {
		if r, ok := big.cells[idx]; ok {
			withCell(out.cells, idx, m.circuit.And(l, r))
		}
	}
	return out, nil
}

// Difference returns, per cell, AND(Mij, !Rij).
func (m *BooleanMatrix) Difference(other *BooleanMatrix) (*BooleanMatrix, error) {
	if err := m.sameShape(other); err != nil {
		return nil, err
	}
	out := NewBooleanMatrix(m.circuit, m.n, m.arity)
	for idx, l := range m.cells {
		r := other.Get(idx)
		withCell(out.cells, idx, m.circuit.And(l, r.Not()))
	}
	return out, nil
}

// Override returns the matrix where, for every row i such that other has
// at least one non-FALSE cell in row i, the entire row is replaced by
// other's row; rows untouched by other keep m's values. "Row i" is the
// cells sharing the first-dimension index i.
func (m *BooleanMatrix) Override(other *BooleanMatrix) (*BooleanMatrix, error) {
	if err := m.sameShape(other); err != nil {
		return nil, err
	}
	if m.arity < 1 {
		return nil, fmt.Errorf("%w: override requires arity >= 1", ErrArityMismatch)
	}
	rowSize := pow(m.n, m.arity-1)
	rowsWithOther := make(map[int][]int)
	for idx := range other.cells {
		row := idx / rowSize
		rowsWithOther[row] = append(rowsWithOther[row], idx)
	}

	out := m.clone()
	for row, idxs := range rowsWithOther {
		active := FalseLit
		for _, idx := range idxs {
			active = m.circuit.Or(active, other.cells[idx])
		}
		base := row * rowSize
		for j := 0; j < rowSize; j++ {
			idx := base + j
			v := m.circuit.Ite(active, other.Get(idx), m.Get(idx))
			withCell(out.cells, idx, v)
		}
	}
	return out, nil
}

// Join contracts m's last dimension with other's first dimension: the
// result has arity m.Arity()+other.Arity()-2, and cell (prefix, suffix)
// holds OR over the shared axis v of AND(m[prefix,v], other[v,suffix]).
func (m *BooleanMatrix) Join(other *BooleanMatrix) (*BooleanMatrix, error) {
	if m.n != other.n {
		return nil, ErrBoundsUniverse
	}
	if m.arity < 1 || other.arity < 1 {
		return nil, fmt.Errorf("%w: join requires arity >= 1 on both sides", ErrArityMismatch)
	}
	resultArity := m.arity - 1 + other.arity - 1
	otherSuffixSize := pow(m.n, other.arity-1)

	lByLast := make(map[int]map[int]Lit) // last axis value -> prefix -> Lit
	for idx, l := range m.cells {
		prefix, last := idx/m.n, idx%m.n
		bucket, ok := lByLast[last]
		if !ok {
			bucket = make(map[int]Lit)
			lByLast[last] = bucket
		}
		bucket[prefix] = l
	}
	rByFirst := make(map[int]map[int]Lit) // first axis value -> suffix -> Lit
	for idx, l := range other.cells {
		first, suffix := idx/otherSuffixSize, idx%otherSuffixSize
		bucket, ok := rByFirst[first]
		if !ok {
			bucket = make(map[int]Lit)
			rByFirst[first] = bucket
		}
		bucket[suffix] = l
	}

	out := NewBooleanMatrix(m.circuit, m.n, resultArity)
	for shared, prefixes := range lByLast {
		suffixes, ok := rByFirst[shared]
		if !ok {
			continue
		}
		for prefix, lval := range prefixes {
			for suffix, rval := range suffixes {
				term := m.circuit.And(lval, rval)
				if term == FalseLit {
					continue
				}
				outIdx := prefix*otherSuffixSize + suffix
				if existing, ok := out.cells[outIdx]; ok {
					withCell(out.cells, outIdx, m.circuit.Or(existing, term))
				} else {
					out.cells[outIdx] = term
				}
			}
		}
	}
	return out, nil
}

// Cross returns the outer product of m and other: arity m.Arity()+other.Arity(),
// cell (m-index, other-index) holds AND(m[m-index], other[other-index]).
func (m *BooleanMatrix) Cross(other *BooleanMatrix) (*BooleanMatrix, error) {
	if m.n != other.n {
		return nil, ErrBoundsUniverse
	}
	otherSize := pow(m.n, other.arity)
	out := NewBooleanMatrix(m.circuit, m.n, m.arity+other.arity)
	for lidx, lval := range m.cells {
		for ridx, rval := range other.cells {
			term := m.circuit.And(lval, rval)
			if term == FalseLit {
				continue
			}
			out.cells[lidx*otherSize+ridx] = term
		}
	}
	return out, nil
}

// Transpose swaps the two dimensions of a 2-D matrix.
func (m *BooleanMatrix) Transpose() (*BooleanMatrix, error) {
	if m.arity != 2 {
		return nil, fmt.Errorf("%w: transpose requires arity 2", ErrClosureArity)
	}
	out := NewBooleanMatrix(m.circuit, m.n, 2)
	for idx, l := range m.cells {
		i, j := idx/m.n, idx%m.n
		out.cells[j*m.n+i] = l
	}
	return out, nil
}

// Identity returns the n×n identity matrix over the circuit: cell (i,i) is
// TrueLit for every i, every other cell FalseLit.
func Identity(c *Circuit, n int) *BooleanMatrix {
	out := NewBooleanMatrix(c, n, 2)
	for i := 0; i < n; i++ {
		out.cells[i*n+i] = TrueLit
	}
	return out
}

// Closure returns the transitive closure of a 2-D matrix, computed by join
// doubling: each iteration replaces the accumulated result c with
// c ∪ c∘c, so after k iterations it covers every path of length up to
// 2^k, which reaches the fixpoint in ⌈log2 n⌉ iterations for a first
// dimension of size n (spec.md §4.2).
func (m *BooleanMatrix) Closure() (*BooleanMatrix, error) {
	if m.arity != 2 {
		return nil, fmt.Errorf("%w: closure requires arity 2", ErrClosureArity)
	}
	if m.n == 0 {
		return m.clone(), nil
	}
	iterations := 0
	for (1 << uint(iterations)) < m.n {
		iterations++
	}
	result := m.clone()
	for i := 0; i < iterations; i++ {
		next, err := result.Join(result)
		if err != nil {
			return nil, err
		}
		result, err = result.Union(next)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// ReflexiveClosure returns Closure() ∪ identity.
func (m *BooleanMatrix) ReflexiveClosure() (*BooleanMatrix, error) {
	closure, err := m.Closure()
	if err != nil {
		return nil, err
	}
	return closure.Union(Identity(m.circuit, m.n))
}

// Eq returns the conjunction over all cells of IFF(Mij, Rij).
func (m *BooleanMatrix) Eq(other *BooleanMatrix) (Lit, error) {
	if err := m.sameShape(other); err != nil {
		return FalseLit, err
	}
	seen := make(map[int]bool, len(m.cells)+len(other.cells))
	var terms []Lit
	for idx := range m.cells {
		if !seen[idx] {
			seen[idx] = true
			terms = append(terms, m.circuit.Iff(m.Get(idx), other.Get(idx)))
		}
	}
	for idx := range other.cells {
		if !seen[idx] {
			seen[idx] = true
			terms = append(terms, m.circuit.Iff(m.Get(idx), other.Get(idx)))
		}
	}
	return m.circuit.Ands(terms...), nil
}

// Subset returns the conjunction over all cells of IMPLIES(Mij, Rij).
// Only indices where m is non-FALSE can make a term other than TRUE.
func (m *BooleanMatrix) Subset(other *BooleanMatrix) (Lit, error) {
	if err := m.sameShape(other); err != nil {
		return FalseLit, err
	}
	terms := make([]Lit, 0, len(m.cells))
	for idx, l := range m.cells {
		terms = append(terms, m.circuit.Implies(l, other.Get(idx)))
	}
	return m.circuit.Ands(terms...), nil
}

// Some returns the disjunction over all cells: true iff the decoded
// relation is non-empty.
func (m *BooleanMatrix) Some() Lit {
	terms := make([]Lit, 0, len(m.cells))
	for _, l := range m.cells {
		terms = append(terms, l)
	}
	return m.circuit.Ors(terms...)
}

// No returns !Some().
func (m *BooleanMatrix) No() Lit {
	return m.Some().Not()
}

// One returns true iff exactly one cell is true: the conjunction of "at
// least one" with pairwise mutual exclusion over the non-FALSE cells.
func (m *BooleanMatrix) One() Lit {
	idxs := m.Indices()
	if len(idxs) == 0 {
		return FalseLit
	}
	atLeastOne := m.Some()
	exclusions := make([]Lit, 0, len(idxs)*(len(idxs)-1)/2)
	for i := 0; i < len(idxs); i++ {
		for j := i + 1; j < len(idxs); j++ {
			both := m.circuit.And(m.cells[idxs[i]], m.cells[idxs[j]])
			exclusions = append(exclusions, both.Not())
		}
	}
	return m.circuit.And(atLeastOne, m.circuit.Ands(exclusions...))
}

// Lone returns No() ∨ One(), matching spec.md §4.2's stated definition.
func (m *BooleanMatrix) Lone() Lit {
	return m.circuit.Or(m.No(), m.One())
}

// Cardinality returns a SmallInt whose value equals the number of true
// cells in m, under the given encoding and (for TwosComplement) width.
func (m *BooleanMatrix) Cardinality(encoding IntEncoding, width int) (*SmallInt, error) {
	lits := make([]Lit, 0, len(m.cells))
	for _, l := range m.cells {
		lits = append(lits, l)
	}
	return Cardinality(m.circuit, encoding, width, lits)
}

// String renders the matrix's non-FALSE cells, e.g. "{0:3, 5:TRUE}".
func (m *BooleanMatrix) String() string {
	idxs := m.Indices()
	parts := make([]string, len(idxs))
	for i, idx := range idxs {
		parts[i] = fmt.Sprintf("%d:%s", idx, m.cells[idx])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
