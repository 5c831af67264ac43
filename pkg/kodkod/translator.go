package kodkod

import "fmt"

// LogRecord binds one AST node, as translated under a particular
// variable environment, to the Lit it produced (spec.md §3's
// "Translation log").
type LogRecord struct {
	Node any
	Lit  Lit
	Env  *environment
}

// cacheKey is the translation cache's key: a node together with the
// restriction of the current environment to that node's free variables
// (spec.md §4.3).
type cacheKey struct {
	node any
	env  string
}

// Translator folds a Formula/Expression/IntExpression AST over a Circuit,
// allocating, on a relation's first reference, one boolean variable per
// tuple in its upper but not its lower bound (lower-bound tuples are
// TRUE), and caching every translated node per
// spec.md §4.3. It implements Visitor; callers use TranslateFormula /
// TranslateExpression / TranslateInt rather than calling Accept
// directly, since those entry points apply caching and logging uniformly.
type Translator struct {
	circuit  *Circuit
	bounds   *Bounds
	universe *Universe
	ann      *Annotation
	cfg      *config

	env            *environment
	relationMatrix map[*Relation]*BooleanMatrix
	exprCache      map[cacheKey]*BooleanMatrix
	formulaCache   map[cacheKey]Lit
	intCache       map[cacheKey]*SmallInt

	log        []LogRecord
	trueForms  []Formula
	falseForms []Formula

	nextVarID int
}

// NewTranslator returns a Translator for formulas over bounds, using
// circuit as the shared boolean factory and ann as the annotation
// computed for the formula that will be translated.
func NewTranslator(circuit *Circuit, bounds *Bounds, ann *Annotation, cfg *config) *Translator {
	return &Translator{
		circuit:        circuit,
		bounds:         bounds,
		universe:       bounds.Universe(),
		ann:            ann,
		cfg:            cfg,
		env:            emptyEnvironment,
		relationMatrix: make(map[*Relation]*BooleanMatrix),
		exprCache:      make(map[cacheKey]*BooleanMatrix),
		formulaCache:   make(map[cacheKey]Lit),
		intCache:       make(map[cacheKey]*SmallInt),
	}
}

// Log returns the translation log accumulated so far. Non-empty only if
// the Translator's config enabled logTranslation.
func (t *Translator) Log() []LogRecord { return t.log }

// TriviallyTrue and TriviallyFalse return the top-level conjuncts (from
// the annotation's flattened list) that translated to TrueLit / FalseLit
// directly, reported separately so the proof layer can distinguish
// trivially-true conjuncts from ones the SAT solver actually exercised
// (spec.md §4.3 "Constants").
func (t *Translator) TriviallyTrue() []Formula  { return t.trueForms }
func (t *Translator) TriviallyFalse() []Formula { return t.falseForms }

func (t *Translator) freshVar() int {
	t.nextVarID++
	return t.nextVarID
}

func (t *Translator) envKey(node any) string {
	return t.env.restrict(t.ann.FreeVars(node)).key()
}

// TranslateFormula translates f under the translator's current
// environment, consulting and populating the formula cache and log.
func (t *Translator) TranslateFormula(f Formula) (Lit, error) {
	key := cacheKey{node: f, env: t.envKey(f)}
	if l, ok := t.formulaCache[key]; ok {
		return l, nil
	}
	l, err := f.Accept(t)
	if err != nil {
		return FalseLit, err
	}
	t.formulaCache[key] = l
	if l.IsConstant() {
		t.recordTrivialConjunct(f, l)
	} else if t.cfg.logTranslation {
		t.log = append(t.log, LogRecord{Node: f, Lit: l, Env: t.env})
	}
	return l, nil
}

// recordTrivialConjunct files f under trueForms/falseForms when it is one
// of the formula's top-level conjuncts and translated directly to a
// constant, so a caller inspecting a SAT/UNSAT result can tell which
// conjuncts the SAT solver never had to reason about at all.
func (t *Translator) recordTrivialConjunct(f Formula, l Lit) {
	isTop := false
	for _, c := range t.ann.TopConjuncts {
		if c == f {
			isTop = true
			break
		}
	}
	if !isTop {
		return
	}
	if l == TrueLit {
		t.trueForms = append(t.trueForms, f)
	} else {
		t.falseForms = append(t.falseForms, f)
	}
}

// TranslateExpression translates e under the translator's current
// environment, consulting and populating the expression cache and log.
func (t *Translator) TranslateExpression(e Expression) (*BooleanMatrix, error) {
	key := cacheKey{node: e, env: t.envKey(e)}
	if m, ok := t.exprCache[key]; ok {
		return m, nil
	}
	m, err := e.Accept(t)
	if err != nil {
		return nil, err
	}
	t.exprCache[key] = m
	if t.cfg.logTranslation {
		for _, idx := range m.Indices() {
			l := m.Get(idx)
			if !l.IsConstant() {
				t.log = append(t.log, LogRecord{Node: e, Lit: l, Env: t.env})
			}
		}
	}
	return m, nil
}

// TranslateInt translates e under the translator's current environment,
// consulting and populating the int cache.
func (t *Translator) TranslateInt(e IntExpression) (*SmallInt, error) {
	key := cacheKey{node: e, env: t.envKey(e)}
	if s, ok := t.intCache[key]; ok {
		return s, nil
	}
	s, err := e.Accept(t)
	if err != nil {
		return nil, err
	}
	t.intCache[key] = s
	return s, nil
}

// -- Expression visitors -----------------------------------------------

func (t *Translator) VisitRelation(e *RelationExpr) (*BooleanMatrix, error) {
	r := e.Relation
	if m, ok := t.relationMatrix[r]; ok {
		return m, nil
	}
	lower, lok := t.bounds.LowerBound(r)
	upper, uok := t.bounds.UpperBound(r)
	if !uok || !lok {
		return nil, fmt.Errorf("%w: relation %s has no bounds", ErrBoundsArity, r)
	}
	m := NewBooleanMatrix(t.circuit, t.universe.Size(), r.Arity())
	upper.Indices().ForEach(func(idx int) {
		if lower.ContainsIndex(idx) {
			m.cells[idx] = TrueLit
			return
		}
		m.cells[idx] = t.circuit.Variable(t.freshVar())
	})
	t.relationMatrix[r] = m
	return m, nil
}

func (t *Translator) VisitVariable(e *Variable) (*BooleanMatrix, error) {
	m, ok := t.env.lookup(e)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnboundVariable, e)
	}
	return m, nil
}

func (t *Translator) VisitConstantExpr(e *ConstantExpr) (*BooleanMatrix, error) {
	n := t.universe.Size()
	m := NewBooleanMatrix(t.circuit, n, e.arity)
	switch e.Kind {
	case ConstNone:
		// all cells left implicitly FALSE.
	case ConstUniv:
		total := pow(n, e.arity)
		for i := 0; i < total; i++ {
			m.cells[i] = TrueLit
		}
	case ConstIden:
		for i := 0; i < n; i++ {
			m.cells[i*n+i] = TrueLit
		}
	default:
		return nil, fmt.Errorf("%w: unknown constant kind %d", ErrUnknownConstant, e.Kind)
	}
	return m, nil
}

func (t *Translator) VisitBinaryExpr(e *BinaryExpr) (*BooleanMatrix, error) {
	l, err := t.TranslateExpression(e.Left)
	if err != nil {
		return nil, err
	}
	r, err := t.TranslateExpression(e.Right)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case OpUnion:
		return l.Union(r)
	case OpIntersection:
		return l.Intersection(r)
	case OpDifference:
		return l.Difference(r)
	case OpJoin:
		return l.Join(r)
	case OpProduct:
		return l.Cross(r)
	case OpOverride:
		return l.Override(r)
	default:
		return nil, fmt.Errorf("kodkod: unknown BinaryExprOp %d", e.Op)
	}
}

func (t *Translator) VisitUnaryExpr(e *UnaryExpr) (*BooleanMatrix, error) {
	child, err := t.TranslateExpression(e.Child)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case OpTranspose:
		return child.Transpose()
	case OpClosure:
		return child.Closure()
	case OpReflexiveClosure:
		return child.ReflexiveClosure()
	default:
		return nil, fmt.Errorf("kodkod: unknown UnaryExprOp %d", e.Op)
	}
}

// groundBinding is one ground instantiation produced by enumerating the
// Cartesian product of a Decl list's cell indices (spec.md §4.3).
type groundBinding struct {
	env        *environment
	guard      Lit
	tupleIndex int
	tupleArity int
}

// enumerateGround walks decls left to right, translating each decl's
// Expression under the partial environment built from the decls before
// it (so later declarations may depend on earlier ones), and returns one
// groundBinding per combination of ground cell indices.
func (t *Translator) enumerateGround(decls []Decl) ([]groundBinding, error) {
	bindings := []groundBinding{{env: t.env, guard: TrueLit}}
	savedEnv := t.env
	defer func() { t.env = savedEnv }()

	for _, d := range decls {
		if d.Multiplicity != MultOne {
			return nil, fmt.Errorf("kodkod: declaration of %s has multiplicity %s, only %s is supported", d.Variable, d.Multiplicity, MultOne)
		}
		var next []groundBinding
		for _, b := range bindings {
			t.env = b.env
			m, err := t.TranslateExpression(d.Expression)
			if err != nil {
				return nil, err
			}
			n := t.universe.Size()
			width := pow(n, d.Variable.Arity())
			for _, idx := range m.Indices() {
				cellLit := m.Get(idx)
				indicator := NewBooleanMatrix(t.circuit, n, d.Variable.Arity())
				indicator.cells[idx] = TrueLit
				next = append(next, groundBinding{
					env:        b.env.push(d.Variable, indicator),
					guard:      t.circuit.And(b.guard, cellLit),
					tupleIndex: b.tupleIndex*width + idx,
					tupleArity: b.tupleArity + d.Variable.Arity(),
				})
			}
		}
		bindings = next
	}
	return bindings, nil
}

func (t *Translator) VisitComprehension(e *Comprehension) (*BooleanMatrix, error) {
	bindings, err := t.enumerateGround(e.Decls)
	if err != nil {
		return nil, err
	}
	out := NewBooleanMatrix(t.circuit, t.universe.Size(), e.arity)
	savedEnv := t.env
	defer func() { t.env = savedEnv }()
	for _, b := range bindings {
		t.env = b.env
		bodyLit, err := t.TranslateFormula(e.Body)
		if err != nil {
			return nil, err
		}
		withCell(out.cells, b.tupleIndex, t.circuit.And(b.guard, bodyLit))
	}
	return out, nil
}

func (t *Translator) VisitIfExpression(e *IfExpression) (*BooleanMatrix, error) {
	cond, err := t.TranslateFormula(e.Cond)
	if err != nil {
		return nil, err
	}
	then, err := t.TranslateExpression(e.Then)
	if err != nil {
		return nil, err
	}
	els, err := t.TranslateExpression(e.Else)
	if err != nil {
		return nil, err
	}
	out := NewBooleanMatrix(t.circuit, t.universe.Size(), e.Arity())
	seen := make(map[int]bool, len(then.cells)+len(els.cells))
	for idx := range then.cells {
		seen[idx] = true
	}
	for idx := range els.cells {
		seen[idx] = true
	}
	for idx := range seen {
		withCell(out.cells, idx, t.circuit.Ite(cond, then.Get(idx), els.Get(idx)))
	}
	return out, nil
}

func (t *Translator) VisitProjectExpression(e *ProjectExpression) (*BooleanMatrix, error) {
	child, err := t.TranslateExpression(e.Expr)
	if err != nil {
		return nil, err
	}
	n := t.universe.Size()
	childArity := e.Expr.Arity()
	out := NewBooleanMatrix(t.circuit, n, len(e.Columns))
	for _, idx := range child.Indices() {
		srcTuple := make([]int, childArity)
		rem := idx
		for i := childArity - 1; i >= 0; i-- {
			srcTuple[i] = rem % n
			rem /= n
		}
		outIdx := 0
		for _, col := range e.Columns {
			outIdx = outIdx*n + srcTuple[col]
		}
		existing := out.Get(outIdx)
		withCell(out.cells, outIdx, t.circuit.Or(existing, child.Get(idx)))
	}
	return out, nil
}

func (t *Translator) VisitIntToExprCast(e *IntToExprCast) (*BooleanMatrix, error) {
	si, err := t.TranslateInt(e.IntExpr)
	if err != nil {
		return nil, err
	}
	n := t.universe.Size()
	out := NewBooleanMatrix(t.circuit, n, 1)
	for i := 0; i < n && i < (1<<uint(len(si.bits))); i++ {
		eq, err := si.Eq(NewSmallIntConstant(t.circuit, si.encoding, si.Width(), i))
		if err != nil {
			return nil, err
		}
		withCell(out.cells, i, eq)
	}
	return out, nil
}

// -- Formula visitors ----------------------------------------------------

func (t *Translator) VisitConstantFormula(f *ConstantFormula) (Lit, error) {
	if f.Value {
		return TrueLit, nil
	}
	return FalseLit, nil
}

func (t *Translator) VisitComparisonFormula(f *ComparisonFormula) (Lit, error) {
	l, err := t.TranslateExpression(f.Left)
	if err != nil {
		return FalseLit, err
	}
	r, err := t.TranslateExpression(f.Right)
	if err != nil {
		return FalseLit, err
	}
	switch f.Op {
	case CompEquals:
		return l.Eq(r)
	case CompSubset:
		return l.Subset(r)
	default:
		return FalseLit, fmt.Errorf("kodkod: unknown ComparisonOp %d", f.Op)
	}
}

func (t *Translator) VisitMultiplicityFormula(f *MultiplicityFormula) (Lit, error) {
	m, err := t.TranslateExpression(f.Expr)
	if err != nil {
		return FalseLit, err
	}
	switch f.Op {
	case MultNo:
		return m.No(), nil
	case MultSomeOp:
		return m.Some(), nil
	case MultOneOp:
		return m.One(), nil
	case MultLoneOp:
		return m.Lone(), nil
	default:
		return FalseLit, fmt.Errorf("kodkod: unknown MultiplicityOp %d", f.Op)
	}
}

func (t *Translator) VisitQuantifiedFormula(f *QuantifiedFormula) (Lit, error) {
	bindings, err := t.enumerateGround(f.Decls)
	if err != nil {
		return FalseLit, err
	}
	savedEnv := t.env
	defer func() { t.env = savedEnv }()

	terms := make([]Lit, len(bindings))
	for i, b := range bindings {
		t.env = b.env
		bodyLit, err := t.TranslateFormula(f.Body)
		if err != nil {
			return FalseLit, err
		}
		switch f.Op {
		case QuantifierAll:
			terms[i] = t.circuit.Implies(b.guard, bodyLit)
		case QuantifierSome:
			terms[i] = t.circuit.And(b.guard, bodyLit)
		default:
			return FalseLit, fmt.Errorf("kodkod: unknown QuantifierOp %d", f.Op)
		}
	}
	if f.Op == QuantifierAll {
		return t.circuit.Ands(terms...), nil
	}
	return t.circuit.Ors(terms...), nil
}

func (t *Translator) VisitBinaryFormula(f *BinaryFormula) (Lit, error) {
	l, err := t.TranslateFormula(f.Left)
	if err != nil {
		return FalseLit, err
	}
	r, err := t.TranslateFormula(f.Right)
	if err != nil {
		return FalseLit, err
	}
	switch f.Op {
	case FormAnd:
		return t.circuit.And(l, r), nil
	case FormOr:
		return t.circuit.Or(l, r), nil
	case FormImplies:
		return t.circuit.Implies(l, r), nil
	case FormIff:
		return t.circuit.Iff(l, r), nil
	default:
		return FalseLit, fmt.Errorf("kodkod: unknown BinaryFormulaOp %d", f.Op)
	}
}

func (t *Translator) VisitNotFormula(f *NotFormula) (Lit, error) {
	l, err := t.TranslateFormula(f.Child)
	if err != nil {
		return FalseLit, err
	}
	return l.Not(), nil
}

func (t *Translator) VisitIntComparisonFormula(f *IntComparisonFormula) (Lit, error) {
	l, err := t.TranslateInt(f.Left)
	if err != nil {
		return FalseLit, err
	}
	r, err := t.TranslateInt(f.Right)
	if err != nil {
		return FalseLit, err
	}
	switch f.Op {
	case IntEq:
		return l.Eq(r)
	case IntLt:
		return l.Lt(r)
	case IntLe:
		return l.Le(r)
	case IntGt:
		return l.Gt(r)
	case IntGe:
		return l.Ge(r)
	default:
		return FalseLit, fmt.Errorf("kodkod: unknown IntComparisonOp %d", f.Op)
	}
}

// VisitRelationPredicate expands the built-in structural predicates into
// their boolean-matrix definitions: acyclic(r) is no(^r & iden); a total
// ordering asserts r orders "ordered" with the given first/last
// endpoints; function(r) asserts every domain element has exactly one
// successor under r. The Range relation is not read, so successors
// outside it are not excluded by this predicate.
func (t *Translator) VisitRelationPredicate(f *RelationPredicate) (Lit, error) {
	switch f.Kind {
	case PredAcyclic:
		m, err := t.TranslateExpression(Rel(f.Relation))
		if err != nil {
			return FalseLit, err
		}
		closure, err := m.Closure()
		if err != nil {
			return FalseLit, err
		}
		iden := Iden()
		idenM, err := t.TranslateExpression(iden)
		if err != nil {
			return FalseLit, err
		}
		inter, err := closure.Intersection(idenM)
		if err != nil {
			return FalseLit, err
		}
		return inter.No(), nil
	case PredFunction:
		r, err := t.TranslateExpression(Rel(f.Relation))
		if err != nil {
			return FalseLit, err
		}
		dom, err := t.TranslateExpression(Rel(f.Domain))
		if err != nil {
			return FalseLit, err
		}
		n := t.universe.Size()
		terms := make([]Lit, 0, n)
		for i := 0; i < n; i++ {
			if dom.Get(i) == FalseLit {
				continue
			}
			row := NewBooleanMatrix(t.circuit, n, 1)
			for j := 0; j < n; j++ {
				withCell(row.cells, j, r.Get(i*n+j))
			}
			terms = append(terms, t.circuit.Implies(dom.Get(i), row.One()))
		}
		return t.circuit.Ands(terms...), nil
	case PredTotalOrdering:
		return t.translateTotalOrdering(f)
	default:
		return FalseLit, fmt.Errorf("kodkod: unknown RelationPredicateKind %d", f.Kind)
	}
}

// translateTotalOrdering asserts that r is an irreflexive, total,
// transitive ordering of "ordered" with distinguished first/last
// endpoints: r's reflexive closure restricted to ordered is antisymmetric
// and total, first has no predecessor in r, last has no successor.
func (t *Translator) translateTotalOrdering(f *RelationPredicate) (Lit, error) {
	r, err := t.TranslateExpression(Rel(f.Relation))
	if err != nil {
		return FalseLit, err
	}
	ordered, err := t.TranslateExpression(Rel(f.Ordered))
	if err != nil {
		return FalseLit, err
	}
	first, err := t.TranslateExpression(Rel(f.First))
	if err != nil {
		return FalseLit, err
	}
	last, err := t.TranslateExpression(Rel(f.Last))
	if err != nil {
		return FalseLit, err
	}

	acyclicLit, err := t.VisitRelationPredicate(NewAcyclicPredicate(f.Relation))
	if err != nil {
		return FalseLit, err
	}

	n := t.universe.Size()
	var totalTerms []Lit
	for i := 0; i < n; i++ {
		if ordered.Get(i) == FalseLit {
			continue
		}
		for j := 0; j < n; j++ {
			if i == j || ordered.Get(j) == FalseLit {
				continue
			}
			totalTerms = append(totalTerms, t.circuit.Or(r.Get(i*n+j), r.Get(j*n+i)))
		}
	}
	totalLit := t.circuit.Ands(totalTerms...)

	firstNoPred := first.No()
	if first.Some() != FalseLit {
		var terms []Lit
		for i := 0; i < n; i++ {
			if first.Get(i) == FalseLit {
				continue
			}
			for j := 0; j < n; j++ {
				terms = append(terms, r.Get(j*n+i).Not())
			}
		}
		firstNoPred = t.circuit.Ands(terms...)
	}
	lastNoSucc := last.No()
	if last.Some() != FalseLit {
		var terms []Lit
		for i := 0; i < n; i++ {
			if last.Get(i) == FalseLit {
				continue
			}
			for j := 0; j < n; j++ {
				terms = append(terms, r.Get(i*n+j).Not())
			}
		}
		lastNoSucc = t.circuit.Ands(terms...)
	}

	return t.circuit.Ands(acyclicLit, totalLit, firstNoPred, lastNoSucc), nil
}

// -- IntExpression visitors ----------------------------------------------

func (t *Translator) VisitIntConstant(e *IntConstant) (*SmallInt, error) {
	return NewSmallIntConstant(t.circuit, t.cfg.intEncoding, t.cfg.bitwidth, e.Value), nil
}

func (t *Translator) VisitCardinality(e *Cardinality) (*SmallInt, error) {
	m, err := t.TranslateExpression(e.Expr)
	if err != nil {
		return nil, err
	}
	return m.Cardinality(t.cfg.intEncoding, t.cfg.bitwidth)
}

func (t *Translator) VisitBinaryIntExpression(e *BinaryIntExpression) (*SmallInt, error) {
	l, err := t.TranslateInt(e.Left)
	if err != nil {
		return nil, err
	}
	r, err := t.TranslateInt(e.Right)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case IntAdd:
		return l.Add(r)
	case IntSub:
		return l.Sub(r)
	default:
		return nil, fmt.Errorf("kodkod: unknown BinaryIntOp %d", e.Op)
	}
}

func (t *Translator) VisitIfIntExpression(e *IfIntExpression) (*SmallInt, error) {
	cond, err := t.TranslateFormula(e.Cond)
	if err != nil {
		return nil, err
	}
	then, err := t.TranslateInt(e.Then)
	if err != nil {
		return nil, err
	}
	els, err := t.TranslateInt(e.Else)
	if err != nil {
		return nil, err
	}
	width := then.Width()
	if els.Width() > width {
		width = els.Width()
	}
	bits := make([]Lit, width)
	for i := 0; i < width; i++ {
		bits[i] = t.circuit.Ite(cond, bitAt(then.bits, i), bitAt(els.bits, i))
	}
	return &SmallInt{circuit: t.circuit, encoding: then.encoding, width: width, bits: bits}, nil
}

func (t *Translator) VisitExprToIntCast(e *ExprToIntCast) (*SmallInt, error) {
	m, err := t.TranslateExpression(e.Expr)
	if err != nil {
		return nil, err
	}
	acc := NewSmallIntConstant(t.circuit, t.cfg.intEncoding, t.cfg.bitwidth, 0)
	for _, idx := range m.Indices() {
		value := NewSmallIntConstant(t.circuit, t.cfg.intEncoding, t.cfg.bitwidth, idx)
		guardedBits := make([]Lit, value.Width())
		for b, bit := range value.bits {
			guardedBits[b] = t.circuit.And(m.Get(idx), bit)
		}
		guarded := &SmallInt{circuit: t.circuit, encoding: value.encoding, width: value.width, bits: guardedBits}
		acc, err = acc.Add(guarded)
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}

func (t *Translator) VisitSumExpression(e *SumExpression) (*SmallInt, error) {
	bindings, err := t.enumerateGround(e.Decls)
	if err != nil {
		return nil, err
	}
	savedEnv := t.env
	defer func() { t.env = savedEnv }()

	acc := NewSmallIntConstant(t.circuit, t.cfg.intEncoding, t.cfg.bitwidth, 0)
	for _, b := range bindings {
		t.env = b.env
		body, err := t.TranslateInt(e.IntBody)
		if err != nil {
			return nil, err
		}
		guardedBits := make([]Lit, body.Width())
		for i, bit := range body.bits {
			guardedBits[i] = t.circuit.And(b.guard, bit)
		}
		guarded := &SmallInt{circuit: t.circuit, encoding: body.encoding, width: body.width, bits: guardedBits}
		acc, err = acc.Add(guarded)
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}
