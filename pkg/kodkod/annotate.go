package kodkod

// Annotation is the result of a single pre-translation pass over a
// Formula: which nodes are structurally shared (reached via more than
// one parent edge), which free Variables each node mentions, and the
// root's top-level conjuncts (spec.md §4.5).
type Annotation struct {
	visitCount   map[any]int
	freeVars     map[any][]*Variable
	TopConjuncts []Formula
}

// Shared reports whether node has more than one incoming edge in the DAG
// rooted at the annotated formula.
func (a *Annotation) Shared(node any) bool { return a.visitCount[node] > 1 }

// FreeVars returns the Variables that occur unbound in node, i.e. not
// bound by an enclosing Decl within node itself.
func (a *Annotation) FreeVars(node any) []*Variable { return a.freeVars[node] }

// Annotate walks root once, computing node sharing, per-node free
// variables, and the flattened list of top-level ∧-conjuncts (the unit
// the core-extraction and minimization passes operate over; spec.md
// §4.5–§4.6).
func Annotate(root Formula) *Annotation {
	a := &Annotation{
		visitCount: make(map[any]int),
		freeVars:   make(map[any][]*Variable),
	}
	a.visitFormula(root)
	a.TopConjuncts = flattenConjuncts(root)
	return a
}

// flattenConjuncts returns the top-level ∧-conjuncts of f: if f is
// BinaryFormula{And}, the conjuncts of its two sides concatenated;
// otherwise the single-element list [f].
func flattenConjuncts(f Formula) []Formula {
	if bf, ok := f.(*BinaryFormula); ok && bf.Op == FormAnd {
		return append(flattenConjuncts(bf.Left), flattenConjuncts(bf.Right)...)
	}
	return []Formula{f}
}

func unionVars(sets ...[]*Variable) []*Variable {
	seen := make(map[*Variable]bool)
	var out []*Variable
	for _, set := range sets {
		for _, v := range set {
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}
	return out
}

func subtractVars(all []*Variable, remove []*Variable) []*Variable {
	drop := make(map[*Variable]bool, len(remove))
	for _, v := range remove {
		drop[v] = true
	}
	var out []*Variable
	for _, v := range all {
		if !drop[v] {
			out = append(out, v)
		}
	}
	return out
}

func declVars(decls []Decl) []*Variable {
	out := make([]*Variable, len(decls))
	for i, d := range decls {
		out[i] = d.Variable
	}
	return out
}

func (a *Annotation) visitDecls(decls []Decl) []*Variable {
	var free []*Variable
	for _, d := range decls {
		free = unionVars(free, a.visitExpr(d.Expression))
	}
	return free
}

func (a *Annotation) visitFormula(f Formula) []*Variable {
	a.visitCount[f]++
	if vars, ok := a.freeVars[f]; ok {
		return vars
	}
	var free []*Variable
	switch n := f.(type) {
	case *ConstantFormula:
	case *ComparisonFormula:
		free = unionVars(a.visitExpr(n.Left), a.visitExpr(n.Right))
	case *MultiplicityFormula:
		free = a.visitExpr(n.Expr)
	case *QuantifiedFormula:
		declFree := a.visitDecls(n.Decls)
		bodyFree := subtractVars(a.visitFormula(n.Body), declVars(n.Decls))
		free = unionVars(declFree, bodyFree)
	case *BinaryFormula:
		free = unionVars(a.visitFormula(n.Left), a.visitFormula(n.Right))
	case *NotFormula:
		free = a.visitFormula(n.Child)
	case *IntComparisonFormula:
		free = unionVars(a.visitIntExpr(n.Left), a.visitIntExpr(n.Right))
	case *RelationPredicate:
	}
	a.freeVars[f] = free
	return free
}

func (a *Annotation) visitExpr(e Expression) []*Variable {
	a.visitCount[e]++
	if vars, ok := a.freeVars[e]; ok {
		return vars
	}
	var free []*Variable
	switch n := e.(type) {
	case *RelationExpr:
	case *Variable:
		free = []*Variable{n}
	case *ConstantExpr:
	case *BinaryExpr:
		free = unionVars(a.visitExpr(n.Left), a.visitExpr(n.Right))
	case *UnaryExpr:
		free = a.visitExpr(n.Child)
	case *Comprehension:
		declFree := a.visitDecls(n.Decls)
		bodyFree := subtractVars(a.visitFormula(n.Body), declVars(n.Decls))
		free = unionVars(declFree, bodyFree)
	case *IfExpression:
		free = unionVars(a.visitFormula(n.Cond), unionVars(a.visitExpr(n.Then), a.visitExpr(n.Else)))
	case *ProjectExpression:
		free = a.visitExpr(n.Expr)
	case *IntToExprCast:
		free = a.visitIntExpr(n.IntExpr)
	}
	a.freeVars[e] = free
	return free
}

func (a *Annotation) visitIntExpr(e IntExpression) []*Variable {
	a.visitCount[e]++
	if vars, ok := a.freeVars[e]; ok {
		return vars
	}
	var free []*Variable
	switch n := e.(type) {
	case *IntConstant:
	case *Cardinality:
		free = a.visitExpr(n.Expr)
	case *BinaryIntExpression:
		free = unionVars(a.visitIntExpr(n.Left), a.visitIntExpr(n.Right))
	case *IfIntExpression:
		free = unionVars(a.visitFormula(n.Cond), unionVars(a.visitIntExpr(n.Then), a.visitIntExpr(n.Else)))
	case *ExprToIntCast:
		free = a.visitExpr(n.Expr)
	case *SumExpression:
		declFree := a.visitDecls(n.Decls)
		bodyFree := subtractVars(a.visitIntExpr(n.IntBody), declVars(n.Decls))
		free = unionVars(declFree, bodyFree)
	}
	a.freeVars[e] = free
	return free
}
