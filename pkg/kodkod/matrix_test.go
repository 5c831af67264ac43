package kodkod

import "testing"

func TestMatrixUnionIntersectionDifference(t *testing.T) {
	c := NewCircuit(3)
	x := c.Variable(1)
	y := c.Variable(2)

	a := NewBooleanMatrix(c, 3, 2)
	a.cells[0] = x // (0,0)
	a.cells[4] = TrueLit

	b := NewBooleanMatrix(c, 3, 2)
	b.cells[0] = y
	b.cells[1] = TrueLit

	union, err := a.Union(b)
	if err != nil {
		t.Fatal(err)
	}
	if got := union.Get(0); got != c.Or(x, y) {
		t.Errorf("union[0] = %s, want Or(x,y)", got)
	}
	if union.Get(4) != TrueLit {
		t.Error("union[4] should be TRUE")
	}
	if union.Get(1) != TrueLit {
		t.Error("union[1] should be TRUE")
	}

	inter, err := a.Intersection(b)
	if err != nil {
		t.Fatal(err)
	}
	if got := inter.Get(0); got != c.And(x, y) {
		t.Errorf("inter[0] = %s, want And(x,y)", got)
	}
	if inter.Get(4) != FalseLit {
		t.Error("inter[4] should be FALSE (not in b)")
	}

	diff, err := a.Difference(b)
	if err != nil {
		t.Fatal(err)
	}
	if got := diff.Get(0); got != c.And(x, y.Not()) {
		t.Errorf("diff[0] = %s, want And(x, !y)", got)
	}
	if diff.Get(4) != TrueLit {
		t.Error("diff[4] should remain TRUE (b has nothing there)")
	}
}

func TestMatrixJoinVectorRelation(t *testing.T) {
	c := NewCircuit(3)
	// v: arity-1 vector over {0,1,2}, TRUE at index 1.
	v := NewBooleanMatrix(c, 3, 1)
	v.cells[1] = TrueLit

	// r: arity-2 relation, TRUE at (1,2).
	r := NewBooleanMatrix(c, 3, 2)
	r.cells[1*3+2] = TrueLit

	joined, err := v.Join(r)
	if err != nil {
		t.Fatal(err)
	}
	if joined.Arity() != 1 {
		t.Fatalf("join arity = %d, want 1", joined.Arity())
	}
	if joined.Get(2) != TrueLit {
		t.Errorf("v.join(r) should be TRUE at index 2, got %s", joined.Get(2))
	}
	if joined.Get(0) != FalseLit || joined.Get(1) != FalseLit {
		t.Error("v.join(r) should be FALSE elsewhere")
	}
}

func TestMatrixTransposeAndClosure(t *testing.T) {
	c := NewCircuit(3)
	// edges: 0->1, 1->2 over a 3-atom universe.
	r := NewBooleanMatrix(c, 3, 2)
	r.cells[0*3+1] = TrueLit
	r.cells[1*3+2] = TrueLit

	tr, err := r.Transpose()
	if err != nil {
		t.Fatal(err)
	}
	if tr.Get(1*3+0) != TrueLit || tr.Get(2*3+1) != TrueLit {
		t.Error("transpose should swap indices")
	}

	closure, err := r.Closure()
	if err != nil {
		t.Fatal(err)
	}
	if closure.Get(0*3+2) != TrueLit {
		t.Error("closure should connect 0->2 transitively")
	}
	if closure.Get(0*3+1) != TrueLit {
		t.Error("closure should retain direct edge 0->1")
	}
	if closure.Get(2*3+0) != FalseLit {
		t.Error("closure should not introduce 2->0")
	}

	refl, err := r.ReflexiveClosure()
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if refl.Get(i*3+i) != TrueLit {
			t.Errorf("reflexive closure missing identity at %d", i)
		}
	}
}

func TestMatrixMultiplicityPredicates(t *testing.T) {
	c := NewCircuit(3)
	x := c.Variable(1)

	empty := NewBooleanMatrix(c, 3, 1)
	if empty.Some() != FalseLit {
		t.Error("empty matrix Some() should be FALSE")
	}
	if empty.No() != TrueLit {
		t.Error("empty matrix No() should be TRUE")
	}
	if empty.One() != FalseLit {
		t.Error("empty matrix One() should be FALSE")
	}
	if empty.Lone() != TrueLit {
		t.Error("empty matrix Lone() should be TRUE")
	}

	one := NewBooleanMatrix(c, 3, 1)
	one.cells[0] = TrueLit
	if one.Some() != TrueLit {
		t.Error("singleton Some() should be TRUE")
	}
	if one.One() != TrueLit {
		t.Error("singleton constant-TRUE matrix One() should be TRUE")
	}

	variable := NewBooleanMatrix(c, 3, 1)
	variable.cells[0] = x
	variable.cells[1] = x.Not()
	if variable.One() == FalseLit {
		t.Error("One() over disjoint-by-construction cells should not be trivially FALSE")
	}
}

func TestMatrixEqAndSubset(t *testing.T) {
	c := NewCircuit(3)
	a := NewBooleanMatrix(c, 2, 1)
	a.cells[0] = TrueLit

	b := NewBooleanMatrix(c, 2, 1)
	b.cells[0] = TrueLit

	eq, err := a.Eq(b)
	if err != nil {
		t.Fatal(err)
	}
	if eq != TrueLit {
		t.Errorf("Eq of identical matrices = %s, want TRUE", eq)
	}

	sub, err := a.Subset(b)
	if err != nil {
		t.Fatal(err)
	}
	if sub != TrueLit {
		t.Errorf("Subset of identical matrices = %s, want TRUE", sub)
	}

	c2 := NewBooleanMatrix(c, 2, 1)
	eq2, err := a.Eq(c2)
	if err != nil {
		t.Fatal(err)
	}
	if eq2 != FalseLit {
		t.Errorf("Eq against empty matrix = %s, want FALSE", eq2)
	}
}
