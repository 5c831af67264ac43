package kodkod

import "testing"

func TestCircuitSimplificationTable(t *testing.T) {
	c := NewCircuit(3)
	x := c.Variable(1)
	y := c.Variable(2)

	if got := c.And(x, TrueLit); got != x {
		t.Errorf("x∧TRUE = %s, want %s", got, x)
	}
	if got := c.And(x, x); got != x {
		t.Errorf("x∧x = %s, want %s", got, x)
	}
	if got := c.And(x, FalseLit); got != FalseLit {
		t.Errorf("x∧FALSE = %s, want FALSE", got)
	}
	if got := c.And(x, x.Not()); got != FalseLit {
		t.Errorf("x∧!x = %s, want FALSE", got)
	}
	if got := c.Or(x, FalseLit); got != x {
		t.Errorf("x∨FALSE = %s, want %s", got, x)
	}
	if got := c.Or(x, x); got != x {
		t.Errorf("x∨x = %s, want %s", got, x)
	}
	if got := c.Or(x, TrueLit); got != TrueLit {
		t.Errorf("x∨TRUE = %s, want TRUE", got)
	}
	if got := c.Or(x, x.Not()); got != TrueLit {
		t.Errorf("x∨!x = %s, want TRUE", got)
	}

	if got := c.Ite(TrueLit, x, y); got != x {
		t.Errorf("ite(TRUE,x,y) = %s, want %s", got, x)
	}
	if got := c.Ite(FalseLit, x, y); got != y {
		t.Errorf("ite(FALSE,x,y) = %s, want %s", got, y)
	}
	if got := c.Ite(x, y, y); got != y {
		t.Errorf("ite(x,y,y) = %s, want %s", got, y)
	}
}

func TestCircuitHashConsing(t *testing.T) {
	c := NewCircuit(3)
	x := c.Variable(1)
	y := c.Variable(2)

	a1 := c.And(x, y)
	a2 := c.And(y, x)
	if a1 != a2 {
		t.Errorf("And(x,y) = %s, And(y,x) = %s; want identical (commutative hash-consing)", a1, a2)
	}

	o1 := c.Or(x, y)
	o2 := c.Or(y, x)
	if o1 != o2 {
		t.Errorf("Or(x,y) = %s, Or(y,x) = %s; want identical", o1, o2)
	}

	if c.And(x, c.And(x, y)) != c.And(x, y) {
		t.Error("and(x, and(x,y)) should collapse to and(x,y)")
	}
}

func TestCircuitAbsorption(t *testing.T) {
	c := NewCircuit(3)
	x := c.Variable(1)
	y := c.Variable(2)

	orXY := c.Or(x, y)
	if got := c.And(x, orXY); got != x {
		t.Errorf("And(x, Or(x,y)) = %s, want %s", got, x)
	}

	andXY := c.And(x, y)
	if got := c.Or(x, andXY); got != x {
		t.Errorf("Or(x, And(x,y)) = %s, want %s", got, x)
	}
}

func TestCircuitVariableIdempotent(t *testing.T) {
	c := NewCircuit(3)
	a := c.Variable(7)
	b := c.Variable(7)
	if a != b {
		t.Errorf("Variable(7) returned different Lits: %s, %s", a, b)
	}
}

func TestCircuitAndsOrsFold(t *testing.T) {
	c := NewCircuit(3)
	x := c.Variable(1)
	y := c.Variable(2)
	z := c.Variable(3)

	if c.Ands() != TrueLit {
		t.Error("Ands() of no inputs should be TRUE")
	}
	if c.Ors() != FalseLit {
		t.Error("Ors() of no inputs should be FALSE")
	}

	folded := c.Ands(x, y, z)
	reordered := c.Ands(z, x, y)
	if folded != reordered {
		t.Errorf("Ands should be order-independent after hash-consing: %s vs %s", folded, reordered)
	}
}
