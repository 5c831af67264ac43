package kodkod

import "testing"

func smallIntValue(t *testing.T, s *SmallInt) int {
	t.Helper()
	if s.encoding == Unary {
		v := 0
		for _, b := range s.bits {
			if b == TrueLit {
				v++
			} else if b != FalseLit {
				t.Fatalf("expected constant-folded unary bit, got %s", b)
			}
		}
		return v
	}
	v := 0
	for i, b := range s.bits {
		if b == TrueLit {
			v |= 1 << uint(i)
		} else if b != FalseLit {
			t.Fatalf("expected constant-folded two's-complement bit, got %s", b)
		}
	}
	// sign-extend for negative values
	if len(s.bits) > 0 && s.bits[len(s.bits)-1] == TrueLit {
		v -= 1 << uint(len(s.bits))
	}
	return v
}

func TestSmallIntTwosComplementAddSub(t *testing.T) {
	c := NewCircuit(3)
	a := NewSmallIntConstant(c, TwosComplement, 5, 7)
	b := NewSmallIntConstant(c, TwosComplement, 5, 3)

	sum, err := a.Add(b)
	if err != nil {
		t.Fatal(err)
	}
	if got := smallIntValue(t, sum); got != 10 {
		t.Errorf("7+3 = %d, want 10", got)
	}

	diff, err := a.Sub(b)
	if err != nil {
		t.Fatal(err)
	}
	if got := smallIntValue(t, diff); got != 4 {
		t.Errorf("7-3 = %d, want 4", got)
	}

	neg, err := b.Negate()
	if err != nil {
		t.Fatal(err)
	}
	if got := smallIntValue(t, neg); got != -3 {
		t.Errorf("-3 = %d, want -3", got)
	}
}

func TestSmallIntTwosComplementComparison(t *testing.T) {
	c := NewCircuit(3)
	a := NewSmallIntConstant(c, TwosComplement, 5, 3)
	b := NewSmallIntConstant(c, TwosComplement, 5, 7)

	lt, err := a.Lt(b)
	if err != nil {
		t.Fatal(err)
	}
	if lt != TrueLit {
		t.Errorf("3<7 should be TRUE, got %s", lt)
	}

	eq, err := a.Eq(a)
	if err != nil {
		t.Fatal(err)
	}
	if eq != TrueLit {
		t.Errorf("3==3 should be TRUE, got %s", eq)
	}

	ge, err := b.Ge(a)
	if err != nil {
		t.Fatal(err)
	}
	if ge != TrueLit {
		t.Errorf("7>=3 should be TRUE, got %s", ge)
	}
}

func TestSmallIntUnaryCardinality(t *testing.T) {
	c := NewCircuit(3)
	card, err := Cardinality(c, Unary, 4, []Lit{TrueLit, TrueLit, FalseLit, TrueLit})
	if err != nil {
		t.Fatal(err)
	}
	if got := smallIntValue(t, card); got != 3 {
		t.Errorf("cardinality of 3 true literals = %d, want 3", got)
	}

	eqThree, err := card.Eq(NewSmallIntConstant(c, Unary, card.Width(), 3))
	if err != nil {
		t.Fatal(err)
	}
	if eqThree != TrueLit {
		t.Errorf("#r == 3 should be TRUE, got %s", eqThree)
	}

	ltThree, err := card.Lt(NewSmallIntConstant(c, Unary, card.Width(), 3))
	if err != nil {
		t.Fatal(err)
	}
	if ltThree != FalseLit {
		t.Errorf("#r < 3 should be FALSE, got %s", ltThree)
	}
}

func TestSmallIntTwosComplementCardinality(t *testing.T) {
	c := NewCircuit(3)
	card, err := Cardinality(c, TwosComplement, 4, []Lit{TrueLit, TrueLit, FalseLit})
	if err != nil {
		t.Fatal(err)
	}
	if got := smallIntValue(t, card); got != 2 {
		t.Errorf("cardinality of 2 true literals = %d, want 2", got)
	}
}
