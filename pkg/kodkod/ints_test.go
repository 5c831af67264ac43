package kodkod

import (
	"fmt"
	"testing"
)

func TestNewIntSetRepresentation(t *testing.T) {
	tests := []struct {
		name     string
		values   []int
		wantSize int
	}{
		{"empty", nil, 0},
		{"contiguous range", []int{2, 3, 4, 5}, 4},
		{"sparse", []int{1, 100, 10000}, 3},
		{"duplicates collapse", []int{5, 5, 5, 6}, 2},
		{"single value", []int{42}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewIntSet(tt.values...)
			if s.Size() != tt.wantSize {
				t.Errorf("Size() = %d, want %d", s.Size(), tt.wantSize)
			}
			for _, v := range tt.values {
				if !s.Contains(v) {
					t.Errorf("set should contain %d", v)
				}
			}
		})
	}
}

func TestIntSetUnionIntersectDifference(t *testing.T) {
	a := NewIntSet(1, 2, 3, 4)
	b := NewIntSet(3, 4, 5, 6)

	u := a.Union(b)
	if !u.Equal(NewIntSet(1, 2, 3, 4, 5, 6)) {
		t.Errorf("Union = %s", u)
	}

	i := a.Intersect(b)
	if !i.Equal(NewIntSet(3, 4)) {
		t.Errorf("Intersect = %s", i)
	}

	d := a.Difference(b)
	if !d.Equal(NewIntSet(1, 2)) {
		t.Errorf("Difference = %s", d)
	}
}

func TestIntSetEmpty(t *testing.T) {
	if !EmptyIntSet.IsEmpty() {
		t.Fatal("EmptyIntSet should be empty")
	}
	if EmptyIntSet.Min() != -1 || EmptyIntSet.Max() != -1 {
		t.Fatal("EmptyIntSet Min/Max should be -1")
	}
	u := EmptyIntSet.Union(NewIntSet(1, 2))
	if !u.Equal(NewIntSet(1, 2)) {
		t.Errorf("Union with empty = %s", u)
	}
}

func TestIntSetRangeVsBitSetAgree(t *testing.T) {
	r := NewRangeIntSet(10, 20)
	sparse := NewIntSet(10, 11, 19, 20)
	dense := NewIntSet(10, 12, 14, 16, 18, 20)

	if r.Size() != 11 {
		t.Fatalf("range size = %d", r.Size())
	}
	if !r.Intersect(sparse).Equal(sparse) {
		t.Errorf("range ∩ sparse mismatch: %s", r.Intersect(sparse))
	}
	if !r.Intersect(dense).Equal(dense) {
		t.Errorf("range ∩ dense mismatch: %s", r.Intersect(dense))
	}
}

func TestIntSetForEachAscending(t *testing.T) {
	s := NewIntSet(5, 1, 3, 2, 4)
	var got []int
	s.ForEach(func(v int) { got = append(got, v) })
	want := []int{1, 2, 3, 4, 5}
	for i, v := range want {
		if got[i] != v {
			t.Fatalf("ForEach order = %v, want %v", got, want)
		}
	}
}

func ExampleNewIntSet() {
	s := NewIntSet(3, 1, 2)
	fmt.Println(s.String())
	// Output:
	// {1..3}
}
