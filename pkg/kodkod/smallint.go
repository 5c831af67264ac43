package kodkod

import "fmt"

// IntEncoding selects how a SmallInt represents its value as circuit bits
// (spec.md §6's intEncoding option).
type IntEncoding int

const (
	// TwosComplement represents values as a fixed-width two's-complement
	// bit vector, LSB first, the final bit the sign bit.
	TwosComplement IntEncoding = iota
	// Unary represents non-negative values in thermometer form: bit i
	// (0-indexed) holds "value > i", so bits[0..v-1] are TRUE and the
	// rest FALSE for a value of v. Well suited to small cardinalities.
	Unary
)

// SmallInt is a vector of circuit nodes encoding an integer value, per
// spec.md §3's "small integer".
type SmallInt struct {
	circuit  *Circuit
	encoding IntEncoding
	width    int // two's-complement bit width; ignored for Unary
	bits     []Lit
}

// NewSmallIntConstant returns the SmallInt representing value under the
// given encoding. For TwosComplement, value is truncated to width bits.
// For Unary, value must be >= 0 and width is the maximum representable
// value (the thermometer vector has length width).
func NewSmallIntConstant(c *Circuit, encoding IntEncoding, width int, value int) *SmallInt {
	if encoding == Unary {
		bits := make([]Lit, width)
		for i := range bits {
			if i < value {
				bits[i] = TrueLit
			} else {
				bits[i] = FalseLit
			}
		}
		return &SmallInt{circuit: c, encoding: Unary, width: width, bits: bits}
	}
	bits := make([]Lit, width)
	for i := range bits {
		if value&(1<<uint(i)) != 0 {
			bits[i] = TrueLit
		} else {
			bits[i] = FalseLit
		}
	}
	return &SmallInt{circuit: c, encoding: TwosComplement, width: width, bits: bits}
}

// Width reports the bit width (TwosComplement) or thermometer length (Unary).
func (s *SmallInt) Width() int { return len(s.bits) }

// Encoding reports s's encoding.
func (s *SmallInt) Encoding() IntEncoding { return s.encoding }

func (s *SmallInt) sameEncoding(other *SmallInt) error {
	if s.encoding != other.encoding {
		return fmt.Errorf("kodkod: cannot combine SmallInts of different encodings")
	}
	return nil
}

func atLeast(bits []Lit, k int) Lit {
	if k <= 0 {
		return TrueLit
	}
	if k > len(bits) {
		return FalseLit
	}
	return bits[k-1]
}

// Add returns a SmallInt whose value is s+other. For TwosComplement it
// builds a ripple-carry adder over the wider of the two widths (the
// result retains that width, so overflow wraps silently, matching
// ordinary fixed-width two's-complement arithmetic). For Unary it builds
// the convolution atLeast(sum,k) = OR over i+j=k of AND(atLeast(s,i),
// atLeast(other,j)), which is exact whenever the thermometer vectors are
// kept monotone (as every SmallInt constructor here guarantees).
func (s *SmallInt) Add(other *SmallInt) (*SmallInt, error) {
	if err := s.sameEncoding(other); err != nil {
		return nil, err
	}
	c := s.circuit
	if s.encoding == Unary {
		width := len(s.bits) + len(other.bits)
		bits := make([]Lit, width)
		for k := 1; k <= width; k++ {
			terms := make([]Lit, 0, k+1)
			for i := 0; i <= k; i++ {
				terms = append(terms, c.And(atLeast(s.bits, i), atLeast(other.bits, k-i)))
			}
			bits[k-1] = c.Ors(terms...)
		}
		return &SmallInt{circuit: c, encoding: Unary, width: width, bits: bits}, nil
	}

	width := len(s.bits)
	if len(other.bits) > width {
		width = len(other.bits)
	}
	bits := make([]Lit, width)
	carry := FalseLit
	for i := 0; i < width; i++ {
		a := bitAt(s.bits, i)
		b := bitAt(other.bits, i)
		axb := xor(c, a, b)
		bits[i] = xor(c, axb, carry)
		carry = c.Or(c.And(a, b), c.And(axb, carry))
	}
	return &SmallInt{circuit: c, encoding: TwosComplement, width: width, bits: bits}, nil
}

func xor(c *Circuit, a, b Lit) Lit {
	return c.Or(c.And(a, b.Not()), c.And(a.Not(), b))
}

func bitAt(bits []Lit, i int) Lit {
	if i < len(bits) {
		return bits[i]
	}
	if len(bits) == 0 {
		return FalseLit
	}
	return bits[len(bits)-1] // sign-extend
}

// Negate returns -s under two's-complement arithmetic (invert every bit,
// add 1).
func (s *SmallInt) Negate() (*SmallInt, error) {
	if s.encoding != TwosComplement {
		return nil, fmt.Errorf("kodkod: Negate requires TwosComplement encoding")
	}
	c := s.circuit
	inverted := make([]Lit, len(s.bits))
	for i, b := range s.bits {
		inverted[i] = b.Not()
	}
	one := NewSmallIntConstant(c, TwosComplement, len(s.bits), 1)
	return (&SmallInt{circuit: c, encoding: TwosComplement, width: len(s.bits), bits: inverted}).Add(one)
}

// Sub returns s-other (TwosComplement only).
func (s *SmallInt) Sub(other *SmallInt) (*SmallInt, error) {
	neg, err := other.Negate()
	if err != nil {
		return nil, err
	}
	return s.Add(neg)
}

// Eq returns the conjunction over corresponding bits of IFF(s_i, other_i),
// extended to the wider width by sign extension for TwosComplement and by
// FALSE (zero) extension for Unary.
func (s *SmallInt) Eq(other *SmallInt) (Lit, error) {
	if err := s.sameEncoding(other); err != nil {
		return FalseLit, err
	}
	c := s.circuit
	width := len(s.bits)
	if len(other.bits) > width {
		width = len(other.bits)
	}
	terms := make([]Lit, width)
	for i := 0; i < width; i++ {
		if s.encoding == Unary {
			terms[i] = c.Iff(atLeast(s.bits, i+1), atLeast(other.bits, i+1))
		} else {
			terms[i] = c.Iff(bitAt(s.bits, i), bitAt(other.bits, i))
		}
	}
	return c.Ands(terms...), nil
}

// Lt returns a formula true iff s < other. For Unary, since thermometer
// vectors are monotone, s<other iff some threshold k is reached by other
// but not by s: OR over k = 1..max width of (atLeast(other,k) ∧
// !atLeast(s,k)). For TwosComplement it computes s-other via Sub and
// returns the sign bit of the difference.
func (s *SmallInt) Lt(other *SmallInt) (Lit, error) {
	if err := s.sameEncoding(other); err != nil {
		return FalseLit, err
	}
	c := s.circuit
	if s.encoding == Unary {
		width := len(s.bits)
		if len(other.bits) > width {
			width = len(other.bits)
		}
		terms := make([]Lit, 0, width)
		for k := 1; k <= width; k++ {
			terms = append(terms, c.And(atLeast(other.bits, k), atLeast(s.bits, k).Not()))
		}
		return c.Ors(terms...), nil
	}
	diff, err := s.Sub(other)
	if err != nil {
		return FalseLit, err
	}
	return diff.bits[len(diff.bits)-1], nil // sign bit of s-other
}

// Le returns s <= other, i.e. !(other < s).
func (s *SmallInt) Le(other *SmallInt) (Lit, error) {
	lt, err := other.Lt(s)
	if err != nil {
		return FalseLit, err
	}
	return lt.Not(), nil
}

// Gt returns s > other.
func (s *SmallInt) Gt(other *SmallInt) (Lit, error) { return other.Lt(s) }

// Ge returns s >= other, i.e. !(s < other).
func (s *SmallInt) Ge(other *SmallInt) (Lit, error) {
	lt, err := s.Lt(other)
	if err != nil {
		return FalseLit, err
	}
	return lt.Not(), nil
}

// Cardinality builds the SmallInt counting how many of lits are TRUE,
// under the given encoding, by repeated pairwise Add of singleton
// SmallInts (spec.md §4.2's BooleanMatrix.cardinality()).
func Cardinality(c *Circuit, encoding IntEncoding, width int, lits []Lit) (*SmallInt, error) {
	zero := NewSmallIntConstant(c, encoding, width, 0)
	if len(lits) == 0 {
		return zero, nil
	}
	acc := singleton(c, encoding, width, lits[0])
	for _, l := range lits[1:] {
		next, err := acc.Add(singleton(c, encoding, width, l))
		if err != nil {
			return nil, err
		}
		acc = next
	}
	return acc, nil
}

// singleton returns the SmallInt whose value is 1 if l holds and 0
// otherwise. Under TwosComplement it is zero-extended to width bits, so
// that l never lands in the sign bit and sums of singletons count upward.
func singleton(c *Circuit, encoding IntEncoding, width int, l Lit) *SmallInt {
	if encoding == Unary {
		return &SmallInt{circuit: c, encoding: Unary, width: 1, bits: []Lit{l}}
	}
	if width < 1 {
		width = 1
	}
	bits := make([]Lit, width)
	for i := range bits {
		bits[i] = FalseLit
	}
	bits[0] = l
	return &SmallInt{circuit: c, encoding: TwosComplement, width: width, bits: bits}
}
