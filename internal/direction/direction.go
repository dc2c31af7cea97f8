// Package direction builds the per-dimension direction integer tables of a
// Sobol sequence.
//
// Dimension 1 is the base-2 van der Corput sequence. Dimension d > 1 uses the
// (d-1)th primitive polynomial modulo two together with a set of free
// direction integers m_1..m_g, g being the polynomial degree. The variant
// selects where the polynomials and the free integers come from:
//
//   - Unit: every m_k is 1 (Numerical Recipes). Fails Property A even in
//     low dimensions.
//   - Jaeckel: Bratley-Fox values where they coincide with the enumerated
//     polynomials, then regularity breaking random initialization seeded
//     from a Mersenne Twister. Up to dimension 32 a draw is kept only if the
//     first 2^d points keep Property A; beyond that draws are unconditional.
//   - SobolLevitan: the Bratley-Fox table (Algorithm 659).
//   - SobolLevitanLemieux: the Lemieux table, equal to Bratley-Fox where
//     the two overlap.
package direction

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/emrzvv/qrng-research/internal/mt"
)

// Bits is the width of a direction integer and of a Sobol coordinate.
const Bits = 32

var ErrDimensionOutOfRange = errors.New("dimension out of range")

// Variant selects the free direction integers. The zero value is Jaeckel.
type Variant int

const (
	Jaeckel Variant = iota
	Unit
	SobolLevitan
	SobolLevitanLemieux
)

func (v Variant) String() string {
	switch v {
	case Unit:
		return "unit"
	case Jaeckel:
		return "jaeckel"
	case SobolLevitan:
		return "sobol-levitan"
	case SobolLevitanLemieux:
		return "sobol-levitan-lemieux"
	default:
		return fmt.Sprintf("variant(%d)", int(v))
	}
}

func ParseVariant(s string) (Variant, error) {
	for _, v := range []Variant{Jaeckel, Unit, SobolLevitan, SobolLevitanLemieux} {
		if v.String() == s {
			return v, nil
		}
	}
	return 0, fmt.Errorf("unknown direction variant %q", s)
}

// Table holds the direction integers of one dimension; entry k is used when
// bit k of the Gray-code counter flips.
type Table [Bits]uint32

// MaxDimension returns how many dimensions the variant's reference data
// covers.
func MaxDimension(v Variant) (int, error) {
	switch v {
	case Unit, Jaeckel:
		return maxPolynomials + 1, nil
	case SobolLevitan, SobolLevitanLemieux:
		ds, err := reference()
		if err != nil {
			return 0, err
		}
		rows, err := ds.table(v)
		if err != nil {
			return 0, err
		}
		return len(rows) + 1, nil
	default:
		return 0, fmt.Errorf("unknown direction variant %d", int(v))
	}
}

// Build returns the direction tables for dimensions 1..dim. The seed is only
// read by the Jaeckel variant, for dimensions past the Bratley-Fox overlap;
// seed 0 seeds that engine through the bootstrap.
func Build(dim int, v Variant, seed uint32) ([]Table, error) {
	limit, err := MaxDimension(v)
	if err != nil {
		return nil, err
	}
	if dim < 1 || dim > limit {
		return nil, fmt.Errorf("%w: %d not in [1, %d] for %s", ErrDimensionOutOfRange, dim, limit, v)
	}

	tables := make([]Table, dim)
	tables[0] = vanDerCorput()
	if dim == 1 {
		return tables, nil
	}

	polys, inits, err := freeIntegers(dim-1, v, seed)
	if err != nil {
		return nil, err
	}
	for j := 1; j < dim; j++ {
		fill(&tables[j], polys[j-1], inits[j-1])
	}
	return tables, nil
}

// freeIntegers returns n polynomials with their initializers, for
// dimensions 2..n+1.
func freeIntegers(n int, v Variant, seed uint32) ([]uint32, [][]uint32, error) {
	switch v {
	case SobolLevitan, SobolLevitanLemieux:
		ds, err := reference()
		if err != nil {
			return nil, nil, err
		}
		rows, err := ds.table(v)
		if err != nil {
			return nil, nil, err
		}
		polys := make([]uint32, n)
		inits := make([][]uint32, n)
		for i := range n {
			polys[i], inits[i] = rows[i].Poly, rows[i].M
		}
		return polys, inits, nil
	}

	polys, err := Primitive(n)
	if err != nil {
		return nil, nil, err
	}
	inits := make([][]uint32, n)
	if v == Unit {
		for i, p := range polys {
			inits[i] = ones(Degree(p))
		}
		return polys, inits, nil
	}

	return polys, jaeckelIntegers(polys, seed), nil
}

const (
	// jaeckelKnown is how many non-trivial dimensions take their free
	// integers from Bratley-Fox.
	jaeckelKnown = 7
	// jaeckelPropertyA is the highest dimension whose draws must keep
	// Property A.
	jaeckelPropertyA = 32
	// maxRedraws bounds the draws for one dimension before the previous
	// dimension is drawn again.
	maxRedraws = 64
)

// jaeckelIntegers returns the free integers of polys, for dimensions
// 2..len(polys)+1. A dimension up to jaeckelPropertyA whose draws keep
// failing Property A sends the search back one dimension.
func jaeckelIntegers(polys []uint32, seed uint32) [][]uint32 {
	var known []entry
	if ds, err := reference(); err == nil {
		known = ds.Tables[SobolLevitan.String()]
	}

	inits := make([][]uint32, len(polys))
	accepted := []Table{vanDerCorput()}
	rejected := make([]int, len(polys))
	fixed := make([]bool, len(polys))
	var rng *mt.Engine
	for i := 0; i < len(polys); {
		p := polys[i]
		var t Table
		if i < jaeckelKnown && i < len(known) && known[i].Poly == p {
			inits[i], fixed[i] = known[i].M, true
			fill(&t, p, inits[i])
			accepted = append(accepted, t)
			i++
			continue
		}

		if rng == nil {
			rng = mt.New(seed)
		}
		inits[i] = randomInitializers(rng, Degree(p))
		if i+2 > jaeckelPropertyA {
			i++
			continue
		}
		fill(&t, p, inits[i])
		if propertyA(append(accepted, t)) {
			accepted = append(accepted, t)
			i++
			continue
		}
		rejected[i]++
		if rejected[i] >= maxRedraws && i > 0 && !fixed[i-1] {
			rejected[i] = 0
			accepted = accepted[:len(accepted)-1]
			i--
		}
	}
	return inits
}

// propertyA reports whether the first 2^d points of the d dimensions in
// tables have one point in each half-axis cell. Those points span the
// leading bits of direction integers 0..d-1, so the property is the
// independence over GF(2) of the d columns of leading bits.
func propertyA(tables []Table) bool {
	d := len(tables)
	if d > Bits {
		return false
	}
	var basis [Bits]uint32
	for _, t := range tables {
		var col uint32
		for k := range d {
			col |= (t[k] >> (Bits - 1)) << k
		}
		for col != 0 {
			hb := bits.Len32(col) - 1
			if basis[hb] == 0 {
				basis[hb] = col
				break
			}
			col ^= basis[hb]
		}
		if col == 0 {
			return false
		}
	}
	return true
}

func vanDerCorput() Table {
	var t Table
	for k := range Bits {
		t[k] = 1 << (Bits - 1 - k)
	}
	return t
}

// randomInitializers draws m_l uniformly among the odd integers below 2^l.
func randomInitializers(rng *mt.Engine, deg int) []uint32 {
	m := make([]uint32, deg)
	for l := 1; l <= deg; l++ {
		var x uint32
		for x&1 == 0 {
			x = rng.Uint32() >> (Bits - l)
		}
		m[l-1] = x
	}
	return m
}

func ones(n int) []uint32 {
	m := make([]uint32, n)
	for i := range m {
		m[i] = 1
	}
	return m
}

// fill expands the free integers m_1..m_g of polynomial p into all Bits
// direction integers using the Bratley-Fox recurrence.
func fill(t *Table, p uint32, m []uint32) {
	g := Degree(p)
	for k := 0; k < g && k < Bits; k++ {
		t[k] = m[k] << (Bits - 1 - k)
	}
	for k := g; k < Bits; k++ {
		x := t[k-g] ^ (t[k-g] >> g)
		for i := 1; i < g; i++ {
			if (p>>(g-i))&1 == 1 {
				x ^= t[k-i]
			}
		}
		t[k] = x
	}
}
