package direction

import (
	"fmt"
	"math/bits"
)

// MaxDegree bounds the primitive polynomials enumerated for the Unit and
// Jaeckel variants. All primitive polynomials up to this degree number
// maxPolynomials.
const (
	MaxDegree      = 18
	maxPolynomials = 21200
)

// Degree returns the degree of a polynomial encoded with its leading term.
func Degree(p uint32) int {
	return bits.Len32(p) - 1
}

// Primitive returns the first n primitive polynomials modulo two, ordered by
// degree and then by integer encoding. The encoding keeps both the leading
// and the constant term: 11 is x^3 + x + 1.
func Primitive(n int) ([]uint32, error) {
	if n < 0 || n > maxPolynomials {
		return nil, fmt.Errorf("%w: %d primitive polynomials requested, %d available",
			ErrDimensionOutOfRange, n, maxPolynomials)
	}
	polys := make([]uint32, 0, n)
	for deg := 1; deg <= MaxDegree && len(polys) < n; deg++ {
		factors := primeFactors(uint64(1)<<deg - 1)
		lo, hi := uint32(1)<<deg|1, uint32(1)<<(deg+1)
		for p := lo; p < hi && len(polys) < n; p += 2 {
			// an even number of terms means x+1 divides p
			if deg > 1 && bits.OnesCount32(p)%2 == 0 {
				continue
			}
			if isPrimitive(p, deg, factors) {
				polys = append(polys, p)
			}
		}
	}
	return polys, nil
}

// isPrimitive reports whether x has order 2^deg-1 in GF(2)[x]/p. Only an
// irreducible p makes the unit group that large, so no separate
// irreducibility test is needed.
func isPrimitive(p uint32, deg int, factors []uint64) bool {
	order := uint64(1)<<deg - 1
	x := reduce(2, p, deg)
	if powMod(x, order, p, deg) != 1 {
		return false
	}
	for _, f := range factors {
		if powMod(x, order/f, p, deg) == 1 {
			return false
		}
	}
	return true
}

func reduce(a, p uint32, deg int) uint32 {
	if a&(uint32(1)<<deg) != 0 {
		a ^= p
	}
	return a
}

// mulMod multiplies a and b in GF(2)[x]/p. Both operands are below 2^deg.
func mulMod(a, b, p uint32, deg int) uint32 {
	var r uint32
	for b != 0 {
		if b&1 != 0 {
			r ^= a
		}
		b >>= 1
		a = reduce(a<<1, p, deg)
	}
	return r
}

func powMod(base uint32, e uint64, p uint32, deg int) uint32 {
	r := uint32(1)
	for e != 0 {
		if e&1 != 0 {
			r = mulMod(r, base, p, deg)
		}
		e >>= 1
		base = mulMod(base, base, p, deg)
	}
	return r
}

func primeFactors(n uint64) []uint64 {
	var fs []uint64
	for f := uint64(2); f*f <= n; f++ {
		if n%f == 0 {
			fs = append(fs, f)
			for n%f == 0 {
				n /= f
			}
		}
	}
	if n > 1 {
		fs = append(fs, n)
	}
	return fs
}
