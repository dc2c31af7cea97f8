package sequence

// HaltonGenerator computes the radical inverse of a running index in the
// first d prime bases.
type HaltonGenerator struct {
	bases []uint64
	index uint64
}

// NewHalton builds a Halton generator. The seed is accepted so that all
// generators share a constructor shape; it is not used.
func NewHalton(dim int, _ uint32) (*HaltonGenerator, error) {
	if err := checkDimension(dim); err != nil {
		return nil, err
	}
	return &HaltonGenerator{bases: firstPrimes(dim)}, nil
}

func (h *HaltonGenerator) Dimension() int { return len(h.bases) }

func (h *HaltonGenerator) Name() string { return "Halton low discrepancy number generator" }

func (h *HaltonGenerator) Next() ([]float64, error) {
	h.index++
	point := make([]float64, len(h.bases))
	for j, b := range h.bases {
		point[j] = radicalInverse(h.index, b)
	}
	return point, nil
}

// radicalInverse mirrors the base-b digits of n around the radix point.
func radicalInverse(n, base uint64) float64 {
	inv := 1.0 / float64(base)
	f, r := inv, 0.0
	for n > 0 {
		r += float64(n%base) * f
		n /= base
		f *= inv
	}
	return r
}

func firstPrimes(n int) []uint64 {
	primes := make([]uint64, 0, n)
	for c := uint64(2); len(primes) < n; c++ {
		prime := true
		for _, p := range primes {
			if p*p > c {
				break
			}
			if c%p == 0 {
				prime = false
				break
			}
		}
		if prime {
			primes = append(primes, c)
		}
	}
	return primes
}
