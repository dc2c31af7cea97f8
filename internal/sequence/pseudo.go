package sequence

import "github.com/emrzvv/qrng-research/internal/mt"

// PseudoGenerator fills each coordinate with an independent Mersenne
// Twister draw. It is the Monte Carlo baseline for the quasi-random
// generators.
type PseudoGenerator struct {
	dim int
	rng *mt.Engine
}

func NewPseudo(dim int, seed uint32) (*PseudoGenerator, error) {
	if err := checkDimension(dim); err != nil {
		return nil, err
	}
	return &PseudoGenerator{dim: dim, rng: mt.New(seed)}, nil
}

func (p *PseudoGenerator) Dimension() int { return p.dim }

func (p *PseudoGenerator) Name() string { return "Mersenne Twister pseudo-random sequence" }

func (p *PseudoGenerator) Next() ([]float64, error) {
	point := make([]float64, p.dim)
	for j := range point {
		point[j] = p.rng.Float64()
	}
	return point, nil
}
