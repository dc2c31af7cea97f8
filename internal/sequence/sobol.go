package sequence

import (
	"math/bits"

	"github.com/emrzvv/qrng-research/internal/direction"
)

const (
	sobolDraws      = uint64(1) << direction.Bits
	sobolNormFactor = 1.0 / float64(sobolDraws)
)

// SobolGenerator walks a Sobol sequence in Gray-code order: each draw XORs
// one direction integer into the last integer of every dimension.
type SobolGenerator struct {
	variant direction.Variant
	dirs    []direction.Table
	last    []uint32
	count   uint64
}

// NewSobol builds a Sobol generator. The first point is the origin, so the
// first 2^k points of any dimension hit every cell of the 2^-k grid once.
func NewSobol(dim int, seed uint32, variant direction.Variant) (*SobolGenerator, error) {
	dirs, err := direction.Build(dim, variant, seed)
	if err != nil {
		return nil, err
	}
	return &SobolGenerator{
		variant: variant,
		dirs:    dirs,
		last:    make([]uint32, dim),
	}, nil
}

func (s *SobolGenerator) Dimension() int { return len(s.last) }

func (s *SobolGenerator) Name() string {
	switch s.variant {
	case direction.Unit:
		return "Sobol - Unit initialization"
	case direction.Jaeckel:
		return "Sobol - Regularity breaking initialization"
	case direction.SobolLevitan:
		return "Sobol - Sobol-Levitan initialization"
	case direction.SobolLevitanLemieux:
		return "Sobol - Sobol-Levitan-Lemieux initialization"
	default:
		return "Sobol"
	}
}

// Count returns how many points have been drawn.
func (s *SobolGenerator) Count() uint64 { return s.count }

// Next returns the next point. After 2^32 points it fails with
// ErrSequenceExhausted. The point is emitted before the XOR update, so the
// stream runs one point behind the XOR-then-emit formulation and starts at
// the origin.
func (s *SobolGenerator) Next() ([]float64, error) {
	if s.count >= sobolDraws {
		return nil, ErrSequenceExhausted
	}
	point := make([]float64, len(s.last))
	for j, x := range s.last {
		point[j] = float64(x) * sobolNormFactor
	}

	// the last counter value has no successor inside the table
	if s.count < sobolDraws-1 {
		b := bits.TrailingZeros64(^s.count)
		for j := range s.last {
			s.last[j] ^= s.dirs[j][b]
		}
	}
	s.count++
	return point, nil
}
