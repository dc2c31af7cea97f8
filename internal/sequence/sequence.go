// Package sequence provides point generators over the unit hypercube: the
// Sobol and Halton low-discrepancy sequences and a pseudo-random sequence
// backed by the Mersenne Twister, all behind one Generator interface.
//
// Generators own their state and are not safe for concurrent use. A
// generator cannot be rewound; build a new one to restart a sequence.
package sequence

import (
	"errors"
	"fmt"

	"github.com/emrzvv/qrng-research/internal/direction"
)

var (
	ErrDimensionOutOfRange = direction.ErrDimensionOutOfRange
	ErrSequenceExhausted   = errors.New("sequence exhausted")
)

// Generator produces points in [0,1)^d. Next is deterministic given the
// construction parameters and the number of earlier calls.
type Generator interface {
	Dimension() int
	Next() ([]float64, error)
	Name() string
}

type Kind int

const (
	Sobol Kind = iota
	Halton
	Pseudo
)

func (k Kind) String() string {
	switch k {
	case Sobol:
		return "sobol"
	case Halton:
		return "halton"
	case Pseudo:
		return "pseudo"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

func ParseKind(s string) (Kind, error) {
	for _, k := range []Kind{Sobol, Halton, Pseudo} {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown sequence kind %q", s)
}

type Options struct {
	Kind      Kind
	Dimension int
	// Seed 0 means seed from the clock through the bootstrap. Halton
	// ignores it.
	Seed uint32
	// Variant selects the Sobol free direction integers.
	Variant direction.Variant
}

func New(opts Options) (Generator, error) {
	switch opts.Kind {
	case Sobol:
		return NewSobol(opts.Dimension, opts.Seed, opts.Variant)
	case Halton:
		return NewHalton(opts.Dimension, opts.Seed)
	case Pseudo:
		return NewPseudo(opts.Dimension, opts.Seed)
	default:
		return nil, fmt.Errorf("unknown sequence kind %d", int(opts.Kind))
	}
}

// Fill draws the next n points of g.
func Fill(g Generator, n int) ([][]float64, error) {
	points := make([][]float64, 0, n)
	for i := 0; i < n; i++ {
		p, err := g.Next()
		if err != nil {
			return points, fmt.Errorf("point %d: %w", i, err)
		}
		points = append(points, p)
	}
	return points, nil
}

func checkDimension(dim int) error {
	if dim < 1 {
		return fmt.Errorf("%w: %d", ErrDimensionOutOfRange, dim)
	}
	return nil
}
