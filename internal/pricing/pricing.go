// Package pricing prices call options by Monte Carlo and quasi-Monte Carlo
// simulation under Black-Scholes dynamics. Any sequence.Generator can drive
// the simulation; each point is mapped to normal increments by inversion.
package pricing

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/emrzvv/qrng-research/internal/sequence"
)

var ErrInvalidOption = errors.New("invalid option")

type Option struct {
	Spot     float64
	Strike   float64
	Rate     float64
	Vol      float64
	Maturity float64
}

func (o Option) validate() error {
	if o.Spot <= 0 || o.Strike <= 0 || o.Vol <= 0 || o.Maturity <= 0 {
		return fmt.Errorf("%w: %+v", ErrInvalidOption, o)
	}
	return nil
}

type Estimate struct {
	Price  float64
	StdErr float64
	Paths  int
}

// uniform bounds keep the inverse normal finite; the origin of a Sobol
// sequence would otherwise map to -Inf.
const (
	uniformLo = 0.5 / (1 << 32)
	uniformHi = 1 - uniformLo
)

func normal(u float64) float64 {
	return distuv.UnitNormal.Quantile(math.Min(math.Max(u, uniformLo), uniformHi))
}

// BlackScholesCall is the closed-form European call price.
func BlackScholesCall(o Option) float64 {
	sq := o.Vol * math.Sqrt(o.Maturity)
	d1 := (math.Log(o.Spot/o.Strike) + (o.Rate+0.5*o.Vol*o.Vol)*o.Maturity) / sq
	d2 := d1 - sq
	return o.Spot*distuv.UnitNormal.CDF(d1) - o.Strike*math.Exp(-o.Rate*o.Maturity)*distuv.UnitNormal.CDF(d2)
}

// EuropeanCall simulates the terminal price from the first coordinate of
// each point.
func EuropeanCall(g sequence.Generator, o Option, paths int) (Estimate, error) {
	if err := o.validate(); err != nil {
		return Estimate{}, err
	}
	if paths < 1 {
		return Estimate{}, fmt.Errorf("%w: %d paths", ErrInvalidOption, paths)
	}

	drift := (o.Rate - 0.5*o.Vol*o.Vol) * o.Maturity
	diffusion := o.Vol * math.Sqrt(o.Maturity)
	payoffs := make([]float64, paths)
	for i := range payoffs {
		p, err := g.Next()
		if err != nil {
			return Estimate{}, fmt.Errorf("path %d: %w", i, err)
		}
		st := o.Spot * math.Exp(drift+diffusion*normal(p[0]))
		payoffs[i] = math.Max(st-o.Strike, 0)
	}
	return discounted(payoffs, o), nil
}

// AsianCall prices an arithmetic-average call monitored at steps equally
// spaced dates. Each path consumes one point, one coordinate per date, so g
// needs at least steps dimensions.
func AsianCall(g sequence.Generator, o Option, steps, paths int) (Estimate, error) {
	if err := o.validate(); err != nil {
		return Estimate{}, err
	}
	if steps < 1 || paths < 1 {
		return Estimate{}, fmt.Errorf("%w: %d steps, %d paths", ErrInvalidOption, steps, paths)
	}
	if g.Dimension() < steps {
		return Estimate{}, fmt.Errorf("%w: %d steps on a %d-dimensional generator",
			sequence.ErrDimensionOutOfRange, steps, g.Dimension())
	}

	dt := o.Maturity / float64(steps)
	drift := (o.Rate - 0.5*o.Vol*o.Vol) * dt
	diffusion := o.Vol * math.Sqrt(dt)
	payoffs := make([]float64, paths)
	for i := range payoffs {
		p, err := g.Next()
		if err != nil {
			return Estimate{}, fmt.Errorf("path %d: %w", i, err)
		}
		s, sum := o.Spot, 0.0
		for k := 0; k < steps; k++ {
			s *= math.Exp(drift + diffusion*normal(p[k]))
			sum += s
		}
		payoffs[i] = math.Max(sum/float64(steps)-o.Strike, 0)
	}
	return discounted(payoffs, o), nil
}

func discounted(payoffs []float64, o Option) Estimate {
	df := math.Exp(-o.Rate * o.Maturity)
	mean, std := stat.MeanStdDev(payoffs, nil)
	n := len(payoffs)
	se := 0.0
	if n > 1 {
		se = std / math.Sqrt(float64(n))
	}
	return Estimate{Price: df * mean, StdErr: df * se, Paths: n}
}

type ConvergencePoint struct {
	Generator string
	Paths     int
	Price     float64
	AbsError  float64
}

// EuropeanConvergence prices the option at each path count with a fresh
// generator from build and records the error against the closed form.
func EuropeanConvergence(build func() (sequence.Generator, error), o Option, sizes []int) ([]ConvergencePoint, error) {
	exact := BlackScholesCall(o)
	out := make([]ConvergencePoint, 0, len(sizes))
	for _, n := range sizes {
		g, err := build()
		if err != nil {
			return nil, err
		}
		est, err := EuropeanCall(g, o, n)
		if err != nil {
			return nil, err
		}
		out = append(out, ConvergencePoint{
			Generator: g.Name(),
			Paths:     n,
			Price:     est.Price,
			AbsError:  math.Abs(est.Price - exact),
		})
	}
	return out, nil
}
