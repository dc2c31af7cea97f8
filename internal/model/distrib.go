package model

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// inversion needs u strictly inside (0,1); a Sobol origin would give 0
const (
	uLo = 0.5 / (1 << 32)
	uHi = 1 - uLo
)

func clampUnit(u float64) float64 {
	return math.Min(math.Max(u, uLo), uHi)
}

// Exponential maps u to an exponential draw with the given rate.
func Exponential(u, rate float64) float64 {
	e := distuv.Exponential{Rate: rate}
	return e.Quantile(clampUnit(u))
}

// Gamma maps u to a gamma draw parameterized by mean and coefficient of
// variation. cv = 1 is the exponential law.
func Gamma(u, mean, cv float64) float64 {
	if cv <= 0 {
		panic("cv must be > 0")
	}

	k := 1.0 / (cv * cv)
	theta := mean / k

	g := distuv.Gamma{
		Alpha: k,
		Beta:  1.0 / theta,
	}
	return g.Quantile(clampUnit(u))
}
