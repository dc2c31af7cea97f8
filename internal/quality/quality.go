// Package quality measures how well generators fill the unit hypercube:
// a chi-square uniformity test for raw 32-bit streams, the L2-star
// discrepancy of a point set and Sobol's Property A.
package quality

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

var ErrNotEnoughPoints = errors.New("not enough points")

type ChiSquareResult struct {
	Samples   int
	Bins      int
	Statistic float64
	PValue    float64
	Alpha     float64
	Pass      bool
}

// ChiSquareUniform bins samples draws of next over the full 32-bit range
// into equal-width bins and tests the counts against the uniform law.
func ChiSquareUniform(next func() uint32, samples, bins int, alpha float64) (ChiSquareResult, error) {
	if bins < 2 {
		return ChiSquareResult{}, fmt.Errorf("need at least 2 bins, got %d", bins)
	}
	if samples < 5*bins {
		return ChiSquareResult{}, fmt.Errorf("%w: %d samples for %d bins", ErrNotEnoughPoints, samples, bins)
	}

	obs := make([]float64, bins)
	for i := 0; i < samples; i++ {
		b := (uint64(next()) * uint64(bins)) >> 32
		obs[b]++
	}
	exp := make([]float64, bins)
	for i := range exp {
		exp[i] = float64(samples) / float64(bins)
	}

	chi := stat.ChiSquare(obs, exp)
	p := distuv.ChiSquared{K: float64(bins - 1)}.Survival(chi)
	return ChiSquareResult{
		Samples:   samples,
		Bins:      bins,
		Statistic: chi,
		PValue:    p,
		Alpha:     alpha,
		Pass:      p >= alpha,
	}, nil
}

// L2StarDiscrepancy computes the L2-star discrepancy with Warnock's formula.
// Cost is quadratic in the number of points.
func L2StarDiscrepancy(points [][]float64) (float64, error) {
	n := len(points)
	if n == 0 {
		return 0, ErrNotEnoughPoints
	}
	d := len(points[0])

	var single float64
	for _, x := range points {
		prod := 1.0
		for _, v := range x {
			prod *= 1 - v*v
		}
		single += prod
	}

	var pair float64
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			prod := 1.0
			for k := 0; k < d; k++ {
				prod *= 1 - math.Max(points[i][k], points[j][k])
			}
			pair += prod
		}
	}

	fn := float64(n)
	t2 := math.Pow(3, -float64(d)) - math.Pow(2, 1-float64(d))/fn*single + pair/(fn*fn)
	return math.Sqrt(math.Max(t2, 0)), nil
}

// maxPropertyADim keeps the 2^d cell table addressable.
const maxPropertyADim = 24

// PropertyA reports whether the first 2^d points put exactly one point in
// each of the 2^d cells obtained by halving every axis.
func PropertyA(points [][]float64) (bool, error) {
	if len(points) == 0 {
		return false, ErrNotEnoughPoints
	}
	d := len(points[0])
	if d > maxPropertyADim {
		return false, fmt.Errorf("dimension %d above %d", d, maxPropertyADim)
	}
	n := 1 << d
	if len(points) < n {
		return false, fmt.Errorf("%w: %d points, need %d", ErrNotEnoughPoints, len(points), n)
	}

	seen := make([]bool, n)
	for _, x := range points[:n] {
		cell := 0
		for k, v := range x {
			if v >= 0.5 {
				cell |= 1 << k
			}
		}
		if seen[cell] {
			return false, nil
		}
		seen[cell] = true
	}
	return true, nil
}
