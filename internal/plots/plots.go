// Package plots renders experiment results to PNG with gonum/plot.
package plots

import (
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/emrzvv/qrng-research/internal/model"
	"github.com/emrzvv/qrng-research/internal/pricing"
	"github.com/emrzvv/qrng-research/internal/stats"
)

// Projection scatters coordinates i and j of points over the unit square.
func Projection(points [][]float64, i, j int, title, file string) error {
	if len(points) == 0 {
		return fmt.Errorf("no points for %s", file)
	}
	if d := len(points[0]); i >= d || j >= d {
		return fmt.Errorf("projection (%d,%d) of %d-dimensional points", i, j, d)
	}

	pts := make(plotter.XYs, len(points))
	for k, x := range points {
		pts[k].X = x[i]
		pts[k].Y = x[j]
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = fmt.Sprintf("x%d", i+1)
	p.Y.Label.Text = fmt.Sprintf("x%d", j+1)
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1

	s, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	s.GlyphStyle.Radius = vg.Points(1.2)
	p.Add(s)
	return p.Save(15*vg.Centimeter, 15*vg.Centimeter, file)
}

// errFloor keeps exact estimates on a log axis.
const errFloor = 1e-12

// Convergence draws absolute pricing error against path count on log-log
// axes, one line per generator, in order.
func Convergence(series [][]pricing.ConvergencePoint, file string) error {
	p := plot.New()
	p.Title.Text = "European call: absolute error"
	p.X.Label.Text = "Paths"
	p.Y.Label.Text = "|price - Black-Scholes|"
	p.X.Scale = plot.LogScale{}
	p.Y.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}

	for i, s := range series {
		if len(s) == 0 {
			continue
		}
		pts := make(plotter.XYs, len(s))
		for k, c := range s {
			pts[k].X = float64(c.Paths)
			pts[k].Y = math.Max(c.AbsError, errFloor)
		}
		line, points, err := plotter.NewLinePoints(pts)
		if err != nil {
			return err
		}
		line.Color = plotutil.Color(i)
		points.Color = plotutil.Color(i)
		p.Add(line, points)
		p.Legend.Add(s[0].Generator, line, points)
	}
	p.Legend.Top = true
	return p.Save(20*vg.Centimeter, 14*vg.Centimeter, file)
}

// AggregateArrivals counts arrivals per step over the horizon.
func AggregateArrivals(events []*stats.ArrivalEvent, step, horizon float64) []float64 {
	buckets := int(math.Ceil(horizon / step))
	counts := make([]float64, buckets)

	for _, event := range events {
		index := int(event.T / step)
		if index < buckets {
			counts[index] += 1
		}
	}
	return counts
}

func Arrivals(counts []float64, step float64, file string) error {
	pts := make(plotter.XYs, len(counts))
	for i, c := range counts {
		pts[i].X = float64(i) * step
		pts[i].Y = c
	}
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Arrivals per step (%.0f s)", step)
	p.X.Label.Text = "Time (s)"
	p.Y.Label.Text = "Arrivals"
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	p.Add(line)
	return p.Save(20*vg.Centimeter, 10*vg.Centimeter, file)
}

// Backlog draws the remaining work of each server over time.
func Backlog(servers []*model.Server, file string) error {
	p := plot.New()
	p.Title.Text = "Server backlog"
	p.X.Label.Text = "Time (s)"
	p.Y.Label.Text = "Backlog (s)"

	for i, s := range servers {
		if len(s.Snapshots) == 0 {
			continue
		}
		pts := make(plotter.XYs, len(s.Snapshots))
		for k, snap := range s.Snapshots {
			pts[k].X = snap.T
			pts[k].Y = snap.Backlog
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("server %d", s.ID), line)
	}
	return p.Save(20*vg.Centimeter, 10*vg.Centimeter, file)
}
