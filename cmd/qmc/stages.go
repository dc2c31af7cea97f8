package main

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/emrzvv/qrng-research/internal/balancer"
	"github.com/emrzvv/qrng-research/internal/common"
	"github.com/emrzvv/qrng-research/internal/config"
	"github.com/emrzvv/qrng-research/internal/direction"
	"github.com/emrzvv/qrng-research/internal/export"
	"github.com/emrzvv/qrng-research/internal/model"
	"github.com/emrzvv/qrng-research/internal/mt"
	"github.com/emrzvv/qrng-research/internal/plots"
	"github.com/emrzvv/qrng-research/internal/pricing"
	"github.com/emrzvv/qrng-research/internal/quality"
	"github.com/emrzvv/qrng-research/internal/sequence"
	"github.com/emrzvv/qrng-research/internal/simulator"
)

// propertyADims bounds the Property A check, which needs 2^d points.
const propertyADims = 16

func newGenerator(cfg *config.Config, dim int) (sequence.Generator, error) {
	opts, err := cfg.SequenceOptions(dim)
	if err != nil {
		return nil, err
	}
	return sequence.New(opts)
}

func runPoints(ctx context.Context, cfg *config.Config) error {
	n := cfg.Experiments.Points.Count
	g, err := newGenerator(cfg, cfg.Generator.Dimension)
	if err != nil {
		return err
	}
	written, err := export.StreamPoints(ctx, g, n, filepath.Join(cfg.Output.Dir, "points.csv"))
	if err != nil {
		return err
	}
	log.Printf("points: %d from %s", written, g.Name())

	if cfg.Output.DisablePlots || cfg.Generator.Dimension < 2 {
		return nil
	}
	g, err = newGenerator(cfg, cfg.Generator.Dimension)
	if err != nil {
		return err
	}
	pts, err := sequence.Fill(g, min(n, 1<<12))
	if err != nil {
		return err
	}
	return plots.Projection(pts, 0, 1, g.Name(), filepath.Join(cfg.Output.Dir, "projection.png"))
}

func runUniformity(_ context.Context, cfg *config.Config) error {
	u := cfg.Experiments.Uniformity
	e := mt.New(cfg.Generator.Seed)
	res, err := quality.ChiSquareUniform(e.Uint32, u.Samples, u.Bins, u.Alpha)
	if err != nil {
		return err
	}
	log.Printf("uniformity: chi2=%.1f p=%.4g pass=%v over %d samples in %d bins",
		res.Statistic, res.PValue, res.Pass, res.Samples, res.Bins)
	return nil
}

func runQuality(_ context.Context, cfg *config.Config) error {
	dim := cfg.Generator.Dimension
	n := cfg.Experiments.Points.Discrepancy
	u := cfg.Experiments.Uniformity

	var rows []export.QualityRow
	for _, kind := range []sequence.Kind{sequence.Sobol, sequence.Halton, sequence.Pseudo} {
		opts, err := cfg.SequenceOptions(dim)
		if err != nil {
			return err
		}
		opts.Kind = kind
		g, err := sequence.New(opts)
		if err != nil {
			return err
		}
		need := n
		if dim <= propertyADims {
			need = max(n, 1<<dim)
		}
		pts, err := sequence.Fill(g, need)
		if err != nil {
			return err
		}
		disc, err := quality.L2StarDiscrepancy(pts[:n])
		if err != nil {
			return err
		}
		if err := export.WritePoints(pts[:n], filepath.Join(cfg.Output.Dir, "points_"+kind.String()+".csv")); err != nil {
			return err
		}
		row := export.QualityRow{Generator: g.Name(), Discrepancy: disc}
		if dim <= propertyADims {
			if row.PropertyA, err = quality.PropertyA(pts); err != nil {
				return err
			}
		}

		// first coordinate scaled back to 32 bits
		var nextErr error
		row.ChiSquare, err = quality.ChiSquareUniform(func() uint32 {
			p, err := g.Next()
			if err != nil {
				nextErr = err
				return 0
			}
			return uint32(p[0] * (1 << 32))
		}, u.Samples, u.Bins, u.Alpha)
		if err != nil {
			return err
		}
		if nextErr != nil {
			return fmt.Errorf("%s: %w", g.Name(), nextErr)
		}

		rows = append(rows, row)
		log.Printf("quality: %s L2*=%.3e propertyA=%v chi2 p=%.4g",
			row.Generator, row.Discrepancy, row.PropertyA, row.ChiSquare.PValue)
	}
	return export.WriteQuality(rows, filepath.Join(cfg.Output.Dir, "quality.csv"))
}

func runPricing(_ context.Context, cfg *config.Config) error {
	p := cfg.Experiments.Pricing
	opt := pricing.Option{Spot: p.Spot, Strike: p.Strike, Rate: p.Rate, Vol: p.Vol, Maturity: p.Maturity}

	variant, err := direction.ParseVariant(cfg.Generator.Variant)
	if err != nil {
		return err
	}
	builders := []func() (sequence.Generator, error){
		func() (sequence.Generator, error) { return sequence.NewSobol(1, cfg.Generator.Seed, variant) },
		func() (sequence.Generator, error) { return sequence.NewHalton(1, cfg.Generator.Seed) },
		func() (sequence.Generator, error) { return sequence.NewPseudo(1, cfg.Generator.Seed) },
	}

	var (
		series [][]pricing.ConvergencePoint
		all    []pricing.ConvergencePoint
	)
	for _, build := range builders {
		conv, err := pricing.EuropeanConvergence(build, opt, p.Sizes)
		if err != nil {
			return err
		}
		last := conv[len(conv)-1]
		log.Printf("pricing: %s european %.4f (error %.2e at %d paths)",
			last.Generator, last.Price, last.AbsError, last.Paths)
		series = append(series, conv)
		all = append(all, conv...)
	}
	if err := export.WriteConvergence(all, filepath.Join(cfg.Output.Dir, "convergence.csv")); err != nil {
		return err
	}

	g, err := newGenerator(cfg, p.Steps)
	if err != nil {
		return err
	}
	asian, err := pricing.AsianCall(g, opt, p.Steps, p.Paths)
	if err != nil {
		return err
	}
	log.Printf("pricing: %s asian %.4f (se %.4f, %d steps, %d paths)",
		g.Name(), asian.Price, asian.StdErr, p.Steps, asian.Paths)

	if cfg.Output.DisablePlots {
		return nil
	}
	return plots.Convergence(series, filepath.Join(cfg.Output.Dir, "convergence.png"))
}

func runQueue(_ context.Context, cfg *config.Config) error {
	q := cfg.Experiments.Queue
	g, err := newGenerator(cfg, 2)
	if err != nil {
		return err
	}

	servers := model.InitServers(q.Servers, q.MaxQueue)
	b, err := balancer.NewBalancer(cfg, servers, common.NewRNG(cfg.Generator.Seed))
	if err != nil {
		return err
	}
	st, err := simulator.Run(cfg, b, g)
	if err != nil {
		return err
	}

	sum := st.Summarize(q.Warmup)
	log.Printf("queue: %s arrivals=%d served=%d dropped=%d wait=%.4f sojourn=%.4f",
		g.Name(), sum.Arrivals, sum.Served, sum.Dropped, sum.MeanWait, sum.MeanSojourn)
	if q.ServiceCV == 1 && q.MaxQueue == 0 && len(q.Spikes) == 0 && q.Dispatch == "least-backlog" {
		log.Printf("queue: erlang-c wait=%.4f", simulator.ErlangCWait(q.ArrivalRate, 1/q.ServiceMean, q.Servers))
	}

	dir := filepath.Join(cfg.Output.Dir, "queue")
	if err := export.QueueToCSV(dir, st, servers, q.Warmup); err != nil {
		return err
	}
	if cfg.Output.DisablePlots {
		return nil
	}
	counts := plots.AggregateArrivals(st.Arrivals, q.StepSeconds, q.TimeSeconds)
	if err := plots.Arrivals(counts, q.StepSeconds, filepath.Join(dir, "arrivals.png")); err != nil {
		return err
	}
	return plots.Backlog(servers, filepath.Join(dir, "backlog.png"))
}
