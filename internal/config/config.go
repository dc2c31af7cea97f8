package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/emrzvv/qrng-research/internal/direction"
	"github.com/emrzvv/qrng-research/internal/model"
	"github.com/emrzvv/qrng-research/internal/sequence"
)

type Config struct {
	Generator struct {
		Kind      string `yaml:"kind" env:"QRNG_KIND"`           // sobol | halton | pseudo
		Variant   string `yaml:"variant" env:"QRNG_VARIANT"`     // direction integers for sobol
		Dimension int    `yaml:"dimension" env:"QRNG_DIMENSION"` // dimension of the points experiment
		Seed      uint32 `yaml:"seed" env:"QRNG_SEED"`           // 0 seeds from the clock
	} `yaml:"generator"`

	Experiments struct {
		Points struct {
			Count       int `yaml:"count" env:"QRNG_POINTS"` // points dumped to csv
			Discrepancy int `yaml:"discrepancy_points"`      // prefix used for the L2-star discrepancy
		} `yaml:"points"`

		Uniformity struct {
			Samples int     `yaml:"samples"`
			Bins    int     `yaml:"bins"`
			Alpha   float64 `yaml:"alpha"`
		} `yaml:"uniformity"`

		Pricing struct {
			Spot     float64 `yaml:"spot"`
			Strike   float64 `yaml:"strike"`
			Rate     float64 `yaml:"rate"`
			Vol      float64 `yaml:"vol"`
			Maturity float64 `yaml:"maturity"` // years
			Steps    int     `yaml:"asian_steps"`
			Paths    int     `yaml:"asian_paths"`
			Sizes    []int   `yaml:"sizes"` // path counts of the convergence table
		} `yaml:"pricing"`

		Queue struct {
			TimeSeconds float64 `yaml:"time_seconds"` // simulated horizon
			StepSeconds float64 `yaml:"step_seconds"` // snapshot period
			Warmup      float64 `yaml:"warmup_seconds"`
			ArrivalRate float64 `yaml:"arrival_rate"` // \lambda of the Poisson arrivals
			ServiceMean float64 `yaml:"service_mean"` // seconds
			ServiceCV   float64 `yaml:"service_cv"`   // 1 is exponential service
			Servers     int     `yaml:"servers"`
			MaxQueue    int     `yaml:"max_queue"` // per server, 0 is unbounded
			Dispatch    string  `yaml:"dispatch"`  // least-backlog | p2c | rr | random

			Spikes []struct {
				At       float64 `yaml:"at"`       // start second
				Duration float64 `yaml:"duration"` // seconds
				Factor   float64 `yaml:"factor"`   // multiplier on arrival_rate
			} `yaml:"spikes"`
		} `yaml:"queue"`
	} `yaml:"experiments"`

	Output struct {
		Dir          string `yaml:"dir" env:"QRNG_OUT_DIR"`
		DisablePlots bool   `yaml:"disable_plots"`
	} `yaml:"output"`
}

func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("error when parsing config: %w", err)
	}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("error when parsing env: %w", err)
	}

	fillDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("error when validating config: %w", err)
	}
	return &cfg, nil
}

func fillDefaults(c *Config) {
	if c.Generator.Kind == "" {
		c.Generator.Kind = "sobol"
	}
	if c.Generator.Variant == "" {
		c.Generator.Variant = "jaeckel"
	}
	if c.Generator.Dimension == 0 {
		c.Generator.Dimension = 2
	}
	if c.Experiments.Points.Count == 0 {
		c.Experiments.Points.Count = 4096
	}
	if c.Experiments.Points.Discrepancy == 0 {
		c.Experiments.Points.Discrepancy = 1024
	}
	if c.Experiments.Uniformity.Samples == 0 {
		c.Experiments.Uniformity.Samples = 1_000_000
	}
	if c.Experiments.Uniformity.Bins == 0 {
		c.Experiments.Uniformity.Bins = 256
	}
	if c.Experiments.Uniformity.Alpha == 0 {
		c.Experiments.Uniformity.Alpha = 0.001
	}
	if c.Experiments.Pricing.Spot == 0 {
		c.Experiments.Pricing.Spot = 100
	}
	if c.Experiments.Pricing.Strike == 0 {
		c.Experiments.Pricing.Strike = 100
	}
	if c.Experiments.Pricing.Vol == 0 {
		c.Experiments.Pricing.Vol = 0.2
	}
	if c.Experiments.Pricing.Maturity == 0 {
		c.Experiments.Pricing.Maturity = 1
	}
	if c.Experiments.Pricing.Steps == 0 {
		c.Experiments.Pricing.Steps = 12
	}
	if c.Experiments.Pricing.Paths == 0 {
		c.Experiments.Pricing.Paths = 1 << 14
	}
	if len(c.Experiments.Pricing.Sizes) == 0 {
		for k := 6; k <= 16; k += 2 {
			c.Experiments.Pricing.Sizes = append(c.Experiments.Pricing.Sizes, 1<<k)
		}
	}
	if c.Experiments.Queue.TimeSeconds == 0 {
		c.Experiments.Queue.TimeSeconds = 3600
	}
	if c.Experiments.Queue.StepSeconds == 0 {
		c.Experiments.Queue.StepSeconds = 10
	}
	if c.Experiments.Queue.ArrivalRate == 0 {
		c.Experiments.Queue.ArrivalRate = 4
	}
	if c.Experiments.Queue.ServiceMean == 0 {
		c.Experiments.Queue.ServiceMean = 0.4
	}
	if c.Experiments.Queue.ServiceCV == 0 {
		c.Experiments.Queue.ServiceCV = 1
	}
	if c.Experiments.Queue.Servers == 0 {
		c.Experiments.Queue.Servers = 2
	}
	if c.Experiments.Queue.Dispatch == "" {
		c.Experiments.Queue.Dispatch = "least-backlog"
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "./results"
	}
}

func validate(cfg *Config) error {
	if _, err := sequence.ParseKind(cfg.Generator.Kind); err != nil {
		return err
	}
	if _, err := direction.ParseVariant(cfg.Generator.Variant); err != nil {
		return err
	}
	if cfg.Generator.Dimension < 1 {
		return fmt.Errorf("generator.dimension must be >= 1, got %d", cfg.Generator.Dimension)
	}

	pts := cfg.Experiments.Points
	if pts.Count < 1 || pts.Discrepancy < 1 {
		return fmt.Errorf("points: count %d and discrepancy_points %d must be >= 1", pts.Count, pts.Discrepancy)
	}

	u := cfg.Experiments.Uniformity
	if u.Bins < 2 || u.Samples < 5*u.Bins {
		return fmt.Errorf("uniformity: %d samples over %d bins", u.Samples, u.Bins)
	}
	if u.Alpha <= 0 || u.Alpha >= 1 {
		return fmt.Errorf("uniformity.alpha must be in (0,1), got %v", u.Alpha)
	}

	p := cfg.Experiments.Pricing
	if p.Spot <= 0 || p.Strike <= 0 || p.Vol <= 0 || p.Maturity <= 0 {
		return errors.New("pricing: spot, strike, vol and maturity must be positive")
	}
	for _, n := range p.Sizes {
		if n < 1 {
			return fmt.Errorf("pricing.sizes: %d", n)
		}
	}

	q := cfg.Experiments.Queue
	if q.ArrivalRate <= 0 || q.ServiceMean <= 0 || q.ServiceCV <= 0 {
		return errors.New("queue: arrival_rate, service_mean and service_cv must be positive")
	}
	if q.Servers < 1 || q.MaxQueue < 0 {
		return fmt.Errorf("queue: %d servers, max_queue %d", q.Servers, q.MaxQueue)
	}
	switch q.Dispatch {
	case "least-backlog", "p2c", "rr", "random":
	default:
		return fmt.Errorf("queue.dispatch: unknown strategy %q", q.Dispatch)
	}
	if q.Warmup >= q.TimeSeconds {
		return fmt.Errorf("queue.warmup_seconds %v beyond horizon %v", q.Warmup, q.TimeSeconds)
	}
	for i, sp := range q.Spikes {
		if sp.Duration <= 0 || sp.Factor <= 0 {
			return fmt.Errorf("queue.spikes[%d]: duration and factor must be positive", i)
		}
	}
	return nil
}

// SequenceOptions returns generator options for the given dimension.
func (c *Config) SequenceOptions(dim int) (sequence.Options, error) {
	kind, err := sequence.ParseKind(c.Generator.Kind)
	if err != nil {
		return sequence.Options{}, err
	}
	variant, err := direction.ParseVariant(c.Generator.Variant)
	if err != nil {
		return sequence.Options{}, err
	}
	return sequence.Options{
		Kind:      kind,
		Dimension: dim,
		Seed:      c.Generator.Seed,
		Variant:   variant,
	}, nil
}

// Spikes returns the arrival-rate spikes in model form.
func (c *Config) Spikes() []model.Spike {
	out := make([]model.Spike, 0, len(c.Experiments.Queue.Spikes))
	for _, sp := range c.Experiments.Queue.Spikes {
		out = append(out, model.Spike{At: sp.At, Duration: sp.Duration, Factor: sp.Factor})
	}
	return out
}
