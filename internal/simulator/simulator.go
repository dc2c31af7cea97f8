// Package simulator runs a multi-server FIFO queue as a discrete-event
// simulation. Interarrival and service times are drawn by inversion from the
// first two coordinates of a sequence generator's points, so the same model
// can be driven by pseudo-random or quasi-random input.
package simulator

import (
	"fmt"
	"sync"

	"github.com/fschuetz04/simgo"

	"github.com/emrzvv/qrng-research/internal/balancer"
	"github.com/emrzvv/qrng-research/internal/common"
	"github.com/emrzvv/qrng-research/internal/config"
	"github.com/emrzvv/qrng-research/internal/sequence"
	"github.com/emrzvv/qrng-research/internal/stats"
)

type rateCtrl struct {
	mu      sync.RWMutex
	base    float64
	current float64
}

func (r *rateCtrl) Get() float64 {
	r.mu.RLock()
	v := r.current
	r.mu.RUnlock()
	return v
}

func (r *rateCtrl) Set(v float64) {
	r.mu.Lock()
	r.current = v
	r.mu.Unlock()
}

// Run simulates cfg.Experiments.Queue on the balancer's servers. gen must
// have at least two dimensions. A generator error stops new arrivals; jobs
// already accepted still complete and the error is returned with the
// statistics gathered so far.
func Run(cfg *config.Config, balancer balancer.Balancer, gen sequence.Generator) (*stats.Statistics, error) {
	if gen.Dimension() < 2 {
		return nil, fmt.Errorf("%w: queue needs 2 dimensions, generator has %d",
			sequence.ErrDimensionOutOfRange, gen.Dimension())
	}
	q := cfg.Experiments.Queue
	simulation := simgo.NewSimulation()
	servers := balancer.GetServers()
	statistics := stats.NewStatistics(len(servers))
	stream := common.NewLockedGenerator(gen)

	rc := &rateCtrl{base: q.ArrivalRate, current: q.ArrivalRate}
	var genErr error

	simulation.Process(func(proc simgo.Process) { collectSnapshots(proc, cfg, servers) })
	simulation.Process(func(proc simgo.Process) { generateSpikes(proc, cfg.Spikes(), rc) })
	simulation.Process(func(proc simgo.Process) {
		genErr = generateArrivals(proc, simulation, cfg, rc, balancer, statistics, stream)
	})

	simulation.RunUntil(q.TimeSeconds)
	return statistics, genErr
}
