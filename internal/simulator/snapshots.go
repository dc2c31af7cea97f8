package simulator

import (
	"github.com/emrzvv/qrng-research/internal/config"
	"github.com/emrzvv/qrng-research/internal/model"
	"github.com/fschuetz04/simgo"
)

func collectSnapshots(
	proc simgo.Process,
	cfg *config.Config,
	servers []*model.Server) {

	step := cfg.Experiments.Queue.StepSeconds
	for t := 0.0; t < cfg.Experiments.Queue.TimeSeconds; t += step {
		proc.Wait(proc.Timeout(step))
		now := proc.Now()
		for _, s := range servers {
			s.AddSnapshot(now)
		}
	}
}
