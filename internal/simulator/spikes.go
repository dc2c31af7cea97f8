package simulator

import (
	"github.com/fschuetz04/simgo"

	"github.com/emrzvv/qrng-research/internal/model"
)

func generateSpikes(
	proc simgo.Process,
	spikes []model.Spike,
	rc *rateCtrl) {

	for _, sp := range spikes {
		wait := sp.At - proc.Now()
		if wait > 0 {
			proc.Wait(proc.Timeout(wait))
		}
		rc.Set(rc.base * sp.Factor)
		proc.Wait(proc.Timeout(sp.Duration))
		rc.Set(rc.base)
	}
}
