package balancer

import (
	"github.com/emrzvv/qrng-research/internal/common"
	"github.com/emrzvv/qrng-research/internal/model"
)

type RandomBalancer struct {
	servers []*model.Server
	rng     *common.RNG
}

func (b *RandomBalancer) PickServer() *model.Server {
	s := b.servers[b.rng.IntN(len(b.servers))]
	if !accepts(s) {
		return nil
	}
	return s
}

func (b *RandomBalancer) GetServers() []*model.Server {
	return b.servers
}
