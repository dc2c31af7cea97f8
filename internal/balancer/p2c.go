package balancer

import (
	"sync"

	"github.com/emrzvv/qrng-research/internal/common"
	"github.com/emrzvv/qrng-research/internal/model"
)

// P2CBalancer samples two servers and keeps the one with fewer customers.
type P2CBalancer struct {
	servers []*model.Server
	rng     *common.RNG
	mu      sync.RWMutex
}

func NewP2CBalancer(servers []*model.Server, rng *common.RNG) *P2CBalancer {
	return &P2CBalancer{
		servers: servers,
		rng:     rng,
		mu:      sync.RWMutex{},
	}
}

func (b *P2CBalancer) PickServer() *model.Server {
	b.mu.RLock()
	n := len(b.servers)
	if n == 0 {
		b.mu.RUnlock()
		return nil
	}
	if n == 1 {
		s := b.servers[0]
		b.mu.RUnlock()
		if !accepts(s) {
			return nil
		}
		return s
	}

	i1 := b.rng.IntN(n)
	i2 := b.rng.IntN(n - 1)
	if i2 >= i1 {
		i2++
	}
	s1, s2 := b.servers[i1], b.servers[i2]
	b.mu.RUnlock()

	s1.Lock()
	c1, full1 := s1.CurrentConnections, s1.IsOverLoaded()
	s1.Unlock()
	s2.Lock()
	c2, full2 := s2.CurrentConnections, s2.IsOverLoaded()
	s2.Unlock()

	switch {
	case full1 && full2:
		return nil
	case full2 || (!full1 && c1 <= c2):
		return s1
	}
	return s2
}

func (b *P2CBalancer) GetServers() []*model.Server {
	return b.servers
}
