package balancer

import (
	"sync"

	"github.com/emrzvv/qrng-research/internal/common"
	"github.com/emrzvv/qrng-research/internal/model"
)

// LeastBacklogBalancer sends each customer to the server that clears its
// queue first. With FIFO servers this behaves as one shared line in front of
// all of them, so an M/M/c model keeps its closed form.
type LeastBacklogBalancer struct {
	servers []*model.Server
	rng     *common.RNG
	mu      sync.Mutex
}

func NewLeastBacklogBalancer(servers []*model.Server, rng *common.RNG) *LeastBacklogBalancer {
	return &LeastBacklogBalancer{
		servers: servers,
		rng:     rng,
		mu:      sync.Mutex{},
	}
}

func (b *LeastBacklogBalancer) PickServer() *model.Server {
	b.mu.Lock()
	defer b.mu.Unlock()

	var best []*model.Server
	bestUntil := 0.0
	for _, s := range b.servers {
		s.Lock()
		until, full := s.BusyUntil, s.IsOverLoaded()
		s.Unlock()
		if full {
			continue
		}
		switch {
		case len(best) == 0 || until < bestUntil:
			best, bestUntil = append(best[:0], s), until
		case until == bestUntil:
			best = append(best, s)
		}
	}
	switch len(best) {
	case 0:
		return nil
	case 1:
		return best[0]
	}
	return best[b.rng.IntN(len(best))]
}

func (b *LeastBacklogBalancer) GetServers() []*model.Server {
	return b.servers
}
