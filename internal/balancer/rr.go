package balancer

import (
	"sync"

	"github.com/emrzvv/qrng-research/internal/model"
)

type RRBalancer struct {
	servers []*model.Server
	mu      sync.Mutex
	idx     int
}

func (b *RRBalancer) PickServer() *model.Server {
	b.mu.Lock()
	b.idx = (b.idx + 1) % len(b.servers)
	s := b.servers[b.idx]
	b.mu.Unlock()
	if !accepts(s) {
		return nil
	}
	return s
}

func (b *RRBalancer) GetServers() []*model.Server {
	return b.servers
}
