// Package balancer assigns arriving customers to servers of the queue model.
package balancer

import (
	"fmt"
	"sync"

	"github.com/emrzvv/qrng-research/internal/common"
	"github.com/emrzvv/qrng-research/internal/config"
	"github.com/emrzvv/qrng-research/internal/model"
)

// Balancer picks a server for the next customer or returns nil when none
// can take it.
type Balancer interface {
	PickServer() *model.Server
	GetServers() []*model.Server
}

func NewBalancer(cfg *config.Config, servers []*model.Server, rng *common.RNG) (Balancer, error) {
	switch cfg.Experiments.Queue.Dispatch {
	case "least-backlog":
		return NewLeastBacklogBalancer(servers, rng), nil
	case "p2c":
		return NewP2CBalancer(servers, rng), nil
	case "rr":
		return &RRBalancer{
			servers: servers,
			mu:      sync.Mutex{},
			idx:     -1,
		}, nil
	case "random":
		return &RandomBalancer{
			servers: servers,
			rng:     rng,
		}, nil
	default:
		return nil, fmt.Errorf("no such dispatch strategy: %q", cfg.Experiments.Queue.Dispatch)
	}
}

func accepts(s *model.Server) bool {
	s.Lock()
	defer s.Unlock()
	return !s.IsOverLoaded()
}
