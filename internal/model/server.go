package model

import (
	"sync"
)

type ServerSnapshot struct {
	T           float64
	Connections int
	Backlog     float64 // remaining work in seconds
}

func NewSnapshot(t float64, connections int, backlog float64) *ServerSnapshot {
	return &ServerSnapshot{
		T:           t,
		Connections: connections,
		Backlog:     backlog,
	}
}

// Server is a FIFO single-server station. BusyUntil is the time the last
// accepted job completes.
type Server struct {
	ID                 int
	CurrentConnections int
	BusyUntil          float64
	MaxConnections     int // 0 is unbounded
	Snapshots          []*ServerSnapshot
	mu                 sync.Mutex
}

func (s *Server) AddSnapshot(t float64) {
	s.mu.Lock()
	ss := NewSnapshot(t, s.CurrentConnections, max(s.BusyUntil-t, 0))
	s.Snapshots = append(s.Snapshots, ss)
	s.mu.Unlock()
}

func (s *Server) Lock() {
	s.mu.Lock()
}

func (s *Server) Unlock() {
	s.mu.Unlock()
}

func (s *Server) IsOverLoaded() bool {
	return s.MaxConnections > 0 && s.CurrentConnections >= s.MaxConnections
}

// Accept queues a job arriving at now with the given service time and
// returns when it starts and ends. The caller holds the lock.
func (s *Server) Accept(now, service float64) (start, end float64) {
	start = max(now, s.BusyUntil)
	end = start + service
	s.BusyUntil = end
	s.CurrentConnections++
	return start, end
}

// Release marks one job as departed. The caller holds the lock.
func (s *Server) Release() {
	s.CurrentConnections--
}

type Spike struct {
	At       float64
	Duration float64
	Factor   float64
}

func InitServers(n, maxConnections int) []*Server {
	var servers []*Server
	for i := range n {
		s := &Server{
			ID:             i + 1,
			MaxConnections: maxConnections,
			Snapshots:      make([]*ServerSnapshot, 0),
			mu:             sync.Mutex{},
		}
		servers = append(servers, s)
	}

	return servers
}
