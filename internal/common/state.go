package common

import (
	"math/rand/v2"
	"sync"

	"github.com/emrzvv/qrng-research/internal/mt"
	"github.com/emrzvv/qrng-research/internal/sequence"
)

// RNG shares one Mersenne Twister stream between goroutines.
type RNG struct {
	rnd *rand.Rand
	mu  sync.Mutex
}

// NewRNG seeds a shared stream; seed 0 goes through the engine bootstrap.
func NewRNG(seed uint32) *RNG {
	return &RNG{rnd: rand.New(mt.New(seed))}
}

/* thread-safe wrappers */

func (r *RNG) IntN(n int) int {
	r.mu.Lock()
	v := r.rnd.IntN(n)
	r.mu.Unlock()
	return v
}

func (r *RNG) Uint64() uint64 {
	r.mu.Lock()
	v := r.rnd.Uint64()
	r.mu.Unlock()
	return v
}

// LockedGenerator serializes calls to a sequence generator.
type LockedGenerator struct {
	g  sequence.Generator
	mu sync.Mutex
}

func NewLockedGenerator(g sequence.Generator) *LockedGenerator {
	return &LockedGenerator{g: g}
}

func (l *LockedGenerator) Dimension() int { return l.g.Dimension() }

func (l *LockedGenerator) Name() string { return l.g.Name() }

func (l *LockedGenerator) Next() ([]float64, error) {
	l.mu.Lock()
	p, err := l.g.Next()
	l.mu.Unlock()
	return p, err
}
