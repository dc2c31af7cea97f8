// Package mt implements the 32-bit Mersenne Twister (MT19937) pseudo-random
// engine and the bootstrap used to seed it when no explicit seed is given.
//
// The engine is statistically strong but not cryptographically secure. An
// Engine is not safe for concurrent use; see common.RNG for a guarded wrapper.
package mt

import (
	"errors"
	"fmt"
)

const (
	N = 624 // state size in words
	M = 397 // twist offset

	matrixA   uint32 = 0x9908b0df
	upperMask uint32 = 0x80000000
	lowerMask uint32 = 0x7fffffff

	temperingB uint32 = 0x9d2c5680
	temperingC uint32 = 0xefc60000

	initMult   uint32 = 1812433253
	sliceSeed  uint32 = 19650218
	sliceMult1 uint32 = 1664525
	sliceMult2 uint32 = 1566083941

	// DefaultSeed is the seed of the reference implementation's default state.
	DefaultSeed uint32 = 5489
)

// ErrInvalidSeed is returned when a seed vector cannot initialize the state.
// A scalar seed of 0 is never invalid: it selects the bootstrap.
var ErrInvalidSeed = errors.New("invalid seed")

var mag01 = [2]uint32{0, matrixA}

// Engine is a Mersenne Twister with N=624, M=397 over 32-bit words.
type Engine struct {
	state [N]uint32
	index int
}

// New returns an engine seeded with seed. A seed of 0 seeds the engine
// through the bootstrap instead.
func New(seed uint32) *Engine {
	e := &Engine{}
	e.Seed(seed)
	return e
}

// NewFromSlice returns an engine seeded from a seed vector.
func NewFromSlice(seeds []uint32) (*Engine, error) {
	e := &Engine{}
	if err := e.SeedSlice(seeds); err != nil {
		return nil, err
	}
	return e, nil
}

// Seed resets the state from a single word. Seed 0 runs the bootstrap.
func (e *Engine) Seed(seed uint32) {
	if seed == 0 {
		bootstrap(e, wallClock)
		return
	}
	e.seedLinear(seed)
}

func (e *Engine) seedLinear(seed uint32) {
	e.state[0] = seed
	for i := 1; i < N; i++ {
		prev := e.state[i-1]
		e.state[i] = initMult*(prev^(prev>>30)) + uint32(i)
	}
	e.index = N
}

// SeedSlice resets the state from a seed vector. Vectors shorter than N are
// reused cyclically.
func (e *Engine) SeedSlice(seeds []uint32) error {
	if len(seeds) == 0 {
		return fmt.Errorf("%w: empty seed vector", ErrInvalidSeed)
	}
	e.seedLinear(sliceSeed)

	i, j := 1, 0
	k := max(N, len(seeds))
	for ; k > 0; k-- {
		prev := e.state[i-1]
		e.state[i] = (e.state[i] ^ ((prev ^ (prev >> 30)) * sliceMult1)) + seeds[j] + uint32(j)
		i++
		j++
		if i >= N {
			e.state[0] = e.state[N-1]
			i = 1
		}
		if j >= len(seeds) {
			j = 0
		}
	}
	for k = N - 1; k > 0; k-- {
		prev := e.state[i-1]
		e.state[i] = (e.state[i] ^ ((prev ^ (prev >> 30)) * sliceMult2)) - uint32(i)
		i++
		if i >= N {
			e.state[0] = e.state[N-1]
			i = 1
		}
	}

	// MSB is 1; assures a non-zero initial state
	e.state[0] = upperMask
	e.index = N
	return nil
}

// twist regenerates all N words. It runs to completion before any word of
// the new block is read.
func (e *Engine) twist() {
	var y uint32
	kk := 0
	for ; kk < N-M; kk++ {
		y = (e.state[kk] & upperMask) | (e.state[kk+1] & lowerMask)
		e.state[kk] = e.state[kk+M] ^ (y >> 1) ^ mag01[y&1]
	}
	for ; kk < N-1; kk++ {
		y = (e.state[kk] & upperMask) | (e.state[kk+1] & lowerMask)
		e.state[kk] = e.state[kk+M-N] ^ (y >> 1) ^ mag01[y&1]
	}
	y = (e.state[N-1] & upperMask) | (e.state[0] & lowerMask)
	e.state[N-1] = e.state[M-1] ^ (y >> 1) ^ mag01[y&1]
	e.index = 0
}

// Uint32 returns the next 32-bit output of the stream.
func (e *Engine) Uint32() uint32 {
	if e.index >= N {
		e.twist()
	}
	y := e.state[e.index]
	e.index++

	y ^= y >> 11
	y ^= (y << 7) & temperingB
	y ^= (y << 15) & temperingC
	y ^= y >> 18
	return y
}

// Uint64 returns two consecutive outputs, the first one in the high word.
// With it *Engine satisfies math/rand/v2.Source.
func (e *Engine) Uint64() uint64 {
	h := uint64(e.Uint32())
	l := uint64(e.Uint32())
	return h<<32 | l
}

// Float64 returns a real in [0,1) with 53-bit resolution.
func (e *Engine) Float64() float64 {
	a := e.Uint32() >> 5
	b := e.Uint32() >> 6
	return (float64(a)*67108864.0 + float64(b)) * (1.0 / 9007199254740992.0)
}

// Skip discards the next n outputs.
func (e *Engine) Skip(n int) {
	for range n {
		e.Uint32()
	}
}
