package mt

import (
	"sync/atomic"
	"time"
)

const (
	bootstrapSkipMod = 1000
	bootstrapWords   = 4
)

// bootstrapNonce separates bootstraps that read the same clock value. It is
// the only process-wide state of the package; engines themselves share
// nothing, and explicit seeds never touch it.
var bootstrapNonce atomic.Uint32

// clockFunc returns the raw clock reading used as first-stage entropy.
type clockFunc func() int64

func wallClock() int64 {
	return time.Now().UnixNano()
}

// clockSeed folds a clock reading into a non-zero 32-bit seed.
func clockSeed(clock clockFunc) uint32 {
	ns := uint64(clock())
	s := uint32(ns) ^ uint32(ns>>32)
	s ^= bootstrapNonce.Add(1) * 0x9e3779b9
	if s == 0 {
		s = DefaultSeed
	}
	return s
}

// bootstrap seeds target from two throw-away engines:
// A is seeded from the clock, B from A's first output, and B supplies
// a four-word seed vector and a skip count for target.
func bootstrap(target *Engine, clock clockFunc) {
	bootstrapFrom(target, clockSeed(clock))
}

func bootstrapFrom(target *Engine, firstSeed uint32) {
	var first, second Engine
	first.seedLinear(firstSeed)

	secondSeed := first.Uint32()
	if secondSeed == 0 {
		secondSeed = DefaultSeed
	}
	second.seedLinear(secondSeed)

	skip := int(second.Uint32() % bootstrapSkipMod)
	vec := make([]uint32, bootstrapWords)
	for i := range vec {
		vec[i] = second.Uint32()
	}

	// vec is never empty
	_ = target.SeedSlice(vec)
	target.Skip(skip)
}
