package simulator

import "math"

// ErlangCWait is the mean time in queue of an M/M/c system with arrival rate
// lambda and per-server service rate mu. It returns +Inf for an unstable
// system.
func ErlangCWait(lambda, mu float64, c int) float64 {
	a := lambda / mu
	rho := a / float64(c)
	if rho >= 1 {
		return math.Inf(1)
	}

	// sum_{k<c} a^k/k!, built incrementally
	term, sum := 1.0, 0.0
	for k := 0; k < c; k++ {
		sum += term
		term *= a / float64(k+1)
	}
	// term is now a^c/c!
	tail := term / (1 - rho)
	pWait := tail / (sum + tail)
	return pWait / (float64(c)*mu - lambda)
}
