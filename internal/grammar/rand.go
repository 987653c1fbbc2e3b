package grammar

import "math/rand/v2"

// runtimeSource draws from the top-level math/rand/v2 generator, which is
// safe for concurrent use.
type runtimeSource struct{}

func (runtimeSource) Uint64() uint64 { return rand.Uint64() }

var defaultRand = rand.New(runtimeSource{})

// DefaultRand returns the process-wide random source used when a caller
// passes a nil *rand.Rand to an engine.
//
// Thread-safety: the returned *rand.Rand carries no state of its own and is
// safe for concurrent use by any number of runs. Runs using it are not
// reproducible; pass a seeded source for that.
func DefaultRand() *rand.Rand {
	return defaultRand
}

// NewRand returns a private, seeded source suitable for a single run.
// The returned value is not safe for concurrent use.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
