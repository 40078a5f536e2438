// Package sumcheck implements a non-interactive sum-check protocol over
// multilinear polynomials: a prover commits, per variable, to a linear
// round polynomial and derives the round challenge from the transcript,
// folding the evaluation table until a single value remains. Verification
// replays the transcript from the published round coefficients alone.
package sumcheck

import (
	"runtime"

	"github.com/powerhouse-labs/powerhouse/fiatshamir"
)

// defaultParallelThreshold is the layer size above which the prover fans
// out the pair-sum and fold steps across workers. Below it the fixed cost
// of spawning goroutines dominates the arithmetic.
const defaultParallelThreshold = 1 << 12

// Config tunes a proving or verification run. The zero value is not valid;
// use DefaultConfig.
type Config struct {
	// Mode selects how transcript challenges are mapped into the field.
	Mode fiatshamir.ChallengeMode
	// MaxWorkers caps the goroutines used for a parallel round. 1 forces
	// sequential execution.
	MaxWorkers int
	// ParallelThreshold is the minimum layer size for parallel rounds.
	ParallelThreshold int
}

// DefaultConfig returns the configuration used by the plain Prove and
// Verify entry points.
func DefaultConfig() Config {
	return Config{
		Mode:              fiatshamir.ModeReduce,
		MaxWorkers:        runtime.NumCPU(),
		ParallelThreshold: defaultParallelThreshold,
	}
}

// parallel reports whether a layer of the given size should be processed
// with worker fan-out.
func (c Config) parallel(layerSize int) bool {
	return c.MaxWorkers > 1 && layerSize >= c.ParallelThreshold
}
