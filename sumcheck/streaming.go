package sumcheck

import (
	"time"

	"github.com/pkg/errors"

	"github.com/powerhouse-labs/powerhouse/common"
	"github.com/powerhouse-labs/powerhouse/field"
	"github.com/powerhouse-labs/powerhouse/poly"
)

// ProveStreaming runs the sum-check prover without materializing the
// evaluation table: every folded layer value is recomputed on demand from
// the polynomial's evaluator. For identical evaluation data the proof is
// bit-identical to the dense prover's, since both compute the same exact
// field values.
func ProveStreaming(sp *poly.StreamingPolynomial, f field.Field) (*GeneralSumProof, error) {
	proof, _, err := ProveStreamingWithConfig(sp, f, DefaultConfig())
	return proof, err
}

// ProveStreamingWithStats is ProveStreaming, additionally reporting
// per-round wall-clock timings.
func ProveStreamingWithStats(sp *poly.StreamingPolynomial, f field.Field) (*GeneralSumProof, *ProofStats, error) {
	return ProveStreamingWithConfig(sp, f, DefaultConfig())
}

// ProveStreamingWithConfig is the configurable streaming prover. It fails
// if the polynomial's modulus does not match the field.
func ProveStreamingWithConfig(sp *poly.StreamingPolynomial, f field.Field, cfg Config) (*GeneralSumProof, *ProofStats, error) {
	if sp.Modulus() != f.Modulus() {
		return nil, nil, errors.Errorf("sumcheck: streaming polynomial modulus %d does not match field modulus %d", sp.Modulus(), f.Modulus())
	}

	numVars := sp.NumVars()
	claimedSum := streamingSum(sp, f, cfg)

	proof := &GeneralSumProof{
		Claim: GeneralSumClaim{
			P:          f.Modulus(),
			NumVars:    numVars,
			ClaimedSum: claimedSum,
			Rounds:     make([]RoundPolynomial, 0, numVars),
		},
		Challenges: make([]uint64, 0, numVars),
		RoundSums:  make([]uint64, 0, numVars),
	}
	stats := newProofStats(numVars)
	tr := newTranscript(proof.Claim.P, numVars, claimedSum, cfg.Mode)

	running := claimedSum
	start := time.Now()
	for round := 0; round < numVars; round++ {
		roundStart := time.Now()

		g0, g1 := streamingPairSums(sp, f, proof.Challenges, cfg)
		a := f.Sub(g1, g0)
		b := g0

		proof.Claim.Rounds = append(proof.Claim.Rounds, RoundPolynomial{A: a, B: b})
		proof.RoundSums = append(proof.RoundSums, running)

		tr.Append(a)
		tr.Append(b)
		r := tr.Challenge(f)
		proof.Challenges = append(proof.Challenges, r)

		running = f.Add(f.Mul(a, r), b)

		stats.RoundDurations = append(stats.RoundDurations, time.Since(roundStart))
	}
	stats.TotalDuration = time.Since(start)

	proof.FinalEvaluation = foldedValue(sp, f, proof.Challenges, 0)
	return proof, stats, nil
}

// VerifyStreaming verifies a proof against a streaming polynomial. The
// terminal check repeats the prover's fold instead of evaluating a dense
// table.
func VerifyStreaming(proof *GeneralSumProof, sp *poly.StreamingPolynomial, f field.Field) bool {
	return VerifyStreamingWithConfig(proof, sp, f, DefaultConfig())
}

// VerifyStreamingWithConfig is VerifyStreaming with an explicit challenge
// mode.
func VerifyStreamingWithConfig(proof *GeneralSumProof, sp *poly.StreamingPolynomial, f field.Field, cfg Config) bool {
	_, ok := VerifyStreamingWithTraceConfig(proof, sp, f, cfg)
	return ok
}

// VerifyStreamingWithTrace verifies the proof and, on success, returns the
// verifier's reconstructed transcript.
func VerifyStreamingWithTrace(proof *GeneralSumProof, sp *poly.StreamingPolynomial, f field.Field) (*VerifyTrace, bool) {
	return VerifyStreamingWithTraceConfig(proof, sp, f, DefaultConfig())
}

// VerifyStreamingWithTraceConfig is VerifyStreamingWithTrace with an
// explicit challenge mode.
func VerifyStreamingWithTraceConfig(proof *GeneralSumProof, sp *poly.StreamingPolynomial, f field.Field, cfg Config) (*VerifyTrace, bool) {
	if proof == nil || sp == nil || sp.Modulus() != f.Modulus() || sp.NumVars() != proof.Claim.NumVars {
		return nil, false
	}
	trace, ok := proof.Claim.replay(f, cfg)
	if !ok || !trace.matches(proof) {
		return nil, false
	}
	if foldedValue(sp, f, trace.Challenges, 0) != trace.FinalEvaluation {
		return nil, false
	}
	return trace, true
}

// foldedValue computes entry j of the layer obtained by folding the
// polynomial with the given challenges, without any table: entry j covers
// the original indices j*2^k + b for b < 2^k, each weighted by the product
// over bits of r_i (bit set) or 1-r_i (bit clear).
func foldedValue(sp *poly.StreamingPolynomial, f field.Field, challenges []uint64, j int) uint64 {
	k := len(challenges)
	var acc uint64
	for b := 0; b < 1<<k; b++ {
		w := uint64(1) % f.Modulus()
		for i, r := range challenges {
			if (b>>i)&1 == 1 {
				w = f.Mul(w, r)
			} else {
				w = f.Mul(w, f.Sub(1%f.Modulus(), r))
			}
		}
		acc = f.Add(acc, f.Mul(w, sp.EvaluateIndex(j<<k|b)))
	}
	return acc
}

// streamingSum computes the full hypercube sum of the polynomial.
func streamingSum(sp *poly.StreamingPolynomial, f field.Field, cfg Config) uint64 {
	size := 1 << sp.NumVars()
	if !cfg.parallel(size) {
		var acc uint64
		for idx := 0; idx < size; idx++ {
			acc = f.Add(acc, sp.EvaluateIndex(idx))
		}
		return acc
	}

	partials := make(chan uint64, cfg.MaxWorkers)
	nbJobs := common.ParallelizeNonBlocking(size, func(start, stop int) {
		var acc uint64
		for idx := start; idx < stop; idx++ {
			acc = f.Add(acc, sp.EvaluateIndex(idx))
		}
		partials <- acc
	}, cfg.MaxWorkers)

	var acc uint64
	for j := 0; j < nbJobs; j++ {
		acc = f.Add(acc, <-partials)
	}
	return acc
}

// streamingPairSums computes the round's pair sums over the current folded
// layer, fanning out across disjoint folded-index ranges when the layer is
// large enough.
func streamingPairSums(sp *poly.StreamingPolynomial, f field.Field, challenges []uint64, cfg Config) (g0, g1 uint64) {
	layerSize := 1 << (sp.NumVars() - len(challenges))
	mid := layerSize / 2

	sumRange := func(start, stop int) (p0, p1 uint64) {
		for j := start; j < stop; j++ {
			p0 = f.Add(p0, foldedValue(sp, f, challenges, 2*j))
			p1 = f.Add(p1, foldedValue(sp, f, challenges, 2*j+1))
		}
		return p0, p1
	}

	if !cfg.parallel(layerSize) {
		return sumRange(0, mid)
	}

	partials := make(chan [2]uint64, cfg.MaxWorkers)
	nbJobs := common.ParallelizeNonBlocking(mid, func(start, stop int) {
		p0, p1 := sumRange(start, stop)
		partials <- [2]uint64{p0, p1}
	}, cfg.MaxWorkers)

	for j := 0; j < nbJobs; j++ {
		p := <-partials
		g0 = f.Add(g0, p[0])
		g1 = f.Add(g1, p[1])
	}
	return g0, g1
}
