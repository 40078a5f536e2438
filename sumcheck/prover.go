package sumcheck

import (
	"time"

	"github.com/powerhouse-labs/powerhouse/common"
	"github.com/powerhouse-labs/powerhouse/field"
	"github.com/powerhouse-labs/powerhouse/poly"
)

// Prove runs the sum-check prover over a dense polynomial with the default
// configuration.
func Prove(m *poly.MultilinearPolynomial, f field.Field) *GeneralSumProof {
	proof, _ := ProveWithConfig(m, f, DefaultConfig())
	return proof
}

// ProveWithStats is Prove, additionally reporting per-round wall-clock
// timings.
func ProveWithStats(m *poly.MultilinearPolynomial, f field.Field) (*GeneralSumProof, *ProofStats) {
	return ProveWithConfig(m, f, DefaultConfig())
}

// ProveWithConfig runs the sum-check prover over a dense polynomial. The
// returned proof is a deterministic function of the polynomial, the field
// and the challenge mode; worker counts never change it.
func ProveWithConfig(m *poly.MultilinearPolynomial, f field.Field, cfg Config) (*GeneralSumProof, *ProofStats) {
	layer := m.EvaluationsModP(f)
	return proveLayers(layer, m.NumVars(), f, cfg)
}

// proveLayers executes the round loop on an owned evaluation table, halving
// it once per variable.
func proveLayers(layer poly.Table, numVars int, f field.Field, cfg Config) (*GeneralSumProof, *ProofStats) {
	proof := &GeneralSumProof{
		Claim: GeneralSumClaim{
			P:          f.Modulus(),
			NumVars:    numVars,
			ClaimedSum: layer.Sum(f),
			Rounds:     make([]RoundPolynomial, 0, numVars),
		},
		Challenges: make([]uint64, 0, numVars),
		RoundSums:  make([]uint64, 0, numVars),
	}
	stats := newProofStats(numVars)
	tr := newTranscript(proof.Claim.P, numVars, proof.Claim.ClaimedSum, cfg.Mode)

	running := proof.Claim.ClaimedSum
	start := time.Now()
	for round := 0; round < numVars; round++ {
		roundStart := time.Now()

		g0, g1 := pairSums(layer, f, cfg)
		a := f.Sub(g1, g0)
		b := g0

		proof.Claim.Rounds = append(proof.Claim.Rounds, RoundPolynomial{A: a, B: b})
		proof.RoundSums = append(proof.RoundSums, running)

		tr.Append(a)
		tr.Append(b)
		r := tr.Challenge(f)
		proof.Challenges = append(proof.Challenges, r)

		layer = fold(layer, f, r, cfg)
		running = f.Add(f.Mul(a, r), b)

		stats.RoundDurations = append(stats.RoundDurations, time.Since(roundStart))
	}
	stats.TotalDuration = time.Since(start)

	proof.FinalEvaluation = layer[0] % f.Modulus()
	return proof, stats
}

// pairSums computes the even- and odd-position sums of the layer's adjacent
// pairs, fanning out across workers above the configured threshold. Field
// addition is associative and commutative mod p, so per-chunk partial sums
// combine to the exact sequential result.
func pairSums(layer poly.Table, f field.Field, cfg Config) (g0, g1 uint64) {
	mid := len(layer) / 2
	if !cfg.parallel(len(layer)) {
		return layer.PairSums(f, 0, mid)
	}

	partials := make(chan [2]uint64, cfg.MaxWorkers)
	nbJobs := common.ParallelizeNonBlocking(mid, func(start, stop int) {
		p0, p1 := layer.PairSums(f, start, stop)
		partials <- [2]uint64{p0, p1}
	}, cfg.MaxWorkers)

	for j := 0; j < nbJobs; j++ {
		p := <-partials
		g0 = f.Add(g0, p[0])
		g1 = f.Add(g1, p[1])
	}
	return g0, g1
}

// fold collapses the layer's adjacent pairs with the round challenge. The
// result is written into a fresh table: adjacent-pair indexing makes one
// chunk's reads overlap another chunk's writes, so in-place folding is not
// an option in the parallel case.
func fold(layer poly.Table, f field.Field, r uint64, cfg Config) poly.Table {
	mid := len(layer) / 2
	if !cfg.parallel(len(layer)) {
		return layer.Fold(f, r)
	}

	next := make(poly.Table, mid)
	common.Parallelize(mid, func(start, stop int) {
		layer.FoldInto(next, f, r, start, stop)
	}, cfg.MaxWorkers)
	return next
}
