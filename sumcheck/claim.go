package sumcheck

import (
	"github.com/powerhouse-labs/powerhouse/field"
	"github.com/powerhouse-labs/powerhouse/fiatshamir"
	"github.com/powerhouse-labs/powerhouse/poly"
)

// transcriptDomain separates sum-check challenge derivation from every
// other use of the transcript expander.
const transcriptDomain = "power_house:v2:sumcheck"

// RoundPolynomial holds the coefficients of the linear round polynomial
// g(z) = A*z + B committed by the prover in one round.
type RoundPolynomial struct {
	A uint64 `json:"a"`
	B uint64 `json:"b"`
}

// GeneralSumClaim is the prover's commitment for an arbitrary multilinear
// polynomial: the modulus, the claimed hypercube sum, and one linear round
// polynomial per variable. The claim alone suffices for verification, since
// the challenges are re-derivable from the transcript.
type GeneralSumClaim struct {
	P          uint64            `json:"p"`
	NumVars    int               `json:"num_vars"`
	ClaimedSum uint64            `json:"claimed_sum"`
	Rounds     []RoundPolynomial `json:"rounds"`
}

// GeneralSumProof is a claim together with the transcript values the prover
// observed: the per-round challenges, the running claimed sum entering each
// round, and the final folded evaluation. Challenges, RoundSums and Rounds
// all have exactly NumVars entries.
type GeneralSumProof struct {
	Claim           GeneralSumClaim `json:"claim"`
	Challenges      []uint64        `json:"challenges"`
	RoundSums       []uint64        `json:"round_sums"`
	FinalEvaluation uint64          `json:"final_evaluation"`
}

// newTranscript seeds a sum-check transcript with the claim's public
// parameters, binding the challenge sequence to (p, num_vars, claimed_sum).
func newTranscript(p uint64, numVars int, claimedSum uint64, mode fiatshamir.ChallengeMode) *fiatshamir.Transcript {
	tr := fiatshamir.NewTranscriptWithMode(transcriptDomain, mode)
	tr.Append(p)
	tr.Append(uint64(numVars))
	tr.Append(claimedSum)
	return tr
}

// Verify checks the claim against the polynomial it allegedly describes,
// re-deriving every challenge from the published round coefficients. It
// returns false on any mismatch, including a modulus or dimension mismatch.
func (c *GeneralSumClaim) Verify(m *poly.MultilinearPolynomial, f field.Field) bool {
	return c.VerifyWithConfig(m, f, DefaultConfig())
}

// VerifyWithConfig is Verify with an explicit challenge mode.
func (c *GeneralSumClaim) VerifyWithConfig(m *poly.MultilinearPolynomial, f field.Field, cfg Config) bool {
	trace, ok := c.replay(f, cfg)
	if !ok || m.NumVars() != c.NumVars {
		return false
	}
	final, err := m.Evaluate(f, trace.Challenges)
	if err != nil {
		return false
	}
	return final == trace.FinalEvaluation
}

// replay re-derives the challenge sequence and running sums from the round
// coefficients alone, checking the per-round consistency g(0)+g(1) == sum.
// It is the shared core of claim, proof and streaming verification.
func (c *GeneralSumClaim) replay(f field.Field, cfg Config) (*VerifyTrace, bool) {
	if c.P != f.Modulus() || c.NumVars < 0 || len(c.Rounds) != c.NumVars {
		return nil, false
	}

	tr := newTranscript(c.P, c.NumVars, c.ClaimedSum, cfg.Mode)
	trace := &VerifyTrace{
		Challenges: make([]uint64, 0, c.NumVars),
		RoundSums:  make([]uint64, 0, c.NumVars),
	}

	running := c.ClaimedSum % c.P
	for _, round := range c.Rounds {
		a := round.A % c.P
		b := round.B % c.P
		// g(0) + g(1) = 2b + a must match the running claimed sum.
		if f.Add(f.Add(b, b), a) != running {
			return nil, false
		}
		trace.RoundSums = append(trace.RoundSums, running)

		tr.Append(a)
		tr.Append(b)
		r := tr.Challenge(f)
		trace.Challenges = append(trace.Challenges, r)

		running = f.Add(f.Mul(a, r), b)
	}
	trace.FinalEvaluation = running
	return trace, true
}

// VerifyTrace is the verifier's reconstruction of the prover's transcript:
// the re-derived challenges, running sums, and terminal evaluation.
type VerifyTrace struct {
	Challenges      []uint64
	RoundSums       []uint64
	FinalEvaluation uint64
}

// matches reports whether the recorded proof transcript agrees with the
// re-derived trace in every position.
func (t *VerifyTrace) matches(proof *GeneralSumProof) bool {
	if len(proof.Challenges) != len(t.Challenges) || len(proof.RoundSums) != len(t.RoundSums) {
		return false
	}
	for i, r := range t.Challenges {
		if proof.Challenges[i] != r {
			return false
		}
	}
	for i, s := range t.RoundSums {
		if proof.RoundSums[i] != s {
			return false
		}
	}
	return proof.FinalEvaluation == t.FinalEvaluation
}
