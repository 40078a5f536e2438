package sumcheck

import (
	"github.com/powerhouse-labs/powerhouse/field"
	"github.com/powerhouse-labs/powerhouse/poly"
)

// Verify checks a proof against the dense polynomial it claims to describe.
// It replays the transcript from the published round coefficients, requires
// the recorded challenges, round sums and final evaluation to match the
// replay exactly, and recomputes the polynomial's value at the challenge
// point as the terminal check. All failures return false; nothing panics on
// adversarial input.
func Verify(proof *GeneralSumProof, m *poly.MultilinearPolynomial, f field.Field) bool {
	return VerifyWithConfig(proof, m, f, DefaultConfig())
}

// VerifyWithConfig is Verify with an explicit challenge mode.
func VerifyWithConfig(proof *GeneralSumProof, m *poly.MultilinearPolynomial, f field.Field, cfg Config) bool {
	trace, ok := VerifyWithTraceConfig(proof, m, f, cfg)
	return ok && trace != nil
}

// VerifyWithTrace verifies the proof and, on success, returns the
// verifier's reconstructed transcript. Ledger submission records this trace
// rather than trusting the prover's own copy.
func VerifyWithTrace(proof *GeneralSumProof, m *poly.MultilinearPolynomial, f field.Field) (*VerifyTrace, bool) {
	return VerifyWithTraceConfig(proof, m, f, DefaultConfig())
}

// VerifyWithTraceConfig is VerifyWithTrace with an explicit challenge mode.
func VerifyWithTraceConfig(proof *GeneralSumProof, m *poly.MultilinearPolynomial, f field.Field, cfg Config) (*VerifyTrace, bool) {
	if proof == nil || m == nil {
		return nil, false
	}
	trace, ok := proof.Claim.replay(f, cfg)
	if !ok || !trace.matches(proof) || m.NumVars() != proof.Claim.NumVars {
		return nil, false
	}
	final, err := m.Evaluate(f, trace.Challenges)
	if err != nil || final != trace.FinalEvaluation {
		return nil, false
	}
	return trace, true
}
