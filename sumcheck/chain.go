package sumcheck

import (
	"github.com/pkg/errors"

	"github.com/powerhouse-labs/powerhouse/field"
	"github.com/powerhouse-labs/powerhouse/poly"
)

// ChainLink binds one proof into a chain. ParentFinal carries the previous
// link's final evaluation, nil for the first link.
type ChainLink struct {
	ParentFinal *uint64         `json:"parent_final,omitempty"`
	Proof       GeneralSumProof `json:"proof"`
}

// ChainedSumProof certifies a sequence of derived claims: every
// polynomial's total sum must equal the previous proof's final evaluation,
// so intermediate polynomials never need to be re-disclosed to assert the
// linkage.
type ChainedSumProof struct {
	Links []ChainLink `json:"links"`
}

// ProveChain proves each polynomial in order. It fails, rather than
// producing a silently broken chain, when polynomial i's hypercube sum
// differs from polynomial i-1's final evaluation.
func ProveChain(polynomials []*poly.MultilinearPolynomial, f field.Field) (*ChainedSumProof, error) {
	return ProveChainWithConfig(polynomials, f, DefaultConfig())
}

// ProveChainWithConfig is ProveChain with an explicit configuration.
func ProveChainWithConfig(polynomials []*poly.MultilinearPolynomial, f field.Field, cfg Config) (*ChainedSumProof, error) {
	chain := &ChainedSumProof{Links: make([]ChainLink, 0, len(polynomials))}

	var parentFinal *uint64
	for i, m := range polynomials {
		if parentFinal != nil {
			if sum := m.SumOverHypercube(f); sum != *parentFinal {
				return nil, errors.Errorf("sumcheck: chain link %d sum %d does not match parent final evaluation %d", i, sum, *parentFinal)
			}
		}

		proof, _ := ProveWithConfig(m, f, cfg)
		chain.Links = append(chain.Links, ChainLink{ParentFinal: parentFinal, Proof: *proof})

		final := proof.FinalEvaluation
		parentFinal = &final
	}
	return chain, nil
}

// Verify replays every link's sum-check against its polynomial and checks
// the parent-final linkage explicitly. A mismatched polynomial count, an
// unexpected parent value on the first link, or any broken link fails the
// chain as a whole.
func (c *ChainedSumProof) Verify(polynomials []*poly.MultilinearPolynomial, f field.Field) bool {
	return c.VerifyWithConfig(polynomials, f, DefaultConfig())
}

// VerifyWithConfig is Verify with an explicit configuration.
func (c *ChainedSumProof) VerifyWithConfig(polynomials []*poly.MultilinearPolynomial, f field.Field, cfg Config) bool {
	_, ok := c.VerifyWithTracesConfig(polynomials, f, cfg)
	return ok
}

// VerifyWithTraces verifies the chain and, on success, returns one
// reconstructed transcript per link, in order.
func (c *ChainedSumProof) VerifyWithTraces(polynomials []*poly.MultilinearPolynomial, f field.Field) ([]*VerifyTrace, bool) {
	return c.VerifyWithTracesConfig(polynomials, f, DefaultConfig())
}

// VerifyWithTracesConfig is VerifyWithTraces with an explicit
// configuration.
func (c *ChainedSumProof) VerifyWithTracesConfig(polynomials []*poly.MultilinearPolynomial, f field.Field, cfg Config) ([]*VerifyTrace, bool) {
	if len(c.Links) == 0 || len(c.Links) != len(polynomials) {
		return nil, false
	}

	traces := make([]*VerifyTrace, 0, len(c.Links))
	var parentFinal *uint64
	for i, link := range c.Links {
		if (parentFinal == nil) != (link.ParentFinal == nil) {
			return nil, false
		}
		if parentFinal != nil {
			if *link.ParentFinal != *parentFinal {
				return nil, false
			}
			if link.Proof.Claim.ClaimedSum%f.Modulus() != *parentFinal {
				return nil, false
			}
		}

		trace, ok := VerifyWithTraceConfig(&link.Proof, polynomials[i], f, cfg)
		if !ok {
			return nil, false
		}
		traces = append(traces, trace)

		final := trace.FinalEvaluation
		parentFinal = &final
	}
	return traces, true
}
