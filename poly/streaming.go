package poly

import (
	"github.com/pkg/errors"
)

// Evaluator yields the value of a multilinear polynomial at a Boolean
// hypercube index. Implementations must be pure: the same index always
// yields the same value, and concurrent calls must be safe, since the
// sum-check engine revisits indices across rounds.
type Evaluator interface {
	EvaluateIndex(idx int) uint64
}

// EvaluatorFunc adapts an ordinary function to the Evaluator interface.
type EvaluatorFunc func(idx int) uint64

// EvaluateIndex calls fn(idx).
func (fn EvaluatorFunc) EvaluateIndex(idx int) uint64 {
	return fn(idx)
}

// StreamingPolynomial is a lazy representation of a multilinear polynomial
// over a Boolean hypercube: values are computed on demand through an
// Evaluator instead of a materialized table. It must agree with any paired
// dense polynomial on every index.
type StreamingPolynomial struct {
	numVars   int
	modulus   uint64
	evaluator Evaluator
}

// NewStreaming creates a streaming polynomial from an evaluator.
func NewStreaming(numVars int, modulus uint64, evaluator Evaluator) (*StreamingPolynomial, error) {
	if numVars < 0 || numVars > maxVars {
		return nil, errors.Errorf("poly: num_vars %d out of range [0, %d]", numVars, maxVars)
	}
	if evaluator == nil {
		return nil, errors.New("poly: nil evaluator")
	}
	return &StreamingPolynomial{numVars: numVars, modulus: modulus, evaluator: evaluator}, nil
}

// NumVars returns the number of variables.
func (s *StreamingPolynomial) NumVars() int {
	return s.numVars
}

// Modulus returns the field modulus the evaluator works over.
func (s *StreamingPolynomial) Modulus() uint64 {
	return s.modulus
}

// EvaluateIndex evaluates the polynomial at the Boolean assignment encoded
// by idx, reduced modulo the modulus.
func (s *StreamingPolynomial) EvaluateIndex(idx int) uint64 {
	return s.evaluator.EvaluateIndex(idx) % s.modulus
}
