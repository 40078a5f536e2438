// Package poly provides dense and streaming representations of multilinear
// polynomials over prime fields. The evaluations of a polynomial on the
// Boolean hypercube are stored (or computed) explicitly, enabling efficient
// summation, Boolean evaluation and interpolation at arbitrary field points.
package poly

import (
	"github.com/pkg/errors"

	"github.com/powerhouse-labs/powerhouse/field"
)

// maxVars bounds the hypercube dimension so that 1<<numVars fits an int.
const maxVars = 62

// MultilinearPolynomial represents an n-variate multilinear polynomial via
// its values on {0,1}^n, in the index order documented on Table.
type MultilinearPolynomial struct {
	numVars int
	evals   []uint64
}

// FromEvaluations creates a polynomial from its Boolean-hypercube
// evaluations. It fails unless the table length is exactly 2^numVars.
func FromEvaluations(numVars int, evaluations []uint64) (*MultilinearPolynomial, error) {
	if numVars < 0 || numVars > maxVars {
		return nil, errors.Errorf("poly: num_vars %d out of range [0, %d]", numVars, maxVars)
	}
	if expected := 1 << numVars; len(evaluations) != expected {
		return nil, errors.Errorf("poly: expected 2^%d = %d evaluations, got %d", numVars, expected, len(evaluations))
	}
	return &MultilinearPolynomial{numVars: numVars, evals: evaluations}, nil
}

// NumVars returns the number of variables.
func (m *MultilinearPolynomial) NumVars() int {
	return m.numVars
}

// Evaluations returns the raw evaluation table.
func (m *MultilinearPolynomial) Evaluations() []uint64 {
	return m.evals
}

// EvaluationsModP reduces the evaluation table modulo the field and returns
// an owned copy, ready to be folded.
func (m *MultilinearPolynomial) EvaluationsModP(f field.Field) Table {
	t := make(Table, len(m.evals))
	for i, v := range m.evals {
		t[i] = v % f.Modulus()
	}
	return t
}

// SumOverHypercube computes the sum of all evaluations modulo the field.
func (m *MultilinearPolynomial) SumOverHypercube(f field.Field) uint64 {
	var acc uint64
	for _, v := range m.evals {
		acc = f.Add(acc, v)
	}
	return acc
}

// EvaluateBoolean evaluates the polynomial at a Boolean point. The
// assignment must contain exactly numVars entries, each of which must be
// 0 or 1 modulo p.
func (m *MultilinearPolynomial) EvaluateBoolean(f field.Field, assignment []uint64) (uint64, error) {
	if len(assignment) != m.numVars {
		return 0, errors.Errorf("poly: boolean assignment has %d coordinates, want %d", len(assignment), m.numVars)
	}
	idx := 0
	for i, bit := range assignment {
		switch bit % f.Modulus() {
		case 0:
		case 1:
			idx |= 1 << i
		default:
			return 0, errors.Errorf("poly: boolean assignment coordinate %d is not 0 or 1 mod p", i)
		}
	}
	return m.evals[idx] % f.Modulus(), nil
}

// Evaluate interpolates the polynomial at an arbitrary field point by
// folding the evaluation table one coordinate at a time, the same pairing
// the sum-check prover uses. The point must contain exactly numVars
// coordinates.
func (m *MultilinearPolynomial) Evaluate(f field.Field, point []uint64) (uint64, error) {
	if len(point) != m.numVars {
		return 0, errors.Errorf("poly: evaluation point has %d coordinates, want %d", len(point), m.numVars)
	}
	return m.EvaluationsModP(f).Evaluate(f, point), nil
}
