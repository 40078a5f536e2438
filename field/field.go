// Package field implements arithmetic in a prime field with a runtime
// modulus. All operations reduce their results into [0, p).
package field

import (
	"math/bits"

	"github.com/pkg/errors"
)

// Field is a finite field defined by an odd prime modulus.
//
// The zero value is not usable; construct with New. New does not perform
// primality testing, it is the caller's responsibility to supply an odd
// prime. If p is not prime, Inv fails for non-unit elements.
type Field struct {
	p uint64
}

// New returns the field of order p. It fails unless p is odd and p >= 3.
func New(p uint64) (Field, error) {
	if p < 3 || p%2 == 0 {
		return Field{}, errors.Errorf("field: modulus %d is not an odd prime >= 3", p)
	}
	return Field{p: p}, nil
}

// Modulus returns the modulus of the field.
func (f Field) Modulus() uint64 {
	return f.p
}

// Add returns a + b mod p.
func (f Field) Add(a, b uint64) uint64 {
	a %= f.p
	b %= f.p
	s := a + b
	// s < b signals wraparound past 2^64, which can only happen for very
	// large moduli; either way a single subtraction restores the range.
	if s < b || s >= f.p {
		s -= f.p
	}
	return s
}

// Sub returns a - b mod p.
func (f Field) Sub(a, b uint64) uint64 {
	a %= f.p
	b %= f.p
	if a >= b {
		return a - b
	}
	return f.p - (b - a)
}

// Mul returns a * b mod p using a 128-bit intermediate product.
func (f Field) Mul(a, b uint64) uint64 {
	hi, lo := bits.Mul64(a%f.p, b%f.p)
	_, rem := bits.Div64(hi, lo, f.p)
	return rem
}

// Pow returns a^e mod p by binary exponentiation.
func (f Field) Pow(a, e uint64) uint64 {
	a %= f.p
	result := uint64(1) % f.p
	for e > 0 {
		if e&1 == 1 {
			result = f.Mul(result, a)
		}
		a = f.Mul(a, a)
		e >>= 1
	}
	return result
}

// Inv returns the multiplicative inverse of a via Fermat's little theorem,
// a^(p-2) mod p. It fails if a is zero modulo p.
func (f Field) Inv(a uint64) (uint64, error) {
	a %= f.p
	if a == 0 {
		return 0, errors.New("field: cannot invert zero")
	}
	return f.Pow(a, f.p-2), nil
}

// Div returns a / b mod p. It fails if b is zero modulo p.
func (f Field) Div(a, b uint64) (uint64, error) {
	inv, err := f.Inv(b)
	if err != nil {
		return 0, err
	}
	return f.Mul(a, inv), nil
}
