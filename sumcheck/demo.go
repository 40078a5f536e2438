package sumcheck

import (
	"github.com/powerhouse-labs/powerhouse/field"
	"github.com/powerhouse-labs/powerhouse/fiatshamir"
)

// Domain tags for the two-round demo protocol. The first-round tag covers
// the transcript before g2 is committed; the second covers the full claim.
const (
	demoDomainR1 = "power_house:v1:sumcheck:r1"
	demoDomainR2 = "power_house:v1:sumcheck:r2"
)

// FDemo evaluates the demonstration polynomial
// f(x1, x2) = x1 + x2 + 2*x1*x2 (mod p). The inputs may be any integers;
// they are reduced before evaluation.
func FDemo(f field.Field, x1, x2 uint64) uint64 {
	p := f.Modulus()
	t1 := f.Add(x1%p, x2%p)
	t2 := f.Mul(2%p, f.Mul(x1%p, x2%p))
	return f.Add(t1, t2)
}

// TrueSumDemo computes the sum of the demo polynomial over {0,1}^2.
func TrueSumDemo(f field.Field) uint64 {
	var s uint64
	for _, x1 := range []uint64{0, 1} {
		for _, x2 := range []uint64{0, 1} {
			s = f.Add(s, FDemo(f, x1, x2))
		}
	}
	return s
}

// SumClaim is a two-round, fixed-polynomial sum-check claim over the demo
// polynomial: the claimed sum, the linear coefficients of the two round
// polynomials g1 and g2, and the number K of final spot checks. The
// soundness error decreases as 2^-K.
type SumClaim struct {
	P          uint64 `json:"p"`
	ClaimedSum uint64 `json:"claimed_sum"`
	G1A        uint64 `json:"g1_a"`
	G1B        uint64 `json:"g1_b"`
	G2A        uint64 `json:"g2_a"`
	G2B        uint64 `json:"g2_b"`
	K          int    `json:"k"`
}

// ProveDemo constructs an honest claim for the demo polynomial. The first
// challenge is derived from the transcript before g2 is committed, with
// the g2 slots zeroed, so prover and verifier agree on it byte for byte.
func ProveDemo(f field.Field, k int) *SumClaim {
	p := f.Modulus()
	s := TrueSumDemo(f)

	g10 := f.Add(FDemo(f, 0, 0), FDemo(f, 0, 1))
	g11 := f.Add(FDemo(f, 1, 0), FDemo(f, 1, 1))
	g1a := f.Sub(g11, g10)
	g1b := g10

	r1 := demoR1(f, p, s, g1a, g1b, k)

	g20 := FDemo(f, r1, 0)
	g21 := FDemo(f, r1, 1)

	return &SumClaim{
		P:          p,
		ClaimedSum: s,
		G1A:        g1a,
		G1B:        g1b,
		G2A:        f.Sub(g21, g20),
		G2B:        g20,
		K:          k,
	}
}

// Verify checks the claim without interaction: consistency of g1(0)+g1(1)
// with the claimed sum, of g2(0)+g2(1) with g1(r1), and K spot checks of
// g2(r2) against a direct evaluation of the polynomial at (r1, r2).
func (c *SumClaim) Verify() bool {
	f, err := field.New(c.P)
	if err != nil {
		return false
	}

	g10 := c.G1B
	g11 := f.Add(c.G1A, c.G1B)
	if f.Add(g10, g11) != c.ClaimedSum {
		return false
	}

	r1 := demoR1(f, c.P, c.ClaimedSum, c.G1A, c.G1B, c.K)
	s1 := f.Add(f.Mul(c.G1A, r1), c.G1B)

	g20 := c.G2B
	g21 := f.Add(c.G2A, c.G2B)
	if f.Add(g20, g21) != s1 {
		return false
	}

	transcript := []uint64{c.P, c.ClaimedSum, c.G1A, c.G1B, c.G2A, c.G2B, uint64(c.K)}
	for _, r2 := range fiatshamir.DeriveManyModP(c.P, []byte(demoDomainR2), transcript, c.K, fiatshamir.ModeReduce) {
		left := f.Add(f.Mul(c.G2A, r2), c.G2B)
		if left != FDemo(f, r1, r2) {
			return false
		}
	}
	return true
}

func demoR1(f field.Field, p, s, g1a, g1b uint64, k int) uint64 {
	base := []uint64{p, s, g1a, g1b, 0, 0, uint64(k)}
	return fiatshamir.DeriveManyModP(p, []byte(demoDomainR1), base, 1, fiatshamir.ModeReduce)[0]
}
