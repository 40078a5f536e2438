// Package fiatshamir derives deterministic verifier challenges from a
// recorded protocol transcript, replacing an interactive verifier with a
// domain-separated BLAKE2b-256 expander.
package fiatshamir

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
)

// ChallengeMode selects how expander output is mapped into [0, p).
type ChallengeMode int

const (
	// ModeReduce reduces a 64-bit expander word modulo p. This is the
	// default and the mode recorded as "mod" in ledger logs.
	ModeReduce ChallengeMode = iota
	// ModeRejection resamples until the expander word falls below the
	// largest multiple of p, removing the reduction bias.
	ModeRejection
)

// String returns the mode name used in log metadata.
func (m ChallengeMode) String() string {
	switch m {
	case ModeRejection:
		return "rejection"
	default:
		return "mod"
	}
}

// ParseChallengeMode parses a mode name as it appears in log metadata.
func ParseChallengeMode(s string) (ChallengeMode, error) {
	switch s {
	case "mod":
		return ModeReduce, nil
	case "rejection":
		return ModeRejection, nil
	}
	return ModeReduce, errors.Errorf("fiatshamir: unknown challenge mode %q", s)
}

// DeriveManyModP derives count field elements in [0, p) from the domain tag
// and the transcript word sequence. The derivation is a pure function of
// (domain tag, words, count): every output word is an independent
// BLAKE2b-256 evaluation over the length-framed input plus the output
// index, so no output reveals anything about the others.
func DeriveManyModP(p uint64, domainTag []byte, words []uint64, count int, mode ChallengeMode) []uint64 {
	out := make([]uint64, 0, count)
	for i := 0; i < count; i++ {
		switch mode {
		case ModeRejection:
			// Accept v iff v < 2^64 - (2^64 mod p), i.e. below the
			// largest multiple of p representable in 64 bits.
			rem := (math.MaxUint64%p + 1) % p
			for attempt := uint64(0); ; attempt++ {
				v := expand(domainTag, words, uint64(count), uint64(i), attempt)
				if rem == 0 || v <= math.MaxUint64-rem {
					out = append(out, v%p)
					break
				}
			}
		default:
			v := expand(domainTag, words, uint64(count), uint64(i), 0)
			out = append(out, v%p)
		}
	}
	return out
}

// expand hashes (domain tag, words, count, index, attempt) into one 64-bit
// word. All integers are framed big-endian; the domain tag is length
// prefixed so distinct tags can never collide by concatenation.
func expand(domainTag []byte, words []uint64, count, index, attempt uint64) uint64 {
	h, err := blake2b.New256(nil)
	if err != nil {
		panic(err) // unreachable for an unkeyed hash
	}

	var buf [8]byte
	writeWord := func(v uint64) {
		binary.BigEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}

	writeWord(uint64(len(domainTag)))
	h.Write(domainTag)
	writeWord(uint64(len(words)))
	for _, w := range words {
		writeWord(w)
	}
	writeWord(count)
	writeWord(index)
	writeWord(attempt)

	sum := h.Sum(nil)
	return binary.BigEndian.Uint64(sum[:8])
}
