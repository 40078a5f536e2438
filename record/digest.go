// Package record defines the fixed-width transcript digest and the
// newline-delimited, ASCII-only records that capture the Fiat–Shamir
// transcripts, per-round sums and final evaluations of accepted proofs.
// Records are deterministic and carry a domain-separated BLAKE2b-256
// digest so that tampering is detectable while the text stays
// human-auditable.
package record

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
)

// digestDomain is the domain tag applied to every transcript digest.
const digestDomain = "MFENX_TRANSCRIPT"

// DigestSize is the width of a transcript digest in bytes.
const DigestSize = 32

// TranscriptDigest is a fixed-width, domain-separated digest value.
type TranscriptDigest [DigestSize]byte

// Hex returns the lowercase hex encoding of the digest.
func (d TranscriptDigest) Hex() string {
	return hex.EncodeToString(d[:])
}

// MarshalText encodes the digest as lowercase hex, so anchors and proofs
// serialize losslessly through text formats.
func (d TranscriptDigest) MarshalText() ([]byte, error) {
	return []byte(d.Hex()), nil
}

// UnmarshalText decodes a hex digest.
func (d *TranscriptDigest) UnmarshalText(text []byte) error {
	parsed, err := DigestFromHex(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DigestFromHex parses a lowercase or uppercase hex string into a digest.
func DigestFromHex(input string) (TranscriptDigest, error) {
	var d TranscriptDigest
	raw, err := hex.DecodeString(input)
	if err != nil {
		return d, errors.Wrap(err, "record: invalid hex digest")
	}
	if len(raw) != DigestSize {
		return d, errors.Errorf("record: digest must be %d bytes (%d hex chars)", DigestSize, 2*DigestSize)
	}
	copy(d[:], raw)
	return d, nil
}

// ComputeDigest computes the deterministic digest of a transcript record.
// Every word sequence is framed with a big-endian length prefix, so
// shifting values between the transcript and round-sum sections changes
// the digest.
func ComputeDigest(transcript, roundSums []uint64, finalValue uint64) TranscriptDigest {
	h, err := blake2b.New256(nil)
	if err != nil {
		panic(err) // unreachable for an unkeyed hash
	}

	var buf [8]byte
	writeWord := func(v uint64) {
		binary.BigEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}
	writeSlice := func(values []uint64) {
		writeWord(uint64(len(values)))
		for _, v := range values {
			writeWord(v)
		}
	}

	h.Write([]byte(digestDomain))
	writeSlice(transcript)
	writeSlice(roundSums)
	writeWord(finalValue)

	var d TranscriptDigest
	copy(d[:], h.Sum(nil))
	return d
}
