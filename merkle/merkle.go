// Package merkle is a binary digest accumulator over transcript digests,
// used to commit a ledger entry's hash list into a single root. Hashing is
// domain separated between leaves, internal nodes and the empty tree, and
// odd-sized layers promote their last element unchanged, so the root is a
// deterministic function of the leaf sequence.
package merkle

import (
	"golang.org/x/crypto/blake2b"

	"github.com/powerhouse-labs/powerhouse/record"
)

const merkleDomain = "JROC_MERKLE"

const (
	leafMarker  = 0x00
	emptyMarker = 0x01
)

func hashPair(left, right record.TranscriptDigest) record.TranscriptDigest {
	h, err := blake2b.New256(nil)
	if err != nil {
		panic(err) // unreachable for an unkeyed hash
	}
	h.Write([]byte(merkleDomain))
	h.Write(left[:])
	h.Write(right[:])

	var out record.TranscriptDigest
	copy(out[:], h.Sum(nil))
	return out
}

func hashLeaf(leaf record.TranscriptDigest) record.TranscriptDigest {
	h, err := blake2b.New256(nil)
	if err != nil {
		panic(err)
	}
	h.Write([]byte(merkleDomain))
	h.Write([]byte{leafMarker})
	h.Write(leaf[:])

	var out record.TranscriptDigest
	copy(out[:], h.Sum(nil))
	return out
}

func hashEmpty() record.TranscriptDigest {
	h, err := blake2b.New256(nil)
	if err != nil {
		panic(err)
	}
	h.Write([]byte(merkleDomain))
	h.Write([]byte{emptyMarker})

	var out record.TranscriptDigest
	copy(out[:], h.Sum(nil))
	return out
}

// nextLayer combines a layer pairwise, promoting a trailing lone element
// unchanged.
func nextLayer(layer []record.TranscriptDigest) []record.TranscriptDigest {
	next := make([]record.TranscriptDigest, 0, (len(layer)+1)/2)
	for i := 0; i < len(layer); i += 2 {
		if i+1 == len(layer) {
			next = append(next, layer[i])
		} else {
			next = append(next, hashPair(layer[i], layer[i+1]))
		}
	}
	return next
}

func leafLayer(leaves []record.TranscriptDigest) []record.TranscriptDigest {
	layer := make([]record.TranscriptDigest, len(leaves))
	for i, leaf := range leaves {
		layer[i] = hashLeaf(leaf)
	}
	return layer
}

// Root computes the Merkle root of the leaf digests. The empty tree has a
// fixed sentinel root distinct from every leaf hash.
func Root(leaves []record.TranscriptDigest) record.TranscriptDigest {
	if len(leaves) == 0 {
		return hashEmpty()
	}
	layer := leafLayer(leaves)
	for len(layer) > 1 {
		layer = nextLayer(layer)
	}
	return layer[0]
}
