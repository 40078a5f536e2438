package ledger

import (
	"encoding/binary"
	"hash"

	"golang.org/x/crypto/blake2b"

	"github.com/powerhouse-labs/powerhouse/merkle"
	"github.com/powerhouse-labs/powerhouse/record"
)

// anchorDomain separates anchor digests from transcript and Merkle
// hashing.
const anchorDomain = "MFENX_ANCHOR"

// GenesisStatement is the fixed statement of the protocol genesis anchor.
const GenesisStatement = "JULIAN::GENESIS"

// Version identifies the release that produced an anchor, surfaced in
// anchor metadata for cross-node diagnostics.
const Version = "0.4.2"

// genesisDigest is pinned, not recomputed: peers compare it directly, so
// any drift would split the network at entry 0.
var genesisDigest = record.TranscriptDigest{
	0xcd, 0xcc, 0x8f, 0x36, 0xbf, 0x3d, 0x51, 0x1f, 0x04, 0xdf, 0x86, 0xc6, 0x3b, 0xcf, 0x58,
	0x0d, 0xae, 0xe7, 0x3a, 0xa6, 0x7c, 0x0c, 0xf9, 0x14, 0x48, 0x3a, 0x05, 0xc2, 0xd2, 0x89,
	0x58, 0x4a,
}

// GenesisDigest returns the pinned digest of the genesis transcript.
func GenesisDigest() record.TranscriptDigest {
	return genesisDigest
}

// EntryAnchor is the anchored form of one ledger entry: its statement and
// the digests of its accepted transcripts.
type EntryAnchor struct {
	Statement  string                    `json:"statement"`
	Hashes     []record.TranscriptDigest `json:"hashes"`
	MerkleRoot record.TranscriptDigest   `json:"merkle_root"`
}

// AnchorMetadata is supplementary information emitted alongside the entry
// anchors. Wire names match the transcript log comment keys.
type AnchorMetadata struct {
	ChallengeMode string                   `json:"challenge_mode,omitempty"`
	FoldDigest    *record.TranscriptDigest `json:"fold_digest,omitempty"`
	Version       string                   `json:"crate_version,omitempty"`
}

// LedgerAnchor is a snapshot of a ledger's digest history, exchanged
// between identities for reconciliation. Entry 0 is always the genesis
// anchor; snapshots are immutable once produced.
type LedgerAnchor struct {
	Entries  []EntryAnchor  `json:"entries"`
	Metadata AnchorMetadata `json:"metadata"`
}

// Anchor snapshots the current entries. Entry 0 of the snapshot is always
// the genesis anchor. The fold digest in the metadata is reproducible from
// the entries alone via ComputeFoldDigest.
func (l *ProofLedger) Anchor() LedgerAnchor {
	l.EnsureGenesis()
	entries := make([]EntryAnchor, 0, len(l.entries))
	for _, entry := range l.entries {
		entries = append(entries, EntryAnchor{
			Statement:  entry.Statement.Description,
			Hashes:     append([]record.TranscriptDigest(nil), entry.Hashes...),
			MerkleRoot: entry.MerkleRoot,
		})
	}
	fold := foldDigestFromEntries(entries)
	return LedgerAnchor{
		Entries: entries,
		Metadata: AnchorMetadata{
			ChallengeMode: l.mode.String(),
			FoldDigest:    &fold,
			Version:       Version,
		},
	}
}

// GenesisAnchor returns the canonical single-entry anchor every ledger
// starts from.
func GenesisAnchor() LedgerAnchor {
	hashes := []record.TranscriptDigest{GenesisDigest()}
	fold := FoldDigestFromHashes(hashes)
	return LedgerAnchor{
		Entries: []EntryAnchor{{
			Statement:  GenesisStatement,
			Hashes:     hashes,
			MerkleRoot: merkle.Root(hashes),
		}},
		Metadata: AnchorMetadata{
			FoldDigest: &fold,
			Version:    Version,
		},
	}
}

// FoldDigestFromHashes folds a digest list into a single domain-separated
// digest.
func FoldDigestFromHashes(hashes []record.TranscriptDigest) record.TranscriptDigest {
	h := newAnchorHasher()
	for _, digest := range hashes {
		h.Write(digest[:])
	}
	var out record.TranscriptDigest
	copy(out[:], h.Sum(nil))
	return out
}

func foldDigestFromEntries(entries []EntryAnchor) record.TranscriptDigest {
	h := newAnchorHasher()
	for _, entry := range entries {
		for _, digest := range entry.Hashes {
			h.Write(digest[:])
		}
	}
	var out record.TranscriptDigest
	copy(out[:], h.Sum(nil))
	return out
}

// ComputeFoldDigest recomputes an anchor's fold digest from its entries,
// change-detecting any difference between two ledgers' digest histories
// without transmitting the full lists.
func ComputeFoldDigest(anchor *LedgerAnchor) record.TranscriptDigest {
	return foldDigestFromEntries(anchor.Entries)
}

// AnchorDigest computes a digest over the anchor's full content: entry
// count, then each entry's length-framed statement and hash list. Quorum
// grouping keys on this value.
func AnchorDigest(anchor *LedgerAnchor) record.TranscriptDigest {
	h := newAnchorHasher()

	var buf [8]byte
	mixWord := func(v uint64) {
		binary.BigEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}

	mixWord(uint64(len(anchor.Entries)))
	for _, entry := range anchor.Entries {
		mixWord(uint64(len(entry.Statement)))
		h.Write([]byte(entry.Statement))
		mixWord(uint64(len(entry.Hashes)))
		for _, digest := range entry.Hashes {
			h.Write(digest[:])
		}
	}

	var out record.TranscriptDigest
	copy(out[:], h.Sum(nil))
	return out
}

func newAnchorHasher() hash.Hash {
	h, err := blake2b.New256(nil)
	if err != nil {
		panic(err) // unreachable for an unkeyed hash
	}
	h.Write([]byte(anchorDomain))
	return h
}
