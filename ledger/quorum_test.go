package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/powerhouse-labs/powerhouse/merkle"
	"github.com/powerhouse-labs/powerhouse/record"
	"github.com/powerhouse-labs/powerhouse/sumcheck"
)

// submittedLedger builds a ledger with one accepted general proof.
func submittedLedger(t *testing.T, description string) *ProofLedger {
	t.Helper()
	f := testField(t, 101)
	m := samplePoly(t, f)
	proof := sumcheck.Prove(m, f)

	ledger := New()
	ledger.Submit(
		Statement{Description: description},
		Proof{Kind: GeneralPayload{Polynomial: m, Proof: proof}},
	)
	return ledger
}

func TestGenesisAnchor(t *testing.T) {
	anchor := GenesisAnchor()
	require.Len(t, anchor.Entries, 1)
	assert.Equal(t, GenesisStatement, anchor.Entries[0].Statement)
	require.Len(t, anchor.Entries[0].Hashes, 1)
	assert.Equal(t, GenesisDigest(), anchor.Entries[0].Hashes[0])
	assert.Equal(t, merkle.Root(anchor.Entries[0].Hashes), anchor.Entries[0].MerkleRoot)
	require.NotNil(t, anchor.Metadata.FoldDigest)
	assert.Equal(t, ComputeFoldDigest(&anchor), *anchor.Metadata.FoldDigest)
	assert.Equal(t, Version, anchor.Metadata.Version)
}

func TestAnchorOfEmptyLedgerIsGenesis(t *testing.T) {
	anchor := New().Anchor()
	require.Len(t, anchor.Entries, 1)
	assert.Equal(t, GenesisStatement, anchor.Entries[0].Statement)

	genesis := GenesisAnchor()
	assert.Equal(t, AnchorDigest(&genesis), AnchorDigest(&anchor))
}

func TestAnchorMetadata(t *testing.T) {
	ledger := submittedLedger(t, "Anchored proof")
	anchor := ledger.Anchor()

	require.Len(t, anchor.Entries, 2)
	assert.Equal(t, GenesisStatement, anchor.Entries[0].Statement)
	assert.Equal(t, "mod", anchor.Metadata.ChallengeMode)
	assert.Equal(t, Version, anchor.Metadata.Version)
	require.NotNil(t, anchor.Metadata.FoldDigest)
	assert.Equal(t, ComputeFoldDigest(&anchor), *anchor.Metadata.FoldDigest)
}

func TestAnchorReconciliation(t *testing.T) {
	a := submittedLedger(t, "Shared proof").Anchor()
	b := submittedLedger(t, "Shared proof").Anchor()
	assert.NoError(t, ReconcileAnchors([]LedgerAnchor{a, b}))

	assert.NoError(t, ReconcileAnchors(nil))
	assert.NoError(t, ReconcileAnchors([]LedgerAnchor{a}))
}

func TestAnchorReconciliationFailsOnMismatch(t *testing.T) {
	a := submittedLedger(t, "Divergent proof").Anchor()
	b := submittedLedger(t, "Divergent proof").Anchor()

	b.Entries[1].Hashes[0][0] ^= 0x01
	err := ReconcileAnchors([]LedgerAnchor{a, b})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hash mismatch")

	c := submittedLedger(t, "Other statement").Anchor()
	err = ReconcileAnchors([]LedgerAnchor{a, c})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "statement mismatch")
}

func TestReconcileWithQuorum(t *testing.T) {
	anchors := []LedgerAnchor{
		submittedLedger(t, "Quorum proof").Anchor(),
		submittedLedger(t, "Quorum proof").Anchor(),
		submittedLedger(t, "Quorum proof").Anchor(),
	}
	votes := []AnchorVote{
		{Anchor: &anchors[0], PublicKey: []byte("A")},
		{Anchor: &anchors[1], PublicKey: []byte("B")},
		{Anchor: &anchors[2], PublicKey: []byte("C")},
	}
	assert.NoError(t, ReconcileAnchorsWithQuorum(votes, 2))
	assert.NoError(t, ReconcileAnchorsWithQuorum(votes, 3))
}

func TestReconcileWithQuorumFailure(t *testing.T) {
	a := submittedLedger(t, "Divergent quorum").Anchor()
	b := submittedLedger(t, "Divergent quorum").Anchor()
	b.Entries[1].Hashes[0][0] ^= 0x2a

	votes := []AnchorVote{
		{Anchor: &a, PublicKey: []byte("A")},
		{Anchor: &b, PublicKey: []byte("B")},
	}
	assert.Error(t, ReconcileAnchorsWithQuorum(votes, 2))
}

func TestReconcileRejectsDuplicateIdentities(t *testing.T) {
	a := submittedLedger(t, "Duplicate key check").Anchor()
	b := submittedLedger(t, "Duplicate key check").Anchor()

	votes := []AnchorVote{
		{Anchor: &a, PublicKey: []byte("SAME")},
		{Anchor: &b, PublicKey: []byte("SAME")},
	}
	// Only one distinct identity voted, so a quorum of two cannot be met.
	assert.Error(t, ReconcileAnchorsWithQuorum(votes, 2))
}

func TestReconcileRejectsEmptyPublicKey(t *testing.T) {
	a := submittedLedger(t, "Empty key").Anchor()
	votes := []AnchorVote{{Anchor: &a, PublicKey: nil}}
	err := ReconcileAnchorsWithQuorum(votes, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "public key")
}

func TestReconcileQuorumBounds(t *testing.T) {
	a := submittedLedger(t, "Bounds").Anchor()
	votes := []AnchorVote{{Anchor: &a, PublicKey: []byte("A")}}

	assert.NoError(t, ReconcileAnchorsWithQuorum(nil, 0))
	assert.Error(t, ReconcileAnchorsWithQuorum(votes, 0))
	assert.Error(t, ReconcileAnchorsWithQuorum(votes, 2))
	assert.NoError(t, ReconcileAnchorsWithQuorum(votes, 1))
}

func TestAnchorDigestSeparatesContent(t *testing.T) {
	a := submittedLedger(t, "Content A").Anchor()
	b := submittedLedger(t, "Content B").Anchor()
	assert.NotEqual(t, AnchorDigest(&a), AnchorDigest(&b))

	// Metadata does not participate in content identity.
	c := submittedLedger(t, "Content A").Anchor()
	c.Metadata.Version = "other"
	assert.Equal(t, AnchorDigest(&a), AnchorDigest(&c))
}

func TestFoldDigestFromHashes(t *testing.T) {
	h1 := record.ComputeDigest([]uint64{1}, nil, 0)
	h2 := record.ComputeDigest([]uint64{2}, nil, 0)
	assert.Equal(t, FoldDigestFromHashes([]record.TranscriptDigest{h1, h2}), FoldDigestFromHashes([]record.TranscriptDigest{h1, h2}))
	assert.NotEqual(t, FoldDigestFromHashes([]record.TranscriptDigest{h1, h2}), FoldDigestFromHashes([]record.TranscriptDigest{h2, h1}))
}
