package ledger

import (
	"github.com/pkg/errors"

	"github.com/powerhouse-labs/powerhouse/logger"
	"github.com/powerhouse-labs/powerhouse/record"
)

// AnchorVote is one identity's attestation of a ledger anchor.
type AnchorVote struct {
	// Anchor is the ledger anchor the peer produced.
	Anchor *LedgerAnchor
	// PublicKey identifies the peer. Empty keys are malformed input.
	PublicKey []byte
}

// ReconcileAnchors checks that a collection of anchors agree on every
// entry: same count, same statement order, same hash lists. The returned
// error names the first divergent anchor and entry; an empty or singleton
// collection trivially reconciles.
func ReconcileAnchors(anchors []LedgerAnchor) error {
	if len(anchors) == 0 {
		return nil
	}
	reference := &anchors[0]
	for idx := 1; idx < len(anchors); idx++ {
		anchor := &anchors[idx]
		if len(anchor.Entries) != len(reference.Entries) {
			return errors.Errorf("anchor %d entry count %d mismatch reference %d", idx, len(anchor.Entries), len(reference.Entries))
		}
		for entryIdx := range reference.Entries {
			left := &reference.Entries[entryIdx]
			right := &anchor.Entries[entryIdx]
			if left.Statement != right.Statement {
				return errors.Errorf("anchor %d entry %d statement mismatch", idx, entryIdx)
			}
			if !digestsEqual(left.Hashes, right.Hashes) {
				return errors.Errorf("anchor %d entry %d hash mismatch", idx, entryIdx)
			}
		}
	}
	return nil
}

// ReconcileAnchorsWithQuorum holds when at least quorum distinct
// identities vote for content-identical anchors. Votes are grouped by the
// anchor content digest with an inner map keyed by identity, so a repeat
// vote from an already-counted identity adds no weight. On reaching
// quorum the winning group is re-checked structurally with
// ReconcileAnchors before success is declared.
func ReconcileAnchorsWithQuorum(votes []AnchorVote, quorum int) error {
	if len(votes) == 0 {
		return nil
	}
	if quorum <= 0 || quorum > len(votes) {
		return errors.New("invalid quorum")
	}

	groups := make(map[record.TranscriptDigest]map[string]LedgerAnchor)
	for _, vote := range votes {
		if len(vote.PublicKey) == 0 {
			return errors.New("vote missing public key bytes")
		}
		digest := AnchorDigest(vote.Anchor)
		group, ok := groups[digest]
		if !ok {
			group = make(map[string]LedgerAnchor)
			groups[digest] = group
		}
		identity := string(vote.PublicKey)
		if _, seen := group[identity]; !seen {
			group[identity] = *vote.Anchor
		}
	}

	var best map[string]LedgerAnchor
	for _, group := range groups {
		if len(group) > len(best) {
			best = group
		}
	}

	log := logger.Logger()
	log.Debug().
		Int("votes", len(votes)).
		Int("quorum", quorum).
		Int("groups", len(groups)).
		Int("best", len(best)).
		Msg("anchor quorum tally")

	if len(best) >= quorum {
		anchors := make([]LedgerAnchor, 0, len(best))
		for _, anchor := range best {
			anchors = append(anchors, anchor)
		}
		return ReconcileAnchors(anchors)
	}
	return errors.New("no anchor reached required quorum")
}

func digestsEqual(a, b []record.TranscriptDigest) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
