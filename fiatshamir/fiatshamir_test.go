package fiatshamir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/powerhouse-labs/powerhouse/field"
)

func testField(t *testing.T, p uint64) field.Field {
	t.Helper()
	f, err := field.New(p)
	require.NoError(t, err)
	return f
}

func TestDeriveIsDeterministic(t *testing.T) {
	a := DeriveManyModP(101, []byte("tag"), []uint64{1, 2, 3}, 4, ModeReduce)
	b := DeriveManyModP(101, []byte("tag"), []uint64{1, 2, 3}, 4, ModeReduce)
	assert.Equal(t, a, b)
	assert.Len(t, a, 4)
	for _, v := range a {
		assert.Less(t, v, uint64(101))
	}
}

func TestDeriveDomainSeparation(t *testing.T) {
	a := DeriveManyModP(1_000_000_007, []byte("tag-a"), []uint64{7}, 1, ModeReduce)
	b := DeriveManyModP(1_000_000_007, []byte("tag-b"), []uint64{7}, 1, ModeReduce)
	assert.NotEqual(t, a, b)
}

func TestDeriveSensitiveToWords(t *testing.T) {
	a := DeriveManyModP(1_000_000_007, []byte("tag"), []uint64{1, 2}, 1, ModeReduce)
	b := DeriveManyModP(1_000_000_007, []byte("tag"), []uint64{1, 3}, 1, ModeReduce)
	assert.NotEqual(t, a, b)
}

func TestRejectionModeInRange(t *testing.T) {
	out := DeriveManyModP(101, []byte("tag"), []uint64{42}, 16, ModeRejection)
	again := DeriveManyModP(101, []byte("tag"), []uint64{42}, 16, ModeRejection)
	assert.Equal(t, out, again)
	for _, v := range out {
		assert.Less(t, v, uint64(101))
	}
}

func TestTranscriptReplay(t *testing.T) {
	f := testField(t, 101)

	prover := NewTranscript("test:transcript")
	prover.Append(5)
	prover.Append(9)
	c1 := prover.Challenge(f)
	prover.Append(11)
	c2 := prover.Challenge(f)

	verifier := NewTranscript("test:transcript")
	verifier.Append(5)
	verifier.Append(9)
	assert.Equal(t, c1, verifier.Challenge(f))
	verifier.Append(11)
	assert.Equal(t, c2, verifier.Challenge(f))
}

func TestChallengeDependsOnPriorChallenges(t *testing.T) {
	f := testField(t, 1_000_000_007)

	// Two transcripts diverge only in their first absorbed word; their
	// second challenges must diverge too because the first challenge is
	// folded back into the words.
	a := NewTranscript("test:chain")
	a.Append(1)
	a.Challenge(f)
	b := NewTranscript("test:chain")
	b.Append(2)
	b.Challenge(f)
	assert.NotEqual(t, a.Challenge(f), b.Challenge(f))
}

func TestSnapshotContainsChallenges(t *testing.T) {
	f := testField(t, 101)

	tr := NewTranscript("test:snapshot")
	tr.Append(3)
	c := tr.Challenge(f)

	snap := tr.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, uint64(3), snap[0])
	assert.Equal(t, c, snap[1])
}

func TestParseChallengeMode(t *testing.T) {
	m, err := ParseChallengeMode("mod")
	require.NoError(t, err)
	assert.Equal(t, ModeReduce, m)

	m, err = ParseChallengeMode("rejection")
	require.NoError(t, err)
	assert.Equal(t, ModeRejection, m)

	_, err = ParseChallengeMode("lcg")
	assert.Error(t, err)

	assert.Equal(t, "mod", ModeReduce.String())
	assert.Equal(t, "rejection", ModeRejection.String())
}
