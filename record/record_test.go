package record

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDigestHexRoundTrip(t *testing.T) {
	d := ComputeDigest([]uint64{1, 2, 3}, []uint64{4, 5}, 6)
	parsed, err := DigestFromHex(d.Hex())
	require.NoError(t, err)
	assert.Equal(t, d, parsed)
}

func TestDigestFromHexRejectsBadInput(t *testing.T) {
	_, err := DigestFromHex("deadbeef")
	assert.Error(t, err)
	_, err = DigestFromHex("zz")
	assert.Error(t, err)
}

func TestDigestSeparatesSections(t *testing.T) {
	// Moving a word across the length-framed section boundary must change
	// the digest.
	a := ComputeDigest([]uint64{1, 2}, []uint64{3}, 0)
	b := ComputeDigest([]uint64{1}, []uint64{2, 3}, 0)
	assert.NotEqual(t, a, b)
}

func TestDigestTextMarshalling(t *testing.T) {
	d := ComputeDigest([]uint64{9}, nil, 1)
	raw, err := json.Marshal(d)
	require.NoError(t, err)

	var back TranscriptDigest
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, d, back)
}

func TestWriteRecordFormat(t *testing.T) {
	var lines []string
	err := WriteRecord(func(line string) error {
		lines = append(lines, line)
		return nil
	}, []uint64{1, 2, 3}, []uint64{4, 5}, 6)
	require.NoError(t, err)
	require.Len(t, lines, 4)
	assert.Equal(t, "transcript:1 2 3", lines[0])
	assert.Equal(t, "round_sums:4 5", lines[1])
	assert.Equal(t, "final:6", lines[2])
	assert.Len(t, lines[3], len("hash:")+2*DigestSize)
}

func TestParseAndVerifyRecord(t *testing.T) {
	lines := RecordLines([]uint64{10, 20}, []uint64{5, 7}, 9)
	transcript, roundSums, finalValue, stored, err := ParseRecord(lines)
	require.NoError(t, err)
	assert.Equal(t, []uint64{10, 20}, transcript)
	assert.Equal(t, []uint64{5, 7}, roundSums)
	assert.Equal(t, uint64(9), finalValue)
	assert.Equal(t, ComputeDigest(transcript, roundSums, finalValue), stored)

	assert.NoError(t, VerifyRecordLines(lines))
}

func TestVerifyRejectsTampering(t *testing.T) {
	lines := RecordLines([]uint64{1}, []uint64{2}, 3)
	lines[2] = "final:4"
	assert.Error(t, VerifyRecordLines(lines))

	assert.Error(t, VerifyRecordLines([]string{
		"transcript:1",
		"round_sums:2",
		"final:3",
		"hash:deadbeef",
	}))
}

func TestParseRecordEmptySections(t *testing.T) {
	lines := RecordLines(nil, nil, 0)
	transcript, roundSums, finalValue, _, err := ParseRecord(lines)
	require.NoError(t, err)
	assert.Empty(t, transcript)
	assert.Empty(t, roundSums)
	assert.Equal(t, uint64(0), finalValue)
	assert.NoError(t, VerifyRecordLines(lines))
}

func TestWriteTextSeries(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteTextSeries(dir, "test", 1, []string{"hello", "world"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "test_0001.txt"), path)

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello\nworld\n", string(contents))
}

func TestParseLogFile(t *testing.T) {
	dir := t.TempDir()
	lines := append([]string{"statement:demo claim"}, RecordLines([]uint64{3, 1, 4}, []uint64{1, 5}, 9)...)
	path, err := WriteTextSeries(dir, "ledger", 0, lines)
	require.NoError(t, err)

	parsed, err := ParseLogFile(path)
	require.NoError(t, err)
	assert.Equal(t, "demo claim", parsed.Statement)
	assert.Equal(t, ComputeDigest([]uint64{3, 1, 4}, []uint64{1, 5}, 9), parsed.Digest)
	assert.Empty(t, parsed.Metadata.ChallengeMode)
	assert.Nil(t, parsed.Metadata.FoldDigest)
}

func TestParseLogFileWithComments(t *testing.T) {
	dir := t.TempDir()
	fold := ComputeDigest([]uint64{7}, nil, 7)
	lines := []string{
		"# challenge_mode: rejection",
		"# fold_digest: " + fold.Hex(),
		"",
		"statement:annotated",
	}
	lines = append(lines, RecordLines([]uint64{1}, []uint64{2}, 3)...)
	path, err := WriteTextSeries(dir, "ledger", 1, lines)
	require.NoError(t, err)

	parsed, err := ParseLogFile(path)
	require.NoError(t, err)
	assert.Equal(t, "annotated", parsed.Statement)
	assert.Equal(t, "rejection", parsed.Metadata.ChallengeMode)
	require.NotNil(t, parsed.Metadata.FoldDigest)
	assert.Equal(t, fold, *parsed.Metadata.FoldDigest)
}

func TestParseLogFileRejectsTampered(t *testing.T) {
	dir := t.TempDir()
	lines := append([]string{"statement:tampered"}, RecordLines([]uint64{1, 2}, []uint64{3}, 4)...)
	lines[3] = "final:5"
	path, err := WriteTextSeries(dir, "ledger", 2, lines)
	require.NoError(t, err)

	_, err = ParseLogFile(path)
	assert.Error(t, err)
}

func TestParseLogFileMissingStatement(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteTextSeries(dir, "ledger", 3, RecordLines([]uint64{1}, []uint64{2}, 3))
	require.NoError(t, err)

	_, err = ParseLogFile(path)
	assert.Error(t, err)
}

func TestReadFoldDigestHint(t *testing.T) {
	dir := t.TempDir()

	hint, err := ReadFoldDigestHint(dir)
	require.NoError(t, err)
	assert.Nil(t, hint)

	fold := ComputeDigest([]uint64{11}, nil, 0)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fold_digest.txt"), []byte(fold.Hex()+"\n"), 0o644))
	hint, err = ReadFoldDigestHint(dir)
	require.NoError(t, err)
	require.NotNil(t, hint)
	assert.Equal(t, fold, *hint)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "fold_digest.txt"), []byte("not-hex"), 0o644))
	_, err = ReadFoldDigestHint(dir)
	assert.Error(t, err)
}
