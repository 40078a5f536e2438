package record

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// RecordLines renders a transcript record as its four canonical lines:
// transcript, round_sums, final, and the digest of the first three.
func RecordLines(transcript, roundSums []uint64, finalValue uint64) []string {
	digest := ComputeDigest(transcript, roundSums, finalValue)
	return []string{
		"transcript:" + encodeWords(transcript),
		"round_sums:" + encodeWords(roundSums),
		"final:" + strconv.FormatUint(finalValue, 10),
		"hash:" + digest.Hex(),
	}
}

// WriteRecord emits a transcript record one line at a time through writeLine.
func WriteRecord(writeLine func(string) error, transcript, roundSums []uint64, finalValue uint64) error {
	for _, line := range RecordLines(transcript, roundSums, finalValue) {
		if err := writeLine(line); err != nil {
			return err
		}
	}
	return nil
}

// ParseRecord parses the four lines of a transcript record and returns its
// components together with the stored digest. The stored digest is NOT
// checked against the contents; use VerifyRecordLines for that.
func ParseRecord(lines []string) (transcript, roundSums []uint64, finalValue uint64, storedHash TranscriptDigest, err error) {
	if len(lines) < 4 {
		err = errors.Errorf("record: expected 4 lines, got %d", len(lines))
		return
	}
	if transcript, err = parseWords(lines[0], "transcript:"); err != nil {
		return
	}
	if roundSums, err = parseWords(lines[1], "round_sums:"); err != nil {
		return
	}
	if finalValue, err = parseWord(lines[2], "final:"); err != nil {
		return
	}
	tail, ok := strings.CutPrefix(lines[3], "hash:")
	if !ok {
		err = errors.New("record: missing hash: prefix")
		return
	}
	storedHash, err = DigestFromHex(strings.TrimSpace(tail))
	return
}

// VerifyRecordLines parses a record and checks the stored digest against the
// digest recomputed from the record's own contents.
func VerifyRecordLines(lines []string) error {
	transcript, roundSums, finalValue, storedHash, err := ParseRecord(lines)
	if err != nil {
		return err
	}
	if computed := ComputeDigest(transcript, roundSums, finalValue); computed != storedHash {
		return errors.Errorf("record: hash mismatch: stored=%s, computed=%s", storedHash.Hex(), computed.Hex())
	}
	return nil
}

// WriteTextSeries writes lines to baseDir/prefix_NNNN.txt, creating baseDir
// if needed, and returns the path of the file written.
func WriteTextSeries(baseDir, prefix string, index int, lines []string) (string, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return "", errors.Wrapf(err, "record: creating %s", baseDir)
	}
	path := filepath.Join(baseDir, fmt.Sprintf("%s_%04d.txt", prefix, index))
	f, err := os.Create(path)
	if err != nil {
		return "", errors.Wrapf(err, "record: creating %s", path)
	}
	w := bufio.NewWriter(f)
	for _, line := range lines {
		if _, err := w.WriteString(line + "\n"); err != nil {
			f.Close()
			return "", errors.Wrapf(err, "record: writing %s", path)
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return "", errors.Wrapf(err, "record: flushing %s", path)
	}
	if err := f.Close(); err != nil {
		return "", errors.Wrapf(err, "record: closing %s", path)
	}
	return path, nil
}

func encodeWords(values []uint64) string {
	var sb strings.Builder
	for i, v := range values {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(strconv.FormatUint(v, 10))
	}
	return sb.String()
}

func parseWords(line, prefix string) ([]uint64, error) {
	tail, ok := strings.CutPrefix(line, prefix)
	if !ok {
		return nil, errors.Errorf("record: missing %s prefix", prefix)
	}
	fields := strings.Fields(tail)
	out := make([]uint64, 0, len(fields))
	for _, tok := range fields {
		v, err := strconv.ParseUint(tok, 10, 64)
		if err != nil {
			return nil, errors.Errorf("record: invalid integer %q in %s line", tok, prefix)
		}
		out = append(out, v)
	}
	return out, nil
}

func parseWord(line, prefix string) (uint64, error) {
	tail, ok := strings.CutPrefix(line, prefix)
	if !ok {
		return 0, errors.Errorf("record: missing %s prefix", prefix)
	}
	v, err := strconv.ParseUint(strings.TrimSpace(tail), 10, 64)
	if err != nil {
		return 0, errors.Errorf("record: invalid integer in %s line", prefix)
	}
	return v, nil
}
