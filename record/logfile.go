package record

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// LogMetadata holds values surfaced from optional "# key: value" comment
// lines in a ledger log file.
type LogMetadata struct {
	// ChallengeMode is the challenge derivation mode name, e.g. "mod" or
	// "rejection". Empty when the log carries no such comment.
	ChallengeMode string
	// FoldDigest is the fold digest provided alongside the transcript, nil
	// when absent.
	FoldDigest *TranscriptDigest
}

// ParsedLogFile is the verified content of a single ledger log file.
type ParsedLogFile struct {
	Statement string
	Digest    TranscriptDigest
	Metadata  LogMetadata
}

// ParseLogFile reads and verifies a ledger log file. Blank lines are skipped
// and lines starting with '#' are treated as optional metadata comments. The
// first content line must carry the "statement:" prefix; the remaining four
// lines form a transcript record whose stored hash must match the recomputed
// digest.
func ParseLogFile(path string) (*ParsedLogFile, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "record: reading %s", path)
	}
	return parseLogContents(path, string(contents))
}

func parseLogContents(path, contents string) (*ParsedLogFile, error) {
	var metadata LogMetadata
	var lines []string
	for _, raw := range strings.Split(contents, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if rest, ok := strings.CutPrefix(line, "#"); ok {
			key, value, found := strings.Cut(strings.TrimSpace(rest), ":")
			if !found {
				continue
			}
			key = strings.TrimSpace(key)
			value = strings.TrimSpace(value)
			switch {
			case strings.EqualFold(key, "challenge_mode") && value != "":
				metadata.ChallengeMode = value
			case strings.EqualFold(key, "fold_digest") && value != "":
				d, err := DigestFromHex(value)
				if err != nil {
					return nil, errors.Wrapf(err, "record: %s fold_digest comment", path)
				}
				metadata.FoldDigest = &d
			}
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return nil, errors.Errorf("record: %s is empty", path)
	}

	statement, ok := strings.CutPrefix(lines[0], "statement:")
	if !ok {
		return nil, errors.Errorf("record: %s missing statement prefix", path)
	}
	recordLines := lines[1:]

	if err := VerifyRecordLines(recordLines); err != nil {
		return nil, errors.Wrapf(err, "record: %s verification failed", path)
	}
	transcript, roundSums, finalValue, _, err := ParseRecord(recordLines)
	if err != nil {
		return nil, errors.Wrapf(err, "record: %s parse error", path)
	}
	return &ParsedLogFile{
		Statement: statement,
		Digest:    ComputeDigest(transcript, roundSums, finalValue),
		Metadata:  metadata,
	}, nil
}

// ReadFoldDigestHint loads an optional fold digest from fold_digest.txt in
// dir. A missing or empty file yields (nil, nil); a present but malformed
// file is an error.
func ReadFoldDigestHint(dir string) (*TranscriptDigest, error) {
	contents, err := os.ReadFile(filepath.Join(dir, "fold_digest.txt"))
	if err != nil {
		return nil, nil
	}
	value := strings.TrimSpace(string(contents))
	if value == "" {
		return nil, nil
	}
	d, err := DigestFromHex(value)
	if err != nil {
		return nil, errors.Wrap(err, "record: invalid fold_digest.txt value")
	}
	return &d, nil
}
