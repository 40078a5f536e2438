// Package ledger implements a proof-transparent ledger that anchors
// sum-check transcripts into deterministic consensus states. Every
// accepted proof contributes a domain-separated digest of its verification
// trace; anchors snapshot the digest history for cross-node comparison and
// quorum reconciliation.
package ledger

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/powerhouse-labs/powerhouse/field"
	"github.com/powerhouse-labs/powerhouse/fiatshamir"
	"github.com/powerhouse-labs/powerhouse/logger"
	"github.com/powerhouse-labs/powerhouse/merkle"
	"github.com/powerhouse-labs/powerhouse/poly"
	"github.com/powerhouse-labs/powerhouse/record"
	"github.com/powerhouse-labs/powerhouse/sumcheck"
)

// Statement describes a claim being proved. In a full system this would
// carry the input and the specification of the language.
type Statement struct {
	Description string
}

// Payload is a proof payload the ledger understands. Implementations are
// the fixed set of kinds below.
type Payload interface {
	payloadKind() string
}

// DemoPayload carries the two-round demonstration claim.
type DemoPayload struct {
	Claim *sumcheck.SumClaim
}

// GeneralPayload carries a generalized sum-check proof plus the dense
// polynomial it describes.
type GeneralPayload struct {
	Polynomial *poly.MultilinearPolynomial
	Proof      *sumcheck.GeneralSumProof
}

// StreamingPayload carries a generalized sum-check proof plus the streaming
// evaluator used for verification.
type StreamingPayload struct {
	Polynomial *poly.StreamingPolynomial
	Proof      *sumcheck.GeneralSumProof
}

// ChainPayload carries a chained proof and its participating polynomials.
type ChainPayload struct {
	Polynomials []*poly.MultilinearPolynomial
	Proof       *sumcheck.ChainedSumProof
}

// GenesisPayload marks the protocol genesis anchor.
type GenesisPayload struct{}

func (DemoPayload) payloadKind() string      { return "demo" }
func (GeneralPayload) payloadKind() string   { return "general" }
func (StreamingPayload) payloadKind() string { return "streaming_general" }
func (ChainPayload) payloadKind() string     { return "chain" }
func (GenesisPayload) payloadKind() string   { return "genesis" }

// Proof is a submission: a payload plus opaque auxiliary data.
type Proof struct {
	Kind Payload
	Data []byte
}

// LedgerEntry records a statement, its proof and the outcome of
// verification. Transcript fields hold one element per accepted sub-proof
// (chains contribute one per link).
type LedgerEntry struct {
	Statement   Statement
	Proof       Proof
	Accepted    bool
	Transcripts [][]uint64
	RoundSums   [][]uint64
	FinalValues []uint64
	LogPaths    []string
	LogError    string
	Hashes      []record.TranscriptDigest
	MerkleRoot  record.TranscriptDigest
}

// ProofLedger is a single-writer, append-only sequence of entries.
// Concurrent submission must be serialized by the caller.
type ProofLedger struct {
	entries    []LedgerEntry
	logDir     string
	logCounter int
	mode       fiatshamir.ChallengeMode
	log        zerolog.Logger
}

// New creates an empty ledger using the default challenge mode.
func New() *ProofLedger {
	return NewWithMode(fiatshamir.ModeReduce)
}

// NewWithMode creates an empty ledger whose verifications derive
// challenges in the given mode. The mode is surfaced in anchor metadata.
func NewWithMode(mode fiatshamir.ChallengeMode) *ProofLedger {
	return &ProofLedger{
		mode: mode,
		log:  logger.Logger().With().Str("component", "ledger").Logger(),
	}
}

// SetChallengeMode changes the challenge derivation mode used for later
// verifications. Entries already recorded are unaffected.
func (l *ProofLedger) SetChallengeMode(mode fiatshamir.ChallengeMode) {
	l.mode = mode
}

// EnableLogging turns on on-disk transcript logging under logDir and
// resets the log file counter.
func (l *ProofLedger) EnableLogging(logDir string) {
	l.logDir = logDir
	l.logCounter = 0
}

// Entries returns a read-only view of the current entries.
func (l *ProofLedger) Entries() []LedgerEntry {
	return l.entries
}

// verifyConfig builds the configuration used for ledger-side replay.
func (l *ProofLedger) verifyConfig() sumcheck.Config {
	cfg := sumcheck.DefaultConfig()
	cfg.Mode = l.mode
	return cfg
}

// Submit appends a statement and its proof to the ledger. The matching
// verifier runs first; on success the entry records the verifier's
// reconstructed transcripts and their digests, otherwise the entry is
// marked not accepted with empty transcript fields. A bad proof never
// panics and never blocks later submissions.
func (l *ProofLedger) Submit(statement Statement, proof Proof) {
	if _, isGenesis := proof.Kind.(GenesisPayload); !isGenesis {
		l.EnsureGenesis()
	}

	entry := l.buildEntry(statement, proof)

	if entry.Accepted {
		if _, isGenesis := proof.Kind.(GenesisPayload); !isGenesis && l.logDir != "" {
			l.writeLogs(&entry)
		}
	}

	l.log.Debug().
		Str("statement", statement.Description).
		Str("kind", proof.Kind.payloadKind()).
		Bool("accepted", entry.Accepted).
		Int("hashes", len(entry.Hashes)).
		Msg("ledger submission")

	l.entries = append(l.entries, entry)
}

func (l *ProofLedger) buildEntry(statement Statement, proof Proof) LedgerEntry {
	if _, isGenesis := proof.Kind.(GenesisPayload); isGenesis {
		hashes := []record.TranscriptDigest{GenesisDigest()}
		return LedgerEntry{
			Statement:   statement,
			Proof:       proof,
			Accepted:    true,
			Transcripts: [][]uint64{{}},
			RoundSums:   [][]uint64{{}},
			FinalValues: []uint64{0},
			Hashes:      hashes,
			MerkleRoot:  merkle.Root(hashes),
		}
	}

	entry := LedgerEntry{Statement: statement, Proof: proof}
	cfg := l.verifyConfig()

	recordTrace := func(trace *sumcheck.VerifyTrace) {
		entry.Transcripts = append(entry.Transcripts, trace.Challenges)
		entry.RoundSums = append(entry.RoundSums, trace.RoundSums)
		entry.FinalValues = append(entry.FinalValues, trace.FinalEvaluation)
		entry.Hashes = append(entry.Hashes, record.ComputeDigest(trace.Challenges, trace.RoundSums, trace.FinalEvaluation))
	}

	switch kind := proof.Kind.(type) {
	case DemoPayload:
		entry.Accepted = kind.Claim != nil && kind.Claim.Verify()

	case GeneralPayload:
		if kind.Proof == nil || kind.Polynomial == nil {
			break
		}
		f, err := field.New(kind.Proof.Claim.P)
		if err != nil {
			break
		}
		if trace, ok := sumcheck.VerifyWithTraceConfig(kind.Proof, kind.Polynomial, f, cfg); ok {
			recordTrace(trace)
			entry.Accepted = true
		}

	case StreamingPayload:
		if kind.Proof == nil || kind.Polynomial == nil {
			break
		}
		if kind.Polynomial.Modulus() != kind.Proof.Claim.P {
			break
		}
		f, err := field.New(kind.Proof.Claim.P)
		if err != nil {
			break
		}
		if trace, ok := sumcheck.VerifyStreamingWithTraceConfig(kind.Proof, kind.Polynomial, f, cfg); ok {
			recordTrace(trace)
			entry.Accepted = true
		}

	case ChainPayload:
		if kind.Proof == nil || len(kind.Proof.Links) == 0 {
			break
		}
		modulus := kind.Proof.Links[0].Proof.Claim.P
		f, err := field.New(modulus)
		if err != nil {
			break
		}
		if traces, ok := kind.Proof.VerifyWithTracesConfig(kind.Polynomials, f, cfg); ok {
			for _, trace := range traces {
				recordTrace(trace)
			}
			entry.Accepted = true
		}
	}

	entry.MerkleRoot = merkle.Root(entry.Hashes)
	return entry
}

// writeLogs persists one transcript record file per accepted sub-proof.
// Failures are captured on the entry, never fatal.
func (l *ProofLedger) writeLogs(entry *LedgerEntry) {
	for idx := range entry.Transcripts {
		lines := []string{"statement:" + entry.Statement.Description}
		lines = append(lines, record.RecordLines(entry.Transcripts[idx], entry.RoundSums[idx], entry.FinalValues[idx])...)

		path, err := record.WriteTextSeries(l.logDir, "ledger", l.logCounter, lines)
		if err != nil {
			entry.LogError = err.Error()
			l.log.Warn().Err(err).Str("statement", entry.Statement.Description).Msg("transcript log write failed")
			return
		}
		entry.LogPaths = append(entry.LogPaths, path)
		l.logCounter++
	}
}

// EnsureGenesis inserts the canonical genesis entry at index 0 if it is
// not already present.
func (l *ProofLedger) EnsureGenesis() {
	if len(l.entries) > 0 && l.entries[0].Statement.Description == GenesisStatement {
		return
	}
	hashes := []record.TranscriptDigest{GenesisDigest()}
	genesis := LedgerEntry{
		Statement:   Statement{Description: GenesisStatement},
		Proof:       Proof{Kind: GenesisPayload{}},
		Accepted:    true,
		Transcripts: [][]uint64{{}},
		RoundSums:   [][]uint64{{}},
		FinalValues: []uint64{0},
		Hashes:      hashes,
		MerkleRoot:  merkle.Root(hashes),
	}
	l.entries = append([]LedgerEntry{genesis}, l.entries...)
}

// String identifies the ledger in logs.
func (l *ProofLedger) String() string {
	return fmt.Sprintf("ProofLedger(%d entries)", len(l.entries))
}
