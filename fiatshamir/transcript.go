package fiatshamir

import (
	"github.com/powerhouse-labs/powerhouse/field"
)

// Transcript accumulates the public words of a protocol run and derives
// deterministic challenges from them. The same sequence of Append and
// Challenge calls on the same domain tag always yields the same challenge
// sequence, which is what lets a verifier replay the prover's challenges
// without interaction.
type Transcript struct {
	domainTag []byte
	words     []uint64
	counter   uint64
	mode      ChallengeMode
}

// NewTranscript creates an empty transcript for the given domain tag using
// the default challenge mode.
func NewTranscript(domainTag string) *Transcript {
	return NewTranscriptWithMode(domainTag, ModeReduce)
}

// NewTranscriptWithMode creates an empty transcript with an explicit
// challenge mode.
func NewTranscriptWithMode(domainTag string, mode ChallengeMode) *Transcript {
	return &Transcript{domainTag: []byte(domainTag), mode: mode}
}

// Append pushes a single 64-bit word onto the transcript.
func (t *Transcript) Append(value uint64) {
	t.words = append(t.words, value)
}

// AppendSlice pushes all words in the slice onto the transcript.
func (t *Transcript) AppendSlice(values []uint64) {
	t.words = append(t.words, values...)
}

// Snapshot returns a copy of the accumulated transcript words.
func (t *Transcript) Snapshot() []uint64 {
	cp := make([]uint64, len(t.words))
	copy(cp, t.words)
	return cp
}

// Challenge derives the next challenge in [0, p). It provisionally appends
// the round counter, derives a field element from the whole transcript,
// then replaces the provisional counter word with the derived challenge so
// that every future challenge depends on all prior ones.
func (t *Transcript) Challenge(f field.Field) uint64 {
	t.words = append(t.words, t.counter)
	challenge := DeriveManyModP(f.Modulus(), t.domainTag, t.words, 1, t.mode)[0]
	t.words[len(t.words)-1] = challenge
	t.counter++
	return challenge
}
