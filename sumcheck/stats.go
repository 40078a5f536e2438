package sumcheck

import "time"

// ProofStats captures wall-clock timings of a proving run, one duration per
// round plus the total.
type ProofStats struct {
	RoundDurations []time.Duration
	TotalDuration  time.Duration
}

func newProofStats(numVars int) *ProofStats {
	return &ProofStats{RoundDurations: make([]time.Duration, 0, numVars)}
}

// MaxRound returns the longest single round duration, zero for an empty run.
func (s *ProofStats) MaxRound() time.Duration {
	var max time.Duration
	for _, d := range s.RoundDurations {
		if d > max {
			max = d
		}
	}
	return max
}

// MeanRound returns the average round duration, zero for an empty run.
func (s *ProofStats) MeanRound() time.Duration {
	if len(s.RoundDurations) == 0 {
		return 0
	}
	return s.TotalDuration / time.Duration(len(s.RoundDurations))
}
