package statistics

import (
	"fmt"
	"math"
	"time"

	"github.com/lox/pokerprobability/poker"
)

// probabilityTolerance bounds the floating point drift allowed when the
// per-category probabilities are summed.
const probabilityTolerance = 1e-9

// Summary is the final aggregate of a simulation run.
type Summary struct {
	Mode      string
	Draw      string
	Seed      int64
	Trials    int64
	Workers   int
	Started   time.Time
	Finished  time.Time
	Tally     Tally
	Anomalies int64 // hands where classification flagged several categories
}

// Row is one category line of a summary table.
type Row struct {
	Category    poker.Category
	Count       int64
	Probability float64
}

// Elapsed returns the wall time of the run
func (s *Summary) Elapsed() time.Duration {
	return s.Finished.Sub(s.Started)
}

// Probability returns count/trials for category c.
func (s *Summary) Probability(c poker.Category) float64 {
	if s.Trials == 0 {
		return 0
	}
	return float64(s.Tally.Count(c)) / float64(s.Trials)
}

// Rows returns one row per category in enumeration order.
func (s *Summary) Rows() []Row {
	rows := make([]Row, 0, poker.NumCategories)
	for _, c := range poker.Categories() {
		rows = append(rows, Row{
			Category:    c,
			Count:       s.Tally.Count(c),
			Probability: s.Probability(c),
		})
	}
	return rows
}

// TrialsPerSecond returns the throughput of the run, or 0 if no time elapsed.
func (s *Summary) TrialsPerSecond() float64 {
	secs := s.Elapsed().Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(s.Trials) / secs
}

// Validate checks the invariants of a completed run
func (s *Summary) Validate() error {
	if s.Trials <= 0 {
		return fmt.Errorf("invalid trial count: %d", s.Trials)
	}

	if total := s.Tally.Total(); total != s.Trials {
		return fmt.Errorf("tally total (%d) does not match trial count (%d)", total, s.Trials)
	}

	if s.Anomalies < 0 || s.Anomalies > s.Trials {
		return fmt.Errorf("anomaly count (%d) outside [0,%d]", s.Anomalies, s.Trials)
	}

	sum := 0.0
	for _, row := range s.Rows() {
		if row.Probability < 0 || row.Probability > 1 {
			return fmt.Errorf("%s probability %f outside [0,1]", row.Category, row.Probability)
		}
		sum += row.Probability
	}
	if math.Abs(sum-1) > probabilityTolerance {
		return fmt.Errorf("probabilities sum to %.12f, want 1", sum)
	}

	if s.Finished.Before(s.Started) {
		return fmt.Errorf("finished (%s) before started (%s)", s.Finished, s.Started)
	}

	return nil
}
