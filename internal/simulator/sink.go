package simulator

import (
	"fmt"
	"time"

	"github.com/lox/pokerprobability/internal/statistics"
	"github.com/lox/pokerprobability/poker"
)

// Trial is the outcome of one draw-and-classify cycle.
type Trial struct {
	Index    int
	Hand     [poker.HandSize]poker.Card // sorted by rank
	Category poker.Category
}

// HandString renders the hand as "[S1][H2]...".
func (t Trial) HandString() string {
	return poker.FormatHand(t.Hand[:])
}

// String renders the tab-separated result line "index<TAB>hand<TAB>category".
func (t Trial) String() string {
	return fmt.Sprintf("%d\t%s\t%s", t.Index, t.HandString(), t.Category)
}

// Progress is a periodic snapshot emitted while a run is in flight.
type Progress struct {
	Trial     Trial
	Completed int // trials tallied so far, including this one
	Total     int
	At        time.Time
	Elapsed   time.Duration
}

// Fraction returns Completed/Total in [0,1].
func (p Progress) Fraction() float64 {
	if p.Total <= 0 {
		return 0
	}
	return float64(p.Completed) / float64(p.Total)
}

// TrialSink receives every trial. Calls are serialized by the simulator.
type TrialSink interface {
	RecordTrial(Trial) error
}

// ProgressSink receives trials on the progress cadence. Calls are
// serialized by the simulator.
type ProgressSink interface {
	OnProgress(Progress)
}

// SummarySink receives the final summary exactly once per successful run.
type SummarySink interface {
	RecordSummary(*statistics.Summary) error
}

// ProgressInterval returns how often progress is emitted for a run of the
// given size: every trial below 100 trials, otherwise every tenth of the run.
func ProgressInterval(trials int) int {
	if trials < 100 {
		return 1
	}
	return trials / 10
}
