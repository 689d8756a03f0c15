package report

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/lox/pokerprobability/internal/fileutil"
	"github.com/lox/pokerprobability/internal/simulator"
	"github.com/lox/pokerprobability/internal/statistics"
)

const (
	// ResultFileName is the summary file written into the run directory.
	ResultFileName = "ppResult.txt"

	runDirLayout    = "20060102-150405"
	timestampLayout = "2006-01-02 15:04:05"
)

// RunDirName returns the directory name used for a run started at t.
func RunDirName(t time.Time) string {
	return t.Format(runDirLayout)
}

// ResultFile writes the final summary to ppResult.txt in a directory.
type ResultFile struct {
	Dir string
}

// RecordSummary implements simulator.SummarySink.
func (f ResultFile) RecordSummary(s *statistics.Summary) error {
	name := filepath.Join(f.Dir, ResultFileName)
	if err := fileutil.WriteFileAtomic(name, []byte(FormatSummary(s)), 0o644); err != nil {
		return fmt.Errorf("write result file: %w", err)
	}
	return nil
}

// FormatSummary renders the plain-text result report.
func FormatSummary(s *statistics.Summary) string {
	label := s.Mode
	if mode, err := simulator.ParseMode(s.Mode); err == nil {
		label = mode.Label()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<%s>\n", label)
	fmt.Fprintf(&b, "Trial count: %d\n", s.Trials)
	fmt.Fprintf(&b, "Started Date/Time: %s\n", s.Started.Format(timestampLayout))
	fmt.Fprintf(&b, "Finished Date/Time: %s\n", s.Finished.Format(timestampLayout))
	fmt.Fprintf(&b, "Process time: %s\n", s.Elapsed())
	fmt.Fprintf(&b, "Workers: %d\n", s.Workers)
	fmt.Fprintf(&b, "Draw: %s\n", s.Draw)
	fmt.Fprintf(&b, "Seed: %d\n", s.Seed)
	if s.Anomalies > 0 {
		fmt.Fprintf(&b, "Multi-category hands: %d\n", s.Anomalies)
	}
	b.WriteString("-- result --\n")
	b.WriteString(FormatProbabilities(s))
	return b.String()
}

// FormatProbabilities renders one "name<TAB>count<TAB>percent" line per
// category, with the percentage to ten decimal places.
func FormatProbabilities(s *statistics.Summary) string {
	var b strings.Builder
	for _, row := range s.Rows() {
		fmt.Fprintf(&b, "%-20s\t%d\t%s\n", row.Category, row.Count, Percent(row.Probability))
	}
	return b.String()
}

// Percent formats a probability as a percentage with ten decimals.
func Percent(p float64) string {
	return fmt.Sprintf("%.10f%%", p*100)
}
