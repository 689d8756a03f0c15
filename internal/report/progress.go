package report

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/pokerprobability/internal/simulator"
)

// LogProgress logs sampled trials with the run's elapsed time.
type LogProgress struct {
	logger *log.Logger
}

// NewLogProgress creates a progress sink logging through logger.
func NewLogProgress(logger *log.Logger) *LogProgress {
	return &LogProgress{logger: logger}
}

// OnProgress implements simulator.ProgressSink.
func (p *LogProgress) OnProgress(pr simulator.Progress) {
	p.logger.Info("Trial",
		"index", pr.Trial.Index,
		"hand", pr.Trial.HandString(),
		"category", pr.Trial.Category,
		"done", fmt.Sprintf("%d/%d", pr.Completed, pr.Total),
		"elapsed", pr.Elapsed.Round(time.Millisecond))
}
