package report

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/lox/pokerprobability/internal/fileutil"
	"github.com/lox/pokerprobability/internal/simulator"
)

// DefaultBatchSize is the number of trial lines written per log file.
const DefaultBatchSize = 50000

// TrialLog persists trial lines in numbered batch files (pp0.log, pp1.log,
// ...) inside a run directory. It is not safe for concurrent use; the
// simulator serializes RecordTrial calls.
type TrialLog struct {
	dir       string
	batchSize int
	buf       strings.Builder
	pending   int
	files     int
}

// NewTrialLog writes batches of batchSize lines into dir. A batchSize <= 0
// uses DefaultBatchSize.
func NewTrialLog(dir string, batchSize int) *TrialLog {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &TrialLog{dir: dir, batchSize: batchSize}
}

// BatchFileName returns the name of the n-th batch file
func BatchFileName(n int) string {
	return fmt.Sprintf("pp%d.log", n)
}

// RecordTrial buffers the trial line and flushes a full batch to disk.
func (l *TrialLog) RecordTrial(t simulator.Trial) error {
	l.buf.WriteString(t.String())
	l.buf.WriteByte('\n')
	l.pending++

	if l.pending >= l.batchSize {
		return l.flush()
	}
	return nil
}

// Close writes any buffered lines that did not fill a batch.
func (l *TrialLog) Close() error {
	if l.pending == 0 {
		return nil
	}
	return l.flush()
}

// Files returns how many batch files have been written.
func (l *TrialLog) Files() int { return l.files }

func (l *TrialLog) flush() error {
	name := filepath.Join(l.dir, BatchFileName(l.files))
	if err := fileutil.WriteFileAtomic(name, []byte(l.buf.String()), 0o644); err != nil {
		return fmt.Errorf("write trial batch %s: %w", name, err)
	}
	l.files++
	l.pending = 0
	l.buf.Reset()
	return nil
}
