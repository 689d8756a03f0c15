package report

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"

	"github.com/lox/pokerprobability/internal/simulator"
)

func TestLogProgress(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	logger := log.NewWithOptions(&b, log.Options{Level: log.InfoLevel})

	NewLogProgress(logger).OnProgress(simulator.Progress{
		Trial:     testTrial(100),
		Completed: 101,
		Total:     1000,
		Elapsed:   1234567 * time.Microsecond,
	})

	out := b.String()
	assert.Contains(t, out, "Trial")
	assert.Contains(t, out, "index=100")
	assert.Contains(t, out, "category=NoPair")
	assert.Contains(t, out, "done=101/1000")
	assert.Contains(t, out, "elapsed=1.235s")
}
