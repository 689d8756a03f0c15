package simulator

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pokerprobability/internal/statistics"
	"github.com/lox/pokerprobability/poker"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

type recorder struct {
	trials    []Trial
	progress  []Progress
	summaries []*statistics.Summary

	failAt  int
	failErr error
	onTrial func(Trial)
}

func (r *recorder) RecordTrial(t Trial) error {
	if r.failErr != nil && t.Index == r.failAt {
		return r.failErr
	}
	r.trials = append(r.trials, t)
	if r.onTrial != nil {
		r.onTrial(t)
	}
	return nil
}

func (r *recorder) OnProgress(p Progress) {
	r.progress = append(r.progress, p)
}

func (r *recorder) RecordSummary(s *statistics.Summary) error {
	r.summaries = append(r.summaries, s)
	return r.failErr
}

func runSim(t *testing.T, cfg Config) *statistics.Summary {
	t.Helper()
	if cfg.Logger == nil {
		cfg.Logger = testLogger()
	}
	sim, err := New(cfg)
	require.NoError(t, err)
	summary, err := sim.Run(context.Background())
	require.NoError(t, err)
	return summary
}

func TestNewValidation(t *testing.T) {
	t.Parallel()

	_, err := New(Config{Trials: 0})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = New(Config{Trials: 10, Mode: Mode(7)})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = New(Config{Trials: 10, Draw: poker.DrawStrategy(5)})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNewWorkers(t *testing.T) {
	t.Parallel()

	sim, err := New(Config{Trials: 100, Mode: Sequential, Workers: 8})
	require.NoError(t, err)
	assert.Equal(t, 1, sim.Workers())

	sim, err = New(Config{Trials: 100, Mode: Concurrent, Workers: 8})
	require.NoError(t, err)
	assert.Equal(t, 8, sim.Workers())

	sim, err = New(Config{Trials: 3, Mode: Concurrent, Workers: 8})
	require.NoError(t, err)
	assert.Equal(t, 3, sim.Workers(), "never more workers than trials")

	sim, err = New(Config{Trials: 1_000_000, Mode: Concurrent})
	require.NoError(t, err)
	assert.Positive(t, sim.Workers())
}

func TestRunTallySumsToTrials(t *testing.T) {
	t.Parallel()

	for _, mode := range []Mode{Sequential, Concurrent} {
		t.Run(mode.String(), func(t *testing.T) {
			t.Parallel()

			rec := &recorder{}
			summary := runSim(t, Config{
				Trials:      5000,
				Mode:        mode,
				Workers:     4,
				Seed:        99,
				TrialSink:   rec,
				SummarySink: rec,
			})

			assert.Equal(t, int64(5000), summary.Trials)
			assert.Equal(t, int64(5000), summary.Tally.Total())
			assert.Len(t, rec.trials, 5000)
			require.Len(t, rec.summaries, 1)
			assert.Same(t, summary, rec.summaries[0])

			sum := 0.0
			for _, row := range summary.Rows() {
				assert.GreaterOrEqual(t, row.Probability, 0.0)
				assert.LessOrEqual(t, row.Probability, 1.0)
				sum += row.Probability
			}
			assert.InDelta(t, 1.0, sum, 1e-9)

			seen := make(map[int]bool, len(rec.trials))
			for _, tr := range rec.trials {
				require.False(t, seen[tr.Index], "trial %d recorded twice", tr.Index)
				seen[tr.Index] = true
			}
		})
	}
}

func TestConcurrentMatchesSequential(t *testing.T) {
	t.Parallel()

	for _, draw := range []poker.DrawStrategy{poker.WithReplacement, poker.WithoutReplacement} {
		t.Run(draw.String(), func(t *testing.T) {
			t.Parallel()

			seq := runSim(t, Config{Trials: 20000, Mode: Sequential, Seed: 42, Draw: draw})
			for _, workers := range []int{2, 3, 8} {
				conc := runSim(t, Config{Trials: 20000, Mode: Concurrent, Workers: workers, Seed: 42, Draw: draw})
				assert.Equal(t, seq.Tally.Counts(), conc.Tally.Counts(), "workers=%d", workers)
				assert.Equal(t, seq.Anomalies, conc.Anomalies, "workers=%d", workers)
			}
		})
	}
}

func TestSameSeedSameTrials(t *testing.T) {
	t.Parallel()

	a, b := &recorder{}, &recorder{}
	runSim(t, Config{Trials: 500, Mode: Sequential, Seed: 7, TrialSink: a})
	runSim(t, Config{Trials: 500, Mode: Sequential, Seed: 7, TrialSink: b})
	assert.Equal(t, a.trials, b.trials)
}

func TestTrialsAreSortedAndClassified(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	runSim(t, Config{Trials: 2000, Mode: Sequential, Seed: 3, Draw: poker.WithoutReplacement, TrialSink: rec})

	for i, tr := range rec.trials {
		require.Equal(t, i, tr.Index)
		for j := 1; j < len(tr.Hand); j++ {
			require.LessOrEqual(t, tr.Hand[j-1].Rank(), tr.Hand[j].Rank(), "trial %d not sorted", i)
		}
		want, err := poker.Classify(tr.Hand[:])
		require.NoError(t, err)
		require.Equal(t, want, tr.Category)
	}
}

func TestProgressCadence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		trials  int
		mode    Mode
		indices []int
	}{
		{5, Sequential, []int{0, 1, 2, 3, 4}},
		{1000, Sequential, []int{0, 100, 200, 300, 400, 500, 600, 700, 800, 900}},
		{1005, Sequential, []int{0, 100, 200, 300, 400, 500, 600, 700, 800, 900, 1000}},
		{1000, Concurrent, []int{0, 100, 200, 300, 400, 500, 600, 700, 800, 900}},
	}
	for _, tt := range tests {
		rec := &recorder{}
		runSim(t, Config{Trials: tt.trials, Mode: tt.mode, Workers: 4, Seed: 1, ProgressSink: rec})

		var got []int
		for _, p := range rec.progress {
			got = append(got, p.Trial.Index)
			assert.Equal(t, tt.trials, p.Total)
			assert.LessOrEqual(t, p.Completed, p.Total)
		}
		assert.ElementsMatch(t, tt.indices, got, "trials=%d mode=%s", tt.trials, tt.mode)
	}
}

func TestProgressInterval(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, ProgressInterval(1))
	assert.Equal(t, 1, ProgressInterval(99))
	assert.Equal(t, 10, ProgressInterval(100))
	assert.Equal(t, 100000, ProgressInterval(1_000_000))
}

func TestRunUsesClock(t *testing.T) {
	t.Parallel()

	mClock := quartz.NewMock(t)
	start := mClock.Now()

	rec := &recorder{}
	rec.onTrial = func(Trial) { mClock.Advance(time.Millisecond) }

	summary := runSim(t, Config{
		Trials:       200,
		Mode:         Sequential,
		Seed:         5,
		Clock:        mClock,
		TrialSink:    rec,
		ProgressSink: rec,
	})

	assert.Equal(t, start, summary.Started)
	assert.Equal(t, 200*time.Millisecond, summary.Elapsed())
	require.NotEmpty(t, rec.progress)
	assert.Equal(t, time.Millisecond, rec.progress[0].Elapsed)
	assert.Equal(t, start.Add(time.Millisecond), rec.progress[0].At)
}

func TestRunZeroSeedIsResolved(t *testing.T) {
	t.Parallel()

	summary := runSim(t, Config{Trials: 10, Mode: Sequential})
	assert.NotZero(t, summary.Seed)
}

func TestTrialSinkError(t *testing.T) {
	t.Parallel()

	boom := errors.New("disk full")
	for _, mode := range []Mode{Sequential, Concurrent} {
		rec := &recorder{failAt: 5, failErr: boom}
		sim, err := New(Config{
			Trials:      100,
			Mode:        mode,
			Workers:     2,
			Seed:        1,
			Logger:      testLogger(),
			TrialSink:   rec,
			SummarySink: rec,
		})
		require.NoError(t, err)

		summary, err := sim.Run(context.Background())
		assert.ErrorIs(t, err, boom, mode.String())
		assert.Nil(t, summary)
		assert.Empty(t, rec.summaries, "no summary after a failed run")
	}
}

func TestSummarySinkError(t *testing.T) {
	t.Parallel()

	boom := errors.New("read-only file system")
	rec := &recorder{failAt: -1, failErr: boom}
	sim, err := New(Config{Trials: 10, Seed: 1, Logger: testLogger(), SummarySink: rec})
	require.NoError(t, err)

	summary, err := sim.Run(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.NotNil(t, summary, "summary is still returned")
}

func TestRunCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, mode := range []Mode{Sequential, Concurrent} {
		sim, err := New(Config{Trials: 1000, Mode: mode, Seed: 1, Logger: testLogger()})
		require.NoError(t, err)
		_, err = sim.Run(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	}
}

func TestRepeatedCardsCounted(t *testing.T) {
	t.Parallel()

	// With replacement, pair+flush style hands turn up a few times per
	// thousand draws.
	summary := runSim(t, Config{Trials: 20000, Mode: Sequential, Seed: 11})
	assert.Positive(t, summary.Anomalies)
	assert.Equal(t, int64(20000), summary.Tally.Total())

	summary = runSim(t, Config{Trials: 20000, Mode: Sequential, Seed: 11, Draw: poker.WithoutReplacement})
	assert.Zero(t, summary.Anomalies)
}

func TestStrictModeAborts(t *testing.T) {
	t.Parallel()

	sim, err := New(Config{Trials: 20000, Mode: Concurrent, Workers: 4, Seed: 11, Strict: true, Logger: testLogger()})
	require.NoError(t, err)

	_, err = sim.Run(context.Background())
	assert.ErrorIs(t, err, poker.ErrClassifierConsistency)
}

func TestWithoutReplacementDistribution(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping distribution check in short mode")
	}
	t.Parallel()

	summary := runSim(t, Config{Trials: 200000, Mode: Concurrent, Workers: 4, Seed: 2024, Draw: poker.WithoutReplacement})

	assert.InDelta(t, 0.501177, summary.Probability(poker.NoPair), 0.01)
	assert.InDelta(t, 0.422569, summary.Probability(poker.OnePair), 0.01)
	assert.InDelta(t, 0.047539, summary.Probability(poker.TwoPair), 0.005)
}

func TestParseMode(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]Mode{
		"sequential": Sequential,
		"single":     Sequential,
		"S":          Sequential,
		"concurrent": Concurrent,
		"multi":      Concurrent,
		" m ":        Concurrent,
	} {
		got, err := ParseMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseMode("parallel")
	assert.Error(t, err)

	assert.Equal(t, "Single-threaded", Sequential.Label())
	assert.Equal(t, "Multi-threaded", Concurrent.Label())
}

func TestTrialString(t *testing.T) {
	t.Parallel()

	var hand [poker.HandSize]poker.Card
	copy(hand[:], poker.MustParseCards("S1 H1 C5 D9 S13"))
	tr := Trial{Index: 12, Hand: hand, Category: poker.OnePair}
	assert.Equal(t, "12\t[S1][H1][C5][D9][S13]\tOnePair", tr.String())
}
