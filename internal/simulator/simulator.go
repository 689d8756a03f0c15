package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/pokerprobability/internal/randutil"
	"github.com/lox/pokerprobability/internal/statistics"
	"github.com/lox/pokerprobability/poker"
)

// ErrInvalidConfig is returned by New for unusable configurations.
var ErrInvalidConfig = errors.New("invalid simulator config")

// maxAnomalyWarnings caps how many consistency errors are logged at warn
// level per run; the rest go to debug and are only counted.
const maxAnomalyWarnings = 10

// Mode selects how trials are scheduled
type Mode int

const (
	Sequential Mode = iota
	Concurrent
)

func (m Mode) String() string {
	switch m {
	case Sequential:
		return "sequential"
	case Concurrent:
		return "concurrent"
	default:
		return "unknown"
	}
}

// Label returns the human-readable name used in result files.
func (m Mode) Label() string {
	switch m {
	case Sequential:
		return "Single-threaded"
	case Concurrent:
		return "Multi-threaded"
	default:
		return "Unknown"
	}
}

// ParseMode parses a mode name. "single" and "multi" are accepted aliases.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sequential", "single", "s":
		return Sequential, nil
	case "concurrent", "multi", "m":
		return Concurrent, nil
	default:
		return 0, fmt.Errorf("unknown mode %q", s)
	}
}

// Config holds configuration for running simulations
type Config struct {
	Trials  int
	Mode    Mode
	Workers int   // concurrent mode only; <= 0 means runtime.NumCPU()
	Seed    int64 // 0 derives a seed from the clock
	Draw    poker.DrawStrategy
	Strict  bool // abort on classifier consistency errors

	Logger *log.Logger
	Clock  quartz.Clock

	TrialSink    TrialSink
	ProgressSink ProgressSink
	SummarySink  SummarySink
}

// Simulator estimates hand category probabilities by repeated sampling.
type Simulator struct {
	config  Config
	logger  *log.Logger
	clock   quartz.Clock
	workers int
}

// New creates a new simulator with the given configuration
func New(config Config) (*Simulator, error) {
	if config.Trials <= 0 {
		return nil, fmt.Errorf("%w: trials must be positive, got %d", ErrInvalidConfig, config.Trials)
	}
	if config.Mode != Sequential && config.Mode != Concurrent {
		return nil, fmt.Errorf("%w: unknown mode %d", ErrInvalidConfig, int(config.Mode))
	}
	if config.Draw != poker.WithReplacement && config.Draw != poker.WithoutReplacement {
		return nil, fmt.Errorf("%w: unknown draw strategy %d", ErrInvalidConfig, int(config.Draw))
	}

	logger := config.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	clock := config.Clock
	if clock == nil {
		clock = quartz.NewReal()
	}

	workers := 1
	if config.Mode == Concurrent {
		workers = config.Workers
		if workers <= 0 {
			workers = runtime.NumCPU()
		}
		workers = min(workers, config.Trials)
	}

	return &Simulator{
		config:  config,
		logger:  logger,
		clock:   clock,
		workers: workers,
	}, nil
}

// Workers returns the number of goroutines a run will use.
func (s *Simulator) Workers() int { return s.workers }

// run holds the mutable state of a single Run call.
type run struct {
	sim      *Simulator
	started  time.Time
	interval int

	drawMu sync.Mutex
	dealer *poker.Dealer

	resultMu  sync.Mutex
	tally     statistics.Tally
	anomalies int64
	completed int
}

// Run executes every trial and returns the summary. It stops early only
// when a sink fails, ctx is cancelled, or a consistency error occurs in
// strict mode; no summary is emitted in those cases.
func (s *Simulator) Run(ctx context.Context) (*statistics.Summary, error) {
	started := s.clock.Now()
	seed := randutil.ResolveSeed(s.config.Seed, started)

	r := &run{
		sim:      s,
		started:  started,
		interval: ProgressInterval(s.config.Trials),
		dealer:   poker.NewDealer(poker.FullDeck(), randutil.New(seed), s.config.Draw),
	}

	s.logger.Info("Starting simulation",
		"trials", s.config.Trials,
		"mode", s.config.Mode,
		"workers", s.workers,
		"seed", seed,
		"draw", s.config.Draw)

	var err error
	if s.config.Mode == Sequential {
		err = r.sequential(ctx)
	} else {
		err = r.concurrent(ctx)
	}
	if err != nil {
		return nil, err
	}

	summary := &statistics.Summary{
		Mode:      s.config.Mode.String(),
		Draw:      s.config.Draw.String(),
		Seed:      seed,
		Trials:    int64(s.config.Trials),
		Workers:   s.workers,
		Started:   started,
		Finished:  s.clock.Now(),
		Tally:     r.tally,
		Anomalies: r.anomalies,
	}
	if err := summary.Validate(); err != nil {
		return nil, fmt.Errorf("summary validation failed: %w", err)
	}

	if summary.Anomalies > 0 {
		s.logger.Warn("Classifier reported multiple categories for some hands",
			"hands", summary.Anomalies,
			"strategy", summary.Draw)
	}
	s.logger.Info("Simulation finished",
		"elapsed", summary.Elapsed(),
		"trials_per_sec", fmt.Sprintf("%.0f", summary.TrialsPerSecond()))

	if sink := s.config.SummarySink; sink != nil {
		if err := sink.RecordSummary(summary); err != nil {
			return summary, fmt.Errorf("record summary: %w", err)
		}
	}
	return summary, nil
}

func (r *run) sequential(ctx context.Context) error {
	for n := 0; n < r.sim.config.Trials; n++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.trial(n); err != nil {
			return err
		}
	}
	return nil
}

// concurrent splits the trial indices into contiguous ranges, one per worker.
func (r *run) concurrent(ctx context.Context) error {
	trials := r.sim.config.Trials
	workers := r.sim.workers
	perWorker := trials / workers
	remainder := trials % workers

	g, ctx := errgroup.WithContext(ctx)
	next := 0
	for w := range workers {
		count := perWorker
		if w < remainder {
			count++
		}
		lo, hi := next, next+count
		next = hi

		g.Go(func() error {
			for n := lo; n < hi; n++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := r.trial(n); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}

func (r *run) trial(n int) error {
	// One hand per critical section keeps the sequence of hands drawn for a
	// seed identical regardless of how many workers share the dealer.
	r.drawMu.Lock()
	hand := r.dealer.Deal()
	r.drawMu.Unlock()

	poker.SortByRank(hand[:])
	category, err := poker.Classify(hand[:])

	var inconsistent *poker.ConsistencyError
	if err != nil {
		if !errors.As(err, &inconsistent) || r.sim.config.Strict {
			return fmt.Errorf("trial %d: %w", n, err)
		}
	}

	return r.record(Trial{Index: n, Hand: hand, Category: category}, inconsistent)
}

func (r *run) record(t Trial, inconsistent *poker.ConsistencyError) error {
	r.resultMu.Lock()
	defer r.resultMu.Unlock()

	r.tally.Add(t.Category)
	r.completed++

	if inconsistent != nil {
		r.anomalies++
		logf := r.sim.logger.Debug
		if r.anomalies <= maxAnomalyWarnings {
			logf = r.sim.logger.Warn
		}
		logf("Multiple categories flagged",
			"trial", t.Index,
			"hand", t.HandString(),
			"flags", inconsistent.Flags,
			"chosen", inconsistent.Chosen)
	}

	if sink := r.sim.config.TrialSink; sink != nil {
		if err := sink.RecordTrial(t); err != nil {
			return fmt.Errorf("record trial %d: %w", t.Index, err)
		}
	}

	if sink := r.sim.config.ProgressSink; sink != nil && t.Index%r.interval == 0 {
		now := r.sim.clock.Now()
		sink.OnProgress(Progress{
			Trial:     t,
			Completed: r.completed,
			Total:     r.sim.config.Trials,
			At:        now,
			Elapsed:   now.Sub(r.started),
		})
	}
	return nil
}
