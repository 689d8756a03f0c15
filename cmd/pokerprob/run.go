package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/mattn/go-isatty"

	"github.com/lox/pokerprobability/internal/config"
	"github.com/lox/pokerprobability/internal/fileutil"
	"github.com/lox/pokerprobability/internal/report"
	"github.com/lox/pokerprobability/internal/simulator"
	"github.com/lox/pokerprobability/internal/tui"
)

// RunCmd runs a simulation. Flags override the config file, which overrides
// the built-in defaults.
type RunCmd struct {
	Config    string  `short:"c" default:"pokerprob.hcl" env:"POKERPROB_CONFIG" help:"HCL config file (ignored if missing)"`
	Trials    *int    `short:"n" env:"POKERPROB_TRIALS" help:"Number of hands to sample"`
	Mode      *string `short:"m" env:"POKERPROB_MODE" help:"sequential or concurrent"`
	Workers   *int    `short:"w" env:"POKERPROB_WORKERS" help:"Worker goroutines in concurrent mode (0 = NumCPU)"`
	Seed      *int64  `short:"s" env:"POKERPROB_SEED" help:"RNG seed (0 = derive from clock)"`
	Draw      *string `env:"POKERPROB_DRAW" help:"replacement or without-replacement"`
	Save      *string `env:"POKERPROB_SAVE" help:"all, result or none"`
	Out       *string `short:"o" env:"POKERPROB_OUT" help:"Parent directory for run output"`
	BatchSize *int    `env:"POKERPROB_BATCH_SIZE" help:"Trial lines per log file"`
	LogLevel  *string `env:"POKERPROB_LOG_LEVEL" help:"debug, info, warn or error"`
	Strict    bool    `env:"POKERPROB_STRICT" help:"Abort when a hand matches several categories"`
	TUI       bool    `env:"POKERPROB_TUI" help:"Show an interactive progress bar"`
	NoColor   bool    `env:"NO_COLOR" help:"Disable colored output"`

	out io.Writer
	err io.Writer
}

// resolveConfig loads the config file and applies flag overrides.
func (cmd *RunCmd) resolveConfig() (*config.Config, error) {
	cfg, err := config.Load(cmd.Config)
	if err != nil {
		return nil, err
	}

	if cmd.Trials != nil {
		cfg.Simulation.Trials = *cmd.Trials
	}
	if cmd.Mode != nil && *cmd.Mode != "" {
		cfg.Simulation.Mode = *cmd.Mode
	}
	if cmd.Workers != nil {
		cfg.Simulation.Workers = *cmd.Workers
	}
	if cmd.Seed != nil {
		cfg.Simulation.Seed = *cmd.Seed
	}
	if cmd.Draw != nil {
		cfg.Simulation.Draw = *cmd.Draw
	}
	if cmd.Strict {
		cfg.Simulation.Strict = true
	}
	if cmd.Save != nil {
		cfg.Output.Save = *cmd.Save
	}
	if cmd.Out != nil {
		cfg.Output.Dir = *cmd.Out
	}
	if cmd.BatchSize != nil {
		cfg.Output.BatchSize = *cmd.BatchSize
	}
	if cmd.LogLevel != nil {
		cfg.Log.Level = *cmd.LogLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cmd *RunCmd) Run() error {
	stdout, stderr := cmd.out, cmd.err
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	cfg, err := cmd.resolveConfig()
	if err != nil {
		return err
	}

	logger, err := setupLogger(stderr, cfg.Log.Level)
	if err != nil {
		return err
	}

	ctx, cancel := setupSignalHandler(logger)
	defer cancel()

	return cmd.execute(ctx, cancel, cfg, logger, quartz.NewReal(), stdout, stderr)
}

// execute runs one simulation with output wired according to cfg.
func (cmd *RunCmd) execute(ctx context.Context, cancel context.CancelFunc, cfg *config.Config,
	logger *log.Logger, clock quartz.Clock, stdout, stderr io.Writer,
) error {
	simCfg, err := cfg.SimulatorConfig()
	if err != nil {
		return err
	}
	save, err := cfg.SaveMode()
	if err != nil {
		return err
	}

	simCfg.Logger = logger.WithPrefix("simulator")
	simCfg.Clock = clock

	var (
		runDir   string
		trialLog *report.TrialLog
		summary  []simulator.SummarySink
	)
	if save != config.SaveNone {
		runDir, err = fileutil.EnsureDir(filepath.Join(cfg.Output.Dir, report.RunDirName(clock.Now())))
		if err != nil {
			return err
		}
		summary = append(summary, report.ResultFile{Dir: runDir})
	}
	if save == config.SaveAll {
		trialLog = report.NewTrialLog(runDir, cfg.Output.BatchSize)
		simCfg.TrialSink = trialLog
	}
	simCfg.SummarySink = report.SummarySinks(summary...)

	var monitor *tui.Monitor
	useTUI := cmd.TUI
	if useTUI && !isTerminal(stderr) {
		logger.Warn("Progress view needs a terminal, falling back to log output")
		useTUI = false
	}
	if useTUI {
		monitor = tui.NewMonitor(simCfg.Trials, cancel, tea.WithOutput(stderr), tea.WithContext(ctx))
		simCfg.ProgressSink = monitor
	} else {
		simCfg.ProgressSink = report.NewLogProgress(logger)
	}

	sim, err := simulator.New(simCfg)
	if err != nil {
		return err
	}

	if monitor != nil {
		monitor.Start()
	}
	result, runErr := sim.Run(ctx)
	if monitor != nil {
		if err := monitor.Finish(); err != nil && runErr == nil {
			logger.Debug("Progress view exited", "error", err)
		}
	}
	if trialLog != nil {
		// Flush whatever was recorded, even for an aborted run.
		if err := trialLog.Close(); err != nil && runErr == nil {
			runErr = err
		}
	}
	if runErr != nil {
		return fmt.Errorf("simulation failed: %w", runErr)
	}

	if err := report.NewConsole(stdout, cmd.NoColor).RecordSummary(result); err != nil {
		return err
	}
	if runDir != "" {
		logger.Info("Results saved", "dir", runDir, "batches", batchCount(trialLog))
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

func batchCount(l *report.TrialLog) int {
	if l == nil {
		return 0
	}
	return l.Files()
}
