package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lox/pokerprobability/internal/simulator"
)

// Monitor drives a ProgressModel from simulator progress events.
type Monitor struct {
	program *tea.Program
	cancel  context.CancelFunc
	done    chan error
}

// NewMonitor creates a monitor for a run of total trials. cancel is called
// if the user interrupts the view.
func NewMonitor(total int, cancel context.CancelFunc, opts ...tea.ProgramOption) *Monitor {
	return &Monitor{
		program: tea.NewProgram(NewProgressModel(total), opts...),
		cancel:  cancel,
		done:    make(chan error, 1),
	}
}

// Start runs the program in the background.
func (m *Monitor) Start() {
	go func() {
		final, err := m.program.Run()
		if pm, ok := final.(ProgressModel); ok && pm.Interrupted() && m.cancel != nil {
			m.cancel()
		}
		m.done <- err
	}()
}

// OnProgress implements simulator.ProgressSink.
func (m *Monitor) OnProgress(p simulator.Progress) {
	m.program.Send(ProgressMsg{
		Completed: p.Completed,
		Total:     p.Total,
		Line:      p.Trial.String(),
		Elapsed:   p.Elapsed,
	})
}

// Finish marks the run complete and waits for the program to exit.
func (m *Monitor) Finish() error {
	m.program.Send(DoneMsg{})
	return <-m.done
}
