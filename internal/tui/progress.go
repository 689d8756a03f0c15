package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	padding  = 2
	maxWidth = 80
)

// ProgressMsg reports how far a run has progressed.
type ProgressMsg struct {
	Completed int
	Total     int
	Line      string // last sampled trial line
	Elapsed   time.Duration
}

// DoneMsg tells the model the run has finished.
type DoneMsg struct{}

// ProgressModel is a Bubble Tea model showing a progress bar for a run.
type ProgressModel struct {
	bar         progress.Model
	completed   int
	total       int
	line        string
	elapsed     time.Duration
	done        bool
	interrupted bool
}

// NewProgressModel creates a model for a run of total trials.
func NewProgressModel(total int) ProgressModel {
	return ProgressModel{
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(maxWidth-padding*2)),
		total: total,
	}
}

// Init initializes the model
func (m ProgressModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ProgressMsg:
		m.completed = msg.Completed
		if msg.Total > 0 {
			m.total = msg.Total
		}
		m.line = msg.Line
		m.elapsed = msg.Elapsed
		return m, nil

	case DoneMsg:
		m.done = true
		m.completed = m.total
		return m, tea.Quit

	case tea.WindowSizeMsg:
		m.bar.Width = min(msg.Width-padding*2, maxWidth-padding*2)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.interrupted = true
			return m, tea.Quit
		}
	}
	return m, nil
}

// Fraction returns the completed share of the run in [0,1].
func (m ProgressModel) Fraction() float64 {
	if m.total <= 0 {
		return 0
	}
	return min(float64(m.completed)/float64(m.total), 1)
}

// Interrupted reports whether the user asked to stop the run.
func (m ProgressModel) Interrupted() bool { return m.interrupted }

// Done reports whether the run finished.
func (m ProgressModel) Done() bool { return m.done }

// View renders the model
func (m ProgressModel) View() string {
	pad := strings.Repeat(" ", padding)

	var b strings.Builder
	b.WriteString("\n" + pad + TitleStyle.Render("Poker hand probability") + "\n\n")
	b.WriteString(pad + m.bar.ViewAs(m.Fraction()) + "\n\n")
	b.WriteString(pad + CountStyle.Render(fmt.Sprintf("%d/%d trials", m.completed, m.total)))
	if m.elapsed > 0 {
		b.WriteString(fmt.Sprintf("  %s", m.elapsed.Round(time.Millisecond)))
	}
	b.WriteString("\n")
	if m.line != "" {
		b.WriteString(pad + TrialStyle.Render(m.line) + "\n")
	}
	if !m.done {
		b.WriteString("\n" + pad + HelpStyle.Render("ctrl+c to stop") + "\n")
	}
	return b.String()
}
