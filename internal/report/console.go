package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/muesli/termenv"

	"github.com/lox/pokerprobability/internal/statistics"
)

// Console renders the final summary as a styled table.
type Console struct {
	out io.Writer

	headerStyle   lipgloss.Style
	categoryStyle lipgloss.Style
	countStyle    lipgloss.Style
	percentStyle  lipgloss.Style
	borderStyle   lipgloss.Style
	labelStyle    lipgloss.Style
	warnStyle     lipgloss.Style
}

// NewConsole creates a console sink writing to out. With noColor the output
// carries no ANSI sequences regardless of the terminal.
func NewConsole(out io.Writer, noColor bool) *Console {
	r := lipgloss.NewRenderer(out)
	if noColor {
		r.SetColorProfile(termenv.Ascii)
	}

	return &Console{
		out:           out,
		headerStyle:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Padding(0, 1),
		categoryStyle: r.NewStyle().Foreground(lipgloss.Color("12")).Padding(0, 1),
		countStyle:    r.NewStyle().Align(lipgloss.Right).Padding(0, 1),
		percentStyle:  r.NewStyle().Foreground(lipgloss.Color("10")).Align(lipgloss.Right).Padding(0, 1),
		borderStyle:   r.NewStyle().Foreground(lipgloss.Color("8")),
		labelStyle:    r.NewStyle().Bold(true),
		warnStyle:     r.NewStyle().Foreground(lipgloss.Color("11")),
	}
}

// RecordSummary implements simulator.SummarySink.
func (c *Console) RecordSummary(s *statistics.Summary) error {
	_, err := io.WriteString(c.out, c.Render(s))
	return err
}

// Render returns the summary block printed by RecordSummary.
func (c *Console) Render(s *statistics.Summary) string {
	rows := make([][]string, 0, len(s.Rows()))
	for _, row := range s.Rows() {
		rows = append(rows, []string{
			row.Category.String(),
			strconv.FormatInt(row.Count, 10),
			Percent(row.Probability),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(c.borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return c.headerStyle
			case col == 0:
				return c.categoryStyle
			case col == 1:
				return c.countStyle
			default:
				return c.percentStyle
			}
		}).
		Headers("Category", "Count", "Probability").
		Rows(rows...)

	out := fmt.Sprintf("%s %d trials (%s, %d workers, draw %s, seed %d)\n",
		c.labelStyle.Render("Finished:"), s.Trials, s.Mode, s.Workers, s.Draw, s.Seed)
	out += fmt.Sprintf("%s %s (%.0f trials/sec)\n",
		c.labelStyle.Render("Elapsed:"), s.Elapsed(), s.TrialsPerSecond())
	if s.Anomalies > 0 {
		out += c.warnStyle.Render(fmt.Sprintf("%d hands matched several categories", s.Anomalies)) + "\n"
	}
	return out + t.String() + "\n"
}
