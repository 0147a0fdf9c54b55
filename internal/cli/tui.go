package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/octigrid/pkg/topo"
)

// Progress styles
var (
	barFullStyle  = lipgloss.NewStyle().Foreground(colorCyan)
	barEmptyStyle = lipgloss.NewStyle().Foreground(colorDim)
)

const barWidth = 32

// =============================================================================
// RouteModel - Live routing progress
// =============================================================================

// edgeRoutedMsg is sent after every embedded edge.
type edgeRoutedMsg struct {
	done, total int
	edge        string
}

// routeDoneMsg is sent once the pipeline returns.
type routeDoneMsg struct {
	err error
}

// RouteModel is the bubbletea model showing routing progress.
type RouteModel struct {
	Title   string
	Done    int
	Total   int
	Last    string
	Started time.Time
	Err     error

	finished bool
	cancel   context.CancelFunc
}

// NewRouteModel creates a progress model for total edges. cancel is called
// when the user aborts.
func NewRouteModel(title string, total int, cancel context.CancelFunc) RouteModel {
	return RouteModel{Title: title, Total: total, Started: time.Now(), cancel: cancel}
}

func (m RouteModel) Init() tea.Cmd {
	return nil
}

func (m RouteModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}
	case edgeRoutedMsg:
		m.Done, m.Total, m.Last = msg.done, msg.total, msg.edge
	case routeDoneMsg:
		m.Err = msg.err
		m.finished = true
		return m, tea.Quit
	}
	return m, nil
}

func (m RouteModel) View() string {
	if m.finished {
		return ""
	}
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(progressBar(m.Done, m.Total))
	b.WriteString(" ")
	b.WriteString(StyleNumber.Render(fmt.Sprintf("%d/%d", m.Done, m.Total)))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %s", time.Since(m.Started).Round(100*time.Millisecond))))
	b.WriteString("\n")
	if m.Last != "" {
		b.WriteString(StyleDim.Render("last: " + m.Last))
		b.WriteString("\n")
	}
	b.WriteString(StyleDim.Render("q quit"))
	b.WriteString("\n")
	return b.String()
}

func progressBar(done, total int) string {
	filled := 0
	if total > 0 {
		filled = done * barWidth / total
	}
	if filled > barWidth {
		filled = barWidth
	}
	return barFullStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", barWidth-filled))
}

// =============================================================================
// Runner
// =============================================================================

// progressFunc receives routing progress from the pipeline.
type progressFunc func(done, total int, e *topo.Edge)

// runWithProgress runs work while a RouteModel renders its progress on out.
// Aborting the model cancels the context passed to work.
func runWithProgress(ctx context.Context, out io.Writer, title string, total int, work func(context.Context, progressFunc) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewRouteModel(title, total, cancel), tea.WithOutput(out))

	errc := make(chan error, 1)
	go func() {
		err := work(ctx, func(done, total int, e *topo.Edge) {
			p.Send(edgeRoutedMsg{done: done, total: total, edge: e.Key})
		})
		errc <- err
		p.Send(routeDoneMsg{err: err})
	}()

	if _, err := p.Run(); err != nil {
		cancel()
		<-errc
		return err
	}
	return <-errc
}
