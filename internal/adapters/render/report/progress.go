package report

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type workFinishedMsg struct {
	err error
}

// progressModel animates a spinner with the elapsed time until the work
// command reports back.
type progressModel struct {
	spinner  spinner.Model
	styles   styles
	label    string
	started  time.Time
	work     tea.Cmd
	finished bool
	err      error
}

func newProgressModel(label string, work tea.Cmd) progressModel {
	s := newStyles()
	return progressModel{
		spinner: spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(s.name)),
		styles:  s,
		label:   label,
		started: time.Now(),
		work:    work,
	}
}

func (m progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.work)
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case workFinishedMsg:
		m.finished = true
		m.err = msg.err
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m progressModel) View() string {
	if m.finished {
		return ""
	}
	elapsed := time.Since(m.started).Truncate(100 * time.Millisecond)
	return fmt.Sprintf("%s %s %s", m.spinner.View(), m.styles.detail.Render(m.label), m.styles.meta.Render(elapsed.String()))
}

// RunWithProgress draws a spinner on out while work runs and returns the
// error work returned. The spinner line is cleared when work finishes.
func RunWithProgress(ctx context.Context, out io.Writer, label string, work func(context.Context) error) error {
	p := tea.NewProgram(
		newProgressModel(label, func() tea.Msg {
			return workFinishedMsg{err: work(ctx)}
		}),
		tea.WithInput(nil),
		tea.WithOutput(out),
		tea.WithContext(ctx),
	)

	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	done, ok := finalModel.(progressModel)
	if !ok {
		return ErrUnexpectedRenderModel
	}
	return done.err
}
