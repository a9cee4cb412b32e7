package tui

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrCancelled is returned when the user interrupts a running TUI.
var ErrCancelled = errors.New("cancelled")

var spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))

type sendDoneMsg struct {
	text string
	err  error
}

type loaderModel struct {
	label   string
	run     func() (string, error)
	spinner spinner.Model
	result  string
	err     error
	done    bool
}

func newLoaderModel(label string, run func() (string, error)) loaderModel {
	s := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(spinnerStyle))
	return loaderModel{label: label, run: run, spinner: s}
}

func (m loaderModel) Init() tea.Cmd {
	return tea.Batch(m.doRun(), m.spinner.Tick)
}

func (m loaderModel) doRun() tea.Cmd {
	run := m.run
	return func() tea.Msg {
		text, err := run()
		return sendDoneMsg{text: text, err: err}
	}
}

func (m loaderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case sendDoneMsg:
		m.result = msg.text
		m.err = msg.err
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.done = true
			m.err = ErrCancelled
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m loaderModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s %s...\n", m.spinner.View(), m.label)
}

// RunLoader shows a spinner on out while fn runs. It renders inline (no alt
// screen) and reads no input; an interrupt cancels the context passed to fn.
func RunLoader(ctx context.Context, label string, out io.Writer, fn func(ctx context.Context) (string, error)) (string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := newLoaderModel(label, func() (string, error) { return fn(ctx) })
	p := tea.NewProgram(m, tea.WithOutput(out), tea.WithInput(nil), tea.WithContext(ctx))
	result, err := p.Run()
	if err != nil {
		if errors.Is(err, tea.ErrInterrupted) || errors.Is(err, tea.ErrProgramKilled) {
			return "", ErrCancelled
		}
		return "", err
	}
	final := result.(loaderModel)
	return final.result, final.err
}
