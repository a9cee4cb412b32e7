package tui

import (
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	pickerTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Padding(1, 0, 1, 2)

	pickerItemStyle = lipgloss.NewStyle().
			Padding(0, 0, 0, 4)

	pickerSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true).
				Padding(0, 0, 0, 2)

	pickerPreviewStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				Padding(1, 0, 0, 2)

	pickerHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(1, 0, 0, 2)
)

const previewWidth = 72

// PromptChoice is one selectable prompt template.
type PromptChoice struct {
	Name string
	Text string
}

type pickerModel struct {
	choices []PromptChoice
	cursor  int
	chosen  int // -1 = no choice yet / quit
}

func newPickerModel(choices []PromptChoice) pickerModel {
	return pickerModel{choices: choices, chosen: -1}
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.chosen = -1
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.choices)-1 {
				m.cursor++
			}
		case "enter":
			if len(m.choices) > 0 {
				m.chosen = m.cursor
			}
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m pickerModel) View() string {
	var b strings.Builder
	b.WriteString(pickerTitleStyle.Render("paip — Select a prompt"))
	b.WriteString("\n")

	for i, c := range m.choices {
		if i == m.cursor {
			b.WriteString(pickerSelectedStyle.Render("> " + c.Name))
		} else {
			b.WriteString(pickerItemStyle.Render(c.Name))
		}
		b.WriteString("\n")
	}

	if len(m.choices) > 0 {
		b.WriteString(pickerPreviewStyle.Render(preview(m.choices[m.cursor].Text, previewWidth)))
		b.WriteString("\n")
	}
	b.WriteString(pickerHintStyle.Render("↑/↓/j/k navigate  enter select  q quit"))
	return b.String()
}

// preview collapses whitespace and cuts s to at most width runes.
func preview(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}

// RunPromptPicker shows an interactive prompt selector on out, reading keys
// from the controlling terminal so that piped stdin does not interfere.
// Returns the chosen name, or "" if the user quit.
func RunPromptPicker(choices []PromptChoice, out io.Writer) (string, error) {
	p := tea.NewProgram(newPickerModel(choices), tea.WithOutput(out), tea.WithInputTTY())
	result, err := p.Run()
	if err != nil {
		return "", err
	}

	final := result.(pickerModel)
	if final.chosen < 0 {
		return "", nil
	}
	return final.choices[final.chosen].Name, nil
}
