package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrPromptCancelled is returned when the user aborts a form.
var ErrPromptCancelled = errors.New("prompt cancelled")

// Field is one line of a Form.
type Field struct {
	Label  string
	Value  string
	Secret bool
}

type formModel struct {
	title     string
	inputs    []textinput.Model
	focus     int
	cancelled bool
	done      bool
}

func newFormModel(title string, fields []Field) formModel {
	m := formModel{title: title}
	for i, f := range fields {
		in := textinput.New()
		in.Prompt = f.Label + ": "
		in.SetValue(f.Value)
		if f.Secret {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '•'
		}
		if i == 0 {
			in.Focus()
		}
		m.inputs = append(m.inputs, in)
	}
	return m
}

func (m formModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *formModel) move(delta int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + len(m.inputs)) % len(m.inputs)
	return m.inputs[m.focus].Focus()
}

func (m formModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit
		case "tab", "down":
			return m, m.move(1)
		case "shift+tab", "up":
			return m, m.move(-1)
		case "enter":
			if m.focus == len(m.inputs)-1 {
				m.done = true
				return m, tea.Quit
			}
			return m, m.move(1)
		}
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m formModel) View() string {
	var b strings.Builder
	b.WriteString(symbolStyle.Render(m.title))
	b.WriteString("\n\n")
	for _, in := range m.inputs {
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("tab next  enter submit  esc cancel"))
	b.WriteString("\n")
	return b.String()
}

func (m formModel) values() []string {
	out := make([]string, len(m.inputs))
	for i, in := range m.inputs {
		out[i] = in.Value()
	}
	return out
}

// Form asks for every field in one screen and returns the entered values
// in field order.
func Form(title string, fields []Field) ([]string, error) {
	if len(fields) == 0 {
		return nil, nil
	}
	final, err := tea.NewProgram(newFormModel(title, fields)).Run()
	if err != nil {
		return nil, err
	}
	fm := final.(formModel)
	if fm.cancelled || !fm.done {
		return nil, ErrPromptCancelled
	}
	return fm.values(), nil
}
