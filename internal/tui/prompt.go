package tui

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

var (
	// ErrNotInteractive is returned when a prompt is requested without a terminal.
	ErrNotInteractive = errors.New("not running in an interactive terminal")

	// ErrPromptCancelled is returned when the user aborts a prompt.
	ErrPromptCancelled = errors.New("prompt cancelled")
)

// passwordModel is a single masked input line.
type passwordModel struct {
	label     string
	input     textinput.Model
	done      bool
	cancelled bool
}

func newPasswordModel(label string) passwordModel {
	ti := textinput.New()
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	ti.CharLimit = 256
	ti.Prompt = ""
	ti.Focus()

	return passwordModel{label: label, input: ti}
}

// Init implements tea.Model.
func (m passwordModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m passwordModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			m.done = true
			return m, tea.Quit
		case tea.KeyEsc, tea.KeyCtrlC:
			m.cancelled = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m passwordModel) View() string {
	if m.done || m.cancelled {
		return ""
	}
	return PromptStyle.Render(m.label) + m.input.View() + "\n" +
		HintStyle.Render("enter to confirm • esc to cancel") + "\n"
}

// PromptPassword asks for a secret on stderr with masked input.
func PromptPassword(label string) (string, error) {
	if !IsInteractive() {
		return "", ErrNotInteractive
	}

	p := tea.NewProgram(newPasswordModel(label), tea.WithOutput(os.Stderr))
	final, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return passwordResult(final)
}

func passwordResult(final tea.Model) (string, error) {
	m, ok := final.(passwordModel)
	if !ok || m.cancelled || !m.done {
		return "", ErrPromptCancelled
	}
	return m.input.Value(), nil
}
