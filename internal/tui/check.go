package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/zarlcorp/core/pkg/zstyle"
)

// checkModel prompts for a password and shows its breach count.
type checkModel struct {
	input    textinput.Model
	checking bool
	pending  string
	checked  bool
	count    int
	errMsg   string
}

// checkCandidateMsg asks the root to breach-check a typed candidate.
type checkCandidateMsg struct {
	candidate string
}

func newCheckModel() checkModel {
	ti := textinput.New()
	ti.Placeholder = ""
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '*'
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 40

	return checkModel{input: ti}
}

func (m checkModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m checkModel) Update(msg tea.Msg) (checkModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}

		if msg.Type == tea.KeyEsc {
			return m, func() tea.Msg { return navigateMsg{view: viewMenu} }
		}

		if key.Matches(msg, zstyle.KeyEnter) {
			return m.handleSubmit()
		}

	case checkResultMsg:
		if !m.checking || msg.candidate != m.pending {
			return m, nil
		}
		m.checking = false
		m.pending = ""
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			m.checked = false
			return m, nil
		}
		m.errMsg = ""
		m.checked = true
		m.count = msg.occurrences
		m.input.SetValue("")
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m checkModel) handleSubmit() (checkModel, tea.Cmd) {
	val := m.input.Value()
	if val == "" || m.checking {
		return m, nil
	}

	m.checking = true
	m.pending = val
	m.checked = false
	m.errMsg = ""
	return m, func() tea.Msg {
		return checkCandidateMsg{candidate: val}
	}
}

func (m checkModel) View() string {
	s := fmt.Sprintf("\n  %s\n  %s\n", "password to check:", m.input.View())
	s += "  " + zstyle.MutedText.Render("only the first 5 characters of its SHA-1 hash are sent") + "\n\n"

	switch {
	case m.checking:
		s += "  " + zstyle.MutedText.Render("checking...") + "\n"
	case m.errMsg != "":
		s += "  " + zstyle.StatusErr.Render(m.errMsg) + "\n"
	case m.checked && m.count > 0:
		s += "  " + zstyle.StatusWarn.Render(fmt.Sprintf("found %d times in known breaches", m.count)) + "\n"
	case m.checked:
		s += "  " + zstyle.StatusOK.Render("not found in known breaches") + "\n"
	default:
		s += "\n"
	}

	return s
}
