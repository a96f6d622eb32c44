package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/zarlcorp/core/pkg/zstyle"
	"github.com/zarlcorp/zphrase/internal/report"
)

// generateModel displays a generated passphrase with actions.
type generateModel struct {
	report   report.Report
	words    int
	err      error
	checking bool
	flash    string
	flashErr bool
}

// regenerateMsg asks the root for a new passphrase of the given length.
type regenerateMsg struct {
	words int
}

// checkPassphraseMsg asks the root to breach-check the shown passphrase.
type checkPassphraseMsg struct {
	passphrase string
}

// checkResultMsg carries a finished breach lookup for candidate.
type checkResultMsg struct {
	candidate   string
	occurrences int
	err         error
	generated   bool
}

// flashMsg clears the flash after a timeout.
type flashMsg struct{}

// clipboardWrite is swapped out in tests.
var clipboardWrite = copyToClipboard

func newGenerateModel(r report.Report) generateModel {
	return generateModel{report: r, words: r.Words}
}

func newGenerateErrModel(words int, err error) generateModel {
	return generateModel{words: words, err: err}
}

func (m generateModel) Update(msg tea.Msg) (generateModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case checkResultMsg:
		// results for a passphrase no longer shown are dropped
		if !m.checking || msg.candidate != m.report.Passphrase {
			return m, nil
		}
		m.checking = false
		if msg.err != nil {
			m.flash, m.flashErr = "check: "+msg.err.Error(), true
			return m, nil
		}
		m.report = m.report.WithOccurrences(msg.occurrences)
		return m, nil

	case flashMsg:
		m.flash, m.flashErr = "", false
		return m, nil
	}

	return m, nil
}

func (m generateModel) handleKey(msg tea.KeyMsg) (generateModel, tea.Cmd) {
	if key.Matches(msg, zstyle.KeyQuit) {
		return m, tea.Quit
	}

	if key.Matches(msg, zstyle.KeyBack) {
		return m, func() tea.Msg { return navigateMsg{view: viewMenu} }
	}

	switch msg.String() {
	case "n":
		return m, regenerate(m.words)

	case "+", "=":
		if m.words < maxWords {
			return m, regenerate(m.words + 1)
		}
		return m, nil

	case "-", "_":
		if m.words > 1 {
			return m, regenerate(m.words - 1)
		}
		return m, nil
	}

	if m.err != nil {
		return m, nil
	}

	if key.Matches(msg, zstyle.KeyEnter) || msg.String() == "c" {
		if err := clipboardWrite(m.report.Passphrase); err != nil {
			m.flash, m.flashErr = "copy: "+err.Error(), true
			return m, clearFlashAfter()
		}
		m.flash, m.flashErr = "copied!", false
		return m, clearFlashAfter()
	}

	if msg.String() == "b" && !m.checking {
		m.checking = true
		pass := m.report.Passphrase
		return m, func() tea.Msg { return checkPassphraseMsg{passphrase: pass} }
	}

	return m, nil
}

func regenerate(words int) tea.Cmd {
	return func() tea.Msg { return regenerateMsg{words: words} }
}

func clearFlashAfter() tea.Cmd {
	return tea.Tick(2*time.Second, func(time.Time) tea.Msg {
		return flashMsg{}
	})
}

func (m generateModel) View() string {
	if m.err != nil {
		return "\n  " + zstyle.StatusErr.Render(m.err.Error()) + "\n\n"
	}

	r := m.report
	s := "\n  " + zstyle.ActiveBorder.Render(" "+r.Passphrase+" ") + "\n\n"

	label := func(l string) string { return zstyle.MutedText.Render(fmt.Sprintf("%-10s", l)) }

	s += fmt.Sprintf("    %s %d\n", label("words"), r.Words)
	s += fmt.Sprintf("    %s %.1f bits\n", label("entropy"), r.Entropy)
	if r.Strength != nil {
		s += fmt.Sprintf("    %s %d/4, crack time %s\n", label("strength"), r.Strength.Score, r.Strength.CrackTime)
	}

	switch {
	case m.checking:
		s += fmt.Sprintf("    %s %s\n", label("breaches"), zstyle.MutedText.Render("checking..."))
	case r.Checked && r.Occurrences > 0:
		s += fmt.Sprintf("    %s %s\n", label("breaches"), zstyle.StatusWarn.Render(fmt.Sprintf("found %d times", r.Occurrences)))
	case r.Checked:
		s += fmt.Sprintf("    %s %s\n", label("breaches"), zstyle.StatusOK.Render("not found"))
	}

	s += "\n"

	// always reserve a line for flash to prevent layout shift
	switch {
	case m.flash == "":
		s += "\n"
	case m.flashErr:
		s += "  " + zstyle.StatusErr.Render(m.flash) + "\n"
	default:
		s += "  " + zstyle.StatusOK.Render(m.flash) + "\n"
	}

	return s
}
