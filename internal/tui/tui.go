// Package tui implements the root Bubble Tea model for zphrase.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/zarlcorp/core/pkg/zstyle"
	"github.com/zarlcorp/zphrase/internal/report"
)

type viewID int

const (
	viewMenu viewID = iota
	viewGenerate
	viewCheck
)

// accent is the zphrase brand color.
var accent = lipgloss.Color("#f5a524")

// Generator produces passphrases.
type Generator interface {
	Generate(count int, delim string) (string, error)
	Entropy(count int) float64
}

// Checker counts breach occurrences of a candidate.
type Checker interface {
	Occurrences(ctx context.Context, candidate string) (int, error)
}

// Settings are the starting generate parameters.
type Settings struct {
	Words     int
	Delimiter string
}

// maxWords caps the word count adjustable from the generate view.
const maxWords = 12

// Model is the root TUI model.
type Model struct {
	ctx      context.Context
	version  string
	gen      Generator
	checker  Checker
	settings Settings

	active   viewID
	menu     menuModel
	generate generateModel
	check    checkModel

	// terminal dimensions
	width  int
	height int
}

// New creates the root TUI model.
func New(ctx context.Context, version string, gen Generator, checker Checker, s Settings) Model {
	if s.Words < 1 {
		s.Words = 1
	}
	return Model{
		ctx:      ctx,
		version:  version,
		gen:      gen,
		checker:  checker,
		settings: s,
		active:   viewMenu,
		menu:     newMenuModel(version),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case navigateMsg:
		return m.navigate(msg.view)

	case regenerateMsg:
		m.settings.Words = msg.words
		return m.newPassphrase()

	case checkPassphraseMsg:
		return m, m.runCheck(msg.passphrase, true)

	case checkCandidateMsg:
		return m, m.runCheck(msg.candidate, false)

	case checkResultMsg:
		if msg.generated {
			m.generate, _ = m.generate.Update(msg)
			return m, nil
		}
		m.check, _ = m.check.Update(msg)
		return m, nil
	}

	return m.updateActive(msg)
}

func (m Model) View() string {
	if m.active == viewMenu {
		return m.menu.View()
	}

	var content string
	switch m.active {
	case viewGenerate:
		content = m.generate.View()
	case viewCheck:
		content = m.check.View()
	}

	header := renderHeader(viewTitle(m.active))
	sep := zstyle.RenderSeparator(m.width)
	footer := zstyle.RenderFooter(helpFor(m.active))

	return "\n" + header + "\n" + sep + "\n" + content + "\n" + footer + "\n"
}

func renderHeader(title string) string {
	name := lipgloss.NewStyle().Foreground(accent).Bold(true).Render("zphrase")
	return "  " + name + " " + zstyle.MutedText.Render("/ "+title)
}

// viewTitle returns the display title for each view.
func viewTitle(id viewID) string {
	switch id {
	case viewGenerate:
		return "Generate Passphrase"
	case viewCheck:
		return "Breach Check"
	}
	return ""
}

// helpFor returns keybinding pairs for each view's footer.
func helpFor(id viewID) []zstyle.HelpPair {
	switch id {
	case viewGenerate:
		return []zstyle.HelpPair{
			{Key: "enter", Desc: "copy"},
			{Key: "n", Desc: "new"},
			{Key: "+/-", Desc: "words"},
			{Key: "b", Desc: "breach check"},
			{Key: "esc", Desc: "back"},
			{Key: "q", Desc: "quit"},
		}
	case viewCheck:
		return []zstyle.HelpPair{
			{Key: "enter", Desc: "check"},
			{Key: "esc", Desc: "back"},
			{Key: "ctrl+c", Desc: "quit"},
		}
	}
	return nil
}

func (m Model) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.active {
	case viewMenu:
		m.menu, cmd = m.menu.Update(msg)
	case viewGenerate:
		m.generate, cmd = m.generate.Update(msg)
	case viewCheck:
		m.check, cmd = m.check.Update(msg)
	}

	return m, cmd
}

func (m Model) navigate(view viewID) (tea.Model, tea.Cmd) {
	switch view {
	case viewGenerate:
		return m.newPassphrase()
	case viewCheck:
		m.check = newCheckModel()
		m.active = viewCheck
		return m, m.check.Init()
	}

	m.active = view
	return m, nil
}

// newPassphrase generates with the current settings and shows the result.
func (m Model) newPassphrase() (tea.Model, tea.Cmd) {
	count := m.settings.Words
	pass, err := m.gen.Generate(count, m.settings.Delimiter)
	if err != nil {
		m.generate = newGenerateErrModel(count, err)
	} else {
		m.generate = newGenerateModel(report.Generated(pass, count, m.gen.Entropy(count)))
	}
	m.active = viewGenerate
	return m, nil
}

// runCheck looks a candidate up off the update loop.
func (m Model) runCheck(candidate string, generated bool) tea.Cmd {
	ctx, checker := m.ctx, m.checker
	return func() tea.Msg {
		n, err := checker.Occurrences(ctx, candidate)
		return checkResultMsg{candidate: candidate, occurrences: n, err: err, generated: generated}
	}
}
