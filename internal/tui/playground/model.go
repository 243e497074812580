// ============================================================================
// kthxbye - LOLCODE Interpreter
// ============================================================================
//
// Package:     playground
// Description: Bubbletea model: program editor, input words and output pane
// Author:      Mike Stoffels
// Created:     2026-10-18
// License:     MIT
// ============================================================================

package playground

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/msto63/kthxbye/internal/engine"
	"github.com/msto63/kthxbye/internal/lolcode/source"
	"github.com/msto63/kthxbye/pkg/core/version"
)

// FocusArea represents which area has focus
type FocusArea int

const (
	FocusEditor FocusArea = iota
	FocusInput
	FocusOutput
)

func (f FocusArea) next() FocusArea {
	return (f + 1) % 3
}

// DefaultProgram is shown when no file is opened
const DefaultProgram = `HAI 1.2
I HAS A name ITZ "KITTEH"
VISIBLE "O HAI " name
KTHXBYE`

// Config holds playground configuration
type Config struct {
	Engine *engine.Engine
	Name   string
	Source string
}

// Model is the bubbletea model of the playground
type Model struct {
	width   int
	height  int
	ready   bool
	running bool
	focus   FocusArea

	editor   textarea.Model
	input    textinput.Model
	output   viewport.Model
	spinner  spinner.Model
	engine   *engine.Engine
	name     string
	last     *engine.Report
	lastErr  error
	rendered string
}

// New creates a playground model
func New(cfg Config) Model {
	ed := textarea.New()
	ed.Placeholder = "HAI ..."
	ed.ShowLineNumbers = true
	ed.CharLimit = 0
	ed.SetWidth(80)
	ed.SetHeight(12)
	ed.FocusedStyle.CursorLine = lipgloss.NewStyle()
	src := cfg.Source
	if src == "" {
		src = DefaultProgram
	}
	ed.SetValue(src)
	ed.Focus()

	in := textinput.New()
	in.Placeholder = "words for GIMMEH, separated by spaces"
	in.Prompt = "GIMMEH> "

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = SpinnerStyle

	name := cfg.Name
	if name == "" {
		name = "playground.lol"
	}

	return Model{
		editor:  ed,
		input:   in,
		output:  viewport.New(80, 8),
		spinner: sp,
		engine:  cfg.Engine,
		name:    name,
		focus:   FocusEditor,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if next, cmd, handled := m.handleKey(msg); handled {
			return next, cmd
		}

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case spinner.TickMsg:
		if m.running {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case runFinishedMsg:
		m.running = false
		m.last = msg.report
		m.lastErr = msg.err
		m.rendered = renderReport(msg.report, msg.err)
		m.output.SetContent(m.rendered)
		m.output.GotoTop()
	}

	switch m.focus {
	case FocusEditor:
		m.editor, cmd = m.editor.Update(msg)
		cmds = append(cmds, cmd)
	case FocusInput:
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	case FocusOutput:
		m.output, cmd = m.output.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleKey processes global shortcuts. Unhandled keys go to the
// focused component.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit, true

	case tea.KeyTab:
		m.setFocus(m.focus.next())
		return m, nil, true

	case tea.KeyCtrlR:
		if m.running || m.engine == nil {
			return m, nil, true
		}
		m.running = true
		return m, tea.Batch(m.spinner.Tick, m.run()), true

	case tea.KeyCtrlL:
		m.last, m.lastErr, m.rendered = nil, nil, ""
		m.output.SetContent("")
		return m, nil, true
	}
	return m, nil, false
}

func (m *Model) setFocus(f FocusArea) {
	m.focus = f
	m.editor.Blur()
	m.input.Blur()
	switch f {
	case FocusEditor:
		m.editor.Focus()
	case FocusInput:
		m.input.Focus()
	}
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	// header, input line, status and help take about 9 rows; borders 6
	avail := height - 15
	if avail < 6 {
		avail = 6
	}
	editorHeight := avail * 3 / 5
	outputHeight := avail - editorHeight

	m.editor.SetWidth(width - 6)
	m.editor.SetHeight(editorHeight)
	m.input.Width = width - 14
	m.output.Width = width - 6
	m.output.Height = outputHeight
	m.output.SetContent(m.rendered)
	m.ready = true
}

// run returns a command executing the editor contents
func (m Model) run() tea.Cmd {
	eng := m.engine
	prog := source.FromString(m.name, m.editor.Value())
	words := strings.Fields(m.input.Value())
	return func() tea.Msg {
		report, err := eng.Run(context.Background(), engine.Request{
			Program:    prog,
			InputWords: words,
		})
		return runFinishedMsg{report: report, err: err}
	}
}

func renderReport(report *engine.Report, err error) string {
	if err != nil {
		return DiagnosticStyle.Render(err.Error())
	}
	if report == nil {
		return ""
	}

	var b strings.Builder
	if report.Output != "" {
		b.WriteString(ProgramOutputStyle.Render(strings.TrimSuffix(report.Output, "\n")))
		b.WriteString("\n")
	}
	if report.Diagnostic != "" {
		b.WriteString(DiagnosticStyle.Render(report.Diagnostic))
		b.WriteString("\n")
	}
	if report.Valid {
		b.WriteString(ValidStyle.Render(report.Verdict))
	} else {
		b.WriteString(InvalidStyle.Render(report.Verdict))
	}
	b.WriteString("\n")
	b.WriteString(MetaStyle.Render(fmt.Sprintf("%d tokens in %s", len(report.Tokens), report.Duration)))
	return b.String()
}

// View renders the model
func (m Model) View() string {
	if !m.ready {
		return "Loading playground..."
	}

	var b strings.Builder
	b.WriteString(LogoStyle.Render(Logo) + "  " + SubHeaderStyle.Render(m.name))
	b.WriteString("\n")
	b.WriteString(m.panel(FocusEditor, "Program", m.editor.View()))
	b.WriteString("\n")
	b.WriteString(m.panel(FocusInput, "Input", m.input.View()))
	b.WriteString("\n")

	out := m.output.View()
	if m.running {
		out = m.spinner.View() + MetaStyle.Render(" running...")
	}
	b.WriteString(m.panel(FocusOutput, "Output", out))
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	b.WriteString("\n")
	b.WriteString(HelpStyle.Render(strings.Join([]string{
		RenderKeyHint("Ctrl+R", "run"),
		RenderKeyHint("Tab", "focus"),
		RenderKeyHint("Ctrl+L", "clear"),
		RenderKeyHint("Ctrl+C", "quit"),
	}, "  ")))
	return b.String()
}

func (m Model) panel(area FocusArea, title, body string) string {
	style := PanelStyle
	if m.focus == area {
		style = FocusedPanelStyle
	}
	return style.Width(m.width - 2).Render(PanelTitleStyle.Render(title) + "\n" + body)
}

func (m Model) renderStatusBar() string {
	var status string
	switch {
	case m.lastErr != nil:
		status = InvalidStyle.Render("error")
	case m.last == nil:
		status = MetaStyle.Render("not run")
	case m.last.Valid:
		status = ValidStyle.Render("valid")
	default:
		status = InvalidStyle.Render(fmt.Sprintf("line %d", m.last.Line))
	}

	left := HelpDescStyle.Render("kthxbye v" + version.App)
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(status) - 4
	if gap < 1 {
		gap = 1
	}
	return StatusBarStyle.Width(m.width - 2).Render(left + strings.Repeat(" ", gap) + status)
}

// Output returns the rendered output pane content
func (m Model) Output() string {
	return m.rendered
}

// Focus returns the focused area
func (m Model) Focus() FocusArea {
	return m.focus
}

// Run starts the playground until the user quits
func Run(cfg Config) error {
	_, err := tea.NewProgram(New(cfg), tea.WithAltScreen()).Run()
	return err
}
