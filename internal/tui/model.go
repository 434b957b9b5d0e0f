package tui

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"qtermsim/circuit"
	"qtermsim/qasm"
)

// focus represents which panel has keyboard input.
type focus int

const (
	focusEditor focus = iota
	focusPalette
)

const (
	minShots   = 1
	maxShots   = 10_000_000
	runTimeout = 30 * time.Second
)

// SampleProgram is loaded when no file is given.
const SampleProgram = `OPENQASM 2.0;
include "qelib1.inc";

qreg q[2];
creg c[2];

h q[0];
cx q[0], q[1];
measure q[0] -> c[0];
measure q[1] -> c[1];
`

// Options configures a Model.
type Options struct {
	Runner *circuit.Runner
	Logger *zap.Logger
	// Path is where ctrl+s writes the editor contents.
	Path   string
	Source string
	Shots  int
}

// runFinishedMsg carries the outcome of a background run.
type runFinishedMsg struct {
	result *circuit.Result
	err    error
}

// Model represents the TUI application state.
type Model struct {
	runner *circuit.Runner
	logger *zap.Logger
	path   string
	shots  int

	editor textarea.Model
	help   help.Model
	keys   keyMap
	focus  focus

	// Last program that parsed, and its diagram
	program  *circuit.Program
	layout   *circuit.Circuit
	lastSrc  string
	parseErr error

	result  *circuit.Result
	running bool

	status    string // transient status message (e.g. save confirmation)
	statusErr bool

	// Palette state
	palette  []paletteCategory
	menuCat  int
	menuItem int

	width  int
	height int
}

// New builds the model. The editor starts focused with opts.Source loaded.
func New(opts Options) Model {
	runner := opts.Runner
	if runner == nil {
		runner = circuit.NewRunner(nil)
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	shots := opts.Shots
	if shots < minShots {
		shots = 1024
	}

	ta := textarea.New()
	ta.Placeholder = "Edit QASM here..."
	ta.SetWidth(40)
	ta.SetHeight(20)
	ta.ShowLineNumbers = true
	ta.CharLimit = 0
	ta.KeyMap.InsertNewline.SetEnabled(true)
	ta.SetValue(opts.Source)
	ta.Focus()

	m := Model{
		runner:  runner,
		logger:  logger,
		path:    opts.Path,
		shots:   shots,
		editor:  ta,
		help:    help.New(),
		keys:    defaultKeyMap(),
		focus:   focusEditor,
		palette: buildPalette(runner.Catalog()),
	}
	m.reparse()
	return m
}

// reparse refreshes the program and diagram when the editor text changed.
func (m *Model) reparse() {
	src := m.editor.Value()
	if src == m.lastSrc && (m.program != nil || m.parseErr != nil) {
		return
	}
	m.lastSrc = src

	p, err := qasm.Parse(src)
	if err != nil {
		m.parseErr = err
		m.setError(err)
		return
	}
	if m.parseErr != nil {
		m.status, m.statusErr = "", false
	}
	m.parseErr = nil
	m.program = p
	m.layout = circuit.Layout(p)
}

func (m *Model) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
}

func (m *Model) setStatus(format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.statusErr = false
}

// run starts a background run of the current program.
func (m *Model) run() tea.Cmd {
	m.reparse()
	if m.parseErr != nil {
		m.setError(m.parseErr)
		return nil
	}
	if m.running {
		return nil
	}
	m.running = true
	m.setStatus("Running %d shots…", m.shots)

	runner, p, shots := m.runner, m.program, m.shots
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()
		res, err := runner.Run(ctx, p, shots)
		return runFinishedMsg{result: res, err: err}
	}
}

func (m *Model) save() {
	if m.path == "" {
		m.setError(fmt.Errorf("no file to save to"))
		return
	}
	if err := os.WriteFile(m.path, []byte(m.editor.Value()), 0o644); err != nil {
		m.setError(fmt.Errorf("save %s: %w", m.path, err))
		return
	}
	m.logger.Info("saved program", zap.String("path", m.path))
	m.setStatus("Saved %s", m.path)
}

func (m *Model) scaleShots(up bool) {
	if up {
		m.shots = min(m.shots*10, maxShots)
	} else {
		m.shots = max(m.shots/10, minShots)
	}
	m.setStatus("Shots set to %d", m.shots)
}

// ──────────────────────────── Init / Update ────────────────────────────

func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width - 4
		m.editor.SetWidth(max(msg.Width/3-6, 20))
		m.editor.SetHeight(max(msg.Height/2-4, 4))

	case runFinishedMsg:
		m.running = false
		if msg.err != nil {
			m.logger.Warn("run failed", zap.Error(msg.err))
			m.setError(msg.err)
			break
		}
		m.result = msg.result
		m.setStatus("Ran %d shots in %s", msg.result.Shots, msg.result.Elapsed.Round(time.Microsecond))

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Run):
			return m, m.run()
		case key.Matches(msg, m.keys.Save):
			m.save()
			return m, nil
		case key.Matches(msg, m.keys.Focus):
			if m.focus == focusEditor {
				m.focus = focusPalette
				m.editor.Blur()
				return m, nil
			}
			m.focus = focusEditor
			return m, m.editor.Focus()
		}

		switch m.focus {
		case focusEditor:
			var cmd tea.Cmd
			m.editor, cmd = m.editor.Update(msg)
			cmds = append(cmds, cmd)
			m.reparse()

		case focusPalette:
			switch {
			case key.Matches(msg, m.keys.QuitAlt):
				return m, tea.Quit
			case key.Matches(msg, m.keys.MoreShots):
				m.scaleShots(true)
			case key.Matches(msg, m.keys.FewerShots):
				m.scaleShots(false)
			case key.Matches(msg, m.keys.Up):
				if m.menuItem > 0 {
					m.menuItem--
				}
			case key.Matches(msg, m.keys.Down):
				if m.menuItem < len(m.palette[m.menuCat].items)-1 {
					m.menuItem++
				}
			case key.Matches(msg, m.keys.Left):
				if m.menuCat > 0 {
					m.menuCat--
					m.menuItem = 0
				}
			case key.Matches(msg, m.keys.Right):
				if m.menuCat < len(m.palette)-1 {
					m.menuCat++
					m.menuItem = 0
				}
			case key.Matches(msg, m.keys.Insert):
				m.editor.InsertString(m.selectedItem().template + "\n")
				m.reparse()
				m.focus = focusEditor
				cmds = append(cmds, m.editor.Focus())
			}
		}
	}

	return m, tea.Batch(cmds...)
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	leftW := m.width / 3
	rightW := m.width - leftW - 4
	controls := m.renderControlsPanel(m.width - 2)
	bodyH := max(m.height-lipgloss.Height(controls)-2, 8)
	circuitH := max(bodyH/2-2, 4)

	var right string
	if m.focus == focusPalette {
		right = m.renderPalette(rightW, bodyH)
	} else {
		right = m.renderResultsPanel(rightW, bodyH)
	}

	left := lipgloss.JoinVertical(lipgloss.Left,
		m.renderQASMPanel(leftW, bodyH-circuitH-2),
		m.renderCircuitPanel(leftW, circuitH),
	)
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	return lipgloss.JoinVertical(lipgloss.Left, body, controls)
}

// Run starts the interactive program and blocks until the user quits.
func Run(opts Options) error {
	_, err := tea.NewProgram(New(opts), tea.WithAltScreen()).Run()
	return err
}
