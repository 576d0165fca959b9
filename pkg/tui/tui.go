// Package tui provides a terminal editor for bass tablature
package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/james-see/basstab/pkg/session"
	"github.com/james-see/basstab/pkg/tab"
)

var (
	amber    = lipgloss.Color("#FFB000")
	cream    = lipgloss.Color("#F5E6C8")
	walnut   = lipgloss.Color("#3B2A1A")
	dimGray  = lipgloss.Color("#666666")
	errorRed = lipgloss.Color("#FF4040")
	okGreen  = lipgloss.Color("#7CFC00")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(amber).
			Background(walnut).
			Padding(0, 2).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(cream).
			Width(10)

	focusedLabelStyle = labelStyle.
				Foreground(amber).
				Bold(true)

	segmentStyle = lipgloss.NewStyle().
			Foreground(dimGray).
			Padding(0, 1)

	activeSegmentStyle = lipgloss.NewStyle().
				Foreground(walnut).
				Background(amber).
				Bold(true).
				Padding(0, 1)

	tabStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(amber).
			Padding(0, 1)

	errorStyle   = lipgloss.NewStyle().Foreground(errorRed).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(okGreen)
)

// Field is the input selector that has focus
type Field int

const (
	FieldString Field = iota
	FieldFret
	FieldDuration
	numFields
)

// State represents the current TUI state
type State int

const (
	StateEdit State = iota
	StateConfirmReset
	StateEditTitle
	StateEditArtist
)

var stringNames = []string{"E", "A", "D", "G"}

const maxFret = 24

// Options configures a new editor
type Options struct {
	String   int
	Fret     int
	Duration tab.Duration
	// SavePath is where ctrl+s writes the sheet; saving is disabled when empty.
	SavePath string
	Logger   *slog.Logger
}

// Model represents the TUI model
type Model struct {
	session  *session.Session
	state    State
	focus    Field
	str      int
	fret     int
	duration int // index into tab.Durations
	savePath string
	status   string
	err      error
	help     help.Model
	input    textinput.Model
	log      *slog.Logger
	width    int
}

// savedMsg signals that a save finished
type savedMsg struct {
	path string
	err  error
}

// New creates an editor for s
func New(s *session.Session, opts Options) Model {
	m := Model{
		session:  s,
		str:      1,
		savePath: opts.SavePath,
		help:     help.New(),
		input:    textinput.New(),
		log:      opts.Logger,
	}
	m.input.CharLimit = 120
	if m.log == nil {
		m.log = slog.Default()
	}
	if opts.String >= tab.LowestString && opts.String <= tab.HighestString {
		m.str = opts.String
	}
	if opts.Fret >= 0 && opts.Fret <= maxFret {
		m.fret = opts.Fret
	}
	m.duration = 2
	for i, d := range tab.Durations {
		if d == opts.Duration {
			m.duration = i
		}
	}
	return m
}

// Init initializes the TUI model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles TUI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.status = ""
			return m, nil
		}
		m.err = nil
		m.status = "Saved " + filepath.Base(msg.path)
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case StateConfirmReset:
			return m.updateConfirm(msg)
		case StateEditTitle, StateEditArtist:
			return m.updateMetadata(msg)
		}
		return m.updateEdit(msg)
	}

	if m.state == StateEditTitle || m.state == StateEditArtist {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Up):
		m.focus = (m.focus + numFields - 1) % numFields
	case key.Matches(msg, keys.Down):
		m.focus = (m.focus + 1) % numFields
	case key.Matches(msg, keys.Left):
		m.step(-1)
	case key.Matches(msg, keys.Right):
		m.step(1)
	case key.Matches(msg, keys.AddNote):
		m.add(false)
	case key.Matches(msg, keys.AddRest):
		m.add(true)
	case key.Matches(msg, keys.UndoNote):
		m.err = nil
		if m.session.UndoNote() {
			m.status = "Removed last note"
		} else {
			m.status = "Nothing to undo"
		}
	case key.Matches(msg, keys.UndoMeasure):
		m.err = nil
		m.session.UndoMeasure()
		m.status = "Removed last measure"
	case key.Matches(msg, keys.Reset):
		m.state = StateConfirmReset
	case key.Matches(msg, keys.Title):
		title, _ := m.session.Metadata()
		cmd := m.startInput(StateEditTitle, "Title", title)
		return m, cmd
	case key.Matches(msg, keys.Artist):
		_, artist := m.session.Metadata()
		cmd := m.startInput(StateEditArtist, "Artist", artist)
		return m, cmd
	case key.Matches(msg, keys.Save):
		if m.savePath == "" {
			m.err = errors.New("no file to save to; start with a sheet path")
			return m, nil
		}
		return m, m.save()
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.session.Reset()
		m.status = "Tablature has been reset"
		m.err = nil
	default:
		m.status = ""
	}
	m.state = StateEdit
	return m, nil
}

func (m *Model) startInput(state State, label, value string) tea.Cmd {
	m.state = state
	m.err = nil
	m.status = ""
	m.input.Prompt = label + ": "
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

// updateMetadata edits the title or artist; enter keeps the text, esc drops it
func (m Model) updateMetadata(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		title, artist := m.session.Metadata()
		value := strings.TrimSpace(m.input.Value())
		if m.state == StateEditTitle {
			title = value
			m.status = "Title updated"
		} else {
			artist = value
			m.status = "Artist updated"
		}
		m.session.SetMetadata(title, artist)
		m.log.Debug("metadata updated", "title", title, "artist", artist)
	case tea.KeyEsc, tea.KeyCtrlC:
		m.status = ""
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	m.input.Blur()
	m.state = StateEdit
	return m, nil
}

// step moves the focused selector by delta, wrapping around
func (m *Model) step(delta int) {
	wrap := func(v, n int) int { return ((v % n) + n) % n }
	switch m.focus {
	case FieldString:
		m.str = wrap(m.str-1+delta, tab.NumStrings) + 1
	case FieldFret:
		m.fret = wrap(m.fret+delta, maxFret+1)
	case FieldDuration:
		m.duration = wrap(m.duration+delta, len(tab.Durations))
	}
}

func (m *Model) add(rest bool) {
	n, err := m.session.Add(m.str, m.fret, tab.Durations[m.duration], rest)
	if err != nil {
		m.err = err
		m.status = ""
		return
	}
	m.err = nil
	m.status = "Added " + n.String()
	m.log.Debug("note added", "note", n.String())
}

func (m Model) save() tea.Cmd {
	s, path := m.session, m.savePath
	return func() tea.Msg {
		if err := s.Sheet().Save(path); err != nil {
			return savedMsg{path: path, err: err}
		}
		return savedMsg{path: path}
	}
}

// View renders the TUI
func (m Model) View() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" BASS TAB "))
	s.WriteString("\n")

	s.WriteString(m.selector(FieldString, "String", stringNames, m.str-1))
	s.WriteString(m.selector(FieldFret, "Fret", []string{fmt.Sprintf("< %2d >", m.fret)}, 0))
	names := make([]string, len(tab.Durations))
	for i, d := range tab.Durations {
		names[i] = d.String()
	}
	s.WriteString(m.selector(FieldDuration, "Duration", names, m.duration))
	s.WriteString("\n")

	s.WriteString(tabStyle.Render(strings.TrimRight(m.session.Preview(), "\n")))
	s.WriteString("\n")

	switch {
	case m.state == StateEditTitle || m.state == StateEditArtist:
		s.WriteString(m.input.View())
	case m.state == StateConfirmReset:
		s.WriteString(errorStyle.Render("Reset the whole tablature? (y/n)"))
	case m.err != nil:
		s.WriteString(errorStyle.Render("✗ " + m.err.Error()))
	case m.status != "":
		s.WriteString(successStyle.Render(m.status))
	}
	s.WriteString("\n")

	s.WriteString(m.help.View(keys))
	return s.String()
}

func (m Model) selector(f Field, label string, values []string, active int) string {
	var s strings.Builder
	if m.focus == f {
		s.WriteString(focusedLabelStyle.Render("▸ " + label))
	} else {
		s.WriteString(labelStyle.Render("  " + label))
	}
	for i, v := range values {
		if i == active {
			s.WriteString(activeSegmentStyle.Render(v))
		} else {
			s.WriteString(segmentStyle.Render(v))
		}
	}
	s.WriteString("\n")
	return s.String()
}

// Run starts the TUI application
func Run(s *session.Session, opts Options) error {
	p := tea.NewProgram(New(s, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
