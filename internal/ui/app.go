package ui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/wallweather/internal/logtail"
	"github.com/five82/wallweather/internal/prefs"
	"github.com/five82/wallweather/internal/state"
)

const (
	defaultRefresh = time.Second
	logTailLines   = 400
)

// Options configures the dashboard.
type Options struct {
	Store        *state.Store
	LogPath      string
	BasePath     string
	RefreshEvery time.Duration
	ThemeName    string
	HideLogs     bool
	PrefsPath    string // empty uses ~/.config/wallweather/prefs.toml
}

// Model is the root dashboard state for Bubble Tea.
type Model struct {
	store     *state.Store
	logPath   string
	basePath  string
	prefsPath string
	refresh   time.Duration
	now       func() time.Time

	keys  keyMap
	help  help.Model
	theme Theme

	width    int
	height   int
	ready    bool
	hideLogs bool
	follow   bool

	snapshot    state.Snapshot
	hasSnapshot bool

	logViewport viewport.Model
	logLines    []string
	logErr      error
}

// New creates the dashboard model.
func New(opts Options) Model {
	refresh := opts.RefreshEvery
	if refresh <= 0 {
		refresh = defaultRefresh
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	return Model{
		store:     opts.Store,
		logPath:   opts.LogPath,
		basePath:  opts.BasePath,
		prefsPath: prefsPath,
		refresh:   refresh,
		now:       time.Now,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		theme:     GetTheme(opts.ThemeName),
		hideLogs:  opts.HideLogs,
		follow:    true,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := m.refreshCmds()
	cmds = append(cmds, tickCmd(m.refresh))
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if !m.ready {
			m.logViewport = viewport.New(m.logWidth(), m.logHeight())
			m.ready = true
		}
		m.layout()
		return m, nil

	case tickMsg:
		cmds := m.refreshCmds()
		cmds = append(cmds, tickCmd(m.refresh))
		return m, tea.Batch(cmds...)

	case snapshotMsg:
		m.snapshot = msg.snapshot
		m.hasSnapshot = msg.ok
		if m.ready {
			m.layout()
		}
		return m, nil

	case logLinesMsg:
		m.logLines = msg.lines
		m.logErr = msg.err
		m.updateLogViewport()
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	return m.renderMain()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.layout()
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.ToggleLogs):
		m.hideLogs = !m.hideLogs
		m.savePrefs()
		m.layout()
		if !m.hideLogs {
			return m, readLogsCmd(m.logPath)
		}
		return m, nil

	case key.Matches(msg, m.keys.Top):
		m.logViewport.GotoTop()
		m.follow = false
		return m, nil

	case key.Matches(msg, m.keys.Bottom):
		m.logViewport.GotoBottom()
		m.follow = true
		return m, nil
	}

	if m.hideLogs || !m.ready {
		return m, nil
	}
	var cmd tea.Cmd
	m.logViewport, cmd = m.logViewport.Update(msg)
	m.follow = m.logViewport.AtBottom()
	return m, cmd
}

func (m *Model) savePrefs() {
	_ = prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name, HideLogs: m.hideLogs})
}

// layout resizes the log viewport to whatever the status panel leaves free.
func (m *Model) layout() {
	if !m.ready {
		return
	}
	m.logViewport.Width = m.logWidth()
	m.logViewport.Height = m.logHeight()
	m.updateLogViewport()
}

func (m Model) logWidth() int {
	return max(m.width-4, 10)
}

func (m Model) logHeight() int {
	used := 1 + m.statusHeight() + m.footerHeight() + 2
	return max(m.height-used, 1)
}

func (m Model) refreshCmds() []tea.Cmd {
	var cmds []tea.Cmd
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if !m.hideLogs && m.logPath != "" {
		cmds = append(cmds, readLogsCmd(m.logPath))
	}
	return cmds
}

// Messages

type tickMsg time.Time

type snapshotMsg struct {
	snapshot state.Snapshot
	ok       bool
}

type logLinesMsg struct {
	lines []string
	err   error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		snap, ok := store.Snapshot()
		return snapshotMsg{snapshot: snap, ok: ok}
	}
}

func readLogsCmd(path string) tea.Cmd {
	return func() tea.Msg {
		lines, err := logtail.Read(path, logTailLines)
		return logLinesMsg{lines: lines, err: err}
	}
}

// Run starts the dashboard and blocks until the user quits or ctx is done.
func Run(ctx context.Context, opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil && errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
