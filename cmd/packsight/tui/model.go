// Package tui provides the interactive audit interface for packsight.
// The interface is split across multiple files:
//   - model.go: Types, messages, Init (this file)
//   - update.go: The update loop and key handling
//   - view.go: Rendering functions
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"packsight/cmd/packsight/ui"
	"packsight/internal/config"
	"packsight/internal/session"
)

// ViewMode determines which component is focused/active
type ViewMode int

const (
	DashboardView ViewMode = iota
	CompareView
	FilePickerView
	TrackListView
)

// trackItem is a list item for the telemetry track selector
type trackItem struct {
	name string
}

func (i trackItem) Title() string       { return i.name }
func (i trackItem) Description() string { return "telemetry track" }
func (i trackItem) FilterValue() string { return i.name }

// Messages for tea updates
type (
	packLoadedMsg session.LoadResult

	exportDoneMsg struct {
		path string
		err  error
	}
)

// Model is the main model for the interactive audit interface
type Model struct {
	// UI Components
	filepicker filepicker.Model
	list       list.Model
	viewport   viewport.Model
	spinner    spinner.Model
	styles     ui.Styles

	viewMode ViewMode

	// Pack state
	session     *session.Session
	pendingSlot session.Slot
	track       string

	// Config
	cfg *config.Config

	// State
	isLoading     bool
	err           error
	statusMessage string
	width         int
	height        int
	ready         bool
}

// NewModel builds the audit interface over an existing session. startDir
// seeds the file picker, usually the working directory.
func NewModel(cfg *config.Config, sess *session.Session, startDir string) Model {
	styles := ui.DefaultStyles()

	fp := filepicker.New()
	fp.AllowedTypes = []string{".json"}
	fp.CurrentDirectory = startDir

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Telemetry tracks"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)

	return Model{
		filepicker:  fp,
		list:        l,
		viewport:    viewport.New(0, 0),
		spinner:     sp,
		styles:      styles,
		session:     sess,
		pendingSlot: session.SlotCurrent,
		track:       cfg.Plot.DefaultTrack,
		cfg:         cfg,
	}
}

// Init initializes the audit model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.filepicker.Init(),
	)
}

// loadPack starts an asynchronous load into a slot. The generation token
// ties the eventual result to this attempt so a superseded read is
// dropped instead of installed.
func (m *Model) loadPack(slot session.Slot, path string) tea.Cmd {
	gen := m.session.Begin(slot)
	return func() tea.Msg {
		return packLoadedMsg(session.Read(slot, gen, path))
	}
}

// exportPack writes the audited pack as a dated receipt.
func (m *Model) exportPack(slot session.Slot) tea.Cmd {
	sess, dir := m.session, m.cfg.Export.Dir
	return func() tea.Msg {
		path, err := sess.Export(slot, dir, time.Now())
		return exportDoneMsg{path: path, err: err}
	}
}

// exportSlot picks which slot an export targets: the single-pack slot
// when populated, otherwise side A of the comparison.
func (m *Model) exportSlot() session.Slot {
	if _, ok := m.session.Get(session.SlotCurrent); ok {
		return session.SlotCurrent
	}
	return session.SlotA
}
