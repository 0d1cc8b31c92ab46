package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"packsight/internal/logging"
	"packsight/internal/session"
	"packsight/internal/telemetry"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.filepicker.Height = msg.Height - 8
		m.list.SetSize(msg.Width-4, msg.Height-8)
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - 6
		return m, nil

	case spinner.TickMsg:
		if !m.isLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case packLoadedMsg:
		return m.handlePackLoaded(session.LoadResult(msg))

	case exportDoneMsg:
		if msg.err != nil {
			m.err = msg.err
			m.statusMessage = fmt.Sprintf("export failed: %v", msg.err)
			return m, nil
		}
		m.err = nil
		m.statusMessage = fmt.Sprintf("exported %s", msg.path)
		return m, nil
	}

	// The file picker drives itself with its own messages (directory
	// listings in particular); forward everything unhandled while it is up.
	if m.viewMode == FilePickerView {
		var cmd tea.Cmd
		m.filepicker, cmd = m.filepicker.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handlePackLoaded(res session.LoadResult) (tea.Model, tea.Cmd) {
	m.isLoading = false
	installed := m.session.Complete(res)

	if res.Err != nil {
		m.err = res.Err
		m.statusMessage = fmt.Sprintf("load failed: %v", res.Err)
		logging.Session("[%s] slot %s load failed: %v", m.session.ID, res.Slot, res.Err)
		return m, nil
	}
	if !installed {
		// A newer load of the same slot already landed.
		return m, nil
	}

	m.err = nil
	m.statusMessage = fmt.Sprintf("loaded %s into slot %s", res.Path, res.Slot)
	if m.viewMode == CompareView && m.session.Ready() {
		m.viewport.SetContent(m.renderCompare())
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keybindings
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		if m.viewMode != DashboardView {
			m.viewMode = DashboardView
			return m, nil
		}
		return m, tea.Quit
	}

	switch m.viewMode {
	case FilePickerView:
		return m.updateFilePicker(msg)
	case TrackListView:
		return m.updateTrackList(msg)
	}

	// Dashboard / compare keys
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "o":
		return m.openPicker(session.SlotCurrent)
	case "a":
		return m.openPicker(session.SlotA)
	case "b":
		return m.openPicker(session.SlotB)
	case "c":
		if !m.session.Ready() {
			m.statusMessage = "load packs into slots A and B first (keys a, b)"
			return m, nil
		}
		m.viewMode = CompareView
		m.viewport.SetContent(m.renderCompare())
		m.viewport.GotoTop()
		return m, nil
	case "d":
		m.viewMode = DashboardView
		return m, nil
	case "t":
		return m.openTrackList()
	case "e":
		m.statusMessage = "exporting..."
		return m, m.exportPack(m.exportSlot())
	}

	// Unhandled keys scroll the comparison table.
	if m.viewMode == CompareView {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) updateFilePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.filepicker, cmd = m.filepicker.Update(msg)

	if didSelect, path := m.filepicker.DidSelectFile(msg); didSelect {
		m.viewMode = DashboardView
		m.isLoading = true
		m.statusMessage = fmt.Sprintf("loading %s...", path)
		return m, tea.Batch(cmd, m.loadPack(m.pendingSlot, path), m.spinner.Tick)
	}

	if didSelect, path := m.filepicker.DidSelectDisabledFile(msg); didSelect {
		m.err = fmt.Errorf("file %s is not a pack (.json required)", path)
		return m, cmd
	}

	return m, cmd
}

func (m Model) updateTrackList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		if item, ok := m.list.SelectedItem().(trackItem); ok {
			m.track = item.name
			m.statusMessage = fmt.Sprintf("track: %s", item.name)
			logging.Telemetry("track switched to %s", item.name)
		}
		m.viewMode = DashboardView
		return m, nil
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) openPicker(slot session.Slot) (tea.Model, tea.Cmd) {
	m.pendingSlot = slot
	m.viewMode = FilePickerView
	return m, m.filepicker.Init()
}

func (m Model) openTrackList() (tea.Model, tea.Cmd) {
	p, ok := m.session.Get(session.SlotCurrent)
	if !ok {
		m.statusMessage = "no pack loaded (press o to open one)"
		return m, nil
	}
	names := telemetry.TrackNames(p)
	if len(names) == 0 {
		m.statusMessage = "pack has no telemetry tracks"
		return m, nil
	}
	items := make([]list.Item, len(names))
	for i, name := range names {
		items[i] = trackItem{name: name}
	}
	m.list.SetItems(items)
	m.viewMode = TrackListView
	return m, nil
}
