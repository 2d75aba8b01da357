package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/mixtape/internal/formatter"
	"github.com/desertthunder/mixtape/internal/models"
	"github.com/desertthunder/mixtape/internal/tasks"
)

var styles = formatter.DefaultPalette

// Size used until the first [tea.WindowSizeMsg] arrives.
const (
	defaultWidth  = 80
	defaultHeight = 30
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	BuildingView ViewState = iota
	TrackListView
	ConfirmView
	ExportView
	ResultView
)

// Builder assembles playlists. Satisfied by [tasks.Builder].
type Builder interface {
	Build(ctx context.Context, req models.PlaylistRequest) (*tasks.BuildResult, error)
}

// Exporter creates playlists on one platform. Satisfied by [tasks.Exporter].
type Exporter interface {
	Platform() string
	Export(ctx context.Context, req models.ExportRequest, progress chan<- tasks.ProgressUpdate) (*models.ExportResult, error)
}

// Model represents the TUI application state.
type Model struct {
	ctx       context.Context
	view      ViewState
	request   models.PlaylistRequest
	builder   Builder
	exporters []Exporter
	target    int
	width     int
	height    int

	built        *tasks.BuildResult
	trackList    list.Model
	progressChan chan tasks.ProgressUpdate
	outcomes     chan exportOutcome
	progress     tasks.ProgressUpdate
	result       *models.ExportResult
	err          error

	spinner spinner.Model
	bar     progress.Model
	help    help.Model
	keys    keyMap
}

// NewModel creates a new TUI model for req. Exporters are offered in the given order.
func NewModel(ctx context.Context, builder Builder, req models.PlaylistRequest, exporters ...Exporter) *Model {
	return &Model{
		ctx:       ctx,
		view:      BuildingView,
		request:   req,
		builder:   builder,
		exporters: exporters,
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.OK)),
		bar:       progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Init starts building the playlist.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.buildPlaylist())
}

// Err returns the last build or export error.
func (m *Model) Err() error {
	return m.err
}

// Result returns the export result, if an export completed.
func (m *Model) Result() *models.ExportResult {
	return m.result
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = min(max(msg.Width-8, 10), 60)
		if m.built != nil {
			m.trackList.SetSize(msg.Width-4, msg.Height-10)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.view {
		case TrackListView:
			return m.handleTrackListKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}
		return m, nil

	case spinner.TickMsg:
		if m.view != BuildingView && m.view != ExportView {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateList(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgPlaylistBuilt:
		outcome := msg.data.(buildOutcome)
		if outcome.err != nil {
			m.err = outcome.err
			m.view = ResultView
			return m, nil
		}
		m.built = outcome.result
		width, height := defaultWidth, defaultHeight
		if m.width > 0 {
			width, height = m.width, m.height
		}
		m.trackList = list.New(trackItems(outcome.result.Playlist.Tracks), list.NewDefaultDelegate(), width-4, height-10)
		m.trackList.Title = fmt.Sprintf("Tracks (%d)", len(outcome.result.Playlist.Tracks))
		m.trackList.SetShowHelp(false)
		m.view = TrackListView
		return m, nil

	case MsgProgressUpdate:
		m.progress = msg.data.(tasks.ProgressUpdate)
		return m, waitForProgress(m.progressChan, m.outcomes)

	case MsgExportComplete:
		outcome := msg.data.(exportOutcome)
		m.result = outcome.result
		m.err = outcome.err
		m.progressChan = nil
		m.outcomes = nil
		m.view = ResultView
		return m, nil
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case BuildingView:
		return m.renderBuilding()
	case TrackListView:
		return m.renderTrackList()
	case ConfirmView:
		return m.renderConfirm()
	case ExportView:
		return m.renderExport()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleTrackListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.trackList.FilterState() == list.Filtering {
		return m.updateList(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.platform):
		if len(m.exporters) > 0 {
			m.target = (m.target + 1) % len(m.exporters)
		}
		return m, nil
	case key.Matches(msg, m.keys.rebuild):
		return m, m.rebuild()
	case key.Matches(msg, m.keys.enter):
		if len(m.exporters) > 0 && len(m.built.Playlist.Tracks) > 0 {
			m.view = ConfirmView
		}
		return m, nil
	}

	return m.updateList(msg)
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.yes):
		m.view = ExportView
		return m, tea.Batch(m.spinner.Tick, m.startExport())
	case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.quit):
		m.view = TrackListView
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.rebuild):
		return m, m.rebuild()
	case key.Matches(msg, m.keys.back):
		if m.built != nil {
			m.result = nil
			m.err = nil
			m.view = TrackListView
		}
	}
	return m, nil
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.view != TrackListView {
		return m, nil
	}
	var cmd tea.Cmd
	m.trackList, cmd = m.trackList.Update(msg)
	return m, cmd
}

func (m *Model) rebuild() tea.Cmd {
	m.view = BuildingView
	m.built = nil
	m.result = nil
	m.err = nil
	return tea.Batch(m.spinner.Tick, m.buildPlaylist())
}

func (m *Model) buildPlaylist() tea.Cmd {
	ctx, builder, req := m.ctx, m.builder, m.request
	return func() tea.Msg {
		result, err := builder.Build(ctx, req)
		return playlistBuiltMsg(result, err)
	}
}

func (m *Model) startExport() tea.Cmd {
	progressChan := make(chan tasks.ProgressUpdate, 32)
	outcomes := make(chan exportOutcome, 1)
	m.progressChan = progressChan
	m.outcomes = outcomes
	m.progress = tasks.ProgressUpdate{}

	ctx, exporter := m.ctx, m.exporters[m.target]
	req := models.ExportRequestFrom(m.built.Playlist)

	go func() {
		result, err := exporter.Export(ctx, req, progressChan)
		outcomes <- exportOutcome{result, err}
		close(progressChan)
	}()

	return waitForProgress(progressChan, outcomes)
}

func waitForProgress(progressChan <-chan tasks.ProgressUpdate, outcomes <-chan exportOutcome) tea.Cmd {
	return func() tea.Msg {
		update, ok := <-progressChan
		if !ok {
			outcome := <-outcomes
			return exportCompleteMsg(outcome.result, outcome.err)
		}
		return progressUpdateMsg(update)
	}
}

// progressPercent maps an export phase onto a completion ratio for the progress bar.
func progressPercent(update tasks.ProgressUpdate) float64 {
	switch update.Phase {
	case tasks.Unauthenticated:
		return 0.05
	case tasks.Authenticated:
		return 0.1
	case tasks.TracksResolving:
		if update.Total <= 0 {
			return 0.1
		}
		return 0.1 + 0.7*float64(update.Step)/float64(update.Total)
	case tasks.PlaylistCreated:
		return 0.85
	case tasks.ItemsAdded:
		return 1
	default:
		return 0
	}
}

func (m *Model) platform() string {
	if len(m.exporters) == 0 {
		return "none configured"
	}
	return m.exporters[m.target].Platform()
}

func (m *Model) renderBuilding() string {
	return fmt.Sprintf("%s Building a %s playlist from %s...\n",
		m.spinner.View(), m.request.Genre, strings.Join(m.request.Artists, ", "))
}

func (m *Model) renderTrackList() string {
	playlist := m.built.Playlist

	var b strings.Builder
	b.WriteString(styles.Title.Render(playlist.Title))
	b.WriteString("\n")
	if playlist.Description != "" {
		b.WriteString(styles.Help.Render(playlist.Description))
		b.WriteString("\n")
	}
	if len(playlist.Advisories) > 0 {
		b.WriteString(styles.Warn.Render("⚠ " + playlist.Advisories.String()))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if len(playlist.Tracks) == 0 {
		b.WriteString(styles.Err.Render("No tracks"))
		b.WriteString("\n\n")
		b.WriteString(m.help.ShortHelpView([]key.Binding{m.keys.rebuild, m.keys.quit}))
		return b.String()
	}

	b.WriteString(m.trackList.View())
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Export to: %s\n", styles.OK.Render(m.platform()))
	b.WriteString(m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.platform, m.keys.rebuild, m.keys.quit}))
	return b.String()
}

func (m *Model) renderConfirm() string {
	playlist := m.built.Playlist
	title := styles.Title.Render(fmt.Sprintf("Export '%s' to %s?", playlist.Title, m.platform()))
	info := fmt.Sprintf("\nTracks: %d\n", len(playlist.Tracks))

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.yes, m.keys.no})
	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderExport() string {
	title := styles.Title.Render(fmt.Sprintf("Exporting to %s", m.platform()))

	var phase string
	switch m.progress.Phase {
	case tasks.Unauthenticated, tasks.Authenticated:
		phase = "Authenticating..."
	case tasks.TracksResolving:
		phase = fmt.Sprintf("Searching tracks (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.PlaylistCreated:
		phase = "Adding tracks..."
	default:
		phase = "Processing..."
	}

	return fmt.Sprintf("%s\n\n%s %s\n%s\n%s", title, m.spinner.View(), phase, m.bar.ViewAs(progressPercent(m.progress)), m.progress.Message)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		label := "Export failed"
		if m.built == nil {
			label = "Build failed"
		}
		helpView := m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.rebuild, m.keys.quit})
		return fmt.Sprintf("%s\n\n%s", styles.Err.Render(fmt.Sprintf("%s: %v", label, m.err)), helpView)
	}

	if m.result == nil {
		return styles.Err.Render("No result available") + "\n\n" + m.help.ShortHelpView([]key.Binding{m.keys.rebuild, m.keys.quit})
	}

	title := styles.OK.Render("✓ Export Complete!")
	info := fmt.Sprintf("\nPlatform: %s\nTracks: %d/%d\nURL: %s",
		m.result.Platform, m.result.Resolved, m.result.Requested, m.result.URL)

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.rebuild, m.keys.quit})
	return fmt.Sprintf("%s\n%s\n\n%s", title, info, helpView)
}
