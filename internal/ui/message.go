package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/mixtape/internal/models"
	"github.com/desertthunder/mixtape/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgPlaylistBuilt MsgKind = iota
	MsgProgressUpdate
	MsgExportComplete
)

type buildOutcome struct {
	result *tasks.BuildResult
	err    error
}

type exportOutcome struct {
	result *models.ExportResult
	err    error
}

// playlistBuiltMsg is the constructor for [MsgPlaylistBuilt]
func playlistBuiltMsg(result *tasks.BuildResult, err error) Msg {
	return Msg{kind: MsgPlaylistBuilt, data: buildOutcome{result, err}}
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// exportCompleteMsg is the constructor for [MsgExportComplete]
func exportCompleteMsg(result *models.ExportResult, err error) Msg {
	return Msg{kind: MsgExportComplete, data: exportOutcome{result, err}}
}
