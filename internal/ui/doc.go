// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI walks through a single playlist request:
//  1. [BuildingView] : Assemble the playlist for a genre and artists
//  2. [TrackListView] : Preview the tracks and pick a destination platform
//  3. [ConfirmView] : Confirm the export
//  4. [ExportView] : Monitor real-time export progress
//  5. [ResultView] : Display the created playlist or the failure
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Progress updates flow through a channel from the exporter, providing non-blocking status reporting during exports.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
