package tasks

import (
	"fmt"

	"github.com/desertthunder/mixtape/internal/models"
	"github.com/desertthunder/mixtape/internal/services"
)

// ProgressUpdate represents a progress event during an export.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Export phase reached
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Phase is a state of the export state machine.
//
//	Unauthenticated → Authenticated → TracksResolving → PlaylistCreated → ItemsAdded
//
// Any step may move to Failed instead.
type Phase int

const (
	Unauthenticated Phase = iota
	Authenticated
	TracksResolving
	PlaylistCreated
	ItemsAdded
	Failed
)

func (p Phase) String() string {
	switch p {
	case Unauthenticated:
		return "unauthenticated"
	case Authenticated:
		return "authenticated"
	case TracksResolving:
		return "tracks_resolving"
	case PlaylistCreated:
		return "playlist_created"
	case ItemsAdded:
		return "items_added"
	case Failed:
		return "failed"
	default:
		return ""
	}
}

// Terminal reports whether no further transition can follow.
func (p Phase) Terminal() bool {
	return p == ItemsAdded || p == Failed
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func authenticatingUpdate(platform string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Unauthenticated,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Authenticating with %s...", platform),
	}
}

func authenticatedUpdate(platform string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Authenticated,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Authenticated with %s", platform),
	}
}

func resolvingUpdate(step, total int, tr models.Track) ProgressUpdate {
	return ProgressUpdate{
		Phase:   TracksResolving,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s - %s", step, total, tr.Artist, tr.Title),
	}
}

func unresolvedUpdate(step, total int, tr models.Track, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   TracksResolving,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s - %s: %v", step, total, tr.Artist, tr.Title, err),
	}
}

func playlistCreatedUpdate(pl *services.Playlist, resolved int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PlaylistCreated,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Playlist created: %s (ID: %s), adding %d tracks", pl.Name, pl.ID, resolved),
		Data:    pl,
	}
}

func itemsAddedUpdate(result *models.ExportResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ItemsAdded,
		Step:    result.Resolved,
		Total:   result.Requested,
		Message: fmt.Sprintf("✓ Added %d/%d tracks: %s", result.Resolved, result.Requested, result.URL),
		Data:    result,
	}
}

func failedUpdate(from Phase, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Failed,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("✗ Export failed after %s: %v", from, err),
		Data:    err,
	}
}
