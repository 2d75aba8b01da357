package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/mixtape/internal/models"
)

var _ list.Item = trackItem{}

// trackItem wraps [models.Track] to implement [list.Item].
type trackItem struct {
	position int
	track    models.Track
}

func (i trackItem) FilterValue() string { return i.track.Title + " " + i.track.Artist }
func (i trackItem) Title() string       { return fmt.Sprintf("%d. %s", i.position, i.track.Title) }
func (i trackItem) Description() string { return i.track.Artist }

func trackItems(tracks []models.Track) []list.Item {
	items := make([]list.Item, len(tracks))
	for i, track := range tracks {
		items[i] = trackItem{position: i + 1, track: track}
	}
	return items
}
