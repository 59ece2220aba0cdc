package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/plx/internal/menus"
	"github.com/desertthunder/plx/internal/models"
)

var (
	_ list.Item = valueItem{}
	_ list.Item = trackItem{}
	_ list.Item = menuItem{}
)

// valueItem wraps [models.CategoryValue] to implement [list.Item].
type valueItem struct {
	value models.CategoryValue
	count int
}

func (i valueItem) FilterValue() string { return i.value.Value }
func (i valueItem) Title() string       { return i.value.Value }
func (i valueItem) Description() string {
	switch {
	case i.value.Type == models.CategoryPlaylists:
		return fmt.Sprintf("%d tracks", i.count)
	case i.value.IsAlbum() && i.value.AlbumArtist != "":
		return i.value.AlbumArtist
	default:
		return i.value.Type
	}
}

// trackItem wraps [models.Track] to implement [list.Item]. position is -1 outside a playlist.
type trackItem struct {
	track      models.Track
	position   int
	playlistID int64
}

func (i trackItem) FilterValue() string { return i.track.Title }
func (i trackItem) Title() string       { return i.track.Title }
func (i trackItem) Description() string {
	desc := i.track.Artist
	if i.track.Album != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.track.Album)
	}
	return desc
}

func (i trackItem) entry() (models.PlaylistEntry, bool) {
	if i.playlistID <= 0 || i.position < 0 {
		return models.PlaylistEntry{}, false
	}
	return models.PlaylistEntry{Track: i.track, Position: i.position, PlaylistID: i.playlistID}, true
}

// menuItem wraps [menus.Item] to implement [list.Item].
type menuItem struct {
	item menus.Item
}

func (i menuItem) FilterValue() string { return i.item.Label }
func (i menuItem) Title() string       { return i.item.Label }
func (i menuItem) Description() string { return "" }

func playlistValues(playlists []models.Playlist) []list.Item {
	items := make([]list.Item, len(playlists))
	for i, pl := range playlists {
		items[i] = valueItem{value: pl.Value(), count: pl.TrackCount}
	}
	return items
}

func categoryValues(values []models.CategoryValue) []list.Item {
	items := make([]list.Item, len(values))
	for i, v := range values {
		items[i] = valueItem{value: v}
	}
	return items
}

func trackItems(tracks []models.Track, playlistID int64) []list.Item {
	items := make([]list.Item, len(tracks))
	for i, track := range tracks {
		position := -1
		if playlistID > 0 {
			position = i
		}
		items[i] = trackItem{track: track, position: position, playlistID: playlistID}
	}
	return items
}

func menuItems(m menus.Menu) []list.Item {
	items := make([]list.Item, len(m.Items))
	for i, item := range m.Items {
		items[i] = menuItem{item: item}
	}
	return items
}

func newList(items []list.Item, title string, width, height int, descriptions bool) list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = descriptions
	if !descriptions {
		delegate.SetSpacing(0)
	}

	l := list.New(items, delegate, width, height)
	l.Title = title
	l.DisableQuitKeybindings()
	l.SetShowHelp(false)
	return l
}
