package menus

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/plx/internal/models"
	"github.com/desertthunder/plx/internal/shared"
)

// ItemID identifies a menu entry.
type ItemID string

const (
	ItemAddToPlaylist      ItemID = "add_to_playlist"
	ItemRemoveFromPlaylist ItemID = "remove_from_playlist"
	ItemArtistAlbums       ItemID = "show_artist_albums"
	ItemArtistTracks       ItemID = "show_artist_tracks"
	ItemArtistGenres       ItemID = "show_artist_genres"
	ItemGenreAlbums        ItemID = "show_genre_albums"
	ItemGenreTracks        ItemID = "show_genre_tracks"
	ItemGenreArtists       ItemID = "show_genre_artists"
	ItemPlay               ItemID = "playlist_play"
	ItemRename             ItemID = "playlist_rename"
	ItemDelete             ItemID = "playlist_delete"
)

var labels = map[ItemID]string{
	ItemAddToPlaylist:      shared.MsgMenuAddToPlaylist,
	ItemRemoveFromPlaylist: shared.MsgMenuRemoveFromList,
	ItemArtistAlbums:       shared.MsgMenuArtistAlbums,
	ItemArtistTracks:       shared.MsgMenuArtistTracks,
	ItemArtistGenres:       shared.MsgMenuArtistGenres,
	ItemGenreAlbums:        shared.MsgMenuGenreAlbums,
	ItemGenreTracks:        shared.MsgMenuGenreTracks,
	ItemGenreArtists:       shared.MsgMenuGenreArtists,
	ItemPlay:               shared.MsgMenuPlaylistPlay,
	ItemRename:             shared.MsgMenuPlaylistRename,
	ItemDelete:             shared.MsgMenuPlaylistDelete,
}

// Item is a single menu entry.
type Item struct {
	ID    ItemID
	Label string
}

func newItems(ids ...ItemID) []Item {
	items := make([]Item, len(ids))
	for i, id := range ids {
		items[i] = Item{ID: id, Label: shared.Text(labels[id])}
	}
	return items
}

// Menu is the list of actions for one item.
type Menu struct {
	Title    string
	Items    []Item
	dispatch func(ItemID) (tea.Cmd, error)
}

// Empty reports whether the menu has nothing to show.
func (m Menu) Empty() bool { return len(m.Items) == 0 }

// Has reports whether id is one of the menu's items.
func (m Menu) Has(id ItemID) bool {
	for _, item := range m.Items {
		if item.ID == id {
			return true
		}
	}
	return false
}

// IDs lists the item ids in display order.
func (m Menu) IDs() []ItemID {
	ids := make([]ItemID, len(m.Items))
	for i, item := range m.Items {
		ids[i] = item.ID
	}
	return ids
}

// Dispatch performs the action for id. Items not on the menu return nil, nil.
func (m Menu) Dispatch(id ItemID) (tea.Cmd, error) {
	if m.dispatch == nil || !m.Has(id) {
		return nil, nil
	}
	return m.dispatch(id)
}

// Actions is the subset of the playlist coordinator that menus drive.
type Actions interface {
	AddTrack(track models.Track) (tea.Cmd, error)
	AddCategoryValue(value models.CategoryValue) (tea.Cmd, error)
	RemoveFromPlaylist(entry models.PlaylistEntry) error
	DeletePlaylist(id int64, name string) error
	PromptRenamePlaylist(name string, id int64) error
}

// Navigator moves the host to another screen.
type Navigator interface {
	ShowAlbums(ref models.CategoryRef, title string) tea.Cmd
	ShowTracks(ref models.CategoryRef, title string) tea.Cmd
	ShowCategory(categoryType string, filter models.CategoryRef, title string) tea.Cmd
	Play(ref models.CategoryRef) tea.Cmd
}
