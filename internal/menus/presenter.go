package menus

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/plx/internal/models"
)

// Presenter builds menus wired to a coordinator and a navigator.
type Presenter struct {
	actions Actions
	nav     Navigator
}

func NewPresenter(actions Actions, nav Navigator) *Presenter {
	return &Presenter{actions: actions, nav: nav}
}

// none wraps a call that only reports an error.
func none(err error) (tea.Cmd, error) { return nil, err }

// ForTrack builds the menu for a track browsed outside a playlist.
func (p *Presenter) ForTrack(track models.Track) Menu {
	return p.trackMenu(track, nil)
}

// ForPlaylistTrack builds the menu for a track inside a playlist, which adds "remove from playlist".
func (p *Presenter) ForPlaylistTrack(entry models.PlaylistEntry) Menu {
	return p.trackMenu(entry.Track, &entry)
}

func (p *Presenter) trackMenu(track models.Track, entry *models.PlaylistEntry) Menu {
	ids := []ItemID{ItemAddToPlaylist}
	if entry != nil {
		ids = append(ids, ItemRemoveFromPlaylist)
	}
	ids = append(ids, ItemArtistAlbums, ItemArtistTracks)

	artist := models.CategoryRef{Type: models.CategoryArtist, ID: track.ArtistID}

	return Menu{
		Title: track.Title,
		Items: newItems(ids...),
		dispatch: func(id ItemID) (tea.Cmd, error) {
			switch id {
			case ItemAddToPlaylist:
				return p.actions.AddTrack(track)
			case ItemRemoveFromPlaylist:
				return none(p.actions.RemoveFromPlaylist(*entry))
			case ItemArtistAlbums:
				return p.nav.ShowAlbums(artist, track.Artist), nil
			case ItemArtistTracks:
				return p.nav.ShowTracks(artist, track.Artist), nil
			}
			return nil, nil
		},
	}
}

// ForPlaylist builds the menu for a playlist.
func (p *Presenter) ForPlaylist(name string, id int64) Menu {
	return Menu{
		Title: name,
		Items: newItems(ItemPlay, ItemRename, ItemDelete),
		dispatch: func(item ItemID) (tea.Cmd, error) {
			switch item {
			case ItemPlay:
				return p.nav.Play(models.CategoryRef{Type: models.CategoryPlaylists, ID: id}), nil
			case ItemRename:
				return none(p.actions.PromptRenamePlaylist(name, id))
			case ItemDelete:
				return none(p.actions.DeletePlaylist(id, name))
			}
			return nil, nil
		},
	}
}

// ForCategory builds the menu for a category value. Playlists get the playlist menu; unknown types get an empty menu.
func (p *Presenter) ForCategory(value models.CategoryValue) Menu {
	var ids []ItemID
	switch value.Type {
	case models.CategoryPlaylists:
		return p.ForPlaylist(value.Value, value.ID)
	case models.CategoryArtist, models.CategoryAlbumArtist:
		ids = []ItemID{ItemAddToPlaylist, ItemArtistAlbums, ItemArtistTracks, ItemArtistGenres}
	case models.CategoryAlbum:
		ids = []ItemID{ItemAddToPlaylist, ItemArtistAlbums, ItemArtistTracks}
	case models.CategoryGenre:
		ids = []ItemID{ItemAddToPlaylist, ItemGenreAlbums, ItemGenreTracks, ItemGenreArtists}
	default:
		return Menu{Title: value.Value}
	}

	// albums browse by their album artist, everything else by itself
	target, title := value.Ref(), value.Value
	if value.IsAlbum() {
		target = models.CategoryRef{Type: models.CategoryAlbumArtist, ID: value.AlbumArtistID}
		title = value.AlbumArtist
	}

	return Menu{
		Title: value.Value,
		Items: newItems(ids...),
		dispatch: func(id ItemID) (tea.Cmd, error) {
			switch id {
			case ItemAddToPlaylist:
				return p.actions.AddCategoryValue(value)
			case ItemArtistAlbums, ItemGenreAlbums:
				return p.nav.ShowAlbums(target, title), nil
			case ItemArtistTracks, ItemGenreTracks:
				return p.nav.ShowTracks(target, title), nil
			case ItemArtistGenres:
				return p.nav.ShowCategory(models.CategoryGenre, value.Ref(), value.Value), nil
			case ItemGenreArtists:
				return p.nav.ShowCategory(models.CategoryArtist, value.Ref(), value.Value), nil
			}
			return nil, nil
		},
	}
}
