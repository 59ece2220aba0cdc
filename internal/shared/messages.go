package shared

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys for user-visible text. The English strings live in [messages].
const (
	MsgPlaylistCreated      = "playlist_created"
	MsgPlaylistNotCreated   = "playlist_not_created"
	MsgPlaylistRenamed      = "playlist_renamed"
	MsgPlaylistNotRenamed   = "playlist_not_renamed"
	MsgPlaylistDeleted      = "playlist_deleted"
	MsgPlaylistNotDeleted   = "playlist_not_deleted"
	MsgAddSuccess           = "playlist_edit_add_success"
	MsgAddError             = "playlist_edit_add_error"
	MsgRemoveError          = "playlist_edit_remove_error"
	MsgNameEmpty            = "playlist_name_error_empty"
	MsgPickPlaylist         = "playlist_edit_pick_playlist"
	MsgPickExpired          = "playlist_edit_pick_expired"
	MsgConfirmDeleteTitle   = "playlist_confirm_delete_title"
	MsgConfirmDeleteMessage = "playlist_confirm_delete_message"
	MsgConfirmRemoveTitle   = "playlist_confirm_remove_title"
	MsgConfirmRemoveMessage = "playlist_confirm_remove_message"
	MsgPlaylistNameTitle    = "playlist_name_title"
	MsgButtonCreate         = "button_create"
	MsgButtonRename         = "button_rename"
	MsgMenuAddToPlaylist    = "menu_add_to_playlist"
	MsgMenuRemoveFromList   = "menu_remove_from_playlist"
	MsgMenuArtistAlbums     = "menu_show_artist_albums"
	MsgMenuArtistTracks     = "menu_show_artist_tracks"
	MsgMenuArtistGenres     = "menu_show_artist_genres"
	MsgMenuGenreAlbums      = "menu_show_genre_albums"
	MsgMenuGenreTracks      = "menu_show_genre_tracks"
	MsgMenuGenreArtists     = "menu_show_genre_artists"
	MsgMenuPlaylistPlay     = "menu_playlist_play"
	MsgMenuPlaylistRename   = "menu_playlist_rename"
	MsgMenuPlaylistDelete   = "menu_playlist_delete"
)

var messages = map[string]string{
	MsgPlaylistCreated:      "Playlist %q created",
	MsgPlaylistNotCreated:   "Could not create playlist %q",
	MsgPlaylistRenamed:      "Playlist renamed to %q",
	MsgPlaylistNotRenamed:   "Could not rename playlist to %q",
	MsgPlaylistDeleted:      "Playlist %q deleted",
	MsgPlaylistNotDeleted:   "Playlist %q was not deleted",
	MsgAddSuccess:           "Added to playlist",
	MsgAddError:             "Add failed",
	MsgRemoveError:          "Could not remove track from playlist",
	MsgNameEmpty:            "Playlist name cannot be empty",
	MsgPickPlaylist:         "Pick a playlist",
	MsgPickExpired:          "Playlist selection expired, try again",
	MsgConfirmDeleteTitle:   "Delete playlist?",
	MsgConfirmDeleteMessage: "Are you sure you want to delete %q?",
	MsgConfirmRemoveTitle:   "Remove from playlist?",
	MsgConfirmRemoveMessage: "Are you sure you want to remove %q from this playlist?",
	MsgPlaylistNameTitle:    "Playlist name",
	MsgButtonCreate:         "create",
	MsgButtonRename:         "rename",
	MsgMenuAddToPlaylist:    "Add to playlist",
	MsgMenuRemoveFromList:   "Remove from playlist",
	MsgMenuArtistAlbums:     "Show albums",
	MsgMenuArtistTracks:     "Show tracks",
	MsgMenuArtistGenres:     "Show genres",
	MsgMenuGenreAlbums:      "Show albums",
	MsgMenuGenreTracks:      "Show tracks",
	MsgMenuGenreArtists:     "Show artists",
	MsgMenuPlaylistPlay:     "Play",
	MsgMenuPlaylistRename:   "Rename",
	MsgMenuPlaylistDelete:   "Delete",
}

var printer = newPrinter(language.English)

func newPrinter(tag language.Tag) *message.Printer {
	cat := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, msg := range messages {
		// SetString only fails for malformed messages, which the table above never contains.
		_ = cat.SetString(language.English, key, msg)
	}
	return message.NewPrinter(tag, message.Catalog(cat))
}

// Text looks up key in the message catalog and formats it with args.
func Text(key string, args ...any) string {
	return printer.Sprintf(key, args...)
}
