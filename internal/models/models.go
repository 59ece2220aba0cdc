// package models defines the data model for playlist actions
package models

import "fmt"

// Category types understood by the music server.
const (
	CategoryPlaylists   = "playlists"
	CategoryArtist      = "artist"
	CategoryAlbumArtist = "album_artist"
	CategoryAlbum       = "album"
	CategoryGenre       = "genre"
)

// Track represents a music track as browsed on the server.
type Track struct {
	ID          int64  `json:"id"`
	ExternalID  string `json:"external_id"`
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	ArtistID    int64  `json:"artist_id"`
	Album       string `json:"album"`
	AlbumID     int64  `json:"album_id"`
	AlbumArtist string `json:"album_artist"`
	Genre       string `json:"genre"`
}

// PlaylistEntry is a track captured together with its position in an owning playlist.
type PlaylistEntry struct {
	Track      Track `json:"track"`
	Position   int   `json:"position"`
	PlaylistID int64 `json:"playlist_id"`
}

// CategoryValue is a single row of a category listing (an artist, an album, a genre, a playlist).
//
// AlbumArtist and AlbumArtistID are only set for album values.
type CategoryValue struct {
	Type          string `json:"type"`
	ID            int64  `json:"id"`
	Value         string `json:"value"`
	AlbumArtist   string `json:"album_artist,omitempty"`
	AlbumArtistID int64  `json:"album_artist_id,omitempty"`
}

// IsAlbum reports whether the value is an album carrying album artist metadata.
func (v CategoryValue) IsAlbum() bool {
	return v.Type == CategoryAlbum
}

// Ref returns the (type, id) reference for the value.
func (v CategoryValue) Ref() CategoryRef {
	return CategoryRef{Type: v.Type, ID: v.ID}
}

// CategoryRef identifies a category by type and numeric id.
type CategoryRef struct {
	Type string `json:"category"`
	ID   int64  `json:"category_id"`
}

func (r CategoryRef) String() string {
	return fmt.Sprintf("%s#%d", r.Type, r.ID)
}

// Playlist represents playlist metadata from the server.
type Playlist struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	TrackCount int    `json:"track_count"`
}

// Value returns the playlist as a category value.
func (p Playlist) Value() CategoryValue {
	return CategoryValue{Type: CategoryPlaylists, ID: p.ID, Value: p.Name}
}

// ExternalIDs collects the external ids of the given tracks, preserving order.
func ExternalIDs(tracks []Track) []string {
	ids := make([]string, 0, len(tracks))
	for _, t := range tracks {
		ids = append(ids, t.ExternalID)
	}
	return ids
}
