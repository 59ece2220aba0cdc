// package services defines the data-access collaborator for playlist actions
//
// Provider (mutations), Browser (read-only listings used by the host UI)
package services

import (
	"context"

	"github.com/desertthunder/plx/internal/models"
)

// Provider performs playlist mutations against the remote music server.
//
// Calls block until the server answers or ctx is done. A false/zero result with a nil error is a logical failure: the
// request completed but the server declined it.
type Provider interface {
	// CreatePlaylist creates an empty playlist and returns its id (<= 0 when nothing was created).
	CreatePlaylist(ctx context.Context, name string) (int64, error)

	// RenamePlaylist renames the playlist with the given id.
	RenamePlaylist(ctx context.Context, id int64, name string) (bool, error)

	// DeletePlaylist deletes the playlist with the given id.
	DeletePlaylist(ctx context.Context, id int64) (bool, error)

	// AppendTracks appends tracks to the end of a playlist.
	AppendTracks(ctx context.Context, id int64, tracks []models.Track) (bool, error)

	// AppendCategory appends every track of a category (e.g. all tracks of artist 12).
	AppendCategory(ctx context.Context, id int64, categoryType string, categoryID int64) (bool, error)

	// AppendCategoryValue appends every track of a browsed category value.
	AppendCategoryValue(ctx context.Context, id int64, value models.CategoryValue) (bool, error)

	// RemoveTracks removes tracks identified by external id and position from a playlist.
	RemoveTracks(ctx context.Context, id int64, externalIDs []string, positions []int) (bool, error)

	// Attach marks the provider usable by a resumed UI surface.
	Attach()

	// Detach marks the provider paused; calls already in flight are not aborted.
	Detach()

	// Destroy releases the provider. It cannot be attached again.
	Destroy()
}

// Browser lists server content for the host UI.
type Browser interface {
	Playlists(ctx context.Context) ([]models.Playlist, error)
	PlaylistTracks(ctx context.Context, id int64) ([]models.Track, error)
	CategoryValues(ctx context.Context, categoryType string, filter *models.CategoryRef) ([]models.CategoryValue, error)
	CategoryTracks(ctx context.Context, ref models.CategoryRef) ([]models.Track, error)
	Play(ctx context.Context, ref models.CategoryRef) error
}
