// Package models defines the items playlist actions operate on.
//
// Every value here is immutable once captured for a menu action:
//   - [Track] : a song with the external id the server uses for playlist edits
//   - [PlaylistEntry] : a track at a known position inside a playlist
//   - [CategoryValue] : an artist, album, genre or playlist row from a browse list
//   - [CategoryRef] : a (type, id) pair used to append a whole category to a playlist
//   - [Playlist] : playlist metadata returned by the server
package models
