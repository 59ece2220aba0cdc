package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/plx/internal/models"
	"github.com/desertthunder/plx/internal/selection"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgValuesFetched MsgKind = iota
	MsgTracksFetched
	MsgShowValues
	MsgShowTracks
	MsgPickPlaylist
	MsgPickerFetched
	MsgPlayed
	MsgClearStatus
)

type valuesFetched struct {
	screen int
	items  []models.CategoryValue
	counts map[int64]int
	err    error
}

type tracksFetched struct {
	screen int
	tracks []models.Track
	err    error
}

type showValues struct {
	categoryType string
	filter       *models.CategoryRef
	title        string
}

type showTracks struct {
	ref        models.CategoryRef
	playlistID int64
	title      string
}

type pickPlaylist struct {
	token  selection.Token
	prompt string
}

type pickerFetched struct {
	token     selection.Token
	playlists []models.Playlist
	err       error
}

type played struct {
	ref models.CategoryRef
	err error
}

// valuesFetchedMsg is the constructor for [MsgValuesFetched]
func valuesFetchedMsg(screen int, values []models.CategoryValue, counts map[int64]int, err error) Msg {
	return Msg{kind: MsgValuesFetched, data: valuesFetched{screen: screen, items: values, counts: counts, err: err}}
}

// tracksFetchedMsg is the constructor for [MsgTracksFetched]
func tracksFetchedMsg(screen int, tracks []models.Track, err error) Msg {
	return Msg{kind: MsgTracksFetched, data: tracksFetched{screen: screen, tracks: tracks, err: err}}
}

// showValuesMsg is the constructor for [MsgShowValues]
func showValuesMsg(categoryType string, filter *models.CategoryRef, title string) Msg {
	return Msg{kind: MsgShowValues, data: showValues{categoryType: categoryType, filter: filter, title: title}}
}

// showTracksMsg is the constructor for [MsgShowTracks]
func showTracksMsg(ref models.CategoryRef, playlistID int64, title string) Msg {
	return Msg{kind: MsgShowTracks, data: showTracks{ref: ref, playlistID: playlistID, title: title}}
}

// pickPlaylistMsg is the constructor for [MsgPickPlaylist]
func pickPlaylistMsg(token selection.Token, prompt string) Msg {
	return Msg{kind: MsgPickPlaylist, data: pickPlaylist{token: token, prompt: prompt}}
}

// pickerFetchedMsg is the constructor for [MsgPickerFetched]
func pickerFetchedMsg(token selection.Token, playlists []models.Playlist, err error) Msg {
	return Msg{kind: MsgPickerFetched, data: pickerFetched{token: token, playlists: playlists, err: err}}
}

// playedMsg is the constructor for [MsgPlayed]
func playedMsg(ref models.CategoryRef, err error) Msg {
	return Msg{kind: MsgPlayed, data: played{ref: ref, err: err}}
}

// clearStatusMsg is the constructor for [MsgClearStatus]
func clearStatusMsg(seq int) Msg {
	return Msg{kind: MsgClearStatus, data: seq}
}
