package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/plx/internal/menus"
	"github.com/desertthunder/plx/internal/models"
	"github.com/desertthunder/plx/internal/selection"
	"github.com/desertthunder/plx/internal/services"
	"github.com/desertthunder/plx/internal/tasks"
)

var (
	_ menus.Navigator      = navigator{}
	_ tasks.PlaylistPicker = navigator{}
)

// navigator turns navigation requests into messages handled by [Model.Update].
type navigator struct {
	ctx     context.Context
	browser services.Browser
}

func (n navigator) PickPlaylist(token selection.Token, prompt string) tea.Cmd {
	return func() tea.Msg { return pickPlaylistMsg(token, prompt) }
}

func (n navigator) ShowAlbums(ref models.CategoryRef, title string) tea.Cmd {
	return func() tea.Msg { return showValuesMsg(models.CategoryAlbum, &ref, title) }
}

func (n navigator) ShowTracks(ref models.CategoryRef, title string) tea.Cmd {
	return func() tea.Msg { return showTracksMsg(ref, 0, title) }
}

func (n navigator) ShowCategory(categoryType string, filter models.CategoryRef, title string) tea.Cmd {
	return func() tea.Msg { return showValuesMsg(categoryType, &filter, title) }
}

func (n navigator) Play(ref models.CategoryRef) tea.Cmd {
	return func() tea.Msg { return playedMsg(ref, n.browser.Play(n.ctx, ref)) }
}
