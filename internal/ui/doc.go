// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI browses a music server through tabs ([PlaylistsTab], [ArtistsTab], [AlbumsTab], [GenresTab]) with drill
// down into track lists, and drives every playlist mutation through a [tasks.Coordinator]:
//   - m opens the context menu for the selected row (built by [menus.Presenter])
//   - n opens the name dialog for a new playlist
//   - a adds every track on the current track list to a playlist
//
// Adding to a playlist opens a picker screen; picking answers the coordinator's pending selection and esc cancels it.
// Confirmation dialogs come from a [dialogs.Registry] restored from durable state on start, so a dialog left open
// when the program exited is shown again and bound to the new coordinator.
//
// Outcome messages returned by coordinator commands are routed back through [tasks.Coordinator.Update], which
// reports them to the status line. ctrl+z pauses the coordinator before suspending and resuming re-attaches it.
package ui
