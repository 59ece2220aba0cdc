// Package dialogs implements the confirmation dialogs that gate playlist mutations.
//
// # Kinds
//
// There are three dialog kinds, each identified by a fixed tag:
//   - [KindDeletePlaylist] : confirm deleting a playlist
//   - [KindRemoveFromPlaylist] : confirm removing a single track from a playlist
//   - [KindPlaylistName] : enter the name of a new or renamed playlist
//
// At most one dialog per tag is live. Showing a kind that is already live replaces it.
//
// # Binding
//
// A dialog holds a non-owning binding to a [Handler] (the live coordinator). Parameters are written to a [Store]
// when the dialog is shown, so a host that is torn down and rebuilt can call [Registry.Restore] and then
// [Registry.Rebind] with the new coordinator. Until a dialog is bound, [Registry.Confirm] fails with
// [shared.ErrUnbound] and the dialog stays shown.
//
// # Receipts
//
// Handlers receive a [Receipt] that only [Registry.Confirm] can mint. Handlers reject zero receipts, so a destructive
// call can't be issued without passing through Shown → Confirmed.
package dialogs
