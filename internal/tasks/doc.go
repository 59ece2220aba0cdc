// Package tasks coordinates playlist mutations against a [services.Provider].
//
// # Core Operations
//
// [Coordinator] exposes every mutating operation:
//
//  1. [Coordinator.CreatePlaylist] and [Coordinator.RenamePlaylist] : issued directly, or through the name dialog
//  2. [Coordinator.DeletePlaylist] : shows a confirmation dialog; the delete is issued on confirmation
//  3. [Coordinator.AddTracks] and friends : ask the user to pick a target playlist, then append
//  4. [Coordinator.RemoveFromPlaylist] : shows a confirmation dialog; the removal is issued on confirmation
//
// # Asynchrony
//
// Operations return a [tea.Cmd]. Running the command performs the provider call and yields an [OutcomeMsg], which
// the host feeds back through [Coordinator.Update] on its event loop. Each issued operation carries a serial and is
// reported at most once: duplicates and results that arrive after [Coordinator.OnDestroy] are dropped.
//
// # Reporting
//
// [Reporter] turns an [Outcome] into exactly one notification and, on success, one [Listener] callback. Handled
// outcomes are also sent without blocking to any channel registered with [Coordinator.Observe].
//
// # Lifecycle
//
// The host calls [Coordinator.OnCreate] with its dialog registry, then [Coordinator.OnResume] and
// [Coordinator.OnPause] as it gains and loses the screen. Operations fail fast with [shared.ErrNotAttached] while
// paused and [shared.ErrDestroyed] after [Coordinator.OnDestroy].
package tasks
