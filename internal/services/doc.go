// Package services defines the [Provider] interface for playlist mutations and implements it for a remote music server.
//
// # Provider Interface
//
// The playlist action coordinator only depends on [Provider]. Calls are blocking and context aware; the coordinator
// runs them off the UI loop and delivers results back as messages.
//
// Results follow a two level failure model:
//   - a nil error with a false/zero result is a logical failure (the server declined)
//   - a non-nil error wraps [shared.ErrAPIRequest] and is a transport failure
//
// # Remote Implementation
//
// [RemoteProvider] speaks JSON over HTTP. Requests are authenticated with a bearer token through an
// [oauth2.StaticTokenSource] transport and paced with a [rate.Limiter] so bulk menu actions can't flood the server.
//
// # Lifecycle
//
// Attach/Detach mirror UI resume/pause. Detaching never aborts requests already in flight.
// After Destroy every call fails with [shared.ErrDestroyed] and idle connections are closed.
//
// # Browsing
//
// [Browser] exposes the read-only listings the terminal UI needs (playlists, category values, tracks) plus playback.
package services
