// Package selection implements a single-slot channel for choices made on another screen.
//
// A flow that needs the user to pick a target (a playlist, most of the time) calls [Channel.Request] with a completion
// function and carries the returned [Token] to the picker. The picker's answer comes back through [Channel.Resolve].
//
// Only one request is ever pending. A second [Channel.Request] replaces the first and the first completion is
// discarded. A result for a token that is no longer pending is ignored.
package selection
