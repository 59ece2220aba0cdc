package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrPlaylistNotFound   = fmt.Errorf("playlist not found")
	ErrDeclined           = fmt.Errorf("request declined by server")

	// Lifecycle errors
	ErrNotAttached = fmt.Errorf("provider not attached")
	ErrDestroyed   = fmt.Errorf("already destroyed")

	// Dialog errors
	ErrNoDialog     = fmt.Errorf("no dialog shown for tag")
	ErrUnbound      = fmt.Errorf("dialog not bound to a live coordinator")
	ErrNotConfirmed = fmt.Errorf("operation requires confirmation")

	// Input validation errors
	ErrInvalidInput       = fmt.Errorf("invalid input")
	ErrMissingArgument    = fmt.Errorf("missing required argument")
	ErrInvalidArgument    = fmt.Errorf("invalid argument")
	ErrInvalidPlaylistID  = fmt.Errorf("invalid playlist id")
	ErrEmptyName          = fmt.Errorf("playlist name cannot be empty")
	ErrNothingToAdd       = fmt.Errorf("nothing to add")
	ErrSelectionCancelled = fmt.Errorf("selection cancelled")
	ErrSelectionExpired   = fmt.Errorf("playlist selection expired")
)
