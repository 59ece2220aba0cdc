package tasks

import "fmt"

// Op enumerates the mutating operations.
type Op int

const (
	OpCreate Op = iota
	OpRename
	OpDelete
	OpAdd
	OpRemove
)

func (o Op) String() string {
	switch o {
	case OpCreate:
		return "create_playlist"
	case OpRename:
		return "rename_playlist"
	case OpDelete:
		return "delete_playlist"
	case OpAdd:
		return "add_to_playlist"
	case OpRemove:
		return "remove_from_playlist"
	default:
		return ""
	}
}

// Status is the tri-state result of a provider call.
type Status int

const (
	StatusSuccess          Status = iota
	StatusLogicalFailure          // the call completed but reported false or no id
	StatusTransportFailure        // the call errored
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusLogicalFailure:
		return "logical_failure"
	case StatusTransportFailure:
		return "transport_failure"
	default:
		return ""
	}
}

// Outcome is the result of one issued operation.
type Outcome struct {
	Serial     uint64 // Issue serial, unique per coordinator
	Op         Op     // Operation kind
	PlaylistID int64  // Target playlist, or the created id for [OpCreate]
	Name       string // Playlist name used in notifications
	Status     Status
	Err        error // Set for [StatusTransportFailure]
}

// OK reports whether the operation succeeded.
func (o Outcome) OK() bool { return o.Status == StatusSuccess }

func (o Outcome) String() string {
	if o.Err != nil {
		return fmt.Sprintf("%s #%d %s: %v", o.Op, o.Serial, o.Status, o.Err)
	}
	return fmt.Sprintf("%s #%d %s", o.Op, o.Serial, o.Status)
}

// OutcomeMsg carries an [Outcome] back to the event loop. Owner identifies the issuing coordinator, since
// serials restart with every coordinator.
type OutcomeMsg struct {
	Outcome
	Owner string
}

func boolOutcome(ok bool, err error) (Status, error) {
	switch {
	case err != nil:
		return StatusTransportFailure, err
	case ok:
		return StatusSuccess, nil
	default:
		return StatusLogicalFailure, nil
	}
}
