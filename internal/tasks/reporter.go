package tasks

import (
	"github.com/desertthunder/plx/internal/shared"
)

// Notifier renders transient notifications.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Reporter maps an [Outcome] to notifications and [Listener] callbacks.
//
// Per operation:
//   - create, rename: success notification and listener callback, or an error notification
//   - add: success notification and listener callback, or a fixed error notification whatever the cause
//   - delete: listener callback and success notification, or a soft "not deleted" notification on the success channel
//   - remove: listener callback only; failures are silent unless NotifyRemoveFailures is set
type Reporter struct {
	Notifier             Notifier
	Listener             Listener
	NotifyRemoveFailures bool
}

// Report handles o. It never fires both a success and an error notification.
func (r *Reporter) Report(o Outcome) {
	listener := r.Listener
	if listener == nil {
		listener = NopListener{}
	}

	switch o.Op {
	case OpCreate:
		if o.OK() && o.PlaylistID > 0 {
			listener.PlaylistCreated(o.PlaylistID)
			r.success(shared.Text(shared.MsgPlaylistCreated, o.Name))
		} else {
			r.fail(shared.Text(shared.MsgPlaylistNotCreated, o.Name))
		}
	case OpRename:
		if o.OK() {
			listener.PlaylistUpdated(o.PlaylistID)
			r.success(shared.Text(shared.MsgPlaylistRenamed, o.Name))
		} else {
			r.fail(shared.Text(shared.MsgPlaylistNotRenamed, o.Name))
		}
	case OpDelete:
		if o.OK() {
			listener.PlaylistDeleted(o.PlaylistID)
			r.success(shared.Text(shared.MsgPlaylistDeleted, o.Name))
		} else {
			r.success(shared.Text(shared.MsgPlaylistNotDeleted, o.Name))
		}
	case OpAdd:
		if o.OK() {
			listener.PlaylistUpdated(o.PlaylistID)
			r.success(shared.Text(shared.MsgAddSuccess))
		} else {
			r.fail(shared.Text(shared.MsgAddError))
		}
	case OpRemove:
		if o.OK() {
			listener.PlaylistUpdated(o.PlaylistID)
		} else if r.NotifyRemoveFailures {
			r.fail(shared.Text(shared.MsgRemoveError))
		}
	}
}

func (r *Reporter) success(msg string) {
	if r.Notifier != nil {
		r.Notifier.Success(msg)
	}
}

func (r *Reporter) fail(msg string) {
	if r.Notifier != nil {
		r.Notifier.Error(msg)
	}
}
