package tasks

// Listener is told about playlists changed by a successful operation. Each callback fires at most once per operation.
type Listener interface {
	PlaylistCreated(id int64)
	PlaylistUpdated(id int64)
	PlaylistDeleted(id int64)
}

// NopListener ignores every callback. Embed it to implement only some of [Listener].
type NopListener struct{}

func (NopListener) PlaylistCreated(int64) {}
func (NopListener) PlaylistUpdated(int64) {}
func (NopListener) PlaylistDeleted(int64) {}

// ListenerFuncs adapts plain functions to [Listener]. Nil fields are skipped.
type ListenerFuncs struct {
	Created func(id int64)
	Updated func(id int64)
	Deleted func(id int64)
}

func (f ListenerFuncs) PlaylistCreated(id int64) {
	if f.Created != nil {
		f.Created(id)
	}
}

func (f ListenerFuncs) PlaylistUpdated(id int64) {
	if f.Updated != nil {
		f.Updated(id)
	}
}

func (f ListenerFuncs) PlaylistDeleted(id int64) {
	if f.Deleted != nil {
		f.Deleted(id)
	}
}
