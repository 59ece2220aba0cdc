package dialogs

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/desertthunder/plx/internal/shared"
)

// Kind enumerates the confirmation dialogs.
type Kind int

const (
	KindUnknown Kind = iota
	KindDeletePlaylist
	KindRemoveFromPlaylist
	KindPlaylistName
)

const (
	TagDeletePlaylist     = "confirm_delete_playlist_dialog"
	TagRemoveFromPlaylist = "confirm_remove_from_playlist_dialog"
	TagPlaylistName       = "enter_playlist_name_dialog"
)

// Tag returns the fixed tag for the kind.
func (k Kind) Tag() string {
	switch k {
	case KindDeletePlaylist:
		return TagDeletePlaylist
	case KindRemoveFromPlaylist:
		return TagRemoveFromPlaylist
	case KindPlaylistName:
		return TagPlaylistName
	default:
		return ""
	}
}

func (k Kind) String() string {
	switch k {
	case KindDeletePlaylist:
		return "delete_playlist"
	case KindRemoveFromPlaylist:
		return "remove_from_playlist"
	case KindPlaylistName:
		return "playlist_name"
	default:
		return "unknown"
	}
}

// ParseKind is the inverse of [Kind.String].
func ParseKind(s string) (Kind, error) {
	for _, k := range []Kind{KindDeletePlaylist, KindRemoveFromPlaylist, KindPlaylistName} {
		if k.String() == s {
			return k, nil
		}
	}
	return KindUnknown, fmt.Errorf("%w: unknown dialog kind %q", shared.ErrInvalidInput, s)
}

// State is the lifecycle state of a dialog.
type State int

const (
	Absent State = iota
	Shown
	Confirmed
	Cancelled
)

func (s State) String() string {
	switch s {
	case Shown:
		return "shown"
	case Confirmed:
		return "confirmed"
	case Cancelled:
		return "cancelled"
	default:
		return "absent"
	}
}

// Action distinguishes the two uses of the name dialog.
type Action string

const (
	ActionCreate Action = "create"
	ActionRename Action = "rename"
)

// DeletePlaylistParams is the durable state of a delete confirmation.
type DeletePlaylistParams struct {
	Name string `json:"name"`
	ID   int64  `json:"id"`
}

// RemoveFromPlaylistParams is the durable state of a remove confirmation.
type RemoveFromPlaylistParams struct {
	PlaylistID int64  `json:"playlist_id"`
	TrackTitle string `json:"track_title"`
	ExternalID string `json:"external_id"`
	Position   int    `json:"position"`
}

// PlaylistNameParams is the durable state of the name dialog. ID is only meaningful for [ActionRename].
type PlaylistNameParams struct {
	Action Action `json:"action"`
	Name   string `json:"name"`
	ID     int64  `json:"id"`
}

// NewCreateParams returns name dialog params for a new playlist.
func NewCreateParams() PlaylistNameParams {
	return PlaylistNameParams{Action: ActionCreate, ID: -1}
}

// NewRenameParams returns name dialog params for renaming playlist id.
func NewRenameParams(name string, id int64) PlaylistNameParams {
	return PlaylistNameParams{Action: ActionRename, Name: name, ID: id}
}

// Params is implemented by the three parameter records.
type Params interface {
	Kind() Kind
}

func (DeletePlaylistParams) Kind() Kind     { return KindDeletePlaylist }
func (RemoveFromPlaylistParams) Kind() Kind { return KindRemoveFromPlaylist }
func (PlaylistNameParams) Kind() Kind       { return KindPlaylistName }

// Title is the dialog heading.
func Title(p Params) string {
	switch p.(type) {
	case DeletePlaylistParams:
		return shared.Text(shared.MsgConfirmDeleteTitle)
	case RemoveFromPlaylistParams:
		return shared.Text(shared.MsgConfirmRemoveTitle)
	default:
		return shared.Text(shared.MsgPlaylistNameTitle)
	}
}

// Message is the dialog body. The name dialog has none.
func Message(p Params) string {
	switch p := p.(type) {
	case DeletePlaylistParams:
		return shared.Text(shared.MsgConfirmDeleteMessage, p.Name)
	case RemoveFromPlaylistParams:
		return shared.Text(shared.MsgConfirmRemoveMessage, p.TrackTitle)
	default:
		return ""
	}
}

// ConfirmLabel is the label of the affirmative button.
func ConfirmLabel(p Params) string {
	if p, ok := p.(PlaylistNameParams); ok {
		if p.Action == ActionRename {
			return shared.Text(shared.MsgButtonRename)
		}
		return shared.Text(shared.MsgButtonCreate)
	}
	return "yes"
}

func encodeParams(p Params) (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("failed to encode %s params: %w", p.Kind(), err)
	}
	return string(data), nil
}

func decodeParams(kind Kind, data string) (Params, error) {
	dec := json.NewDecoder(strings.NewReader(data))
	dec.DisallowUnknownFields()

	var (
		p   Params
		err error
	)
	switch kind {
	case KindDeletePlaylist:
		var v DeletePlaylistParams
		err = dec.Decode(&v)
		p = v
	case KindRemoveFromPlaylist:
		var v RemoveFromPlaylistParams
		err = dec.Decode(&v)
		p = v
	case KindPlaylistName:
		var v PlaylistNameParams
		err = dec.Decode(&v)
		p = v
	default:
		return nil, fmt.Errorf("%w: unknown dialog kind %d", shared.ErrInvalidInput, kind)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s params: %w", kind, err)
	}
	return p, nil
}
