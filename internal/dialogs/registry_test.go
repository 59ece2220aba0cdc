package dialogs

import (
	"errors"
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/plx/internal/shared"
)

type confirmCall struct {
	receipt Receipt
	params  Params
	input   string
}

type recordingHandler struct {
	name     string
	calls    []confirmCall
	readyErr error
}

func (h *recordingHandler) Ready() error { return h.readyErr }

func (h *recordingHandler) DeletePlaylistConfirmed(r Receipt, p DeletePlaylistParams) (tea.Cmd, error) {
	h.calls = append(h.calls, confirmCall{receipt: r, params: p})
	return nil, r.Check(KindDeletePlaylist)
}

func (h *recordingHandler) RemoveFromPlaylistConfirmed(r Receipt, p RemoveFromPlaylistParams) (tea.Cmd, error) {
	h.calls = append(h.calls, confirmCall{receipt: r, params: p})
	return nil, r.Check(KindRemoveFromPlaylist)
}

func (h *recordingHandler) PlaylistNameConfirmed(r Receipt, p PlaylistNameParams, name string) (tea.Cmd, error) {
	h.calls = append(h.calls, confirmCall{receipt: r, params: p, input: name})
	return nil, r.Check(KindPlaylistName)
}

func newTestRegistry(t *testing.T, store Store) *Registry {
	t.Helper()
	return NewRegistry(store, shared.NewLogger(io.Discard))
}

func TestKinds(t *testing.T) {
	t.Run("tags are distinct", func(t *testing.T) {
		seen := map[string]Kind{}
		for _, k := range []Kind{KindDeletePlaylist, KindRemoveFromPlaylist, KindPlaylistName} {
			if prev, ok := seen[k.Tag()]; ok {
				t.Errorf("%s and %s share tag %s", prev, k, k.Tag())
			}
			seen[k.Tag()] = k
		}
	})

	t.Run("ParseKind", func(t *testing.T) {
		tt := []struct {
			input   string
			want    Kind
			wantErr bool
		}{
			{input: "delete_playlist", want: KindDeletePlaylist},
			{input: "remove_from_playlist", want: KindRemoveFromPlaylist},
			{input: "playlist_name", want: KindPlaylistName},
			{input: "rename", wantErr: true},
		}

		for _, tc := range tt {
			t.Run(tc.input, func(t *testing.T) {
				got, err := ParseKind(tc.input)
				if tc.wantErr {
					if !errors.Is(err, shared.ErrInvalidInput) {
						t.Errorf("expected ErrInvalidInput, got %v", err)
					}
					return
				}
				if err != nil || got != tc.want {
					t.Errorf("expected %s, got %s (%v)", tc.want, got, err)
				}
			})
		}
	})

	t.Run("params round trip", func(t *testing.T) {
		tt := []Params{
			DeletePlaylistParams{Name: "Old", ID: 9},
			RemoveFromPlaylistParams{PlaylistID: 3, TrackTitle: "So What", ExternalID: "ext-1", Position: 2},
			NewRenameParams("Road Trip", 42),
			NewCreateParams(),
		}

		for _, p := range tt {
			data, err := encodeParams(p)
			if err != nil {
				t.Fatalf("failed to encode %T: %v", p, err)
			}
			got, err := decodeParams(p.Kind(), data)
			if err != nil {
				t.Fatalf("failed to decode %T: %v", p, err)
			}
			if got != p {
				t.Errorf("expected %+v, got %+v", p, got)
			}
		}
	})
}

func TestRegistry(t *testing.T) {
	t.Run("Show", func(t *testing.T) {
		t.Run("replaces a dialog with the same tag", func(t *testing.T) {
			store := NewMemoryStore()
			reg := newTestRegistry(t, store)

			if err := reg.Show(DeletePlaylistParams{Name: "First", ID: 1}); err != nil {
				t.Fatalf("failed to show dialog: %v", err)
			}
			if err := reg.Show(DeletePlaylistParams{Name: "Second", ID: 2}); err != nil {
				t.Fatalf("failed to show dialog: %v", err)
			}

			live := reg.Live()
			if len(live) != 1 {
				t.Fatalf("expected 1 live dialog, got %d", len(live))
			}
			if got := live[0].Params().(DeletePlaylistParams); got.ID != 2 || got.Name != "Second" {
				t.Errorf("expected newest params, got %+v", got)
			}

			records, _ := store.List()
			if len(records) != 1 {
				t.Fatalf("expected 1 record, got %d", len(records))
			}
		})

		t.Run("delete and remove dialogs coexist", func(t *testing.T) {
			reg := newTestRegistry(t, nil)
			reg.Show(DeletePlaylistParams{Name: "Old", ID: 9})
			reg.Show(RemoveFromPlaylistParams{PlaylistID: 3, ExternalID: "ext-1", Position: 2})

			if len(reg.Live()) != 2 {
				t.Errorf("expected 2 live dialogs, got %d", len(reg.Live()))
			}

			active, ok := reg.Active()
			if !ok || active.Kind() != KindRemoveFromPlaylist {
				t.Errorf("expected remove dialog to be active, got %s", active.Kind())
			}
		})

		t.Run("binds to current handler", func(t *testing.T) {
			reg := newTestRegistry(t, nil)
			reg.Rebind(&recordingHandler{})
			reg.Show(NewCreateParams())

			d, ok := reg.Get(TagPlaylistName)
			if !ok || !d.Bound() {
				t.Error("expected shown dialog to be bound")
			}
		})

		t.Run("seeds rename input", func(t *testing.T) {
			reg := newTestRegistry(t, nil)
			reg.Show(NewRenameParams("Road Trip", 42))

			d, _ := reg.Get(TagPlaylistName)
			if !d.WantsInput() || d.Input() != "Road Trip" {
				t.Errorf("expected input seeded with current name, got %q", d.Input())
			}
		})
	})

	t.Run("Confirm", func(t *testing.T) {
		t.Run("delivers params with a valid receipt", func(t *testing.T) {
			store := NewMemoryStore()
			reg := newTestRegistry(t, store)
			h := &recordingHandler{}
			reg.Rebind(h)
			reg.Show(NewCreateParams())

			if _, err := reg.Confirm(TagPlaylistName, "Road Trip"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(h.calls) != 1 {
				t.Fatalf("expected 1 handler call, got %d", len(h.calls))
			}
			if !h.calls[0].receipt.Valid() || h.calls[0].input != "Road Trip" {
				t.Errorf("unexpected call %+v", h.calls[0])
			}
			if reg.State(TagPlaylistName) != Confirmed {
				t.Errorf("expected confirmed, got %s", reg.State(TagPlaylistName))
			}
			if records, _ := store.List(); len(records) != 0 {
				t.Errorf("expected record to be deleted, got %d", len(records))
			}
		})

		t.Run("unbound dialog stays shown", func(t *testing.T) {
			reg := newTestRegistry(t, nil)
			reg.Show(DeletePlaylistParams{Name: "Old", ID: 9})

			_, err := reg.Confirm(TagDeletePlaylist, "")
			if !errors.Is(err, shared.ErrUnbound) {
				t.Errorf("expected ErrUnbound, got %v", err)
			}
			if reg.State(TagDeletePlaylist) != Shown {
				t.Errorf("expected dialog to stay shown, got %s", reg.State(TagDeletePlaylist))
			}
		})

		t.Run("handler not ready keeps the dialog and its record", func(t *testing.T) {
			store := NewMemoryStore()
			reg := newTestRegistry(t, store)
			h := &recordingHandler{readyErr: shared.ErrNotAttached}
			reg.Rebind(h)
			reg.Show(DeletePlaylistParams{Name: "Old", ID: 9})

			_, err := reg.Confirm(TagDeletePlaylist, "")
			if !errors.Is(err, shared.ErrNotAttached) {
				t.Errorf("expected ErrNotAttached, got %v", err)
			}
			if len(h.calls) != 0 {
				t.Errorf("expected no handler calls, got %d", len(h.calls))
			}
			if reg.State(TagDeletePlaylist) != Shown {
				t.Errorf("expected dialog to stay shown, got %s", reg.State(TagDeletePlaylist))
			}
			if records, _ := store.List(); len(records) != 1 {
				t.Errorf("expected record to be kept, got %d", len(records))
			}

			h.readyErr = nil
			if _, err := reg.Confirm(TagDeletePlaylist, ""); err != nil {
				t.Fatalf("expected confirm to succeed once ready, got %v", err)
			}
			if len(h.calls) != 1 {
				t.Errorf("expected 1 handler call, got %d", len(h.calls))
			}
		})

		t.Run("absent dialog", func(t *testing.T) {
			reg := newTestRegistry(t, nil)
			reg.Rebind(&recordingHandler{})

			_, err := reg.Confirm(TagDeletePlaylist, "")
			if !errors.Is(err, shared.ErrNoDialog) {
				t.Errorf("expected ErrNoDialog, got %v", err)
			}
			if reg.State(TagDeletePlaylist) != Absent {
				t.Errorf("expected absent, got %s", reg.State(TagDeletePlaylist))
			}
		})

		t.Run("only once", func(t *testing.T) {
			reg := newTestRegistry(t, nil)
			h := &recordingHandler{}
			reg.Rebind(h)
			reg.Show(DeletePlaylistParams{Name: "Old", ID: 9})

			reg.Confirm(TagDeletePlaylist, "")
			_, err := reg.Confirm(TagDeletePlaylist, "")
			if !errors.Is(err, shared.ErrNoDialog) {
				t.Errorf("expected ErrNoDialog on second confirm, got %v", err)
			}
			if len(h.calls) != 1 {
				t.Errorf("expected 1 handler call, got %d", len(h.calls))
			}
		})
	})

	t.Run("Cancel", func(t *testing.T) {
		store := NewMemoryStore()
		reg := newTestRegistry(t, store)
		h := &recordingHandler{}
		reg.Rebind(h)
		reg.Show(RemoveFromPlaylistParams{PlaylistID: 3, ExternalID: "ext-1", Position: 2})

		if err := reg.Cancel(TagRemoveFromPlaylist); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(h.calls) != 0 {
			t.Errorf("expected no handler calls, got %d", len(h.calls))
		}
		if reg.State(TagRemoveFromPlaylist) != Cancelled {
			t.Errorf("expected cancelled, got %s", reg.State(TagRemoveFromPlaylist))
		}
		if records, _ := store.List(); len(records) != 0 {
			t.Errorf("expected record to be deleted, got %d", len(records))
		}
		if err := reg.Cancel(TagRemoveFromPlaylist); !errors.Is(err, shared.ErrNoDialog) {
			t.Errorf("expected ErrNoDialog, got %v", err)
		}
	})

	t.Run("recreation", func(t *testing.T) {
		store := NewMemoryStore()
		params := RemoveFromPlaylistParams{PlaylistID: 3, TrackTitle: "So What", ExternalID: "ext-1", Position: 2}

		stale := &recordingHandler{name: "stale"}
		before := newTestRegistry(t, store)
		before.Rebind(stale)
		if err := before.Show(params); err != nil {
			t.Fatalf("failed to show dialog: %v", err)
		}
		before.Unbind(stale)

		after := newTestRegistry(t, store)
		n, err := after.Restore()
		if err != nil || n != 1 {
			t.Fatalf("expected 1 restored dialog, got %d (%v)", n, err)
		}

		d, _ := after.Get(TagRemoveFromPlaylist)
		if d.Bound() {
			t.Error("expected restored dialog to be unbound")
		}
		if d.Params() != params {
			t.Errorf("expected params %+v, got %+v", params, d.Params())
		}
		if _, err := after.Confirm(TagRemoveFromPlaylist, ""); !errors.Is(err, shared.ErrUnbound) {
			t.Errorf("expected ErrUnbound before rebind, got %v", err)
		}

		live := &recordingHandler{name: "live"}
		if n := after.Rebind(live); n != 1 {
			t.Errorf("expected 1 rebound dialog, got %d", n)
		}
		if _, err := after.Confirm(TagRemoveFromPlaylist, ""); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(stale.calls) != 0 {
			t.Errorf("expected stale handler untouched, got %d calls", len(stale.calls))
		}
		if len(live.calls) != 1 || live.calls[0].params != params {
			t.Errorf("expected live handler to receive %+v, got %+v", params, live.calls)
		}
	})

	t.Run("Restore drops unreadable records", func(t *testing.T) {
		store := NewMemoryStore()
		store.Save(Record{Tag: TagDeletePlaylist, Kind: KindDeletePlaylist, Params: "{not json"})
		store.Save(Record{Tag: TagPlaylistName, Kind: KindDeletePlaylist, Params: `{"name":"x","id":1}`})
		store.Save(Record{Tag: "legacy_dialog", Kind: KindUnknown, Params: "{}"})

		reg := newTestRegistry(t, store)
		n, err := reg.Restore()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if n != 0 {
			t.Errorf("expected nothing restored, got %d", n)
		}
		if records, _ := store.List(); len(records) != 0 {
			t.Errorf("expected unreadable records to be dropped, got %d", len(records))
		}
	})

	t.Run("Unbind leaves other handlers", func(t *testing.T) {
		reg := newTestRegistry(t, nil)
		current := &recordingHandler{}
		reg.Rebind(current)
		reg.Show(NewCreateParams())

		reg.Unbind(&recordingHandler{})
		if d, _ := reg.Get(TagPlaylistName); !d.Bound() {
			t.Error("expected binding to survive unrelated unbind")
		}

		reg.Unbind(current)
		if d, _ := reg.Get(TagPlaylistName); d.Bound() {
			t.Error("expected binding to be dropped")
		}
	})
}

func TestMemoryStore(t *testing.T) {
	t.Run("List orders by shown time then tag", func(t *testing.T) {
		at := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)
		store := NewMemoryStore()
		store.Save(Record{Tag: TagRemoveFromPlaylist, Kind: KindRemoveFromPlaylist, ShownAt: at})
		store.Save(Record{Tag: TagPlaylistName, Kind: KindPlaylistName, ShownAt: at.Add(-time.Minute)})
		store.Save(Record{Tag: TagDeletePlaylist, Kind: KindDeletePlaylist, ShownAt: at})

		records, err := store.List()
		if err != nil {
			t.Fatalf("failed to list records: %v", err)
		}

		want := []string{TagPlaylistName, TagDeletePlaylist, TagRemoveFromPlaylist}
		if len(records) != len(want) {
			t.Fatalf("expected %d records, got %d", len(want), len(records))
		}
		for i, tag := range want {
			if records[i].Tag != tag {
				t.Errorf("expected records[%d] = %s, got %s", i, tag, records[i].Tag)
			}
		}
	})
}

func TestReceipt(t *testing.T) {
	var zero Receipt
	if zero.Valid() {
		t.Error("expected zero receipt to be invalid")
	}
	if err := zero.Check(KindDeletePlaylist); !errors.Is(err, shared.ErrNotConfirmed) {
		t.Errorf("expected ErrNotConfirmed, got %v", err)
	}

	issued := Receipt{kind: KindPlaylistName, serial: 1}
	if err := issued.Check(KindDeletePlaylist); !errors.Is(err, shared.ErrNotConfirmed) {
		t.Errorf("expected receipt for another kind to be rejected, got %v", err)
	}
	if err := issued.Check(KindPlaylistName); err != nil {
		t.Errorf("expected receipt to pass, got %v", err)
	}
}

func TestDecodeRecord(t *testing.T) {
	tt := []struct {
		name    string
		rec     Record
		want    Params
		wantErr bool
	}{
		{
			name: "delete",
			rec:  Record{Tag: TagDeletePlaylist, Kind: KindDeletePlaylist, Params: `{"name":"Old","id":9}`},
			want: DeletePlaylistParams{Name: "Old", ID: 9},
		},
		{
			name:    "tag from another kind",
			rec:     Record{Tag: TagPlaylistName, Kind: KindDeletePlaylist, Params: `{"name":"Old","id":9}`},
			wantErr: true,
		},
		{
			name:    "unknown field",
			rec:     Record{Tag: TagDeletePlaylist, Kind: KindDeletePlaylist, Params: `{"title":"Old"}`},
			wantErr: true,
		},
		{
			name:    "not json",
			rec:     Record{Tag: TagDeletePlaylist, Kind: KindDeletePlaylist, Params: `nope`},
			wantErr: true,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DecodeRecord(tc.rec)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got != tc.want {
				t.Errorf("expected %+v, got %+v", tc.want, got)
			}
		})
	}
}
