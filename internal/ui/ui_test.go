package ui

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/plx/internal/dialogs"
	"github.com/desertthunder/plx/internal/models"
	"github.com/desertthunder/plx/internal/selection"
	"github.com/desertthunder/plx/internal/shared"
	tu "github.com/desertthunder/plx/internal/testing"
)

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
	down  = tea.KeyMsg{Type: tea.KeyDown}
)

func keys(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(t *testing.T, provider *tu.FakeProvider, store dialogs.Store, configure ...func(*ModelOpts)) *Model {
	t.Helper()

	opts := ModelOpts{
		Ctx:            context.Background(),
		Browser:        provider,
		Provider:       provider,
		Store:          store,
		Logger:         shared.NewLogger(io.Discard),
		StatusDuration: -1,
	}
	for _, fn := range configure {
		fn(&opts)
	}

	m := NewModel(opts)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	drain(t, m, m.Init())
	return m
}

func newLibrary() *tu.FakeProvider {
	p := tu.NewFakeProvider()
	p.Library = []models.Playlist{{ID: 7, Name: "Road Trip", TrackCount: 2}}
	p.Tracks[7] = []models.Track{
		{ExternalID: "a", Title: "Song A", Artist: "Band", ArtistID: 12},
		{ExternalID: "b", Title: "Song B", Artist: "Band", ArtistID: 12},
	}
	return p
}

// drain runs cmd and feeds every resulting message back through the model.
func drain(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()

	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 100 {
			t.Fatal("message loop did not settle")
		}
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}

		switch msg := next().(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case tea.QuitMsg, tea.SuspendMsg:
		default:
			_, cmd := m.Update(msg)
			queue = append(queue, cmd)
		}
	}
}

// press sends key messages one at a time, draining after each.
func press(t *testing.T, m *Model, msgs ...tea.KeyMsg) {
	t.Helper()
	for _, msg := range msgs {
		_, cmd := m.Update(msg)
		drain(t, m, cmd)
	}
}

func countCalls(p *tu.FakeProvider, method string) int {
	n := 0
	for _, c := range p.Calls() {
		if c.Method == method {
			n++
		}
	}
	return n
}

func TestModelInit(t *testing.T) {
	m := newTestModel(t, newLibrary(), nil)

	top := m.top()
	if top == nil || top.loading {
		t.Fatal("expected playlists screen to be loaded")
	}
	if got := len(top.list.Items()); got != 1 {
		t.Fatalf("expected 1 playlist, got %d", got)
	}
	if !strings.Contains(m.View(), "Road Trip") {
		t.Error("expected view to list the playlist")
	}
	if !m.Coordinator().Attached() {
		t.Error("expected coordinator to be attached")
	}
}

func TestModelTabs(t *testing.T) {
	p := newLibrary()
	p.Values[models.CategoryGenre] = []models.CategoryValue{{Type: models.CategoryGenre, ID: 3, Value: "Jazz"}}
	m := newTestModel(t, p, nil)

	press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.tab != GenresTab {
		t.Fatalf("expected genres tab, got %v", m.tab)
	}
	if got := len(m.top().list.Items()); got != 1 {
		t.Fatalf("expected 1 genre, got %d", got)
	}

	press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.tab != PlaylistsTab {
		t.Errorf("expected tab to wrap to playlists, got %v", m.tab)
	}
}

func TestModelCreatePlaylist(t *testing.T) {
	t.Run("creates from the name dialog", func(t *testing.T) {
		p := newLibrary()
		p.CreateID = 42
		m := newTestModel(t, p, nil)

		press(t, m, keys("n"))
		if m.focused != dialogs.TagPlaylistName {
			t.Fatalf("expected name dialog, got %q", m.focused)
		}

		press(t, m, keys("Mix"), enter)

		calls := p.Calls()
		if len(calls) != 1 || calls[0].Method != "CreatePlaylist" || calls[0].Name != "Mix" {
			t.Fatalf("unexpected calls: %+v", calls)
		}
		if m.focused != "" {
			t.Error("expected dialog to close")
		}
		if m.status.isErr || !strings.Contains(m.status.text, "Mix") {
			t.Errorf("expected success notification, got %q", m.status.text)
		}
	})

	t.Run("blank name is rejected", func(t *testing.T) {
		p := newLibrary()
		m := newTestModel(t, p, nil)

		press(t, m, keys("n"), keys("  "), enter)

		if len(p.Calls()) != 0 {
			t.Errorf("expected no provider calls, got %+v", p.Calls())
		}
		if !m.status.isErr || m.status.text != shared.Text(shared.MsgNameEmpty) {
			t.Errorf("expected empty name error, got %q", m.status.text)
		}
	})

	t.Run("esc dismisses", func(t *testing.T) {
		p := newLibrary()
		m := newTestModel(t, p, nil)

		press(t, m, keys("n"), esc)

		if m.focused != "" || len(p.Calls()) != 0 {
			t.Error("expected dismissed dialog and no calls")
		}
	})
}

func TestModelAddToPlaylist(t *testing.T) {
	t.Run("track menu opens picker", func(t *testing.T) {
		p := newLibrary()
		m := newTestModel(t, p, nil)

		press(t, m, enter)
		if m.top().kind != tracksScreen {
			t.Fatal("expected track list")
		}

		press(t, m, keys("m"))
		if m.menu == nil {
			t.Fatal("expected track menu")
		}

		press(t, m, enter)
		if m.picker == nil || m.picker.loading {
			t.Fatal("expected loaded playlist picker")
		}
		if m.Coordinator().PendingSelection() == selection.None {
			t.Fatal("expected a pending selection")
		}

		press(t, m, enter)

		calls := p.Calls()
		if len(calls) != 1 || calls[0].Method != "AppendTracks" || calls[0].PlaylistID != 7 {
			t.Fatalf("unexpected calls: %+v", calls)
		}
		if m.picker != nil {
			t.Error("expected picker to close")
		}
		if m.status.text != shared.Text(shared.MsgAddSuccess) {
			t.Errorf("expected add notification, got %q", m.status.text)
		}
	})

	t.Run("cancelled picker adds nothing", func(t *testing.T) {
		p := newLibrary()
		m := newTestModel(t, p, nil)

		press(t, m, enter, keys("a"))
		if m.picker == nil {
			t.Fatal("expected playlist picker")
		}

		press(t, m, esc)

		if len(p.Calls()) != 0 {
			t.Errorf("expected no calls, got %+v", p.Calls())
		}
		if m.Coordinator().PendingSelection() != selection.None {
			t.Error("expected pending selection to be cleared")
		}
	})

	t.Run("expired selection closes the picker with a notice", func(t *testing.T) {
		p := newLibrary()
		m := newTestModel(t, p, nil, func(o *ModelOpts) { o.SelectionTimeout = time.Millisecond })

		press(t, m, enter, keys("a"))
		if m.picker == nil {
			t.Fatal("expected playlist picker")
		}

		time.Sleep(10 * time.Millisecond)
		press(t, m, enter)

		if len(p.Calls()) != 0 {
			t.Errorf("expected no calls, got %+v", p.Calls())
		}
		if m.picker != nil {
			t.Error("expected picker to close")
		}
		if !m.status.isErr || m.status.text != shared.Text(shared.MsgPickExpired) {
			t.Errorf("expected expiry notice, got %q", m.status.text)
		}
	})

	t.Run("add all sends every track", func(t *testing.T) {
		p := newLibrary()
		m := newTestModel(t, p, nil)

		press(t, m, enter, keys("a"), enter)

		calls := p.Calls()
		if len(calls) != 1 || len(calls[0].ExternalIDs) != 2 {
			t.Fatalf("unexpected calls: %+v", calls)
		}
	})
}

func TestModelDeletePlaylist(t *testing.T) {
	openDelete := func(t *testing.T, m *Model) {
		t.Helper()
		press(t, m, keys("m"), down, down, enter)
		if m.focused != dialogs.TagDeletePlaylist {
			t.Fatalf("expected delete dialog, got %q", m.focused)
		}
	}

	t.Run("cancel keeps playlist", func(t *testing.T) {
		p := newLibrary()
		m := newTestModel(t, p, nil)

		openDelete(t, m)
		press(t, m, keys("n"))

		if countCalls(p, "DeletePlaylist") != 0 {
			t.Error("expected no delete without confirmation")
		}
		if m.focused != "" {
			t.Error("expected dialog to close")
		}
	})

	t.Run("confirm deletes", func(t *testing.T) {
		p := newLibrary()
		m := newTestModel(t, p, nil)

		openDelete(t, m)
		press(t, m, keys("y"))

		calls := p.Calls()
		if len(calls) != 1 || calls[0].Method != "DeletePlaylist" || calls[0].PlaylistID != 7 {
			t.Fatalf("unexpected calls: %+v", calls)
		}
		if m.status.isErr {
			t.Errorf("expected success notification, got %q", m.status.text)
		}
	})

	t.Run("dialog survives recreation", func(t *testing.T) {
		store := dialogs.NewMemoryStore()
		first := newLibrary()
		m := newTestModel(t, first, store)
		openDelete(t, m)

		second := newLibrary()
		restored := newTestModel(t, second, store)
		if restored.focused != dialogs.TagDeletePlaylist {
			t.Fatalf("expected restored delete dialog, got %q", restored.focused)
		}

		press(t, restored, keys("y"))

		if len(first.Calls()) != 0 {
			t.Errorf("expected no calls on the old provider, got %+v", first.Calls())
		}
		if countCalls(second, "DeletePlaylist") != 1 {
			t.Errorf("expected delete on the new provider, got %+v", second.Calls())
		}
	})
}

func TestModelLifecycle(t *testing.T) {
	t.Run("suspend and resume", func(t *testing.T) {
		p := newLibrary()
		m := newTestModel(t, p, nil)

		press(t, m, tea.KeyMsg{Type: tea.KeyCtrlZ})
		if m.Coordinator().Attached() || p.Detaches != 1 {
			t.Fatal("expected detached provider")
		}

		m.Update(tea.ResumeMsg{})
		if !m.Coordinator().Attached() || p.Attaches != 2 {
			t.Error("expected re-attached provider")
		}
	})

	t.Run("quit destroys", func(t *testing.T) {
		p := newLibrary()
		m := newTestModel(t, p, nil)

		_, cmd := m.Update(keys("q"))
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Fatal("expected quit")
		}
		if !p.Destroyed {
			t.Error("expected provider to be destroyed")
		}
	})
}

func TestStatus(t *testing.T) {
	s := &status{}
	s.Success("one")
	seq := s.seq
	s.Error("two")

	s.clear(seq)
	if s.text != "two" {
		t.Errorf("expected stale clear to be ignored, got %q", s.text)
	}

	s.clear(s.seq)
	if s.text != "" || s.View() != "" {
		t.Error("expected status to be cleared")
	}

	if s.clearAfter(-1) != nil {
		t.Error("expected negative duration to keep messages")
	}
}
