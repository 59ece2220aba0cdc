package testing

import (
	"context"
	"slices"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/plx/internal/models"
	"github.com/desertthunder/plx/internal/selection"
	"github.com/desertthunder/plx/internal/services"
)

var (
	_ services.Provider = (*FakeProvider)(nil)
	_ services.Browser  = (*FakeProvider)(nil)
)

// ProviderCall records a single mutating call made against a [FakeProvider]
type ProviderCall struct {
	Method      string
	PlaylistID  int64
	Name        string
	ExternalIDs []string
	Positions   []int
	Category    models.CategoryRef
}

// FakeProvider is a test double for [services.Provider] and [services.Browser].
//
// Every mutation answers with Result (CreateID for create) or Err when set.
type FakeProvider struct {
	mu sync.Mutex

	CreateID int64
	Result   bool
	Err      error

	Library  []models.Playlist
	Tracks   map[int64][]models.Track
	Values   map[string][]models.CategoryValue
	Category map[string][]models.Track
	Played   []models.CategoryRef

	calls     []ProviderCall
	Attaches  int
	Detaches  int
	Destroyed bool
}

// NewFakeProvider creates a provider whose mutations succeed
func NewFakeProvider() *FakeProvider {
	return &FakeProvider{Result: true, Tracks: map[int64][]models.Track{}, Values: map[string][]models.CategoryValue{}, Category: map[string][]models.Track{}}
}

func (p *FakeProvider) record(call ProviderCall) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, call)
}

// Calls returns a copy of the recorded mutating calls
func (p *FakeProvider) Calls() []ProviderCall {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.calls)
}

func (p *FakeProvider) CreatePlaylist(ctx context.Context, name string) (int64, error) {
	p.record(ProviderCall{Method: "CreatePlaylist", Name: name})
	if p.Err != nil {
		return 0, p.Err
	}
	return p.CreateID, nil
}

func (p *FakeProvider) RenamePlaylist(ctx context.Context, id int64, name string) (bool, error) {
	p.record(ProviderCall{Method: "RenamePlaylist", PlaylistID: id, Name: name})
	return p.Result, p.Err
}

func (p *FakeProvider) DeletePlaylist(ctx context.Context, id int64) (bool, error) {
	p.record(ProviderCall{Method: "DeletePlaylist", PlaylistID: id})
	return p.Result, p.Err
}

func (p *FakeProvider) AppendTracks(ctx context.Context, id int64, tracks []models.Track) (bool, error) {
	p.record(ProviderCall{Method: "AppendTracks", PlaylistID: id, ExternalIDs: models.ExternalIDs(tracks)})
	return p.Result, p.Err
}

func (p *FakeProvider) AppendCategory(ctx context.Context, id int64, categoryType string, categoryID int64) (bool, error) {
	p.record(ProviderCall{Method: "AppendCategory", PlaylistID: id, Category: models.CategoryRef{Type: categoryType, ID: categoryID}})
	return p.Result, p.Err
}

func (p *FakeProvider) AppendCategoryValue(ctx context.Context, id int64, value models.CategoryValue) (bool, error) {
	p.record(ProviderCall{Method: "AppendCategoryValue", PlaylistID: id, Name: value.Value, Category: value.Ref()})
	return p.Result, p.Err
}

func (p *FakeProvider) RemoveTracks(ctx context.Context, id int64, externalIDs []string, positions []int) (bool, error) {
	p.record(ProviderCall{Method: "RemoveTracks", PlaylistID: id, ExternalIDs: externalIDs, Positions: positions})
	return p.Result, p.Err
}

func (p *FakeProvider) Attach() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Attaches++
}

func (p *FakeProvider) Detach() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Detaches++
}

func (p *FakeProvider) Destroy() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Destroyed = true
}

func (p *FakeProvider) Playlists(ctx context.Context) ([]models.Playlist, error) {
	return p.Library, p.Err
}

func (p *FakeProvider) PlaylistTracks(ctx context.Context, id int64) ([]models.Track, error) {
	return p.Tracks[id], p.Err
}

func (p *FakeProvider) CategoryValues(ctx context.Context, categoryType string, filter *models.CategoryRef) ([]models.CategoryValue, error) {
	return p.Values[categoryType], p.Err
}

func (p *FakeProvider) CategoryTracks(ctx context.Context, ref models.CategoryRef) ([]models.Track, error) {
	return p.Category[ref.String()], p.Err
}

func (p *FakeProvider) Play(ctx context.Context, ref models.CategoryRef) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Played = append(p.Played, ref)
	return p.Err
}

// RecordingNotifier collects success and error notifications
type RecordingNotifier struct {
	Successes []string
	Errors    []string
}

func (n *RecordingNotifier) Success(msg string) { n.Successes = append(n.Successes, msg) }
func (n *RecordingNotifier) Error(msg string)   { n.Errors = append(n.Errors, msg) }

// Total is the number of notifications of either kind
func (n *RecordingNotifier) Total() int { return len(n.Successes) + len(n.Errors) }

// RecordingListener collects playlist change callbacks
type RecordingListener struct {
	Created []int64
	Updated []int64
	Deleted []int64
}

func (l *RecordingListener) PlaylistCreated(id int64) { l.Created = append(l.Created, id) }
func (l *RecordingListener) PlaylistUpdated(id int64) { l.Updated = append(l.Updated, id) }
func (l *RecordingListener) PlaylistDeleted(id int64) { l.Deleted = append(l.Deleted, id) }

// Total is the number of callbacks of any kind
func (l *RecordingListener) Total() int { return len(l.Created) + len(l.Updated) + len(l.Deleted) }

// Route is a navigation request captured by [FakeNavigator]
type Route struct {
	Screen string
	Ref    models.CategoryRef
	Filter *models.CategoryRef
	Title  string
}

// PickedMsg is returned by the command [FakeNavigator.PickPlaylist] produces
type PickedMsg struct {
	Token  selection.Token
	Prompt string
}

// FakeNavigator records navigation and picker requests
type FakeNavigator struct {
	Routes []Route
	Plays  []models.CategoryRef
	Picks  []selection.Token
}

func (n *FakeNavigator) PickPlaylist(token selection.Token, prompt string) tea.Cmd {
	n.Picks = append(n.Picks, token)
	return func() tea.Msg { return PickedMsg{Token: token, Prompt: prompt} }
}

func (n *FakeNavigator) ShowAlbums(ref models.CategoryRef, title string) tea.Cmd {
	n.Routes = append(n.Routes, Route{Screen: "albums", Ref: ref, Title: title})
	return nil
}

func (n *FakeNavigator) ShowTracks(ref models.CategoryRef, title string) tea.Cmd {
	n.Routes = append(n.Routes, Route{Screen: "tracks", Ref: ref, Title: title})
	return nil
}

func (n *FakeNavigator) ShowCategory(categoryType string, filter models.CategoryRef, title string) tea.Cmd {
	f := filter
	n.Routes = append(n.Routes, Route{Screen: categoryType, Filter: &f, Title: title})
	return nil
}

func (n *FakeNavigator) Play(ref models.CategoryRef) tea.Cmd {
	n.Plays = append(n.Plays, ref)
	return nil
}

// LastPick returns the most recent picker token, or [selection.None]
func (n *FakeNavigator) LastPick() selection.Token {
	if len(n.Picks) == 0 {
		return selection.None
	}
	return n.Picks[len(n.Picks)-1]
}
