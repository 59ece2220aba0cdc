package tasks

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/plx/internal/dialogs"
	"github.com/desertthunder/plx/internal/models"
	"github.com/desertthunder/plx/internal/selection"
	"github.com/desertthunder/plx/internal/services"
	"github.com/desertthunder/plx/internal/shared"
)

var _ dialogs.Handler = (*Coordinator)(nil)

// PlaylistPicker opens a screen where the user picks a playlist. The answer must come back through
// [Coordinator.OnSelectionResult] with the same token.
type PlaylistPicker interface {
	PickPlaylist(token selection.Token, prompt string) tea.Cmd
}

// CoordinatorOpts configures a [Coordinator].
type CoordinatorOpts struct {
	Provider             services.Provider
	Picker               PlaylistPicker
	Notifier             Notifier
	Listener             Listener
	Logger               *log.Logger
	NotifyRemoveFailures bool
	SelectionTimeout     time.Duration // 0 keeps a pending selection until it is answered
	RequestTimeout       time.Duration // per provider call, 0 disables
}

// Coordinator owns the provider handle, the pending playlist selection and the reporting of every mutation.
type Coordinator struct {
	provider  services.Provider
	picker    PlaylistPicker
	reporter  *Reporter
	selection *selection.Channel[tea.Cmd]
	logger    *log.Logger
	timeout   time.Duration
	owner     string

	mu        sync.Mutex
	registry  *dialogs.Registry
	attached  bool
	destroyed bool
	serial    uint64
	inflight  map[uint64]Op
	observers []chan<- Outcome
}

// NewCoordinator creates a detached [Coordinator]. Call [Coordinator.OnCreate] and [Coordinator.OnResume] before
// issuing operations.
func NewCoordinator(opts CoordinatorOpts) *Coordinator {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Listener == nil {
		opts.Listener = NopListener{}
	}

	return &Coordinator{
		provider:  opts.Provider,
		picker:    opts.Picker,
		reporter:  &Reporter{Notifier: opts.Notifier, Listener: opts.Listener, NotifyRemoveFailures: opts.NotifyRemoveFailures},
		selection: selection.New[tea.Cmd](selection.WithTimeout(opts.SelectionTimeout)),
		logger:    shared.WithLogger(opts.Logger, "component", "coordinator"),
		timeout:   opts.RequestTimeout,
		owner:     shared.GenerateID(),
		inflight:  make(map[uint64]Op),
	}
}

// OnCreate binds every dialog in registry to c. Dialogs shown later through c use the same registry.
func (c *Coordinator) OnCreate(registry *dialogs.Registry) {
	c.mu.Lock()
	c.registry = registry
	c.mu.Unlock()

	n := registry.Rebind(c)
	c.logger.Debug("bound dialogs", "count", n)
}

// OnResume attaches the provider. It is ignored after [Coordinator.OnDestroy].
func (c *Coordinator) OnResume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		c.logger.Warn("resume after destroy ignored")
		return
	}
	if c.attached {
		return
	}
	c.provider.Attach()
	c.attached = true
	c.logger.Debug("attached")
}

// OnPause detaches the provider. Calls already in flight keep running and are still reported.
func (c *Coordinator) OnPause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.attached {
		return
	}
	c.provider.Detach()
	c.attached = false
	c.logger.Debug("detached")
}

// OnDestroy releases the provider, drops the pending selection and in-flight bookkeeping, and unbinds dialogs.
// Dialog parameters stay in the registry's store for the next coordinator.
func (c *Coordinator) OnDestroy() {
	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return
	}
	c.destroyed = true
	c.attached = false
	registry := c.registry
	c.registry = nil
	dropped := len(c.inflight)
	clear(c.inflight)
	c.observers = nil
	c.mu.Unlock()

	c.provider.Destroy()
	c.selection.Clear()
	if registry != nil {
		registry.Unbind(c)
	}
	c.logger.Debug("destroyed", "inflight_dropped", dropped)
}

// Attached reports whether operations may be issued.
func (c *Coordinator) Attached() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attached
}

// Observe registers ch to receive every handled [Outcome]. Sends never block; a full channel misses updates.
func (c *Coordinator) Observe(ch chan<- Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, ch)
}

// Ready reports whether c can handle a confirmed dialog now.
func (c *Coordinator) Ready() error { return c.guard() }

func (c *Coordinator) guard() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.destroyed:
		return fmt.Errorf("%w: coordinator", shared.ErrDestroyed)
	case !c.attached:
		return fmt.Errorf("%w: coordinator", shared.ErrNotAttached)
	default:
		return nil
	}
}

func (c *Coordinator) liveRegistry() (*dialogs.Registry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return nil, fmt.Errorf("%w: coordinator", shared.ErrDestroyed)
	}
	if c.registry == nil {
		return nil, fmt.Errorf("%w: no dialog registry", shared.ErrUnbound)
	}
	return c.registry, nil
}

func (c *Coordinator) show(p dialogs.Params) error {
	registry, err := c.liveRegistry()
	if err != nil {
		return err
	}
	return registry.Show(p)
}

// PromptCreatePlaylist shows the name dialog for a new playlist.
func (c *Coordinator) PromptCreatePlaylist() error {
	return c.show(dialogs.NewCreateParams())
}

// PromptRenamePlaylist shows the name dialog seeded with the current name.
func (c *Coordinator) PromptRenamePlaylist(name string, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: %d", shared.ErrInvalidPlaylistID, id)
	}
	return c.show(dialogs.NewRenameParams(name, id))
}

// DeletePlaylist asks the user to confirm deleting the playlist. Nothing is issued until the dialog is confirmed.
func (c *Coordinator) DeletePlaylist(id int64, name string) error {
	return c.show(dialogs.DeletePlaylistParams{Name: name, ID: id})
}

// RemoveFromPlaylist asks the user to confirm removing entry from its playlist.
func (c *Coordinator) RemoveFromPlaylist(entry models.PlaylistEntry) error {
	if entry.PlaylistID <= 0 {
		return fmt.Errorf("%w: %d", shared.ErrInvalidPlaylistID, entry.PlaylistID)
	}
	return c.show(dialogs.RemoveFromPlaylistParams{
		PlaylistID: entry.PlaylistID,
		TrackTitle: entry.Track.Title,
		ExternalID: entry.Track.ExternalID,
		Position:   entry.Position,
	})
}

// CreatePlaylist issues a create call for name.
func (c *Coordinator) CreatePlaylist(name string) (tea.Cmd, error) {
	if err := c.guard(); err != nil {
		return nil, err
	}

	return c.issue(OpCreate, 0, name, func(ctx context.Context) (Outcome, error) {
		id, err := c.provider.CreatePlaylist(ctx, name)
		if err != nil {
			return Outcome{Status: StatusTransportFailure}, err
		}
		if id <= 0 {
			return Outcome{Status: StatusLogicalFailure}, nil
		}
		return Outcome{PlaylistID: id, Status: StatusSuccess}, nil
	}), nil
}

// RenamePlaylist issues a rename of playlist id to name.
func (c *Coordinator) RenamePlaylist(name string, id int64) (tea.Cmd, error) {
	if err := c.guard(); err != nil {
		return nil, err
	}

	return c.issue(OpRename, id, name, func(ctx context.Context) (Outcome, error) {
		ok, err := c.provider.RenamePlaylist(ctx, id, name)
		status, err := boolOutcome(ok, err)
		return Outcome{Status: status}, err
	}), nil
}

// AddTrack asks for a target playlist and appends track to it.
func (c *Coordinator) AddTrack(track models.Track) (tea.Cmd, error) {
	return c.AddTracks([]models.Track{track})
}

// AddTracks asks for a target playlist and appends tracks to it.
func (c *Coordinator) AddTracks(tracks []models.Track) (tea.Cmd, error) {
	if len(tracks) == 0 {
		return nil, fmt.Errorf("%w: no tracks", shared.ErrNothingToAdd)
	}
	tracks = append([]models.Track(nil), tracks...)

	return c.pickThenAppend(func(ctx context.Context, id int64) (bool, error) {
		return c.provider.AppendTracks(ctx, id, tracks)
	})
}

// AddCategory asks for a target playlist and appends every track of the category.
func (c *Coordinator) AddCategory(categoryType string, categoryID int64) (tea.Cmd, error) {
	if categoryType == "" {
		return nil, fmt.Errorf("%w: category type", shared.ErrMissingArgument)
	}

	return c.pickThenAppend(func(ctx context.Context, id int64) (bool, error) {
		return c.provider.AppendCategory(ctx, id, categoryType, categoryID)
	})
}

// AddCategoryValue asks for a target playlist and appends every track of value.
func (c *Coordinator) AddCategoryValue(value models.CategoryValue) (tea.Cmd, error) {
	return c.pickThenAppend(func(ctx context.Context, id int64) (bool, error) {
		return c.provider.AppendCategoryValue(ctx, id, value)
	})
}

func (c *Coordinator) pickThenAppend(appendFn func(ctx context.Context, id int64) (bool, error)) (tea.Cmd, error) {
	if err := c.guard(); err != nil {
		return nil, err
	}
	if c.picker == nil {
		return nil, fmt.Errorf("%w: playlist picker", shared.ErrServiceUnavailable)
	}

	token := c.selection.Request(func(id int64) tea.Cmd {
		if err := c.guard(); err != nil {
			c.logger.Warn("selection resolved while unavailable", "playlist", id, "error", err)
			return nil
		}
		return c.issue(OpAdd, id, "", func(ctx context.Context) (Outcome, error) {
			status, err := boolOutcome(appendFn(ctx, id))
			return Outcome{Status: status}, err
		})
	})

	c.logger.Debug("awaiting playlist selection", "token", token)
	return c.picker.PickPlaylist(token, shared.Text(shared.MsgPickPlaylist)), nil
}

// OnSelectionResult forwards the picker's answer. id <= 0 means the pick was cancelled. The returned command performs
// the pending operation, or is nil when nothing was pending for token.
func (c *Coordinator) OnSelectionResult(token selection.Token, id int64) tea.Cmd {
	cmd, ok := c.selection.Resolve(token, id)
	if !ok {
		c.logger.Debug("selection discarded", "token", token, "playlist", id)
		return nil
	}
	return cmd
}

// PendingSelection returns the token of the outstanding picker request, if any.
func (c *Coordinator) PendingSelection() selection.Token {
	return c.selection.Pending()
}

// DeletePlaylistConfirmed implements [dialogs.Handler].
func (c *Coordinator) DeletePlaylistConfirmed(r dialogs.Receipt, p dialogs.DeletePlaylistParams) (tea.Cmd, error) {
	if err := r.Check(dialogs.KindDeletePlaylist); err != nil {
		return nil, err
	}
	if err := c.guard(); err != nil {
		return nil, err
	}
	if p.ID <= 0 {
		c.logger.Debug("delete confirmed without a playlist", "id", p.ID)
		return nil, nil
	}

	return c.issue(OpDelete, p.ID, p.Name, func(ctx context.Context) (Outcome, error) {
		status, err := boolOutcome(c.provider.DeletePlaylist(ctx, p.ID))
		return Outcome{Status: status}, err
	}), nil
}

// RemoveFromPlaylistConfirmed implements [dialogs.Handler].
func (c *Coordinator) RemoveFromPlaylistConfirmed(r dialogs.Receipt, p dialogs.RemoveFromPlaylistParams) (tea.Cmd, error) {
	if err := r.Check(dialogs.KindRemoveFromPlaylist); err != nil {
		return nil, err
	}
	if err := c.guard(); err != nil {
		return nil, err
	}

	return c.issue(OpRemove, p.PlaylistID, "", func(ctx context.Context) (Outcome, error) {
		ok, err := c.provider.RemoveTracks(ctx, p.PlaylistID, []string{p.ExternalID}, []int{p.Position})
		status, err := boolOutcome(ok, err)
		return Outcome{Status: status}, err
	}), nil
}

// PlaylistNameConfirmed implements [dialogs.Handler]. A blank name is reported and nothing is issued.
func (c *Coordinator) PlaylistNameConfirmed(r dialogs.Receipt, p dialogs.PlaylistNameParams, name string) (tea.Cmd, error) {
	if err := r.Check(dialogs.KindPlaylistName); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		c.reporter.fail(shared.Text(shared.MsgNameEmpty))
		return nil, shared.ErrEmptyName
	}

	if p.Action == dialogs.ActionRename {
		return c.RenamePlaylist(name, p.ID)
	}
	return c.CreatePlaylist(name)
}

// issue allocates a serial for op and returns the command that performs call.
func (c *Coordinator) issue(op Op, playlistID int64, name string, call func(ctx context.Context) (Outcome, error)) tea.Cmd {
	c.mu.Lock()
	c.serial++
	serial := c.serial
	c.inflight[serial] = op
	c.mu.Unlock()

	c.logger.Info("issuing", "op", op, "serial", serial, "playlist", playlistID)

	timeout, owner := c.timeout, c.owner
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		o, err := call(ctx)
		o.Serial, o.Op, o.Name, o.Err = serial, op, name, err
		if o.PlaylistID == 0 {
			o.PlaylistID = playlistID
		}
		return OutcomeMsg{Outcome: o, Owner: owner}
	}
}

// Update reports an [OutcomeMsg] and returns true if msg was one. Each serial is reported once. Outcomes that
// arrive after [Coordinator.OnDestroy], or that another coordinator issued, are dropped.
func (c *Coordinator) Update(msg tea.Msg) bool {
	m, ok := msg.(OutcomeMsg)
	if !ok {
		return false
	}

	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		c.logger.Debug("late outcome ignored", "outcome", m.Outcome)
		return true
	}
	if m.Owner != c.owner {
		c.mu.Unlock()
		c.logger.Debug("foreign outcome ignored", "outcome", m.Outcome, "owner", m.Owner)
		return true
	}
	if _, ok := c.inflight[m.Serial]; !ok {
		c.mu.Unlock()
		c.logger.Debug("unknown or duplicate outcome ignored", "outcome", m.Outcome)
		return true
	}
	delete(c.inflight, m.Serial)
	observers := append([]chan<- Outcome(nil), c.observers...)
	c.mu.Unlock()

	if m.OK() {
		c.logger.Info("completed", "op", m.Op, "serial", m.Serial, "playlist", m.PlaylistID)
	} else {
		c.logger.Warn("failed", "op", m.Op, "serial", m.Serial, "status", m.Status, "error", m.Err)
	}

	c.reporter.Report(m.Outcome)
	for _, ch := range observers {
		c.sendOutcome(ch, m.Outcome)
	}
	return true
}

// sendOutcome sends without blocking so a slow observer can't stall the event loop.
func (c *Coordinator) sendOutcome(ch chan<- Outcome, o Outcome) {
	select {
	case ch <- o:
	default:
		c.logger.Debug("observer full, outcome skipped", "serial", o.Serial)
	}
}

// InFlight returns the number of issued operations not yet reported.
func (c *Coordinator) InFlight() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.inflight)
}
