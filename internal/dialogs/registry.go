package dialogs

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/plx/internal/shared"
)

// Receipt proves that a dialog went from Shown to Confirmed. Only [Registry.Confirm] produces valid receipts.
type Receipt struct {
	kind   Kind
	serial uint64
}

// Valid reports whether the receipt was issued by a [Registry].
func (r Receipt) Valid() bool { return r.serial != 0 && r.kind != KindUnknown }

// Kind is the kind of dialog that was confirmed.
func (r Receipt) Kind() Kind { return r.kind }

// Check returns [shared.ErrNotConfirmed] unless r is a valid receipt for kind.
func (r Receipt) Check(kind Kind) error {
	if !r.Valid() || r.kind != kind {
		return fmt.Errorf("%w: %s", shared.ErrNotConfirmed, kind)
	}
	return nil
}

// Handler receives confirmed dialogs. It is implemented by the playlist coordinator.
//
// Ready is checked before a dialog is consumed; while it returns an error the dialog stays shown.
type Handler interface {
	Ready() error
	DeletePlaylistConfirmed(r Receipt, p DeletePlaylistParams) (tea.Cmd, error)
	RemoveFromPlaylistConfirmed(r Receipt, p RemoveFromPlaylistParams) (tea.Cmd, error)
	PlaylistNameConfirmed(r Receipt, p PlaylistNameParams, name string) (tea.Cmd, error)
}

// Dialog is a snapshot of a live dialog.
type Dialog struct {
	kind    Kind
	params  Params
	state   State
	handler Handler
	shownAt time.Time
	order   uint64
}

func (d Dialog) Kind() Kind         { return d.kind }
func (d Dialog) Tag() string        { return d.kind.Tag() }
func (d Dialog) Params() Params     { return d.params }
func (d Dialog) State() State       { return d.state }
func (d Dialog) Bound() bool        { return d.handler != nil }
func (d Dialog) ShownAt() time.Time { return d.shownAt }
func (d Dialog) Title() string      { return Title(d.params) }
func (d Dialog) Message() string    { return Message(d.params) }

// WantsInput reports whether the dialog takes text input.
func (d Dialog) WantsInput() bool { return d.kind == KindPlaylistName }

// Input returns the initial text for the input field, the current name when renaming.
func (d Dialog) Input() string {
	if p, ok := d.params.(PlaylistNameParams); ok {
		return p.Name
	}
	return ""
}

// Registry tracks live dialogs by tag and binds them to the current [Handler].
type Registry struct {
	mu       sync.Mutex
	store    Store
	logger   *log.Logger
	live     map[string]*Dialog
	last     map[string]State
	handler  Handler
	order    uint64
	receipts uint64
	now      func() time.Time
}

// NewRegistry creates a registry persisting to store. A nil store keeps records in memory.
func NewRegistry(store Store, logger *log.Logger) *Registry {
	if store == nil {
		store = NewMemoryStore()
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Registry{
		store:  store,
		logger: shared.WithLogger(logger, "component", "dialogs"),
		live:   make(map[string]*Dialog),
		last:   make(map[string]State),
		now:    time.Now,
	}
}

// Show persists p and makes it the live dialog for its tag, dismissing any dialog already shown under that tag.
// The new dialog is bound to the current handler, if any.
func (r *Registry) Show(p Params) error {
	kind := p.Kind()
	if kind == KindUnknown {
		return fmt.Errorf("%w: dialog kind", shared.ErrInvalidInput)
	}

	data, err := encodeParams(p)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	shownAt := r.now()
	tag := kind.Tag()
	if err := r.store.Save(Record{Tag: tag, Kind: kind, Params: data, ShownAt: shownAt}); err != nil {
		return fmt.Errorf("failed to persist %s: %w", tag, err)
	}

	if prev, ok := r.live[tag]; ok {
		prev.state = Cancelled
		r.logger.Debug("dismissed existing dialog", "tag", tag)
	}

	r.order++
	r.live[tag] = &Dialog{kind: kind, params: p, state: Shown, handler: r.handler, shownAt: shownAt, order: r.order}
	r.logger.Debug("shown", "tag", tag, "bound", r.handler != nil)
	return nil
}

// Confirm moves the dialog for tag to Confirmed and hands its params to the bound handler. input is only used by
// the name dialog.
//
// An unbound dialog is left shown and [shared.ErrUnbound] is returned. So is a dialog whose handler isn't
// ready, along with the handler's error.
func (r *Registry) Confirm(tag, input string) (tea.Cmd, error) {
	d, h, err := r.bound(tag)
	if err != nil {
		return nil, err
	}
	// Ready takes the handler's lock, so it runs outside ours.
	if err := h.Ready(); err != nil {
		r.logger.Warn("handler not ready, dialog kept", "tag", tag, "error", err)
		return nil, err
	}

	r.mu.Lock()
	if r.live[tag] != d || d.handler != h {
		r.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", shared.ErrNoDialog, tag)
	}
	delete(r.live, tag)
	d.state = Confirmed
	r.last[tag] = Confirmed
	r.receipts++
	receipt := Receipt{kind: d.kind, serial: r.receipts}
	params := d.params
	r.mu.Unlock()

	r.forget(tag)
	r.logger.Debug("confirmed", "tag", tag)

	switch p := params.(type) {
	case DeletePlaylistParams:
		return h.DeletePlaylistConfirmed(receipt, p)
	case RemoveFromPlaylistParams:
		return h.RemoveFromPlaylistConfirmed(receipt, p)
	case PlaylistNameParams:
		return h.PlaylistNameConfirmed(receipt, p, input)
	default:
		return nil, fmt.Errorf("%w: dialog params %T", shared.ErrInvalidInput, params)
	}
}

func (r *Registry) bound(tag string) (*Dialog, Handler, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.live[tag]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", shared.ErrNoDialog, tag)
	}
	if d.handler == nil {
		r.logger.Warn("confirm on unbound dialog", "tag", tag)
		return nil, nil, fmt.Errorf("%w: %s", shared.ErrUnbound, tag)
	}
	return d, d.handler, nil
}

// Cancel closes the dialog for tag without calling the handler.
func (r *Registry) Cancel(tag string) error {
	r.mu.Lock()
	d, ok := r.live[tag]
	if !ok {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s", shared.ErrNoDialog, tag)
	}
	delete(r.live, tag)
	d.state = Cancelled
	r.last[tag] = Cancelled
	r.mu.Unlock()

	r.forget(tag)
	r.logger.Debug("cancelled", "tag", tag)
	return nil
}

func (r *Registry) forget(tag string) {
	if err := r.store.Delete(tag); err != nil {
		r.logger.Warn("failed to delete dialog record", "tag", tag, "error", err)
	}
}

// Rebind points the registry and every live dialog at h and returns the number of dialogs bound.
func (r *Registry) Rebind(h Handler) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.handler = h
	for _, d := range r.live {
		d.handler = h
	}
	r.logger.Debug("rebound", "dialogs", len(r.live))
	return len(r.live)
}

// Unbind drops every binding to h. Bindings to other handlers are left alone.
func (r *Registry) Unbind(h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.handler == h {
		r.handler = nil
	}
	for _, d := range r.live {
		if d.handler == h {
			d.handler = nil
		}
	}
}

// Restore rebuilds dialogs from the store. Restored dialogs are unbound until the next [Registry.Rebind].
// Records that can't be decoded are dropped from the store.
func (r *Registry) Restore() (int, error) {
	records, err := r.store.List()
	if err != nil {
		return 0, fmt.Errorf("failed to list dialog records: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	restored := 0
	for _, rec := range records {
		if _, ok := r.live[rec.Tag]; ok {
			continue
		}

		p, err := DecodeRecord(rec)
		if err != nil {
			r.logger.Warn("dropping unreadable dialog record", "tag", rec.Tag, "error", err)
			if delErr := r.store.Delete(rec.Tag); delErr != nil {
				errs = append(errs, delErr)
			}
			continue
		}

		r.order++
		r.live[rec.Tag] = &Dialog{kind: rec.Kind, params: p, state: Shown, shownAt: rec.ShownAt, order: r.order}
		restored++
	}

	r.logger.Debug("restored", "dialogs", restored)
	return restored, errors.Join(errs...)
}

// Get returns the live dialog for tag.
func (r *Registry) Get(tag string) (Dialog, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.live[tag]
	if !ok {
		return Dialog{}, false
	}
	return *d, true
}

// State returns Shown for a live dialog, otherwise how the last dialog under tag ended.
func (r *Registry) State(tag string) State {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.live[tag]; ok {
		return Shown
	}
	return r.last[tag]
}

// Active returns the most recently shown live dialog.
func (r *Registry) Active() (Dialog, bool) {
	live := r.Live()
	if len(live) == 0 {
		return Dialog{}, false
	}
	return live[len(live)-1], true
}

// Live returns all live dialogs, oldest first.
func (r *Registry) Live() []Dialog {
	r.mu.Lock()
	defer r.mu.Unlock()

	dialogs := make([]Dialog, 0, len(r.live))
	for _, d := range r.live {
		dialogs = append(dialogs, *d)
	}
	slices.SortFunc(dialogs, func(a, b Dialog) int { return int(a.order) - int(b.order) })
	return dialogs
}
