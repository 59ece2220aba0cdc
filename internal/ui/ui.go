package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/plx/internal/dialogs"
	"github.com/desertthunder/plx/internal/menus"
	"github.com/desertthunder/plx/internal/models"
	"github.com/desertthunder/plx/internal/selection"
	"github.com/desertthunder/plx/internal/services"
	"github.com/desertthunder/plx/internal/shared"
	"github.com/desertthunder/plx/internal/tasks"
)

// Tab is a top-level browse category.
type Tab int

const (
	PlaylistsTab Tab = iota
	ArtistsTab
	AlbumsTab
	GenresTab
)

var tabs = []struct {
	title        string
	categoryType string
}{
	{"Playlists", models.CategoryPlaylists},
	{"Artists", models.CategoryArtist},
	{"Albums", models.CategoryAlbum},
	{"Genres", models.CategoryGenre},
}

func (t Tab) String() string { return tabs[t].title }

type screenKind int

const (
	valuesScreen screenKind = iota
	tracksScreen
)

// screen is one level of the browse stack.
type screen struct {
	id           int
	kind         screenKind
	title        string
	categoryType string
	filter       *models.CategoryRef
	ref          models.CategoryRef
	playlistID   int64
	list         list.Model
	loading      bool
}

// picker is the "pick a playlist" screen opened by a deferred selection.
type picker struct {
	token   selection.Token
	prompt  string
	list    list.Model
	loading bool
}

// menuOverlay is an open context menu.
type menuOverlay struct {
	menu menus.Menu
	list list.Model
}

// ModelOpts configures a [Model].
type ModelOpts struct {
	Ctx                  context.Context
	Browser              services.Browser
	Provider             services.Provider
	Store                dialogs.Store
	Logger               *log.Logger
	NotifyRemoveFailures bool
	SelectionTimeout     time.Duration
	RequestTimeout       time.Duration
	StatusDuration       time.Duration // negative keeps notifications until replaced
}

// Model represents the TUI application state.
type Model struct {
	ctx         context.Context
	browser     services.Browser
	coordinator *tasks.Coordinator
	registry    *dialogs.Registry
	presenter   *menus.Presenter
	logger      *log.Logger

	width  int
	height int

	tab     Tab
	stack   []*screen
	screens int
	picker  *picker
	menu    *menuOverlay
	input   textinput.Model
	focused string // tag of the dialog currently shown
	status  *status
	linger  time.Duration
	dirty   bool

	help help.Model
	keys keyMap
}

// NewModel creates the TUI model, restores any dialogs persisted in opts.Store and binds them to a new coordinator.
func NewModel(opts ModelOpts) *Model {
	if opts.Ctx == nil {
		opts.Ctx = context.Background()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.StatusDuration == 0 {
		opts.StatusDuration = 3 * time.Second
	}

	m := &Model{
		ctx:     opts.Ctx,
		browser: opts.Browser,
		logger:  shared.WithLogger(opts.Logger, "component", "ui"),
		status:  &status{},
		linger:  opts.StatusDuration,
		input:   newNameInput(),
		help:    help.New(),
		keys:    newKeyMap(),
	}

	nav := navigator{ctx: opts.Ctx, browser: opts.Browser}
	m.registry = dialogs.NewRegistry(opts.Store, opts.Logger)
	if n, err := m.registry.Restore(); err != nil {
		m.logger.Warn("failed to restore dialogs", "error", err)
	} else if n > 0 {
		m.logger.Info("restored dialogs", "count", n)
	}

	m.coordinator = tasks.NewCoordinator(tasks.CoordinatorOpts{
		Provider: opts.Provider,
		Picker:   nav,
		Notifier: m.status,
		Listener: tasks.ListenerFuncs{
			Created: func(int64) { m.dirty = true },
			Updated: func(int64) { m.dirty = true },
			Deleted: func(int64) { m.dirty = true },
		},
		Logger:               opts.Logger,
		NotifyRemoveFailures: opts.NotifyRemoveFailures,
		SelectionTimeout:     opts.SelectionTimeout,
		RequestTimeout:       opts.RequestTimeout,
	})
	m.coordinator.OnCreate(m.registry)
	m.coordinator.OnResume()
	m.presenter = menus.NewPresenter(m.coordinator, nav)
	m.syncDialog()
	return m
}

func newNameInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "Playlist name..."
	ti.CharLimit = 100
	ti.Width = 40
	ti.Prompt = "> "
	ti.Cursor.SetMode(cursor.CursorStatic)
	return ti
}

// Coordinator exposes the playlist coordinator driven by the model.
func (m *Model) Coordinator() *tasks.Coordinator { return m.coordinator }

// Init loads the first tab.
func (m *Model) Init() tea.Cmd {
	return m.openTab(PlaylistsTab)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.coordinator.Update(msg) {
		return m, m.afterUpdate(nil)
	}

	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.ResumeMsg:
		m.coordinator.OnResume()
		return m, nil

	case tea.KeyMsg:
		cmd = m.handleKey(msg)

	case Msg:
		cmd = m.handleMsg(msg)

	default:
		cmd = m.updateTop(msg)
	}

	return m, m.afterUpdate(cmd)
}

// afterUpdate keeps the dialog overlay, the status line and the browse lists in step with the coordinator.
func (m *Model) afterUpdate(cmd tea.Cmd) tea.Cmd {
	m.syncDialog()

	cmds := []tea.Cmd{cmd, m.status.clearAfter(m.linger)}
	if m.dirty {
		m.dirty = false
		cmds = append(cmds, m.reload())
	}
	return tea.Batch(cmds...)
}

// syncDialog focuses the name input while the name dialog is the active dialog and blurs it otherwise.
func (m *Model) syncDialog() {
	d, ok := m.registry.Active()
	if !ok {
		m.focused = ""
		m.input.Blur()
		return
	}
	if d.Tag() == m.focused {
		return
	}

	m.focused = d.Tag()
	if d.WantsInput() {
		m.input.SetValue(d.Input())
		m.input.CursorEnd()
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	switch {
	case m.focused != "":
		return m.handleDialogKeys(msg)
	case m.menu != nil:
		return m.handleMenuKeys(msg)
	case m.picker != nil:
		return m.handlePickerKeys(msg)
	default:
		return m.handleBrowseKeys(msg)
	}
}

func (m *Model) quit() tea.Cmd {
	m.coordinator.OnPause()
	m.coordinator.OnDestroy()
	return tea.Quit
}

func (m *Model) handleDialogKeys(msg tea.KeyMsg) tea.Cmd {
	tag := m.focused

	if tag == dialogs.TagPlaylistName {
		switch msg.String() {
		case "enter":
			return m.confirmDialog(tag, m.input.Value())
		case "esc":
			m.cancelDialog(tag)
			return nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return cmd
	}

	switch {
	case key.Matches(msg, m.keys.yes):
		return m.confirmDialog(tag, "")
	case key.Matches(msg, m.keys.no):
		m.cancelDialog(tag)
	}
	return nil
}

func (m *Model) confirmDialog(tag, input string) tea.Cmd {
	cmd, err := m.registry.Confirm(tag, input)
	if err != nil && !errors.Is(err, shared.ErrEmptyName) {
		m.status.Error(err.Error())
	}
	return cmd
}

func (m *Model) cancelDialog(tag string) {
	if err := m.registry.Cancel(tag); err != nil {
		m.logger.Warn("failed to cancel dialog", "tag", tag, "error", err)
	}
}

func (m *Model) handleMenuKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "q", "m":
		m.menu = nil
		return nil
	case "enter":
		menu := m.menu
		m.menu = nil
		item, ok := menu.list.SelectedItem().(menuItem)
		if !ok {
			return nil
		}
		cmd, err := menu.menu.Dispatch(item.item.ID)
		if err != nil {
			m.status.Error(err.Error())
		}
		return cmd
	}

	var cmd tea.Cmd
	m.menu.list, cmd = m.menu.list.Update(msg)
	return cmd
}

func (m *Model) handlePickerKeys(msg tea.KeyMsg) tea.Cmd {
	if m.picker.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.picker.list, cmd = m.picker.list.Update(msg)
		return cmd
	}

	switch msg.String() {
	case "esc", "q":
		token := m.picker.token
		m.picker = nil
		return m.coordinator.OnSelectionResult(token, -1)
	case "enter":
		token := m.picker.token
		item, ok := m.picker.list.SelectedItem().(valueItem)
		if !ok {
			return nil
		}
		m.picker = nil
		if m.coordinator.PendingSelection() != token {
			m.status.Error(shared.Text(shared.MsgPickExpired))
			return nil
		}
		return m.coordinator.OnSelectionResult(token, item.value.ID)
	}

	var cmd tea.Cmd
	m.picker.list, cmd = m.picker.list.Update(msg)
	return cmd
}

func (m *Model) handleBrowseKeys(msg tea.KeyMsg) tea.Cmd {
	top := m.top()
	if top != nil && top.list.FilterState() == list.Filtering {
		return m.updateTop(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m.quit()
	case key.Matches(msg, m.keys.suspend):
		m.coordinator.OnPause()
		return tea.Suspend
	case key.Matches(msg, m.keys.nextTab):
		return m.openTab((m.tab + 1) % Tab(len(tabs)))
	case key.Matches(msg, m.keys.prevTab):
		return m.openTab((m.tab + Tab(len(tabs)) - 1) % Tab(len(tabs)))
	case key.Matches(msg, m.keys.create):
		if err := m.coordinator.PromptCreatePlaylist(); err != nil {
			m.status.Error(err.Error())
		}
		return nil
	case key.Matches(msg, m.keys.back):
		if len(m.stack) > 1 {
			m.stack = m.stack[:len(m.stack)-1]
		}
		return nil
	case key.Matches(msg, m.keys.menu):
		m.openMenu()
		return nil
	case key.Matches(msg, m.keys.addAll):
		return m.addAll()
	case key.Matches(msg, m.keys.enter):
		return m.open()
	}

	return m.updateTop(msg)
}

func (m *Model) handleMsg(msg Msg) tea.Cmd {
	switch msg.kind {
	case MsgValuesFetched:
		data := msg.data.(valuesFetched)
		s := m.screen(data.screen)
		if s == nil {
			return nil
		}
		s.loading = false
		if data.err != nil {
			m.status.Error(data.err.Error())
			return nil
		}
		items := categoryValues(data.items)
		for i, item := range items {
			v := item.(valueItem)
			v.count = data.counts[v.value.ID]
			items[i] = v
		}
		return s.list.SetItems(items)

	case MsgTracksFetched:
		data := msg.data.(tracksFetched)
		s := m.screen(data.screen)
		if s == nil {
			return nil
		}
		s.loading = false
		if data.err != nil {
			m.status.Error(data.err.Error())
			return nil
		}
		return s.list.SetItems(trackItems(data.tracks, s.playlistID))

	case MsgShowValues:
		data := msg.data.(showValues)
		return m.push(&screen{kind: valuesScreen, title: data.title, categoryType: data.categoryType, filter: data.filter})

	case MsgShowTracks:
		data := msg.data.(showTracks)
		return m.push(&screen{kind: tracksScreen, title: data.title, ref: data.ref, playlistID: data.playlistID})

	case MsgPickPlaylist:
		data := msg.data.(pickPlaylist)
		m.menu = nil
		m.picker = &picker{
			token:   data.token,
			prompt:  data.prompt,
			list:    newList(nil, data.prompt, m.listWidth(), m.listHeight(), true),
			loading: true,
		}
		return m.fetchPickerPlaylists(data.token)

	case MsgPickerFetched:
		data := msg.data.(pickerFetched)
		if m.picker == nil || m.picker.token != data.token {
			return nil
		}
		m.picker.loading = false
		if data.err != nil {
			m.status.Error(data.err.Error())
			return nil
		}
		return m.picker.list.SetItems(playlistValues(data.playlists))

	case MsgPlayed:
		data := msg.data.(played)
		if data.err != nil {
			m.status.Error(data.err.Error())
		}
		return nil

	case MsgClearStatus:
		m.status.clear(msg.data.(int))
		return nil
	}
	return nil
}

func (m *Model) top() *screen {
	if len(m.stack) == 0 {
		return nil
	}
	return m.stack[len(m.stack)-1]
}

func (m *Model) screen(id int) *screen {
	for _, s := range m.stack {
		if s.id == id {
			return s
		}
	}
	return nil
}

func (m *Model) openTab(t Tab) tea.Cmd {
	m.tab = t
	m.stack = nil
	return m.push(&screen{kind: valuesScreen, title: tabs[t].title, categoryType: tabs[t].categoryType})
}

func (m *Model) push(s *screen) tea.Cmd {
	m.screens++
	s.id = m.screens
	s.loading = true
	s.list = newList(nil, s.title, m.listWidth(), m.listHeight(), true)
	m.stack = append(m.stack, s)
	return m.fetch(s)
}

// reload refreshes the visible screen after a playlist changed.
func (m *Model) reload() tea.Cmd {
	top := m.top()
	if top == nil {
		return nil
	}
	return m.fetch(top)
}

func (m *Model) fetch(s *screen) tea.Cmd {
	id := s.id
	switch {
	case s.kind == tracksScreen && s.playlistID > 0:
		playlistID := s.playlistID
		return func() tea.Msg {
			tracks, err := m.browser.PlaylistTracks(m.ctx, playlistID)
			return tracksFetchedMsg(id, tracks, err)
		}
	case s.kind == tracksScreen:
		ref := s.ref
		return func() tea.Msg {
			tracks, err := m.browser.CategoryTracks(m.ctx, ref)
			return tracksFetchedMsg(id, tracks, err)
		}
	case s.categoryType == models.CategoryPlaylists:
		return func() tea.Msg {
			playlists, err := m.browser.Playlists(m.ctx)
			values := make([]models.CategoryValue, len(playlists))
			counts := make(map[int64]int, len(playlists))
			for i, pl := range playlists {
				values[i] = pl.Value()
				counts[pl.ID] = pl.TrackCount
			}
			return valuesFetchedMsg(id, values, counts, err)
		}
	default:
		categoryType, filter := s.categoryType, s.filter
		return func() tea.Msg {
			values, err := m.browser.CategoryValues(m.ctx, categoryType, filter)
			return valuesFetchedMsg(id, values, nil, err)
		}
	}
}

func (m *Model) fetchPickerPlaylists(token selection.Token) tea.Cmd {
	return func() tea.Msg {
		playlists, err := m.browser.Playlists(m.ctx)
		return pickerFetchedMsg(token, playlists, err)
	}
}

// open drills into the selected row.
func (m *Model) open() tea.Cmd {
	top := m.top()
	if top == nil || top.kind != valuesScreen {
		return nil
	}
	item, ok := top.list.SelectedItem().(valueItem)
	if !ok {
		return nil
	}

	v := item.value
	if v.Type == models.CategoryPlaylists {
		return m.push(&screen{kind: tracksScreen, title: v.Value, ref: v.Ref(), playlistID: v.ID})
	}
	return m.push(&screen{kind: tracksScreen, title: v.Value, ref: v.Ref()})
}

func (m *Model) openMenu() {
	top := m.top()
	if top == nil {
		return
	}

	var menu menus.Menu
	switch item := top.list.SelectedItem().(type) {
	case valueItem:
		menu = m.presenter.ForCategory(item.value)
	case trackItem:
		if entry, ok := item.entry(); ok {
			menu = m.presenter.ForPlaylistTrack(entry)
		} else {
			menu = m.presenter.ForTrack(item.track)
		}
	default:
		return
	}

	if menu.Empty() {
		return
	}
	m.menu = &menuOverlay{menu: menu, list: newList(menuItems(menu), menu.Title, 36, len(menu.Items)+4, false)}
	m.menu.list.SetFilteringEnabled(false)
	m.menu.list.SetShowStatusBar(false)
}

// addAll adds every track on the current track screen to a playlist.
func (m *Model) addAll() tea.Cmd {
	top := m.top()
	if top == nil || top.kind != tracksScreen {
		return nil
	}

	var tracks []models.Track
	for _, item := range top.list.Items() {
		if t, ok := item.(trackItem); ok {
			tracks = append(tracks, t.track)
		}
	}

	cmd, err := m.coordinator.AddTracks(tracks)
	if err != nil {
		m.status.Error(err.Error())
	}
	return cmd
}

func (m *Model) updateTop(msg tea.Msg) tea.Cmd {
	top := m.top()
	if top == nil {
		return nil
	}
	var cmd tea.Cmd
	top.list, cmd = top.list.Update(msg)
	return cmd
}

func (m *Model) listWidth() int  { return max(m.width-4, 20) }
func (m *Model) listHeight() int { return max(m.height-8, 5) }

func (m *Model) resize() {
	for _, s := range m.stack {
		s.list.SetSize(m.listWidth(), m.listHeight())
	}
	if m.picker != nil {
		m.picker.list.SetSize(m.listWidth(), m.listHeight())
	}
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var body string
	switch {
	case m.focused != "":
		body = m.renderDialog()
	case m.menu != nil:
		body = styles.frame.Render(m.menu.list.View())
	case m.picker != nil:
		body = m.renderPicker()
	default:
		body = m.renderBrowse()
	}

	sections := []string{m.renderTabs(), body}
	if s := m.status.View(); s != "" {
		sections = append(sections, s)
	}
	sections = append(sections, m.help.ShortHelpView(m.keys.ShortHelp()))
	return strings.Join(sections, "\n\n")
}

func (m *Model) renderTabs() string {
	parts := make([]string, len(tabs))
	for i, t := range tabs {
		if Tab(i) == m.tab {
			parts[i] = styles.activeTab.Render(t.title)
		} else {
			parts[i] = styles.tab.Render(t.title)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderBrowse() string {
	top := m.top()
	if top == nil {
		return ""
	}
	if top.loading {
		return styles.help.Render("Loading " + top.title + "...")
	}
	return top.list.View()
}

func (m *Model) renderPicker() string {
	if m.picker.loading {
		return styles.help.Render("Loading playlists...")
	}
	hint := m.help.ShortHelpView([]key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "pick")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	})
	return fmt.Sprintf("%s\n\n%s", m.picker.list.View(), hint)
}

func (m *Model) renderDialog() string {
	d, ok := m.registry.Get(m.focused)
	if !ok {
		return ""
	}

	title := styles.title.Render(d.Title())
	var content string
	if d.WantsInput() {
		hint := fmt.Sprintf("enter %s • esc cancel", dialogs.ConfirmLabel(d.Params()))
		content = fmt.Sprintf("%s\n%s\n\n%s", title, m.input.View(), styles.help.Render(hint))
	} else {
		hint := m.help.ShortHelpView([]key.Binding{m.keys.yes, m.keys.no})
		content = fmt.Sprintf("%s\n%s\n\n%s", title, d.Message(), hint)
	}

	box := styles.frame.Render(content)
	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.listWidth(), m.listHeight(), lipgloss.Center, lipgloss.Center, box)
}
