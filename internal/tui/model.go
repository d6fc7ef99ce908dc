package tui

import (
	"context"
	"os/exec"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/rs/zerolog"

	"github.com/hay-kot/parlor/internal/chat"
)

// UIState represents the current state of the TUI.
type UIState int

const (
	stateLoading UIState = iota
	stateLogin
	stateNormal
	stateCreatingRoom
	stateConfirming
)

// focusZone identifies which pane receives key input in the normal state.
type focusZone int

const (
	focusRooms focusZone = iota
	focusComposer
)

// FeedTab selects which room feed the list shows.
type FeedTab int

const (
	// TabJoined shows rooms the user is a member of.
	TabJoined FeedTab = iota
	// TabDiscover shows public rooms open for joining.
	TabDiscover
)

// Key constants for event handling.
const (
	keyEnter = "enter"
	keyCtrlC = "ctrl+c"
	keyEsc   = "esc"
)

// confirmKind identifies what a confirmation modal will do.
type confirmKind int

const (
	confirmNone confirmKind = iota
	confirmLeave
	confirmDelete
)

// LastRoomStore remembers which room was active when the TUI last exited.
type LastRoomStore interface {
	LastRoom() (int64, error)
	SetLastRoom(roomID int64) error
}

// Options configures the TUI behavior.
type Options struct {
	// CopyCommand overrides the platform clipboard with a shell pipe.
	CopyCommand string

	// LastRoom, when set, re-opens the previously active room on startup.
	LastRoom LastRoomStore

	Logger zerolog.Logger
}

// Model is the main Bubble Tea model for the TUI.
type Model struct {
	service *chat.Service
	active  *chat.ActiveRoom
	log     zerolog.Logger

	list     list.Model
	chatView *ChatView
	composer textinput.Model
	spinner  spinner.Model
	keys     keyMap

	state UIState
	focus focusZone
	tab   FeedTab

	width  int
	height int

	// activationSeq stamps every room activation; completions carrying an
	// older stamp are discarded.
	activationSeq int
	activating    *chat.Room
	currentStream chat.Stream

	loginForm *LoginForm
	roomForm  *RoomForm

	confirm        Modal
	confirmPending confirmKind
	confirmRoom    chat.Room

	notice      string
	copyCommand string
	quitting    bool

	lastRoom LastRoomStore
	// restoreRoomID is the room to re-open after the first feed refresh;
	// consumed once, dropped if the room left the joined feed.
	restoreRoomID int64
}

// identityProbedMsg is sent after checking for a persisted session.
type identityProbedMsg struct {
	identity *chat.Identity
	err      error
}

// loggedInMsg is sent when a login attempt completes.
type loggedInMsg struct {
	identity chat.Identity
	err      error
}

// feedsRefreshedMsg is sent when both feeds have been refetched.
type feedsRefreshedMsg struct {
	err error
}

// roomPreparedMsg is sent when membership and snapshot work completes.
type roomPreparedMsg struct {
	seq  int
	room chat.Room
	view *chat.RoomView
	err  error
}

// streamOpenedMsg is sent when the room's live stream has been dialed.
type streamOpenedMsg struct {
	seq    int
	roomID int64
	stream chat.Stream
	err    error
}

// streamEventMsg carries one event (or closure) from a stream's channel.
type streamEventMsg struct {
	stream chat.Stream
	ev     chat.StreamEvent
	ok     bool
}

// roomCreatedMsg is sent when room creation completes.
type roomCreatedMsg struct {
	room chat.Room
	err  error
}

// roomActionMsg is sent when a leave or delete completes.
type roomActionMsg struct {
	kind   confirmKind
	roomID int64
	err    error
}

// New creates a new TUI model.
func New(service *chat.Service, opts Options) Model {
	active := chat.NewActiveRoom(opts.Logger)
	delegate := NewRoomDelegate()

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowTitle(false) // title shown in tab bar instead
	l.SetShowHelp(false)

	composer := textinput.New()
	composer.Prompt = composerPromptStyle.Render("> ")
	composer.Placeholder = "message"
	composer.CharLimit = 2000

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	var restoreRoomID int64
	if opts.LastRoom != nil {
		id, err := opts.LastRoom.LastRoom()
		if err != nil {
			opts.Logger.Debug().Err(err).Msg("load last room")
		} else {
			restoreRoomID = id
		}
	}

	return Model{
		service:       service,
		active:        &active,
		log:           opts.Logger,
		list:          l,
		chatView:      NewChatView(),
		composer:      composer,
		spinner:       s,
		keys:          defaultKeyMap(),
		state:         stateLoading,
		focus:         focusRooms,
		tab:           TabJoined,
		copyCommand:   opts.CopyCommand,
		lastRoom:      opts.LastRoom,
		restoreRoomID: restoreRoomID,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.probeIdentity(), m.spinner.Tick)
}

// probeIdentity returns a command that checks for a resumable session.
func (m Model) probeIdentity() tea.Cmd {
	return func() tea.Msg {
		identity, err := m.service.Probe(context.Background())
		return identityProbedMsg{identity: identity, err: err}
	}
}

// login returns a command that starts a session for the given name.
func (m Model) login(name string) tea.Cmd {
	return func() tea.Msg {
		identity, err := m.service.Login(context.Background(), name)
		return loggedInMsg{identity: identity, err: err}
	}
}

// refreshFeeds returns a command that refetches both room feeds.
func (m Model) refreshFeeds() tea.Cmd {
	return func() tea.Msg {
		err := m.service.RefreshFeeds(context.Background())
		return feedsRefreshedMsg{err: err}
	}
}

// prepareRoom returns a command that runs membership and snapshot work for a
// room activation stamped with seq.
func (m Model) prepareRoom(seq int, room chat.Room) tea.Cmd {
	return func() tea.Msg {
		view, err := m.service.PrepareRoom(context.Background(), room)
		return roomPreparedMsg{seq: seq, room: room, view: view, err: err}
	}
}

// openStream returns a command that dials the live stream for a room.
func (m Model) openStream(seq int, roomID int64) tea.Cmd {
	return func() tea.Msg {
		stream, err := m.service.OpenStream(context.Background(), roomID)
		return streamOpenedMsg{seq: seq, roomID: roomID, stream: stream, err: err}
	}
}

// listenStream returns a command that waits for the next event from a stream.
// Re-issued after every event until the stream's channel closes.
func listenStream(stream chat.Stream) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-stream.Events()
		return streamEventMsg{stream: stream, ev: ev, ok: ok}
	}
}

// createRoom returns a command that creates a room.
func (m Model) createRoom(name string, public bool) tea.Cmd {
	return func() tea.Msg {
		room, err := m.service.CreateRoom(context.Background(), name, public)
		return roomCreatedMsg{room: room, err: err}
	}
}

// roomAction returns a command that leaves or deletes a room.
func (m Model) roomAction(kind confirmKind, roomID int64) tea.Cmd {
	return func() tea.Msg {
		var err error
		switch kind {
		case confirmLeave:
			err = m.service.LeaveRoom(context.Background(), roomID)
		case confirmDelete:
			err = m.service.DeleteRoom(context.Background(), roomID)
		}
		return roomActionMsg{kind: kind, roomID: roomID, err: err}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case identityProbedMsg:
		if msg.err != nil {
			m.notice = "server unreachable: " + msg.err.Error()
		}
		if msg.identity != nil {
			m.chatView.SetSelf(msg.identity.ID)
			m.state = stateNormal
			return m, m.refreshFeeds()
		}
		m.state = stateLogin
		m.loginForm = NewLoginForm()
		return m, m.loginForm.Form().Init()

	case loggedInMsg:
		if msg.err != nil {
			m.notice = msg.err.Error()
			m.state = stateLogin
			m.loginForm = NewLoginForm()
			return m, m.loginForm.Form().Init()
		}
		m.chatView.SetSelf(msg.identity.ID)
		m.loginForm = nil
		m.state = stateNormal
		return m, m.refreshFeeds()

	case feedsRefreshedMsg:
		if msg.err != nil {
			m.notice = "feed refresh failed: " + msg.err.Error()
			return m, nil
		}
		m.rebuildList()
		return m, m.restoreLastRoom()

	case roomPreparedMsg:
		return m.handleRoomPrepared(msg)

	case streamOpenedMsg:
		return m.handleStreamOpened(msg)

	case streamEventMsg:
		return m.handleStreamEvent(msg)

	case roomCreatedMsg:
		if msg.err != nil {
			m.notice = "create failed: " + msg.err.Error()
			return m, nil
		}
		m.notice = "created " + msg.room.Name
		m.rebuildList()
		return m, nil

	case roomActionMsg:
		return m.handleRoomAction(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	// Route everything else to whichever form is showing.
	if m.state == stateLogin && m.loginForm != nil {
		return m.updateLoginForm(msg)
	}
	if m.state == stateCreatingRoom && m.roomForm != nil {
		return m.updateRoomForm(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// resize propagates window dimensions to the panes.
func (m *Model) resize() {
	// banner (4) + tab bar (1) + status (1) + help (1)
	contentHeight := m.height - 7
	if contentHeight < 1 {
		contentHeight = 1
	}

	listWidth := m.width
	if m.active.Room() != nil {
		listWidth = m.listPaneWidth()
	}

	m.list.SetSize(listWidth, contentHeight)
	// chat pane loses one line to the composer
	m.chatView.SetSize(m.chatPaneWidth(), contentHeight-1)
	m.composer.Width = m.chatPaneWidth() - 4
}

// listPaneWidth returns the room list width when the chat pane is open.
func (m Model) listPaneWidth() int {
	w := m.width / 3
	if w < 28 {
		w = 28
	}
	return w
}

// chatPaneWidth returns the chat pane width.
func (m Model) chatPaneWidth() int {
	w := m.width - m.listPaneWidth() - 2
	if w < 20 {
		w = 20
	}
	return w
}

// handleRoomPrepared finishes the snapshot half of a room activation.
func (m Model) handleRoomPrepared(msg roomPreparedMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.activationSeq {
		// A newer activation superseded this one.
		return m, nil
	}
	m.activating = nil

	if msg.err != nil {
		// The previously active room, if any, is untouched.
		m.notice = "open failed: " + msg.err.Error()
		return m, nil
	}

	m.active.Install(*msg.view)
	m.chatView.SetMessages(msg.view.Messages)
	m.currentStream = nil
	m.notice = "connecting " + iconDot + " " + msg.room.Name
	m.rebuildList()
	m.resize()
	return m, m.openStream(msg.seq, msg.room.ID)
}

// handleStreamOpened finishes the live half of a room activation.
func (m Model) handleStreamOpened(msg streamOpenedMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.activationSeq {
		if msg.stream != nil {
			_ = msg.stream.Close()
		}
		return m, nil
	}

	if msg.err != nil {
		// Snapshot stays readable; reselecting the room retries the dial.
		m.notice = "offline " + iconDot + " select the room again to reconnect"
		return m, nil
	}

	if !m.active.Attach(msg.stream) {
		// Attach closed the stream; the active room changed underneath us.
		return m, nil
	}

	m.currentStream = msg.stream
	m.notice = ""
	m.focus = focusComposer
	m.composer.Focus()
	return m, listenStream(msg.stream)
}

// handleStreamEvent applies one inbound stream event.
func (m Model) handleStreamEvent(msg streamEventMsg) (tea.Model, tea.Cmd) {
	if !msg.ok {
		// Channel closed; nothing more will arrive from this stream.
		if msg.stream == m.currentStream {
			m.currentStream = nil
		}
		return m, nil
	}

	applied := m.active.Apply(msg.ev)
	if applied {
		if msg.ev.Err != nil {
			m.notice = "disconnected " + iconDot + " select the room again to reconnect"
		} else {
			m.chatView.Append(msg.ev.Message)
			m.rebuildList()
		}
	}

	// Keep draining; stale streams close shortly after being replaced.
	return m, listenStream(msg.stream)
}

// handleRoomAction finishes a leave or delete.
func (m Model) handleRoomAction(msg roomActionMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.notice = "action failed: " + msg.err.Error()
		return m, nil
	}

	if m.active.IsActive(msg.roomID) {
		m.active.Deactivate()
		m.chatView.Clear()
		m.currentStream = nil
		m.focus = focusRooms
		m.composer.Blur()
	}

	switch msg.kind {
	case confirmLeave:
		m.notice = "left room"
	case confirmDelete:
		m.notice = "room deleted"
	}
	m.rebuildList()
	m.resize()
	return m, nil
}

// handleKey processes key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyStr := msg.String()

	if keyStr == keyCtrlC {
		m.cleanup()
		m.quitting = true
		return m, tea.Quit
	}

	switch m.state {
	case stateLogin:
		return m.updateLoginForm(msg)
	case stateCreatingRoom:
		if keyStr == keyEsc {
			m.roomForm = nil
			m.state = stateNormal
			return m, nil
		}
		return m.updateRoomForm(msg)
	case stateConfirming:
		return m.handleConfirmKey(keyStr)
	case stateLoading:
		return m, nil
	}

	// When the list filter is active, it owns the keyboard.
	if m.list.SettingFilter() {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	if m.focus == focusComposer {
		return m.handleComposerKey(msg, keyStr)
	}
	return m.handleRoomsKey(msg, keyStr)
}

// handleConfirmKey handles keys when the confirmation modal is shown.
func (m Model) handleConfirmKey(keyStr string) (tea.Model, tea.Cmd) {
	switch keyStr {
	case keyEnter:
		m.state = stateNormal
		if m.confirm.ConfirmSelected() {
			kind, room := m.confirmPending, m.confirmRoom
			m.confirmPending = confirmNone
			return m, m.roomAction(kind, room.ID)
		}
		m.confirmPending = confirmNone
		return m, nil
	case keyEsc:
		m.state = stateNormal
		m.confirmPending = confirmNone
		return m, nil
	case "left", "right", "h", "l", "tab":
		m.confirm.ToggleSelection()
		return m, nil
	}
	return m, nil
}

// handleComposerKey handles keys while the message composer is focused.
func (m Model) handleComposerKey(msg tea.KeyMsg, keyStr string) (tea.Model, tea.Cmd) {
	switch keyStr {
	case keyEsc:
		m.focus = focusRooms
		m.composer.Blur()
		return m, nil
	case keyEnter:
		content := m.composer.Value()
		if strings.TrimSpace(content) == "" {
			return m, nil
		}
		if err := m.active.Send(content); err != nil {
			m.notice = "send failed: " + err.Error()
			return m, nil
		}
		// No local echo; the message arrives back on the stream.
		m.composer.Reset()
		return m, nil
	case "up":
		m.chatView.ScrollUp()
		return m, nil
	case "down":
		m.chatView.ScrollDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.composer, cmd = m.composer.Update(msg)
	return m, cmd
}

// handleRoomsKey handles keys while the room list is focused.
func (m Model) handleRoomsKey(msg tea.KeyMsg, keyStr string) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.cleanup()
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.SwitchFeed):
		if m.tab == TabJoined {
			m.tab = TabDiscover
		} else {
			m.tab = TabJoined
		}
		m.rebuildList()
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, m.refreshFeeds()

	case key.Matches(msg, m.keys.OpenRoom):
		return m.activateSelected()

	case key.Matches(msg, m.keys.NewRoom):
		existing := make(map[string]bool)
		for _, r := range m.service.Feeds().Joined() {
			existing[r.Name] = true
		}
		m.roomForm = NewRoomForm(existing)
		m.state = stateCreatingRoom
		return m, m.roomForm.Form().Init()

	case key.Matches(msg, m.keys.LeaveRoom):
		if item := m.selectedRoom(); item != nil && item.Joined {
			m.confirmPending = confirmLeave
			m.confirmRoom = item.Room
			m.confirm = NewModal("Leave Room", "Leave "+item.Room.Name+"?")
			m.state = stateConfirming
		}
		return m, nil

	case key.Matches(msg, m.keys.DeleteRoom):
		if item := m.selectedRoom(); item != nil {
			if id := m.service.Identity(); id != nil && item.Room.Owner.ID == id.ID {
				m.confirmPending = confirmDelete
				m.confirmRoom = item.Room
				m.confirm = NewModal("Delete Room", "Delete "+item.Room.Name+"? This cannot be undone.")
				m.state = stateConfirming
			} else {
				m.notice = "only the owner can delete a room"
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Compose):
		if m.active.Room() != nil {
			m.focus = focusComposer
			m.composer.Focus()
		}
		return m, nil

	case key.Matches(msg, m.keys.CopyMessage):
		if last := m.chatView.LastMessage(); last != nil {
			if err := m.copyToClipboard(last.Content); err != nil {
				m.notice = "copy failed: " + err.Error()
			} else {
				m.notice = "copied"
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// restoreLastRoom re-opens the room that was active when the TUI last
// exited. Runs at most once, after a successful feed refresh; a remembered
// room no longer in the joined feed is forgotten.
func (m *Model) restoreLastRoom() tea.Cmd {
	if m.restoreRoomID == 0 {
		return nil
	}
	roomID := m.restoreRoomID
	m.restoreRoomID = 0

	for i, r := range m.service.Feeds().Joined() {
		if r.ID != roomID {
			continue
		}
		if m.tab == TabJoined {
			m.list.Select(i)
		}
		m.activationSeq++
		m.activating = &r
		m.notice = "opening " + iconDot + " " + r.Name
		return m.prepareRoom(m.activationSeq, r)
	}
	return nil
}

// activateSelected starts the snapshot-then-stream activation for the
// selected room. Selecting the already-active room is a no-op unless its
// stream has dropped, in which case only the dial is retried.
func (m Model) activateSelected() (tea.Model, tea.Cmd) {
	item := m.selectedRoom()
	if item == nil {
		return m, nil
	}
	room := item.Room

	if m.active.IsActive(room.ID) {
		if m.active.Connected() {
			return m, nil
		}
		// Reconnect without refetching the snapshot.
		m.activationSeq++
		m.notice = "reconnecting " + iconDot + " " + room.Name
		return m, m.openStream(m.activationSeq, room.ID)
	}

	m.activationSeq++
	m.activating = &room
	m.notice = "opening " + iconDot + " " + room.Name
	return m, m.prepareRoom(m.activationSeq, room)
}

// updateLoginForm routes a message to the login form.
func (m Model) updateLoginForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.loginForm.Form().Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.loginForm.SetForm(f)
		if f.State == huh.StateCompleted {
			name := m.loginForm.Name()
			m.state = stateLoading
			return m, m.login(name)
		}
	}
	return m, cmd
}

// updateRoomForm routes a message to the room creation form.
func (m Model) updateRoomForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.roomForm.Form().Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.roomForm.SetForm(f)
		if f.State == huh.StateCompleted {
			result := m.roomForm.Result()
			m.roomForm = nil
			m.state = stateNormal
			return m, m.createRoom(result.Name, result.Public)
		}
	}
	return m, cmd
}

// selectedRoom returns the currently selected room item, or nil if none.
func (m Model) selectedRoom() *RoomItem {
	item := m.list.SelectedItem()
	if item == nil {
		return nil
	}
	if roomItem, ok := item.(RoomItem); ok {
		return &roomItem
	}
	return nil
}

// rebuildList repopulates the room list from the feed store for the active
// tab.
func (m *Model) rebuildList() {
	feeds := m.service.Feeds()

	var rooms []chat.Room
	if m.tab == TabJoined {
		rooms = feeds.Joined()
	} else {
		rooms = feeds.Discoverable()
	}

	var activeID int64
	if room := m.active.Room(); room != nil {
		activeID = room.ID
	}

	items := make([]list.Item, 0, len(rooms))
	for _, r := range rooms {
		items = append(items, RoomItem{
			Room:   r,
			Joined: feeds.IsJoined(r.ID),
			Active: r.ID == activeID,
		})
	}
	m.list.SetItems(items)
}

// copyToClipboard copies the given text using the configured command, or the
// platform clipboard when none is set.
func (m Model) copyToClipboard(text string) error {
	if m.copyCommand == "" {
		return clipboard.WriteAll(text)
	}

	parts := strings.Fields(m.copyCommand)
	if len(parts) == 0 {
		return nil
	}

	cmd := exec.Command(parts[0], parts[1:]...)
	cmd.Stdin = strings.NewReader(text)
	return cmd.Run()
}

// cleanup persists the active room and tears down the live stream before
// the program exits.
func (m *Model) cleanup() {
	if m.lastRoom != nil {
		if room := m.active.Room(); room != nil {
			if err := m.lastRoom.SetLastRoom(room.ID); err != nil {
				m.log.Warn().Err(err).Msg("persist last room")
			}
		}
	}
	m.active.Deactivate()
	m.currentStream = nil
}
