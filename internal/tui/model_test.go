package tui

import (
	"context"
	"io"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/parlor/internal/chat"
)

// stubAPI is a minimal chat.API returning fixed feeds.
type stubAPI struct {
	joined []chat.Room
	public []chat.Room
}

func (s *stubAPI) ProbeSession(context.Context) (*chat.Identity, error) { return nil, nil }
func (s *stubAPI) StartSession(_ context.Context, name string) (chat.Identity, error) {
	return chat.Identity{ID: 1, Name: name}, nil
}
func (s *stubAPI) EndSession() error { return nil }
func (s *stubAPI) MyFeed(context.Context) ([]chat.Room, error) {
	return s.joined, nil
}
func (s *stubAPI) PublicFeed(context.Context) ([]chat.Room, error) {
	return s.public, nil
}
func (s *stubAPI) CreateRoom(_ context.Context, name string, public bool) (chat.Room, error) {
	return chat.Room{ID: 99, Name: name, Public: public}, nil
}
func (s *stubAPI) JoinRoom(context.Context, int64) error   { return nil }
func (s *stubAPI) LeaveRoom(context.Context, int64) error  { return nil }
func (s *stubAPI) DeleteRoom(context.Context, int64) error { return nil }
func (s *stubAPI) RoomMessages(context.Context, int64) ([]chat.Message, error) {
	return nil, nil
}
func (s *stubAPI) RoomMembers(context.Context, int64) ([]chat.Member, error) {
	return nil, nil
}

// stubStream is an inert chat.Stream for exercising the update loop.
type stubStream struct {
	roomID int64
	events chan chat.StreamEvent
	sent   []string
	closed int
}

func newStubStream(roomID int64) *stubStream {
	return &stubStream{roomID: roomID, events: make(chan chat.StreamEvent, 8)}
}

func (s *stubStream) RoomID() int64 { return s.roomID }
func (s *stubStream) Send(text string) error {
	s.sent = append(s.sent, text)
	return nil
}
func (s *stubStream) Events() <-chan chat.StreamEvent { return s.events }
func (s *stubStream) Close() error {
	s.closed++
	return nil
}

type stubDialer struct{}

func (stubDialer) Dial(_ context.Context, roomID int64) (chat.Stream, error) {
	return newStubStream(roomID), nil
}

func newTestModel(t *testing.T, api *stubAPI) Model {
	t.Helper()
	log := zerolog.New(io.Discard)
	service := chat.New(api, stubDialer{}, log)
	require.NoError(t, service.RefreshFeeds(context.Background()))

	m := New(service, Options{Logger: log})
	m.state = stateNormal
	m.width, m.height = 100, 30
	m.resize()
	m.rebuildList()
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

func TestStaleRoomPreparedIsDiscarded(t *testing.T) {
	m := newTestModel(t, &stubAPI{})
	m.activationSeq = 2

	view := &chat.RoomView{Room: chat.Room{ID: 5, Name: "old"}}
	m, _ = update(t, m, roomPreparedMsg{seq: 1, room: view.Room, view: view})

	assert.Nil(t, m.active.Room(), "superseded activation must not install")
}

func TestRoomPreparedInstallsAndDials(t *testing.T) {
	m := newTestModel(t, &stubAPI{})
	m.activationSeq = 1

	view := &chat.RoomView{
		Room:     chat.Room{ID: 5, Name: "general"},
		Messages: []chat.Message{{ID: 1, RoomID: 5, Content: "hi"}},
	}
	m, cmd := update(t, m, roomPreparedMsg{seq: 1, room: view.Room, view: view})

	require.NotNil(t, m.active.Room())
	assert.Equal(t, int64(5), m.active.Room().ID)
	assert.NotNil(t, cmd, "a dial command should follow the install")
}

func TestStaleStreamOpenedIsClosed(t *testing.T) {
	m := newTestModel(t, &stubAPI{})
	m.activationSeq = 2

	st := newStubStream(5)
	m, cmd := update(t, m, streamOpenedMsg{seq: 1, roomID: 5, stream: st})

	assert.Equal(t, 1, st.closed)
	assert.Nil(t, cmd)
}

func TestStreamOpenedAttachesToActiveRoom(t *testing.T) {
	m := newTestModel(t, &stubAPI{})
	m.activationSeq = 1
	m.active.Install(chat.RoomView{Room: chat.Room{ID: 5, Name: "general"}})

	st := newStubStream(5)
	m, cmd := update(t, m, streamOpenedMsg{seq: 1, roomID: 5, stream: st})

	assert.True(t, m.active.Connected())
	assert.Equal(t, focusComposer, m.focus)
	assert.NotNil(t, cmd, "a stream listener should start")
}

func TestStreamOpenFailureKeepsSnapshot(t *testing.T) {
	m := newTestModel(t, &stubAPI{})
	m.activationSeq = 1
	m.active.Install(chat.RoomView{
		Room:     chat.Room{ID: 5, Name: "general"},
		Messages: []chat.Message{{ID: 1, RoomID: 5, Content: "hi"}},
	})

	m, _ = update(t, m, streamOpenedMsg{seq: 1, roomID: 5, err: assert.AnError})

	require.NotNil(t, m.active.Room())
	assert.False(t, m.active.Connected())
	assert.Len(t, m.active.Messages(), 1)
	assert.NotEmpty(t, m.notice)
}

func TestStreamEventForOtherRoomIsDiscarded(t *testing.T) {
	m := newTestModel(t, &stubAPI{})
	m.active.Install(chat.RoomView{Room: chat.Room{ID: 5, Name: "general"}})

	st := newStubStream(7)
	ev := chat.StreamEvent{RoomID: 7, Message: chat.Message{ID: 1, RoomID: 7, Content: "stale"}}
	m, cmd := update(t, m, streamEventMsg{stream: st, ev: ev, ok: true})

	assert.Empty(t, m.active.Messages())
	assert.NotNil(t, cmd, "the stale channel keeps draining until it closes")
}

func TestStreamEventAppendsMessage(t *testing.T) {
	m := newTestModel(t, &stubAPI{})
	m.active.Install(chat.RoomView{Room: chat.Room{ID: 5, Name: "general"}})

	st := newStubStream(5)
	ev := chat.StreamEvent{RoomID: 5, Message: chat.Message{ID: 1, RoomID: 5, Content: "hello"}}
	m, _ = update(t, m, streamEventMsg{stream: st, ev: ev, ok: true})

	require.Len(t, m.active.Messages(), 1)
	assert.Equal(t, "hello", m.active.Messages()[0].Content)
}

func TestActivateSelectedReselectIsNoOp(t *testing.T) {
	api := &stubAPI{joined: []chat.Room{{ID: 5, Name: "general", Public: true}}}
	m := newTestModel(t, api)
	m.active.Install(chat.RoomView{Room: chat.Room{ID: 5, Name: "general"}})
	require.True(t, m.active.Attach(newStubStream(5)))
	seqBefore := m.activationSeq

	next, cmd := m.activateSelected()
	m = next.(Model)

	assert.Nil(t, cmd)
	assert.Equal(t, seqBefore, m.activationSeq)
}

func TestActivateSelectedRedialsWhenDetached(t *testing.T) {
	api := &stubAPI{joined: []chat.Room{{ID: 5, Name: "general", Public: true}}}
	m := newTestModel(t, api)
	// Installed but not connected, as after a terminal stream event.
	m.active.Install(chat.RoomView{Room: chat.Room{ID: 5, Name: "general"}})
	seqBefore := m.activationSeq

	next, cmd := m.activateSelected()
	m = next.(Model)

	assert.NotNil(t, cmd)
	assert.Equal(t, seqBefore+1, m.activationSeq)
	// The snapshot is not refetched; the slot still holds the room.
	require.NotNil(t, m.active.Room())
}

func TestLeaveActiveRoomClearsPane(t *testing.T) {
	m := newTestModel(t, &stubAPI{})
	m.active.Install(chat.RoomView{Room: chat.Room{ID: 5, Name: "general"}})

	m, _ = update(t, m, roomActionMsg{kind: confirmLeave, roomID: 5})

	assert.Nil(t, m.active.Room())
	assert.Equal(t, focusRooms, m.focus)
}

func TestRebuildListMarksMembership(t *testing.T) {
	api := &stubAPI{
		joined: []chat.Room{{ID: 1, Name: "mine", Public: true}},
		public: []chat.Room{{ID: 2, Name: "other", Public: true}},
	}
	m := newTestModel(t, api)

	items := m.list.Items()
	require.Len(t, items, 1)
	item, ok := items[0].(RoomItem)
	require.True(t, ok)
	assert.True(t, item.Joined)

	m.tab = TabDiscover
	m.rebuildList()
	items = m.list.Items()
	require.Len(t, items, 1)
	item = items[0].(RoomItem)
	assert.Equal(t, "other", item.Room.Name)
}

// stubLastRoomStore records last-room persistence calls.
type stubLastRoomStore struct {
	id    int64
	err   error
	saved []int64
}

func (s *stubLastRoomStore) LastRoom() (int64, error) { return s.id, s.err }
func (s *stubLastRoomStore) SetLastRoom(id int64) error {
	s.saved = append(s.saved, id)
	return nil
}

func TestNewReadsLastRoomFromStore(t *testing.T) {
	log := zerolog.New(io.Discard)
	service := chat.New(&stubAPI{}, stubDialer{}, log)

	m := New(service, Options{LastRoom: &stubLastRoomStore{id: 5}, Logger: log})

	assert.Equal(t, int64(5), m.restoreRoomID)
}

func TestRestoreLastRoomAfterRefresh(t *testing.T) {
	api := &stubAPI{joined: []chat.Room{{ID: 5, Name: "general", Public: true}}}
	m := newTestModel(t, api)
	m.restoreRoomID = 5

	m, cmd := update(t, m, feedsRefreshedMsg{})

	require.NotNil(t, cmd, "the remembered room should be re-opened")
	msg, ok := cmd().(roomPreparedMsg)
	require.True(t, ok)
	assert.Equal(t, int64(5), msg.room.ID)

	// Consumed once; later refreshes must not re-trigger it.
	assert.Zero(t, m.restoreRoomID)
	m, cmd = update(t, m, feedsRefreshedMsg{})
	assert.Nil(t, cmd)
}

func TestRestoreSkipsRoomNoLongerJoined(t *testing.T) {
	api := &stubAPI{joined: []chat.Room{{ID: 5, Name: "general", Public: true}}}
	m := newTestModel(t, api)
	m.restoreRoomID = 9

	m, cmd := update(t, m, feedsRefreshedMsg{})

	assert.Nil(t, cmd)
	assert.Zero(t, m.restoreRoomID, "a vanished room is forgotten")
}

func TestCleanupPersistsActiveRoom(t *testing.T) {
	store := &stubLastRoomStore{}
	m := newTestModel(t, &stubAPI{})
	m.lastRoom = store
	m.active.Install(chat.RoomView{Room: chat.Room{ID: 5, Name: "general"}})

	m.cleanup()

	assert.Equal(t, []int64{5}, store.saved)
}

func TestCleanupWithoutActiveRoomKeepsRecord(t *testing.T) {
	store := &stubLastRoomStore{id: 5}
	m := newTestModel(t, &stubAPI{})
	m.lastRoom = store

	m.cleanup()

	assert.Empty(t, store.saved, "exiting from the list must not overwrite the record")
}

func TestEscCancelsRoomForm(t *testing.T) {
	m := newTestModel(t, &stubAPI{})
	m.state = stateCreatingRoom
	m.roomForm = NewRoomForm(nil)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	assert.Equal(t, stateNormal, m.state)
	assert.Nil(t, m.roomForm)
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  []string
	}{
		{
			name:  "short line unchanged",
			text:  "hello world",
			width: 20,
			want:  []string{"hello world"},
		},
		{
			name:  "wraps on spaces",
			text:  "one two three four",
			width: 9,
			want:  []string{"one two", "three", "four"},
		},
		{
			name:  "hard breaks long words",
			text:  "abcdefghij",
			width: 4,
			want:  []string{"abcd", "efgh", "ij"},
		},
		{
			name:  "preserves blank lines",
			text:  "a\n\nb",
			width: 10,
			want:  []string{"a", "", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, wrapText(tt.text, tt.width))
		})
	}
}
