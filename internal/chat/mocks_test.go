package chat

import (
	"context"
	"errors"
)

// mockAPI implements API for testing.
type mockAPI struct {
	identity *Identity
	probeErr error
	startErr error
	ended    bool

	myRooms     []Room
	publicRooms []Room
	myErr       error
	publicErr   error
	feedCalls   int

	joinErr   error
	joinCalls []int64

	messages    []Message
	members     []Member
	messagesErr error
	membersErr  error

	created   Room
	createErr error

	leaveCalls  []int64
	deleteCalls []int64
	leaveErr    error
	deleteErr   error
}

func (m *mockAPI) ProbeSession(_ context.Context) (*Identity, error) {
	return m.identity, m.probeErr
}

func (m *mockAPI) StartSession(_ context.Context, name string) (Identity, error) {
	if m.startErr != nil {
		return Identity{}, m.startErr
	}
	return Identity{ID: 1, Name: name}, nil
}

func (m *mockAPI) EndSession() error {
	m.ended = true
	return nil
}

func (m *mockAPI) MyFeed(_ context.Context) ([]Room, error) {
	m.feedCalls++
	return m.myRooms, m.myErr
}

func (m *mockAPI) PublicFeed(_ context.Context) ([]Room, error) {
	return m.publicRooms, m.publicErr
}

func (m *mockAPI) CreateRoom(_ context.Context, name string, public bool) (Room, error) {
	if m.createErr != nil {
		return Room{}, m.createErr
	}
	if m.created.ID == 0 {
		return Room{ID: 99, Name: name, Public: public}, nil
	}
	return m.created, nil
}

func (m *mockAPI) JoinRoom(_ context.Context, roomID int64) error {
	m.joinCalls = append(m.joinCalls, roomID)
	return m.joinErr
}

func (m *mockAPI) LeaveRoom(_ context.Context, roomID int64) error {
	m.leaveCalls = append(m.leaveCalls, roomID)
	return m.leaveErr
}

func (m *mockAPI) DeleteRoom(_ context.Context, roomID int64) error {
	m.deleteCalls = append(m.deleteCalls, roomID)
	return m.deleteErr
}

func (m *mockAPI) RoomMessages(_ context.Context, _ int64) ([]Message, error) {
	return m.messages, m.messagesErr
}

func (m *mockAPI) RoomMembers(_ context.Context, _ int64) ([]Member, error) {
	return m.members, m.membersErr
}

// fakeStream implements Stream for testing.
type fakeStream struct {
	roomID  int64
	events  chan StreamEvent
	sent    []string
	closed  int
	sendErr error
}

func newFakeStream(roomID int64) *fakeStream {
	return &fakeStream{roomID: roomID, events: make(chan StreamEvent, 8)}
}

func (f *fakeStream) RoomID() int64 { return f.roomID }

func (f *fakeStream) Send(text string) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, text)
	return nil
}

func (f *fakeStream) Events() <-chan StreamEvent { return f.events }

func (f *fakeStream) Close() error {
	f.closed++
	return nil
}

// mockDialer implements StreamDialer for testing.
type mockDialer struct {
	streams []*fakeStream
	dialErr error
}

func (d *mockDialer) Dial(_ context.Context, roomID int64) (Stream, error) {
	if d.dialErr != nil {
		return nil, d.dialErr
	}
	st := newFakeStream(roomID)
	d.streams = append(d.streams, st)
	return st, nil
}

var errBackend = errors.New("backend unavailable")

func room(id int64, name string, public bool) Room {
	return Room{ID: id, Name: name, Public: public, Owner: Identity{ID: 1, Name: "owner"}}
}

func msg(id, roomID int64, author, content string) Message {
	return Message{ID: id, RoomID: roomID, Author: Identity{ID: id, Name: author}, Content: content}
}

func contents(msgs []Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.Content
	}
	return out
}
