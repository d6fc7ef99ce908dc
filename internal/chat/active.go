package chat

import (
	"strings"

	"github.com/rs/zerolog"
)

// ActiveRoom is the single mutable slot for the currently selected room. It
// owns at most one live stream, and that stream always corresponds to the
// installed room. All methods must be called from one goroutine; in the TUI
// that is the bubbletea update loop.
type ActiveRoom struct {
	log zerolog.Logger

	room     *Room
	messages []Message
	members  []Member
	stream   Stream
}

// NewActiveRoom creates an idle slot.
func NewActiveRoom(log zerolog.Logger) ActiveRoom {
	return ActiveRoom{log: log}
}

// Room returns the installed room, or nil when idle.
func (a *ActiveRoom) Room() *Room {
	return a.room
}

// Messages returns the merged message list, oldest-first.
func (a *ActiveRoom) Messages() []Message {
	return a.messages
}

// Members returns the roster fetched at activation time.
func (a *ActiveRoom) Members() []Member {
	return a.members
}

// IsActive reports whether the given room is the installed one.
func (a *ActiveRoom) IsActive(roomID int64) bool {
	return a.room != nil && a.room.ID == roomID
}

// Connected reports whether a live stream is attached.
func (a *ActiveRoom) Connected() bool {
	return a.stream != nil
}

// Install replaces the slot contents with a fresh snapshot. Any previous
// stream is closed before the new room is assigned, so a stale stream can
// never outlive a room switch.
func (a *ActiveRoom) Install(view RoomView) {
	a.closeStream()
	room := view.Room
	a.room = &room
	a.messages = view.Messages
	a.members = view.Members
}

// Attach binds a freshly opened stream to the installed room. A stream for
// any other room is closed and rejected; it belongs to a selection that is
// no longer current.
func (a *ActiveRoom) Attach(st Stream) bool {
	if a.room == nil || st.RoomID() != a.room.ID {
		a.log.Debug().Int64("stream_room", st.RoomID()).Msg("discarding stream for non-active room")
		_ = st.Close()
		return false
	}
	a.closeStream()
	a.stream = st
	return true
}

// Apply folds one stream event into the slot. Events tagged for a room that
// is no longer active are discarded; this is the authoritative guard against
// residual events delivered while an old connection winds down. A terminal
// event detaches the stream but keeps the messages visible.
func (a *ActiveRoom) Apply(ev StreamEvent) bool {
	if a.room == nil || ev.RoomID != a.room.ID {
		a.log.Debug().Int64("event_room", ev.RoomID).Msg("discarding event for non-active room")
		return false
	}
	if ev.Err != nil {
		a.log.Warn().Err(ev.Err).Int64("room_id", ev.RoomID).Msg("stream terminated")
		a.stream = nil
		return true
	}
	a.messages = append(a.messages, ev.Message)
	return true
}

// Send writes raw text to the open stream. Text that trims to empty is a
// no-op. No local echo is appended: the message becomes visible when the
// stream delivers it back.
func (a *ActiveRoom) Send(text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if a.stream == nil {
		return ErrStreamClosed
	}
	return a.stream.Send(text)
}

// Deactivate closes any open stream and returns the slot to idle.
func (a *ActiveRoom) Deactivate() {
	a.closeStream()
	a.room = nil
	a.messages = nil
	a.members = nil
}

func (a *ActiveRoom) closeStream() {
	if a.stream == nil {
		return
	}
	if err := a.stream.Close(); err != nil {
		a.log.Debug().Err(err).Msg("closing previous stream")
	}
	a.stream = nil
}
