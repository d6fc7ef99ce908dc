package chat

import "context"

// StreamEvent is one inbound event from a room stream. Every event is tagged
// with the room id the stream was opened for; consumers must discard events
// whose tag no longer matches the active room.
type StreamEvent struct {
	RoomID  int64
	Message Message

	// Err, when non-nil, is terminal: the stream delivers no further events
	// after it. Connection loss is reported this way, not retried.
	Err error
}

// Stream is a bidirectional per-room channel: raw text out, decoded
// messages in, FIFO per connection.
type Stream interface {
	// RoomID is the room this stream was opened for.
	RoomID() int64

	// Send writes raw text to the server. It fails with ErrStreamClosed
	// after Close or after a terminal event.
	Send(text string) error

	// Events delivers inbound events in arrival order. The channel is
	// closed after a terminal event or Close.
	Events() <-chan StreamEvent

	// Close is idempotent and safe to call at any time.
	Close() error
}

// StreamDialer opens a stream scoped to one room.
type StreamDialer interface {
	Dial(ctx context.Context, roomID int64) (Stream, error)
}
