package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/hay-kot/parlor/internal/chat"
)

// Dial opens the WebSocket stream for one room. The connection is
// authenticated by the same cookie jar as the REST calls.
func (c *Client) Dial(ctx context.Context, roomID int64) (chat.Stream, error) {
	u := *c.base
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = fmt.Sprintf("%s/ws/%d", apiPrefix, roomID)

	dialer := websocket.Dialer{Jar: c.jar}
	conn, resp, err := dialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		if resp != nil {
			return nil, &chat.ConnectionError{Op: "open stream", Status: resp.StatusCode, Err: err}
		}
		return nil, &chat.ConnectionError{Op: "open stream", Err: err}
	}
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	st := &wsStream{
		roomID: roomID,
		conn:   conn,
		events: make(chan chat.StreamEvent, 32),
		done:   make(chan struct{}),
		log:    c.log.With().Int64("room_id", roomID).Logger(),
	}
	go st.readLoop()

	st.log.Debug().Str("url", redact(&u)).Msg("stream opened")
	return st, nil
}

// wsStream is one room-scoped WebSocket connection: raw text frames out,
// JSON-encoded messages in. Every inbound event is tagged with the room id
// the stream was opened for.
type wsStream struct {
	roomID int64
	conn   *websocket.Conn
	events chan chat.StreamEvent
	log    zerolog.Logger

	done      chan struct{}
	closeOnce sync.Once

	// writeMu serializes writers; gorilla allows one concurrent writer.
	writeMu sync.Mutex
}

func (s *wsStream) RoomID() int64 {
	return s.roomID
}

func (s *wsStream) Events() <-chan chat.StreamEvent {
	return s.events
}

func (s *wsStream) Send(text string) error {
	select {
	case <-s.done:
		return chat.ErrStreamClosed
	default:
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.WriteMessage(websocket.TextMessage, []byte(text)); err != nil {
		return &chat.ConnectionError{Op: "stream send", Err: err}
	}
	return nil
}

// Close is idempotent. Events already in flight may still be drained from
// Events(); no terminal error is reported for a locally requested close.
func (s *wsStream) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
		_ = s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), closeDeadline())
		_ = s.conn.Close()
		s.log.Debug().Msg("stream closed")
	})
	return nil
}

// readLoop pumps inbound frames into the event channel until the connection
// ends. A read failure that was not caused by a local Close is surfaced as a
// terminal event; either way the channel is closed afterwards.
func (s *wsStream) readLoop() {
	defer close(s.events)

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			select {
			case <-s.done:
				// Local close; not an error.
			default:
				s.log.Debug().Err(err).Msg("stream read failed")
				s.emit(chat.StreamEvent{
					RoomID: s.roomID,
					Err:    fmt.Errorf("%w: %v", chat.ErrStreamTerminated, err),
				})
			}
			return
		}

		var msg chat.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			s.log.Warn().Err(err).Msg("dropping undecodable frame")
			continue
		}
		s.emit(chat.StreamEvent{RoomID: s.roomID, Message: msg})
	}
}

func (s *wsStream) emit(ev chat.StreamEvent) {
	select {
	case s.events <- ev:
	case <-s.done:
	}
}

func closeDeadline() time.Time {
	return time.Now().Add(time.Second)
}

func redact(u *url.URL) string {
	c := *u
	c.User = nil
	return c.String()
}
