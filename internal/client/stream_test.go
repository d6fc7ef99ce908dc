package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/parlor/internal/chat"
)

// wsEchoServer upgrades /api/v1/ws/{id} and echoes every inbound text frame
// back as a JSON message, the way the real backend broadcasts.
func wsEchoServer(t *testing.T) *httptest.Server {
	t.Helper()

	upgrader := websocket.Upgrader{}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/ws/{id}", func(w http.ResponseWriter, r *http.Request) {
		if _, err := r.Cookie("session_id"); err != nil {
			w.WriteHeader(http.StatusForbidden)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close() //nolint:errcheck

		var nextID int64
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			nextID++
			msg := chat.Message{
				ID:      nextID,
				RoomID:  7,
				Author:  chat.Identity{ID: 1, Name: "alice"},
				Content: string(data),
			}
			payload, _ := json.Marshal(msg)
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		}
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func dialTestStream(t *testing.T, srv *httptest.Server, roomID int64) chat.Stream {
	t.Helper()

	c, err := New(srv.URL, Options{Timeout: 5 * time.Second, Logger: zerolog.New(io.Discard)})
	require.NoError(t, err)
	c.setSessionCookie("cookie-1")

	st, err := c.Dial(context.Background(), roomID)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func waitEvent(t *testing.T, st chat.Stream) chat.StreamEvent {
	t.Helper()
	select {
	case ev, ok := <-st.Events():
		require.True(t, ok, "event channel closed")
		return ev
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for stream event")
		return chat.StreamEvent{}
	}
}

func TestStreamSendAndReceive(t *testing.T) {
	srv := wsEchoServer(t)
	st := dialTestStream(t, srv, 7)

	require.NoError(t, st.Send("hello"))

	ev := waitEvent(t, st)
	require.NoError(t, ev.Err)
	assert.Equal(t, int64(7), ev.RoomID)
	assert.Equal(t, "hello", ev.Message.Content)
	assert.Equal(t, "alice", ev.Message.Author.Name)
}

func TestStreamTagsEventsWithDialedRoom(t *testing.T) {
	srv := wsEchoServer(t)
	// The server stamps room 7 into the payload; the stream tags with the
	// room it was dialed for.
	st := dialTestStream(t, srv, 99)

	require.NoError(t, st.Send("x"))

	ev := waitEvent(t, st)
	assert.Equal(t, int64(99), ev.RoomID)
}

func TestStreamCloseIsIdempotent(t *testing.T) {
	srv := wsEchoServer(t)
	st := dialTestStream(t, srv, 7)

	require.NoError(t, st.Close())
	require.NoError(t, st.Close())

	assert.ErrorIs(t, st.Send("after close"), chat.ErrStreamClosed)
}

func TestStreamLocalCloseIsNotTerminal(t *testing.T) {
	srv := wsEchoServer(t)
	st := dialTestStream(t, srv, 7)

	require.NoError(t, st.Close())

	// The channel closes without an error event.
	select {
	case ev, ok := <-st.Events():
		if ok {
			t.Fatalf("unexpected event after local close: %+v", ev)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("event channel never closed")
	}
}

func TestStreamServerCloseIsTerminal(t *testing.T) {
	srv := wsEchoServer(t)
	st := dialTestStream(t, srv, 7)

	srv.CloseClientConnections()

	ev := waitEvent(t, st)
	require.Error(t, ev.Err)
	assert.ErrorIs(t, ev.Err, chat.ErrStreamTerminated)
	assert.Equal(t, int64(7), ev.RoomID)
}

func TestDialRejectedWithoutCookie(t *testing.T) {
	srv := wsEchoServer(t)
	c, err := New(srv.URL, Options{Timeout: 5 * time.Second, Logger: zerolog.New(io.Discard)})
	require.NoError(t, err)

	_, err = c.Dial(context.Background(), 7)

	var cerr *chat.ConnectionError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, http.StatusForbidden, cerr.Status)
}
