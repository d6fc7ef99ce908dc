package doctor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/parlor/internal/chat"
)

type stubStream struct {
	closed int
}

func (s *stubStream) RoomID() int64                   { return 0 }
func (s *stubStream) Send(string) error               { return nil }
func (s *stubStream) Events() <-chan chat.StreamEvent { return nil }
func (s *stubStream) Close() error {
	s.closed++
	return nil
}

type stubDialer struct {
	stream *stubStream
	err    error
}

func (d *stubDialer) Dial(context.Context, int64) (chat.Stream, error) {
	return d.stream, d.err
}

func TestStreamCheck(t *testing.T) {
	tests := []struct {
		name   string
		dialer *stubDialer
		status Status
	}{
		{
			name:   "unreachable endpoint fails",
			dialer: &stubDialer{err: &chat.ConnectionError{Op: "dial stream"}},
			status: StatusFail,
		},
		{
			name:   "rejected handshake still proves the endpoint is routed",
			dialer: &stubDialer{err: &chat.ConnectionError{Op: "dial stream", Status: 403}},
			status: StatusPass,
		},
		{
			name:   "successful dial passes",
			dialer: &stubDialer{stream: &stubStream{}},
			status: StatusPass,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := NewStreamCheck(tt.dialer, "http://localhost:8000")
			result := check.Run(context.Background())

			require.Len(t, result.Items, 1)
			assert.Equal(t, tt.status, result.Items[0].Status)
		})
	}
}

func TestStreamCheckClosesDialedStream(t *testing.T) {
	st := &stubStream{}
	check := NewStreamCheck(&stubDialer{stream: st}, "http://localhost:8000")

	check.Run(context.Background())

	assert.Equal(t, 1, st.closed)
}
