package doctor

import (
	"context"
	"errors"

	"github.com/hay-kot/parlor/internal/chat"
)

// StreamCheck verifies the server's websocket endpoint is routed. The dial
// targets room 0, which never exists, so a rejected handshake is still proof
// the endpoint answered; only an unreachable host fails the check.
type StreamCheck struct {
	dialer chat.StreamDialer
	server string
}

// NewStreamCheck creates a new websocket connectivity check.
func NewStreamCheck(dialer chat.StreamDialer, server string) *StreamCheck {
	return &StreamCheck{dialer: dialer, server: server}
}

func (c *StreamCheck) Name() string {
	return "Stream"
}

func (c *StreamCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	stream, err := c.dialer.Dial(ctx, 0)
	if err != nil {
		var cerr *chat.ConnectionError
		if errors.As(err, &cerr) && cerr.Status != 0 {
			result.Items = append(result.Items, CheckItem{
				Label:  "Websocket",
				Status: StatusPass,
				Detail: "endpoint answered the handshake",
			})
			return result
		}

		result.Items = append(result.Items, CheckItem{
			Label:  "Websocket",
			Status: StatusFail,
			Detail: c.server + " is unreachable over websocket",
		})
		return result
	}

	_ = stream.Close()
	result.Items = append(result.Items, CheckItem{
		Label:  "Websocket",
		Status: StatusPass,
		Detail: "connected",
	})
	return result
}
