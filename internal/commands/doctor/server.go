package doctor

import (
	"context"
	"errors"

	"github.com/hay-kot/parlor/internal/chat"
)

// ServerCheck verifies the backend is reachable and reports session state.
type ServerCheck struct {
	api    chat.API
	server string
}

// NewServerCheck creates a new server connectivity check.
func NewServerCheck(api chat.API, server string) *ServerCheck {
	return &ServerCheck{api: api, server: server}
}

func (c *ServerCheck) Name() string {
	return "Server"
}

func (c *ServerCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	identity, err := c.api.ProbeSession(ctx)
	if err != nil {
		var cerr *chat.ConnectionError
		detail := err.Error()
		if errors.As(err, &cerr) && cerr.Status == 0 {
			detail = c.server + " is unreachable"
		}
		result.Items = append(result.Items, CheckItem{
			Label:  "Reachable",
			Status: StatusFail,
			Detail: detail,
		})
		return result
	}

	result.Items = append(result.Items, CheckItem{
		Label:  "Reachable",
		Status: StatusPass,
		Detail: c.server,
	})

	if identity == nil {
		result.Items = append(result.Items, CheckItem{
			Label:  "Session",
			Status: StatusWarn,
			Detail: "no active session; run 'parlor login'",
		})
	} else {
		result.Items = append(result.Items, CheckItem{
			Label:  "Session",
			Status: StatusPass,
			Detail: "logged in as " + identity.Name,
		})
	}

	return result
}
