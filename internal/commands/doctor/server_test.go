package doctor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/parlor/internal/chat"
)

type probeAPI struct {
	chat.API
	identity *chat.Identity
	err      error
}

func (p *probeAPI) ProbeSession(context.Context) (*chat.Identity, error) {
	return p.identity, p.err
}

func TestServerCheck(t *testing.T) {
	tests := []struct {
		name     string
		api      *probeAPI
		statuses []Status
	}{
		{
			name:     "unreachable server fails",
			api:      &probeAPI{err: &chat.ConnectionError{Op: "probe"}},
			statuses: []Status{StatusFail},
		},
		{
			name:     "reachable without session warns",
			api:      &probeAPI{},
			statuses: []Status{StatusPass, StatusWarn},
		},
		{
			name:     "reachable with session passes",
			api:      &probeAPI{identity: &chat.Identity{ID: 1, Name: "alice"}},
			statuses: []Status{StatusPass, StatusPass},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := NewServerCheck(tt.api, "http://localhost:8000")
			result := check.Run(context.Background())

			require.Len(t, result.Items, len(tt.statuses))
			for i, want := range tt.statuses {
				assert.Equal(t, want, result.Items[i].Status, result.Items[i].Label)
			}
		})
	}
}

func TestSummary(t *testing.T) {
	results := []Result{
		{Items: []CheckItem{{Status: StatusPass}, {Status: StatusWarn}}},
		{Items: []CheckItem{{Status: StatusFail}, {Status: StatusPass}}},
	}

	passed, warned, failed := Summary(results)

	assert.Equal(t, 2, passed)
	assert.Equal(t, 1, warned)
	assert.Equal(t, 1, failed)
}
