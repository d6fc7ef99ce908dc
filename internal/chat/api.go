package chat

import "context"

// API is the REST surface the chat core depends on. The concrete
// implementation lives in internal/client.
type API interface {
	// ProbeSession checks for an existing server-side session. Absence of a
	// session is not an error; it returns (nil, nil).
	ProbeSession(ctx context.Context) (*Identity, error)

	// StartSession creates (or resumes) the identity for the given name and
	// establishes the session credentials for subsequent calls.
	StartSession(ctx context.Context, name string) (Identity, error)

	// EndSession forgets the local session credentials. No backend call is
	// required for it to succeed.
	EndSession() error

	MyFeed(ctx context.Context) ([]Room, error)
	PublicFeed(ctx context.Context) ([]Room, error)

	CreateRoom(ctx context.Context, name string, public bool) (Room, error)
	JoinRoom(ctx context.Context, roomID int64) error
	LeaveRoom(ctx context.Context, roomID int64) error
	DeleteRoom(ctx context.Context, roomID int64) error

	// RoomMessages returns the most recent slice of history, newest-first as
	// served by the backend.
	RoomMessages(ctx context.Context, roomID int64) ([]Message, error)
	RoomMembers(ctx context.Context, roomID int64) ([]Member, error)
}
