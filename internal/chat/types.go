// Package chat implements the room-session synchronization core: the
// authenticated identity, the joined/discoverable room feeds, and the single
// active room with its message stream.
package chat

import "time"

// Identity is a server-issued user identity. Immutable once issued.
type Identity struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Room is one chat room as presented by the feed endpoints.
type Room struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Public      bool     `json:"is_public"`
	Owner       Identity `json:"owner"`
	ActiveUsers int      `json:"active_users"`
	// Unread is only populated on the joined feed.
	Unread int `json:"unread_count,omitempty"`
}

// Member is one entry in the active room's roster.
type Member struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Message is a single chat message. Within a room, messages form a total
// order; the server id doubles as the sequence position.
type Message struct {
	ID      int64     `json:"id"`
	RoomID  int64     `json:"room_id"`
	Author  Identity  `json:"author"`
	Content string    `json:"content"`
	SentAt  time.Time `json:"created_at"`
}

// RoomView is the point-in-time snapshot fetched when a room is activated:
// history in oldest-first order plus the member roster.
type RoomView struct {
	Room     Room
	Messages []Message
	Members  []Member
}
