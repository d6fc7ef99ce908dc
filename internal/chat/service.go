package chat

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/hay-kot/parlor/internal/core/validate"
)

// Service orchestrates the chat session: identity lifecycle, feed refresh,
// and the snapshot/stream steps of room activation. It performs network work
// only; the ActiveRoom slot is owned by the event loop that drives it.
type Service struct {
	api  API
	dial StreamDialer
	log  zerolog.Logger

	feeds *FeedStore

	mu       sync.RWMutex
	identity *Identity
}

// New creates a new Service.
func New(api API, dial StreamDialer, log zerolog.Logger) *Service {
	return &Service{
		api:   api,
		dial:  dial,
		log:   log,
		feeds: NewFeedStore(api),
	}
}

// Feeds returns the room feed store.
func (s *Service) Feeds() *FeedStore {
	return s.feeds
}

// Identity returns the current identity, or nil when logged out.
func (s *Service) Identity() *Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity
}

// Probe checks for an existing server-side session, adopting its identity
// when present. No session is (nil, nil), not an error.
func (s *Service) Probe(ctx context.Context) (*Identity, error) {
	id, err := s.api.ProbeSession(ctx)
	if err != nil {
		return nil, err
	}
	if id != nil {
		s.setIdentity(id)
		s.log.Debug().Int64("user_id", id.ID).Str("name", id.Name).Msg("restored session")
	}
	return id, nil
}

// Login starts a session for the given display name. A blank name fails
// locally before any network call.
func (s *Service) Login(ctx context.Context, name string) (Identity, error) {
	if err := validate.DisplayName(name); err != nil {
		return Identity{}, &ValidationError{Field: "name", Reason: err.Error()}
	}
	id, err := s.api.StartSession(ctx, strings.TrimSpace(name))
	if err != nil {
		return Identity{}, err
	}
	s.setIdentity(&id)
	s.log.Info().Int64("user_id", id.ID).Str("name", id.Name).Msg("session started")
	return id, nil
}

// Logout clears the identity and feeds locally. The credential forget is
// best-effort; the UI proceeds regardless.
func (s *Service) Logout() {
	if err := s.api.EndSession(); err != nil {
		s.log.Debug().Err(err).Msg("ending session")
	}
	s.setIdentity(nil)
	s.feeds.Clear()
	s.log.Info().Msg("session ended")
}

// RefreshFeeds re-queries both room feeds.
func (s *Service) RefreshFeeds(ctx context.Context) error {
	return s.feeds.Refresh(ctx)
}

// PrepareRoom runs the pre-stream steps of activation: the membership check
// (joining public rooms as needed, refreshing feeds so the room is
// reclassified), then the history snapshot and member roster fetched
// concurrently. The snapshot arrives newest-first and is reversed here to
// establish the oldest-first order the view requires.
//
// Any failure aborts activation; the caller keeps its previously active
// room untouched.
func (s *Service) PrepareRoom(ctx context.Context, room Room) (*RoomView, error) {
	outcome, err := s.ensureMembership(ctx, room)
	if err != nil {
		return nil, err
	}
	if outcome == OutcomeJoined {
		if err := s.feeds.Refresh(ctx); err != nil {
			return nil, err
		}
	}

	var (
		wg       sync.WaitGroup
		messages []Message
		members  []Member
		merr     error
		rerr     error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		messages, merr = s.api.RoomMessages(ctx, room.ID)
	}()
	go func() {
		defer wg.Done()
		members, rerr = s.api.RoomMembers(ctx, room.ID)
	}()
	wg.Wait()

	if merr != nil {
		return nil, merr
	}
	if rerr != nil {
		return nil, rerr
	}

	reverse(messages)
	s.log.Debug().
		Int64("room_id", room.ID).
		Int("messages", len(messages)).
		Int("members", len(members)).
		Str("membership", outcome.String()).
		Msg("room prepared")

	return &RoomView{Room: room, Messages: messages, Members: members}, nil
}

// OpenStream opens a fresh stream scoped to the room.
func (s *Service) OpenStream(ctx context.Context, roomID int64) (Stream, error) {
	return s.dial.Dial(ctx, roomID)
}

// CreateRoom submits a new room and refreshes the feeds so it appears in
// the lists. A blank name fails locally.
func (s *Service) CreateRoom(ctx context.Context, name string, public bool) (Room, error) {
	if err := validate.RoomName(name); err != nil {
		return Room{}, &ValidationError{Field: "name", Reason: err.Error()}
	}
	room, err := s.api.CreateRoom(ctx, strings.TrimSpace(name), public)
	if err != nil {
		return Room{}, err
	}
	s.log.Info().Int64("room_id", room.ID).Str("name", room.Name).Msg("room created")
	if err := s.feeds.Refresh(ctx); err != nil {
		return room, err
	}
	return room, nil
}

// LeaveRoom removes the membership and refreshes the feeds.
func (s *Service) LeaveRoom(ctx context.Context, roomID int64) error {
	if err := s.api.LeaveRoom(ctx, roomID); err != nil {
		return err
	}
	s.log.Info().Int64("room_id", roomID).Msg("left room")
	return s.feeds.Refresh(ctx)
}

// DeleteRoom deletes an owned room and refreshes the feeds.
func (s *Service) DeleteRoom(ctx context.Context, roomID int64) error {
	if err := s.api.DeleteRoom(ctx, roomID); err != nil {
		return err
	}
	s.log.Info().Int64("room_id", roomID).Msg("room deleted")
	return s.feeds.Refresh(ctx)
}

func (s *Service) setIdentity(id *Identity) {
	s.mu.Lock()
	s.identity = id
	s.mu.Unlock()
}

func reverse(msgs []Message) {
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
}
