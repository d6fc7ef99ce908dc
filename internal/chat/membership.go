package chat

import "context"

// JoinOutcome is the result of the membership check that precedes room
// activation.
type JoinOutcome int

const (
	// OutcomeAlreadyMember means no join request was needed.
	OutcomeAlreadyMember JoinOutcome = iota
	// OutcomeJoined means a join request was issued and succeeded; the
	// caller must refresh the feeds before activation completes.
	OutcomeJoined
	// OutcomeForbidden means the room is private and the user is not a
	// member; activation must not proceed.
	OutcomeForbidden
	// OutcomeJoinFailed means the join request was rejected; activation is
	// aborted and the previously active room is left untouched.
	OutcomeJoinFailed
)

func (o JoinOutcome) String() string {
	switch o {
	case OutcomeAlreadyMember:
		return "already-member"
	case OutcomeJoined:
		return "joined"
	case OutcomeForbidden:
		return "forbidden"
	case OutcomeJoinFailed:
		return "join-failed"
	default:
		return "unknown"
	}
}

// ensureMembership decides whether a join request must be issued before the
// room can be activated. Membership short-circuits without a network call.
func (s *Service) ensureMembership(ctx context.Context, room Room) (JoinOutcome, error) {
	if s.feeds.IsJoined(room.ID) {
		return OutcomeAlreadyMember, nil
	}
	if !room.Public {
		return OutcomeForbidden, ErrForbidden
	}
	if err := s.api.JoinRoom(ctx, room.ID); err != nil {
		return OutcomeJoinFailed, &JoinError{RoomID: room.ID, Err: err}
	}
	s.log.Debug().Int64("room_id", room.ID).Msg("joined room")
	return OutcomeJoined, nil
}
