package ws

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

const (
	userRoomPrefix        = "user:"
	applicationRoomPrefix = "application:"
)

func UserRoom(id uuid.UUID) string {
	return userRoomPrefix + id.String()
}

func ApplicationRoom(id uuid.UUID) string {
	return applicationRoomPrefix + id.String()
}

type RoomAuthorizer interface {
	CanJoin(ctx context.Context, userID uuid.UUID, room string) (bool, error)
}

type ParticipantChecker interface {
	IsParticipant(ctx context.Context, applicationID, userID uuid.UUID) (bool, error)
}

// RoomPolicy lets a user into their own personal room and into the chat
// room of an application they take part in.
type RoomPolicy struct {
	Applications ParticipantChecker
}

func (p RoomPolicy) CanJoin(ctx context.Context, userID uuid.UUID, room string) (bool, error) {
	switch {
	case strings.HasPrefix(room, userRoomPrefix):
		return room == UserRoom(userID), nil
	case strings.HasPrefix(room, applicationRoomPrefix):
		appID, err := uuid.Parse(strings.TrimPrefix(room, applicationRoomPrefix))
		if err != nil || p.Applications == nil {
			return false, nil
		}
		return p.Applications.IsParticipant(ctx, appID, userID)
	default:
		return false, nil
	}
}
