package session

import "github.com/totemgame/totem-client/internal/entity"

// Event is a typed notification for the presentation layer. Events are
// delivered in the order their underlying frames completed.
type Event interface {
	isEvent()
}

type NicknameAccepted struct{}

type NicknameRejected struct {
	Reason string
}

type CommandError struct {
	Text string
}

type LobbyUpdated struct {
	Rooms []entity.RoomSnapshot
}

type RoomJoined struct {
	RoomID      int
	AsSpectator bool
}

type GameUpdated struct {
	Snapshot entity.GameSnapshot
}

type GameEnded struct {
	Won bool
}

type Disconnected struct{}

func (NicknameAccepted) isEvent() {}
func (NicknameRejected) isEvent() {}
func (CommandError) isEvent()     {}
func (LobbyUpdated) isEvent()     {}
func (RoomJoined) isEvent()       {}
func (GameUpdated) isEvent()      {}
func (GameEnded) isEvent()        {}
func (Disconnected) isEvent()     {}
