// Package protocol reconstructs discrete server messages from the unframed
// text stream of the Totem game server and parses them into typed snapshots.
//
// The server emits free-text blocks with no length prefix; message boundaries
// are inferred from known headers and terminator phrases. Detection is
// substring-based on purpose: the wire protocol offers no stronger guarantee,
// so a terminator phrase embedded in unrelated text can still end a frame
// early. That is a protocol limitation, not something this package resolves.
package protocol

import (
	"strings"

	"github.com/totemgame/totem-client/internal/entity"
)

// Frame is one complete, classified server message.
type Frame interface {
	isFrame()
}

type NicknameAccepted struct{}

type NicknameRejected struct {
	Reason string
}

type GenericError struct {
	Text string
}

type LobbyListing struct {
	Rooms []entity.RoomSnapshot
}

type GameUpdate struct {
	Snapshot entity.GameSnapshot
}

type GameOutcome struct {
	Won bool
}

type Unclassified struct {
	Text string
}

func (NicknameAccepted) isFrame() {}
func (NicknameRejected) isFrame() {}
func (GenericError) isFrame()     {}
func (LobbyListing) isFrame()     {}
func (GameUpdate) isFrame()       {}
func (GameOutcome) isFrame()      {}
func (Unclassified) isFrame()     {}

// errorKeywords are the error phrases the server is known to emit as bare
// status lines. Matched by substring, first hit wins.
var errorKeywords = []string{
	"Currently not in a room",
	"Not in a room",
	"permission",
	"Invalid",
	"full",
	"doesn't exist",
	"less than 2 players",
	"Error",
	"Already in a room",
	"Command too long",
	"Unrecognized command",
	"Room already exists",
	"has already started",
}

// ClassifyStatus - classifies raw status text that is not part of a lobby or
// game frame into a typed frame. Unrecognized text becomes Unclassified.
func ClassifyStatus(text string) Frame {
	trimmed := strings.TrimSpace(text)

	switch {
	case strings.Contains(text, "Nickname set successfully"):
		return NicknameAccepted{}
	case strings.Contains(text, "Nickname unavailable"):
		return NicknameRejected{Reason: trimmed}
	case strings.Contains(text, "Nickname must be between"):
		return NicknameRejected{Reason: trimmed}
	case strings.Contains(text, "You won the game!"):
		return GameOutcome{Won: true}
	case strings.Contains(text, "You lost the game."):
		return GameOutcome{Won: false}
	}

	for _, keyword := range errorKeywords {
		if strings.Contains(text, keyword) {
			return GenericError{Text: trimmed}
		}
	}

	return Unclassified{Text: text}
}

// IsNotInRoom - reports whether an error text is the server's notice that the
// client is not in a room, which forces the session back to the lobby.
func IsNotInRoom(text string) bool {
	return strings.Contains(text, "Currently not in a room") || strings.Contains(text, "Not in a room")
}
