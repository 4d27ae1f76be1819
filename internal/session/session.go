// Package session tracks where the client currently stands in the
// connect - nickname - lobby - room - game lifecycle and turns completed
// frames and user commands into typed events plus outbound commands.
package session

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/totemgame/totem-client/internal/protocol"
)

// State - the client's position in the session lifecycle.
type State string

const (
	StateDisconnected  State = "disconnected"
	StateConnected     State = "connected"
	StateNickPending   State = "nick_pending"
	StateInLobby       State = "in_lobby"
	StateInRoomWaiting State = "in_room_waiting"
	StateSpectating    State = "spectating"
	StateInGame        State = "in_game"
)

const (
	minNicknameLen = 3
	maxNicknameLen = 16
)

// Result carries everything one transition produced, so the dispatcher can
// apply side effects atomically with the state change.
type Result struct {
	Events   []Event
	Commands []string
	// ResetGame tells the dispatcher to discard the game buffer because the
	// session left its room.
	ResetGame bool
}

// Session - the client-side session state machine. It is mutated only by the
// dispatcher's consumer loop and needs no locking.
type Session struct {
	logger *slog.Logger

	state       State
	nickname    string
	isHost      bool
	asSpectator bool
}

// New - creates a session in the Disconnected state.
func New(logger *slog.Logger) *Session {
	return &Session{
		logger: logger.With("component", "session"),
		state:  StateDisconnected,
	}
}

// State - returns the current session state.
func (that *Session) State() State {
	return that.state
}

// Nickname - returns the nickname sent to the server, if any.
func (that *Session) Nickname() string {
	return that.nickname
}

// IsHost - reports whether this client hosts the room it is waiting in.
func (that *Session) IsHost() bool {
	return that.isHost
}

// HandleConnect - marks the transport as connected. The next submitted
// command is treated as the nickname.
func (that *Session) HandleConnect() Result {
	that.state = StateConnected
	return Result{}
}

// HandleDisconnect - handles the transport's single terminal disconnect
// signal.
func (that *Session) HandleDisconnect() Result {
	if that.state == StateDisconnected {
		return Result{}
	}

	that.state = StateDisconnected
	that.isHost = false
	that.asSpectator = false

	return Result{Events: []Event{Disconnected{}}}
}

// HandleFrame - applies one completed frame. A frame that is well-formed but
// inconsistent with the current state is logged and discarded; the server's
// free text can arrive slightly out of order around transitions.
func (that *Session) HandleFrame(frame protocol.Frame) Result {
	switch f := frame.(type) {
	case protocol.NicknameAccepted:
		if that.state != StateNickPending {
			return that.ignore("nickname accepted")
		}

		that.state = StateInLobby

		return Result{
			Events:   []Event{NicknameAccepted{}},
			Commands: []string{"list"},
		}

	case protocol.NicknameRejected:
		if that.state != StateNickPending {
			return that.ignore("nickname rejected")
		}

		return Result{Events: []Event{NicknameRejected{Reason: f.Reason}}}

	case protocol.GenericError:
		if protocol.IsNotInRoom(f.Text) && that.inRoom() {
			that.state = StateInLobby
			that.isHost = false
			that.asSpectator = false

			return Result{
				Events:    []Event{CommandError{Text: f.Text}},
				ResetGame: true,
			}
		}

		if that.state == StateDisconnected {
			return that.ignore("error")
		}

		return Result{Events: []Event{CommandError{Text: f.Text}}}

	case protocol.LobbyListing:
		if that.state != StateInLobby && that.state != StateInRoomWaiting {
			return that.ignore("lobby listing")
		}

		// listings received while waiting in a room tell us whether we
		// became the host: the first listed nickname hosts the room
		if that.state == StateInRoomWaiting {
			that.isHost = false
			for i := range f.Rooms {
				if f.Rooms[i].HasPlayer(that.nickname) {
					that.isHost = f.Rooms[i].Host() == that.nickname
					break
				}
			}
		}

		return Result{Events: []Event{LobbyUpdated{Rooms: f.Rooms}}}

	case protocol.GameUpdate:
		switch that.state {
		case StateInRoomWaiting:
			if len(f.Snapshot.Players) == 0 {
				return that.ignore("empty game update while waiting")
			}

			that.state = StateInGame
		case StateSpectating:
			that.state = StateInGame
		case StateInGame:
			// stay
		default:
			return that.ignore("game update")
		}

		return Result{Events: []Event{GameUpdated{Snapshot: f.Snapshot}}}

	case protocol.GameOutcome:
		if that.state != StateInGame && that.state != StateSpectating {
			return that.ignore("game outcome")
		}

		that.state = StateInLobby
		that.isHost = false
		that.asSpectator = false

		return Result{
			Events:    []Event{GameEnded{Won: f.Won}},
			Commands:  []string{"leave", "list"},
			ResetGame: true,
		}

	case protocol.Unclassified:
		that.logger.Debug("unclassified server text", "text", f.Text)
		return Result{}

	default:
		that.logger.Warn("unhandled frame type", "frame", fmt.Sprintf("%T", frame))
		return Result{}
	}
}

// HandleCommand - applies one user command submitted by the presentation
// layer, validated against the current state before it reaches the transport.
func (that *Session) HandleCommand(command string) Result {
	command = strings.TrimSpace(command)

	switch that.state {
	case StateDisconnected:
		return Result{Events: []Event{CommandError{Text: "not connected to the server"}}}

	case StateConnected, StateNickPending:
		// the nickname phase: the first command of a session, and any
		// retry after a rejection
		if len(command) < minNicknameLen || len(command) > maxNicknameLen {
			return Result{Events: []Event{CommandError{
				Text: fmt.Sprintf("nickname must be between %d and %d characters", minNicknameLen, maxNicknameLen),
			}}}
		}

		that.nickname = command
		that.state = StateNickPending

		return Result{Commands: []string{command}}
	}

	fields := strings.Fields(command)
	if len(fields) == 0 {
		return Result{}
	}

	switch fields[0] {
	case "create", "join":
		if id, ok := roomArg(fields); ok && that.state == StateInLobby {
			that.state = StateInRoomWaiting
			that.isHost = fields[0] == "create"
			that.asSpectator = false

			return Result{
				Events:   []Event{RoomJoined{RoomID: id}},
				Commands: []string{command, "list"},
			}
		}

	case "spectate":
		if id, ok := roomArg(fields); ok && that.state == StateInLobby {
			that.state = StateSpectating
			that.isHost = false
			that.asSpectator = true

			return Result{
				Events:   []Event{RoomJoined{RoomID: id, AsSpectator: true}},
				Commands: []string{command},
			}
		}

	case "leave":
		if that.inRoom() {
			that.state = StateInLobby
			that.isHost = false
			that.asSpectator = false

			return Result{
				Commands:  []string{command, "list"},
				ResetGame: true,
			}
		}
	}

	// passthrough: the server validates everything else and answers with a
	// status line the dispatcher classifies on the way back
	return Result{Commands: []string{command}}
}

func (that *Session) inRoom() bool {
	return that.state == StateInRoomWaiting || that.state == StateSpectating || that.state == StateInGame
}

// ignore - logs a frame that does not fit the current state and drops it.
func (that *Session) ignore(what string) Result {
	that.logger.Warn("discarding frame inconsistent with session state", "frame", what, "state", that.state)
	return Result{}
}

func roomArg(fields []string) (int, bool) {
	if len(fields) < 2 {
		return 0, false
	}

	id, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, false
	}

	return id, true
}
