package protocol

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/totemgame/totem-client/internal/entity"
)

const (
	lobbyHeader     = "Available rooms:"
	stateWaiting    = "Waiting to start the match."
	stateInProgress = "Match in progress."
)

var (
	roomHeaderRe     = regexp.MustCompile(`^Room\s+(\d+)-\s*players:$`)
	spectatorsLineRe = regexp.MustCompile(`^(\d+)\s+spectators$`)
)

// ParseLobby - parses a completed lobby frame into an ordered room list.
// The slice must begin at the "Available rooms:" header. Rooms whose header id
// does not fit an int are dropped with a warning; the rest of the listing is
// still delivered.
func ParseLobby(logger *slog.Logger, block string) []entity.RoomSnapshot {
	log := logger.With("component", "lobby_parser")

	rooms := make([]entity.RoomSnapshot, 0)

	var current *entity.RoomSnapshot

	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line == lobbyHeader {
			continue
		}

		if match := roomHeaderRe.FindStringSubmatch(line); match != nil {
			if current != nil {
				rooms = append(rooms, *current)
			}

			id, err := strconv.Atoi(match[1])
			if err != nil {
				log.Warn("dropping room with unparseable id", "line", line, "error", err)
				current = nil
				continue
			}

			current = &entity.RoomSnapshot{
				ID:      id,
				Players: make([]string, 0),
				State:   entity.RoomStateUnknown,
			}
			continue
		}

		if current == nil {
			// line outside any open room, nothing to attach it to
			log.Warn("skipping lobby line outside a room", "line", line)
			continue
		}

		if match := spectatorsLineRe.FindStringSubmatch(line); match != nil {
			count, err := strconv.Atoi(match[1])
			if err != nil {
				log.Warn("unparseable spectator count", "line", line, "error", err)
				continue
			}

			current.Spectators = count
			continue
		}

		switch line {
		case stateWaiting:
			current.State = entity.RoomStateWaiting
		case stateInProgress:
			current.State = entity.RoomStateInProgress
		default:
			current.Players = append(current.Players, line)
		}
	}

	if current != nil {
		rooms = append(rooms, *current)
	}

	return rooms
}
