package protocol

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/totemgame/totem-client/internal/entity"
)

const (
	gameHeader     = "Turn "
	gameTerminator = "spectators watching."
)

var (
	playerLineRe = regexp.MustCompile(`^Player (\S+) has (\d+) cards in hand and (\d+) cards on the table\.$`)
	topCardRe    = regexp.MustCompile(`color (\d+), shape (\d+)`)
)

// ParseGame - parses a completed game frame into a snapshot. Parsing is
// tolerant: a player line that fails the pattern is skipped with a warning and
// the snapshot is delivered with whatever players were recovered.
func ParseGame(logger *slog.Logger, block string) entity.GameSnapshot {
	log := logger.With("component", "game_parser")

	snapshot := entity.GameSnapshot{
		Players: make([]entity.PlayerSnapshot, 0),
	}

	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, gameHeader):
			if turn, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, gameHeader))); err == nil {
				snapshot.Turn = &turn
			}
		case strings.HasPrefix(line, "Current player:"):
			snapshot.CurrentPlayer = strings.TrimSpace(strings.TrimPrefix(line, "Current player:"))
		case strings.HasPrefix(line, "Currently on top-"):
			if len(snapshot.Players) == 0 {
				// no open player to attach the card to
				continue
			}

			match := topCardRe.FindStringSubmatch(line)
			if match == nil {
				log.Warn("skipping unparseable top-card line", "line", line)
				continue
			}

			color, _ := strconv.Atoi(match[1])
			shape, _ := strconv.Atoi(match[2])
			snapshot.Players[len(snapshot.Players)-1].TopCard = &entity.Card{Color: color, Shape: shape}
		case strings.HasSuffix(line, gameTerminator):
			if count, err := strconv.Atoi(strings.Fields(line)[0]); err == nil {
				snapshot.Spectators = count
			}

			return snapshot
		case strings.HasPrefix(line, "Player "):
			match := playerLineRe.FindStringSubmatch(line)
			if match == nil {
				log.Warn("skipping unparseable player line", "line", line)
				continue
			}

			hand, _ := strconv.Atoi(match[2])
			table, _ := strconv.Atoi(match[3])
			snapshot.Players = append(snapshot.Players, entity.PlayerSnapshot{
				Nick:       match[1],
				HandCount:  hand,
				TableCount: table,
			})
		default:
			log.Warn("skipping unrecognized game line", "line", line)
		}
	}

	return snapshot
}
