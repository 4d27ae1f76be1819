package entity

// RoomState - the match state reported for a room in a lobby listing.
type RoomState string

const (
	RoomStateWaiting    RoomState = "waiting"
	RoomStateInProgress RoomState = "in_progress"
	RoomStateUnknown    RoomState = "unknown"
)

// RoomSnapshot - a point-in-time description of one room from a lobby listing.
type RoomSnapshot struct {
	ID         int       `json:"id"`
	Players    []string  `json:"players"`
	Spectators int       `json:"spectators"`
	State      RoomState `json:"state"`
}

// Host - returns the room's host: by convention the first listed nickname.
func (that *RoomSnapshot) Host() string {
	if len(that.Players) == 0 {
		return ""
	}

	return that.Players[0]
}

// HasPlayer - reports whether nick is seated in this room.
func (that *RoomSnapshot) HasPlayer(nick string) bool {
	for _, player := range that.Players {
		if player == nick {
			return true
		}
	}

	return false
}
