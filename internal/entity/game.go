package entity

// Card - the card visible on top of a player's table stack.
type Card struct {
	Color int `json:"color"`
	Shape int `json:"shape"`
}

// PlayerSnapshot - one player's row in a game-state snapshot.
// TopCard is nil when the player has not placed a card yet.
type PlayerSnapshot struct {
	Nick       string `json:"nick"`
	HandCount  int    `json:"hand_count"`
	TableCount int    `json:"table_count"`
	TopCard    *Card  `json:"top_card,omitempty"`
}

// GameSnapshot - a reconstructed game-state frame.
// Turn is nil when the server's turn line was absent or unparseable.
type GameSnapshot struct {
	Turn          *int             `json:"turn,omitempty"`
	CurrentPlayer string           `json:"current_player,omitempty"`
	Players       []PlayerSnapshot `json:"players"`
	Spectators    int              `json:"spectators"`
}
