package protocol

import (
	"log/slog"
	"strings"
)

// PieceKind tags output of the accumulator.
type PieceKind int

const (
	// PieceStatus is a bare status line outside any frame.
	PieceStatus PieceKind = iota
	// PieceLobby is a completed lobby listing block.
	PieceLobby
	// PieceGame is a completed game snapshot block.
	PieceGame
)

// Piece is a unit of reconstructed server output.
type Piece struct {
	Kind PieceKind
	Text string
}

// Accumulator reassembles frames from arbitrarily-chunked reads. It owns three
// append-only buffers: the lobby buffer, the game buffer, and an idle scratch
// that holds partial lines until their newline arrives, so that a header split
// across two reads is still recognized.
//
// Lobby content and game content are mutually exclusive: a chunk is routed to
// exactly one buffer based on which header started it. A fresh
// "Available rooms:" header supersedes any unfinished listing - most recent
// wins, two listings are never interleaved.
type Accumulator struct {
	logger *slog.Logger

	lobbyBuf string
	gameBuf  string
	idleBuf  string
}

// NewAccumulator - creates an empty accumulator.
func NewAccumulator(logger *slog.Logger) *Accumulator {
	return &Accumulator{
		logger: logger.With("component", "accumulator"),
	}
}

// Feed - classifies one decoded chunk against the cumulative buffer contents
// and returns any pieces it completes. Game frames complete as soon as their
// terminator arrives; lobby frames complete in Flush, once the inbound queue
// is drained (see Flush).
func (that *Accumulator) Feed(chunk string) []Piece {
	pieces := make([]Piece, 0)

	// a lobby header anywhere in the chunk starts a fresh listing
	if idx := strings.LastIndex(chunk, lobbyHeader); idx >= 0 {
		prefix := chunk[:idx]

		switch {
		case that.lobbyBuf != "":
			that.logger.Debug("superseding unfinished lobby listing", "discarded", len(that.lobbyBuf)+len(prefix))
		case that.gameBuf != "":
			that.gameBuf += prefix
			pieces = append(pieces, that.completeGame()...)
		default:
			pieces = append(pieces, that.drainIdle(that.idleBuf+prefix)...)
			that.idleBuf = ""
		}

		that.lobbyBuf = chunk[idx:]

		return pieces
	}

	if that.lobbyBuf != "" {
		that.lobbyBuf += chunk

		// a header assembled across chunk boundaries still supersedes
		if idx := strings.LastIndex(that.lobbyBuf, lobbyHeader); idx > 0 {
			that.logger.Debug("superseding unfinished lobby listing", "discarded", idx)
			that.lobbyBuf = that.lobbyBuf[idx:]
		}

		return pieces
	}

	if that.gameBuf != "" {
		that.gameBuf += chunk
		return that.completeGame()
	}

	that.idleBuf += chunk

	if idx := strings.Index(that.idleBuf, lobbyHeader); idx >= 0 {
		pieces = append(pieces, that.drainIdle(that.idleBuf[:idx])...)
		that.lobbyBuf = that.idleBuf[idx:]
		that.idleBuf = ""

		return pieces
	}

	if idx := strings.Index(that.idleBuf, gameHeader); idx >= 0 {
		pieces = append(pieces, that.drainIdle(that.idleBuf[:idx])...)
		that.gameBuf = that.idleBuf[idx:]
		that.idleBuf = ""

		return append(pieces, that.completeGame()...)
	}

	// not part of any frame: route complete lines as status, keep the
	// trailing partial line until its newline arrives
	nl := strings.LastIndex(that.idleBuf, "\n")
	if nl < 0 {
		return pieces
	}

	pieces = append(pieces, that.drainIdle(that.idleBuf[:nl+1])...)
	that.idleBuf = that.idleBuf[nl+1:]

	return pieces
}

// Flush - evaluates frame boundaries that need queue-quiescence to judge.
// Lobby listings terminate on free text ("Waiting to start the match.",
// "<n> spectators") that also occurs per room inside longer listings, so the
// boundary is only trusted once every already-arrived chunk has been fed.
func (that *Accumulator) Flush() []Piece {
	pieces := make([]Piece, 0)

	if that.lobbyBuf != "" {
		if block, remainder, ok := that.completeLobby(); ok {
			pieces = append(pieces, Piece{Kind: PieceLobby, Text: block})
			pieces = append(pieces, that.routeRemainder(remainder)...)
		}
	}

	// leftover game bytes with no pending header are status text, not the
	// start of a next frame - route them or an outcome notice packed into
	// the same read as a snapshot would never be classified
	if that.gameBuf != "" && !strings.Contains(that.gameBuf, gameHeader) {
		nl := strings.LastIndex(that.gameBuf, "\n")
		if nl >= 0 {
			pieces = append(pieces, that.drainIdle(that.gameBuf[:nl+1])...)
			that.gameBuf = that.gameBuf[nl+1:]
		}
	}

	return pieces
}

// ResetGame - discards the game buffer. Called when the session leaves a room
// so a stale partial snapshot cannot leak into the next game.
func (that *Accumulator) ResetGame() {
	that.gameBuf = ""
}

// Reset - discards all buffers. Called on connect and disconnect.
func (that *Accumulator) Reset() {
	that.lobbyBuf = ""
	that.gameBuf = ""
	that.idleBuf = ""
}

// completeGame - consumes every finished game frame from the game buffer.
// Bytes after the last terminator are retained; they belong to the next frame.
func (that *Accumulator) completeGame() []Piece {
	pieces := make([]Piece, 0)

	for {
		start := strings.Index(that.gameBuf, gameHeader)
		if start < 0 {
			break
		}

		end := strings.Index(that.gameBuf[start:], gameTerminator)
		if end < 0 {
			break
		}

		end = start + end + len(gameTerminator)
		pieces = append(pieces, Piece{Kind: PieceGame, Text: that.gameBuf[start:end]})
		that.gameBuf = that.gameBuf[end:]
	}

	if strings.TrimSpace(that.gameBuf) == "" {
		that.gameBuf = ""
	}

	return pieces
}

// completeLobby - reports whether the lobby buffer holds a finished listing
// and consumes it if so. The listing is finished when a terminator (a room
// state line or a "<n> spectators" line) has arrived, no line is still in
// flight, and no room header follows the last terminator. The block ends at
// the terminator line; bytes after it are returned for separate routing.
func (that *Accumulator) completeLobby() (string, string, bool) {
	nl := strings.LastIndex(that.lobbyBuf, "\n")
	if nl < 0 {
		return "", "", false
	}

	if strings.TrimSpace(that.lobbyBuf[nl+1:]) != "" {
		// a line is still in flight
		return "", "", false
	}

	lines := strings.Split(that.lobbyBuf[:nl], "\n")

	terminator := -1
	for i, line := range lines {
		if isLobbyTerminator(strings.TrimSpace(line)) {
			terminator = i
		}
	}

	if terminator < 0 {
		return "", "", false
	}

	for _, line := range lines[terminator+1:] {
		if roomHeaderRe.MatchString(strings.TrimSpace(line)) {
			// the listing continues with another room
			return "", "", false
		}
	}

	block := strings.Join(lines[:terminator+1], "\n") + "\n"
	remainder := that.lobbyBuf[len(block):]
	that.lobbyBuf = ""

	return block, remainder, true
}

// routeRemainder - classifies bytes that trailed a finished lobby listing:
// a game frame start goes to the game buffer, anything else is status text.
func (that *Accumulator) routeRemainder(remainder string) []Piece {
	if idx := strings.Index(remainder, gameHeader); idx >= 0 {
		pieces := that.drainIdle(remainder[:idx])
		that.gameBuf += remainder[idx:]

		return append(pieces, that.completeGame()...)
	}

	return that.drainIdle(remainder)
}

func isLobbyTerminator(line string) bool {
	return line == stateWaiting || line == stateInProgress || spectatorsLineRe.MatchString(line)
}

// drainIdle - emits every non-blank line of text as a status piece.
func (that *Accumulator) drainIdle(text string) []Piece {
	pieces := make([]Piece, 0)

	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		pieces = append(pieces, Piece{Kind: PieceStatus, Text: line})
	}

	return pieces
}
