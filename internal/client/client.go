// Package client wires the transport, the frame accumulator, the parsers and
// the session state machine into one protocol engine. A single consumer
// goroutine drains the inbound queue, so every buffer mutation and state
// transition happens on one goroutine and needs no locking; the queue itself
// is the only synchronized handoff and preserves strict FIFO order.
package client

import (
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/totemgame/totem-client/internal/apperror"
	"github.com/totemgame/totem-client/internal/config"
	"github.com/totemgame/totem-client/internal/protocol"
	"github.com/totemgame/totem-client/internal/session"
	"github.com/totemgame/totem-client/transport/tcp"
)

const (
	inboundQueueSize = 256
	eventQueueSize   = 256
)

type inboundKind int

const (
	inboundChunk inboundKind = iota
	inboundCommand
	inboundDisconnect
)

type inboundMessage struct {
	kind inboundKind
	text string
}

// Client - the protocol engine. One Client serves one connection; after a
// disconnect it is done, reconnecting means building a new Client.
type Client struct {
	logger *slog.Logger
	conf   *config.Config

	transport   *tcp.Transport
	accumulator *protocol.Accumulator
	session     *session.Session

	inbound chan inboundMessage
	events  chan session.Event
	done    chan struct{}
	started atomic.Bool
}

// New - builds an engine from the configuration. Nothing runs until Connect.
func New(logger *slog.Logger, conf *config.Config) *Client {
	that := &Client{
		logger:      logger.With("component", "client"),
		conf:        conf,
		accumulator: protocol.NewAccumulator(logger),
		session:     session.New(logger),
		inbound:     make(chan inboundMessage, inboundQueueSize),
		events:      make(chan session.Event, eventQueueSize),
		done:        make(chan struct{}),
	}

	that.transport = tcp.New(logger, conf.ConnectTimeout, that.enqueueChunk, that.enqueueDisconnect)

	return that
}

// Connect - dials the server and starts the consumer loop.
func (that *Client) Connect() error {
	if that.started.Swap(true) {
		return apperror.ErrAlreadyConnected
	}

	if err := that.transport.Connect(that.conf.Server.Host, that.conf.Server.Port); err != nil {
		that.started.Store(false)
		return fmt.Errorf("transport connect: %w", err)
	}

	// the loop has not started yet, mutating session state here is safe
	that.apply(that.session.HandleConnect())

	go that.run()

	return nil
}

// Submit - the single entry point for the presentation layer. Shape is
// validated synchronously; everything else is judged against the session
// state on the consumer side, in order with the server's own messages.
func (that *Client) Submit(command string) error {
	trimmed := strings.TrimSpace(command)

	if trimmed == "" {
		return apperror.ErrEmptyCommand
	}

	if len(trimmed) > that.conf.MaxCommandLen {
		return apperror.ErrCommandTooLong
	}

	if !that.transport.IsConnected() {
		return apperror.ErrNotConnected
	}

	select {
	case that.inbound <- inboundMessage{kind: inboundCommand, text: trimmed}:
		return nil
	case <-that.done:
		return apperror.ErrClientClosed
	}
}

// Events - the ordered event stream for the presentation layer. Closed after
// the Disconnected event.
func (that *Client) Events() <-chan session.Event {
	return that.events
}

// State - the current session state. Only meaningful between events; the
// consumer loop owns the authoritative value.
func (that *Client) State() session.State {
	return that.session.State()
}

// Close - tears the connection down. The read loop unblocks, the consumer
// loop delivers the final Disconnected event and exits.
func (that *Client) Close() {
	that.transport.Close()
}

func (that *Client) enqueueChunk(chunk string) {
	that.inbound <- inboundMessage{kind: inboundChunk, text: chunk}
}

func (that *Client) enqueueDisconnect() {
	that.inbound <- inboundMessage{kind: inboundDisconnect}
}

// run - the single consumer loop. It drains every immediately-available
// message before asking the accumulator to flush, so a frame split across
// several reads that already arrived is judged as one unit.
func (that *Client) run() {
	defer func() {
		close(that.done)
		close(that.events)
	}()

	for {
		msg, ok := <-that.inbound
		if !ok {
			return
		}

		if that.process(msg) {
			return
		}

		for drained := false; !drained; {
			select {
			case msg := <-that.inbound:
				if that.process(msg) {
					return
				}
			default:
				drained = true
			}
		}

		that.dispatch(that.accumulator.Flush())
	}
}

// process - handles one queued message; reports whether the loop must stop.
func (that *Client) process(msg inboundMessage) bool {
	switch msg.kind {
	case inboundChunk:
		that.dispatch(that.accumulator.Feed(msg.text))
	case inboundCommand:
		that.apply(that.session.HandleCommand(msg.text))
	case inboundDisconnect:
		that.logger.Info("disconnected from server")
		that.apply(that.session.HandleDisconnect())
		return true
	}

	return false
}

// dispatch - parses completed pieces into frames and feeds them to the
// session state machine.
func (that *Client) dispatch(pieces []protocol.Piece) {
	for _, piece := range pieces {
		var frame protocol.Frame

		switch piece.Kind {
		case protocol.PieceLobby:
			frame = protocol.LobbyListing{Rooms: protocol.ParseLobby(that.logger, piece.Text)}
		case protocol.PieceGame:
			frame = protocol.GameUpdate{Snapshot: protocol.ParseGame(that.logger, piece.Text)}
		default:
			frame = protocol.ClassifyStatus(piece.Text)
		}

		that.apply(that.session.HandleFrame(frame))
	}
}

// apply - performs the side effects of one transition atomically with it:
// buffer resets first, then outbound commands, then events in order.
func (that *Client) apply(result session.Result) {
	if result.ResetGame {
		that.accumulator.ResetGame()
	}

	for _, command := range result.Commands {
		that.transport.Send(command)
	}

	for _, event := range result.Events {
		that.events <- event
	}
}
