// Package tcp owns the socket to the game server. A single background
// goroutine performs blocking reads and hands decoded chunks, in arrival
// order, to the callbacks wired in by the dispatcher.
package tcp

import (
	"fmt"
	"log/slog"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/totemgame/totem-client/internal/apperror"
)

const readBufferSize = 4096

// Transport - a client connection to the game server.
type Transport struct {
	logger *slog.Logger

	dialTimeout time.Duration

	onChunk      func(chunk string)
	onDisconnect func()

	conn           net.Conn
	connected      atomic.Bool
	closed         atomic.Bool
	disconnectOnce sync.Once
}

// New - creates a transport. onChunk receives every decoded read in order;
// onDisconnect fires exactly once, after the read loop exits.
func New(logger *slog.Logger, dialTimeout time.Duration, onChunk func(string), onDisconnect func()) *Transport {
	return &Transport{
		logger:       logger.With("component", "transport"),
		dialTimeout:  dialTimeout,
		onChunk:      onChunk,
		onDisconnect: onDisconnect,
	}
}

// Connect - dials the server within the configured timeout and starts the
// background read loop. The loop is not started when the dial fails.
func (that *Transport) Connect(host, port string) error {
	if that.connected.Load() {
		return apperror.ErrAlreadyConnected
	}

	addr := net.JoinHostPort(host, port)

	conn, err := net.DialTimeout("tcp", addr, that.dialTimeout)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", addr, err)
	}

	that.conn = conn
	that.connected.Store(true)

	go that.readLoop()

	that.logger.Info("connected", "addr", addr)

	return nil
}

// Send - writes one command, appending exactly one trailing line break if
// absent. Commands are fire-and-forget: a write failure is logged and
// swallowed, the user notices the missing server response and retries.
func (that *Transport) Send(command string) {
	if !that.connected.Load() {
		that.logger.Warn("dropping command, not connected", "command", command)
		return
	}

	if !strings.HasSuffix(command, "\n") {
		command += "\n"
	}

	that.logger.Debug("sending command", "command", strings.TrimSpace(command))

	if _, err := that.conn.Write([]byte(command)); err != nil {
		that.logger.Error("failed to write command", "error", err)
	}
}

// IsConnected - reports whether the read loop is still attached to a live
// socket.
func (that *Transport) IsConnected() bool {
	return that.connected.Load()
}

// Close - shuts the socket down for both directions, which unblocks the
// pending read. Idempotent and safe from any goroutine.
func (that *Transport) Close() {
	if that.closed.Swap(true) {
		return
	}

	// flip connected here, not only in the read loop, so callers see the
	// transport as down the moment Close returns
	that.connected.Store(false)

	if that.conn == nil {
		return
	}

	if err := that.conn.Close(); err != nil {
		that.logger.Debug("error closing connection", "error", err)
	}
}

// readLoop - blocks on the socket, forwarding decoded chunks until the stream
// ends. Invalid byte sequences are replaced, never fatal. On exit it flips
// the connected flag and fires the disconnect callback exactly once.
func (that *Transport) readLoop() {
	buf := make([]byte, readBufferSize)

	for {
		n, err := that.conn.Read(buf)
		if n > 0 {
			// decoded per read: a multi-byte rune split across two reads
			// becomes replacement characters; the protocol is ASCII
			chunk := strings.ToValidUTF8(string(buf[:n]), "�")
			that.logger.Debug("received chunk", "bytes", n)
			that.onChunk(chunk)
		}

		if err != nil {
			if !that.closed.Load() {
				that.logger.Info("read loop ended", "error", err)
			}
			break
		}
	}

	that.connected.Store(false)
	that.disconnectOnce.Do(that.onDisconnect)
}
