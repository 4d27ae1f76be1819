package application

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/totemgame/totem-client/internal/client"
	"github.com/totemgame/totem-client/internal/config"
	"github.com/totemgame/totem-client/internal/session"
)

// RunApp - runs the console client: connects the protocol engine, pumps stdin
// lines into it and renders its events until the session ends.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	engine := client.New(logger, conf)

	if err := engine.Connect(); err != nil {
		return fmt.Errorf("could not connect to game server: %w", err)
	}

	log.Info("Connected to game server", "addr", conf.Server.GetServerAddr())

	// stdin pump; not part of the group because Scan cannot be interrupted
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}

			if err := engine.Submit(line); err != nil {
				log.Warn("command rejected", "command", line, "error", err)
			}
		}
	}()

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		<-groupCtx.Done()
		engine.Close()
		return nil
	})

	group.Go(func() error {
		for event := range engine.Events() {
			renderEvent(log, event)
		}

		// event stream closed: the session is over
		cancel()
		return nil
	})

	if err := group.Wait(); err != nil {
		return fmt.Errorf("client stopped: %w", err)
	}

	return nil
}

// renderEvent - the bundled presentation layer: one log line per event.
func renderEvent(log *slog.Logger, event session.Event) {
	switch e := event.(type) {
	case session.NicknameAccepted:
		log.Info("Nickname accepted")
	case session.NicknameRejected:
		log.Warn("Nickname rejected", "reason", e.Reason)
	case session.CommandError:
		log.Warn("Server error", "text", e.Text)
	case session.LobbyUpdated:
		for _, room := range e.Rooms {
			log.Info("Room",
				"id", room.ID,
				"host", room.Host(),
				"players", strings.Join(room.Players, ", "),
				"spectators", room.Spectators,
				"state", room.State,
			)
		}
	case session.RoomJoined:
		log.Info("Joined room", "id", e.RoomID, "spectator", e.AsSpectator)
	case session.GameUpdated:
		for _, player := range e.Snapshot.Players {
			log.Info("Player",
				"nick", player.Nick,
				"hand", player.HandCount,
				"table", player.TableCount,
				"top_card", player.TopCard,
			)
		}
	case session.GameEnded:
		log.Info("Game over", "won", e.Won)
	case session.Disconnected:
		log.Info("Disconnected from server")
	}
}
