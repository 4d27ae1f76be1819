package protocol

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/totemgame/totem-client/internal/entity"
)

func TestParseLobby(t *testing.T) {
	t.Run("single waiting room", func(t *testing.T) {
		// Given: a complete single-room listing
		block := "Available rooms:\nRoom 3- players:\nAlice\nBob\n1 spectators\nWaiting to start the match.\n"

		// When: the block is parsed
		rooms := ParseLobby(testLogger(), block)

		// Then: one room with host Alice in the waiting state
		require.Len(t, rooms, 1)
		require.Equal(t, entity.RoomSnapshot{
			ID:         3,
			Players:    []string{"Alice", "Bob"},
			Spectators: 1,
			State:      entity.RoomStateWaiting,
		}, rooms[0])
		require.Equal(t, "Alice", rooms[0].Host())
	})

	t.Run("rooms keep server order", func(t *testing.T) {
		// Given: a listing where ids are not sorted
		block := "Available rooms:\n" +
			"Room 7- players:\nCarol\n0 spectators\nMatch in progress.\n" +
			"Room 2- players:\nDave\nErin\n3 spectators\nWaiting to start the match.\n"

		// When: the block is parsed
		rooms := ParseLobby(testLogger(), block)

		// Then: rooms appear in the order the server listed them
		require.Len(t, rooms, 2)
		require.Equal(t, 7, rooms[0].ID)
		require.Equal(t, entity.RoomStateInProgress, rooms[0].State)
		require.Equal(t, 2, rooms[1].ID)
		require.Equal(t, []string{"Dave", "Erin"}, rooms[1].Players)
	})

	t.Run("room with unparseable id is dropped", func(t *testing.T) {
		// Given: a room header whose id overflows int
		block := "Available rooms:\n" +
			"Room 99999999999999999999999- players:\nMallory\n0 spectators\nWaiting to start the match.\n" +
			"Room 1- players:\nAlice\n0 spectators\nWaiting to start the match.\n"

		// When: the block is parsed
		rooms := ParseLobby(testLogger(), block)

		// Then: only the well-formed room survives
		require.Len(t, rooms, 1)
		require.Equal(t, 1, rooms[0].ID)
		require.Equal(t, []string{"Alice"}, rooms[0].Players)
	})

	t.Run("missing state line leaves state unknown", func(t *testing.T) {
		block := "Available rooms:\nRoom 5- players:\nAlice\n2 spectators\n"

		rooms := ParseLobby(testLogger(), block)

		require.Len(t, rooms, 1)
		require.Equal(t, entity.RoomStateUnknown, rooms[0].State)
		require.Equal(t, 2, rooms[0].Spectators)
	})

	t.Run("empty listing yields no rooms", func(t *testing.T) {
		rooms := ParseLobby(testLogger(), "Available rooms:\n")

		require.Empty(t, rooms)
	})

	t.Run("parsing twice yields equal results", func(t *testing.T) {
		block := "Available rooms:\nRoom 3- players:\nAlice\nBob\n1 spectators\nWaiting to start the match.\n"

		first := ParseLobby(testLogger(), block)
		second := ParseLobby(testLogger(), block)

		require.Equal(t, first, second)
	})
}
