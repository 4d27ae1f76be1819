package protocol

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/totemgame/totem-client/internal/entity"
)

func TestParseGame(t *testing.T) {
	t.Run("full snapshot", func(t *testing.T) {
		// Given: a complete game frame
		block := "Turn 5\nCurrent player: Bob\n" +
			"Player Alice has 3 cards in hand and 1 cards on the table.\n" +
			"Currently on top- color 2, shape 7\n" +
			"0 spectators watching.\n"

		// When: the block is parsed
		snapshot := ParseGame(testLogger(), block)

		// Then: every field of the snapshot is populated
		require.NotNil(t, snapshot.Turn)
		require.Equal(t, 5, *snapshot.Turn)
		require.Equal(t, "Bob", snapshot.CurrentPlayer)
		require.Equal(t, 0, snapshot.Spectators)
		require.Len(t, snapshot.Players, 1)
		require.Equal(t, entity.PlayerSnapshot{
			Nick:       "Alice",
			HandCount:  3,
			TableCount: 1,
			TopCard:    &entity.Card{Color: 2, Shape: 7},
		}, snapshot.Players[0])
	})

	t.Run("bad player line is skipped", func(t *testing.T) {
		// Given: a frame with one mangled player line between two good ones
		block := "Turn 2\nCurrent player: Alice\n" +
			"Player Alice has 3 cards in hand and 1 cards on the table.\n" +
			"Player Bob has lots of cards somewhere.\n" +
			"Player Carol has 2 cards in hand and 0 cards on the table.\n" +
			"4 spectators watching.\n"

		// When: the block is parsed
		snapshot := ParseGame(testLogger(), block)

		// Then: the snapshot still carries the recoverable players
		require.Len(t, snapshot.Players, 2)
		require.Equal(t, "Alice", snapshot.Players[0].Nick)
		require.Equal(t, "Carol", snapshot.Players[1].Nick)
		require.Equal(t, 4, snapshot.Spectators)
	})

	t.Run("top card without an open player is ignored", func(t *testing.T) {
		block := "Turn 1\nCurrently on top- color 1, shape 2\n0 spectators watching.\n"

		snapshot := ParseGame(testLogger(), block)

		require.Empty(t, snapshot.Players)
	})

	t.Run("player without a placed card has no top card", func(t *testing.T) {
		block := "Turn 1\nPlayer Bob has 5 cards in hand and 0 cards on the table.\n1 spectators watching.\n"

		snapshot := ParseGame(testLogger(), block)

		require.Len(t, snapshot.Players, 1)
		require.Nil(t, snapshot.Players[0].TopCard)
		require.Equal(t, 1, snapshot.Spectators)
	})

	t.Run("unparseable turn stays absent", func(t *testing.T) {
		block := "Turn soon\nPlayer Bob has 5 cards in hand and 0 cards on the table.\n0 spectators watching.\n"

		snapshot := ParseGame(testLogger(), block)

		require.Nil(t, snapshot.Turn)
		require.Len(t, snapshot.Players, 1)
	})

	t.Run("spectators line terminates the frame", func(t *testing.T) {
		// Given: stray text after the terminator line
		block := "Turn 1\nPlayer Bob has 5 cards in hand and 0 cards on the table.\n" +
			"2 spectators watching.\n" +
			"Player Ghost has 1 cards in hand and 1 cards on the table.\n"

		// When: the block is parsed
		snapshot := ParseGame(testLogger(), block)

		// Then: nothing after the terminator is consumed
		require.Len(t, snapshot.Players, 1)
		require.Equal(t, 2, snapshot.Spectators)
	})

	t.Run("parsing twice yields equal results", func(t *testing.T) {
		block := "Turn 5\nCurrent player: Bob\n" +
			"Player Alice has 3 cards in hand and 1 cards on the table.\n" +
			"0 spectators watching.\n"

		first := ParseGame(testLogger(), block)
		second := ParseGame(testLogger(), block)

		require.Equal(t, first, second)
	})
}
