package board_test

import (
	"testing"

	"github.com/corvine/mateline/pkg/board"
	"github.com/corvine/mateline/pkg/board/fen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutcomeCheckmate(t *testing.T) {
	zt := board.NewZobristTable(31)
	// Fool's mate.
	pos, err := fen.Decode(zt, "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	require.NoError(t, err)

	assert.Equal(t, board.BlackWins, pos.Outcome())
}

func TestOutcomeStalemate(t *testing.T) {
	zt := board.NewZobristTable(32)
	pos, err := fen.Decode(zt, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	require.NoError(t, err)

	assert.Equal(t, board.DrawStalemate, pos.Outcome())
}

func TestOutcomeInsufficientMaterialKingsOnly(t *testing.T) {
	zt := board.NewZobristTable(33)
	pos, err := fen.Decode(zt, "4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	require.NoError(t, err)

	assert.Equal(t, board.DrawInsufficientMaterial, pos.Outcome())
}

func TestOutcomeInsufficientMaterialSameColorBishops(t *testing.T) {
	zt := board.NewZobristTable(34)
	pos, err := fen.Decode(zt, "4k3/8/5b2/8/8/2B5/8/4K3 w - - 0 1")
	require.NoError(t, err)

	assert.Equal(t, board.DrawInsufficientMaterial, pos.Outcome())
}

func TestOutcomeFiftyMoveRule(t *testing.T) {
	zt := board.NewZobristTable(35)
	pos, err := fen.Decode(zt, "4k3/8/8/8/8/8/8/R3K3 w - - 100 60")
	require.NoError(t, err)

	assert.Equal(t, board.DrawFiftyMove, pos.Outcome())
}

func TestOutcomeUndecided(t *testing.T) {
	zt := board.NewZobristTable(36)
	pos, err := fen.Decode(zt, fen.Startpos)
	require.NoError(t, err)

	assert.Equal(t, board.Undecided, pos.Outcome())
}
