package board_test

import (
	"testing"

	"github.com/corvine/mateline/pkg/board"
	"github.com/corvine/mateline/pkg/board/fen"
	"github.com/stretchr/testify/require"
)

func seeMove(t *testing.T, pos *board.Position, uci string) board.Move {
	t.Helper()
	from, to, promo, err := board.ParseMove(uci)
	require.NoError(t, err)
	for _, m := range pos.GenerateLegal(make([]board.Move, 0, board.MaxMovesPerPosition)) {
		if m.From() == from && m.To() == to && m.Promotion() == promo {
			return m
		}
	}
	t.Fatalf("no legal move %s in position", uci)
	return board.NullMove
}

func TestSEEUndefendedCapture(t *testing.T) {
	zt := board.NewZobristTable(21)
	pos, err := fen.Decode(zt, "4k3/8/8/4p3/8/8/8/4R3 w - - 0 1")
	require.NoError(t, err)

	m := seeMove(t, pos, "e1e5")
	require.Equal(t, 100, pos.SEE(m))
}

func TestSEELosingCaptureOfDefendedPawn(t *testing.T) {
	zt := board.NewZobristTable(22)
	pos, err := fen.Decode(zt, "4k3/8/3p4/4p3/8/8/8/4R3 w - - 0 1")
	require.NoError(t, err)

	m := seeMove(t, pos, "e1e5")
	require.Equal(t, 100-500, pos.SEE(m))
}

func TestSEERookTradeRecapturedByKing(t *testing.T) {
	zt := board.NewZobristTable(23)
	pos, err := fen.Decode(zt, "4k3/4r3/8/8/8/8/8/4R3 w - - 0 1")
	require.NoError(t, err)

	// Rxe7 wins the rook but the king recaptures for free (King is valued
	// 0 in the exchange table), so the net exchange is even.
	m := seeMove(t, pos, "e1e7")
	require.Equal(t, 0, pos.SEE(m))
}
