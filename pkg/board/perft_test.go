package board_test

import (
	"testing"

	"github.com/corvine/mateline/pkg/board"
	"github.com/corvine/mateline/pkg/board/fen"
	"github.com/stretchr/testify/require"
)

func TestPerftStartpos(t *testing.T) {
	zt := board.NewZobristTable(1)
	pos, err := fen.Decode(zt, fen.Startpos)
	require.NoError(t, err)

	want := []uint64{1, 20, 400, 8902, 197281, 4865609}
	for depth, w := range want {
		got := pos.Perft(depth)
		require.Equalf(t, w, got, "perft(%d)", depth)
	}
}

func TestPerftKiwipete(t *testing.T) {
	zt := board.NewZobristTable(2)
	pos, err := fen.Decode(zt, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	require.NoError(t, err)

	want := []uint64{1, 48, 2039, 97862}
	for depth, w := range want {
		got := pos.Perft(depth)
		require.Equalf(t, w, got, "perft(%d)", depth)
	}
}

func TestPerftPromotions(t *testing.T) {
	zt := board.NewZobristTable(3)
	pos, err := fen.Decode(zt, "n1n5/PPPk4/8/8/8/8/4Kppp/5N1N b - - 0 1")
	require.NoError(t, err)

	want := []uint64{1, 24, 496}
	for depth, w := range want {
		got := pos.Perft(depth)
		require.Equalf(t, w, got, "perft(%d)", depth)
	}
}
