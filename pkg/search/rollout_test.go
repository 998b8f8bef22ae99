package search_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/corvine/mateline/pkg/board"
	"github.com/corvine/mateline/pkg/board/fen"
	"github.com/corvine/mateline/pkg/eval"
	"github.com/corvine/mateline/pkg/search"
)

// findLegalMove returns the legal move from pos matching uci, failing the
// test if none matches.
func findLegalMove(t *testing.T, pos *board.Position, uci string) board.Move {
	t.Helper()
	for _, m := range pos.GenerateLegal(make([]board.Move, 0, board.MaxMovesPerPosition)) {
		if m.String() == uci {
			return m
		}
	}
	t.Fatalf("no legal move %q in position %v", uci, pos)
	return board.NullMove
}

func TestTieBreakPicksImmediateMateOverQuietMove(t *testing.T) {
	zt := board.NewZobristTable(100)
	pos, err := fen.Decode(zt, "6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1")
	require.NoError(t, err)

	mate := findLegalMove(t, pos, "a1a8")
	quiet := findLegalMove(t, pos, "g1g2")

	best, outcomes, err := search.TieBreak(context.Background(), pos, eval.Classical{}, []board.Move{mate, quiet}, 8, 42, 2)
	require.NoError(t, err)
	require.Equal(t, mate, best)

	require.Equal(t, mate, outcomes[0].Move)
	require.Equal(t, 8, outcomes[0].Wins)
	require.Zero(t, outcomes[0].Draws)
	require.Zero(t, outcomes[0].Losses)
	require.Equal(t, 1.0, outcomes[0].Score())
}

func TestTieBreakIsDeterministicGivenFixedSeed(t *testing.T) {
	zt := board.NewZobristTable(101)
	pos, err := fen.Decode(zt, fen.Startpos)
	require.NoError(t, err)

	a := findLegalMove(t, pos, "e2e4")
	b := findLegalMove(t, pos, "d2d4")

	bestA, outcomesA, err := search.TieBreak(context.Background(), pos, eval.Classical{}, []board.Move{a, b}, 6, 7, 2)
	require.NoError(t, err)

	bestB, outcomesB, err := search.TieBreak(context.Background(), pos, eval.Classical{}, []board.Move{a, b}, 6, 7, 2)
	require.NoError(t, err)

	require.Equal(t, bestA, bestB)
	require.Equal(t, outcomesA, outcomesB)
}

func TestTieBreakSingleCandidateShortCircuits(t *testing.T) {
	zt := board.NewZobristTable(102)
	pos, err := fen.Decode(zt, fen.Startpos)
	require.NoError(t, err)

	only := findLegalMove(t, pos, "e2e4")

	best, outcomes, err := search.TieBreak(context.Background(), pos, eval.Classical{}, []board.Move{only}, 4, 1, 2)
	require.NoError(t, err)
	require.Equal(t, only, best)
	require.Len(t, outcomes, 1)
}
