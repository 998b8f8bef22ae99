package search_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/corvine/mateline/pkg/board"
	"github.com/corvine/mateline/pkg/board/fen"
	"github.com/corvine/mateline/pkg/eval"
	"github.com/corvine/mateline/pkg/search"
)

func runToCompletion(t *testing.T, pos *board.Position, opt search.Options) search.PV {
	t.Helper()
	it := search.Iterative{Eval: eval.Classical{}, TT: search.NoTranspositionTable{}}
	_, out := it.Launch(pos, opt)

	var last search.PV
	for pv := range out {
		last = pv
	}
	return last
}

func TestMateInOneWhite(t *testing.T) {
	zt := board.NewZobristTable(1)
	pos, err := fen.Decode(zt, "6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1")
	require.NoError(t, err)

	pv := runToCompletion(t, pos, search.Options{DepthLimit: 4})
	require.NotEmpty(t, pv.Moves)
	require.Equal(t, "a1a8", pv.BestMove().String())
	require.True(t, pv.Score.IsMate())
	require.Greater(t, int(pv.Score), int(eval.MateScore)-2)
}

func TestBackRankMateBlackToMove(t *testing.T) {
	zt := board.NewZobristTable(2)
	pos, err := fen.Decode(zt, "6k1/5ppp/8/8/8/8/r4PPP/3R2K1 b - - 0 1")
	require.NoError(t, err)

	pv := runToCompletion(t, pos, search.Options{DepthLimit: 4})
	require.Equal(t, "a2a1", pv.BestMove().String())
}

func TestStalemateReportsNoMove(t *testing.T) {
	zt := board.NewZobristTable(3)
	pos, err := fen.Decode(zt, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	require.NoError(t, err)

	require.Equal(t, board.DrawStalemate, pos.Outcome())

	pv := runToCompletion(t, pos, search.Options{DepthLimit: 4})
	require.Empty(t, pv.Moves)
	require.Equal(t, eval.Score(0), pv.Score)
}

func TestSearchIsDeterministicGivenFixedSeedAndDepth(t *testing.T) {
	zt := board.NewZobristTable(4)
	pos, err := fen.Decode(zt, fen.Startpos)
	require.NoError(t, err)

	opt := search.Options{DepthLimit: 5, TimeLimit: 2 * time.Second}
	a := runToCompletion(t, pos, opt)

	pos2, err := fen.Decode(zt, fen.Startpos)
	require.NoError(t, err)
	b := runToCompletion(t, pos2, opt)

	require.Equal(t, a.BestMove(), b.BestMove())
	require.Equal(t, a.Score, b.Score)
	require.Equal(t, a.Depth, b.Depth)
}

func TestTranspositionTableIdempotentAcrossRuns(t *testing.T) {
	zt := board.NewZobristTable(5)
	opt := search.Options{DepthLimit: 6}

	pos1, err := fen.Decode(zt, fen.Startpos)
	require.NoError(t, err)
	it := search.Iterative{Eval: eval.Classical{}, TT: search.NewTranspositionTable(1 << 20)}
	_, out1 := it.Launch(pos1, opt)
	var a search.PV
	for pv := range out1 {
		a = pv
	}

	pos2, err := fen.Decode(zt, fen.Startpos)
	require.NoError(t, err)
	it2 := search.Iterative{Eval: eval.Classical{}, TT: search.NewTranspositionTable(1 << 20)}
	_, out2 := it2.Launch(pos2, opt)
	var b search.PV
	for pv := range out2 {
		b = pv
	}

	require.Equal(t, a.BestMove(), b.BestMove())
	require.Equal(t, a.Score, b.Score)
}

func TestRootMovesPopulatedForTiebreak(t *testing.T) {
	zt := board.NewZobristTable(7)
	pos, err := fen.Decode(zt, fen.Startpos)
	require.NoError(t, err)

	pv := runToCompletion(t, pos, search.Options{DepthLimit: 4})
	require.NotEmpty(t, pv.RootMoves)

	legal := pos.GenerateLegal(make([]board.Move, 0, board.MaxMovesPerPosition))
	legalSet := make(map[board.Move]bool, len(legal))
	for _, m := range legal {
		legalSet[m] = true
	}
	for _, rc := range pv.RootMoves {
		require.True(t, legalSet[rc.Move], "root move %v not legal", rc.Move)
	}

	require.Equal(t, pv.BestMove(), func() board.Move {
		best := pv.RootMoves[0]
		for _, rc := range pv.RootMoves[1:] {
			if rc.Score > best.Score {
				best = rc
			}
		}
		return best.Move
	}())
}

func TestHaltReturnsBestPVSoFar(t *testing.T) {
	zt := board.NewZobristTable(6)
	pos, err := fen.Decode(zt, fen.Startpos)
	require.NoError(t, err)

	it := search.Iterative{Eval: eval.Classical{}, TT: search.NoTranspositionTable{}}
	handle, out := it.Launch(pos, search.Options{TimeLimit: 50 * time.Millisecond})

	for range out {
		// drain until the time limit stops the search
	}
	pv := handle.Halt()
	require.NotEmpty(t, pv.Moves)
}
