package engine_test

import (
	"context"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/corvine/mateline/pkg/board"
	"github.com/corvine/mateline/pkg/board/fen"
	"github.com/corvine/mateline/pkg/engine"
)

func polyglotBytes(key uint64, fromFile board.File, fromRank board.Rank, toFile board.File, toRank board.Rank, promo uint16, weight uint16) []byte {
	move := uint16(toFile) | uint16(toRank)<<3 | uint16(fromFile)<<6 | uint16(fromRank)<<9 | promo<<12

	buf := make([]byte, 16)
	binary.BigEndian.PutUint64(buf[0:8], key)
	binary.BigEndian.PutUint16(buf[8:10], move)
	binary.BigEndian.PutUint16(buf[10:12], weight)
	binary.BigEndian.PutUint32(buf[12:16], 0)
	return buf
}

func TestBookPrecedenceOverSearch(t *testing.T) {
	e := engine.New(context.Background(), "mateline", "test")
	pos, err := e.Decode("startpos")
	require.NoError(t, err)

	data := polyglotBytes(uint64(pos.Key()), board.FileE, board.Rank2, board.FileE, board.Rank4, 0, 100)
	book, err := engine.DecodePolyglotBook(data)
	require.NoError(t, err)

	e = engine.New(context.Background(), "mateline", "test", engine.WithBook(book))

	r, err := e.Analyze(context.Background(), "startpos", engine.Options{DepthLimit: 10})
	require.NoError(t, err)
	require.Equal(t, "e2e4", r.BestMoveUCI)
	require.NotZero(t, r.Flags&engine.FlagBook)
	require.Zero(t, r.Depth)
	require.Zero(t, r.Nodes)
}

func TestBookMissFallsThroughToSearch(t *testing.T) {
	e := engine.New(context.Background(), "mateline", "test")

	r, err := e.Analyze(context.Background(), "6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1", engine.Options{DepthLimit: 4})
	require.NoError(t, err)
	require.Equal(t, "a1a8", r.BestMoveUCI)
	require.Zero(t, r.Flags&engine.FlagBook)
}

func TestTablebaseOverridesSearchForLoneKingVsRook(t *testing.T) {
	e := engine.New(context.Background(), "mateline", "test", engine.WithTablebase(engine.SmallMaterialTablebase{}))

	r, err := e.Analyze(context.Background(), "4k3/8/8/8/8/8/8/4K2R w - - 0 1", engine.Options{DepthLimit: 10})
	require.NoError(t, err)
	require.NotZero(t, r.Flags&engine.FlagTablebase)
	require.NotEmpty(t, r.BestMoveUCI)
}

func TestStalematePositionReportsTerminal(t *testing.T) {
	e := engine.New(context.Background(), "mateline", "test")

	r, err := e.Analyze(context.Background(), "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", engine.Options{DepthLimit: 4})
	require.NoError(t, err)
	require.Equal(t, 0, r.ScoreCP)
	require.Empty(t, r.PV)
}

func TestResignNotFlaggedWhenThresholdDisabled(t *testing.T) {
	e := engine.New(context.Background(), "mateline", "test")

	// White down a queen and more: hopeless, but resign_threshold is left
	// at its zero value (disabled), so RESIGN must never be set.
	r, err := e.Analyze(context.Background(), "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNB1KBNR w KQkq - 0 1", engine.Options{DepthLimit: 6})
	require.NoError(t, err)
	require.Zero(t, r.Flags&engine.FlagResign)
}

func TestResignFlaggedOnDeepHopelessPosition(t *testing.T) {
	e := engine.New(context.Background(), "mateline", "test")

	// White down a queen (roughly -9 pawns), resign_threshold=0.05, depth >= 12.
	r, err := e.Analyze(context.Background(), "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNB1KBNR w KQkq - 0 1", engine.Options{
		DepthLimit:      12,
		ResignThreshold: 0.05,
	})
	require.NoError(t, err)
	require.NotZero(t, r.Flags&engine.FlagResign)
	require.NotEmpty(t, r.BestMoveUCI) // RESIGN flags the result; it never blanks the move
}

func TestAnalyzeInvalidFENReturnsErrorResult(t *testing.T) {
	e := engine.New(context.Background(), "mateline", "test")

	r, err := e.Analyze(context.Background(), "not a fen", engine.Options{})
	require.Error(t, err)
	require.NotZero(t, r.Flags&engine.FlagError)
	require.NotEmpty(t, r.Err)
}

func TestEngineNameIncludesVersion(t *testing.T) {
	e := engine.New(context.Background(), "mateline", "corvine")
	require.Contains(t, e.Name(), "mateline")
	require.Equal(t, "corvine", e.Author())
}

func TestMCTiebreakNotFlaggedWhenRootMovesAreNotClose(t *testing.T) {
	e := engine.New(context.Background(), "mateline", "test")

	// a1a8 mates outright: it is far ahead of every other root move, so the
	// 20 cp tie-break margin of §4.9 never triggers and MC_TIEBREAK must
	// stay unset rather than being claimed unconditionally.
	r, err := e.Analyze(context.Background(), "6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1", engine.Options{
		DepthLimit: 4,
		MCTiebreak: true,
		Seed:       99,
	})
	require.NoError(t, err)
	require.Equal(t, "a1a8", r.BestMoveUCI)
	require.Zero(t, r.Flags&engine.FlagMCTiebreak)
}

func TestMCTiebreakLeavesLegalMoveWhenItRuns(t *testing.T) {
	e := engine.New(context.Background(), "mateline", "test")

	r, err := e.Analyze(context.Background(), fen.Startpos, engine.Options{
		DepthLimit: 3,
		MCTiebreak: true,
		Seed:       7,
	})
	require.NoError(t, err)
	require.NotEmpty(t, r.BestMoveUCI)
	if r.Flags&engine.FlagMCTiebreak != 0 {
		require.NotEmpty(t, r.PV)
		require.Equal(t, r.BestMoveUCI, r.PV[0])
	}
}

func TestMultiPVReportsTopRootMoves(t *testing.T) {
	e := engine.New(context.Background(), "mateline", "test")

	r, err := e.Analyze(context.Background(), fen.Startpos, engine.Options{DepthLimit: 3, MultiPV: 3})
	require.NoError(t, err)
	require.Len(t, r.MultiPV, 3)
	require.Equal(t, r.BestMoveUCI, r.MultiPV[0].MoveUCI)
	for i := 1; i < len(r.MultiPV); i++ {
		require.LessOrEqual(t, r.MultiPV[i].ScoreCP, r.MultiPV[i-1].ScoreCP)
	}
}

func TestMultiPVUnsetByDefault(t *testing.T) {
	e := engine.New(context.Background(), "mateline", "test")

	r, err := e.Analyze(context.Background(), fen.Startpos, engine.Options{DepthLimit: 3})
	require.NoError(t, err)
	require.Empty(t, r.MultiPV)
}

func TestDecodeAcceptsStartposLiteral(t *testing.T) {
	e := engine.New(context.Background(), "mateline", "test")
	pos, err := e.Decode("startpos")
	require.NoError(t, err)
	require.Equal(t, fen.Startpos, fen.Encode(pos))
}
