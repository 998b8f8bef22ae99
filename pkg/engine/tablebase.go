package engine

import (
	"context"

	"github.com/corvine/mateline/pkg/board"
	"github.com/corvine/mateline/pkg/eval"
)

// TBResult is one tablebase probe hit: the recommended move, its score
// (White-relative centipawns, saturating to the mate scale for a known
// win/loss) and the distance-to-zero of §4.11.
type TBResult struct {
	Move  board.Move
	Score eval.Score
	DTZ   int
}

// Tablebase is the facade's endgame-tablebase collaborator (§4.11): a
// probe from a position to a known-perfect result. A miss (ok=false)
// means the position is outside the tablebase's coverage, not an error;
// per §7 the tablebase must swallow its own I/O errors and report a miss.
type Tablebase interface {
	Probe(ctx context.Context, pos *board.Position) (TBResult, bool)
}

// NoTablebase never has a hit.
type NoTablebase struct{}

func (NoTablebase) Probe(context.Context, *board.Position) (TBResult, bool) {
	return TBResult{}, false
}

// SmallMaterialTablebase recognizes a handful of trivially-solved
// material configurations (K-vs-K, KQ/KR-vs-K lone-king mates) ahead of
// any real Syzygy access, grounded on original_source/src/tb_probe.cpp's
// own fallback path for when no tablebase files are configured. It is a
// stand-in for a real Syzygy prober (which would implement the same
// Tablebase interface against on-disk .rtbw/.rtbz files) rather than a
// replacement for one.
type SmallMaterialTablebase struct{}

func (SmallMaterialTablebase) Probe(ctx context.Context, pos *board.Position) (TBResult, bool) {
	white := materialValue(pos, board.White)
	black := materialValue(pos, board.Black)

	switch {
	case white == 0 && black == 0:
		return TBResult{Move: anyLegalMove(pos), Score: 0, DTZ: 0}, true
	case white == queenValue && black == 0:
		return TBResult{Move: matingMove(pos), Score: eval.MateScore, DTZ: 1}, true
	case black == queenValue && white == 0:
		return TBResult{Move: matingMove(pos), Score: -eval.MateScore, DTZ: 1}, true
	case white == rookValue && black == 0:
		return TBResult{Move: anyLegalMove(pos), Score: eval.MateScore, DTZ: 1}, true
	case black == rookValue && white == 0:
		return TBResult{Move: anyLegalMove(pos), Score: -eval.MateScore, DTZ: 1}, true
	default:
		return TBResult{}, false
	}
}

const (
	queenValue = 900
	rookValue  = 500
)

// materialValue sums non-king material for c, matching the simple
// SEE-value material count original_source's get_material uses to
// classify the small tablebase cases.
func materialValue(pos *board.Position, c board.Color) int {
	weights := [...]struct {
		kind  board.Kind
		value int
	}{
		{board.Pawn, 100},
		{board.Knight, 300},
		{board.Bishop, 300},
		{board.Rook, rookValue},
		{board.Queen, queenValue},
	}
	total := 0
	for _, w := range weights {
		total += pos.Pieces(board.NewPiece(c, w.kind)).PopCount() * w.value
	}
	return total
}

func anyLegalMove(pos *board.Position) board.Move {
	moves := pos.GenerateLegal(make([]board.Move, 0, board.MaxMovesPerPosition))
	if len(moves) == 0 {
		return board.NullMove
	}
	return moves[0]
}

// matingMove prefers a move that captures the defending lone king's last
// piece or delivers check, mirroring original_source's preference for a
// capturing move when one is available.
func matingMove(pos *board.Position) board.Move {
	moves := pos.GenerateLegal(make([]board.Move, 0, board.MaxMovesPerPosition))
	if len(moves) == 0 {
		return board.NullMove
	}
	for _, m := range moves {
		if m.IsCapture() {
			return m
		}
	}
	for _, m := range moves {
		if pos.MakeMove(m) {
			gives := pos.InCheck(pos.Turn())
			pos.UnmakeMove()
			if gives {
				return m
			}
		}
	}
	return moves[0]
}
