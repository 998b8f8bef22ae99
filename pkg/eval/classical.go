package eval

import (
	"context"

	"github.com/corvine/mateline/pkg/board"
)

// Evaluator is a static position evaluator. It returns the score from
// White's perspective; callers flip sign for the side to move themselves
// (see FromMover).
type Evaluator interface {
	Evaluate(ctx context.Context, pos *board.Position) Score
}

// tempoBonus favours the side to move, per §4.5.
const tempoBonus Score = 10

// Classical is the hand-tuned evaluator: tapered material, piece-square
// tables, pawn structure, king safety and mobility.
type Classical struct{}

func (Classical) Evaluate(ctx context.Context, pos *board.Position) Score {
	phase := gamePhase(pos)

	s := material(pos)
	s += pieceSquare(pos, phase)
	s += pawnStructure(pos)
	s += mobility(pos)

	// King safety only matters while there is enough material left on
	// the board to mount an attack; fade it out approaching the endgame.
	s += Score(int(kingSafety(pos)) * phase / startPhase)

	// Tempo: the side to move gets the benefit of the extra half-move, per
	// §4.5. Applied in White's frame here since the rest of the function
	// is; FromMover flips the whole total for Black callers downstream.
	s += Unit(pos.Turn()) * tempoBonus

	return Crop(s)
}

// Material is the bare material-balance evaluator, useful as a cheap
// baseline and in tests.
type Material struct{}

func (Material) Evaluate(ctx context.Context, pos *board.Position) Score {
	return Crop(material(pos))
}
