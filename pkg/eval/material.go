package eval

import "github.com/corvine/mateline/pkg/board"

// Value is the centipawn material value of a piece kind, indexed
// by board.Kind directly (NoKind/Pawn..King).
var Value = [board.NumKinds + 1]Score{
	board.NoKind: 0,
	board.Pawn:   100,
	board.Knight: 320,
	board.Bishop: 330,
	board.Rook:   500,
	board.Queen:  900,
	board.King:   0,
}

// Phase weights, PeSTO-style: used to taper between middlegame and
// endgame piece-square tables. Total at game start is 24.
var phaseWeight = [board.NumKinds + 1]int{
	board.NoKind: 0,
	board.Pawn:   0,
	board.Knight: 1,
	board.Bishop: 1,
	board.Rook:   2,
	board.Queen:  4,
	board.King:   0,
}

const startPhase = 24

// material returns the White-minus-Black material balance, in centipawns.
func material(p *board.Position) Score {
	var s Score
	for _, k := range [...]board.Kind{board.Pawn, board.Knight, board.Bishop, board.Rook, board.Queen} {
		w := p.Pieces(board.NewPiece(board.White, k)).PopCount()
		b := p.Pieces(board.NewPiece(board.Black, k)).PopCount()
		s += Score(w-b) * Value[k]
	}
	return s
}

// gamePhase estimates the current phase on a 0 (endgame) .. startPhase
// (opening) scale from remaining non-pawn material.
func gamePhase(p *board.Position) int {
	phase := 0
	for _, k := range [...]board.Kind{board.Knight, board.Bishop, board.Rook, board.Queen} {
		n := p.Pieces(board.NewPiece(board.White, k)).PopCount() + p.Pieces(board.NewPiece(board.Black, k)).PopCount()
		phase += n * phaseWeight[k]
	}
	if phase > startPhase {
		phase = startPhase
	}
	return phase
}

// Lerp interpolates between an endgame and middlegame score by phase,
// where phase ranges 0 (endgame) to max (middlegame).
func Lerp(eg, mg Score, phase, max int) Score {
	return (mg*Score(phase) + eg*Score(max-phase)) / Score(max)
}
