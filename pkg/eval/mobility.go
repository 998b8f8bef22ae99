package eval

import "github.com/corvine/mateline/pkg/board"

// mobilityWeight is the centipawn value of each legally reachable square,
// per piece kind. Pawns and kings are not counted.
var mobilityWeight = [board.NumKinds + 1]Score{
	board.Knight: 4,
	board.Bishop: 4,
	board.Rook:   2,
	board.Queen:  1,
}

// mobility scores the number of squares each side's pieces attack
// (excluding squares occupied by their own pieces), White minus Black.
func mobility(p *board.Position) Score {
	return mobilityForColor(p, board.White) - mobilityForColor(p, board.Black)
}

func mobilityForColor(p *board.Position, us board.Color) Score {
	occ := p.Occupied()
	own := p.Occupancy(us)

	var s Score
	for _, k := range [...]board.Kind{board.Knight, board.Bishop, board.Rook, board.Queen} {
		bb := p.Pieces(board.NewPiece(us, k))
		for bb != 0 {
			var sq board.Square
			sq, bb = bb.PopLSB()
			targets := board.Attacks(k, sq, occ) &^ own
			s += Score(targets.PopCount()) * mobilityWeight[k]
		}
	}
	return s
}
