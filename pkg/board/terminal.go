package board

// Outcome classifies a terminal (game-over) position.
type Outcome int

const (
	Undecided Outcome = iota
	WhiteWins
	BlackWins
	DrawStalemate
	DrawInsufficientMaterial
	DrawFiftyMove
	DrawThreefold
)

func (o Outcome) IsDraw() bool {
	return o == DrawStalemate || o == DrawInsufficientMaterial || o == DrawFiftyMove || o == DrawThreefold
}

func (o Outcome) IsDecided() bool {
	return o == WhiteWins || o == BlackWins
}

func (o Outcome) String() string {
	switch o {
	case WhiteWins:
		return "1-0"
	case BlackWins:
		return "0-1"
	case Undecided:
		return "*"
	default:
		return "1/2-1/2"
	}
}

// Outcome classifies the position for the side to move. It does not
// consult any repetition history beyond the current position's own
// halfmove clock and RepeatedKeyCount; repetitions of positions that are
// not on the make/unmake stack are not detected.
func (p *Position) Outcome() Outcome {
	if p.HasLegalMove() {
		if p.halfmove >= 100 {
			return DrawFiftyMove
		}
		if p.RepeatedKeyCount() >= 2 {
			return DrawThreefold
		}
		if p.hasInsufficientMaterial() {
			return DrawInsufficientMaterial
		}
		return Undecided
	}
	if p.InCheck(p.turn) {
		if p.turn == White {
			return BlackWins
		}
		return WhiteWins
	}
	return DrawStalemate
}

// IsDrawnByRule reports whether pos is a draw under the rules search uses
// to bound recursion (§4.10): the 50-move clock, a single earlier
// repetition of the current key within the reversible-move window, or
// inherently insufficient mating material. It does not call HasLegalMove
// and so is cheap to call before move generation at every search node.
//
// The repetition check here is deliberately more eager than Outcome's
// DrawThreefold: a single earlier repeat (not two) is treated as drawn,
// per §4.10's "one earlier repeat counts as draw in search to prune
// repetition lines" — a standard search-time optimization, since a line
// that repeats once is assumed likely to repeat again if both sides have
// no reason to deviate.
func (p *Position) IsDrawnByRule() bool {
	if p.halfmove >= 100 {
		return true
	}
	if p.RepeatedKeyCount() >= 1 {
		return true
	}
	return p.hasInsufficientMaterial()
}

// hasInsufficientMaterial implements the conservative cases: K vs K,
// K+minor vs K, and K+B vs K+B with same-colored bishops. Any pawn,
// rook or queen on the board, or more than one minor per side beyond
// these shapes, is never insufficient.
func (p *Position) hasInsufficientMaterial() bool {
	if p.pieces[WhitePawn]|p.pieces[BlackPawn]|p.pieces[WhiteRook]|p.pieces[BlackRook]|p.pieces[WhiteQueen]|p.pieces[BlackQueen] != 0 {
		return false
	}
	wn, wb := p.pieces[WhiteKnight].PopCount(), p.pieces[WhiteBishop].PopCount()
	bn, bb := p.pieces[BlackKnight].PopCount(), p.pieces[BlackBishop].PopCount()

	wMinors, bMinors := wn+wb, bn+bb
	if wMinors == 0 && bMinors == 0 {
		return true
	}
	if wMinors+bMinors == 1 {
		return true
	}
	if wn == 0 && bn == 0 && wb == 1 && bb == 1 {
		return squareColor(p.pieces[WhiteBishop].LSB()) == squareColor(p.pieces[BlackBishop].LSB())
	}
	return false
}

func squareColor(sq Square) int {
	return (int(sq.File()) + int(sq.Rank())) & 1
}
