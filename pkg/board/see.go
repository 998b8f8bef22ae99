package board

// seeValue gives the fixed piece values used for static-exchange
// evaluation: P=100, N=320, B=330, R=500, Q=900, K=0. These are
// deliberately simpler than the classical evaluator's tuned material
// table; SEE only needs a stable ordering of exchange values.
func seeValue(k Kind) int {
	switch k {
	case Pawn:
		return 100
	case Knight:
		return 320
	case Bishop:
		return 330
	case Rook:
		return 500
	case Queen:
		return 900
	default:
		return 0
	}
}

// attackersTo returns every piece of either color attacking sq given a
// (possibly hypothetical) total occupancy occ. Sliding attacks are
// recomputed against occ so that removing an attacker during a swap-off
// reveals the x-ray piece behind it.
func (p *Position) attackersTo(sq Square, occ Bitboard) Bitboard {
	var att Bitboard
	att |= KnightAttacks(sq) & (p.pieces[WhiteKnight] | p.pieces[BlackKnight])
	att |= KingAttacks(sq) & (p.pieces[WhiteKing] | p.pieces[BlackKing])
	att |= PawnAttacks(Black, sq) & p.pieces[WhitePawn]
	att |= PawnAttacks(White, sq) & p.pieces[BlackPawn]

	diag := p.pieces[WhiteBishop] | p.pieces[BlackBishop] | p.pieces[WhiteQueen] | p.pieces[BlackQueen]
	att |= BishopAttacks(sq, occ) & diag

	ortho := p.pieces[WhiteRook] | p.pieces[BlackRook] | p.pieces[WhiteQueen] | p.pieces[BlackQueen]
	att |= RookAttacks(sq, occ) & ortho

	return att & occ
}

func (p *Position) leastValuableAttacker(side Color, occ, attackers Bitboard) (Piece, Square, bool) {
	for _, k := range [...]Kind{Pawn, Knight, Bishop, Rook, Queen, King} {
		piece := NewPiece(side, k)
		if bb := p.pieces[piece] & attackers & occ; bb != 0 {
			return piece, bb.LSB(), true
		}
	}
	return NoPiece, NoSquare, false
}

// SEE returns the static-exchange evaluation of m: the net material gain
// (in centipawns, from the mover's perspective) of the full capture
// sequence on m.To() assuming both sides always recapture with their
// least valuable attacker. A positive value means the initiating capture
// wins material even after all recaptures.
func (p *Position) SEE(m Move) int {
	if m.IsCastling() {
		return 0
	}

	to := m.To()
	attacker := m.Moving()
	target := m.Captured()
	if m.IsEnPassant() {
		target = NewPiece(attacker.Color().Opponent(), Pawn)
	}

	occ := p.Occupied().Clear(m.From())
	if m.IsEnPassant() {
		capSq, _ := m.EnPassantCaptureSquare()
		occ = occ.Clear(capSq)
	}

	return seeValue(target.Kind()) - p.seeSwapOff(to, attacker.Color().Opponent(), occ, seeValue(attacker.Kind()))
}

// seeSwapOff returns the net gain, from side's perspective, of side
// continuing the exchange on sq: the value it can win by recapturing the
// piece worth capturedValue, net of what its own recapturing piece may
// then lose to the opponent. A side that would come out behind simply
// does not recapture (stands pat), which the `< 0` guard encodes.
func (p *Position) seeSwapOff(sq Square, side Color, occ Bitboard, capturedValue int) int {
	attackers := p.attackersTo(sq, occ)
	piece, from, ok := p.leastValuableAttacker(side, occ, attackers)
	if !ok {
		return 0
	}

	value := capturedValue - p.seeSwapOff(sq, side.Opponent(), occ.Clear(from), seeValue(piece.Kind()))
	if value < 0 {
		return 0
	}
	return value
}
