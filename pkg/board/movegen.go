package board

// MaxMovesPerPosition bounds pseudo-legal move buffers; no legal chess
// position exceeds it by a wide margin (the theoretical max is 218).
const MaxMovesPerPosition = 256

// GeneratePseudoLegal appends all pseudo-legal moves for the side to move
// to moves and returns the extended slice. Pseudo-legal means piece
// movement rules and castling-path/attacked-square checks are honored,
// but a move that leaves the mover's own king in check may still be
// included; MakeMove rejects those.
func (p *Position) GeneratePseudoLegal(moves []Move) []Move {
	us := p.turn
	them := us.Opponent()
	occ := p.Occupied()
	own := p.Occupancy(us)
	enemy := p.Occupancy(them)

	moves = p.generatePawnMoves(moves, us, occ, enemy)

	for _, k := range [...]Kind{Knight, Bishop, Rook, Queen, King} {
		piece := NewPiece(us, k)
		bb := p.pieces[piece]
		for bb != 0 {
			var from Square
			from, bb = bb.PopLSB()
			targets := Attacks(k, from, occ) &^ own
			for targets != 0 {
				var to Square
				to, targets = targets.PopLSB()
				moves = append(moves, NewMove(from, to, piece, p.mailbox[to]))
			}
		}
	}

	moves = p.generateCastling(moves, us, occ, them)
	return moves
}

func (p *Position) generatePawnMoves(moves []Move, us Color, occ, enemy Bitboard) []Move {
	pawn := NewPiece(us, Pawn)
	pawns := p.pieces[pawn]
	startRank, promoRank, dir := Rank2, Rank8, 1
	if us == Black {
		startRank, promoRank, dir = Rank7, Rank1, -1
	}

	for bb := pawns; bb != 0; {
		var from Square
		from, bb = bb.PopLSB()
		f, r := from.File(), int(from.Rank())

		one := NewSquare(f, Rank(r+dir))
		if !occ.IsSet(one) {
			moves = appendPawnAdvance(moves, from, one, pawn, promoRank)
			if from.Rank() == startRank {
				two := NewSquare(f, Rank(r+2*dir))
				if !occ.IsSet(two) {
					moves = append(moves, NewDoublePush(from, two, pawn))
				}
			}
		}

		for _, df := range [2]int{-1, 1} {
			nf := int(f) + df
			if nf < 0 || nf > 7 {
				continue
			}
			to := NewSquare(File(nf), Rank(r+dir))
			if enemy.IsSet(to) {
				moves = appendPawnCapture(moves, from, to, pawn, p.mailbox[to], promoRank)
				continue
			}
			if ep, ok := p.EnPassant(); ok && to == ep {
				moves = append(moves, NewEnPassant(from, to, pawn, NewPiece(us.Opponent(), Pawn)))
			}
		}
	}
	return moves
}

func appendPawnAdvance(moves []Move, from, to Square, pawn Piece, promoRank Rank) []Move {
	if to.Rank() == promoRank {
		for _, k := range [4]Kind{Queen, Rook, Bishop, Knight} {
			moves = append(moves, NewPromotion(from, to, pawn, NoPiece, k))
		}
		return moves
	}
	return append(moves, NewMove(from, to, pawn, NoPiece))
}

func appendPawnCapture(moves []Move, from, to Square, pawn, captured Piece, promoRank Rank) []Move {
	if to.Rank() == promoRank {
		for _, k := range [4]Kind{Queen, Rook, Bishop, Knight} {
			moves = append(moves, NewPromotion(from, to, pawn, captured, k))
		}
		return moves
	}
	return append(moves, NewMove(from, to, pawn, captured))
}

func (p *Position) generateCastling(moves []Move, us Color, occ Bitboard, them Color) []Move {
	rank := Rank1
	if us == Black {
		rank = Rank8
	}
	king := NewSquare(FileE, rank)
	if p.KingSquare(us) != king || p.InCheck(us) {
		return moves
	}

	kingRight, queenRight := RightsFor(us)

	if p.castling.Allows(kingRight) {
		f, g := NewSquare(FileF, rank), NewSquare(FileG, rank)
		if !occ.IsSet(f) && !occ.IsSet(g) && !p.IsAttacked(f, them) && !p.IsAttacked(g, them) {
			moves = append(moves, NewCastling(king, g, NewPiece(us, King)))
		}
	}
	if p.castling.Allows(queenRight) {
		d, c, b := NewSquare(FileD, rank), NewSquare(FileC, rank), NewSquare(FileB, rank)
		if !occ.IsSet(d) && !occ.IsSet(c) && !occ.IsSet(b) && !p.IsAttacked(d, them) && !p.IsAttacked(c, them) {
			moves = append(moves, NewCastling(king, c, NewPiece(us, King)))
		}
	}
	return moves
}

// GenerateLegal returns only the moves from GeneratePseudoLegal that do
// not leave the mover's own king in check, verified by making and
// immediately unmaking each candidate.
func (p *Position) GenerateLegal(moves []Move) []Move {
	pseudo := p.GeneratePseudoLegal(make([]Move, 0, MaxMovesPerPosition))
	for _, m := range pseudo {
		if p.MakeMove(m) {
			p.UnmakeMove()
			moves = append(moves, m)
		}
	}
	return moves
}

// HasLegalMove reports whether the side to move has at least one legal
// move, without materializing the full move list.
func (p *Position) HasLegalMove() bool {
	pseudo := p.GeneratePseudoLegal(make([]Move, 0, MaxMovesPerPosition))
	for _, m := range pseudo {
		if p.MakeMove(m) {
			p.UnmakeMove()
			return true
		}
	}
	return false
}
