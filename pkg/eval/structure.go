package eval

import "github.com/corvine/mateline/pkg/board"

const (
	doubledPawnPenalty   Score = -10
	isolatedPawnPenalty  Score = -12
	passedPawnBonus      Score = 18 // per rank advanced beyond the second rank
	protectedPassedBonus Score = 8
)

// pawnStructure scores doubled, isolated and passed pawns, White minus
// Black, in centipawns.
func pawnStructure(p *board.Position) Score {
	return pawnStructureForColor(p, board.White) - pawnStructureForColor(p, board.Black)
}

func pawnStructureForColor(p *board.Position, us board.Color) Score {
	pawns := p.Pieces(board.NewPiece(us, board.Pawn))
	enemyPawns := p.Pieces(board.NewPiece(us.Opponent(), board.Pawn))

	var s Score
	for f := board.ZeroFile; f < board.NumFiles; f++ {
		onFile := pawns & board.BitFile(f)
		n := onFile.PopCount()
		if n > 1 {
			s += doubledPawnPenalty * Score(n-1)
		}
		if n == 0 {
			continue
		}
		if !hasNeighborPawns(pawns, f) {
			s += isolatedPawnPenalty * Score(n)
		}
	}

	for bb := pawns; bb != 0; {
		var sq board.Square
		sq, bb = bb.PopLSB()
		if isPassed(sq, us, enemyPawns) {
			rank := advancementRank(sq, us)
			s += passedPawnBonus * Score(rank)
			if isProtected(sq, us, pawns) {
				s += protectedPassedBonus
			}
		}
	}
	return s
}

func hasNeighborPawns(pawns board.Bitboard, f board.File) bool {
	var mask board.Bitboard
	if f > board.FileA {
		mask |= board.BitFile(f - 1)
	}
	if f < board.FileH {
		mask |= board.BitFile(f + 1)
	}
	return pawns&mask != 0
}

// isPassed reports whether a pawn on sq has no enemy pawn able to stop
// or capture it on its file or the adjacent files ahead of it.
func isPassed(sq board.Square, us board.Color, enemyPawns board.Bitboard) bool {
	f, r := sq.File(), int(sq.Rank())
	var mask board.Bitboard
	for df := -1; df <= 1; df++ {
		nf := int(f) + df
		if nf < 0 || nf > 7 {
			continue
		}
		if us == board.White {
			for rr := r + 1; rr <= 7; rr++ {
				mask |= board.BitMask(board.NewSquare(board.File(nf), board.Rank(rr)))
			}
		} else {
			for rr := r - 1; rr >= 0; rr-- {
				mask |= board.BitMask(board.NewSquare(board.File(nf), board.Rank(rr)))
			}
		}
	}
	return enemyPawns&mask == 0
}

func isProtected(sq board.Square, us board.Color, ownPawns board.Bitboard) bool {
	return board.PawnAttacks(us.Opponent(), sq)&ownPawns != 0
}

// advancementRank returns how many ranks the pawn has advanced past its
// own second rank (0 on the second rank, up to 5 on the seventh).
func advancementRank(sq board.Square, us board.Color) int {
	if us == board.White {
		return int(sq.Rank()) - 1
	}
	return int(board.Rank7) - int(sq.Rank())
}
