package eval

import "github.com/corvine/mateline/pkg/board"

const (
	pawnShieldBonus  Score = 10
	openFileNearKing Score = -22
	semiOpenNearKing Score = -10
)

// attackerBucketPenalty scores the number of distinct enemy piece kinds
// attacking the king square, per §4.5's "attacker-bucket penalty by
// distinct enemy-piece attackers of the king square": each additional
// attacking kind costs more than the last, since a king facing attacks
// from three different directions is in more danger than three attacks
// from the same piece type.
var attackerBucketPenalty = [...]Score{0, -15, -40, -80, -130, -190}

// kingSafety scores pawn cover, file openness and attacker pressure
// around each king, White minus Black, in centipawns. Only applied
// while phase indicates there is still enough material on the board for
// king safety to matter; callers weight it by phase.
func kingSafety(p *board.Position) Score {
	return kingSafetyForColor(p, board.White) - kingSafetyForColor(p, board.Black)
}

func kingSafetyForColor(p *board.Position, us board.Color) Score {
	king := p.KingSquare(us)
	ownPawns := p.Pieces(board.NewPiece(us, board.Pawn))
	enemyPawns := p.Pieces(board.NewPiece(us.Opponent(), board.Pawn))

	var s Score
	f := king.File()
	for df := -1; df <= 1; df++ {
		nf := int(f) + df
		if nf < 0 || nf > 7 {
			continue
		}
		file := board.File(nf)
		fileMask := board.BitFile(file)

		ownOnFile := ownPawns & fileMask
		enemyOnFile := enemyPawns & fileMask

		switch {
		case ownOnFile == 0 && enemyOnFile == 0:
			s += openFileNearKing
		case ownOnFile == 0:
			s += semiOpenNearKing
		default:
			s += pawnShieldBonus
		}
	}

	s += kingAttackerBucket(p, us, king)
	return s
}

// kingAttackerBucket counts the distinct enemy piece kinds (pawn,
// knight, bishop, rook, queen) that attack sq, and looks up the
// corresponding penalty.
func kingAttackerBucket(p *board.Position, us board.Color, sq board.Square) Score {
	enemy := us.Opponent()
	occ := p.Occupied()

	n := 0
	if board.PawnAttacks(us, sq)&p.Pieces(board.NewPiece(enemy, board.Pawn)) != 0 {
		n++
	}
	if board.KnightAttacks(sq)&p.Pieces(board.NewPiece(enemy, board.Knight)) != 0 {
		n++
	}
	if board.BishopAttacks(sq, occ)&p.Pieces(board.NewPiece(enemy, board.Bishop)) != 0 {
		n++
	}
	if board.RookAttacks(sq, occ)&p.Pieces(board.NewPiece(enemy, board.Rook)) != 0 {
		n++
	}
	if board.QueenAttacks(sq, occ)&p.Pieces(board.NewPiece(enemy, board.Queen)) != 0 {
		n++
	}
	if n >= len(attackerBucketPenalty) {
		n = len(attackerBucketPenalty) - 1
	}
	return attackerBucketPenalty[n]
}
