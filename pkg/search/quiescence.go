package search

import (
	"github.com/corvine/mateline/pkg/board"
	"github.com/corvine/mateline/pkg/eval"
)

// quiescence resolves capture sequences at the search horizon to avoid
// the horizon effect. Stand-pat: the static evaluation is always a lower
// bound on the position's true value, since the side to move could
// simply decline every further capture. When in check, stand-pat is
// skipped and every legal move (not just captures) must be considered,
// since the side to move cannot simply do nothing.
func (r *run) quiescence(alpha, beta eval.Score, ply int) eval.Score {
	if r.clock.poll() && r.clock.expired() {
		r.aborted = true
		return 0
	}
	r.nodes++

	inCheck := r.pos.InCheck(r.pos.Turn())

	if !inCheck {
		stand := eval.FromMover(r.eval.Evaluate(r.ctx, r.pos), r.pos.Turn())
		if stand >= beta {
			return beta
		}
		if stand > alpha {
			alpha = stand
		}
	}

	moves := r.pos.GeneratePseudoLegal(make([]board.Move, 0, board.MaxMovesPerPosition))
	if !inCheck {
		moves = filterCaptures(moves)
	}
	OrderMoves(r.pos, moves, board.NullMove, nil, nil, ply)

	hasLegal := false
	for _, m := range moves {
		if !inCheck && !m.IsCapture() {
			continue
		}
		if !inCheck && m.IsCapture() && r.pos.SEE(m) < 0 {
			continue // losing capture, pruned per §4.8
		}
		if !r.pos.MakeMove(m) {
			continue
		}
		hasLegal = true
		r.incremental(m)

		score := -r.quiescence(-beta, -alpha, ply+1)

		r.pos.UnmakeMove()
		r.decremental()

		if r.aborted {
			return 0
		}
		if score > alpha {
			alpha = score
		}
		if alpha >= beta {
			return beta
		}
	}

	if inCheck && !hasLegal {
		return eval.MatedIn(ply)
	}
	return alpha
}

func filterCaptures(moves []board.Move) []board.Move {
	out := moves[:0]
	for _, m := range moves {
		if m.IsCapture() || m.IsPromotion() {
			out = append(out, m)
		}
	}
	return out
}
