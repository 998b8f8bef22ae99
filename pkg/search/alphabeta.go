package search

import (
	"context"
	"math"

	"github.com/corvine/mateline/pkg/board"
	"github.com/corvine/mateline/pkg/eval"
)

// futilityMaxDepth bounds how deep §4.8's shallow-depth futility pruning
// applies; beyond it the static-eval margin is too coarse to trust.
const futilityMaxDepth = 8

// singularExtensionDepthCap is the depth ceiling on §4.8 step 10's
// same-node re-search, retained from the source per §9's Open Questions
// note that it should be revisited once tested against adversarial
// positions that could otherwise keep triggering it.
const singularExtensionDepthCap = 60

// pvStack is the triangular principal-variation table of §3: ply x ply of
// moves plus a length vector, cleared at the start of each root search.
type pvStack struct {
	table  [board.MaxPly + 1][board.MaxPly + 1]board.Move
	length [board.MaxPly + 1]int
}

func (t *pvStack) clear(ply int) {
	if ply <= board.MaxPly {
		t.length[ply] = ply
	}
}

func (t *pvStack) store(ply int, m board.Move) {
	if ply > board.MaxPly {
		return
	}
	t.table[ply][ply] = m
	for i := ply + 1; i < t.length[ply+1]; i++ {
		t.table[ply][i] = t.table[ply+1][i]
	}
	t.length[ply] = t.length[ply+1]
}

func (t *pvStack) load(ply int) []board.Move {
	n := t.length[ply]
	if n <= ply {
		return nil
	}
	out := make([]board.Move, n-ply)
	copy(out, t.table[ply][ply:n])
	return out
}

// run holds everything one iterative-deepening iteration's recursive
// negamax needs, scoped to a single root search per §3's "search-scoped
// tables" and cleared by the caller on every new root.
type run struct {
	ctx   context.Context
	pos   *board.Position
	eval  Evaluator
	incr  IncrementalEvaluator // nil unless eval is also incremental
	tt    TranspositionTable
	clock *clock

	killers *Killers
	history *History
	pv      pvStack
	root    []RootCandidate // every root move searched, refreshed before each root move loop

	nodes   uint64
	aborted bool
}

func (r *run) incremental(m board.Move) {
	if r.incr != nil {
		r.incr.OnMake(m)
	}
}

func (r *run) decremental() {
	if r.incr != nil {
		r.incr.OnUnmake()
	}
}

func (r *run) incrementalNull() {
	if r.incr != nil {
		r.incr.OnMakeNull()
	}
}

func (r *run) decrementalNull() {
	if r.incr != nil {
		r.incr.OnUnmakeNull()
	}
}

// negamax is the recursive alpha-beta core of §4.8, numbered to match the
// spec's steps. doNull disarms null-move pruning for the reply to a move
// that was itself a null move, so the search never tries two in a row.
func (r *run) negamax(depth, ply int, alpha, beta eval.Score, doNull bool) eval.Score {
	if r.aborted {
		return 0
	}
	if r.clock.poll() && r.clock.expired() {
		r.aborted = true
		return 0
	}

	pos := r.pos

	// Step 1: check extension.
	inCheck := pos.InCheck(pos.Turn())
	if inCheck {
		depth++
	}

	// Step 2: drop to quiescence.
	if depth <= 0 {
		return r.quiescence(alpha, beta, ply)
	}

	r.nodes++
	r.pv.clear(ply)

	// Step 3: draw by rule. Skipped at the root: a root position is the
	// caller's starting point to analyze, not a line reached by search.
	if ply > 0 && pos.IsDrawnByRule() {
		return 0
	}
	if ply >= board.MaxPly {
		return eval.FromMover(r.eval.Evaluate(r.ctx, pos), pos.Turn())
	}

	alphaOrig := alpha

	// Step 4: TT probe.
	var ttMove board.Move
	if bound, d, score, mv, ok := r.tt.Read(pos.Key(), ply); ok {
		ttMove = mv
		if d >= depth {
			switch bound {
			case ExactBound:
				return score
			case LowerBound:
				if score >= beta {
					return score
				}
			case UpperBound:
				if score <= alpha {
					return score
				}
			}
		}
	}

	staticEval := eval.FromMover(r.eval.Evaluate(r.ctx, pos), pos.Turn())

	// Step 5: null-move pruning.
	if !inCheck && doNull && depth >= 3 && staticEval >= beta && hasNonPawnMaterial(pos, pos.Turn()) {
		R := 3 + depth/6
		pos.MakeNull()
		r.incrementalNull()
		score := -r.negamax(depth-1-R, ply+1, -beta, -beta+1, false)
		pos.UnmakeNull()
		r.decrementalNull()

		if r.aborted {
			return 0
		}
		if score >= beta {
			return score
		}
	}

	// Step 6: internal iterative deepening to seed a TT hint.
	if ttMove.IsNull() && depth >= 4 {
		r.negamax(depth-2, ply, alpha, beta, true)
		if r.aborted {
			return 0
		}
		if _, _, _, mv, ok := r.tt.Read(pos.Key(), ply); ok {
			ttMove = mv
		}
	}

	// Step 7: generate and order moves.
	moves := pos.GeneratePseudoLegal(make([]board.Move, 0, board.MaxMovesPerPosition))
	OrderMoves(pos, moves, ttMove, r.killers, r.history, ply)

	// Root-move scores feed the §4.9 Monte-Carlo tie-break; only this
	// loop's moves (not the step 6 IID probe's shallower ones) should
	// survive, so the slice is reset here rather than on function entry.
	if ply == 0 {
		r.root = r.root[:0]
	}

	legal := 0
	anyLegal := false // at least one legal move existed, even if every one got pruned below
	best := eval.MinScore
	second := eval.MinScore
	bestMove := board.NullMove

	for _, m := range moves {
		if !pos.MakeMove(m) {
			continue
		}
		anyLegal = true
		legal++

		givesCheck := pos.InCheck(pos.Turn())
		quiet := !m.IsCapture() && !m.IsPromotion()

		// Step 8: futility pruning for shallow, quiet, non-checking moves.
		if quiet && !inCheck && !givesCheck && depth <= futilityMaxDepth {
			margin := eval.Score(100 + 40*depth)
			if staticEval+margin <= alphaOrig {
				pos.UnmakeMove()
				legal-- // futility-pruned moves never counted toward ordering depth
				continue
			}
		}

		r.incremental(m)

		var score eval.Score
		switch {
		case legal == 1:
			score = -r.negamax(depth-1, ply+1, -beta, -alpha, true)
		default:
			reduction := 0
			if quiet && !inCheck && !givesCheck && legal > 3 {
				reduction = lmrReduction(depth, legal)
			}
			searchDepth := depth - 1 - reduction
			if searchDepth < 0 {
				searchDepth = 0
			}
			score = -r.negamax(searchDepth, ply+1, -alpha-1, -alpha, true)
			if score > alpha && !r.aborted {
				// Fail-high in the null window (or the reduction missed
				// something): re-search at full depth and full window.
				score = -r.negamax(depth-1, ply+1, -beta, -alpha, true)
			}
		}

		pos.UnmakeMove()
		r.decremental()

		if r.aborted {
			return 0
		}

		if ply == 0 {
			r.root = append(r.root, RootCandidate{Move: m, Score: score})
		}

		if score > best {
			second = best
			best = score
			bestMove = m
		} else if score > second {
			second = score
		}

		// Step 9: improve alpha and the PV.
		if score > alpha {
			alpha = score
			r.pv.store(ply, m)
		}
		if alpha >= beta {
			if quiet {
				r.killers.Update(ply, m)
				r.history.Update(m.Moving(), m.To(), depth)
			}
			break // beta cutoff
		}
	}

	if legal == 0 {
		if !anyLegal {
			if inCheck {
				return eval.MatedIn(ply)
			}
			return 0
		}
		// Every legal move at this node was futility-pruned: this is a
		// fail-low node, not a terminal position, and must not be reported
		// as an even draw (0 can sit above a negative alphaOrig and
		// corrupt the parent's PVS re-search decision). Report the
		// fail-low floor the pruning itself assumed and store it as an
		// upper bound with no best move, since none was actually searched.
		floor := staticEval
		if alphaOrig > floor {
			floor = alphaOrig
		}
		r.tt.Write(pos.Key(), ply, depth, UpperBound, floor, board.NullMove)
		return floor
	}

	// Step 10: singular extension. The best move stands out clearly from
	// the runner-up; re-search the node one ply deeper to confirm it
	// before committing, per §4.8/§9 (depth-capped: the source notes this
	// re-search can loop in adversarial positions).
	if second != eval.MinScore && depth < singularExtensionDepthCap {
		if int64(best-second) >= int64(60*depth) {
			rescored := r.negamax(depth+1, ply, alphaOrig, beta, true)
			if !r.aborted {
				best = rescored
			}
		}
	}

	// Step 11: store in TT.
	bound := ExactBound
	switch {
	case best <= alphaOrig:
		bound = UpperBound
	case best >= beta:
		bound = LowerBound
	}
	r.tt.Write(pos.Key(), ply, depth, bound, best, bestMove)

	return best
}

// hasNonPawnMaterial reports whether c has any knight, bishop, rook or
// queen left, the null-move pruning precondition of §4.8 step 5 (passing
// the move in a king-and-pawn ending risks zugzwang blind spots).
func hasNonPawnMaterial(pos *board.Position, c board.Color) bool {
	for _, k := range [...]board.Kind{board.Knight, board.Bishop, board.Rook, board.Queen} {
		if pos.Pieces(board.NewPiece(c, k)) != 0 {
			return true
		}
	}
	return false
}

// lmrReduction implements §4.8's late-move reduction formula:
// r = 1 + floor(log2(d) * log2(m) * 0.66).
func lmrReduction(depth, moveIndex int) int {
	d, m := math.Log2(float64(depth)), math.Log2(float64(moveIndex))
	r := 1 + int(d*m*0.66)
	if r < 0 {
		r = 0
	}
	return r
}
