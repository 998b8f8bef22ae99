package search

import (
	"context"
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/util/contextx"
	"github.com/seekerror/stdlib/pkg/util/iox"

	"github.com/corvine/mateline/pkg/board"
	"github.com/corvine/mateline/pkg/eval"
)

// aspirationMinWidth is the floor of §4.8's aspiration half-width,
// max(80, 5*depth).
const aspirationMinWidth = 80

// aspirationMaxWidenings bounds the geometric widening attempts before
// the window opens fully.
const aspirationMaxWidenings = 3

// Iterative is the Launcher of §4.8: it drives iterative deepening from
// depth 1 up to Options.DepthLimit (or board.MaxPly), one negamax call
// per depth, widening an aspiration window around the previous
// iteration's score and publishing a PV after every depth that completes
// before the time/node/stop limit fires.
type Iterative struct {
	Eval Evaluator
	TT   TranspositionTable
}

func (it Iterative) Launch(pos *board.Position, opt Options) (Handle, <-chan PV) {
	out := make(chan PV, 1)
	h := &handle{
		init: iox.NewAsyncCloser(),
		quit: iox.NewAsyncCloser(),
	}
	go h.run(context.Background(), it, pos, opt, out)
	return h, out
}

type handle struct {
	init, quit iox.AsyncCloser
	stop       atomic.Bool

	mu sync.Mutex
	pv PV
}

// Halt stops the search, if running, and returns the best PV found so
// far. Idempotent: safe to call more than once, and safe to call before
// the first iteration has completed (the returned PV may then have a
// zero BestMove, which the facade substitutes any legal move for).
func (h *handle) Halt() PV {
	h.stop.Store(true)
	h.quit.Close()
	<-h.init.Closed()

	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pv
}

func (h *handle) publish(pv PV) {
	h.mu.Lock()
	h.pv = pv
	h.mu.Unlock()
}

func (h *handle) run(ctx context.Context, it Iterative, rootPos *board.Position, opt Options, out chan PV) {
	defer h.init.Close()
	defer close(out)

	wctx, cancel := contextx.WithQuitCancel(ctx, h.quit.Closed())
	defer cancel()

	pos := rootPos.Clone()

	var incr IncrementalEvaluator
	if ie, ok := it.Eval.(IncrementalEvaluator); ok {
		ie.Reset(pos)
		incr = ie
	}

	tt := it.TT
	if tt == nil {
		tt = NoTranspositionTable{}
	}
	tt.NewSearch()

	killers := NewKillers()
	history := NewHistory()
	clk := newClock(opt.TimeLimit, opt.NodeLimit, h.stop.Load)

	maxDepth := opt.DepthLimit
	if maxDepth <= 0 || maxDepth > board.MaxPly {
		maxDepth = board.MaxPly
	}

	start := time.Now()
	var completed PV
	var scores []eval.Score

	for depth := 1; depth <= maxDepth; depth++ {
		if h.stop.Load() {
			break
		}

		r := &run{
			ctx:     wctx,
			pos:     pos,
			eval:    it.Eval,
			incr:    incr,
			tt:      tt,
			clock:   clk,
			killers: killers,
			history: history,
		}

		iterStart := time.Now()
		prev, hasPrev := prevScore(scores)
		score, moves := aspirate(r, depth, prev, hasPrev)
		if r.aborted {
			logw.Debugf(wctx, "Search aborted at depth=%v after %v nodes", depth, r.nodes)
			break
		}

		scores = append(scores, score)
		completed = PV{
			Moves:     moves,
			Score:     score,
			Nodes:     r.nodes,
			Depth:     depth,
			Time:      time.Since(start),
			RootMoves: append([]RootCandidate(nil), r.root...),
		}
		h.publish(completed)

		select {
		case <-out:
		default:
		}
		out <- completed

		logw.Debugf(wctx, "Searched %v: %v (iteration %v)", pos, completed, time.Since(iterStart))

		if score.IsMate() && absInt(score.MateDistance()) <= depth {
			break // forced mate found within a full-width search: exact result
		}
	}

	h.init.Close()
	h.publish(completed)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func prevScore(scores []eval.Score) (eval.Score, bool) {
	if len(scores) == 0 {
		return 0, false
	}
	return scores[len(scores)-1], true
}

// aspirate runs one iteration's root search inside an aspiration window
// centered on the previous iteration's score, per §4.8: widen
// geometrically on fail-low/fail-high up to aspirationMaxWidenings times,
// then fall back to a fully open window.
func aspirate(r *run, depth int, prev eval.Score, hasPrev bool) (eval.Score, []board.Move) {
	if !hasPrev || depth < 2 {
		score := r.negamax(depth, 0, eval.MinScore, eval.MaxScore, true)
		return score, r.pv.load(0)
	}

	half := eval.Score(aspirationMinWidth)
	if w := eval.Score(5 * depth); w > half {
		half = w
	}

	alpha, beta := prev-half, prev+half
	for attempt := 0; attempt < aspirationMaxWidenings; attempt++ {
		score := r.negamax(depth, 0, alpha, beta, true)
		if r.aborted {
			return score, nil
		}
		switch {
		case score <= alpha:
			half *= 2
			alpha = prev - half
		case score >= beta:
			half *= 2
			beta = prev + half
		default:
			return score, r.pv.load(0)
		}
	}

	// Widened aspirationMaxWidenings times without landing inside the
	// window: give up narrowing and search with a fully open window.
	score := r.negamax(depth, 0, eval.MinScore, eval.MaxScore, true)
	return score, r.pv.load(0)
}
