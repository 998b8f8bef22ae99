package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/seekerror/logw"

	"github.com/corvine/mateline/pkg/board"
	"github.com/corvine/mateline/pkg/eval"
	"github.com/corvine/mateline/pkg/search"
)

// resignMinDepth and resignMinNodes are §4.11's thresholds below which a
// low win probability is not yet trustworthy enough to recommend
// resignation.
const (
	resignMinDepth = 12
	resignMinNodes = 200_000
)

// mcTieBreakMarginCP is §4.9's "within 20 cp" trigger for the root
// Monte-Carlo tie-break between the top two candidate moves.
const mcTieBreakMarginCP = eval.Score(20)

// mcTieBreakPlayouts and mcTieBreakWorkers bound the rollout batch run
// per candidate move; the pool is the "bounded worker pool" of §5.
const (
	mcTieBreakPlayouts = 64
	mcTieBreakWorkers  = 4
)

// Analyze runs the full facade data flow of §4.11/original_source's
// search.cpp: tablebase probe first, then opening book, then the search
// core, in that priority order (a tablebase hit is always exact and
// overrides a book move; a book move overrides search). A zero-valued
// field of opt falls back to the Engine's own default Options. Analyze
// blocks until the search completes or opt's depth/time/node limit stops
// it.
func (e *Engine) Analyze(ctx context.Context, position string, opt Options) (Result, error) {
	pos, err := e.Decode(position)
	if err != nil {
		return errorResult(fmt.Errorf("invalid position %q: %w", position, err)), err
	}
	return e.AnalyzePosition(ctx, pos, opt), nil
}

// AnalyzePosition is Analyze without the FEN-decoding step, for callers
// that already hold a *board.Position (e.g. after applying a sequence of
// UCI moves to a previously decoded one).
func (e *Engine) AnalyzePosition(ctx context.Context, pos *board.Position, opt Options) Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	if opt.DepthLimit == 0 {
		opt.DepthLimit = e.opts.DepthLimit
	}
	if opt.TTSizeMB == 0 {
		opt.TTSizeMB = e.opts.TTSizeMB
	}
	if opt.ResignThreshold == 0 {
		opt.ResignThreshold = e.opts.ResignThreshold
	}
	if opt.MultiPV == 0 {
		opt.MultiPV = e.opts.MultiPV
	}
	if opt.Seed == 0 {
		opt.Seed = e.opts.Seed
	}
	opt.MCTiebreak = opt.MCTiebreak || e.opts.MCTiebreak
	tt, tb, book, ev := e.tt, e.tb, e.book, e.evaluator()

	if tbr, ok := tb.Probe(ctx, pos); ok {
		logw.Infof(ctx, "Tablebase hit: %v", tbr.Move)
		return tablebaseResult(tbr)
	}

	if m, ok := book.Find(ctx, pos.Key(), pos); ok {
		logw.Infof(ctx, "Book hit: %v", m)
		return bookResult(m)
	}

	it := search.Iterative{Eval: ev, TT: tt}
	searchOpt := search.Options{
		DepthLimit: opt.DepthLimit,
		TimeLimit:  opt.TimeLimit,
		NodeLimit:  opt.NodeLimit,
		MultiPV:    opt.MultiPV,
		MCTiebreak: opt.MCTiebreak,
	}

	handle, out := it.Launch(pos, searchOpt)

	var last search.PV
	var scores []eval.Score
	for pv := range out {
		last = pv
		scores = append(scores, pv.Score)
	}
	_ = handle.Halt() // already drained to completion via out; idempotent

	flags := search.InfoFlags(0)
	if shouldResign(last, opt.ResignThreshold) {
		flags |= FlagResign
	}

	r := resultFromPV(last, scores, flags)
	r.MultiPV = multiPVFromRootMoves(last, opt.MultiPV)
	if r.BestMoveUCI == "" {
		// No completed iteration produced a move: the facade substitutes
		// any legal one rather than returning an empty result, per §5's
		// cancellation semantics.
		if m := anyLegalMove(pos); !m.IsNull() {
			r.BestMoveUCI = m.String()
			r.PV = []string{m.String()}
		}
	}

	if opt.MCTiebreak {
		if m, ok := runMCTiebreak(ctx, pos, last, opt.Seed); ok {
			r.BestMoveUCI = m.String()
			if len(r.PV) > 0 {
				r.PV[0] = m.String()
			} else {
				r.PV = []string{m.String()}
			}
			r.Flags |= FlagMCTiebreak
		}
	}
	return r
}

// runMCTiebreak implements §4.9's root tie-break: it only runs, and only
// flags MC_TIEBREAK, when the completed search's top two root moves
// actually land within mcTieBreakMarginCP of each other. ok is false
// whenever the tie-break did not run, in which case the caller must not
// claim the flag or touch the alpha-beta pick. Playouts always use the
// stateless classical evaluator, never the (possibly NNUE) search
// evaluator: §5 requires each playout to be "a pure function of a copied
// position," but a playout clones pos forward via MakeMove alone, with
// no OnMake calls to keep an incremental accumulator in sync, so handing
// it a stateful evaluator would silently score every position from
// whatever the accumulator last held.
func runMCTiebreak(ctx context.Context, pos *board.Position, pv search.PV, seed int64) (board.Move, bool) {
	if len(pv.RootMoves) < 2 {
		return board.NullMove, false
	}

	ranked := append([]search.RootCandidate(nil), pv.RootMoves...)
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })

	if ranked[0].Score-ranked[1].Score > mcTieBreakMarginCP {
		return board.NullMove, false
	}

	candidates := []board.Move{ranked[0].Move, ranked[1].Move}
	best, _, err := search.TieBreak(ctx, pos, eval.Classical{}, candidates, mcTieBreakPlayouts, seed, mcTieBreakWorkers)
	if err != nil || best.IsNull() {
		return board.NullMove, false
	}
	return best, true
}

// shouldResign implements §4.11's resign recommendation: depth >= 12,
// nodes >= 200k, win-prob <= the configured threshold, no TB override. A
// zero threshold disables the recommendation entirely.
func shouldResign(pv search.PV, threshold float64) bool {
	if threshold <= 0 {
		return false
	}
	if pv.Depth < resignMinDepth || pv.Nodes < resignMinNodes {
		return false
	}
	return search.WinProbability(pv.Score) <= threshold
}
