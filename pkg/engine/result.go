package engine

import (
	"sort"

	"github.com/corvine/mateline/pkg/board"
	"github.com/corvine/mateline/pkg/eval"
	"github.com/corvine/mateline/pkg/search"
)

// Result is the facade's structured output of §4.11/§6: everything a
// caller needs to report a move, its principal variation and the
// confidence behind it, without depending on any search-internal type.
type Result struct {
	BestMoveUCI   string
	PV            []string
	ScoreCP       int
	WinProb       float64
	WinProbStdDev float64
	Depth         int
	Nodes         uint64
	TimeMS        int64
	Flags         search.InfoFlags
	Err           string
	MultiPV       []MultiPVEntry // populated only when Options.MultiPV > 1
}

// MultiPVEntry is one root move's UCI and score from a multi_pv report,
// ranked by root score. Only the first move of each line is reported: a
// full per-line PV would need one additional re-search per excluded root
// move, which the facade does not perform.
type MultiPVEntry struct {
	MoveUCI string
	ScoreCP int
}

// multiPVFromRootMoves ranks pv's root candidates by score and returns the
// top n as MultiPVEntry, or nil when n <= 1 or no root candidates were
// recorded (e.g. a book/tablebase result, or a search halted before its
// first iteration completed).
func multiPVFromRootMoves(pv search.PV, n int) []MultiPVEntry {
	if n <= 1 || len(pv.RootMoves) == 0 {
		return nil
	}
	ranked := append([]search.RootCandidate(nil), pv.RootMoves...)
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })
	if n > len(ranked) {
		n = len(ranked)
	}
	out := make([]MultiPVEntry, n)
	for i := 0; i < n; i++ {
		out[i] = MultiPVEntry{MoveUCI: ranked[i].Move.String(), ScoreCP: int(ranked[i].Score)}
	}
	return out
}

// resultFromPV builds a Result from a completed (or partially completed)
// search.PV, computing win probability from the PV's own score. scores is
// the full per-depth score history used for the std-dev estimate of §4.9.
func resultFromPV(pv search.PV, scores []eval.Score, flags search.InfoFlags) Result {
	r := Result{
		BestMoveUCI: pv.BestMove().String(),
		PV:          board.FormatMoves(pv.Moves),
		ScoreCP:     int(pv.Score),
		WinProb:     search.WinProbability(pv.Score),
		Depth:       pv.Depth,
		Nodes:       pv.Nodes,
		TimeMS:      pv.Time.Milliseconds(),
		Flags:       pv.Flags | flags,
	}
	if pv.BestMove().IsNull() {
		r.BestMoveUCI = ""
	}
	r.WinProbStdDev = search.WinProbabilityStdDev(scores)
	return r
}

func bookResult(m board.Move) Result {
	return Result{
		BestMoveUCI: m.String(),
		PV:          []string{m.String()},
		ScoreCP:     0,
		WinProb:     0.5,
		Depth:       0,
		Nodes:       0,
		TimeMS:      0,
		Flags:       FlagBook,
	}
}

func tablebaseResult(tb TBResult) Result {
	return Result{
		BestMoveUCI: tb.Move.String(),
		PV:          []string{tb.Move.String()},
		ScoreCP:     int(tb.Score),
		WinProb:     search.WinProbability(tb.Score),
		Depth:       0,
		Nodes:       0,
		TimeMS:      0,
		Flags:       FlagTablebase,
	}
}

func errorResult(err error) Result {
	return Result{Flags: FlagError, Err: err.Error()}
}

// Re-exported so callers of this package never need to import pkg/search
// directly for the flag bitmask, per §4.11's "optional error text" and
// §6's info-flags bitmask being part of the facade's own contract.
const (
	FlagBook       = search.FlagBook
	FlagTablebase  = search.FlagTablebase
	FlagCache      = search.FlagCache
	FlagMCTiebreak = search.FlagMCTiebreak
	FlagResign     = search.FlagResign
	FlagError      = search.FlagError
)
