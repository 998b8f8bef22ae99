// Package search implements the recommendation engine's move search: an
// iterative-deepening principal-variation search over the game tree,
// backed by a transposition table, quiescence search at the leaves, and
// an optional Monte-Carlo tie-break among near-equal root moves.
package search

import (
	"errors"
	"fmt"
	"time"

	"github.com/corvine/mateline/pkg/board"
	"github.com/corvine/mateline/pkg/eval"
)

// ErrHalted indicates a search was stopped before completing its
// requested depth, either by a caller-issued stop or by running out of
// time. It is not returned to callers of Launch/Halt: the harness instead
// reports the best result from the last fully completed iteration.
var ErrHalted = errors.New("search halted")

// InfoFlags records auxiliary facts about how a result was produced.
type InfoFlags uint16

const (
	FlagBook InfoFlags = 1 << iota
	FlagTablebase
	FlagCache
	FlagMCTiebreak
	FlagResign
	FlagError
)

// PV is the principal variation found at one completed iteration.
type PV struct {
	Moves     []board.Move
	Score     eval.Score
	Nodes     uint64
	Depth     int
	Time      time.Duration
	Flags     InfoFlags
	RootMoves []RootCandidate // every root move searched at this depth, for the §4.9 tie-break
}

// RootCandidate is one root move's score from the most recently completed
// iteration. The facade sorts these to find the top two candidates for
// the Monte-Carlo tie-break of §4.9.
type RootCandidate struct {
	Move  board.Move
	Score eval.Score
}

func (p PV) String() string {
	return fmt.Sprintf("depth=%v score=%v nodes=%v time=%v pv=%v", p.Depth, p.Score, p.Nodes, p.Time, board.FormatMoves(p.Moves))
}

func (p PV) BestMove() board.Move {
	if len(p.Moves) == 0 {
		return board.NullMove
	}
	return p.Moves[0]
}

// Options configures one search.
type Options struct {
	DepthLimit int           // 0: no limit (bounded only by board.MaxPly)
	NodeLimit  uint64        // 0: no limit
	TimeLimit  time.Duration // 0: no limit
	MultiPV    int           // requested multi_pv count; not read by the search, which records every root move in PV.RootMoves
	MCTiebreak bool          // enable the Monte-Carlo root tie-break of §4.9
}

// nodeCheckInterval is how often, in visited nodes, the search polls its
// deadline and stop signal.
const nodeCheckInterval = 4096

// Evaluator is the subset of eval.Evaluator (or an incremental wrapper
// such as nnue.Evaluator) the search core depends on. It is kept separate
// from eval.Evaluator so callers can pass either a stateless classical
// evaluator or a stateful incremental one; the search calls OnMake/
// OnUnmake only when the evaluator implements IncrementalEvaluator.
type Evaluator = eval.Evaluator

// IncrementalEvaluator is implemented by evaluators (namely nnue.Evaluator)
// that maintain state across MakeMove/UnmakeMove and must be kept in sync.
type IncrementalEvaluator interface {
	Evaluator
	Reset(pos *board.Position)
	OnMake(m board.Move)
	OnUnmake()
	OnMakeNull()
	OnUnmakeNull()
}

// Launcher starts a new iterative-deepening search for a position.
type Launcher interface {
	Launch(pos *board.Position, opt Options) (Handle, <-chan PV)
}

// Handle manages a running search.
type Handle interface {
	// Halt stops the search, if running, and returns the best PV found so
	// far (from the last completed iteration). Idempotent.
	Halt() PV
}
