// Package engine is the external-collaborator facade of §4.11: it wires
// the board/eval/search core to an opening book, a tablebase probe and a
// result sink, owns the process-wide singletons (Zobrist table,
// transposition table, evaluator) as one explicit context value per §9's
// design note, and applies the resign policy over a completed search.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/seekerror/build"
	"github.com/seekerror/logw"

	"github.com/corvine/mateline/pkg/board"
	"github.com/corvine/mateline/pkg/board/fen"
	"github.com/corvine/mateline/pkg/eval"
	"github.com/corvine/mateline/pkg/nnue"
	"github.com/corvine/mateline/pkg/search"
)

var version = build.NewVersion(0, 1, 0)

// Options configures one Engine or one Analyze call, per the facade's
// Configuration options table (§6). A per-call Options passed to Analyze
// that leaves
// a field at its zero value inherits the Engine's own default for that
// field (TimeLimit and NodeLimit are the exception: they are per-call
// only and have no engine-level default, matching §6's "engine-context
// value constructed once... and passed by reference" design note, which
// treats search limits as a property of the request, not the context).
type Options struct {
	DepthLimit      int           // 0: no limit (bounded only by board.MaxPly)
	TimeLimit       time.Duration // 0: no limit
	NodeLimit       uint64        // 0: no limit
	TTSizeMB        uint64        // 0: no transposition table; only the Engine's value, read by New, takes effect
	MultiPV         int           // number of top root moves listed in Result.MultiPV (first move and score each); 0 or 1 lists none
	ResignThreshold float64       // win-probability at/below which RESIGN is flagged; 0 disables
	Seed            int64         // Zobrist & rollout PRNG seed; the Zobrist table uses the Engine's value, read by New
	MCTiebreak      bool
}

func (o Options) String() string {
	return fmt.Sprintf("{depth=%v, tt=%vMB, multipv=%v, resign=%v, seed=%v}", o.DepthLimit, o.TTSizeMB, o.MultiPV, o.ResignThreshold, o.Seed)
}

// Engine bundles the singletons §9 calls out as a constructed-once
// context value: the Zobrist table, transposition table and evaluator,
// plus the optional Book and Tablebase collaborators of §4.11. It is
// safe for concurrent use by multiple Analyze calls on different
// positions: calls are serialized on the Engine's mutex, since the
// transposition table is shared and reused across calls rather than
// rebuilt per search.
type Engine struct {
	name, author string

	zt   *board.ZobristTable
	tt   search.TranspositionTable
	cls  eval.Evaluator
	nn   *nnue.Network // nil unless NNUE is loaded
	book Book          // NoBook if unset
	tb   Tablebase     // NoTablebase if unset

	opts Options

	mu sync.Mutex
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithOptions sets the default Options used by Analyze when its own
// Options field is its zero value.
func WithOptions(opts Options) Option {
	return func(e *Engine) { e.opts = opts }
}

// WithBook installs an opening book collaborator.
func WithBook(b Book) Option {
	return func(e *Engine) { e.book = b }
}

// WithTablebase installs a tablebase collaborator.
func WithTablebase(tb Tablebase) Option {
	return func(e *Engine) { e.tb = tb }
}

// WithNNUE installs a loaded network as the evaluator, used by Analyze
// for both the static evaluation and the incremental accumulator the
// search maintains across make/unmake.
func WithNNUE(net *nnue.Network) Option {
	return func(e *Engine) { e.nn = net }
}

// New constructs an Engine context. name/author identify the engine for
// logging and result metadata; ctx is used only for the construction-time
// log line.
func New(ctx context.Context, name, author string, opts ...Option) *Engine {
	e := &Engine{
		name:   name,
		author: author,
		cls:    eval.Classical{},
		book:   NoBook{},
		tb:     NoTablebase{},
	}
	for _, fn := range opts {
		fn(e)
	}
	e.zt = board.NewZobristTable(e.opts.Seed)

	e.tt = search.NoTranspositionTable{}
	if e.opts.TTSizeMB > 0 {
		e.tt = search.NewTranspositionTable(e.opts.TTSizeMB << 20)
	}

	logw.Infof(ctx, "Initialized engine: %v, options=%v", e.Name(), e.opts)
	return e
}

// Name returns the engine name and version.
func (e *Engine) Name() string {
	return fmt.Sprintf("%v %v", e.name, version)
}

// Author returns the configured author string.
func (e *Engine) Author() string {
	return e.author
}

// Zobrist returns the engine's Zobrist table, shared by every position
// decoded for this engine so that keys are comparable across calls.
func (e *Engine) Zobrist() *board.ZobristTable {
	return e.zt
}

// Decode parses position into a *board.Position using the engine's
// Zobrist table.
func (e *Engine) Decode(position string) (*board.Position, error) {
	if position == "startpos" {
		position = fen.Startpos
	}
	return fen.Decode(e.zt, position)
}

// evaluator returns the active evaluator: a fresh NNUE binding when a
// network is loaded (search.Iterative type-asserts it to
// search.IncrementalEvaluator and calls Reset at the root), or the
// stateless classical evaluator otherwise.
func (e *Engine) evaluator() search.Evaluator {
	if e.nn != nil {
		return nnue.New(e.nn)
	}
	return e.cls
}
