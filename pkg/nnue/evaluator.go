package nnue

import (
	"context"

	"github.com/corvine/mateline/pkg/board"
	"github.com/corvine/mateline/pkg/eval"
)

// Evaluator adapts a loaded Network into an eval.Evaluator, maintaining
// one Accumulator per position it is bound to via Reset. Search code that
// walks a single position tree should call Reset once at the root and
// OnMake/OnUnmake alongside Position.MakeMove/UnmakeMove from then on,
// rather than re-resolving Evaluate from scratch every node.
type Evaluator struct {
	net *Network
	acc *Accumulator
}

var _ eval.Evaluator = (*Evaluator)(nil)

// New binds a loaded network to a fresh accumulator.
func New(net *Network) *Evaluator {
	return &Evaluator{net: net, acc: NewAccumulator(net)}
}

// Reset re-synchronizes the accumulator to pos. Call whenever the
// evaluator is pointed at a new, unrelated position (e.g. a new search
// root); within a single search tree prefer OnMake/OnUnmake.
func (e *Evaluator) Reset(pos *board.Position) {
	e.acc.Reset(pos)
}

func (e *Evaluator) OnMake(m board.Move) { e.acc.OnMake(m) }
func (e *Evaluator) OnUnmake()           { e.acc.OnUnmake() }
func (e *Evaluator) OnMakeNull()         { e.acc.OnMakeNull() }
func (e *Evaluator) OnUnmakeNull()       { e.acc.OnUnmakeNull() }

// Evaluate returns the current accumulator's output as a centipawn-scale
// eval.Score from White's perspective, matching eval.Evaluator's contract.
// The caller is responsible for having kept the accumulator in sync with
// pos via Reset/OnMake/OnUnmake; pos itself is not consulted.
func (e *Evaluator) Evaluate(ctx context.Context, pos *board.Position) eval.Score {
	raw := e.acc.Evaluate(board.White)
	return eval.Crop(eval.Score(raw))
}
