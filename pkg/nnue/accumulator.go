package nnue

import "github.com/corvine/mateline/pkg/board"

// Accumulator is the incrementally maintained hidden-layer pre-activation
// state for one position. It must be Reset from a position once and then
// kept in sync via OnMake/OnUnmake as moves are made and unmade.
type Accumulator struct {
	net     *Network
	hidden  [HiddenSize]int32
	history []delta
}

// delta records the feature toggles applied by one MakeMove, so
// OnUnmake can replay them in reverse.
type delta struct {
	removed []int
	added   []int
}

// NewAccumulator returns an accumulator bound to net, not yet populated;
// call Reset before use.
func NewAccumulator(net *Network) *Accumulator {
	return &Accumulator{net: net, history: make([]delta, 0, board.MaxPly)}
}

func featureIndex(piece board.Piece, sq board.Square) int {
	return (int(piece)-1)*int(board.NumSquares) + int(sq)
}

// Reset recomputes the accumulator from scratch for pos: hidden = bias +
// sum of feature weights for every occupied square.
func (a *Accumulator) Reset(pos *board.Position) {
	for i, b := range a.net.FeatureBias {
		a.hidden[i] = int32(b)
	}
	for piece := board.Piece(1); int(piece) < board.NumPieceCodes; piece++ {
		bb := pos.Pieces(piece)
		for bb != 0 {
			var sq board.Square
			sq, bb = bb.PopLSB()
			a.toggle(featureIndex(piece, sq), true)
		}
	}
	a.history = a.history[:0]
}

func (a *Accumulator) toggle(feature int, add bool) {
	base := feature * HiddenSize
	if add {
		for i := 0; i < HiddenSize; i++ {
			a.hidden[i] += int32(a.net.FeatureWeights[base+i])
		}
	} else {
		for i := 0; i < HiddenSize; i++ {
			a.hidden[i] -= int32(a.net.FeatureWeights[base+i])
		}
	}
}

// OnMake applies the feature toggles for m, which must have just been
// legally applied to the position this accumulator tracks. The toggles
// are derived from m alone: an en-passant capture removes the opposing
// pawn from its own square rather than from m.To(), mirroring
// Position.MakeMove's own bookkeeping.
func (a *Accumulator) OnMake(m board.Move) {
	var d delta

	moving := m.Moving()
	from, to := m.From(), m.To()
	d.removed = append(d.removed, featureIndex(moving, from))

	captured := m.Captured()
	if m.IsEnPassant() {
		captured = board.NewPiece(moving.Color().Opponent(), board.Pawn)
		capSq, _ := m.EnPassantCaptureSquare()
		d.removed = append(d.removed, featureIndex(captured, capSq))
	} else if captured != board.NoPiece {
		d.removed = append(d.removed, featureIndex(captured, to))
	}

	placed := moving
	if promo := m.Promotion(); promo != board.NoKind {
		placed = board.NewPiece(moving.Color(), promo)
	}
	d.added = append(d.added, featureIndex(placed, to))

	if m.IsCastling() {
		rf, rt, _ := m.CastlingRookMove()
		rook := board.NewPiece(moving.Color(), board.Rook)
		d.removed = append(d.removed, featureIndex(rook, rf))
		d.added = append(d.added, featureIndex(rook, rt))
	}

	for _, f := range d.removed {
		a.toggle(f, false)
	}
	for _, f := range d.added {
		a.toggle(f, true)
	}
	a.history = append(a.history, d)
}

// OnUnmake reverses the most recent OnMake.
func (a *Accumulator) OnUnmake() {
	if len(a.history) == 0 {
		return
	}
	d := a.history[len(a.history)-1]
	a.history = a.history[:len(a.history)-1]

	for _, f := range d.added {
		a.toggle(f, false)
	}
	for _, f := range d.removed {
		a.toggle(f, true)
	}
}

// OnMakeNull and OnUnmakeNull are no-ops: a null move touches no piece
// feature, so the accumulator never changes.
func (a *Accumulator) OnMakeNull()   {}
func (a *Accumulator) OnUnmakeNull() {}

// Evaluate returns the scalar network output from turn's perspective:
// ReLU(hidden) dot outputWeights, plus bias, scaled down and sign-flipped
// for Black.
func (a *Accumulator) Evaluate(turn board.Color) int32 {
	var sum int32
	for i := 0; i < HiddenSize; i++ {
		h := a.hidden[i]
		if h < 0 {
			h = 0
		}
		sum += h * int32(a.net.OutputWeights[i])
	}
	scale := a.net.OutputScale
	if scale == 0 {
		scale = defaultOutputScale
	}
	score := (int32(a.net.OutputBias) + sum) / scale
	if turn == board.Black {
		return -score
	}
	return score
}
