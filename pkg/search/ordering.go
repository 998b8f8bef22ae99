package search

import (
	"sort"

	"github.com/corvine/mateline/pkg/board"
)

// bucket values cached in a Move's 6-bit ordering-hint scratch field. Only
// coarse category survives the cache; moves within a bucket are re-ranked
// by a finer score computed alongside it.
const (
	bucketQuiet          uint8 = 0
	bucketKiller2        uint8 = 1
	bucketKiller1        uint8 = 2
	bucketPromotion      uint8 = 3
	bucketLosingCapture  uint8 = 4
	bucketEqualCapture   uint8 = 5
	bucketWinningCapture uint8 = 6
	bucketHint           uint8 = 7
)

// Killers holds, per search ply, the two most recent quiet moves that
// produced a beta cutoff. Killer 1 is the most recent.
type Killers struct {
	moves [board.MaxPly][2]board.Move
}

func NewKillers() *Killers {
	return &Killers{}
}

func (k *Killers) Update(ply int, m board.Move) {
	if ply < 0 || ply >= board.MaxPly {
		return
	}
	if k.moves[ply][0].Equal(m) {
		return
	}
	k.moves[ply][1] = k.moves[ply][0]
	k.moves[ply][0] = m
}

func (k *Killers) At(ply int) (board.Move, board.Move) {
	if ply < 0 || ply >= board.MaxPly {
		return board.NullMove, board.NullMove
	}
	return k.moves[ply][0], k.moves[ply][1]
}

func (k *Killers) Clear() {
	*k = Killers{}
}

// historyCap bounds the history heuristic so one hot square/piece pair
// cannot dominate move ordering forever.
const historyCap = 1 << 14

// History is the butterfly history table: a quiet-move success score
// indexed by (moving piece, destination square), per §4.8.
type History struct {
	score [board.NumPieceCodes][64]int32
}

func NewHistory() *History {
	return &History{}
}

func (h *History) Update(moving board.Piece, to board.Square, depth int) {
	bonus := int32(depth * depth * 8)
	v := h.score[moving][to] + bonus
	if v > historyCap {
		v = historyCap
	}
	h.score[moving][to] = v
}

func (h *History) Get(moving board.Piece, to board.Square) int32 {
	return h.score[moving][to]
}

func (h *History) Clear() {
	*h = History{}
}

// centerBonus gives a small tiebreak to quiet moves heading toward the
// center, used only to separate otherwise-equal quiet moves.
func centerBonus(sq board.Square) int32 {
	f, r := int(sq.File()), int(sq.Rank())
	df, dr := f-3, r-3
	if df < 0 {
		df = -df - 1
	}
	if dr < 0 {
		dr = -dr - 1
	}
	return int32(6 - df - dr)
}

// OrderMoves ranks moves in place for alpha-beta search: TT hint first,
// then captures by MVV/LVA with SEE sign (winning, equal, losing),
// queen promotions, killers, history, and a center-proximity tiebreak for
// the rest. Each move's ordering-hint scratch field is set to its coarse
// bucket for cheap inspection by later passes (e.g. quiescence reusing a
// list already ordered by the full search).
func OrderMoves(pos *board.Position, moves []board.Move, ttMove board.Move, killers *Killers, history *History, ply int) {
	k1, k2 := board.NullMove, board.NullMove
	if killers != nil {
		k1, k2 = killers.At(ply)
	}

	type scored struct {
		m      board.Move
		bucket uint8
		fine   int32
	}
	list := make([]scored, len(moves))
	for i, m := range moves {
		bucket, fine := classify(pos, m, ttMove, k1, k2, history)
		list[i] = scored{m: m.WithOrderingHint(bucket), bucket: bucket, fine: fine}
	}

	sort.SliceStable(list, func(i, j int) bool {
		if list[i].bucket != list[j].bucket {
			return list[i].bucket > list[j].bucket
		}
		return list[i].fine > list[j].fine
	})
	for i, s := range list {
		moves[i] = s.m
	}
}

func classify(pos *board.Position, m, ttMove, k1, k2 board.Move, history *History) (uint8, int32) {
	if !ttMove.IsNull() && m.Equal(ttMove) {
		return bucketHint, 0
	}
	if m.IsCapture() {
		see := pos.SEE(m)
		mvvlva := int32(100*seeCapturedValue(m)) - int32(seeAttackerValue(m))
		if m.IsPromotion() {
			mvvlva += int32(pieceValue(m.Promotion()))
		}
		switch {
		case see > 0:
			return bucketWinningCapture, int32(see)*1000 + mvvlva
		case see == 0:
			return bucketEqualCapture, mvvlva
		default:
			return bucketLosingCapture, int32(see)*1000 + mvvlva
		}
	}
	if m.IsPromotion() {
		return bucketPromotion, int32(pieceValue(m.Promotion()))
	}
	if !k1.IsNull() && m.Equal(k1) {
		return bucketKiller1, 0
	}
	if !k2.IsNull() && m.Equal(k2) {
		return bucketKiller2, 0
	}
	var h int32
	if history != nil {
		h = history.Get(m.Moving(), m.To())
	}
	return bucketQuiet, h + centerBonus(m.To())
}

func seeCapturedValue(m board.Move) int {
	if m.IsEnPassant() {
		return pieceValue(board.Pawn)
	}
	return pieceValue(m.Captured().Kind())
}

func seeAttackerValue(m board.Move) int {
	return pieceValue(m.Moving().Kind())
}

func pieceValue(k board.Kind) int {
	switch k {
	case board.Pawn:
		return 100
	case board.Knight:
		return 320
	case board.Bishop:
		return 330
	case board.Rook:
		return 500
	case board.Queen:
		return 900
	default:
		return 0
	}
}
