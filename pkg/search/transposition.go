package search

import (
	"fmt"
	"math/bits"
	"sync/atomic"
	"unsafe"

	"github.com/corvine/mateline/pkg/board"
	"github.com/corvine/mateline/pkg/eval"
)

// Bound records whether a stored score is exact, or only a bound because
// the search that produced it cut off before resolving the true value.
type Bound uint8

const (
	ExactBound Bound = iota
	LowerBound       // fail-high: the true score is >= the stored score
	UpperBound       // fail-low: the true score is <= the stored score
)

func (b Bound) String() string {
	switch b {
	case ExactBound:
		return "Exact"
	case LowerBound:
		return "Lower"
	case UpperBound:
		return "Upper"
	default:
		return "?"
	}
}

// TranspositionTable caches search results keyed by position hash. Mate
// scores must be stored relative to the node that produced them (distance
// from that node, not from the root) and re-adjusted by the probing ply on
// read, so the same entry is correct regardless of the path that reaches
// it. Must be safe for concurrent Read/Write from the single search
// goroutine that owns it across iterative-deepening iterations.
type TranspositionTable interface {
	// Read returns the bound, depth, mate-adjusted score and best move for
	// hash at the given ply, if present.
	Read(hash board.ZobristKey, ply int) (Bound, int, eval.Score, board.Move, bool)
	// Write stores an entry for hash, subject to the table's replacement
	// policy. score is mate-relative-to-ply and is re-based to be relative
	// to the node before storage.
	Write(hash board.ZobristKey, ply, depth int, bound Bound, score eval.Score, move board.Move)

	// NewSearch bumps the table's age counter, marking entries written
	// before this call as stale for replacement purposes.
	NewSearch()

	// Size returns the size of the table in bytes.
	Size() uint64
	// Used returns the utilization as a fraction [0;1].
	Used() float64
}

// metadata packs bound, age, depth and the best move.
type metadata struct {
	bound Bound
	age   uint8
	depth uint16
	move  board.Move // ordering-hint scratch bits always cleared
}

// node is one stored search result.
type node struct {
	hash  board.ZobristKey
	score eval.Score
	md    metadata
}

// table is a flat, fixed-size, lock-free transposition table: one
// atomic-pointer slot per index, no locking, single writer per search.
type table struct {
	table []*node
	mask  uint64
	used  uint64
	age   uint32
}

// NewTranspositionTable allocates a table sized to fit within size bytes,
// rounded down to the nearest power-of-two entry count.
func NewTranspositionTable(size uint64) TranspositionTable {
	const entrySize = 32
	entries := size / entrySize
	if entries == 0 {
		entries = 1
	}
	n := uint64(1) << (63 - bits.LeadingZeros64(entries))

	return &table{
		table: make([]*node, n),
		mask:  n - 1,
	}
}

func (t *table) Size() uint64 {
	return uint64(len(t.table)) * 32
}

func (t *table) Used() float64 {
	return float64(t.used) / float64(len(t.table))
}

func (t *table) NewSearch() {
	t.age++
}

func (t *table) slot(hash board.ZobristKey) *unsafe.Pointer {
	key := uint64(hash) & t.mask
	return (*unsafe.Pointer)(unsafe.Pointer(&t.table[key]))
}

func (t *table) Read(hash board.ZobristKey, ply int) (Bound, int, eval.Score, board.Move, bool) {
	addr := t.slot(hash)
	ptr := (*node)(atomic.LoadPointer(addr))
	if ptr == nil || ptr.hash != hash {
		return 0, 0, 0, board.NullMove, false
	}
	return ptr.md.bound, int(ptr.md.depth), relativeToPly(ptr.score, ply), ptr.md.move, true
}

func (t *table) Write(hash board.ZobristKey, ply, depth int, bound Bound, score eval.Score, move board.Move) {
	addr := t.slot(hash)
	stored := relativeToNode(score, ply)

	fresh := &node{
		hash:  hash,
		score: stored,
		md: metadata{
			bound: bound,
			age:   uint8(t.age),
			depth: uint16(depth),
			move:  move.WithOrderingHint(0),
		},
	}

	for {
		ptr := (*node)(atomic.LoadPointer(addr))
		if ptr != nil && !t.replaces(ptr, fresh) {
			return
		}
		if atomic.CompareAndSwapPointer(addr, unsafe.Pointer(ptr), unsafe.Pointer(fresh)) {
			if ptr == nil {
				t.used++
			}
			return
		}
	}
}

// replaces decides whether fresh should overwrite the entry currently
// occupying its slot, per §4.7's store policy: empty slot, strictly
// deeper search, same age but the stored entry is from an older search,
// or a depth tie broken deterministically on the low hash bits.
func (t *table) replaces(old, fresh *node) bool {
	if old.md.age != fresh.md.age {
		return true // stale: always replace with a fresh-age entry
	}
	if fresh.md.depth > old.md.depth {
		return true
	}
	if fresh.md.depth < old.md.depth {
		return false
	}
	return uint64(fresh.hash)&1 == 1
}

func (t *table) String() string {
	return fmt.Sprintf("TT[%vMB @ %v%%]", t.Size()>>20, int(100*t.Used()))
}

// relativeToNode rewrites a mate score found at ply plies from the root
// into one measured from the node itself, so it stays valid from any path
// that later transposes into this node.
func relativeToNode(s eval.Score, ply int) eval.Score {
	switch {
	case s > eval.MateThreshold:
		return s + eval.Score(ply)
	case s < -eval.MateThreshold:
		return s - eval.Score(ply)
	default:
		return s
	}
}

// relativeToPly is the inverse of relativeToNode: it re-bases a stored
// node-relative mate score back to the probing node's distance from root.
func relativeToPly(s eval.Score, ply int) eval.Score {
	switch {
	case s > eval.MateThreshold:
		return s - eval.Score(ply)
	case s < -eval.MateThreshold:
		return s + eval.Score(ply)
	default:
		return s
	}
}

// NoTranspositionTable is a Nop implementation, used when tt_size_mb
// configures no table.
type NoTranspositionTable struct{}

func (NoTranspositionTable) Read(board.ZobristKey, int) (Bound, int, eval.Score, board.Move, bool) {
	return 0, 0, 0, board.NullMove, false
}

func (NoTranspositionTable) Write(board.ZobristKey, int, int, Bound, eval.Score, board.Move) {}
func (NoTranspositionTable) NewSearch()                                                      {}
func (NoTranspositionTable) Size() uint64                                                     { return 0 }
func (NoTranspositionTable) Used() float64                                                    { return 0 }
