package engine

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"sort"

	"github.com/corvine/mateline/pkg/board"
)

// Book is the facade's opening-book collaborator (§4.11): a lookup from a
// Zobrist key to a candidate move. Find returns ok=false on a miss; it
// never returns an error for a plain miss, only for an I/O or format
// failure at load time (which happens once, outside any Find call).
type Book interface {
	Find(ctx context.Context, key board.ZobristKey, pos *board.Position) (board.Move, bool)
}

// NoBook is an empty book: every lookup misses.
type NoBook struct{}

func (NoBook) Find(context.Context, board.ZobristKey, *board.Position) (board.Move, bool) {
	return board.NullMove, false
}

// polyglotEntry is one 16-byte big-endian Polyglot book record, per §6's
// Book file format.
type polyglotEntry struct {
	key    uint64
	move   uint16
	weight uint16
	learn  uint32
}

// PolyglotBook is an in-memory Polyglot book, grouped by key with the
// highest-weight entry first, per §6's "selection policy is highest
// weight among records matching the probe key."
//
// Polyglot encodes castling as the king capturing its own rook (e1h1
// rather than e1g1), and does not distinguish a quiet pawn move from an
// en-passant capture beyond the from/to squares. Unlike the C++ source
// this is grounded on (original_source/src/book.cpp), which constructs a
// Move value directly from the decoded bits and can therefore mismatch
// the internal representation for castling and en-passant moves, this
// loader never builds a Move by hand: it decodes only the from/to/
// promotion squares and matches them against the position's own legal
// moves, so the returned Move always carries the correct capture/
// castling/en-passant flags for Position.MakeMove.
type PolyglotBook struct {
	byKey map[uint64][]polyglotEntry
}

// LoadPolyglotBook reads a Polyglot .bin file from path. A malformed
// trailing partial record is an error; per §7, book I/O errors are meant
// to be swallowed by the caller and reported as a miss rather than
// aborting analysis, so callers typically log this error and fall back
// to NoBook rather than propagating it into a search result.
func LoadPolyglotBook(path string) (*PolyglotBook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read book %v: %w", path, err)
	}
	return DecodePolyglotBook(data)
}

// DecodePolyglotBook parses raw Polyglot book bytes.
func DecodePolyglotBook(data []byte) (*PolyglotBook, error) {
	if len(data)%16 != 0 {
		return nil, fmt.Errorf("polyglot book: length %v not a multiple of 16", len(data))
	}
	b := &PolyglotBook{byKey: map[uint64][]polyglotEntry{}}
	for off := 0; off < len(data); off += 16 {
		rec := data[off : off+16]
		e := polyglotEntry{
			key:    binary.BigEndian.Uint64(rec[0:8]),
			move:   binary.BigEndian.Uint16(rec[8:10]),
			weight: binary.BigEndian.Uint16(rec[10:12]),
			learn:  binary.BigEndian.Uint32(rec[12:16]),
		}
		b.byKey[e.key] = append(b.byKey[e.key], e)
	}
	for k, es := range b.byKey {
		sort.Slice(es, func(i, j int) bool { return es[i].weight > es[j].weight })
		b.byKey[k] = es
	}
	return b, nil
}

// Find returns the highest-weight book move for key that is also legal in
// pos, skipping lower-weight entries that fail to decode to a legal move
// (a corrupt or foreign-position book entry is still only a miss, per §7).
func (b *PolyglotBook) Find(ctx context.Context, key board.ZobristKey, pos *board.Position) (board.Move, bool) {
	entries := b.byKey[uint64(key)]
	if len(entries) == 0 {
		return board.NullMove, false
	}

	legal := pos.GenerateLegal(make([]board.Move, 0, board.MaxMovesPerPosition))
	for _, e := range entries {
		if m, ok := decodePolyglotMove(e.move, pos, legal); ok {
			return m, true
		}
	}
	return board.NullMove, false
}

// decodePolyglotMove unpacks Polyglot's 16-bit move encoding (bits 0-2
// to-file, 3-5 to-rank, 6-8 from-file, 9-11 from-rank, 12-14 promotion
// piece, 0=none/1=knight/2=bishop/3=rook/4=queen) and matches it against
// pos's legal moves, correcting for Polyglot's castling convention of
// encoding the king's destination as its own rook's square.
func decodePolyglotMove(raw uint16, pos *board.Position, legal []board.Move) (board.Move, bool) {
	toFile := board.File(raw & 0x7)
	toRank := board.Rank((raw >> 3) & 0x7)
	fromFile := board.File((raw >> 6) & 0x7)
	fromRank := board.Rank((raw >> 9) & 0x7)
	promoBits := (raw >> 12) & 0x7

	from := board.NewSquare(fromFile, fromRank)
	to := board.NewSquare(toFile, toRank)

	var promo board.Kind
	switch promoBits {
	case 1:
		promo = board.Knight
	case 2:
		promo = board.Bishop
	case 3:
		promo = board.Rook
	case 4:
		promo = board.Queen
	}

	for _, m := range legal {
		if m.From() != from {
			continue
		}
		if m.IsCastling() {
			// Polyglot's to-square is the castling rook's own square;
			// compare against the rook's from-square rather than the
			// king's actual destination.
			rookFrom, _, ok := m.CastlingRookMove()
			if ok && rookFrom == to {
				return m, true
			}
			continue
		}
		if m.To() != to {
			continue
		}
		if promo != board.NoKind && m.Promotion() != promo {
			continue
		}
		if promo == board.NoKind && m.IsPromotion() {
			continue
		}
		return m, true
	}
	return board.NullMove, false
}
