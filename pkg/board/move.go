package board

import "fmt"

// Move is a 32-bit packed move record:
//
//	bits  0- 5: from square (6)
//	bits  6-11: to square (6)
//	bits 12-15: moving piece, Piece code (4)
//	bits 16-19: captured piece, Piece code, NoPiece when absent (4)
//	bits 20-22: promotion kind, {NoKind, Knight, Bishop, Rook, Queen} (3)
//	bits 23-25: flags: en-passant, castling, double-push (3, independent bits)
//	bits 26-31: ordering-hint scratch cache used by move ordering (6)
//
// The all-zero Move is the null/sentinel move: From==To==0 and Moving==
// NoPiece, which never occurs for a real move (a real move's Moving field
// is always a valid, nonzero piece code).
type Move uint32

const (
	flagEnPassant   Move = 1 << 0
	flagCastling    Move = 1 << 1
	flagDoublePush  Move = 1 << 2
)

const (
	shiftFrom      = 0
	shiftTo        = 6
	shiftMoving    = 12
	shiftCaptured  = 16
	shiftPromotion = 20
	shiftFlags     = 23
	shiftHint      = 26

	maskSquare = 0x3f
	maskPiece  = 0xf
	maskKind   = 0x7
	maskFlags  = 0x7
	maskHint   = 0x3f
)

// NewMove builds a basic (non-special) move.
func NewMove(from, to Square, moving, captured Piece) Move {
	return Move(from)<<shiftFrom | Move(to)<<shiftTo | Move(moving)<<shiftMoving | Move(captured)<<shiftCaptured
}

// NewPromotion builds a promotion move, optionally also a capture.
func NewPromotion(from, to Square, moving, captured Piece, promo Kind) Move {
	return NewMove(from, to, moving, captured) | Move(promo)<<shiftPromotion
}

// NewEnPassant builds an en-passant capture move. captured is always the
// opposing pawn, even though it does not sit on `to`.
func NewEnPassant(from, to Square, moving, captured Piece) Move {
	return NewMove(from, to, moving, captured) | flagEnPassant<<shiftFlags
}

// NewDoublePush builds a two-square pawn push.
func NewDoublePush(from, to Square, moving Piece) Move {
	return NewMove(from, to, moving, NoPiece) | flagDoublePush<<shiftFlags
}

// NewCastling builds a castling move; `to` is the king's destination square.
func NewCastling(from, to Square, moving Piece) Move {
	return NewMove(from, to, moving, NoPiece) | flagCastling<<shiftFlags
}

// NullMove is the sentinel move distinguishable from every legal move.
const NullMove Move = 0

func (m Move) IsNull() bool {
	return m.Moving() == NoPiece
}

func (m Move) From() Square {
	return Square(m>>shiftFrom) & maskSquare
}

func (m Move) To() Square {
	return Square(m>>shiftTo) & maskSquare
}

func (m Move) Moving() Piece {
	return Piece(m>>shiftMoving) & maskPiece
}

func (m Move) Captured() Piece {
	return Piece(m>>shiftCaptured) & maskPiece
}

func (m Move) Promotion() Kind {
	return Kind(m>>shiftPromotion) & maskKind
}

func (m Move) flags() Move {
	return (m >> shiftFlags) & maskFlags
}

func (m Move) IsEnPassant() bool {
	return m.flags()&flagEnPassant != 0
}

func (m Move) IsCastling() bool {
	return m.flags()&flagCastling != 0
}

func (m Move) IsDoublePush() bool {
	return m.flags()&flagDoublePush != 0
}

func (m Move) IsCapture() bool {
	return m.Captured() != NoPiece || m.IsEnPassant()
}

func (m Move) IsPromotion() bool {
	return m.Promotion() != NoKind
}

// OrderingHint returns the cached ordering-key scratch value.
func (m Move) OrderingHint() uint8 {
	return uint8(m>>shiftHint) & maskHint
}

// WithOrderingHint returns a copy of m with the scratch field set.
func (m Move) WithOrderingHint(v uint8) Move {
	return (m &^ (Move(maskHint) << shiftHint)) | (Move(v)&maskHint)<<shiftHint
}

// Equal compares two moves ignoring the ordering-hint scratch field.
func (m Move) Equal(o Move) bool {
	const mask = ^(Move(maskHint) << shiftHint)
	return m&mask == o&mask
}

// CastlingRookMove returns the rook's from/to squares for a castling move.
func (m Move) CastlingRookMove() (from, to Square, ok bool) {
	if !m.IsCastling() {
		return 0, 0, false
	}
	c := m.Moving().Color()
	kingSide := m.To().File() == FileG
	rank := Rank1
	if c == Black {
		rank = Rank8
	}
	if kingSide {
		return NewSquare(FileH, rank), NewSquare(FileF, rank), true
	}
	return NewSquare(FileA, rank), NewSquare(FileD, rank), true
}

// EnPassantCaptureSquare returns the square of the pawn captured en passant.
func (m Move) EnPassantCaptureSquare() (Square, bool) {
	if !m.IsEnPassant() {
		return 0, false
	}
	to := m.To()
	if m.Moving().Color() == White {
		return NewSquare(to.File(), to.Rank()-1), true
	}
	return NewSquare(to.File(), to.Rank()+1), true
}

// ParseMove parses pure algebraic coordinate notation such as "a2a4" or
// "a7a8q". The parsed move carries no contextual flags (capture/en-
// passant/castling/double-push); those are filled in by the move
// generator/position when matching it against a pseudo-legal move.
func ParseMove(str string) (from, to Square, promo Kind, err error) {
	runes := []rune(str)
	if len(runes) < 4 || len(runes) > 5 {
		return 0, 0, NoKind, fmt.Errorf("invalid move: %q", str)
	}
	from, err = ParseSquare(runes[0], runes[1])
	if err != nil {
		return 0, 0, NoKind, fmt.Errorf("invalid from in %q: %w", str, err)
	}
	to, err = ParseSquare(runes[2], runes[3])
	if err != nil {
		return 0, 0, NoKind, fmt.Errorf("invalid to in %q: %w", str, err)
	}
	if len(runes) == 5 {
		k, ok := ParseKind(runes[4])
		if !ok || k == Pawn || k == King {
			return 0, 0, NoKind, fmt.Errorf("invalid promotion in %q", str)
		}
		promo = k
	}
	return from, to, promo, nil
}

func (m Move) String() string {
	if m.IsNull() {
		return "0000"
	}
	if m.IsPromotion() {
		return fmt.Sprintf("%v%v%v", m.From(), m.To(), m.Promotion())
	}
	return fmt.Sprintf("%v%v", m.From(), m.To())
}

// FormatMoves renders a sequence of moves as a slice of UCI strings.
func FormatMoves(moves []Move) []string {
	ret := make([]string, len(moves))
	for i, m := range moves {
		ret[i] = m.String()
	}
	return ret
}
