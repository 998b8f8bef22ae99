package board

// Kind is a colorless piece kind. NoKind (zero value) doubles as the
// "no promotion" sentinel for the Move.Promotion field.
type Kind uint8

const (
	NoKind Kind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

// NumKinds is the number of real kinds (Pawn..King), excluding NoKind.
const NumKinds = 6

func ParseKind(r rune) (Kind, bool) {
	switch r {
	case 'p', 'P':
		return Pawn, true
	case 'n', 'N':
		return Knight, true
	case 'b', 'B':
		return Bishop, true
	case 'r', 'R':
		return Rook, true
	case 'q', 'Q':
		return Queen, true
	case 'k', 'K':
		return King, true
	default:
		return NoKind, false
	}
}

// Index returns a zero-based index into [0;NumKinds) for Pawn..King.
func (k Kind) Index() int {
	return int(k) - 1
}

func (k Kind) String() string {
	switch k {
	case Pawn:
		return "p"
	case Knight:
		return "n"
	case Bishop:
		return "b"
	case Rook:
		return "r"
	case Queen:
		return "q"
	case King:
		return "k"
	default:
		return ""
	}
}

// Piece is a colored occupied-square code, 4 bits wide. NoPiece (zero
// value) is distinct from all twelve real codes and is used in the
// captured-piece slot of quiet moves and as a sentinel board-square
// content marker. Real codes run 1..12: White Pawn..King are 1..6,
// Black Pawn..King are 7..12.
type Piece uint8

const (
	NoPiece Piece = iota
	WhitePawn
	WhiteKnight
	WhiteBishop
	WhiteRook
	WhiteQueen
	WhiteKing
	BlackPawn
	BlackKnight
	BlackBishop
	BlackRook
	BlackQueen
	BlackKing
)

// NumPieceCodes is the number of codes including the NoPiece sentinel.
const NumPieceCodes = 13

func NewPiece(c Color, k Kind) Piece {
	if k == NoKind {
		return NoPiece
	}
	return Piece(k) + Piece(c)*6
}

func (p Piece) IsValid() bool {
	return p != NoPiece && p < NumPieceCodes
}

func (p Piece) Kind() Kind {
	if p == NoPiece {
		return NoKind
	}
	if p <= WhiteKing {
		return Kind(p)
	}
	return Kind(p - 6)
}

func (p Piece) Color() Color {
	if p <= WhiteKing {
		return White
	}
	return Black
}

func ParsePiece(r rune) (Piece, bool) {
	k, ok := ParseKind(r)
	if !ok {
		return NoPiece, false
	}
	if r >= 'a' && r <= 'z' {
		return NewPiece(Black, k), true
	}
	return NewPiece(White, k), true
}

func (p Piece) String() string {
	if p == NoPiece {
		return " "
	}
	if p.Color() == White {
		switch p.Kind() {
		case Pawn:
			return "P"
		case Knight:
			return "N"
		case Bishop:
			return "B"
		case Rook:
			return "R"
		case Queen:
			return "Q"
		case King:
			return "K"
		}
	}
	return p.Kind().String()
}
