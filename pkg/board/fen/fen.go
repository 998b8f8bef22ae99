// Package fen decodes and encodes Forsyth-Edwards Notation strings
// against pkg/board positions.
package fen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/corvine/mateline/pkg/board"
)

// Startpos is the standard chess starting position.
const Startpos = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Decode parses a FEN string into a new Position bound to zt.
func Decode(zt *board.ZobristTable, s string) (*board.Position, error) {
	fields := strings.Fields(s)
	if len(fields) < 4 {
		return nil, fmt.Errorf("fen: expected at least 4 fields, got %d in %q", len(fields), s)
	}
	for len(fields) < 6 {
		fields = append(fields, "0")
	}
	placement, turnStr, castlingStr, epStr, halfmoveStr, fullmoveStr := fields[0], fields[1], fields[2], fields[3], fields[4], fields[5]

	pos := board.NewPosition(zt)
	if err := decodePlacement(pos, placement); err != nil {
		return nil, fmt.Errorf("fen: %w", err)
	}

	var turn board.Color
	switch turnStr {
	case "w":
		turn = board.White
	case "b":
		turn = board.Black
	default:
		return nil, fmt.Errorf("fen: invalid side to move %q", turnStr)
	}

	castling, ok := board.ParseCastling(castlingStr)
	if !ok {
		return nil, fmt.Errorf("fen: invalid castling rights %q", castlingStr)
	}

	ep := board.NoSquare
	if epStr != "-" {
		sq, err := board.ParseSquareStr(epStr)
		if err != nil {
			return nil, fmt.Errorf("fen: invalid en-passant square %q: %w", epStr, err)
		}
		ep = sq
	}

	halfmove, err := strconv.Atoi(halfmoveStr)
	if err != nil {
		return nil, fmt.Errorf("fen: invalid halfmove clock %q", halfmoveStr)
	}
	fullmove, err := strconv.Atoi(fullmoveStr)
	if err != nil || fullmove < 1 {
		fullmove = 1
	}

	if err := pos.Finalize(turn, castling, ep, halfmove, fullmove); err != nil {
		return nil, fmt.Errorf("fen: %w", err)
	}
	return pos, nil
}

func decodePlacement(pos *board.Position, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("expected 8 ranks, got %d", len(ranks))
	}
	for i, rankStr := range ranks {
		rank := board.Rank(7 - i)
		file := board.FileA
		for _, r := range rankStr {
			switch {
			case r >= '1' && r <= '8':
				file += board.File(r - '0')
			default:
				piece, ok := board.ParsePiece(r)
				if !ok {
					return fmt.Errorf("invalid piece char %q", r)
				}
				if file > board.FileH {
					return fmt.Errorf("rank %v overflows 8 files", i+1)
				}
				sq := board.NewSquare(file, rank)
				if err := pos.Place(piece, sq); err != nil {
					return err
				}
				file++
			}
		}
	}
	return nil
}

// Encode renders p as a FEN string.
func Encode(p *board.Position) string {
	var sb strings.Builder
	for r := 7; r >= 0; r-- {
		empty := 0
		for f := board.ZeroFile; f < board.NumFiles; f++ {
			sq := board.NewSquare(f, board.Rank(r))
			piece := p.PieceAt(sq)
			if piece == board.NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(piece.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if r > 0 {
			sb.WriteString("/")
		}
	}

	sb.WriteString(" ")
	sb.WriteString(p.Turn().String())
	sb.WriteString(" ")
	sb.WriteString(p.Castling().String())
	sb.WriteString(" ")
	if ep, ok := p.EnPassant(); ok {
		sb.WriteString(ep.String())
	} else {
		sb.WriteString("-")
	}
	sb.WriteString(fmt.Sprintf(" %d %d", p.HalfmoveClock(), p.FullmoveNumber()))
	return sb.String()
}
