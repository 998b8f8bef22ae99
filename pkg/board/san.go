package board

import (
	"fmt"
	"strings"
)

// ParseSAN resolves a standard algebraic notation token (e.g. "Nf3",
// "exd5", "O-O", "e8=Q+") against the position's legal moves. It is a
// convenience for loading game records and test fixtures; engines
// produce and order moves as Move values, never SAN, internally.
func (p *Position) ParseSAN(san string) (Move, error) {
	token := strings.TrimRight(san, "+#!?")
	if token == "" {
		return NullMove, fmt.Errorf("empty SAN token")
	}

	legal := p.GenerateLegal(make([]Move, 0, MaxMovesPerPosition))

	if token == "O-O" || token == "0-0" {
		return findCastling(legal, p.turn, true)
	}
	if token == "O-O-O" || token == "0-0-0" {
		return findCastling(legal, p.turn, false)
	}

	kind := Pawn
	rest := token
	if r := rune(token[0]); r >= 'A' && r <= 'Z' {
		k, ok := ParseKind(r)
		if !ok {
			return NullMove, fmt.Errorf("invalid SAN piece in %q", san)
		}
		kind = k
		rest = token[1:]
	}

	var promo Kind
	if i := strings.IndexByte(rest, '='); i >= 0 {
		k, ok := ParseKind(rune(rest[i+1]))
		if !ok {
			return NullMove, fmt.Errorf("invalid SAN promotion in %q", san)
		}
		promo = k
		rest = rest[:i]
	}

	rest = strings.ReplaceAll(rest, "x", "")
	if len(rest) < 2 {
		return NullMove, fmt.Errorf("unparseable SAN token %q", san)
	}
	to, err := ParseSquareStr(rest[len(rest)-2:])
	if err != nil {
		return NullMove, fmt.Errorf("invalid SAN destination in %q: %w", san, err)
	}
	disambig := rest[:len(rest)-2]

	var match Move
	found := 0
	for _, m := range legal {
		if m.Moving().Kind() != kind || m.To() != to || m.Promotion() != promo {
			continue
		}
		if disambig != "" && !squareMatchesDisambiguation(m.From(), disambig) {
			continue
		}
		match = m
		found++
	}
	switch found {
	case 0:
		return NullMove, fmt.Errorf("no legal move matches SAN %q", san)
	case 1:
		return match, nil
	default:
		return NullMove, fmt.Errorf("ambiguous SAN %q", san)
	}
}

func squareMatchesDisambiguation(from Square, disambig string) bool {
	for _, r := range disambig {
		switch {
		case r >= 'a' && r <= 'h':
			if from.File() != File(r-'a') {
				return false
			}
		case r >= '1' && r <= '8':
			if from.Rank() != Rank(r-'1') {
				return false
			}
		}
	}
	return true
}

func findCastling(legal []Move, us Color, kingSide bool) (Move, error) {
	for _, m := range legal {
		if !m.IsCastling() {
			continue
		}
		isKingSide := m.To().File() == FileG
		if isKingSide == kingSide {
			return m, nil
		}
	}
	side := "O-O-O"
	if kingSide {
		side = "O-O"
	}
	return NullMove, fmt.Errorf("no legal %v for %v", side, us)
}

// SAN renders m in standard algebraic notation relative to the current
// position (which must be the position m was generated from).
func (p *Position) SAN(m Move) string {
	if m.IsCastling() {
		if m.To().File() == FileG {
			return p.withCheckSuffix(m, "O-O")
		}
		return p.withCheckSuffix(m, "O-O-O")
	}

	var sb strings.Builder
	kind := m.Moving().Kind()
	if kind != Pawn {
		sb.WriteString(strings.ToUpper(kind.String()))
		sb.WriteString(p.disambiguation(m))
	} else if m.IsCapture() {
		sb.WriteString(m.From().File().String())
	}
	if m.IsCapture() {
		sb.WriteString("x")
	}
	sb.WriteString(m.To().String())
	if m.IsPromotion() {
		sb.WriteString("=")
		sb.WriteString(strings.ToUpper(m.Promotion().String()))
	}
	return p.withCheckSuffix(m, sb.String())
}

func (p *Position) disambiguation(m Move) string {
	legal := p.GenerateLegal(make([]Move, 0, MaxMovesPerPosition))
	sameFile, sameRank, ambiguous := false, false, false
	for _, o := range legal {
		if o.From() == m.From() || o.To() != m.To() || o.Moving() != m.Moving() {
			continue
		}
		ambiguous = true
		if o.From().File() == m.From().File() {
			sameFile = true
		}
		if o.From().Rank() == m.From().Rank() {
			sameRank = true
		}
	}
	if !ambiguous {
		return ""
	}
	if !sameFile {
		return m.From().File().String()
	}
	if !sameRank {
		return m.From().Rank().String()
	}
	return m.From().String()
}

func (p *Position) withCheckSuffix(m Move, base string) string {
	if !p.MakeMove(m) {
		return base
	}
	defer p.UnmakeMove()

	if !p.InCheck(p.turn) {
		return base
	}
	if !p.HasLegalMove() {
		return base + "#"
	}
	return base + "+"
}
