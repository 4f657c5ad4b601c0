package chess

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the standard initial arrangement.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// EncodeFEN renders p and r as FEN. The halfmove clock is not tracked and is written as 0.
func EncodeFEN(p *Position, r Rights) string {
	var sb strings.Builder
	for row := BoardSize - 1; row >= 0; row-- {
		if row < BoardSize-1 {
			sb.WriteByte('/')
		}
		empty := 0
		for col := 0; col < BoardSize; col++ {
			pc := p.PieceAt(Sq(row, col))
			if pc == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteRune(pc.Letter())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
	}

	stm := p.SideToMove()
	sb.WriteByte(' ')
	if stm == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	castling := ""
	if r[White].Short {
		castling += "K"
	}
	if r[White].Long {
		castling += "Q"
	}
	if r[Black].Short {
		castling += "k"
	}
	if r[Black].Long {
		castling += "q"
	}
	if castling == "" {
		castling = "-"
	}
	sb.WriteString(castling)

	sb.WriteByte(' ')
	if ep, ok := r.EnPassantTarget(stm); ok {
		sb.WriteString(ep.String())
	} else {
		sb.WriteByte('-')
	}
	fmt.Fprintf(&sb, " 0 %d", p.Index()/2+1)
	return sb.String()
}

// DecodeFEN parses a FEN record. Missing trailing fields take their defaults.
func DecodeFEN(fen string) (*Position, Rights, error) {
	parts := strings.Fields(fen)
	if len(parts) < 2 || len(parts) > 6 {
		return nil, Rights{}, fmt.Errorf("%w: %d fields", ErrInvalidFEN, len(parts))
	}
	rows := strings.Split(parts[0], "/")
	if len(rows) != BoardSize {
		return nil, Rights{}, fmt.Errorf("%w: %d rows", ErrInvalidFEN, len(rows))
	}
	pieces := make(map[Square]Piece, 32)
	for i, text := range rows {
		row := BoardSize - 1 - i
		col := 0
		for _, ch := range text {
			if col >= BoardSize {
				return nil, Rights{}, fmt.Errorf("%w: row %q too long", ErrInvalidFEN, text)
			}
			if ch >= '1' && ch <= '8' {
				col += int(ch - '0')
				continue
			}
			pc, ok := pieceFromLetter(ch)
			if !ok {
				return nil, Rights{}, fmt.Errorf("%w: piece letter %q", ErrInvalidFEN, ch)
			}
			pieces[Sq(row, col)] = pc
			col++
		}
		if col != BoardSize {
			return nil, Rights{}, fmt.Errorf("%w: row %q has %d columns", ErrInvalidFEN, text, col)
		}
	}

	stm, err := ParseSide(parts[1])
	if err != nil || len(parts[1]) != 1 {
		return nil, Rights{}, fmt.Errorf("%w: side %q", ErrInvalidFEN, parts[1])
	}

	r := NoRights()
	if len(parts) > 2 && parts[2] != "-" {
		for _, ch := range parts[2] {
			switch ch {
			case 'K':
				r[White].Short = true
			case 'Q':
				r[White].Long = true
			case 'k':
				r[Black].Short = true
			case 'q':
				r[Black].Long = true
			default:
				return nil, Rights{}, fmt.Errorf("%w: castling %q", ErrInvalidFEN, parts[2])
			}
		}
	}

	if len(parts) > 3 && parts[3] != "-" {
		ep, err := ParseSquare(parts[3])
		if err != nil {
			return nil, Rights{}, fmt.Errorf("%w: en passant %q", ErrInvalidFEN, parts[3])
		}
		mover := stm.Opposite()
		if ep.Row != PawnStartRow(mover)+pawnDir(mover) {
			return nil, Rights{}, fmt.Errorf("%w: en passant %q for %v to move", ErrInvalidFEN, parts[3], stm)
		}
		r[mover].DoubleStepCol = ep.Col
	}

	fullmove := 1
	if len(parts) > 5 {
		fullmove, err = strconv.Atoi(parts[5])
		if err != nil || fullmove < 1 {
			return nil, Rights{}, fmt.Errorf("%w: fullmove %q", ErrInvalidFEN, parts[5])
		}
	}
	index := (fullmove - 1) * 2
	if stm == Black {
		index++
	}

	p, err := NewPosition(index, pieces)
	if err != nil {
		return nil, Rights{}, fmt.Errorf("%w: %v", ErrInvalidFEN, err)
	}
	return p, r, nil
}

// MustDecodeFEN panics on malformed input. Meant for fixtures.
func MustDecodeFEN(fen string) (*Position, Rights) {
	p, r, err := DecodeFEN(fen)
	if err != nil {
		panic(err)
	}
	return p, r
}
