package chess

import "fmt"

// IsCastling: a king moving two columns.
func (m Move) IsCastling(p *Position) bool {
	return p.PieceAt(m.From).Kind() == King && abs(m.To.Col-m.From.Col) == 2 && m.To.Row == m.From.Row
}

func (m Move) IsLongCastling(p *Position) bool {
	return m.IsCastling(p) && m.To.Col < m.From.Col
}

// IsEnPassant: a pawn changing column onto an empty square.
func (m Move) IsEnPassant(p *Position) bool {
	return p.PieceAt(m.From).Kind() == Pawn && m.From.Col != m.To.Col && p.isEmpty(m.To)
}

func (m Move) IsPromotion(p *Position) bool {
	pc := p.PieceAt(m.From)
	return pc.Kind() == Pawn && m.To.Row == PromotionRow(pc.Side())
}

func (m Move) IsCapture(p *Position) bool {
	return m.Captured(p) != NoPiece
}

// Captured is the piece removed by m, NoPiece for quiet moves.
func (m Move) Captured(p *Position) Piece {
	if m.IsEnPassant(p) {
		return p.PieceAt(Sq(m.From.Row, m.To.Col))
	}
	return p.PieceAt(m.To)
}

// Apply returns the position after m. It checks the move's shape only; legality
// belongs to the Analyzer.
func Apply(p *Position, m Move) (*Position, error) {
	if !m.From.OnBoard() || !m.To.OnBoard() {
		return nil, fmt.Errorf("%w: move %v -> %v", ErrOutOfRange, m.From, m.To)
	}
	pc := p.PieceAt(m.From)
	if pc == NoPiece {
		return nil, fmt.Errorf("%w: no piece on %v at position %d", ErrIllegalState, m.From, p.index)
	}
	if m.From == m.To {
		return nil, fmt.Errorf("%w: null move on %v", ErrInvalidMove, m.From)
	}
	target := p.PieceAt(m.To)
	if target != NoPiece {
		if target.Side() == pc.Side() {
			return nil, fmt.Errorf("%w: %v captures own piece on %v", ErrIllegalState, pc, m.To)
		}
		if target.Kind() == King {
			return nil, fmt.Errorf("%w: king capture on %v", ErrIllegalState, m.To)
		}
	}

	b := derive(p)
	switch {
	case m.IsCastling(p):
		rookCol, rookTo := 0, m.To.Col+1
		if m.To.Col > m.From.Col {
			rookCol, rookTo = BoardSize-1, m.To.Col-1
		}
		rookFrom := Sq(m.From.Row, rookCol)
		rook := p.PieceAt(rookFrom)
		if !rook.Is(pc.Side(), Rook) {
			return nil, fmt.Errorf("%w: castling without rook on %v", ErrIllegalState, rookFrom)
		}
		b.cut(m.From)
		b.cut(rookFrom)
		b.set(m.To, pc)
		b.set(Sq(m.From.Row, rookTo), rook)
	case m.IsPromotion(p):
		if !m.Promotion.IsPromotionTarget() {
			return nil, fmt.Errorf("%w: promotion to %v on %v", ErrInvalidMove, m.Promotion, m.To)
		}
		b.cut(m.From)
		b.set(m.To, MakePiece(pc.Side(), m.Promotion))
	case m.IsEnPassant(p):
		if m.Promotion != NoKind {
			return nil, fmt.Errorf("%w: promotion on non-promoting move %v", ErrInvalidMove, m)
		}
		b.cut(m.From)
		b.cut(Sq(m.From.Row, m.To.Col))
		b.set(m.To, pc)
	default:
		if m.Promotion != NoKind {
			return nil, fmt.Errorf("%w: promotion on non-promoting move %v", ErrInvalidMove, m)
		}
		b.cut(m.From)
		b.set(m.To, pc)
	}
	return b.build(), nil
}

// HistoryEntry is one persisted move: the ply it was played at, its squares,
// the moving piece and the promotion kind if any.
type HistoryEntry struct {
	Ply       int    `json:"ply"`
	From      Square `json:"from"`
	To        Square `json:"to"`
	Piece     Piece  `json:"piece"`
	Promotion Kind   `json:"promotion,omitempty"`
}

func (e HistoryEntry) Move() Move {
	return Move{From: e.From, To: e.To, Promotion: e.Promotion}
}

// HistoryOf builds the entry for m played at p.
func HistoryOf(p *Position, m Move) HistoryEntry {
	return HistoryEntry{
		Ply:       p.index,
		From:      m.From,
		To:        m.To,
		Piece:     p.PieceAt(m.From),
		Promotion: m.Promotion,
	}
}

// Replay rebuilds the position and rights after all entries, starting from
// the initial arrangement. Entries must be numbered 0, 1, 2, ...
func Replay(entries []HistoryEntry) (*Position, Rights, error) {
	p := NewInitialPosition()
	r := InitialRights()
	for i, e := range entries {
		if e.Ply != i {
			return nil, Rights{}, fmt.Errorf("%w: entry %d has ply %d", ErrHistoryOrder, i, e.Ply)
		}
		if got := p.PieceAt(e.From); got != e.Piece {
			return nil, Rights{}, fmt.Errorf("%w: ply %d expects %v on %v, found %v", ErrIllegalState, i, e.Piece, e.From, got)
		}
		np, err := Apply(p, e.Move())
		if err != nil {
			return nil, Rights{}, fmt.Errorf("replay ply %d: %w", i, err)
		}
		p = np
		r = r.Next(e)
	}
	return p, r, nil
}

// ReplayTo rebuilds the snapshot after the first ply entries.
func ReplayTo(entries []HistoryEntry, ply int) (*Position, Rights, error) {
	if ply < 0 || ply > len(entries) {
		return nil, Rights{}, fmt.Errorf("%w: ply %d outside [0,%d]", ErrHistoryOrder, ply, len(entries))
	}
	return Replay(entries[:ply])
}
