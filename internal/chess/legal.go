package chess

import "fmt"

// Status of the side to move.
type Status int

const (
	Ongoing Status = iota
	Checkmate
	Stalemate
)

func (s Status) String() string {
	switch s {
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	}
	return "ongoing"
}

// Analyzer answers legality questions about one position under given rights.
type Analyzer struct {
	pos    *Position
	rights Rights
	stats  *Counters
}

func NewAnalyzer(p *Position, r Rights) *Analyzer {
	return &Analyzer{pos: p, rights: r}
}

// WithCounters returns a copy of the analyzer that records into c.
func (a *Analyzer) WithCounters(c *Counters) *Analyzer {
	cp := *a
	cp.stats = c
	return &cp
}

func (a *Analyzer) Position() *Position { return a.pos }

func (a *Analyzer) Rights() Rights { return a.rights }

// pin records a piece pinned to its king along direction (dr, dc).
type pin struct {
	dr, dc int
}

// pinsOn scans the 8 rays out of the king. A ray pins its first own piece when
// the next piece on it is an enemy slider moving along that ray.
func pinsOn(p *Position, king Square, side Side) map[Square]pin {
	var pins map[Square]pin
	scan := func(dirs [][2]int, slider Kind) {
		for _, d := range dirs {
			var candidate Square
			found := false
			for sq := king.Offset(d[0], d[1]); sq.OnBoard(); sq = sq.Offset(d[0], d[1]) {
				pc := p.PieceAt(sq)
				if pc == NoPiece {
					continue
				}
				if !found {
					if pc.Side() != side {
						break
					}
					candidate, found = sq, true
					continue
				}
				if pc.Side() != side && (pc.Kind() == slider || pc.Kind() == Queen) {
					if pins == nil {
						pins = make(map[Square]pin, 2)
					}
					pins[candidate] = pin{dr: d[0], dc: d[1]}
				}
				break
			}
		}
	}
	scan(rookDirs[:], Rook)
	scan(bishopDirs[:], Bishop)
	return pins
}

// onLine reports whether to lies on the line through king with direction pn.
func (pn pin) onLine(king, to Square) bool {
	dr, dc := to.Row-king.Row, to.Col-king.Col
	return dr*pn.dc == dc*pn.dr
}

// between lists the squares strictly between a and b if they are aligned.
func between(a, b Square) SquareSet {
	dr, dc := sign(b.Row-a.Row), sign(b.Col-a.Col)
	if dr == 0 && dc == 0 {
		return 0
	}
	if dr != 0 && dc != 0 && abs(b.Row-a.Row) != abs(b.Col-a.Col) {
		return 0
	}
	var set SquareSet
	for sq := a.Offset(dr, dc); sq != b; sq = sq.Offset(dr, dc) {
		set = set.With(sq)
	}
	return set
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

// InCheck reports whether side's king is attacked.
func (a *Analyzer) InCheck(side Side) (bool, error) {
	king, err := a.pos.KingSquare(side)
	if err != nil {
		return false, err
	}
	a.stats.addAttackSet()
	return AttackSet(a.pos, side.Opposite(), AllKinds).Has(king), nil
}

// LegalMoves returns side's legal moves. Promotions appear once per kind.
func (a *Analyzer) LegalMoves(side Side) ([]Move, error) {
	p := a.pos
	king, err := p.KingSquare(side)
	if err != nil {
		return nil, err
	}
	a.stats.addLegal()
	opp := side.Opposite()

	// the king cannot hide behind itself from a slider, so rays pass through it
	a.stats.addAttackSet()
	danger := attackSetIgnoring(p, opp, AllKinds, king)
	checkers := AttackersOf(p, opp, king)
	pins := pinsOn(p, king, side)

	var block SquareSet
	if len(checkers) == 1 {
		block = block.With(checkers[0])
		if p.PieceAt(checkers[0]).Kind().IsSlider() {
			block |= between(king, checkers[0])
		}
	}

	a.stats.addPseudo()
	pseudo := PseudoMoves(p, a.rights, side)
	out := make([]Move, 0, len(pseudo))
	for _, m := range pseudo {
		if m.From == king {
			if m.IsCastling(p) {
				if len(checkers) > 0 {
					continue
				}
				mid := Sq(m.From.Row, (m.From.Col+m.To.Col)/2)
				if danger.Has(mid) || danger.Has(m.To) {
					continue
				}
			} else if danger.Has(m.To) {
				continue
			}
			out = append(out, m)
			continue
		}
		if len(checkers) > 1 {
			continue
		}
		if m.IsEnPassant(p) {
			ok, err := a.probe(m, side)
			if err != nil {
				return nil, err
			}
			if ok {
				out = append(out, m)
			}
			continue
		}
		if pn, pinned := pins[m.From]; pinned && !pn.onLine(king, m.To) {
			continue
		}
		if len(checkers) == 1 && !block.Has(m.To) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// probe applies m and tests whether side's king is safe afterwards.
func (a *Analyzer) probe(m Move, side Side) (bool, error) {
	a.stats.addProbe()
	np, err := Apply(a.pos, m)
	if err != nil {
		return false, err
	}
	a.stats.addBuilt()
	king, err := np.KingSquare(side)
	if err != nil {
		return false, err
	}
	return !AttackSet(np, side.Opposite(), AllKinds).Has(king), nil
}

// LegalMovesFrom returns the legal destinations of side's piece on from.
func (a *Analyzer) LegalMovesFrom(side Side, from Square) ([]Square, error) {
	if !from.OnBoard() {
		return nil, fmt.Errorf("%w: %v", ErrOutOfRange, from)
	}
	pc := a.pos.PieceAt(from)
	if pc == NoPiece || pc.Side() != side {
		return nil, nil
	}
	moves, err := a.LegalMoves(side)
	if err != nil {
		return nil, err
	}
	var seen SquareSet
	var out []Square
	for _, m := range moves {
		if m.From != from || seen.Has(m.To) {
			continue
		}
		seen = seen.With(m.To)
		out = append(out, m.To)
	}
	return out, nil
}

// IsLegal reports whether m is legal for the side owning the moving piece.
func (a *Analyzer) IsLegal(m Move) (bool, error) {
	if !m.From.OnBoard() || !m.To.OnBoard() {
		return false, nil
	}
	pc := a.pos.PieceAt(m.From)
	if pc == NoPiece {
		return false, nil
	}
	moves, err := a.LegalMoves(pc.Side())
	if err != nil {
		return false, err
	}
	for _, lm := range moves {
		if lm == m {
			return true, nil
		}
	}
	return false, nil
}

// Status derives checkmate or stalemate from an empty legal-move set.
func (a *Analyzer) Status(side Side) (Status, error) {
	moves, err := a.LegalMoves(side)
	if err != nil {
		return Ongoing, err
	}
	if len(moves) > 0 {
		return Ongoing, nil
	}
	check, err := a.InCheck(side)
	if err != nil {
		return Ongoing, err
	}
	if check {
		return Checkmate, nil
	}
	return Stalemate, nil
}
