package chess

// NoColumn marks the absence of a pawn double step on the previous move.
const NoColumn = -1

// SideRights tracks what one side may still do: castle long (towards column 0),
// castle short (towards column 7), and capture en passant against the pawn that
// just advanced two rows in DoubleStepCol.
type SideRights struct {
	Long          bool `json:"long"`
	Short         bool `json:"short"`
	DoubleStepCol int  `json:"double_step_col"`
}

// Rights is indexed by Side.
type Rights [2]SideRights

func InitialRights() Rights {
	return Rights{
		White: {Long: true, Short: true, DoubleStepCol: NoColumn},
		Black: {Long: true, Short: true, DoubleStepCol: NoColumn},
	}
}

// NoRights has every castling flag cleared and no double step pending.
func NoRights() Rights {
	return Rights{
		White: {DoubleStepCol: NoColumn},
		Black: {DoubleStepCol: NoColumn},
	}
}

func (r Rights) Of(side Side) SideRights {
	if side != White && side != Black {
		return SideRights{DoubleStepCol: NoColumn}
	}
	return r[side]
}

// Next returns the rights after entry was played.
func (r Rights) Next(e HistoryEntry) Rights {
	side := e.Piece.Side()
	if side != White && side != Black {
		return r
	}
	opp := side.Opposite()
	next := r
	next[White].DoubleStepCol = NoColumn
	next[Black].DoubleStepCol = NoColumn

	switch e.Piece.Kind() {
	case King:
		next[side].Long = false
		next[side].Short = false
	case Rook:
		clearRookRight(&next[side], side, e.From)
	case Pawn:
		if e.From.Col == e.To.Col && abs(e.To.Row-e.From.Row) == 2 {
			next[side].DoubleStepCol = e.From.Col
		}
	}
	// a piece landing on a rook's home square means that rook is gone or moved
	clearRookRight(&next[opp], opp, e.To)
	return next
}

func clearRookRight(sr *SideRights, side Side, sq Square) {
	if sq.Row != BackRow(side) {
		return
	}
	switch sq.Col {
	case 0:
		sr.Long = false
	case BoardSize - 1:
		sr.Short = false
	}
}

// ReplayRights folds Next over entries from the initial rights.
func ReplayRights(entries []HistoryEntry) Rights {
	r := InitialRights()
	for _, e := range entries {
		r = r.Next(e)
	}
	return r
}

// CanCastle reports the flag only; board conditions are checked by the legality engine.
func (r Rights) CanCastle(side Side, long bool) bool {
	sr := r.Of(side)
	if long {
		return sr.Long
	}
	return sr.Short
}

// EnPassantTarget is the square a side may capture onto en passant, if any.
func (r Rights) EnPassantTarget(side Side) (Square, bool) {
	opp := side.Opposite()
	col := r.Of(opp).DoubleStepCol
	if col == NoColumn {
		return Square{}, false
	}
	// the passed-over square of the opponent's pawn
	return Sq(PawnStartRow(opp)+pawnDir(opp), col), true
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
