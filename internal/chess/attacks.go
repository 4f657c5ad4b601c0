package chess

var (
	knightJumps = [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	kingSteps   = [8][2]int{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}
	rookDirs    = [4][2]int{{1, 0}, {0, 1}, {-1, 0}, {0, -1}}
	bishopDirs  = [4][2]int{{1, 1}, {-1, 1}, {-1, -1}, {1, -1}}
)

// noSquare never matches a board square.
var noSquare = Square{Row: -1, Col: -1}

// PseudoMoves generates moves for side without testing whether they leave the
// own king attacked. Castling is included when its flag, rook and empty path
// are in place.
func PseudoMoves(p *Position, r Rights, side Side) []Move {
	var moves []Move
	for i := range p.cells {
		pc := p.cells[i].Piece
		if pc == NoPiece || pc.Side() != side {
			continue
		}
		genPieceMoves(p, r, squareOf(i), pc, &moves)
	}
	return moves
}

func genPieceMoves(p *Position, r Rights, from Square, pc Piece, moves *[]Move) {
	switch pc.Kind() {
	case Pawn:
		genPawnMoves(p, r, from, pc.Side(), moves)
	case Knight:
		genStepMoves(p, from, pc.Side(), knightJumps[:], moves)
	case Bishop:
		genSliderMoves(p, from, pc.Side(), bishopDirs[:], moves)
	case Rook:
		genSliderMoves(p, from, pc.Side(), rookDirs[:], moves)
	case Queen:
		genSliderMoves(p, from, pc.Side(), bishopDirs[:], moves)
		genSliderMoves(p, from, pc.Side(), rookDirs[:], moves)
	case King:
		genStepMoves(p, from, pc.Side(), kingSteps[:], moves)
		genCastlingMoves(p, r, from, pc.Side(), moves)
	}
}

func canLand(p *Position, to Square, side Side) bool {
	if !to.OnBoard() {
		return false
	}
	t := p.PieceAt(to)
	return t == NoPiece || (t.Side() != side && t.Kind() != King)
}

func genStepMoves(p *Position, from Square, side Side, steps [][2]int, moves *[]Move) {
	for _, d := range steps {
		to := from.Offset(d[0], d[1])
		if canLand(p, to, side) {
			*moves = append(*moves, Move{From: from, To: to})
		}
	}
}

func genSliderMoves(p *Position, from Square, side Side, dirs [][2]int, moves *[]Move) {
	for _, d := range dirs {
		for to := from.Offset(d[0], d[1]); to.OnBoard(); to = to.Offset(d[0], d[1]) {
			t := p.PieceAt(to)
			if t == NoPiece {
				*moves = append(*moves, Move{From: from, To: to})
				continue
			}
			if t.Side() != side && t.Kind() != King {
				*moves = append(*moves, Move{From: from, To: to})
			}
			break
		}
	}
}

func addPawnMove(from, to Square, side Side, moves *[]Move) {
	if to.Row == PromotionRow(side) {
		for _, k := range PromotionKinds {
			*moves = append(*moves, Move{From: from, To: to, Promotion: k})
		}
		return
	}
	*moves = append(*moves, Move{From: from, To: to})
}

func genPawnMoves(p *Position, r Rights, from Square, side Side, moves *[]Move) {
	dir := pawnDir(side)
	one := from.Offset(dir, 0)
	if one.OnBoard() && p.isEmpty(one) {
		addPawnMove(from, one, side, moves)
		two := from.Offset(2*dir, 0)
		if from.Row == PawnStartRow(side) && p.isEmpty(two) {
			*moves = append(*moves, Move{From: from, To: two})
		}
	}
	ep, hasEP := r.EnPassantTarget(side)
	for _, dc := range [...]int{-1, 1} {
		to := from.Offset(dir, dc)
		if !to.OnBoard() {
			continue
		}
		t := p.PieceAt(to)
		if t != NoPiece {
			if t.Side() != side && t.Kind() != King {
				addPawnMove(from, to, side, moves)
			}
			continue
		}
		if hasEP && to == ep && p.PieceAt(Sq(from.Row, to.Col)).Is(side.Opposite(), Pawn) {
			*moves = append(*moves, Move{From: from, To: to})
		}
	}
}

// genCastlingMoves checks the structural conditions only: flag, king and rook
// on their home squares, empty squares between them.
func genCastlingMoves(p *Position, r Rights, from Square, side Side, moves *[]Move) {
	row := BackRow(side)
	if from != Sq(row, 4) {
		return
	}
	for _, long := range [...]bool{true, false} {
		if !r.CanCastle(side, long) {
			continue
		}
		rookCol, step := BoardSize-1, 1
		if long {
			rookCol, step = 0, -1
		}
		if !p.PieceAt(Sq(row, rookCol)).Is(side, Rook) {
			continue
		}
		clear := true
		for c := from.Col + step; c != rookCol; c += step {
			if !p.isEmpty(Sq(row, c)) {
				clear = false
				break
			}
		}
		if clear {
			*moves = append(*moves, Move{From: from, To: Sq(row, from.Col+2*step)})
		}
	}
}

// attacksFrom lists the squares a piece on from attacks, own pieces included.
// ignore is treated as empty for slider rays.
func attacksFrom(p *Position, from Square, pc Piece, ignore Square) SquareSet {
	var set SquareSet
	switch pc.Kind() {
	case Pawn:
		dir := pawnDir(pc.Side())
		set = set.With(from.Offset(dir, -1)).With(from.Offset(dir, 1))
	case Knight:
		set = stepAttacks(from, knightJumps[:])
	case Bishop:
		set = rayAttacks(p, from, bishopDirs[:], ignore)
	case Rook:
		set = rayAttacks(p, from, rookDirs[:], ignore)
	case Queen:
		set = rayAttacks(p, from, bishopDirs[:], ignore) | rayAttacks(p, from, rookDirs[:], ignore)
	case King:
		set = stepAttacks(from, kingSteps[:])
	}
	return set
}

func stepAttacks(from Square, steps [][2]int) SquareSet {
	var set SquareSet
	for _, d := range steps {
		set = set.With(from.Offset(d[0], d[1]))
	}
	return set
}

func rayAttacks(p *Position, from Square, dirs [][2]int, ignore Square) SquareSet {
	var set SquareSet
	for _, d := range dirs {
		for to := from.Offset(d[0], d[1]); to.OnBoard(); to = to.Offset(d[0], d[1]) {
			set = set.With(to)
			if to != ignore && !p.isEmpty(to) {
				break
			}
		}
	}
	return set
}

// AttackSet returns every square attacked by side's pieces of the given kinds.
// Squares holding side's own pieces are included, so the set doubles as the
// defended set. Pawns contribute their diagonals only.
func AttackSet(p *Position, side Side, kinds KindMask) SquareSet {
	return attackSetIgnoring(p, side, kinds, noSquare)
}

func attackSetIgnoring(p *Position, side Side, kinds KindMask, ignore Square) SquareSet {
	var set SquareSet
	for i := range p.cells {
		pc := p.cells[i].Piece
		if pc == NoPiece || pc.Side() != side || !kinds.Has(pc.Kind()) {
			continue
		}
		set |= attacksFrom(p, squareOf(i), pc, ignore)
	}
	return set
}

// AttackersOf lists the squares of side's pieces that attack target.
func AttackersOf(p *Position, side Side, target Square) []Square {
	var out []Square
	for i := range p.cells {
		pc := p.cells[i].Piece
		if pc == NoPiece || pc.Side() != side {
			continue
		}
		if attacksFrom(p, squareOf(i), pc, noSquare).Has(target) {
			out = append(out, squareOf(i))
		}
	}
	return out
}
