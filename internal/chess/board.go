package chess

import (
	"fmt"
	"strings"
)

const (
	BoardSize  = 8
	NumSquares = BoardSize * BoardSize
)

// Position is an immutable board snapshot. Index is the ply count: white moves on
// even indices, black on odd ones.
type Position struct {
	index   int
	cells   [NumSquares]Cell
	kings   [2]Square
	hasKing [2]bool
	hash    uint64
}

// the standard arrangement, row 7 first
const initialBoardString = `rnbqkbnr
pppppppp
........
........
........
........
PPPPPPPP
RNBQKBNR`

func parseInitialBoard() map[Square]Piece {
	pieces := make(map[Square]Piece, 32)
	lines := strings.Split(initialBoardString, "\n")
	if len(lines) != BoardSize {
		panic("initialBoardString must have 8 rows")
	}
	for i, line := range lines {
		row := BoardSize - 1 - i
		if len(line) != BoardSize {
			panic("initialBoardString must have 8 columns")
		}
		for col, ch := range line {
			if ch == '.' {
				continue
			}
			pc, ok := pieceFromLetter(ch)
			if !ok {
				panic("unknown piece letter: " + string(ch))
			}
			pieces[Sq(row, col)] = pc
		}
	}
	return pieces
}

func NewInitialPosition() *Position {
	p, err := NewPosition(0, parseInitialBoard())
	if err != nil {
		panic(err)
	}
	return p
}

// NewPosition builds a snapshot at the given ply from a square->piece map.
// Exactly one king per side is required.
func NewPosition(index int, pieces map[Square]Piece) (*Position, error) {
	if index < 0 {
		return nil, fmt.Errorf("%w: negative position index %d", ErrIllegalState, index)
	}
	p := &Position{index: index}
	for i := range p.cells {
		p.cells[i] = Cell{Square: squareOf(i)}
	}
	var kings [2]int
	for sq, pc := range pieces {
		if !sq.OnBoard() {
			return nil, fmt.Errorf("%w: %v", ErrOutOfRange, sq)
		}
		if pc.IsEmpty() {
			continue
		}
		if pc.Kind() < Pawn || pc.Kind() > King {
			return nil, fmt.Errorf("%w: piece value %d on %v", ErrIllegalState, int8(pc), sq)
		}
		p.cells[sq.Index()] = p.cells[sq.Index()].WithPiece(pc)
		if pc.Kind() == King {
			kings[pc.Side()]++
			p.kings[pc.Side()] = sq
			p.hasKing[pc.Side()] = true
		}
	}
	for _, side := range [...]Side{White, Black} {
		if kings[side] != 1 {
			return nil, &KingNotFoundError{Side: side, Index: index}
		}
	}
	p.hash = p.CalculateHash()
	return p, nil
}

func (p *Position) Index() int { return p.index }

func (p *Position) Hash() uint64 { return p.hash }

// SideToMove follows from the ply parity.
func (p *Position) SideToMove() Side {
	if p.index%2 == 0 {
		return White
	}
	return Black
}

func (p *Position) Cell(sq Square) Cell {
	if !sq.OnBoard() {
		return Cell{Square: sq}
	}
	return p.cells[sq.Index()]
}

func (p *Position) PieceAt(sq Square) Piece {
	if !sq.OnBoard() {
		return NoPiece
	}
	return p.cells[sq.Index()].Piece
}

func (p *Position) isEmpty(sq Square) bool { return p.PieceAt(sq) == NoPiece }

// Cells returns a copy of all 64 cells in index order.
func (p *Position) Cells() []Cell {
	out := make([]Cell, NumSquares)
	copy(out, p.cells[:])
	return out
}

func (p *Position) KingSquare(side Side) (Square, error) {
	if side != White && side != Black {
		return Square{}, &KingNotFoundError{Side: side, Index: p.index}
	}
	if !p.hasKing[side] {
		return Square{}, &KingNotFoundError{Side: side, Index: p.index}
	}
	return p.kings[side], nil
}

// Equal compares cell contents only.
func (p *Position) Equal(o *Position) bool {
	if p == nil || o == nil {
		return p == o
	}
	return p.cells == o.cells
}

// PiecesOf lists the squares holding pieces of side, in index order.
func (p *Position) PiecesOf(side Side) []Square {
	var out []Square
	for i := range p.cells {
		pc := p.cells[i].Piece
		if pc != NoPiece && pc.Side() == side {
			out = append(out, p.cells[i].Square)
		}
	}
	return out
}

// Material sums piece values for side, kings excluded.
func (p *Position) Material(side Side) int {
	total := 0
	for i := range p.cells {
		pc := p.cells[i].Piece
		if pc != NoPiece && pc.Side() == side && pc.Kind() != King {
			total += pc.Value()
		}
	}
	return total
}

// String draws the board with row 7 on top.
func (p *Position) String() string {
	var sb strings.Builder
	for row := BoardSize - 1; row >= 0; row-- {
		sb.WriteByte(byte('1' + row))
		sb.WriteByte(' ')
		for col := 0; col < BoardSize; col++ {
			sb.WriteRune(p.PieceAt(Sq(row, col)).Letter())
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  abcdefgh")
	return sb.String()
}

// boardBuilder derives a new snapshot from a base one. Only the builder writes cells.
type boardBuilder struct {
	pos Position
}

func derive(base *Position) *boardBuilder {
	initZobrist()
	return &boardBuilder{pos: *base}
}

func (b *boardBuilder) set(sq Square, pc Piece) {
	idx := sq.Index()
	old := b.pos.cells[idx].Piece
	if old == pc {
		return
	}
	b.pos.hash ^= pieceHashKey(old, idx) ^ pieceHashKey(pc, idx)
	b.pos.cells[idx] = b.pos.cells[idx].WithPiece(pc)
	if old.Kind() == King && b.pos.kings[old.Side()] == sq {
		b.pos.hasKing[old.Side()] = false
	}
	if pc.Kind() == King {
		b.pos.kings[pc.Side()] = sq
		b.pos.hasKing[pc.Side()] = true
	}
}

func (b *boardBuilder) cut(sq Square) { b.set(sq, NoPiece) }

func (b *boardBuilder) build() *Position {
	b.pos.index++
	b.pos.hash ^= zobristSide
	np := b.pos
	return &np
}
