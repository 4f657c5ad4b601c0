package chess

import (
	"fmt"
	"strings"
)

type Side int8

const (
	NoSide Side = -1
	White  Side = 0
	Black  Side = 1
)

func (s Side) Opposite() Side {
	switch s {
	case White:
		return Black
	case Black:
		return White
	}
	return NoSide
}

func (s Side) String() string {
	switch s {
	case White:
		return "white"
	case Black:
		return "black"
	}
	return "none"
}

// ParseSide accepts "white"/"black" and the FEN letters "w"/"b".
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "white", "w":
		return White, nil
	case "black", "b":
		return Black, nil
	}
	return NoSide, fmt.Errorf("unknown side %q", s)
}

// pawn direction: white goes up the rows, black goes down
func pawnDir(side Side) int {
	if side == White {
		return +1
	}
	return -1
}

// BackRow is the row a side's king and rooks start on.
func BackRow(side Side) int {
	if side == White {
		return 0
	}
	return BoardSize - 1
}

// PawnStartRow is the row a side's pawns may double-step from.
func PawnStartRow(side Side) int {
	if side == White {
		return 1
	}
	return BoardSize - 2
}

// PromotionRow is the far row for a side's pawns.
func PromotionRow(side Side) int {
	return BackRow(side.Opposite())
}

type Kind int8

const (
	NoKind Kind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

const (
	CheckmateValue = 100000
	KingValue      = CheckmateValue
)

var kindValues = [...]int{
	NoKind: 0,
	Pawn:   1,
	Knight: 3,
	Bishop: 3,
	Rook:   5,
	Queen:  9,
	King:   KingValue,
}

var kindNames = [...]string{
	NoKind: "none",
	Pawn:   "pawn",
	Knight: "knight",
	Bishop: "bishop",
	Rook:   "rook",
	Queen:  "queen",
	King:   "king",
}

var kindLetters = [...]rune{
	NoKind: '.',
	Pawn:   'p',
	Knight: 'n',
	Bishop: 'b',
	Rook:   'r',
	Queen:  'q',
	King:   'k',
}

// PromotionKinds in the order they are generated.
var PromotionKinds = [...]Kind{Queen, Rook, Bishop, Knight}

func (k Kind) Value() int {
	if k < NoKind || k > King {
		return 0
	}
	return kindValues[k]
}

func (k Kind) String() string {
	if k < NoKind || k > King {
		return "invalid"
	}
	return kindNames[k]
}

// Letter is the lower-case FEN letter of the kind.
func (k Kind) Letter() rune {
	if k < NoKind || k > King {
		return '?'
	}
	return kindLetters[k]
}

// ParseKind accepts a FEN letter in either case or a full name.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k := Pawn; k <= King; k++ {
		if s == kindNames[k] || s == string(kindLetters[k]) {
			return k, nil
		}
	}
	return NoKind, fmt.Errorf("unknown piece kind %q", s)
}

func (k Kind) IsSlider() bool {
	return k == Bishop || k == Rook || k == Queen
}

func (k Kind) IsPromotionTarget() bool {
	return k == Knight || k == Bishop || k == Rook || k == Queen
}

type Piece int8 // 0 empty; >0 white; <0 black; abs = Kind

const NoPiece Piece = 0

func MakePiece(side Side, k Kind) Piece {
	if k == NoKind || side == NoSide {
		return NoPiece
	}
	if side == White {
		return Piece(k)
	}
	return -Piece(k)
}

func (p Piece) Kind() Kind {
	if p < 0 {
		return Kind(-p)
	}
	return Kind(p)
}

func (p Piece) Side() Side {
	if p == 0 {
		return NoSide
	}
	if p > 0 {
		return White
	}
	return Black
}

func (p Piece) IsEmpty() bool { return p == NoPiece }

func (p Piece) Value() int { return p.Kind().Value() }

// Is reports whether p belongs to side and has kind k.
func (p Piece) Is(side Side, k Kind) bool {
	return p != NoPiece && p.Side() == side && p.Kind() == k
}

// Letter is the FEN letter: upper case for white, lower case for black.
func (p Piece) Letter() rune {
	if p == NoPiece {
		return '.'
	}
	r := p.Kind().Letter()
	if p.Side() == White {
		return r - 'a' + 'A'
	}
	return r
}

func (p Piece) String() string {
	if p == NoPiece {
		return "empty"
	}
	return p.Side().String() + " " + p.Kind().String()
}

func pieceFromLetter(r rune) (Piece, bool) {
	side := Black
	if r >= 'A' && r <= 'Z' {
		side = White
		r = r - 'A' + 'a'
	}
	for k := Pawn; k <= King; k++ {
		if kindLetters[k] == r {
			return MakePiece(side, k), true
		}
	}
	return NoPiece, false
}

// Square is a (row, column) pair. Row 0 is white's back rank, column 0 is file a.
type Square struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func Sq(row, col int) Square { return Square{Row: row, Col: col} }

func squareOf(idx int) Square { return Square{Row: idx / BoardSize, Col: idx % BoardSize} }

func (s Square) Index() int { return s.Row*BoardSize + s.Col }

func (s Square) OnBoard() bool {
	return s.Row >= 0 && s.Row < BoardSize && s.Col >= 0 && s.Col < BoardSize
}

func (s Square) Offset(dr, dc int) Square { return Square{Row: s.Row + dr, Col: s.Col + dc} }

func (s Square) String() string {
	if !s.OnBoard() {
		return fmt.Sprintf("(%d,%d)", s.Row, s.Col)
	}
	return string([]byte{byte('a' + s.Col), byte('1' + s.Row)})
}

// ParseSquare parses algebraic notation such as "e4".
func ParseSquare(s string) (Square, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return Square{}, fmt.Errorf("%w: square %q", ErrOutOfRange, s)
	}
	return Square{Row: int(s[1] - '1'), Col: int(s[0] - 'a')}, nil
}

// Cell is an immutable (square, piece) pair.
type Cell struct {
	Square Square
	Piece  Piece
}

// WithPiece returns a copy of the cell holding p.
func (c Cell) WithPiece(p Piece) Cell {
	return Cell{Square: c.Square, Piece: p}
}

func (c Cell) IsEmpty() bool { return c.Piece == NoPiece }

type Move struct {
	From      Square `json:"from"`
	To        Square `json:"to"`
	Promotion Kind   `json:"promotion,omitempty"`
}

// String renders long algebraic notation, e.g. e2e4 or e7e8q.
func (m Move) String() string {
	s := m.From.String() + m.To.String()
	if m.Promotion != NoKind {
		s += string(m.Promotion.Letter())
	}
	return s
}

// ParseMove parses long algebraic notation.
func ParseMove(s string) (Move, error) {
	s = strings.TrimSpace(s)
	if len(s) != 4 && len(s) != 5 {
		return Move{}, fmt.Errorf("%w: move %q", ErrInvalidMove, s)
	}
	from, err := ParseSquare(s[:2])
	if err != nil {
		return Move{}, err
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return Move{}, err
	}
	m := Move{From: from, To: to}
	if len(s) == 5 {
		k, err := ParseKind(s[4:])
		if err != nil || !k.IsPromotionTarget() {
			return Move{}, fmt.Errorf("%w: promotion %q", ErrInvalidMove, s[4:])
		}
		m.Promotion = k
	}
	return m, nil
}
