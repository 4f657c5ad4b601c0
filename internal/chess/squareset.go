package chess

import "math/bits"

// SquareSet is a 64-bit set keyed by Square.Index.
type SquareSet uint64

func (s SquareSet) Has(sq Square) bool {
	if !sq.OnBoard() {
		return false
	}
	return s&(1<<uint(sq.Index())) != 0
}

func (s SquareSet) With(sq Square) SquareSet {
	if !sq.OnBoard() {
		return s
	}
	return s | 1<<uint(sq.Index())
}

func (s SquareSet) Without(sq Square) SquareSet {
	if !sq.OnBoard() {
		return s
	}
	return s &^ (1 << uint(sq.Index()))
}

func (s SquareSet) Len() int { return bits.OnesCount64(uint64(s)) }

// Squares lists members in index order.
func (s SquareSet) Squares() []Square {
	out := make([]Square, 0, s.Len())
	for x := uint64(s); x != 0; x &= x - 1 {
		out = append(out, squareOf(bits.TrailingZeros64(x)))
	}
	return out
}

// KindMask selects piece kinds for attack-set generation.
type KindMask uint8

const (
	AllKinds     KindMask = 1<<Pawn | 1<<Knight | 1<<Bishop | 1<<Rook | 1<<Queen | 1<<King
	NonKingKinds          = AllKinds &^ (1 << King)
	NonPawnKinds          = AllKinds &^ (1 << Pawn)
)

func KindsOf(kinds ...Kind) KindMask {
	var m KindMask
	for _, k := range kinds {
		m |= 1 << k
	}
	return m
}

func (m KindMask) Has(k Kind) bool { return m&(1<<k) != 0 }
