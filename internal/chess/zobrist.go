package chess

import "sync"

const zobristKinds = int(King) + 1 // Kind range [1..6], 0 unused

var (
	zobristOnce sync.Once

	zobristPieces [2][zobristKinds][NumSquares]uint64
	zobristSide   uint64
)

func initZobrist() {
	zobristOnce.Do(func() {
		seed := uint64(0x9E3779B97F4A7C15)
		next := func() uint64 {
			seed += 0x9E3779B97F4A7C15
			z := seed
			z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
			z = (z ^ (z >> 27)) * 0x94D049BB133111EB
			return z ^ (z >> 31)
		}
		for side := range zobristPieces {
			for k := int(Pawn); k < zobristKinds; k++ {
				for sq := 0; sq < NumSquares; sq++ {
					zobristPieces[side][k][sq] = next()
				}
			}
		}
		zobristSide = next()
	})
}

func pieceHashKey(pc Piece, sq int) uint64 {
	if pc == NoPiece || sq < 0 || sq >= NumSquares {
		return 0
	}
	side := pc.Side()
	if side != White && side != Black {
		return 0
	}
	k := int(pc.Kind())
	if k <= 0 || k >= zobristKinds {
		return 0
	}
	return zobristPieces[side][k][sq]
}

// CalculateHash computes the full Zobrist hash of the position. Castling and
// en-passant rights are not part of it.
func (p *Position) CalculateHash() uint64 {
	initZobrist()

	var h uint64
	for sq := 0; sq < NumSquares; sq++ {
		h ^= pieceHashKey(p.cells[sq].Piece, sq)
	}
	if p.SideToMove() == Black {
		h ^= zobristSide
	}
	return h
}

// RightsHash folds rights into a position hash so cache keys separate
// positions that differ only in castling or en-passant state.
func RightsHash(h uint64, r Rights) uint64 {
	for side := range r {
		sr := r[side]
		if sr.Long {
			h ^= 0x6A09E667F3BCC908 >> uint(side)
		}
		if sr.Short {
			h ^= 0xBB67AE8584CAA73B >> uint(side)
		}
		if sr.DoubleStepCol != NoColumn {
			h ^= uint64(sr.DoubleStepCol+1) * (0x3C6EF372FE94F82B + uint64(side)*0x1F83D9ABFB41BD6B)
		}
	}
	return h
}
