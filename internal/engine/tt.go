package engine

import (
	"sync"

	"chessbot/internal/chess"
)

const defaultCacheSize = 1 << 16

// ratingCache keeps rated moves per (position, rights, move, strategy).
type ratingCache struct {
	mu  sync.RWMutex
	cap int
	m   map[uint64]RatedMove
}

func newRatingCache(capacity int) *ratingCache {
	if capacity <= 0 {
		return nil
	}
	return &ratingCache{cap: capacity, m: make(map[uint64]RatedMove, min(capacity, 1<<12))}
}

func (c *ratingCache) get(key uint64) (RatedMove, bool) {
	if c == nil {
		return RatedMove{}, false
	}
	c.mu.RLock()
	v, ok := c.m[key]
	c.mu.RUnlock()
	return v, ok
}

// store drops the whole table once it is full.
func (c *ratingCache) store(key uint64, rm RatedMove) {
	if c == nil {
		return
	}
	c.mu.Lock()
	if len(c.m) >= c.cap {
		c.m = make(map[uint64]RatedMove, min(c.cap, 1<<12))
	}
	c.m[key] = rm
	c.mu.Unlock()
}

func (c *ratingCache) len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}

const (
	strategySalt uint64 = 0x9e3779b97f4a7c15
	moveSalt     uint64 = 0x9ddfea08eb382d69
)

func positionKey(p *chess.Position, r chess.Rights) uint64 {
	return chess.RightsHash(p.Hash(), r)
}

func moveKey(m chess.Move) uint64 {
	bits := uint64(m.From.Index())<<16 | uint64(m.To.Index())<<8 | uint64(m.Promotion)
	return (bits + 1) * moveSalt
}

func ratingKey(p *chess.Position, r chess.Rights, m chess.Move, s Strategy) uint64 {
	return positionKey(p, r) ^ moveKey(m) ^ (uint64(s)+1)*strategySalt
}
