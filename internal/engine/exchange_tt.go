package engine

import (
	"math/bits"
	"sync/atomic"

	"chessbot/internal/chess"
)

// exchangeVerdict is the part of an ExchangeResult the raters reuse.
type exchangeVerdict struct {
	value   int
	param   Param
	outcome Outcome
}

const verdictValid = uint64(1) << 63

func (v exchangeVerdict) pack() uint64 {
	return verdictValid |
		uint64(v.outcome&0xFF)<<40 |
		uint64(v.param&0xFF)<<32 |
		uint64(uint32(int32(v.value)))
}

func unpackVerdict(data uint64) exchangeVerdict {
	return exchangeVerdict{
		value:   int(int32(uint32(data))),
		param:   Param((data >> 32) & 0xFF),
		outcome: Outcome((data >> 40) & 0xFF),
	}
}

type exchangeSlot struct {
	check atomic.Uint64 // key ^ data
	data  atomic.Uint64
}

// exchangeTable is a lock-free table of exchange verdicts. A slot is trusted
// only when check^data reproduces the key, so torn writes read as misses.
type exchangeTable struct {
	slots []exchangeSlot
	mask  uint64
}

func newExchangeTable(size int) *exchangeTable {
	if size <= 0 {
		return nil
	}
	n := 1 << bits.Len(uint(size-1))
	return &exchangeTable{slots: make([]exchangeSlot, n), mask: uint64(n - 1)}
}

func (t *exchangeTable) load(key uint64) (exchangeVerdict, bool) {
	if t == nil {
		return exchangeVerdict{}, false
	}
	s := &t.slots[key&t.mask]
	data := s.data.Load()
	if data&verdictValid == 0 || s.check.Load()^data != key {
		return exchangeVerdict{}, false
	}
	return unpackVerdict(data), true
}

// store always overwrites.
func (t *exchangeTable) store(key uint64, v exchangeVerdict) {
	if t == nil {
		return
	}
	s := &t.slots[key&t.mask]
	data := v.pack()
	s.data.Store(data)
	s.check.Store(key ^ data)
}

const exchangeSalt uint64 = 0xc2b2ae3d27d4eb4f

// verdict resolves the exchange started by m, through the engine's table.
func (e *Engine) verdict(p *chess.Position, r chess.Rights, m chess.Move) (exchangeVerdict, error) {
	key := positionKey(p, r) ^ moveKey(m) ^ exchangeSalt
	if v, ok := e.exchanges.load(key); ok {
		return v, nil
	}
	res, err := exchange(p, r, m, e.stats)
	if err != nil {
		return exchangeVerdict{}, err
	}
	v := exchangeVerdict{value: res.Value, param: res.Param, outcome: res.Outcome}
	e.exchanges.store(key, v)
	return v, nil
}
