package chess

import (
	"fmt"
	"sync/atomic"
)

// Counters collects move-generation statistics. A nil *Counters is valid and
// counts nothing, so callers that do not care pass nil.
type Counters struct {
	PositionsBuilt    atomic.Int64
	PseudoGenerations atomic.Int64
	AttackSets        atomic.Int64
	LegalityProbes    atomic.Int64
	LegalGenerations  atomic.Int64
}

func (c *Counters) addBuilt() {
	if c != nil {
		c.PositionsBuilt.Add(1)
	}
}

func (c *Counters) addPseudo() {
	if c != nil {
		c.PseudoGenerations.Add(1)
	}
}

func (c *Counters) addAttackSet() {
	if c != nil {
		c.AttackSets.Add(1)
	}
}

func (c *Counters) addProbe() {
	if c != nil {
		c.LegalityProbes.Add(1)
	}
}

func (c *Counters) addLegal() {
	if c != nil {
		c.LegalGenerations.Add(1)
	}
}

func (c *Counters) Reset() {
	if c == nil {
		return
	}
	c.PositionsBuilt.Store(0)
	c.PseudoGenerations.Store(0)
	c.AttackSets.Store(0)
	c.LegalityProbes.Store(0)
	c.LegalGenerations.Store(0)
}

func (c *Counters) String() string {
	if c == nil {
		return "counters: off"
	}
	return fmt.Sprintf("built=%d pseudo=%d attacks=%d probes=%d legal=%d",
		c.PositionsBuilt.Load(), c.PseudoGenerations.Load(), c.AttackSets.Load(), c.LegalityProbes.Load(), c.LegalGenerations.Load())
}
