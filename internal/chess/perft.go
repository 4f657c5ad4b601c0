package chess

// Perft counts leaf nodes of the legal move tree to the given depth.
func Perft(p *Position, r Rights, depth int, c *Counters) (int64, error) {
	if depth <= 0 {
		return 1, nil
	}
	moves, err := NewAnalyzer(p, r).WithCounters(c).LegalMoves(p.SideToMove())
	if err != nil {
		return 0, err
	}
	if depth == 1 {
		return int64(len(moves)), nil
	}
	var nodes int64
	for _, m := range moves {
		np, err := Apply(p, m)
		if err != nil {
			return 0, err
		}
		c.addBuilt()
		n, err := Perft(np, r.Next(HistoryOf(p, m)), depth-1, c)
		if err != nil {
			return 0, err
		}
		nodes += n
	}
	return nodes, nil
}

// Divide returns the perft count below every root move, keyed by move text.
func Divide(p *Position, r Rights, depth int, c *Counters) (map[string]int64, error) {
	moves, err := NewAnalyzer(p, r).WithCounters(c).LegalMoves(p.SideToMove())
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(moves))
	for _, m := range moves {
		np, err := Apply(p, m)
		if err != nil {
			return nil, err
		}
		c.addBuilt()
		n, err := Perft(np, r.Next(HistoryOf(p, m)), depth-1, c)
		if err != nil {
			return nil, err
		}
		out[m.String()] = n
	}
	return out, nil
}
