package chess

// Package-level shorthands over a throwaway Analyzer.

func LegalMoves(p *Position, r Rights, side Side) ([]Move, error) {
	return NewAnalyzer(p, r).LegalMoves(side)
}

func LegalMovesFrom(p *Position, r Rights, side Side, from Square) ([]Square, error) {
	return NewAnalyzer(p, r).LegalMovesFrom(side, from)
}

func IsLegal(p *Position, r Rights, m Move) (bool, error) {
	return NewAnalyzer(p, r).IsLegal(m)
}

// IsInCheck does not depend on rights.
func IsInCheck(p *Position, side Side) (bool, error) {
	return NewAnalyzer(p, Rights{}).InCheck(side)
}

func GameStatus(p *Position, r Rights, side Side) (Status, error) {
	return NewAnalyzer(p, r).Status(side)
}
