package engine

import (
	"context"
	"fmt"
	"strings"

	"chessbot/internal/chess"
)

type Strategy int

const (
	Random Strategy = iota
	Greedy
	Easy
	Medium
)

var strategyNames = [...]string{
	Random: "random",
	Greedy: "greedy",
	Easy:   "easy",
	Medium: "medium",
}

func (s Strategy) String() string {
	if s < 0 || int(s) >= len(strategyNames) {
		return fmt.Sprintf("strategy(%d)", int(s))
	}
	return strategyNames[s]
}

func ParseStrategy(s string) (Strategy, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range strategyNames {
		if s == name {
			return Strategy(i), nil
		}
	}
	return Random, fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

func (s Strategy) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Strategy) UnmarshalText(b []byte) error {
	v, err := ParseStrategy(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// rater scores every candidate move of side at p. Implementations may share
// per-position data across candidates but must not mutate p.
type rater interface {
	rate(ctx context.Context, p *chess.Position, r chess.Rights, side chess.Side, moves []chess.Move) ([]RatedMove, error)
}

func (e *Engine) raterFor(s Strategy) (rater, error) {
	switch s {
	case Random:
		return randomRater{}, nil
	case Greedy:
		return greedyRater{}, nil
	case Easy:
		return &easyRater{e: e}, nil
	case Medium:
		return &mediumRater{e: e}, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownStrategy, s)
}
