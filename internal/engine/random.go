package engine

import (
	"context"

	"chessbot/internal/chess"
)

// randomRater leaves every move at zero, so the pick is uniform.
type randomRater struct{}

func (randomRater) rate(_ context.Context, _ *chess.Position, _ chess.Rights, _ chess.Side, moves []chess.Move) ([]RatedMove, error) {
	out := make([]RatedMove, len(moves))
	for i, m := range moves {
		out[i] = newRatedMove(m)
	}
	return out, nil
}
