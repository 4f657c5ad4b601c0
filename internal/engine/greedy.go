package engine

import (
	"context"

	"chessbot/internal/chess"
)

// greedyRater rates a move by the value of the piece it captures.
type greedyRater struct{}

func (greedyRater) rate(_ context.Context, p *chess.Position, _ chess.Rights, _ chess.Side, moves []chess.Move) ([]RatedMove, error) {
	out := make([]RatedMove, len(moves))
	for i, m := range moves {
		rm := newRatedMove(m)
		rm.Update(GreedyCapture, m.Captured(p).Value())
		out[i] = rm
	}
	return out, nil
}
