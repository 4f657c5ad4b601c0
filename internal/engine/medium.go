package engine

import (
	"context"

	"chessbot/internal/chess"
)

// mediumRater resolves the exchange each move starts on its target square,
// then subtracts the best exchange the opponent can open elsewhere.
type mediumRater struct {
	e *Engine
}

func (mr *mediumRater) rate(ctx context.Context, p *chess.Position, r chess.Rights, side chess.Side, moves []chess.Move) ([]RatedMove, error) {
	return mr.e.rateEach(ctx, p, r, Medium, moves, func(m chess.Move) (RatedMove, error) {
		return mr.rateMove(p, r, side, m)
	})
}

func (mr *mediumRater) rateMove(p *chess.Position, r chess.Rights, side chess.Side, m chess.Move) (RatedMove, error) {
	rm := newRatedMove(m)
	v, err := mr.e.verdict(p, r, m)
	if err != nil {
		return rm, err
	}
	rm.Update(v.param, v.value)

	switch v.outcome {
	case ForcedMate:
		rm.Update(Checkmate, 1)
		rm.Update(Check, 1)
		return rm, nil
	case ForcedStalemate:
		next, err := chess.Apply(p, m)
		if err != nil {
			return rm, err
		}
		if lead := next.Material(side) - next.Material(side.Opposite()); lead > 0 {
			rm.Update(StalemateAhead, lead)
		}
		return rm, nil
	}

	opp := side.Opposite()
	next, err := chess.Apply(p, m)
	if err != nil {
		return rm, err
	}
	nextRights := r.Next(chess.HistoryOf(p, m))
	an := chess.NewAnalyzer(next, nextRights).WithCounters(mr.e.stats)
	check, err := an.InCheck(opp)
	if err != nil {
		return rm, err
	}
	if check {
		rm.Update(Check, 1)
	}

	replies, err := an.LegalMoves(opp)
	if err != nil {
		return rm, err
	}
	best, reason := 0, ""
	for _, reply := range replies {
		if reply.To == m.To || !reply.IsCapture(next) {
			continue
		}
		if reply.Promotion != chess.NoKind && reply.Promotion != chess.Queen {
			continue
		}
		ov, err := mr.e.verdict(next, nextRights, reply)
		if err != nil {
			return rm, err
		}
		val := ov.value
		if ov.outcome == ForcedMate {
			val = chess.CheckmateValue
		}
		if val > best {
			best, reason = val, reply.String()
		}
	}
	rm.UpdateNote(InvertedMaterial, best, reason)
	return rm, nil
}
