package engine

import (
	"context"

	"golang.org/x/exp/slices"

	"chessbot/internal/chess"
)

// easyRater scores one ply of consequences: the immediate trade, captures of
// undefended pieces, rescuing hanging pieces, leaving the moved piece en prise,
// and checks.
type easyRater struct {
	e *Engine
}

type easyBoard struct {
	p       *chess.Position
	r       chess.Rights
	side    chess.Side
	victims chess.SquareSet
	stats   *chess.Counters
}

func (er *easyRater) rate(ctx context.Context, p *chess.Position, r chess.Rights, side chess.Side, moves []chess.Move) ([]RatedMove, error) {
	b, err := newEasyBoard(p, r, side, er.e.stats)
	if err != nil {
		return nil, err
	}
	return er.e.rateEach(ctx, p, r, Easy, moves, b.rateMove)
}

// worth is the material a piece puts at stake; the king is never traded.
func worth(pc chess.Piece) int {
	if pc.Kind() == chess.King {
		return 0
	}
	return pc.Value()
}

// captureOrigins groups side's legal captures by target square.
func captureOrigins(p *chess.Position, moves []chess.Move) map[chess.Square]chess.SquareSet {
	out := make(map[chess.Square]chess.SquareSet)
	for _, m := range moves {
		if m.IsCapture(p) {
			out[m.To] = out[m.To].With(m.From)
		}
	}
	return out
}

func attackedByCheaper(p *chess.Position, attackers chess.SquareSet, value int) bool {
	for _, sq := range attackers.Squares() {
		if p.PieceAt(sq).Value() < value {
			return true
		}
	}
	return false
}

func newEasyBoard(p *chess.Position, r chess.Rights, side chess.Side, stats *chess.Counters) (*easyBoard, error) {
	b := &easyBoard{p: p, r: r, side: side, stats: stats}
	threats, err := chess.NewAnalyzer(p, r).WithCounters(stats).LegalMoves(side.Opposite())
	if err != nil {
		return nil, err
	}
	for sq, attackers := range captureOrigins(p, threats) {
		// a captured en passant pawn is not on the target square
		victim := p.PieceAt(sq)
		if victim.IsEmpty() || victim.Kind() == chess.King {
			continue
		}
		defenders := len(chess.AttackersOf(p, side, sq))
		if attackedByCheaper(p, attackers, victim.Value()) || attackers.Len() > defenders {
			b.victims = b.victims.With(sq)
		}
	}
	return b, nil
}

func (b *easyBoard) rateMove(m chess.Move) (RatedMove, error) {
	rm := newRatedMove(m)
	opp := b.side.Opposite()
	mover := b.p.PieceAt(m.From)
	stake := worth(mover)
	captured := m.Captured(b.p)

	next, err := chess.Apply(b.p, m)
	if err != nil {
		return rm, err
	}
	an := chess.NewAnalyzer(next, b.r.Next(chess.HistoryOf(b.p, m))).WithCounters(b.stats)
	replies, err := an.LegalMoves(opp)
	if err != nil {
		return rm, err
	}

	diff := promotionGain(m)
	if !captured.IsEmpty() {
		diff += captured.Value() - stake
	}
	rm.Update(ExchangeDiff, diff)

	var attackers chess.SquareSet
	for _, reply := range replies {
		if reply.To == m.To {
			attackers = attackers.With(reply.From)
		}
	}
	if !captured.IsEmpty() && attackers == 0 {
		rm.Update(AttackDefenseless, stake)
	}

	check, err := an.InCheck(opp)
	if err != nil {
		return rm, err
	}
	if check {
		rm.Update(Check, 1)
		if len(replies) == 0 {
			rm.Update(Checkmate, 1)
		}
	}

	if b.victims.Has(m.From) {
		rm.Update(SaveBotPiece, stake)
	}

	if attackers != 0 {
		if attackedByCheaper(next, attackers, next.PieceAt(m.To).Value()) {
			rm.UpdateNote(UselessVictim, stake, "cheaper attacker")
		} else {
			backers := chess.AttackersOf(b.p, b.side, m.To)
			defenders := len(backers)
			// the moving piece no longer defends the square it moved to
			if slices.Contains(backers, m.From) {
				defenders--
			}
			if attackers.Len() > defenders {
				rm.UpdateNote(UselessVictim, stake, "outnumbered")
			}
		}
	}
	return rm, nil
}
