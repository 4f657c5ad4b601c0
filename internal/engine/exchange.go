package engine

import (
	"fmt"

	"chessbot/internal/chess"
)

// Outcome flags a terminal reply found while resolving an exchange.
type Outcome int

const (
	NoOutcome Outcome = iota
	// ForcedMate: the side replying to the first move has no legal move and is in check.
	ForcedMate
	// ForcedStalemate: the side replying has no legal move and is not in check.
	ForcedStalemate
)

func (o Outcome) String() string {
	switch o {
	case ForcedMate:
		return "forced_mate"
	case ForcedStalemate:
		return "forced_stalemate"
	}
	return "none"
}

// ExchangeStep is one capture (or the initial move) on the target square.
// Total is the running material balance from the initiator's point of view.
type ExchangeStep struct {
	Side     chess.Side  `json:"side"`
	Move     chess.Move  `json:"move"`
	Attacker chess.Piece `json:"attacker"`
	Gain     int         `json:"gain"`
	Total    int         `json:"total"`
}

type ExchangeResult struct {
	Steps   []ExchangeStep `json:"steps"`
	Value   int            `json:"value"`
	Param   Param          `json:"param"`
	Stop    int            `json:"stop"`
	Outcome Outcome        `json:"outcome"`
}

// maxExchangePlies bounds a capture sequence; 32 pieces end it much sooner.
const maxExchangePlies = 64

// Exchange plays m and then lets both sides recapture on m.To with their
// cheapest legal attacker until the side to move has none. The resulting
// sequence is rated from the point of view of m's side.
func Exchange(p *chess.Position, r chess.Rights, m chess.Move) (ExchangeResult, error) {
	return exchange(p, r, m, nil)
}

func exchange(p *chess.Position, r chess.Rights, m chess.Move, stats *chess.Counters) (ExchangeResult, error) {
	mover := p.PieceAt(m.From)
	if mover.IsEmpty() {
		return ExchangeResult{}, fmt.Errorf("exchange %v: %w: empty origin", m, chess.ErrIllegalState)
	}
	side := mover.Side()
	target := m.To

	gain := m.Captured(p).Value() + promotionGain(m)
	steps := make([]ExchangeStep, 1, 8)
	steps[0] = ExchangeStep{Side: side, Move: m, Attacker: mover, Gain: gain, Total: gain}

	cur, err := chess.Apply(p, m)
	if err != nil {
		return ExchangeResult{}, fmt.Errorf("exchange %v: %w", m, err)
	}
	rights := r.Next(chess.HistoryOf(p, m))

	var res ExchangeResult
	total := gain
	for first := true; len(steps) < maxExchangePlies; first = false {
		toMove := cur.SideToMove()
		an := chess.NewAnalyzer(cur, rights).WithCounters(stats)
		moves, err := an.LegalMoves(toMove)
		if err != nil {
			return ExchangeResult{}, fmt.Errorf("exchange %v: %w", m, err)
		}
		if first && len(moves) == 0 {
			check, err := an.InCheck(toMove)
			if err != nil {
				return ExchangeResult{}, fmt.Errorf("exchange %v: %w", m, err)
			}
			res.Outcome = ForcedStalemate
			if check {
				res.Outcome = ForcedMate
			}
			break
		}
		capture, ok := cheapestCapture(cur, moves, target)
		if !ok {
			break
		}
		attacker := cur.PieceAt(capture.From)
		g := cur.PieceAt(target).Value() + promotionGain(capture)
		if toMove == side {
			total += g
		} else {
			total -= g
		}
		steps = append(steps, ExchangeStep{Side: toMove, Move: capture, Attacker: attacker, Gain: g, Total: total})

		next, err := chess.Apply(cur, capture)
		if err != nil {
			return ExchangeResult{}, fmt.Errorf("exchange %v at %v: %w", m, capture, err)
		}
		rights = rights.Next(chess.HistoryOf(cur, capture))
		cur = next
	}

	res.Steps = steps
	res.Value, res.Param, res.Stop = rateExchange(steps)
	return res, nil
}

// promotionGain is what a pawn earns by turning into m's promotion kind.
func promotionGain(m chess.Move) int {
	if m.Promotion == chess.NoKind {
		return 0
	}
	return m.Promotion.Value() - chess.Pawn.Value()
}

// cheapestCapture picks the recapture on target: lowest material value, then
// lower kind, then lowest origin index. Promotions only count as queen.
func cheapestCapture(p *chess.Position, moves []chess.Move, target chess.Square) (chess.Move, bool) {
	var best chess.Move
	found := false
	for _, m := range moves {
		if m.To != target {
			continue
		}
		if m.Promotion != chess.NoKind && m.Promotion != chess.Queen {
			continue
		}
		if !found || cheaper(p, m, best) {
			best, found = m, true
		}
	}
	return best, found
}

func cheaper(p *chess.Position, a, b chess.Move) bool {
	pa, pb := p.PieceAt(a.From), p.PieceAt(b.From)
	if pa.Value() != pb.Value() {
		return pa.Value() < pb.Value()
	}
	if pa.Kind() != pb.Kind() {
		return pa.Kind() < pb.Kind()
	}
	return a.From.Index() < b.From.Index()
}

// rateExchange turns a step list into a value, its param and the step the
// sequence settles on.
func rateExchange(steps []ExchangeStep) (int, Param, int) {
	switch len(steps) {
	case 0:
		return 0, MaterialSimpleMove, 0
	case 1:
		if steps[0].Total == 0 {
			return 0, MaterialSimpleMove, 0
		}
		return steps[0].Total, MaterialSimpleFreebie, 0
	case 2:
		if steps[0].Gain == 0 {
			return steps[1].Total, MaterialSimpleFeed, 1
		}
		return steps[1].Total, MaterialSimpleExchange, 1
	}
	v, stop := foldExchange(steps)
	return v, MaterialDeepExchange, stop
}

// foldExchange walks the sequence backwards. Before each capture the side that
// would make it either continues or stops at the current total, whichever is
// better for it; the initiator maximises and the opponent minimises.
func foldExchange(steps []ExchangeStep) (int, int) {
	initiator := steps[0].Side
	n := len(steps)
	value, stop := steps[n-1].Total, n-1
	for i := n - 2; i >= 0; i-- {
		t := steps[i].Total
		if steps[i+1].Side == initiator {
			if t >= value {
				value, stop = t, i
			}
		} else if t <= value {
			value, stop = t, i
		}
	}
	return value, stop
}
