package engine

import (
	"errors"
	"testing"

	"chessbot/internal/chess"
)

func mustMove(t *testing.T, text string) chess.Move {
	t.Helper()
	m, err := chess.ParseMove(text)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestExchange(t *testing.T) {
	cases := []struct {
		name    string
		fen     string
		move    string
		value   int
		param   Param
		steps   int
		outcome Outcome
	}{
		{"bishop takes pawn defended by rook", "3rk3/8/8/8/3p4/8/5B2/4K3 w - - 0 1", "f2d4", -2, MaterialSimpleExchange, 2, NoOutcome},
		{"free pawn", "4k3/8/8/8/3p4/8/5B2/4K3 w - - 0 1", "f2d4", 1, MaterialSimpleFreebie, 1, NoOutcome},
		{"quiet move", "4k3/8/8/8/3p4/8/5B2/4K3 w - - 0 1", "f2g3", 0, MaterialSimpleMove, 1, NoOutcome},
		{"feed", "4k3/8/8/8/3p4/8/5B2/4K3 w - - 0 1", "f2e3", -3, MaterialSimpleFeed, 2, NoOutcome},
		{"deep exchange", "4r2k/8/3b4/4p3/8/5N2/4R3/K7 w - - 0 1", "f3e5", -2, MaterialDeepExchange, 4, NoOutcome},
		{"pawn recapture then knight", "4k3/8/4p3/3p4/8/2N1N3/8/4K3 w - - 0 1", "c3d5", -1, MaterialDeepExchange, 3, NoOutcome},
		{"back rank mate", "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1", "a1a8", 0, MaterialSimpleMove, 1, ForcedMate},
		{"stalemate", "7k/4Q3/6K1/8/8/8/8/8 w - - 0 1", "e7f7", 0, MaterialSimpleMove, 1, ForcedStalemate},
		{"free promotion", "8/P7/8/7k/8/8/8/7K w - - 0 1", "a7a8q", 8, MaterialSimpleFreebie, 1, NoOutcome},
		{"promotion recaptured", "7r/4P3/8/7k/8/8/8/K7 w - - 0 1", "e7e8q", -1, MaterialSimpleExchange, 2, NoOutcome},
		{"underpromotion recaptured", "7r/4P3/8/7k/8/8/8/K7 w - - 0 1", "e7e8n", -1, MaterialSimpleExchange, 2, NoOutcome},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, r := chess.MustDecodeFEN(tc.fen)
			res, err := Exchange(p, r, mustMove(t, tc.move))
			if err != nil {
				t.Fatal(err)
			}
			if res.Value != tc.value || res.Param != tc.param || len(res.Steps) != tc.steps || res.Outcome != tc.outcome {
				t.Fatalf("got value=%d param=%v steps=%d outcome=%v, want %d %v %d %v (%+v)",
					res.Value, res.Param, len(res.Steps), res.Outcome, tc.value, tc.param, tc.steps, tc.outcome, res.Steps)
			}
		})
	}
}

func TestExchangeStepsAreSideTagged(t *testing.T) {
	p, r := chess.MustDecodeFEN("4r2k/8/3b4/4p3/8/5N2/4R3/K7 w - - 0 1")
	res, err := Exchange(p, r, mustMove(t, "f3e5"))
	if err != nil {
		t.Fatal(err)
	}
	want := []struct {
		side  chess.Side
		kind  chess.Kind
		total int
	}{
		{chess.White, chess.Knight, 1},
		{chess.Black, chess.Bishop, -2},
		{chess.White, chess.Rook, 1},
		{chess.Black, chess.Rook, -4},
	}
	for i, w := range want {
		s := res.Steps[i]
		if s.Side != w.side || s.Attacker.Kind() != w.kind || s.Total != w.total {
			t.Fatalf("step %d = %+v, want %+v", i, s, w)
		}
	}
	if res.Stop != 1 {
		t.Fatalf("stop = %d", res.Stop)
	}
}

func TestCheapestCaptureTieBreak(t *testing.T) {
	cases := []struct {
		name string
		fen  string
		want string
	}{
		{"knight before bishop, lower square first", "4k3/1B6/8/3p4/8/2N1N3/8/4K3 w - - 0 1", "c3d5"},
		{"pawn first", "4k3/1B6/8/3p4/4P3/2N1N3/8/4K3 w - - 0 1", "e4d5"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, r := chess.MustDecodeFEN(tc.fen)
			moves, err := chess.LegalMoves(p, r, chess.White)
			if err != nil {
				t.Fatal(err)
			}
			got, ok := cheapestCapture(p, moves, chess.Sq(4, 3))
			if !ok || got.String() != tc.want {
				t.Fatalf("got %v (%v), want %s", got, ok, tc.want)
			}
		})
	}
}

func TestFoldExchange(t *testing.T) {
	build := func(totals ...int) []ExchangeStep {
		steps := make([]ExchangeStep, len(totals))
		side := chess.White
		for i, tot := range totals {
			steps[i] = ExchangeStep{Side: side, Total: tot}
			side = side.Opposite()
		}
		return steps
	}
	cases := []struct {
		totals []int
		value  int
		stop   int
	}{
		{[]int{1, -2, 1, -4}, -2, 1},
		{[]int{3, -2, 7}, 3, 0},
		{[]int{1, -2, -1}, -1, 2},
		{[]int{5, 2, 3, -6, 3}, 3, 2},
		{[]int{9, 4, 9, 0}, 4, 1},
	}
	for _, tc := range cases {
		v, stop := foldExchange(build(tc.totals...))
		if v != tc.value || stop != tc.stop {
			t.Errorf("%v: got %d@%d want %d@%d", tc.totals, v, stop, tc.value, tc.stop)
		}
	}
}

func TestExchangeEmptyOrigin(t *testing.T) {
	p := chess.NewInitialPosition()
	_, err := Exchange(p, chess.InitialRights(), mustMove(t, "e4e5"))
	if !errors.Is(err, chess.ErrIllegalState) {
		t.Fatalf("got %v", err)
	}
}
