package engine

import (
	"strings"
	"testing"

	"chessbot/internal/chess"
)

func TestRatedMoveFirstWriteWins(t *testing.T) {
	rm := newRatedMove(chess.Move{From: chess.Sq(1, 4), To: chess.Sq(3, 4)})
	rm.Update(ExchangeDiff, 2)
	rm.Update(ExchangeDiff, 7)
	rm.Update(UselessVictim, 3)
	rm.Update(Check, 1)
	if got, want := rm.Total, 2*100-3*100+5; got != want {
		t.Fatalf("total = %d want %d", got, want)
	}
	if rm.Ratings[ExchangeDiff].Value != 2 {
		t.Fatalf("ratings = %+v", rm.Ratings)
	}
	params := rm.Params()
	if len(params) != 3 || params[0] != ExchangeDiff || params[2] != Check {
		t.Fatalf("params = %v", params)
	}
	if s := rm.String(); !strings.HasPrefix(s, "e2e4 total=-95") || !strings.Contains(s, "useless_victim=3") {
		t.Fatalf("string = %q", s)
	}
}

func TestParamFactors(t *testing.T) {
	cases := map[Param]int{
		MaterialDeepExchange: 100,
		InvertedMaterial:     -100,
		UselessVictim:        -100,
		Check:                5,
		Checkmate:            chess.CheckmateValue,
		GreedyCapture:        1,
	}
	for p, want := range cases {
		if p.Factor() != want {
			t.Errorf("%v factor = %d want %d", p, p.Factor(), want)
		}
	}
	if !MaterialSimpleFeed.IsMaterial() || Check.IsMaterial() {
		t.Errorf("IsMaterial wrong")
	}
}

func TestParseStrategy(t *testing.T) {
	for _, s := range []Strategy{Random, Greedy, Easy, Medium} {
		got, err := ParseStrategy(strings.ToUpper(s.String()))
		if err != nil || got != s {
			t.Fatalf("%v: got %v, %v", s, got, err)
		}
	}
	if _, err := ParseStrategy("hard"); err == nil {
		t.Fatalf("unknown strategy accepted")
	}
}
