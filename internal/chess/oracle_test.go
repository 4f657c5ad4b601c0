package chess

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/dylhunn/dragontoothmg"
	nchess "github.com/notnil/chess"
)

var oracleFENs = []string{
	StartFEN,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
	"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
}

func notnilMoveText(m *nchess.Move) string {
	s := m.S1().String() + m.S2().String()
	switch m.Promo() {
	case nchess.Queen:
		s += "q"
	case nchess.Rook:
		s += "r"
	case nchess.Bishop:
		s += "b"
	case nchess.Knight:
		s += "n"
	}
	return s
}

// Legal move sets must agree with notnil/chess along random playouts.
func TestLegalMovesMatchNotnil(t *testing.T) {
	for i, fen := range oracleFENs {
		t.Run(fmt.Sprintf("fen%d", i), func(t *testing.T) {
			rng := rand.New(rand.NewSource(int64(i + 1)))
			for game := 0; game < 6; game++ {
				opt, err := nchess.FEN(fen)
				if err != nil {
					t.Fatalf("notnil FEN: %v", err)
				}
				ref := nchess.NewGame(opt)
				p, r := MustDecodeFEN(fen)
				for ply := 0; ply < 80; ply++ {
					ours := moveTexts(mustLegal(t, p, r))
					refMoves := ref.ValidMoves()
					theirs := make([]string, len(refMoves))
					byText := make(map[string]*nchess.Move, len(refMoves))
					for j, m := range refMoves {
						theirs[j] = notnilMoveText(m)
						byText[theirs[j]] = m
					}
					sort.Strings(theirs)
					if fmt.Sprint(ours) != fmt.Sprint(theirs) {
						t.Fatalf("ply %d at %s:\n ours   %v\n theirs %v", ply, EncodeFEN(p, r), ours, theirs)
					}
					if len(ours) == 0 || ref.Outcome() != nchess.NoOutcome {
						break
					}
					text := ours[rng.Intn(len(ours))]
					if err := ref.Move(byText[text]); err != nil {
						t.Fatalf("notnil move %s: %v", text, err)
					}
					p, r = play(t, p, r, text)
				}
			}
		})
	}
}

func dragonPerft(b *dragontoothmg.Board, depth int) int64 {
	moves := b.GenerateLegalMoves()
	if depth == 1 {
		return int64(len(moves))
	}
	var n int64
	for _, m := range moves {
		unapply := b.Apply(m)
		n += dragonPerft(b, depth-1)
		unapply()
	}
	return n
}

func TestPerftMatchesDragontooth(t *testing.T) {
	depths := []int{3, 2, 3, 2, 2}
	for i, fen := range oracleFENs {
		t.Run(fmt.Sprintf("fen%d", i), func(t *testing.T) {
			p, r := MustDecodeFEN(fen)
			board := dragontoothmg.ParseFen(fen)
			for d := 1; d <= depths[i]; d++ {
				got, err := Perft(p, r, d, nil)
				if err != nil {
					t.Fatal(err)
				}
				if want := dragonPerft(&board, d); got != want {
					t.Fatalf("depth %d: got %d want %d", d, got, want)
				}
			}
		})
	}
}

func TestPerftKnownCounts(t *testing.T) {
	cases := []struct {
		fen   string
		depth int
		nodes int64
	}{
		{StartFEN, 1, 20},
		{StartFEN, 2, 400},
		{StartFEN, 3, 8902},
		{oracleFENs[1], 1, 48},
		{oracleFENs[1], 2, 2039},
		{oracleFENs[2], 3, 2812},
		{oracleFENs[3], 2, 264},
		{oracleFENs[4], 2, 1486},
	}
	for _, tc := range cases {
		p, r := MustDecodeFEN(tc.fen)
		var stats Counters
		got, err := Perft(p, r, tc.depth, &stats)
		if err != nil {
			t.Fatal(err)
		}
		if got != tc.nodes {
			t.Errorf("%s depth %d: got %d want %d", tc.fen, tc.depth, got, tc.nodes)
		}
	}
}
