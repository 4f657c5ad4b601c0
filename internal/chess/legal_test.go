package chess

import (
	"errors"
	"math/rand"
	"sort"
	"testing"
)

func moveTexts(moves []Move) []string {
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = m.String()
	}
	sort.Strings(out)
	return out
}

func hasMove(moves []Move, text string) bool {
	for _, m := range moves {
		if m.String() == text {
			return true
		}
	}
	return false
}

func mustLegal(t *testing.T, p *Position, r Rights) []Move {
	t.Helper()
	moves, err := LegalMoves(p, r, p.SideToMove())
	if err != nil {
		t.Fatalf("legal moves: %v", err)
	}
	return moves
}

func play(t *testing.T, p *Position, r Rights, texts ...string) (*Position, Rights) {
	t.Helper()
	for _, text := range texts {
		m, err := ParseMove(text)
		if err != nil {
			t.Fatal(err)
		}
		ok, err := IsLegal(p, r, m)
		if err != nil || !ok {
			t.Fatalf("%s not legal (%v):\n%v", text, err, p)
		}
		r = r.Next(HistoryOf(p, m))
		if p, err = Apply(p, m); err != nil {
			t.Fatalf("%s: %v", text, err)
		}
	}
	return p, r
}

func TestInitialMoveCounts(t *testing.T) {
	p := NewInitialPosition()
	r := InitialRights()
	moves := mustLegal(t, p, r)
	if len(moves) != 20 {
		t.Fatalf("white has %d moves: %v", len(moves), moveTexts(moves))
	}
	for _, m := range moves {
		np, err := Apply(p, m)
		if err != nil {
			t.Fatal(err)
		}
		reply := mustLegal(t, np, r.Next(HistoryOf(p, m)))
		if len(reply) != 20 {
			t.Fatalf("after %v black has %d moves", m, len(reply))
		}
	}
}

func TestCastlingBlockedByAttackedSquare(t *testing.T) {
	p, r := MustDecodeFEN("r3k2r/8/8/5r2/8/8/8/R3K2R w KQkq - 0 1")
	moves := mustLegal(t, p, r)
	if hasMove(moves, "e1g1") {
		t.Fatalf("short castling through attacked f1 allowed")
	}
	if !hasMove(moves, "e1c1") {
		t.Fatalf("long castling missing: %v", moveTexts(moves))
	}
}

func TestCastlingConditions(t *testing.T) {
	cases := []struct {
		name  string
		fen   string
		move  string
		legal bool
	}{
		{"both free", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1g1", true},
		{"no right", "r3k2r/8/8/8/8/8/8/R3K2R w Qkq - 0 1", "e1g1", false},
		{"in check", "r3k2r/8/8/8/4r3/8/8/R3K2R w KQkq - 0 1", "e1c1", false},
		{"destination attacked", "r3k2r/8/8/8/8/8/6p1/R3K2R w KQkq - 0 1", "e1c1", true},
		{"destination attacked short", "r3k2r/8/8/8/8/8/7p/R3K2R w KQkq - 0 1", "e1g1", false},
		{"path occupied", "r3k2r/8/8/8/8/8/8/RN2K2R w KQkq - 0 1", "e1c1", false},
		{"b file attacked from afar", "1r2k2r/8/8/8/8/8/8/R3K2R w KQk - 0 1", "e1c1", true},
		{"rook missing", "r3k2r/8/8/8/8/8/8/4K2R w KQkq - 0 1", "e1c1", false},
		{"black short", "r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1", "e8g8", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, r := MustDecodeFEN(tc.fen)
			if got := hasMove(mustLegal(t, p, r), tc.move); got != tc.legal {
				t.Fatalf("%s legal=%v want %v", tc.move, got, tc.legal)
			}
		})
	}
}

func TestEnPassantWindow(t *testing.T) {
	p, r := play(t, NewInitialPosition(), InitialRights(), "e2e4", "a7a6", "e4e5", "d7d5")
	if !hasMove(mustLegal(t, p, r), "e5d6") {
		t.Fatalf("en passant missing after d7d5")
	}
	if _, ok := r.EnPassantTarget(White); !ok {
		t.Fatalf("double step not recorded: %+v", r)
	}

	taken, _ := play(t, p, r, "e5d6")
	if !taken.PieceAt(Sq(4, 3)).IsEmpty() {
		t.Fatalf("captured pawn still on d5:\n%v", taken)
	}

	p, r = play(t, p, r, "h2h3", "a6a5")
	if hasMove(mustLegal(t, p, r), "e5d6") {
		t.Fatalf("en passant still available a move later")
	}
}

func TestEnPassantDiscoveredRankCheck(t *testing.T) {
	// taking en passant would clear the fifth rank between the rook and the king
	p, r := MustDecodeFEN("8/8/8/KPp4r/8/8/8/4k3 w - c6 0 2")
	if hasMove(mustLegal(t, p, r), "b5c6") {
		t.Fatalf("en passant exposing the king allowed")
	}
}

func TestPins(t *testing.T) {
	p, r := MustDecodeFEN("4r1k1/8/8/8/8/8/4B3/4K3 w - - 0 1")
	dest, err := LegalMovesFrom(p, r, White, Sq(1, 4))
	if err != nil {
		t.Fatal(err)
	}
	if len(dest) != 0 {
		t.Fatalf("pinned bishop moves: %v", dest)
	}

	p, r = MustDecodeFEN("4r1k1/8/8/8/8/8/4R3/4K3 w - - 0 1")
	dest, err = LegalMovesFrom(p, r, White, Sq(1, 4))
	if err != nil {
		t.Fatal(err)
	}
	if len(dest) != 6 {
		t.Fatalf("pinned rook should slide along the file: %v", dest)
	}
	for _, sq := range dest {
		if sq.Col != 4 {
			t.Fatalf("pinned rook left the file: %v", sq)
		}
	}
}

func TestCheckEvasions(t *testing.T) {
	// single check by a rook: king steps, block, or capture
	p, r := MustDecodeFEN("4k3/8/8/8/4r3/8/3B4/R3K3 w - - 0 1")
	moves := mustLegal(t, p, r)
	for _, m := range moves {
		if m.From == Sq(0, 0) {
			t.Fatalf("rook move %v ignores the check", m)
		}
	}
	if !hasMove(moves, "d2e3") {
		t.Fatalf("block missing: %v", moveTexts(moves))
	}

	// double check: knight and rook
	p, r = MustDecodeFEN("4k3/8/8/8/4r3/3n4/3B4/R3K3 w - - 0 1")
	moves = mustLegal(t, p, r)
	for _, m := range moves {
		if m.From != Sq(0, 4) {
			t.Fatalf("non-king move %v under double check", m)
		}
	}
}

func TestKingCannotStepAlongCheckRay(t *testing.T) {
	p, r := MustDecodeFEN("4k3/8/8/8/8/8/8/r3K3 w - - 0 1")
	moves := mustLegal(t, p, r)
	for _, bad := range []string{"e1f1", "e1d1"} {
		if hasMove(moves, bad) {
			t.Fatalf("%s stays on the rook's rank", bad)
		}
	}
	if !hasMove(moves, "e1e2") {
		t.Fatalf("e1e2 missing: %v", moveTexts(moves))
	}
}

func TestPromotionsExpanded(t *testing.T) {
	p, r := MustDecodeFEN("4k3/P7/8/8/8/8/8/4K3 w - - 0 1")
	moves := mustLegal(t, p, r)
	for _, text := range []string{"a7a8q", "a7a8r", "a7a8b", "a7a8n"} {
		if !hasMove(moves, text) {
			t.Fatalf("%s missing: %v", text, moveTexts(moves))
		}
	}
	dest, err := LegalMovesFrom(p, r, White, Sq(6, 0))
	if err != nil || len(dest) != 1 {
		t.Fatalf("destinations = %v, %v", dest, err)
	}
}

func TestMateAndStalemate(t *testing.T) {
	cases := []struct {
		name  string
		fen   string
		check bool
		want  Status
	}{
		{"scholar's mate", "r1bqkb1r/pppp1Qpp/2n2n2/4p3/2B1P3/8/PPPP1PPP/RNB1K1NR b KQkq - 0 4", true, Checkmate},
		{"stalemate", "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", false, Stalemate},
		{"initial", StartFEN, false, Ongoing},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, r := MustDecodeFEN(tc.fen)
			side := p.SideToMove()
			check, err := IsInCheck(p, side)
			if err != nil || check != tc.check {
				t.Fatalf("check=%v err=%v", check, err)
			}
			st, err := GameStatus(p, r, side)
			if err != nil || st != tc.want {
				t.Fatalf("status=%v err=%v", st, err)
			}
			if tc.want != Ongoing && len(mustLegal(t, p, r)) != 0 {
				t.Fatalf("finished game has moves")
			}
		})
	}
}

func TestLegalMovesFromOutOfRange(t *testing.T) {
	p := NewInitialPosition()
	if _, err := LegalMovesFrom(p, InitialRights(), White, Sq(-1, 3)); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("got %v", err)
	}
	dest, err := LegalMovesFrom(p, InitialRights(), White, Sq(6, 0))
	if err != nil || len(dest) != 0 {
		t.Fatalf("enemy piece destinations = %v, %v", dest, err)
	}
}

func TestMissingKingIsAnError(t *testing.T) {
	p := &Position{}
	if _, err := LegalMoves(p, InitialRights(), White); !errors.Is(err, ErrKingNotFound) {
		t.Fatalf("got %v", err)
	}
	if _, err := IsInCheck(p, Black); !errors.Is(err, ErrKingNotFound) {
		t.Fatalf("got %v", err)
	}
}

func TestLegalMovesNeverLeaveKingInCheck(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	var stats Counters
	for game := 0; game < 20; game++ {
		p := NewInitialPosition()
		r := InitialRights()
		for ply := 0; ply < 120; ply++ {
			side := p.SideToMove()
			moves, err := NewAnalyzer(p, r).WithCounters(&stats).LegalMoves(side)
			if err != nil {
				t.Fatal(err)
			}
			if len(moves) == 0 {
				break
			}
			for _, m := range moves {
				np, err := Apply(p, m)
				if err != nil {
					t.Fatalf("apply %v: %v\n%v", m, err, p)
				}
				if check, _ := IsInCheck(np, side); check {
					t.Fatalf("%v leaves %v king in check:\n%v", m, side, p)
				}
			}
			m := moves[rng.Intn(len(moves))]
			r = r.Next(HistoryOf(p, m))
			p, _ = Apply(p, m)
		}
	}
	if stats.LegalGenerations.Load() == 0 {
		t.Fatalf("counters not updated: %v", &stats)
	}
}

func TestAttackSetIncludesDefended(t *testing.T) {
	p := NewInitialPosition()
	set := AttackSet(p, White, AllKinds)
	for _, s := range []string{"d1", "e3", "f3", "c3", "b1"} {
		sq, _ := ParseSquare(s)
		if !set.Has(sq) {
			t.Errorf("%s not in white attack set", s)
		}
	}
	if set.Has(Sq(3, 4)) {
		t.Errorf("e4 attacked at start")
	}
	pawns := AttackSet(p, White, KindsOf(Pawn))
	if pawns.Len() != 8 || !pawns.Has(Sq(2, 0)) || pawns.Has(Sq(3, 0)) {
		t.Errorf("pawn attack set = %v", pawns.Squares())
	}
}
