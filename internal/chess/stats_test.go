package chess

import "testing"

func TestCountersTrackPerft(t *testing.T) {
	var stats Counters
	nodes, err := Perft(NewInitialPosition(), InitialRights(), 2, &stats)
	if err != nil {
		t.Fatal(err)
	}
	if nodes != 400 {
		t.Fatalf("nodes = %d", nodes)
	}
	// one generation at the root and one per reply
	if got := stats.LegalGenerations.Load(); got != 21 {
		t.Fatalf("legal generations = %d: %v", got, &stats)
	}
	if got := stats.PositionsBuilt.Load(); got != 20 {
		t.Fatalf("positions built = %d: %v", got, &stats)
	}
	if got := stats.LegalityProbes.Load(); got != 0 {
		t.Fatalf("probes = %d: %v", got, &stats)
	}

	stats.Reset()
	if stats.PositionsBuilt.Load() != 0 || stats.LegalGenerations.Load() != 0 {
		t.Fatalf("reset left %v", &stats)
	}
	var off *Counters
	off.addBuilt()
	if off.String() != "counters: off" {
		t.Fatalf("nil counters = %q", off.String())
	}
}

func TestProbeCountsBuiltPosition(t *testing.T) {
	p, r := MustDecodeFEN("4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 1")
	var stats Counters
	moves, err := NewAnalyzer(p, r).WithCounters(&stats).LegalMoves(White)
	if err != nil {
		t.Fatal(err)
	}
	if !hasMove(moves, "e5d6") {
		t.Fatalf("en passant missing from %v", moves)
	}
	if stats.LegalityProbes.Load() != 1 || stats.PositionsBuilt.Load() != 1 {
		t.Fatalf("counters = %v", &stats)
	}
}
