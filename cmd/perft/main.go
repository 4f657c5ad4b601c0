package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"github.com/dylhunn/dragontoothmg"

	"chessbot/internal/chess"
)

func main() {
	fen := flag.String("fen", chess.StartFEN, "position to count from")
	depth := flag.Int("depth", 3, "perft depth")
	divide := flag.Bool("divide", false, "print the count below every root move")
	check := flag.Bool("check", false, "compare against dragontoothmg")
	flag.Parse()

	p, r, err := chess.DecodeFEN(*fen)
	if err != nil {
		log.Fatalf("fen: %v", err)
	}
	fmt.Println(p)
	fmt.Println("FEN:", chess.EncodeFEN(p, r))

	var stats chess.Counters
	start := time.Now()
	if *divide {
		counts, err := chess.Divide(p, r, *depth, &stats)
		if err != nil {
			log.Fatalf("divide: %v", err)
		}
		var ref map[string]int64
		if *check {
			ref = dragonDivide(*fen, *depth)
		}
		moves := make([]string, 0, len(counts))
		var total int64
		for m, n := range counts {
			moves = append(moves, m)
			total += n
		}
		sort.Strings(moves)
		mismatch := false
		for _, m := range moves {
			line := fmt.Sprintf("%s: %d", m, counts[m])
			if ref != nil && ref[m] != counts[m] {
				line += fmt.Sprintf("  (dragontooth %d)", ref[m])
				mismatch = true
			}
			fmt.Println(line)
		}
		for m := range ref {
			if _, ok := counts[m]; !ok {
				fmt.Printf("%s: missing (dragontooth %d)\n", m, ref[m])
				mismatch = true
			}
		}
		fmt.Printf("total %d in %v, %s\n", total, time.Since(start), &stats)
		if mismatch {
			os.Exit(1)
		}
		return
	}

	nodes, err := chess.Perft(p, r, *depth, &stats)
	if err != nil {
		log.Fatalf("perft: %v", err)
	}
	elapsed := time.Since(start)
	nps := int64(0)
	if elapsed > 0 {
		nps = int64(float64(nodes) / elapsed.Seconds())
	}
	fmt.Printf("perft(%d) = %d in %v, NPS %d, %s\n", *depth, nodes, elapsed, nps, &stats)
	if *check {
		board := dragontoothmg.ParseFen(*fen)
		if want := dragonPerft(&board, *depth); want != nodes {
			fmt.Printf("dragontooth disagrees: %d\n", want)
			os.Exit(1)
		}
		fmt.Println("dragontooth agrees")
	}
}

func dragonPerft(b *dragontoothmg.Board, depth int) int64 {
	if depth <= 0 {
		return 1
	}
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

func dragonDivide(fen string, depth int) map[string]int64 {
	board := dragontoothmg.ParseFen(fen)
	out := make(map[string]int64)
	for _, m := range board.GenerateLegalMoves() {
		unapply := board.Apply(m)
		out[m.String()] = dragonPerft(&board, depth-1)
		unapply()
	}
	return out
}
