package main

import (
	"context"
	"fmt"
	"log"

	"chessbot/internal/chess"
	"chessbot/internal/engine"
)

var allStrategies = []engine.Strategy{engine.Random, engine.Greedy, engine.Easy, engine.Medium}

type score struct {
	wins, losses, draws int
}

// runBenchmark plays every ordered strategy pair against each other, calling
// the engine directly.
func runBenchmark(e *engine.Engine, games, maxPlies int) {
	table := make(map[engine.Strategy]*score, len(allStrategies))
	for _, s := range allStrategies {
		table[s] = &score{}
	}

	for _, w := range allStrategies {
		for _, b := range allStrategies {
			if w == b {
				continue
			}
			for g := 0; g < games; g++ {
				winner, plies, err := playGame(e, w, b, maxPlies)
				if err != nil {
					log.Fatalf("%s vs %s: %v", w, b, err)
				}
				switch winner {
				case chess.White:
					table[w].wins++
					table[b].losses++
				case chess.Black:
					table[b].wins++
					table[w].losses++
				default:
					table[w].draws++
					table[b].draws++
				}
				fmt.Printf("%-7s vs %-7s game %d: %s (%d plies)\n", w, b, g+1, resultText(winner), plies)
			}
		}
	}

	fmt.Printf("\n=== Final Score ===\n")
	for _, s := range allStrategies {
		sc := table[s]
		fmt.Printf("%-7s W %3d  L %3d  D %3d\n", s, sc.wins, sc.losses, sc.draws)
	}
}

// playGame returns the winning side, or NoSide for a draw.
func playGame(e *engine.Engine, white, black engine.Strategy, maxPlies int) (chess.Side, int, error) {
	pos := chess.NewInitialPosition()
	rights := chess.InitialRights()
	ctx := context.Background()

	for ply := 0; ply < maxPlies; ply++ {
		side := pos.SideToMove()
		s := white
		if side == chess.Black {
			s = black
		}
		res, err := e.ChooseMove(ctx, pos, rights, side, s)
		if err != nil {
			return chess.NoSide, ply, err
		}
		switch res.Status {
		case chess.Checkmate:
			return side.Opposite(), ply, nil
		case chess.Stalemate:
			return chess.NoSide, ply, nil
		}
		entry := chess.HistoryOf(pos, res.Move)
		next, err := chess.Apply(pos, res.Move)
		if err != nil {
			return chess.NoSide, ply, fmt.Errorf("apply %v: %w", res.Move, err)
		}
		pos, rights = next, rights.Next(entry)
	}
	return chess.NoSide, maxPlies, nil
}

func resultText(winner chess.Side) string {
	if winner == chess.NoSide {
		return "draw"
	}
	return winner.String() + " wins"
}
