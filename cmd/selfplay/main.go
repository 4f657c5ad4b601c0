package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"time"

	"chessbot/internal/chess"
	"chessbot/internal/engine"
	"chessbot/internal/server/game"
)

func main() {
	white := flag.String("white", "medium", "strategy for white")
	black := flag.String("black", "easy", "strategy for black")
	games := flag.Int("games", 1, "number of games to play")
	maxPlies := flag.Int("maxplies", 200, "plies before a game is scored as a draw")
	workers := flag.Int("workers", 0, "concurrent move raters (0 = GOMAXPROCS)")
	seed := flag.Int64("seed", 0, "tie-break seed (0 = time based)")
	bench := flag.Bool("bench", false, "round robin of every strategy pair instead")
	pprof := flag.String("pprof", "", "pprof listen address, e.g. localhost:6060")
	flag.Parse()

	if *pprof != "" {
		go func() {
			log.Printf("pprof listening on %s", *pprof)
			if err := http.ListenAndServe(*pprof, nil); err != nil {
				log.Printf("pprof failed: %v", err)
			}
		}()
	}

	eng := engine.NewEngine(engine.Config{Workers: *workers, Seed: *seed})

	if *bench {
		runBenchmark(eng, *games, *maxPlies)
		return
	}

	ws, err := engine.ParseStrategy(*white)
	if err != nil {
		log.Fatalf("white: %v", err)
	}
	bs, err := engine.ParseStrategy(*black)
	if err != nil {
		log.Fatalf("black: %v", err)
	}

	m := game.NewManager(eng)
	for i := 0; i < *games; i++ {
		log.Printf("--- Game %d: white %s vs black %s ---", i+1, ws, bs)
		start := time.Now()
		outcome, plies, err := playManaged(m, ws, bs, *maxPlies)
		if err != nil {
			log.Fatalf("game %d: %v", i+1, err)
		}
		fmt.Printf("Game %d: %s after %d plies in %v\n", i+1, outcome, plies, time.Since(start))
	}
	log.Printf("engine stats: %s", eng.Stats())
	log.Println("Selfplay finished.")
	os.Exit(0)
}

// playManaged drives one PvP game through the game registry, letting the bot
// move for both sides with the strategy of the side to move.
func playManaged(m *game.Manager, white, black engine.Strategy, maxPlies int) (string, int, error) {
	players := [2]*game.Game{}
	g, err := m.NewGame(game.PvP, chess.White, white)
	if err != nil {
		return "", 0, err
	}
	players[chess.White] = g
	// a second registry entry carries black's strategy; moves are mirrored into it
	players[chess.Black], err = m.NewGame(game.PvP, chess.Black, black)
	if err != nil {
		return "", 0, err
	}

	for ply := 0; ply < maxPlies; ply++ {
		side := chess.White
		if ply%2 == 1 {
			side = chess.Black
		}
		mover, other := players[side], players[side.Opposite()]
		st, err := mover.Status()
		if err != nil {
			return "", ply, err
		}
		if st != chess.Ongoing {
			return describe(st, side), ply, nil
		}
		if err := mover.RequestBotMove(); err != nil {
			return "", ply, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		err = mover.Wait(ctx)
		cancel()
		if err != nil {
			return "", ply, err
		}
		res, err := mover.LastBotResult()
		if err != nil {
			return "", ply, err
		}
		if _, err := other.Play(res.Move); err != nil {
			return "", ply, fmt.Errorf("mirror %v: %w", res.Move, err)
		}
		log.Printf("ply %d %s: %v total %d (%d top) %v", ply, side, res.Move, res.Best.Total, res.Top, res.Elapsed)
	}
	return "draw by ply limit", maxPlies, nil
}

func describe(st chess.Status, toMove chess.Side) string {
	switch st {
	case chess.Checkmate:
		return toMove.Opposite().String() + " wins by checkmate"
	case chess.Stalemate:
		return "draw by stalemate"
	}
	return "ongoing"
}
