package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"sort"
	"time"

	nchess "github.com/notnil/chess"

	"chessbot/internal/chess"
)

// TestCase is one position of a random playout with the answers a frontend
// or another rules implementation should reproduce.
type TestCase struct {
	FEN          string   `json:"fen"`
	Status       string   `json:"status"`
	InCheck      bool     `json:"in_check"`
	Legal        []string `json:"legal"`        // every legal move, sorted
	Froms        []string `json:"froms"`        // squares with at least one legal move
	From         string   `json:"from"`         // the square chosen for the next move
	Destinations []string `json:"destinations"` // legal targets from From
}

func main() {
	out := flag.String("out", "move_gen_test_data.json", "output file")
	numGames := flag.Int("games", 10, "random games to sample")
	maxMoves := flag.Int("maxmoves", 300, "plies per game")
	seed := flag.Int64("seed", time.Now().UnixNano(), "playout seed")
	verify := flag.Bool("verify", true, "cross-check every case against notnil/chess")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))
	var testCases []TestCase

	for g := 0; g < *numGames; g++ {
		pos := chess.NewInitialPosition()
		rights := chess.InitialRights()
		for ply := 0; ply < *maxMoves; ply++ {
			an := chess.NewAnalyzer(pos, rights)
			side := pos.SideToMove()
			legal, err := an.LegalMoves(side)
			if err != nil {
				log.Fatalf("game %d ply %d: %v", g, ply, err)
			}
			st, err := an.Status(side)
			if err != nil {
				log.Fatalf("game %d ply %d: %v", g, ply, err)
			}
			check, err := an.InCheck(side)
			if err != nil {
				log.Fatalf("game %d ply %d: %v", g, ply, err)
			}

			tc := TestCase{
				FEN:     chess.EncodeFEN(pos, rights),
				Status:  st.String(),
				InCheck: check,
				Legal:   moveTexts(legal),
			}
			froms := make(map[string]bool)
			for _, mv := range legal {
				froms[mv.From.String()] = true
			}
			for sq := range froms {
				tc.Froms = append(tc.Froms, sq)
			}
			sort.Strings(tc.Froms)

			if len(legal) == 0 {
				testCases = append(testCases, verified(tc, *verify))
				break
			}

			chosen := legal[rng.Intn(len(legal))]
			tc.From = chosen.From.String()
			dests, err := an.LegalMovesFrom(side, chosen.From)
			if err != nil {
				log.Fatalf("game %d ply %d: %v", g, ply, err)
			}
			for _, sq := range dests {
				tc.Destinations = append(tc.Destinations, sq.String())
			}
			sort.Strings(tc.Destinations)
			testCases = append(testCases, verified(tc, *verify))

			entry := chess.HistoryOf(pos, chosen)
			next, err := chess.Apply(pos, chosen)
			if err != nil {
				log.Fatalf("apply %v: %v", chosen, err)
			}
			pos, rights = next, rights.Next(entry)
		}
	}

	file, err := json.MarshalIndent(testCases, "", "  ")
	if err != nil {
		log.Fatal(err)
	}
	if err := os.WriteFile(*out, file, 0644); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Generated %d test cases from %d random games to %s\n", len(testCases), *numGames, *out)
}

func moveTexts(ms []chess.Move) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.String()
	}
	sort.Strings(out)
	return out
}

// verified stops the run when notnil/chess sees a different legal move set.
func verified(tc TestCase, on bool) TestCase {
	if !on {
		return tc
	}
	opt, err := nchess.FEN(tc.FEN)
	if err != nil {
		log.Fatalf("notnil rejects %s: %v", tc.FEN, err)
	}
	ref := nchess.NewGame(opt)
	var theirs []string
	for _, m := range ref.ValidMoves() {
		theirs = append(theirs, notnilText(m))
	}
	sort.Strings(theirs)
	if fmt.Sprint(theirs) != fmt.Sprint(tc.Legal) {
		log.Fatalf("legal moves differ at %s:\n ours   %v\n notnil %v", tc.FEN, tc.Legal, theirs)
	}
	return tc
}

func notnilText(m *nchess.Move) string {
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
