package game

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"chessbot/internal/chess"
	"chessbot/internal/engine"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrNotYourTurn  = errors.New("not your turn")
	ErrIllegalMove  = errors.New("illegal move")
	ErrGameOver     = errors.New("game is over")
	ErrBotBusy      = errors.New("bot is already thinking")
	ErrNoHistory    = errors.New("nothing to roll back")
	ErrUnknownMode  = errors.New("unknown game mode")
)

type Mode int

const (
	PvP Mode = iota
	PvE
)

func (m Mode) String() string {
	if m == PvE {
		return "pve"
	}
	return "pvp"
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "pvp":
		return PvP, nil
	case "pve", "bot":
		return PvE, nil
	}
	return PvP, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Snapshot is a read-only view of a game at one ply.
type Snapshot struct {
	Ply      int
	Position *chess.Position
	Rights   chess.Rights
	Status   chess.Status
	InCheck  bool
}

func (s Snapshot) SideToMove() chess.Side { return s.Position.SideToMove() }

func (s Snapshot) FEN() string { return chess.EncodeFEN(s.Position, s.Rights) }

func snapshotOf(p *chess.Position, r chess.Rights) (Snapshot, error) {
	side := p.SideToMove()
	an := chess.NewAnalyzer(p, r)
	st, err := an.Status(side)
	if err != nil {
		return Snapshot{}, err
	}
	check, err := an.InCheck(side)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Ply: p.Index(), Position: p, Rights: r, Status: st, InCheck: check}, nil
}

// Game is one match. In PvE the bot plays the side opposite PlayerSide.
type Game struct {
	ID         string
	Mode       Mode
	PlayerSide chess.Side
	Strategy   engine.Strategy
	CreatedAt  time.Time

	eng *engine.Engine

	mu        sync.RWMutex
	updatedAt time.Time
	history   []chess.HistoryEntry
	pos       *chess.Position
	rights    chess.Rights

	botBusy bool
	botDone chan struct{} // closed when the running bot finishes
	lastBot *engine.Result
	lastErr error
}

func newGame(id string, mode Mode, player chess.Side, s engine.Strategy, eng *engine.Engine) *Game {
	now := time.Now()
	return &Game{
		ID:         id,
		Mode:       mode,
		PlayerSide: player,
		Strategy:   s,
		CreatedAt:  now,
		eng:        eng,
		updatedAt:  now,
		pos:        chess.NewInitialPosition(),
		rights:     chess.InitialRights(),
	}
}

func (g *Game) UpdatedAt() time.Time {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.updatedAt
}

// History returns a copy of the moves played so far.
func (g *Game) History() []chess.HistoryEntry {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]chess.HistoryEntry, len(g.history))
	copy(out, g.history)
	return out
}

// Snapshot returns the game at ply; a negative ply means the current position.
func (g *Game) Snapshot(ply int) (Snapshot, error) {
	g.mu.RLock()
	if ply < 0 || ply == len(g.history) {
		p, r := g.pos, g.rights
		g.mu.RUnlock()
		return snapshotOf(p, r)
	}
	history := make([]chess.HistoryEntry, len(g.history))
	copy(history, g.history)
	g.mu.RUnlock()

	p, r, err := chess.ReplayTo(history, ply)
	if err != nil {
		return Snapshot{}, err
	}
	return snapshotOf(p, r)
}

// Destinations lists where the piece on from may legally go now.
func (g *Game) Destinations(from chess.Square) ([]chess.Square, error) {
	g.mu.RLock()
	p, r := g.pos, g.rights
	g.mu.RUnlock()
	return chess.LegalMovesFrom(p, r, p.SideToMove(), from)
}

// BotToMove reports whether the side to move belongs to the bot.
func (g *Game) BotToMove() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.botToMoveLocked()
}

func (g *Game) botToMoveLocked() bool {
	return g.Mode == PvE && g.pos.SideToMove() != g.PlayerSide
}

// Play applies a player's move. A pawn reaching the last row without a
// promotion kind becomes a queen.
func (g *Game) Play(m chess.Move) (Snapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.botBusy {
		return Snapshot{}, ErrBotBusy
	}
	if g.botToMoveLocked() {
		return Snapshot{}, ErrNotYourTurn
	}
	if m.Promotion == chess.NoKind && m.IsPromotion(g.pos) {
		m.Promotion = chess.Queen
	}
	return g.applyLocked(m)
}

func (g *Game) applyLocked(m chess.Move) (Snapshot, error) {
	side := g.pos.SideToMove()
	st, err := chess.GameStatus(g.pos, g.rights, side)
	if err != nil {
		return Snapshot{}, err
	}
	if st != chess.Ongoing {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrGameOver, st)
	}
	if pc := g.pos.PieceAt(m.From); pc != chess.NoPiece && pc.Side() != side {
		return Snapshot{}, fmt.Errorf("%w: %v moves %s", ErrNotYourTurn, side, pc)
	}
	ok, err := chess.IsLegal(g.pos, g.rights, m)
	if err != nil {
		return Snapshot{}, err
	}
	if !ok {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrIllegalMove, m)
	}
	entry := chess.HistoryOf(g.pos, m)
	np, err := chess.Apply(g.pos, m)
	if err != nil {
		return Snapshot{}, err
	}
	g.history = append(g.history, entry)
	g.pos = np
	g.rights = g.rights.Next(entry)
	g.updatedAt = time.Now()
	return snapshotOf(g.pos, g.rights)
}

// Rollback drops the last move. In PvE it keeps dropping until the player is
// to move again, so a bot reply is undone together with the player's move.
func (g *Game) Rollback() (Snapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.botBusy {
		return Snapshot{}, ErrBotBusy
	}
	if len(g.history) == 0 {
		return Snapshot{}, ErrNoHistory
	}
	n := len(g.history) - 1
	if g.Mode == PvE {
		for n > 0 && plySide(n) != g.PlayerSide {
			n--
		}
		if plySide(n) != g.PlayerSide {
			// the bot's opening move stays
			return Snapshot{}, ErrNoHistory
		}
	}
	p, r, err := chess.ReplayTo(g.history, n)
	if err != nil {
		return Snapshot{}, err
	}
	g.history = g.history[:n]
	g.pos, g.rights = p, r
	g.updatedAt = time.Now()
	return snapshotOf(p, r)
}

func plySide(ply int) chess.Side {
	if ply%2 == 0 {
		return chess.White
	}
	return chess.Black
}

func (g *Game) Status() (chess.Status, error) {
	g.mu.RLock()
	p, r := g.pos, g.rights
	g.mu.RUnlock()
	return chess.GameStatus(p, r, p.SideToMove())
}

// BotThinking reports whether a bot move is in flight.
func (g *Game) BotThinking() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.botBusy
}

// LastBotResult is the outcome of the most recent finished bot run, nil if
// the bot has not run yet.
func (g *Game) LastBotResult() (*engine.Result, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.lastBot, g.lastErr
}

// RequestBotMove starts the bot for the side to move in the background. At
// most one bot run is in flight per game.
func (g *Game) RequestBotMove() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.botBusy {
		return ErrBotBusy
	}
	if g.Mode == PvE && !g.botToMoveLocked() {
		return ErrNotYourTurn
	}
	st, err := chess.GameStatus(g.pos, g.rights, g.pos.SideToMove())
	if err != nil {
		return err
	}
	if st != chess.Ongoing {
		return fmt.Errorf("%w: %v", ErrGameOver, st)
	}
	g.botBusy = true
	g.botDone = make(chan struct{})
	go g.runBot(g.pos, g.rights, len(g.history), g.botDone)
	return nil
}

func (g *Game) runBot(p *chess.Position, r chess.Rights, ply int, done chan struct{}) {
	defer close(done)
	side := p.SideToMove()
	log.Printf("game %s: bot (%s) thinking for %s at ply %d", g.ID, g.Strategy, side, ply)
	res, err := g.eng.ChooseMove(context.Background(), p, r, side, g.Strategy)

	g.mu.Lock()
	defer g.mu.Unlock()
	g.botBusy = false
	g.lastBot, g.lastErr = &res, err
	if err != nil {
		log.Printf("game %s: bot failed: %v", g.ID, err)
		return
	}
	if res.Status != chess.Ongoing {
		log.Printf("game %s: bot has no move (%s)", g.ID, res.Status)
		return
	}
	if len(g.history) != ply {
		log.Printf("game %s: bot move %v dropped, game moved on", g.ID, res.Move)
		return
	}
	if _, err := g.applyLocked(res.Move); err != nil {
		g.lastErr = err
		log.Printf("game %s: bot move %v rejected: %v", g.ID, res.Move, err)
		return
	}
	log.Printf("game %s: bot played %v (total %d, %d top) in %v", g.ID, res.Move, res.Best.Total, res.Top, res.Elapsed)
}

// Wait blocks until the in-flight bot run, if any, has finished.
func (g *Game) Wait(ctx context.Context) error {
	g.mu.RLock()
	done := g.botDone
	g.mu.RUnlock()
	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
