package game

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"chessbot/internal/chess"
	"chessbot/internal/engine"
)

// Manager keeps all games; their bots share one engine and its caches.
type Manager struct {
	mu    sync.RWMutex
	games map[string]*Game
	eng   *engine.Engine
}

func NewManager(eng *engine.Engine) *Manager {
	if eng == nil {
		eng = engine.NewEngine(engine.DefaultConfig())
	}
	return &Manager{
		games: make(map[string]*Game),
		eng:   eng,
	}
}

func (m *Manager) Engine() *engine.Engine { return m.eng }

// NewGame registers a game from the initial position. In PvE with the player
// on black the bot's opening move is requested right away.
func (m *Manager) NewGame(mode Mode, player chess.Side, s engine.Strategy) (*Game, error) {
	if player != chess.White && player != chess.Black {
		return nil, fmt.Errorf("player side %v: %w", player, chess.ErrIllegalState)
	}
	g := newGame(uuid.NewString(), mode, player, s, m.eng)

	m.mu.Lock()
	m.games[g.ID] = g
	m.mu.Unlock()

	if g.BotToMove() {
		if err := g.RequestBotMove(); err != nil {
			return g, err
		}
	}
	return g, nil
}

func (m *Manager) Get(id string) (*Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.games[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	return g, nil
}

// List returns all games, oldest first.
func (m *Manager) List() []*Game {
	m.mu.RLock()
	out := make([]*Game, 0, len(m.games))
	for _, g := range m.games {
		out = append(out, g)
	}
	m.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.games[id]; !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	delete(m.games, id)
	return nil
}
