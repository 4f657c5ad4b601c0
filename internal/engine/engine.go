package engine

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"runtime"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"chessbot/internal/chess"
)

var (
	ErrUnknownStrategy = errors.New("unknown strategy")
	ErrNotSideToMove   = errors.New("side is not to move")
)

type Config struct {
	// Workers bounds concurrent rating of candidate moves; 0 means GOMAXPROCS.
	Workers int
	// CacheSize bounds the rated-move cache and the exchange table; negative disables both.
	CacheSize int
	// Seed feeds the tie-break RNG; 0 picks a time-based seed.
	Seed int64
}

func DefaultConfig() Config {
	return Config{Workers: runtime.GOMAXPROCS(0), CacheSize: defaultCacheSize}
}

type Engine struct {
	cfg Config

	mu  sync.Mutex // guards rng
	rng *rand.Rand

	ratings   *ratingCache
	exchanges *exchangeTable

	stats *chess.Counters
}

func NewEngine(cfg Config) *Engine {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	if cfg.CacheSize == 0 {
		cfg.CacheSize = defaultCacheSize
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Engine{
		cfg:       cfg,
		rng:       rand.New(rand.NewSource(seed)),
		ratings:   newRatingCache(cfg.CacheSize),
		exchanges: newExchangeTable(cfg.CacheSize),
		stats:     new(chess.Counters),
	}
}

func (e *Engine) Config() Config { return e.cfg }

// Stats exposes the engine's move-generation counters.
func (e *Engine) Stats() *chess.Counters { return e.stats }

// Result of a move choice. With no legal move, Status says why and Move is zero.
type Result struct {
	Move   chess.Move   `json:"move"`
	Best   RatedMove    `json:"best"`
	Rated  []RatedMove  `json:"rated,omitempty"`
	Top    int          `json:"top"`
	Status chess.Status `json:"status"`
	// Mate is set when the chosen move is rated as delivering checkmate.
	Mate     bool          `json:"mate"`
	Strategy Strategy      `json:"strategy"`
	Elapsed  time.Duration `json:"elapsed"`
}

// ChooseMove rates every legal move of side with the strategy and picks one of
// the top-rated moves at random.
func (e *Engine) ChooseMove(ctx context.Context, p *chess.Position, r chess.Rights, side chess.Side, s Strategy) (Result, error) {
	start := time.Now()
	if side != p.SideToMove() {
		return Result{}, fmt.Errorf("%w: %v at position %d", ErrNotSideToMove, side, p.Index())
	}
	rt, err := e.raterFor(s)
	if err != nil {
		return Result{}, err
	}

	an := chess.NewAnalyzer(p, r).WithCounters(e.stats)
	moves, err := an.LegalMoves(side)
	if err != nil {
		return Result{}, err
	}
	if len(moves) == 0 {
		st, err := an.Status(side)
		if err != nil {
			return Result{}, err
		}
		return Result{Status: st, Strategy: s, Elapsed: time.Since(start)}, nil
	}

	rated, err := rt.rate(ctx, p, r, side, moves)
	if err != nil {
		return Result{}, err
	}

	// stable order: highest total first, generation order among equals
	sort.SliceStable(rated, func(i, j int) bool { return rated[i].Total > rated[j].Total })
	top := 1
	for top < len(rated) && rated[top].Total == rated[0].Total {
		top++
	}
	best := rated[e.intn(top)]

	return Result{
		Move:     best.Move,
		Best:     best,
		Rated:    rated,
		Top:      top,
		Status:   chess.Ongoing,
		Mate:     best.Has(Checkmate),
		Strategy: s,
		Elapsed:  time.Since(start),
	}, nil
}

func (e *Engine) intn(n int) int {
	if n <= 1 {
		return 0
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rng.Intn(n)
}

// rateEach rates moves concurrently through the rating cache. Results keep
// the order of moves.
func (e *Engine) rateEach(ctx context.Context, p *chess.Position, r chess.Rights, s Strategy, moves []chess.Move, fn func(chess.Move) (RatedMove, error)) ([]RatedMove, error) {
	out := make([]RatedMove, len(moves))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Workers)
	for i, m := range moves {
		i, m := i, m
		key := ratingKey(p, r, m, s)
		if rm, ok := e.ratings.get(key); ok {
			out[i] = rm
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rm, err := fn(m)
			if err != nil {
				return fmt.Errorf("rate %v: %w", m, err)
			}
			e.ratings.store(key, rm)
			out[i] = rm
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
