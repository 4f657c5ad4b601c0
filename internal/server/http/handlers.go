package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"chessbot/internal/chess"
	"chessbot/internal/engine"
	"chessbot/internal/server/game"
)

const (
	maxJSONBodyBytes int64 = 1 << 20
	botWaitLimit           = 30 * time.Second
)

// Handler serves the /api/* routes over an in-memory game manager.
type Handler struct {
	games           *game.Manager
	defaultStrategy engine.Strategy
}

func NewHandler(games *game.Manager, defaultStrategy engine.Strategy) *Handler {
	if games == nil {
		games = game.NewManager(nil)
	}
	return &Handler{games: games, defaultStrategy: defaultStrategy}
}

func (h *Handler) Games() *game.Manager { return h.games }

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/api/games" {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		h.handleList(w, r)
		return
	}

	var handle func(http.ResponseWriter, *http.Request)
	switch r.URL.Path {
	case "/api/new_game":
		handle = h.handleNewGame
	case "/api/state":
		handle = h.handleState
	case "/api/moves":
		handle = h.handleMoves
	case "/api/play":
		handle = h.handlePlay
	case "/api/rollback":
		handle = h.handleRollback
	case "/api/bot_move":
		handle = h.handleBotMove
	default:
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if r.Body != nil && r.Body != http.NoBody {
		r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	}
	handle(w, r)
}

func (h *Handler) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req NewGameRequest
	if !decodeJSON(w, r, &req, true) {
		return
	}
	mode, err := game.ParseMode(req.Mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	player := chess.White
	if req.PlayerSide != "" {
		if player, err = chess.ParseSide(req.PlayerSide); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	strategy := h.defaultStrategy
	if req.Strategy != "" {
		if strategy, err = engine.ParseStrategy(req.Strategy); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	g, err := h.games.NewGame(mode, player, strategy)
	if err != nil {
		writeGameError(w, err)
		return
	}
	log.Printf("new game %s: %s, player %s, bot %s", g.ID, mode, player, strategy)
	h.respond(w, g, -1)
}

func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	var req StateRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	g, ok := h.lookup(w, req.GameID)
	if !ok {
		return
	}
	ply := -1
	if req.Ply != nil {
		ply = *req.Ply
		if ply < 0 {
			writeError(w, http.StatusBadRequest, "ply must not be negative")
			return
		}
	}
	h.respond(w, g, ply)
}

func (h *Handler) handleMoves(w http.ResponseWriter, r *http.Request) {
	var req MovesRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	from, err := req.From.square()
	if err != nil {
		writeGameError(w, err)
		return
	}
	g, ok := h.lookup(w, req.GameID)
	if !ok {
		return
	}
	dests, err := g.Destinations(from)
	if err != nil {
		writeGameError(w, err)
		return
	}
	writeJSON(w, MovesResponse{From: req.From, Destinations: squaresToDTO(dests)})
}

func (h *Handler) handlePlay(w http.ResponseWriter, r *http.Request) {
	var req PlayRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	m, err := req.Move.move()
	if err != nil {
		writeGameError(w, err)
		return
	}
	g, ok := h.lookup(w, req.GameID)
	if !ok {
		return
	}
	snap, err := g.Play(m)
	if err != nil {
		writeGameError(w, err)
		return
	}
	if g.BotToMove() && snap.Status == chess.Ongoing {
		if err := g.RequestBotMove(); err != nil {
			log.Printf("game %s: bot request after %v: %v", g.ID, m, err)
		} else if req.Wait && !h.waitBot(w, r, g) {
			return
		}
	}
	h.respond(w, g, -1)
}

func (h *Handler) handleRollback(w http.ResponseWriter, r *http.Request) {
	var req RollbackRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	g, ok := h.lookup(w, req.GameID)
	if !ok {
		return
	}
	if _, err := g.Rollback(); err != nil {
		writeGameError(w, err)
		return
	}
	h.respond(w, g, -1)
}

// handleBotMove lets the bot move for the side to move: the bot's turn in PvE,
// either side in PvP.
func (h *Handler) handleBotMove(w http.ResponseWriter, r *http.Request) {
	var req BotMoveRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	g, ok := h.lookup(w, req.GameID)
	if !ok {
		return
	}
	if err := g.RequestBotMove(); err != nil {
		writeGameError(w, err)
		return
	}
	if req.Wait && !h.waitBot(w, r, g) {
		return
	}
	h.respond(w, g, -1)
}

func (h *Handler) handleList(w http.ResponseWriter, _ *http.Request) {
	games := h.games.List()
	out := make([]GameSummary, 0, len(games))
	for _, g := range games {
		out = append(out, GameSummary{
			GameID:   g.ID,
			Mode:     g.Mode.String(),
			Strategy: g.Strategy.String(),
			Plies:    len(g.History()),
		})
	}
	writeJSON(w, out)
}

func (h *Handler) lookup(w http.ResponseWriter, id string) (*game.Game, bool) {
	if strings.TrimSpace(id) == "" {
		writeError(w, http.StatusBadRequest, "missing game_id")
		return nil, false
	}
	g, err := h.games.Get(id)
	if err != nil {
		writeGameError(w, err)
		return nil, false
	}
	return g, true
}

func (h *Handler) waitBot(w http.ResponseWriter, r *http.Request, g *game.Game) bool {
	ctx, cancel := context.WithTimeout(r.Context(), botWaitLimit)
	defer cancel()
	if err := g.Wait(ctx); err != nil {
		writeError(w, http.StatusGatewayTimeout, "bot did not answer: "+err.Error())
		return false
	}
	return true
}

func (h *Handler) respond(w http.ResponseWriter, g *game.Game, ply int) {
	snap, err := g.Snapshot(ply)
	if err != nil {
		writeGameError(w, err)
		return
	}
	writeJSON(w, gameResponse(g, snap))
}

// decodeJSON reads the request body into v. An empty body is accepted only
// when allowEmpty is set.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any, allowEmpty bool) bool {
	if r.Body == nil || r.Body == http.NoBody {
		if allowEmpty {
			return true
		}
		writeError(w, http.StatusBadRequest, "missing body")
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			writeError(w, http.StatusRequestEntityTooLarge, "request too large")
		case allowEmpty && errors.Is(err, io.EOF):
			return true
		default:
			writeError(w, http.StatusBadRequest, "bad json")
		}
		return false
	}
	return true
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, chess.ErrOutOfRange),
		errors.Is(err, chess.ErrInvalidMove),
		errors.Is(err, chess.ErrHistoryOrder),
		errors.Is(err, game.ErrIllegalMove),
		errors.Is(err, game.ErrUnknownMode),
		errors.Is(err, engine.ErrUnknownStrategy):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrNotYourTurn),
		errors.Is(err, game.ErrGameOver),
		errors.Is(err, game.ErrBotBusy),
		errors.Is(err, game.ErrNoHistory):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func writeGameError(w http.ResponseWriter, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		log.Printf("internal error: %v", err)
	}
	writeError(w, code, err.Error())
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		log.Println("writeJSON error:", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
