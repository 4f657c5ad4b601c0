package httpserver

import (
	"fmt"

	"chessbot/internal/chess"
	"chessbot/internal/engine"
	"chessbot/internal/server/game"
)

// SquareDTO is a board coordinate as the frontend sends it; row 0 is white's back rank.
type SquareDTO struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (s SquareDTO) square() (chess.Square, error) {
	sq := chess.Sq(s.Row, s.Col)
	if !sq.OnBoard() {
		return chess.Square{}, fmt.Errorf("%w: row %d col %d", chess.ErrOutOfRange, s.Row, s.Col)
	}
	return sq, nil
}

func squareToDTO(sq chess.Square) SquareDTO { return SquareDTO{Row: sq.Row, Col: sq.Col} }

func squaresToDTO(sqs []chess.Square) []SquareDTO {
	out := make([]SquareDTO, len(sqs))
	for i, sq := range sqs {
		out[i] = squareToDTO(sq)
	}
	return out
}

// MoveDTO is either a square pair or a long-algebraic string such as "e7e8q".
type MoveDTO struct {
	From      *SquareDTO `json:"from,omitempty"`
	To        *SquareDTO `json:"to,omitempty"`
	Promotion string     `json:"promotion,omitempty"`
	UCI       string     `json:"uci,omitempty"`
}

func (m MoveDTO) move() (chess.Move, error) {
	if m.UCI != "" {
		return chess.ParseMove(m.UCI)
	}
	if m.From == nil || m.To == nil {
		return chess.Move{}, fmt.Errorf("%w: move needs from and to", chess.ErrInvalidMove)
	}
	from, err := m.From.square()
	if err != nil {
		return chess.Move{}, err
	}
	to, err := m.To.square()
	if err != nil {
		return chess.Move{}, err
	}
	mv := chess.Move{From: from, To: to}
	if m.Promotion != "" {
		k, err := chess.ParseKind(m.Promotion)
		if err != nil || !k.IsPromotionTarget() {
			return chess.Move{}, fmt.Errorf("%w: promotion %q", chess.ErrInvalidMove, m.Promotion)
		}
		mv.Promotion = k
	}
	return mv, nil
}

func moveToDTO(m chess.Move) MoveDTO {
	from, to := squareToDTO(m.From), squareToDTO(m.To)
	dto := MoveDTO{From: &from, To: &to, UCI: m.String()}
	if m.Promotion != chess.NoKind {
		dto.Promotion = m.Promotion.String()
	}
	return dto
}

type CellDTO struct {
	Row   int    `json:"row"`
	Col   int    `json:"col"`
	Piece string `json:"piece,omitempty"` // FEN letter
}

func cellsToDTO(p *chess.Position) []CellDTO {
	cells := p.Cells()
	out := make([]CellDTO, len(cells))
	for i, c := range cells {
		out[i] = CellDTO{Row: c.Square.Row, Col: c.Square.Col}
		if !c.IsEmpty() {
			out[i].Piece = string(c.Piece.Letter())
		}
	}
	return out
}

type NewGameRequest struct {
	Mode       string `json:"mode"`        // "pvp" / "pve"
	PlayerSide string `json:"player_side"` // "white" / "black"
	Strategy   string `json:"strategy"`
}

type StateRequest struct {
	GameID string `json:"game_id"`
	Ply    *int   `json:"ply,omitempty"` // nil = current position
}

type MovesRequest struct {
	GameID string    `json:"game_id"`
	From   SquareDTO `json:"from"`
}

type MovesResponse struct {
	From         SquareDTO   `json:"from"`
	Destinations []SquareDTO `json:"destinations"`
}

type PlayRequest struct {
	GameID string  `json:"game_id"`
	Move   MoveDTO `json:"move"`
	// Wait blocks until the bot reply, if one was triggered, is on the board.
	Wait bool `json:"wait,omitempty"`
}

type RollbackRequest struct {
	GameID string `json:"game_id"`
}

type BotMoveRequest struct {
	GameID string `json:"game_id"`
	Wait   bool   `json:"wait,omitempty"`
}

type RatingDTO struct {
	Param string `json:"param"`
	Value int    `json:"value"`
	Note  string `json:"note,omitempty"`
}

// BotDTO describes the last bot decision.
type BotDTO struct {
	Move     *MoveDTO    `json:"move,omitempty"`
	Total    int         `json:"total"`
	Top      int         `json:"top"`
	Mate     bool        `json:"mate"`
	Strategy string      `json:"strategy"`
	Ratings  []RatingDTO `json:"ratings,omitempty"`
	TimeMs   int64       `json:"time_ms"`
	Error    string      `json:"error,omitempty"`
}

func botToDTO(res *engine.Result, err error) *BotDTO {
	if err != nil {
		return &BotDTO{Error: err.Error()}
	}
	if res == nil {
		return nil
	}
	dto := &BotDTO{
		Total:    res.Best.Total,
		Top:      res.Top,
		Mate:     res.Mate,
		Strategy: res.Strategy.String(),
		TimeMs:   res.Elapsed.Milliseconds(),
	}
	if res.Status == chess.Ongoing {
		mv := moveToDTO(res.Move)
		dto.Move = &mv
	}
	for _, p := range res.Best.Params() {
		rt := res.Best.Ratings[p]
		dto.Ratings = append(dto.Ratings, RatingDTO{Param: p.String(), Value: rt.Value, Note: rt.Note})
	}
	return dto
}

// GameResponse is returned by every endpoint that shows a board.
type GameResponse struct {
	GameID      string    `json:"game_id"`
	Mode        string    `json:"mode"`
	PlayerSide  string    `json:"player_side"`
	Strategy    string    `json:"strategy"`
	Ply         int       `json:"ply"`
	Position    string    `json:"position"` // FEN
	ToMove      string    `json:"to_move"`
	Status      string    `json:"status"` // "ongoing" / "checkmate" / "stalemate"
	InCheck     bool      `json:"in_check"`
	BotThinking bool      `json:"bot_thinking"`
	Cells       []CellDTO `json:"cells"`
	History     []string  `json:"history"`
	LastBot     *BotDTO   `json:"last_bot,omitempty"`
}

func gameResponse(g *game.Game, snap game.Snapshot) GameResponse {
	history := g.History()
	moves := make([]string, 0, len(history))
	for _, e := range history {
		moves = append(moves, e.Move().String())
	}
	res, err := g.LastBotResult()
	return GameResponse{
		GameID:      g.ID,
		Mode:        g.Mode.String(),
		PlayerSide:  g.PlayerSide.String(),
		Strategy:    g.Strategy.String(),
		Ply:         snap.Ply,
		Position:    snap.FEN(),
		ToMove:      snap.SideToMove().String(),
		Status:      snap.Status.String(),
		InCheck:     snap.InCheck,
		BotThinking: g.BotThinking(),
		Cells:       cellsToDTO(snap.Position),
		History:     moves,
		LastBot:     botToDTO(res, err),
	}
}

type GameSummary struct {
	GameID   string `json:"game_id"`
	Mode     string `json:"mode"`
	Strategy string `json:"strategy"`
	Plies    int    `json:"plies"`
}
