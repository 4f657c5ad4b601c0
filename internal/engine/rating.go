package engine

import (
	"fmt"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"chessbot/internal/chess"
)

// Param names one rating component.
type Param int

const (
	MaterialSimpleMove Param = iota
	MaterialSimpleFreebie
	MaterialSimpleFeed
	MaterialSimpleExchange
	MaterialDeepExchange
	InvertedMaterial
	ExchangeDiff
	AttackDefenseless
	SaveBotPiece
	UselessVictim
	Check
	Checkmate
	StalemateAhead
	GreedyCapture
)

const materialFactor = 100

var paramFactors = [...]int{
	MaterialSimpleMove:     materialFactor,
	MaterialSimpleFreebie:  materialFactor,
	MaterialSimpleFeed:     materialFactor,
	MaterialSimpleExchange: materialFactor,
	MaterialDeepExchange:   materialFactor,
	InvertedMaterial:       -materialFactor, // opponent's gain is our loss
	ExchangeDiff:           100,
	AttackDefenseless:      100,
	SaveBotPiece:           100,
	UselessVictim:          -100,
	Check:                  5,
	Checkmate:              chess.CheckmateValue,
	StalemateAhead:         -materialFactor, // the lead is thrown away
	GreedyCapture:          1,
}

var paramNames = [...]string{
	MaterialSimpleMove:     "material_simple_move",
	MaterialSimpleFreebie:  "material_simple_freebie",
	MaterialSimpleFeed:     "material_simple_feed",
	MaterialSimpleExchange: "material_simple_exchange",
	MaterialDeepExchange:   "material_deep_exchange",
	InvertedMaterial:       "inverted_material",
	ExchangeDiff:           "exchange_diff",
	AttackDefenseless:      "attack_defenseless",
	SaveBotPiece:           "save_bot_piece",
	UselessVictim:          "useless_victim",
	Check:                  "check",
	Checkmate:              "checkmate",
	StalemateAhead:         "stalemate_ahead",
	GreedyCapture:          "greedy_capture",
}

func (p Param) Factor() int {
	if p < 0 || int(p) >= len(paramFactors) {
		return 0
	}
	return paramFactors[p]
}

func (p Param) String() string {
	if p < 0 || int(p) >= len(paramNames) {
		return fmt.Sprintf("param(%d)", int(p))
	}
	return paramNames[p]
}

// IsMaterial reports whether p is one of the exchange-derived material params.
func (p Param) IsMaterial() bool {
	return p >= MaterialSimpleMove && p <= MaterialDeepExchange
}

// Rating is one scored component and its contribution to the total.
type Rating struct {
	Param  Param  `json:"param"`
	Value  int    `json:"value"`
	Weight int    `json:"weight"`
	Note   string `json:"note,omitempty"`
}

// RatedMove is a candidate with its rating components. The first write per
// param wins.
type RatedMove struct {
	Move    chess.Move       `json:"move"`
	Ratings map[Param]Rating `json:"ratings,omitempty"`
	Total   int              `json:"total"`
}

func newRatedMove(m chess.Move) RatedMove {
	return RatedMove{Move: m}
}

func (rm *RatedMove) Update(p Param, value int) {
	rm.UpdateNote(p, value, "")
}

func (rm *RatedMove) UpdateNote(p Param, value int, note string) {
	if _, ok := rm.Ratings[p]; ok {
		return
	}
	if rm.Ratings == nil {
		rm.Ratings = make(map[Param]Rating, 4)
	}
	r := Rating{Param: p, Value: value, Weight: value * p.Factor(), Note: note}
	rm.Ratings[p] = r
	rm.Total += r.Weight
}

func (rm RatedMove) Has(p Param) bool {
	_, ok := rm.Ratings[p]
	return ok
}

// Params lists the recorded params in declaration order.
func (rm RatedMove) Params() []Param {
	keys := maps.Keys(rm.Ratings)
	slices.Sort(keys)
	return keys
}

func (rm RatedMove) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%v total=%d", rm.Move, rm.Total)
	for _, p := range rm.Params() {
		r := rm.Ratings[p]
		fmt.Fprintf(&sb, " %v=%d", p, r.Value)
		if r.Note != "" {
			fmt.Fprintf(&sb, "(%s)", r.Note)
		}
	}
	return sb.String()
}

// MarshalText makes params readable as JSON keys and values.
func (p Param) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}
