package chess

import (
	"errors"
	"fmt"
)

var (
	ErrKingNotFound = errors.New("king not found")
	ErrIllegalState = errors.New("illegal state")
	ErrInvalidMove  = errors.New("invalid move")
	ErrOutOfRange   = errors.New("out of board")
	ErrHistoryOrder = errors.New("history out of order")
	ErrInvalidFEN   = errors.New("invalid FEN")
)

// KingNotFoundError is a modeling fault: every reachable position has one king per side.
type KingNotFoundError struct {
	Side  Side
	Index int
}

func (e *KingNotFoundError) Error() string {
	return fmt.Sprintf("%s king not found at position %d", e.Side, e.Index)
}

func (e *KingNotFoundError) Unwrap() error { return ErrKingNotFound }
