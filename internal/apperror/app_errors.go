package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidState     = errors.New("invalid game state")
	ErrNotAParticipant  = errors.New("you are not a player in this game")
	ErrNotYourTurn      = errors.New("it's not your turn")
	ErrIllegalMove      = errors.New("illegal move")
	ErrInvalidToken     = errors.New("player token is required")
	ErrConflict         = errors.New("game was modified concurrently")
	ErrInvalidArguments = errors.New("invalid arguments")
)

// Reasons wrap the coarse kind, so errors.Is matches both.
var (
	ErrGameNotWaiting = fmt.Errorf("%w: game is not waiting for players", ErrInvalidState)
	ErrGameNotActive  = fmt.Errorf("%w: game is not active", ErrInvalidState)
	ErrGameFinished   = fmt.Errorf("%w: game is already finished", ErrInvalidState)

	ErrNotYourPiece        = fmt.Errorf("%w: that is not your piece", ErrIllegalMove)
	ErrDestinationOccupied = fmt.Errorf("%w: destination is not empty", ErrIllegalMove)
	ErrNotAdjacent         = fmt.Errorf("%w: nodes are not connected", ErrIllegalMove)
	ErrOutOfBounds         = fmt.Errorf("%w: position is off the board", ErrIllegalMove)
)

const (
	KindNotFound        = "not_found"
	KindInvalidState    = "invalid_state"
	KindNotAParticipant = "not_a_participant"
	KindNotYourTurn     = "not_your_turn"
	KindIllegalMove     = "illegal_move"
	KindInvalidToken    = "invalid_token"
	KindConflict        = "conflict"
	KindBadRequest      = "bad_request"
	KindInternal        = "internal"
)

// Kind classifies err into a stable string the transports hand to clients.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalidState):
		return KindInvalidState
	case errors.Is(err, ErrNotAParticipant):
		return KindNotAParticipant
	case errors.Is(err, ErrNotYourTurn):
		return KindNotYourTurn
	case errors.Is(err, ErrIllegalMove):
		return KindIllegalMove
	case errors.Is(err, ErrInvalidToken):
		return KindInvalidToken
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrInvalidArguments):
		return KindBadRequest
	default:
		return KindInternal
	}
}
