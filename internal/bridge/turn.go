package bridge

import (
	"fmt"

	"github.com/rocketscienceinc/bridge-crossing-backend/internal/apperror"
	"github.com/rocketscienceinc/bridge-crossing-backend/internal/entity"
)

// SubmitMove validates a move by token against game and returns the next session state.
// game is never modified; the first failing check wins.
func SubmitMove(game *entity.Game, token string, from, to entity.Position) (*entity.Game, error) {
	color, err := validateMove(game, token, from, to)
	if err != nil {
		return nil, fmt.Errorf("invalid move: %w", err)
	}

	next := game.Clone()
	next.Board = ApplyMove(game.Board, from, to)
	next.Winner = CheckWin(next.Board)
	next.CurrentPlayer = color.Opponent()

	if next.Winner != entity.Empty {
		next.Status = entity.StatusFinished
	}

	return next, nil
}

// validateMove - checks the move and returns the color of the acting token.
func validateMove(game *entity.Game, token string, from, to entity.Position) (entity.Color, error) {
	if err := game.ConfirmPlayingState(); err != nil {
		return entity.Empty, err
	}

	// status and winner are written together, a winner here means the record is inconsistent
	if game.Winner != entity.Empty {
		return entity.Empty, apperror.ErrGameFinished
	}

	color, ok := game.ColorOf(token)
	if !ok {
		return entity.Empty, apperror.ErrNotAParticipant
	}

	if color != game.CurrentPlayer {
		return entity.Empty, apperror.ErrNotYourTurn
	}

	if !from.InBounds() || !to.InBounds() {
		return entity.Empty, fmt.Errorf("%w: %s -> %s", apperror.ErrOutOfBounds, from, to)
	}

	if game.Board.At(from) != color {
		return entity.Empty, apperror.ErrNotYourPiece
	}

	if game.Board.At(to) != entity.Empty {
		return entity.Empty, apperror.ErrDestinationOccupied
	}

	if !IsAdjacent(from, to) {
		return entity.Empty, apperror.ErrNotAdjacent
	}

	return color, nil
}
