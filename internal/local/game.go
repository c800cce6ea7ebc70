// Package local runs a bridge crossing match on one device, both players taking
// turns at the same keyboard. Moves go through the same bridge.SubmitMove the
// server uses, so the two variants cannot disagree on legality.
package local

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/bridge-crossing-backend/internal/apperror"
	"github.com/rocketscienceinc/bridge-crossing-backend/internal/bridge"
	"github.com/rocketscienceinc/bridge-crossing-backend/internal/entity"
)

const (
	seatPurple = "local-purple"
	seatGreen  = "local-green"
)

var ErrNothingSelected = fmt.Errorf("%w: select one of your pieces first", apperror.ErrIllegalMove)

type Game struct {
	state    *entity.Game
	selected *entity.Position
}

func NewGame() *Game {
	game := &Game{}
	game.Reset()

	return game
}

// Reset puts every piece back home and gives purple the first move.
func (that *Game) Reset() {
	state := entity.NewGame("local", "", seatPurple)
	state.PlayerGreen = seatGreen
	state.Status = entity.StatusPlaying

	that.state = state
	that.selected = nil
}

func (that *Game) Board() entity.Board {
	return that.state.Board
}

func (that *Game) CurrentPlayer() entity.Color {
	return that.state.CurrentPlayer
}

func (that *Game) Winner() entity.Color {
	return that.state.Winner
}

func (that *Game) Selected() (entity.Position, bool) {
	if that.selected == nil {
		return entity.Position{}, false
	}

	return *that.selected, true
}

// Select picks up one of the current player's pieces. Selecting the held piece
// again puts it down; selecting another own piece switches to it.
func (that *Game) Select(pos entity.Position) error {
	if that.state.IsFinished() {
		return apperror.ErrGameFinished
	}

	if !pos.InBounds() {
		return apperror.ErrOutOfBounds
	}

	if that.state.Board.At(pos) != that.state.CurrentPlayer {
		return apperror.ErrNotYourPiece
	}

	if that.selected != nil && *that.selected == pos {
		that.selected = nil
		return nil
	}

	that.selected = &pos

	return nil
}

// MoveTo moves the selected piece. A rejected move keeps the selection.
func (that *Game) MoveTo(to entity.Position) error {
	if that.state.IsFinished() {
		return apperror.ErrGameFinished
	}

	if that.selected == nil {
		return ErrNothingSelected
	}

	next, err := bridge.SubmitMove(that.state, that.seat(), *that.selected, to)
	if err != nil {
		return err
	}

	that.state = next
	that.selected = nil

	return nil
}

// Click is the single-input control: own pieces are selected, anything else is a move target.
func (that *Game) Click(pos entity.Position) error {
	if pos.InBounds() && that.state.Board.At(pos) == that.state.CurrentPlayer {
		return that.Select(pos)
	}

	err := that.MoveTo(pos)
	if errors.Is(err, ErrNothingSelected) && pos.InBounds() && that.state.Board.At(pos) != entity.Empty {
		return apperror.ErrNotYourPiece
	}

	return err
}

// ValidMoves lists where the selected piece may go; nil when nothing is selected.
func (that *Game) ValidMoves() []entity.Position {
	if that.selected == nil || that.state.IsFinished() {
		return nil
	}

	return bridge.ValidMoves(that.state.Board, *that.selected)
}

func (that *Game) seat() string {
	if that.state.CurrentPlayer == entity.Green {
		return seatGreen
	}

	return seatPurple
}
