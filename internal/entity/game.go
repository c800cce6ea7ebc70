package entity

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/bridge-crossing-backend/internal/apperror"
)

const (
	StatusWaiting  = "waiting"
	StatusPlaying  = "playing"
	StatusFinished = "finished"
)

const (
	Rows = 3
	Cols = 4

	PiecesPerPlayer = 3
)

var ErrUnknownGameStatus = errors.New("unknown game status")

// Color is both a player and the content of a board cell.
type Color string

const (
	Empty  Color = ""
	Purple Color = "purple"
	Green  Color = "green"
)

func (that Color) Opponent() Color {
	switch that {
	case Purple:
		return Green
	case Green:
		return Purple
	default:
		return Empty
	}
}

func (that Color) IsPlayer() bool {
	return that == Purple || that == Green
}

type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (that Position) InBounds() bool {
	return that.Row >= 0 && that.Row < Rows && that.Col >= 0 && that.Col < Cols
}

func (that Position) String() string {
	return fmt.Sprintf("(%d,%d)", that.Row, that.Col)
}

// Board is a value type: assigning it copies every cell.
type Board [Rows][Cols]Color

// InitialBoard - purple holds column 0, green holds column 3.
func InitialBoard() Board {
	var board Board
	for row := range Rows {
		board[row][0] = Purple
		board[row][Cols-1] = Green
	}

	return board
}

// At - callers must check pos.InBounds first.
func (that Board) At(pos Position) Color {
	return that[pos.Row][pos.Col]
}

func (that Board) Count(color Color) int {
	count := 0
	for _, row := range that {
		for _, cell := range row {
			if cell == color {
				count++
			}
		}
	}

	return count
}

// Game is one shared session record. Every field is a value, so a copy is a full snapshot.
type Game struct {
	ID            string `json:"id"`
	Board         Board  `json:"board"`
	CurrentPlayer Color  `json:"current_player"`
	Winner        Color  `json:"winner"`
	PlayerPurple  string `json:"player_purple"`
	PlayerGreen   string `json:"player_green"`
	Status        string `json:"status"`
	InviteCode    string `json:"invite_code"`
}

func NewGame(id, inviteCode, token string) *Game {
	return &Game{
		ID:            id,
		Board:         InitialBoard(),
		CurrentPlayer: Purple,
		Winner:        Empty,
		PlayerPurple:  token,
		Status:        StatusWaiting,
		InviteCode:    inviteCode,
	}
}

func (that *Game) Clone() *Game {
	clone := *that
	return &clone
}

func (that *Game) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *Game) IsPlaying() bool {
	return that.Status == StatusPlaying
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) ConfirmPlayingState() error {
	switch {
	case that.IsPlaying():
		return nil
	case that.IsWaiting(), that.IsFinished():
		return apperror.ErrGameNotActive
	default:
		return fmt.Errorf("%w: %s", ErrUnknownGameStatus, that.Status)
	}
}

// ColorOf - token equality is the only identity check there is.
func (that *Game) ColorOf(token string) (Color, bool) {
	switch {
	case token == "":
		return Empty, false
	case token == that.PlayerPurple:
		return Purple, true
	case token == that.PlayerGreen:
		return Green, true
	default:
		return Empty, false
	}
}

// Seat returns the session after token joins it and the color token plays.
// A token that is already seated gets its color back and an unchanged copy.
func (that *Game) Seat(token string) (*Game, Color, error) {
	if token == "" {
		return nil, Empty, apperror.ErrInvalidToken
	}

	if color, ok := that.ColorOf(token); ok {
		return that.Clone(), color, nil
	}

	if !that.IsWaiting() || that.PlayerGreen != "" {
		return nil, Empty, apperror.ErrGameNotWaiting
	}

	next := that.Clone()
	next.PlayerGreen = token
	next.Status = StatusPlaying

	return next, Green, nil
}
