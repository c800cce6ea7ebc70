package bridge

import (
	"fmt"

	"github.com/rocketscienceinc/bridge-crossing-backend/internal/entity"
)

// IsLegalMove ignores piece ownership, so it also serves move previews without a player.
func IsLegalMove(board entity.Board, from, to entity.Position) bool {
	if !from.InBounds() || !to.InBounds() {
		return false
	}

	return board.At(to) == entity.Empty && IsAdjacent(from, to)
}

// ValidMoves returns the empty nodes reachable from from in one step.
func ValidMoves(board entity.Board, from entity.Position) []entity.Position {
	moves := make([]entity.Position, 0, 4)
	for _, neighbor := range Neighbors(from) {
		if board.At(neighbor) == entity.Empty {
			moves = append(moves, neighbor)
		}
	}

	return moves
}

// ApplyMove returns a copy of board with the piece at from moved to to.
// Moving from an empty node is a caller bug.
func ApplyMove(board entity.Board, from, to entity.Position) entity.Board {
	piece := board.At(from)
	if piece == entity.Empty {
		panic(fmt.Sprintf("bridge: no piece at %s", from))
	}

	board[from.Row][from.Col] = entity.Empty
	board[to.Row][to.Col] = piece

	return board
}

// CheckWin - purple wins by filling green's home column, green by filling purple's.
// Purple is always checked first.
func CheckWin(board entity.Board) entity.Color {
	if columnHeldBy(board, entity.Cols-1, entity.Purple) {
		return entity.Purple
	}

	if columnHeldBy(board, 0, entity.Green) {
		return entity.Green
	}

	return entity.Empty
}

func columnHeldBy(board entity.Board, col int, color entity.Color) bool {
	for row := range entity.Rows {
		if board[row][col] != color {
			return false
		}
	}

	return true
}
