package bridge

import "github.com/rocketscienceinc/bridge-crossing-backend/internal/entity"

// BridgeRow is the only row with full horizontal connectivity.
const BridgeRow = 1

// Neighbors returns the nodes connected to pos. The graph is fixed and symmetric.
func Neighbors(pos entity.Position) []entity.Position {
	if !pos.InBounds() {
		return nil
	}

	neighbors := make([]entity.Position, 0, 4)

	// vertical links are never broken
	if pos.Row > 0 {
		neighbors = append(neighbors, entity.Position{Row: pos.Row - 1, Col: pos.Col})
	}
	if pos.Row < entity.Rows-1 {
		neighbors = append(neighbors, entity.Position{Row: pos.Row + 1, Col: pos.Col})
	}

	if pos.Row == BridgeRow {
		if pos.Col > 0 {
			neighbors = append(neighbors, entity.Position{Row: pos.Row, Col: pos.Col - 1})
		}
		if pos.Col < entity.Cols-1 {
			neighbors = append(neighbors, entity.Position{Row: pos.Row, Col: pos.Col + 1})
		}

		return neighbors
	}

	// outer rows only link 0-1 and 2-3, the gap between 1 and 2 forces play through the bridge
	switch pos.Col {
	case 0:
		neighbors = append(neighbors, entity.Position{Row: pos.Row, Col: 1})
	case 1:
		neighbors = append(neighbors, entity.Position{Row: pos.Row, Col: 0})
	case 2:
		neighbors = append(neighbors, entity.Position{Row: pos.Row, Col: 3})
	case 3:
		neighbors = append(neighbors, entity.Position{Row: pos.Row, Col: 2})
	}

	return neighbors
}

func IsAdjacent(from, to entity.Position) bool {
	for _, neighbor := range Neighbors(from) {
		if neighbor == to {
			return true
		}
	}

	return false
}

// AllPositions lists every node row by row.
func AllPositions() []entity.Position {
	positions := make([]entity.Position, 0, entity.Rows*entity.Cols)
	for row := range entity.Rows {
		for col := range entity.Cols {
			positions = append(positions, entity.Position{Row: row, Col: col})
		}
	}

	return positions
}
