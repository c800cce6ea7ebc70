// Command bridge-local plays a hot-seat match in the terminal.
//
// Enter "row col" to pick up one of your pieces, then "row col" again to move it.
// "reset" starts over and "quit" exits.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/bridge-crossing-backend/internal/entity"
	"github.com/rocketscienceinc/bridge-crossing-backend/internal/local"
)

var errBadInput = errors.New(`enter "row col", "reset" or "quit"`)

func main() {
	hints := flag.Bool("hints", true, "mark the nodes the selected piece can reach")
	flag.Parse()

	if err := run(os.Stdin, os.Stdout, *hints); err != nil {
		fmt.Fprintf(os.Stderr, "bridge-local: %v\n", err)
		os.Exit(1)
	}
}

func run(in io.Reader, out io.Writer, hints bool) error {
	game := local.NewGame()
	scanner := bufio.NewScanner(in)

	render(out, game, hints)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		switch line {
		case "":
			continue
		case "quit", "exit":
			return nil
		case "reset":
			game.Reset()
			render(out, game, hints)
			continue
		}

		pos, err := parsePosition(line)
		if err == nil {
			err = game.Click(pos)
		}

		if err != nil {
			fmt.Fprintf(out, "! %v\n", err)
			continue
		}

		render(out, game, hints)
	}

	return scanner.Err()
}

func parsePosition(line string) (entity.Position, error) {
	fields := strings.Fields(strings.ReplaceAll(line, ",", " "))
	if len(fields) != 2 {
		return entity.Position{}, errBadInput
	}

	row, err := strconv.Atoi(fields[0])
	if err != nil {
		return entity.Position{}, errBadInput
	}

	col, err := strconv.Atoi(fields[1])
	if err != nil {
		return entity.Position{}, errBadInput
	}

	return entity.Position{Row: row, Col: col}, nil
}

func render(out io.Writer, game *local.Game, hints bool) {
	board := game.Board()
	selected, hasSelection := game.Selected()

	targets := make(map[entity.Position]bool)
	if hints {
		for _, p := range game.ValidMoves() {
			targets[p] = true
		}
	}

	var sb strings.Builder
	sb.WriteString("\n    0   1   2   3\n")

	for row := range entity.Rows {
		fmt.Fprintf(&sb, "%d  ", row)

		for col := range entity.Cols {
			p := entity.Position{Row: row, Col: col}

			cell := symbol(board.At(p))
			switch {
			case hasSelection && p == selected:
				cell = "[" + cell + "]"
			case targets[p]:
				cell = " * "
			default:
				cell = " " + cell + " "
			}
			sb.WriteString(cell)

			if col < entity.Cols-1 {
				sb.WriteString(link(row, col))
			}
		}

		sb.WriteString("\n")
	}

	if winner := game.Winner(); winner != entity.Empty {
		fmt.Fprintf(&sb, "\n%s wins! type reset to play again\n", winner)
	} else {
		fmt.Fprintf(&sb, "\n%s to move> ", game.CurrentPlayer())
	}

	fmt.Fprint(out, sb.String())
}

// link draws the edge between (row, col) and (row, col+1); the outer rows break in the middle.
func link(row, col int) string {
	if row != 1 && col == 1 {
		return " "
	}

	return "-"
}

func symbol(color entity.Color) string {
	switch color {
	case entity.Purple:
		return "P"
	case entity.Green:
		return "G"
	default:
		return "."
	}
}
