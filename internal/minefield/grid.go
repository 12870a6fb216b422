package minefield

import (
	"fmt"
	"strconv"
	"strings"
)

type CellState int8

const (
	Unknown       CellState = -2
	Flag          CellState = -1
	CorrectFlag   CellState = 64 // post-game-over
	ExplodedMine  CellState = 65
	WrongFlag     CellState = 66
	UnflaggedMine CellState = 67
	// 0-8 for revealed cells with given number of mined neighbours
)

func (s CellState) String() string {
	switch s {
	case Unknown:
		return "-"
	case Flag, CorrectFlag:
		return "F"
	case ExplodedMine:
		return "X"
	case WrongFlag:
		return "x"
	case UnflaggedMine:
		return "*"
	case 0:
		return "."
	case 1, 2, 3, 4, 5, 6, 7, 8:
		return strconv.Itoa(int(s))
	default:
		return "!"
	}
}

type Grid []CellState

func (g Grid) ToString(width int) string {
	var b strings.Builder
	for y := range len(g) / width {
		for x := range width {
			fmt.Fprint(&b, g[y*width+x].String()+" ")
		}
		fmt.Fprint(&b, "\n")
	}
	return b.String()
}

// PlayerGrid is what the player is allowed to see, row-major.
func (m *Minefield) PlayerGrid() Grid {
	grid := make(Grid, len(m.cells))
	for i, c := range m.cells {
		switch {
		case !m.initialized:
			grid[i] = Unknown
		case c.flagged:
			grid[i] = Flag
		case c.revealed && c.mine:
			grid[i] = ExplodedMine
		case c.revealed:
			grid[i] = CellState(c.mines)
		default:
			grid[i] = Unknown
		}
	}
	return grid
}

// SolutionGrid uncovers the whole board for the end of a game: every mine,
// a verdict on every flag and the number of every safe cell.
func (m *Minefield) SolutionGrid() Grid {
	if !m.initialized {
		return m.PlayerGrid()
	}
	grid := make(Grid, len(m.cells))
	for i, c := range m.cells {
		switch {
		case c.flagged && c.mine:
			grid[i] = CorrectFlag
		case c.flagged:
			grid[i] = WrongFlag
		case c.mine && c.revealed:
			grid[i] = ExplodedMine
		case c.mine:
			grid[i] = UnflaggedMine
		default:
			grid[i] = CellState(c.mines)
		}
	}
	return grid
}

// Describe dumps the internal state of one cell for debugging.
func (m *Minefield) Describe(row, col int) (string, error) {
	if !m.inBounds(row, col) {
		return "", positionError(ErrInvalidPosition, row, col)
	}
	if !m.initialized {
		return "", positionError(ErrNotYetInitialized, row, col)
	}

	c := m.cells[m.index(row, col)]

	kind := strconv.Itoa(int(c.mines))
	if c.mine {
		kind = "mine"
	}
	state := "untouched"
	switch {
	case c.flagged:
		state = "flagged"
	case c.revealed:
		state = "revealed"
	}

	return fmt.Sprintf(
		"type: %s\nstate: %s\nadjacent flags: %d\nadjacent untouched: %d",
		kind, state, c.flags, c.untouched,
	), nil
}
