package config

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minefield/internal/minefield"
)

type Board struct {
	Rows int
	Cols int
}

func NewBoard() (*Board, error) {
	rows, err := intEnv("MINEFIELD_ROWS", minefield.MinRows)
	if err != nil {
		return nil, err
	}

	cols, err := intEnv("MINEFIELD_COLS", minefield.MinCols)
	if err != nil {
		return nil, err
	}

	if rows < minefield.MinRows || cols < minefield.MinCols {
		return nil, fmt.Errorf(
			"board must be at least %dx%d, got %dx%d",
			minefield.MinRows, minefield.MinCols, rows, cols,
		)
	}

	return &Board{Rows: rows, Cols: cols}, nil
}

func (b Board) Fields() logrus.Fields {
	return logrus.Fields{
		"rows": b.Rows,
		"cols": b.Cols,
	}
}
