package minefield

import "iter"

type offset struct {
	rows, cols int
}

// Moore neighbourhood, row-major.
var offsets = [8]offset{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// Cardinal directions used to grow the initial patch.
var directions = [4]offset{
	{-1, 0},
	{0, -1}, {0, 1},
	{1, 0},
}

type position struct {
	row, col int
}

func (m *Minefield) inBounds(row, col int) bool {
	return 0 <= row && row < m.rows && 0 <= col && col < m.cols
}

func (m *Minefield) index(row, col int) int {
	return row*m.cols + col
}

func (m *Minefield) position(i int) (row, col int) {
	return i / m.cols, i % m.cols
}

// neighbours yields the cell index of every in-bounds Moore neighbour of
// row:col. The source cell itself is not range checked.
func (m *Minefield) neighbours(row, col int) iter.Seq[int] {
	return func(yield func(int) bool) {
		for _, o := range offsets {
			r, c := row+o.rows, col+o.cols
			if !m.inBounds(r, c) {
				continue
			}
			if !yield(m.index(r, c)) {
				return
			}
		}
	}
}
