package minefield

import (
	"fmt"
	"hash/maphash"
	"math/rand/v2"

	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

const (
	DefaultBombFactor = 0.1563

	// MinInitialFields is the minimum size of the mine-free patch grown
	// around the first revealed cell.
	MinInitialFields = 3

	// Smallest board a front end should offer. Not enforced here.
	MinRows = 10
	MinCols = 10
)

type Params struct {
	Rows, Cols int
	BombFactor float64
}

func (p Params) MineCount() int {
	return int(p.BombFactor * float64(p.Rows*p.Cols))
}

// panics [AssertionError]
func (p Params) validate() {
	if p.Rows <= 0 || p.Cols <= 0 {
		panic(AssertionError{fmt.Sprintf(
			"degenerate minefield %dx%d", p.Rows, p.Cols,
		)})
	}
	if p.BombFactor < 0 || p.BombFactor >= 1 {
		panic(AssertionError{fmt.Sprintf(
			"bomb factor %f out of range [0, 1)", p.BombFactor,
		)})
	}
	cells := p.Rows * p.Cols
	if p.MineCount() > cells-min(cells, maxPatchSize) {
		panic(AssertionError{fmt.Sprintf(
			"%d mines do not fit a %dx%d minefield", p.MineCount(), p.Rows, p.Cols,
		)})
	}
}

type cell struct {
	mine     bool
	mines    uint8 // adjacent mines, fixed once placed
	flagged  bool
	revealed bool

	// caches, see checkCells in the tests
	flags     uint8 // adjacent flagged cells
	untouched uint8 // adjacent cells neither revealed nor flagged
}

func (c cell) satisfied() bool {
	return c.flags == c.mines
}

func (c cell) hasAvailableMove() bool {
	if c.satisfied() {
		return c.untouched > 0
	}
	return int(c.untouched) == int(c.mines)-int(c.flags)
}

type Minefield struct {
	rows, cols  int
	bombFactor  float64
	mineCount   int
	cells       []cell
	initialized bool
	newRand     func() *rand.Rand
}

func createRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

// New creates a rows x cols minefield with the default mine density. Mines
// are placed on the first call to [Minefield.Reveal].
//
// panics [AssertionError] on a degenerate size
func New(rows, cols int) *Minefield {
	return NewWithParams(Params{Rows: rows, Cols: cols, BombFactor: DefaultBombFactor})
}

// panics [AssertionError]
func NewWithParams(p Params) *Minefield {
	p.validate()

	Log.WithFields(logrus.Fields{
		"rows": p.Rows, "cols": p.Cols, "bombFactor": p.BombFactor,
	}).Trace("new minefield")

	return &Minefield{
		rows:       p.Rows,
		cols:       p.Cols,
		bombFactor: p.BombFactor,
		mineCount:  p.MineCount(),
		cells:      make([]cell, p.Rows*p.Cols),
		newRand:    createRand,
	}
}

// NewWithMines builds an initialized minefield with mines at the given
// row:col positions, e.g. to replay a recorded layout. The mine count is the
// number of positions given.
//
// panics [AssertionError] on a degenerate size or a bad mine position
func NewWithMines(rows, cols int, mines ...[2]int) *Minefield {
	m := New(rows, cols)

	idx := make([]int, 0, len(mines))
	seen := make(map[int]bool, len(mines))
	for _, p := range mines {
		if !m.inBounds(p[0], p[1]) {
			panic(AssertionError{fmt.Sprintf(
				"mine %d:%d outside %dx%d minefield", p[0], p[1], rows, cols,
			)})
		}
		i := m.index(p[0], p[1])
		if seen[i] {
			panic(AssertionError{fmt.Sprintf("duplicate mine %d:%d", p[0], p[1])})
		}
		seen[i] = true
		idx = append(idx, i)
	}

	m.mineCount = len(idx)
	m.plant(idx)
	return m
}

// SetRandSource replaces the generator factory used for mine placement. The
// factory is called once per placement.
func (m *Minefield) SetRandSource(newRand func() *rand.Rand) {
	m.newRand = newRand
}

// Resize discards the mine layout and reallocates the field. Mines are placed
// again on the next reveal.
//
// panics [AssertionError] on a degenerate size
func (m *Minefield) Resize(rows, cols int) {
	p := Params{Rows: rows, Cols: cols, BombFactor: m.bombFactor}
	p.validate()

	Log.WithFields(logrus.Fields{"rows": rows, "cols": cols}).Trace("resize")

	m.rows, m.cols = rows, cols
	m.mineCount = p.MineCount()
	m.cells = make([]cell, rows*cols)
	m.initialized = false
}

// Reset keeps the size but discards the mine layout.
func (m *Minefield) Reset() {
	Log.Trace("reset")
	m.initialized = false
}

func (m *Minefield) Rows() int {
	return m.rows
}

func (m *Minefield) Cols() int {
	return m.cols
}

func (m *Minefield) MineCount() int {
	return m.mineCount
}

func (m *Minefield) Initialized() bool {
	return m.initialized
}

func (m *Minefield) FlagCount() (count int) {
	if !m.initialized {
		return 0
	}
	for _, c := range m.cells {
		if c.flagged {
			count++
		}
	}
	return
}

// RemainingMines is the mine counter shown to the player. It goes negative
// when more cells are flagged than there are mines.
func (m *Minefield) RemainingMines() int {
	return m.mineCount - m.FlagCount()
}
