package minefield

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// Log.SetLevel(logrus.TraceLevel)
	Log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	m.Run()
}

// planted builds an initialized field with mines at the given row:col pairs.
func planted(rows, cols int, mines ...[2]int) *Minefield {
	return NewWithMines(rows, cols, mines...)
}

func seeded(seed uint64) func() *rand.Rand {
	return func() *rand.Rand {
		return rand.New(rand.NewPCG(seed, 2))
	}
}

// checkCells compares every cached counter with a fresh neighbour scan.
func checkCells(t *testing.T, m *Minefield) {
	t.Helper()
	for i, c := range m.cells {
		row, col := m.position(i)
		var mines, flags, untouched uint8
		for dr := -1; dr <= 1; dr++ {
			for dc := -1; dc <= 1; dc++ {
				r, cc := row+dr, col+dc
				if (dr == 0 && dc == 0) || r < 0 || r >= m.rows || cc < 0 || cc >= m.cols {
					continue
				}
				n := m.cells[r*m.cols+cc]
				if n.mine {
					mines++
				}
				if n.flagged {
					flags++
				}
				if !n.flagged && !n.revealed {
					untouched++
				}
			}
		}
		require.Equalf(t, mines, c.mines, "adjacent mines @ %d:%d", row, col)
		require.Equalf(t, flags, c.flags, "adjacent flags @ %d:%d", row, col)
		require.Equalf(t, untouched, c.untouched, "adjacent untouched @ %d:%d", row, col)
		require.Falsef(t, c.flagged && c.revealed, "flagged and revealed @ %d:%d", row, col)
	}
}

func countMines(m *Minefield) (count int) {
	for _, c := range m.cells {
		if c.mine {
			count++
		}
	}
	return
}

func adjacency(m *Minefield) []uint8 {
	counts := make([]uint8, len(m.cells))
	for i, c := range m.cells {
		counts[i] = c.mines
	}
	return counts
}

func TestNewPanicsOnDegenerateBoard(t *testing.T) {
	for _, size := range [][2]int{{0, 10}, {10, 0}, {0, 0}, {-1, 5}} {
		assert.Panics(t, func() { New(size[0], size[1]) }, "%dx%d", size[0], size[1])
	}
	assert.Panics(t, func() {
		NewWithParams(Params{Rows: 10, Cols: 10, BombFactor: 1})
	})
	assert.Panics(t, func() { New(10, 10).Resize(0, 3) })
	assert.Panics(t, func() { NewWithMines(3, 3, [2]int{3, 0}) })
	assert.Panics(t, func() { NewWithMines(3, 3, [2]int{1, 1}, [2]int{1, 1}) })
}

func TestNewWithMines(t *testing.T) {
	m := NewWithMines(4, 5, [2]int{0, 0}, [2]int{3, 4})
	assert.True(t, m.Initialized())
	assert.Equal(t, 2, m.MineCount())
	assert.Equal(t, 2, countMines(m))
	checkCells(t, m)
}

func TestMineCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rows, cols int
		mines      int
	}{
		{10, 10, 15},
		{16, 16, 40},
		{16, 30, 75},
		{24, 24, 90},
	}

	for _, test := range tests {
		m := New(test.rows, test.cols)
		m.SetRandSource(seeded(uint64(test.rows)))

		assert.Equal(t, test.mines, m.MineCount())
		assert.False(t, m.Initialized())

		_, hitMine, err := m.Reveal(test.rows/2, test.cols/2)
		require.NoError(t, err)
		assert.False(t, hitMine)
		assert.True(t, m.Initialized())
		assert.Equal(t, test.mines, countMines(m))
		checkCells(t, m)
	}
}

func TestFirstRevealIsSafe(t *testing.T) {
	t.Parallel()

	seeds := uint64(10)
	if testing.Short() {
		seeds = 1
	}

	for seed := range seeds {
		for row := range 10 {
			for col := range 10 {
				m := New(10, 10)
				m.SetRandSource(seeded(seed))

				cascade, hitMine, err := m.Reveal(row, col)
				require.NoError(t, err)
				require.False(t, hitMine, "mine hit @ %d:%d (seed %d)", row, col, seed)
				require.GreaterOrEqual(t, len(cascade), MinInitialFields)
				assert.Equal(t, Tile{row, col, 0}, cascade[0])
				for _, tile := range cascade {
					require.NotEqual(t, MineTile, tile.Type)
				}
				require.Equal(t, 15, countMines(m))
				checkCells(t, m)
			}
		}
	}
}

func TestInitialPatch(t *testing.T) {
	m := New(10, 10)
	r := rand.New(rand.NewPCG(3, 4))

	for _, start := range [][2]int{{0, 0}, {9, 9}, {0, 5}, {5, 5}} {
		patch := m.initialPatch(start[0], start[1], r)
		require.GreaterOrEqual(t, len(patch), MinInitialFields)
		require.LessOrEqual(t, len(patch), maxPatchSize)
		assert.Equal(t, m.index(start[0], start[1]), patch[0])

		sorted := slices.Clone(patch)
		slices.Sort(sorted)
		assert.Len(t, slices.Compact(sorted), len(patch), "duplicate patch cells")

		for _, i := range patch[1:] {
			row, col := m.position(i)
			connected := false
			for _, j := range patch {
				pr, pc := m.position(j)
				if (pr == row && (pc == col-1 || pc == col+1)) ||
					(pc == col && (pr == row-1 || pr == row+1)) {
					connected = true
				}
			}
			assert.True(t, connected, "%d:%d is not connected", row, col)
		}
	}

	tiny := New(1, 2)
	patch := tiny.initialPatch(0, 0, r)
	assert.Equal(t, []int{0, 1}, patch)
}

func TestRevealInvalidPosition(t *testing.T) {
	tests := []struct {
		name     string
		row, col int
	}{
		{"negative row", -1, 0},
		{"negative col", 0, -1},
		{"row past end", 10, 0},
		{"col past end", 0, 10},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			fresh := New(10, 10)
			cascade, hitMine, err := fresh.Reveal(test.row, test.col)
			require.ErrorIs(t, err, ErrInvalidPosition)
			assert.Empty(t, cascade)
			assert.False(t, hitMine)
			assert.False(t, fresh.Initialized())

			m := planted(10, 10, [2]int{0, 0})
			before := slices.Clone(m.cells)
			_, _, err = m.Reveal(test.row, test.col)
			require.ErrorIs(t, err, ErrInvalidPosition)
			assert.Equal(t, before, m.cells)
		})
	}
}

func TestFloodOrder(t *testing.T) {
	m := planted(3, 3, [2]int{0, 0}, [2]int{2, 2})

	cascade, hitMine, err := m.Reveal(0, 2)
	require.NoError(t, err)
	assert.False(t, hitMine)
	assert.Equal(t, Cascade{{0, 2, 0}, {0, 1, 1}, {1, 1, 2}, {1, 2, 1}}, cascade)
	checkCells(t, m)
}

func TestRevealTwiceIsNoop(t *testing.T) {
	m := planted(5, 5, [2]int{0, 0}, [2]int{0, 2})

	cascade, hitMine, err := m.Reveal(1, 1)
	require.NoError(t, err)
	assert.False(t, hitMine)
	assert.Equal(t, Cascade{{1, 1, 2}}, cascade)

	before := slices.Clone(m.cells)
	cascade, hitMine, err = m.Reveal(1, 1)
	require.NoError(t, err)
	assert.False(t, hitMine)
	assert.Empty(t, cascade)
	assert.Equal(t, before, m.cells)
}

func TestInvalidPositionsLogQuietly(t *testing.T) {
	hook := logtest.NewLocal(Log)
	level := Log.GetLevel()
	Log.SetLevel(logrus.TraceLevel)
	t.Cleanup(func() {
		Log.SetLevel(level)
		Log.ReplaceHooks(make(logrus.LevelHooks))
	})

	m := planted(5, 5, [2]int{0, 0})
	_, _, err := m.Reveal(5, 0)
	require.ErrorIs(t, err, ErrInvalidPosition)
	_, err = m.ToggleFlag(0, -1)
	require.ErrorIs(t, err, ErrInvalidPosition)
	require.ErrorIs(t, m.Undo(-1, -1), ErrInvalidPosition)

	invalid := 0
	for _, entry := range hook.AllEntries() {
		assert.Greater(t, entry.Level, logrus.WarnLevel, entry.Message)
		if entry.Message == "invalid tile position" {
			assert.Equal(t, logrus.DebugLevel, entry.Level)
			invalid++
		}
	}
	assert.Equal(t, 3, invalid)
}

func TestRevealFlaggedCellIsNoop(t *testing.T) {
	m := planted(5, 5, [2]int{0, 0})

	flagged, err := m.ToggleFlag(3, 3)
	require.NoError(t, err)
	require.True(t, flagged)

	cascade, hitMine, err := m.Reveal(3, 3)
	require.NoError(t, err)
	assert.False(t, hitMine)
	assert.Empty(t, cascade)
	assert.Equal(t, Flag, m.PlayerGrid()[m.index(3, 3)])
}

func TestRevealMine(t *testing.T) {
	m := planted(5, 5, [2]int{2, 2})

	cascade, hitMine, err := m.Reveal(2, 2)
	require.NoError(t, err)
	assert.True(t, hitMine)
	assert.Equal(t, Cascade{{2, 2, MineTile}}, cascade)
	assert.True(t, m.Lost())
	checkCells(t, m)
}

func TestChord(t *testing.T) {
	m := planted(5, 5, [2]int{0, 0}, [2]int{0, 2})

	_, _, err := m.Reveal(1, 1)
	require.NoError(t, err)
	for _, p := range [][2]int{{0, 0}, {0, 2}} {
		_, err := m.ToggleFlag(p[0], p[1])
		require.NoError(t, err)
	}

	cascade, hitMine, err := m.Reveal(1, 1)
	require.NoError(t, err)
	assert.False(t, hitMine)
	require.NotEmpty(t, cascade)
	assert.Equal(t, Tile{0, 1, 2}, cascade[0])
	assert.Len(t, cascade, 25-2-1)
	assert.True(t, m.CheckGameWon())
	checkCells(t, m)
}

func TestChordOnWrongFlagStopsAtMine(t *testing.T) {
	m := planted(5, 5, [2]int{0, 0}, [2]int{0, 2})

	_, _, err := m.Reveal(1, 1)
	require.NoError(t, err)
	for _, p := range [][2]int{{0, 0}, {0, 1}} {
		_, err := m.ToggleFlag(p[0], p[1])
		require.NoError(t, err)
	}

	before := slices.Clone(m.cells)

	cascade, hitMine, err := m.Reveal(1, 1)
	require.NoError(t, err)
	assert.True(t, hitMine)
	assert.Equal(t, Cascade{{0, 2, MineTile}}, cascade)
	assert.False(t, m.cells[m.index(1, 0)].revealed, "cascade went on after the mine")
	assert.True(t, m.Lost())
	checkCells(t, m)

	require.NoError(t, m.UndoCascade(cascade))
	assert.Equal(t, before, m.cells)
	assert.False(t, m.Lost())
	checkCells(t, m)
}

func TestUndoAfterLosingCascade(t *testing.T) {
	m := New(10, 10)
	m.SetRandSource(seeded(42))

	_, _, err := m.Reveal(5, 5)
	require.NoError(t, err)

	mine := slices.IndexFunc(m.cells, func(c cell) bool { return c.mine })
	require.GreaterOrEqual(t, mine, 0)
	row, col := m.position(mine)

	before := slices.Clone(m.cells)
	cascade, hitMine, err := m.Reveal(row, col)
	require.NoError(t, err)
	require.True(t, hitMine)
	require.Equal(t, MineTile, cascade[len(cascade)-1].Type)

	for _, tile := range cascade {
		require.NoError(t, m.Undo(tile.Row, tile.Col))
	}
	assert.Equal(t, before, m.cells)
	checkCells(t, m)
}

func TestUndo(t *testing.T) {
	require.ErrorIs(t, New(10, 10).Undo(0, 0), ErrNotYetInitialized)

	m := planted(5, 5, [2]int{0, 0})
	require.ErrorIs(t, m.Undo(-1, 0), ErrInvalidPosition)
	require.ErrorIs(t, m.Undo(0, 5), ErrInvalidPosition)

	before := slices.Clone(m.cells)
	require.NoError(t, m.Undo(3, 3))
	assert.Equal(t, before, m.cells, "undo of a covered cell must not touch counters")
}

func TestToggleFlagRoundTrip(t *testing.T) {
	m := planted(5, 5, [2]int{0, 0})
	_, _, err := m.Reveal(4, 4)
	require.NoError(t, err)

	before := slices.Clone(m.cells)

	flagged, err := m.ToggleFlag(0, 0)
	require.NoError(t, err)
	assert.True(t, flagged)
	assert.Equal(t, 1, m.FlagCount())
	assert.Equal(t, 0, m.RemainingMines())
	checkCells(t, m)

	flagged, err = m.ToggleFlag(0, 0)
	require.NoError(t, err)
	assert.False(t, flagged)
	assert.Equal(t, before, m.cells)
	checkCells(t, m)
}

func TestToggleFlagErrors(t *testing.T) {
	_, err := New(10, 10).ToggleFlag(0, 0)
	require.ErrorIs(t, err, ErrNotYetInitialized)

	m := planted(5, 5, [2]int{0, 0})
	_, err = m.ToggleFlag(5, 0)
	require.ErrorIs(t, err, ErrInvalidPosition)

	_, _, err = m.Reveal(4, 4)
	require.NoError(t, err)
	_, err = m.ToggleFlag(4, 4)
	require.ErrorIs(t, err, ErrAlreadyRevealed)
	require.NotErrorIs(t, err, ErrInvalidPosition)
}

func TestCheckGameWon(t *testing.T) {
	t.Run("uninitialized", func(t *testing.T) {
		assert.False(t, New(10, 10).CheckGameWon())
	})

	t.Run("all mines flagged", func(t *testing.T) {
		m := planted(3, 3, [2]int{0, 0})
		_, err := m.ToggleFlag(0, 0)
		require.NoError(t, err)
		assert.True(t, m.CheckGameWon())
		assert.False(t, m.allSafeRevealed())

		_, err = m.ToggleFlag(2, 2)
		require.NoError(t, err)
		assert.False(t, m.CheckGameWon(), "a wrong flag must not win")
	})

	t.Run("all safe cells revealed", func(t *testing.T) {
		m := planted(5, 5, [2]int{0, 0})
		_, _, err := m.Reveal(4, 4)
		require.NoError(t, err)
		assert.True(t, m.CheckGameWon())
		assert.False(t, m.allMinesFlagged())
		assert.Zero(t, m.FlagCount())
	})

	t.Run("in progress", func(t *testing.T) {
		m := planted(5, 5, [2]int{0, 0}, [2]int{0, 2})
		_, _, err := m.Reveal(1, 1)
		require.NoError(t, err)
		assert.False(t, m.CheckGameWon())
	})
}

func TestCheckHasAvailableMoves(t *testing.T) {
	assert.False(t, New(10, 10).CheckHasAvailableMoves())

	m := planted(3, 3, [2]int{0, 0})
	_, _, err := m.Reveal(1, 1)
	require.NoError(t, err)
	assert.False(t, m.CheckHasAvailableMoves(), "1 mine among 8 covered cells")

	_, err = m.ToggleFlag(0, 0)
	require.NoError(t, err)
	assert.True(t, m.CheckHasAvailableMoves(), "satisfied cell with covered neighbours")

	m = planted(3, 3, [2]int{0, 0})
	_, _, err = m.Reveal(2, 2)
	require.NoError(t, err)
	assert.True(t, m.CheckHasAvailableMoves(), "covered neighbours are all mines")
}

func TestRevealFieldsForUser(t *testing.T) {
	_, err := New(10, 10).RevealFieldsForUser()
	require.ErrorIs(t, err, ErrNotYetInitialized)

	m := planted(3, 3, [2]int{0, 0})
	_, _, err = m.Reveal(1, 1)
	require.NoError(t, err)
	require.False(t, m.CheckHasAvailableMoves())

	cascade, err := m.RevealFieldsForUser()
	require.NoError(t, err)
	require.NotEmpty(t, cascade)
	for _, tile := range cascade {
		assert.NotEqual(t, MineTile, tile.Type)
	}
	assert.True(t, m.CheckHasAvailableMoves() || m.CheckGameWon())
	assert.False(t, m.Lost())
	checkCells(t, m)

	cascade, err = m.RevealFieldsForUser()
	require.NoError(t, err)
	assert.Empty(t, cascade, "nothing to do while moves are available")
}

func TestRevealFieldsForUserOnRandomBoards(t *testing.T) {
	if testing.Short() {
		t.Skip()
	}

	t.Parallel()

	for seed := range uint64(20) {
		m := New(16, 16)
		m.SetRandSource(seeded(seed))
		_, _, err := m.Reveal(8, 8)
		require.NoError(t, err)

		for !m.CheckGameWon() {
			cascade, err := m.RevealFieldsForUser()
			require.NoError(t, err)
			for _, tile := range cascade {
				require.NotEqual(t, MineTile, tile.Type)
			}
			require.False(t, m.Lost())
			checkCells(t, m)

			if m.CheckGameWon() {
				break
			}
			require.True(t, m.CheckHasAvailableMoves())

			// make one correct move from the hidden layout and get stuck again
			moved := false
			for i, c := range m.cells {
				if c.revealed || c.flagged {
					continue
				}
				row, col := m.position(i)
				if c.mine {
					_, err = m.ToggleFlag(row, col)
				} else {
					_, _, err = m.Reveal(row, col)
				}
				require.NoError(t, err)
				moved = true
				break
			}
			require.True(t, moved)
		}
	}
}

func TestCachesMatchNeighbourScan(t *testing.T) {
	t.Parallel()

	games := uint64(20)
	if testing.Short() {
		games = 3
	}

	for seed := range games {
		r := rand.New(rand.NewPCG(seed, 7))
		m := New(16, 16)
		m.SetRandSource(seeded(seed))

		_, _, err := m.Reveal(8, 8)
		require.NoError(t, err)
		mines := adjacency(m)

		for range 200 {
			row, col := r.IntN(16), r.IntN(16)
			switch r.IntN(3) {
			case 0:
				cascade, hitMine, err := m.Reveal(row, col)
				require.NoError(t, err)
				if hitMine {
					require.NoError(t, m.UndoCascade(cascade))
				}
			case 1:
				if _, err := m.ToggleFlag(row, col); err != nil {
					require.ErrorIs(t, err, ErrAlreadyRevealed)
				}
			case 2:
				require.NoError(t, m.Undo(row, col))
			}
			checkCells(t, m)
			require.Equal(t, mines, adjacency(m), "adjacent mine counts changed")
			require.Equal(t, 40, countMines(m))
		}
	}
}

func TestResizeAndReset(t *testing.T) {
	m := New(10, 10)
	m.SetRandSource(seeded(1))
	_, _, err := m.Reveal(5, 5)
	require.NoError(t, err)

	m.Resize(16, 30)
	assert.False(t, m.Initialized())
	assert.Equal(t, 16, m.Rows())
	assert.Equal(t, 30, m.Cols())
	assert.Equal(t, 75, m.MineCount())
	assert.Len(t, m.PlayerGrid(), 16*30)

	_, hitMine, err := m.Reveal(0, 0)
	require.NoError(t, err)
	assert.False(t, hitMine)
	assert.Equal(t, 75, countMines(m))
	checkCells(t, m)

	_, err = m.ToggleFlag(15, 29)
	if err != nil {
		require.ErrorIs(t, err, ErrAlreadyRevealed)
	}

	m.Reset()
	assert.False(t, m.Initialized())
	assert.Zero(t, m.FlagCount())
	for _, s := range m.PlayerGrid() {
		require.Equal(t, Unknown, s)
	}

	_, hitMine, err = m.Reveal(8, 8)
	require.NoError(t, err)
	assert.False(t, hitMine)
	assert.Equal(t, 75, countMines(m))
	assert.Zero(t, m.FlagCount())
	checkCells(t, m)
}
