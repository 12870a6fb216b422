package minefield

import (
	"math/rand/v2"
	"slices"

	"github.com/sirupsen/logrus"
)

// Every growth round adds at most one cell per member, so the patch never
// exceeds twice the size it had one round before reaching the threshold.
const maxPatchSize = 2*MinInitialFields - 2

// initFields places the mines for a game whose first reveal is row:col.
//
// panics [AssertionError]
func (m *Minefield) initFields(row, col int) {
	r := m.newRand()

	patch := m.initialPatch(row, col, r)
	Log.WithFields(logrus.Fields{
		"row": row, "col": col, "patch": patch,
	}).Debug("initial patch")

	reserved := make([]bool, len(m.cells))
	for _, i := range patch {
		reserved[i] = true
	}

	candidates := m.mineCandidates(reserved)

	/*
	 * Keep the clicked cell a zero when the board is roomy enough, so the
	 * opening reveal always cascades.
	 */
	opening := slices.Clone(reserved)
	for j := range m.neighbours(row, col) {
		opening[j] = true
	}
	if c := m.mineCandidates(opening); len(c) >= m.mineCount {
		candidates = c
	}

	if len(candidates) < m.mineCount {
		panic(AssertionError{"not enough room for mines"})
	}

	/*
	 * Now pick n off the list at random.
	 */
	mines := make([]int, 0, m.mineCount)
	k := len(candidates)
	for range m.mineCount {
		i := r.IntN(k)
		mines = append(mines, candidates[i])
		k--
		candidates[i] = candidates[k]
	}

	Log.WithField("mines", mines).Debug("mines placed")

	m.plant(mines)
}

// initialPatch grows a connected set of cells from row:col. Each round every
// member gains one random orthogonal neighbour that is not yet in the patch.
func (m *Minefield) initialPatch(row, col int, r *rand.Rand) []int {
	target := min(MinInitialFields, len(m.cells))

	start := m.index(row, col)
	patch := []int{start}
	inPatch := map[int]bool{start: true}

	free := make([]int, 0, len(directions))
	for len(patch) < target {
		members := len(patch)
		for _, i := range patch[:members] {
			pr, pc := m.position(i)
			free = free[:0]
			for _, d := range directions {
				nr, nc := pr+d.rows, pc+d.cols
				if m.inBounds(nr, nc) && !inPatch[m.index(nr, nc)] {
					free = append(free, m.index(nr, nc))
				}
			}
			if len(free) == 0 {
				continue
			}
			j := free[r.IntN(len(free))]
			inPatch[j] = true
			patch = append(patch, j)
		}
	}

	return patch
}

func (m *Minefield) mineCandidates(reserved []bool) []int {
	candidates := make([]int, 0, len(m.cells))
	for i := range m.cells {
		if !reserved[i] {
			candidates = append(candidates, i)
		}
	}
	return candidates
}

// plant clears the field and lays mines at the given cell indices.
func (m *Minefield) plant(mines []int) {
	for i := range m.cells {
		r, c := m.position(i)
		var around uint8
		for range m.neighbours(r, c) {
			around++
		}
		m.cells[i] = cell{untouched: around}
	}

	for _, i := range mines {
		m.cells[i].mine = true
		r, c := m.position(i)
		for j := range m.neighbours(r, c) {
			m.cells[j].mines++
		}
	}

	m.initialized = true
}
