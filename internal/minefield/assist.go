package minefield

import "github.com/sirupsen/logrus"

// RevealFieldsForUser helps a stuck player by revealing safe cells until a
// move can be deduced again (or the board is cleared).
//
// Every round tries each candidate cell, keeps the one that brings back an
// available move with the smallest cascade and reveals it. When no single
// candidate helps, the smallest cascade is revealed and the search repeats.
// Candidates are the safe cells bordering the revealed area; if there are
// none, any covered safe cell is a candidate. Mines are never revealed.
func (m *Minefield) RevealFieldsForUser() (Cascade, error) {
	if !m.initialized {
		return nil, ErrNotYetInitialized
	}

	var revealed Cascade
	for !m.CheckHasAvailableMoves() && !m.CheckGameWon() && !m.Lost() {
		candidates := m.assistCandidates()
		if len(candidates) == 0 {
			break
		}

		best, bestSize, bestHelps := -1, 0, false
		for _, i := range candidates {
			row, col := m.position(i)
			cascade, _ := m.flood([]position{{row, col}})
			helps := m.CheckHasAvailableMoves() || m.CheckGameWon()
			m.concealAll(cascade)

			better := best < 0 ||
				helps && !bestHelps ||
				helps == bestHelps && len(cascade) < bestSize
			if better {
				best, bestSize, bestHelps = i, len(cascade), helps
			}
		}

		row, col := m.position(best)
		cascade, _ := m.flood([]position{{row, col}})
		revealed = append(revealed, cascade...)

		Log.WithFields(logrus.Fields{
			"row": row, "col": col, "revealed": len(cascade), "helps": bestHelps,
		}).Debug("revealed field for user")
	}

	return revealed, nil
}

// assistCandidates lists covered safe cells next to a revealed cell, falling
// back to every covered safe cell.
func (m *Minefield) assistCandidates() []int {
	var frontier, covered []int
	for i, c := range m.cells {
		if c.revealed || c.flagged || c.mine {
			continue
		}
		covered = append(covered, i)

		row, col := m.position(i)
		for j := range m.neighbours(row, col) {
			if m.cells[j].revealed {
				frontier = append(frontier, i)
				break
			}
		}
	}
	if len(frontier) > 0 {
		return frontier
	}
	return covered
}

func (m *Minefield) concealAll(cascade Cascade) {
	for i := len(cascade) - 1; i >= 0; i-- {
		m.conceal(cascade[i].Row, cascade[i].Col)
	}
}
