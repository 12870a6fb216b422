package minefield

// CheckGameWon reports whether the board is cleared. Two independent
// conditions count as a win: every safe cell is revealed, or every mine is
// flagged and nothing else is.
func (m *Minefield) CheckGameWon() bool {
	if !m.initialized {
		return false
	}
	return m.allSafeRevealed() || m.allMinesFlagged()
}

func (m *Minefield) allSafeRevealed() bool {
	revealed := 0
	for _, c := range m.cells {
		if c.revealed && !c.mine {
			revealed++
		}
	}
	return revealed == len(m.cells)-m.mineCount
}

func (m *Minefield) allMinesFlagged() bool {
	correct, flagged := 0, 0
	for _, c := range m.cells {
		if !c.flagged {
			continue
		}
		flagged++
		if c.mine {
			correct++
		}
	}
	return correct == m.mineCount && flagged == m.mineCount
}

// CheckHasAvailableMoves reports whether some revealed number still allows a
// move by counting alone: either all of its mines are flagged and it has
// untouched neighbours left, or its untouched neighbours are exactly its
// unflagged mines.
func (m *Minefield) CheckHasAvailableMoves() bool {
	if !m.initialized {
		return false
	}
	for i, c := range m.cells {
		if !c.revealed || c.mine || c.mines == 0 {
			continue
		}
		if c.hasAvailableMove() {
			row, col := m.position(i)
			Log.WithField("row", row).WithField("col", col).Debug("moves available")
			return true
		}
	}

	Log.Debug("no more available moves")
	return false
}

// Lost reports whether a mine is currently revealed.
func (m *Minefield) Lost() bool {
	if !m.initialized {
		return false
	}
	for _, c := range m.cells {
		if c.revealed && c.mine {
			return true
		}
	}
	return false
}
