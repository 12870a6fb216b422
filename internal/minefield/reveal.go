package minefield

import "github.com/sirupsen/logrus"

// MineTile is the [Tile.Type] of a revealed mine.
const MineTile = -1

// Tile is one cell exposed by a reveal. Type is [MineTile], 0 for an empty
// cell or the number of adjacent mines.
type Tile struct {
	Row  int `json:"row"`
	Col  int `json:"col"`
	Type int `json:"type"`
}

// Cascade lists the cells exposed by a single reveal, in reveal order.
type Cascade []Tile

// Reveal opens row:col. The first reveal on a fresh or reset board places
// the mines first, keeping the clicked cell and a small patch around it safe.
//
// Revealing an already revealed cell whose adjacent flags match its number
// reveals its neighbours instead (chord). Flagged cells and revealed cells
// that are not satisfied are left alone and yield an empty cascade.
//
// When a mine is hit it is the last entry of the cascade and hitMine is set.
func (m *Minefield) Reveal(row, col int) (cascade Cascade, hitMine bool, err error) {
	log := Log.WithFields(logrus.Fields{"row": row, "col": col})
	log.Trace("reveal")

	if !m.inBounds(row, col) {
		log.Debug("invalid tile position")
		return nil, false, positionError(ErrInvalidPosition, row, col)
	}

	if m.initialized {
		cascade, hitMine = m.reveal(row, col)
	} else {
		cascade, hitMine = m.revealFirst(row, col)
	}

	log.WithFields(logrus.Fields{
		"revealed": len(cascade), "hitMine": hitMine,
	}).Debug("revealed")

	return cascade, hitMine, nil
}

func (m *Minefield) revealFirst(row, col int) (Cascade, bool) {
	m.initFields(row, col)
	return m.reveal(row, col)
}

func (m *Minefield) reveal(row, col int) (Cascade, bool) {
	c := m.cells[m.index(row, col)]

	var queue []position
	switch {
	case c.revealed && !c.mine && c.satisfied():
		Log.Trace("tile is revealed and satisfied")
		for _, o := range offsets {
			queue = append(queue, position{row + o.rows, col + o.cols})
		}
	case !c.revealed && !c.flagged:
		queue = append(queue, position{row, col})
	default:
		Log.Trace("nothing to reveal")
		return nil, false
	}

	return m.flood(queue)
}

// flood reveals queued cells breadth first. Positions are range checked when
// they are taken off the queue. Processing stops at the first mine.
func (m *Minefield) flood(queue []position) (cascade Cascade, hitMine bool) {
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]

		if !m.inBounds(p.row, p.col) {
			continue
		}
		c := &m.cells[m.index(p.row, p.col)]
		if c.flagged || c.revealed {
			continue
		}

		c.revealed = true
		for j := range m.neighbours(p.row, p.col) {
			m.cells[j].untouched--
		}

		if c.mine {
			Log.Trace("hit a mine")
			return append(cascade, Tile{p.row, p.col, MineTile}), true
		}

		cascade = append(cascade, Tile{p.row, p.col, int(c.mines)})

		if c.mines == 0 {
			for _, o := range offsets {
				queue = append(queue, position{p.row + o.rows, p.col + o.cols})
			}
		}
	}

	return cascade, false
}

// Undo covers a revealed cell again. It is used to take back a losing
// cascade. Undoing a cell that is not revealed does nothing.
func (m *Minefield) Undo(row, col int) error {
	log := Log.WithFields(logrus.Fields{"row": row, "col": col})
	log.Trace("undoing tile reveal")

	if !m.inBounds(row, col) {
		log.Debug("invalid tile position")
		return positionError(ErrInvalidPosition, row, col)
	}
	if !m.initialized {
		return positionError(ErrNotYetInitialized, row, col)
	}

	m.conceal(row, col)
	return nil
}

func (m *Minefield) conceal(row, col int) {
	c := &m.cells[m.index(row, col)]
	if !c.revealed {
		return
	}
	c.revealed = false
	for j := range m.neighbours(row, col) {
		m.cells[j].untouched++
	}
}

// UndoCascade covers every cell of cascade, last one first.
func (m *Minefield) UndoCascade(cascade Cascade) error {
	for i := len(cascade) - 1; i >= 0; i-- {
		if err := m.Undo(cascade[i].Row, cascade[i].Col); err != nil {
			return err
		}
	}
	return nil
}

// ToggleFlag flags or unflags an unrevealed cell and reports the new flag
// state.
func (m *Minefield) ToggleFlag(row, col int) (flagged bool, err error) {
	log := Log.WithFields(logrus.Fields{"row": row, "col": col})
	log.Trace("toggling flag")

	if !m.inBounds(row, col) {
		log.Debug("invalid tile position")
		return false, positionError(ErrInvalidPosition, row, col)
	}
	if !m.initialized {
		return false, positionError(ErrNotYetInitialized, row, col)
	}

	c := &m.cells[m.index(row, col)]
	if c.revealed {
		return false, positionError(ErrAlreadyRevealed, row, col)
	}

	c.flagged = !c.flagged
	for j := range m.neighbours(row, col) {
		if c.flagged {
			m.cells[j].flags++
			m.cells[j].untouched--
		} else {
			m.cells[j].flags--
			m.cells[j].untouched++
		}
	}

	log.WithField("flagged", c.flagged).Debug("flag toggled")

	return c.flagged, nil
}
