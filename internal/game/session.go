package game

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minefield/internal/minefield"
)

var (
	ErrBoardTooSmall  = fmt.Errorf("board must be at least %dx%d", minefield.MinRows, minefield.MinCols)
	ErrGameOver       = errors.New("game is over")
	ErrNothingToRetry = errors.New("no lost move to take back")
)

type Status uint8

const (
	Playing Status = iota
	Lost
	Won
	Stuck // no move can be deduced from the revealed numbers
)

func (s Status) String() string {
	switch s {
	case Playing:
		return "playing"
	case Lost:
		return "lost"
	case Won:
		return "won"
	case Stuck:
		return "stuck"
	default:
		return fmt.Sprintf("Status(%d)", uint8(s))
	}
}

// Outcome is what a front end needs to redraw after a move.
type Outcome struct {
	Cascade minefield.Cascade
	Flagged bool
	Status  Status
}

// Session drives one minefield through a game: losing moves can be taken
// back, a cleared board ends the game and a board without deducible moves
// offers the assist.
type Session struct {
	ID uuid.UUID

	field  *minefield.Minefield
	status Status
	losing minefield.Cascade
	log    *logrus.Entry
}

func validateSize(rows, cols int) error {
	if rows < minefield.MinRows || cols < minefield.MinCols {
		return fmt.Errorf("%w (got %dx%d)", ErrBoardTooSmall, rows, cols)
	}
	return nil
}

func NewSession(rows, cols int, logger *logrus.Logger) (*Session, error) {
	if err := validateSize(rows, cols); err != nil {
		return nil, err
	}
	return newSession(minefield.New(rows, cols), logger), nil
}

func newSession(field *minefield.Minefield, logger *logrus.Logger) *Session {
	id := uuid.New()
	s := &Session{
		ID:    id,
		field: field,
		log:   logger.WithField("session", id.String()),
	}

	s.log.WithFields(logrus.Fields{
		"rows": field.Rows(), "cols": field.Cols(), "mines": field.MineCount(),
	}).Info("new game")

	return s
}

// Field exposes the underlying minefield for read-only queries.
func (s *Session) Field() *minefield.Minefield {
	return s.field
}

func (s *Session) Status() Status {
	return s.status
}

func (s *Session) over() bool {
	return s.status == Lost || s.status == Won
}

// evaluate recomputes the status after a successful move.
func (s *Session) evaluate() {
	switch {
	case s.field.CheckGameWon():
		s.status = Won
		s.log.Info("game won")
	case !s.field.CheckHasAvailableMoves():
		s.status = Stuck
		s.log.Debug("no moves left")
	default:
		s.status = Playing
	}
}

func (s *Session) Reveal(row, col int) (Outcome, error) {
	if s.over() {
		return Outcome{Status: s.status}, ErrGameOver
	}

	cascade, hitMine, err := s.field.Reveal(row, col)
	if err != nil {
		return Outcome{Status: s.status}, err
	}

	if hitMine {
		s.status = Lost
		s.losing = cascade
		s.log.WithFields(logrus.Fields{"row": row, "col": col}).Info("mine hit")
		return Outcome{Cascade: cascade, Status: s.status}, nil
	}

	if len(cascade) > 0 {
		s.evaluate()
	}
	return Outcome{Cascade: cascade, Status: s.status}, nil
}

func (s *Session) ToggleFlag(row, col int) (Outcome, error) {
	if s.over() {
		return Outcome{Status: s.status}, ErrGameOver
	}

	flagged, err := s.field.ToggleFlag(row, col)
	if err != nil {
		return Outcome{Status: s.status}, err
	}

	s.evaluate()
	return Outcome{Flagged: flagged, Status: s.status}, nil
}

// Retry takes back the cascade that lost the game and resumes play.
func (s *Session) Retry() (minefield.Cascade, error) {
	if s.status != Lost {
		return nil, ErrNothingToRetry
	}

	cascade := s.losing
	if err := s.field.UndoCascade(cascade); err != nil {
		return nil, fmt.Errorf("unable to undo losing cascade: %w", err)
	}
	s.losing = nil
	s.evaluate()

	s.log.WithField("cells", len(cascade)).Info("losing move taken back")
	return cascade, nil
}

// Assist reveals safe cells until the player can deduce a move again.
func (s *Session) Assist() (Outcome, error) {
	if s.over() {
		return Outcome{Status: s.status}, ErrGameOver
	}

	cascade, err := s.field.RevealFieldsForUser()
	if err != nil {
		return Outcome{Status: s.status}, err
	}

	s.evaluate()
	s.log.WithField("cells", len(cascade)).Info("assist")
	return Outcome{Cascade: cascade, Status: s.status}, nil
}

// Restart begins a new game. The board is reset when the size is unchanged
// and resized otherwise.
func (s *Session) Restart(rows, cols int) error {
	if err := validateSize(rows, cols); err != nil {
		return err
	}

	if rows == s.field.Rows() && cols == s.field.Cols() {
		s.field.Reset()
	} else {
		s.field.Resize(rows, cols)
	}
	s.status = Playing
	s.losing = nil

	s.log.WithFields(logrus.Fields{
		"rows": rows, "cols": cols, "mines": s.field.MineCount(),
	}).Info("new game")

	return nil
}

// Grid is the player's view, or the whole board once the game is won. A lost
// game keeps the player's view since the losing move may still be retried.
func (s *Session) Grid() minefield.Grid {
	if s.status == Won {
		return s.field.SolutionGrid()
	}
	return s.field.PlayerGrid()
}

// Solution uncovers the whole board, e.g. when the player gives up.
func (s *Session) Solution() minefield.Grid {
	return s.field.SolutionGrid()
}
