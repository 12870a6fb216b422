package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/vancomm/minefield/internal/commands"
	"github.com/vancomm/minefield/internal/game"
)

var (
	errQuit      = errors.New("player quit")
	errDebugMode = errors.New("debug is only available in development")
)

const helpText = `moves (rows and columns count from 0):
  reveal|r ROW COL   open a cell, or chord a satisfied number
  flag|f ROW COL     toggle a flag
  assist|a           reveal safe cells when nothing can be deduced
  retry|u            take back the move that hit a mine
  new|n [ROWS COLS]  start over, optionally with another board size
  debug|d ROW COL    show the internal state of a cell
  help|h             show this text
  quit|q             leave the game
arguments may also be named, e.g. "flag row=3 col=4"`

type player struct {
	session     *game.Session
	out         io.Writer
	development bool
}

func (p *player) prompt() {
	fmt.Fprint(p.out, "> ")
}

// play handles input lines until the player quits, the input ends or ctx is
// cancelled. Bad moves are reported and do not end the game.
func (p *player) play(ctx context.Context, lines <-chan string) error {
	renderBoard(p.out, p.session)
	p.prompt()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return errQuit
			}
			if err := p.handle(line); err != nil {
				if errors.Is(err, errQuit) {
					return err
				}
				log.WithField("line", line).Debug("rejected move: ", err)
				fmt.Fprintln(p.out, "error:", err)
			}
			p.prompt()
		}
	}
}

func (p *player) handle(line string) error {
	cmd, err := commands.Parse(line)
	if errors.Is(err, commands.ErrEmpty) {
		return nil
	}
	if err != nil {
		return err
	}

	s := p.session
	switch cmd.Move {
	case commands.Reveal:
		out, err := s.Reveal(cmd.Position.Row, cmd.Position.Col)
		if err != nil {
			return err
		}
		if len(out.Cascade) == 0 {
			fmt.Fprintln(p.out, "nothing to reveal there")
			return nil
		}
		p.redraw(out.Status)

	case commands.Flag:
		out, err := s.ToggleFlag(cmd.Position.Row, cmd.Position.Col)
		if err != nil {
			return err
		}
		p.redraw(out.Status)

	case commands.Assist:
		out, err := s.Assist()
		if err != nil {
			return err
		}
		fmt.Fprintf(p.out, "revealed %d cells\n", len(out.Cascade))
		p.redraw(out.Status)

	case commands.Retry:
		cascade, err := s.Retry()
		if err != nil {
			return err
		}
		fmt.Fprintf(p.out, "took back %d cells\n", len(cascade))
		p.redraw(s.Status())

	case commands.New:
		rows, cols := s.Field().Rows(), s.Field().Cols()
		if cmd.Size != nil {
			rows, cols = cmd.Size.Rows, cmd.Size.Cols
		}
		if err := s.Restart(rows, cols); err != nil {
			return err
		}
		p.redraw(s.Status())

	case commands.Debug:
		if !p.development {
			return errDebugMode
		}
		desc, err := s.Field().Describe(cmd.Position.Row, cmd.Position.Col)
		if err != nil {
			return err
		}
		fmt.Fprintln(p.out, desc)

	case commands.Help:
		fmt.Fprintln(p.out, helpText)

	case commands.Quit:
		return errQuit

	default:
		return fmt.Errorf("unhandled move %s", cmd.Move)
	}
	return nil
}

func (p *player) redraw(status game.Status) {
	renderBoard(p.out, p.session)
	renderStatus(p.out, status)
}
