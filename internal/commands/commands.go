// Package commands turns lines typed by the player into moves.
//
// A line is a move name followed by its arguments, either positional
// ("reveal 3 4") or named ("reveal row=3 col=4"):
//
//	reveal|r row col     open a cell, or chord a satisfied number
//	flag|f row col       toggle a flag
//	assist|a             reveal cells until a move can be deduced
//	retry|u              take back the move that hit a mine
//	new|n [rows cols]    start over, optionally with a new size
//	debug|d row col      dump one cell (development only)
//	help|h, quit|q
package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gorilla/schema"
)

var ErrEmpty = errors.New("empty command")

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
}

type Position struct {
	Row int `schema:"row,required"`
	Col int `schema:"col,required"`
}

type Size struct {
	Rows int `schema:"rows,required"`
	Cols int `schema:"cols,required"`
}

type Command struct {
	Move     Move
	Position Position
	Size     *Size // nil keeps the current size
}

func Parse(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, ErrEmpty
	}

	move, err := decodeMove(fields[0])
	if err != nil {
		return Command{}, err
	}
	cmd := Command{Move: move}
	args := fields[1:]

	switch move {
	case Reveal, Flag, Debug:
		src, err := named(args, "row", "col")
		if err != nil {
			return Command{}, fmt.Errorf("%s: %w", move, err)
		}
		if err := decoder.Decode(&cmd.Position, src); err != nil {
			return Command{}, fmt.Errorf("%s: invalid position: %w", move, err)
		}
	case New:
		if len(args) == 0 {
			break
		}
		src, err := named(args, "rows", "cols")
		if err != nil {
			return Command{}, fmt.Errorf("%s: %w", move, err)
		}
		cmd.Size = &Size{}
		if err := decoder.Decode(cmd.Size, src); err != nil {
			return Command{}, fmt.Errorf("%s: invalid size: %w", move, err)
		}
	default:
		if len(args) > 0 {
			return Command{}, fmt.Errorf("%s takes no arguments", move)
		}
	}

	return cmd, nil
}

// named maps positional or key=value arguments onto keys, in the form the
// schema decoder reads.
func named(args []string, keys ...string) (map[string][]string, error) {
	if len(args) > len(keys) {
		return nil, fmt.Errorf("expected at most %d arguments, got %d", len(keys), len(args))
	}
	src := make(map[string][]string, len(args))
	for i, arg := range args {
		if k, v, ok := strings.Cut(arg, "="); ok {
			src[k] = append(src[k], v)
		} else {
			src[keys[i]] = append(src[keys[i]], arg)
		}
	}
	return src, nil
}
