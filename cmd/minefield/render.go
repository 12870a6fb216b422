package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/vancomm/minefield/internal/game"
)

const rowLabelWidth = 4

// columnHeader labels columns by their last digit, with a tens line above
// once the board is wider than ten.
func columnHeader(cols int) string {
	var b strings.Builder
	pad := strings.Repeat(" ", rowLabelWidth)
	if cols > 10 {
		b.WriteString(pad)
		for c := range cols {
			if c%10 == 0 && c > 0 {
				fmt.Fprintf(&b, "%d ", (c/10)%10)
			} else {
				b.WriteString("  ")
			}
		}
		b.WriteString("\n")
	}
	b.WriteString(pad)
	for c := range cols {
		fmt.Fprintf(&b, "%d ", c%10)
	}
	b.WriteString("\n")
	return b.String()
}

func renderBoard(w io.Writer, s *game.Session) {
	field := s.Field()
	cols := field.Cols()

	fmt.Fprint(w, columnHeader(cols))
	for i, line := range eachLine(s.Grid().ToString(cols)) {
		fmt.Fprintf(w, "%*d %s\n", rowLabelWidth-1, i, line)
	}
	fmt.Fprintf(w, "mines left: %d\n", field.RemainingMines())
}

func renderStatus(w io.Writer, status game.Status) {
	switch status {
	case game.Lost:
		fmt.Fprintln(w, "You hit a mine! Type 'retry' to take the move back or 'new' to start over.")
	case game.Won:
		fmt.Fprintln(w, "You won! Type 'new' to play again.")
	case game.Stuck:
		fmt.Fprintln(w, "Nothing left to deduce. Type 'assist' for help or 'new' to start over.")
	}
}
