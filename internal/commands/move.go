package commands

import (
	"fmt"
	"strings"
)

type Move uint8

const (
	Reveal Move = iota + 1
	Flag
	Assist
	Retry
	New
	Debug
	Help
	Quit
	lastMove
)

var moveNames = map[Move][2]string{
	Reveal: {"reveal", "r"},
	Flag:   {"flag", "f"},
	Assist: {"assist", "a"},
	Retry:  {"retry", "u"},
	New:    {"new", "n"},
	Debug:  {"debug", "d"},
	Help:   {"help", "h"},
	Quit:   {"quit", "q"},
}

func (m Move) String() string {
	if names, ok := moveNames[m]; ok {
		return names[0]
	}
	return fmt.Sprintf("Move(%d)", uint8(m))
}

var ErrBadMove error

func init() {
	var allowedMoves []string
	for i := Reveal; i < lastMove; i++ {
		allowedMoves = append(allowedMoves, "'"+i.String()+"'")
	}
	ErrBadMove = fmt.Errorf(
		"move must be one of %s", strings.Join(allowedMoves, ", "),
	)
}

func decodeMove(s string) (Move, error) {
	s = strings.ToLower(s)
	for move, names := range moveNames {
		if s == names[0] || s == names[1] {
			return move, nil
		}
	}
	return 0, ErrBadMove
}
