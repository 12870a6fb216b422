package main

import (
	"iter"
	"strings"
)

// eachLine yields the lines of s with their index. A trailing newline does
// not start another line, so a rendered grid yields exactly one line per row.
func eachLine(s string) iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		for i := 0; s != ""; i++ {
			var line string
			line, s, _ = strings.Cut(s, "\n")
			if !yield(i, line) {
				return
			}
		}
	}
}
