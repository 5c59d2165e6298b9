// SPDX-License-Identifier: GPL-3.0-or-later
package paginator

import (
	"fmt"
	"unicode/utf8"
)

// Segment splits header and body into posts of at most maxLen runes. When
// more than one post is needed every post but the last of the planned
// sequence starts with a "(i/n)" marker line. Text left over after the
// planned posts follows in "(extra post #k)" posts. Removing the markers and
// concatenating the posts gives back header+body.
func Segment(header, body string, maxLen int) []string {
	text := []rune(header + body)
	if maxLen <= 0 || len(text) <= maxLen {
		return []string{string(text)}
	}

	n := ceilDiv(len(text), maxLen)
	segments := make([]string, 0, n)
	cursor := 0
	for i := 1; i <= n && cursor < len(text); i++ {
		target := min(maxLen, ceilDiv(len(text)-cursor, n-i+1))

		marker := ""
		if i < n {
			marker = fmt.Sprintf("(%d/%d)\n", i, n)
		}

		end := splitPoint(text, cursor, max(target-utf8.RuneCountInString(marker), 1))
		segments = append(segments, marker+string(text[cursor:end]))
		cursor = end
	}

	for k := n + 1; cursor < len(text); k++ {
		marker := fmt.Sprintf("(extra post #%d)\n", k)
		end := splitPoint(text, cursor, max(maxLen-utf8.RuneCountInString(marker), 1))
		segments = append(segments, marker+string(text[cursor:end]))
		cursor = end
	}

	return segments
}

// splitPoint returns the end of the slice starting at cursor that holds at
// most budget runes. Within the last tenth of the budget a newline is
// preferred, then the rightmost space, otherwise the slice is cut hard.
func splitPoint(text []rune, cursor, budget int) int {
	if cursor+budget >= len(text) {
		return len(text)
	}

	floor := cursor + budget*9/10
	space := -1
	for i := cursor + budget - 1; i >= floor; i-- {
		if text[i] == '\n' {
			return i + 1
		}
		if space < 0 && text[i] == ' ' {
			space = i
		}
	}
	if space >= 0 {
		return space + 1
	}

	return cursor + budget
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
