// SPDX-License-Identifier: GPL-3.0-or-later
package mail

import (
	"strings"
	"unicode"
)

// TrimContent collapses runs of blank lines and removes trailing whitespace.
// With stripHistory, quoted lines are dropped together with the line right
// before the first one of a quoted run, which usually is the "... wrote:"
// introduction.
func TrimContent(content string, stripHistory bool) string {
	if len(content) == 0 {
		return ""
	}

	lines := []string{}
	lastWasBlank := false
	inQuote := false
	for _, line := range strings.Split(content, "\n") {
		if isBlank(line) {
			if lastWasBlank {
				continue
			}
			lastWasBlank = true
			lines = append(lines, "")
			continue
		}

		if stripHistory && strings.HasPrefix(line, ">") {
			if !inQuote && !lastWasBlank && len(lines) > 0 {
				lines = lines[:len(lines)-1]
			}
			inQuote = true
			continue
		}

		lines = append(lines, strings.TrimRightFunc(nbspReplacer.Replace(line), unicode.IsSpace))
		lastWasBlank = false
		inQuote = false
	}

	return strings.Join(lines, "\n")
}
