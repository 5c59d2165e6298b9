// SPDX-License-Identifier: GPL-3.0-or-later
package paginator

import (
	"math/rand"
	"regexp"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var markerPattern = regexp.MustCompile(`^(\(\d+/\d+\)|\(extra post #\d+\))\n`)

func unmark(segments []string) string {
	sb := &strings.Builder{}
	for _, s := range segments {
		sb.WriteString(markerPattern.ReplaceAllString(s, ""))
	}
	return sb.String()
}

func TestSegmentSingle(t *testing.T) {
	tests := []struct {
		name   string
		header string
		body   string
		maxLen int
	}{
		{"short", "**From:** a\n\n", "hello", 2000},
		{"exact", "", strings.Repeat("x", 20), 20},
		{"nolimit", "h", strings.Repeat("x", 5000), 0},
		{"empty", "", "", 10},
		{"runes", "", strings.Repeat("ä", 20), 20},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, []string{tc.header + tc.body}, Segment(tc.header, tc.body, tc.maxLen))
		})
	}
}

func TestSegmentHardCut(t *testing.T) {
	header := strings.Repeat("h", 50)
	body := strings.Repeat("b", 4500)

	segments := Segment(header, body, 2000)
	require.Len(t, segments, 3)
	assert.True(t, strings.HasPrefix(segments[0], "(1/3)\n"))
	assert.True(t, strings.HasPrefix(segments[1], "(2/3)\n"))
	assert.False(t, markerPattern.MatchString(segments[2]))
	assert.Equal(t, 1517, utf8.RuneCountInString(segments[0]))
	assert.Equal(t, 1520, utf8.RuneCountInString(segments[1]))
	assert.Equal(t, 1525, utf8.RuneCountInString(segments[2]))
	assert.Equal(t, header+body, unmark(segments))
}

func TestSegmentExtraPosts(t *testing.T) {
	body := strings.Repeat("a", 12) + "\n" + strings.Repeat("b", 27)

	segments := Segment("", body, 20)
	assert.Equal(t, []string{
		"(1/2)\n" + strings.Repeat("a", 12) + "\n",
		strings.Repeat("b", 20),
		"(extra post #3)\n" + "bbbb",
		"(extra post #4)\n" + "bbb",
	}, segments)
	assert.Equal(t, body, unmark(segments))
}

func TestSplitPoint(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		cursor   int
		budget   int
		expected int
	}{
		{"rest", "hello", 0, 10, 5},
		{"space", "hello world foo", 0, 13, 12},
		{"newlinebeforespace", strings.Repeat("a", 46) + "\nb " + strings.Repeat("c", 20), 0, 50, 47},
		{"hardcut", strings.Repeat("a", 30), 0, 10, 10},
		{"outsidewindow", "a b" + strings.Repeat("c", 20), 0, 10, 10},
		{"cursor", "xxxxxhello world foo", 5, 13, 17},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, splitPoint([]rune(tc.text), tc.cursor, tc.budget))
		})
	}
}

func TestSegmentProperties(t *testing.T) {
	words := []string{"lorem", "ipsum", "dolor", "sit", "amet,", "å", "日本語", "🎉", "\n", "\n\n", "consectetur"}
	rnd := rand.New(rand.NewSource(42))

	for round := 0; round < 200; round++ {
		sb := &strings.Builder{}
		count := rnd.Intn(600)
		for i := 0; i < count; i++ {
			sb.WriteString(words[rnd.Intn(len(words))])
			if rnd.Intn(3) > 0 {
				sb.WriteString(" ")
			}
		}
		header := "**From:** a@b.c\n\n"
		body := sb.String()
		maxLen := 30 + rnd.Intn(400)

		segments := Segment(header, body, maxLen)
		require.NotEmpty(t, segments)
		assert.Equal(t, header+body, unmark(segments))
		for _, s := range segments {
			assert.LessOrEqual(t, utf8.RuneCountInString(s), maxLen)
			assert.NotEmpty(t, markerPattern.ReplaceAllString(s, ""))
		}
	}
}
