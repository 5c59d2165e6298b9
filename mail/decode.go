// SPDX-License-Identifier: GPL-3.0-or-later
package mail

import (
	"encoding/base64"
	"math/bits"
	"strings"
	"unicode"
)

var urlSafeAlphabet = strings.NewReplacer("-", "+", "_", "/")

// DecodeBody decodes a body encoded with the URL-safe base64 alphabet. The
// input is decoded in groups of four characters so a corrupted group only
// stops decoding at that point; everything decoded before it is returned.
func DecodeBody(raw string) string {
	raw = urlSafeAlphabet.Replace(strings.Map(dropSpace, raw))

	var sb strings.Builder
	var pending []byte
	for idx := 0; idx < len(raw); idx += 4 {
		group := raw[idx:min(idx+4, len(raw))]
		if len(group) == 1 {
			// a single character cannot carry a full byte
			break
		}
		if len(group) < 4 {
			group += strings.Repeat("=", 4-len(group))
		}

		chunk, err := base64.StdEncoding.DecodeString(group)
		if err != nil {
			break
		}

		pending = append(pending, chunk...)
		if complete := completePrefix(pending); complete < len(pending) {
			continue
		}
		sb.WriteString(strings.ToValidUTF8(string(pending), "\uFFFD"))
		pending = pending[:0]
	}

	if len(pending) > 0 {
		sb.WriteString(strings.ToValidUTF8(string(pending[:completePrefix(pending)]), "\uFFFD"))
	}

	return sb.String()
}

// completePrefix returns the length of the longest prefix of data that does
// not end inside a multi-byte UTF-8 sequence. The sequence length is taken
// from the number of leading one bits of its first byte.
func completePrefix(data []byte) int {
	i := 0
	for i < len(data) {
		n := bits.LeadingZeros8(^data[i])
		if n < 2 || n > 4 {
			// ascii, stray continuation byte or invalid lead byte
			i++
			continue
		}
		if i+n > len(data) {
			return i
		}
		i += n
	}
	return i
}

func dropSpace(r rune) rune {
	if unicode.IsSpace(r) {
		return -1
	}
	return r
}
