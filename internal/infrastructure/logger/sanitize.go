package logger

import (
	"fmt"
	"strings"
)

// maxLogFieldRunes caps caller-supplied values so a hostile identifier
// cannot flood the log.
const maxLogFieldRunes = 256

// SanitizeForLog escapes control characters in caller-supplied values
// (identifiers, filenames, paths) before they reach a log line. Printable
// Unicode is kept as is. Values longer than maxLogFieldRunes are cut and
// marked with "...".
func SanitizeForLog(s string) string {
	var result strings.Builder
	result.Grow(len(s))

	n := 0
	for _, r := range s {
		if n == maxLogFieldRunes {
			result.WriteString("...")
			break
		}
		n++
		switch r {
		case '\n':
			result.WriteString("\\n")
		case '\r':
			result.WriteString("\\r")
		case '\t':
			result.WriteString("\\t")
		case '\x00':
			result.WriteString("\\x00")
		default:
			if r < 32 || r == 127 {
				result.WriteString(fmt.Sprintf("\\x%02x", r))
			} else {
				result.WriteRune(r)
			}
		}
	}
	return result.String()
}
