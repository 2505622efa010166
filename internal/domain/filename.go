package domain

import (
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

const maxFilenameLength = 255

var unsafeFilenameChars = map[rune]bool{
	'"':  true,
	'\\': true,
	'/':  true,
	':':  true,
	'*':  true,
	'?':  true,
	'<':  true,
	'>':  true,
	'|':  true,
}

// SanitizeFilename makes a caller-supplied name safe to create inside the
// library directory. The result is NFC-normalized so names coming from
// macOS (NFD) and elsewhere compare equal.
func SanitizeFilename(name string) string {
	name = norm.NFC.String(filepath.Base(strings.ReplaceAll(name, "\\", "/")))

	var sb strings.Builder
	sb.Grow(len(name))
	for _, r := range name {
		if r < 32 || r == 127 || unsafeFilenameChars[r] {
			sb.WriteRune('_')
			continue
		}
		sb.WriteRune(r)
	}

	result := strings.TrimSpace(sb.String())
	result = strings.TrimLeft(result, ".")
	if strings.Trim(result, "_") == "" {
		return "asset"
	}

	if len(result) > maxFilenameLength {
		ext := filepath.Ext(result)
		if ext == "" || len(ext) >= maxFilenameLength {
			return truncateUTF8(result, maxFilenameLength)
		}
		base := strings.TrimSuffix(result, ext)
		return truncateUTF8(base, maxFilenameLength-len(ext)) + ext
	}
	return result
}

func truncateUTF8(s string, maxBytes int) string {
	if len(s) <= maxBytes {
		return s
	}
	for maxBytes > 0 && !utf8.RuneStart(s[maxBytes]) {
		maxBytes--
	}
	return s[:maxBytes]
}
