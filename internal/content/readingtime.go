package content

import (
	"unicode"
	"unicode/utf16"
)

const charactersPerMinute = 500

// ReadingTime estimates minutes to read content at 500 characters per
// minute, ignoring whitespace. Characters are counted in UTF-16 units, so
// characters outside the BMP count twice. The result is at least 1.
func ReadingTime(content string) int {
	units := 0
	for _, r := range content {
		if unicode.IsSpace(r) || r == '\uFEFF' {
			continue
		}
		units += utf16.RuneLen(r)
	}
	minutes := (units + charactersPerMinute - 1) / charactersPerMinute
	return max(1, minutes)
}
