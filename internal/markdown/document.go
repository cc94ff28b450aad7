package markdown

import (
	"strings"
	"unicode/utf8"

	"github.com/bujatime/bujatime/pkg/interfaces"
)

const diffExcerptRunes = 120

// DocumentRepair is the outcome of repairing a whole markdown file.
type DocumentRepair struct {
	Source  []byte
	Fixed   []byte
	Changes []string
	Diffs   []interfaces.LineDiff
}

// Changed reports whether the repaired document differs from its source.
func (d DocumentRepair) Changed() bool {
	return string(d.Source) != string(d.Fixed)
}

// RepairDocument repairs the body of a markdown file and leaves any
// frontmatter block untouched.
func RepairDocument(source []byte) DocumentRepair {
	prefix, body := SplitFrontMatter(source)
	result := Repair(string(body))

	fixed := make([]byte, 0, len(prefix)+len(result.Fixed))
	fixed = append(fixed, prefix...)
	fixed = append(fixed, result.Fixed...)

	return DocumentRepair{
		Source:  source,
		Fixed:   fixed,
		Changes: result.Changes,
		Diffs:   LineDiffs(string(source), string(fixed)),
	}
}

// LineDiffs pairs the lines of before and after by index and reports those
// that differ. Line numbers are 1-based; text is trimmed and cut to 120
// characters. Lines past the end of the shorter document are not compared.
func LineDiffs(before, after string) []interfaces.LineDiff {
	if before == after {
		return nil
	}
	a := strings.Split(before, "\n")
	b := strings.Split(after, "\n")

	var diffs []interfaces.LineDiff
	for i := range min(len(a), len(b)) {
		if a[i] == b[i] {
			continue
		}
		diffs = append(diffs, interfaces.LineDiff{
			Line:   i + 1,
			Before: excerpt(a[i]),
			After:  excerpt(b[i]),
		})
	}
	return diffs
}

func excerpt(line string) string {
	return truncateRunes(strings.TrimSpace(line), diffExcerptRunes)
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit])
}
