package markdown

import (
	"slices"
	"strings"
	"time"
	"unicode"
	"unicode/utf16"

	"github.com/dlclark/regexp2"

	"github.com/bujatime/bujatime/pkg/interfaces"
)

// Change tags prefix every entry in RepairResult.Changes.
const (
	TagBracketDoubleClose   = "bracket double-close fix"
	TagCompoundBracket      = "compound bracket fix"
	TagBracketSingleStar    = "single-star-close fix"
	TagParenDoubleClose     = "paren double-close fix"
	TagParenSingleStar      = "paren single-star-close fix"
	TagCompoundParen        = "compound paren fix"
	TagUnclosedBold         = "unclosed bold fix"
	TagBacktickDoubleSingle = "backtick double→single fix"
	TagHeadingSpace         = "heading space fix"
	TagListMarkerSpace      = "list marker space fix"
)

const (
	// Excerpt and line limits count UTF-16 code units, as the site editor does.
	matchExcerptUnits = 40
	lineExcerptUnits  = 30
	// Lines at or above this length are prose, not a dangling bold opener.
	maxUnclosedBoldUnits = 200
	fenceMarker          = "```"
	// Bounds a single pattern evaluation on pathological input.
	stageMatchTimeout = 2 * time.Second
)

var (
	bracketDoubleClosePattern = mustPattern(`\*\*(\[[^\]]+\])\]`)
	compoundBracketPattern    = mustPattern(`\*\*([^*\n]+\[[^\]]+\])\]`)
	bracketSingleStarPattern  = mustPattern(`\*\*(\[[^\]]+\])\*(?!\*)`)
	parenDoubleClosePattern   = mustPattern(`\*\*(\([^)]+\))\)`)
	parenSingleStarPattern    = mustPattern(`\*\*(\([^)]+\))\*(?!\*)`)
	compoundParenPattern      = mustPattern(`\*\*([^*\n]+\([^)]+\))\)`)
	// Code span bodies stop at line terminators: \n, \r, U+2028, U+2029.
	backtickOpenPattern       = mustPattern("(?<!`)``(?!`)([^\\n\\r\\u2028\\u2029]*?)(?<!`)`(?!`)")
	backtickClosePattern      = mustPattern("(?<!`)`(?!`)([^\\n\\r\\u2028\\u2029]*?)(?<!`)``(?!`)")
	headingMarkerPattern      = mustPattern(`^(#{1,6})([^\s#])`)
	listMarkerPattern         = mustPattern(`^(\s*)-([^\s\-\d])`)
)

// stageFunc is one pure rewrite step. It returns the rewritten text and the
// change log extended with its own entries.
type stageFunc func(text string, changes []string) (string, []string)

type repairStage struct {
	name  string
	apply stageFunc
}

// repairPipeline runs strictly in this order; later stages see the output
// of earlier ones.
var repairPipeline = []repairStage{
	{TagBracketDoubleClose, closeBoldSpan(bracketDoubleClosePattern, TagBracketDoubleClose)},
	{TagCompoundBracket, closeBoldSpan(compoundBracketPattern, TagCompoundBracket)},
	{TagBracketSingleStar, closeBoldSpan(bracketSingleStarPattern, TagBracketSingleStar)},
	{TagParenDoubleClose, closeBoldSpan(parenDoubleClosePattern, TagParenDoubleClose)},
	{TagParenSingleStar, closeBoldSpan(parenSingleStarPattern, TagParenSingleStar)},
	{TagCompoundParen, closeBoldSpan(compoundParenPattern, TagCompoundParen)},
	{TagUnclosedBold, closeUnclosedBoldLines},
	{TagBacktickDoubleSingle + " (opening)", collapseBackticks(backtickOpenPattern)},
	{TagBacktickDoubleSingle + " (closing)", collapseBackticks(backtickClosePattern)},
	{TagHeadingSpace, outsideFences(spaceAfterHeadingMarker)},
	{TagListMarkerSpace, outsideFences(spaceAfterListMarker)},
}

// Repairer implements interfaces.MarkdownRepairer. The zero value is ready
// to use and safe for concurrent callers.
type Repairer struct{}

var _ interfaces.MarkdownRepairer = Repairer{}

// Repair satisfies interfaces.MarkdownRepairer.
func (Repairer) Repair(text string) interfaces.RepairResult {
	return Repair(text)
}

// Repair fixes the mechanical emphasis, inline-code, heading, and list
// marker mistakes that automated writers leave in markdown. The input is
// never modified; Changes lists one entry per applied fix (one per backtick
// stage at most) and is empty, never nil, when nothing changed.
func Repair(text string) interfaces.RepairResult {
	changes := []string{}
	for _, stage := range repairPipeline {
		text, changes = stage.apply(text, changes)
	}
	return interfaces.RepairResult{Fixed: text, Changes: changes}
}

// StageNames lists the pipeline stages in execution order.
func StageNames() []string {
	names := make([]string, 0, len(repairPipeline))
	for _, stage := range repairPipeline {
		names = append(names, stage.name)
	}
	return names
}

// closeBoldSpan rewrites every match of pattern to "**" + group 1 + "**",
// logging one entry per match.
func closeBoldSpan(pattern *regexp2.Regexp, tag string) stageFunc {
	return func(text string, changes []string) (string, []string) {
		var entries []string
		out, err := replaceMatches(pattern, text, func(match, body string) string {
			entries = append(entries, describe(tag, match, matchExcerptUnits))
			return "**" + body + "**"
		})
		if err != nil {
			return text, changes
		}
		return out, record(changes, entries...)
	}
}

// closeUnclosedBoldLines closes bold spans opened at the start of a line and
// never closed on it. When the line ends in "*" and holds an odd number of
// lone stars, that last star is a half-typed closer and gets one more star;
// otherwise "**" is appended, so a trailing italic stays intact.
func closeUnclosedBoldLines(text string, changes []string) (string, []string) {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		trimmed := strings.TrimFunc(line, isTrimSpace)
		if !strings.HasPrefix(trimmed, "**") || strings.HasPrefix(trimmed, "***") {
			continue
		}
		if strings.Count(trimmed, "**") != 1 || utf16Len(trimmed) >= maxUnclosedBoldUnits {
			continue
		}

		changes = record(changes, describe(TagUnclosedBold, trimmed, matchExcerptUnits))
		head := strings.TrimRightFunc(line, isTrimSpace)
		if strayCloser(trimmed) {
			lines[i] = head + "*"
			continue
		}
		lines[i] = head + "**"
	}
	return strings.Join(lines, "\n"), changes
}

// collapseBackticks normalises mismatched double/single backtick code spans
// to single backticks. Runs of three or more backticks never match. One
// generic entry is logged no matter how many spans changed.
func collapseBackticks(pattern *regexp2.Regexp) stageFunc {
	return func(text string, changes []string) (string, []string) {
		out, err := replaceMatches(pattern, text, func(_, body string) string {
			return "`" + body + "`"
		})
		if err != nil || out == text {
			return text, changes
		}
		return out, record(changes, TagBacktickDoubleSingle)
	}
}

type lineFix func(line string) (string, string, bool)

// outsideFences applies fix to every line that is not inside a fenced code
// block. Fence lines toggle the state and are never passed to fix.
func outsideFences(fix lineFix) stageFunc {
	return func(text string, changes []string) (string, []string) {
		lines := strings.Split(text, "\n")
		inFence := false
		for i, line := range lines {
			if strings.HasPrefix(strings.TrimFunc(line, isTrimSpace), fenceMarker) {
				inFence = !inFence
				continue
			}
			if inFence {
				continue
			}
			if fixed, entry, ok := fix(line); ok {
				changes = record(changes, entry)
				lines[i] = fixed
			}
		}
		return strings.Join(lines, "\n"), changes
	}
}

func spaceAfterHeadingMarker(line string) (string, string, bool) {
	m, err := headingMarkerPattern.FindStringMatch(line)
	if err != nil || m == nil {
		return line, "", false
	}
	hashes := m.GroupByNumber(1).String()
	return hashes + " " + line[len(hashes):], describe(TagHeadingSpace, line, lineExcerptUnits), true
}

func spaceAfterListMarker(line string) (string, string, bool) {
	m, err := listMarkerPattern.FindStringMatch(line)
	if err != nil || m == nil {
		return line, "", false
	}
	indent := m.GroupByNumber(1).String()
	return indent + "- " + line[len(indent)+1:], describe(TagListMarkerSpace, line, lineExcerptUnits), true
}

func describe(tag, excerpt string, limit int) string {
	return tag + ": " + truncateUnits(excerpt, limit) + "..."
}

// strayCloser reports whether a bold-opened line ends in a lone "*" that
// pairs with nothing: its count of stars outside "**" pairs is odd.
func strayCloser(trimmed string) bool {
	if len(trimmed) <= 2 || !strings.HasSuffix(trimmed, "*") {
		return false
	}
	lone := strings.Count(strings.ReplaceAll(trimmed, "**", ""), "*")
	return lone%2 == 1
}

// replaceMatches rewrites every match of pattern with fn(match, group 1).
// regexp2 reports rune positions; they are mapped back to byte offsets so
// the text between matches, invalid UTF-8 included, is copied unchanged.
func replaceMatches(pattern *regexp2.Regexp, text string, fn func(match, body string) string) (string, error) {
	m, err := pattern.FindStringMatch(text)
	if err != nil || m == nil {
		return text, err
	}
	offsets := runeOffsets(text)
	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for m != nil {
		start, end := offsets[m.Index], offsets[m.Index+m.Length]
		group := m.GroupByNumber(1)
		body := text[offsets[group.Index]:offsets[group.Index+group.Length]]
		b.WriteString(text[last:start])
		b.WriteString(fn(text[start:end], body))
		last = end
		if m, err = pattern.FindNextMatch(m); err != nil {
			return text, err
		}
	}
	b.WriteString(text[last:])
	return b.String(), nil
}

// runeOffsets maps each rune index, as regexp2 counts them, to its byte
// offset in s. Every invalid byte is one rune. The final entry is len(s).
func runeOffsets(s string) []int {
	offsets := make([]int, 0, len(s)+1)
	for i := range s {
		offsets = append(offsets, i)
	}
	return append(offsets, len(s))
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// truncateUnits cuts s to at most limit UTF-16 code units without splitting
// a surrogate pair.
func truncateUnits(s string, limit int) string {
	n := 0
	for i, r := range s {
		n += utf16.RuneLen(r)
		if n > limit {
			return s[:i]
		}
	}
	return s
}

// record appends without writing into a backing array the caller may share.
func record(changes []string, entries ...string) []string {
	if len(entries) == 0 {
		return changes
	}
	return append(slices.Clip(changes), entries...)
}

// isTrimSpace reports ECMAScript whitespace: Unicode White_Space plus the
// byte order mark, without NEL.
func isTrimSpace(r rune) bool {
	switch r {
	case '\uFEFF':
		return true
	case '\u0085':
		return false
	}
	return unicode.IsSpace(r)
}

func mustPattern(expr string) *regexp2.Regexp {
	re := regexp2.MustCompile(expr, regexp2.None)
	re.MatchTimeout = stageMatchTimeout
	return re
}
