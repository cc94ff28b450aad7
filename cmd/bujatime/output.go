package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/dustin/go-humanize"

	"github.com/bujatime/bujatime/pkg/interfaces"
)

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(v)
}

func printChanges(w io.Writer, changes []string) {
	for _, change := range changes {
		fmt.Fprintf(w, "  - %s\n", change)
	}
}

func printDiffs(w io.Writer, diffs []interfaces.LineDiff) {
	for _, diff := range diffs {
		fmt.Fprintf(w, "    L%d: %q -> %q\n", diff.Line, diff.Before, diff.After)
	}
}

// won formats an amount rounded to the nearest won, e.g. "1,234,567원".
func won(amount float64) string {
	return humanize.Comma(int64(math.Round(amount))) + "원"
}

func plural(n int, singular, many string) string {
	if n == 1 {
		return fmt.Sprintf("%s %s", humanize.Comma(int64(n)), singular)
	}
	return fmt.Sprintf("%s %s", humanize.Comma(int64(n)), many)
}
