package generator

import (
	"path"
	"strings"
)

// buildOutputPath maps a route to its index.html below the output directory.
func buildOutputPath(route string) string {
	clean := strings.Trim(strings.TrimSpace(route), "/")
	if clean == "" {
		return "index.html"
	}
	return path.Join(clean, "index.html")
}
