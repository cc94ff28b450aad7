package interfaces

import (
	"context"
	"time"
)

// MarkdownRepairer fixes mechanical markdown formatting mistakes.
type MarkdownRepairer interface {
	Repair(text string) RepairResult
}

// RepairResult pairs the corrected text with the ordered list of fixes that
// were applied. Changes is never nil; an empty slice means nothing changed.
type RepairResult struct {
	Fixed   string   `json:"fixed"`
	Changes []string `json:"changes"`
}

// Changed reports whether any repair stage touched the text.
func (r RepairResult) Changed() bool {
	return len(r.Changes) > 0
}

// MarkdownParser converts markdown into HTML.
type MarkdownParser interface {
	Parse(markdown []byte) ([]byte, error)
	ParseWithOptions(markdown []byte, opts ParseOptions) ([]byte, error)
}

// ParseOptions customises markdown rendering.
type ParseOptions struct {
	Extensions []string `yaml:"extensions" json:"extensions,omitempty"`
	HardWraps  bool     `yaml:"hard_wraps" json:"hard_wraps,omitempty"`
	SafeMode   bool     `yaml:"safe_mode" json:"safe_mode,omitempty"`
}

// MarkdownScanner repairs every markdown document under a directory.
type MarkdownScanner interface {
	ScanDirectory(ctx context.Context, dir string, opts ScanOptions) (*ScanReport, error)
}

// ScanOptions control a directory scan.
type ScanOptions struct {
	// Pattern overrides the configured glob (defaults to "*.md").
	Pattern string
	// Fix writes repaired documents back to disk when true.
	Fix bool
}

// ScanReport summarises a scan run. Files only lists documents that needed
// at least one repair.
type ScanReport struct {
	RunID      string        `json:"run_id"`
	Root       string        `json:"root"`
	Scanned    int           `json:"scanned"`
	Fixed      bool          `json:"fixed"`
	Files      []FileReport  `json:"files"`
	TotalDiffs int           `json:"total_diffs"`
	StartedAt  time.Time     `json:"started_at"`
	Duration   time.Duration `json:"duration"`
}

// FileReport lists the fixes and line diffs for a single document.
type FileReport struct {
	Path    string     `json:"path"`
	Changes []string   `json:"changes"`
	Diffs   []LineDiff `json:"diffs"`
}

// LineDiff describes one changed line (1-based) before and after repair.
type LineDiff struct {
	Line   int    `json:"line"`
	Before string `json:"before"`
	After  string `json:"after"`
}
