package markdown

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
	"time"
)

const defaultPattern = "*.md"

// Document is a markdown file read from disk with its parsed metadata.
type Document struct {
	Path         string
	FrontMatter  FrontMatter
	Body         []byte
	BodyHTML     []byte
	Source       []byte
	Checksum     []byte
	LastModified time.Time
}

// LoaderConfig configures how markdown files are discovered.
type LoaderConfig struct {
	// Pattern limits discovered files to those matching the glob (defaults to "*.md").
	Pattern string
	// Recursive controls whether sub-directories are traversed.
	Recursive bool
}

// LoadParams provide call-specific overrides for discovery.
type LoadParams struct {
	Pattern   string
	Recursive *bool
}

// Loader discovers and reads markdown documents from a filesystem.
type Loader struct {
	fs        fs.FS
	pattern   string
	recursive bool
}

// NewLoader constructs a Loader over filesystem.
func NewLoader(filesystem fs.FS, cfg LoaderConfig) *Loader {
	pattern := cfg.Pattern
	if strings.TrimSpace(pattern) == "" {
		pattern = defaultPattern
	}
	return &Loader{
		fs:        filesystem,
		pattern:   pattern,
		recursive: cfg.Recursive,
	}
}

// Discover lists the slash-separated paths of every matching file under dir
// in lexical order.
func (l *Loader) Discover(ctx context.Context, dir string, opts LoadParams) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root := cleanFSPath(dir)
	recursive := l.recursive
	if opts.Recursive != nil {
		recursive = *opts.Recursive
	}

	var paths []string
	walkErr := fs.WalkDir(l.fs, root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if p != root && !recursive {
				return fs.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if l.matchesPattern(p, opts.Pattern) {
			paths = append(paths, p)
		}
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("markdown loader walk %s: %w", root, walkErr)
	}

	slices.Sort(paths)
	return paths, nil
}

// LoadFile reads and parses a single markdown document.
func (l *Loader) LoadFile(ctx context.Context, p string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rel := cleanFSPath(p)
	data, err := fs.ReadFile(l.fs, rel)
	if err != nil {
		return nil, fmt.Errorf("markdown loader read %s: %w", rel, err)
	}
	info, err := fs.Stat(l.fs, rel)
	if err != nil {
		return nil, fmt.Errorf("markdown loader stat %s: %w", rel, err)
	}

	meta, body, err := ParseFrontMatter(data)
	if err != nil {
		return nil, fmt.Errorf("markdown loader %s: %w", rel, err)
	}
	sum := sha256.Sum256(data)

	return &Document{
		Path:         rel,
		FrontMatter:  meta,
		Body:         body,
		Source:       data,
		Checksum:     sum[:],
		LastModified: info.ModTime(),
	}, nil
}

// LoadDirectory discovers markdown files under dir and parses each one.
func (l *Loader) LoadDirectory(ctx context.Context, dir string, opts LoadParams) ([]*Document, error) {
	paths, err := l.Discover(ctx, dir, opts)
	if err != nil {
		return nil, err
	}

	docs := make([]*Document, 0, len(paths))
	for _, p := range paths {
		doc, err := l.LoadFile(ctx, p)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (l *Loader) matchesPattern(p string, override string) bool {
	pattern := override
	if strings.TrimSpace(pattern) == "" {
		pattern = l.pattern
	}
	return matchGlob(pattern, p)
}

// matchGlob matches a slash path against pattern. Patterns without a "/"
// match the base name only; a leading "**/" matches at any depth.
func matchGlob(pattern, p string) bool {
	if strings.Contains(pattern, "**") {
		pattern = strings.ReplaceAll(pattern, "**/", "")
	}
	target := p
	if !strings.Contains(pattern, "/") {
		target = path.Base(p)
	}
	match, err := path.Match(pattern, target)
	return err == nil && match
}

func cleanFSPath(p string) string {
	p = strings.ReplaceAll(strings.TrimSpace(p), "\\", "/")
	if p == "" {
		return "."
	}
	p = strings.TrimPrefix(path.Clean(p), "/")
	if p == "" {
		return "."
	}
	return p
}
