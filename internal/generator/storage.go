package generator

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

type artifactKind string

const (
	kindPage     artifactKind = "page"
	kindFeed     artifactKind = "feed"
	kindSitemap  artifactKind = "sitemap"
	kindRobots   artifactKind = "robots"
	kindManifest artifactKind = "manifest"
)

// outputFile is one artifact ready to land in the output directory. Path is
// slash separated and relative to the output root.
type outputFile struct {
	Path string
	Body []byte
	Kind artifactKind
}

// outputSink receives the files of a build.
type outputSink interface {
	Put(ctx context.Context, file outputFile) error
}

func newOutputSink(root string, dryRun bool) outputSink {
	if dryRun {
		return dryRunSink{}
	}
	return dirSink{root: root}
}

// dirSink writes below root. Put creates missing parent directories and
// replaces the target through a rename, so a served page is never partial.
type dirSink struct {
	root string
}

func (s dirSink) Put(ctx context.Context, file outputFile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rel := path.Clean(strings.TrimSpace(file.Path))
	if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") || path.IsAbs(rel) {
		return fmt.Errorf("generator: artifact path %q is outside the output dir", file.Path)
	}
	target := filepath.Join(s.root, filepath.FromSlash(rel))
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(target)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(file.Body); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), target)
}

type dryRunSink struct{}

func (dryRunSink) Put(context.Context, outputFile) error { return nil }
