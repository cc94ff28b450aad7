package markdown

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/go-cmp/cmp"
)

func newTestFS() fstest.MapFS {
	modified := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	return fstest.MapFS{
		"posts/finance/compound.md": {Data: []byte(samplePost), ModTime: modified},
		"posts/finance/vat.md":      {Data: []byte("# 부가세\n")},
		"posts/ai/intro.md":         {Data: []byte("##AI 입문\n")},
		"posts/readme.txt":          {Data: []byte("not markdown")},
		"index.md":                  {Data: []byte("# home\n")},
	}
}

func TestLoaderDiscover(t *testing.T) {
	loader := NewLoader(newTestFS(), LoaderConfig{Recursive: true})

	paths, err := loader.Discover(context.Background(), ".", LoadParams{})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	want := []string{
		"index.md",
		"posts/ai/intro.md",
		"posts/finance/compound.md",
		"posts/finance/vat.md",
	}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}
}

func TestLoaderDiscoverOverrides(t *testing.T) {
	loader := NewLoader(newTestFS(), LoaderConfig{Recursive: true})
	no := false

	flat, err := loader.Discover(context.Background(), ".", LoadParams{Recursive: &no})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if diff := cmp.Diff([]string{"index.md"}, flat); diff != "" {
		t.Fatalf("non-recursive mismatch (-want +got):\n%s", diff)
	}

	txt, err := loader.Discover(context.Background(), "posts", LoadParams{Pattern: "*.txt"})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if diff := cmp.Diff([]string{"posts/readme.txt"}, txt); diff != "" {
		t.Fatalf("pattern override mismatch (-want +got):\n%s", diff)
	}
}

func TestLoaderDiscoverHonoursCancellation(t *testing.T) {
	loader := NewLoader(newTestFS(), LoaderConfig{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := loader.Discover(ctx, ".", LoadParams{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestLoaderLoadFile(t *testing.T) {
	loader := NewLoader(newTestFS(), LoaderConfig{})

	doc, err := loader.LoadFile(context.Background(), "/posts/finance/compound.md")
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if doc.Path != "posts/finance/compound.md" {
		t.Fatalf("unexpected path %q", doc.Path)
	}
	if doc.FrontMatter.Slug != "compound-basics" {
		t.Fatalf("expected frontmatter to be parsed, got %#v", doc.FrontMatter)
	}
	if len(doc.Checksum) != 32 {
		t.Fatalf("expected sha256 checksum, got %d bytes", len(doc.Checksum))
	}
	if !doc.LastModified.Equal(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected modification time %v", doc.LastModified)
	}
}

func TestLoaderLoadDirectory(t *testing.T) {
	loader := NewLoader(newTestFS(), LoaderConfig{Recursive: true})

	docs, err := loader.LoadDirectory(context.Background(), "posts/finance", LoadParams{})
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}
	if len(docs) != 2 || docs[0].Path != "posts/finance/compound.md" {
		t.Fatalf("unexpected documents %v", docs)
	}
}

func TestLoaderMissingFile(t *testing.T) {
	loader := NewLoader(newTestFS(), LoaderConfig{})
	if _, err := loader.LoadFile(context.Background(), "missing.md"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestMatchGlob(t *testing.T) {
	cases := []struct {
		pattern string
		path    string
		want    bool
	}{
		{"*.md", "posts/ai/intro.md", true},
		{"*.md", "posts/ai/intro.mdx", false},
		{"posts/*/*.md", "posts/ai/intro.md", true},
		{"**/*.md", "a/b/c.md", true},
		{"[", "a.md", false},
	}
	for _, tc := range cases {
		if got := matchGlob(tc.pattern, tc.path); got != tc.want {
			t.Fatalf("matchGlob(%q, %q) = %v, want %v", tc.pattern, tc.path, got, tc.want)
		}
	}
}
