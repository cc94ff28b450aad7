package generator

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestDirSinkCreatesParentsAndReplaces(t *testing.T) {
	root := t.TempDir()
	sink := dirSink{root: root}
	ctx := context.Background()

	for _, body := range []string{"first", "second"} {
		if err := sink.Put(ctx, outputFile{Path: "blog/ai-tools/index.html", Body: []byte(body), Kind: kindPage}); err != nil {
			t.Fatalf("put %s: %v", body, err)
		}
	}
	if got := readOutput(t, root, "blog/ai-tools/index.html"); got != "second" {
		t.Fatalf("expected replaced body, got %q", got)
	}
	entries, err := os.ReadDir(filepath.Join(root, "blog", "ai-tools"))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("temporary files left behind: %v", entries)
	}
}

func TestDirSinkRejectsEscapingPaths(t *testing.T) {
	sink := dirSink{root: t.TempDir()}
	for _, rel := range []string{"", ".", "../rss.xml", "/etc/robots.txt"} {
		if err := sink.Put(context.Background(), outputFile{Path: rel, Body: []byte("x")}); err == nil {
			t.Fatalf("expected %q to be rejected", rel)
		}
	}
}

func TestDirSinkHonoursCancellation(t *testing.T) {
	root := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := (dirSink{root: root}).Put(ctx, outputFile{Path: "rss.xml", Body: []byte("x")}); err == nil {
		t.Fatal("expected canceled context error")
	}
	if _, err := os.Stat(filepath.Join(root, "rss.xml")); !os.IsNotExist(err) {
		t.Fatalf("file written after cancellation: %v", err)
	}
}
