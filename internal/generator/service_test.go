package generator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bujatime/bujatime/internal/content"
)

func newTestService(t *testing.T, dir string, mutate func(*Config)) *Service {
	t.Helper()
	cfg := DefaultConfig()
	cfg.OutputDir = dir
	if mutate != nil {
		mutate(&cfg)
	}
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return NewService(cfg, DefaultSite(), newTestCatalog(), WithClock(func() time.Time { return now }))
}

func TestBuildWritesAllArtifacts(t *testing.T) {
	dir := t.TempDir()
	writeShell(t, dir)
	svc := newTestService(t, dir, nil)

	result, err := svc.Build(context.Background(), BuildOptions{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if result.Posts != 2 {
		t.Fatalf("expected 2 visible posts, got %d", result.Posts)
	}
	if result.Routes != 37 || result.PagesBuilt != 37 || result.PagesSkipped != 0 {
		t.Fatalf("unexpected page counts %+v", result)
	}
	if len(result.Artifacts) != 40 {
		t.Fatalf("expected 40 artifacts, got %d", len(result.Artifacts))
	}

	rss := readOutput(t, dir, "rss.xml")
	sitemap := readOutput(t, dir, "sitemap.xml")
	if !strings.Contains(rss, "<link>https://www.bujatime.com/blog/ai-tools</link>") {
		t.Fatalf("rss missing post:\n%s", rss)
	}
	if !strings.Contains(sitemap, "<lastmod>2024-03-01</lastmod>") {
		t.Fatalf("sitemap missing build date:\n%s", sitemap)
	}
	if robots := readOutput(t, dir, "robots.txt"); !strings.Contains(robots, "Sitemap: https://www.bujatime.com/sitemap.xml") {
		t.Fatalf("unexpected robots.txt %q", robots)
	}
	if report := newTestCatalog().VerifyArtifacts(sitemap, rss, DefaultSite().BaseURL); !report.OK() {
		t.Fatalf("artifacts failed verification: %+v", report.Issues)
	}

	post := readOutput(t, dir, "blog/ai-tools/index.html")
	if !strings.Contains(post, "<title>AI &amp; Tools | 부자타임</title>") {
		t.Fatalf("post shell missing title:\n%s", post)
	}
	tool := readOutput(t, dir, "tools/vat/index.html")
	if !strings.Contains(tool, "부가세(VAT) 계산기 | 부자타임") {
		t.Fatalf("tool shell missing title:\n%s", tool)
	}
	root := readOutput(t, dir, "index.html")
	if !strings.Contains(root, `<link rel="canonical" href="https://www.bujatime.com/"/>`) {
		t.Fatalf("root shell not rewritten:\n%s", root)
	}
	if _, err := os.Stat(filepath.Join(dir, "blog", "morning-briefing", "index.html")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("hidden post prerendered: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, manifestFileName)); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("manifest written without incremental mode: %v", err)
	}
}

func TestBuildIncrementalSkipsUnchangedPages(t *testing.T) {
	dir := t.TempDir()
	writeShell(t, dir)
	svc := newTestService(t, dir, func(cfg *Config) { cfg.Incremental = true })

	if _, err := svc.Build(context.Background(), BuildOptions{}); err != nil {
		t.Fatalf("first build: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, manifestFileName)); err != nil {
		t.Fatalf("expected manifest after incremental build: %v", err)
	}

	result, err := svc.Build(context.Background(), BuildOptions{})
	if err != nil {
		t.Fatalf("second build: %v", err)
	}
	if result.PagesSkipped != 37 || result.PagesBuilt != 0 {
		t.Fatalf("expected all pages skipped, got built=%d skipped=%d", result.PagesBuilt, result.PagesSkipped)
	}

	if err := os.Remove(filepath.Join(dir, "tools", "vat", "index.html")); err != nil {
		t.Fatalf("remove page: %v", err)
	}
	result, err = svc.Build(context.Background(), BuildOptions{})
	if err != nil {
		t.Fatalf("third build: %v", err)
	}
	if result.PagesBuilt != 1 {
		t.Fatalf("expected removed page rebuilt, got built=%d", result.PagesBuilt)
	}
}

func TestBuildDryRunWritesNothing(t *testing.T) {
	dir := t.TempDir()
	writeShell(t, dir)
	svc := newTestService(t, dir, nil)

	result, err := svc.Build(context.Background(), BuildOptions{DryRun: true})
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	if !result.DryRun || len(result.Artifacts) != 40 {
		t.Fatalf("unexpected dry run result %+v", result)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the shell in output dir, got %d entries", len(entries))
	}
	if readOutput(t, dir, "index.html") != testShell {
		t.Fatal("dry run rewrote the shell")
	}
}

func TestBuildWithoutPrerenderNeedsNoShell(t *testing.T) {
	dir := t.TempDir()
	svc := newTestService(t, dir, func(cfg *Config) {
		cfg.Prerender = false
		cfg.Robots = false
	})

	result, err := svc.Build(context.Background(), BuildOptions{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if result.Routes != 0 || len(result.Artifacts) != 2 {
		t.Fatalf("expected feed and sitemap only, got %+v", result.Artifacts)
	}
	if _, err := os.Stat(filepath.Join(dir, "robots.txt")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("robots.txt written while disabled: %v", err)
	}
}

func TestBuildErrors(t *testing.T) {
	ctx := context.Background()

	svc := newTestService(t, t.TempDir(), nil)
	if _, err := svc.Build(ctx, BuildOptions{}); !errors.Is(err, ErrShellNotFound) {
		t.Fatalf("expected ErrShellNotFound, got %v", err)
	}

	noCatalog := NewService(DefaultConfig(), DefaultSite(), nil)
	if _, err := noCatalog.Build(ctx, BuildOptions{}); !errors.Is(err, ErrCatalogRequired) {
		t.Fatalf("expected ErrCatalogRequired, got %v", err)
	}

	noOutput := NewService(Config{}, DefaultSite(), content.NewCatalog(nil, nil, nil))
	if _, err := noOutput.Build(ctx, BuildOptions{}); !errors.Is(err, ErrOutputDirRequired) {
		t.Fatalf("expected ErrOutputDirRequired, got %v", err)
	}

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := svc.Build(canceled, BuildOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestBuildOutputDirOverride(t *testing.T) {
	configured := t.TempDir()
	override := t.TempDir()
	writeShell(t, override)
	svc := newTestService(t, configured, nil)

	if _, err := svc.Build(context.Background(), BuildOptions{OutputDir: override}); err != nil {
		t.Fatalf("build: %v", err)
	}
	if _, err := os.Stat(filepath.Join(override, "rss.xml")); err != nil {
		t.Fatalf("expected rss.xml in override dir: %v", err)
	}
	if _, err := os.Stat(filepath.Join(configured, "rss.xml")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("configured dir should stay empty: %v", err)
	}
}
