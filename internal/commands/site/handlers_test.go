package sitecmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bujatime/bujatime/internal/content"
	"github.com/bujatime/bujatime/internal/generator"
	"github.com/bujatime/bujatime/internal/logging"
	goerrors "github.com/goliatone/go-errors"
)

const (
	testPostsJSON = `[
  {"id": "2", "slug": "ai-tools", "title": "AI 도구 정리", "excerpt": "", "coverImage": "", "categoryId": "ai", "tags": ["ai"], "authorId": "ceo", "publishedAt": "2024-06-01", "featured": true},
  {"id": "1", "slug": "morning-briefing", "title": "오늘의 브리핑", "excerpt": "요약", "coverImage": "", "categoryId": "briefing", "tags": [], "authorId": "ceo", "publishedAt": "2024-06-02", "featured": false}
]`
	testCategoriesJSON = `[
  {"id": "ai", "title": "AI", "slug": "ai", "color": "blue"},
  {"id": "briefing", "title": "브리핑", "slug": "briefing", "color": "teal"}
]`
	testAuthorsJSON = `[{"id": "ceo", "name": "부자타임"}]`

	baseURL = "https://www.bujatime.com"
)

func writeDataDir(t *testing.T, posts string) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		content.PostsFile:      posts,
		content.CategoriesFile: testCategoriesJSON,
		content.AuthorsFile:    testAuthorsJSON,
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

// buildArtifacts writes rss.xml and sitemap.xml for the catalog in dataDir.
func buildArtifacts(t *testing.T, dataDir string) string {
	t.Helper()
	catalog, err := content.LoadCatalog(os.DirFS(dataDir), ".")
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	out := t.TempDir()
	cfg := generator.DefaultConfig()
	cfg.OutputDir = out
	cfg.Prerender = false
	svc := generator.NewService(cfg, generator.DefaultSite(), catalog)
	if _, err := svc.Build(context.Background(), generator.BuildOptions{}); err != nil {
		t.Fatalf("build artifacts: %v", err)
	}
	return out
}

func TestValidateContentHandlerCleanCatalog(t *testing.T) {
	dataDir := writeDataDir(t, testPostsJSON)
	outDir := buildArtifacts(t, dataDir)
	handler := NewValidateContentHandler(ValidateConfig{BaseURL: baseURL}, logging.NoOp())

	var report content.ValidationReport
	err := handler.Execute(context.Background(), ValidateContentCommand{
		DataDir:        dataDir,
		CheckArtifacts: true,
		OutputDir:      outDir,
		Report:         &report,
	})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !report.OK() {
		t.Fatalf("expected clean report, got %+v", report.Issues)
	}
}

func TestValidateContentHandlerReportsCatalogIssues(t *testing.T) {
	posts := `[
  {"id": "1", "slug": "dup", "title": "one", "categoryId": "ai", "authorId": "ceo", "publishedAt": "2024-06-01"},
  {"id": "2", "slug": "dup", "title": "two", "categoryId": "missing", "authorId": "ceo", "publishedAt": "2024-06-02"}
]`
	dataDir := writeDataDir(t, posts)
	handler := NewValidateContentHandler(ValidateConfig{BaseURL: baseURL}, nil)

	var report content.ValidationReport
	err := handler.Execute(context.Background(), ValidateContentCommand{DataDir: dataDir, Report: &report})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if !errors.Is(err, content.ErrValidationFailed) {
		t.Fatalf("expected ErrValidationFailed, got %v", err)
	}

	codes := map[content.IssueCode]bool{}
	for _, issue := range report.Issues {
		codes[issue.Code] = true
	}
	if !codes[content.IssueDuplicateSlug] || !codes[content.IssueUnknownCategory] {
		t.Fatalf("expected duplicate slug and unknown category issues, got %+v", report.Issues)
	}
}

func TestValidateContentHandlerDetectsExposedHiddenPost(t *testing.T) {
	dataDir := writeDataDir(t, testPostsJSON)
	outDir := buildArtifacts(t, dataDir)
	rssPath := filepath.Join(outDir, "rss.xml")
	rss, err := os.ReadFile(rssPath)
	if err != nil {
		t.Fatalf("read rss: %v", err)
	}
	leaked := append(rss, []byte("<link>"+baseURL+"/blog/morning-briefing</link>\n")...)
	if err := os.WriteFile(rssPath, leaked, 0o644); err != nil {
		t.Fatalf("write rss: %v", err)
	}

	handler := NewValidateContentHandler(ValidateConfig{BaseURL: baseURL}, nil)
	var report content.ValidationReport
	err = handler.Execute(context.Background(), ValidateContentCommand{
		DataDir:        dataDir,
		CheckArtifacts: true,
		OutputDir:      outDir,
		Report:         &report,
	})
	if err == nil {
		t.Fatal("expected validation failure")
	}
	if len(report.Issues) != 1 || report.Issues[0].Code != content.IssueHiddenPostExposed || report.Issues[0].Subject != "morning-briefing" {
		t.Fatalf("unexpected issues %+v", report.Issues)
	}
}

func TestValidateContentHandlerMissingArtifacts(t *testing.T) {
	dataDir := writeDataDir(t, testPostsJSON)
	handler := NewValidateContentHandler(ValidateConfig{BaseURL: baseURL}, nil)

	err := handler.Execute(context.Background(), ValidateContentCommand{
		DataDir:        dataDir,
		CheckArtifacts: true,
		OutputDir:      t.TempDir(),
	})
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected missing artifact error, got %v", err)
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
}

func TestValidateContentHandlerHonoursHiddenCategories(t *testing.T) {
	dataDir := writeDataDir(t, testPostsJSON)
	outDir := buildArtifacts(t, dataDir)

	// With nothing hidden the briefing post is expected in both artifacts.
	handler := NewValidateContentHandler(ValidateConfig{BaseURL: baseURL, HiddenCategories: []string{}}, nil)
	var report content.ValidationReport
	_ = handler.Execute(context.Background(), ValidateContentCommand{
		DataDir:        dataDir,
		CheckArtifacts: true,
		OutputDir:      outDir,
		Report:         &report,
	})
	if len(report.Issues) != 1 || report.Issues[0].Code != content.IssueVisiblePostMissing {
		t.Fatalf("expected briefing post reported missing, got %+v", report.Issues)
	}
}

type stubBuilder struct {
	calls  []generator.BuildOptions
	result *generator.BuildResult
	err    error
}

func (b *stubBuilder) Build(_ context.Context, opts generator.BuildOptions) (*generator.BuildResult, error) {
	b.calls = append(b.calls, opts)
	if b.err != nil {
		return nil, b.err
	}
	return b.result, nil
}

func TestBuildSiteHandlerInvokesBuilder(t *testing.T) {
	builder := &stubBuilder{result: &generator.BuildResult{Posts: 2, Routes: 5, PagesBuilt: 5, Duration: time.Millisecond}}
	handler := NewBuildSiteHandler(builder, nil, FeatureGates{})

	var result generator.BuildResult
	if err := handler.Execute(context.Background(), BuildSiteCommand{OutputDir: "public", DryRun: true, Result: &result}); err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(builder.calls) != 1 || builder.calls[0].OutputDir != "public" || !builder.calls[0].DryRun {
		t.Fatalf("unexpected builder calls %+v", builder.calls)
	}
	if result.Routes != 5 || result.Posts != 2 {
		t.Fatalf("result not copied, got %+v", result)
	}
}

func TestBuildSiteHandlerFeatureDisabled(t *testing.T) {
	builder := &stubBuilder{}
	handler := NewBuildSiteHandler(builder, nil, FeatureGates{GeneratorEnabled: func() bool { return false }})

	err := handler.Execute(context.Background(), BuildSiteCommand{})
	if !errors.Is(err, ErrGeneratorFeatureDisabled) {
		t.Fatalf("expected feature disabled error, got %v", err)
	}
	if len(builder.calls) != 0 {
		t.Fatalf("expected no builds, got %d", len(builder.calls))
	}
}

func TestBuildSiteHandlerPropagatesBuildError(t *testing.T) {
	handler := NewBuildSiteHandler(&stubBuilder{err: generator.ErrShellNotFound}, nil, FeatureGates{})

	err := handler.Execute(context.Background(), BuildSiteCommand{})
	if !errors.Is(err, generator.ErrShellNotFound) {
		t.Fatalf("expected shell error, got %v", err)
	}
}

func TestBuildSiteHandlerWithGenerator(t *testing.T) {
	dataDir := writeDataDir(t, testPostsJSON)
	catalog, err := content.LoadCatalog(os.DirFS(dataDir), ".")
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	cfg := generator.DefaultConfig()
	cfg.Prerender = false
	cfg.OutputDir = t.TempDir()
	handler := NewBuildSiteHandler(generator.NewService(cfg, generator.DefaultSite(), catalog), nil, FeatureGates{})

	override := t.TempDir()
	var result generator.BuildResult
	if err := handler.Execute(context.Background(), BuildSiteCommand{OutputDir: override, Result: &result}); err != nil {
		t.Fatalf("build: %v", err)
	}
	if result.Posts != 1 || len(result.Artifacts) != 3 {
		t.Fatalf("unexpected result %+v", result)
	}
	if _, err := os.Stat(filepath.Join(override, "sitemap.xml")); err != nil {
		t.Fatalf("expected sitemap in override dir: %v", err)
	}
}
