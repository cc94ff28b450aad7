package generator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bujatime/bujatime/internal/content"
	"github.com/bujatime/bujatime/internal/logging"
	"github.com/bujatime/bujatime/pkg/interfaces"
)

var (
	// ErrCatalogRequired indicates Build was called without content.
	ErrCatalogRequired = errors.New("generator: catalog is required")
	// ErrOutputDirRequired indicates the output directory is not configured.
	ErrOutputDirRequired = errors.New("generator: output directory is required")
	// ErrShellNotFound indicates the SPA shell to prerender is missing.
	ErrShellNotFound = errors.New("generator: shell html not found")
)

const (
	rssFileName     = "rss.xml"
	sitemapFileName = "sitemap.xml"
	robotsFileName  = "robots.txt"
	defaultShell    = "index.html"
	defaultWorkers  = 4
	todayLayout     = "2006-01-02"
)

// Config captures runtime behaviour toggles for the generator.
type Config struct {
	OutputDir string
	// ShellFile is the SPA shell, relative to OutputDir.
	ShellFile   string
	Feed        bool
	Sitemap     bool
	Robots      bool
	Prerender   bool
	Incremental bool
	Workers     int
}

// DefaultConfig enables every artifact.
func DefaultConfig() Config {
	return Config{
		OutputDir: "dist",
		ShellFile: defaultShell,
		Feed:      true,
		Sitemap:   true,
		Robots:    true,
		Prerender: true,
		Workers:   defaultWorkers,
	}
}

// BuildOptions narrows the scope of a generator run.
type BuildOptions struct {
	DryRun bool
	// OutputDir overrides Config.OutputDir for this run.
	OutputDir string
}

// Artifact is one file produced by a build.
type Artifact struct {
	Path     string `json:"path"`
	Category string `json:"category"`
	Checksum string `json:"checksum"`
	Size     int64  `json:"size"`
	Skipped  bool   `json:"skipped,omitempty"`
}

// BuildResult reports aggregated build metadata.
type BuildResult struct {
	Posts        int           `json:"posts"`
	Routes       int           `json:"routes"`
	PagesBuilt   int           `json:"pages_built"`
	PagesSkipped int           `json:"pages_skipped"`
	Artifacts    []Artifact    `json:"artifacts"`
	Duration     time.Duration `json:"duration"`
	DryRun       bool          `json:"dry_run"`
}

// Option customises a Service.
type Option func(*Service)

// WithLogger sets the build logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the build clock.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithTools replaces the default tool catalog.
func WithTools(tools []Tool) Option {
	return func(s *Service) {
		if tools != nil {
			s.tools = tools
		}
	}
}

// Service builds the static artifacts of the site from the content catalog.
type Service struct {
	cfg     Config
	site    Site
	catalog *content.Catalog
	tools   []Tool
	logger  interfaces.Logger
	now     func() time.Time
}

// NewService wires a generator for catalog.
func NewService(cfg Config, site Site, catalog *content.Catalog, opts ...Option) *Service {
	if strings.TrimSpace(cfg.ShellFile) == "" {
		cfg.ShellFile = defaultShell
	}
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	s := &Service{
		cfg:     cfg,
		site:    site.normalized(),
		catalog: catalog,
		tools:   DefaultTools(),
		logger:  logging.NoOp(),
		now:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.logger = logging.Ensure(s.logger)
	return s
}

// Build writes rss.xml, sitemap.xml, robots.txt, and one prerendered
// index.html per route into the output directory, as enabled by Config.
// With DryRun nothing is written but the result is fully populated.
func (s *Service) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if dir := strings.TrimSpace(opts.OutputDir); dir != "" && dir != s.cfg.OutputDir {
		run := *s
		run.cfg.OutputDir = dir
		return run.Build(ctx, BuildOptions{DryRun: opts.DryRun})
	}
	if s.catalog == nil {
		return nil, ErrCatalogRequired
	}
	if strings.TrimSpace(s.cfg.OutputDir) == "" {
		return nil, ErrOutputDirRequired
	}

	start := time.Now()
	generatedAt := s.now()
	visible := s.catalog.VisiblePosts()
	result := &BuildResult{
		Posts:  len(visible),
		DryRun: opts.DryRun,
	}

	manifest := newBuildManifest()
	if s.cfg.Incremental {
		loaded, err := s.loadManifest()
		if err != nil {
			s.logger.Warn("generator.manifest.unreadable", "error", err)
		} else {
			manifest = loaded
		}
	}

	if !opts.DryRun {
		if err := os.MkdirAll(s.cfg.OutputDir, 0o755); err != nil {
			return nil, fmt.Errorf("generator: create output dir: %w", err)
		}
	}
	sink := newOutputSink(s.cfg.OutputDir, opts.DryRun)
	emit := func(rel, body string, kind artifactKind) error {
		artifact, err := s.writeArtifact(ctx, sink, manifest, rel, body, kind, generatedAt)
		if err != nil {
			return err
		}
		result.Artifacts = append(result.Artifacts, artifact)
		if kind == kindPage {
			if artifact.Skipped {
				result.PagesSkipped++
			} else {
				result.PagesBuilt++
			}
		}
		return nil
	}

	if s.cfg.Prerender {
		pages, err := s.prerender(ctx)
		if err != nil {
			return nil, err
		}
		result.Routes = len(pages)
		for _, page := range pages {
			if err := emit(page.output, page.html, kindPage); err != nil {
				return result, err
			}
		}
	}

	if s.cfg.Feed {
		if err := emit(rssFileName, BuildRSS(s.site, visible, generatedAt), kindFeed); err != nil {
			return result, err
		}
	}

	if s.cfg.Sitemap {
		today := generatedAt.UTC().Format(todayLayout)
		if err := emit(sitemapFileName, BuildSitemap(s.site, s.catalog, s.tools, today), kindSitemap); err != nil {
			return result, err
		}
	}

	if s.cfg.Robots {
		if err := emit(robotsFileName, BuildRobots(s.site.BaseURL), kindRobots); err != nil {
			return result, err
		}
	}

	if s.cfg.Incremental && !opts.DryRun {
		if err := s.persistManifest(ctx, sink, manifest, generatedAt); err != nil {
			return result, err
		}
	}

	result.Duration = time.Since(start)
	s.logger.Info("generator.build.completed",
		"posts", result.Posts,
		"routes", result.Routes,
		"pages_built", result.PagesBuilt,
		"pages_skipped", result.PagesSkipped,
		"artifacts", len(result.Artifacts),
		"dry_run", result.DryRun,
		"duration", result.Duration,
	)
	return result, nil
}

type renderedPage struct {
	route  string
	output string
	html   string
}

// prerender injects route SEO into the shell for every route. Routes render
// concurrently; the result keeps route order.
func (s *Service) prerender(ctx context.Context) ([]renderedPage, error) {
	shellPath := filepath.Join(s.cfg.OutputDir, filepath.FromSlash(s.cfg.ShellFile))
	shell, err := os.ReadFile(shellPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrShellNotFound, shellPath)
		}
		return nil, fmt.Errorf("generator: read shell: %w", err)
	}

	routes := Routes(s.catalog, s.tools)
	pages := make([]renderedPage, len(routes))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.cfg.Workers)
	for i, route := range routes {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			seo := SEOFor(s.site, s.catalog, s.tools, route)
			html, err := InjectSEO(string(shell), s.site, seo)
			if err != nil {
				return fmt.Errorf("generator: prerender %s: %w", route, err)
			}
			pages[i] = renderedPage{route: route, output: buildOutputPath(route), html: html}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return pages, nil
}

func (s *Service) writeArtifact(
	ctx context.Context,
	sink outputSink,
	manifest *buildManifest,
	rel, body string,
	kind artifactKind,
	generatedAt time.Time,
) (Artifact, error) {
	checksum := computeHashFromString(body)
	artifact := Artifact{
		Path:     rel,
		Category: string(kind),
		Checksum: checksum,
		Size:     int64(len(body)),
	}
	if s.cfg.Incremental && manifest.unchanged(rel, checksum) && s.exists(rel) {
		artifact.Skipped = true
		s.logger.Debug("generator.artifact.skipped", "path", rel)
		return artifact, nil
	}

	if err := sink.Put(ctx, outputFile{Path: rel, Body: []byte(body), Kind: kind}); err != nil {
		return artifact, fmt.Errorf("generator: write %s: %w", rel, err)
	}
	manifest.set(manifestArtifact{
		Path:      rel,
		Category:  string(kind),
		Checksum:  checksum,
		Size:      artifact.Size,
		WrittenAt: generatedAt,
	})
	s.logger.Debug("generator.artifact.written", "path", rel, "category", string(kind))
	return artifact, nil
}

func (s *Service) exists(rel string) bool {
	_, err := os.Stat(filepath.Join(s.cfg.OutputDir, filepath.FromSlash(rel)))
	return err == nil
}

func (s *Service) loadManifest() (*buildManifest, error) {
	data, err := os.ReadFile(filepath.Join(s.cfg.OutputDir, manifestFileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return newBuildManifest(), nil
		}
		return nil, err
	}
	return parseManifest(data)
}

func (s *Service) persistManifest(ctx context.Context, sink outputSink, manifest *buildManifest, generatedAt time.Time) error {
	manifest.GeneratedAt = generatedAt
	data, err := manifest.marshal()
	if err != nil {
		return err
	}
	return sink.Put(ctx, outputFile{Path: manifestFileName, Body: data, Kind: kindManifest})
}
