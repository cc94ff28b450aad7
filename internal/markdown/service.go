package markdown

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/bujatime/bujatime/internal/logging"
	"github.com/bujatime/bujatime/pkg/interfaces"
)

// Config controls how the markdown service discovers and renders files.
type Config struct {
	BasePath  string
	Pattern   string
	Recursive bool
	Parser    interfaces.ParseOptions
}

// Service loads, repairs, and renders filesystem-backed markdown documents.
type Service struct {
	cfg    Config
	parser interfaces.MarkdownParser
	loader *Loader
	logger interfaces.Logger
}

// Preview is a repaired document rendered to HTML.
type Preview struct {
	FrontMatter FrontMatter
	HTML        []byte
	Changes     []string
}

// NewService constructs a service rooted at cfg.BasePath. When parser is nil
// a GoldmarkParser with cfg.Parser defaults is used.
func NewService(cfg Config, parser interfaces.MarkdownParser, logger interfaces.Logger) (*Service, error) {
	filesystem, err := prepareFilesystem(cfg.BasePath)
	if err != nil {
		return nil, err
	}
	if parser == nil {
		parser = NewGoldmarkParser(cfg.Parser)
	}

	return &Service{
		cfg:    cfg,
		parser: parser,
		loader: NewLoader(filesystem, LoaderConfig{Pattern: cfg.Pattern, Recursive: cfg.Recursive}),
		logger: logging.Ensure(logger),
	}, nil
}

// Load reads a single document relative to the base path and renders it.
func (s *Service) Load(ctx context.Context, path string) (*Document, error) {
	doc, err := s.loader.LoadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := s.renderDocument(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// LoadDirectory reads and renders every matching document under dir.
func (s *Service) LoadDirectory(ctx context.Context, dir string, opts LoadParams) ([]*Document, error) {
	docs, err := s.loader.LoadDirectory(ctx, dir, opts)
	if err != nil {
		return nil, err
	}
	for _, doc := range docs {
		if err := s.renderDocument(ctx, doc); err != nil {
			return nil, err
		}
	}
	return docs, nil
}

// Render converts markdown into HTML.
func (s *Service) Render(ctx context.Context, markdown []byte, opts interfaces.ParseOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.parser.ParseWithOptions(markdown, opts)
}

// Preview repairs source, strips its frontmatter, and renders the body.
func (s *Service) Preview(ctx context.Context, source []byte, opts interfaces.ParseOptions) (*Preview, error) {
	repaired := RepairDocument(source)
	meta, body, err := ParseFrontMatter(repaired.Fixed)
	if err != nil {
		return nil, err
	}
	html, err := s.Render(ctx, body, opts)
	if err != nil {
		return nil, err
	}
	if len(repaired.Changes) > 0 {
		s.logger.Debug("markdown.preview.repaired", "changes", len(repaired.Changes))
	}
	return &Preview{FrontMatter: meta, HTML: html, Changes: repaired.Changes}, nil
}

func (s *Service) renderDocument(ctx context.Context, doc *Document) error {
	if doc == nil {
		return errors.New("markdown service: document is nil")
	}
	html, err := s.Render(ctx, doc.Body, interfaces.ParseOptions{})
	if err != nil {
		return fmt.Errorf("markdown render document %s: %w", doc.Path, err)
	}
	doc.BodyHTML = html
	return nil
}

func prepareFilesystem(basePath string) (fs.FS, error) {
	if strings.TrimSpace(basePath) == "" {
		basePath = "."
	}
	if _, err := os.Stat(basePath); err != nil {
		return nil, fmt.Errorf("markdown service: stat base path %s: %w", basePath, err)
	}
	return os.DirFS(basePath), nil
}
