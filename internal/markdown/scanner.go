package markdown

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/bujatime/bujatime/internal/logging"
	"github.com/bujatime/bujatime/pkg/interfaces"
)

const defaultScanConcurrency = 4

// ScannerConfig controls directory discovery and parallelism for scans.
type ScannerConfig struct {
	Pattern     string
	Recursive   bool
	Concurrency int
}

// ScannerOption customises a Scanner.
type ScannerOption func(*Scanner)

// WithScannerLogger sets the logger used for scan progress.
func WithScannerLogger(logger interfaces.Logger) ScannerOption {
	return func(s *Scanner) {
		s.logger = logging.Ensure(logger)
	}
}

// WithScannerClock overrides the time source used for report timestamps.
func WithScannerClock(now func() time.Time) ScannerOption {
	return func(s *Scanner) {
		if now != nil {
			s.now = now
		}
	}
}

// WithRunIDGenerator overrides how scan run identifiers are produced.
func WithRunIDGenerator(next func() string) ScannerOption {
	return func(s *Scanner) {
		if next != nil {
			s.newRunID = next
		}
	}
}

// Scanner repairs markdown files on disk. It implements
// interfaces.MarkdownScanner.
type Scanner struct {
	cfg      ScannerConfig
	logger   interfaces.Logger
	now      func() time.Time
	newRunID func() string
}

var _ interfaces.MarkdownScanner = (*Scanner)(nil)

// NewScanner builds a Scanner.
func NewScanner(cfg ScannerConfig, opts ...ScannerOption) *Scanner {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultScanConcurrency
	}
	s := &Scanner{
		cfg:      cfg,
		logger:   logging.NoOp(),
		now:      time.Now,
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// ScanDirectory repairs every matching file under dir. When dir names a
// single file only that file is scanned and reported by its base name. With
// opts.Fix the repaired text is written back in place. Files that need no
// repair are left out of the report.
func (s *Scanner) ScanDirectory(ctx context.Context, dir string, opts interfaces.ScanOptions) (*interfaces.ScanReport, error) {
	started := s.now()
	runID := s.newRunID()
	logger := logging.WithRunID(s.logger, runID)

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("markdown scan %s: %w", dir, err)
	}

	root := dir
	var files []string
	if info.IsDir() {
		loader := NewLoader(os.DirFS(dir), LoaderConfig{Pattern: s.cfg.Pattern, Recursive: s.cfg.Recursive})
		files, err = loader.Discover(ctx, ".", LoadParams{Pattern: opts.Pattern})
		if err != nil {
			return nil, err
		}
	} else {
		root = filepath.Dir(dir)
		files = []string{filepath.Base(dir)}
	}

	reports := make([]*interfaces.FileReport, len(files))
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(s.cfg.Concurrency)
	for i, rel := range files {
		group.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			report, err := s.scanFile(root, rel, opts.Fix)
			if err != nil {
				return err
			}
			if report != nil {
				logging.WithDocumentContext(logger, rel, scanAction(opts.Fix)).Debug("markdown.scan.file_repaired",
					"changes", len(report.Changes),
					"diffs", len(report.Diffs),
				)
			}
			reports[i] = report
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		logger.Error("markdown.scan.failed", "root", dir, "error", err)
		return nil, err
	}

	result := &interfaces.ScanReport{
		RunID:     runID,
		Root:      dir,
		Scanned:   len(files),
		Fixed:     opts.Fix,
		Files:     []interfaces.FileReport{},
		StartedAt: started,
	}
	for _, report := range reports {
		if report == nil {
			continue
		}
		result.Files = append(result.Files, *report)
		result.TotalDiffs += len(report.Diffs)
	}
	result.Duration = s.now().Sub(started)

	logger.Info("markdown.scan.completed",
		"root", dir,
		"scanned", result.Scanned,
		"files_changed", len(result.Files),
		"total_diffs", result.TotalDiffs,
		"fix", opts.Fix,
	)
	return result, nil
}

func (s *Scanner) scanFile(root, rel string, fix bool) (*interfaces.FileReport, error) {
	full := filepath.Join(root, filepath.FromSlash(rel))
	info, err := os.Stat(full)
	if err != nil {
		return nil, fmt.Errorf("markdown scan stat %s: %w", rel, err)
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("markdown scan read %s: %w", rel, err)
	}

	repair := RepairDocument(data)
	if !repair.Changed() {
		return nil, nil
	}
	if fix {
		if err := os.WriteFile(full, repair.Fixed, info.Mode().Perm()); err != nil {
			return nil, fmt.Errorf("markdown scan write %s: %w", rel, err)
		}
	}

	return &interfaces.FileReport{
		Path:    rel,
		Changes: repair.Changes,
		Diffs:   repair.Diffs,
	}, nil
}

func scanAction(fix bool) string {
	if fix {
		return "fix"
	}
	return "scan"
}
