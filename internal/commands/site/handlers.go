package sitecmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bujatime/bujatime/internal/commands"
	"github.com/bujatime/bujatime/internal/content"
	"github.com/bujatime/bujatime/internal/generator"
	"github.com/bujatime/bujatime/internal/logging"
	"github.com/bujatime/bujatime/pkg/interfaces"
	command "github.com/goliatone/go-command"
	goerrors "github.com/goliatone/go-errors"
)

const (
	validateOperation = "site.validate_content"
	buildOperation    = "site.build"

	contentValidationCode = "CONTENT_VALIDATION_FAILED"

	sitemapFile = "sitemap.xml"
	rssFile     = "rss.xml"
)

var (
	// ErrGeneratorFeatureDisabled is returned when the generator feature flag is disabled at runtime.
	ErrGeneratorFeatureDisabled = errors.New("site command: generator feature disabled")
)

var (
	_ command.Commander[ValidateContentCommand] = (*ValidateContentHandler)(nil)
	_ command.Commander[BuildSiteCommand]       = (*BuildSiteHandler)(nil)
)

// Builder produces the static site. generator.Service satisfies it.
type Builder interface {
	Build(ctx context.Context, opts generator.BuildOptions) (*generator.BuildResult, error)
}

// ValidateConfig carries the settings content validation needs.
type ValidateConfig struct {
	// BaseURL is the absolute site origin used to match artifact links.
	BaseURL string
	// HiddenCategories overrides the default hidden category IDs when non-nil.
	HiddenCategories []string
}

// ValidateContentHandler runs catalog integrity checks via the shared command handler foundation.
type ValidateContentHandler struct {
	inner *commands.Handler[ValidateContentCommand]
}

// NewValidateContentHandler creates a validation handler.
func NewValidateContentHandler(cfg ValidateConfig, logger interfaces.Logger, opts ...commands.HandlerOption[ValidateContentCommand]) *ValidateContentHandler {
	baseLogger := logging.Ensure(logger)

	exec := func(ctx context.Context, msg ValidateContentCommand) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		var catalogOpts []content.CatalogOption
		if cfg.HiddenCategories != nil {
			catalogOpts = append(catalogOpts, content.WithHiddenCategories(cfg.HiddenCategories))
		}
		catalog, err := content.LoadCatalog(os.DirFS(msg.DataDir), ".", catalogOpts...)
		if err != nil {
			return err
		}

		report := catalog.Validate()
		if msg.CheckArtifacts {
			artifacts, err := verifyArtifacts(catalog, msg.OutputDir, cfg.BaseURL)
			if err != nil {
				return err
			}
			report = report.Merge(artifacts)
		}
		if msg.Report != nil {
			*msg.Report = report
		}

		logging.WithFields(baseLogger, map[string]any{
			"post_count":  len(catalog.Posts),
			"issue_count": len(report.Issues),
			"artifacts":   msg.CheckArtifacts,
		}).Info("site.command.validate_content.completed")

		if !report.OK() {
			return goerrors.Wrap(report.Err(), goerrors.CategoryValidation, "content validation failed").
				WithTextCode(contentValidationCode)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[ValidateContentCommand]{
		commands.WithLogger[ValidateContentCommand](baseLogger),
		commands.WithOperation[ValidateContentCommand](validateOperation),
		commands.WithMessageFields(func(msg ValidateContentCommand) map[string]any {
			fields := map[string]any{
				"data_dir": msg.DataDir,
			}
			if msg.CheckArtifacts {
				fields["output_dir"] = msg.OutputDir
			}
			return fields
		}),
		commands.WithObserver(commands.LogOutcomes[ValidateContentCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ValidateContentHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[ValidateContentCommand].
func (h *ValidateContentHandler) Execute(ctx context.Context, msg ValidateContentCommand) error {
	return h.inner.Execute(ctx, msg)
}

func verifyArtifacts(catalog *content.Catalog, outputDir, baseURL string) (content.ValidationReport, error) {
	sitemap, err := os.ReadFile(filepath.Join(outputDir, sitemapFile))
	if err != nil {
		return content.ValidationReport{}, fmt.Errorf("site command: read %s: %w", sitemapFile, err)
	}
	rss, err := os.ReadFile(filepath.Join(outputDir, rssFile))
	if err != nil {
		return content.ValidationReport{}, fmt.Errorf("site command: read %s: %w", rssFile, err)
	}
	return catalog.VerifyArtifacts(string(sitemap), string(rss), baseURL), nil
}

// BuildSiteHandler runs the static generator via the shared command handler foundation.
type BuildSiteHandler struct {
	inner *commands.Handler[BuildSiteCommand]
}

// NewBuildSiteHandler creates a build handler bound to builder.
func NewBuildSiteHandler(builder Builder, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[BuildSiteCommand]) *BuildSiteHandler {
	baseLogger := logging.Ensure(logger)

	exec := func(ctx context.Context, msg BuildSiteCommand) error {
		if !gates.generatorEnabled() {
			return ErrGeneratorFeatureDisabled
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		result, err := builder.Build(ctx, generator.BuildOptions{
			OutputDir: msg.OutputDir,
			DryRun:    msg.DryRun,
		})
		if err != nil {
			return err
		}
		if result == nil {
			return nil
		}
		if msg.Result != nil {
			*msg.Result = *result
		}
		logging.WithFields(baseLogger, map[string]any{
			"post_count":     result.Posts,
			"route_count":    result.Routes,
			"pages_built":    result.PagesBuilt,
			"pages_skipped":  result.PagesSkipped,
			"artifact_count": len(result.Artifacts),
			"dry_run":        result.DryRun,
		}).Info("site.command.build.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[BuildSiteCommand]{
		commands.WithLogger[BuildSiteCommand](baseLogger),
		commands.WithOperation[BuildSiteCommand](buildOperation),
		commands.WithMessageFields(func(msg BuildSiteCommand) map[string]any {
			fields := map[string]any{}
			if msg.OutputDir != "" {
				fields["output_dir"] = msg.OutputDir
			}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			return fields
		}),
		commands.WithObserver(commands.LogOutcomes[BuildSiteCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &BuildSiteHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[BuildSiteCommand].
func (h *BuildSiteHandler) Execute(ctx context.Context, msg BuildSiteCommand) error {
	return h.inner.Execute(ctx, msg)
}
