package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bujatime/bujatime/internal/commands"
	markdowncmd "github.com/bujatime/bujatime/internal/commands/markdown"
	sitecmd "github.com/bujatime/bujatime/internal/commands/site"
	"github.com/bujatime/bujatime/internal/content"
	"github.com/bujatime/bujatime/internal/generator"
	"github.com/bujatime/bujatime/internal/logging"
	"github.com/bujatime/bujatime/internal/logging/console"
	"github.com/bujatime/bujatime/internal/logging/gologger"
	"github.com/bujatime/bujatime/internal/markdown"
	"github.com/bujatime/bujatime/internal/runtimeconfig"
	"github.com/bujatime/bujatime/pkg/interfaces"
)

// Options captures the CLI-level overrides applied on top of the loaded
// configuration.
type Options struct {
	ConfigPath string
	LogLevel   string
	LogFormat  string
	// LogWriter receives console log output. Defaults to stderr.
	LogWriter io.Writer
}

// Runtime wraps the configuration and the wired services a CLI run needs.
type Runtime struct {
	Config   *runtimeconfig.Config
	Provider interfaces.LoggerProvider
	Logger   interfaces.Logger
	Markdown *markdowncmd.HandlerSet
	Site     *sitecmd.HandlerSet
	Parser   *markdown.GoldmarkParser
}

// Build loads configuration and wires the markdown and site command handlers.
func Build(opts Options) (*Runtime, error) {
	cfg, err := runtimeconfig.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if level := strings.TrimSpace(opts.LogLevel); level != "" {
		cfg.Logging.Level = level
	}
	if format := strings.TrimSpace(opts.LogFormat); format != "" {
		cfg.Logging.Format = format
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return Wire(&cfg, opts.LogWriter)
}

// Wire builds the services for an already validated configuration. Feature
// gates read cfg at call time, so later edits to cfg are honoured.
func Wire(cfg *runtimeconfig.Config, logWriter io.Writer) (*Runtime, error) {
	provider, err := NewLoggerProvider(cfg.Logging, logWriter)
	if err != nil {
		return nil, fmt.Errorf("initialise logging: %w", err)
	}

	scanner := markdown.NewScanner(markdown.ScannerConfig{
		Pattern:     cfg.Markdown.Pattern,
		Recursive:   cfg.Markdown.Recursive,
		Concurrency: cfg.Markdown.Concurrency,
	}, markdown.WithScannerLogger(logging.MarkdownLogger(provider)))

	markdownSet, err := markdowncmd.RegisterMarkdownCommands(nil, markdown.Repairer{}, scanner, provider,
		markdowncmd.FeatureGates{RepairEnabled: func() bool { return cfg.Features.Repair }},
		markdowncmd.WithRepairHandlerOptions(commands.WithTimeout[markdowncmd.RepairTextCommand](cfg.Commands.Timeout)),
		markdowncmd.WithScanHandlerOptions(commands.WithTimeout[markdowncmd.ScanDirectoryCommand](cfg.Commands.Timeout)),
	)
	if err != nil {
		return nil, err
	}

	siteSet, err := sitecmd.RegisterSiteCommands(nil, &CatalogBuilder{Config: cfg, Provider: provider},
		sitecmd.ValidateConfig{
			BaseURL:          cfg.Site.BaseURL,
			HiddenCategories: cfg.Content.HiddenCategories,
		},
		provider,
		sitecmd.FeatureGates{GeneratorEnabled: func() bool { return cfg.Features.Generator }},
		sitecmd.WithValidateHandlerOptions(commands.WithTimeout[sitecmd.ValidateContentCommand](cfg.Commands.Timeout)),
		sitecmd.WithBuildHandlerOptions(commands.WithTimeout[sitecmd.BuildSiteCommand](cfg.Commands.Timeout)),
	)
	if err != nil {
		return nil, err
	}

	return &Runtime{
		Config:   cfg,
		Provider: provider,
		Logger:   logging.ModuleLogger(provider, "bujatime.cli"),
		Markdown: markdownSet,
		Site:     siteSet,
		Parser:   markdown.NewGoldmarkParser(cfg.Markdown.Parser),
	}, nil
}

// NewLoggerProvider selects the console or go-logger backend.
func NewLoggerProvider(cfg runtimeconfig.LoggingConfig, writer io.Writer) (interfaces.LoggerProvider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
			Focus:     cfg.Focus,
		})
		if err != nil {
			return nil, err
		}
		return provider, nil
	case "", "console":
		level, ok := console.ParseLevel(cfg.Level)
		if !ok && strings.TrimSpace(cfg.Level) != "" {
			return nil, fmt.Errorf("%w: %q", runtimeconfig.ErrLoggingLevelInvalid, cfg.Level)
		}
		if writer == nil {
			writer = os.Stderr
		}
		return console.NewProvider(console.Options{Writer: writer, MinLevel: level}), nil
	default:
		return nil, fmt.Errorf("%w: %q", runtimeconfig.ErrLoggingProviderUnknown, cfg.Provider)
	}
}

// CatalogBuilder loads the catalog from disk on every build so a long-lived
// process always publishes the current content. It satisfies sitecmd.Builder.
type CatalogBuilder struct {
	Config   *runtimeconfig.Config
	Provider interfaces.LoggerProvider
}

// Build loads the catalog and runs the generator.
func (b *CatalogBuilder) Build(ctx context.Context, opts generator.BuildOptions) (*generator.BuildResult, error) {
	var catalogOpts []content.CatalogOption
	if b.Config.Content.HiddenCategories != nil {
		catalogOpts = append(catalogOpts, content.WithHiddenCategories(b.Config.Content.HiddenCategories))
	}
	catalog, err := content.LoadCatalog(os.DirFS(b.Config.Content.DataDir), ".", catalogOpts...)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	service := generator.NewService(GeneratorConfig(b.Config.Generator), SiteFromConfig(b.Config.Site), catalog,
		generator.WithLogger(logging.GeneratorLogger(b.Provider)),
	)
	return service.Build(ctx, opts)
}

// GeneratorConfig maps the runtime generator settings.
func GeneratorConfig(cfg runtimeconfig.GeneratorConfig) generator.Config {
	return generator.Config{
		OutputDir:   cfg.OutputDir,
		ShellFile:   cfg.ShellFile,
		Feed:        cfg.Feed,
		Sitemap:     cfg.Sitemap,
		Robots:      cfg.Robots,
		Prerender:   cfg.Prerender,
		Incremental: cfg.Incremental,
		Workers:     cfg.Workers,
	}
}

// SiteFromConfig maps the runtime site settings.
func SiteFromConfig(cfg runtimeconfig.SiteConfig) generator.Site {
	return generator.Site{
		BaseURL:      cfg.BaseURL,
		Name:         cfg.Name,
		Title:        cfg.Title,
		Description:  cfg.Description,
		DefaultImage: cfg.DefaultImage,
		Language:     cfg.Language,
	}
}
