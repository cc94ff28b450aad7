package runtimeconfig

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/bujatime/bujatime/pkg/interfaces"
)

var ErrBaseURLRequired = errors.New("bujatime config: site base url must be an absolute http(s) url")
var ErrDataDirRequired = errors.New("bujatime config: content data directory is required")
var ErrOutputDirRequired = errors.New("bujatime config: generator output directory is required when the generator is enabled")
var ErrLoggingProviderUnknown = errors.New("bujatime config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("bujatime config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("bujatime config: logging format is invalid")
var ErrConcurrencyInvalid = errors.New("bujatime config: concurrency must be zero or positive")

// Config aggregates every runtime setting of the toolkit. Zero concurrency
// values select the package defaults.
type Config struct {
	Site      SiteConfig      `yaml:"site"`
	Content   ContentConfig   `yaml:"content"`
	Markdown  MarkdownConfig  `yaml:"markdown"`
	Generator GeneratorConfig `yaml:"generator"`
	Commands  CommandsConfig  `yaml:"commands"`
	Logging   LoggingConfig   `yaml:"logging"`
	Features  Features        `yaml:"features"`
}

// SiteConfig identifies the published site.
type SiteConfig struct {
	BaseURL      string `yaml:"base_url"`
	Name         string `yaml:"name"`
	Title        string `yaml:"title"`
	Description  string `yaml:"description"`
	DefaultImage string `yaml:"default_image"`
	Language     string `yaml:"language"`
}

// ContentConfig locates the catalog JSON files and markdown bodies.
type ContentConfig struct {
	DataDir  string `yaml:"data_dir"`
	PostsDir string `yaml:"posts_dir"`
	// HiddenCategories replaces the default hidden category IDs when set.
	HiddenCategories []string `yaml:"hidden_categories"`
}

// MarkdownConfig captures discovery and parser behaviour for repair runs.
type MarkdownConfig struct {
	Pattern     string                  `yaml:"pattern"`
	Recursive   bool                    `yaml:"recursive"`
	Concurrency int                     `yaml:"concurrency"`
	Debounce    time.Duration           `yaml:"debounce"`
	Parser      interfaces.ParseOptions `yaml:"parser"`
}

// GeneratorConfig captures behaviour for the static site generator.
type GeneratorConfig struct {
	OutputDir   string `yaml:"output_dir"`
	ShellFile   string `yaml:"shell_file"`
	Feed        bool   `yaml:"feed"`
	Sitemap     bool   `yaml:"sitemap"`
	Robots      bool   `yaml:"robots"`
	Prerender   bool   `yaml:"prerender"`
	Incremental bool   `yaml:"incremental"`
	Workers     int    `yaml:"workers"`
}

// CommandsConfig captures optional command-layer behaviour.
type CommandsConfig struct {
	Timeout     time.Duration `yaml:"timeout"`
	ScanRetries int           `yaml:"scan_retries"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `yaml:"provider"`
	Level     string   `yaml:"level"`
	Format    string   `yaml:"format"`
	AddSource bool     `yaml:"add_source"`
	Focus     []string `yaml:"focus"`
}

// Features toggles module functionality at runtime.
type Features struct {
	Repair    bool `yaml:"repair"`
	Generator bool `yaml:"generator"`
	Watch     bool `yaml:"watch"`
}

// DefaultConfig returns the settings of the production site.
func DefaultConfig() Config {
	return Config{
		Site: SiteConfig{
			BaseURL:      "https://www.bujatime.com",
			Name:         "부자타임",
			Title:        "BujaTime - Daily Insights for Financial Freedom",
			Description:  "AI, finance, side hustle, and business insights from BujaTime.",
			DefaultImage: "https://www.bujatime.com/og-image.png",
			Language:     "ko",
		},
		Content: ContentConfig{
			DataDir:  "src/data",
			PostsDir: "src/data/posts",
		},
		Markdown: MarkdownConfig{
			Pattern:   "*.md",
			Recursive: true,
			Debounce:  200 * time.Millisecond,
			Parser: interfaces.ParseOptions{
				Extensions: []string{"gfm", "linkify", "tasklist"},
			},
		},
		Generator: GeneratorConfig{
			OutputDir: "dist",
			ShellFile: "index.html",
			Feed:      true,
			Sitemap:   true,
			Robots:    true,
			Prerender: true,
			Workers:   4,
		},
		Commands: CommandsConfig{
			Timeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
		Features: Features{
			Repair:    true,
			Generator: true,
			Watch:     true,
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if !isAbsoluteHTTPURL(cfg.Site.BaseURL) {
		return fmt.Errorf("%w: %q", ErrBaseURLRequired, cfg.Site.BaseURL)
	}
	if strings.TrimSpace(cfg.Content.DataDir) == "" {
		return ErrDataDirRequired
	}
	if cfg.Features.Generator && strings.TrimSpace(cfg.Generator.OutputDir) == "" {
		return ErrOutputDirRequired
	}
	if cfg.Markdown.Concurrency < 0 {
		return fmt.Errorf("%w: markdown.concurrency", ErrConcurrencyInvalid)
	}
	if cfg.Generator.Workers < 0 {
		return fmt.Errorf("%w: generator.workers", ErrConcurrencyInvalid)
	}
	if cfg.Commands.ScanRetries < 0 {
		return fmt.Errorf("%w: commands.scan_retries", ErrConcurrencyInvalid)
	}

	provider := normalizeProvider(cfg.Logging.Provider)
	if provider != "" && !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(provider, format) {
		return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
	}
	return nil
}

func isAbsoluteHTTPURL(raw string) bool {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

// The console provider only writes plain lines.
func isSupportedFormat(provider, format string) bool {
	format = strings.ToLower(strings.TrimSpace(format))
	if provider == "gologger" {
		switch format {
		case "json", "console", "pretty":
			return true
		}
		return false
	}
	return format == "plain"
}
