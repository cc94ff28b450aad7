package runtimeconfig_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bujatime/bujatime/internal/runtimeconfig"
	"github.com/google/go-cmp/cmp"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := runtimeconfig.DefaultConfig().Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*runtimeconfig.Config)
		want   error
	}{
		{"relative base url", func(c *runtimeconfig.Config) { c.Site.BaseURL = "/site" }, runtimeconfig.ErrBaseURLRequired},
		{"blank base url", func(c *runtimeconfig.Config) { c.Site.BaseURL = " " }, runtimeconfig.ErrBaseURLRequired},
		{"ftp base url", func(c *runtimeconfig.Config) { c.Site.BaseURL = "ftp://bujatime.com" }, runtimeconfig.ErrBaseURLRequired},
		{"missing data dir", func(c *runtimeconfig.Config) { c.Content.DataDir = "" }, runtimeconfig.ErrDataDirRequired},
		{"generator without output", func(c *runtimeconfig.Config) { c.Generator.OutputDir = " " }, runtimeconfig.ErrOutputDirRequired},
		{"negative concurrency", func(c *runtimeconfig.Config) { c.Markdown.Concurrency = -1 }, runtimeconfig.ErrConcurrencyInvalid},
		{"negative workers", func(c *runtimeconfig.Config) { c.Generator.Workers = -2 }, runtimeconfig.ErrConcurrencyInvalid},
		{"unknown provider", func(c *runtimeconfig.Config) { c.Logging.Provider = "syslog" }, runtimeconfig.ErrLoggingProviderUnknown},
		{"unknown level", func(c *runtimeconfig.Config) { c.Logging.Level = "loud" }, runtimeconfig.ErrLoggingLevelInvalid},
		{"json needs gologger", func(c *runtimeconfig.Config) { c.Logging.Format = "json" }, runtimeconfig.ErrLoggingFormatInvalid},
		{"gologger rejects xml", func(c *runtimeconfig.Config) {
			c.Logging.Provider = "gologger"
			c.Logging.Format = "xml"
		}, runtimeconfig.ErrLoggingFormatInvalid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := runtimeconfig.DefaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestConfigValidateAllowsDisabledGeneratorWithoutOutput(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Generator = false
	cfg.Generator.OutputDir = ""

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
}

func TestConfigValidateAcceptsGologgerFormats(t *testing.T) {
	for _, format := range []string{"json", "console", "pretty"} {
		cfg := runtimeconfig.DefaultConfig()
		cfg.Logging.Provider = "gologger"
		cfg.Logging.Format = format
		if err := cfg.Validate(); err != nil {
			t.Fatalf("format %s: unexpected error %v", format, err)
		}
	}
}

func TestDecodeMergesOverDefaults(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	data := []byte(`
site:
  base_url: https://staging.bujatime.com
content:
  hidden_categories: [briefing]
markdown:
  concurrency: 8
  debounce: 500ms
  parser:
    hard_wraps: true
generator:
  incremental: true
logging:
  provider: gologger
  format: pretty
  focus: [bujatime.markdown]
`)
	if err := runtimeconfig.Decode(data, &cfg); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if cfg.Site.BaseURL != "https://staging.bujatime.com" || cfg.Site.Name != "부자타임" {
		t.Fatalf("unexpected site %+v", cfg.Site)
	}
	if diff := cmp.Diff([]string{"briefing"}, cfg.Content.HiddenCategories); diff != "" {
		t.Fatalf("hidden categories mismatch (-want +got):\n%s", diff)
	}
	if cfg.Markdown.Concurrency != 8 || cfg.Markdown.Debounce != 500*time.Millisecond || !cfg.Markdown.Parser.HardWraps {
		t.Fatalf("unexpected markdown config %+v", cfg.Markdown)
	}
	if !cfg.Markdown.Recursive || cfg.Markdown.Pattern != "*.md" {
		t.Fatalf("defaults lost: %+v", cfg.Markdown)
	}
	if !cfg.Generator.Incremental || !cfg.Generator.Feed || cfg.Generator.OutputDir != "dist" {
		t.Fatalf("unexpected generator config %+v", cfg.Generator)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("decoded config invalid: %v", err)
	}
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	if err := runtimeconfig.Decode([]byte("generator:\n  ouput_dir: public\n"), &cfg); err == nil {
		t.Fatal("expected unknown key error")
	}
}

func TestDecodeEmptyDocument(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	if err := runtimeconfig.Decode(nil, &cfg); err != nil {
		t.Fatalf("empty document should decode: %v", err)
	}
	if diff := cmp.Diff(runtimeconfig.DefaultConfig(), cfg); diff != "" {
		t.Fatalf("empty document changed config (-want +got):\n%s", diff)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"BUJATIME_BASE_URL":          "https://preview.bujatime.com",
		"BUJATIME_OUTPUT_DIR":        " public ",
		"BUJATIME_HIDDEN_CATEGORIES": "briefing, draft ,news",
		"BUJATIME_FEATURE_WATCH":     "false",
		"BUJATIME_WORKERS":           "2",
		"BUJATIME_LOG_LEVEL":         "",
	}
	lookup := func(key string) (string, bool) {
		value, ok := env[key]
		return value, ok
	}

	cfg := runtimeconfig.DefaultConfig()
	if err := runtimeconfig.ApplyEnv(&cfg, lookup); err != nil {
		t.Fatalf("apply env: %v", err)
	}
	if cfg.Site.BaseURL != "https://preview.bujatime.com" || cfg.Generator.OutputDir != "public" {
		t.Fatalf("string overrides not applied: %+v %+v", cfg.Site, cfg.Generator)
	}
	if diff := cmp.Diff([]string{"briefing", "draft", "news"}, cfg.Content.HiddenCategories); diff != "" {
		t.Fatalf("hidden categories mismatch (-want +got):\n%s", diff)
	}
	if cfg.Features.Watch || cfg.Generator.Workers != 2 {
		t.Fatalf("typed overrides not applied: %+v %+v", cfg.Features, cfg.Generator)
	}
	if cfg.Logging.Level != "info" {
		t.Fatalf("blank value should keep default level, got %q", cfg.Logging.Level)
	}
}

func TestApplyEnvRejectsMalformedValues(t *testing.T) {
	cases := map[string]string{
		"BUJATIME_FEATURE_REPAIR": "sometimes",
		"BUJATIME_CONCURRENCY":    "many",
	}
	for key, value := range cases {
		cfg := runtimeconfig.DefaultConfig()
		lookup := func(k string) (string, bool) {
			if k == key {
				return value, true
			}
			return "", false
		}
		if err := runtimeconfig.ApplyEnv(&cfg, lookup); err == nil {
			t.Fatalf("%s: expected parse error", key)
		}
	}
}

func TestLoadReadsFileAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bujatime.yaml")
	if err := os.WriteFile(path, []byte("generator:\n  output_dir: build\nlogging:\n  level: debug\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("BUJATIME_LOG_LEVEL", "warn")

	cfg, err := runtimeconfig.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Generator.OutputDir != "build" {
		t.Fatalf("expected file value, got %q", cfg.Generator.OutputDir)
	}
	if cfg.Logging.Level != "warn" {
		t.Fatalf("expected environment to win, got %q", cfg.Logging.Level)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := runtimeconfig.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not exist error, got %v", err)
	}
}

func TestLoadReadsDotEnvWithoutOverriding(t *testing.T) {
	t.Chdir(t.TempDir())
	// Registers restoration of the original value, then clears it so the .env file applies.
	t.Setenv("BUJATIME_SITE_NAME", "")
	os.Unsetenv("BUJATIME_SITE_NAME")
	t.Setenv("BUJATIME_OUTPUT_DIR", "from-shell")

	dotenv := "BUJATIME_SITE_NAME=부자타임 미리보기\nBUJATIME_OUTPUT_DIR=from-dotenv\n"
	if err := os.WriteFile(".env", []byte(dotenv), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	cfg, err := runtimeconfig.Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Site.Name != "부자타임 미리보기" {
		t.Fatalf("expected .env value, got %q", cfg.Site.Name)
	}
	if cfg.Generator.OutputDir != "from-shell" {
		t.Fatalf("expected shell variable to win over .env, got %q", cfg.Generator.OutputDir)
	}
}
