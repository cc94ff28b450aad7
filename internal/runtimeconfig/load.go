package runtimeconfig

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "BUJATIME_"

// Load builds the runtime configuration: defaults, then the YAML file at path
// when path is not blank, then BUJATIME_* environment variables. A .env file
// in the working directory is loaded first; variables already set win.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()
	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("bujatime config: read %s: %w", path, err)
		}
		if err := Decode(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("bujatime config: %s: %w", path, err)
		}
	}
	if err := ApplyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Decode merges YAML data over cfg. Unknown keys are rejected.
func Decode(data []byte, cfg *Config) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// ApplyEnv overrides cfg from the environment, as read through lookup.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"BASE_URL":     &cfg.Site.BaseURL,
		"SITE_NAME":    &cfg.Site.Name,
		"DATA_DIR":     &cfg.Content.DataDir,
		"POSTS_DIR":    &cfg.Content.PostsDir,
		"OUTPUT_DIR":   &cfg.Generator.OutputDir,
		"SHELL_FILE":   &cfg.Generator.ShellFile,
		"LOG_PROVIDER": &cfg.Logging.Provider,
		"LOG_LEVEL":    &cfg.Logging.Level,
		"LOG_FORMAT":   &cfg.Logging.Format,
	}
	for key, target := range strs {
		if value, ok := lookup(EnvPrefix + key); ok && strings.TrimSpace(value) != "" {
			*target = strings.TrimSpace(value)
		}
	}

	if value, ok := lookup(EnvPrefix + "HIDDEN_CATEGORIES"); ok {
		cfg.Content.HiddenCategories = splitList(value)
	}

	bools := map[string]*bool{
		"FEATURE_REPAIR":    &cfg.Features.Repair,
		"FEATURE_GENERATOR": &cfg.Features.Generator,
		"FEATURE_WATCH":     &cfg.Features.Watch,
		"INCREMENTAL":       &cfg.Generator.Incremental,
	}
	for key, target := range bools {
		value, ok := lookup(EnvPrefix + key)
		if !ok || strings.TrimSpace(value) == "" {
			continue
		}
		parsed, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("bujatime config: %s%s: %w", EnvPrefix, key, err)
		}
		*target = parsed
	}

	ints := map[string]*int{
		"CONCURRENCY": &cfg.Markdown.Concurrency,
		"WORKERS":     &cfg.Generator.Workers,
	}
	for key, target := range ints {
		value, ok := lookup(EnvPrefix + key)
		if !ok || strings.TrimSpace(value) == "" {
			continue
		}
		parsed, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("bujatime config: %s%s: %w", EnvPrefix, key, err)
		}
		*target = parsed
	}
	return nil
}

func splitList(value string) []string {
	out := []string{}
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
