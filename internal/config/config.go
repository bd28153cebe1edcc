// Package config loads and validates blog configuration using Viper.
//
// Configuration is read from a .blog.yml file, environment variables with
// the BLOG_ prefix, and command-line flags. It covers the content root and
// its exclusion globs, lint rule toggles, export output, the search index
// location, and logging. Values resolve flag > environment > file > default.
package config

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"

	"github.com/srmagura/blog/internal/errors"
	"github.com/srmagura/blog/internal/lint"
)

// Export output formats.
const (
	FormatJSON   = "json"
	FormatNDJSON = "ndjson"
)

type Config struct {
	Content ContentConfig `mapstructure:"content" yaml:"content" json:"content"`
	Lint    LintConfig    `mapstructure:"lint" yaml:"lint" json:"lint"`
	Export  ExportConfig  `mapstructure:"export" yaml:"export" json:"export"`
	Index   IndexConfig   `mapstructure:"index" yaml:"index" json:"index"`
	Log     LogConfig     `mapstructure:"log" yaml:"log" json:"log"`
}

type ContentConfig struct {
	Dir       string   `mapstructure:"dir" yaml:"dir" json:"dir"`
	Exclude   []string `mapstructure:"exclude" yaml:"exclude" json:"exclude"`
	AssetDirs []string `mapstructure:"asset_dirs" yaml:"asset_dirs" json:"asset_dirs"`
}

type LintConfig struct {
	Disable []string `mapstructure:"disable" yaml:"disable" json:"disable"`
	Strict  bool     `mapstructure:"strict" yaml:"strict" json:"strict"`
}

type ExportConfig struct {
	Out           string `mapstructure:"out" yaml:"out" json:"out"`
	Format        string `mapstructure:"format" yaml:"format" json:"format"`
	IncludeDrafts bool   `mapstructure:"include_drafts" yaml:"include_drafts" json:"include_drafts"`
	IncludeBody   bool   `mapstructure:"include_body" yaml:"include_body" json:"include_body"`
}

type IndexConfig struct {
	Path   string `mapstructure:"path" yaml:"path" json:"path"`
	MaxAge string `mapstructure:"max_age" yaml:"max_age" json:"max_age"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level" json:"level"`
	Format string `mapstructure:"format" yaml:"format" json:"format"`
}

// DefaultIndexPath returns the XDG data location used when index.path is
// left empty.
func DefaultIndexPath() string {
	return filepath.Join(xdg.DataHome, "blog", "index.db")
}

// ResolvedPath returns the configured index path, or the XDG default.
func (c IndexConfig) ResolvedPath() string {
	if c.Path != "" {
		return c.Path
	}
	return DefaultIndexPath()
}

// MaxAgeDuration parses index.max_age. Validation has already rejected
// unparseable values, so a bad string here just falls back to a day.
func (c IndexConfig) MaxAgeDuration() time.Duration {
	d, err := time.ParseDuration(c.MaxAge)
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}

func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, errors.WrapConfig(err, errors.ErrCodeConfigInvalid, "cannot decode configuration")
	}

	applyDefaults(viper.GetViper(), &config)

	if err := validateConfig(&config); err != nil {
		return nil, errors.WrapConfig(err, errors.ErrCodeConfigInvalid, "invalid configuration")
	}

	return &config, nil
}

// LoadFile reads and validates a single config file in isolation, without
// the environment or the session's Viper state. Used by `blog config
// validate`.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.WrapConfig(err, errors.ErrCodeFileNotFound, fmt.Sprintf("cannot read %s", path))
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.WrapConfig(err, errors.ErrCodeConfigInvalid, "cannot decode configuration")
	}

	applyDefaults(v, &config)

	if err := validateConfig(&config); err != nil {
		return nil, errors.WrapConfig(err, errors.ErrCodeConfigInvalid, "invalid configuration")
	}

	return &config, nil
}

func applyDefaults(v *viper.Viper, config *Config) {
	if config.Content.Dir == "" {
		config.Content.Dir = "./content"
	}
	if len(config.Content.Exclude) == 0 && !v.IsSet("content.exclude") {
		config.Content.Exclude = []string{"drafts/archive/**", "*.bak"}
	}

	if config.Export.Out == "" {
		config.Export.Out = "manifest.json"
	}
	if config.Export.Format == "" {
		config.Export.Format = FormatJSON
	}
	// Body inclusion defaults on, so an unset value must not read as false.
	if !v.IsSet("export.include_body") {
		config.Export.IncludeBody = true
	}

	if config.Index.MaxAge == "" {
		config.Index.MaxAge = "24h"
	}

	if config.Log.Level == "" {
		config.Log.Level = "info"
	}
	if config.Log.Format == "" {
		config.Log.Format = "auto"
	}
}

// validateConfig validates configuration values for security and correctness.
func validateConfig(config *Config) error {
	if err := validateContentConfig(&config.Content); err != nil {
		return fmt.Errorf("content config: %w", err)
	}
	if err := validateLintConfig(&config.Lint); err != nil {
		return fmt.Errorf("lint config: %w", err)
	}
	if err := validateExportConfig(&config.Export); err != nil {
		return fmt.Errorf("export config: %w", err)
	}
	if err := validateIndexConfig(&config.Index); err != nil {
		return fmt.Errorf("index config: %w", err)
	}
	if err := validateLogConfig(&config.Log); err != nil {
		return fmt.Errorf("log config: %w", err)
	}
	return nil
}

func validateContentConfig(config *ContentConfig) error {
	if err := validateDirPath(config.Dir); err != nil {
		return fmt.Errorf("invalid dir %q: %w", config.Dir, err)
	}
	for _, pattern := range config.Exclude {
		if _, err := path.Match(pattern, "probe"); err != nil {
			return fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
	}
	// Extra asset roots may live outside the content dir, so only emptiness
	// is rejected here.
	for _, dir := range config.AssetDirs {
		if dir == "" {
			return fmt.Errorf("empty asset dir")
		}
	}
	return nil
}

func validateLintConfig(config *LintConfig) error {
	for _, rule := range config.Disable {
		if !lint.IsKnownRule(rule) {
			return fmt.Errorf("unknown rule %q (known rules: %s)", rule, strings.Join(lint.KnownRules(), ", "))
		}
	}
	return nil
}

func validateExportConfig(config *ExportConfig) error {
	if config.Out == "" {
		return fmt.Errorf("empty out path")
	}
	switch config.Format {
	case FormatJSON, FormatNDJSON:
		return nil
	default:
		return fmt.Errorf("unknown format %q (expected json or ndjson)", config.Format)
	}
}

func validateIndexConfig(config *IndexConfig) error {
	d, err := time.ParseDuration(config.MaxAge)
	if err != nil {
		return fmt.Errorf("invalid max_age %q: %w", config.MaxAge, err)
	}
	if d < 0 {
		return fmt.Errorf("negative max_age %q", config.MaxAge)
	}
	return nil
}

func validateLogConfig(config *LogConfig) error {
	switch strings.ToLower(config.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log level %q", config.Level)
	}
	switch config.Format {
	case "auto", "json", "text":
		return nil
	default:
		return fmt.Errorf("unknown log format %q (expected auto, json, or text)", config.Format)
	}
}

// validateDirPath rejects empty paths and traversal segments.
func validateDirPath(p string) error {
	if p == "" {
		return fmt.Errorf("empty path")
	}
	if strings.Contains(filepath.Clean(p), "..") {
		return fmt.Errorf("path contains traversal")
	}
	return nil
}
