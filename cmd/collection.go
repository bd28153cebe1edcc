package cmd

import (
	"fmt"
	"os"

	"github.com/srmagura/blog/internal/config"
	"github.com/srmagura/blog/internal/logging"
	"github.com/srmagura/blog/internal/registry"
	"github.com/srmagura/blog/internal/scanner"
)

// loadConfig resolves the effective configuration after Viper has read the
// config file and environment.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// newLogger builds the logger the long-running commands hand to the watcher
// and scanner.
func newLogger(cfg *config.Config) *logging.BlogLogger {
	lc := logging.DefaultConfig()
	lc.Level = logging.ParseLevel(cfg.Log.Level)
	if cfg.Log.Format != "" {
		lc.Format = cfg.Log.Format
	}
	return logging.NewLogger(lc)
}

// scanCollection scans the configured content directory into a fresh
// registry. Per-file parse failures are reported on stderr; the scan keeps
// whatever documents did parse. The caller owns the scanner and must Close it.
func scanCollection(cfg *config.Config) (*registry.DocumentRegistry, *scanner.ContentScanner, error) {
	reg := registry.NewDocumentRegistry()

	cs, err := scanner.NewContentScanner(reg, cfg.Content.Dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open content directory %s: %w", cfg.Content.Dir, err)
	}
	cs.SetExcludes(cfg.Content.Exclude)
	cs.SetAssetDirs(cfg.Content.AssetDirs)

	if err := cs.ScanDirectory(cfg.Content.Dir); err != nil {
		// Unparseable files are skipped, not fatal; the documents that
		// did parse are still in the registry.
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	return reg, cs, nil
}
