// Package cmd provides the command-line interface for the blog tool with
// configuration management supporting multiple configuration sources.
//
// Configuration System:
//
//	The CLI supports flexible configuration through multiple sources with clear precedence:
//	1. Command-line flags (--config, --strict, etc.) - highest priority
//	2. BLOG_CONFIG_FILE environment variable - custom config file path
//	3. Individual environment variables (BLOG_CONTENT_DIR, etc.)
//	4. Configuration files (.blog.yml) - lowest priority
//
// Environment Variables:
//
//	BLOG_CONFIG_FILE: Path to custom configuration file
//	BLOG_CONTENT_DIR: Override the content directory
//	BLOG_LINT_STRICT: Treat lint warnings as errors
//	BLOG_EXPORT_OUT: Override the manifest output path
//	And more following the BLOG_<SECTION>_<OPTION> pattern
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "blog",
	Short: "A CLI for maintaining a Markdown article collection",
	Long: `Blog scans a directory of Markdown articles, checks them for editorial
problems, and answers questions about the collection.

Key Features:
  • Front matter and filename date parsing
  • Broken link and missing image detection
  • Full-text search over a local SQLite index
  • JSON manifest export for downstream tooling
  • Interactive terminal browser

Quick Start:
  blog list                       List all documents
  blog lint                       Check the collection for problems
  blog new "Post Title"           Scaffold a new article
  blog search generics            Search the index
  blog browse                     Browse the collection interactively

Command Aliases (for faster typing):
  list (l), browse (b), watch (w)`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .blog.yml, can also use BLOG_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig initializes the configuration system with support for multiple config sources.
//
// Configuration Loading Priority (highest to lowest):
//  1. --config flag: Explicitly specified config file path
//  2. BLOG_CONFIG_FILE environment variable: Custom config file path
//  3. .blog.yml in the current directory
//  4. config.yml under the XDG config home (~/.config/blog)
//
// The function also enables automatic environment variable binding for all
// configuration values with the BLOG_ prefix (e.g., BLOG_CONTENT_DIR=articles).
func initConfig() {
	if cfgFile != "" {
		// Priority 1: config file specified via --config flag
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("BLOG_CONFIG_FILE"); envConfigFile != "" {
		// Priority 2: config file specified via BLOG_CONFIG_FILE, so a
		// project can pin its config without touching the command line
		viper.SetConfigFile(envConfigFile)
	} else if _, err := os.Stat(".blog.yml"); err == nil {
		// Priority 3: .blog.yml next to the content being worked on
		viper.SetConfigFile(".blog.yml")
	} else {
		// Priority 4: per-user config under the XDG config home
		viper.AddConfigPath(filepath.Join(xdg.ConfigHome, "blog"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Enable automatic environment variable binding with BLOG_ prefix
	// Examples: BLOG_CONTENT_DIR, BLOG_LINT_STRICT, BLOG_INDEX_PATH
	viper.SetEnvPrefix("BLOG")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// If the file doesn't exist Viper falls back to defaults without
	// failing, so a bare checkout still works.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
