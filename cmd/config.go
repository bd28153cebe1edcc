package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/srmagura/blog/internal/config"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage blog configuration",
	Long: `Manage the .blog.yml configuration file.

Examples:
  blog config init                # Write a starter .blog.yml
  blog config show                # Print the resolved configuration
  blog config show --format json  # Print as JSON
  blog config validate            # Validate .blog.yml in this directory
  blog config validate --file other.yml`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter configuration file",
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the resolved configuration",
	Long: `Show the configuration the other commands will actually use, after the
config file, environment variables, and defaults have been merged.`,
	RunE: runConfigShow,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Validate a configuration file on its own, without the environment or any
other config source layered on top.`,
	RunE: runConfigValidate,
}

var (
	configOutput string
	configFile   string
	configFormat string
)

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)

	configInitCmd.Flags().StringVarP(&configOutput, "output", "o", ".blog.yml", "Where to write the starter file")
	configShowCmd.Flags().StringVarP(&configFormat, "format", "f", "yaml", "Output format (yaml, json)")
	configValidateCmd.Flags().StringVar(&configFile, "file", ".blog.yml", "Configuration file to validate")

	AddFlagValidation(configShowCmd, "format", func(format string) error {
		return ValidateFormatWithSuggestion(format, "yaml", "json")
	})
}

const starterConfig = `# blog configuration
content:
  dir: "./content"
  exclude: ["drafts/archive/**", "*.bak"]
  # asset_dirs: ["../shared-images"]

lint:
  disable: []          # rule IDs to skip, e.g. [undated]
  strict: false        # warnings fail the run

export:
  out: "manifest.json"
  format: "json"       # json | ndjson
  include_drafts: false
  include_body: true

index:
  # path: ""           # default: XDG data dir
  max_age: "24h"

log:
  level: "info"        # debug | info | warn | error
  format: "auto"       # auto | text | json
`

func runConfigInit(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(configOutput); err == nil {
		return fmt.Errorf("refusing to overwrite %s", configOutput)
	}

	if err := os.WriteFile(configOutput, []byte(starterConfig), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", configOutput, err)
	}

	fmt.Printf("✅ Wrote %s\n", configOutput)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	switch configFormat {
	case "json":
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	case "yaml", "yml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		fmt.Print(string(data))
	default:
		return fmt.Errorf("unsupported format: %s (supported: yaml, json)", configFormat)
	}

	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		return fmt.Errorf("configuration file %s does not exist", configFile)
	}

	if _, err := config.LoadFile(configFile); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	fmt.Printf("✅ %s is valid\n", configFile)
	return nil
}
