package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/srmagura/blog/internal/config"
	"github.com/srmagura/blog/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the content manifest for publishing tools",
	Long: `Export scans the collection and writes the content records a publishing
tool ingests. The default is an indented JSON manifest; NDJSON emits one
record per line with no envelope.

Examples:
  blog export                     # Write manifest.json
  blog export --out site.json     # Choose the output file
  blog export --format ndjson     # One record per line
  blog export --out -             # Write to stdout
  blog export --no-body           # Metadata only`,
	RunE:         runExport,
	SilenceUsage: true,
}

var (
	exportOut           string
	exportFormat        string
	exportIncludeDrafts bool
	exportNoBody        bool
)

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (- for stdout, default from config)")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "Output format (json|ndjson, default from config)")
	exportCmd.Flags().BoolVar(&exportIncludeDrafts, "include-drafts", false, "Export drafts too")
	exportCmd.Flags().BoolVar(&exportNoBody, "no-body", false, "Omit document bodies from the records")
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	out := cfg.Export.Out
	if exportOut != "" {
		out = exportOut
	}
	format := cfg.Export.Format
	if exportFormat != "" {
		format = exportFormat
	}
	if err := ValidateFormatWithSuggestion(format, config.FormatJSON, config.FormatNDJSON); err != nil {
		return err
	}

	includeDrafts := cfg.Export.IncludeDrafts || exportIncludeDrafts
	includeBody := cfg.Export.IncludeBody && !exportNoBody

	reg, cs, err := scanCollection(cfg)
	if err != nil {
		return err
	}
	defer cs.Close()

	manifest := export.Build(reg, export.Options{
		ContentDir:    cfg.Content.Dir,
		IncludeDrafts: includeDrafts,
		IncludeBody:   includeBody,
	})

	if out == "-" {
		return export.Write(os.Stdout, manifest, format)
	}

	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", out, err)
	}
	defer f.Close()

	if err := export.Write(f, manifest, format); err != nil {
		return err
	}

	fmt.Printf("✅ Exported %d documents to %s\n", manifest.Documents, out)
	return nil
}
