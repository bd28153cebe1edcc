package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/srmagura/blog/internal/lint"
)

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Check the collection for editorial problems",
	Long: `Lint scans the content directory and reports broken links, missing
images, duplicate slugs, and metadata problems. Broken references are
errors; style findings are warnings. The command exits non-zero when
errors are present, or when --strict promotes warnings.

Examples:
  blog lint                       # Human-readable report
  blog lint --strict              # Warnings fail the run too
  blog lint -f json               # Machine-readable output
  blog lint --disable undated     # Skip specific rules`,
	RunE:         runLint,
	SilenceUsage: true,
}

var (
	lintFormat  string
	lintStrict  bool
	lintDisable []string
)

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().StringVarP(&lintFormat, "format", "f", "text", "Output format (text|json)")
	lintCmd.Flags().BoolVar(&lintStrict, "strict", false, "Treat warnings as errors")
	lintCmd.Flags().StringSliceVar(&lintDisable, "disable", nil, "Rules to skip (repeatable)")

	AddFlagValidation(lintCmd, "format", func(format string) error {
		return ValidateFormatWithSuggestion(format, "text", "json")
	})
}

func runLint(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Flags layer on top of the config file: --strict can only tighten,
	// and disabled rules accumulate.
	strict := lintStrict || cfg.Lint.Strict
	disabled := append(append([]string{}, cfg.Lint.Disable...), lintDisable...)
	for _, rule := range disabled {
		if !lint.IsKnownRule(rule) {
			return fmt.Errorf("unknown lint rule %q (known: %s)",
				rule, strings.Join(lint.KnownRules(), ", "))
		}
	}

	reg, cs, err := scanCollection(cfg)
	if err != nil {
		return err
	}
	defer cs.Close()

	linter := lint.New()
	linter.Disable(disabled...)
	linter.SetDuplicates(cs.Duplicates())
	linter.SetParseFailures(cs.ParseFailures())
	report := linter.Run(reg, cs.Root())

	switch strings.ToLower(lintFormat) {
	case "json":
		if err := outputLintJSON(os.Stdout, report); err != nil {
			return err
		}
	case "text":
		outputLintText(os.Stdout, report, reg.Count())
	default:
		return fmt.Errorf("unsupported format: %s", lintFormat)
	}

	if report.ExitCode(strict) != 0 {
		return fmt.Errorf("lint failed with %d errors and %d warnings",
			report.Errors, report.Warnings)
	}

	return nil
}

func outputLintText(w io.Writer, report lint.Report, docCount int) {
	if len(report.Diagnostics) == 0 {
		fmt.Fprintf(w, "✅ No problems found in %d documents\n", docCount)
		return
	}

	// Sorted groups diagnostics by file, so a blank line between path
	// changes is enough to read as sections.
	lastPath := ""
	for _, d := range report.Sorted() {
		if d.RelPath != lastPath && lastPath != "" {
			fmt.Fprintln(w)
		}
		lastPath = d.RelPath
		fmt.Fprintln(w, d.String())
	}

	fmt.Fprintf(w, "\n%d problems (%d errors, %d warnings)\n",
		len(report.Diagnostics), report.Errors, report.Warnings)
}

func outputLintJSON(w io.Writer, report lint.Report) error {
	diags := make([]map[string]interface{}, 0, len(report.Diagnostics))
	for _, d := range report.Sorted() {
		item := map[string]interface{}{
			"rule":     d.Rule,
			"severity": string(d.Severity),
			"path":     d.RelPath,
			"message":  d.Message,
		}
		if d.Line > 0 {
			item["line"] = d.Line
		}
		if d.Suggestion != "" {
			item["suggestion"] = d.Suggestion
		}
		diags = append(diags, item)
	}

	output := map[string]interface{}{
		"errors":      report.Errors,
		"warnings":    report.Warnings,
		"diagnostics": diags,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
