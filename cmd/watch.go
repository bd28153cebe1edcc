package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/srmagura/blog/internal/errors"
	"github.com/srmagura/blog/internal/lint"
	"github.com/srmagura/blog/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:     "watch",
	Aliases: []string{"w"},
	Short:   "Watch the content directory and re-lint on changes",
	Long: `Watch the content directory and re-run the editorial checks whenever a
document or image changes. Only the difference against the previous run is
printed, so a long session stays readable.

Examples:
  blog watch                      # Watch the configured content directory
  blog watch --verbose            # List every changed file`,
	RunE: runWatch,
}

var watchVerbose bool

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().BoolVarP(&watchVerbose, "verbose", "v", false, "Verbose output")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	reg, cs, err := scanCollection(cfg)
	if err != nil {
		return err
	}
	defer cs.Close()

	linter := lint.New()
	linter.Disable(cfg.Lint.Disable...)

	// Initial report; later runs print only the delta against this.
	linter.SetDuplicates(cs.Duplicates())
	linter.SetParseFailures(cs.ParseFailures())
	report := linter.Run(reg, cs.Root())
	fmt.Printf("📁 %d documents, %d problems (%d errors, %d warnings)\n",
		reg.Count(), len(report.Diagnostics), report.Errors, report.Warnings)
	previous := diagnosticSet(report)

	fileWatcher, err := watcher.NewFileWatcher(cs.Root(), 300*time.Millisecond, logger)
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fileWatcher.Stop()

	fileWatcher.AddFilter(func(p string) bool {
		return watcher.MarkdownFilter(p) || watcher.AssetFilter(p)
	})
	fileWatcher.AddFilter(watcher.NoHiddenFilter(cs.Root()))
	fileWatcher.AddFilter(watcher.ExcludeGlobsFilter(cs.Root(), cfg.Content.Exclude))

	fileWatcher.AddHandler(func(events []watcher.ChangeEvent) error {
		if watchVerbose {
			fmt.Printf("📁 File changes detected:\n")
			for _, event := range events {
				fmt.Printf("   %s: %s\n", event.Type, event.Path)
			}
		} else {
			fmt.Printf("📁 %d file(s) changed\n", len(events))
		}

		for _, event := range events {
			switch event.Type {
			case watcher.EventTypeDeleted, watcher.EventTypeRenamed:
				// A rename delivers the old path; the new path arrives as
				// its own create event.
				if err := cs.RemovePath(event.Path); err != nil {
					fmt.Fprintf(os.Stderr, "Failed to drop %s: %v\n", event.Path, err)
				}
			default:
				// Content errors surface through the lint delta as
				// parse-error diagnostics, not here.
				if err := cs.ScanFile(event.Path); err != nil && !errors.IsContentError(err) {
					fmt.Fprintf(os.Stderr, "Failed to rescan %s: %v\n", event.Path, err)
				}
			}
		}

		linter.SetDuplicates(cs.Duplicates())
		linter.SetParseFailures(cs.ParseFailures())
		report := linter.Run(reg, cs.Root())
		previous = printDelta(previous, report)

		return nil
	})

	if err := fileWatcher.AddRecursive(cs.Root()); err != nil {
		return fmt.Errorf("failed to watch %s: %w", cs.Root(), err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if err := fileWatcher.Start(ctx); err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}

	fmt.Println("👀 Watching for changes... (Press Ctrl+C to stop)")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigChan:
	case <-ctx.Done():
	}

	fmt.Println("\n🛑 Stopping file watcher...")
	cancel()

	return nil
}

// diagnosticSet keys a report so two runs can be compared.
func diagnosticSet(report lint.Report) map[string]bool {
	set := make(map[string]bool, len(report.Diagnostics))
	for _, d := range report.Diagnostics {
		set[d.String()] = true
	}
	return set
}

// printDelta reports what changed between two lint runs and returns the new
// baseline. Unchanged diagnostics stay quiet.
func printDelta(previous map[string]bool, report lint.Report) map[string]bool {
	current := diagnosticSet(report)

	resolved := 0
	for key := range previous {
		if !current[key] {
			resolved++
		}
	}

	introduced := 0
	for _, d := range report.Sorted() {
		if !previous[d.String()] {
			fmt.Println("  " + d.String())
			introduced++
		}
	}

	switch {
	case introduced == 0 && resolved == 0 && len(report.Diagnostics) == 0:
		fmt.Println("✅ No problems")
	case introduced == 0 && resolved == 0:
		fmt.Printf("   %d known problems\n", len(report.Diagnostics))
	default:
		fmt.Printf("   %d new, %d fixed, %d total (%d errors, %d warnings)\n",
			introduced, resolved, len(report.Diagnostics), report.Errors, report.Warnings)
	}

	return current
}
