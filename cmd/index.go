package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/srmagura/blog/internal/config"
	"github.com/srmagura/blog/internal/export"
	"github.com/srmagura/blog/internal/store"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build or refresh the search index",
	Long: `Index scans the collection and writes every document into the local
SQLite index that search and browse read. Drafts are indexed too; queries
decide whether to show them.

Examples:
  blog index                      # Refresh the index
  blog index --prune              # Also drop vanished documents
  blog index --stats              # Show index statistics`,
	RunE:         runIndex,
	SilenceUsage: true,
}

var (
	indexPrune     bool
	indexShowStats bool
)

func init() {
	rootCmd.AddCommand(indexCmd)

	indexCmd.Flags().BoolVar(&indexPrune, "prune", false, "Delete index rows for documents that no longer exist")
	indexCmd.Flags().BoolVar(&indexShowStats, "stats", false, "Show index statistics instead of refreshing")
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.Index.ResolvedPath())
	if err != nil {
		return fmt.Errorf("failed to open index: %w", err)
	}
	defer st.Close()

	if indexShowStats {
		return outputIndexStats(st)
	}

	indexed, pruned, err := refreshIndex(cfg, st, indexPrune)
	if err != nil {
		return err
	}

	if pruned > 0 {
		fmt.Printf("✅ Indexed %d documents, pruned %d, at %s\n", indexed, pruned, st.Path())
	} else {
		fmt.Printf("✅ Indexed %d documents at %s\n", indexed, st.Path())
	}
	return nil
}

// refreshIndex rescans the collection into the index. Every document goes
// in, drafts and bodies included; queries narrow later. Prune drops rows
// whose documents vanished from the content directory.
func refreshIndex(cfg *config.Config, st *store.Store, prune bool) (indexed int, pruned int64, err error) {
	reg, cs, err := scanCollection(cfg)
	if err != nil {
		return 0, 0, err
	}
	defer cs.Close()

	manifest := export.Build(reg, export.Options{
		ContentDir:    cfg.Content.Dir,
		IncludeDrafts: true,
		IncludeBody:   true,
	})

	if err := st.UpsertDocuments(manifest.Records); err != nil {
		return 0, 0, fmt.Errorf("failed to write index: %w", err)
	}

	if prune {
		ids := make([]string, 0, len(manifest.Records))
		for _, r := range manifest.Records {
			ids = append(ids, r.ID)
		}
		pruned, err = st.Prune(ids)
		if err != nil {
			return 0, 0, fmt.Errorf("failed to prune index: %w", err)
		}
	}

	if err := st.SetLastIndex(); err != nil {
		return 0, 0, fmt.Errorf("failed to record index time: %w", err)
	}

	return len(manifest.Records), pruned, nil
}

func outputIndexStats(st *store.Store) error {
	stats, err := st.Stats()
	if err != nil {
		return err
	}

	fmt.Printf("Index:     %s\n", st.Path())
	fmt.Printf("Documents: %d (%d drafts)\n", stats.Documents, stats.Drafts)
	fmt.Printf("Size:      %d bytes\n", stats.SizeBytes)
	if stats.LastIndex.IsZero() {
		fmt.Println("Last run:  never")
	} else {
		fmt.Printf("Last run:  %s\n", stats.LastIndex.Format("2006-01-02 15:04:05"))
	}
	return nil
}
