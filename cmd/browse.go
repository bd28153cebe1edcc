package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/srmagura/blog/internal/tui"
)

var browseCmd = &cobra.Command{
	Use:     "browse",
	Aliases: []string{"b"},
	Short:   "Browse the collection in an interactive terminal UI",
	Long: `Browse opens a full-screen terminal browser over the collection.
The left pane lists documents newest first; the right pane previews the
selected one. Type / to filter, enter to open a preview, q to quit.

Examples:
  blog browse                     # Browse published documents
  blog browse --drafts            # Include drafts`,
	RunE:         runBrowse,
	SilenceUsage: true,
}

var browseDrafts bool

func init() {
	rootCmd.AddCommand(browseCmd)

	browseCmd.Flags().BoolVar(&browseDrafts, "drafts", false, "Include drafts in the listing")
}

func runBrowse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	reg, cs, err := scanCollection(cfg)
	if err != nil {
		return err
	}
	defer cs.Close()

	if reg.Count() == 0 {
		fmt.Println("No documents found.")
		return nil
	}

	return tui.Run(tui.RunOpts{
		Registry:   reg,
		ContentDir: cfg.Content.Dir,
		ShowDrafts: browseDrafts,
	})
}
