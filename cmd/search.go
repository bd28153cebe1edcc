package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/srmagura/blog/internal/export"
	"github.com/srmagura/blog/internal/store"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search titles and bodies through the index",
	Long: `Search runs a full-text query against the SQLite index and prints the
matching documents with a snippet of the matched text. A stale or missing
index is refreshed automatically before the query runs.

Examples:
  blog search generics            # Find documents mentioning generics
  blog search "error handling"    # Quote multi-word queries
  blog search react --tag react   # Narrow by tag
  blog search go -f json          # Output as JSON`,
	Args:         cobra.MinimumNArgs(1),
	RunE:         runSearch,
	SilenceUsage: true,
}

var (
	searchFormat    string
	searchTag       string
	searchYear      int
	searchDrafts    bool
	searchLimit     int
	searchNoRefresh bool
)

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringVarP(&searchFormat, "format", "f", "table", "Output format (table, json)")
	searchCmd.Flags().StringVarP(&searchTag, "tag", "t", "", "Only documents carrying this tag")
	searchCmd.Flags().IntVarP(&searchYear, "year", "y", 0, "Only documents from this year")
	searchCmd.Flags().BoolVar(&searchDrafts, "drafts", false, "Include drafts in the results")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 20, "Maximum number of results")
	searchCmd.Flags().BoolVar(&searchNoRefresh, "no-refresh", false, "Query the index as-is, even when stale")

	AddFlagValidation(searchCmd, "format", func(format string) error {
		return ValidateFormatWithSuggestion(format, "table", "json")
	})
	AddFlagValidation(searchCmd, "year", ValidateYear)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.Index.ResolvedPath())
	if err != nil {
		return fmt.Errorf("failed to open index: %w", err)
	}
	defer st.Close()

	if !searchNoRefresh && st.NeedsRefresh(cfg.Index.MaxAgeDuration()) {
		if _, _, err := refreshIndex(cfg, st, true); err != nil {
			return fmt.Errorf("failed to refresh index: %w", err)
		}
	}

	records, err := st.Query(store.QueryOpts{
		Search:        query,
		Tag:           searchTag,
		Year:          searchYear,
		IncludeDrafts: searchDrafts,
		Limit:         searchLimit,
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(records) == 0 {
		fmt.Printf("No documents match %q.\n", query)
		return nil
	}

	switch strings.ToLower(searchFormat) {
	case "json":
		return outputSearchJSON(os.Stdout, records, query)
	case "table":
		return outputSearchTable(os.Stdout, records, query)
	default:
		return fmt.Errorf("unsupported format: %s", searchFormat)
	}
}

func searchItem(rec export.Record, query string) map[string]interface{} {
	item := map[string]interface{}{
		"slug":    rec.Slug,
		"title":   rec.Title,
		"draft":   rec.Draft,
		"tags":    rec.Tags,
		"words":   rec.WordCount,
		"path":    rec.Path,
		"snippet": matchSnippet(rec.Body, query, 80),
	}
	if rec.Date != nil {
		item["date"] = rec.Date.Format("2006-01-02")
	}
	return item
}

func outputSearchJSON(w io.Writer, records []export.Record, query string) error {
	output := make([]map[string]interface{}, len(records))
	for i, rec := range records {
		output[i] = searchItem(rec, query)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

func outputSearchTable(w io.Writer, records []export.Record, query string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "SLUG\tDATE\tMATCH")
	for _, rec := range records {
		date := "-"
		if rec.Date != nil {
			date = rec.Date.Format("2006-01-02")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", rec.Slug, date, matchSnippet(rec.Body, query, 60))
	}

	fmt.Fprintf(tw, "\n%d results for %q\n", len(records), query)
	return nil
}

// matchSnippet extracts a window of body text around the first occurrence
// of the query term. Falls back to the leading text when the match was in
// the title only.
func matchSnippet(body, term string, width int) string {
	flat := []rune(strings.Join(strings.Fields(body), " "))
	if len(flat) == 0 {
		return ""
	}

	pos := 0
	if idx := strings.Index(strings.ToLower(string(flat)), strings.ToLower(term)); idx > 0 {
		pos = len([]rune(strings.ToLower(string(flat))[:idx]))
	}

	start := pos - width/4
	if start < 0 {
		start = 0
	}
	end := start + width
	if end > len(flat) {
		end = len(flat)
	}

	snippet := string(flat[start:end])
	if start > 0 {
		snippet = "…" + snippet
	}
	if end < len(flat) {
		snippet += "…"
	}
	return snippet
}
