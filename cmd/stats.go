package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/srmagura/blog/internal/stats"
	"gopkg.in/yaml.v3"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show collection statistics",
	Long: `Stats aggregates the whole collection: document and word counts, per-year
totals, the most used tags, detected languages, and the size of the image
assets.

Examples:
  blog stats                      # Human-readable tables
  blog stats -f json              # Machine-readable output`,
	RunE: runStats,
}

var statsFormat string

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().StringVarP(&statsFormat, "format", "f", "table", "Output format (table|json|yaml)")

	AddFlagValidation(statsCmd, "format", func(format string) error {
		return ValidateFormatWithSuggestion(format, "table", "json", "yaml")
	})
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	reg, cs, err := scanCollection(cfg)
	if err != nil {
		return err
	}
	defer cs.Close()

	st := stats.Collect(reg)

	switch strings.ToLower(statsFormat) {
	case "json":
		return outputStatsJSON(os.Stdout, st)
	case "yaml":
		return outputStatsYAML(os.Stdout, st)
	case "table":
		return stats.Render(os.Stdout, st)
	default:
		return fmt.Errorf("unsupported format: %s", statsFormat)
	}
}

func statsItem(st stats.Stats) map[string]interface{} {
	byYear := make([]map[string]int, 0, len(st.ByYear))
	for _, y := range st.ByYear {
		byYear = append(byYear, map[string]int{"year": y.Year, "count": y.Count})
	}

	topTags := make([]map[string]interface{}, 0, len(st.TopTags))
	for _, tag := range st.TopTags {
		topTags = append(topTags, map[string]interface{}{"name": tag.Name, "count": tag.Count})
	}

	item := map[string]interface{}{
		"documents":    st.Documents,
		"drafts":       st.Drafts,
		"undated":      st.Undated,
		"words":        st.Words,
		"reading_time": st.ReadingTime,
		"assets":       st.Assets,
		"asset_bytes":  st.AssetBytes,
		"by_year":      byYear,
		"top_tags":     topTags,
		"languages":    st.Languages,
	}
	if st.Longest.Slug != "" {
		item["longest"] = map[string]interface{}{"slug": st.Longest.Slug, "words": st.Longest.Words}
		item["shortest"] = map[string]interface{}{"slug": st.Shortest.Slug, "words": st.Shortest.Words}
	}
	return item
}

func outputStatsJSON(w io.Writer, st stats.Stats) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(statsItem(st))
}

func outputStatsYAML(w io.Writer, st stats.Stats) error {
	encoder := yaml.NewEncoder(w)
	defer encoder.Close()
	return encoder.Encode(statsItem(st))
}
