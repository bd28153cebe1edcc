package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/srmagura/blog/internal/registry"
	"github.com/srmagura/blog/internal/types"
	"gopkg.in/yaml.v3"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"l"},
	Short:   "List documents in the collection",
	Long: `List the documents in the content directory with their metadata.
Documents are ordered newest first; undated documents sort last.

Examples:
  blog list                       # List all published documents
  blog list -f json               # Output as JSON (short flag)
  blog list --format csv          # Output as CSV
  blog list --drafts              # Include drafts
  blog list -t go -y 2021         # Documents tagged "go" from 2021
  blog list -s generics           # Title and body substring search`,
	RunE: runList,
}

var listFlags *StandardFlags

func init() {
	rootCmd.AddCommand(listCmd)

	// Use standardized flags
	listFlags = AddStandardFlags(listCmd, "output", "filter")

	// Add format validation
	AddFlagValidation(listCmd, "format", func(format string) error {
		return ValidateFormatWithSuggestion(format, "table", "json", "yaml", "csv")
	})
	AddFlagValidation(listCmd, "year", ValidateYear)
}

func runList(cmd *cobra.Command, args []string) error {
	if err := listFlags.ValidateFlags(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	reg, cs, err := scanCollection(cfg)
	if err != nil {
		return err
	}
	defer cs.Close()

	docs := reg.Filter(registry.FilterOpts{
		Tag:           listFlags.Tag,
		Year:          listFlags.Year,
		IncludeDrafts: listFlags.Drafts,
		Search:        listFlags.Search,
	})

	if len(docs) == 0 {
		fmt.Println("No documents found.")
		return nil
	}

	// Output in requested format
	switch strings.ToLower(listFlags.Format) {
	case "json":
		return outputListJSON(os.Stdout, docs)
	case "yaml":
		return outputListYAML(os.Stdout, docs)
	case "table":
		return outputListTable(os.Stdout, docs)
	case "csv":
		return outputListCSV(os.Stdout, docs)
	default:
		return fmt.Errorf("unsupported format: %s", listFlags.Format)
	}
}

// docDate renders the document date for tabular output. Undated documents
// show a dash.
func docDate(doc *types.DocumentInfo) string {
	if doc.Undated() {
		return "-"
	}
	return doc.Date.Format("2006-01-02")
}

func listItem(doc *types.DocumentInfo) map[string]interface{} {
	item := map[string]interface{}{
		"slug":         doc.Slug,
		"title":        doc.EffectiveTitle(),
		"draft":        doc.Draft,
		"tags":         doc.Tags,
		"words":        doc.WordCount,
		"reading_time": doc.ReadingTime,
		"path":         doc.RelPath,
	}
	if !doc.Undated() {
		item["date"] = doc.Date.Format("2006-01-02")
	}
	return item
}

func outputListJSON(w io.Writer, docs []*types.DocumentInfo) error {
	output := make([]map[string]interface{}, len(docs))
	for i, doc := range docs {
		output[i] = listItem(doc)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

func outputListYAML(w io.Writer, docs []*types.DocumentInfo) error {
	output := make([]map[string]interface{}, len(docs))
	for i, doc := range docs {
		output[i] = listItem(doc)
	}

	encoder := yaml.NewEncoder(w)
	defer encoder.Close()
	return encoder.Encode(output)
}

func outputListTable(w io.Writer, docs []*types.DocumentInfo) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	// Write header
	fmt.Fprintln(tw, "SLUG\tTITLE\tDATE\tTAGS\tWORDS\tDRAFT")

	// Write separator
	separator := strings.Repeat("-", 4) + "\t" + strings.Repeat("-", 5) + "\t" +
		strings.Repeat("-", 4) + "\t" + strings.Repeat("-", 4) + "\t" +
		strings.Repeat("-", 5) + "\t" + strings.Repeat("-", 5)
	fmt.Fprintln(tw, separator)

	// Write documents
	for _, doc := range docs {
		draft := ""
		if doc.Draft {
			draft = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n",
			doc.Slug,
			doc.EffectiveTitle(),
			docDate(doc),
			strings.Join(doc.Tags, ", "),
			doc.WordCount,
			draft,
		)
	}

	// Write summary
	fmt.Fprintf(tw, "\nTotal: %d documents\n", len(docs))

	return nil
}

func outputListCSV(w io.Writer, docs []*types.DocumentInfo) error {
	// Write header
	fmt.Fprintln(w, "slug,title,date,tags,words,draft")

	// Write documents
	for _, doc := range docs {
		fmt.Fprintf(w, "%s,%s,%s,%s,%d,%t\n",
			doc.Slug,
			csvEscape(doc.EffectiveTitle()),
			docDate(doc),
			csvEscape(strings.Join(doc.Tags, ";")),
			doc.WordCount,
			doc.Draft,
		)
	}

	return nil
}

// csvEscape quotes a field when it would otherwise break the row.
func csvEscape(field string) string {
	if strings.ContainsAny(field, ",\"\n") {
		return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
	}
	return field
}
