package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/srmagura/blog/internal/markdown"
	"github.com/srmagura/blog/internal/slug"
)

var newCmd = &cobra.Command{
	Use:   "new <title>",
	Short: "Scaffold a new article",
	Long: `New creates a date-prefixed Markdown file in the content directory with
front matter filled in from the title. The article starts as a draft.

Examples:
  blog new "Generics Have Landed"
  blog new "Build Log" --tags go,tooling
  blog new "Old Notes" --date 2019-04-01
  blog new "Config Notes" --toml       # TOML front matter instead of YAML`,
	Args: cobra.ExactArgs(1),
	RunE: runNew,
}

var (
	newTags []string
	newDir  string
	newDate string
	newTOML bool
)

func init() {
	rootCmd.AddCommand(newCmd)

	newCmd.Flags().StringSliceVar(&newTags, "tags", nil, "Tags for the new article")
	newCmd.Flags().StringVar(&newDir, "dir", "", "Directory for the new file (default: content dir)")
	newCmd.Flags().StringVar(&newDate, "date", "", "Date for the new article (YYYY-MM-DD, default: today)")
	newCmd.Flags().BoolVar(&newTOML, "toml", false, "Write TOML front matter instead of YAML")

	AddFlagValidation(newCmd, "date", ValidateDate)
}

func runNew(cmd *cobra.Command, args []string) error {
	title := strings.TrimSpace(args[0])
	if title == "" {
		return fmt.Errorf("title cannot be empty")
	}

	docSlug := slug.Make(title)
	if docSlug == "" {
		return fmt.Errorf("title %q contains no usable characters", title)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	dir := cfg.Content.Dir
	if newDir != "" {
		dir = newDir
	}

	date := time.Now()
	if newDate != "" {
		// Flag registration already validated the format.
		date, _ = time.Parse("2006-01-02", newDate)
	}

	fullPath := filepath.Join(dir, slug.ComposeFilename(date, docSlug)+".md")
	if _, err := os.Stat(fullPath); err == nil {
		return fmt.Errorf("refusing to overwrite %s", fullPath)
	}

	tags := newTags
	if tags == nil {
		tags = []string{}
	}
	// The date is written as a plain string so the front matter stays
	// readable instead of a full RFC 3339 timestamp.
	meta := markdown.Meta{
		"title": title,
		"date":  date.Format("2006-01-02"),
		"draft": true,
		"tags":  tags,
	}

	format := markdown.FormatYAML
	if newTOML {
		format = markdown.FormatTOML
	}

	content, err := markdown.ComposeFrontMatter(meta, "", format)
	if err != nil {
		return fmt.Errorf("failed to compose front matter: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	if err := os.WriteFile(fullPath, content, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", fullPath, err)
	}

	fmt.Printf("✅ Created %s\n", fullPath)
	return nil
}
