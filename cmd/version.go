package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/srmagura/blog/internal/version"
)

var (
	versionFormat string
	versionShort  bool
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `Display version information for the blog tool including:

- Semantic version number
- Git commit hash
- Build timestamp
- Go version used for compilation
- Target platform (OS/architecture)

Examples:
  blog version                 # Show short version
  blog version --detailed      # Show detailed version info
  blog version --format json   # Output as JSON`,
	RunE: runVersionCommand,
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().StringVarP(&versionFormat, "format", "f", "text", "Output format (text, json)")
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Show short version only")
	versionCmd.Flags().Bool("detailed", false, "Show detailed version information")
}

func runVersionCommand(cmd *cobra.Command, args []string) error {
	detailed, _ := cmd.Flags().GetBool("detailed")

	switch versionFormat {
	case "json":
		return outputVersionJSON()
	case "text":
		if versionShort {
			fmt.Println(version.GetShortVersion())
			return nil
		}
		if detailed {
			return outputVersionDetailed()
		}
		return outputVersionDefault()
	default:
		return ValidateFormatWithSuggestion(versionFormat, "text", "json")
	}
}

func outputVersionDefault() error {
	info := version.GetBuildInfo()

	fmt.Printf("blog %s", info.Version)

	if info.GitCommit != "unknown" && len(info.GitCommit) >= 7 {
		fmt.Printf(" (%s)", info.GitCommit[:7])
	}

	if version.IsDirty() {
		fmt.Print(" (dirty)")
	}

	fmt.Println()

	if !info.BuildTime.IsZero() {
		fmt.Printf("Built: %s\n", info.BuildTime.Format("2006-01-02 15:04:05 UTC"))
	}

	fmt.Printf("Go: %s\n", info.GoVersion)
	fmt.Printf("Platform: %s\n", info.Platform)

	return nil
}

func outputVersionDetailed() error {
	info := version.GetBuildInfo()

	fmt.Printf("Version:    %s\n", info.Version)
	fmt.Printf("Commit:     %s\n", info.GitCommit)
	if !info.BuildTime.IsZero() {
		fmt.Printf("Built:      %s\n", info.BuildTime.Format("2006-01-02 15:04:05 UTC"))
	}
	fmt.Printf("Go version: %s\n", info.GoVersion)
	fmt.Printf("Platform:   %s\n", info.Platform)

	if version.IsDirty() {
		fmt.Println("Working directory: dirty")
	}

	return nil
}

func outputVersionJSON() error {
	info := version.GetBuildInfo()

	jsonInfo := map[string]interface{}{
		"version":    info.Version,
		"git_commit": info.GitCommit,
		"build_time": info.BuildTime,
		"go_version": info.GoVersion,
		"platform":   info.Platform,
		"is_dirty":   version.IsDirty(),
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(jsonInfo)
}
