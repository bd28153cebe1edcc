package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// StandardFlags provides consistent flag definitions across commands
type StandardFlags struct {
	// Output flags
	Format  string
	Verbose bool
	Quiet   bool

	// Filter flags
	Tag    string
	Year   int
	Drafts bool
	Search string
}

// AddStandardFlags adds standard flags to a command
func AddStandardFlags(cmd *cobra.Command, flagTypes ...string) *StandardFlags {
	flags := &StandardFlags{}

	for _, flagType := range flagTypes {
		switch flagType {
		case "output":
			addOutputFlags(cmd, flags)
		case "filter":
			addFilterFlags(cmd, flags)
		}
	}

	return flags
}

func addOutputFlags(cmd *cobra.Command, flags *StandardFlags) {
	cmd.Flags().StringVarP(&flags.Format, "format", "f", "table", "Output format (table|json|yaml)")
	cmd.Flags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable verbose output")
	cmd.Flags().BoolVarP(&flags.Quiet, "quiet", "q", false, "Suppress output")
}

func addFilterFlags(cmd *cobra.Command, flags *StandardFlags) {
	cmd.Flags().StringVarP(&flags.Tag, "tag", "t", "", "Only documents carrying this tag")
	cmd.Flags().IntVarP(&flags.Year, "year", "y", 0, "Only documents dated in this year")
	cmd.Flags().BoolVar(&flags.Drafts, "drafts", false, "Include drafts")
	cmd.Flags().StringVarP(&flags.Search, "search", "s", "", "Substring match on title and body")
}

// ValidateFlags validates flag combinations and values
func (f *StandardFlags) ValidateFlags() error {
	// Quiet and verbose are mutually exclusive
	if f.Quiet && f.Verbose {
		return fmt.Errorf("cannot specify both --quiet and --verbose")
	}

	if f.Year < 0 {
		return fmt.Errorf("year cannot be negative, got %d", f.Year)
	}

	return nil
}

// ValidateFormatWithSuggestion checks an output format against the formats a
// command supports and, when it doesn't match, offers the closest supported
// spelling.
func ValidateFormatWithSuggestion(format string, supported ...string) error {
	for _, s := range supported {
		if format == s {
			return nil
		}
	}

	matches := fuzzy.Find(strings.ToLower(format), supported)
	if len(matches) > 0 {
		return fmt.Errorf("unsupported format %q, did you mean %q? (supported: %s)",
			format, supported[matches[0].Index], strings.Join(supported, ", "))
	}

	return fmt.Errorf("unsupported format %q (supported: %s)",
		format, strings.Join(supported, ", "))
}

// AddFlagValidation adds validation for a specific flag
func AddFlagValidation(cmd *cobra.Command, flagName string, validator func(string) error) {
	flag := cmd.Flags().Lookup(flagName)
	if flag == nil {
		return
	}

	// Store original value setter
	originalSet := flag.Value.Set

	// Create wrapper that validates
	flag.Value = &validatingValue{
		Value:       flag.Value,
		validator:   validator,
		originalSet: originalSet,
	}
}

type validatingValue struct {
	pflag.Value
	validator   func(string) error
	originalSet func(string) error
}

func (v *validatingValue) Set(val string) error {
	if v.validator != nil {
		if err := v.validator(val); err != nil {
			return err
		}
	}
	return v.originalSet(val)
}

// Date validation helper for flags that accept YYYY-MM-DD values
func ValidateDate(dateStr string) error {
	if dateStr == "" {
		return nil
	}

	if _, err := time.Parse("2006-01-02", dateStr); err != nil {
		return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", dateStr)
	}

	return nil
}

// Year validation helper
func ValidateYear(yearStr string) error {
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return fmt.Errorf("invalid year: %s", yearStr)
	}

	if year < 0 {
		return fmt.Errorf("year cannot be negative, got %d", year)
	}

	return nil
}
