// Package stats aggregates collection-level numbers for the stats command.
package stats

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/srmagura/blog/internal/registry"
)

type YearCount struct {
	Year  int
	Count int
}

type TagCount struct {
	Name  string
	Count int
}

// Extreme is the longest or shortest non-draft document.
type Extreme struct {
	Slug  string
	Words int
}

type Stats struct {
	Documents   int
	Drafts      int
	Undated     int
	Words       int
	ReadingTime int
	Assets      int
	AssetBytes  int64
	ByYear      []YearCount
	TopTags     []TagCount
	Languages   map[string]int
	Longest     Extreme
	Shortest    Extreme
}

const topTagCap = 15

func Collect(reg *registry.DocumentRegistry) Stats {
	st := Stats{Languages: make(map[string]int)}
	years := make(map[int]int)
	tags := make(map[string]int)

	for _, doc := range reg.GetAll() {
		st.Documents++
		if doc.Draft {
			st.Drafts++
		}
		if doc.Undated() {
			st.Undated++
		}
		st.Words += doc.WordCount
		st.ReadingTime += doc.ReadingTime
		years[doc.Year()]++
		for _, tag := range doc.Tags {
			tags[strings.ToLower(tag)]++
		}
		if doc.Language != "" {
			st.Languages[doc.Language]++
		}

		if doc.Draft {
			continue
		}
		if st.Longest.Slug == "" || doc.WordCount > st.Longest.Words {
			st.Longest = Extreme{Slug: doc.Slug, Words: doc.WordCount}
		}
		if st.Shortest.Slug == "" || doc.WordCount < st.Shortest.Words {
			st.Shortest = Extreme{Slug: doc.Slug, Words: doc.WordCount}
		}
	}

	for year, count := range years {
		st.ByYear = append(st.ByYear, YearCount{Year: year, Count: count})
	}
	// Year 0 collects the undated documents and sorts to the bottom.
	sort.Slice(st.ByYear, func(i, j int) bool { return st.ByYear[i].Year > st.ByYear[j].Year })

	for name, count := range tags {
		st.TopTags = append(st.TopTags, TagCount{Name: name, Count: count})
	}
	sort.Slice(st.TopTags, func(i, j int) bool {
		if st.TopTags[i].Count != st.TopTags[j].Count {
			return st.TopTags[i].Count > st.TopTags[j].Count
		}
		return st.TopTags[i].Name < st.TopTags[j].Name
	})
	if len(st.TopTags) > topTagCap {
		st.TopTags = st.TopTags[:topTagCap]
	}

	for _, a := range reg.Assets() {
		st.Assets++
		st.AssetBytes += a.Size
	}

	return st
}

// Render writes the human-readable tables.
func Render(w io.Writer, st Stats) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Documents\t%d\n", st.Documents)
	fmt.Fprintf(tw, "Drafts\t%d\n", st.Drafts)
	fmt.Fprintf(tw, "Undated\t%d\n", st.Undated)
	fmt.Fprintf(tw, "Words\t%s\n", humanize.Comma(int64(st.Words)))
	fmt.Fprintf(tw, "Reading time\t%s\n", formatMinutes(st.ReadingTime))
	fmt.Fprintf(tw, "Assets\t%d (%s)\n", st.Assets, humanize.Bytes(uint64(st.AssetBytes)))
	if st.Longest.Slug != "" {
		fmt.Fprintf(tw, "Longest\t%s (%s words)\n", st.Longest.Slug, humanize.Comma(int64(st.Longest.Words)))
		fmt.Fprintf(tw, "Shortest\t%s (%s words)\n", st.Shortest.Slug, humanize.Comma(int64(st.Shortest.Words)))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(st.ByYear) > 0 {
		fmt.Fprintln(w, "\nBY YEAR")
		tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, y := range st.ByYear {
			label := strconv.Itoa(y.Year)
			if y.Year == 0 {
				label = "(undated)"
			}
			fmt.Fprintf(tw, "%s\t%d\n", label, y.Count)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if len(st.TopTags) > 0 {
		fmt.Fprintln(w, "\nTOP TAGS")
		tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, tag := range st.TopTags {
			fmt.Fprintf(tw, "%s\t%d\n", tag.Name, tag.Count)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if len(st.Languages) > 0 {
		fmt.Fprintln(w, "\nLANGUAGES")
		tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, lang := range sortedLanguages(st.Languages) {
			fmt.Fprintf(tw, "%s\t%d\n", lang.Name, lang.Count)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	return nil
}

func sortedLanguages(languages map[string]int) []TagCount {
	out := make([]TagCount, 0, len(languages))
	for name, count := range languages {
		out = append(out, TagCount{Name: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func formatMinutes(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}
