package tui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/srmagura/blog/internal/types"
)

// maxFilterTags caps the tag tabs so the number keys cover every entry.
const maxFilterTags = 9

type tagBar struct {
	tags         []string
	active       map[string]bool
	filterMode   bool
	filterCursor int
}

func newTagBar(tags []string) tagBar {
	return tagBar{
		tags:   tags,
		active: make(map[string]bool),
	}
}

func (f *tagBar) toggle(tag string) {
	if f.active[tag] {
		delete(f.active, tag)
	} else {
		f.active[tag] = true
	}
}

func (f *tagBar) toggleCurrent() {
	if f.filterCursor < len(f.tags) {
		f.toggle(f.tags[f.filterCursor])
	}
}

func (f *tagBar) activeTags() []string {
	if len(f.active) == 0 {
		return nil // nil = every tag
	}
	var out []string
	for _, t := range f.tags {
		if f.active[t] {
			out = append(out, t)
		}
	}
	return out
}

func (f *tagBar) activeLabel() string {
	active := f.activeTags()
	if active == nil {
		return "All"
	}
	return strings.Join(active, ", ")
}

func (f *tagBar) render(width int) string {
	sep := tabSeparatorStyle.Render(" · ")
	var parts []string

	if len(f.active) == 0 {
		parts = append(parts, tabActiveStyle.Render("All"))
	} else {
		parts = append(parts, tabInactiveStyle.Render("All"))
	}

	for i, tag := range f.tags {
		style := tabInactiveStyle
		if f.active[tag] {
			style = tabActiveStyle
		}
		label := tag
		if f.filterMode && i == f.filterCursor {
			label = "[" + tag + "]"
		}
		parts = append(parts, style.Render(label))
	}

	// Build the row with separators, stopping before it overflows.
	var row string
	for i, part := range parts {
		candidate := row
		if i > 0 {
			candidate += sep
		}
		candidate += part
		if lipgloss.Width(candidate) > width && row != "" {
			break
		}
		row = candidate
	}

	barStyle := lipgloss.NewStyle().
		Background(colorSurface).
		Width(width).
		PaddingLeft(1)
	return barStyle.Render(row)
}

// topTags returns the most used tags in the collection, case-folded and
// ordered by count then name.
func topTags(docs []*types.DocumentInfo, limit int) []string {
	counts := make(map[string]int)
	for _, doc := range docs {
		for _, tag := range doc.Tags {
			counts[strings.ToLower(tag)]++
		}
	}

	tags := make([]string, 0, len(counts))
	for tag := range counts {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool {
		if counts[tags[i]] != counts[tags[j]] {
			return counts[tags[i]] > counts[tags[j]]
		}
		return tags[i] < tags[j]
	})

	if len(tags) > limit {
		tags = tags[:limit]
	}
	return tags
}

// filterByTags keeps documents carrying any of the given tags. An empty tag
// set keeps everything.
func filterByTags(docs []*types.DocumentInfo, tags []string) []*types.DocumentInfo {
	if len(tags) == 0 {
		return docs
	}
	var out []*types.DocumentInfo
	for _, doc := range docs {
		for _, tag := range tags {
			if doc.HasTag(tag) {
				out = append(out, doc)
				break
			}
		}
	}
	return out
}
