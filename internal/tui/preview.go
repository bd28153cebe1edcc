package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/srmagura/blog/internal/types"
)

func renderPreview(doc *types.DocumentInfo, width, height, scroll int) string {
	if doc == nil {
		return centerText("Select a document", width, height)
	}

	contentWidth := width - 2
	if contentWidth < 10 {
		contentWidth = 10
	}

	title := previewTitleStyle.Width(contentWidth).Render(doc.EffectiveTitle())

	meta := fmt.Sprintf("%s · %d words · %d min read", dateLabel(doc), doc.WordCount, doc.ReadingTime)
	if doc.Draft {
		meta += " · draft"
	}
	metaLine := previewMetaStyle.Render(meta)

	sections := []string{title, metaLine}

	if len(doc.Tags) > 0 {
		sections = append(sections, previewTagsStyle.Render(strings.Join(doc.Tags, ", ")))
	}

	if doc.Description != "" {
		sections = append(sections, "",
			previewBodyStyle.Width(contentWidth).Render(wrapText(doc.Description, contentWidth)))
	}

	body := strings.TrimSpace(doc.Body)
	if body == "" {
		body = "(empty document)"
	}
	sections = append(sections, "",
		previewBodyStyle.Width(contentWidth).Render(wrapText(body, contentWidth)))

	sections = append(sections, "", previewPathStyle.Render(doc.RelPath))

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	// Apply scroll offset
	lines := strings.Split(content, "\n")
	if scroll > 0 && scroll < len(lines) {
		lines = lines[scroll:]
	}

	// Pad to fill height
	if len(lines) < height {
		lines = append(lines, make([]string, height-len(lines))...)
	} else if len(lines) > height {
		lines = lines[:height]
	}

	return strings.Join(lines, "\n")
}

// wrapText wraps long lines to width while keeping existing line breaks, so
// Markdown paragraphs and fences stay roughly in shape.
func wrapText(s string, width int) string {
	if width <= 0 {
		return s
	}
	var out []string
	for _, line := range strings.Split(s, "\n") {
		out = append(out, wrapLine(line, width)...)
	}
	return strings.Join(out, "\n")
}

func wrapLine(line string, width int) []string {
	words := strings.Fields(line)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	cur := words[0]
	for _, w := range words[1:] {
		if len(cur)+1+len(w) > width {
			lines = append(lines, cur)
			cur = w
		} else {
			cur += " " + w
		}
	}
	return append(lines, cur)
}
