package tui

import (
	"fmt"
	"strings"

	"github.com/srmagura/blog/internal/types"
)

func dateLabel(doc *types.DocumentInfo) string {
	if doc.Undated() {
		return "undated"
	}
	return doc.Date.Format("Jan 2, 2006")
}

func renderListItem(doc *types.DocumentInfo, selected bool, width int) string {
	if width < 10 {
		width = 30
	}

	var title string
	if selected {
		title = itemSelectedStyle.Render("> " + truncateStr(doc.EffectiveTitle(), width-4))
	} else {
		title = itemTitleStyle.Render("  " + truncateStr(doc.EffectiveTitle(), width-4))
	}

	meta := "  " + itemDateStyle.Render(dateLabel(doc)) +
		" " + itemMetaStyle.Render(fmt.Sprintf("· %d min", doc.ReadingTime))
	if doc.Draft {
		meta += " " + itemDraftStyle.Render("draft")
	}

	return title + "\n" + meta
}

func truncateStr(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

func renderList(docs []*types.DocumentInfo, cursor int, height int, width int) string {
	if len(docs) == 0 {
		return centerText("No documents found", width, height)
	}

	// Two content lines plus a blank separator per item.
	itemHeight := 3
	visible := height / itemHeight
	if visible < 1 {
		visible = 1
	}

	start := 0
	if cursor >= visible {
		start = cursor - visible + 1
	}
	end := start + visible
	if end > len(docs) {
		end = len(docs)
		start = end - visible
		if start < 0 {
			start = 0
		}
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		b.WriteString(renderListItem(docs[i], i == cursor, width))
		if i < end-1 {
			b.WriteString("\n\n")
		}
	}

	return b.String()
}

func centerText(s string, width, height int) string {
	pad := (width - len(s)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat("\n", height/3) + strings.Repeat(" ", pad) + s
}
