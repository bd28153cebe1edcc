package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func renderStatusBar(docCount int, filterLabel string, showDrafts bool, width int, searching bool) string {
	left := fmt.Sprintf(" %d documents", docCount)
	if filterLabel != "All" {
		left += " · " + filterLabel
	}
	if showDrafts {
		left += " · " + draftsOnStyle.Render("drafts")
	}

	right := " / search  f tags  d drafts  ? help  q quit "
	if searching {
		right = " esc cancel  enter search "
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + fmt.Sprintf("%*s", gap, "") + right

	return statusBarStyle.Width(width).Render(bar)
}
