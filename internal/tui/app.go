// Package tui implements the interactive collection browser behind the
// browse command. A bubbletea model renders the document list next to a
// preview pane; search and tag filtering run against the in-memory
// registry.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/srmagura/blog/internal/registry"
	"github.com/srmagura/blog/internal/types"
)

type focusPane int

const (
	focusList focusPane = iota
	focusPreview
)

type mode int

const (
	modeNormal mode = iota
	modeSearch
	modeFilter
	modeHelp
)

type App struct {
	reg  *registry.DocumentRegistry
	docs []*types.DocumentInfo

	cursor int
	focus  focusPane
	mode   mode

	width  int
	height int

	// Sub-components
	searchInput textinput.Model
	tagBar      tagBar

	// State
	contentDir    string
	showDrafts    bool
	previewScroll int
}

// RunOpts holds all parameters for launching the browser.
type RunOpts struct {
	Registry   *registry.DocumentRegistry
	ContentDir string
	ShowDrafts bool
}

func NewApp(opts RunOpts) *App {
	ti := textinput.New()
	ti.Placeholder = "Search documents..."
	ti.Prompt = searchPromptStyle.Render("/ ")
	ti.CharLimit = 100

	return &App{
		reg:         opts.Registry,
		searchInput: ti,
		tagBar:      newTagBar(topTags(opts.Registry.GetAll(), maxFilterTags)),
		contentDir:  opts.ContentDir,
		showDrafts:  opts.ShowDrafts,
	}
}

func (a *App) Init() tea.Cmd {
	return a.loadDocumentsCmd()
}

// loadDocumentsCmd captures current query state into the closure to avoid races.
func (a *App) loadDocumentsCmd() tea.Cmd {
	reg := a.reg
	opts := registry.FilterOpts{
		Search:        a.searchInput.Value(),
		IncludeDrafts: a.showDrafts,
	}
	tags := a.tagBar.activeTags()
	return func() tea.Msg {
		docs := reg.Filter(opts)
		return docsLoadedMsg{docs: filterByTags(docs, tags)}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case docsLoadedMsg:
		a.docs = msg.docs
		if a.cursor >= len(a.docs) {
			a.cursor = max(0, len(a.docs)-1)
		}
		return a, nil
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keys
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit
	}

	// Mode-specific handling
	switch a.mode {
	case modeSearch:
		return a.handleSearchKey(msg)
	case modeFilter:
		return a.handleFilterKey(msg)
	case modeHelp:
		if msg.String() == "?" || msg.String() == "esc" || msg.String() == "q" {
			a.mode = modeNormal
		}
		return a, nil
	}

	// Normal mode
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "j", "down":
		if a.focus == focusList && a.cursor < len(a.docs)-1 {
			a.cursor++
			a.previewScroll = 0
		} else if a.focus == focusPreview {
			a.previewScroll++
		}
		return a, nil
	case "k", "up":
		if a.focus == focusList && a.cursor > 0 {
			a.cursor--
			a.previewScroll = 0
		} else if a.focus == focusPreview && a.previewScroll > 0 {
			a.previewScroll--
		}
		return a, nil
	case "g":
		if a.focus == focusList {
			a.cursor = 0
		}
		a.previewScroll = 0
		return a, nil
	case "G":
		if a.focus == focusList && len(a.docs) > 0 {
			a.cursor = len(a.docs) - 1
			a.previewScroll = 0
		}
		return a, nil
	case "tab":
		if a.focus == focusList {
			a.focus = focusPreview
		} else {
			a.focus = focusList
		}
		return a, nil
	case "d":
		a.showDrafts = !a.showDrafts
		a.cursor = 0
		return a, a.loadDocumentsCmd()
	case "/":
		a.mode = modeSearch
		a.searchInput.Focus()
		return a, textinput.Blink
	case "f":
		a.mode = modeFilter
		a.tagBar.filterMode = true
		return a, nil
	case "?":
		a.mode = modeHelp
		return a, nil
	}

	return a, nil
}

func (a *App) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.mode = modeNormal
		a.searchInput.SetValue("")
		a.searchInput.Blur()
		return a, a.loadDocumentsCmd()
	case "enter":
		a.mode = modeNormal
		a.searchInput.Blur()
		return a, a.loadDocumentsCmd()
	}

	var cmd tea.Cmd
	a.searchInput, cmd = a.searchInput.Update(msg)
	return a, cmd
}

func (a *App) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "f":
		a.mode = modeNormal
		a.tagBar.filterMode = false
		return a, nil
	case "left", "h":
		if a.tagBar.filterCursor > 0 {
			a.tagBar.filterCursor--
		}
		return a, nil
	case "right", "l":
		if a.tagBar.filterCursor < len(a.tagBar.tags)-1 {
			a.tagBar.filterCursor++
		}
		return a, nil
	case " ", "enter":
		a.tagBar.toggleCurrent()
		a.cursor = 0
		return a, a.loadDocumentsCmd()
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		idx := int(msg.String()[0] - '1')
		if idx < len(a.tagBar.tags) {
			a.tagBar.toggle(a.tagBar.tags[idx])
			a.cursor = 0
			return a, a.loadDocumentsCmd()
		}
		return a, nil
	}
	return a, nil
}

func (a *App) View() string {
	if a.width == 0 {
		return lipgloss.NewStyle().Foreground(colorAccent).Render("  blog")
	}

	if a.mode == modeHelp {
		return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center,
			helpCardStyle.Render(a.renderHelp()))
	}

	// Layout calculations
	headerHeight := 1
	filterHeight := 1
	statusHeight := 1
	contentHeight := a.height - headerHeight - filterHeight - statusHeight - 4 // borders

	listWidth := int(float64(a.width) * 0.35)
	previewWidth := a.width - listWidth - 1 // gap

	if contentHeight < 3 {
		contentHeight = 3
	}

	// Header
	headerLeft := headerStyle.Render("blog")
	headerRight := headerDirStyle.Render(a.contentDir)
	headerGap := a.width - lipgloss.Width(headerLeft) - lipgloss.Width(headerRight)
	if headerGap < 0 {
		headerGap = 0
	}
	header := headerLeft + fmt.Sprintf("%*s", headerGap, "") + headerRight

	// Tag bar, replaced by the search input while searching
	filter := a.tagBar.render(a.width)
	if a.mode == modeSearch {
		filter = a.searchInput.View()
	}

	// List pane
	innerListW := listWidth - 4 // border + padding
	listContent := renderList(a.docs, a.cursor, contentHeight, innerListW)

	var listPane string
	if a.focus == focusList {
		listPane = listPaneActiveStyle.Width(listWidth - 2).Height(contentHeight).Render(listContent)
	} else {
		listPane = listPaneStyle.Width(listWidth - 2).Height(contentHeight).Render(listContent)
	}

	// Preview pane
	var selected *types.DocumentInfo
	if len(a.docs) > 0 && a.cursor < len(a.docs) {
		selected = a.docs[a.cursor]
	}
	innerPreviewW := previewWidth - 4
	previewContent := renderPreview(selected, innerPreviewW, contentHeight, a.previewScroll)

	var previewPane string
	if a.focus == focusPreview {
		previewPane = previewPaneActiveStyle.Width(previewWidth - 2).Height(contentHeight).Render(previewContent)
	} else {
		previewPane = previewPaneStyle.Width(previewWidth - 2).Height(contentHeight).Render(previewContent)
	}

	content := lipgloss.JoinHorizontal(lipgloss.Top, listPane, previewPane)

	// Status bar
	label := a.tagBar.activeLabel()
	if q := strings.TrimSpace(a.searchInput.Value()); q != "" {
		label += " · /" + q
	}
	status := renderStatusBar(len(a.docs), label, a.showDrafts, a.width, a.mode == modeSearch)

	return lipgloss.JoinVertical(lipgloss.Left, header, filter, content, status)
}

func (a *App) renderHelp() string {
	title := lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Render("blog")
	dim := helpDimStyle

	return title + dim.Render(" — Keyboard Shortcuts") + "\n\n" +
		dim.Render("Navigation") + "\n" +
		"  j/k, ↑/↓     Move through the document list\n" +
		"  g/G           Jump to the first or last document\n" +
		"  tab           Switch focus between list and preview\n\n" +
		dim.Render("Actions") + "\n" +
		"  /             Search titles and bodies\n" +
		"  f             Toggle tag filter mode\n" +
		"  d             Show or hide drafts\n\n" +
		dim.Render("Filter Mode") + "\n" +
		"  ←/→, h/l     Move between tags\n" +
		"  space/enter   Toggle tag\n" +
		"  1-9           Toggle tag by number\n" +
		"  esc, f        Exit filter mode\n\n" +
		dim.Render("General") + "\n" +
		"  ?             Toggle this help\n" +
		"  q, ctrl+c    Quit"
}

// Run starts the interactive browser.
func Run(opts RunOpts) error {
	app := NewApp(opts)
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
