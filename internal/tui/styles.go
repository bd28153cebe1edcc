package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Adaptive colors for dark/light terminals
	colorPrimary  = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"}
	colorText     = lipgloss.AdaptiveColor{Light: "#3D3D3D", Dark: "#ABABAB"}
	colorDim      = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#626262"}
	colorAccent   = lipgloss.AdaptiveColor{Light: "#F25D94", Dark: "#F25D94"}
	colorBorder   = lipgloss.AdaptiveColor{Light: "#DBDBDB", Dark: "#383838"}
	colorGreen    = lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#25D366"}
	colorSurface  = lipgloss.AdaptiveColor{Light: "#EEEEEE", Dark: "#2A2A3E"}
	colorStatusBg = lipgloss.AdaptiveColor{Light: "#E8E8E8", Dark: "#16213E"}

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			PaddingLeft(1)

	headerDirStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	listPaneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder)

	listPaneActiveStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary)

	previewPaneStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorBorder)

	previewPaneActiveStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary)

	itemTitleStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	itemSelectedStyle = lipgloss.NewStyle().
				Foreground(colorAccent).
				Bold(true)

	itemDateStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	itemMetaStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	itemDraftStyle = lipgloss.NewStyle().
			Foreground(colorAccent)

	previewTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorPrimary).
				MarginBottom(1)

	previewMetaStyle = lipgloss.NewStyle().
				Foreground(colorGreen)

	previewTagsStyle = lipgloss.NewStyle().
				Foreground(colorDim).
				Italic(true)

	previewBodyStyle = lipgloss.NewStyle().
				Foreground(colorText)

	previewPathStyle = lipgloss.NewStyle().
				Foreground(colorDim).
				Italic(true)

	tabActiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(colorPrimary).
			Padding(0, 1).
			Bold(true)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(colorText).
				Background(colorSurface).
				Padding(0, 1)

	tabSeparatorStyle = lipgloss.NewStyle().
				Foreground(colorDim)

	statusBarStyle = lipgloss.NewStyle().
			Background(colorStatusBg).
			Foreground(colorText).
			PaddingLeft(1).
			PaddingRight(1)

	draftsOnStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	searchPromptStyle = lipgloss.NewStyle().
				Foreground(colorAccent).
				Bold(true)

	helpDimStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	helpCardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(1, 2)
)
