package ui

import "github.com/charmbracelet/lipgloss"

// Colors
var (
	ColorHeader  = lipgloss.Color("#60A5FA")
	ColorDir     = lipgloss.Color("#22D3EE")
	ColorFile    = lipgloss.Color("#E4E4E7")
	ColorSymlink = lipgloss.Color("#C084FC")
	ColorError   = lipgloss.Color("#EF4444")
	ColorMuted   = lipgloss.Color("#6B7280")
	ColorBorder  = lipgloss.Color("#3F3F46")
	ColorSelect  = lipgloss.Color("#73F59F")
)

// Styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorHeader).
			Bold(true)

	SeparatorStyle = lipgloss.NewStyle().
			Foreground(ColorBorder)

	DirStyle = lipgloss.NewStyle().
			Foreground(ColorDir)

	FileStyle = lipgloss.NewStyle().
			Foreground(ColorFile)

	SymlinkStyle = lipgloss.NewStyle().
			Foreground(ColorSymlink)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(ColorSelect).
			Bold(true).
			Reverse(true)

	StatusStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	LoadingStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true)

	PreviewBorder = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(ColorBorder).
			PaddingLeft(1)
)
