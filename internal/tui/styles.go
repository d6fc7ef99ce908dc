// Package tui implements the Bubble Tea interface for parlor.
package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Tokyo Night color palette.
var (
	colorGreen  = lipgloss.Color("#9ece6a") // green
	colorYellow = lipgloss.Color("#e0af68") // yellow
	colorBlue   = lipgloss.Color("#7aa2f7") // blue
	colorRed    = lipgloss.Color("#f7768e") // red
	colorGray   = lipgloss.Color("#565f89") // comment
	colorWhite  = lipgloss.Color("#c0caf5") // foreground
)

// Styles used for rendering the TUI.
var (
	// Tab bar styles.
	tabSelectedStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorBlue)

	tabNormalStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	// Selected room item style (matches border color).
	selectedStyle = lipgloss.NewStyle().
			Foreground(colorBlue).
			Bold(true)

	// Normal item style (no color, uses terminal default).
	normalStyle = lipgloss.NewStyle()

	// Room metadata style for subtle detail text.
	detailStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	// Unread badge style.
	unreadStyle = lipgloss.NewStyle().
			Foreground(colorYellow).
			Bold(true)

	// Presence count style.
	presenceStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	// Message author styles.
	authorStyle = lipgloss.NewStyle().
			Foreground(colorBlue).
			Bold(true)

	selfAuthorStyle = lipgloss.NewStyle().
			Foreground(colorGreen).
			Bold(true)

	timestampStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	// Status bar styles.
	statusConnectedStyle = lipgloss.NewStyle().
				Foreground(colorGreen)

	statusDetachedStyle = lipgloss.NewStyle().
				Foreground(colorRed)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorRed)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorGray).
			PaddingLeft(1)

	// Chat pane border.
	chatPaneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), false, false, false, true).
			BorderForeground(colorGray).
			PaddingLeft(1)

	// Composer prompt.
	composerPromptStyle = lipgloss.NewStyle().
				Foreground(colorBlue).
				Bold(true)

	// Spinner style.
	spinnerStyle = lipgloss.NewStyle().
			Foreground(colorBlue)
)

// Icons and symbols.
const (
	iconDot    = "•"      // Unicode bullet separator
	iconLock   = "" // Nerd Font lock icon for private rooms
	iconMember = "✓"      // membership marker
)

// Banner ASCII art for the header.
const banner = `
 ╔═╗╔═╗╦═╗╦  ╔═╗╦═╗
 ╠═╝╠═╣╠╦╝║  ║ ║╠╦╝
 ╩  ╩ ╩╩╚═╩═╝╚═╝╩╚═`

// bannerStyle styles the ASCII art banner.
var bannerStyle = lipgloss.NewStyle().
	Foreground(colorBlue).
	Bold(true).
	PaddingLeft(1).
	PaddingBottom(1)

// Modal styles.
var (
	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBlue).
			Padding(1, 2)

	modalTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite)

	modalHelpStyle = lipgloss.NewStyle().
			Foreground(colorGray).
			MarginTop(1)

	modalButtonStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Background(lipgloss.Color("#3b4261")).
				Foreground(lipgloss.Color("#a9b1d6"))

	modalButtonSelectedStyle = lipgloss.NewStyle().
					Padding(0, 1).
					Background(colorBlue).
					Foreground(lipgloss.Color("#1a1b26")).
					Bold(true)
)
