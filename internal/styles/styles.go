// Package styles provides shared lipgloss styles for CLI and TUI components.
package styles

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Tokyo Night color palette.
var (
	ColorGreen  = lipgloss.Color("#9ece6a")
	ColorYellow = lipgloss.Color("#e0af68")
	ColorBlue   = lipgloss.Color("#7aa2f7")
	ColorRed    = lipgloss.Color("#f7768e")
	ColorGray   = lipgloss.Color("#565f89")
	ColorWhite  = lipgloss.Color("#c0caf5")
)

// Banner ASCII art for the header.
const Banner = `
 ╔═╗╔═╗╦═╗╦  ╔═╗╦═╗
 ╠═╝╠═╣╠╦╝║  ║ ║╠╦╝
 ╩  ╩ ╩╩╚═╩═╝╚═╝╩╚═`

// BannerStyle styles the ASCII art banner.
var BannerStyle = lipgloss.NewStyle().
	Foreground(ColorBlue).
	Bold(true)

// HeaderStyle styles section headers in command output.
var HeaderStyle = lipgloss.NewStyle().
	Foreground(ColorBlue).
	Bold(true)

// SubtleStyle styles secondary text.
var SubtleStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// DividerStyle styles horizontal dividers.
var DividerStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// FormTheme returns a huh theme matching the palette.
func FormTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = t.Focused.Title.Foreground(ColorBlue).Bold(true)
	t.Focused.FocusedButton = t.Focused.FocusedButton.Background(ColorBlue).Foreground(lipgloss.Color("#1a1b26"))
	t.Focused.BlurredButton = t.Focused.BlurredButton.Background(lipgloss.Color("#3b4261")).Foreground(ColorWhite)
	t.Focused.TextInput.Prompt = t.Focused.TextInput.Prompt.Foreground(ColorBlue)
	t.Focused.TextInput.Cursor = t.Focused.TextInput.Cursor.Foreground(ColorBlue)
	t.Focused.SelectSelector = t.Focused.SelectSelector.Foreground(ColorBlue)
	t.Focused.ErrorMessage = t.Focused.ErrorMessage.Foreground(ColorRed)
	t.Focused.ErrorIndicator = t.Focused.ErrorIndicator.Foreground(ColorRed)

	t.Blurred.Title = t.Blurred.Title.Foreground(ColorGray)

	return t
}
