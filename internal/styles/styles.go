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
 ╔═╗╦╔═╦╦  ╦  ╔═╗╦ ╦╔═╗╔═╗
 ╚═╗╠╩╗║║  ║  ╚═╗╠═╣║ ║╠═╝
 ╚═╝╩ ╩╩╩═╝╩═╝╚═╝╩ ╩╚═╝╩  `

// BannerStyle styles the ASCII art banner.
var BannerStyle = lipgloss.NewStyle().
	Foreground(ColorBlue).
	Bold(true)

// CommandHeaderStyle styles the hook command headers.
var CommandHeaderStyle = lipgloss.NewStyle().
	Foreground(ColorBlue).
	Bold(true)

// CommandStyle styles the command text.
var CommandStyle = lipgloss.NewStyle().
	Foreground(ColorWhite)

// DividerStyle styles horizontal dividers.
var DividerStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// TitleStyle styles course titles and section headings.
var TitleStyle = lipgloss.NewStyle().
	Foreground(ColorBlue).
	Bold(true)

// PriceStyle styles prices and totals.
var PriceStyle = lipgloss.NewStyle().
	Foreground(ColorGreen)

// MutedStyle styles secondary details such as instructors and ids.
var MutedStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// BadgeStyle styles small labels such as levels and roles.
var BadgeStyle = lipgloss.NewStyle().
	Foreground(ColorYellow)

// ReceiptStyle frames the order receipt.
var ReceiptStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorGreen).
	Padding(0, 2)

// FormTheme returns the huh theme used by interactive forms.
func FormTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Base = t.Focused.Base.BorderForeground(ColorBlue)
	t.Focused.Title = t.Focused.Title.Foreground(ColorBlue).Bold(true)
	t.Focused.Description = t.Focused.Description.Foreground(ColorGray)
	t.Focused.ErrorIndicator = t.Focused.ErrorIndicator.Foreground(ColorRed)
	t.Focused.ErrorMessage = t.Focused.ErrorMessage.Foreground(ColorRed)
	t.Focused.SelectSelector = t.Focused.SelectSelector.Foreground(ColorYellow)
	t.Focused.SelectedOption = t.Focused.SelectedOption.Foreground(ColorGreen)
	t.Focused.FocusedButton = t.Focused.FocusedButton.Foreground(ColorWhite).Background(ColorBlue)
	t.Focused.TextInput.Cursor = t.Focused.TextInput.Cursor.Foreground(ColorYellow)
	t.Focused.TextInput.Placeholder = t.Focused.TextInput.Placeholder.Foreground(ColorGray)

	t.Blurred = t.Focused
	t.Blurred.Base = t.Focused.Base.BorderStyle(lipgloss.HiddenBorder())

	return t
}
