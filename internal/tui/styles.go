// Package tui implements the Bubble Tea catalog browser.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/hay-kot/skillshop/internal/styles"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.ColorBlue).
			PaddingLeft(1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(styles.ColorBlue).
			Bold(true)

	normalStyle = lipgloss.NewStyle()

	priceStyle = lipgloss.NewStyle().
			Foreground(styles.ColorGreen)

	mutedStyle = lipgloss.NewStyle().
			Foreground(styles.ColorGray)

	inCartStyle = lipgloss.NewStyle().
			Foreground(styles.ColorYellow)

	statusStyle = lipgloss.NewStyle().
			Foreground(styles.ColorGray).
			PaddingLeft(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(styles.ColorRed).
			PaddingLeft(1)

	detailStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(styles.ColorBlue).
			Padding(0, 1)
)
