package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/josephgoksu/taskdeck/models"
)

var (
	// Colors
	ColorPrimary   = lipgloss.Color("205") // Pink
	ColorSecondary = lipgloss.Color("241") // Gray
	ColorSuccess   = lipgloss.Color("42")  // Green
	ColorError     = lipgloss.Color("160") // Red
	ColorWarning   = lipgloss.Color("214") // Orange/Yellow
	ColorText      = lipgloss.Color("252") // White/Gray
	ColorCyan      = lipgloss.Color("87")  // Cyan for in-progress
	ColorBlue      = lipgloss.Color("75")  // Blue for info toasts

	// Base Styles
	StyleTitle   = lipgloss.NewStyle().Foreground(ColorText).Bold(true)
	StyleSubtle  = lipgloss.NewStyle().Foreground(ColorSecondary)
	StylePrimary = lipgloss.NewStyle().Foreground(ColorPrimary)
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)
	StyleText    = lipgloss.NewStyle().Foreground(ColorText)

	// Done rows render struck through and dimmed.
	StyleDone = lipgloss.NewStyle().Foreground(ColorSecondary).Strikethrough(true)

	// Selected row marker.
	StyleCursor = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)

	// Input box for the task form fields.
	StyleInputBox = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorSecondary).
			Padding(0, 1)

	// Header bar of the board.
	StyleHeader = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true).
			Padding(0, 1)
)

// StatusIcon returns the single-character marker for a task status.
func StatusIcon(s models.TaskStatus) string {
	switch s {
	case models.StatusDone:
		return StyleSuccess.Render("✓")
	case models.StatusInProgress:
		return lipgloss.NewStyle().Foreground(ColorCyan).Render("◐")
	case models.StatusBlocked:
		return StyleError.Render("■")
	case models.StatusCancelled:
		return StyleSubtle.Render("✗")
	default:
		return StyleSubtle.Render("○")
	}
}

// StatusStyle returns the text style used when rendering a status label.
func StatusStyle(s models.TaskStatus) lipgloss.Style {
	switch s {
	case models.StatusDone:
		return StyleSuccess
	case models.StatusInProgress:
		return lipgloss.NewStyle().Foreground(ColorCyan)
	case models.StatusBlocked:
		return StyleError
	case models.StatusCancelled:
		return StyleSubtle
	default:
		return StyleText
	}
}
