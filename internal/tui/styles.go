package tui

import "github.com/charmbracelet/lipgloss"

// Colors
var (
	primaryColor   = lipgloss.Color("39")  // Blue
	secondaryColor = lipgloss.Color("245") // Gray
	errorColor     = lipgloss.Color("196") // Red
	successColor   = lipgloss.Color("82")  // Green
	warningColor   = lipgloss.Color("214") // Orange
)

// Styles
var (
	// Header
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Padding(0, 1)

	headerInfoStyle = lipgloss.NewStyle().
			Foreground(secondaryColor)

	separatorStyle = lipgloss.NewStyle().
			Foreground(primaryColor)

	// Session rows
	selectedRowStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("25")).
				Foreground(lipgloss.Color("255")).
				Bold(true)

	activeDotStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	idleDotStyle = lipgloss.NewStyle().
			Foreground(secondaryColor)

	previewStyle = lipgloss.NewStyle().
			Foreground(secondaryColor).
			Italic(true)

	placeholderStyle = lipgloss.NewStyle().
				Foreground(warningColor)

	// Detail view
	detailTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(primaryColor)

	detailLabelStyle = lipgloss.NewStyle().
				Foreground(secondaryColor)

	// Editor borders
	focusedBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor)

	unfocusedBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(secondaryColor)

	cursorStyle = lipgloss.NewStyle().Reverse(true)

	// Status bar severities
	statusInfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))

	statusSuccessStyle = lipgloss.NewStyle().
				Foreground(successColor)

	statusWarningStyle = lipgloss.NewStyle().
				Foreground(warningColor)

	statusErrorStyle = lipgloss.NewStyle().
				Foreground(errorColor).
				Bold(true)

	// Help text
	helpStyle = lipgloss.NewStyle().
			Foreground(secondaryColor).
			Italic(true)

	pageInfoStyle = lipgloss.NewStyle().
			Foreground(secondaryColor)
)
