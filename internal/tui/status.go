package tui

import "github.com/charmbracelet/lipgloss"

// Severity selects the display treatment of a status message.
type Severity int

const (
	SeverityInfo Severity = iota
	SeveritySuccess
	SeverityWarning
	SeverityError
)

// StatusChannel holds at most one transient message. Setting a new
// message always replaces the prior one; there is no queue and no
// auto-expiry.
type StatusChannel struct {
	message  string
	severity Severity
}

// Set replaces the live message.
func (s *StatusChannel) Set(message string, severity Severity) {
	s.message = message
	s.severity = severity
}

// Clear removes the live message. Clearing an empty channel is a no-op.
func (s *StatusChannel) Clear() {
	s.message = ""
	s.severity = SeverityInfo
}

// Message returns the live message and its severity. The message is
// empty when nothing is live.
func (s *StatusChannel) Message() (string, Severity) {
	return s.message, s.severity
}

// View renders the live message, truncated to width.
func (s *StatusChannel) View(width int) string {
	if s.message == "" {
		return ""
	}

	var style lipgloss.Style
	switch s.severity {
	case SeveritySuccess:
		style = statusSuccessStyle
	case SeverityWarning:
		style = statusWarningStyle
	case SeverityError:
		style = statusErrorStyle
	default:
		style = statusInfoStyle
	}

	return style.Render(truncate(s.message, width))
}
