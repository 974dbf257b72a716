package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Aditya-1301/AI-TTRPG/internal/store"
)

// detailView draws the session detail screen: campaign metadata, the
// GM prompt editor, and the scrollable message history.
func (m Model) detailView() string {
	if m.selected == nil {
		return placeholderStyle.Render("No session selected.")
	}
	s := m.selected

	title := detailTitleStyle.Render("Campaign " + shortUUID(s.UUID))
	meta := detailLabelStyle.Render(fmt.Sprintf(
		"uuid %s   created %s   %d messages",
		s.UUID, s.CreatedAt.Format("2006-01-02 15:04"), s.MessageCount,
	))

	promptLabel := detailLabelStyle.Render("GM prompt")
	if m.editingPrompt {
		promptLabel = detailLabelStyle.Render("GM prompt (editing)")
	}

	historyLabel := detailLabelStyle.Render("History")

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		meta,
		"",
		promptLabel,
		m.editor.View(),
		historyLabel,
		m.msgs.View(),
	)
}

// formatMessages renders the conversation transcript for the detail
// viewport, newest last.
func formatMessages(messages []store.Message, width int) string {
	if len(messages) == 0 {
		return placeholderStyle.Render("No messages yet. Press enter to start playing.")
	}

	var b strings.Builder
	for i, msg := range messages {
		if i > 0 {
			b.WriteString("\n\n")
		}

		label := "Player"
		style := statusInfoStyle
		if msg.Role == store.RoleGM {
			label = "GM"
			style = statusSuccessStyle
		}
		b.WriteString(style.Render(label))
		b.WriteString(detailLabelStyle.Render("  " + msg.CreatedAt.Format("15:04")))
		b.WriteString("\n")
		b.WriteString(wrapText(msg.Content, width))
	}
	return b.String()
}

// wrapText soft-wraps content to the viewport width, preserving
// paragraph breaks.
func wrapText(s string, width int) string {
	if width <= 0 {
		return s
	}

	var out []string
	for _, line := range strings.Split(s, "\n") {
		if len(line) <= width {
			out = append(out, line)
			continue
		}

		var cur string
		for _, word := range strings.Fields(line) {
			switch {
			case cur == "":
				cur = word
			case len(cur)+1+len(word) <= width:
				cur += " " + word
			default:
				out = append(out, cur)
				cur = word
			}
		}
		out = append(out, cur)
	}
	return strings.Join(out, "\n")
}
