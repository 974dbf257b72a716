package tui

import (
	"fmt"
	"strings"

	"github.com/Aditya-1301/AI-TTRPG/internal/store"
)

// Navigator is the scrollable, selectable session list. Selection is
// clamped to the collection; the scroll window follows the selection
// with the same minimal-scroll rule as the editor.
type Navigator struct {
	sessions []store.Summary
	index    int
	offset   int
	pageSize int
}

// SetSessions replaces the working set wholesale. The selected index
// is preserved by clamping only.
func (n *Navigator) SetSessions(sessions []store.Summary) {
	n.sessions = sessions
	if len(sessions) == 0 {
		n.index = 0
		n.offset = 0
		return
	}
	if n.index >= len(sessions) {
		n.index = len(sessions) - 1
	}
	n.clampOffset()
}

// SetPageSize is called each draw with the row count the layout
// currently affords.
func (n *Navigator) SetPageSize(size int) {
	n.pageSize = max(size, 1)
	n.clampOffset()
}

// Move shifts the selection by delta, clamped to the collection.
// Moving on an empty collection is a no-op.
func (n *Navigator) Move(delta int) {
	if len(n.sessions) == 0 {
		return
	}
	n.index += delta
	if n.index < 0 {
		n.index = 0
	}
	if n.index > len(n.sessions)-1 {
		n.index = len(n.sessions) - 1
	}
	n.clampOffset()
}

// Select moves the selection to an absolute index, clamped.
func (n *Navigator) Select(index int) {
	if len(n.sessions) == 0 {
		return
	}
	n.index = min(max(index, 0), len(n.sessions)-1)
	n.clampOffset()
}

// Current returns the selected session, or nil when the collection is
// empty.
func (n *Navigator) Current() *store.Summary {
	if len(n.sessions) == 0 {
		return nil
	}
	return &n.sessions[n.index]
}

// Len returns the collection size.
func (n *Navigator) Len() int { return len(n.sessions) }

// Index returns the selected index.
func (n *Navigator) Index() int { return n.index }

// Offset returns the first visible index.
func (n *Navigator) Offset() int { return n.offset }

// Page returns the 1-based page of the selection and the total page
// count.
func (n *Navigator) Page() (current, total int) {
	size := max(n.pageSize, 1)
	if len(n.sessions) == 0 {
		return 1, 1
	}
	return n.index/size + 1, (len(n.sessions) + size - 1) / size
}

func (n *Navigator) clampOffset() {
	size := max(n.pageSize, 1)
	if n.index < n.offset {
		n.offset = n.index
	}
	if n.index >= n.offset+size {
		n.offset = n.index - size + 1
	}
	if n.offset < 0 {
		n.offset = 0
	}
}

// View renders the visible window of session rows, or a placeholder
// when there is nothing to show.
func (n *Navigator) View(width, rows int) string {
	n.SetPageSize(rows)

	if len(n.sessions) == 0 {
		return placeholderStyle.Render("No sessions found. Press 'n' to create a new session.")
	}

	var b strings.Builder
	end := min(n.offset+n.pageSize, len(n.sessions))
	for i := n.offset; i < end; i++ {
		b.WriteString(n.renderRow(i, width))
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (n *Navigator) renderRow(i, width int) string {
	s := n.sessions[i]

	dot := idleDotStyle.Render("○")
	if s.Active {
		dot = activeDotStyle.Render("●")
	}

	title := fmt.Sprintf("Campaign %s", shortUUID(s.UUID))
	created := s.CreatedAt.Format("2006-01-02 15:04")
	meta := fmt.Sprintf("%-22s %s  %3d msgs", title, created, s.MessageCount)

	row := meta
	if s.Preview != "" {
		row += "  " + previewStyle.Render(truncate(`"`+s.Preview+`"`, max(width-len(meta)-4, 10)))
	}

	if i == n.index {
		// The selected row is restyled as a whole, so drop nested styling.
		plain := meta
		if s.Preview != "" {
			plain += "  " + truncate(`"`+s.Preview+`"`, max(width-len(meta)-4, 10))
		}
		return selectedRowStyle.Render(pad("> "+plain, width))
	}
	return "  " + dot + " " + row
}

func shortUUID(u string) string {
	if len(u) > 8 {
		return u[:8]
	}
	return u
}

// pad right-pads s with spaces to the given display width.
func pad(s string, width int) string {
	gap := width - len([]rune(s))
	if gap <= 0 {
		return truncate(s, width)
	}
	return s + strings.Repeat(" ", gap)
}
