package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
)

// Editor is a multi-line text input with an internal cursor and a
// visible scroll window. It always holds at least one (possibly empty)
// line, and maintains:
//
//	0 <= line < len(lines)
//	0 <= col <= len(lines[line])   (col counted in runes)
//	0 <= scroll <= line
//	scroll <= line < scroll+visibleLines
type Editor struct {
	lines  []string
	line   int
	col    int
	scroll int

	width   int // outer size, border included
	height  int
	focused bool
}

// NewEditor creates an editor with the given outer size.
func NewEditor(width, height int) Editor {
	return Editor{
		lines:  []string{""},
		width:  width,
		height: height,
	}
}

// SetSize updates the outer size and re-synchronizes the scroll window.
func (e *Editor) SetSize(width, height int) {
	e.width = width
	e.height = height
	e.adjustScroll()
}

// Focus gives the editor keyboard focus.
func (e *Editor) Focus() { e.focused = true }

// Blur removes keyboard focus.
func (e *Editor) Blur() { e.focused = false }

// Focused reports whether the editor has keyboard focus.
func (e *Editor) Focused() bool { return e.focused }

// Text returns the current content.
func (e *Editor) Text() string {
	return strings.Join(e.lines, "\n")
}

// SetText replaces the content and resets cursor and scroll.
func (e *Editor) SetText(text string) {
	if text == "" {
		e.lines = []string{""}
	} else {
		e.lines = strings.Split(text, "\n")
	}
	e.line = 0
	e.col = 0
	e.scroll = 0
}

// Cursor returns the cursor position as (line, column).
func (e *Editor) Cursor() (int, int) { return e.line, e.col }

// Scroll returns the first visible line index.
func (e *Editor) Scroll() int { return e.scroll }

// HandleKey processes one key event. It returns false for keys the
// editor does not cover, and for any key while unfocused.
func (e *Editor) HandleKey(msg tea.KeyMsg) bool {
	if !e.focused {
		return false
	}

	switch msg.Type {
	case tea.KeyUp:
		if e.line > 0 {
			e.line--
			e.col = min(e.col, e.lineLen(e.line))
			e.adjustScroll()
		}

	case tea.KeyDown:
		if e.line < len(e.lines)-1 {
			e.line++
			e.col = min(e.col, e.lineLen(e.line))
			e.adjustScroll()
		}

	case tea.KeyLeft:
		if e.col > 0 {
			e.col--
		} else if e.line > 0 {
			e.line--
			e.col = e.lineLen(e.line)
			e.adjustScroll()
		}

	case tea.KeyRight:
		if e.col < e.lineLen(e.line) {
			e.col++
		} else if e.line < len(e.lines)-1 {
			e.line++
			e.col = 0
			e.adjustScroll()
		}

	case tea.KeyHome:
		e.col = 0

	case tea.KeyEnd:
		e.col = e.lineLen(e.line)

	case tea.KeyEnter:
		runes := []rune(e.lines[e.line])
		rest := string(runes[e.col:])
		e.lines[e.line] = string(runes[:e.col])
		e.lines = append(e.lines[:e.line+1], append([]string{rest}, e.lines[e.line+1:]...)...)
		e.line++
		e.col = 0
		e.adjustScroll()

	case tea.KeyBackspace:
		if e.col > 0 {
			runes := []rune(e.lines[e.line])
			e.lines[e.line] = string(runes[:e.col-1]) + string(runes[e.col:])
			e.col--
		} else if e.line > 0 {
			// Merge into the previous line.
			prevLen := e.lineLen(e.line - 1)
			e.lines[e.line-1] += e.lines[e.line]
			e.lines = append(e.lines[:e.line], e.lines[e.line+1:]...)
			e.line--
			e.col = prevLen
			e.adjustScroll()
		}

	case tea.KeyDelete:
		if e.col < e.lineLen(e.line) {
			runes := []rune(e.lines[e.line])
			e.lines[e.line] = string(runes[:e.col]) + string(runes[e.col+1:])
		} else if e.line < len(e.lines)-1 {
			// Merge the next line into this one.
			e.lines[e.line] += e.lines[e.line+1]
			e.lines = append(e.lines[:e.line+1], e.lines[e.line+2:]...)
		}

	case tea.KeySpace:
		e.insert(" ")

	case tea.KeyRunes:
		e.insert(string(msg.Runes))

	default:
		return false
	}

	return true
}

// insert places text at the cursor and advances past it.
func (e *Editor) insert(text string) {
	runes := []rune(e.lines[e.line])
	e.lines[e.line] = string(runes[:e.col]) + text + string(runes[e.col:])
	e.col += len([]rune(text))
}

func (e *Editor) lineLen(i int) int {
	return len([]rune(e.lines[i]))
}

func (e *Editor) visibleLines() int {
	return max(e.height-2, 1)
}

// adjustScroll moves the scroll window the minimum amount needed to
// keep the cursor line visible.
func (e *Editor) adjustScroll() {
	visible := e.visibleLines()
	if e.line < e.scroll {
		e.scroll = e.line
	} else if e.line >= e.scroll+visible {
		e.scroll = e.line - visible + 1
	}
}

// View draws the bordered editor box. Lines wider than the box are
// truncated with a visible marker; the cursor is drawn as an inverted
// cell only while focused.
func (e *Editor) View() string {
	innerW := max(e.width-2, 1)
	visible := e.visibleLines()

	rows := make([]string, visible)
	for i := 0; i < visible; i++ {
		idx := e.scroll + i
		if idx >= len(e.lines) {
			continue
		}
		rows[i] = e.renderLine(idx, innerW)
	}

	border := unfocusedBorder
	if e.focused {
		border = focusedBorder
	}
	return border.Width(innerW).Height(visible).Render(strings.Join(rows, "\n"))
}

func (e *Editor) renderLine(idx, innerW int) string {
	line := e.lines[idx]

	if !e.focused || idx != e.line {
		return truncate(line, innerW)
	}

	// Cursor cell is inverted. Clamp it into the visible width.
	runes := []rune(line)
	col := min(e.col, innerW-1)

	left := truncate(string(runes[:min(e.col, len(runes))]), col)
	cell := " "
	if e.col < len(runes) {
		cell = string(runes[e.col])
	}
	var right string
	if e.col+1 < len(runes) {
		right = truncate(string(runes[e.col+1:]), innerW-col-runewidth.StringWidth(cell))
	}

	return left + cursorStyle.Render(cell) + right
}

// truncate shortens s to the given display width, marking the cut.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 3 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "...")
}
