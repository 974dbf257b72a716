// Package tui implements the terminal session manager: a sessions
// list, a session detail view, and the handoff that suspends the UI to
// run the blocking game process.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	. "github.com/Aditya-1301/AI-TTRPG/internal/logging"
	"github.com/Aditya-1301/AI-TTRPG/internal/store"
)

// view identifies the active screen.
type view int

const (
	viewSessions view = iota
	viewDetail
)

const (
	headerRows = 3
	footerRows = 2 // status bar + help line
	editorRows = 8

	confirmKey = "y"
)

// Model is the top-level TUI state machine. It owns exactly one active
// view and routes every key event to that view's handler.
type Model struct {
	store    store.Store
	selfPath string

	view   view
	list   Navigator
	status StatusChannel
	editor Editor
	msgs   viewport.Model

	// selected is the session captured on entering the detail view;
	// valid only while view == viewDetail.
	selected *store.Summary

	confirmingDelete bool
	editingPrompt    bool

	width  int
	height int
	ready  bool
}

// NewModel creates the session manager model. selfPath is the binary
// to launch for the game handoff.
func NewModel(st store.Store, selfPath string) Model {
	m := Model{
		store:    st,
		selfPath: selfPath,
		editor:   NewEditor(60, editorRows),
		msgs:     viewport.New(80, 10),
	}
	m.refresh()
	return m
}

// Run starts the session manager.
func Run(st store.Store, selfPath string) error {
	p := tea.NewProgram(NewModel(st, selfPath), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()
		return m, nil

	case playDoneMsg:
		return m.afterPlay(msg), nil

	case tea.KeyMsg:
		if m.confirmingDelete {
			return m.handleDeleteConfirm(msg)
		}
		switch m.view {
		case viewSessions:
			return m.updateSessions(msg)
		case viewDetail:
			return m.updateDetail(msg)
		}
	}
	return m, nil
}

// layout distributes the window across the active view's components.
func (m *Model) layout() {
	contentW := max(m.width-2, 20)
	m.editor.SetSize(contentW, editorRows)
	m.msgs.Width = contentW
	m.msgs.Height = max(m.height-headerRows-footerRows-editorRows-6, 3)
	m.list.SetPageSize(m.listRows())
}

// listRows is the row budget the sessions list gets this draw.
func (m *Model) listRows() int {
	return max(m.height-headerRows-footerRows-1, 1)
}

// updateSessions handles keys on the sessions list screen.
func (m Model) updateSessions(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "up", "k":
		m.list.Move(-1)

	case "down", "j":
		m.list.Move(1)

	case "enter":
		if cur := m.list.Current(); cur != nil {
			m.openDetail(*cur)
		}

	case "n":
		m.createSession()

	case "d":
		m.beginDelete()

	case "r":
		m.refresh()
		if m.list.Len() > 0 {
			m.status.Set("Sessions reloaded.", SeverityInfo)
		}
	}
	return m, nil
}

// updateDetail handles keys on the session detail screen.
func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.editingPrompt {
		return m.updatePromptEditor(msg)
	}

	switch msg.String() {
	case "esc", "q", "ctrl+c":
		// Quit is reinterpreted as back while in the detail view.
		m.closeDetail()
		return m, nil

	case "enter", "p":
		if m.selected != nil {
			m.status.Set("Handing off to the game...", SeverityInfo)
			return m, playSession(m.selfPath, m.selected.UUID)
		}

	case "e":
		m.editingPrompt = true
		m.editor.Focus()

	case "d":
		m.beginDelete()

	default:
		var cmd tea.Cmd
		m.msgs, cmd = m.msgs.Update(msg)
		return m, cmd
	}
	return m, nil
}

// updatePromptEditor routes keys to the prompt editor while it has
// focus.
func (m Model) updatePromptEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+s":
		m.savePrompt()
		return m, nil

	case "esc":
		m.editingPrompt = false
		m.editor.Blur()
		return m, nil
	}

	m.editor.HandleKey(msg)
	return m, nil
}

// handleDeleteConfirm consumes the single keystroke that decides a
// pending delete. Only the affirmative key proceeds; anything else
// cancels before any store call is made.
func (m Model) handleDeleteConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.confirmingDelete = false
	if !strings.EqualFold(msg.String(), confirmKey) {
		m.status.Set("Deletion cancelled.", SeverityInfo)
		return m, nil
	}
	m.deleteTarget()
	return m, nil
}

// openDetail captures the selected session and switches views.
func (m *Model) openDetail(s store.Summary) {
	m.selected = &s
	m.editor.SetText(s.SystemPrompt)
	m.editor.Blur()
	m.editingPrompt = false
	m.loadMessages()
	m.view = viewDetail
}

// closeDetail discards the captured session and returns to the list.
func (m *Model) closeDetail() {
	m.selected = nil
	m.editingPrompt = false
	m.editor.Blur()
	m.view = viewSessions
}

// refresh reloads the session collection wholesale. A store failure
// empties the collection and reports an error status; it never crashes
// the UI.
func (m *Model) refresh() {
	summaries, err := store.LoadSummaries(context.Background(), m.store)
	if err != nil {
		L_error("tui: failed to load sessions", "error", err)
		m.list.SetSessions(nil)
		m.status.Set("Could not load sessions from the store.", SeverityError)
		return
	}
	m.list.SetSessions(summaries)
}

// createSession asks the store for a fresh session. New sessions sort
// first, so selection resets to the top on success.
func (m *Model) createSession() {
	sess, err := m.store.CreateSession(context.Background())
	if err != nil {
		L_error("tui: failed to create session", "error", err)
		m.status.Set("Could not create a new session.", SeverityError)
		return
	}
	m.refresh()
	m.list.Select(0)
	m.status.Set(fmt.Sprintf("Created campaign %s.", shortUUID(sess.UUID)), SeveritySuccess)
}

// beginDelete arms the one-keystroke confirmation for the session the
// active view points at. No-op when there is nothing to delete.
func (m *Model) beginDelete() {
	target := m.deleteCandidate()
	if target == nil {
		return
	}
	m.confirmingDelete = true
	m.status.Set(fmt.Sprintf("Delete campaign %s? Press '%s' to confirm.", shortUUID(target.UUID), confirmKey), SeverityWarning)
}

func (m *Model) deleteCandidate() *store.Summary {
	if m.view == viewDetail {
		return m.selected
	}
	return m.list.Current()
}

// deleteTarget performs the confirmed delete. Deleting the session
// open in the detail view returns the controller to the list.
func (m *Model) deleteTarget() {
	target := m.deleteCandidate()
	if target == nil {
		return
	}

	if err := m.store.DeleteSession(context.Background(), target.UUID); err != nil {
		L_error("tui: failed to delete session", "uuid", target.UUID, "error", err)
		m.status.Set("Could not delete the session.", SeverityError)
		return
	}

	if m.view == viewDetail {
		m.closeDetail()
	}
	m.refresh()
	m.status.Set(fmt.Sprintf("Campaign %s deleted.", shortUUID(target.UUID)), SeveritySuccess)
}

// savePrompt persists the edited GM prompt for the open session.
func (m *Model) savePrompt() {
	if m.selected == nil {
		return
	}

	prompt := m.editor.Text()
	if err := m.store.UpdateSessionPrompt(context.Background(), m.selected.ID, prompt); err != nil {
		L_error("tui: failed to save prompt", "uuid", m.selected.UUID, "error", err)
		m.status.Set("Could not save the GM prompt.", SeverityError)
		return
	}
	m.selected.SystemPrompt = prompt
	m.status.Set("GM prompt saved.", SeveritySuccess)
}

// afterPlay resynchronizes state once the game process returns: the
// child may have appended any number of turns, so the collection is
// reloaded in full. The controller stays on the detail view.
func (m Model) afterPlay(msg playDoneMsg) Model {
	m.refresh()

	if msg.err != nil {
		L_error("tui: game process failed", "uuid", msg.uuid, "error", msg.err)
		if code, ok := exitStatus(msg.err); ok {
			m.status.Set(fmt.Sprintf("Game session ended with exit status %d.", code), SeverityError)
		} else {
			m.status.Set("Game session failed to run.", SeverityError)
		}
	} else {
		m.status.Set("Game session ended.", SeveritySuccess)
	}

	// Rebind the captured session to the reloaded collection.
	if m.selected != nil {
		m.selected = nil
		for i := 0; i < m.list.Len(); i++ {
			m.list.Select(i)
			if cur := m.list.Current(); cur != nil && cur.UUID == msg.uuid {
				m.selected = cur
				break
			}
		}
		if m.selected == nil {
			m.view = viewSessions
			m.list.Select(0)
		} else {
			m.editor.SetText(m.selected.SystemPrompt)
			m.loadMessages()
		}
	}
	return m
}

// loadMessages fills the detail viewport with the captured session's
// history.
func (m *Model) loadMessages() {
	if m.selected == nil {
		return
	}

	messages, err := m.store.ListMessages(context.Background(), m.selected.ID)
	if err != nil {
		L_error("tui: failed to load messages", "uuid", m.selected.UUID, "error", err)
		m.msgs.SetContent(placeholderStyle.Render("Could not load the message history."))
		m.status.Set("Could not load the message history.", SeverityError)
		return
	}
	m.msgs.SetContent(formatMessages(messages, max(m.width-4, 40)))
	m.msgs.GotoBottom()
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var content string
	switch m.view {
	case viewSessions:
		content = m.list.View(m.width, m.listRows())
	case viewDetail:
		content = m.detailView()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.headerView(),
		content,
		m.footerView(),
	)
}

func (m Model) headerView() string {
	title := titleStyle.Render("TTRPG Sessions Manager")
	info := headerInfoStyle.Render(fmt.Sprintf("Sessions: %d", m.list.Len()))
	sep := separatorStyle.Render(strings.Repeat("─", max(m.width, 1)))
	return title + "  " + info + "\n" + sep
}

func (m Model) footerView() string {
	statusLine := m.status.View(m.width)

	var help string
	switch {
	case m.confirmingDelete:
		help = fmt.Sprintf("%s: confirm  any other key: cancel", confirmKey)
	case m.view == viewSessions:
		current, total := m.list.Page()
		help = "↑↓: navigate  enter: open  n: new  d: delete  r: refresh  q: quit"
		help += pageInfoStyle.Render(fmt.Sprintf("   page %d/%d", current, total))
	case m.editingPrompt:
		help = "ctrl+s: save prompt  esc: done editing"
	default:
		help = "enter: play  e: edit prompt  d: delete  esc: back"
	}

	return statusLine + "\n" + helpStyle.Render(help)
}
