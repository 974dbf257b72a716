package tui

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Aditya-1301/AI-TTRPG/internal/store"
)

// fakeStore is an in-memory Store for controller tests.
type fakeStore struct {
	sessions []store.Session
	messages map[int64][]store.Message
	nextID   int64

	failCreate bool
	failList   bool
	deletes    int
}

func newFakeStore(sessions int) *fakeStore {
	fs := &fakeStore{messages: map[int64][]store.Message{}}
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < sessions; i++ {
		fs.nextID++
		fs.sessions = append(fs.sessions, store.Session{
			ID:        fs.nextID,
			UUID:      fmt.Sprintf("uuid-%04d", i),
			CreatedAt: base.Add(-time.Duration(i) * time.Hour),
		})
	}
	return fs
}

func (f *fakeStore) CreateSession(ctx context.Context) (*store.Session, error) {
	if f.failCreate {
		return nil, errors.New("create failed")
	}
	f.nextID++
	s := store.Session{ID: f.nextID, UUID: fmt.Sprintf("uuid-new-%d", f.nextID), CreatedAt: time.Now()}
	f.sessions = append([]store.Session{s}, f.sessions...)
	return &s, nil
}

func (f *fakeStore) GetSessionByUUID(ctx context.Context, uuid string) (*store.Session, error) {
	for i := range f.sessions {
		if f.sessions[i].UUID == uuid {
			return &f.sessions[i], nil
		}
	}
	return nil, fmt.Errorf("session %s not found", uuid)
}

func (f *fakeStore) ListSessions(ctx context.Context) ([]store.Session, error) {
	if f.failList {
		return nil, errors.New("list failed")
	}
	return append([]store.Session(nil), f.sessions...), nil
}

func (f *fakeStore) UpdateSessionPrompt(ctx context.Context, sessionID int64, prompt string) error {
	for i := range f.sessions {
		if f.sessions[i].ID == sessionID {
			f.sessions[i].SystemPrompt = prompt
			return nil
		}
	}
	return fmt.Errorf("session %d not found", sessionID)
}

func (f *fakeStore) DeleteSession(ctx context.Context, uuid string) error {
	f.deletes++
	for i := range f.sessions {
		if f.sessions[i].UUID == uuid {
			delete(f.messages, f.sessions[i].ID)
			f.sessions = append(f.sessions[:i], f.sessions[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("session %s not found", uuid)
}

func (f *fakeStore) AppendMessage(ctx context.Context, sessionID int64, role, content string) error {
	f.messages[sessionID] = append(f.messages[sessionID], store.Message{
		ID: int64(len(f.messages[sessionID]) + 1), SessionID: sessionID,
		Role: role, Content: content, CreatedAt: time.Now(),
	})
	return nil
}

func (f *fakeStore) ListMessages(ctx context.Context, sessionID int64) ([]store.Message, error) {
	return append([]store.Message(nil), f.messages[sessionID]...), nil
}

func (f *fakeStore) LastMessage(ctx context.Context, sessionID int64) (*store.Message, error) {
	msgs := f.messages[sessionID]
	if len(msgs) == 0 {
		return nil, nil
	}
	return &msgs[len(msgs)-1], nil
}

func (f *fakeStore) CountMessages(ctx context.Context, sessionID int64) (int, error) {
	return len(f.messages[sessionID]), nil
}

func (f *fakeStore) DeleteMessages(ctx context.Context, sessionID int64) error {
	delete(f.messages, sessionID)
	return nil
}

func (f *fakeStore) Close() error   { return nil }
func (f *fakeStore) Migrate() error { return nil }

func pressKey(t *testing.T, m Model, s string) Model {
	t.Helper()
	var msg tea.KeyMsg
	switch s {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+s":
		msg = tea.KeyMsg{Type: tea.KeyCtrlS}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	next, _ := m.Update(msg)
	return next.(Model)
}

func newTestModel(t *testing.T, fs *fakeStore) Model {
	t.Helper()
	m := NewModel(fs, "/bin/true")
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(Model)
}

func TestModelOpenAndCloseDetail(t *testing.T) {
	fs := newFakeStore(3)
	m := newTestModel(t, fs)

	m = pressKey(t, m, "enter")
	if m.view != viewDetail {
		t.Fatalf("view = %v after enter, want detail", m.view)
	}
	if m.selected == nil || m.selected.UUID != "uuid-0000" {
		t.Fatalf("selected = %+v, want uuid-0000", m.selected)
	}

	// Quit keys are reinterpreted as back while in the detail view.
	m = pressKey(t, m, "q")
	if m.view != viewSessions {
		t.Fatalf("view = %v after q in detail, want sessions", m.view)
	}
	if m.selected != nil {
		t.Fatal("selected not cleared on close")
	}
}

func TestModelEnterOnEmptyListIsNoop(t *testing.T) {
	fs := newFakeStore(0)
	m := newTestModel(t, fs)

	m = pressKey(t, m, "enter")
	if m.view != viewSessions {
		t.Fatalf("view = %v after enter on empty list, want sessions", m.view)
	}

	m = pressKey(t, m, "d")
	if m.confirmingDelete {
		t.Fatal("delete confirm armed with nothing to delete")
	}
}

func TestModelDeleteConfirmCancel(t *testing.T) {
	fs := newFakeStore(2)
	m := newTestModel(t, fs)
	m = pressKey(t, m, "down")

	m = pressKey(t, m, "d")
	if !m.confirmingDelete {
		t.Fatal("delete confirm not armed")
	}

	// Anything other than the confirm key cancels without a store call.
	m = pressKey(t, m, "x")
	if m.confirmingDelete {
		t.Fatal("confirm state not cleared on cancel")
	}
	if fs.deletes != 0 {
		t.Fatalf("deletes = %d after cancel, want 0", fs.deletes)
	}
	if m.list.Index() != 1 {
		t.Fatalf("selection moved on cancel: index = %d, want 1", m.list.Index())
	}
	if msg, sev := m.status.Message(); msg != "Deletion cancelled." || sev != SeverityInfo {
		t.Fatalf("status = %q/%v, want cancellation notice", msg, sev)
	}
}

func TestModelDeleteConfirmProceeds(t *testing.T) {
	fs := newFakeStore(2)
	m := newTestModel(t, fs)

	m = pressKey(t, m, "d")
	m = pressKey(t, m, "y")

	if fs.deletes != 1 || len(fs.sessions) != 1 {
		t.Fatalf("deletes = %d, sessions = %d, want 1 and 1", fs.deletes, len(fs.sessions))
	}
	if m.list.Len() != 1 {
		t.Fatalf("list length = %d after delete, want 1", m.list.Len())
	}
}

func TestModelDeleteFromDetailReturnsToList(t *testing.T) {
	fs := newFakeStore(2)
	m := newTestModel(t, fs)
	m = pressKey(t, m, "enter")

	m = pressKey(t, m, "d")
	m = pressKey(t, m, "y")

	if m.view != viewSessions {
		t.Fatalf("view = %v after delete in detail, want sessions", m.view)
	}
	if len(fs.sessions) != 1 {
		t.Fatalf("sessions = %d, want 1", len(fs.sessions))
	}
}

func TestModelCreateSelectsNewSession(t *testing.T) {
	fs := newFakeStore(2)
	m := newTestModel(t, fs)
	m = pressKey(t, m, "down")

	m = pressKey(t, m, "n")
	if m.list.Len() != 3 {
		t.Fatalf("list length = %d after create, want 3", m.list.Len())
	}
	if m.list.Index() != 0 {
		t.Fatalf("index = %d after create, want 0 (new sessions sort first)", m.list.Index())
	}
	if _, sev := m.status.Message(); sev != SeveritySuccess {
		t.Fatalf("status severity = %v after create, want success", sev)
	}
}

func TestModelCreateFailureKeepsList(t *testing.T) {
	fs := newFakeStore(2)
	fs.failCreate = true
	m := newTestModel(t, fs)

	m = pressKey(t, m, "n")
	if m.list.Len() != 2 {
		t.Fatalf("list length = %d after failed create, want 2", m.list.Len())
	}
	if _, sev := m.status.Message(); sev != SeverityError {
		t.Fatalf("status severity = %v, want error", sev)
	}
}

func TestModelPromptEditing(t *testing.T) {
	fs := newFakeStore(1)
	m := newTestModel(t, fs)
	m = pressKey(t, m, "enter")

	m = pressKey(t, m, "e")
	if !m.editingPrompt || !m.editor.Focused() {
		t.Fatal("editor not focused after e")
	}

	m = pressKey(t, m, "g")
	m = pressKey(t, m, "m")
	m = pressKey(t, m, "ctrl+s")

	if got := fs.sessions[0].SystemPrompt; got != "gm" {
		t.Fatalf("persisted prompt = %q, want %q", got, "gm")
	}
	if _, sev := m.status.Message(); sev != SeveritySuccess {
		t.Fatalf("status severity = %v after save, want success", sev)
	}

	m = pressKey(t, m, "esc")
	if m.editingPrompt || m.editor.Focused() {
		t.Fatal("editor still focused after esc")
	}
	if m.view != viewDetail {
		t.Fatal("esc while editing must not leave the detail view")
	}
}

func TestModelPlayDoneFailureStaysInDetail(t *testing.T) {
	fs := newFakeStore(2)
	m := newTestModel(t, fs)
	m = pressKey(t, m, "enter")

	next, _ := m.Update(playDoneMsg{uuid: "uuid-0000", err: errors.New("boom")})
	m = next.(Model)

	if m.view != viewDetail {
		t.Fatalf("view = %v after failed play, want detail", m.view)
	}
	if m.selected == nil || m.selected.UUID != "uuid-0000" {
		t.Fatalf("selected = %+v after failed play, want uuid-0000", m.selected)
	}
	if _, sev := m.status.Message(); sev != SeverityError {
		t.Fatalf("status severity = %v, want error", sev)
	}
}

func TestModelPlayDoneResyncsHistory(t *testing.T) {
	fs := newFakeStore(1)
	m := newTestModel(t, fs)
	m = pressKey(t, m, "enter")

	// The game process appends turns behind the controller's back.
	fs.AppendMessage(context.Background(), 1, store.RoleUser, "I open the door")
	fs.AppendMessage(context.Background(), 1, store.RoleGM, "It creaks open...")

	next, _ := m.Update(playDoneMsg{uuid: "uuid-0000"})
	m = next.(Model)

	if m.selected == nil || m.selected.MessageCount != 2 {
		t.Fatalf("selected = %+v after play, want message count 2", m.selected)
	}
	if _, sev := m.status.Message(); sev != SeveritySuccess {
		t.Fatalf("status severity = %v, want success", sev)
	}
}

func TestModelPlayDoneSessionGoneReturnsToList(t *testing.T) {
	fs := newFakeStore(2)
	m := newTestModel(t, fs)
	m = pressKey(t, m, "enter")

	// The session was wiped while the game process ran.
	fs.DeleteSession(context.Background(), "uuid-0000")

	next, _ := m.Update(playDoneMsg{uuid: "uuid-0000"})
	m = next.(Model)

	if m.view != viewSessions {
		t.Fatalf("view = %v after session vanished, want sessions", m.view)
	}
}

func TestModelRefreshFailureEmptiesList(t *testing.T) {
	fs := newFakeStore(3)
	m := newTestModel(t, fs)

	fs.failList = true
	m = pressKey(t, m, "r")

	if m.list.Len() != 0 {
		t.Fatalf("list length = %d after failed refresh, want 0", m.list.Len())
	}
	if _, sev := m.status.Message(); sev != SeverityError {
		t.Fatalf("status severity = %v, want error", sev)
	}
}
