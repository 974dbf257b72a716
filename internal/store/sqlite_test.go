package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	dir, err := os.MkdirTemp("", "ttrpg_store_test_*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	s, err := NewSQLiteStore(filepath.Join(dir, "sessions.db"))
	if err != nil {
		os.RemoveAll(dir)
		t.Fatalf("failed to open store: %v", err)
	}

	t.Cleanup(func() {
		s.Close()
		os.RemoveAll(dir)
	})

	return s
}

func TestCreateAndListSessions(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	first, err := s.CreateSession(ctx)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if first.UUID == "" {
		t.Error("expected UUID to be set")
	}
	if first.ID == 0 {
		t.Error("expected ID to be set")
	}

	second, err := s.CreateSession(ctx)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	sessions, err := s.ListSessions(ctx)
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
	// Newest first.
	if sessions[0].UUID != second.UUID {
		t.Errorf("expected newest session first, got %s", sessions[0].UUID)
	}
}

func TestGetSessionByUUID(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	created, err := s.CreateSession(ctx)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	got, err := s.GetSessionByUUID(ctx, created.UUID)
	if err != nil {
		t.Fatalf("GetSessionByUUID failed: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("expected id %d, got %d", created.ID, got.ID)
	}

	if _, err := s.GetSessionByUUID(ctx, "no-such-uuid"); err == nil {
		t.Error("expected error for unknown UUID")
	}
}

func TestMessageLifecycle(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	sess, err := s.CreateSession(ctx)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	if err := s.AppendMessage(ctx, sess.ID, RoleUser, "I open the door"); err != nil {
		t.Fatalf("AppendMessage failed: %v", err)
	}
	if err := s.AppendMessage(ctx, sess.ID, RoleGM, "The door creaks open..."); err != nil {
		t.Fatalf("AppendMessage failed: %v", err)
	}

	count, err := s.CountMessages(ctx, sess.ID)
	if err != nil {
		t.Fatalf("CountMessages failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 messages, got %d", count)
	}

	messages, err := s.ListMessages(ctx, sess.ID)
	if err != nil {
		t.Fatalf("ListMessages failed: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if messages[0].Role != RoleUser || messages[1].Role != RoleGM {
		t.Errorf("messages out of order: %s, %s", messages[0].Role, messages[1].Role)
	}

	last, err := s.LastMessage(ctx, sess.ID)
	if err != nil {
		t.Fatalf("LastMessage failed: %v", err)
	}
	if last == nil || last.Role != RoleGM {
		t.Errorf("expected last message from GM, got %+v", last)
	}

	if err := s.DeleteMessages(ctx, sess.ID); err != nil {
		t.Fatalf("DeleteMessages failed: %v", err)
	}
	count, err = s.CountMessages(ctx, sess.ID)
	if err != nil {
		t.Fatalf("CountMessages failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 messages after wipe, got %d", count)
	}
}

func TestLastMessageEmptySession(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	sess, err := s.CreateSession(ctx)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	last, err := s.LastMessage(ctx, sess.ID)
	if err != nil {
		t.Fatalf("LastMessage failed: %v", err)
	}
	if last != nil {
		t.Errorf("expected nil for empty session, got %+v", last)
	}
}

func TestDeleteSessionCascades(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	sess, err := s.CreateSession(ctx)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if err := s.AppendMessage(ctx, sess.ID, RoleUser, "hello"); err != nil {
		t.Fatalf("AppendMessage failed: %v", err)
	}

	if err := s.DeleteSession(ctx, sess.UUID); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}

	sessions, err := s.ListSessions(ctx)
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("expected no sessions, got %d", len(sessions))
	}

	count, err := s.CountMessages(ctx, sess.ID)
	if err != nil {
		t.Fatalf("CountMessages failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected cascade delete of messages, got %d", count)
	}

	if err := s.DeleteSession(ctx, sess.UUID); err == nil {
		t.Error("expected error deleting a session twice")
	}
}

func TestUpdateSessionPrompt(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	sess, err := s.CreateSession(ctx)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	if err := s.UpdateSessionPrompt(ctx, sess.ID, "You are a noir detective GM."); err != nil {
		t.Fatalf("UpdateSessionPrompt failed: %v", err)
	}

	got, err := s.GetSessionByUUID(ctx, sess.UUID)
	if err != nil {
		t.Fatalf("GetSessionByUUID failed: %v", err)
	}
	if got.SystemPrompt != "You are a noir detective GM." {
		t.Errorf("prompt not persisted: %q", got.SystemPrompt)
	}

	if err := s.UpdateSessionPrompt(ctx, 9999, "x"); err == nil {
		t.Error("expected error for unknown session id")
	}
}

func TestLoadSummaries(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	empty, err := s.CreateSession(ctx)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	active, err := s.CreateSession(ctx)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	long := "The cavern stretches before you, its walls slick with moss and old rain."
	if err := s.AppendMessage(ctx, active.ID, RoleGM, long); err != nil {
		t.Fatalf("AppendMessage failed: %v", err)
	}

	summaries, err := LoadSummaries(ctx, s)
	if err != nil {
		t.Fatalf("LoadSummaries failed: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}

	byUUID := map[string]Summary{}
	for _, sum := range summaries {
		byUUID[sum.UUID] = sum
	}

	e := byUUID[empty.UUID]
	if e.Active || e.MessageCount != 0 || e.Preview != "" {
		t.Errorf("empty session summary wrong: %+v", e)
	}

	a := byUUID[active.UUID]
	if !a.Active || a.MessageCount != 1 {
		t.Errorf("active session summary wrong: %+v", a)
	}
	want := RoleGM + ": " + long[:PreviewLength] + "..."
	if a.Preview != want {
		t.Errorf("preview = %q, want %q", a.Preview, want)
	}
}
