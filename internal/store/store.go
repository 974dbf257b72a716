// Package store provides persistence for campaign sessions and their
// message history.
package store

import (
	"context"
	"time"
)

// Message roles.
const (
	RoleUser = "user"
	RoleGM   = "gm"
)

// PreviewLength is how many characters of the most recent message a
// session summary carries.
const PreviewLength = 50

// Store is the interface for session storage backends.
// Implementation: SQLiteStore.
type Store interface {
	// Session operations
	CreateSession(ctx context.Context) (*Session, error)
	GetSessionByUUID(ctx context.Context, uuid string) (*Session, error)
	ListSessions(ctx context.Context) ([]Session, error) // created_at descending
	UpdateSessionPrompt(ctx context.Context, sessionID int64, prompt string) error
	DeleteSession(ctx context.Context, uuid string) error

	// Message operations
	AppendMessage(ctx context.Context, sessionID int64, role, content string) error
	ListMessages(ctx context.Context, sessionID int64) ([]Message, error) // created_at ascending
	LastMessage(ctx context.Context, sessionID int64) (*Message, error)
	CountMessages(ctx context.Context, sessionID int64) (int, error)
	DeleteMessages(ctx context.Context, sessionID int64) error

	// Lifecycle
	Close() error
	Migrate() error
}

// Session is a persisted campaign.
type Session struct {
	ID        int64
	UUID      string
	CreatedAt time.Time

	// SystemPrompt overrides the default GM persona when non-empty.
	SystemPrompt string
}

// Message is one entry in a session's ordered history.
type Message struct {
	ID        int64
	SessionID int64
	Role      string // RoleUser or RoleGM
	Content   string
	CreatedAt time.Time
}

// Summary is the per-session record the sessions list displays.
// The working set is rebuilt wholesale on every refresh.
type Summary struct {
	Session
	Preview      string // role-tagged, truncated preview of the latest message
	MessageCount int
	Active       bool // has at least one message
}

// LoadSummaries rebuilds the session summaries from the store.
func LoadSummaries(ctx context.Context, s Store) ([]Summary, error) {
	sessions, err := s.ListSessions(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]Summary, 0, len(sessions))
	for _, sess := range sessions {
		count, err := s.CountMessages(ctx, sess.ID)
		if err != nil {
			return nil, err
		}

		var preview string
		if count > 0 {
			last, err := s.LastMessage(ctx, sess.ID)
			if err != nil {
				return nil, err
			}
			if last != nil {
				preview = previewOf(last)
			}
		}

		summaries = append(summaries, Summary{
			Session:      sess,
			Preview:      preview,
			MessageCount: count,
			Active:       count > 0,
		})
	}
	return summaries, nil
}

func previewOf(m *Message) string {
	text := m.Content
	runes := []rune(text)
	if len(runes) > PreviewLength {
		text = string(runes[:PreviewLength]) + "..."
	}
	return m.Role + ": " + text
}
