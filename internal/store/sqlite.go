package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	. "github.com/Aditya-1301/AI-TTRPG/internal/logging"
)

// SQLiteStore implements Store using SQLite
type SQLiteStore struct {
	db *sql.DB
}

// Schema version for migrations
const currentSchemaVersion = 2

// NewSQLiteStore opens (and migrates) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=ON")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{db: db}

	if err := store.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	L_info("sqlite: store opened", "path", path)
	return store, nil
}

// Migrate runs database migrations
func (s *SQLiteStore) Migrate() error {
	var version int
	err := s.db.QueryRow("SELECT version FROM schema_version ORDER BY version DESC LIMIT 1").Scan(&version)
	if err != nil {
		// Table doesn't exist, start from scratch
		version = 0
	}

	if version >= currentSchemaVersion {
		L_debug("sqlite: schema up to date", "version", version)
		return nil
	}

	L_info("sqlite: migrating schema", "from", version, "to", currentSchemaVersion)

	migrations := []func(*sql.DB) error{
		migrateV1,
		migrateV2,
	}

	for i := version; i < len(migrations); i++ {
		if err := migrations[i](s.db); err != nil {
			return fmt.Errorf("migration v%d failed: %w", i+1, err)
		}
		L_debug("sqlite: applied migration", "version", i+1)
	}

	return nil
}

// migrateV1 creates the initial schema
func migrateV1(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_uuid TEXT NOT NULL UNIQUE,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS messages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id INTEGER NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id, created_at);
	`
	if _, err := db.Exec(schema); err != nil {
		return err
	}
	_, err := db.Exec("INSERT INTO schema_version (version, applied_at) VALUES (1, ?)", time.Now().Unix())
	return err
}

// migrateV2 adds the per-session GM prompt override
func migrateV2(db *sql.DB) error {
	if _, err := db.Exec("ALTER TABLE sessions ADD COLUMN system_prompt TEXT NOT NULL DEFAULT ''"); err != nil {
		return err
	}
	_, err := db.Exec("INSERT INTO schema_version (version, applied_at) VALUES (2, ?)", time.Now().Unix())
	return err
}

// CreateSession inserts a fresh session with a new external UUID.
func (s *SQLiteStore) CreateSession(ctx context.Context) (*Session, error) {
	sess := &Session{
		UUID:      uuid.NewString(),
		CreatedAt: time.Now(),
	}

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO sessions (session_uuid, created_at, system_prompt) VALUES (?, ?, '')",
		sess.UUID, sess.CreatedAt.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	sess.ID, err = res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read session id: %w", err)
	}

	L_debug("sqlite: session created", "uuid", sess.UUID)
	return sess, nil
}

// GetSessionByUUID looks up a session by its external UUID.
func (s *SQLiteStore) GetSessionByUUID(ctx context.Context, u string) (*Session, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, session_uuid, created_at, system_prompt FROM sessions WHERE session_uuid = ?", u)

	var sess Session
	var createdAt int64
	if err := row.Scan(&sess.ID, &sess.UUID, &createdAt, &sess.SystemPrompt); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("session %s not found", u)
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	sess.CreatedAt = time.Unix(createdAt, 0)
	return &sess, nil
}

// ListSessions returns all sessions, newest first.
func (s *SQLiteStore) ListSessions(ctx context.Context) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, session_uuid, created_at, system_prompt FROM sessions ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var sess Session
		var createdAt int64
		if err := rows.Scan(&sess.ID, &sess.UUID, &createdAt, &sess.SystemPrompt); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sess.CreatedAt = time.Unix(createdAt, 0)
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// UpdateSessionPrompt stores a per-session GM prompt override.
func (s *SQLiteStore) UpdateSessionPrompt(ctx context.Context, sessionID int64, prompt string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE sessions SET system_prompt = ? WHERE id = ?", prompt, sessionID)
	if err != nil {
		return fmt.Errorf("failed to update session prompt: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("session %d not found", sessionID)
	}
	return nil
}

// DeleteSession removes a session and, via cascade, its messages.
func (s *SQLiteStore) DeleteSession(ctx context.Context, u string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE session_uuid = ?", u)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("session %s not found", u)
	}
	L_debug("sqlite: session deleted", "uuid", u)
	return nil
}

// AppendMessage appends one message to a session's history.
func (s *SQLiteStore) AppendMessage(ctx context.Context, sessionID int64, role, content string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO messages (session_id, role, content, created_at) VALUES (?, ?, ?, ?)",
		sessionID, role, content, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}
	return nil
}

// ListMessages returns a session's history, oldest first.
func (s *SQLiteStore) ListMessages(ctx context.Context, sessionID int64) ([]Message, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, session_id, role, content, created_at FROM messages WHERE session_id = ? ORDER BY created_at ASC, id ASC",
		sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, *msg)
	}
	return messages, rows.Err()
}

// LastMessage returns the most recent message, or nil if there is none.
func (s *SQLiteStore) LastMessage(ctx context.Context, sessionID int64) (*Message, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, session_id, role, content, created_at FROM messages WHERE session_id = ? ORDER BY created_at DESC, id DESC LIMIT 1",
		sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load last message: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	return scanMessage(rows)
}

// CountMessages returns the number of messages in a session.
func (s *SQLiteStore) CountMessages(ctx context.Context, sessionID int64) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM messages WHERE session_id = ?", sessionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}
	return count, nil
}

// DeleteMessages wipes a session's history without removing the session.
func (s *SQLiteStore) DeleteMessages(ctx context.Context, sessionID int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM messages WHERE session_id = ?", sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete messages: %w", err)
	}
	L_debug("sqlite: history cleared", "session", sessionID)
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func scanMessage(rows *sql.Rows) (*Message, error) {
	var msg Message
	var createdAt int64
	if err := rows.Scan(&msg.ID, &msg.SessionID, &msg.Role, &msg.Content, &createdAt); err != nil {
		return nil, fmt.Errorf("failed to scan message: %w", err)
	}
	msg.CreatedAt = time.Unix(createdAt, 0)
	return &msg, nil
}
