// Package store archives contact messages and privacy-conscious visitor
// metrics in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Zachkp/portfolio/internal/contact"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("store: not found")

// timeLayout is how timestamps are written so SQLite date functions and
// plain string comparison both work.
const timeLayout = "2006-01-02 15:04:05"

// DB wraps a sql.DB with portfolio-specific queries.
type DB struct {
	*sql.DB
	now func() time.Time
}

// Open creates or opens a SQLite database at the given path.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	d := &DB{DB: sqlDB, now: time.Now}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return d, nil
}

// OpenMemory creates an in-memory database (useful for testing).
func OpenMemory() (*DB, error) {
	sqlDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory database: %w", err)
	}
	// every pooled connection would otherwise get its own empty database
	sqlDB.SetMaxOpenConns(1)

	d := &DB{DB: sqlDB, now: time.Now}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return d, nil
}

func (d *DB) migrate() error {
	_, err := d.Exec(schema)
	return err
}

const schema = `
CREATE TABLE IF NOT EXISTS messages (
	id TEXT PRIMARY KEY,
	sender_email TEXT NOT NULL,
	body TEXT NOT NULL,
	received_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_messages_received ON messages(received_at);

CREATE TABLE IF NOT EXISTS visitors (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	hashed_ip TEXT NOT NULL,
	user_agent TEXT NOT NULL DEFAULT '',
	path TEXT NOT NULL DEFAULT '',
	timestamp TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_visitors_timestamp ON visitors(timestamp);
`

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.ParseInLocation(timeLayout, s, time.UTC)
	if err != nil {
		return time.Time{}
	}
	return t
}

// SaveMessage archives a contact message. Its signature matches
// contact.SenderFunc so the archive can sit in a sender chain.
func (d *DB) SaveMessage(ctx context.Context, m contact.Message) error {
	_, err := d.ExecContext(ctx,
		`INSERT INTO messages (id, sender_email, body, received_at) VALUES (?, ?, ?, ?)`,
		m.ID, m.SenderEmail, m.Body, formatTime(m.ReceivedAt))
	if err != nil {
		return fmt.Errorf("saving message: %w", err)
	}
	return nil
}

// Message fetches one archived message by id.
func (d *DB) Message(ctx context.Context, id string) (contact.Message, error) {
	var (
		m        contact.Message
		received string
	)
	err := d.QueryRowContext(ctx,
		`SELECT id, sender_email, body, received_at FROM messages WHERE id = ?`, id).
		Scan(&m.ID, &m.SenderEmail, &m.Body, &received)
	if errors.Is(err, sql.ErrNoRows) {
		return contact.Message{}, ErrNotFound
	}
	if err != nil {
		return contact.Message{}, fmt.Errorf("loading message %s: %w", id, err)
	}
	m.ReceivedAt = parseTime(received)
	return m, nil
}

// RecentMessages returns up to limit messages, newest first.
func (d *DB) RecentMessages(ctx context.Context, limit int) ([]contact.Message, error) {
	rows, err := d.QueryContext(ctx, `
		SELECT id, sender_email, body, received_at
		FROM messages
		ORDER BY received_at DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	defer rows.Close()

	var out []contact.Message
	for rows.Next() {
		var (
			m        contact.Message
			received string
		)
		if err := rows.Scan(&m.ID, &m.SenderEmail, &m.Body, &received); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		m.ReceivedAt = parseTime(received)
		out = append(out, m)
	}
	return out, rows.Err()
}

// DeleteMessage removes an archived message.
func (d *DB) DeleteMessage(ctx context.Context, id string) error {
	res, err := d.ExecContext(ctx, `DELETE FROM messages WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting message %s: %w", id, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
