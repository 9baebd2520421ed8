// Package sqlite provides the SQLite-backed conversation cache.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/atlas-kb/atlas-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/atlas-kb/atlas-cli/internal/core/domain"
	"github.com/atlas-kb/atlas-cli/internal/core/ports/driven"
)

// Ensure Cache implements the interface.
var _ driven.ConversationCache = (*Cache)(nil)

// Cache is a SQLite-backed conversation cache. The backend owns the durable
// records; this keeps the sidebar usable when the backend is unreachable
// and absorbs optimistic updates after rename/pin/delete.
type Cache struct {
	db   *sql.DB
	path string
}

// NewCache creates a SQLite cache at the specified data directory.
// If dataDir is empty, defaults to ~/.atlas/data/cache.db.
func NewCache(dataDir string) (*Cache, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".atlas", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "cache.db")

	// WAL mode for concurrent reads while the sidebar refreshes.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	c := &Cache{
		db:   db,
		path: dbPath,
	}

	if err := c.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return c, nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Path returns the database file path.
func (c *Cache) Path() string {
	return c.path
}

// migrate applies pending up-migrations from the embedded filesystem.
func (c *Cache) migrate(fsys embed.FS) error {
	_, err := c.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := c.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number ("001_conversations.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := c.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := c.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// Replace swaps the cached list for a fresh backend fetch, atomically.
func (c *Cache) Replace(ctx context.Context, conversations []domain.Conversation) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM conversations"); err != nil {
		return fmt.Errorf("clearing conversations: %w", err)
	}

	for _, conversation := range conversations {
		if err := upsert(ctx, tx, conversation); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Put stores or updates a single conversation.
func (c *Cache) Put(ctx context.Context, conversation domain.Conversation) error {
	return upsert(ctx, c.db, conversation)
}

// execer covers *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsert(ctx context.Context, db execer, conversation domain.Conversation) error {
	if conversation.UpdatedAt.IsZero() {
		conversation.UpdatedAt = time.Now().UTC()
	}
	if conversation.CreatedAt.IsZero() {
		conversation.CreatedAt = conversation.UpdatedAt
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO conversations (id, title, is_pinned, preview, message_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			is_pinned = excluded.is_pinned,
			preview = excluded.preview,
			message_count = excluded.message_count,
			updated_at = excluded.updated_at
	`, conversation.ID, conversation.Title, conversation.Pinned, conversation.Preview,
		conversation.MessageCount, conversation.CreatedAt.UTC(), conversation.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("upserting conversation %s: %w", conversation.ID, err)
	}
	return nil
}

// List returns the cached conversations, pinned first, most recent next.
func (c *Cache) List(ctx context.Context) ([]domain.Conversation, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT id, title, is_pinned, preview, message_count, created_at, updated_at
		FROM conversations
		ORDER BY is_pinned DESC, updated_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("listing conversations: %w", err)
	}
	defer rows.Close()

	var conversations []domain.Conversation
	for rows.Next() {
		var conversation domain.Conversation
		if err := rows.Scan(
			&conversation.ID,
			&conversation.Title,
			&conversation.Pinned,
			&conversation.Preview,
			&conversation.MessageCount,
			&conversation.CreatedAt,
			&conversation.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning conversation: %w", err)
		}
		conversations = append(conversations, conversation)
	}
	return conversations, rows.Err()
}

// Delete removes a conversation from the cache.
func (c *Cache) Delete(ctx context.Context, id string) error {
	if _, err := c.db.ExecContext(ctx, "DELETE FROM conversations WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting conversation %s: %w", id, err)
	}
	return nil
}
