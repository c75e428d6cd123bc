// ABOUTME: Thread storage operations for SQLite
// ABOUTME: CRUD, status transitions, and short-id resolution for threads
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/harper/msgvault/internal/models"
	"github.com/harper/msgvault/internal/storage"
)

// ThreadStore handles thread persistence
type ThreadStore struct {
	db *DB
}

// NewThreadStore creates a new ThreadStore
func NewThreadStore(db *DB) *ThreadStore {
	return &ThreadStore{db: db}
}

const threadColumns = `id, name, title, source_url, status, created_at, updated_at`

// Create inserts a new thread. Duplicate ids or names surface as
// storage.ErrConstraint.
func (s *ThreadStore) Create(thread *models.Thread) error {
	return s.db.withTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO threads (id, name, title, source_url, status, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, thread.ID, nullable(thread.Name), thread.Title, nullable(thread.SourceURL),
			string(thread.Status), formatTime(thread.CreatedAt), formatTime(thread.UpdatedAt))
		if err != nil {
			return fmt.Errorf("failed to create thread: %w", classifyErr(err))
		}
		return nil
	})
}

// Upsert inserts a thread unless its id already exists. Used by hook
// ingestion, where the same session keeps posting to one thread.
func (s *ThreadStore) Upsert(thread *models.Thread) error {
	return s.db.withTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT OR IGNORE INTO threads (id, name, title, source_url, status, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, thread.ID, nullable(thread.Name), thread.Title, nullable(thread.SourceURL),
			string(thread.Status), formatTime(thread.CreatedAt), formatTime(thread.UpdatedAt))
		if err != nil {
			return fmt.Errorf("failed to upsert thread: %w", classifyErr(err))
		}
		return nil
	})
}

// GetByID retrieves a thread by its full id
func (s *ThreadStore) GetByID(id string) (*models.Thread, error) {
	row := s.db.QueryRow(`SELECT `+threadColumns+` FROM threads WHERE id = ?`, id)
	thread, err := scanThread(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", storage.ErrThreadNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get thread: %w", err)
	}
	return thread, nil
}

// GetByName retrieves a thread by its unique name alias
func (s *ThreadStore) GetByName(name string) (*models.Thread, error) {
	row := s.db.QueryRow(`SELECT `+threadColumns+` FROM threads WHERE name = ?`, name)
	thread, err := scanThread(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: name %q", storage.ErrThreadNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get thread by name: %w", err)
	}
	return thread, nil
}

// List retrieves all threads, most recently updated first
func (s *ThreadStore) List() ([]models.Thread, error) {
	return s.list(`SELECT ` + threadColumns + ` FROM threads ORDER BY updated_at DESC`)
}

// ListByStatus retrieves threads with the given status
func (s *ThreadStore) ListByStatus(status models.ThreadStatus) ([]models.Thread, error) {
	return s.list(`SELECT `+threadColumns+` FROM threads WHERE status = ? ORDER BY updated_at DESC`, string(status))
}

func (s *ThreadStore) list(query string, args ...interface{}) ([]models.Thread, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list threads: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var threads []models.Thread
	for rows.Next() {
		thread, err := scanThread(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan thread: %w", err)
		}
		threads = append(threads, *thread)
	}
	return threads, rows.Err()
}

// UpdateStatus transitions a thread between open and closed
func (s *ThreadStore) UpdateStatus(id string, status models.ThreadStatus) error {
	return s.db.withTx(func(tx *sql.Tx) error {
		res, err := tx.Exec(`UPDATE threads SET status = ?, updated_at = ? WHERE id = ?`,
			string(status), formatTime(time.Now()), id)
		if err != nil {
			return fmt.Errorf("failed to update thread status: %w", classifyErr(err))
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return fmt.Errorf("%w: %s", storage.ErrThreadNotFound, id)
		}
		return nil
	})
}

// ResolveShortID expands a thread id prefix to the full id
func (s *ThreadStore) ResolveShortID(shortID string) (string, error) {
	return resolveShortID(s.db, "threads", shortID, storage.ErrThreadNotFound)
}

// resolveShortID expands an id prefix against the given table. Exactly
// one match wins; zero is notFound, more than one is ambiguous.
func resolveShortID(db *DB, table, shortID string, notFound error) (string, error) {
	pattern := escapeLike(shortID) + "%"
	rows, err := db.Query(
		fmt.Sprintf(`SELECT id FROM %s WHERE id LIKE ? ESCAPE '\' LIMIT 3`, table), pattern)
	if err != nil {
		return "", fmt.Errorf("failed to resolve short id: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	switch len(ids) {
	case 0:
		return "", fmt.Errorf("%w: %s", notFound, shortID)
	case 1:
		return ids[0], nil
	default:
		return "", storage.AmbiguousIDError(shortID, len(ids))
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanThread(row rowScanner) (*models.Thread, error) {
	var (
		thread    models.Thread
		name      sql.NullString
		sourceURL sql.NullString
		status    string
		createdAt string
		updatedAt string
	)
	if err := row.Scan(&thread.ID, &name, &thread.Title, &sourceURL, &status, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	thread.Name = name.String
	thread.SourceURL = sourceURL.String

	parsed, err := models.ParseThreadStatus(status)
	if err != nil {
		parsed = models.ThreadStatusOpen
	}
	thread.Status = parsed

	if thread.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if thread.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &thread, nil
}

// nullable maps "" to NULL so optional columns stay NULL instead of
// colliding on the unique name index.
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
