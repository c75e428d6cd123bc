// ABOUTME: SQLite-backed implementation of the storage.Store interface
// ABOUTME: Composes the thread and message stores over one database handle
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/harper/msgvault/internal/models"
	"github.com/harper/msgvault/internal/storage"
)

// Storage is the SQLite-backed store. Opening it migrates the schema to
// the current version.
type Storage struct {
	db       *DB
	threads  *ThreadStore
	messages *MessageStore
}

// compile-time interface check
var _ storage.Store = (*Storage)(nil)

// NewStorageWithPath opens (or creates) the database at the given path
func NewStorageWithPath(path string) (*Storage, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	return newStorage(db), nil
}

// NewStorageInMemory opens a throwaway in-memory database, mostly for tests
func NewStorageInMemory() (*Storage, error) {
	db, err := OpenInMemory()
	if err != nil {
		return nil, err
	}
	return newStorage(db), nil
}

func newStorage(db *DB) *Storage {
	return &Storage{
		db:       db,
		threads:  NewThreadStore(db),
		messages: NewMessageStore(db),
	}
}

// DB exposes the underlying handle for maintenance operations
func (s *Storage) DB() *DB {
	return s.db
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) CreateThread(thread *models.Thread) error {
	return s.threads.Create(thread)
}

func (s *Storage) GetThread(id string) (*models.Thread, error) {
	return s.threads.GetByID(id)
}

func (s *Storage) GetThreadByName(name string) (*models.Thread, error) {
	return s.threads.GetByName(name)
}

func (s *Storage) ListThreads() ([]models.Thread, error) {
	return s.threads.List()
}

func (s *Storage) ListThreadsByStatus(status models.ThreadStatus) ([]models.Thread, error) {
	return s.threads.ListByStatus(status)
}

func (s *Storage) UpdateThreadStatus(id string, status models.ThreadStatus) error {
	return s.threads.UpdateStatus(id, status)
}

// DeleteThread removes a thread together with all its messages and
// their index entries, in one transaction.
func (s *Storage) DeleteThread(id string) error {
	return s.db.withTx(func(tx *sql.Tx) error {
		if err := deindexWhere(tx, `thread_id = ?`, id); err != nil {
			return err
		}
		if _, err := tx.Exec(`DELETE FROM messages WHERE thread_id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete thread messages: %w", err)
		}
		res, err := tx.Exec(`DELETE FROM threads WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete thread: %w", err)
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

func (s *Storage) ResolveThreadID(shortID string) (string, error) {
	return s.threads.ResolveShortID(shortID)
}

func (s *Storage) UpsertThread(thread *models.Thread) error {
	return s.threads.Upsert(thread)
}

func (s *Storage) CreateMessage(msg *models.Message) error {
	return s.messages.Insert(msg)
}

// CreateMessages stores a batch atomically and reports how many landed.
// On error the count is zero: the whole batch rolled back.
func (s *Storage) CreateMessages(msgs []models.Message) (int, error) {
	ptrs := make([]*models.Message, len(msgs))
	for i := range msgs {
		ptrs[i] = &msgs[i]
	}
	if err := s.messages.InsertBatch(ptrs); err != nil {
		return 0, err
	}
	return len(msgs), nil
}

func (s *Storage) GetMessage(id string) (*models.Message, error) {
	return s.messages.GetByID(id)
}

func (s *Storage) ListMessages(threadID string) ([]models.Message, error) {
	return s.messages.ListByThread(threadID, 0)
}

func (s *Storage) ListRecentMessages(limit int) ([]models.Message, error) {
	return s.messages.ListRecent(limit)
}

func (s *Storage) UpdateMessageContent(id, content string) error {
	return s.messages.UpdateContent(id, content)
}

func (s *Storage) DeleteMessage(id string) error {
	return s.messages.Delete(id)
}

func (s *Storage) DeleteMessagesByThread(threadID string) (int, error) {
	n, err := s.messages.DeleteByThread(threadID)
	return int(n), err
}

func (s *Storage) DeleteMessagesBySession(sessionID string) (int, error) {
	n, err := s.messages.DeleteBySession(sessionID)
	return int(n), err
}

func (s *Storage) DeleteMessagesOlderThan(cutoff time.Time) (int, error) {
	n, err := s.messages.DeleteOlderThan(cutoff)
	return int(n), err
}

func (s *Storage) ResolveMessageID(shortID string) (string, error) {
	return s.messages.ResolveShortID(shortID)
}

func (s *Storage) SearchMessages(query string, opts storage.SearchOptions) ([]models.Message, error) {
	return s.messages.Search(query, opts)
}

// IndexIntegrity counts search-index rows with no backing message row.
// A healthy index reports zero.
func (s *Storage) IndexIntegrity() (int, error) {
	var orphans int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM messages_fts
		WHERE rowid NOT IN (SELECT rowid FROM messages)
	`).Scan(&orphans)
	if err != nil {
		return 0, fmt.Errorf("failed to check index integrity: %w", err)
	}
	return orphans, nil
}
