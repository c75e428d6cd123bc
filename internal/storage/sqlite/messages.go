// ABOUTME: Message storage operations for SQLite
// ABOUTME: Every content write keeps the FTS index in step within the same transaction
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/harper/msgvault/internal/models"
	"github.com/harper/msgvault/internal/storage"
)

// MessageStore handles message persistence
type MessageStore struct {
	db *DB
}

// NewMessageStore creates a new MessageStore
func NewMessageStore(db *DB) *MessageStore {
	return &MessageStore{db: db}
}

const messageColumns = `id, thread_id, session_id, sender, role, content, metadata, parent_id, source, created_at, updated_at`

const messageColumnsPrefixed = `m.id, m.thread_id, m.session_id, m.sender, m.role, m.content, m.metadata, m.parent_id, m.source, m.created_at, m.updated_at`

// Insert stores a message and indexes its content atomically
func (s *MessageStore) Insert(msg *models.Message) error {
	return s.db.withTx(func(tx *sql.Tx) error {
		return insertMessageTx(tx, msg)
	})
}

// InsertBatch stores several messages in a single transaction. Either
// all land with their index entries or none do.
func (s *MessageStore) InsertBatch(msgs []*models.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	return s.db.withTx(func(tx *sql.Tx) error {
		for _, msg := range msgs {
			if err := insertMessageTx(tx, msg); err != nil {
				return err
			}
		}
		return nil
	})
}

func insertMessageTx(tx *sql.Tx, msg *models.Message) error {
	var metadata interface{}
	if len(msg.Metadata) > 0 {
		metadata = string(msg.Metadata)
	}
	res, err := tx.Exec(`
		INSERT INTO messages (id, thread_id, session_id, sender, role, content, metadata, parent_id, source, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, msg.ID, msg.ThreadID, nullable(msg.SessionID), nullable(msg.Sender),
		string(msg.Role), msg.Content, metadata, nullable(msg.ParentID),
		nullable(msg.Source), formatTime(msg.CreatedAt), formatTime(msg.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", classifyErr(err))
	}
	rowid, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get message rowid: %w", err)
	}
	return indexContent(tx, rowid, msg.Content)
}

// GetByID retrieves a message by its full id
func (s *MessageStore) GetByID(id string) (*models.Message, error) {
	row := s.db.QueryRow(`SELECT `+messageColumns+` FROM messages WHERE id = ?`, id)
	msg, err := scanMessage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", storage.ErrMessageNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get message: %w", err)
	}
	return msg, nil
}

// ListByThread retrieves a thread's messages in posting order
func (s *MessageStore) ListByThread(threadID string, limit int) ([]models.Message, error) {
	query := `SELECT ` + messageColumnsPrefixed + ` FROM messages m WHERE m.thread_id = ? ORDER BY m.created_at ASC, m.rowid ASC`
	args := []interface{}{threadID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return s.queryMessages(query, args...)
}

// ListRecent retrieves the newest messages across all threads
func (s *MessageStore) ListRecent(limit int) ([]models.Message, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.queryMessages(
		`SELECT `+messageColumnsPrefixed+` FROM messages m ORDER BY m.created_at DESC, m.rowid DESC LIMIT ?`, limit)
}

// UpdateContent replaces a message's content and reindexes it. When the
// new content equals the old, only updated_at moves and the index is
// left alone.
func (s *MessageStore) UpdateContent(id, content string) error {
	return s.db.withTx(func(tx *sql.Tx) error {
		var (
			rowid int64
			old   string
		)
		err := tx.QueryRow(`SELECT rowid, content FROM messages WHERE id = ?`, id).Scan(&rowid, &old)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %s", storage.ErrMessageNotFound, id)
		}
		if err != nil {
			return fmt.Errorf("failed to load message for update: %w", err)
		}

		now := formatTime(time.Now())
		if old == content {
			_, err = tx.Exec(`UPDATE messages SET updated_at = ? WHERE id = ?`, now, id)
			return err
		}

		if err := deindexContent(tx, rowid, old); err != nil {
			return err
		}
		if _, err := tx.Exec(`UPDATE messages SET content = ?, updated_at = ? WHERE id = ?`, content, now, id); err != nil {
			return fmt.Errorf("failed to update message: %w", classifyErr(err))
		}
		return indexContent(tx, rowid, content)
	})
}

// Delete removes a message and its index entry atomically
func (s *MessageStore) Delete(id string) error {
	return s.db.withTx(func(tx *sql.Tx) error {
		var (
			rowid int64
			old   string
		)
		err := tx.QueryRow(`SELECT rowid, content FROM messages WHERE id = ?`, id).Scan(&rowid, &old)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %s", storage.ErrMessageNotFound, id)
		}
		if err != nil {
			return fmt.Errorf("failed to load message for delete: %w", err)
		}
		if err := deindexContent(tx, rowid, old); err != nil {
			return err
		}
		_, err = tx.Exec(`DELETE FROM messages WHERE id = ?`, id)
		return err
	})
}

// DeleteByThread removes all messages in a thread, returning the count
func (s *MessageStore) DeleteByThread(threadID string) (int64, error) {
	return s.deleteWhere(`thread_id = ?`, threadID)
}

// DeleteBySession removes all messages tagged with a session id
func (s *MessageStore) DeleteBySession(sessionID string) (int64, error) {
	return s.deleteWhere(`session_id = ?`, sessionID)
}

// DeleteOlderThan removes messages created before the cutoff
func (s *MessageStore) DeleteOlderThan(cutoff time.Time) (int64, error) {
	return s.deleteWhere(`created_at < ?`, formatTime(cutoff))
}

// deleteWhere removes every matching message along with its index
// entry, all in one transaction.
func (s *MessageStore) deleteWhere(pred string, args ...interface{}) (int64, error) {
	var deleted int64
	err := s.db.withTx(func(tx *sql.Tx) error {
		deleted = 0
		if err := deindexWhere(tx, pred, args...); err != nil {
			return err
		}
		res, err := tx.Exec(`DELETE FROM messages WHERE `+pred, args...)
		if err != nil {
			return fmt.Errorf("failed to delete messages: %w", err)
		}
		deleted, err = res.RowsAffected()
		return err
	})
	return deleted, err
}

func deindexWhere(tx *sql.Tx, pred string, args ...interface{}) error {
	rows, err := tx.Query(`SELECT rowid, content FROM messages WHERE `+pred, args...)
	if err != nil {
		return fmt.Errorf("failed to load messages for delete: %w", err)
	}
	defer func() { _ = rows.Close() }()

	type victim struct {
		rowid   int64
		content string
	}
	var victims []victim
	for rows.Next() {
		var v victim
		if err := rows.Scan(&v.rowid, &v.content); err != nil {
			return err
		}
		victims = append(victims, v)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, v := range victims {
		if err := deindexContent(tx, v.rowid, v.content); err != nil {
			return err
		}
	}
	return nil
}

// ResolveShortID expands a message id prefix to the full id
func (s *MessageStore) ResolveShortID(shortID string) (string, error) {
	return resolveShortID(s.db, "messages", shortID, storage.ErrMessageNotFound)
}

func (s *MessageStore) queryMessages(query string, args ...interface{}) ([]models.Message, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var messages []models.Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, *msg)
	}
	return messages, rows.Err()
}

func scanMessage(row rowScanner) (*models.Message, error) {
	var (
		msg       models.Message
		sessionID sql.NullString
		sender    sql.NullString
		role      string
		metadata  sql.NullString
		parentID  sql.NullString
		source    sql.NullString
		createdAt string
		updatedAt string
	)
	if err := row.Scan(&msg.ID, &msg.ThreadID, &sessionID, &sender, &role, &msg.Content,
		&metadata, &parentID, &source, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	msg.SessionID = sessionID.String
	msg.Sender = sender.String
	msg.ParentID = parentID.String
	msg.Source = source.String
	if metadata.Valid {
		msg.Metadata = []byte(metadata.String)
	}

	parsed, err := models.ParseRole(role)
	if err != nil {
		parsed = models.RoleUser
	}
	msg.Role = parsed

	if msg.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if msg.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &msg, nil
}
