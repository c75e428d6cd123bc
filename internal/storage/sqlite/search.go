// ABOUTME: Full-text search over message content via FTS5
// ABOUTME: Keeps the external-content index in sync and runs MATCH queries with a LIKE fallback
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/harper/msgvault/internal/models"
	"github.com/harper/msgvault/internal/storage"
)

// indexContent mirrors a message row into the search index. Must run in
// the same transaction as the row write it mirrors.
func indexContent(tx *sql.Tx, rowid int64, content string) error {
	_, err := tx.Exec(`INSERT INTO messages_fts (rowid, content) VALUES (?, ?)`, rowid, content)
	if err != nil {
		return fmt.Errorf("failed to index content: %w", err)
	}
	return nil
}

// deindexContent removes a message row from the search index. External
// content tables need the old content echoed back in the delete command.
func deindexContent(tx *sql.Tx, rowid int64, content string) error {
	_, err := tx.Exec(`INSERT INTO messages_fts (messages_fts, rowid, content) VALUES ('delete', ?, ?)`,
		rowid, content)
	if err != nil {
		return fmt.Errorf("failed to deindex content: %w", err)
	}
	return nil
}

// Search runs a full-text query over message content, best matches
// first. The query is matched as a literal substring: it is quoted as
// a single FTS5 phrase so spaces and operators pass through to the
// trigram index verbatim. Queries too short for a trigram (or that the
// parser still rejects) fall back to a LIKE scan so user input never
// errors out.
func (s *MessageStore) Search(query string, opts storage.SearchOptions) ([]models.Message, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}

	if len([]rune(query)) < 3 {
		return s.searchLike(query, opts.ThreadID, limit)
	}

	messages, err := s.searchMatch(phraseQuery(query), opts.ThreadID, limit)
	if err != nil {
		if isFTSSyntaxErr(err) {
			return s.searchLike(query, opts.ThreadID, limit)
		}
		return nil, err
	}
	return messages, nil
}

// phraseQuery wraps raw user input in FTS5 phrase quotes, doubling any
// embedded quote. Without this the parser splits on whitespace and a
// fragment spanning a word boundary ("o w") never reaches the index.
func phraseQuery(q string) string {
	return `"` + strings.ReplaceAll(q, `"`, `""`) + `"`
}

func (s *MessageStore) searchMatch(query, threadID string, limit int) ([]models.Message, error) {
	sqlQuery := `
		SELECT ` + messageColumnsPrefixed + `
		FROM messages m
		JOIN messages_fts fts ON m.rowid = fts.rowid
		WHERE messages_fts MATCH ?`
	args := []interface{}{query}
	if threadID != "" {
		sqlQuery += ` AND m.thread_id = ?`
		args = append(args, threadID)
	}
	sqlQuery += ` ORDER BY fts.rank LIMIT ?`
	args = append(args, limit)

	return s.queryMessages(sqlQuery, args...)
}

func (s *MessageStore) searchLike(query, threadID string, limit int) ([]models.Message, error) {
	pattern := "%" + escapeLike(query) + "%"
	sqlQuery := `
		SELECT ` + messageColumnsPrefixed + `
		FROM messages m
		WHERE m.content LIKE ? ESCAPE '\'`
	args := []interface{}{pattern}
	if threadID != "" {
		sqlQuery += ` AND m.thread_id = ?`
		args = append(args, threadID)
	}
	sqlQuery += ` ORDER BY m.created_at DESC LIMIT ?`
	args = append(args, limit)

	return s.queryMessages(sqlQuery, args...)
}

// isFTSSyntaxErr reports whether an error came from the FTS5 query
// parser rather than the engine itself.
func isFTSSyntaxErr(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "fts5: syntax error") ||
		strings.Contains(msg, "unknown special query") ||
		strings.Contains(msg, "no such column") ||
		strings.Contains(msg, "unterminated string")
}

// escapeLike backslash-escapes LIKE metacharacters in user input
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
