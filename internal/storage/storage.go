// ABOUTME: Narrow storage interface consumed by the CLI and MCP layers
// ABOUTME: Implemented by the SQLite-backed storage in the sqlite subpackage
package storage

import (
	"time"

	"github.com/harper/msgvault/internal/models"
)

// SearchOptions narrows a message search.
type SearchOptions struct {
	// ThreadID restricts results to a single thread when non-empty.
	ThreadID string
	// Limit caps the number of results; 0 means the store default.
	Limit int
}

// Store is the interface the application layer programs against.
//
// Referential integrity between messages and threads is a caller
// contract: CreateMessage does not verify that the thread exists.
// Callers that need the guarantee must check first.
type Store interface {
	// Threads
	CreateThread(thread *models.Thread) error
	GetThread(id string) (*models.Thread, error)
	GetThreadByName(name string) (*models.Thread, error)
	ListThreads() ([]models.Thread, error)
	ListThreadsByStatus(status models.ThreadStatus) ([]models.Thread, error)
	UpdateThreadStatus(id string, status models.ThreadStatus) error
	DeleteThread(id string) error
	ResolveThreadID(shortID string) (string, error)
	UpsertThread(thread *models.Thread) error

	// Messages. Precondition on CreateMessage and CreateMessages:
	// msg.ThreadID SHOULD reference an existing thread; the store does
	// not reject orphans.
	CreateMessage(msg *models.Message) error
	CreateMessages(msgs []models.Message) (int, error)
	GetMessage(id string) (*models.Message, error)
	ListMessages(threadID string) ([]models.Message, error)
	ListRecentMessages(limit int) ([]models.Message, error)
	UpdateMessageContent(id, content string) error
	DeleteMessage(id string) error
	DeleteMessagesByThread(threadID string) (int, error)
	DeleteMessagesBySession(sessionID string) (int, error)
	DeleteMessagesOlderThan(cutoff time.Time) (int, error)
	ResolveMessageID(shortID string) (string, error)

	// Search returns messages ranked by full-text match.
	SearchMessages(query string, opts SearchOptions) ([]models.Message, error)

	Close() error
}
