// ABOUTME: Thread represents a conversation thread in the archive
// ABOUTME: Core data structure grouping related messages
package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ThreadStatus is the lifecycle state of a thread
type ThreadStatus string

const (
	ThreadStatusOpen   ThreadStatus = "open"
	ThreadStatusClosed ThreadStatus = "closed"
)

// ParseThreadStatus converts a string to a ThreadStatus
func ParseThreadStatus(s string) (ThreadStatus, error) {
	switch strings.ToLower(s) {
	case "open":
		return ThreadStatusOpen, nil
	case "closed":
		return ThreadStatusClosed, nil
	default:
		return "", fmt.Errorf("unknown thread status: %s", s)
	}
}

// Thread represents a conversation thread
type Thread struct {
	ID        string       `json:"id"`
	Name      string       `json:"name,omitempty"`
	Title     string       `json:"title"`
	SourceURL string       `json:"source_url,omitempty"`
	Status    ThreadStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// NewThread creates a new open Thread with validation
func NewThread(title string) (*Thread, error) {
	if strings.TrimSpace(title) == "" {
		return nil, errors.New("thread title cannot be empty")
	}
	now := time.Now().UTC()
	return &Thread{
		ID:        uuid.New().String(),
		Title:     title,
		Status:    ThreadStatusOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ShortID returns the first 8 characters of the thread ID for display
func (t *Thread) ShortID() string {
	if len(t.ID) <= 8 {
		return t.ID
	}
	return t.ID[:8]
}
