// ABOUTME: Message represents a single message stored in a thread
// ABOUTME: Carries role, content, opaque metadata, and provenance fields
package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role identifies who produced a message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleTool      Role = "tool"
)

// ParseRole converts a string to a Role
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(s) {
	case "user":
		return RoleUser, nil
	case "assistant":
		return RoleAssistant, nil
	case "system":
		return RoleSystem, nil
	case "tool":
		return RoleTool, nil
	default:
		return "", fmt.Errorf("unknown role: %s", s)
	}
}

// RoleOrDefault converts a string to a Role, falling back to RoleUser
// for unrecognized values. Used when scanning rows written by older
// clients.
func RoleOrDefault(s string) Role {
	role, err := ParseRole(s)
	if err != nil {
		return RoleUser
	}
	return role
}

// Message represents a single message in a thread.
//
// ThreadID is not enforced by the storage layer; callers must verify
// the thread exists before inserting.
type Message struct {
	ID        string          `json:"id"`
	ThreadID  string          `json:"thread_id"`
	SessionID string          `json:"session_id,omitempty"`
	Sender    string          `json:"sender,omitempty"`
	Role      Role            `json:"role"`
	Content   string          `json:"content"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
	ParentID  string          `json:"parent_id,omitempty"`
	Source    string          `json:"source,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewMessage creates a new Message with validation
func NewMessage(threadID string, role Role, content string) (*Message, error) {
	if strings.TrimSpace(threadID) == "" {
		return nil, errors.New("thread id cannot be empty")
	}
	if content == "" {
		return nil, errors.New("message content cannot be empty")
	}
	if strings.ContainsRune(content, '\x00') {
		return nil, errors.New("message content cannot contain NUL bytes")
	}
	now := time.Now().UTC()
	return &Message{
		ID:        uuid.New().String(),
		ThreadID:  threadID,
		Role:      role,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ShortID returns the first 8 characters of the message ID for display
func (m *Message) ShortID() string {
	if len(m.ID) <= 8 {
		return m.ID
	}
	return m.ID[:8]
}
