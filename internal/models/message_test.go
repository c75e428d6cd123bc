// ABOUTME: Tests for Message model creation and role parsing
// ABOUTME: Verifies NewMessage validation and Role handling
package models

import (
	"strings"
	"testing"
)

func TestNewMessage(t *testing.T) {
	tests := []struct {
		name     string
		threadID string
		role     Role
		content  string
		wantErr  bool
		errMsg   string
	}{
		{
			name:     "valid message",
			threadID: "thread-1",
			role:     RoleUser,
			content:  "hello world",
			wantErr:  false,
		},
		{
			name:     "empty thread id",
			threadID: "",
			role:     RoleUser,
			content:  "hello",
			wantErr:  true,
			errMsg:   "thread id cannot be empty",
		},
		{
			name:     "empty content",
			threadID: "thread-1",
			role:     RoleUser,
			content:  "",
			wantErr:  true,
			errMsg:   "content cannot be empty",
		},
		{
			name:     "content with NUL byte",
			threadID: "thread-1",
			role:     RoleUser,
			content:  "hello\x00world",
			wantErr:  true,
			errMsg:   "NUL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := NewMessage(tt.threadID, tt.role, tt.content)
			if tt.wantErr {
				if err == nil {
					t.Fatal("NewMessage() expected error, got nil")
				}
				if tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("error = %q, want to contain %q", err.Error(), tt.errMsg)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewMessage() error = %v", err)
			}
			if msg.ID == "" {
				t.Error("message ID should not be empty")
			}
			if msg.ThreadID != tt.threadID {
				t.Errorf("ThreadID = %q, want %q", msg.ThreadID, tt.threadID)
			}
			if msg.CreatedAt.IsZero() || msg.UpdatedAt.IsZero() {
				t.Error("timestamps should be set")
			}
		})
	}
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		input   string
		want    Role
		wantErr bool
	}{
		{input: "user", want: RoleUser},
		{input: "assistant", want: RoleAssistant},
		{input: "system", want: RoleSystem},
		{input: "tool", want: RoleTool},
		{input: "Assistant", want: RoleAssistant},
		{input: "robot", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRole(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseRole(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRole(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseRole(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRoleOrDefault(t *testing.T) {
	if got := RoleOrDefault("assistant"); got != RoleAssistant {
		t.Errorf("RoleOrDefault(assistant) = %q", got)
	}
	if got := RoleOrDefault("garbage"); got != RoleUser {
		t.Errorf("RoleOrDefault(garbage) = %q, want user", got)
	}
}
