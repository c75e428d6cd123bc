// ABOUTME: Tests for Thread model creation and status parsing
// ABOUTME: Verifies NewThread constructor and ThreadStatus handling
package models

import (
	"testing"
)

func TestNewThread(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		wantErr bool
	}{
		{name: "valid title", title: "Design discussion", wantErr: false},
		{name: "empty title", title: "", wantErr: true},
		{name: "whitespace-only title", title: "   \t\n ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			thread, err := NewThread(tt.title)
			if tt.wantErr {
				if err == nil {
					t.Fatal("NewThread() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewThread() error = %v", err)
			}
			if thread.ID == "" {
				t.Error("thread ID should not be empty")
			}
			if thread.Status != ThreadStatusOpen {
				t.Errorf("Status = %q, want %q", thread.Status, ThreadStatusOpen)
			}
			if thread.CreatedAt.IsZero() || thread.UpdatedAt.IsZero() {
				t.Error("timestamps should be set")
			}
		})
	}
}

func TestNewThread_UniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		thread, err := NewThread("test")
		if err != nil {
			t.Fatalf("NewThread() error = %v", err)
		}
		if seen[thread.ID] {
			t.Fatalf("duplicate thread ID generated: %s", thread.ID)
		}
		seen[thread.ID] = true
	}
}

func TestParseThreadStatus(t *testing.T) {
	tests := []struct {
		input   string
		want    ThreadStatus
		wantErr bool
	}{
		{input: "open", want: ThreadStatusOpen},
		{input: "closed", want: ThreadStatusClosed},
		{input: "OPEN", want: ThreadStatusOpen},
		{input: "Closed", want: ThreadStatusClosed},
		{input: "archived", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseThreadStatus(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseThreadStatus(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseThreadStatus(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseThreadStatus(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestThread_ShortID(t *testing.T) {
	thread := &Thread{ID: "abcdef1234567890"}
	if got := thread.ShortID(); got != "abcdef12" {
		t.Errorf("ShortID() = %q, want %q", got, "abcdef12")
	}

	short := &Thread{ID: "abc"}
	if got := short.ShortID(); got != "abc" {
		t.Errorf("ShortID() = %q, want %q", got, "abc")
	}
}
