// ABOUTME: Shared utility functions for CLI commands
// ABOUTME: Storage setup, thread reference resolution, and display helpers
package commands

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/harper/msgvault/internal/config"
	"github.com/harper/msgvault/internal/storage"
	"github.com/harper/msgvault/internal/storage/sqlite"
)

// openStore loads configuration and opens the archive database
func openStore() (*sqlite.Storage, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	store, err := sqlite.NewStorageWithPath(cfg.DBPath())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return store, nil
}

// resolveThreadRef accepts a thread name, full id, or unique id prefix
func resolveThreadRef(store storage.Store, ref string) (string, error) {
	if thread, err := store.GetThreadByName(ref); err == nil {
		return thread.ID, nil
	}
	return store.ResolveThreadID(ref)
}

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// oneLine collapses newlines so table rows stay on one line
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// formatAge formats a time as a relative age for display
func formatAge(t time.Time) string {
	diff := time.Since(t)

	if diff < time.Minute {
		return "just now"
	} else if diff < time.Hour {
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	} else if diff < 24*time.Hour {
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	} else if diff < 7*24*time.Hour {
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	}
	return t.Format("2006-01-02")
}

// parseAge parses retention ages like "7d", "36h", or a bare number of
// days.
func parseAge(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty age")
	}
	if strings.HasSuffix(s, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
		if err != nil || days <= 0 {
			return 0, fmt.Errorf("invalid age %q", s)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	if d, err := time.ParseDuration(s); err == nil {
		if d <= 0 {
			return 0, fmt.Errorf("age must be positive, got %q", s)
		}
		return d, nil
	}
	days, err := strconv.Atoi(s)
	if err != nil || days <= 0 {
		return 0, fmt.Errorf("invalid age %q", s)
	}
	return time.Duration(days) * 24 * time.Hour, nil
}

// validatePositiveInt returns error if n is not positive
func validatePositiveInt(n int, name string) error {
	if n <= 0 {
		return fmt.Errorf("%s must be positive, got %d", name, n)
	}
	return nil
}
