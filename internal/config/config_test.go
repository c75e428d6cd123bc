// ABOUTME: Tests for configuration loading and validation
// ABOUTME: Verifies env overrides, defaults, and rejection of bad values
package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DataDir == "" {
		t.Error("expected a default data dir")
	}
	if cfg.DBName != "msgvault.db" {
		t.Errorf("expected default db name, got %q", cfg.DBName)
	}
	if cfg.SearchLimit != 50 {
		t.Errorf("expected default search limit 50, got %d", cfg.SearchLimit)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("MSGVAULT_DATA_DIR", "/tmp/vault-test")
	t.Setenv("MSGVAULT_DB_NAME", "other.db")
	t.Setenv("MSGVAULT_SEARCH_LIMIT", "10")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DataDir != "/tmp/vault-test" {
		t.Errorf("expected data dir override, got %q", cfg.DataDir)
	}
	if cfg.SearchLimit != 10 {
		t.Errorf("expected search limit 10, got %d", cfg.SearchLimit)
	}
	if got := cfg.DBPath(); got != filepath.Join("/tmp/vault-test", "other.db") {
		t.Errorf("unexpected db path %q", got)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		want  string
	}{
		{"search limit too high", "MSGVAULT_SEARCH_LIMIT", "5000", "MSGVAULT_SEARCH_LIMIT"},
		{"search limit zero", "MSGVAULT_SEARCH_LIMIT", "0", "MSGVAULT_SEARCH_LIMIT"},
		{"negative retention", "MSGVAULT_RETENTION_DAYS", "-1", "MSGVAULT_RETENTION_DAYS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %s", err, tt.want)
			}
		})
	}
}

func TestLoadIgnoresUnparsableInts(t *testing.T) {
	t.Setenv("MSGVAULT_SEARCH_LIMIT", "not-a-number")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.SearchLimit != 50 {
		t.Errorf("expected fallback to default, got %d", cfg.SearchLimit)
	}
}
