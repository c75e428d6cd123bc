// ABOUTME: Tests for timestamped database backups
// ABOUTME: Verifies the copy lands next to the database and is readable
package sqlite

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestBackupCreatesTimestampedCopy(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "vault.db")

	s, err := NewStorageWithPath(dbPath)
	if err != nil {
		t.Fatalf("failed to open storage: %v", err)
	}
	defer func() { _ = s.Close() }()

	thread := mustThread(t, s, "Backed up")
	mustMessage(t, s, thread.ID, "survives the backup")

	backupPath, err := s.Backup()
	if err != nil {
		t.Fatalf("Backup failed: %v", err)
	}
	if !strings.HasPrefix(backupPath, dbPath+".bak.") {
		t.Errorf("unexpected backup path %q", backupPath)
	}

	// the copy must be a working database with the data intact
	restored, err := NewStorageWithPath(backupPath)
	if err != nil {
		t.Fatalf("failed to open backup: %v", err)
	}
	defer func() { _ = restored.Close() }()

	msgs, err := restored.ListMessages(thread.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 1 || msgs[0].Content != "survives the backup" {
		t.Errorf("backup missing data: %v", msgs)
	}
}

func TestBackupInMemoryFails(t *testing.T) {
	s := newTestStorage(t)
	if _, err := s.Backup(); err == nil {
		t.Error("expected error backing up an in-memory database")
	}
}
