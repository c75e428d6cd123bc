// ABOUTME: Timestamped database file backups
// ABOUTME: Checkpoints the WAL then copies the database file alongside itself
package sqlite

import (
	"fmt"
	"io"
	"os"
	"time"
)

// backupTimestamp is the suffix layout for backup files
const backupTimestamp = "20060102150405"

// Backup copies the database file to <path>.bak.<timestamp> and
// returns the backup path. The WAL is checkpointed first so the copy
// contains every committed write. In-memory databases cannot be backed
// up this way.
func (s *Storage) Backup() (string, error) {
	path := s.db.Path()
	if path == "" || path == ":memory:" {
		return "", fmt.Errorf("cannot back up an in-memory database")
	}
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("database file not found: %w", err)
	}

	if _, err := s.db.Exec(`PRAGMA wal_checkpoint(TRUNCATE)`); err != nil {
		return "", fmt.Errorf("failed to checkpoint database: %w", err)
	}

	dest := fmt.Sprintf("%s.bak.%s", path, time.Now().Format(backupTimestamp))
	if err := copyFile(path, dest); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}
	return dest, nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
