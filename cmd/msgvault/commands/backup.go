// ABOUTME: Backup command for the archive database
// ABOUTME: Writes a timestamped copy of the database file alongside it
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joho/godotenv"
)

// NewBackupCmd creates the backup command
func NewBackupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Back up the archive database",
		Long: `Back up the archive database.

Writes a copy next to the database file, named
<database>.bak.<timestamp>. Restore by copying a backup over the
database file while msgvault is not running.`,
		RunE: runBackup,
	}
}

func runBackup(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	store, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	path, err := store.Backup()
	if err != nil {
		return fmt.Errorf("backing up database: %w", err)
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Backup written to %s\n", path)
	}
	return nil
}
