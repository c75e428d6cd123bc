// ABOUTME: Cleanup subcommands to prune old or unwanted messages
// ABOUTME: Deletes by age, by thread, or by session, keeping the index in sync
package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/joho/godotenv"
)

// NewCleanupCmd creates the cleanup command group
func NewCleanupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Prune messages from the archive",
		Long: `Prune messages from the archive.

Examples:
  msgvault cleanup age 30d
  msgvault cleanup thread deploy
  msgvault cleanup session sess-91c4`,
	}

	cmd.AddCommand(
		newCleanupAgeCmd(),
		newCleanupThreadCmd(),
		newCleanupSessionCmd(),
	)
	return cmd
}

func newCleanupAgeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "age <age>",
		Short: "Delete messages older than an age (e.g. 30d, 48h)",
		Args:  cobra.ExactArgs(1),
		RunE:  runCleanupAge,
	}
}

func runCleanupAge(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	age, err := parseAge(args[0])
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	n, err := store.DeleteMessagesOlderThan(time.Now().Add(-age))
	if err != nil {
		return fmt.Errorf("deleting messages: %w", err)
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d message(s) older than %s\n", n, args[0])
	}
	return nil
}

func newCleanupThreadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "thread <thread>",
		Short: "Delete all messages in a thread (the thread itself stays)",
		Args:  cobra.ExactArgs(1),
		RunE:  runCleanupThread,
	}
}

func runCleanupThread(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	store, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	threadID, err := resolveThreadRef(store, args[0])
	if err != nil {
		return err
	}
	n, err := store.DeleteMessagesByThread(threadID)
	if err != nil {
		return fmt.Errorf("deleting messages: %w", err)
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d message(s) from thread %s\n", n, truncate(threadID, 8))
	}
	return nil
}

func newCleanupSessionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "session <session-id>",
		Short: "Delete all messages tagged with a session id",
		Args:  cobra.ExactArgs(1),
		RunE:  runCleanupSession,
	}
}

func runCleanupSession(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	store, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	n, err := store.DeleteMessagesBySession(args[0])
	if err != nil {
		return fmt.Errorf("deleting messages: %w", err)
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d message(s) from session %s\n", n, args[0])
	}
	return nil
}
