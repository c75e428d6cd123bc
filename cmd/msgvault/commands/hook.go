// ABOUTME: Hook command ingesting agent lifecycle events from stdin
// ABOUTME: Designed to be wired into an agent's hook configuration
package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/harper/msgvault/internal/core"
	"github.com/joho/godotenv"
)

var hookThread string

// NewHookCmd creates the hook command group
func NewHookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hook",
		Short: "Ingest agent hook events",
		Long: `Ingest agent hook events from stdin JSON.

Each event becomes a message in the thread named after the event's
session, created on first use. Wire this into the agent's hook
configuration so sessions archive themselves:

  msgvault hook ingest < event.json`,
	}

	cmd.AddCommand(newHookIngestCmd())
	return cmd
}

func newHookIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Read one hook event from stdin and archive it",
		RunE:  runHookIngest,
	}
	cmd.Flags().StringVar(&hookThread, "thread", "", "Archive into this thread instead of the session's")
	return cmd
}

func runHookIngest(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	input, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	ingestor := core.NewIngestor(store)
	result, err := ingestor.IngestEvent(hookThread, input)
	if err != nil {
		return fmt.Errorf("ingesting event: %w", err)
	}

	if result.ThreadClosed {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: thread %s is closed\n", truncate(result.ThreadID, 8))
	}
	if verbose {
		fmt.Fprintf(cmd.OutOrStdout(), "Stored %d message(s)\n", result.Stored)
	}
	return nil
}
