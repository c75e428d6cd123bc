// ABOUTME: CLI command to search message content
// ABOUTME: Full-text search with partial-word matching, best matches first
package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/msgvault/internal/storage"
	"github.com/joho/godotenv"
)

var (
	searchLimit  int
	searchThread string
)

// NewSearchCmd creates the search command
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search messages",
		Long: `Search message content across the archive.

Matching is substring-aware: "deploy" finds "deployment". Results
come back best match first.

Examples:
  msgvault search "rollout plan"
  msgvault search --thread deploy "postgres"
  msgvault search --limit 10 --format json "timeout"`,
		Args: cobra.ExactArgs(1),
		RunE: runSearch,
	}

	cmd.Flags().IntVar(&searchLimit, "limit", 20, "Maximum results to return")
	cmd.Flags().StringVar(&searchThread, "thread", "", "Restrict search to one thread")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	if err := validatePositiveInt(searchLimit, "limit"); err != nil {
		return err
	}

	query := args[0]

	store, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	opts := storage.SearchOptions{Limit: searchLimit}
	if searchThread != "" {
		threadID, err := resolveThreadRef(store, searchThread)
		if err != nil {
			return err
		}
		opts.ThreadID = threadID
	}

	results, err := store.SearchMessages(query, opts)
	if err != nil {
		return fmt.Errorf("searching messages: %w", err)
	}

	if len(results) == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No messages found for query: %s\n", query)
		}
		return nil
	}

	if outputFormat == "json" {
		return printJSON(cmd, results)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tTHREAD\tROLE\tPOSTED\tCONTENT\n")
	for _, m := range results {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			m.ShortID(), truncate(m.ThreadID, 8), m.Role, formatAge(m.CreatedAt), truncate(oneLine(m.Content), 60))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\nFound %d result(s)\n", len(results))
	}
	return nil
}
