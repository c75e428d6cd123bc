// ABOUTME: Thread subcommands: create, list, show, close, reopen, delete
// ABOUTME: Threads group messages; names give them stable human handles
package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/msgvault/internal/models"
	"github.com/joho/godotenv"
)

var (
	threadName      string
	threadSourceURL string
	threadStatus    string
)

// NewThreadCmd creates the thread command group
func NewThreadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "thread",
		Short: "Manage threads",
		Long: `Manage conversation threads.

Examples:
  msgvault thread create "Deployment planning" --name deploy
  msgvault thread list --status open
  msgvault thread show deploy
  msgvault thread close deploy
  msgvault thread delete 3f2a91`,
	}

	cmd.AddCommand(
		newThreadCreateCmd(),
		newThreadListCmd(),
		newThreadShowCmd(),
		newThreadCloseCmd(),
		newThreadReopenCmd(),
		newThreadDeleteCmd(),
	)
	return cmd
}

func newThreadCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <title>",
		Short: "Create a new thread",
		Args:  cobra.ExactArgs(1),
		RunE:  runThreadCreate,
	}
	cmd.Flags().StringVar(&threadName, "name", "", "Unique short name for the thread")
	cmd.Flags().StringVar(&threadSourceURL, "source-url", "", "URL the thread was imported from")
	return cmd
}

func runThreadCreate(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	store, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	thread, err := models.NewThread(args[0])
	if err != nil {
		return err
	}
	thread.Name = threadName
	thread.SourceURL = threadSourceURL

	if err := store.CreateThread(thread); err != nil {
		return fmt.Errorf("creating thread: %w", err)
	}

	if outputFormat == "json" {
		return printJSON(cmd, map[string]string{"id": thread.ID, "title": thread.Title})
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Created thread %s\n", thread.ShortID())
	}
	return nil
}

func newThreadListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List threads",
		RunE:  runThreadList,
	}
	cmd.Flags().StringVar(&threadStatus, "status", "", "Filter by status: open or closed")
	return cmd
}

func runThreadList(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	store, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	var threads []models.Thread
	if threadStatus != "" {
		status, err := models.ParseThreadStatus(threadStatus)
		if err != nil {
			return err
		}
		threads, err = store.ListThreadsByStatus(status)
		if err != nil {
			return fmt.Errorf("listing threads: %w", err)
		}
	} else {
		threads, err = store.ListThreads()
		if err != nil {
			return fmt.Errorf("listing threads: %w", err)
		}
	}

	if len(threads) == 0 {
		if !quiet {
			fmt.Fprintln(cmd.OutOrStdout(), "No threads found")
		}
		return nil
	}

	if outputFormat == "json" {
		return printJSON(cmd, threads)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tNAME\tSTATUS\tUPDATED\tTITLE\n")
	for _, t := range threads {
		name := t.Name
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			t.ShortID(), truncate(name, 16), t.Status, formatAge(t.UpdatedAt), truncate(t.Title, 50))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d thread(s)\n", len(threads))
	}
	return nil
}

func newThreadShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <thread>",
		Short: "Show a thread and its messages",
		Args:  cobra.ExactArgs(1),
		RunE:  runThreadShow,
	}
}

func runThreadShow(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	store, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	id, err := resolveThreadRef(store, args[0])
	if err != nil {
		return err
	}
	thread, err := store.GetThread(id)
	if err != nil {
		return err
	}
	msgs, err := store.ListMessages(id)
	if err != nil {
		return fmt.Errorf("listing messages: %w", err)
	}

	if outputFormat == "json" {
		return printJSON(cmd, map[string]interface{}{
			"thread":   thread,
			"messages": msgs,
		})
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Thread:  %s\n", thread.ID)
	if thread.Name != "" {
		fmt.Fprintf(out, "Name:    %s\n", thread.Name)
	}
	fmt.Fprintf(out, "Title:   %s\n", thread.Title)
	fmt.Fprintf(out, "Status:  %s\n", thread.Status)
	fmt.Fprintf(out, "Updated: %s\n\n", formatAge(thread.UpdatedAt))

	for _, m := range msgs {
		label := string(m.Role)
		if m.Sender != "" {
			label = fmt.Sprintf("%s (%s)", m.Role, m.Sender)
		}
		fmt.Fprintf(out, "[%s] %s  %s\n", m.ShortID(), label, formatAge(m.CreatedAt))
		fmt.Fprintf(out, "%s\n\n", m.Content)
	}
	if !quiet {
		fmt.Fprintf(out, "%d message(s)\n", len(msgs))
	}
	return nil
}

func newThreadCloseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "close <thread>",
		Short: "Close a thread",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runThreadStatus(cmd, args[0], models.ThreadStatusClosed)
		},
	}
}

func newThreadReopenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reopen <thread>",
		Short: "Reopen a closed thread",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runThreadStatus(cmd, args[0], models.ThreadStatusOpen)
		},
	}
}

func runThreadStatus(cmd *cobra.Command, ref string, status models.ThreadStatus) error {
	_ = godotenv.Load()

	store, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	id, err := resolveThreadRef(store, ref)
	if err != nil {
		return err
	}
	if err := store.UpdateThreadStatus(id, status); err != nil {
		return err
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Thread %s is now %s\n", truncate(id, 8), status)
	}
	return nil
}

func newThreadDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <thread>",
		Short: "Delete a thread and all its messages",
		Args:  cobra.ExactArgs(1),
		RunE:  runThreadDelete,
	}
}

func runThreadDelete(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	store, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	id, err := resolveThreadRef(store, args[0])
	if err != nil {
		return err
	}
	if err := store.DeleteThread(id); err != nil {
		return err
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted thread %s\n", truncate(id, 8))
	}
	return nil
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\n", data)
	return nil
}
