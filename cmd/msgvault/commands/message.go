// ABOUTME: Message subcommands: post, show, recent, update, delete
// ABOUTME: Posts accept text as an argument or from stdin
package commands

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/msgvault/internal/models"
	"github.com/joho/godotenv"
)

var (
	messageRole    string
	messageSender  string
	messageSession string
	messageParent  string
	recentLimit    int
	readLimit      int
)

// NewMessageCmd creates the message command group
func NewMessageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "message",
		Short: "Manage messages",
		Long: `Post and manage messages in the archive.

Examples:
  msgvault message post deploy "Rollout starts at 14:00"
  echo "piped note" | msgvault message post deploy
  msgvault message recent --limit 10
  msgvault message update 91c4 "Rollout moved to 15:00"
  msgvault message delete 91c4`,
	}

	cmd.AddCommand(
		newMessagePostCmd(),
		newMessageReadCmd(),
		newMessageShowCmd(),
		newMessageRecentCmd(),
		newMessageUpdateCmd(),
		newMessageDeleteCmd(),
	)
	return cmd
}

func newMessageReadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "read <thread>",
		Short: "Read a thread's messages in posting order",
		Args:  cobra.ExactArgs(1),
		RunE:  runMessageRead,
	}
	cmd.Flags().IntVar(&readLimit, "limit", 0, "Only show the last N messages")
	return cmd
}

func runMessageRead(cmd *cobra.Command, args []string) error {
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
	msgs, err := store.ListMessages(threadID)
	if err != nil {
		return fmt.Errorf("listing messages: %w", err)
	}
	if readLimit > 0 && len(msgs) > readLimit {
		msgs = msgs[len(msgs)-readLimit:]
	}

	if outputFormat == "json" {
		return printJSON(cmd, msgs)
	}

	out := cmd.OutOrStdout()
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

func newMessagePostCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post <thread> [content]",
		Short: "Post a message to a thread",
		Long: `Post a message to a thread. Content comes from the second
argument or, when omitted, from stdin.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runMessagePost,
	}
	cmd.Flags().StringVar(&messageRole, "role", "user", "Message role: user, assistant, system, tool")
	cmd.Flags().StringVar(&messageSender, "sender", "", "Sender label")
	cmd.Flags().StringVar(&messageSession, "session", "", "Session id to tag the message with")
	cmd.Flags().StringVar(&messageParent, "parent", "", "Parent message id (or prefix) for replies")
	return cmd
}

func runMessagePost(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	var content string
	if len(args) > 1 {
		content = args[1]
	} else {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		content = string(data)
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return fmt.Errorf("no content provided")
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	threadID, err := resolveThreadRef(store, args[0])
	if err != nil {
		return err
	}

	role, err := models.ParseRole(messageRole)
	if err != nil {
		return err
	}
	msg, err := models.NewMessage(threadID, role, content)
	if err != nil {
		return err
	}
	msg.Sender = messageSender
	msg.SessionID = messageSession
	msg.Source = "user"
	if messageParent != "" {
		parentID, err := store.ResolveMessageID(messageParent)
		if err != nil {
			return fmt.Errorf("resolving parent: %w", err)
		}
		msg.ParentID = parentID
	}

	if err := store.CreateMessage(msg); err != nil {
		return fmt.Errorf("posting message: %w", err)
	}

	if outputFormat == "json" {
		return printJSON(cmd, map[string]string{"id": msg.ID, "thread_id": threadID})
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Posted %s to thread %s\n", msg.ShortID(), truncate(threadID, 8))
	}
	return nil
}

func newMessageShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <message>",
		Short: "Show a single message",
		Args:  cobra.ExactArgs(1),
		RunE:  runMessageShow,
	}
}

func runMessageShow(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	store, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	id, err := store.ResolveMessageID(args[0])
	if err != nil {
		return err
	}
	msg, err := store.GetMessage(id)
	if err != nil {
		return err
	}

	if outputFormat == "json" {
		return printJSON(cmd, msg)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Message: %s\n", msg.ID)
	fmt.Fprintf(out, "Thread:  %s\n", msg.ThreadID)
	fmt.Fprintf(out, "Role:    %s\n", msg.Role)
	if msg.Sender != "" {
		fmt.Fprintf(out, "Sender:  %s\n", msg.Sender)
	}
	if msg.SessionID != "" {
		fmt.Fprintf(out, "Session: %s\n", msg.SessionID)
	}
	fmt.Fprintf(out, "Posted:  %s\n\n", formatAge(msg.CreatedAt))
	fmt.Fprintln(out, msg.Content)
	return nil
}

func newMessageRecentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List the newest messages across all threads",
		RunE:  runMessageRecent,
	}
	cmd.Flags().IntVar(&recentLimit, "limit", 20, "Maximum messages to show")
	return cmd
}

func runMessageRecent(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	if err := validatePositiveInt(recentLimit, "limit"); err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	msgs, err := store.ListRecentMessages(recentLimit)
	if err != nil {
		return fmt.Errorf("listing messages: %w", err)
	}
	if len(msgs) == 0 {
		if !quiet {
			fmt.Fprintln(cmd.OutOrStdout(), "No messages found")
		}
		return nil
	}

	if outputFormat == "json" {
		return printJSON(cmd, msgs)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tTHREAD\tROLE\tPOSTED\tCONTENT\n")
	for _, m := range msgs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			m.ShortID(), truncate(m.ThreadID, 8), m.Role, formatAge(m.CreatedAt), truncate(oneLine(m.Content), 60))
	}
	return w.Flush()
}

func newMessageUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update <message> <content>",
		Short: "Replace a message's content",
		Args:  cobra.ExactArgs(2),
		RunE:  runMessageUpdate,
	}
}

func runMessageUpdate(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	content := strings.TrimSpace(args[1])
	if content == "" {
		return fmt.Errorf("no content provided")
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	id, err := store.ResolveMessageID(args[0])
	if err != nil {
		return err
	}
	if err := store.UpdateMessageContent(id, content); err != nil {
		return err
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", truncate(id, 8))
	}
	return nil
}

func newMessageDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <message>",
		Short: "Delete a message",
		Args:  cobra.ExactArgs(1),
		RunE:  runMessageDelete,
	}
}

func runMessageDelete(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	store, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	id, err := store.ResolveMessageID(args[0])
	if err != nil {
		return err
	}
	if err := store.DeleteMessage(id); err != nil {
		return err
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", truncate(id, 8))
	}
	return nil
}
