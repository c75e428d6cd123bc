// ABOUTME: Root CLI command with global flags and subcommand registration
// ABOUTME: Wires every msgvault subcommand under one Cobra tree
package commands

import (
	"github.com/spf13/cobra"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
)

const banner = `
███╗   ███╗███████╗ ██████╗ ██╗   ██╗ █████╗ ██╗   ██╗██╗  ████████╗
████╗ ████║██╔════╝██╔════╝ ██║   ██║██╔══██╗██║   ██║██║  ╚══██╔══╝
██╔████╔██║███████╗██║  ███╗██║   ██║███████║██║   ██║██║     ██║
██║╚██╔╝██║╚════██║██║   ██║╚██╗ ██╔╝██╔══██║██║   ██║██║     ██║
██║ ╚═╝ ██║███████║╚██████╔╝ ╚████╔╝ ██║  ██║╚██████╔╝███████╗██║
╚═╝     ╚═╝╚══════╝ ╚═════╝   ╚═══╝  ╚═╝  ╚═╝ ╚═════╝ ╚══════╝╚═╝
`

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "msgvault",
		Short: "Threaded message archive with full-text search",
		Long: banner + `
msgvault archives threaded conversations in a local SQLite database
and makes them searchable. Messages are grouped into threads, indexed
for partial-word full-text search, and available to both humans (CLI)
and agents (MCP server, hook ingestion).`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format: auto, table, json")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(
		NewThreadCmd(),
		NewMessageCmd(),
		NewSearchCmd(),
		NewCleanupCmd(),
		NewBackupCmd(),
		NewHookCmd(),
		NewMCPCmd(),
		NewVersionCmd(),
	)

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
