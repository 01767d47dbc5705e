package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	dbPath      string
	storageName string
	jsonOutput  bool
)

// Execute runs the root command
func Execute(ctx context.Context, version, commit, buildDate string) error {
	rootCmd := newRootCommand(version, commit, buildDate)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "zerocrud",
		Short: "zerocrud - generic CRUD repositories over SQL or memory",
		Long: `zerocrud manages typed records through a generic repository that works
against either an in-process memory store or a SQL database.

This CLI drives the library against a demo contact book:
  - SQLite-backed by default, with schema migrations
  - --storage memory runs the same operations without persistence
  - records load from YAML or individual flags`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
	}

	// Persistent flags available to all commands
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "./zerocrud.db", "SQLite database path")
	rootCmd.PersistentFlags().StringVar(&storageName, "storage", "", "storage backend (memory or database)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")

	// Add subcommands
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newAddCommand())
	rootCmd.AddCommand(newGetCommand())
	rootCmd.AddCommand(newListCommand())
	rootCmd.AddCommand(newRmCommand())
	rootCmd.AddCommand(newCountCommand())
	rootCmd.AddCommand(newLoadCommand())

	return rootCmd
}
