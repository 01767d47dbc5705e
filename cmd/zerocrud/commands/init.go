package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the contact database",
		Long: `Create the SQLite database file and apply schema migrations.

Running init on an existing database is safe: migrations that already
ran are skipped.`,
		Example: `  # Initialize the default database
  zerocrud init

  # Initialize at a custom path
  zerocrud init --db /var/lib/zerocrud/contacts.db`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Info().Str("db", dbPath).Msg("Initializing database")

			if dir := filepath.Dir(dbPath); dir != "." {
				if err := os.MkdirAll(dir, 0700); err != nil {
					return fmt.Errorf("failed to create directory %s: %w", dir, err)
				}
			}

			db, err := openDatabase(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			if err := migrateDatabase(db); err != nil {
				return err
			}

			fmt.Printf("✓ Initialized database: %s\n", dbPath)
			return nil
		},
	}

	return cmd
}
