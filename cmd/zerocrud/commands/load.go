package commands

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/zerocrud/zerocrud/pkg/entity"
	"gopkg.in/yaml.v3"
)

func newLoadCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load <file>",
		Short: "Load contacts from a YAML file",
		Long: `Create one contact per document entry in a YAML file.

The file holds a list of field mappings:

  - name: Alice
    email: alice@example.com
  - name: Bob
    phone: "555-0100"

Entries are validated individually; the first invalid entry stops the
load after the preceding entries were created.`,
		Example: `  # Seed the database
  zerocrud load contacts.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			var entries []map[string]any
			if err := yaml.Unmarshal(raw, &entries); err != nil {
				return fmt.Errorf("failed to parse %s: %w", args[0], err)
			}

			ctx := cmd.Context()
			repo, closer, err := newContactRepository(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = closer() }()

			for i, entry := range entries {
				contact, err := repo.Create(ctx, entity.Fields(entry))
				if err != nil {
					return fmt.Errorf("entry %d: %w", i, err)
				}
				log.Debug().Int64("id", contact.ID).Str("name", contact.Name).Msg("Contact loaded")
			}

			fmt.Printf("✓ Loaded %d contacts from %s\n", len(entries), args[0])
			return nil
		},
	}

	return cmd
}
