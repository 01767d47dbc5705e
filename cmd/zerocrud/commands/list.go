package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListCommand() *cobra.Command {
	var (
		skip  int
		limit int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List contacts",
		Long:  `List contacts in id order, with skip/limit pagination.`,
		Example: `  # List the first 100 contacts
  zerocrud list

  # Page through contacts
  zerocrud list --skip 100 --limit 100`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			repo, closer, err := newContactRepository(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = closer() }()

			contacts, err := repo.List(ctx, skip, limit)
			if err != nil {
				return fmt.Errorf("failed to list contacts: %w", err)
			}

			return printContacts(contacts)
		},
	}

	cmd.Flags().IntVar(&skip, "skip", 0, "number of contacts to skip")
	cmd.Flags().IntVar(&limit, "limit", 100, "maximum number of contacts to return")

	return cmd
}
