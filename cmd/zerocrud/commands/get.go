package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newGetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a contact by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q: %w", args[0], err)
			}

			ctx := cmd.Context()
			repo, closer, err := newContactRepository(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = closer() }()

			contact, found, err := repo.Get(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to get contact: %w", err)
			}
			if !found {
				return fmt.Errorf("contact %d not found", id)
			}

			return printContact(contact)
		},
	}

	return cmd
}
