package commands

import (
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newRmCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a contact by id",
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

			found, err := repo.Delete(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to delete contact: %w", err)
			}
			if !found {
				return fmt.Errorf("contact %d not found", id)
			}

			log.Info().Int64("id", id).Msg("Contact deleted")
			fmt.Printf("✓ Deleted contact %d\n", id)
			return nil
		},
	}

	return cmd
}
