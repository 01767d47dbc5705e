package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCountCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "count",
		Short: "Count contacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			repo, closer, err := newContactRepository(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = closer() }()

			n, err := repo.Count(ctx)
			if err != nil {
				return fmt.Errorf("failed to count contacts: %w", err)
			}

			fmt.Println(n)
			return nil
		},
	}

	return cmd
}
