package commands

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/zerocrud/zerocrud/pkg/entity"
)

func newAddCommand() *cobra.Command {
	var (
		name  string
		email string
		phone string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a contact",
		Long:  `Create a new contact record. The id is assigned by the backend.`,
		Example: `  # Add a contact
  zerocrud add --name "Alice" --email alice@example.com

  # Add without persistence
  zerocrud add --storage memory --name "Alice"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			repo, closer, err := newContactRepository(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = closer() }()

			contact, err := repo.Create(ctx, entity.Fields{
				"name":  name,
				"email": email,
				"phone": phone,
			})
			if err != nil {
				return fmt.Errorf("failed to create contact: %w", err)
			}

			log.Info().Int64("id", contact.ID).Str("name", contact.Name).Msg("Contact created")
			return printContact(contact)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "contact name")
	cmd.Flags().StringVar(&email, "email", "", "contact email address")
	cmd.Flags().StringVar(&phone, "phone", "", "contact phone number")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}
