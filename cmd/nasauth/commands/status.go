package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the stored session, if any",
		RunE: func(cmd *cobra.Command, args []string) error {
			if passphrase == "" {
				return fmt.Errorf("passphrase required (-p)")
			}
			session, ok, err := wire.Auth.Status(passphrase)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("No stored session.")
				return nil
			}
			fmt.Printf("Account:    %s\n", session.Account)
			fmt.Printf("Appliance:  %s\n", session.URL)
			fmt.Printf("Mechanism:  %s\n", session.Mechanism)
			fmt.Printf("Created:    %s\n", session.CreatedAt.Format(time.RFC3339))
			return nil
		},
	}
}
