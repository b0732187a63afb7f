package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Invalidate and clear the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if passphrase == "" {
				return fmt.Errorf("passphrase required (-p)")
			}
			_, ok, err := wire.Auth.Status(passphrase)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("No stored session.")
				return nil
			}
			if cfg.URL == "" {
				return fmt.Errorf("appliance url required (--url or config)")
			}
			if err := wire.Auth.Logout(cmd.Context(), passphrase); err != nil {
				return err
			}
			fmt.Println("Logged out.")
			return nil
		},
	}
}
