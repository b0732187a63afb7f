package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"nasauth/internal/domain"
	"nasauth/internal/util/memzero"
)

func loginCmd() *cobra.Command {
	var (
		password string
		deviceID string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and store the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if passphrase == "" {
				return fmt.Errorf("passphrase required (-p)")
			}
			if cfg.Account == "" {
				return fmt.Errorf("account required (-a or config)")
			}
			if cfg.URL == "" {
				return fmt.Errorf("appliance url required (--url or config)")
			}
			if password == "" {
				fmt.Fprintf(os.Stderr, "Password for %s: ", cfg.Account)
				raw, err := term.ReadPassword(int(os.Stdin.Fd()))
				fmt.Fprintln(os.Stderr)
				if err != nil {
					return fmt.Errorf("read password: %w", err)
				}
				password = string(raw)
				memzero.Zero(raw)
			}

			session, err := wire.Auth.Login(cmd.Context(), passphrase, domain.Credentials{
				Account:  cfg.Account,
				Password: password,
				DeviceID: deviceID,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Logged in to %s as %s (%s mechanism).\n", session.URL, session.Account, session.Mechanism)
			return nil
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when omitted)")
	cmd.Flags().StringVar(&deviceID, "device-id", "", "device identifier sent at login (default random)")
	return cmd
}
