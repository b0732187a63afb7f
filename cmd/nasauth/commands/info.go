package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"nasauth/internal/b64url"
	"nasauth/internal/crypto"
)

// infoCmd queries the discovery document so users can see which login
// mechanism their firmware will get before authenticating. On secure
// firmware it also fetches a challenge and prints the appliance's
// handshake key, which is the value to pin in the config.
func infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show appliance firmware and login capabilities",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.URL == "" {
				return fmt.Errorf("appliance url required (--url or config)")
			}
			info, err := wire.Client.Info(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("API version:  %d\n", info.APIVersion)
			fmt.Printf("Firmware:     %s\n", info.Firmware)
			if !info.SecureLogin {
				fmt.Println("Secure login: no (RSA password encryption)")
				return nil
			}
			fmt.Println("Secure login: yes")

			challenge, err := wire.Client.BeginSecureLogin(cmd.Context())
			if err != nil {
				return err
			}
			key, err := b64url.Decode(challenge.Cookie)
			if err != nil {
				return fmt.Errorf("challenge cookie: %w", err)
			}
			if len(key) != crypto.KeySize {
				return fmt.Errorf("challenge cookie: %w", crypto.ErrInvalidKey)
			}
			fmt.Printf("Server key:   %s (%s)\n", challenge.Cookie, crypto.Fingerprint(key))
			return nil
		},
	}
}
