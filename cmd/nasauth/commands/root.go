package commands

import (
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"nasauth/internal/app"
)

var (
	home       string
	configPath string
	passphrase string
	verbose    bool

	applianceURL string
	account      string
	insecureTLS  bool

	cfg  app.Config
	wire *app.Wire
)

func Execute() error {
	root := &cobra.Command{
		Use:          "nasauth",
		Short:        "Authenticate against a NAS appliance",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if home == "" {
				dir, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				home = filepath.Join(dir, ".nasauth")
			}
			if err := os.MkdirAll(home, 0o700); err != nil {
				return err
			}

			if configPath == "" {
				configPath = filepath.Join(home, app.DefaultConfigName)
			}

			var err error
			cfg, err = app.Load(configPath)
			if err != nil {
				return err
			}
			cfg.Home = home
			if applianceURL != "" {
				cfg.URL = applianceURL
			}
			if account != "" {
				cfg.Account = account
			}
			if insecureTLS {
				cfg.InsecureTLS = true
			}

			log := logrus.New()
			if verbose {
				log.SetLevel(logrus.DebugLevel)
			}

			wire, err = app.NewWire(cfg, log)
			return err
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "config dir (default ~/.nasauth)")
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default <home>/config.yaml)")
	root.PersistentFlags().StringVarP(&passphrase, "passphrase", "p", "", "passphrase protecting the stored session")
	root.PersistentFlags().StringVar(&applianceURL, "url", "", "appliance base URL (e.g. https://nas.local:5001)")
	root.PersistentFlags().StringVarP(&account, "account", "a", "", "account name")
	root.PersistentFlags().BoolVar(&insecureTLS, "insecure", false, "skip TLS certificate verification")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log API requests")

	root.AddCommand(loginCmd(), logoutCmd(), infoCmd(), statusCmd())
	return root.Execute()
}
