// Package cli defines the cobra command tree for car-finder.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/evcraddock/car-finder/internal/backend"
	"github.com/evcraddock/car-finder/internal/client"
	"github.com/evcraddock/car-finder/internal/config"
	"github.com/evcraddock/car-finder/internal/logging"
)

var (
	flagFormat string
	flagDB     string
)

// NewRootCmd creates the root cobra command with global flags.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cf",
		Short:         "Browse and serve car rental listings",
		Long:          "A tool for the car rental marketplace. Search listings with filters, read reviews, and serve the JSON API the mobile app uses.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if flagFormat != "text" && flagFormat != "json" {
				return fmt.Errorf("invalid --format %q (text|json)", flagFormat)
			}
			logging.SetupCLI(cmd.ErrOrStderr())
			return nil
		},
	}

	root.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format (text|json)")
	root.PersistentFlags().StringVar(&flagDB, "db", "", "SQLite database path (default: ~/.config/cf/cars.db)")

	root.AddCommand(
		newSearchCmd(),
		newShowCmd(),
		newReviewsCmd(),
		newSeedCmd(),
		newThemeCmd(),
		newLangCmd(),
		newServerCmd(),
		newServeCmd(),
		newVersionCmd(),
	)

	return root
}

// loadServerConfig reads the server configuration from .env and the environment,
// with --db taking precedence over CF_DB_PATH.
func loadServerConfig() (config.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		return config.Config{}, err
	}
	cfg := config.FromEnv()
	if flagDB != "" {
		cfg.DBPath = flagDB
	}
	return cfg, nil
}

// openBackend opens the configured stores for commands that work locally.
func openBackend(ctx context.Context) (*backend.Backend, error) {
	cfg, err := loadServerConfig()
	if err != nil {
		return nil, err
	}
	return backend.Open(ctx, cfg)
}

// closeBackend closes the stores, logging any error to stderr.
func closeBackend(b *backend.Backend) {
	if err := b.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: closing backend: %v\n", err)
	}
}

// newAPIClient creates an HTTP client for the car-finder API.
func newAPIClient() *client.Client {
	return client.New(getServerURL(), os.Getenv("CF_LANG"))
}

// isJSON returns true if the --format flag is set to json.
func isJSON() bool {
	return flagFormat == "json"
}
