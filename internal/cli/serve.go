package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/evcraddock/car-finder/internal/backend"
	"github.com/evcraddock/car-finder/internal/logging"
	"github.com/evcraddock/car-finder/internal/web"
)

func newServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the JSON HTTP API for the mobile app. The backend is chosen by CF_BACKEND (sqlite, postgres or supabase).",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "port to listen on (default: CF_PORT or 8080)")

	return cmd
}

func runServe(cmd *cobra.Command, port int) error {
	cfg, err := loadServerConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = port
	}

	logging.Setup(cfg.DevMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := backend.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeBackend(b)

	srv := web.NewServer(web.Stores{
		Listings: b.Listings,
		Reviews:  b.Reviews,
		Settings: b.Settings,
	}, cfg.CORSOrigins)

	return srv.ListenAndServe(ctx, cfg.Port)
}
