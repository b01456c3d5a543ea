package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "server [url]",
		Short: "Show or set the API server URL",
		Long:  "Without arguments, print the API server the search, show and reviews commands talk to. With a URL, save it to ~/.config/cf/config.yaml.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runServer,
	}
}

func runServer(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if len(args) == 0 {
		u, source := serverURL()
		if isJSON() {
			return printJSON(out, map[string]string{"server_url": u, "source": source})
		}
		_, err := fmt.Fprintf(out, "%s (%s)\n", u, source)
		return err
	}

	u, err := normalizeServerURL(args[0])
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.ServerURL = u
	if err := saveConfig(cfg); err != nil {
		return err
	}

	_, err = fmt.Fprintf(out, "Server set to %s\n", u)
	return err
}
