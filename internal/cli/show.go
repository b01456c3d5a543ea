package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show car details with reviews",
		Args:  cobra.ExactArgs(1),
		RunE:  runShow,
	}
}

func runShow(cmd *cobra.Command, args []string) error {
	resp, err := newAPIClient().GetCar(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("fetching car: %w", err)
	}

	out := cmd.OutOrStdout()
	if isJSON() {
		return printJSON(out, resp)
	}

	printCarSummary(out, resp.Car)
	fmt.Fprintln(out)
	if resp.Error != "" {
		fmt.Fprintf(out, "Reviews unavailable: %s\n", resp.Error)
		return nil
	}
	printSummary(out, resp.Summary)
	printReviewList(out, resp.Reviews)
	return nil
}
