package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newReviewsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reviews <id>",
		Short: "List the reviews of a car",
		Long:  "List a car's reviews, newest first, with the average rating and star breakdown. Reviews written by the car's host are not shown.",
		Args:  cobra.ExactArgs(1),
		RunE:  runReviews,
	}
}

func runReviews(cmd *cobra.Command, args []string) error {
	res, err := newAPIClient().ListReviews(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("fetching reviews: %w", err)
	}

	out := cmd.OutOrStdout()
	if isJSON() {
		return printJSON(out, res)
	}

	printSummary(out, res.Summary)
	printReviewList(out, res.Reviews)
	return nil
}
