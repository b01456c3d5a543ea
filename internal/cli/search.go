package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/evcraddock/car-finder/internal/client"
)

func newSearchCmd() *cobra.Command {
	var (
		minPrice float64
		maxPrice float64
		carType  string
		tags     []string
	)

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search car listings",
		Long: `Search car listings by name and filter them.

Without a query the most recent listings are returned. With a query the
backend runs a fuzzy name match, so small typos still find the car.

Examples:
  cf search
  cf search corolla --max-price 60
  cf search --type SUV --tag GPS --tag "Heated Seats"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := client.SearchOptions{
				Query: strings.Join(args, " "),
				Type:  carType,
				Tags:  tags,
			}
			if cmd.Flags().Changed("min-price") {
				opts.MinPrice = &minPrice
			}
			if cmd.Flags().Changed("max-price") {
				opts.MaxPrice = &maxPrice
			}
			return runSearch(cmd, opts)
		},
	}

	cmd.Flags().Float64Var(&minPrice, "min-price", 0, "minimum daily price")
	cmd.Flags().Float64Var(&maxPrice, "max-price", 500, "maximum daily price")
	cmd.Flags().StringVar(&carType, "type", "", "car type (Sedan, SUV, Truck, 4x4)")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "required feature, repeatable (GPS, A/C, ...)")

	return cmd
}

func runSearch(cmd *cobra.Command, opts client.SearchOptions) error {
	resp, err := newAPIClient().Search(cmd.Context(), opts)
	if err != nil {
		var apiErr *client.Error
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			return errors.New(apiErr.Message)
		}
		return fmt.Errorf("searching: %w", err)
	}

	out := cmd.OutOrStdout()
	if isJSON() {
		return printJSON(out, resp)
	}
	if !resp.Filter.IsDefault() {
		fmt.Fprintf(out, "Filter: %s\n\n", describeFilter(resp.Filter))
	}
	return printListingTable(out, resp.Listings)
}
