package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evcraddock/car-finder/internal/seed"
)

func newSeedCmd() *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "seed <file.yaml>",
		Short: "Load users, cars and reviews from a YAML file",
		Long: `Write the users, cars and reviews in a YAML seed file to the configured
backend. The supabase backend is read-only and cannot be seeded.

With --reset, cars and reviews from the file that have an id are removed
first, so the same file can be loaded again.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, args[0], reset)
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", false, "remove the file's cars and reviews before seeding")

	return cmd
}

// seedOutput is the JSON form of a seed run.
type seedOutput struct {
	Removed *seed.Result `json:"removed,omitempty"`
	Seeded  seed.Result  `json:"seeded"`
}

func runSeed(cmd *cobra.Command, path string, reset bool) error {
	f, err := seed.LoadFile(path)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	b, err := openBackend(ctx)
	if err != nil {
		return err
	}
	defer closeBackend(b)

	w, err := b.Writer()
	if err != nil {
		return err
	}

	var result seedOutput
	if reset {
		removed, err := seed.Reset(ctx, w, f)
		if err != nil {
			return err
		}
		result.Removed = &removed
	}

	res, err := seed.Apply(ctx, w, f)
	if err != nil {
		return err
	}
	result.Seeded = res

	out := cmd.OutOrStdout()
	if isJSON() {
		return printJSON(out, result)
	}
	if result.Removed != nil {
		fmt.Fprintf(out, "Removed %d cars, %d reviews.\n", result.Removed.Cars, result.Removed.Reviews)
	}
	_, err = fmt.Fprintf(out, "Seeded %d users, %d cars, %d reviews into %s.\n",
		res.Users, res.Cars, res.Reviews, b.Name)
	return err
}
