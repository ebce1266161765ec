package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"recipebook/internal/recipe"
)

// SeedResult is the outcome of a seed run.
type SeedResult struct {
	File  string  `json:"file"`
	Saved int     `json:"saved"`
	IDs   []int64 `json:"ids"`
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load recipes from a YAML or JSON file into the database",
		Long: `Load recipes from a YAML or JSON file into the database.

Recipes with an id replace the stored recipe with that id; recipes
without one are inserted and receive a new id.`,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(rootOpts, file, cmd)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "recipes.yaml", "seed file (.yaml, .yml or .json)")

	return cmd
}

func runSeed(opts *RootOptions, file string, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)

	recipes, err := recipe.LoadSeedFile(file)
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeSeed, "invalid seed file", err)
	}

	store, err := openStore(opts, f)
	if err != nil {
		return err
	}
	defer store.Close()

	saved, err := recipe.Seed(cmd.Context(), store, recipes)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeDatabase, fmt.Sprintf("seeding stopped after %d recipes", saved), err)
	}

	result := SeedResult{File: file, Saved: saved, IDs: make([]int64, 0, len(recipes))}
	for _, r := range recipes {
		result.IDs = append(result.IDs, r.ID)
	}

	return f.Success(result, func(w io.Writer) {
		fmt.Fprintf(w, "✓ Seeded %d recipes from %s\n", saved, file)
	})
}
