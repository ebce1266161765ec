package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"recipebook/internal/catalog"
)

// NewCategoriesCommand creates the categories command.
func NewCategoriesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "categories",
		Short:         "List the category choices",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCategories(rootOpts, cmd)
		},
	}
}

func runCategories(opts *RootOptions, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)

	store, err := openStore(opts, f)
	if err != nil {
		return err
	}
	defer store.Close()

	recipes, err := store.FetchAll(cmd.Context())
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeDatabase, "failed to list categories", err)
	}

	categories := catalog.DeriveCategories(recipes)
	return f.Success(categories, func(w io.Writer) {
		for _, c := range categories {
			fmt.Fprintln(w, c)
		}
	})
}
