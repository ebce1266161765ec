package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"recipebook/internal/catalog"
)

// NewSearchCommand creates the search command.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	var query, category string

	cmd := &cobra.Command{
		Use:   "search",
		Short: "List recipes matching a title query and category",
		Long: `List recipes whose title contains the query (case-insensitive) and
whose category matches exactly. The category "All" matches every recipe.`,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(rootOpts, query, category, cmd)
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "title substring to match")
	cmd.Flags().StringVarP(&category, "category", "c", catalog.AllCategories, "category to match")

	return cmd
}

func runSearch(opts *RootOptions, query, category string, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)

	store, err := openStore(opts, f)
	if err != nil {
		return err
	}
	defer store.Close()

	filter := catalog.NewFilter()
	defer filter.Close()

	if err := catalog.Reload(cmd.Context(), filter, store); err != nil {
		return f.Fail(ExitCommandError, ErrCodeDatabase, "failed to search", err)
	}
	filter.SetQuery(query)
	filter.SetCategory(category)
	filter.Flush()

	snap := filter.Snapshot()
	return f.Success(snap, func(w io.Writer) {
		fmt.Fprintf(w, "%d recipes (category %s", snap.Count, snap.Category)
		if snap.Query != "" {
			fmt.Fprintf(w, ", query %q", snap.Query)
		}
		fmt.Fprintln(w, ")")
		for _, r := range snap.Recipes {
			if r.Category != "" {
				fmt.Fprintf(w, "  #%d %s [%s]\n", r.ID, r.Title, r.Category)
			} else {
				fmt.Fprintf(w, "  #%d %s\n", r.ID, r.Title)
			}
		}
	})
}
