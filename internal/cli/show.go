package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"recipebook/internal/recipe"
)

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show <id>",
		Short:         "Show a recipe with its steps",
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(rootOpts, args[0], cmd)
		},
	}
}

func runShow(opts *RootOptions, arg string, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)

	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return f.Fail(ExitCommandError, ErrCodeArgs, fmt.Sprintf("invalid recipe id %q", arg), nil)
	}

	store, err := openStore(opts, f)
	if err != nil {
		return err
	}
	defer store.Close()

	r, err := store.FetchByID(cmd.Context(), id)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeDatabase, "failed to fetch recipe", err)
	}
	if r == nil {
		return f.Fail(ExitFailure, ErrCodeNotFound, fmt.Sprintf("recipe %d not found", id), nil)
	}

	detail := recipe.NewDetail(*r)
	return f.Success(detail, func(w io.Writer) { printDetail(w, detail) })
}

func printDetail(w io.Writer, d recipe.Detail) {
	fmt.Fprintf(w, "%s (#%d)\n", d.Title, d.ID)

	if d.HasInfo {
		var info []string
		for _, kv := range [][2]string{{"Category", d.Category}, {"Time", d.CookingTime}, {"Difficulty", d.Difficulty}} {
			if kv[1] != "" {
				info = append(info, kv[0]+": "+kv[1])
			}
		}
		fmt.Fprintln(w, strings.Join(info, " | "))
	}

	if d.Ingredients != "" {
		fmt.Fprintln(w, "\nIngredients:")
		for _, line := range strings.Split(d.Ingredients, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				fmt.Fprintf(w, "  - %s\n", line)
			}
		}
	}

	if len(d.Steps) > 0 {
		fmt.Fprintln(w, "\nInstructions:")
		for i, step := range d.Steps {
			fmt.Fprintf(w, "  %d. %s\n", i+1, step)
		}
	}

	if d.Video != nil {
		fmt.Fprintf(w, "\nVideo (%s): %s\n", d.Video.Kind, d.Video.URL)
	}
}
