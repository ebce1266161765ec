package catalog

import (
	"context"
	"fmt"

	"recipebook/internal/recipe"
)

// Loader fetches the full recipe collection ordered by ascending id.
type Loader interface {
	FetchAll(ctx context.Context) ([]recipe.Recipe, error)
}

// Reload fetches from loader and loads the result into f. On error f is
// left untouched.
func Reload(ctx context.Context, f *Filter, loader Loader) error {
	recipes, err := loader.FetchAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load recipes: %w", err)
	}
	f.Load(recipes)
	return nil
}
