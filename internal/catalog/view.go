package catalog

import (
	"strings"

	"recipebook/internal/recipe"
)

// AllCategories is the sentinel category meaning "no category restriction".
const AllCategories = "All"

// baselineCategories are always offered, in this order, after the sentinel.
var baselineCategories = []string{"Seafood", "Vegetarian", "Dessert"}

// ComputeView returns the recipes of base matching category and query.
//
// A category other than AllCategories must equal a recipe's category
// exactly. A non-empty query must be a case-insensitive substring of the
// title. Surviving recipes keep their order in base. The result never
// aliases base.
func ComputeView(base []recipe.Recipe, query, category string) []recipe.Recipe {
	needle := strings.ToLower(query)
	view := make([]recipe.Recipe, 0, len(base))
	for _, r := range base {
		if category != AllCategories && r.Category != category {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(r.Title), needle) {
			continue
		}
		view = append(view, r)
	}
	return view
}

// DeriveCategories returns the category list for a collection: the
// sentinel, the baseline categories, then every other non-empty category
// in first-seen order, without duplicates.
func DeriveCategories(base []recipe.Recipe) []string {
	categories := make([]string, 0, 1+len(baselineCategories))
	seen := make(map[string]struct{})

	add := func(c string) {
		if c == "" {
			return
		}
		if _, ok := seen[c]; ok {
			return
		}
		seen[c] = struct{}{}
		categories = append(categories, c)
	}

	add(AllCategories)
	for _, c := range baselineCategories {
		add(c)
	}
	for _, r := range base {
		add(r.Category)
	}
	return categories
}
