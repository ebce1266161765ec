// Package profile serves the static profile screen data.
package profile

// User is the profile owner.
type User struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	JoinDate        string `json:"join_date"`
	FavoriteCuisine string `json:"favorite_cuisine"`
	Bio             string `json:"bio"`
	Avatar          string `json:"avatar"`
}

// RecipeCard is a recipe tile on the profile screen.
type RecipeCard struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// Profile is everything the profile screen renders.
type Profile struct {
	User         User         `json:"user"`
	MyRecipes    []RecipeCard `json:"my_recipes"`
	SavedRecipes []RecipeCard `json:"saved_recipes"`
}

// Mock returns the demo profile. Each call returns a fresh value.
func Mock() Profile {
	return Profile{
		User: User{
			Name:            "Mary Smith",
			Email:           "marysmith@example.com",
			JoinDate:        "Jan 2020",
			FavoriteCuisine: "Italian",
			Bio:             "Loves baking pastries and exploring Italian cuisine",
			Avatar:          "https://images.unsplash.com/photo-1494790108755-2616b612b786?w=150&h=150&fit=crop&crop=face",
		},
		MyRecipes: []RecipeCard{
			{ID: 1, Name: "Lemon Tart", Image: "https://images.unsplash.com/photo-1578985545062-69928b1d9587?w=150&h=150&fit=crop"},
			{ID: 2, Name: "Spaghetti Bolognese", Image: "https://images.unsplash.com/photo-1621996346565-e3dbc353d2e5?w=150&h=150&fit=crop"},
			{ID: 3, Name: "Blueberry Pancakes", Image: "https://images.unsplash.com/photo-1567620905732-2d1ec7ab7445?w=150&h=150&fit=crop"},
		},
		SavedRecipes: []RecipeCard{
			{ID: 1, Name: "Fruit Salad", Image: "https://images.unsplash.com/photo-1519996529931-28324d5a630e?w=120&h=120&fit=crop"},
			{ID: 2, Name: "Vegetable Salad", Image: "https://images.unsplash.com/photo-1540420773420-3366772f4999?w=120&h=120&fit=crop"},
		},
	}
}
