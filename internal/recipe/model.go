package recipe

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Recipe represents a single row of the recipes table.
type Recipe struct {
	ID           int64  `json:"id" yaml:"id" db:"id"`
	Title        string `json:"title" yaml:"title" db:"title"`
	Category     string `json:"category,omitempty" yaml:"category" db:"category"`
	ImageURL     string `json:"image_url,omitempty" yaml:"image_url" db:"image_url"`
	Ingredients  string `json:"ingredients,omitempty" yaml:"ingredients" db:"ingredients"`
	Instructions string `json:"instructions,omitempty" yaml:"instructions" db:"instructions"`
	CookingTime  string `json:"cooking_time,omitempty" yaml:"cooking_time" db:"cooking_time"`
	Difficulty   string `json:"difficulty,omitempty" yaml:"difficulty" db:"difficulty"`
	VideoURL     string `json:"video_url,omitempty" yaml:"video_url" db:"video_url"`
}

// UnmarshalJSON implements the json.Unmarshaler interface for Recipe.
// Ingredients and instructions may arrive either as a single text block or
// as a list of lines; lists are joined with newlines. A null title or
// category decodes as the empty string.
func (r *Recipe) UnmarshalJSON(data []byte) error {
	type Alias Recipe // Create an alias to avoid infinite recursion
	aux := &struct {
		Ingredients  json.RawMessage `json:"ingredients"`
		Instructions json.RawMessage `json:"instructions"`
		*Alias
	}{
		Alias: (*Alias)(r),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	var err error
	if r.Ingredients, err = textOrLines(aux.Ingredients); err != nil {
		return fmt.Errorf("ingredients: %w", err)
	}
	if r.Instructions, err = textOrLines(aux.Instructions); err != nil {
		return fmt.Errorf("instructions: %w", err)
	}

	return nil
}

func textOrLines(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text, nil
	}
	var lines []string
	if err := json.Unmarshal(raw, &lines); err != nil {
		return "", fmt.Errorf("expected string or list of strings")
	}
	return strings.Join(lines, "\n"), nil
}
