package recipe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// SeedFile is the on-disk format accepted by LoadSeedFile.
type SeedFile struct {
	Recipes []Recipe `json:"recipes" yaml:"recipes"`
}

// LoadSeedFile reads recipes from a YAML or JSON file. The format is
// chosen by extension; .json is JSON, everything else is YAML.
func LoadSeedFile(path string) ([]Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var seed SeedFile
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &seed)
	} else {
		err = yaml.Unmarshal(data, &seed)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}

	for i, r := range seed.Recipes {
		if strings.TrimSpace(r.Title) == "" {
			return nil, fmt.Errorf("seed file %s: recipe %d has no title", path, i+1)
		}
	}

	return seed.Recipes, nil
}

// Seed saves every recipe into the store and returns how many were saved.
func Seed(ctx context.Context, store Store, recipes []Recipe) (int, error) {
	for i := range recipes {
		if err := store.SaveRecipe(ctx, &recipes[i]); err != nil {
			return i, fmt.Errorf("failed to seed recipe %q: %w", recipes[i].Title, err)
		}
	}
	return len(recipes), nil
}

// UnmarshalYAML implements the yaml.Unmarshaler interface for Recipe with
// the same list handling as UnmarshalJSON.
func (r *Recipe) UnmarshalYAML(value *yaml.Node) error {
	var aux struct {
		ID           int64     `yaml:"id"`
		Title        string    `yaml:"title"`
		Category     string    `yaml:"category"`
		ImageURL     string    `yaml:"image_url"`
		Ingredients  yaml.Node `yaml:"ingredients"`
		Instructions yaml.Node `yaml:"instructions"`
		CookingTime  string    `yaml:"cooking_time"`
		Difficulty   string    `yaml:"difficulty"`
		VideoURL     string    `yaml:"video_url"`
	}
	if err := value.Decode(&aux); err != nil {
		return err
	}

	ingredients, err := nodeTextOrLines(&aux.Ingredients)
	if err != nil {
		return fmt.Errorf("ingredients: %w", err)
	}
	instructions, err := nodeTextOrLines(&aux.Instructions)
	if err != nil {
		return fmt.Errorf("instructions: %w", err)
	}

	*r = Recipe{
		ID:           aux.ID,
		Title:        aux.Title,
		Category:     aux.Category,
		ImageURL:     aux.ImageURL,
		Ingredients:  ingredients,
		Instructions: instructions,
		CookingTime:  aux.CookingTime,
		Difficulty:   aux.Difficulty,
		VideoURL:     aux.VideoURL,
	}
	return nil
}

func nodeTextOrLines(node *yaml.Node) (string, error) {
	switch node.Kind {
	case 0:
		return "", nil
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			return "", nil
		}
		return node.Value, nil
	case yaml.SequenceNode:
		var lines []string
		if err := node.Decode(&lines); err != nil {
			return "", err
		}
		return strings.Join(lines, "\n"), nil
	default:
		return "", fmt.Errorf("expected string or list of strings")
	}
}
