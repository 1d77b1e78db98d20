package texture

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Prompt library errors.
var (
	ErrNoRecipes      = errors.New("prompt library does not define any recipes")
	ErrRecipeNotFound = errors.New("recipe not found in prompt library")
)

// PromptLibrary wraps the YAML prompt recipe library. Recipes are high-level
// material sets; declaration order is preserved so the first recipe acts as
// the default.
type PromptLibrary struct {
	names   []string
	recipes map[string]map[string]any
}

// LoadPromptLibrary reads and parses a YAML prompt library.
func LoadPromptLibrary(path string) (*PromptLibrary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parsePromptLibrary(data)
}

func parsePromptLibrary(data []byte) (*PromptLibrary, error) {
	var doc struct {
		Recipes yaml.Node `yaml:"recipes"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing prompt library: %w", err)
	}

	lib := &PromptLibrary{recipes: make(map[string]map[string]any)}
	if doc.Recipes.Kind == 0 {
		return lib, nil
	}
	if doc.Recipes.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("prompt library recipes must be a mapping, got %v", doc.Recipes.Kind)
	}

	// Mapping node content alternates key, value.
	for i := 0; i+1 < len(doc.Recipes.Content); i += 2 {
		name := doc.Recipes.Content[i].Value
		var body map[string]any
		if err := doc.Recipes.Content[i+1].Decode(&body); err != nil {
			return nil, fmt.Errorf("recipe %q must be a mapping: %w", name, err)
		}
		lib.names = append(lib.names, name)
		lib.recipes[name] = body
	}
	return lib, nil
}

// HasRecipe reports whether the library defines the named recipe.
func (l *PromptLibrary) HasRecipe(name string) bool {
	_, ok := l.recipes[name]
	return ok
}

// RecipeNames returns recipe names in declaration order.
func (l *PromptLibrary) RecipeNames() []string {
	return append([]string(nil), l.names...)
}

// Recipe returns the named recipe body.
func (l *PromptLibrary) Recipe(name string) (map[string]any, error) {
	body, ok := l.recipes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrRecipeNotFound, name)
	}
	return body, nil
}

// DefaultRecipe returns the first declared recipe name.
func (l *PromptLibrary) DefaultRecipe() (string, error) {
	if len(l.names) == 0 {
		return "", ErrNoRecipes
	}
	return l.names[0], nil
}

// SelectRecipe resolves the recipe for a request: the metadata-requested
// name when the library defines it, else the library default, else the
// requested name as-is. A nil library degrades to the requested name or
// "default".
func SelectRecipe(lib *PromptLibrary, metadata map[string]string) string {
	requested := metadata["recipe"]
	if lib == nil {
		if requested == "" {
			return "default"
		}
		return requested
	}

	if requested != "" && lib.HasRecipe(requested) {
		return requested
	}
	if name, err := lib.DefaultRecipe(); err == nil {
		return name
	}
	if requested != "" {
		return requested
	}
	return "default"
}
