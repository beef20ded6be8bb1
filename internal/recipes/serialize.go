package recipes

import (
	"fmt"

	"recipe-importer/pkg/api"

	"gopkg.in/yaml.v2"
)

type recipeTraining struct {
	Plugin string         `yaml:"plugin,omitempty"`
	Config map[string]any `yaml:"config,omitempty"`
}

type recipeDocument struct {
	Name        string          `yaml:"name"`
	Description string          `yaml:"description,omitempty"`
	Training    *recipeTraining `yaml:"training,omitempty"`
	Model       *api.ModelRef   `yaml:"model,omitempty"`
	Dataset     *api.DatasetRef `yaml:"dataset,omitempty"`
	Tags        []string        `yaml:"tags,omitempty"`
}

// MarshalRecipe renders a gallery descriptor in the YAML format the import
// endpoint accepts. Map keys are emitted in sorted order.
func MarshalRecipe(desc api.RecipeDescriptor) (string, error) {
	if desc.Name == "" {
		return "", ErrEmptyName
	}

	doc := recipeDocument{
		Name:        desc.Name,
		Description: desc.Description,
		Model:       desc.Model,
		Dataset:     desc.Dataset,
		Tags:        desc.Tags,
	}
	if desc.Plugin != "" || len(desc.Config) > 0 {
		doc.Training = &recipeTraining{Plugin: desc.Plugin, Config: desc.Config}
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("error serializing recipe '%s': %w", desc.Name, err)
	}
	return string(out), nil
}
