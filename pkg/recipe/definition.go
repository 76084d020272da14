package recipe

import (
	_ "embed"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed definition.schema.json
var definitionSchema []byte

// ErrInvalidDefinition is returned when a declarative recipe document is malformed.
var ErrInvalidDefinition = errors.New("invalid recipe definition")

// Definition is a declarative composite as written in YAML.
type Definition struct {
	Name        string `yaml:"name"`
	DisplayName string `yaml:"displayName"`
	Description string `yaml:"description"`
	// RecipeList entries are recipe names or single-key maps describing an
	// external build step.
	RecipeList []any `yaml:"recipeList"`
}

type definitionDoc struct {
	Recipes []Definition `yaml:"recipes"`
}

// ParseDefinitions validates and decodes a YAML document of composites.
func ParseDefinitions(data []byte) ([]Definition, error) {
	var generic any

	err := yaml.Unmarshal(data, &generic)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDefinition, err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(definitionSchema),
		gojsonschema.NewGoLoader(generic),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDefinition, err)
	}

	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}

		return nil, fmt.Errorf("%w: %s", ErrInvalidDefinition, strings.Join(msgs, "; "))
	}

	var doc definitionDoc

	err = yaml.Unmarshal(data, &doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDefinition, err)
	}

	return doc.Recipes, nil
}

// LoadDefinitions parses data and registers every composite it defines.
// Definitions may refer to each other in any order.
func (reg *Registry) LoadDefinitions(data []byte) error {
	defs, err := ParseDefinitions(data)
	if err != nil {
		return err
	}

	return reg.AddDefinitions(defs)
}

// AddDefinitions resolves definitions against the registry and registers
// them. A definition is resolved once every name it lists is known.
func (reg *Registry) AddDefinitions(defs []Definition) error {
	pending := slices.Clone(defs)

	for len(pending) > 0 {
		var next []Definition

		for _, def := range pending {
			composite, missing := reg.resolve(def)
			if missing != "" {
				next = append(next, def)

				continue
			}

			err := reg.Register(composite)
			if err != nil {
				return err
			}
		}

		if len(next) == len(pending) {
			_, missing := reg.resolve(next[0])

			return fmt.Errorf("%w: %s referenced by %s", ErrUnknownRecipe, missing, next[0].Name)
		}

		pending = next
	}

	return nil
}

func (reg *Registry) resolve(def Definition) (*Composite, string) {
	composite := &Composite{Info: Info{ID: def.Name, Display: def.DisplayName, Summary: def.Description}}

	for _, item := range def.RecipeList {
		switch entry := item.(type) {
		case string:
			step, err := reg.Lookup(entry)
			if err != nil {
				return nil, entry
			}

			composite.Steps = append(composite.Steps, step)
		case map[string]any:
			composite.Steps = append(composite.Steps, newExternal(entry))
		}
	}

	return composite, ""
}

func newExternal(entry map[string]any) *External {
	ext := &External{Options: make(map[string]string)}

	for kind, raw := range entry {
		ext.Kind = kind

		if opts, ok := raw.(map[string]any); ok {
			for key, value := range opts {
				ext.Options[key] = fmt.Sprint(value)
			}
		}
	}

	parts := make([]string, 0, len(ext.Options))
	for _, key := range slices.Sorted(maps.Keys(ext.Options)) {
		parts = append(parts, key+"="+ext.Options[key])
	}

	ext.ID = ext.Kind + "(" + strings.Join(parts, ", ") + ")"
	ext.Display = ext.Kind
	ext.Summary = "Build descriptor change applied outside Java sources."

	return ext
}
