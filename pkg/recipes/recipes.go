// Package recipes assembles the built-in recipe registry: the Java and
// Hibernate rules plus the declarative composites that chain them.
package recipes

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/Sumatoshi-tech/hibmigrate/pkg/recipe"
	"github.com/Sumatoshi-tech/hibmigrate/pkg/recipes/hibernate"
	"github.com/Sumatoshi-tech/hibmigrate/pkg/recipes/java"
)

//go:embed recipes.yaml
var builtin []byte

// Registry returns a registry holding every built-in recipe plus the
// composites defined in the given YAML files.
func Registry(extraFiles ...string) (*recipe.Registry, error) {
	reg, err := recipe.NewRegistry()
	if err != nil {
		return nil, err
	}

	for _, register := range []func(*recipe.Registry) error{java.Register, hibernate.Register} {
		err = register(reg)
		if err != nil {
			return nil, err
		}
	}

	err = reg.LoadDefinitions(builtin)
	if err != nil {
		return nil, fmt.Errorf("built-in recipes: %w", err)
	}

	for _, path := range extraFiles {
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil, fmt.Errorf("read recipes %s: %w", path, readErr)
		}

		err = reg.LoadDefinitions(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	return reg, nil
}
