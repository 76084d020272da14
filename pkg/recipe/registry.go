package recipe

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/Sumatoshi-tech/hibmigrate/pkg/levenshtein"
)

// ErrUnknownRecipe is returned when registry lookup fails.
var ErrUnknownRecipe = errors.New("unknown recipe")

// ErrDuplicateRecipe is returned when a name is registered twice.
var ErrDuplicateRecipe = errors.New("duplicate recipe")

// Registry maps stable recipe names to recipes.
type Registry struct {
	mu    sync.RWMutex
	index map[string]Recipe
}

// NewRegistry creates a registry holding the given recipes.
func NewRegistry(recipes ...Recipe) (*Registry, error) {
	reg := &Registry{index: make(map[string]Recipe, len(recipes))}

	for _, r := range recipes {
		err := reg.Register(r)
		if err != nil {
			return nil, err
		}
	}

	return reg, nil
}

// Register adds r under its name.
func (reg *Registry) Register(r Recipe) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if reg.index == nil {
		reg.index = make(map[string]Recipe)
	}

	if _, exists := reg.index[r.Name()]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateRecipe, r.Name())
	}

	reg.index[r.Name()] = r

	return nil
}

// Lookup returns the recipe registered under name. Names are case-sensitive.
func (reg *Registry) Lookup(name string) (Recipe, error) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	r, ok := reg.index[name]
	if !ok {
		if hint, found := reg.suggest(name); found {
			return nil, fmt.Errorf("%w: %s (did you mean %s?)", ErrUnknownRecipe, name, hint)
		}

		return nil, fmt.Errorf("%w: %s", ErrUnknownRecipe, name)
	}

	return r, nil
}

// suggest finds a registered name close to a mistyped one. A bare simple
// name such as MigrateUserType matches its qualified form. Callers hold mu.
func (reg *Registry) suggest(name string) (string, bool) {
	names := make([]string, 0, len(reg.index))
	for n := range reg.index {
		names = append(names, n)
	}

	sort.Strings(names)

	for _, n := range names {
		if strings.EqualFold(n[strings.LastIndexByte(n, '.')+1:], name) {
			return n, true
		}
	}

	return levenshtein.Closest(name, names, max(2, len(name)/10))
}

// All returns every recipe sorted by name.
func (reg *Registry) All() []Recipe {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	out := make([]Recipe, 0, len(reg.index))
	for _, r := range reg.index {
		out = append(out, r)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })

	return out
}

// Kind classifies a recipe for listings.
func Kind(r Recipe) string {
	switch r.(type) {
	case *Composite:
		return "composite"
	case *External:
		return "external"
	default:
		return "rule"
	}
}
