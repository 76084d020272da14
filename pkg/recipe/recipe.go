// Package recipe defines the rewrite model: rules that rewrite one Java file,
// composites that chain them, and the engine that runs either over source.
package recipe

import (
	"github.com/Sumatoshi-tech/hibmigrate/pkg/match"
)

// Recipe is a named transformation.
type Recipe interface {
	// Name is the stable identifier, for example hibmigrate.hibernate.MigrateUserType.
	Name() string
	DisplayName() string
	Description() string
}

// Rule is a recipe that rewrites a single compilation unit.
type Rule interface {
	Recipe
	// Gate decides cheaply whether Visit can have any effect on a file.
	Gate() match.Gate
	// Visit records edits and import changes on the context. Not-applicable
	// nodes are skipped silently; an error aborts the file.
	Visit(ctx *Context) error
}

// Info carries the descriptive fields shared by every recipe kind. Rules
// embed it to satisfy the naming half of [Recipe].
type Info struct {
	ID      string
	Display string
	Summary string
}

// Name returns the stable identifier.
func (i Info) Name() string { return i.ID }

// DisplayName returns the human readable title.
func (i Info) DisplayName() string { return i.Display }

// Description returns the one-paragraph description.
func (i Info) Description() string { return i.Summary }

// Composite runs its steps in order, re-parsing the source between them.
type Composite struct {
	Info

	Steps []Recipe
	// Precondition, when set, must pass on the file before any step runs.
	Precondition match.Gate
}

// External is a step that rewrites build descriptors, such as a dependency
// version bump. Java files are never touched by it; runs report it as skipped.
type External struct {
	Info

	// Kind names the build operation, for example upgradeDependencyVersion.
	Kind string
	// Options holds the operation's arguments as written in the definition.
	Options map[string]string
}

// Flatten expands composites depth-first into their leaf recipes.
func Flatten(r Recipe) []Recipe {
	composite, ok := r.(*Composite)
	if !ok {
		return []Recipe{r}
	}

	var out []Recipe

	for _, step := range composite.Steps {
		out = append(out, Flatten(step)...)
	}

	return out
}
