// Package java holds general purpose Java source rules that the Hibernate
// migrations build on.
package java

import (
	"strings"
	"unicode"

	"github.com/Sumatoshi-tech/hibmigrate/pkg/jast"
	"github.com/Sumatoshi-tech/hibmigrate/pkg/jtypes"
	"github.com/Sumatoshi-tech/hibmigrate/pkg/match"
	"github.com/Sumatoshi-tech/hibmigrate/pkg/recipe"
)

// Prefix namespaces every rule in this package.
const Prefix = "hibmigrate.java."

// ChangePackage moves references to types in OldPackage over to NewPackage.
// Imports, the package declaration and fully qualified names are rewritten.
type ChangePackage struct {
	recipe.Info

	OldPackage string
	NewPackage string
	// Recursive also moves subpackages of OldPackage.
	Recursive bool
}

// NewChangePackage creates a package rename rule registered under name.
func NewChangePackage(name, oldPackage, newPackage string, recursive bool) *ChangePackage {
	return &ChangePackage{
		Info: recipe.Info{
			ID:      name,
			Display: "Rename package `" + oldPackage + "` to `" + newPackage + "`",
			Summary: "A recipe that will rename a package name in package statements, imports, and fully-qualified types.",
		},
		OldPackage: oldPackage,
		NewPackage: newPackage,
		Recursive:  recursive,
	}
}

// JavaxPersistenceToJakarta moves JPA from javax.persistence to jakarta.persistence.
func JavaxPersistenceToJakarta() *ChangePackage {
	r := NewChangePackage(Prefix+"JavaxPersistenceToJakarta", "javax.persistence", "jakarta.persistence", true)
	r.Display = "Migrate deprecated `javax.persistence` packages to `jakarta.persistence`"
	r.Summary = "Java EE has been rebranded to Jakarta EE, necessitating a package relocation."

	return r
}

// VladmihalceaToHypersistence moves hibernate-types to hypersistence-utils.
func VladmihalceaToHypersistence() *ChangePackage {
	r := NewChangePackage(Prefix+"VladmihalceaToHypersistence",
		"com.vladmihalcea.hibernate", "io.hypersistence.utils.hibernate", true)
	r.Display = "Migrate `com.vladmihalcea:hibernate-types` to `io.hypersistence:hypersistence-utils`"
	r.Summary = "The hibernate-types library was renamed to hypersistence-utils; its packages moved accordingly."

	return r
}

// Rules returns a fresh instance of every rule, in registration order.
func Rules() []recipe.Rule {
	return []recipe.Rule{
		JavaxPersistenceToJakarta(),
		VladmihalceaToHypersistence(),
	}
}

// Register adds every rule to reg.
func Register(reg *recipe.Registry) error {
	for _, rule := range Rules() {
		err := reg.Register(rule)
		if err != nil {
			return err
		}
	}

	return nil
}

// Gate implements recipe.Rule.
func (r *ChangePackage) Gate() match.Gate {
	return match.NewGate("mentionsPackage("+r.OldPackage+")", func(scope *jtypes.Scope) bool {
		found := false

		scope.File.Root.Walk(func(n *jast.Node) bool {
			if found {
				return false
			}

			if n.Is(jast.KindScopedIdentifier, jast.KindScopedTypeIdentifier, jast.KindFieldAccess) {
				if _, ok := r.rename(scope.File.Text(n)); ok {
					found = true
				}

				return false
			}

			return true
		})

		return found
	})
}

// Visit implements recipe.Rule.
func (r *ChangePackage) Visit(c *recipe.Context) error {
	c.File.Root.Walk(func(n *jast.Node) bool {
		if !n.Is(jast.KindScopedIdentifier, jast.KindScopedTypeIdentifier, jast.KindFieldAccess) {
			return true
		}

		renamed, ok := r.rename(c.Text(n))
		if !ok {
			return true
		}

		c.Replace(n, renamed)

		return false
	})

	return nil
}

// rename maps a qualified name written in source to its new form. The name
// may be the package itself or a type, member or subpackage inside it.
func (r *ChangePackage) rename(name string) (string, bool) {
	if strings.ContainsFunc(name, unicode.IsSpace) {
		return "", false
	}

	if name == r.OldPackage {
		return r.NewPackage, true
	}

	rest, ok := strings.CutPrefix(name, r.OldPackage+".")
	if !ok {
		return "", false
	}

	if !r.Recursive && !typeLike(strings.SplitN(rest, ".", 2)[0]) {
		return "", false
	}

	return r.NewPackage + "." + rest, true
}

func typeLike(segment string) bool {
	for _, r := range segment {
		return unicode.IsUpper(r)
	}

	return false
}
