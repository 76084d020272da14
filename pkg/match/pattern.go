// Package match builds predicates over Java syntax: type patterns, method
// signatures, annotations, and per-file precondition gates.
package match

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Sumatoshi-tech/hibmigrate/pkg/jtypes"
)

// ErrInvalidPattern is returned for malformed type or method patterns.
var ErrInvalidPattern = errors.New("invalid pattern")

// TypePattern matches fully qualified type names. Supported forms are an
// exact name, "*", "pkg.*" for a package, "pkg..*" for a package tree, and a
// bare java.lang simple name such as "String".
type TypePattern struct {
	raw    string
	exact  string
	prefix string
	any    bool
	tree   bool
}

// NewTypePattern parses a type pattern.
func NewTypePattern(raw string) (TypePattern, error) {
	raw = strings.TrimSpace(raw)

	switch {
	case raw == "":
		return TypePattern{}, fmt.Errorf("%w: empty type pattern", ErrInvalidPattern)
	case raw == "*":
		return TypePattern{raw: raw, any: true}, nil
	case strings.HasSuffix(raw, "..*"):
		return TypePattern{raw: raw, prefix: strings.TrimSuffix(raw, "..*"), tree: true}, nil
	case strings.HasSuffix(raw, ".*"):
		return TypePattern{raw: raw, prefix: strings.TrimSuffix(raw, ".*")}, nil
	case strings.Contains(raw, "*"):
		return TypePattern{}, fmt.Errorf("%w: unsupported wildcard in %q", ErrInvalidPattern, raw)
	case !strings.Contains(raw, ".") && !primitive(raw) && raw != strings.ToLower(raw):
		return TypePattern{raw: raw, exact: "java.lang." + raw}, nil
	default:
		return TypePattern{raw: raw, exact: raw}, nil
	}
}

// MustTypePattern is like [NewTypePattern] but panics on error.
func MustTypePattern(raw string) TypePattern {
	p, err := NewTypePattern(raw)
	if err != nil {
		panic(err)
	}

	return p
}

// String returns the pattern as written.
func (p TypePattern) String() string {
	return p.raw
}

// Matches reports whether fqn satisfies the pattern by name.
func (p TypePattern) Matches(fqn string) bool {
	switch {
	case fqn == "":
		return false
	case p.any:
		return true
	case p.exact != "":
		return fqn == p.exact
	case p.tree:
		return strings.HasPrefix(fqn, p.prefix+".")
	default:
		pkg, _, ok := cutLast(fqn)

		return ok && pkg == p.prefix
	}
}

// AssignableFrom reports whether a value of type fqn can be used where the
// pattern is expected. Exact patterns follow catalog supertypes.
func (p TypePattern) AssignableFrom(cat *jtypes.Catalog, fqn string) bool {
	if p.exact != "" && cat != nil {
		return cat.IsAssignable(fqn, p.exact)
	}

	return p.Matches(fqn)
}

// Exact returns the fully qualified name for exact patterns, or empty.
func (p TypePattern) Exact() string {
	return p.exact
}

func cutLast(fqn string) (before, after string, ok bool) {
	idx := strings.LastIndexByte(fqn, '.')
	if idx < 0 {
		return "", fqn, false
	}

	return fqn[:idx], fqn[idx+1:], true
}

func primitive(name string) bool {
	switch name {
	case "boolean", "byte", "char", "short", "int", "long", "float", "double", "void":
		return true
	}

	return false
}
