package match

import (
	"github.com/Sumatoshi-tech/hibmigrate/pkg/jast"
	"github.com/Sumatoshi-tech/hibmigrate/pkg/jtypes"
)

// AnnotationMatcher matches annotations by resolved type name.
type AnnotationMatcher struct {
	types []TypePattern
}

// NewAnnotationMatcher matches annotations whose type satisfies any of the
// given type patterns.
func NewAnnotationMatcher(patterns ...string) AnnotationMatcher {
	m := AnnotationMatcher{types: make([]TypePattern, 0, len(patterns))}

	for _, raw := range patterns {
		m.types = append(m.types, MustTypePattern(raw))
	}

	return m
}

// Matches reports whether ann is a matching annotation.
func (m AnnotationMatcher) Matches(scope *jtypes.Scope, ann *jast.Node) bool {
	return m.Resolve(scope, ann) != ""
}

// Resolve returns the annotation's fully qualified type when it matches.
func (m AnnotationMatcher) Resolve(scope *jtypes.Scope, ann *jast.Node) string {
	if !jast.IsAnnotation(ann) {
		return ""
	}

	fqn := scope.ResolveName(scope.File.AnnotationName(ann))

	for _, p := range m.types {
		if p.Matches(fqn) {
			return fqn
		}
	}

	return ""
}

// FindOn returns the annotations on decl matching m, in source order.
func (m AnnotationMatcher) FindOn(scope *jtypes.Scope, decl *jast.Node) []*jast.Node {
	var out []*jast.Node

	for _, ann := range jast.Annotations(decl) {
		if m.Matches(scope, ann) {
			out = append(out, ann)
		}
	}

	return out
}
